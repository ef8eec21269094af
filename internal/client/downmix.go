package client

// Downmix converts interleaved 48 kHz capture data to the mono 16 kHz
// stream the recognizer expects: every third frame is kept and its
// channels are averaged.
func Downmix(data []float32, channels int) []float32 {
	if channels <= 0 {
		return nil
	}
	frames := len(data) / channels
	out := make([]float32, 0, (frames+2)/3)
	for f := 0; f < frames; f += 3 {
		var sum float32
		for c := 0; c < channels; c++ {
			sum += data[f*channels+c]
		}
		out = append(out, sum/float32(channels))
	}
	return out
}
