package protocol

import (
	"encoding/binary"
	"math"
)

// BytesToSamples converts f32le PCM bytes to samples. A trailing partial
// sample, if any, is ignored.
func BytesToSamples(data []byte) []float32 {
	samples := make([]float32, len(data)/BytesPerSample)
	for i := range samples {
		bits := binary.LittleEndian.Uint32(data[i*BytesPerSample:])
		samples[i] = math.Float32frombits(bits)
	}
	return samples
}

// SamplesToBytes converts samples to f32le PCM bytes.
func SamplesToBytes(samples []float32) []byte {
	data := make([]byte, len(samples)*BytesPerSample)
	for i, s := range samples {
		binary.LittleEndian.PutUint32(data[i*BytesPerSample:], math.Float32bits(s))
	}
	return data
}
