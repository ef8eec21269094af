package recognize

import (
	"fmt"

	sherpa "github.com/k2-fsa/sherpa-onnx-go/sherpa_onnx"
)

// paraformer wraps a sherpa-onnx offline Paraformer model.
type paraformer struct {
	recognizer *sherpa.OfflineRecognizer
}

func newParaformer(cfg *ModelConfig) (*paraformer, error) {
	method := cfg.DecodingMethod
	if method == "" {
		method = "greedy_search"
	}

	sherpaConfig := sherpa.OfflineRecognizerConfig{
		FeatConfig: sherpa.FeatureConfig{
			SampleRate: cfg.SampleRate,
			FeatureDim: cfg.FeatureDim,
		},
		ModelConfig: sherpa.OfflineModelConfig{
			Paraformer: sherpa.OfflineParaformerModelConfig{
				Model: cfg.Model,
			},
			Tokens:     cfg.Tokens,
			NumThreads: cfg.NumThreads,
			Debug:      0,
		},
		DecodingMethod: method,
	}

	recognizer := sherpa.NewOfflineRecognizer(&sherpaConfig)
	if recognizer == nil {
		return nil, fmt.Errorf("failed to create paraformer recognizer from %s", cfg.Model)
	}
	return &paraformer{recognizer: recognizer}, nil
}

func (p *paraformer) Decode(samples []float32, sampleRate int) ([]string, []float64, error) {
	stream := sherpa.NewOfflineStream(p.recognizer)
	defer sherpa.DeleteOfflineStream(stream)

	stream.AcceptWaveform(sampleRate, samples)
	p.recognizer.Decode(stream)

	result := stream.GetResult()
	if result == nil {
		return nil, nil, fmt.Errorf("paraformer returned no result")
	}
	return tokensAndTimestamps(result)
}

func (p *paraformer) Close() {
	if p.recognizer != nil {
		sherpa.DeleteOfflineRecognizer(p.recognizer)
		p.recognizer = nil
	}
}

// tokensAndTimestamps extracts aligned token/timestamp slices from a
// sherpa result, dropping empty tokens.
func tokensAndTimestamps(result *sherpa.OfflineRecognizerResult) ([]string, []float64, error) {
	tokens := make([]string, 0, len(result.Tokens))
	timestamps := make([]float64, 0, len(result.Tokens))
	for i, text := range result.Tokens {
		if text == "" {
			continue
		}
		var ts float64
		if i < len(result.Timestamps) {
			ts = float64(result.Timestamps[i])
		} else if n := len(timestamps); n > 0 {
			ts = timestamps[n-1]
		}
		tokens = append(tokens, text)
		timestamps = append(timestamps, ts)
	}
	return tokens, timestamps, nil
}
