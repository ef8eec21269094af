package recognize

import (
	"fmt"

	sherpa "github.com/k2-fsa/sherpa-onnx-go/sherpa_onnx"
)

// senseVoice wraps a sherpa-onnx offline SenseVoice model.
type senseVoice struct {
	recognizer *sherpa.OfflineRecognizer
}

func newSenseVoice(cfg *ModelConfig) (*senseVoice, error) {
	language := cfg.Language
	if language == "" {
		language = "auto"
	}

	sherpaConfig := sherpa.OfflineRecognizerConfig{
		FeatConfig: sherpa.FeatureConfig{
			SampleRate: cfg.SampleRate,
			FeatureDim: cfg.FeatureDim,
		},
		ModelConfig: sherpa.OfflineModelConfig{
			SenseVoice: sherpa.OfflineSenseVoiceModelConfig{
				Model:    cfg.Model,
				Language: language,
				// The merge engine and final ITN pass own all text
				// post-processing; keep the model output raw.
				UseInverseTextNormalization: 0,
			},
			Tokens:     cfg.Tokens,
			NumThreads: cfg.NumThreads,
			Debug:      0,
		},
	}

	recognizer := sherpa.NewOfflineRecognizer(&sherpaConfig)
	if recognizer == nil {
		return nil, fmt.Errorf("failed to create sensevoice recognizer from %s", cfg.Model)
	}
	return &senseVoice{recognizer: recognizer}, nil
}

func (s *senseVoice) Decode(samples []float32, sampleRate int) ([]string, []float64, error) {
	stream := sherpa.NewOfflineStream(s.recognizer)
	defer sherpa.DeleteOfflineStream(stream)

	stream.AcceptWaveform(sampleRate, samples)
	s.recognizer.Decode(stream)

	result := stream.GetResult()
	if result == nil {
		return nil, nil, fmt.Errorf("sensevoice returned no result")
	}
	return tokensAndTimestamps(result)
}

func (s *senseVoice) Close() {
	if s.recognizer != nil {
		sherpa.DeleteOfflineRecognizer(s.recognizer)
		s.recognizer = nil
	}
}
