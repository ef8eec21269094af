package recognize

import "fmt"

// Recognizer decodes one audio segment into subword tokens with
// per-token timestamps (seconds relative to the segment start).
type Recognizer interface {
	Decode(samples []float32, sampleRate int) (tokens []string, timestamps []float64, err error)
	Close()
}

// Punctuator restores punctuation in rendered text. It is applied to
// final results only.
type Punctuator interface {
	Punctuate(text string) (string, error)
	Close()
}

// Engine kinds accepted in the server config.
const (
	EnginePara       = "paraformer"
	EngineSenseVoice = "sensevoice"
)

// ModelConfig selects and parameterizes the speech engine.
type ModelConfig struct {
	Engine         string  `toml:"engine"` // "paraformer" or "sensevoice"
	Model          string  `toml:"model"`  // path to model.onnx / model.int8.onnx
	Tokens         string  `toml:"tokens"` // path to tokens.txt
	NumThreads     int     `toml:"num_threads"`
	Language       string  `toml:"language"`        // sensevoice only: zh, en, ja, ko, yue, auto
	DecodingMethod string  `toml:"decoding_method"` // paraformer only, default greedy_search
	SampleRate     int     `toml:"sample_rate"`
	FeatureDim     int     `toml:"feature_dim"`
}

// PuncConfig parameterizes the CT-Transformer punctuation model.
// A nil PuncConfig disables punctuation.
type PuncConfig struct {
	Model string `toml:"model"` // path to the ct-transformer onnx file
}

// NewRecognizer constructs the configured speech engine.
func NewRecognizer(cfg *ModelConfig) (Recognizer, error) {
	switch cfg.Engine {
	case EnginePara:
		return newParaformer(cfg)
	case EngineSenseVoice:
		return newSenseVoice(cfg)
	default:
		return nil, fmt.Errorf("unsupported engine %q", cfg.Engine)
	}
}
