package recognize

import (
	"fmt"

	sherpa "github.com/k2-fsa/sherpa-onnx-go/sherpa_onnx"
)

// ctTransformer wraps the sherpa-onnx CT-Transformer punctuation model.
type ctTransformer struct {
	punct *sherpa.OfflinePunctuation
}

// NewPunctuator loads the configured punctuation model. A nil config
// returns (nil, nil): punctuation disabled.
func NewPunctuator(cfg *PuncConfig) (Punctuator, error) {
	if cfg == nil {
		return nil, nil
	}

	sherpaConfig := sherpa.OfflinePunctuationConfig{
		Model: sherpa.OfflinePunctuationModelConfig{
			CtTransformer: cfg.Model,
			// The binding declares this field with a cgo int type, so
			// only an untyped constant assigns to it.
			NumThreads: 2,
			Debug:      0,
			Provider:   "cpu",
		},
	}

	punct := sherpa.NewOfflinePunctuation(&sherpaConfig)
	if punct == nil {
		return nil, fmt.Errorf("failed to create punctuation model from %s", cfg.Model)
	}
	return &ctTransformer{punct: punct}, nil
}

func (c *ctTransformer) Punctuate(text string) (string, error) {
	if text == "" {
		return "", nil
	}
	return c.punct.AddPunct(text), nil
}

func (c *ctTransformer) Close() {
	if c.punct != nil {
		sherpa.DeleteOfflinePunc(c.punct)
		c.punct = nil
	}
}
