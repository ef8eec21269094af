// Package config loads the process configuration from config.toml with
// environment overrides for the connection address.
package config

import (
	"fmt"
	"os"
	"strconv"

	"dikto/internal/recognize"

	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml/v2"
)

// Config is the full on-disk configuration. Server and client read the
// same file; each side uses its own section.
type Config struct {
	Server ServerConfig `toml:"server"`
	Client ClientConfig `toml:"client"`
}

// ServerConfig configures the recognition service.
type ServerConfig struct {
	Addr string `toml:"addr"`
	Port int    `toml:"port"`

	RecognizeModel recognize.ModelConfig `toml:"recognize_model"`
	PuncModel      *recognize.PuncConfig `toml:"punc_model"` // nil disables punctuation

	FormatNum   bool `toml:"format_num"`   // rewrite Chinese numerals on final text
	FormatPunc  bool `toml:"format_punc"`  // run the punctuation model on final text
	FormatSpell bool `toml:"format_spell"` // normalize CJK/ASCII spacing on final text

	QueueSize int `toml:"queue_size"` // task/result queue bound
}

// ClientConfig configures the dictation client.
type ClientConfig struct {
	Addr string `toml:"addr"`
	Port int    `toml:"port"`

	SaveAudio    bool    `toml:"save_audio"`     // keep recordings on disk
	Threshold    float64 `toml:"threshold"`      // pre-trigger hold buffer, seconds
	Paste        bool    `toml:"paste"`          // true: clipboard paste, false: keystrokes
	RestoreClip  bool    `toml:"restore_clip"`   // restore clipboard content after paste
	TrashPunc    string  `toml:"trash_punc"`     // trailing punctuation stripped from results
	AudioNameLen int     `toml:"audio_name_len"` // text prefix length in recording names

	HotZh   bool `toml:"hot_zh"`
	HotEn   bool `toml:"hot_en"`
	HotRule bool `toml:"hot_rule"`
	HotKwd  bool `toml:"hot_kwd"`

	MicSegDuration  float64 `toml:"mic_seg_duration"`
	MicSegOverlap   float64 `toml:"mic_seg_overlap"`
	FileSegDuration float64 `toml:"file_seg_duration"`
	FileSegOverlap  float64 `toml:"file_seg_overlap"`
}

// Default returns the configuration used when config.toml is absent.
func Default() *Config {
	return &Config{
		Server: ServerConfig{
			Addr: "0.0.0.0",
			Port: 6016,
			RecognizeModel: recognize.ModelConfig{
				Engine:         recognize.EnginePara,
				Model:          "models/paraformer-offline-zh/model.int8.onnx",
				Tokens:         "models/paraformer-offline-zh/tokens.txt",
				NumThreads:     6,
				DecodingMethod: "greedy_search",
				SampleRate:     16000,
				FeatureDim:     80,
			},
			PuncModel: &recognize.PuncConfig{
				Model: "models/punc_ct-transformer_cn-en/model.onnx",
			},
			FormatNum:   true,
			FormatPunc:  true,
			FormatSpell: true,
			QueueSize:   64,
		},
		Client: ClientConfig{
			Addr:            "127.0.0.1",
			Port:            6016,
			SaveAudio:       true,
			Threshold:       0.3,
			Paste:           true,
			RestoreClip:     true,
			TrashPunc:       "，。,.",
			AudioNameLen:    20,
			HotZh:           true,
			HotEn:           true,
			HotRule:         true,
			HotKwd:          true,
			MicSegDuration:  15,
			MicSegOverlap:   2,
			FileSegDuration: 25,
			FileSegOverlap:  2,
		},
	}
}

// Load reads path on top of the defaults, then applies DIKTO_ADDR and
// DIKTO_PORT from the environment (a .env file is honored). A missing
// file is not an error; a malformed one is.
func Load(path string) (*Config, error) {
	cfg := Default()

	raw, err := os.ReadFile(path)
	switch {
	case os.IsNotExist(err):
		// Defaults only.
	case err != nil:
		return nil, fmt.Errorf("read config: %w", err)
	default:
		if err := toml.Unmarshal(raw, cfg); err != nil {
			return nil, fmt.Errorf("parse %s: %w", path, err)
		}
	}

	_ = godotenv.Load()
	if addr := os.Getenv("DIKTO_ADDR"); addr != "" {
		cfg.Server.Addr = addr
		cfg.Client.Addr = addr
	}
	if port := os.Getenv("DIKTO_PORT"); port != "" {
		p, err := strconv.Atoi(port)
		if err != nil {
			return nil, fmt.Errorf("DIKTO_PORT: %w", err)
		}
		cfg.Server.Port = p
		cfg.Client.Port = p
	}
	if cfg.Server.QueueSize <= 0 {
		cfg.Server.QueueSize = 64
	}
	return cfg, nil
}
