package client

import (
	"encoding/json"
	"os"
	"path/filepath"
	"strings"
	"testing"

	"dikto/internal/protocol"
)

func TestWriteSidecars(t *testing.T) {
	dir := t.TempDir()
	media := filepath.Join(dir, "talk.mp4")

	res := &protocol.ResultFrame{
		TaskID:     "t1",
		Text:       "你好，世界。再见",
		Tokens:     []string{"你", "好", "，", "世", "界", "。", "再", "见"},
		Timestamps: []float64{0.1, 0.3, 0.5, 0.8, 1.0, 1.2, 1.5, 1.7},
		IsFinal:    true,
	}
	if err := writeSidecars(media, res); err != nil {
		t.Fatalf("writeSidecars: %v", err)
	}

	merge, err := os.ReadFile(filepath.Join(dir, "talk.merge.txt"))
	if err != nil {
		t.Fatalf("merge transcript missing: %v", err)
	}
	if string(merge) != res.Text {
		t.Errorf("merge transcript = %q", merge)
	}

	txt, err := os.ReadFile(filepath.Join(dir, "talk.txt"))
	if err != nil {
		t.Fatalf("split transcript missing: %v", err)
	}
	if string(txt) != "你好\n世界\n再见" {
		t.Errorf("split transcript = %q", txt)
	}

	raw, err := os.ReadFile(filepath.Join(dir, "talk.json"))
	if err != nil {
		t.Fatalf("alignment missing: %v", err)
	}
	var doc struct {
		Tokens     []string  `json:"tokens"`
		Timestamps []float64 `json:"timestamps"`
	}
	if err := json.Unmarshal(raw, &doc); err != nil {
		t.Fatalf("alignment not json: %v", err)
	}
	if len(doc.Tokens) != 8 || len(doc.Timestamps) != 8 {
		t.Errorf("alignment lengths %d/%d", len(doc.Tokens), len(doc.Timestamps))
	}

	srt, err := os.ReadFile(filepath.Join(dir, "talk.srt"))
	if err != nil {
		t.Fatalf("subtitles missing: %v", err)
	}
	if !strings.Contains(string(srt), "-->") {
		t.Errorf("subtitles have no cues:\n%s", srt)
	}
}
