package client

import (
	"os"
	"path/filepath"
	"reflect"
	"testing"
)

func TestHotWordsLayers(t *testing.T) {
	h := NewHotWords(true, true, true)
	h.SetZh("深度学习 深度學習\n汽配 企培\n")
	h.SetEn("GitHub\nPyTorch\n# comment line\n")
	h.SetRules("改成等号 = =\nbad=good")

	tests := []struct {
		in, want string
	}{
		{"今天讲深度学习", "今天讲深度學習"},
		{"汽配的课程", "企培的课程"},
		{"push 到 github 上", "push 到 GitHub 上"},
		{"pytorch 很好用", "PyTorch 很好用"},
		{"this is bad", "this is good"},
		{"无关文本", "无关文本"},
	}
	for _, tt := range tests {
		if got := h.Sub(tt.in); got != tt.want {
			t.Errorf("Sub(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestHotWordsDisabledLayers(t *testing.T) {
	h := NewHotWords(false, false, false)
	h.SetZh("汽配 企培")
	h.SetEn("GitHub")
	if got := h.Sub("汽配 github"); got != "汽配 github" {
		t.Errorf("disabled layers still substituted: %q", got)
	}
}

func TestHotWordsLongestMatchFirst(t *testing.T) {
	h := NewHotWords(true, false, false)
	h.SetZh("深度 深渡\n深度学习 深度學習")
	if got := h.Sub("深度学习"); got != "深度學習" {
		t.Errorf("short key shadowed long key: %q", got)
	}
}

func TestHotWordsKeywords(t *testing.T) {
	h := NewHotWords(false, false, false)
	h.SetKeywords("# journals\n日记\n工作\n")
	want := []string{"", "日记", "工作"}
	if got := h.Keywords(); !reflect.DeepEqual(got, want) {
		t.Errorf("Keywords() = %v, want %v", got, want)
	}
}

func TestHotWordsLoadDir(t *testing.T) {
	dir := t.TempDir()
	if err := os.WriteFile(filepath.Join(dir, "hot-en.txt"), []byte("OpenAI\n"), 0o644); err != nil {
		t.Fatal(err)
	}

	h := NewHotWords(true, true, true)
	if err := h.LoadDir(dir); err != nil {
		t.Fatalf("LoadDir: %v", err)
	}
	if got := h.Sub("openai 发布了"); got != "OpenAI 发布了" {
		t.Errorf("Sub = %q", got)
	}
	// The other files are simply absent.
	if got := h.Sub("深度学习"); got != "深度学习" {
		t.Errorf("unexpected substitution: %q", got)
	}
}
