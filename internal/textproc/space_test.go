package textproc

import "testing"

func TestAdjustSpace(t *testing.T) {
	tests := []struct {
		in, want string
	}{
		{"", ""},
		{"中文测试", "中文测试"},
		{"中文 测试", "中文测试"},
		{"中文      测试   ", "中文测试"},
		{"English Test", "English Test"},
		{"English        Test", "English Test"},
		{"中文English", "中文 English"},
		{"中 文English", "中文 English"},
		{"中文1", "中文 1"},
		{"中文          1中文", "中文 1 中文"},
		{"English1", "English 1"},
		{"中文1中文English1中文English", "中文 1 中文 English 1 中文 English"},
	}
	for _, tt := range tests {
		if got := AdjustSpace(tt.in); got != tt.want {
			t.Errorf("AdjustSpace(%q) = %q, want %q", tt.in, got, tt.want)
		}
	}
}

func TestAdjustSpaceIdempotent(t *testing.T) {
	inputs := []string{"中 文English", "中文1English", "你好。 Hello world 123"}
	for _, in := range inputs {
		once := AdjustSpace(in)
		if twice := AdjustSpace(once); twice != once {
			t.Errorf("not idempotent on %q: %q -> %q", in, once, twice)
		}
	}
}
