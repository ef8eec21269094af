package recognize

import (
	"reflect"
	"testing"
)

// Two overlapping segments must stitch into one stream without repeating
// the tokens that fall inside the overlap region.
func TestMergeTwoSegmentDedup(t *testing.T) {
	r := &Result{TaskID: "t"}

	// Segment [0,17): tokens A..E spread over the segment.
	Merge(r, SegmentOutput{
		Tokens:     []string{"A", "B", "C", "D", "E"},
		Timestamps: []float64{0.5, 4.0, 8.0, 15.2, 16.1},
		Duration:   17,
		Overlap:    2,
		Offset:     0,
	})
	// Segment [15,32): D and E appear again at the head.
	Merge(r, SegmentOutput{
		Tokens:     []string{"D", "E", "F", "G", "H"},
		Timestamps: []float64{0.2, 1.1, 3.0, 9.0, 14.0},
		Duration:   17,
		Overlap:    2,
		Offset:     15,
		IsFinal:    true,
	})

	wantTokens := []string{"A", "B", "C", "D", "E", "F", "G", "H"}
	if !reflect.DeepEqual(r.Tokens, wantTokens) {
		t.Errorf("tokens = %v, want %v", r.Tokens, wantTokens)
	}
	if r.Text != "A B C D E F G H" {
		t.Errorf("text = %q", r.Text)
	}
	if r.Duration != 32 {
		t.Errorf("duration = %g, want 32", r.Duration)
	}
	assertAligned(t, r)
}

// The first segment keeps its full head even when tokens fall inside the
// nominal front-trim window.
func TestMergeFirstSegmentKeepsHead(t *testing.T) {
	r := &Result{TaskID: "t"}
	Merge(r, SegmentOutput{
		Tokens:     []string{"你", "好"},
		Timestamps: []float64{0.3, 0.6},
		Duration:   17,
		Overlap:    2,
		Offset:     0,
	})
	if len(r.Tokens) != 2 {
		t.Fatalf("leading tokens dropped: %v", r.Tokens)
	}
	if r.Text != "你好" {
		t.Errorf("text = %q, want 你好", r.Text)
	}
}

// A final segment keeps its full tail, including tokens past the nominal
// back-trim boundary.
func TestMergeFinalSegmentKeepsTail(t *testing.T) {
	r := &Result{TaskID: "t"}
	Merge(r, SegmentOutput{
		Tokens:     []string{"a", "b"},
		Timestamps: []float64{0.1, 0.4},
		Duration:   17,
		Overlap:    2,
		Offset:     0,
	})
	Merge(r, SegmentOutput{
		Tokens:     []string{"x", "y", "z"},
		Timestamps: []float64{1.5, 2.0, 4.8},
		Duration:   5,
		Overlap:    2,
		Offset:     15,
		IsFinal:    true,
	})
	want := []string{"a", "b", "x", "y", "z"}
	if !reflect.DeepEqual(r.Tokens, want) {
		t.Errorf("tokens = %v, want %v", r.Tokens, want)
	}
	// 17-2 for the first segment, then the full 5 s of the final one.
	if r.Duration != 20 {
		t.Errorf("duration = %g, want 20", r.Duration)
	}
	assertAligned(t, r)
}

// The fine trim drops a single duplicated seam token that the coarse
// time trim let through.
func TestMergeFineTrimSingleToken(t *testing.T) {
	r := &Result{TaskID: "t"}
	Merge(r, SegmentOutput{
		Tokens:     []string{"q", "w", "e"},
		Timestamps: []float64{1.0, 8.0, 15.8},
		Duration:   17,
		Overlap:    2,
		Offset:     0,
	})
	// "e" survives the coarse front trim of the next segment because its
	// timestamp is just past overlap/2.
	Merge(r, SegmentOutput{
		Tokens:     []string{"e", "r", "t"},
		Timestamps: []float64{1.1, 5.0, 10.0},
		Duration:   17,
		Overlap:    2,
		Offset:     15,
		IsFinal:    true,
	})
	want := []string{"q", "w", "e", "r", "t"}
	if !reflect.DeepEqual(r.Tokens, want) {
		t.Errorf("tokens = %v, want %v", r.Tokens, want)
	}
	assertAligned(t, r)
}

func TestMergeEmptySegment(t *testing.T) {
	r := &Result{TaskID: "t"}
	Merge(r, SegmentOutput{Duration: 17, Overlap: 2, Offset: 0})
	Merge(r, SegmentOutput{Duration: 3, Overlap: 2, Offset: 15, IsFinal: true})
	if len(r.Tokens) != 0 || r.Text != "" {
		t.Errorf("expected empty result, got %v %q", r.Tokens, r.Text)
	}
	if r.Duration != 18 {
		t.Errorf("duration = %g, want 18", r.Duration)
	}
}

func assertAligned(t *testing.T, r *Result) {
	t.Helper()
	if len(r.Tokens) != len(r.Timestamps) {
		t.Fatalf("len(tokens)=%d len(timestamps)=%d", len(r.Tokens), len(r.Timestamps))
	}
	for i := 1; i < len(r.Timestamps); i++ {
		if r.Timestamps[i] < r.Timestamps[i-1] {
			t.Fatalf("timestamps not monotone at %d: %v", i, r.Timestamps)
		}
	}
}

func TestRenderText(t *testing.T) {
	tests := []struct {
		name   string
		tokens []string
		want   string
	}{
		{"empty", nil, ""},
		{"english words", []string{"hello", "world"}, "hello world"},
		{"subword continuation", []string{"tran@@", "scri@@", "ber"}, "transcriber"},
		{"cjk run", []string{"你", "好", "世", "界"}, "你好世界"},
		{"cjk then english", []string{"今", "天", "很", "happy"}, "今天很 happy"},
		{"mixed seam", []string{"A", "B", "，", "好"}, "A B ，好"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got := RenderText(tt.tokens)
			if got != tt.want {
				t.Errorf("RenderText(%v) = %q, want %q", tt.tokens, got, tt.want)
			}
			// Rendering is pure.
			if again := RenderText(tt.tokens); again != got {
				t.Errorf("RenderText not deterministic: %q vs %q", got, again)
			}
		})
	}
}
