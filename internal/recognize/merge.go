package recognize

// SegmentOutput is the raw recognizer output for one segment. Timestamps
// are seconds relative to the start of the segment.
type SegmentOutput struct {
	Tokens     []string
	Timestamps []float64
	Duration   float64 // segment length in seconds
	Overlap    float64 // trailing overlap with the next segment
	Offset     float64 // absolute position of the segment start
	IsFinal    bool
}

// Merge stitches one segment's output onto the accumulated result.
//
// Segments overlap so the engine has decoding context across boundaries,
// which means tokens falling in the overlap region would otherwise appear
// twice. Merge keeps a half-open window [m,n) of the segment's tokens:
// the front trim drops tokens before overlap/2, the back trim drops tokens
// after duration-overlap/2, and a token-equality check catches seams the
// time trim missed by a token or two. The first segment keeps its full
// head, the final segment its full tail.
func Merge(r *Result, seg SegmentOutput) {
	l := len(seg.Timestamps)
	m, n := l, l

	// Coarse trim by timestamp.
	for i, ts := range seg.Timestamps {
		if ts > seg.Overlap/2 {
			m = i
			break
		}
	}
	for i, ts := range seg.Timestamps {
		n = i + 1
		if ts > seg.Duration-seg.Overlap/2 {
			break
		}
	}

	if len(r.Timestamps) == 0 {
		// Nothing precedes the first segment; keep its head.
		m = 0
	}
	if seg.IsFinal {
		// Nothing follows the final segment; keep its tail.
		n = l
	}
	if m > n {
		m = n
	}

	// Fine trim: the coarse window may still start with the last one or
	// two tokens already accepted.
	if len(r.Tokens) > 0 {
		if tailEqualsHead(r.Tokens, seg.Tokens[m:n], 2) {
			m += 2
		} else if tailEqualsHead(r.Tokens, seg.Tokens[m:n], 1) {
			m += 1
		}
	}
	if m > n {
		m = n
	}

	for i := m; i < n; i++ {
		r.Tokens = append(r.Tokens, seg.Tokens[i])
		r.Timestamps = append(r.Timestamps, seg.Timestamps[i]+seg.Offset)
	}

	r.Duration += seg.Duration - seg.Overlap
	if seg.IsFinal {
		// The final segment has no trailing overlap to discount.
		r.Duration += seg.Overlap
	}

	r.Text = RenderText(r.Tokens)
}

// tailEqualsHead reports whether the last k accepted tokens equal the
// first k tokens of the new window.
func tailEqualsHead(accepted, window []string, k int) bool {
	if len(accepted) < k || len(window) < k {
		return false
	}
	tail := accepted[len(accepted)-k:]
	for i := 0; i < k; i++ {
		if tail[i] != window[i] {
			return false
		}
	}
	return true
}
