package recognize

import "dikto/internal/protocol"

// Task is one audio segment queued for decoding. Except for the final
// segment of a task id, Data holds seg_duration+seg_overlap seconds of
// mono f32le PCM.
type Task struct {
	Source     string
	Data       []byte  // raw segment PCM
	Offset     float64 // seconds from recording start where this segment begins
	Overlap    float64 // seconds shared with the next segment
	TaskID     string
	SocketID   string
	IsFinal    bool
	TimeStart  float64
	TimeSubmit float64
	SampleRate int
}

// Result accumulates the decoded output for one task id across all of
// its segments. Tokens and Timestamps stay aligned and timestamps are
// non-decreasing; both grow monotonically until the final segment.
type Result struct {
	TaskID       string
	SocketID     string
	Source       string
	Duration     float64 // recognized audio length net of overlap
	TimeStart    float64
	TimeSubmit   float64
	TimeComplete float64
	Tokens       []string
	Timestamps   []float64
	Text         string
	IsFinal      bool
}

// Frame renders the result as its wire payload.
func (r *Result) Frame() *protocol.ResultFrame {
	tokens := r.Tokens
	if tokens == nil {
		tokens = []string{}
	}
	timestamps := r.Timestamps
	if timestamps == nil {
		timestamps = []float64{}
	}
	return &protocol.ResultFrame{
		TaskID:       r.TaskID,
		Duration:     r.Duration,
		TimeStart:    r.TimeStart,
		TimeSubmit:   r.TimeSubmit,
		TimeComplete: r.TimeComplete,
		Tokens:       tokens,
		Timestamps:   timestamps,
		Text:         r.Text,
		IsFinal:      r.IsFinal,
	}
}
