package protocol

import (
	"encoding/base64"
	"encoding/json"
	"errors"
	"fmt"
)

// Wire format constants. Every audio payload on the wire is mono
// float32 little-endian PCM at 16 kHz.
const (
	SampleRate     = 16000
	BytesPerSample = 4
	BytesPerSecond = SampleRate * BytesPerSample
)

// Audio sources
const (
	SourceMic  = "mic"
	SourceFile = "file"
)

// ErrBadFrame indicates a malformed or incomplete wire message.
// The server closes the connection when it sees one.
var ErrBadFrame = errors.New("bad frame")

// AudioFrame is one client→server message: a slice of audio for a task,
// plus the segmentation parameters the server should use for it.
type AudioFrame struct {
	TaskID      string  `json:"task_id"`
	SegDuration float64 `json:"seg_duration"` // segment length in seconds
	SegOverlap  float64 `json:"seg_overlap"`  // overlap between segments in seconds
	IsFinal     bool    `json:"is_final"`
	TimeStart   float64 `json:"time_start"` // epoch seconds, recording start
	TimeFrame   float64 `json:"time_frame"` // epoch seconds, this frame
	Source      string  `json:"source"`     // "mic" or "file"
	Data        string  `json:"data"`       // base64 of mono f32le PCM @16kHz
}

// ResultFrame is one server→client message carrying a partial or final
// transcription result.
type ResultFrame struct {
	TaskID       string    `json:"task_id"`
	Duration     float64   `json:"duration"` // recognized audio length net of overlap
	TimeStart    float64   `json:"time_start"`
	TimeSubmit   float64   `json:"time_submit"`
	TimeComplete float64   `json:"time_complete"`
	Tokens       []string  `json:"tokens"`
	Timestamps   []float64 `json:"timestamps"`
	Text         string    `json:"text"`
	IsFinal      bool      `json:"is_final"`
}

// ParseAudioFrame decodes and validates one wire message. It returns the
// frame together with the decoded PCM bytes. A missing required field or
// undecodable payload yields an error wrapping ErrBadFrame.
func ParseAudioFrame(raw []byte) (*AudioFrame, []byte, error) {
	var f AudioFrame
	if err := json.Unmarshal(raw, &f); err != nil {
		return nil, nil, fmt.Errorf("%w: %v", ErrBadFrame, err)
	}
	if f.TaskID == "" {
		return nil, nil, fmt.Errorf("%w: missing task_id", ErrBadFrame)
	}
	if f.Source != SourceMic && f.Source != SourceFile {
		return nil, nil, fmt.Errorf("%w: unknown source %q", ErrBadFrame, f.Source)
	}
	if f.SegDuration <= 0 || f.SegOverlap < 0 || f.SegOverlap >= f.SegDuration {
		return nil, nil, fmt.Errorf("%w: bad segmentation params (duration=%g overlap=%g)",
			ErrBadFrame, f.SegDuration, f.SegOverlap)
	}
	pcm, err := base64.StdEncoding.DecodeString(f.Data)
	if err != nil {
		return nil, nil, fmt.Errorf("%w: data is not valid base64: %v", ErrBadFrame, err)
	}
	if len(pcm)%BytesPerSample != 0 {
		return nil, nil, fmt.Errorf("%w: payload length %d is not sample-aligned", ErrBadFrame, len(pcm))
	}
	return &f, pcm, nil
}

// EncodeAudioFrame builds the JSON wire message for a PCM slice.
func EncodeAudioFrame(f *AudioFrame, pcm []byte) ([]byte, error) {
	f.Data = base64.StdEncoding.EncodeToString(pcm)
	return json.Marshal(f)
}
