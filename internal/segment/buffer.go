// Package segment turns a connection's incoming audio frames into
// fixed-size overlapped recognition tasks.
package segment

import (
	"dikto/internal/protocol"
	"dikto/internal/recognize"
)

// Buffer accumulates raw PCM for the task id currently streaming on one
// connection. It lives as long as the connection and resets itself when
// a task's final frame has been flushed.
type Buffer struct {
	chunks   []byte
	offset   float64 // seconds already emitted as tasks
	frameNum int     // byte counter, for logging
}

// New returns an empty buffer.
func New() *Buffer {
	return &Buffer{}
}

// Pending reports the seconds of audio received for the current task.
func (b *Buffer) Pending() float64 {
	return float64(b.frameNum) / protocol.BytesPerSecond
}

// Started reports whether the current task has buffered audio.
func (b *Buffer) Started() bool {
	return len(b.chunks) > 0
}

// Feed appends one frame's PCM and returns the tasks that became ready.
//
// While the frame is not final, a task is cut whenever the buffer holds
// at least seg_duration+2*seg_overlap seconds: the emitted slice is
// seg_duration+seg_overlap long but the buffer only advances by
// seg_duration, leaving a trailing overlap for the next segment. The
// final frame flushes whatever remains as one last task and resets the
// buffer.
func (b *Buffer) Feed(frame *protocol.AudioFrame, pcm []byte, socketID string, timeSubmit float64) []recognize.Task {
	b.chunks = append(b.chunks, pcm...)
	b.frameNum += len(pcm)

	// Round at the sample level so fractional durations cannot cut a
	// task mid-sample.
	segBytes := int(protocol.SampleRate*frame.SegDuration) * protocol.BytesPerSample
	ovlBytes := int(protocol.SampleRate*frame.SegOverlap) * protocol.BytesPerSample
	thresholdBytes := segBytes + 2*ovlBytes

	newTask := func(data []byte, isFinal bool) recognize.Task {
		return recognize.Task{
			Source:     frame.Source,
			Data:       data,
			Offset:     b.offset,
			Overlap:    frame.SegOverlap,
			TaskID:     frame.TaskID,
			SocketID:   socketID,
			IsFinal:    isFinal,
			TimeStart:  frame.TimeStart,
			TimeSubmit: timeSubmit,
			SampleRate: protocol.SampleRate,
		}
	}

	var tasks []recognize.Task
	if !frame.IsFinal {
		for len(b.chunks) >= thresholdBytes {
			data := make([]byte, segBytes+ovlBytes)
			copy(data, b.chunks[:segBytes+ovlBytes])
			b.chunks = b.chunks[segBytes:]
			tasks = append(tasks, newTask(data, false))
			b.offset += frame.SegDuration
		}
		return tasks
	}

	data := make([]byte, len(b.chunks))
	copy(data, b.chunks)
	tasks = append(tasks, newTask(data, true))

	b.chunks = nil
	b.offset = 0
	b.frameNum = 0
	return tasks
}
