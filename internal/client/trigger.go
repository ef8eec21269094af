package client

import (
	"bufio"
	"io"
	"os"
)

// TriggerEvent is one edge of the dictation switch.
type TriggerEvent int

const (
	TriggerBegin TriggerEvent = iota
	TriggerFinish
)

// Trigger reports when the user starts and stops dictation. A keyboard
// hook can implement this on desktops with a global shortcut daemon;
// the built-in implementation toggles on Enter.
type Trigger interface {
	Events() <-chan TriggerEvent
	Close() error
}

// StdinTrigger toggles recording each time a line arrives on the reader.
type StdinTrigger struct {
	events chan TriggerEvent
	closer io.Closer
}

// NewStdinTrigger starts an Enter-to-toggle trigger on stdin.
func NewStdinTrigger() *StdinTrigger {
	return newReaderTrigger(os.Stdin, nil)
}

func newReaderTrigger(r io.Reader, closer io.Closer) *StdinTrigger {
	t := &StdinTrigger{
		events: make(chan TriggerEvent),
		closer: closer,
	}
	go func() {
		defer close(t.events)
		recording := false
		scanner := bufio.NewScanner(r)
		for scanner.Scan() {
			if recording {
				t.events <- TriggerFinish
			} else {
				t.events <- TriggerBegin
			}
			recording = !recording
		}
		if recording {
			// EOF while recording still ends the utterance.
			t.events <- TriggerFinish
		}
	}()
	return t
}

func (t *StdinTrigger) Events() <-chan TriggerEvent { return t.events }

func (t *StdinTrigger) Close() error {
	if t.closer != nil {
		return t.closer.Close()
	}
	return nil
}
