package client

import (
	"io"
	"testing"
	"time"
)

func nextEvent(t *testing.T, events <-chan TriggerEvent) (TriggerEvent, bool) {
	t.Helper()
	select {
	case ev, ok := <-events:
		return ev, ok
	case <-time.After(time.Second):
		t.Fatal("no trigger event")
		return 0, false
	}
}

func TestStdinTriggerToggles(t *testing.T) {
	pr, pw := io.Pipe()
	trig := newReaderTrigger(pr, pr)
	defer trig.Close()

	go pw.Write([]byte("\n\n"))

	if ev, _ := nextEvent(t, trig.Events()); ev != TriggerBegin {
		t.Fatalf("first event = %v, want begin", ev)
	}
	if ev, _ := nextEvent(t, trig.Events()); ev != TriggerFinish {
		t.Fatalf("second event = %v, want finish", ev)
	}
}

func TestStdinTriggerFinishesOnEOF(t *testing.T) {
	pr, pw := io.Pipe()
	trig := newReaderTrigger(pr, pr)
	defer trig.Close()

	go func() {
		pw.Write([]byte("\n"))
		pw.Close()
	}()

	if ev, _ := nextEvent(t, trig.Events()); ev != TriggerBegin {
		t.Fatal("expected begin")
	}
	if ev, _ := nextEvent(t, trig.Events()); ev != TriggerFinish {
		t.Fatal("expected finish on EOF")
	}
	if _, ok := nextEvent(t, trig.Events()); ok {
		t.Fatal("events channel not closed")
	}
}
