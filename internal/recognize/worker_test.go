package recognize

import (
	"errors"
	"testing"
	"time"

	"dikto/internal/protocol"
)

type stubOutput struct {
	tokens     []string
	timestamps []float64
	err        error
}

// stubRecognizer replays canned outputs in decode order.
type stubRecognizer struct {
	outputs []stubOutput
	calls   int
}

func (s *stubRecognizer) Decode(samples []float32, sampleRate int) ([]string, []float64, error) {
	s.calls++
	if s.calls > len(s.outputs) {
		return nil, nil, nil
	}
	out := s.outputs[s.calls-1]
	return out.tokens, out.timestamps, out.err
}

func (s *stubRecognizer) Close() {}

type liveSet map[string]bool

func (l liveSet) Has(id string) bool { return l[id] }

func pcmSeconds(sec float64) []byte {
	return make([]byte, int(sec*protocol.BytesPerSecond))
}

func collectResult(t *testing.T, w *Worker) Result {
	t.Helper()
	select {
	case r := <-w.Out():
		return r
	case <-time.After(2 * time.Second):
		t.Fatal("no result from worker")
		return Result{}
	}
}

func TestWorkerSingleFinalTask(t *testing.T) {
	rec := &stubRecognizer{outputs: []stubOutput{
		{tokens: []string{"你", "好"}, timestamps: []float64{0.3, 0.6}},
	}}
	w := NewWorker(rec, nil, liveSet{"s1": true}, FormatOptions{}, 4)
	w.Start()
	defer w.Stop()

	w.In() <- Task{
		TaskID:     "t1",
		SocketID:   "s1",
		Source:     protocol.SourceMic,
		Data:       pcmSeconds(20),
		Overlap:    2,
		IsFinal:    true,
		TimeStart:  100,
		TimeSubmit: 101,
		SampleRate: protocol.SampleRate,
	}

	r := collectResult(t, w)
	if !r.IsFinal {
		t.Error("result not final")
	}
	if r.Text != "你好" {
		t.Errorf("text = %q", r.Text)
	}
	if r.Duration != 20 {
		t.Errorf("duration = %g, want 20", r.Duration)
	}
	if r.TimeComplete == 0 {
		t.Error("time_complete not set")
	}
	if len(r.Tokens) != len(r.Timestamps) {
		t.Errorf("alignment broken: %d tokens, %d timestamps", len(r.Tokens), len(r.Timestamps))
	}
}

func TestWorkerEmitsPartialThenFinal(t *testing.T) {
	rec := &stubRecognizer{outputs: []stubOutput{
		{tokens: []string{"A", "B", "C", "D", "E"}, timestamps: []float64{0.5, 4, 8, 15.2, 16.1}},
		{tokens: []string{"D", "E", "F", "G", "H"}, timestamps: []float64{0.2, 1.1, 3, 9, 14}},
	}}
	w := NewWorker(rec, nil, liveSet{"s1": true}, FormatOptions{}, 4)
	w.Start()
	defer w.Stop()

	base := Task{
		TaskID: "t1", SocketID: "s1", Source: protocol.SourceFile,
		Overlap: 2, SampleRate: protocol.SampleRate,
	}
	first := base
	first.Data = pcmSeconds(17)
	w.In() <- first

	partial := collectResult(t, w)
	if partial.IsFinal {
		t.Fatal("first result should be partial")
	}
	if partial.Duration != 15 {
		t.Errorf("partial duration = %g, want 15", partial.Duration)
	}

	last := base
	last.Data = pcmSeconds(17)
	last.Offset = 15
	last.IsFinal = true
	w.In() <- last

	final := collectResult(t, w)
	if !final.IsFinal {
		t.Fatal("second result should be final")
	}
	if final.Text != "A B C D E F G H" {
		t.Errorf("text = %q", final.Text)
	}
	if final.Duration != 32 {
		t.Errorf("duration = %g, want 32", final.Duration)
	}
}

// A task whose connection died before decoding produces nothing.
func TestWorkerDropsDeadSocketTasks(t *testing.T) {
	rec := &stubRecognizer{}
	live := liveSet{"alive": true}
	w := NewWorker(rec, nil, live, FormatOptions{}, 4)
	w.Start()
	defer w.Stop()

	w.In() <- Task{TaskID: "t1", SocketID: "dead", Data: pcmSeconds(1), IsFinal: true, SampleRate: protocol.SampleRate}
	w.In() <- Task{TaskID: "t2", SocketID: "alive", Data: pcmSeconds(1), IsFinal: true, SampleRate: protocol.SampleRate}

	r := collectResult(t, w)
	if r.TaskID != "t2" {
		t.Errorf("got result for %s, want t2", r.TaskID)
	}
	if rec.calls != 1 {
		t.Errorf("dead-socket task was decoded (%d calls)", rec.calls)
	}
}

// A decoder failure drops the segment but the task survives and the
// final result is still produced.
func TestWorkerSurvivesDecoderError(t *testing.T) {
	rec := &stubRecognizer{outputs: []stubOutput{
		{err: errors.New("decoder blew up")},
		{tokens: []string{"好"}, timestamps: []float64{0.2}},
	}}
	w := NewWorker(rec, nil, liveSet{"s1": true}, FormatOptions{}, 4)
	w.Start()
	defer w.Stop()

	base := Task{TaskID: "t1", SocketID: "s1", Overlap: 2, SampleRate: protocol.SampleRate}
	broken := base
	broken.Data = pcmSeconds(17)
	w.In() <- broken
	partial := collectResult(t, w)
	if len(partial.Tokens) != 0 {
		t.Errorf("failed segment produced tokens: %v", partial.Tokens)
	}

	last := base
	last.Data = pcmSeconds(3)
	last.Offset = 15
	last.IsFinal = true
	w.In() <- last
	final := collectResult(t, w)
	if !final.IsFinal || final.Text != "好" {
		t.Errorf("final = %+v", final)
	}
}

// Accumulator state is removed when a task finishes; a new task with
// the same id starts clean.
func TestWorkerFinalClearsAccumulator(t *testing.T) {
	rec := &stubRecognizer{outputs: []stubOutput{
		{tokens: []string{"一"}, timestamps: []float64{0.1}},
		{tokens: []string{"二"}, timestamps: []float64{0.1}},
	}}
	w := NewWorker(rec, nil, liveSet{"s1": true}, FormatOptions{}, 4)
	w.Start()
	defer w.Stop()

	task := Task{TaskID: "t1", SocketID: "s1", Data: pcmSeconds(1), IsFinal: true, SampleRate: protocol.SampleRate}
	w.In() <- task
	first := collectResult(t, w)
	w.In() <- task
	second := collectResult(t, w)

	if first.Text != "一" || second.Text != "二" {
		t.Errorf("accumulator leaked across finals: %q then %q", first.Text, second.Text)
	}
	if second.Duration != 1 {
		t.Errorf("duration accumulated across finals: %g", second.Duration)
	}
}
