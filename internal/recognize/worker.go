package recognize

import (
	"log"
	"sync"
	"time"

	"dikto/internal/protocol"
	"dikto/internal/textproc"
)

// LiveSet reports whether a connection id is still alive. Tasks whose
// connection is gone are dropped before decoding.
type LiveSet interface {
	Has(id string) bool
}

// FormatOptions gates the post-processing applied to final results.
type FormatOptions struct {
	Spell bool // normalize spacing between CJK and ASCII
	Punc  bool // restore punctuation
	Num   bool // rewrite Chinese numerals as digits
}

// Worker is the single consumer of the task queue. It owns the heavy
// model objects and the per-task-id accumulators; nothing else touches
// them, so no locking is needed around the merge.
type Worker struct {
	rec    Recognizer
	punc   Punctuator
	live   LiveSet
	format FormatOptions

	in      chan Task
	out     chan Result
	results map[string]*Result

	stop chan struct{}
	wg   sync.WaitGroup
}

// NewWorker creates a worker with bounded queues. A full in-queue blocks
// the connection receive loops, which propagates backpressure to clients.
func NewWorker(rec Recognizer, punc Punctuator, live LiveSet, format FormatOptions, queueSize int) *Worker {
	return &Worker{
		rec:     rec,
		punc:    punc,
		live:    live,
		format:  format,
		in:      make(chan Task, queueSize),
		out:     make(chan Result, queueSize),
		results: make(map[string]*Result),
		stop:    make(chan struct{}),
	}
}

// In is the task queue fed by the connection receive loops.
func (w *Worker) In() chan<- Task { return w.in }

// Out carries partial and final results to the sender loop.
func (w *Worker) Out() <-chan Result { return w.out }

// Start begins consuming tasks.
func (w *Worker) Start() {
	w.wg.Add(1)
	go w.run()
	log.Println("recognizer worker started")
}

// Stop drains nothing: queued tasks are abandoned, the out channel is
// closed so the sender loop exits.
func (w *Worker) Stop() {
	close(w.stop)
	w.wg.Wait()
	close(w.out)
	log.Println("recognizer worker stopped")
}

func (w *Worker) run() {
	defer w.wg.Done()
	for {
		select {
		case <-w.stop:
			return
		case task := <-w.in:
			if result, ok := w.process(task); ok {
				select {
				case w.out <- result:
				case <-w.stop:
					return
				}
			}
		}
	}
}

// process decodes one segment and merges it into the task's accumulator.
// The second return is false when the task was dropped.
func (w *Worker) process(task Task) (Result, bool) {
	if w.live != nil && !w.live.Has(task.SocketID) {
		return Result{}, false
	}

	result, ok := w.results[task.TaskID]
	if !ok {
		result = &Result{
			TaskID:   task.TaskID,
			SocketID: task.SocketID,
			Source:   task.Source,
		}
		w.results[task.TaskID] = result
	}
	result.TimeStart = task.TimeStart
	result.TimeSubmit = task.TimeSubmit

	samples := protocol.BytesToSamples(task.Data)
	duration := float64(len(samples)) / float64(task.SampleRate)

	tokens, timestamps, err := w.rec.Decode(samples, task.SampleRate)
	if err != nil {
		// A failed segment is dropped; later segments of the same task
		// keep going and a final segment still closes the task out.
		log.Printf("decode failed for task %s segment at %.1fs: %v", task.TaskID, task.Offset, err)
		tokens, timestamps = nil, nil
	}

	Merge(result, SegmentOutput{
		Tokens:     tokens,
		Timestamps: timestamps,
		Duration:   duration,
		Overlap:    task.Overlap,
		Offset:     task.Offset,
		IsFinal:    task.IsFinal,
	})

	if !task.IsFinal {
		return *result, true
	}

	result.Text = w.finalText(result.Text)
	result.TimeComplete = epochNow()
	result.IsFinal = true
	delete(w.results, task.TaskID)
	return *result, true
}

// finalText runs the final-only post chain: spacing, punctuation,
// numeral rewriting, spacing again.
func (w *Worker) finalText(text string) string {
	if w.format.Spell {
		text = textproc.AdjustSpace(text)
	}
	if w.format.Punc && w.punc != nil && text != "" {
		out, err := w.punc.Punctuate(text)
		if err != nil {
			log.Printf("punctuation failed: %v", err)
		} else {
			text = out
		}
	}
	if w.format.Num {
		text = textproc.ChineseToNum(text)
	}
	if w.format.Spell {
		text = textproc.AdjustSpace(text)
	}
	return text
}

func epochNow() float64 {
	return float64(time.Now().UnixNano()) / float64(time.Second)
}
