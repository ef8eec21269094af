package client

import (
	"encoding/json"
	"fmt"
	"log"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"dikto/internal/config"
	"dikto/internal/protocol"
)

// MicSession runs push-to-talk dictation against one server connection:
// utterances go out as they are spoken, final results come back and are
// typed into the focused application.
type MicSession struct {
	cfg     config.ClientConfig
	conn    *websocket.Conn
	capture *Capture
	hot     *HotWords
	output  OutputDriver
	root    string // recordings and journals land here

	writeMu sync.Mutex

	mu    sync.Mutex
	sinks map[string]string // task_id -> recording path

	stop chan struct{} // closes when the current utterance ends
	done chan struct{}
}

func NewMicSession(cfg config.ClientConfig, conn *websocket.Conn, capture *Capture,
	hot *HotWords, output OutputDriver, root string) *MicSession {
	return &MicSession{
		cfg:     cfg,
		conn:    conn,
		capture: capture,
		hot:     hot,
		output:  output,
		root:    root,
		sinks:   make(map[string]string),
	}
}

// Run processes trigger edges until the trigger or the connection goes
// away.
func (s *MicSession) Run(trigger Trigger) error {
	errc := make(chan error, 1)
	go func() { errc <- s.receive() }()

	events := trigger.Events()
	for {
		select {
		case err := <-errc:
			return err
		case ev, ok := <-events:
			if !ok {
				return nil
			}
			switch ev {
			case TriggerBegin:
				s.begin()
			case TriggerFinish:
				s.finish()
			}
		}
	}
}

func (s *MicSession) begin() {
	if s.stop != nil {
		return
	}
	s.stop = make(chan struct{})
	s.done = make(chan struct{})
	go s.utterance(s.stop, s.done)
	s.capture.SetOn(true)
	log.Printf("recording")
}

func (s *MicSession) finish() {
	if s.stop == nil {
		return
	}
	s.capture.SetOn(false)
	close(s.stop)
	<-s.done
	s.stop, s.done = nil, nil
}

// utterance drains capture blocks for one press of the trigger. Audio
// shorter than the threshold is held back so accidental taps send
// nothing; once past it the held blocks are flushed and every block is
// recorded, downmixed and sent.
func (s *MicSession) utterance(stop, done chan struct{}) {
	defer close(done)

	taskID := uuid.NewString()
	timeStart := epochNow()

	var (
		cache    [][]float32
		sink     *AudioSink
		duration float64
	)

	process := func(rec Record) {
		if rec.Time-timeStart < s.cfg.Threshold {
			cache = append(cache, rec.Data)
			return
		}

		data := rec.Data
		if len(cache) > 0 {
			n := len(rec.Data)
			for _, c := range cache {
				n += len(c)
			}
			joined := make([]float32, 0, n)
			for _, c := range cache {
				joined = append(joined, c...)
			}
			data = append(joined, rec.Data...)
			cache = nil
		}

		if s.cfg.SaveAudio && sink == nil {
			var err error
			sink, err = NewAudioSink(s.root, s.capture.Channels, timeStart)
			if err != nil {
				log.Printf("open recording: %v", err)
			} else {
				s.mu.Lock()
				s.sinks[taskID] = sink.Path
				s.mu.Unlock()
			}
		}
		if sink != nil {
			if err := sink.Write(data); err != nil {
				log.Printf("write recording: %v", err)
			}
		}

		duration += float64(len(data)/s.capture.Channels) / captureRate
		frame := &protocol.AudioFrame{
			TaskID:      taskID,
			SegDuration: s.cfg.MicSegDuration,
			SegOverlap:  s.cfg.MicSegOverlap,
			TimeStart:   timeStart,
			TimeFrame:   rec.Time,
			Source:      protocol.SourceMic,
		}
		if err := s.send(frame, protocol.SamplesToBytes(Downmix(data, s.capture.Channels))); err != nil {
			log.Printf("send audio: %v", err)
		}
	}

loop:
	for {
		select {
		case rec := <-s.capture.Records():
			process(rec)
		case <-stop:
			break loop
		}
	}
drain:
	for {
		select {
		case rec := <-s.capture.Records():
			process(rec)
		default:
			break drain
		}
	}

	// Finish the recording before the server can answer with the final
	// result that renames it.
	if sink != nil {
		if err := sink.Close(); err != nil {
			log.Printf("finish recording: %v", err)
		}
	}

	final := &protocol.AudioFrame{
		TaskID:      taskID,
		SegDuration: s.cfg.MicSegDuration,
		SegOverlap:  s.cfg.MicSegOverlap,
		IsFinal:     true,
		TimeStart:   timeStart,
		TimeFrame:   epochNow(),
		Source:      protocol.SourceMic,
	}
	if err := s.send(final, nil); err != nil {
		log.Printf("send final frame: %v", err)
	}
	log.Printf("task %s: recorded %.2fs", taskID, duration)
}

func (s *MicSession) send(frame *protocol.AudioFrame, pcm []byte) error {
	raw, err := protocol.EncodeAudioFrame(frame, pcm)
	if err != nil {
		return err
	}
	s.writeMu.Lock()
	defer s.writeMu.Unlock()
	return s.conn.WriteMessage(websocket.TextMessage, raw)
}

func (s *MicSession) receive() error {
	for {
		_, raw, err := s.conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("connection lost: %w", err)
		}
		var res protocol.ResultFrame
		if err := json.Unmarshal(raw, &res); err != nil {
			log.Printf("bad result frame: %v", err)
			continue
		}
		if !res.IsFinal {
			continue
		}

		text := StripTrailingPunc(res.Text, s.cfg.TrashPunc)
		text = s.hot.Sub(text)
		if text != "" {
			if err := s.output.Deliver(text); err != nil {
				log.Printf("deliver result: %v", err)
			}
		}

		s.mu.Lock()
		path, ok := s.sinks[res.TaskID]
		delete(s.sinks, res.TaskID)
		s.mu.Unlock()
		if ok {
			renamed, err := RenameAudioFile(path, text, res.TimeStart, s.cfg.AudioNameLen)
			if err != nil {
				log.Printf("rename recording: %v", err)
			} else {
				keywords := s.hot.Keywords()
				if len(keywords) == 0 {
					keywords = []string{""}
				}
				if err := WriteJournal(s.root, text, res.TimeStart, renamed, keywords); err != nil {
					log.Printf("write journal: %v", err)
				}
			}
		}

		log.Printf("delay %.2fs  %s", res.TimeComplete-res.TimeSubmit, text)
	}
}
