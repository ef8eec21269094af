package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"log"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"strings"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"dikto/internal/config"
	"dikto/internal/protocol"
)

// Audio leaves the client in one-minute slices so arbitrarily long media
// never has to fit in a single websocket message.
const fileChunkBytes = protocol.BytesPerSecond * 60

// TranscribeFile runs one media file through the recognizer and writes
// the transcripts next to it: .merge.txt (one line), .txt (split at
// sentence punctuation), .json (aligned tokens) and .srt.
func TranscribeFile(conn *websocket.Conn, cfg config.ClientConfig, path string) error {
	if _, err := os.Stat(path); err != nil {
		return fmt.Errorf("input file: %w", err)
	}

	cmd := exec.Command("ffmpeg", "-i", path, "-f", "f32le", "-ac", "1", "-ar", "16000", "-")
	cmd.Stderr = nil
	data, err := cmd.Output()
	if err != nil {
		return fmt.Errorf("extract audio from %s: %w", path, err)
	}
	if len(data) == 0 {
		return errors.New("ffmpeg produced no audio")
	}

	taskID := uuid.NewString()
	total := float64(len(data)) / protocol.BytesPerSecond
	log.Printf("task %s: %s (%.2fs)", taskID, path, total)

	timeStart := epochNow()
	for offset := 0; ; {
		end := offset + fileChunkBytes
		isFinal := end >= len(data)
		if end > len(data) {
			end = len(data)
		}
		frame := &protocol.AudioFrame{
			TaskID:      taskID,
			SegDuration: cfg.FileSegDuration,
			SegOverlap:  cfg.FileSegOverlap,
			IsFinal:     isFinal,
			TimeStart:   timeStart,
			TimeFrame:   epochNow(),
			Source:      protocol.SourceFile,
		}
		raw, err := protocol.EncodeAudioFrame(frame, data[offset:end])
		if err != nil {
			return fmt.Errorf("encode frame: %w", err)
		}
		if err := conn.WriteMessage(websocket.TextMessage, raw); err != nil {
			return fmt.Errorf("send audio: %w", err)
		}
		if isFinal {
			break
		}
		offset = end
	}

	var res protocol.ResultFrame
	for {
		_, raw, err := conn.ReadMessage()
		if err != nil {
			return fmt.Errorf("connection lost: %w", err)
		}
		if err := json.Unmarshal(raw, &res); err != nil {
			log.Printf("bad result frame: %v", err)
			continue
		}
		log.Printf("    recognized %.2f/%.2fs", res.Duration, total)
		if res.IsFinal {
			break
		}
	}

	if err := writeSidecars(path, &res); err != nil {
		return err
	}
	log.Printf("task %s: done in %.2fs", taskID, res.TimeComplete-res.TimeStart)
	log.Printf("    %s", res.Text)
	return nil
}

var sentenceEnd = regexp.MustCompile("[，。？]")

func writeSidecars(path string, res *protocol.ResultFrame) error {
	base := strings.TrimSuffix(path, filepath.Ext(path))

	if err := os.WriteFile(base+".merge.txt", []byte(res.Text), 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}
	split := sentenceEnd.ReplaceAllString(res.Text, "\n")
	if err := os.WriteFile(base+".txt", []byte(split), 0o644); err != nil {
		return fmt.Errorf("write transcript: %w", err)
	}

	doc, err := json.Marshal(map[string]any{
		"timestamps": res.Timestamps,
		"tokens":     res.Tokens,
	})
	if err != nil {
		return fmt.Errorf("marshal alignment: %w", err)
	}
	if err := os.WriteFile(base+".json", doc, 0o644); err != nil {
		return fmt.Errorf("write alignment: %w", err)
	}

	if err := os.WriteFile(base+".srt", []byte(FormatSRT(res.Tokens, res.Timestamps)), 0o644); err != nil {
		return fmt.Errorf("write subtitles: %w", err)
	}
	return nil
}
