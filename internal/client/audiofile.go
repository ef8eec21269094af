package client

import (
	"encoding/binary"
	"fmt"
	"io"
	"os"
	"os/exec"
	"path/filepath"
	"regexp"
	"time"

	"github.com/google/uuid"

	"dikto/internal/protocol"
)

// AudioSink persists one utterance's raw 48 kHz capture audio under
// root/YYYY/MM/assets. With ffmpeg on PATH the recording is encoded to
// mp3 through a pipe; otherwise it is written as 16-bit wav.
type AudioSink struct {
	Path     string
	channels int

	cmd   *exec.Cmd
	pipe  io.WriteCloser
	wav   *os.File
	bytes int // wav payload bytes written
}

// NewAudioSink opens a recording file named after the utterance start
// time. The name carries a placeholder suffix until RenameAudioFile
// attaches the recognized text.
func NewAudioSink(root string, channels int, timeStart float64) (*AudioSink, error) {
	ts := time.Unix(int64(timeStart), 0)
	dir := filepath.Join(root, ts.Format("2006"), ts.Format("01"), "assets")
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create recording dir: %w", err)
	}
	stem := fmt.Sprintf("(%s)%s", ts.Format("20060102-150405"), uuid.NewString()[:8])

	s := &AudioSink{channels: channels}
	if _, err := exec.LookPath("ffmpeg"); err == nil {
		s.Path = filepath.Join(dir, stem+".mp3")
		s.cmd = exec.Command("ffmpeg", "-y",
			"-f", "f32le", "-ar", "48000", "-ac", fmt.Sprint(channels),
			"-i", "-",
			"-b:a", "192k", s.Path,
		)
		pipe, err := s.cmd.StdinPipe()
		if err != nil {
			return nil, fmt.Errorf("ffmpeg stdin: %w", err)
		}
		s.pipe = pipe
		if err := s.cmd.Start(); err != nil {
			return nil, fmt.Errorf("start ffmpeg: %w", err)
		}
		return s, nil
	}

	s.Path = filepath.Join(dir, stem+".wav")
	f, err := os.Create(s.Path)
	if err != nil {
		return nil, fmt.Errorf("create recording: %w", err)
	}
	s.wav = f
	if err := writeWavHeader(f, channels, 0); err != nil {
		f.Close()
		return nil, err
	}
	return s, nil
}

// Write appends interleaved float32 samples.
func (s *AudioSink) Write(samples []float32) error {
	if s.pipe != nil {
		if _, err := s.pipe.Write(protocol.SamplesToBytes(samples)); err != nil {
			return fmt.Errorf("write recording: %w", err)
		}
		return nil
	}

	buf := make([]byte, len(samples)*2)
	for i, v := range samples {
		if v > 1 {
			v = 1
		} else if v < -1 {
			v = -1
		}
		binary.LittleEndian.PutUint16(buf[i*2:], uint16(int16(v*32767)))
	}
	if _, err := s.wav.Write(buf); err != nil {
		return fmt.Errorf("write recording: %w", err)
	}
	s.bytes += len(buf)
	return nil
}

// Close finishes the encode and releases the file.
func (s *AudioSink) Close() error {
	if s.pipe != nil {
		s.pipe.Close()
		if err := s.cmd.Wait(); err != nil {
			return fmt.Errorf("ffmpeg: %w", err)
		}
		return nil
	}

	// Patch the riff sizes now that the payload length is known.
	if _, err := s.wav.Seek(0, io.SeekStart); err == nil {
		writeWavHeader(s.wav, s.channels, s.bytes)
	}
	if err := s.wav.Close(); err != nil {
		return fmt.Errorf("close recording: %w", err)
	}
	return nil
}

var unsafeFilename = regexp.MustCompile(`[\\/:"*?<>|]`)

// RenameAudioFile attaches the recognized text to the recording name,
// keeping the timestamp prefix: (YYYYMMDD-HHMMSS)<text prefix>.<ext>.
func RenameAudioFile(path, text string, timeStart float64, nameLen int) (string, error) {
	if _, err := os.Stat(path); err != nil {
		return "", fmt.Errorf("recording missing: %w", err)
	}

	prefix := []rune(text)
	if nameLen > 0 && len(prefix) > nameLen {
		prefix = prefix[:nameLen]
	}
	ts := time.Unix(int64(timeStart), 0)
	stem := fmt.Sprintf("(%s)%s", ts.Format("20060102-150405"), string(prefix))
	stem = unsafeFilename.ReplaceAllString(stem, " ")

	renamed := filepath.Join(filepath.Dir(path), stem+filepath.Ext(path))
	if err := os.Rename(path, renamed); err != nil {
		return "", fmt.Errorf("rename recording: %w", err)
	}
	return renamed, nil
}

func writeWavHeader(w io.Writer, channels, dataBytes int) error {
	const sampleRate = 48000
	var hdr [44]byte
	copy(hdr[0:], "RIFF")
	binary.LittleEndian.PutUint32(hdr[4:], uint32(36+dataBytes))
	copy(hdr[8:], "WAVE")
	copy(hdr[12:], "fmt ")
	binary.LittleEndian.PutUint32(hdr[16:], 16)
	binary.LittleEndian.PutUint16(hdr[20:], 1) // PCM
	binary.LittleEndian.PutUint16(hdr[22:], uint16(channels))
	binary.LittleEndian.PutUint32(hdr[24:], sampleRate)
	binary.LittleEndian.PutUint32(hdr[28:], uint32(sampleRate*channels*2))
	binary.LittleEndian.PutUint16(hdr[32:], uint16(channels*2))
	binary.LittleEndian.PutUint16(hdr[34:], 16)
	copy(hdr[36:], "data")
	binary.LittleEndian.PutUint32(hdr[40:], uint32(dataBytes))
	if _, err := w.Write(hdr[:]); err != nil {
		return fmt.Errorf("write wav header: %w", err)
	}
	return nil
}
