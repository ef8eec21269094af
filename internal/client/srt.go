package client

import (
	"fmt"
	"strings"
	"time"

	"dikto/internal/recognize"
)

const (
	cuePause     = 1.5 // pause length that forces a cue break, seconds
	cueMaxTokens = 25
	cueTailHold  = 1.0 // display time granted to the last cue, seconds
)

const cueBreakPunc = "，。？！；,.?!;"

type srtCue struct {
	start, end float64
	tokens     []string
}

// FormatSRT renders an aligned token sequence as SRT subtitles. A cue
// ends at sentence punctuation, at a pause longer than cuePause, or when
// it grows past cueMaxTokens tokens; each cue is displayed until the next
// one starts.
func FormatSRT(tokens []string, timestamps []float64) string {
	n := len(tokens)
	if len(timestamps) < n {
		n = len(timestamps)
	}

	var cues []srtCue
	var cur srtCue
	for i := 0; i < n; i++ {
		if len(cur.tokens) == 0 {
			cur.start = timestamps[i]
		}
		cur.tokens = append(cur.tokens, tokens[i])

		breakHere := isCueBreak(tokens[i]) || len(cur.tokens) >= cueMaxTokens
		if !breakHere && i+1 < n {
			breakHere = timestamps[i+1]-timestamps[i] > cuePause
		}
		if breakHere || i == n-1 {
			if i+1 < n {
				cur.end = timestamps[i+1]
			} else {
				cur.end = timestamps[i] + cueTailHold
			}
			cues = append(cues, cur)
			cur = srtCue{}
		}
	}

	var b strings.Builder
	for i, cue := range cues {
		if i > 0 {
			b.WriteString("\n")
		}
		fmt.Fprintf(&b, "%d\n%s --> %s\n%s\n",
			i+1,
			formatSRTTime(cue.start),
			formatSRTTime(cue.end),
			recognize.RenderText(cue.tokens),
		)
	}
	return b.String()
}

func isCueBreak(token string) bool {
	token = strings.TrimSpace(token)
	return token != "" && strings.ContainsAny(token, cueBreakPunc)
}

// formatSRTTime converts seconds to the SRT time format HH:MM:SS,mmm.
func formatSRTTime(seconds float64) string {
	d := time.Duration(seconds * float64(time.Second))
	h := int(d.Hours())
	m := int(d.Minutes()) % 60
	s := int(d.Seconds()) % 60
	ms := int(d.Milliseconds()) % 1000
	return fmt.Sprintf("%02d:%02d:%02d,%03d", h, m, s, ms)
}
