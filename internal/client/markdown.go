package client

import (
	"fmt"
	"os"
	"path/filepath"
	"strings"
	"time"
)

// The header helps users turn recorded audio links into inline HTML
// players and back with an editor regex replace.
const journalHeader = "```txt\n" +
	`Regex tip

audio link  : \[(.+)\]\((.{10,})\)[\s]*
html player : <audio controls><source src="$2" type="audio/mpeg">$1</audio>\n\n

and the reverse:

html player : <audio controls><source src="(.+)" type="audio/mpeg">(.+)</audio>\n\n
audio link  : [$2]($1)
` + "```\n\n\n"

// WriteJournal appends a dictation record to the day's markdown journals
// under root/YYYY/MM. The utterance lands in DD.md and additionally in
// kwd-DD.md for every keyword it starts with; the keyword itself and any
// punctuation right after it are dropped from the journal line.
func WriteJournal(root, text string, timeStart float64, audioPath string, keywords []string) error {
	ts := time.Unix(int64(timeStart), 0)
	dir := filepath.Join(root, ts.Format("2006"), ts.Format("01"))
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return fmt.Errorf("create journal dir: %w", err)
	}

	rel, err := filepath.Rel(dir, audioPath)
	if err != nil {
		rel = audioPath
	}
	link := strings.ReplaceAll(filepath.ToSlash(rel), " ", "%20")

	for _, kwd := range keywords {
		if !strings.HasPrefix(text, kwd) {
			continue
		}
		name := ts.Format("02") + ".md"
		if kwd != "" {
			name = kwd + "-" + name
		}
		path := filepath.Join(dir, name)
		if _, err := os.Stat(path); os.IsNotExist(err) {
			if err := os.WriteFile(path, []byte(journalHeader), 0o644); err != nil {
				return fmt.Errorf("create journal %s: %w", name, err)
			}
		}

		entry := strings.TrimLeft(strings.TrimPrefix(text, kwd), "，。,.")
		f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0o644)
		if err != nil {
			return fmt.Errorf("open journal %s: %w", name, err)
		}
		_, err = fmt.Fprintf(f, "[%s](%s) %s\n\n", ts.Format("15:04:05"), link, entry)
		if cerr := f.Close(); err == nil {
			err = cerr
		}
		if err != nil {
			return fmt.Errorf("write journal %s: %w", name, err)
		}
	}
	return nil
}
