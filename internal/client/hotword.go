package client

import (
	"fmt"
	"os"
	"regexp"
	"sort"
	"strings"
	"sync"
	"unicode/utf8"
)

// HotWords substitutes recognizer output with user-maintained spellings.
// Three layers run in order: Chinese (exact match), English
// (case-insensitive whole word) and rules (literal from=to rewrites).
// The keyword list routes journal entries by utterance prefix.
type HotWords struct {
	mu sync.RWMutex

	zh    []hotPair // longest-first
	en    map[string]string
	rules []hotPair
	kwds  []string

	useZh, useEn, useRule bool
}

type hotPair struct {
	from, to string
}

var enWord = regexp.MustCompile(`[A-Za-z][A-Za-z']*`)

// NewHotWords returns an empty substitution table with the given layers
// enabled.
func NewHotWords(useZh, useEn, useRule bool) *HotWords {
	return &HotWords{
		en:      make(map[string]string),
		useZh:   useZh,
		useEn:   useEn,
		useRule: useRule,
	}
}

// LoadDir reads hot-zh.txt, hot-en.txt, hot-rule.txt and hot-kwd.txt
// from dir. Missing files leave the corresponding layer empty.
func (h *HotWords) LoadDir(dir string) error {
	read := func(name string) (string, error) {
		raw, err := os.ReadFile(dir + "/" + name)
		if os.IsNotExist(err) {
			return "", nil
		}
		if err != nil {
			return "", fmt.Errorf("read %s: %w", name, err)
		}
		return string(raw), nil
	}

	zh, err := read("hot-zh.txt")
	if err != nil {
		return err
	}
	en, err := read("hot-en.txt")
	if err != nil {
		return err
	}
	rule, err := read("hot-rule.txt")
	if err != nil {
		return err
	}
	kwd, err := read("hot-kwd.txt")
	if err != nil {
		return err
	}

	h.SetZh(zh)
	h.SetEn(en)
	h.SetRules(rule)
	h.SetKeywords(kwd)
	return nil
}

// SetZh replaces the Chinese layer: lines of the form "误写 正写",
// replaced by exact match. Lines without both halves are skipped.
func (h *HotWords) SetZh(text string) {
	var pairs []hotPair
	for _, line := range splitLines(text) {
		fields := strings.Fields(line)
		if len(fields) == 2 {
			pairs = append(pairs, hotPair{from: fields[0], to: fields[1]})
		}
	}
	// Longest match first so 深度学习 wins over 深度.
	sort.SliceStable(pairs, func(i, j int) bool {
		return len(pairs[i].from) > len(pairs[j].from)
	})
	h.mu.Lock()
	h.zh = pairs
	h.mu.Unlock()
}

// SetEn replaces the English layer: one word per line, matched
// case-insensitively and replaced with the line's exact casing.
func (h *HotWords) SetEn(text string) {
	en := make(map[string]string)
	for _, line := range splitLines(text) {
		if word := strings.TrimSpace(line); word != "" {
			en[strings.ToLower(word)] = word
		}
	}
	h.mu.Lock()
	h.en = en
	h.mu.Unlock()
}

// SetRules replaces the rule layer: lines of the form "from=to".
func (h *HotWords) SetRules(text string) {
	var rules []hotPair
	for _, line := range splitLines(text) {
		from, to, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		from = strings.TrimSpace(from)
		to = strings.TrimSpace(to)
		if from != "" {
			rules = append(rules, hotPair{from: from, to: to})
		}
	}
	h.mu.Lock()
	h.rules = rules
	h.mu.Unlock()
}

// SetKeywords replaces the journal keyword list. The empty keyword is
// always present so every utterance lands in the day's default journal.
func (h *HotWords) SetKeywords(text string) {
	kwds := []string{""}
	for _, line := range splitLines(text) {
		if kwd := strings.TrimSpace(line); kwd != "" {
			kwds = append(kwds, kwd)
		}
	}
	h.mu.Lock()
	h.kwds = kwds
	h.mu.Unlock()
}

// Sub runs the enabled substitution layers over text.
func (h *HotWords) Sub(text string) string {
	h.mu.RLock()
	defer h.mu.RUnlock()

	if h.useZh {
		text = replacePairs(text, h.zh)
	}
	if h.useEn && len(h.en) > 0 {
		text = enWord.ReplaceAllStringFunc(text, func(word string) string {
			if to, ok := h.en[strings.ToLower(word)]; ok {
				return to
			}
			return word
		})
	}
	if h.useRule {
		for _, p := range h.rules {
			text = strings.ReplaceAll(text, p.from, p.to)
		}
	}
	return text
}

// Keywords returns the journal routing keywords, the empty default
// first.
func (h *HotWords) Keywords() []string {
	h.mu.RLock()
	defer h.mu.RUnlock()
	return append([]string(nil), h.kwds...)
}

// replacePairs rewrites text in a single left-to-right pass, trying the
// pairs in order at each position. Replaced output is never re-matched,
// and with pairs sorted longest-first the longest key wins.
func replacePairs(text string, pairs []hotPair) string {
	if len(pairs) == 0 {
		return text
	}
	var b strings.Builder
	b.Grow(len(text))
	for i := 0; i < len(text); {
		matched := false
		for _, p := range pairs {
			if strings.HasPrefix(text[i:], p.from) {
				b.WriteString(p.to)
				i += len(p.from)
				matched = true
				break
			}
		}
		if !matched {
			_, size := utf8.DecodeRuneInString(text[i:])
			b.WriteString(text[i : i+size])
			i += size
		}
	}
	return b.String()
}

func splitLines(text string) []string {
	var lines []string
	for _, line := range strings.Split(text, "\n") {
		line = strings.TrimSpace(line)
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		lines = append(lines, line)
	}
	return lines
}
