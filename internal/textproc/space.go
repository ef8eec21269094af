// Package textproc holds the pure text post-processing steps applied to
// final transcripts: CJK/ASCII spacing normalization and inverse text
// normalization of Chinese numerals.
package textproc

import (
	"strings"
	"unicode"
)

type runeClass int

const (
	classOther runeClass = iota
	classCJK
	classLetter
	classDigit
)

func classify(r rune) runeClass {
	switch {
	case unicode.Is(unicode.Han, r):
		return classCJK
	case r >= 'a' && r <= 'z' || r >= 'A' && r <= 'Z':
		return classLetter
	case r >= '0' && r <= '9':
		return classDigit
	default:
		return classOther
	}
}

// AdjustSpace normalizes spacing in mixed CJK/ASCII text: no space
// between CJK runes, exactly one space where a CJK run, an ASCII word or
// a digit run meets one of the other kinds, runs of whitespace collapsed,
// ends trimmed. Idempotent.
func AdjustSpace(text string) string {
	var b strings.Builder
	b.Grow(len(text))

	prev := classOther
	pendingSpace := false
	started := false

	flushSpace := func(next runeClass) {
		if !started {
			return
		}
		switch {
		case prev == classCJK && next == classCJK:
			// CJK runs join without spaces.
		case prev == next && pendingSpace:
			// Keep author spacing between same-class runs (words).
			b.WriteByte(' ')
		case prev != next && prev != classOther && next != classOther:
			// Class boundary gets exactly one space.
			b.WriteByte(' ')
		case pendingSpace:
			b.WriteByte(' ')
		}
	}

	for _, r := range text {
		if unicode.IsSpace(r) {
			pendingSpace = true
			continue
		}
		c := classify(r)
		flushSpace(c)
		b.WriteRune(r)
		prev = c
		pendingSpace = false
		started = true
	}
	return b.String()
}
