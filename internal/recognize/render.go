package recognize

import (
	"regexp"
	"strings"
)

// Spaces that follow a non-alphanumeric rune and do not precede an
// alphanumeric one are artifacts of token joining (CJK tokens are single
// characters); English word boundaries keep their space.
var joinSpace = regexp.MustCompile(`([^a-zA-Z0-9]) ([^a-zA-Z0-9]|$)`)

// RenderText renders a token sequence as display text: tokens are joined
// with spaces, the "@@ " subword continuation marker is collapsed, and
// spaces introduced around CJK characters are removed.
func RenderText(tokens []string) string {
	text := strings.Join(tokens, " ")
	text = strings.ReplaceAll(text, "@@ ", "")
	// Replace repeatedly: matches may not overlap within one pass, e.g.
	// "一 二 三" needs two passes.
	for {
		replaced := joinSpace.ReplaceAllString(text, "$1$2")
		if replaced == text {
			return replaced
		}
		text = replaced
	}
}
