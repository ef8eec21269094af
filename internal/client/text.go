package client

import "strings"

// StripTrailingPunc removes the configured trailing punctuation from a
// recognized utterance before it is typed out. Idempotent.
func StripTrailingPunc(text, trashPunc string) string {
	if trashPunc == "" {
		return text
	}
	return strings.TrimRight(text, trashPunc)
}
