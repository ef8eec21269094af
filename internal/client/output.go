package client

import (
	"fmt"
	"log"
	"os/exec"
	"runtime"
	"strings"
	"time"

	"github.com/atotto/clipboard"
)

// OutputDriver delivers a recognized utterance into the focused
// application.
type OutputDriver interface {
	Deliver(text string) error
}

// NewOutputDriver builds the configured delivery chain. With paste
// enabled the clipboard driver runs first and keystroke typing is the
// fallback; otherwise text is typed directly.
func NewOutputDriver(paste, restoreClip bool) OutputDriver {
	if !paste {
		return TypeDriver{}
	}
	return fallbackDriver{
		primary:  &ClipboardDriver{Restore: restoreClip},
		fallback: TypeDriver{},
	}
}

// ClipboardDriver copies the text and sends the platform paste
// keystroke. With Restore set the previous clipboard content is put
// back after a short settle delay.
type ClipboardDriver struct {
	Restore bool
}

func (d *ClipboardDriver) Deliver(text string) error {
	prev, err := clipboard.ReadAll()
	if err != nil {
		prev = ""
	}
	if err := clipboard.WriteAll(text); err != nil {
		return fmt.Errorf("copy result: %w", err)
	}
	if err := pasteKeystroke(); err != nil {
		return fmt.Errorf("paste keystroke: %w", err)
	}
	if d.Restore {
		time.Sleep(100 * time.Millisecond)
		if err := clipboard.WriteAll(prev); err != nil {
			log.Printf("restore clipboard: %v", err)
		}
	}
	return nil
}

// TypeDriver simulates typing the text key by key.
type TypeDriver struct{}

func (TypeDriver) Deliver(text string) error {
	switch runtime.GOOS {
	case "darwin":
		script := fmt.Sprintf(`tell application "System Events" to keystroke %s`, appleScriptString(text))
		return runTool("osascript", "-e", script)
	case "windows":
		return runTool("powershell", "-NoProfile", "-Command",
			fmt.Sprintf(`(New-Object -ComObject wscript.shell).SendKeys(%s)`, sendKeysString(text)))
	default:
		return runTool("xdotool", "type", "--clearmodifiers", "--", text)
	}
}

type fallbackDriver struct {
	primary  OutputDriver
	fallback OutputDriver
}

func (d fallbackDriver) Deliver(text string) error {
	if err := d.primary.Deliver(text); err != nil {
		log.Printf("output: %v, falling back to typing", err)
		return d.fallback.Deliver(text)
	}
	return nil
}

func pasteKeystroke() error {
	switch runtime.GOOS {
	case "darwin":
		return runTool("osascript", "-e", `tell application "System Events" to keystroke "v" using command down`)
	case "windows":
		return runTool("powershell", "-NoProfile", "-Command",
			`(New-Object -ComObject wscript.shell).SendKeys('^v')`)
	default:
		return runTool("xdotool", "key", "--clearmodifiers", "ctrl+v")
	}
}

func runTool(name string, args ...string) error {
	out, err := exec.Command(name, args...).CombinedOutput()
	if err != nil {
		return fmt.Errorf("%s: %w: %s", name, err, strings.TrimSpace(string(out)))
	}
	return nil
}

func appleScriptString(s string) string {
	s = strings.ReplaceAll(s, `\`, `\\`)
	s = strings.ReplaceAll(s, `"`, `\"`)
	return `"` + s + `"`
}

// sendKeysString quotes for SendKeys, whose metacharacters are wrapped
// in braces rather than escaped.
func sendKeysString(s string) string {
	var b strings.Builder
	b.WriteByte('\'')
	for _, r := range s {
		switch r {
		case '+', '^', '%', '~', '(', ')', '{', '}', '[', ']':
			fmt.Fprintf(&b, "{%c}", r)
		case '\'':
			b.WriteString("''")
		default:
			b.WriteRune(r)
		}
	}
	b.WriteByte('\'')
	return b.String()
}
