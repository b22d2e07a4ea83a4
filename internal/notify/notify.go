// Package notify shows short user-facing notices on the console.
package notify

import (
	"fmt"
	"io"
	"strings"
	"sync"

	"github.com/fatih/color"
	"github.com/huangsam/tomato/internal/contract"
)

// Console prints notices to a writer, usually os.Stderr.
// The first line of a notice is its title; further lines are indented below it.
type Console struct {
	mu        sync.Mutex
	w         io.Writer
	useEmojis bool
	useColors bool
}

var _ contract.Notifier = &Console{} // Compile-time check

// NewConsole creates a console notifier writing to w.
func NewConsole(w io.Writer, useEmojis, useColors bool) *Console {
	return &Console{w: w, useEmojis: useEmojis, useColors: useColors}
}

// Notify implements contract.Notifier.
func (c *Console) Notify(message string) {
	c.print("🍅", contract.SuccessColor, message)
}

// Failure prints a failed run.
func (c *Console) Failure(err error) {
	c.print("❌", contract.ErrorColor, "Failed: "+err.Error())
}

// Warning prints a problem that did not stop the run.
func (c *Console) Warning(message string) {
	c.print("⚠️ ", contract.WarnColor, message)
}

func (c *Console) print(emoji string, col *color.Color, message string) {
	title, rest, _ := strings.Cut(strings.TrimRight(message, "\n"), "\n")

	var b strings.Builder
	if c.useEmojis {
		b.WriteString(emoji + " ")
	}
	if c.useColors {
		b.WriteString(col.Sprint(title))
	} else {
		b.WriteString(title)
	}
	b.WriteString("\n")
	if rest != "" {
		for line := range strings.SplitSeq(rest, "\n") {
			b.WriteString("   " + line + "\n")
		}
	}

	c.mu.Lock()
	defer c.mu.Unlock()
	_, _ = fmt.Fprint(c.w, b.String())
}

// Recorder keeps every notice in memory. It is used where notices are
// returned to a caller instead of printed.
type Recorder struct {
	mu       sync.Mutex
	messages []string
}

var _ contract.Notifier = &Recorder{} // Compile-time check

// Notify implements contract.Notifier.
func (r *Recorder) Notify(message string) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.messages = append(r.messages, message)
}

// Messages returns a copy of the recorded notices in arrival order.
func (r *Recorder) Messages() []string {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]string, len(r.messages))
	copy(out, r.messages)
	return out
}
