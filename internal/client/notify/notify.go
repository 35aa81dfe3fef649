// Package notify abstracts transient user-facing notifications (the
// terminal equivalent of toasts). Every terminal error in the mutation
// engine and session manager is surfaced through a Notifier.
package notify

import (
	"fmt"
	"io"
	"sync"
)

type Notifier interface {
	Success(msg string)
	Error(msg string)
	Info(msg string)
}

// Writer prints one prefixed line per notification.
type Writer struct {
	mu sync.Mutex
	w  io.Writer
}

func NewWriter(w io.Writer) *Writer {
	return &Writer{w: w}
}

func (n *Writer) Success(msg string) { n.print("ok", msg) }
func (n *Writer) Error(msg string)   { n.print("error", msg) }
func (n *Writer) Info(msg string)    { n.print("info", msg) }

func (n *Writer) print(level, msg string) {
	n.mu.Lock()
	defer n.mu.Unlock()
	fmt.Fprintf(n.w, "[%s] %s\n", level, msg)
}

// Discard drops all notifications. Useful in tests.
type Discard struct{}

func (Discard) Success(string) {}
func (Discard) Error(string)   {}
func (Discard) Info(string)    {}
