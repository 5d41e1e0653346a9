package output

import (
	"bytes"
	"fmt"
	"io"
	"sync"
)

// ConsoleSink writes command output to a terminal or any other writer.
// It is safe for concurrent use; each call is written as one unit.
type ConsoleSink struct {
	mu     sync.Mutex
	w      io.Writer
	colors *ColorScheme
}

// NewConsoleSink creates a sink writing to w
func NewConsoleSink(w io.Writer, noColor bool) *ConsoleSink {
	return &ConsoleSink{
		w:      w,
		colors: NewColorScheme(w, noColor),
	}
}

// Display writes one line of text
func (s *ConsoleSink) Display(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.w, text)
}

// DisplayTable writes values as a grid
func (s *ConsoleSink) DisplayTable(values []int, columns, cellWidth int) {
	var buf bytes.Buffer
	RenderGrid(&buf, values, columns, cellWidth)

	s.mu.Lock()
	defer s.mu.Unlock()
	s.w.Write(buf.Bytes())
}

// DisplayError writes a highlighted error line
func (s *ConsoleSink) DisplayError(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.w, s.colors.Error("Error: %s", text))
}

// DisplayWarning writes a highlighted warning line
func (s *ConsoleSink) DisplayWarning(text string) {
	s.mu.Lock()
	defer s.mu.Unlock()
	fmt.Fprintln(s.w, s.colors.Warning("Warning: %s", text))
}
