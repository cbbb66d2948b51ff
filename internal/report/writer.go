package report

import (
	"fmt"
	"io"
	"os"
	"sync"

	"github.com/cohalz/tools/internal/stats"
)

// Format selects how a report is rendered.
type Format string

// Supported report formats.
const (
	FormatText Format = "text"
	FormatJSON Format = "json"
)

// ParseFormat validates a --format flag value.
func ParseFormat(s string) (Format, error) {
	switch Format(s) {
	case FormatText, FormatJSON:
		return Format(s), nil
	default:
		return "", fmt.Errorf("unknown format %q (expected text or json)", s)
	}
}

// Writer renders report rows to a file or io.Writer and tracks how many rows
// were written.
type Writer struct {
	mu        sync.Mutex
	output    io.Writer
	count     int
	closeFunc func() error
}

// NewWriter creates a new report writer that writes to the specified output.
func NewWriter(w io.Writer) *Writer {
	return &Writer{output: w}
}

// NewFileWriter creates a new report writer that writes to a file.
// The caller must call Close() when done to ensure the file is properly closed.
func NewFileWriter(filename string) (*Writer, error) {
	file, err := os.Create(filename)
	if err != nil {
		return nil, fmt.Errorf("failed to create output file: %w", err)
	}

	return &Writer{
		output:    file,
		closeFunc: file.Close,
	}, nil
}

// WriteTable renders the rows as a wiki-style pipe table. MTTR values are
// formatted with the given number of fraction digits.
func (w *Writer) WriteTable(rows []stats.MonitorReport, digits int) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := RenderTable(w.output, rows, digits); err != nil {
		return err
	}
	w.count += len(rows)
	return nil
}

// WriteJSON renders the rows as indented JSON.
func (w *Writer) WriteJSON(rows []stats.MonitorReport) error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if err := RenderJSON(w.output, rows); err != nil {
		return err
	}
	w.count += len(rows)
	return nil
}

// Count returns the number of rows written.
func (w *Writer) Count() int {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.count
}

// Close closes the underlying writer if it's a file.
func (w *Writer) Close() error {
	w.mu.Lock()
	defer w.mu.Unlock()

	if w.closeFunc != nil {
		return w.closeFunc()
	}
	return nil
}
