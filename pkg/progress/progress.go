// Package progress provides rewritable terminal progress output.
package progress

import (
	"fmt"
	"io"
	"strings"
	"time"

	"github.com/dustin/go-humanize"
)

// Reader counts the bytes read from an underlying reader and reports a
// human readable total to Line.
type Reader struct {
	io.Reader       // reader being counted
	Bytes     int64 // total number of bytes read so far

	Line *Rewritable // may be nil, in which case only counting happens
}

func (r *Reader) Read(p []byte) (int, error) {
	n, err := r.Reader.Read(p)
	r.Bytes += int64(n)
	if r.Line != nil {
		r.Line.Write("read " + humanize.Bytes(uint64(r.Bytes)))
	}
	return n, err
}

// Writer counts the bytes written to an underlying writer and reports a
// human readable total to Line.
type Writer struct {
	io.Writer       // writer being counted
	Bytes     int64 // total number of bytes written so far

	Line *Rewritable // may be nil, in which case only counting happens
}

func (w *Writer) Write(p []byte) (int, error) {
	w.Bytes += int64(len(p))
	if w.Line != nil {
		w.Line.Write("wrote " + humanize.Bytes(uint64(w.Bytes)))
	}
	return w.Writer.Write(p)
}

// DefaultFlushInterval caps terminal updates at roughly thirty per second.
const DefaultFlushInterval = time.Second / 30

// Rewritable writes a single line of content to a terminal, overwriting
// whatever the line held before.
//
// Content is only flushed when at least FlushInterval has passed since the
// previous flush, so it may be updated at a high rate.
type Rewritable struct {
	Writer io.Writer

	FlushInterval time.Duration // minimum time between flushes

	lastFlush time.Time
	longest   int    // longest content ever flushed, for blanking
	content   string // current content
}

// Write replaces the content of this line.
func (line *Rewritable) Write(text string) {
	line.content = text
	line.Flush(false)
}

// Flush writes out the current content, unless the previous flush was less
// than FlushInterval ago. When force is set, the content is always written.
func (line *Rewritable) Flush(force bool) {
	if !force && time.Since(line.lastFlush) <= line.FlushInterval {
		return
	}

	if len(line.content) > line.longest {
		line.longest = len(line.content)
	}

	// pad with spaces so that longer previous content is blanked out
	padding := strings.Repeat(" ", line.longest-len(line.content))
	fmt.Fprintf(line.Writer, "\r%s%s", line.content, padding)

	line.lastFlush = time.Now()
}

// Close blanks out the line, leaving the cursor at its start.
// The Rewritable may be reused afterwards.
func (line *Rewritable) Close() {
	line.content = ""
	line.Flush(true)
	_, _ = line.Writer.Write([]byte("\r"))
}
