// Package transcript keeps an append-only record of every request sent to the
// backend and every reply received. Recording never blocks the caller and
// write failures are only logged.
package transcript

import (
	"fmt"
	"io"
	"log/slog"
	"os"
	"sync"
	"time"

	"gopkg.in/yaml.v3"
)

// Direction tells whether an entry was sent or received.
type Direction string

const (
	Request Direction = "request"
	Reply   Direction = "reply"
	Failure Direction = "failure"
)

// Entry is one YAML document in the transcript.
type Entry struct {
	Time      time.Time `yaml:"time"`
	Direction Direction `yaml:"direction"`
	Turn      int       `yaml:"turn"`
	Model     string    `yaml:"model,omitempty"`
	System    string    `yaml:"system,omitempty"`
	Text      string    `yaml:"text"`
}

// queueSize bounds how many entries may wait for the writer goroutine before
// new ones are dropped.
const queueSize = 256

// Writer appends entries to an underlying stream from its own goroutine.
type Writer struct {
	out     io.WriteCloser
	log     *slog.Logger
	entries chan Entry
	done    chan struct{}

	mu     sync.Mutex
	closed bool
}

// Open appends to the transcript file at path, creating it if needed.
func Open(path string, log *slog.Logger) (*Writer, error) {
	f, err := os.OpenFile(path, os.O_APPEND|os.O_CREATE|os.O_WRONLY, 0644)
	if err != nil {
		return nil, fmt.Errorf("open transcript: %w", err)
	}
	return New(f, log), nil
}

// New starts a Writer over out. Close stops it and closes out.
func New(out io.WriteCloser, log *slog.Logger) *Writer {
	w := &Writer{
		out:     out,
		log:     log,
		entries: make(chan Entry, queueSize),
		done:    make(chan struct{}),
	}
	go w.run()
	return w
}

// Record queues e for writing. It drops the entry, with a warning, when the
// queue is full or the writer is closed.
func (w *Writer) Record(e Entry) {
	if e.Time.IsZero() {
		e.Time = time.Now()
	}
	w.mu.Lock()
	defer w.mu.Unlock()
	if w.closed {
		w.log.Warn("transcript closed, dropping entry", "direction", e.Direction, "turn", e.Turn)
		return
	}
	select {
	case w.entries <- e:
	default:
		w.log.Warn("transcript queue full, dropping entry", "direction", e.Direction, "turn", e.Turn)
	}
}

// Close flushes queued entries and closes the underlying stream.
func (w *Writer) Close() error {
	w.mu.Lock()
	if w.closed {
		w.mu.Unlock()
		return nil
	}
	w.closed = true
	close(w.entries)
	w.mu.Unlock()

	<-w.done
	return w.out.Close()
}

func (w *Writer) run() {
	defer close(w.done)
	for e := range w.entries {
		if err := w.write(e); err != nil {
			w.log.Warn("transcript write failed", "error", err, "direction", e.Direction, "turn", e.Turn)
		}
	}
}

func (w *Writer) write(e Entry) error {
	data, err := yaml.Marshal(e)
	if err != nil {
		return fmt.Errorf("marshal entry: %w", err)
	}
	doc := append([]byte("---\n"), data...)
	if _, err := w.out.Write(doc); err != nil {
		return fmt.Errorf("write entry: %w", err)
	}
	return nil
}
