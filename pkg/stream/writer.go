package stream

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"sync"
	"time"

	"github.com/LawrenceCirillo/Alan/pkg/api"
)

type (
	// Sink accepts whole frames. Implementations must write each frame in
	// full or report an error
	Sink interface {
		WriteFrame(frame []byte) error
	}

	// Writer emits frames to a Sink, one complete line at a time
	Writer struct {
		sink   Sink
		broken bool
		done   bool
		mu     sync.Mutex
	}

	// ResponseSink writes frames to an HTTP response, flushing after each
	ResponseSink struct {
		w       io.Writer
		flusher http.Flusher
	}
)

var (
	ErrStreamBroken = errors.New("stream sink is broken")
	ErrStreamDone   = errors.New("stream is already complete")
)

// NewWriter creates a Writer over sink
func NewWriter(sink Sink) *Writer {
	return &Writer{sink: sink}
}

// Text emits a text delta frame
func (w *Writer) Text(text string) error {
	return w.write(TextFrame(text))
}

// Delta emits a JSON-escaped text delta frame for model output
func (w *Writer) Delta(text string) error {
	frame, err := DeltaFrame(text)
	if err != nil {
		return err
	}
	return w.write(frame)
}

// ToolCall emits a tool invocation frame
func (w *Writer) ToolCall(id string, inv api.ToolInvocation) error {
	frame, err := ToolCallFrame(id, inv)
	if err != nil {
		return err
	}
	return w.write(frame)
}

// Finish emits the completion frame. No frames may follow it
func (w *Writer) Finish() error {
	w.mu.Lock()
	defer w.mu.Unlock()
	if err := w.writeLocked(FinishFrame()); err != nil {
		return err
	}
	w.done = true
	return nil
}

// Broken reports whether the sink has failed
func (w *Writer) Broken() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.broken
}

// Done reports whether the completion frame has been written
func (w *Writer) Done() bool {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.done
}

func (w *Writer) write(frame []byte) error {
	w.mu.Lock()
	defer w.mu.Unlock()
	return w.writeLocked(frame)
}

func (w *Writer) writeLocked(frame []byte) error {
	if w.done {
		return ErrStreamDone
	}
	if w.broken {
		return ErrStreamBroken
	}
	if err := w.sink.WriteFrame(frame); err != nil {
		w.broken = true
		return fmt.Errorf("%w: %w", ErrStreamBroken, err)
	}
	return nil
}

// NewToolCallID returns a time-derived tool call identifier
func NewToolCallID() string {
	return fmt.Sprintf("tool-call-%d", time.Now().UnixMilli())
}

// SetHeaders marks a response as an incrementally flushed, uncached stream
func SetHeaders(h http.Header) {
	h.Set("Content-Type", "text/event-stream")
	h.Set("Cache-Control", "no-cache")
	h.Set("Connection", "keep-alive")
}

// NewResponseSink creates a sink over w, flushing after every frame when w
// supports it
func NewResponseSink(w io.Writer) *ResponseSink {
	flusher, _ := w.(http.Flusher)
	return &ResponseSink{w: w, flusher: flusher}
}

func (s *ResponseSink) WriteFrame(frame []byte) error {
	n, err := s.w.Write(frame)
	if err != nil {
		return err
	}
	if n < len(frame) {
		return io.ErrShortWrite
	}
	if s.flusher != nil {
		s.flusher.Flush()
	}
	return nil
}
