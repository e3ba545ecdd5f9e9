package helpers

import (
	"bytes"
	"errors"
	"sync"

	"github.com/LawrenceCirillo/Alan/pkg/stream"
)

type (
	// BufferSink collects every frame written to it
	BufferSink struct {
		buf bytes.Buffer
		mu  sync.Mutex
	}

	// FailingSink accepts a fixed number of frames and then fails
	FailingSink struct {
		BufferSink
		remaining int
	}
)

var ErrSinkClosed = errors.New("sink closed")

var (
	_ stream.Sink = (*BufferSink)(nil)
	_ stream.Sink = (*FailingSink)(nil)
)

func (s *BufferSink) WriteFrame(frame []byte) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.buf.Write(frame)
	return nil
}

// Bytes returns a copy of everything written
func (s *BufferSink) Bytes() []byte {
	s.mu.Lock()
	defer s.mu.Unlock()
	return bytes.Clone(s.buf.Bytes())
}

// NewFailingSink creates a sink that fails after accepting n frames
func NewFailingSink(n int) *FailingSink {
	return &FailingSink{remaining: n}
}

func (s *FailingSink) WriteFrame(frame []byte) error {
	s.mu.Lock()
	if s.remaining <= 0 {
		s.mu.Unlock()
		return ErrSinkClosed
	}
	s.remaining--
	s.mu.Unlock()
	return s.BufferSink.WriteFrame(frame)
}
