package server

import (
	"time"

	"github.com/LawrenceCirillo/Alan/internal/chat"
	"github.com/LawrenceCirillo/Alan/internal/planner"
)

// NewServerWithPongWait creates a Server whose WebSocket keepalive expects
// a pong within pongWait
func NewServerWithPongWait(
	h *chat.Handler, p *planner.Planner, pongWait time.Duration,
) *Server {
	s := NewServer(h, p)
	s.pongWait = pongWait
	return s
}
