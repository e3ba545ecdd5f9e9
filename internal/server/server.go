package server

import (
	"log/slog"
	"net/http"
	"sync"
	"time"

	glog "github.com/gin-contrib/slog"
	"github.com/gin-gonic/gin"

	"github.com/LawrenceCirillo/Alan/internal/chat"
	"github.com/LawrenceCirillo/Alan/internal/planner"
	"github.com/LawrenceCirillo/Alan/pkg/api"
	"github.com/LawrenceCirillo/Alan/pkg/util"
)

// Server implements the HTTP API of the assistant
type Server struct {
	chat     *chat.Handler
	planner  *planner.Planner
	sockets  util.Set[*Client]
	mu       sync.Mutex
	pongWait time.Duration
}

// NewServer creates a new HTTP API server
func NewServer(h *chat.Handler, p *planner.Planner) *Server {
	return &Server{
		chat:     h,
		planner:  p,
		sockets:  util.Set[*Client]{},
		pongWait: defaultPongWait,
	}
}

// SetupRoutes configures and returns the HTTP router with all API endpoints
func (s *Server) SetupRoutes() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(glog.SetLogger(
		glog.WithLogger(func(c *gin.Context, l *slog.Logger) *slog.Logger {
			return slog.Default()
		}),
	))

	// CORS middleware
	router.Use(func(c *gin.Context) {
		c.Writer.Header().Set("Access-Control-Allow-Origin", "*")
		c.Writer.Header().Set(
			"Access-Control-Allow-Methods", "GET, POST, OPTIONS",
		)
		c.Writer.Header().Set(
			"Access-Control-Allow-Headers",
			"Content-Type, Authorization",
		)

		if c.Request.Method == "OPTIONS" {
			c.AbortWithStatus(http.StatusOK)
			return
		}

		c.Next()
	})

	router.GET("/", s.handleRoot)
	router.GET("/health", s.handleHealth)

	apiGroup := router.Group("/api")
	{
		// Chat stream
		apiGroup.POST("/chat", s.handleChat)
		apiGroup.GET("/chat/ws", s.handleWebSocket)

		// Workflow generation service
		apiGroup.POST("/workflow/generate", s.generateWorkflow)
		apiGroup.GET("/workflow/:workflowID", s.getWorkflow)
	}

	return router
}

func (s *Server) handleRoot(c *gin.Context) {
	c.JSON(http.StatusOK, api.StatusResponse{
		Status:  "ok",
		Message: "Alan API is running",
	})
}

func (s *Server) registerWebSocket(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sockets.Add(c)
}

func (s *Server) unregisterWebSocket(c *Client) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.sockets.Remove(c)
}

// CloseWebSockets closes all active WebSocket connections
func (s *Server) CloseWebSockets() {
	s.mu.Lock()
	conns := make([]*Client, 0, len(s.sockets))
	for c := range s.sockets {
		conns = append(conns, c)
	}
	s.mu.Unlock()

	for _, c := range conns {
		c.Close()
	}
}
