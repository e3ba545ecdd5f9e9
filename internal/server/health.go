package server

import (
	"net/http"

	"github.com/gin-gonic/gin"

	alan "github.com/LawrenceCirillo/Alan"
	"github.com/LawrenceCirillo/Alan/pkg/api"
)

const (
	modeOffline   = "offline"
	modeConnected = "connected"
)

func (s *Server) handleHealth(c *gin.Context) {
	mode := modeConnected
	if s.chat.Offline() {
		mode = modeOffline
	}
	c.JSON(http.StatusOK, api.HealthResponse{
		Service: alan.Name,
		Version: alan.Version,
		Status:  "healthy",
		Mode:    mode,
	})
}
