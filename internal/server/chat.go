package server

import (
	"log/slog"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LawrenceCirillo/Alan/internal/chat"
	"github.com/LawrenceCirillo/Alan/pkg/api"
	"github.com/LawrenceCirillo/Alan/pkg/log"
	"github.com/LawrenceCirillo/Alan/pkg/stream"
)

func (s *Server) handleChat(c *gin.Context) {
	body, err := c.GetRawData()
	if err != nil {
		slog.Error("Failed to read chat request",
			log.Error(err))
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error:  "Failed to read request body",
			Status: http.StatusBadRequest,
		})
		return
	}

	stream.SetHeaders(c.Writer.Header())
	c.Status(http.StatusOK)

	w := stream.NewWriter(stream.NewResponseSink(c.Writer))
	s.chat.Serve(c.Request.Context(), chat.ParseMessages(body), w)
}
