package server

import (
	"errors"
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/LawrenceCirillo/Alan/internal/planner"
	"github.com/LawrenceCirillo/Alan/internal/store"
	"github.com/LawrenceCirillo/Alan/pkg/api"
)

func (s *Server) generateWorkflow(c *gin.Context) {
	var req api.GenerateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, api.ErrorResponse{
			Error:  fmt.Sprintf("Invalid request body: %s", err),
			Status: http.StatusBadRequest,
		})
		return
	}

	bp, err := s.planner.Plan(c.Request.Context(), req)
	if err != nil {
		if errors.Is(err, planner.ErrGoalRequired) {
			c.JSON(http.StatusBadRequest, api.ErrorResponse{
				Error:  "Goal is required",
				Status: http.StatusBadRequest,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			Error:  planner.ErrorMessage(err),
			Status: http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, bp)
}

func (s *Server) getWorkflow(c *gin.Context) {
	id := api.WorkflowID(c.Param("workflowID"))

	bp, err := s.planner.Get(c.Request.Context(), id)
	if err != nil {
		if errors.Is(err, store.ErrNotFound) {
			c.JSON(http.StatusNotFound, api.ErrorResponse{
				Error:  fmt.Sprintf("Workflow not found: %s", id),
				Status: http.StatusNotFound,
			})
			return
		}
		c.JSON(http.StatusInternalServerError, api.ErrorResponse{
			Error:  err.Error(),
			Status: http.StatusInternalServerError,
		})
		return
	}

	c.JSON(http.StatusOK, bp)
}
