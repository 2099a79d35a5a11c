// Package handler contains the controller logic for HTTP requests.
package handler

import (
	"net/http"

	"supportmatch-go/internal/model"
	"supportmatch-go/internal/service"
	"supportmatch-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// MatchHandler handles matching requests from the extension.
type MatchHandler struct {
	matchService service.MatchService
}

// NewMatchHandler creates a new MatchHandler instance.
func NewMatchHandler(matchService service.MatchService) *MatchHandler {
	return &MatchHandler{matchService: matchService}
}

// FindMatches handles one matching pass over the current conversation.
func (h *MatchHandler) FindMatches(c *gin.Context) {
	var req model.MatchRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		log.Warnf("[MatchHandler] invalid match request: %v", err)
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}
	log.Infof("[MatchHandler] received match request, tags: %d, textLen: %d", len(req.Tags), len(req.Text))

	results, err := h.matchService.FindMatches(c.Request.Context(), req)
	if err != nil {
		log.Errorf("[MatchHandler] match service returned error: %v", err)
		c.JSON(http.StatusInternalServerError, gin.H{"error": "matching failed"})
		return
	}

	log.Infof("[MatchHandler] match request served, %d results", len(results))
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": results, "message": "success"})
}
