package handler

import (
	"net/http"

	"supportmatch-go/internal/service"

	"github.com/gin-gonic/gin"
)

// AuthHandler handles token lifecycle requests.
type AuthHandler struct {
	agentService service.AgentService
}

// NewAuthHandler creates a new AuthHandler instance.
func NewAuthHandler(agentService service.AgentService) *AuthHandler {
	return &AuthHandler{agentService: agentService}
}

type refreshRequest struct {
	RefreshToken string `json:"refreshToken" binding:"required"`
}

// RefreshToken exchanges a valid refresh token for a fresh token pair.
func (h *AuthHandler) RefreshToken(c *gin.Context) {
	var req refreshRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	accessToken, refreshToken, err := h.agentService.RefreshToken(req.RefreshToken)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 200, "data": gin.H{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	}, "message": "success"})
}
