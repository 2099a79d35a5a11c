package handler

import (
	"net/http"
	"strings"

	"supportmatch-go/internal/model"
	"supportmatch-go/internal/service"
	"supportmatch-go/pkg/log"

	"github.com/gin-gonic/gin"
)

// AgentHandler handles agent account requests.
type AgentHandler struct {
	agentService service.AgentService
}

// NewAgentHandler creates a new AgentHandler instance.
func NewAgentHandler(agentService service.AgentService) *AgentHandler {
	return &AgentHandler{agentService: agentService}
}

type credentialsRequest struct {
	Username string `json:"username" binding:"required"`
	Password string `json:"password" binding:"required,min=8"`
}

// Register creates a new agent account.
func (h *AgentHandler) Register(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	agent, err := h.agentService.Register(req.Username, req.Password)
	if err != nil {
		log.Warnf("[AgentHandler] registration failed for '%s': %v", req.Username, err)
		c.JSON(http.StatusConflict, gin.H{"error": err.Error()})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 200, "data": agent, "message": "success"})
}

// Login verifies credentials and returns a token pair.
func (h *AgentHandler) Login(c *gin.Context) {
	var req credentialsRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "invalid request body"})
		return
	}

	accessToken, refreshToken, err := h.agentService.Login(req.Username, req.Password)
	if err != nil {
		log.Warnf("[AgentHandler] login failed for '%s': %v", req.Username, err)
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid credentials"})
		return
	}

	c.JSON(http.StatusOK, gin.H{"code": 200, "data": gin.H{
		"accessToken":  accessToken,
		"refreshToken": refreshToken,
	}, "message": "success"})
}

// GetProfile returns the authenticated agent.
func (h *AgentHandler) GetProfile(c *gin.Context) {
	agent, exists := c.Get("agent")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve agent"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": agent.(*model.Agent), "message": "success"})
}

// Logout revokes the current access token.
func (h *AgentHandler) Logout(c *gin.Context) {
	authHeader := c.GetHeader("Authorization")
	tokenString := strings.TrimPrefix(authHeader, "Bearer ")
	if err := h.agentService.Logout(tokenString); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "logout failed"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": nil, "message": "success"})
}
