package handler

import (
	"net/http"
	"time"

	"supportmatch-go/internal/model"
	"supportmatch-go/internal/service"
	"supportmatch-go/pkg/log"
	"supportmatch-go/pkg/token"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

var upgrader = websocket.Upgrader{
	CheckOrigin: func(r *http.Request) bool {
		return true // the extension connects from the helpdesk origin
	},
}

// LiveHandler streams match results over a WebSocket while the agent's
// conversation evolves. Each incoming frame carries the current tags and
// visible text; each outgoing frame carries the matches for that state.
type LiveHandler struct {
	matchService service.MatchService
	agentService service.AgentService
	jwtManager   *token.JWTManager
}

// NewLiveHandler creates a new LiveHandler instance.
func NewLiveHandler(matchService service.MatchService, agentService service.AgentService, jwtManager *token.JWTManager) *LiveHandler {
	return &LiveHandler{
		matchService: matchService,
		agentService: agentService,
		jwtManager:   jwtManager,
	}
}

// GetWebsocketToken issues a short-lived token for the WebSocket URL, since
// browsers cannot attach an Authorization header to the upgrade request.
func (h *LiveHandler) GetWebsocketToken(c *gin.Context) {
	claims, exists := c.Get("claims")
	if !exists {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve claims"})
		return
	}
	cc := claims.(*token.CustomClaims)

	wsToken, err := h.jwtManager.GenerateToken(cc.AgentID, cc.Username, cc.Role)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to issue token"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"code": 200, "data": gin.H{"wsToken": wsToken}, "message": "success"})
}

type liveFrame struct {
	Type      string        `json:"type"`
	Matches   []model.Match `json:"matches,omitempty"`
	Error     string        `json:"error,omitempty"`
	Timestamp int64         `json:"timestamp"`
}

// Handle upgrades the connection and serves matching passes until the client
// disconnects.
func (h *LiveHandler) Handle(c *gin.Context) {
	tokenString := c.Param("token")
	claims, err := h.jwtManager.VerifyToken(tokenString)
	if err != nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "invalid token"})
		return
	}

	if _, err := h.agentService.GetProfile(claims.Username); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "failed to resolve agent"})
		return
	}

	conn, err := upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		log.Errorf("[LiveHandler] WebSocket upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	log.Infof("[LiveHandler] live matching session opened for agent %s", claims.Username)

	for {
		var req model.MatchRequest
		if err := conn.ReadJSON(&req); err != nil {
			log.Warnf("[LiveHandler] live session for %s closed: %v", claims.Username, err)
			break
		}

		results, err := h.matchService.FindMatches(c.Request.Context(), req)
		frame := liveFrame{Type: "matches", Timestamp: time.Now().UnixMilli()}
		if err != nil {
			frame.Type = "error"
			frame.Error = "matching failed"
		} else {
			frame.Matches = results
		}

		if err := conn.WriteJSON(frame); err != nil {
			log.Warnf("[LiveHandler] write to live session for %s failed: %v", claims.Username, err)
			break
		}
	}
}
