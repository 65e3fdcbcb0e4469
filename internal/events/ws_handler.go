package events

import (
	"net/http"
	"time"

	"ambeauty/internal/domain"
	"ambeauty/internal/pkg/logging"
	"ambeauty/internal/pkg/response"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
)

const (
	defaultPingInterval = 30 * time.Second
	pongWait            = 60 * time.Second
)

// TokenAuthorizer resolves a bearer token into a principal holding role.
type TokenAuthorizer interface {
	Authorize(token string, required domain.UserRole) (domain.Principal, error)
}

type WSHandler struct {
	hub          *Hub
	auth         TokenAuthorizer
	logger       *logging.Logger
	upgrader     websocket.Upgrader
	pingInterval time.Duration
}

// NewWSHandler serves the admin booking feed. An empty origins list accepts
// any origin.
func NewWSHandler(hub *Hub, auth TokenAuthorizer, logger *logging.Logger, origins []string) *WSHandler {
	if logger == nil {
		logger = logging.Default()
	}
	allowed := make(map[string]bool, len(origins))
	for _, o := range origins {
		allowed[o] = true
	}
	return &WSHandler{
		hub:    hub,
		auth:   auth,
		logger: logger,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  1024,
			WriteBufferSize: 1024,
			CheckOrigin: func(r *http.Request) bool {
				origin := r.Header.Get("Origin")
				return len(allowed) == 0 || origin == "" || allowed[origin]
			},
		},
		pingInterval: defaultPingInterval,
	}
}

// HandleWebSocket serves GET /ws/bookings?token=JWT. Browsers cannot set
// headers on a websocket handshake, so the token travels in the query.
func (h *WSHandler) HandleWebSocket(c *gin.Context) {
	token := c.Query("token")
	if token == "" {
		response.Error(c, http.StatusUnauthorized, "UNAUTHORIZED", "token query parameter is required")
		return
	}

	principal, err := h.auth.Authorize(token, domain.RoleAdmin)
	if err != nil {
		response.FromError(c, err)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.logger.Warn("websocket upgrade failed", "error", err)
		return
	}

	h.hub.Register(principal.UserID, conn)
	h.logger.Info("admin connected to booking feed", "user_id", principal.UserID)

	done := make(chan struct{})
	defer func() {
		close(done)
		h.hub.Unregister(principal.UserID, conn)
		h.logger.Info("admin disconnected from booking feed", "user_id", principal.UserID)
	}()

	_ = conn.SetReadDeadline(time.Now().Add(pongWait))
	conn.SetPongHandler(func(string) error {
		return conn.SetReadDeadline(time.Now().Add(pongWait))
	})

	go h.pingLoop(principal.UserID, done)
	h.readLoop(conn, principal.UserID)
}

func (h *WSHandler) pingLoop(userID int64, done <-chan struct{}) {
	ticker := time.NewTicker(h.pingInterval)
	defer ticker.Stop()

	for {
		select {
		case <-done:
			return
		case <-ticker.C:
			if err := h.hub.Ping(userID); err != nil {
				return
			}
		}
	}
}

// The feed is one-way; client frames are read only to notice disconnects.
func (h *WSHandler) readLoop(conn *websocket.Conn, userID int64) {
	for {
		if _, _, err := conn.ReadMessage(); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				h.logger.Warn("booking feed read error", "user_id", userID, "error", err)
			}
			return
		}
	}
}
