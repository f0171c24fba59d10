package handler

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/rs/zerolog"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/service"
	ws "github.com/huynhmanh219/my-lms-backend-sub000/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// allowedOrigins comes from config.Config.AllowedOrigins.
// An empty slice permits all origins (development mode).
func buildUpgrader(allowedOrigins []string) websocket.Upgrader {
	return websocket.Upgrader{
		ReadBufferSize:  1024,
		WriteBufferSize: 1024,
		CheckOrigin: func(r *http.Request) bool {
			if len(allowedOrigins) == 0 {
				return true
			}
			origin := r.Header.Get("Origin")
			for _, allowed := range allowedOrigins {
				if strings.EqualFold(allowed, origin) {
					return true
				}
			}
			return false
		},
	}
}

// WSHandler handles the live section chat stream. Messages fan out
// through Redis PubSub, so every server instance delivers to its own
// connected clients.
type WSHandler struct {
	chatService *service.ChatService
	log         zerolog.Logger
	upgrader    websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(chatService *service.ChatService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		chatService: chatService,
		log:         log.With().Str("component", "ws_handler").Logger(),
		upgrader:    buildUpgrader(allowedOrigins),
	}
}

// SectionChatStream godoc
// WS /ws/v1/sections/:section_id/chat
// Upgrades to WebSocket. Incoming "send" frames persist and broadcast a
// message; every message published on the section channel is pushed to
// the client as a "message" event.
func (h *WSHandler) SectionChatStream(c *gin.Context) {
	claims, ok := mustClaims(c)
	if !ok {
		return
	}

	sectionID, ok := pathID(c, "section_id")
	if !ok {
		return
	}

	// Participation is checked before the upgrade so rejected clients
	// get a plain HTTP status instead of a dropped socket.
	allowed, err := h.chatService.CanParticipate(c.Request.Context(), claims, sectionID)
	if err != nil || !allowed {
		c.JSON(http.StatusForbidden, gin.H{"error": "not a participant of this section"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Int("account_id", claims.AccountID).
		Str("section_id", sectionID.String()).
		Logger()

	wsLog.Info().Msg("Client connected")

	pubsub := h.chatService.Subscribe(c.Request.Context(), sectionID)
	defer pubsub.Close()

	// Fan-out pump: Redis channel → socket. Closes the socket on write
	// failure so the read loop below unblocks.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for msg := range pubsub.Channel() {
			if err := ws.WriteRawMessage(conn, []byte(msg.Payload)); err != nil {
				wsLog.Debug().Err(err).Msg("Fan-out write failed")
				conn.Close()
				return
			}
		}
	}()

	for {
		var msg ws.RequestPayload
		if err := ws.ReadJSON(conn, &msg); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
				wsLog.Warn().Err(err).Msg("Unexpected close")
			} else {
				wsLog.Debug().Msg("Connection closed")
			}
			break
		}

		switch msg.Action {
		case ws.ActionSend:
			body := strings.TrimSpace(msg.Body)
			if body == "" || len(body) > 2000 {
				ws.WriteError(conn, "message body must be 1-2000 characters")
				continue
			}
			if _, err := h.chatService.Send(c.Request.Context(), claims, sectionID, body, claims.Email); err != nil {
				wsLog.Error().Err(err).Msg("Chat send failed")
				ws.WriteError(conn, "failed to send message")
				continue
			}
			ws.WriteTyped(conn, ws.AckResponse{Event: ws.EventAck})
		case ws.ActionPing:
			ws.WriteTyped(conn, ws.PongResponse{Event: ws.EventPong})
		default:
			wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
			ws.WriteError(conn, "unknown action: "+string(msg.Action))
		}
	}

	pubsub.Close()
	<-done
}
