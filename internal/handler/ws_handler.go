package handler

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
	"github.com/vvitengg/admissions-backend/internal/config"
	"github.com/vvitengg/admissions-backend/internal/middleware"
	"github.com/vvitengg/admissions-backend/internal/model"
	"github.com/vvitengg/admissions-backend/internal/response"
	ws "github.com/vvitengg/admissions-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allowed-origins slice permits all origins (development mode).
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

// WSHandler streams new submissions to the admin dashboard in real time.
type WSHandler struct {
	rdb      *redis.Client
	log      zerolog.Logger
	upgrader websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(rdb *redis.Client, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		rdb:      rdb,
		log:      log.With().Str("component", "ws_handler").Logger(),
		upgrader: buildUpgrader(allowedOrigins),
	}
}

// AdmissionsFeed godoc
// WS /ws/v1/admin/admissions/feed
// Relays the Redis feed channel to the connected dashboard client.
func (h *WSHandler) AdmissionsFeed(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrAdminAccessOnly)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().Int("admin_id", claims.AdminID).Logger()
	wsLog.Info().Msg("Dashboard connected")

	pubsub := h.rdb.Subscribe(c.Request.Context(), config.QueueKey.FeedChannel)
	defer pubsub.Close()

	// Read pump: the dashboard sends nothing meaningful, but reading is the
	// only way to notice the peer going away.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	for {
		select {
		case <-done:
			wsLog.Debug().Msg("Dashboard disconnected")
			return
		case msg, ok := <-pubsub.Channel():
			if !ok {
				wsLog.Warn().Msg("Feed subscription closed")
				return
			}

			var ev model.AdmissionEvent
			if err := json.Unmarshal([]byte(msg.Payload), &ev); err != nil {
				wsLog.Error().Err(err).Msg("Malformed feed payload")
				continue
			}

			if err := ws.WriteTyped(conn, ws.AdmissionMessage{Event: ws.EventAdmission, Admission: ev}); err != nil {
				wsLog.Debug().Err(err).Msg("Feed write failed, closing")
				return
			}
		}
	}
}
