package handler

import (
	"encoding/json"
	"net/http"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/examtrack/examtrack-backend/internal/config"
	"github.com/examtrack/examtrack-backend/internal/middleware"
	"github.com/examtrack/examtrack-backend/internal/service"
	ws "github.com/examtrack/examtrack-backend/internal/websocket"
)

// buildUpgrader creates a WebSocket upgrader with origin validation.
// An empty allow-list permits all origins (development mode).
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

// WSHandler serves the sync-notify stream. Connected devices receive a small
// "changed" hint whenever reference data mutates, so they can pull a delta
// immediately instead of waiting for their next poll interval.
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

// SyncNotifyStream godoc
// WS /ws/v1/sync/notify?token=<device JWT>
// Upgrades to WebSocket and forwards sync-change hints published on Redis
// PubSub. The hints are advisory: delivery is at-most-once per connection
// and a missed hint only delays the next pull.
func (h *WSHandler) SyncNotifyStream(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		c.JSON(http.StatusUnauthorized, gin.H{"error": "unauthorized"})
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Int("device_id", claims.DeviceID).
		Str("device_uuid", claims.DeviceUUID).
		Logger()

	wsLog.Info().Msg("Device connected to sync notify stream")

	sub := h.rdb.Subscribe(c.Request.Context(), config.CacheKey.SyncNotifyChannel())
	defer sub.Close()

	// Reader goroutine: consumes keepalive pings and detects the close.
	done := make(chan struct{})
	go func() {
		defer close(done)
		for {
			var msg ws.RequestEnvelope
			if err := ws.ReadJSON(conn, &msg); err != nil {
				if websocket.IsUnexpectedCloseError(err, websocket.CloseGoingAway, websocket.CloseNormalClosure) {
					wsLog.Warn().Err(err).Msg("Unexpected close")
				} else {
					wsLog.Debug().Msg("Connection closed")
				}
				return
			}

			switch msg.Action {
			case ws.ActionPing:
				ws.WriteTyped(conn, ws.PongNotice{Event: ws.EventPong})
			default:
				wsLog.Warn().Str("action", string(msg.Action)).Msg("Unknown action")
				ws.WriteError(conn, "unknown action: "+string(msg.Action))
			}
		}
	}()

	ch := sub.Channel()
	for {
		select {
		case <-done:
			return
		case <-c.Request.Context().Done():
			return
		case msg, ok := <-ch:
			if !ok {
				wsLog.Debug().Msg("PubSub channel closed")
				return
			}

			var hint service.SyncChangedHint
			if err := json.Unmarshal([]byte(msg.Payload), &hint); err != nil {
				wsLog.Warn().Err(err).Msg("Malformed sync hint")
				continue
			}

			notice := ws.ChangedNotice{
				Event:      ws.EventChanged,
				Entity:     hint.Entity,
				ServerTime: hint.ServerTime.UTC().Format(time.RFC3339Nano),
			}
			if err := ws.WriteTyped(conn, notice); err != nil {
				wsLog.Debug().Err(err).Msg("Hint write failed, dropping connection")
				return
			}
		}
	}
}
