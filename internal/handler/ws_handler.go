package handler

import (
	"encoding/json"
	"net/http"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gorilla/websocket"
	"github.com/gradsys/gradtrack-backend/internal/config"
	"github.com/gradsys/gradtrack-backend/internal/middleware"
	"github.com/gradsys/gradtrack-backend/internal/response"
	"github.com/gradsys/gradtrack-backend/internal/service"
	ws "github.com/gradsys/gradtrack-backend/internal/websocket"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	monitorRefreshInterval = 30 * time.Second
	monitorPingInterval    = 45 * time.Second
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

// WSHandler streams live survey completion updates to teachers.
type WSHandler struct {
	rdb           *redis.Client
	surveyService *service.SurveyService
	log           zerolog.Logger
	upgrader      websocket.Upgrader
}

// NewWSHandler creates a new WSHandler.
func NewWSHandler(rdb *redis.Client, surveyService *service.SurveyService, log zerolog.Logger, allowedOrigins []string) *WSHandler {
	return &WSHandler{
		rdb:           rdb,
		surveyService: surveyService,
		log:           log.With().Str("component", "ws_handler").Logger(),
		upgrader:      buildUpgrader(allowedOrigins),
	}
}

// MonitorSurvey godoc
// WS /ws/v1/teacher/surveys/:id/monitor?token=...
// Sends an initial statistics snapshot, then forwards each accepted
// submission as it arrives via Redis Pub/Sub. The snapshot is re-sent
// periodically so the counters self-heal after missed events.
func (h *WSHandler) MonitorSurvey(c *gin.Context) {
	claims := middleware.GetClaims(c)
	if claims == nil {
		response.Fail(c, http.StatusUnauthorized, response.ErrTokenRequired)
		return
	}

	surveyID, err := strconv.Atoi(c.Param("id"))
	if err != nil {
		response.Fail(c, http.StatusBadRequest, response.ErrInvalidID)
		return
	}

	// Resolve the survey before upgrading so a missing id is a plain 404.
	stats, err := h.surveyService.Stats(c.Request.Context(), claims.UserID, surveyID)
	if err != nil {
		response.Fail(c, http.StatusNotFound, response.ErrNotFound)
		return
	}

	conn, err := h.upgrader.Upgrade(c.Writer, c.Request, nil)
	if err != nil {
		h.log.Error().Err(err).Msg("WebSocket upgrade failed")
		return
	}
	defer conn.Close()

	wsLog := h.log.With().
		Int("teacher_id", claims.UserID).
		Int("survey_id", surveyID).
		Logger()
	wsLog.Info().Msg("Teacher attached to survey monitor")

	if err := ws.WriteEvent(conn, ws.EventSnapshot, stats); err != nil {
		return
	}

	reqCtx := c.Request.Context()

	pubsub := h.rdb.Subscribe(reqCtx, config.CacheKey.SurveyMonitorChannel(surveyID))
	defer pubsub.Close()
	events := pubsub.Channel()

	// Drain client frames so close is noticed; the monitor is push-only.
	clientGone := make(chan struct{})
	go func() {
		defer close(clientGone)
		for {
			if _, _, err := conn.ReadMessage(); err != nil {
				return
			}
		}
	}()

	refreshTicker := time.NewTicker(monitorRefreshInterval)
	defer refreshTicker.Stop()
	pingTicker := time.NewTicker(monitorPingInterval)
	defer pingTicker.Stop()

	for {
		select {
		case <-reqCtx.Done():
			wsLog.Info().Msg("Teacher disconnected from survey monitor")
			return

		case <-clientGone:
			wsLog.Debug().Msg("Monitor connection closed by client")
			return

		case msg, ok := <-events:
			if !ok {
				return
			}
			// Pub/Sub payloads are already JSON; wrap them in the envelope
			// without a decode round-trip.
			if !json.Valid([]byte(msg.Payload)) {
				wsLog.Warn().Msg("Dropping malformed monitor event")
				continue
			}
			frame := []byte(`{"event":"submission","data":` + msg.Payload + `}`)
			if err := ws.WriteRaw(conn, frame); err != nil {
				return
			}

		case <-refreshTicker.C:
			stats, err := h.surveyService.Stats(reqCtx, claims.UserID, surveyID)
			if err != nil {
				wsLog.Warn().Err(err).Msg("Monitor refresh failed")
				continue
			}
			if err := ws.WriteEvent(conn, ws.EventSnapshot, stats); err != nil {
				return
			}

		case <-pingTicker.C:
			if err := ws.WriteEvent(conn, ws.EventPing, nil); err != nil {
				return
			}
		}
	}
}
