package handler

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/gradsys/gradtrack-backend/internal/config"
	"github.com/gradsys/gradtrack-backend/internal/response"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

// SystemHandler exposes the health endpoint.
type SystemHandler struct {
	pool      *pgxpool.Pool
	rdb       *redis.Client
	startTime time.Time
	log       zerolog.Logger
}

// NewSystemHandler creates a new SystemHandler.
func NewSystemHandler(pool *pgxpool.Pool, rdb *redis.Client, log zerolog.Logger) *SystemHandler {
	return &SystemHandler{
		pool:      pool,
		rdb:       rdb,
		startTime: time.Now(),
		log:       log.With().Str("component", "system_handler").Logger(),
	}
}

// Health godoc
// GET /api/v1/health
// Pings Postgres and Redis and reports the submission queue depth.
func (h *SystemHandler) Health(c *gin.Context) {
	ctx := c.Request.Context()

	dbOK := h.pool.Ping(ctx) == nil
	redisOK := h.rdb.Ping(ctx).Err() == nil

	var queueDepth int64
	if redisOK {
		queueDepth, _ = h.rdb.LLen(ctx, config.WorkerKey.SubmissionEventsQueue).Result()
	}

	status := http.StatusOK
	if !dbOK || !redisOK {
		status = http.StatusServiceUnavailable
		h.log.Warn().Bool("db", dbOK).Bool("redis", redisOK).Msg("Health check degraded")
	}

	response.Success(c, status, gin.H{
		"database":         dbOK,
		"redis":            redisOK,
		"submission_queue": queueDepth,
		"uptime_seconds":   int64(time.Since(h.startTime).Seconds()),
	})
}
