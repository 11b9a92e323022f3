package worker

import (
	"context"
	"encoding/json"
	"time"

	"github.com/gradsys/gradtrack-backend/internal/config"
	"github.com/gradsys/gradtrack-backend/internal/repository"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"
)

const (
	StatsBatchSize    = 50
	StatsBatchTimeout = 2 * time.Second
	StatsPollTimeout  = 1 * time.Second

	// CompletedCountTTL bounds staleness if a refresh is ever missed; the
	// next submission or expiry forces a recount.
	CompletedCountTTL = 12 * time.Hour
)

// StatsWorker consumes accepted-submission events. Each event is fanned out
// to the survey's monitor channel immediately; completed-count refreshes are
// batched and deduplicated per survey.
type StatsWorker struct {
	responseRepo *repository.SurveyResponseRepository
	rdb          *redis.Client
	log          zerolog.Logger
}

// NewStatsWorker creates a new StatsWorker.
func NewStatsWorker(responseRepo *repository.SurveyResponseRepository, rdb *redis.Client, log zerolog.Logger) *StatsWorker {
	return &StatsWorker{
		responseRepo: responseRepo,
		rdb:          rdb,
		log:          log.With().Str("component", "stats_worker").Logger(),
	}
}

type submissionPayload struct {
	SurveyID int `json:"survey_id"`
}

// Start runs the worker loop until the context is cancelled.
func (w *StatsWorker) Start(ctx context.Context) {
	w.log.Info().Msg("StatsWorker started")

	pending := make(map[int]struct{}, StatsBatchSize)
	lastFlush := time.Now()

	for {
		if len(pending) > 0 &&
			(len(pending) >= StatsBatchSize || time.Since(lastFlush) >= StatsBatchTimeout) {

			w.refreshCounts(ctx, pending)
			pending = make(map[int]struct{}, StatsBatchSize)
			lastFlush = time.Now()
		}

		select {
		case <-ctx.Done():
			w.log.Info().Msg("Shutdown requested. Flushing pending recounts...")
			w.refreshCounts(context.Background(), pending)
			return

		default:
			item, err := w.rdb.BLPop(ctx, StatsPollTimeout, config.WorkerKey.SubmissionEventsQueue).Result()
			if err != nil {
				if err != redis.Nil && ctx.Err() == nil {
					w.log.Error().Err(err).Msg("BLPop error")
				}
				continue
			}
			if len(item) < 2 {
				continue
			}

			raw := []byte(item[1])
			var p submissionPayload
			if err := json.Unmarshal(raw, &p); err != nil || p.SurveyID == 0 {
				w.log.Error().Err(err).Msg("Invalid submission event payload")
				continue
			}

			// Live fan-out first so monitors see the submission promptly.
			channel := config.CacheKey.SurveyMonitorChannel(p.SurveyID)
			if err := w.rdb.Publish(ctx, channel, raw).Err(); err != nil {
				w.log.Error().Err(err).Int("survey_id", p.SurveyID).Msg("Publish monitor event failed")
			}

			pending[p.SurveyID] = struct{}{}
		}
	}
}

// refreshCounts recounts each touched survey from Postgres and writes the
// result to the cache. The database is the source of truth; the cache only
// ever holds a recount, never an increment.
func (w *StatsWorker) refreshCounts(ctx context.Context, pending map[int]struct{}) {
	for surveyID := range pending {
		count, err := w.responseRepo.CountBySurvey(ctx, surveyID)
		if err != nil {
			w.log.Error().Err(err).Int("survey_id", surveyID).Msg("Recount failed")
			continue
		}

		key := config.CacheKey.SurveyCompletedCountKey(surveyID)
		if err := w.rdb.Set(ctx, key, count, CompletedCountTTL).Err(); err != nil {
			w.log.Error().Err(err).Int("survey_id", surveyID).Msg("Cache completed count failed")
			continue
		}

		w.log.Debug().Int("survey_id", surveyID).Int("completed", count).Msg("Completed count refreshed")
	}
}
