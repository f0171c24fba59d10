package worker

import (
	"context"
	"time"

	"github.com/rs/zerolog"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/repository"
)

// ExpiryInterval is how often overdue attempts are swept.
const ExpiryInterval = 30 * time.Second

// ExpiryWorker periodically marks in-progress attempts whose deadline has
// passed as expired. Answer submissions also expire attempts lazily; this
// sweep catches students who simply walked away.
type ExpiryWorker struct {
	submissionRepo *repository.SubmissionRepository
	log            zerolog.Logger
}

// NewExpiryWorker creates a new ExpiryWorker.
func NewExpiryWorker(submissionRepo *repository.SubmissionRepository, log zerolog.Logger) *ExpiryWorker {
	return &ExpiryWorker{
		submissionRepo: submissionRepo,
		log:            log.With().Str("component", "expiry_worker").Logger(),
	}
}

func (w *ExpiryWorker) Start(ctx context.Context) {
	w.log.Info().Msg("ExpiryWorker started")

	ticker := time.NewTicker(ExpiryInterval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			w.log.Info().Msg("ExpiryWorker stopped")
			return
		case <-ticker.C:
			expired, err := w.submissionRepo.ExpireOverdue(ctx)
			if err != nil {
				if ctx.Err() == nil {
					w.log.Error().Err(err).Msg("Expiry sweep failed")
				}
				continue
			}
			if expired > 0 {
				w.log.Info().Int("expired", expired).Msg("Overdue attempts expired")
			}
		}
	}
}
