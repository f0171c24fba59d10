package service

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
	"github.com/rs/zerolog"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/config"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/model"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/repository"
	"github.com/huynhmanh219/my-lms-backend-sub000/internal/response"
)

// ratingSummaryTTL bounds staleness if a refresh event is ever lost.
const ratingSummaryTTL = 24 * time.Hour

// RatingEvent is the queue message asking the rating worker to refresh one
// target's cached summary.
type RatingEvent struct {
	Target   model.RatingTarget `json:"target"`
	TargetID uuid.UUID          `json:"target_id"`
}

// RatingService handles star ratings and their cached aggregates.
type RatingService struct {
	ratingRepo  *repository.RatingRepository
	sectionRepo *repository.SectionRepository
	lectureRepo *repository.LectureRepository
	rdb         *redis.Client
	log         zerolog.Logger
}

// NewRatingService creates a new RatingService.
func NewRatingService(
	ratingRepo *repository.RatingRepository,
	sectionRepo *repository.SectionRepository,
	lectureRepo *repository.LectureRepository,
	rdb *redis.Client,
	log zerolog.Logger,
) *RatingService {
	return &RatingService{
		ratingRepo:  ratingRepo,
		sectionRepo: sectionRepo,
		lectureRepo: lectureRepo,
		rdb:         rdb,
		log:         log.With().Str("component", "rating_service").Logger(),
	}
}

// Rate stores or replaces the student's rating and queues a summary refresh
// for the worker. Students may only rate content they can reach through an
// active enrollment.
func (s *RatingService) Rate(ctx context.Context, studentID int, target model.RatingTarget, targetID uuid.UUID, req *model.RateRequest) (*model.Rating, error) {
	if err := s.checkEligible(ctx, studentID, target, targetID); err != nil {
		return nil, err
	}

	rating := &model.Rating{
		StudentID: studentID,
		Target:    target,
		TargetID:  targetID,
		Stars:     req.Stars,
		Comment:   req.Comment,
	}
	if err := s.ratingRepo.Upsert(ctx, rating); err != nil {
		return nil, err
	}

	s.enqueueRefresh(ctx, target, targetID)
	return rating, nil
}

// Delete removes the student's rating and queues a summary refresh.
func (s *RatingService) Delete(ctx context.Context, studentID int, target model.RatingTarget, targetID uuid.UUID) error {
	if err := s.ratingRepo.Delete(ctx, studentID, target, targetID); err != nil {
		return err
	}
	s.enqueueRefresh(ctx, target, targetID)
	return nil
}

// GetSummary returns the aggregate for a target, served from the Redis
// cache when fresh and recomputed from PostgreSQL on a miss.
func (s *RatingService) GetSummary(ctx context.Context, target model.RatingTarget, targetID uuid.UUID) (*model.RatingSummary, error) {
	key := config.CacheKey.RatingSummaryKey(string(target), targetID.String())
	raw, err := s.rdb.Get(ctx, key).Bytes()
	if err == nil {
		summary := &model.RatingSummary{}
		if err := json.Unmarshal(raw, summary); err == nil {
			return summary, nil
		}
	} else if !errors.Is(err, redis.Nil) {
		s.log.Warn().Err(err).Str("key", key).Msg("Summary cache read failed")
	}

	return s.RefreshSummary(ctx, target, targetID)
}

// RefreshSummary recomputes a target's aggregate from PostgreSQL and caches
// it. The rating worker calls this for each queued event.
func (s *RatingService) RefreshSummary(ctx context.Context, target model.RatingTarget, targetID uuid.UUID) (*model.RatingSummary, error) {
	summary, err := s.ratingRepo.GetSummary(ctx, target, targetID)
	if err != nil {
		return nil, err
	}

	raw, err := json.Marshal(summary)
	if err != nil {
		return nil, fmt.Errorf("marshal summary: %w", err)
	}
	key := config.CacheKey.RatingSummaryKey(string(target), targetID.String())
	if err := s.rdb.Set(ctx, key, raw, ratingSummaryTTL).Err(); err != nil {
		s.log.Warn().Err(err).Str("key", key).Msg("Summary cache write failed")
	}
	return summary, nil
}

// List retrieves the individual ratings for a target with pagination.
func (s *RatingService) List(ctx context.Context, target model.RatingTarget, targetID uuid.UUID, page, perPage int) ([]model.Rating, *response.Pagination, error) {
	page, perPage = clampPaging(page, perPage)
	ratings, total, err := s.ratingRepo.ListByTarget(ctx, target, targetID, perPage, (page-1)*perPage)
	if err != nil {
		return nil, nil, err
	}
	if ratings == nil {
		ratings = []model.Rating{}
	}
	return ratings, buildPagination(page, perPage, total), nil
}

func (s *RatingService) checkEligible(ctx context.Context, studentID int, target model.RatingTarget, targetID uuid.UUID) error {
	var (
		ok  bool
		err error
	)
	switch target {
	case model.RatingTargetSection:
		ok, err = s.sectionRepo.IsEnrolled(ctx, studentID, targetID)
	case model.RatingTargetLecture:
		ok, err = s.lectureRepo.VisibleToStudent(ctx, targetID, studentID)
	default:
		return errors.New("unknown rating target")
	}
	if err != nil {
		return err
	}
	if !ok {
		return ErrNotVisible
	}
	return nil
}

// enqueueRefresh pushes a refresh event for the worker. Failures only delay
// the cached aggregate; the write itself has already committed.
func (s *RatingService) enqueueRefresh(ctx context.Context, target model.RatingTarget, targetID uuid.UUID) {
	event, err := json.Marshal(RatingEvent{Target: target, TargetID: targetID})
	if err != nil {
		return
	}
	if err := s.rdb.LPush(ctx, config.WorkerKey.RatingEventsQueue, event).Err(); err != nil {
		s.log.Warn().Err(err).Msg("Failed to enqueue rating refresh")
	}
}
