package repository

import (
	"context"

	"github.com/google/uuid"
	"github.com/jackc/pgx/v5/pgxpool"

	"github.com/huynhmanh219/my-lms-backend-sub000/internal/model"
)

// RatingRepository handles rating data access.
type RatingRepository struct {
	pool *pgxpool.Pool
}

// NewRatingRepository creates a new RatingRepository.
func NewRatingRepository(pool *pgxpool.Pool) *RatingRepository {
	return &RatingRepository{pool: pool}
}

// Upsert stores a student's rating for a target, replacing any previous one.
func (r *RatingRepository) Upsert(ctx context.Context, rating *model.Rating) error {
	return r.pool.QueryRow(ctx,
		`INSERT INTO ratings (student_id, target, target_id, stars, comment)
		 VALUES ($1, $2, $3, $4, NULLIF($5, ''))
		 ON CONFLICT (student_id, target, target_id) DO UPDATE
		 SET stars = EXCLUDED.stars, comment = EXCLUDED.comment, updated_at = NOW()
		 RETURNING id, created_at, updated_at`,
		rating.StudentID, rating.Target, rating.TargetID, rating.Stars, rating.Comment,
	).Scan(&rating.ID, &rating.CreatedAt, &rating.UpdatedAt)
}

// Delete removes a student's rating for a target.
func (r *RatingRepository) Delete(ctx context.Context, studentID int, target model.RatingTarget, targetID uuid.UUID) error {
	_, err := r.pool.Exec(ctx,
		`DELETE FROM ratings WHERE student_id = $1 AND target = $2 AND target_id = $3`,
		studentID, target, targetID,
	)
	return err
}

// GetSummary computes the aggregate view for a target straight from the
// table. The cached copy in Redis is refreshed from this.
func (r *RatingRepository) GetSummary(ctx context.Context, target model.RatingTarget, targetID uuid.UUID) (*model.RatingSummary, error) {
	s := &model.RatingSummary{TargetID: targetID}
	err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*),
		        COALESCE(ROUND(AVG(stars), 2), 0),
		        COUNT(*) FILTER (WHERE stars = 1),
		        COUNT(*) FILTER (WHERE stars = 2),
		        COUNT(*) FILTER (WHERE stars = 3),
		        COUNT(*) FILTER (WHERE stars = 4),
		        COUNT(*) FILTER (WHERE stars = 5)
		 FROM ratings WHERE target = $1 AND target_id = $2`,
		target, targetID,
	).Scan(&s.TotalRatings, &s.AverageStars,
		&s.Histogram[0], &s.Histogram[1], &s.Histogram[2], &s.Histogram[3], &s.Histogram[4])
	if err != nil {
		return nil, err
	}
	return s, nil
}

// ListByTarget retrieves the individual ratings for a target with
// pagination, newest first.
func (r *RatingRepository) ListByTarget(ctx context.Context, target model.RatingTarget, targetID uuid.UUID, limit, offset int) ([]model.Rating, int, error) {
	var total int
	if err := r.pool.QueryRow(ctx,
		`SELECT COUNT(*) FROM ratings WHERE target = $1 AND target_id = $2`,
		target, targetID,
	).Scan(&total); err != nil {
		return nil, 0, err
	}

	rows, err := r.pool.Query(ctx,
		`SELECT id, student_id, target, target_id, stars, COALESCE(comment, ''), created_at, updated_at
		 FROM ratings WHERE target = $1 AND target_id = $2
		 ORDER BY updated_at DESC LIMIT $3 OFFSET $4`,
		target, targetID, limit, offset,
	)
	if err != nil {
		return nil, 0, err
	}
	defer rows.Close()

	var ratings []model.Rating
	for rows.Next() {
		var rating model.Rating
		if err := rows.Scan(&rating.ID, &rating.StudentID, &rating.Target, &rating.TargetID,
			&rating.Stars, &rating.Comment, &rating.CreatedAt, &rating.UpdatedAt); err != nil {
			return nil, 0, err
		}
		ratings = append(ratings, rating)
	}
	return ratings, total, rows.Err()
}
