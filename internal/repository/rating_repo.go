package repository

import (
	"context"
	"database/sql"
	"fmt"

	"turfbooking/internal/db"
	"turfbooking/internal/entities"
)

type RatingRepository struct {
	DB *sql.DB
}

func NewRatingRepository(database *sql.DB) *RatingRepository {
	return &RatingRepository{DB: database}
}

func (r *RatingRepository) CreateRating(ctx context.Context, rating *db.Rating) error {
	err := r.DB.QueryRowContext(ctx, `
		INSERT INTO ratings (turf_id, score, comment) VALUES ($1, $2, $3)
		RETURNING id, created_at`,
		rating.TurfID, rating.Score, rating.Comment,
	).Scan(&rating.ID, &rating.CreatedAt)
	if err != nil {
		return fmt.Errorf("error inserting rating: %w", err)
	}
	return nil
}

func (r *RatingRepository) GetTurfRatingSummary(ctx context.Context, turfID int) (*entities.TurfRatingSummary, error) {
	summary := &entities.TurfRatingSummary{TurfID: turfID}
	err := r.DB.QueryRowContext(ctx, `
		SELECT COALESCE(AVG(score), 0), COUNT(*) FROM ratings WHERE turf_id = $1`, turfID).
		Scan(&summary.Score, &summary.Votes)
	if err != nil {
		return nil, fmt.Errorf("error querying rating summary for turf %d: %w", turfID, err)
	}
	return summary, nil
}
