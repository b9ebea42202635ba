package service

import (
	"context"
	"fmt"

	"turfbooking/internal/db"
	"turfbooking/internal/entities"
	apperr "turfbooking/internal/errors"
	"turfbooking/internal/repository"
	"turfbooking/internal/timeutil"
)

// TurfService covers the turf catalog and ratings. The booking core only
// reads from it; writes come from the admin console.
type TurfService struct {
	repo    *repository.TurfRepository
	cache   *repository.CachedTurfRepository
	ratings *repository.RatingRepository
}

func NewTurfService(repo *repository.TurfRepository, cache *repository.CachedTurfRepository, ratings *repository.RatingRepository) *TurfService {
	return &TurfService{repo: repo, cache: cache, ratings: ratings}
}

func (s *TurfService) ListTurfs(ctx context.Context) ([]db.Turf, error) {
	return s.repo.ListTurfs(ctx)
}

func (s *TurfService) GetTurf(ctx context.Context, id int) (*db.Turf, error) {
	turf, err := s.repo.GetTurf(ctx, id)
	if err != nil {
		return nil, err
	}
	if turf == nil {
		return nil, fmt.Errorf("%w: turf %d not found", apperr.ErrResourceUnavailable, id)
	}
	return turf, nil
}

func (s *TurfService) CreateTurf(ctx context.Context, req *entities.TurfRequest) (*db.Turf, error) {
	turf, err := turfFromRequest(req)
	if err != nil {
		return nil, err
	}
	if err := s.repo.CreateTurf(ctx, turf); err != nil {
		return nil, err
	}
	return turf, nil
}

func (s *TurfService) UpdateTurf(ctx context.Context, id int, req *entities.TurfRequest) (*db.Turf, error) {
	turf, err := turfFromRequest(req)
	if err != nil {
		return nil, err
	}
	turf.ID = id
	found, err := s.repo.UpdateTurf(ctx, turf)
	if err != nil {
		return nil, err
	}
	if !found {
		return nil, fmt.Errorf("%w: turf %d not found", apperr.ErrResourceUnavailable, id)
	}
	if s.cache != nil {
		s.cache.Invalidate(id)
	}
	return turf, nil
}

func (s *TurfService) DeleteTurf(ctx context.Context, id int) error {
	found, err := s.repo.DeleteTurf(ctx, id)
	if err != nil {
		return err
	}
	if !found {
		return fmt.Errorf("%w: turf %d not found", apperr.ErrResourceUnavailable, id)
	}
	if s.cache != nil {
		s.cache.Invalidate(id)
	}
	return nil
}

func (s *TurfService) RateTurf(ctx context.Context, req *entities.RatingRequest) (*entities.TurfRatingSummary, error) {
	if req.TurfID <= 0 {
		return nil, apperr.NewValidationError("turf_id", "is required")
	}
	if req.Score < 0 || req.Score > 10 {
		return nil, apperr.NewValidationError("score", "must be between 0 and 10")
	}
	if _, err := s.GetTurf(ctx, req.TurfID); err != nil {
		return nil, err
	}
	rating := &db.Rating{TurfID: req.TurfID, Score: req.Score, Comment: req.Comment}
	if err := s.ratings.CreateRating(ctx, rating); err != nil {
		return nil, err
	}
	return s.ratings.GetTurfRatingSummary(ctx, req.TurfID)
}

func (s *TurfService) GetRatingSummary(ctx context.Context, turfID int) (*entities.TurfRatingSummary, error) {
	return s.ratings.GetTurfRatingSummary(ctx, turfID)
}

// turfFromRequest validates the operating window and price rules before
// anything hits the catalog; a window that cannot generate slots is rejected
// here rather than discovered during availability queries.
func turfFromRequest(req *entities.TurfRequest) (*db.Turf, error) {
	if req.Name == "" {
		return nil, apperr.NewValidationError("name", "is required")
	}
	openM, err := timeutil.ToMinutes(req.OpenTime)
	if err != nil {
		return nil, apperr.NewValidationError("open_time", "must look like \"06:00 AM\"")
	}
	closeM, err := timeutil.ToMinutes(req.CloseTime)
	if err != nil {
		return nil, apperr.NewValidationError("close_time", "must look like \"10:00 PM\"")
	}
	if openM >= closeM {
		return nil, apperr.NewValidationError("open_time", "must be before close_time; windows past midnight are not supported")
	}
	slotMinutes := req.SlotMinutes
	if slotMinutes == 0 {
		slotMinutes = 15
	}
	if slotMinutes < 0 {
		return nil, apperr.NewValidationError("slot_minutes", "must be positive")
	}
	for _, date := range req.BlackoutDates {
		if err := validateDate(date); err != nil {
			return nil, apperr.NewValidationError("blackout_dates", fmt.Sprintf("%q is not a YYYY-MM-DD date", date))
		}
	}

	turf := &db.Turf{
		Name:          req.Name,
		Address:       req.Address,
		ContactNumber: req.ContactNumber,
		OpenTime:      req.OpenTime,
		CloseTime:     req.CloseTime,
		SlotMinutes:   slotMinutes,
		Active:        true,
		BlackoutDates: req.BlackoutDates,
	}
	if req.Active != nil {
		turf.Active = *req.Active
	}
	for _, pr := range req.PriceRules {
		if pr.DayClass != db.DayClassWeekday && pr.DayClass != db.DayClassWeekend {
			return nil, apperr.NewValidationError("price_rules", "day_class must be weekday or weekend")
		}
		if _, err := timeutil.ToMinutes(pr.WindowStart); err != nil {
			return nil, apperr.NewValidationError("price_rules", "window_start is not a valid time of day")
		}
		if _, err := timeutil.ToMinutes(pr.WindowEnd); err != nil {
			return nil, apperr.NewValidationError("price_rules", "window_end is not a valid time of day")
		}
		if pr.Rate < 0 {
			return nil, apperr.NewValidationError("price_rules", "rate must not be negative")
		}
		turf.PriceRules = append(turf.PriceRules, db.PriceRule{
			DayClass:    pr.DayClass,
			WindowStart: pr.WindowStart,
			WindowEnd:   pr.WindowEnd,
			Rate:        pr.Rate,
		})
	}
	return turf, nil
}
