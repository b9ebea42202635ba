package service

import (
	"context"

	"turfbooking/internal/entities"
	"turfbooking/internal/repository"
)

// AdminService backs the admin console's booking views.
type AdminService struct {
	repo *repository.BookingRepository
}

func NewAdminService(repo *repository.BookingRepository) *AdminService {
	return &AdminService{repo: repo}
}

func (s *AdminService) ListBookings(ctx context.Context, turfID int, date string, statuses []string, limit, offset int) (*entities.BookingsList, error) {
	if limit <= 0 || limit > 200 {
		limit = 50
	}
	if offset < 0 {
		offset = 0
	}
	bookings, total, err := s.repo.ListBookings(ctx, turfID, date, statuses, limit, offset)
	if err != nil {
		return nil, err
	}
	list := &entities.BookingsList{
		Total:    total,
		Limit:    limit,
		Offset:   offset,
		Bookings: make([]entities.BookingResponse, 0, len(bookings)),
	}
	for i := range bookings {
		list.Bookings = append(list.Bookings, toBookingResponse(&bookings[i], ""))
	}
	return list, nil
}
