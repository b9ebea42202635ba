package service

import (
	"context"
	"fmt"
	"log"
	"time"

	"turfbooking/internal/repository"
)

// JobService hosts the background maintenance work scheduled by cron.
type JobService struct {
	repo     *repository.JobRepository
	bookings *BookingService
	ttl      time.Duration
}

func NewJobService(repo *repository.JobRepository, bookings *BookingService, ttl time.Duration) *JobService {
	return &JobService{repo: repo, bookings: bookings, ttl: ttl}
}

// ExpireStalePendingBookings cancels pending bookings whose payment was never
// acknowledged within the TTL, then re-broadcasts availability for every turf
// calendar that was touched.
func (s *JobService) ExpireStalePendingBookings() error {
	log.Println("Cron Job: Checking for stale pending bookings...")

	cutoff := time.Now().UTC().Add(-s.ttl)
	ids, err := s.repo.GetStalePendingBookingIDs(cutoff)
	if err != nil {
		return fmt.Errorf("cron job: failed to get stale pending bookings: %w", err)
	}
	if len(ids) == 0 {
		log.Println("Cron Job: No stale pending bookings found.")
		return nil
	}

	log.Printf("Cron Job: Canceling %d stale pending bookings. IDs: %v", len(ids), ids)
	touched, err := s.repo.CancelBookings(ids)
	if err != nil {
		return fmt.Errorf("cron job: failed to cancel stale bookings: %w", err)
	}

	ctx := context.Background()
	for _, td := range touched {
		s.bookings.RepublishAvailability(ctx, td.TurfID, td.Date, 0)
	}
	log.Printf("Cron Job: Canceled %d bookings across %d turf calendars.", len(ids), len(touched))
	return nil
}
