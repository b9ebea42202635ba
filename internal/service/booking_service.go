package service

import (
	"context"
	"fmt"
	"log"
	"math"
	"regexp"
	"time"

	"github.com/google/uuid"

	"turfbooking/internal/db"
	"turfbooking/internal/entities"
	apperr "turfbooking/internal/errors"
	"turfbooking/internal/notify"
	"turfbooking/internal/timeutil"
)

var (
	datePattern  = regexp.MustCompile(`^\d{4}-\d{2}-\d{2}$`)
	slotPattern  = regexp.MustCompile(`^\d{1,2}:\d{2} [AP]M - \d{1,2}:\d{2} [AP]M$`)
	emailPattern = regexp.MustCompile(`^[^\s@]+@[^\s@]+\.[^\s@]+$`)
	phonePattern = regexp.MustCompile(`^\d{10}$`)
)

// TurfStore supplies turf configuration. Reads may be served from a cache;
// the ledger re-check covers stale configs.
type TurfStore interface {
	GetTurf(ctx context.Context, id int) (*db.Turf, error)
}

// Ledger is the authoritative booking store. InsertIfFree must be atomic with
// respect to its own overlap check under concurrent callers for the same turf
// and date.
type Ledger interface {
	ActiveBookings(ctx context.Context, turfID int, date string) ([]db.Booking, error)
	InsertIfFree(ctx context.Context, b *db.Booking) error
	GetByCode(ctx context.Context, code string) (*db.Booking, error)
	GetByStripeSessionID(ctx context.Context, sessionID string) (*db.Booking, error)
	UpdateStatusBySessionID(ctx context.Context, sessionID, status, paymentStatus string) (*db.Booking, error)
	CancelByCode(ctx context.Context, code string) (*db.Booking, error)
}

// PaymentGateway collects payment for a booking through a hosted checkout
// session. A nil gateway means bookings are created without payment.
type PaymentGateway interface {
	CreateCheckoutSession(amount int64, currency, description, customerEmail string) (string, string, error)
	ExpireCheckoutSession(sessionID string) error
}

// BookingService coordinates a booking: validate, re-derive availability
// inside the ledger's transaction, insert only if still free, then broadcast
// the refreshed slot list.
type BookingService struct {
	turfs    TurfStore
	ledger   Ledger
	notifier notify.Notifier
	stripe   PaymentGateway
	minHours float64
}

func NewBookingService(turfs TurfStore, ledger Ledger, notifier notify.Notifier, stripe PaymentGateway, minHours float64) *BookingService {
	if minHours <= 0 {
		minHours = 1
	}
	return &BookingService{
		turfs:    turfs,
		ledger:   ledger,
		notifier: notifier,
		stripe:   stripe,
		minHours: minHours,
	}
}

// MinHours is the single configured minimum bookable duration.
func (s *BookingService) MinHours() float64 {
	return s.minHours
}

// AvailableSlots answers an availability query. A blackout date yields an
// empty list, not an error.
func (s *BookingService) AvailableSlots(ctx context.Context, turfID int, date string, hours float64) ([]entities.Slot, error) {
	if err := validateDate(date); err != nil {
		return nil, err
	}
	if hours < s.minHours {
		return nil, apperr.NewValidationError("hours", fmt.Sprintf("minimum bookable duration is %g hours", s.minHours))
	}
	turf, err := s.turfs.GetTurf(ctx, turfID)
	if err != nil {
		return nil, fmt.Errorf("error loading turf %d: %w", turfID, err)
	}
	if turf == nil {
		return nil, fmt.Errorf("%w: turf %d not found", apperr.ErrResourceUnavailable, turfID)
	}
	active, err := s.ledger.ActiveBookings(ctx, turfID, date)
	if err != nil {
		return nil, fmt.Errorf("error loading active bookings: %w", err)
	}
	return GenerateSlots(turf, date, hours, active)
}

// ConfirmBooking admits a booking request. Under concurrent requests for
// overlapping windows at most one succeeds; the rest receive ErrSlotConflict
// and are expected to re-query availability before retrying.
func (s *BookingService) ConfirmBooking(ctx context.Context, req *entities.BookingRequest) (*entities.BookingResult, error) {
	if err := s.validateRequest(req); err != nil {
		return nil, err
	}

	turf, err := s.turfs.GetTurf(ctx, req.TurfID)
	if err != nil {
		return nil, fmt.Errorf("error loading turf %d: %w", req.TurfID, err)
	}
	if turf == nil {
		return nil, fmt.Errorf("%w: turf %d not found", apperr.ErrResourceUnavailable, req.TurfID)
	}
	if IsBlackoutDate(turf, req.Date) {
		return nil, fmt.Errorf("%w: turf %d is closed on %s", apperr.ErrResourceUnavailable, req.TurfID, req.Date)
	}

	openM, err := timeutil.ToMinutes(turf.OpenTime)
	if err != nil {
		return nil, fmt.Errorf("%w: open time: %v", apperr.ErrInvalidResourceConfig, err)
	}
	closeM, err := timeutil.ToMinutes(turf.CloseTime)
	if err != nil {
		return nil, fmt.Errorf("%w: close time: %v", apperr.ErrInvalidResourceConfig, err)
	}

	// The client echoes a previously offered slot. Only its start is trusted;
	// the end is recomputed from the requested duration so a stale or
	// tampered end label can never be persisted.
	startLabel, _, err := timeutil.SplitSlot(req.Slot)
	if err != nil {
		return nil, apperr.NewValidationError("slot", "must look like \"09:00 AM - 10:00 AM\"")
	}
	startM, err := timeutil.ToMinutes(startLabel)
	if err != nil {
		return nil, apperr.NewValidationError("slot", "start time is not a valid time of day")
	}
	endM := startM + int(math.Round(req.Hours*60))
	if startM < openM || endM > closeM {
		return nil, apperr.NewValidationError("slot", "slot lies outside the turf's operating hours")
	}
	slot := timeutil.FormatSlot(timeutil.ToLabel(startM), timeutil.ToLabel(endM))

	booking := &db.Booking{
		Code:          uuid.New().String(),
		TurfID:        req.TurfID,
		Date:          req.Date,
		Slot:          slot,
		StartMinute:   startM,
		EndMinute:     endM,
		Hours:         req.Hours,
		UserName:      req.UserName,
		UserEmail:     req.UserEmail,
		UserPhone:     req.UserPhone,
		PaymentStatus: db.PaymentPending,
		Rate:          SelectRate(turf, req.Date, startM),
	}

	var checkoutURL string
	if s.stripe != nil {
		amount := int64(math.Round(float64(booking.Rate) * req.Hours * 100))
		description := fmt.Sprintf("%s, %s %s", turf.Name, req.Date, slot)
		url, sessionID, err := s.stripe.CreateCheckoutSession(amount, "inr", description, req.UserEmail)
		if err != nil {
			return nil, fmt.Errorf("error creating checkout session: %w", err)
		}
		checkoutURL = url
		booking.StripeSessionID = sessionID
	}

	if err := s.ledger.InsertIfFree(ctx, booking); err != nil {
		// The session was opened optimistically; a lost race must not leave
		// a payable checkout behind for a slot the caller never got.
		if s.stripe != nil && booking.StripeSessionID != "" {
			if expErr := s.stripe.ExpireCheckoutSession(booking.StripeSessionID); expErr != nil {
				log.Printf("Error expiring checkout session %s: %v", booking.StripeSessionID, expErr)
			}
		}
		return nil, err
	}

	// The booking stands even if the refresh or broadcast fails; notification
	// is best-effort and never coupled to persistence.
	updated := s.refreshAndPublish(ctx, turf, req.Date, req.Hours)

	return &entities.BookingResult{
		Booking:      toBookingResponse(booking, turf.Name),
		CheckoutURL:  checkoutURL,
		UpdatedSlots: updated,
	}, nil
}

func (s *BookingService) GetBooking(ctx context.Context, code string) (*entities.BookingResponse, error) {
	booking, err := s.ledger.GetByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrBookingNotFound, code)
	}
	resp := toBookingResponse(booking, s.turfName(ctx, booking.TurfID))
	return &resp, nil
}

// CancelBooking marks the booking canceled and re-broadcasts availability for
// its turf and date. Refund policy is handled elsewhere.
func (s *BookingService) CancelBooking(ctx context.Context, code string) (*entities.BookingResponse, error) {
	booking, err := s.ledger.CancelByCode(ctx, code)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: %s", apperr.ErrBookingNotFound, code)
	}
	s.RepublishAvailability(ctx, booking.TurfID, booking.Date, booking.Hours)
	resp := toBookingResponse(booking, s.turfName(ctx, booking.TurfID))
	return &resp, nil
}

// ConfirmPayment flips a pending booking to confirmed once the payment
// collaborator acknowledges it. Availability does not change (pending already
// counted), so nothing is re-broadcast.
func (s *BookingService) ConfirmPayment(ctx context.Context, sessionID string) (*entities.BookingResponse, error) {
	booking, err := s.ledger.UpdateStatusBySessionID(ctx, sessionID, db.StatusConfirmed, db.PaymentPaid)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: session %s", apperr.ErrBookingNotFound, sessionID)
	}
	resp := toBookingResponse(booking, s.turfName(ctx, booking.TurfID))
	return &resp, nil
}

// MarkRefunded cancels the booking after the payment collaborator reports a
// refund and frees its slot for rebooking.
func (s *BookingService) MarkRefunded(ctx context.Context, sessionID string) (*entities.BookingResponse, error) {
	booking, err := s.ledger.UpdateStatusBySessionID(ctx, sessionID, db.StatusCanceled, db.PaymentRefunded)
	if err != nil {
		return nil, err
	}
	if booking == nil {
		return nil, fmt.Errorf("%w: session %s", apperr.ErrBookingNotFound, sessionID)
	}
	s.RepublishAvailability(ctx, booking.TurfID, booking.Date, booking.Hours)
	resp := toBookingResponse(booking, s.turfName(ctx, booking.TurfID))
	return &resp, nil
}

// turfName is display-only; a lookup failure degrades to an empty name rather
// than failing the booking operation.
func (s *BookingService) turfName(ctx context.Context, turfID int) string {
	turf, err := s.turfs.GetTurf(ctx, turfID)
	if err != nil || turf == nil {
		return ""
	}
	return turf.Name
}

// RepublishAvailability recomputes and broadcasts the slot list for one turf
// calendar. Failures are logged, never surfaced.
func (s *BookingService) RepublishAvailability(ctx context.Context, turfID int, date string, hours float64) {
	if hours <= 0 {
		hours = s.minHours
	}
	turf, err := s.turfs.GetTurf(ctx, turfID)
	if err != nil || turf == nil {
		log.Printf("Skipping slot broadcast, turf %d unavailable: %v", turfID, err)
		return
	}
	s.refreshAndPublish(ctx, turf, date, hours)
}

func (s *BookingService) refreshAndPublish(ctx context.Context, turf *db.Turf, date string, hours float64) []entities.Slot {
	active, err := s.ledger.ActiveBookings(ctx, turf.ID, date)
	if err != nil {
		log.Printf("Skipping slot broadcast for turf %d %s: %v", turf.ID, date, err)
		return nil
	}
	slots, err := GenerateSlots(turf, date, hours, active)
	if err != nil {
		log.Printf("Skipping slot broadcast for turf %d %s: %v", turf.ID, date, err)
		return nil
	}
	if s.notifier != nil {
		s.notifier.Publish(turf.ID, date, slots)
	}
	return slots
}

func (s *BookingService) validateRequest(req *entities.BookingRequest) error {
	if req.TurfID <= 0 {
		return apperr.NewValidationError("turf_id", "is required")
	}
	if err := validateDate(req.Date); err != nil {
		return err
	}
	if !slotPattern.MatchString(req.Slot) {
		return apperr.NewValidationError("slot", "must look like \"09:00 AM - 10:00 AM\"")
	}
	if req.Hours < s.minHours {
		return apperr.NewValidationError("hours", fmt.Sprintf("minimum bookable duration is %g hours", s.minHours))
	}
	if !emailPattern.MatchString(req.UserEmail) {
		return apperr.NewValidationError("user_email", "is not a valid email address")
	}
	if !phonePattern.MatchString(req.UserPhone) {
		return apperr.NewValidationError("user_phone", "must be 10 digits")
	}
	return nil
}

func validateDate(date string) error {
	if !datePattern.MatchString(date) {
		return apperr.NewValidationError("date", "must be formatted YYYY-MM-DD")
	}
	if _, err := time.Parse("2006-01-02", date); err != nil {
		return apperr.NewValidationError("date", "is not a calendar date")
	}
	return nil
}

func toBookingResponse(b *db.Booking, turfName string) entities.BookingResponse {
	return entities.BookingResponse{
		Code:          b.Code,
		TurfID:        b.TurfID,
		TurfName:      turfName,
		Date:          b.Date,
		Slot:          b.Slot,
		Hours:         b.Hours,
		Status:        b.Status,
		PaymentStatus: b.PaymentStatus,
		Rate:          b.Rate,
		UserName:      b.UserName,
		UserEmail:     b.UserEmail,
		UserPhone:     b.UserPhone,
		CreatedAt:     b.CreatedAt,
		UpdatedAt:     b.UpdatedAt,
	}
}
