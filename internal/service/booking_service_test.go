package service

import (
	"context"
	"errors"
	"fmt"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"turfbooking/internal/db"
	"turfbooking/internal/entities"
	apperr "turfbooking/internal/errors"
)

// fakeLedger honors the Ledger contract in memory: the overlap check and the
// insert happen under one lock, so concurrent InsertIfFree calls serialize.
type fakeLedger struct {
	mu          sync.Mutex
	bookings    []db.Booking
	nextID      int
	insertCalls int
	readCalls   int
}

func (f *fakeLedger) ActiveBookings(_ context.Context, turfID int, date string) ([]db.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.readCalls++
	var active []db.Booking
	for _, b := range f.bookings {
		if b.TurfID == turfID && b.Date == date && b.Status != db.StatusCanceled {
			active = append(active, b)
		}
	}
	return active, nil
}

func (f *fakeLedger) InsertIfFree(_ context.Context, b *db.Booking) error {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.insertCalls++
	for _, existing := range f.bookings {
		if existing.TurfID == b.TurfID && existing.Date == b.Date && existing.Status != db.StatusCanceled &&
			b.StartMinute < existing.EndMinute && b.EndMinute > existing.StartMinute {
			return apperr.ErrSlotConflict
		}
	}
	f.nextID++
	b.ID = f.nextID
	b.Status = db.StatusPending
	f.bookings = append(f.bookings, *b)
	return nil
}

func (f *fakeLedger) GetByCode(_ context.Context, code string) (*db.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.bookings {
		if f.bookings[i].Code == code {
			b := f.bookings[i]
			return &b, nil
		}
	}
	return nil, nil
}

func (f *fakeLedger) GetByStripeSessionID(_ context.Context, sessionID string) (*db.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.bookings {
		if f.bookings[i].StripeSessionID == sessionID {
			b := f.bookings[i]
			return &b, nil
		}
	}
	return nil, nil
}

func (f *fakeLedger) UpdateStatusBySessionID(_ context.Context, sessionID, status, paymentStatus string) (*db.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.bookings {
		if f.bookings[i].StripeSessionID == sessionID {
			f.bookings[i].Status = status
			f.bookings[i].PaymentStatus = paymentStatus
			b := f.bookings[i]
			return &b, nil
		}
	}
	return nil, nil
}

func (f *fakeLedger) CancelByCode(_ context.Context, code string) (*db.Booking, error) {
	f.mu.Lock()
	defer f.mu.Unlock()
	for i := range f.bookings {
		if f.bookings[i].Code == code && f.bookings[i].Status != db.StatusCanceled {
			f.bookings[i].Status = db.StatusCanceled
			b := f.bookings[i]
			return &b, nil
		}
	}
	return nil, nil
}

type fakeTurfStore struct {
	turfs map[int]*db.Turf
}

func (f *fakeTurfStore) GetTurf(_ context.Context, id int) (*db.Turf, error) {
	return f.turfs[id], nil
}

type recordingNotifier struct {
	mu     sync.Mutex
	events []entities.SlotUpdateEvent
}

func (r *recordingNotifier) Publish(turfID int, date string, slots []entities.Slot) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.events = append(r.events, entities.SlotUpdateEvent{TurfID: turfID, Date: date, Slots: slots})
}

func newTestBookingService() (*BookingService, *fakeLedger, *recordingNotifier) {
	turf := testTurf()
	turf.PriceRules = []db.PriceRule{
		{DayClass: db.DayClassWeekday, WindowStart: "06:00 AM", WindowEnd: "10:00 PM", Rate: 800},
	}
	store := &fakeTurfStore{turfs: map[int]*db.Turf{1: turf}}
	ledger := &fakeLedger{}
	notifier := &recordingNotifier{}
	return NewBookingService(store, ledger, notifier, nil, 1), ledger, notifier
}

func validRequest() *entities.BookingRequest {
	return &entities.BookingRequest{
		TurfID:    1,
		Date:      "2026-09-01",
		Slot:      "09:00 AM - 10:00 AM",
		Hours:     1,
		UserName:  "Asha",
		UserEmail: "asha@example.com",
		UserPhone: "9876543210",
	}
}

func TestConfirmBookingHappyPath(t *testing.T) {
	svc, ledger, notifier := newTestBookingService()

	result, err := svc.ConfirmBooking(context.Background(), validRequest())
	require.NoError(t, err)

	assert.NotEmpty(t, result.Booking.Code)
	assert.Equal(t, db.StatusPending, result.Booking.Status)
	assert.Equal(t, "09:00 AM - 10:00 AM", result.Booking.Slot)
	assert.Equal(t, 800, result.Booking.Rate)

	// The refreshed list reflects the new booking and was broadcast.
	require.Len(t, result.UpdatedSlots, 1)
	assert.Equal(t, "10:00 AM - 11:00 AM", result.UpdatedSlots[0].Slot)
	require.Len(t, notifier.events, 1)
	assert.Equal(t, result.UpdatedSlots, notifier.events[0].Slots)
	assert.Equal(t, 1, ledger.insertCalls)
}

func TestConfirmBookingValidationFailsFast(t *testing.T) {
	svc, ledger, notifier := newTestBookingService()

	cases := []func(*entities.BookingRequest){
		func(r *entities.BookingRequest) { r.TurfID = 0 },
		func(r *entities.BookingRequest) { r.Date = "01-09-2026" },
		func(r *entities.BookingRequest) { r.Slot = "9am to 10am" },
		func(r *entities.BookingRequest) { r.Hours = 0.5 }, // below the 1h minimum
		func(r *entities.BookingRequest) { r.UserEmail = "not-an-email" },
		func(r *entities.BookingRequest) { r.UserPhone = "12345" },
	}
	for i, mutate := range cases {
		req := validRequest()
		mutate(req)
		_, err := svc.ConfirmBooking(context.Background(), req)
		var verr *apperr.ValidationError
		assert.True(t, errors.As(err, &verr), "case %d: %v", i, err)
	}

	// Malformed input must never touch the ledger or the notifier.
	assert.Zero(t, ledger.insertCalls)
	assert.Zero(t, ledger.readCalls)
	assert.Empty(t, notifier.events)
}

func TestConfirmBookingBlackoutDate(t *testing.T) {
	svc, ledger, _ := newTestBookingService()
	store := svc.turfs.(*fakeTurfStore)
	store.turfs[1].BlackoutDates = []string{"2026-09-01"}

	_, err := svc.ConfirmBooking(context.Background(), validRequest())
	assert.True(t, errors.Is(err, apperr.ErrResourceUnavailable))
	assert.Zero(t, ledger.insertCalls)
}

func TestConfirmBookingUnknownTurf(t *testing.T) {
	svc, ledger, _ := newTestBookingService()
	req := validRequest()
	req.TurfID = 99

	_, err := svc.ConfirmBooking(context.Background(), req)
	assert.True(t, errors.Is(err, apperr.ErrResourceUnavailable))
	assert.Zero(t, ledger.insertCalls)
}

func TestConfirmBookingRecomputesEnd(t *testing.T) {
	svc, _, _ := newTestBookingService()
	req := validRequest()
	// Tampered end label: the server recomputes the end from start + hours.
	req.Slot = "09:00 AM - 05:00 PM"

	result, err := svc.ConfirmBooking(context.Background(), req)
	require.NoError(t, err)
	assert.Equal(t, "09:00 AM - 10:00 AM", result.Booking.Slot)
}

func TestConfirmBookingOutsideOperatingHours(t *testing.T) {
	svc, ledger, _ := newTestBookingService()
	req := validRequest()
	req.Slot = "10:30 AM - 11:30 AM" // would end past the 11:00 AM close

	_, err := svc.ConfirmBooking(context.Background(), req)
	var verr *apperr.ValidationError
	assert.True(t, errors.As(err, &verr))
	assert.Zero(t, ledger.insertCalls)
}

func TestConfirmBookingConflict(t *testing.T) {
	svc, _, _ := newTestBookingService()

	_, err := svc.ConfirmBooking(context.Background(), validRequest())
	require.NoError(t, err)

	req := validRequest()
	req.UserEmail = "other@example.com"
	_, err = svc.ConfirmBooking(context.Background(), req)
	assert.True(t, errors.Is(err, apperr.ErrSlotConflict))
}

func TestConcurrentConfirmExactlyOneWins(t *testing.T) {
	svc, ledger, _ := newTestBookingService()

	const workers = 16
	results := make(chan error, workers)
	var wg sync.WaitGroup
	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			_, err := svc.ConfirmBooking(context.Background(), validRequest())
			results <- err
		}()
	}
	wg.Wait()
	close(results)

	var successes, conflicts int
	for err := range results {
		switch {
		case err == nil:
			successes++
		case errors.Is(err, apperr.ErrSlotConflict):
			conflicts++
		default:
			t.Fatalf("unexpected error: %v", err)
		}
	}
	assert.Equal(t, 1, successes)
	assert.Equal(t, workers-1, conflicts)

	// The surviving ledger state holds pairwise non-overlapping intervals.
	active, err := ledger.ActiveBookings(context.Background(), 1, "2026-09-01")
	require.NoError(t, err)
	require.Len(t, active, 1)
}

func TestConcurrentConfirmOverlappingWindows(t *testing.T) {
	svc, ledger, _ := newTestBookingService()

	// Overlapping but differently-labeled candidates: a unique index on the
	// slot label alone would admit both.
	slots := []string{"09:00 AM - 10:00 AM", "09:30 AM - 10:30 AM"}
	store := svc.turfs.(*fakeTurfStore)
	store.turfs[1].SlotMinutes = 30

	results := make(chan error, len(slots))
	var wg sync.WaitGroup
	for _, slot := range slots {
		wg.Add(1)
		go func(slot string) {
			defer wg.Done()
			req := validRequest()
			req.Slot = slot
			_, err := svc.ConfirmBooking(context.Background(), req)
			results <- err
		}(slot)
	}
	wg.Wait()
	close(results)

	var successes int
	for err := range results {
		if err == nil {
			successes++
		} else {
			assert.True(t, errors.Is(err, apperr.ErrSlotConflict))
		}
	}
	assert.Equal(t, 1, successes)

	active, err := ledger.ActiveBookings(context.Background(), 1, "2026-09-01")
	require.NoError(t, err)
	require.Len(t, active, 1)
}

func TestCancelBookingRepublishes(t *testing.T) {
	svc, _, notifier := newTestBookingService()

	result, err := svc.ConfirmBooking(context.Background(), validRequest())
	require.NoError(t, err)

	canceled, err := svc.CancelBooking(context.Background(), result.Booking.Code)
	require.NoError(t, err)
	assert.Equal(t, db.StatusCanceled, canceled.Status)

	// One publish for the booking, one for the cancellation; the second shows
	// the slot free again.
	require.Len(t, notifier.events, 2)
	assert.Len(t, notifier.events[1].Slots, 2)
}

func TestCancelBookingUnknownCode(t *testing.T) {
	svc, _, _ := newTestBookingService()
	_, err := svc.CancelBooking(context.Background(), "nope")
	assert.True(t, errors.Is(err, apperr.ErrBookingNotFound))
}

func TestConfirmPayment(t *testing.T) {
	svc, ledger, _ := newTestBookingService()

	result, err := svc.ConfirmBooking(context.Background(), validRequest())
	require.NoError(t, err)

	ledger.mu.Lock()
	ledger.bookings[0].StripeSessionID = "cs_test_123"
	ledger.mu.Unlock()

	confirmed, err := svc.ConfirmPayment(context.Background(), "cs_test_123")
	require.NoError(t, err)
	assert.Equal(t, db.StatusConfirmed, confirmed.Status)
	assert.Equal(t, db.PaymentPaid, confirmed.PaymentStatus)
	assert.Equal(t, result.Booking.Code, confirmed.Code)
}

// fakePaymentGateway records the checkout sessions it opens and expires.
type fakePaymentGateway struct {
	created int
	expired []string
}

func (f *fakePaymentGateway) CreateCheckoutSession(int64, string, string, string) (string, string, error) {
	f.created++
	id := fmt.Sprintf("cs_test_%d", f.created)
	return "https://pay.example/" + id, id, nil
}

func (f *fakePaymentGateway) ExpireCheckoutSession(sessionID string) error {
	f.expired = append(f.expired, sessionID)
	return nil
}

func TestConfirmBookingConflictExpiresCheckoutSession(t *testing.T) {
	svc, _, _ := newTestBookingService()
	gateway := &fakePaymentGateway{}
	svc.stripe = gateway

	_, err := svc.ConfirmBooking(context.Background(), validRequest())
	require.NoError(t, err)

	req := validRequest()
	req.UserEmail = "other@example.com"
	_, err = svc.ConfirmBooking(context.Background(), req)
	require.True(t, errors.Is(err, apperr.ErrSlotConflict))

	// Losing the race must void the session opened for the loser; the
	// winner's session stays live.
	assert.Equal(t, 2, gateway.created)
	assert.Equal(t, []string{"cs_test_2"}, gateway.expired)
}

func TestAvailableSlotsEnforcesMinimumDuration(t *testing.T) {
	svc, ledger, _ := newTestBookingService()

	// The query path applies the same minimum as booking validation, so a
	// duration it rejects can never have been offered slots.
	_, err := svc.AvailableSlots(context.Background(), 1, "2026-09-01", 0.5)
	var verr *apperr.ValidationError
	require.True(t, errors.As(err, &verr))
	assert.Zero(t, ledger.readCalls)

	req := validRequest()
	req.Hours = 0.5
	_, err = svc.ConfirmBooking(context.Background(), req)
	require.True(t, errors.As(err, &verr))

	slots, err := svc.AvailableSlots(context.Background(), 1, "2026-09-01", 1)
	require.NoError(t, err)
	assert.Len(t, slots, 2)
}

func TestGetBookingCarriesTurfName(t *testing.T) {
	svc, _, _ := newTestBookingService()

	result, err := svc.ConfirmBooking(context.Background(), validRequest())
	require.NoError(t, err)
	assert.Equal(t, "Greenfield Arena", result.Booking.TurfName)

	fetched, err := svc.GetBooking(context.Background(), result.Booking.Code)
	require.NoError(t, err)
	assert.Equal(t, "Greenfield Arena", fetched.TurfName)

	canceled, err := svc.CancelBooking(context.Background(), result.Booking.Code)
	require.NoError(t, err)
	assert.Equal(t, "Greenfield Arena", canceled.TurfName)
}

func TestAvailableSlotsBlackoutIsEmptyNotError(t *testing.T) {
	svc, _, _ := newTestBookingService()
	store := svc.turfs.(*fakeTurfStore)
	store.turfs[1].BlackoutDates = []string{"2026-09-01"}

	slots, err := svc.AvailableSlots(context.Background(), 1, "2026-09-01", 1)
	require.NoError(t, err)
	assert.Empty(t, slots)
}
