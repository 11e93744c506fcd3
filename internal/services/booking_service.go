package services

import (
	"context"
	"log"
	"math/rand"
	"strings"
	"time"

	"railbook/internal/analytics"
	"railbook/internal/domain"
	"railbook/internal/domain/models"
	"railbook/internal/monitoring"
	"railbook/internal/repositories"
)

// Coordinator defaults, overridable per instance.
const (
	defaultMaxPassengers   = 6
	defaultReserveAttempts = 5
	defaultBackoffBase     = 20 * time.Millisecond
)

// SeatLedger is the atomic seat inventory. Reserve either books the whole
// request or reports why it could not; Release compensates a reservation.
type SeatLedger interface {
	Reserve(ctx context.Context, scheduleID int64, seats int) (repositories.Reservation, error)
	Release(ctx context.Context, scheduleID int64, seats int) error
}

// BookingStore persists bookings with their passengers atomically.
type BookingStore interface {
	PNRExists(ctx context.Context, pnr string) (bool, error)
	CreateConfirmed(ctx context.Context, b *models.Booking) error
	ListByUser(ctx context.Context, userID int64) ([]models.Booking, error)
	GetByPNR(ctx context.Context, pnr string, userID int64) (models.Booking, error)
}

// ScheduleFinder supplies the read-only pricing inputs.
type ScheduleFinder interface {
	GetByID(ctx context.Context, id int64) (models.Schedule, error)
}

// EventSink receives best-effort booking events. Implementations must not
// block and must swallow their own failures.
type EventSink interface {
	Publish(e analytics.Event)
}

// BookingService coordinates the booking transaction: validate, price,
// reserve seats with bounded retries, issue a PNR, persist, compensate on
// failure, and notify analytics.
type BookingService struct {
	Ledger    SeatLedger
	Bookings  BookingStore
	Schedules ScheduleFinder
	Events    EventSink

	MaxPassengers   int
	ReserveAttempts int
	BackoffBase     time.Duration
	PNRAttempts     int
}

// Book reserves seats on a schedule for the given passengers and returns a
// confirmed booking. Errors come back as distinct kinds: validation and
// not-found before any side effect, sold-out and contention from the reserve
// loop, timeout when the caller's deadline expires mid-loop, persistence or
// reference failures after compensation has already run.
func (s BookingService) Book(ctx context.Context, scheduleID, userID int64, passengers []models.PassengerInput) (models.BookingConfirmation, error) {
	started := time.Now()

	fail := func(outcome string, err error) (models.BookingConfirmation, error) {
		s.finish(outcome, scheduleID, userID, started)
		return models.BookingConfirmation{}, err
	}

	if err := s.validate(passengers); err != nil {
		return fail("validation_error", err)
	}

	sched, err := s.Schedules.GetByID(ctx, scheduleID)
	if err != nil {
		return fail("not_found", err)
	}

	totalFare := TotalFare(sched.BaseFare, passengers)
	seats := len(passengers)

	resv, err := s.reserveWithRetry(ctx, scheduleID, seats)
	if err != nil {
		switch {
		case domain.IsSoldOut(err):
			return fail("sold_out", err)
		case domain.IsContention(err):
			return fail("contention", err)
		case domain.IsTimeout(err):
			return fail("timeout", err)
		default:
			return fail("error", err)
		}
	}

	gen := PNRGenerator{Exists: s.Bookings.PNRExists, MaxAttempts: s.PNRAttempts}
	pnr, err := gen.Generate(ctx)
	if err != nil {
		s.compensate(scheduleID, seats)
		return fail("reference_error", err)
	}

	now := time.Now().UTC()
	booking := models.Booking{
		PNR:           pnr,
		ScheduleID:    scheduleID,
		UserID:        userID,
		NumPassengers: seats,
		TotalFare:     totalFare,
		Status:        models.BookingConfirmed,
		BookingDate:   now,
		ConfirmedAt:   &now,
		Passengers:    make([]models.Passenger, seats),
	}
	for i, p := range passengers {
		booking.Passengers[i] = models.Passenger{
			Name:       strings.TrimSpace(p.Name),
			Age:        p.Age,
			Gender:     p.Gender,
			SeatNumber: resv.FirstSeat + i,
		}
	}

	if err := s.Bookings.CreateConfirmed(ctx, &booking); err != nil {
		s.compensate(scheduleID, seats)
		return fail("persistence_error", err)
	}

	monitoring.AddSeatsBooked(seats)
	s.finish("confirmed", scheduleID, userID, started)

	return models.BookingConfirmation{
		PNR:           booking.PNR,
		ScheduleID:    booking.ScheduleID,
		Status:        booking.Status,
		NumPassengers: booking.NumPassengers,
		TotalFare:     booking.TotalFare,
		Passengers:    booking.Passengers,
	}, nil
}

// MyBookings lists the user's bookings, newest first.
func (s BookingService) MyBookings(ctx context.Context, userID int64) ([]models.Booking, error) {
	return s.Bookings.ListByUser(ctx, userID)
}

// ByPNR fetches one booking by reference, scoped to its owner.
func (s BookingService) ByPNR(ctx context.Context, pnr string, userID int64) (models.Booking, error) {
	pnr = strings.ToUpper(strings.TrimSpace(pnr))
	if len(pnr) != models.PNRLength {
		return models.Booking{}, domain.ValidationError{Field: "pnr", Msg: "malformed reference"}
	}
	return s.Bookings.GetByPNR(ctx, pnr, userID)
}

func (s BookingService) validate(passengers []models.PassengerInput) error {
	maxPassengers := s.MaxPassengers
	if maxPassengers <= 0 {
		maxPassengers = defaultMaxPassengers
	}

	if len(passengers) == 0 {
		return domain.ValidationError{Field: "passengers", Msg: "at least one passenger is required"}
	}
	if len(passengers) > maxPassengers {
		return domain.ValidationError{Field: "passengers", Msg: "too many passengers for one booking"}
	}
	for _, p := range passengers {
		if strings.TrimSpace(p.Name) == "" {
			return domain.ValidationError{Field: "passengers", Msg: "name is required"}
		}
		if p.Age < 1 || p.Age > 120 {
			return domain.ValidationError{Field: "passengers", Msg: "age out of range"}
		}
		switch p.Gender {
		case models.GenderMale, models.GenderFemale, models.GenderOther:
		default:
			return domain.ValidationError{Field: "passengers", Msg: "gender must be M, F or O"}
		}
	}
	return nil
}

// reserveWithRetry drives the optimistic loop. Version conflicts are retried
// with jittered exponential backoff up to the attempt budget; capacity
// shortfall aborts immediately because seats never reappear mid-schedule.
func (s BookingService) reserveWithRetry(ctx context.Context, scheduleID int64, seats int) (repositories.Reservation, error) {
	maxAttempts := s.ReserveAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultReserveAttempts
	}

	for attempt := 1; ; attempt++ {
		resv, err := s.Ledger.Reserve(ctx, scheduleID, seats)
		if err == nil {
			monitoring.ObserveReserveAttempts(attempt)
			return resv, nil
		}
		if !domain.IsConflict(err) {
			return repositories.Reservation{}, err
		}

		monitoring.IncReserveConflict()
		if attempt >= maxAttempts {
			return repositories.Reservation{}, domain.ContentionError{Attempts: attempt}
		}
		if err := s.backoff(ctx, attempt); err != nil {
			return repositories.Reservation{}, err
		}
	}
}

func (s BookingService) backoff(ctx context.Context, attempt int) error {
	base := s.BackoffBase
	if base <= 0 {
		base = defaultBackoffBase
	}
	d := base << (attempt - 1)
	// Jitter within [d/2, d) so colliding writers spread out.
	d = d/2 + time.Duration(rand.Int63n(int64(d/2)+1))

	timer := time.NewTimer(d)
	defer timer.Stop()
	select {
	case <-timer.C:
		return nil
	case <-ctx.Done():
		return domain.TimeoutError{Err: ctx.Err()}
	}
}

// compensate releases seats whose booking never committed. It runs on its
// own context: the caller's may already be dead, and an unreleased seat is
// permanently stranded capacity.
func (s BookingService) compensate(scheduleID int64, seats int) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	maxAttempts := s.ReserveAttempts
	if maxAttempts <= 0 {
		maxAttempts = defaultReserveAttempts
	}
	for attempt := 1; attempt <= maxAttempts; attempt++ {
		err := s.Ledger.Release(ctx, scheduleID, seats)
		if err == nil {
			return
		}
		if !domain.IsConflict(err) {
			log.Printf("[BOOKING] action=compensate schedule_id=%d seats=%d msg=release failed: %v", scheduleID, seats, err)
			return
		}
		if s.backoff(ctx, attempt) != nil {
			break
		}
	}
	log.Printf("[BOOKING] action=compensate schedule_id=%d seats=%d msg=release abandoned under contention", scheduleID, seats)
}

// finish records metrics and fires the analytics event. Notification is
// fire-and-forget on purpose: a dead sink must not affect a committed
// booking, so the result is deliberately ignored.
func (s BookingService) finish(outcome string, scheduleID, userID int64, started time.Time) {
	elapsed := time.Since(started)
	monitoring.ObserveBooking(outcome, elapsed)
	if s.Events != nil {
		s.Events.Publish(analytics.Event{
			Endpoint:   "bookings.create",
			UserID:     userID,
			ScheduleID: scheduleID,
			Outcome:    outcome,
			ElapsedMS:  float64(elapsed.Microseconds()) / 1000.0,
		})
	}
}
