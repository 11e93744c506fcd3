package repositories

import (
	"context"
	"database/sql"
	"errors"

	intconfig "railbook/internal/config"
	"railbook/internal/domain"
	"railbook/internal/domain/models"
)

// SeatInventoryRepo is the seat ledger. All mutation of booked_seats goes
// through the compare-and-swap in Reserve/Release; the version column is the
// only coordination between concurrent writers. No in-process lock is held,
// so bookings on different schedules never serialize against each other.
type SeatInventoryRepo struct {
	DB *sql.DB
}

func (r SeatInventoryRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// Reservation describes a successful seat grab: a contiguous seat-number
// range and the inventory version that now holds.
type Reservation struct {
	FirstSeat int
	LastSeat  int
	Version   int64
}

// Get reads the current inventory snapshot for a schedule.
func (r SeatInventoryRepo) Get(ctx context.Context, scheduleID int64) (models.SeatInventory, error) {
	var inv models.SeatInventory
	err := r.db().QueryRowContext(ctx, `
		SELECT schedule_id, total_seats, booked_seats, version, updated_at
		FROM seat_inventory
		WHERE schedule_id = ?
	`, scheduleID).Scan(&inv.ScheduleID, &inv.TotalSeats, &inv.BookedSeats, &inv.Version, &inv.UpdatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.SeatInventory{}, domain.NotFoundError{Resource: "seat inventory"}
		}
		return models.SeatInventory{}, domain.InternalError{Msg: "read seat inventory", Err: err}
	}
	return inv, nil
}

// Reserve atomically books seats seats on the schedule.
//
// The read and the write are two statements, but the write is guarded by the
// version observed at read time. If any other writer committed in between,
// the UPDATE matches zero rows and Reserve returns ConflictError so the
// caller can re-read and retry. Capacity shortfall is reported before the
// write and is terminal: a fixed schedule never grows seats.
func (r SeatInventoryRepo) Reserve(ctx context.Context, scheduleID int64, seats int) (Reservation, error) {
	if seats <= 0 {
		return Reservation{}, domain.ValidationError{Field: "seats", Msg: "must be positive"}
	}

	inv, err := r.Get(ctx, scheduleID)
	if err != nil {
		return Reservation{}, err
	}

	if !inv.CanBook(seats) {
		return Reservation{}, domain.SoldOutError{
			ScheduleID: scheduleID,
			Requested:  seats,
			Available:  inv.Available(),
		}
	}

	res, err := r.db().ExecContext(ctx, `
		UPDATE seat_inventory
		SET booked_seats = booked_seats + ?, version = version + 1
		WHERE schedule_id = ? AND version = ?
	`, seats, scheduleID, inv.Version)
	if err != nil {
		return Reservation{}, domain.InternalError{Msg: "reserve seats", Err: err}
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return Reservation{}, domain.InternalError{Msg: "reserve seats", Err: err}
	}
	if affected == 0 {
		return Reservation{}, domain.ConflictError{Resource: "seat inventory", Msg: "version changed"}
	}

	return Reservation{
		FirstSeat: inv.BookedSeats + 1,
		LastSeat:  inv.BookedSeats + seats,
		Version:   inv.Version + 1,
	}, nil
}

// Release gives seats back, compensating a reservation whose downstream
// persistence failed. Same CAS discipline as Reserve; a ConflictError means
// the caller should re-attempt the release.
func (r SeatInventoryRepo) Release(ctx context.Context, scheduleID int64, seats int) error {
	if seats <= 0 {
		return domain.ValidationError{Field: "seats", Msg: "must be positive"}
	}

	inv, err := r.Get(ctx, scheduleID)
	if err != nil {
		return err
	}
	if seats > inv.BookedSeats {
		return domain.InternalError{Msg: "release exceeds booked seats"}
	}

	res, err := r.db().ExecContext(ctx, `
		UPDATE seat_inventory
		SET booked_seats = booked_seats - ?, version = version + 1
		WHERE schedule_id = ? AND version = ?
	`, seats, scheduleID, inv.Version)
	if err != nil {
		return domain.InternalError{Msg: "release seats", Err: err}
	}
	affected, err := res.RowsAffected()
	if err != nil {
		return domain.InternalError{Msg: "release seats", Err: err}
	}
	if affected == 0 {
		return domain.ConflictError{Resource: "seat inventory", Msg: "version changed"}
	}
	return nil
}
