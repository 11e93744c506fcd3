package repositories

import (
	"context"
	"database/sql"
	"errors"

	"github.com/shopspring/decimal"

	intconfig "railbook/internal/config"
	"railbook/internal/domain"
	"railbook/internal/domain/models"
)

type BookingRepo struct {
	DB *sql.DB
}

func (r BookingRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// PNRExists reports whether a booking reference is already taken.
func (r BookingRepo) PNRExists(ctx context.Context, pnr string) (bool, error) {
	var n int
	err := r.db().QueryRowContext(ctx,
		`SELECT COUNT(*) FROM bookings WHERE pnr = ?`, pnr,
	).Scan(&n)
	if err != nil {
		return false, domain.InternalError{Msg: "check pnr", Err: err}
	}
	return n > 0, nil
}

// CreateConfirmed inserts the booking row and all passenger rows in one
// transaction. Either everything commits or nothing does; partial bookings
// never become visible. Fills in the generated IDs on success.
func (r BookingRepo) CreateConfirmed(ctx context.Context, b *models.Booking) error {
	tx, err := r.db().BeginTx(ctx, nil)
	if err != nil {
		return domain.PersistenceError{Msg: "begin booking transaction", Err: err}
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	var res sql.Result
	res, err = tx.ExecContext(ctx, `
		INSERT INTO bookings (pnr, schedule_id, user_id, num_passengers, total_fare, status, booking_date, confirmed_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, ?)
	`, b.PNR, b.ScheduleID, b.UserID, b.NumPassengers, b.TotalFare.StringFixed(2),
		string(b.Status), b.BookingDate, b.ConfirmedAt)
	if err != nil {
		return domain.PersistenceError{Msg: "insert booking", Err: err}
	}
	b.ID, err = res.LastInsertId()
	if err != nil {
		return domain.PersistenceError{Msg: "booking id", Err: err}
	}

	for i := range b.Passengers {
		p := &b.Passengers[i]
		p.BookingID = b.ID
		res, err = tx.ExecContext(ctx, `
			INSERT INTO passengers (booking_id, name, age, gender, seat_number)
			VALUES (?, ?, ?, ?, ?)
		`, p.BookingID, p.Name, p.Age, p.Gender, p.SeatNumber)
		if err != nil {
			return domain.PersistenceError{Msg: "insert passenger", Err: err}
		}
		if p.ID, err = res.LastInsertId(); err != nil {
			return domain.PersistenceError{Msg: "passenger id", Err: err}
		}
	}

	if err = tx.Commit(); err != nil {
		return domain.PersistenceError{Msg: "commit booking", Err: err}
	}
	return nil
}

// ListByUser returns the user's bookings, newest first, passengers included.
func (r BookingRepo) ListByUser(ctx context.Context, userID int64) ([]models.Booking, error) {
	rows, err := r.db().QueryContext(ctx, `
		SELECT id, pnr, schedule_id, user_id, num_passengers, total_fare, status, booking_date, confirmed_at
		FROM bookings
		WHERE user_id = ?
		ORDER BY booking_date DESC
	`, userID)
	if err != nil {
		return nil, domain.InternalError{Msg: "list bookings", Err: err}
	}
	defer rows.Close()

	var bookings []models.Booking
	for rows.Next() {
		b, err := scanBooking(rows)
		if err != nil {
			return nil, err
		}
		bookings = append(bookings, b)
	}
	if err := rows.Err(); err != nil {
		return nil, domain.InternalError{Msg: "list bookings", Err: err}
	}

	for i := range bookings {
		if bookings[i].Passengers, err = r.passengersOf(ctx, bookings[i].ID); err != nil {
			return nil, err
		}
	}
	return bookings, nil
}

// GetByPNR fetches one booking by reference, scoped to its owner.
func (r BookingRepo) GetByPNR(ctx context.Context, pnr string, userID int64) (models.Booking, error) {
	row := r.db().QueryRowContext(ctx, `
		SELECT id, pnr, schedule_id, user_id, num_passengers, total_fare, status, booking_date, confirmed_at
		FROM bookings
		WHERE pnr = ? AND user_id = ?
	`, pnr, userID)

	b, err := scanBooking(row)
	if err != nil {
		return models.Booking{}, err
	}
	if b.Passengers, err = r.passengersOf(ctx, b.ID); err != nil {
		return models.Booking{}, err
	}
	return b, nil
}

func (r BookingRepo) passengersOf(ctx context.Context, bookingID int64) ([]models.Passenger, error) {
	rows, err := r.db().QueryContext(ctx, `
		SELECT id, booking_id, name, age, gender, seat_number
		FROM passengers
		WHERE booking_id = ?
		ORDER BY seat_number ASC
	`, bookingID)
	if err != nil {
		return nil, domain.InternalError{Msg: "list passengers", Err: err}
	}
	defer rows.Close()

	var out []models.Passenger
	for rows.Next() {
		var p models.Passenger
		if err := rows.Scan(&p.ID, &p.BookingID, &p.Name, &p.Age, &p.Gender, &p.SeatNumber); err != nil {
			return nil, domain.InternalError{Msg: "scan passenger", Err: err}
		}
		out = append(out, p)
	}
	return out, rows.Err()
}

type rowScanner interface {
	Scan(dest ...any) error
}

func scanBooking(row rowScanner) (models.Booking, error) {
	var (
		b         models.Booking
		fare      string
		status    string
		confirmed sql.NullTime
	)
	err := row.Scan(&b.ID, &b.PNR, &b.ScheduleID, &b.UserID, &b.NumPassengers,
		&fare, &status, &b.BookingDate, &confirmed)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Booking{}, domain.NotFoundError{Resource: "booking"}
		}
		return models.Booking{}, domain.InternalError{Msg: "scan booking", Err: err}
	}
	if b.TotalFare, err = decimal.NewFromString(fare); err != nil {
		return models.Booking{}, domain.InternalError{Msg: "parse fare", Err: err}
	}
	b.Status = models.BookingStatus(status)
	if confirmed.Valid {
		t := confirmed.Time
		b.ConfirmedAt = &t
	}
	return b, nil
}
