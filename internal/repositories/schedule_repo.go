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

type ScheduleRepo struct {
	DB *sql.DB
}

func (r ScheduleRepo) db() *sql.DB {
	if r.DB != nil {
		return r.DB
	}
	return intconfig.DB
}

// CreateTrainWithSchedule upserts the train, inserts the schedule and seeds
// its seat inventory (booked_seats=0, version=0) in one transaction. The
// inventory row is born with the schedule and lives as long as it does.
func (r ScheduleRepo) CreateTrainWithSchedule(ctx context.Context, train *models.Train, sched *models.Schedule) error {
	tx, err := r.db().BeginTx(ctx, nil)
	if err != nil {
		return domain.InternalError{Msg: "begin schedule transaction", Err: err}
	}
	defer func() {
		if err != nil {
			_ = tx.Rollback()
		}
	}()

	err = tx.QueryRowContext(ctx,
		`SELECT id FROM trains WHERE train_number = ?`, train.TrainNumber,
	).Scan(&train.ID)
	switch {
	case errors.Is(err, sql.ErrNoRows):
		var res sql.Result
		res, err = tx.ExecContext(ctx, `
			INSERT INTO trains (train_number, train_name, total_seats, is_active, created_at)
			VALUES (?, ?, ?, 1, NOW())
		`, train.TrainNumber, train.TrainName, train.TotalSeats)
		if err != nil {
			return domain.InternalError{Msg: "insert train", Err: err}
		}
		if train.ID, err = res.LastInsertId(); err != nil {
			return domain.InternalError{Msg: "train id", Err: err}
		}
	case err != nil:
		return domain.InternalError{Msg: "lookup train", Err: err}
	default:
		_, err = tx.ExecContext(ctx, `
			UPDATE trains SET train_name = ?, total_seats = ? WHERE id = ?
		`, train.TrainName, train.TotalSeats, train.ID)
		if err != nil {
			return domain.InternalError{Msg: "update train", Err: err}
		}
	}

	var res sql.Result
	res, err = tx.ExecContext(ctx, `
		INSERT INTO train_schedules (train_id, source, destination, departure_time, arrival_time, base_fare, runs_on, is_active, created_at)
		VALUES (?, ?, ?, ?, ?, ?, ?, 1, NOW())
	`, train.ID, sched.Source, sched.Destination, sched.DepartureTime, sched.ArrivalTime,
		sched.BaseFare.StringFixed(2), sched.RunsOn)
	if err != nil {
		return domain.InternalError{Msg: "insert schedule", Err: err}
	}
	if sched.ID, err = res.LastInsertId(); err != nil {
		return domain.InternalError{Msg: "schedule id", Err: err}
	}
	sched.TrainID = train.ID

	_, err = tx.ExecContext(ctx, `
		INSERT INTO seat_inventory (schedule_id, total_seats, booked_seats, version, updated_at)
		VALUES (?, ?, 0, 0, NOW())
	`, sched.ID, train.TotalSeats)
	if err != nil {
		return domain.InternalError{Msg: "insert seat inventory", Err: err}
	}

	if err = tx.Commit(); err != nil {
		return domain.InternalError{Msg: "commit schedule", Err: err}
	}
	return nil
}

// GetByID returns an active schedule.
func (r ScheduleRepo) GetByID(ctx context.Context, id int64) (models.Schedule, error) {
	var (
		s    models.Schedule
		fare string
	)
	err := r.db().QueryRowContext(ctx, `
		SELECT id, train_id, source, destination, departure_time, arrival_time, base_fare, runs_on, is_active, created_at
		FROM train_schedules
		WHERE id = ? AND is_active = 1
	`, id).Scan(&s.ID, &s.TrainID, &s.Source, &s.Destination, &s.DepartureTime,
		&s.ArrivalTime, &fare, &s.RunsOn, &s.IsActive, &s.CreatedAt)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return models.Schedule{}, domain.NotFoundError{Resource: "schedule"}
		}
		return models.Schedule{}, domain.InternalError{Msg: "get schedule", Err: err}
	}
	if s.BaseFare, err = decimal.NewFromString(fare); err != nil {
		return models.Schedule{}, domain.InternalError{Msg: "parse base fare", Err: err}
	}
	return s, nil
}

// Search lists active schedules between two stations, optionally on a date,
// ordered by date then departure. Returns the page and the total match count.
func (r ScheduleRepo) Search(ctx context.Context, source, destination, date string, limit, offset int) ([]models.ScheduleSearchRow, int, error) {
	where := `
		FROM train_schedules s
		JOIN trains t ON t.id = s.train_id
		JOIN seat_inventory si ON si.schedule_id = s.id
		WHERE LOWER(s.source) = LOWER(?)
		  AND LOWER(s.destination) = LOWER(?)
		  AND s.is_active = 1 AND t.is_active = 1
	`
	args := []any{source, destination}
	if date != "" {
		where += ` AND s.runs_on = ?`
		args = append(args, date)
	}

	var total int
	if err := r.db().QueryRowContext(ctx, `SELECT COUNT(*) `+where, args...).Scan(&total); err != nil {
		return nil, 0, domain.InternalError{Msg: "count schedules", Err: err}
	}

	rows, err := r.db().QueryContext(ctx, `
		SELECT s.id, s.train_id, s.source, s.destination, s.departure_time, s.arrival_time,
		       s.base_fare, s.runs_on, s.is_active, s.created_at,
		       t.train_number, t.train_name,
		       si.total_seats, si.total_seats - si.booked_seats
		`+where+`
		ORDER BY s.runs_on ASC, s.departure_time ASC
		LIMIT ? OFFSET ?
	`, append(args, limit, offset)...)
	if err != nil {
		return nil, 0, domain.InternalError{Msg: "search schedules", Err: err}
	}
	defer rows.Close()

	var out []models.ScheduleSearchRow
	for rows.Next() {
		var (
			row  models.ScheduleSearchRow
			fare string
		)
		if err := rows.Scan(&row.ID, &row.TrainID, &row.Source, &row.Destination,
			&row.DepartureTime, &row.ArrivalTime, &fare, &row.RunsOn, &row.IsActive,
			&row.CreatedAt, &row.TrainNumber, &row.TrainName,
			&row.TotalSeats, &row.AvailableSeats); err != nil {
			return nil, 0, domain.InternalError{Msg: "scan schedule", Err: err}
		}
		if row.BaseFare, err = decimal.NewFromString(fare); err != nil {
			return nil, 0, domain.InternalError{Msg: "parse base fare", Err: err}
		}
		out = append(out, row)
	}
	return out, total, rows.Err()
}
