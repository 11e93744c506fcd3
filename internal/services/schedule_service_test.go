package services

import (
	"context"
	"testing"

	"github.com/DATA-DOG/go-sqlmock"

	"railbook/internal/domain"
	"railbook/internal/repositories"
)

func validScheduleRequest() CreateScheduleRequest {
	return CreateScheduleRequest{
		TrainNumber:   "12951",
		TrainName:     "Rajdhani Express",
		TotalSeats:    100,
		Source:        "Delhi",
		Destination:   "Mumbai",
		DepartureTime: "16:25",
		ArrivalTime:   "08:15",
		BaseFare:      "2500",
		RunsOn:        "2026-04-01",
	}
}

func TestCreateTrainWithScheduleSeedsEmptyInventory(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectBegin()
	mock.ExpectQuery("SELECT id FROM trains").
		WithArgs("12951").
		WillReturnRows(sqlmock.NewRows([]string{"id"}))
	mock.ExpectExec("INSERT INTO trains").
		WithArgs("12951", "Rajdhani Express", 100).
		WillReturnResult(sqlmock.NewResult(4, 1))
	mock.ExpectExec("INSERT INTO train_schedules").
		WithArgs(int64(4), "Delhi", "Mumbai", "16:25", "08:15", "2500.00", "2026-04-01").
		WillReturnResult(sqlmock.NewResult(9, 1))
	mock.ExpectExec("INSERT INTO seat_inventory").
		WithArgs(int64(9), 100).
		WillReturnResult(sqlmock.NewResult(0, 1))
	mock.ExpectCommit()

	svc := ScheduleService{Schedules: repositories.ScheduleRepo{DB: db}}
	train, sched, err := svc.CreateTrainWithSchedule(context.Background(), validScheduleRequest())
	if err != nil {
		t.Fatalf("expected create to succeed, got %v", err)
	}
	if train.ID != 4 || sched.ID != 9 || sched.TrainID != 4 {
		t.Fatalf("ids not filled in: train=%d schedule=%d trainRef=%d", train.ID, sched.ID, sched.TrainID)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestCreateTrainWithScheduleValidation(t *testing.T) {
	mutate := map[string]func(*CreateScheduleRequest){
		"missing train number": func(r *CreateScheduleRequest) { r.TrainNumber = " " },
		"zero seats":           func(r *CreateScheduleRequest) { r.TotalSeats = 0 },
		"same station":         func(r *CreateScheduleRequest) { r.Destination = "delhi" },
		"bad date":             func(r *CreateScheduleRequest) { r.RunsOn = "01-04-2026" },
		"bad departure time":   func(r *CreateScheduleRequest) { r.DepartureTime = "25:99" },
		"negative fare":        func(r *CreateScheduleRequest) { r.BaseFare = "-10" },
		"garbage fare":         func(r *CreateScheduleRequest) { r.BaseFare = "free" },
	}

	svc := ScheduleService{}
	for name, f := range mutate {
		t.Run(name, func(t *testing.T) {
			req := validScheduleRequest()
			f(&req)
			if _, _, err := svc.CreateTrainWithSchedule(context.Background(), req); !domain.IsValidation(err) {
				t.Fatalf("expected ValidationError, got %v", err)
			}
		})
	}
}

func TestSearchClampsPaging(t *testing.T) {
	db, mock, err := sqlmock.New()
	if err != nil {
		t.Fatalf("sqlmock init error: %v", err)
	}
	defer db.Close()

	mock.ExpectQuery(`SELECT COUNT\(\*\)`).
		WithArgs("Delhi", "Mumbai").
		WillReturnRows(sqlmock.NewRows([]string{"count"}).AddRow(0))
	mock.ExpectQuery(`SELECT s\.id, s\.train_id`).
		WithArgs("Delhi", "Mumbai", 10, 0).
		WillReturnRows(sqlmock.NewRows([]string{
			"id", "train_id", "source", "destination", "departure_time", "arrival_time",
			"base_fare", "runs_on", "is_active", "created_at",
			"train_number", "train_name", "total_seats", "available",
		}))

	svc := ScheduleService{Schedules: repositories.ScheduleRepo{DB: db}}
	_, page, err := svc.Search(context.Background(), "Delhi", "Mumbai", "", 0, -5)
	if err != nil {
		t.Fatalf("expected search to succeed, got %v", err)
	}
	if page.Limit != 10 || page.Offset != 0 {
		t.Fatalf("paging not clamped: limit=%d offset=%d", page.Limit, page.Offset)
	}
	if err := mock.ExpectationsWereMet(); err != nil {
		t.Fatalf("unmet expectations: %v", err)
	}
}

func TestSearchRequiresBothStations(t *testing.T) {
	svc := ScheduleService{}
	if _, _, err := svc.Search(context.Background(), "Delhi", " ", "", 10, 0); !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}

func TestSearchRejectsMalformedDate(t *testing.T) {
	svc := ScheduleService{}
	if _, _, err := svc.Search(context.Background(), "Delhi", "Mumbai", "tomorrow", 10, 0); !domain.IsValidation(err) {
		t.Fatalf("expected ValidationError, got %v", err)
	}
}
