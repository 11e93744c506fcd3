package services

import (
	"context"
	"strings"
	"time"

	"github.com/shopspring/decimal"

	"railbook/internal/analytics"
	"railbook/internal/domain"
	"railbook/internal/domain/models"
	"railbook/internal/repositories"
)

type ScheduleService struct {
	Schedules repositories.ScheduleRepo
	Inventory repositories.SeatInventoryRepo
	Routes    *analytics.RouteStats
}

// CreateScheduleRequest carries the admin payload for a new dated run.
type CreateScheduleRequest struct {
	TrainNumber   string `json:"trainNumber"`
	TrainName     string `json:"trainName"`
	TotalSeats    int    `json:"totalSeats"`
	Source        string `json:"source"`
	Destination   string `json:"destination"`
	DepartureTime string `json:"departureTime"`
	ArrivalTime   string `json:"arrivalTime"`
	BaseFare      string `json:"baseFare"`
	RunsOn        string `json:"runsOn"`
}

// CreateTrainWithSchedule validates and stores a train run together with its
// empty seat inventory.
func (s ScheduleService) CreateTrainWithSchedule(ctx context.Context, req CreateScheduleRequest) (models.Train, models.Schedule, error) {
	req.TrainNumber = strings.ToUpper(strings.TrimSpace(req.TrainNumber))
	req.TrainName = strings.TrimSpace(req.TrainName)
	req.Source = strings.TrimSpace(req.Source)
	req.Destination = strings.TrimSpace(req.Destination)

	switch {
	case req.TrainNumber == "":
		return models.Train{}, models.Schedule{}, domain.ValidationError{Field: "trainNumber", Msg: "required"}
	case req.TrainName == "":
		return models.Train{}, models.Schedule{}, domain.ValidationError{Field: "trainName", Msg: "required"}
	case req.TotalSeats < 1:
		return models.Train{}, models.Schedule{}, domain.ValidationError{Field: "totalSeats", Msg: "must be at least 1"}
	case req.Source == "" || req.Destination == "":
		return models.Train{}, models.Schedule{}, domain.ValidationError{Field: "route", Msg: "source and destination are required"}
	case strings.EqualFold(req.Source, req.Destination):
		return models.Train{}, models.Schedule{}, domain.ValidationError{Field: "route", Msg: "source and destination must differ"}
	}

	if _, err := time.Parse("2006-01-02", req.RunsOn); err != nil {
		return models.Train{}, models.Schedule{}, domain.ValidationError{Field: "runsOn", Msg: "expected YYYY-MM-DD"}
	}
	for _, f := range []struct{ name, v string }{
		{"departureTime", req.DepartureTime},
		{"arrivalTime", req.ArrivalTime},
	} {
		if _, err := time.Parse("15:04", f.v); err != nil {
			return models.Train{}, models.Schedule{}, domain.ValidationError{Field: f.name, Msg: "expected HH:MM"}
		}
	}

	fare, err := decimal.NewFromString(strings.TrimSpace(req.BaseFare))
	if err != nil || fare.LessThanOrEqual(decimal.Zero) {
		return models.Train{}, models.Schedule{}, domain.ValidationError{Field: "baseFare", Msg: "must be a positive amount"}
	}

	train := models.Train{
		TrainNumber: req.TrainNumber,
		TrainName:   req.TrainName,
		TotalSeats:  req.TotalSeats,
		IsActive:    true,
	}
	sched := models.Schedule{
		Source:        req.Source,
		Destination:   req.Destination,
		DepartureTime: req.DepartureTime,
		ArrivalTime:   req.ArrivalTime,
		BaseFare:      fare,
		RunsOn:        req.RunsOn,
		IsActive:      true,
	}
	if err := s.Schedules.CreateTrainWithSchedule(ctx, &train, &sched); err != nil {
		return models.Train{}, models.Schedule{}, err
	}
	return train, sched, nil
}

// Search lists schedules between two stations. Limit and offset are clamped
// rather than rejected. Each search feeds the route popularity counter.
func (s ScheduleService) Search(ctx context.Context, source, destination, date string, limit, offset int) ([]models.ScheduleSearchRow, domain.Pagination, error) {
	source = strings.TrimSpace(source)
	destination = strings.TrimSpace(destination)
	if source == "" || destination == "" {
		return nil, domain.Pagination{}, domain.ValidationError{Field: "route", Msg: "source and destination are required"}
	}
	if date != "" {
		if _, err := time.Parse("2006-01-02", date); err != nil {
			return nil, domain.Pagination{}, domain.ValidationError{Field: "date", Msg: "expected YYYY-MM-DD"}
		}
	}
	if limit < 1 || limit > 100 {
		limit = 10
	}
	if offset < 0 {
		offset = 0
	}

	rows, total, err := s.Schedules.Search(ctx, source, destination, date, limit, offset)
	if err != nil {
		return nil, domain.Pagination{}, err
	}

	if s.Routes != nil {
		s.Routes.Record(source, destination)
	}

	return rows, domain.Pagination{Limit: limit, Offset: offset, Total: total}, nil
}

// Availability returns the live seat counts for one schedule.
func (s ScheduleService) Availability(ctx context.Context, scheduleID int64) (models.SeatInventory, error) {
	if scheduleID <= 0 {
		return models.SeatInventory{}, domain.ValidationError{Field: "scheduleId", Msg: "must be positive"}
	}
	return s.Inventory.Get(ctx, scheduleID)
}
