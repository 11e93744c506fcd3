package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// Train holds immutable train metadata.
type Train struct {
	ID          int64     `json:"id"`
	TrainNumber string    `json:"trainNumber"`
	TrainName   string    `json:"trainName"`
	TotalSeats  int       `json:"totalSeats"`
	IsActive    bool      `json:"isActive"`
	CreatedAt   time.Time `json:"createdAt"`
}

// Schedule is a single dated run of a train between two stations.
type Schedule struct {
	ID            int64           `json:"id"`
	TrainID       int64           `json:"trainId"`
	Source        string          `json:"source"`
	Destination   string          `json:"destination"`
	DepartureTime string          `json:"departureTime"` // HH:MM
	ArrivalTime   string          `json:"arrivalTime"`   // HH:MM
	BaseFare      decimal.Decimal `json:"baseFare"`
	RunsOn        string          `json:"runsOn"` // YYYY-MM-DD
	IsActive      bool            `json:"isActive"`
	CreatedAt     time.Time       `json:"createdAt"`
}

// SeatInventory is the per-schedule seat counter guarded by an optimistic
// version. It is mutated only through the seat ledger's compare-and-swap;
// nothing else may touch booked_seats.
type SeatInventory struct {
	ScheduleID  int64     `json:"scheduleId"`
	TotalSeats  int       `json:"totalSeats"`
	BookedSeats int       `json:"bookedSeats"`
	Version     int64     `json:"version"`
	UpdatedAt   time.Time `json:"updatedAt"`
}

// Available returns the number of unbooked seats.
func (s SeatInventory) Available() int {
	return s.TotalSeats - s.BookedSeats
}

// CanBook reports whether n more seats fit.
func (s SeatInventory) CanBook(n int) bool {
	return n > 0 && s.BookedSeats+n <= s.TotalSeats
}

// ScheduleSearchRow is one search result: a schedule joined with its train
// and remaining capacity.
type ScheduleSearchRow struct {
	Schedule
	TrainNumber    string `json:"trainNumber"`
	TrainName      string `json:"trainName"`
	TotalSeats     int    `json:"totalSeats"`
	AvailableSeats int    `json:"availableSeats"`
}
