package models

import (
	"time"

	"github.com/shopspring/decimal"
)

type BookingStatus string

const (
	BookingPending   BookingStatus = "PENDING"
	BookingConfirmed BookingStatus = "CONFIRMED"
	BookingFailed    BookingStatus = "FAILED"
)

// PNRLength is the fixed length of a booking reference (A-Z0-9, ~51 bits).
const PNRLength = 10

// Genders accepted for passengers.
const (
	GenderMale   = "M"
	GenderFemale = "F"
	GenderOther  = "O"
)

// Booking is one confirmed (or historical) reservation. A booking owns its
// passengers exclusively; they are created together inside one transaction.
type Booking struct {
	ID            int64           `json:"id"`
	PNR           string          `json:"pnr"`
	ScheduleID    int64           `json:"scheduleId"`
	UserID        int64           `json:"userId"`
	NumPassengers int             `json:"numPassengers"`
	TotalFare     decimal.Decimal `json:"totalFare"`
	Status        BookingStatus   `json:"status"`
	BookingDate   time.Time       `json:"bookingDate"`
	ConfirmedAt   *time.Time      `json:"confirmedAt,omitempty"`
	Passengers    []Passenger     `json:"passengers,omitempty"`
}

// Passenger belongs to exactly one booking. SeatNumber is assigned from the
// reserved range in input order and is unique within the schedule while the
// booking stays confirmed.
type Passenger struct {
	ID         int64  `json:"id"`
	BookingID  int64  `json:"bookingId"`
	Name       string `json:"name"`
	Age        int    `json:"age"`
	Gender     string `json:"gender"`
	SeatNumber int    `json:"seatNumber"`
}

// PassengerInput is the caller-supplied passenger data before seats exist.
type PassengerInput struct {
	Name   string `json:"name"`
	Age    int    `json:"age"`
	Gender string `json:"gender"`
}

// BookingConfirmation is returned to the caller once a booking committed.
type BookingConfirmation struct {
	PNR           string          `json:"pnr"`
	ScheduleID    int64           `json:"scheduleId"`
	Status        BookingStatus   `json:"status"`
	NumPassengers int             `json:"numPassengers"`
	TotalFare     decimal.Decimal `json:"totalFare"`
	Passengers    []Passenger     `json:"passengers"`
}
