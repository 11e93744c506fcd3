package services

import (
	"github.com/shopspring/decimal"

	"railbook/internal/domain/models"
)

// Passengers younger than this ride free.
const childFreeAgeLimit = 5

// TotalFare prices a passenger list against a schedule's base fare. Pure and
// deterministic so the coordinator can price before reserving anything:
// full base fare per seat, free for small children.
func TotalFare(baseFare decimal.Decimal, passengers []models.PassengerInput) decimal.Decimal {
	total := decimal.Zero
	for _, p := range passengers {
		if p.Age < childFreeAgeLimit {
			continue
		}
		total = total.Add(baseFare)
	}
	return total
}
