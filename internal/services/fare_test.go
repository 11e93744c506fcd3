package services

import (
	"testing"

	"github.com/shopspring/decimal"

	"railbook/internal/domain/models"
)

func TestTotalFareChargesFullFarePerSeat(t *testing.T) {
	base := decimal.RequireFromString("2500")
	passengers := []models.PassengerInput{
		{Name: "Asha", Age: 34, Gender: models.GenderFemale},
		{Name: "Ravi", Age: 36, Gender: models.GenderMale},
	}

	got := TotalFare(base, passengers)
	if !got.Equal(decimal.RequireFromString("5000")) {
		t.Fatalf("wrong total fare: got %s want 5000", got)
	}
}

func TestTotalFareSmallChildrenRideFree(t *testing.T) {
	base := decimal.RequireFromString("1299.50")
	passengers := []models.PassengerInput{
		{Name: "Asha", Age: 34, Gender: models.GenderFemale},
		{Name: "Tara", Age: 4, Gender: models.GenderFemale},
		{Name: "Dev", Age: 5, Gender: models.GenderMale}, // at the limit, pays
	}

	got := TotalFare(base, passengers)
	if !got.Equal(decimal.RequireFromString("2599.00")) {
		t.Fatalf("wrong total fare: got %s want 2599.00", got)
	}
}

func TestTotalFareEmptyListIsZero(t *testing.T) {
	got := TotalFare(decimal.RequireFromString("2500"), nil)
	if !got.Equal(decimal.Zero) {
		t.Fatalf("expected zero fare, got %s", got)
	}
}
