// Package pdf renders confirmed bookings as printable e-tickets.
package pdf

import (
	"bytes"
	"fmt"
	"strings"

	"github.com/phpdave11/gofpdf"

	"railbook/internal/domain/models"
)

// BuildTicket renders one booking as an A4 e-ticket PDF and returns the
// bytes plus a suggested filename.
func BuildTicket(b models.Booking, sched models.Schedule) ([]byte, string, error) {
	pdf := gofpdf.New("P", "mm", "A4", "")
	pdf.SetTitle("E-Ticket "+b.PNR, false)
	pdf.AddPage()

	pdf.SetFont("Helvetica", "B", 18)
	pdf.Cell(0, 10, "E-TICKET")
	pdf.Ln(12)

	pdf.SetFont("Helvetica", "", 12)
	lines := []string{
		fmt.Sprintf("PNR        : %s", b.PNR),
		fmt.Sprintf("Route      : %s -> %s", sched.Source, sched.Destination),
		fmt.Sprintf("Date       : %s", sched.RunsOn),
		fmt.Sprintf("Departure  : %s", sched.DepartureTime),
		fmt.Sprintf("Arrival    : %s", sched.ArrivalTime),
		fmt.Sprintf("Status     : %s", b.Status),
		fmt.Sprintf("Total Fare : %s", b.TotalFare.StringFixed(2)),
	}
	for _, line := range lines {
		pdf.Cell(0, 7, line)
		pdf.Ln(7)
	}

	pdf.Ln(4)
	pdf.SetFont("Helvetica", "B", 12)
	pdf.Cell(0, 7, "Passengers")
	pdf.Ln(8)

	pdf.SetFont("Helvetica", "", 12)
	for _, p := range b.Passengers {
		pdf.Cell(0, 7, fmt.Sprintf("Seat %-3d  %s (%d%s)", p.SeatNumber, p.Name, p.Age, p.Gender))
		pdf.Ln(7)
	}

	pdf.Ln(6)
	pdf.SetFont("Helvetica", "I", 10)
	pdf.MultiCell(0, 6, "Carry a valid photo ID for every passenger. Seat numbers are final once the booking is confirmed.", "", "", false)

	var buf bytes.Buffer
	if err := pdf.Output(&buf); err != nil {
		return nil, "", err
	}

	filename := fmt.Sprintf("ETICKET_%s.pdf", safeFilenamePart(b.PNR))
	return buf.Bytes(), filename, nil
}

func safeFilenamePart(s string) string {
	return strings.Map(func(r rune) rune {
		switch {
		case r >= 'A' && r <= 'Z', r >= 'a' && r <= 'z', r >= '0' && r <= '9':
			return r
		default:
			return '_'
		}
	}, s)
}
