package services

import (
	"context"
	"crypto/rand"

	"railbook/internal/domain"
	"railbook/internal/domain/models"
)

const pnrCharset = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"

// PNRGenerator issues collision-checked booking references. Exists consults
// persisted bookings; a candidate that is already taken is regenerated, a
// bounded number of times. Hitting the bound means entropy or the uniqueness
// index is broken, and that should fail loudly.
type PNRGenerator struct {
	Exists      func(ctx context.Context, pnr string) (bool, error)
	MaxAttempts int
}

func (g PNRGenerator) Generate(ctx context.Context) (string, error) {
	attempts := g.MaxAttempts
	if attempts <= 0 {
		attempts = 3
	}
	for i := 1; i <= attempts; i++ {
		code, err := randomCode(models.PNRLength)
		if err != nil {
			return "", domain.ReferenceError{Attempts: i, Err: err}
		}
		if g.Exists == nil {
			return code, nil
		}
		taken, err := g.Exists(ctx, code)
		if err != nil {
			return "", domain.ReferenceError{Attempts: i, Err: err}
		}
		if !taken {
			return code, nil
		}
	}
	return "", domain.ReferenceError{Attempts: attempts}
}

func randomCode(length int) (string, error) {
	// Rejection sampling: bytes at or above the largest multiple of the
	// charset size are discarded so every character is equally likely.
	limit := byte(256 - 256%len(pnrCharset))

	code := make([]byte, 0, length)
	buf := make([]byte, 2*length)
	for len(code) < length {
		if _, err := rand.Read(buf); err != nil {
			return "", err
		}
		for _, b := range buf {
			if b >= limit {
				continue
			}
			code = append(code, pnrCharset[int(b)%len(pnrCharset)])
			if len(code) == length {
				break
			}
		}
	}
	return string(code), nil
}
