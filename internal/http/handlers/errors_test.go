package handlers

import (
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/gin-gonic/gin"

	"railbook/internal/domain"
)

func TestRespondDomainErrorStatusMapping(t *testing.T) {
	gin.SetMode(gin.TestMode)

	cases := []struct {
		name   string
		err    error
		status int
		code   string
	}{
		{"validation", domain.ValidationError{Field: "passengers", Msg: "required"}, http.StatusBadRequest, "validation_error"},
		{"not found", domain.NotFoundError{Resource: "schedule"}, http.StatusNotFound, "not_found"},
		{"sold out", domain.SoldOutError{ScheduleID: 1, Requested: 2, Available: 1}, http.StatusConflict, "sold_out"},
		{"contention", domain.ContentionError{Attempts: 5}, http.StatusServiceUnavailable, "contention_exhausted"},
		{"timeout", domain.TimeoutError{}, http.StatusGatewayTimeout, "timeout"},
		{"conflict", domain.ConflictError{Resource: "seat inventory"}, http.StatusConflict, "conflict"},
		{"persistence", domain.PersistenceError{Msg: "insert booking"}, http.StatusInternalServerError, "persistence_error"},
		{"reference", domain.ReferenceError{Attempts: 3}, http.StatusInternalServerError, "reference_error"},
		{"unknown", domain.InternalError{Msg: "boom"}, http.StatusInternalServerError, "internal_error"},
	}

	for _, tc := range cases {
		t.Run(tc.name, func(t *testing.T) {
			rec := httptest.NewRecorder()
			c, _ := gin.CreateTestContext(rec)
			c.Request = httptest.NewRequest(http.MethodPost, "/api/bookings", nil)

			RespondDomainError(c, tc.err)

			if rec.Code != tc.status {
				t.Fatalf("wrong status: got %d want %d", rec.Code, tc.status)
			}
			var body ErrorResponse
			if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
				t.Fatalf("bad body: %v", err)
			}
			if body.Code != tc.code {
				t.Fatalf("wrong code: got %q want %q", body.Code, tc.code)
			}
			if body.Error == "" {
				t.Fatal("empty error message")
			}
		})
	}
}

func TestPersistenceErrorTellsClientSeatsWereReleased(t *testing.T) {
	gin.SetMode(gin.TestMode)

	rec := httptest.NewRecorder()
	c, _ := gin.CreateTestContext(rec)
	c.Request = httptest.NewRequest(http.MethodPost, "/api/bookings", nil)

	RespondDomainError(c, domain.PersistenceError{Msg: "insert booking"})

	var body ErrorResponse
	if err := json.Unmarshal(rec.Body.Bytes(), &body); err != nil {
		t.Fatalf("bad body: %v", err)
	}
	if body.Error != "booking could not be stored, seats were released" {
		t.Fatalf("unexpected message: %q", body.Error)
	}
}
