package handlers

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"railbook/internal/domain/models"
	"railbook/internal/http/middleware"
	"railbook/internal/pdf"
	"railbook/internal/repositories"
	"railbook/internal/services"
	"railbook/internal/utils"
)

type BookingHandler struct {
	Bookings  services.BookingService
	Schedules repositories.ScheduleRepo
}

type createBookingRequest struct {
	ScheduleID int64                   `json:"scheduleId"`
	Passengers []models.PassengerInput `json:"passengers"`
}

// POST /api/bookings
func (h BookingHandler) Create(c *gin.Context) {
	rc, ok := middleware.GetAuth(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return
	}

	var req createBookingRequest
	if !BindJSONOrError(c, &req) {
		return
	}
	if req.ScheduleID <= 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid schedule id")
		return
	}

	confirmation, err := h.Bookings.Book(c.Request.Context(), req.ScheduleID, rc.UserID, req.Passengers)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	utils.LogEvent(middleware.GetRequestID(c), "booking", "create", "confirmed "+confirmation.PNR)
	c.JSON(http.StatusCreated, gin.H{
		"message": "booking confirmed successfully",
		"booking": confirmation,
	})
}

// GET /api/bookings
func (h BookingHandler) MyBookings(c *gin.Context) {
	rc, ok := middleware.GetAuth(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return
	}

	bookings, err := h.Bookings.MyBookings(c.Request.Context(), rc.UserID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   len(bookings),
		"results": bookings,
	})
}

// GET /api/bookings/:pnr
func (h BookingHandler) ByPNR(c *gin.Context) {
	rc, ok := middleware.GetAuth(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return
	}

	booking, err := h.Bookings.ByPNR(c.Request.Context(), c.Param("pnr"), rc.UserID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, booking)
}

// GET /api/bookings/:pnr/ticket
func (h BookingHandler) TicketPDF(c *gin.Context) {
	rc, ok := middleware.GetAuth(c)
	if !ok {
		respondError(c, http.StatusUnauthorized, "unauthorized", "not authenticated")
		return
	}

	booking, err := h.Bookings.ByPNR(c.Request.Context(), c.Param("pnr"), rc.UserID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}
	if booking.Status != models.BookingConfirmed {
		respondError(c, http.StatusConflict, "conflict", "ticket is only available for confirmed bookings")
		return
	}

	sched, err := h.Schedules.GetByID(c.Request.Context(), booking.ScheduleID)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	data, filename, err := pdf.BuildTicket(booking, sched)
	if err != nil {
		respondError(c, http.StatusInternalServerError, "internal_error", "could not render ticket")
		return
	}

	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
