package handlers

import (
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"

	"railbook/internal/services"
)

type TrainHandler struct {
	Schedules services.ScheduleService
}

// POST /api/trains (admin)
func (h TrainHandler) Create(c *gin.Context) {
	var req services.CreateScheduleRequest
	if !BindJSONOrError(c, &req) {
		return
	}

	train, sched, err := h.Schedules.CreateTrainWithSchedule(c.Request.Context(), req)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message":  "train schedule created",
		"train":    train,
		"schedule": sched,
	})
}

// GET /api/trains/search?source=&destination=&date=&limit=&offset=
func (h TrainHandler) Search(c *gin.Context) {
	limit, _ := strconv.Atoi(c.DefaultQuery("limit", "10"))
	offset, _ := strconv.Atoi(c.DefaultQuery("offset", "0"))

	rows, page, err := h.Schedules.Search(
		c.Request.Context(),
		c.Query("source"),
		c.Query("destination"),
		c.Query("date"),
		limit, offset,
	)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"count":   page.Total,
		"limit":   page.Limit,
		"offset":  page.Offset,
		"results": rows,
	})
}

// GET /api/trains/schedules/:id/availability
func (h TrainHandler) Availability(c *gin.Context) {
	id, err := strconv.ParseInt(c.Param("id"), 10, 64)
	if err != nil || id <= 0 {
		respondError(c, http.StatusBadRequest, "validation_error", "invalid schedule id")
		return
	}

	inv, err := h.Schedules.Availability(c.Request.Context(), id)
	if err != nil {
		RespondDomainError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"scheduleId":     inv.ScheduleID,
		"totalSeats":     inv.TotalSeats,
		"bookedSeats":    inv.BookedSeats,
		"availableSeats": inv.Available(),
	})
}
