package handlers

import (
	"net/http"
	"time"

	"github.com/gin-gonic/gin"

	domain "github.com/psyline/psyline-api/internal/domain/appointment"
	"github.com/psyline/psyline-api/internal/httperr"
	"github.com/psyline/psyline-api/internal/middleware"
	ucAppointment "github.com/psyline/psyline-api/internal/usecase/appointment"
)

type AppointmentHandler struct {
	createUC       *ucAppointment.CreateAppointment
	getUC          *ucAppointment.GetAppointment
	updateStatusUC *ucAppointment.UpdateStatus
	deleteUC       *ucAppointment.DeleteAppointment
}

func NewAppointmentHandler(
	createUC *ucAppointment.CreateAppointment,
	getUC *ucAppointment.GetAppointment,
	updateStatusUC *ucAppointment.UpdateStatus,
	deleteUC *ucAppointment.DeleteAppointment,
) *AppointmentHandler {
	return &AppointmentHandler{
		createUC:       createUC,
		getUC:          getUC,
		updateStatusUC: updateStatusUC,
		deleteUC:       deleteUC,
	}
}

// --------- Requests ---------

type CreateAppointmentRequest struct {
	PsychologistID uint      `json:"psychologist_id" binding:"required"`
	StartTime      time.Time `json:"start_time" binding:"required"`
	EndTime        time.Time `json:"end_time" binding:"required"`
	Price          float64   `json:"price" binding:"required,gt=0"`
}

type UpdateStatusRequest struct {
	Status string `json:"status" binding:"required"`
}

// --------- Handlers ---------

func (h *AppointmentHandler) Create(c *gin.Context) {
	clientID := c.MustGet(middleware.ContextUserID).(uint)

	var req CreateAppointmentRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	ap, err := h.createUC.Execute(c.Request.Context(), ucAppointment.CreateAppointmentInput{
		ClientID:       clientID,
		PsychologistID: req.PsychologistID,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
		Price:          req.Price,
	})
	if err != nil {
		writeAppointmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Get(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := parseID(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	ap, err := h.getUC.Execute(c.Request.Context(), id, userID)
	if err != nil {
		writeAppointmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) UpdateStatus(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := parseID(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	var req UpdateStatusRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	status, err := domain.ParseStatus(req.Status)
	if err != nil {
		writeAppointmentError(c, err)
		return
	}

	ap, err := h.updateStatusUC.Execute(c.Request.Context(), id, userID, status)
	if err != nil {
		writeAppointmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, ap)
}

func (h *AppointmentHandler) Delete(c *gin.Context) {
	userID := c.MustGet(middleware.ContextUserID).(uint)

	id, err := parseID(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid appointment id.")
		return
	}

	if err := h.deleteUC.Execute(c.Request.Context(), id, userID); err != nil {
		writeAppointmentError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"message": "Appointment deleted."})
}

// --------- Error mapping ---------

func writeAppointmentError(c *gin.Context, err error) {
	code, ok := httperr.BusinessCode(err)
	if !ok {
		httperr.Internal(c, "internal_error", "Unexpected error.")
		return
	}

	switch code {
	case "appointment_not_found":
		httperr.NotFound(c, code, "Appointment not found.")
	case "psychologist_not_found":
		httperr.NotFound(c, code, "Psychologist not found.")
	case "forbidden":
		httperr.Forbidden(c, code, "No access to this appointment.")
	case "time_conflict":
		httperr.Conflict(c, code, "The time range overlaps an existing appointment.")
	case "start_in_past":
		httperr.BadRequest(c, code, "start_time must be in the future.")
	case "invalid_time_range":
		httperr.BadRequest(c, code, "end_time must be after start_time.")
	case "invalid_price":
		httperr.BadRequest(c, code, "price must be positive.")
	case "invalid_status":
		httperr.BadRequest(c, code, "Unknown appointment status.")
	case "invalid_transition":
		httperr.BadRequest(c, code, "Status transition not allowed.")
	default:
		httperr.Internal(c, code, "Unexpected error.")
	}
}
