package handlers

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/psyline/psyline-api/internal/cache"
	"github.com/psyline/psyline-api/internal/httperr"
	"github.com/psyline/psyline-api/internal/httpresp"
	"github.com/psyline/psyline-api/internal/models"
)

type ScheduleHandler struct {
	db    *gorm.DB
	cache cache.Client
}

func NewScheduleHandler(db *gorm.DB, cacheClient cache.Client) *ScheduleHandler {
	return &ScheduleHandler{db: db, cache: cacheClient}
}

type CreateScheduleRequest struct {
	PsychologistID uint   `json:"psychologist_id" binding:"required"`
	DayOfWeek      int    `json:"day_of_week"`
	StartTime      string `json:"start_time" binding:"required"`
	EndTime        string `json:"end_time" binding:"required"`
}

func (h *ScheduleHandler) Create(c *gin.Context) {
	var req CreateScheduleRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	if req.DayOfWeek < 0 || req.DayOfWeek > 6 {
		httperr.BadRequest(c, "day_out_of_range", "day_of_week must be between 0 and 6.")
		return
	}

	start, err := time.Parse("15:04", req.StartTime)
	if err != nil {
		httperr.BadRequest(c, "invalid_time_format", "start_time must be HH:MM.")
		return
	}
	end, err := time.Parse("15:04", req.EndTime)
	if err != nil {
		httperr.BadRequest(c, "invalid_time_format", "end_time must be HH:MM.")
		return
	}
	if !end.After(start) {
		httperr.BadRequest(c, "invalid_time_range", "end_time must be after start_time.")
		return
	}

	var count int64
	h.db.Model(&models.Psychologist{}).Where("id = ?", req.PsychologistID).Count(&count)
	if count == 0 {
		httperr.NotFound(c, "psychologist_not_found", "Psychologist not found.")
		return
	}

	entry := models.Schedule{
		PsychologistID: req.PsychologistID,
		DayOfWeek:      req.DayOfWeek,
		StartTime:      req.StartTime,
		EndTime:        req.EndTime,
	}

	if err := h.db.Create(&entry).Error; err != nil {
		httperr.Internal(c, "failed_to_create_schedule", "Could not create schedule entry.")
		return
	}

	// The cached profile embeds the schedule.
	h.invalidateProfile(c, entry.PsychologistID)

	c.JSON(http.StatusOK, entry)
}

func (h *ScheduleHandler) ListForPsychologist(c *gin.Context) {
	psychologistID, err := parseID(c.Param("psychologist_id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid psychologist id.")
		return
	}

	var entries []models.Schedule
	if err := h.db.
		Where("psychologist_id = ?", psychologistID).
		Order("day_of_week ASC, start_time ASC").
		Find(&entries).Error; err != nil {
		httperr.Internal(c, "failed_to_list_schedule", "Could not list schedule.")
		return
	}

	httpresp.List(c, entries)
}

func (h *ScheduleHandler) Delete(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid schedule id.")
		return
	}

	var entry models.Schedule
	if err := h.db.First(&entry, id).Error; err != nil {
		httperr.NotFound(c, "schedule_not_found", "Schedule entry not found.")
		return
	}

	if err := h.db.Delete(&entry).Error; err != nil {
		httperr.Internal(c, "failed_to_delete_schedule", "Could not delete schedule entry.")
		return
	}

	h.invalidateProfile(c, entry.PsychologistID)

	c.JSON(http.StatusOK, gin.H{"message": "Schedule entry deleted."})
}

func (h *ScheduleHandler) invalidateProfile(c *gin.Context, psychologistID uint) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Del(c.Request.Context(), cache.ProfileKey(psychologistID)); err != nil {
		log.Println("profile cache del:", err)
	}
}
