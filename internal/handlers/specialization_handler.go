package handlers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/psyline/psyline-api/internal/httperr"
	"github.com/psyline/psyline-api/internal/models"
)

type SpecializationHandler struct {
	db *gorm.DB
}

func NewSpecializationHandler(db *gorm.DB) *SpecializationHandler {
	return &SpecializationHandler{db: db}
}

type CreateSpecializationRequest struct {
	Name        string `json:"name" binding:"required,min=2,max=255"`
	Description string `json:"description"`
}

func (h *SpecializationHandler) Create(c *gin.Context) {
	var req CreateSpecializationRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	spec := models.Specialization{
		Name:        req.Name,
		Description: req.Description,
	}

	if err := h.db.Create(&spec).Error; err != nil {
		if errors.Is(err, gorm.ErrDuplicatedKey) {
			httperr.Conflict(c, "name_taken", "Specialization already exists.")
			return
		}
		httperr.Internal(c, "failed_to_create_specialization", "Could not create specialization.")
		return
	}

	c.JSON(http.StatusOK, spec)
}

func (h *SpecializationHandler) Get(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid specialization id.")
		return
	}

	var spec models.Specialization
	if err := h.db.
		Preload("Psychologists").
		First(&spec, id).Error; err != nil {
		httperr.NotFound(c, "specialization_not_found", "Specialization not found.")
		return
	}

	c.JSON(http.StatusOK, spec)
}
