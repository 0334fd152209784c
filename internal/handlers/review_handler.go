package handlers

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/psyline/psyline-api/internal/audit"
	"github.com/psyline/psyline-api/internal/cache"
	"github.com/psyline/psyline-api/internal/httperr"
	"github.com/psyline/psyline-api/internal/httpresp"
	"github.com/psyline/psyline-api/internal/models"
)

type ReviewHandler struct {
	db    *gorm.DB
	cache cache.Client
	audit *audit.Dispatcher
}

func NewReviewHandler(db *gorm.DB, cacheClient cache.Client, audit *audit.Dispatcher) *ReviewHandler {
	return &ReviewHandler{db: db, cache: cacheClient, audit: audit}
}

type CreateReviewRequest struct {
	ClientID       uint   `json:"client_id" binding:"required"`
	PsychologistID uint   `json:"psychologist_id" binding:"required"`
	Rating         int    `json:"rating" binding:"required,min=1,max=5"`
	Comment        string `json:"comment"`
}

func (h *ReviewHandler) Create(c *gin.Context) {
	var req CreateReviewRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	var count int64
	h.db.Model(&models.Psychologist{}).Where("id = ?", req.PsychologistID).Count(&count)
	if count == 0 {
		httperr.NotFound(c, "psychologist_not_found", "Psychologist not found.")
		return
	}

	review := models.Review{
		ClientID:       req.ClientID,
		PsychologistID: req.PsychologistID,
		Rating:         req.Rating,
		Comment:        req.Comment,
	}

	if err := h.db.Create(&review).Error; err != nil {
		httperr.Internal(c, "failed_to_create_review", "Could not create review.")
		return
	}

	// A new review changes the derived rating.
	if h.cache != nil {
		if err := h.cache.Del(c.Request.Context(), cache.ProfileKey(req.PsychologistID)); err != nil {
			log.Println("profile cache del:", err)
		}
	}

	h.audit.Dispatch(audit.Event{
		UserID:   &review.ClientID,
		Action:   "review_created",
		Entity:   "review",
		EntityID: &review.ID,
	})

	c.JSON(http.StatusOK, review)
}

func (h *ReviewHandler) ListForPsychologist(c *gin.Context) {
	psychologistID, err := parseID(c.Param("psychologist_id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid psychologist id.")
		return
	}

	var reviews []models.Review
	if err := h.db.
		Where("psychologist_id = ?", psychologistID).
		Order("created_at DESC").
		Find(&reviews).Error; err != nil {
		httperr.Internal(c, "failed_to_list_reviews", "Could not list reviews.")
		return
	}

	httpresp.List(c, reviews)
}
