package handlers

import (
	"encoding/json"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/psyline/psyline-api/internal/cache"
	"github.com/psyline/psyline-api/internal/httperr"
	"github.com/psyline/psyline-api/internal/media"
	"github.com/psyline/psyline-api/internal/models"
)

const profileCacheTTL = 5 * time.Minute

type PsychologistHandler struct {
	db    *gorm.DB
	cache cache.Client
	media media.Store
}

func NewPsychologistHandler(db *gorm.DB, cacheClient cache.Client, mediaStore media.Store) *PsychologistHandler {
	return &PsychologistHandler{
		db:    db,
		cache: cacheClient,
		media: mediaStore,
	}
}

// --------- Requests ---------

type CreatePsychologistRequest struct {
	UserID            uint    `json:"user_id" binding:"required"`
	Experience        int     `json:"experience" binding:"gte=0"`
	Bio               string  `json:"bio"`
	PricePerHour      float64 `json:"price_per_hour" binding:"gte=0"`
	SpecializationIDs []uint  `json:"specialization_ids"`
}

type UpdatePsychologistRequest struct {
	Experience        int     `json:"experience" binding:"gte=0"`
	Bio               string  `json:"bio"`
	PricePerHour      float64 `json:"price_per_hour" binding:"gte=0"`
	SpecializationIDs []uint  `json:"specialization_ids"`
}

// --------- Handlers ---------

func (h *PsychologistHandler) Create(c *gin.Context) {
	var req CreatePsychologistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	var user models.User
	if err := h.db.First(&user, req.UserID).Error; err != nil {
		httperr.NotFound(c, "user_not_found", "User not found.")
		return
	}

	var count int64
	h.db.Model(&models.Psychologist{}).Where("user_id = ?", req.UserID).Count(&count)
	if count > 0 {
		httperr.Conflict(c, "profile_exists", "User already has a psychologist profile.")
		return
	}

	specs, ok := h.resolveSpecializations(c, req.SpecializationIDs)
	if !ok {
		return
	}

	psych := models.Psychologist{
		UserID:          req.UserID,
		Experience:      req.Experience,
		Bio:             req.Bio,
		PricePerHour:    req.PricePerHour,
		Specializations: specs,
	}

	if err := h.db.Create(&psych).Error; err != nil {
		httperr.Internal(c, "failed_to_create_psychologist", "Could not create profile.")
		return
	}

	h.respondWithProfile(c, psych.ID)
}

func (h *PsychologistHandler) Get(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid psychologist id.")
		return
	}

	if h.cache != nil {
		if cached, err := h.cache.Get(c.Request.Context(), cache.ProfileKey(id)); err == nil {
			c.Data(http.StatusOK, "application/json; charset=utf-8", []byte(cached))
			return
		}
	}

	h.respondWithProfile(c, id)
}

func (h *PsychologistHandler) Update(c *gin.Context) {
	id, err := parseID(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid psychologist id.")
		return
	}

	var psych models.Psychologist
	if err := h.db.First(&psych, id).Error; err != nil {
		httperr.NotFound(c, "psychologist_not_found", "Psychologist not found.")
		return
	}

	var req UpdatePsychologistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		httperr.BadRequest(c, "invalid_request", err.Error())
		return
	}

	// Ids supplied means full replace of the specialization set. Resolved
	// before any write so a bad list leaves the profile untouched.
	specs, ok := h.resolveSpecializations(c, req.SpecializationIDs)
	if !ok {
		return
	}

	psych.Experience = req.Experience
	psych.Bio = req.Bio
	psych.PricePerHour = req.PricePerHour

	err = h.db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Save(&psych).Error; err != nil {
			return err
		}
		if len(specs) > 0 {
			return tx.Model(&psych).Association("Specializations").Replace(specs)
		}
		return nil
	})
	if err != nil {
		httperr.Internal(c, "failed_to_update_psychologist", "Could not update profile.")
		return
	}

	h.invalidateProfile(c, psych.ID)
	h.respondWithProfile(c, psych.ID)
}

func (h *PsychologistHandler) UploadAvatar(c *gin.Context) {
	if h.media == nil {
		httperr.Write(c, http.StatusServiceUnavailable, "media_storage_unavailable", "Media storage is not configured.")
		return
	}

	id, err := parseID(c.Param("id"))
	if err != nil {
		httperr.BadRequest(c, "invalid_id", "Invalid psychologist id.")
		return
	}

	var psych models.Psychologist
	if err := h.db.First(&psych, id).Error; err != nil {
		httperr.NotFound(c, "psychologist_not_found", "Psychologist not found.")
		return
	}

	fileHeader, err := c.FormFile("file")
	if err != nil {
		httperr.BadRequest(c, "missing_file", "Image file is required.")
		return
	}

	f, err := fileHeader.Open()
	if err != nil {
		httperr.Internal(c, "failed_to_read_file", "Could not read uploaded file.")
		return
	}
	defer f.Close()

	processed, err := media.ProcessAvatar(f)
	if err != nil {
		httperr.BadRequest(c, "invalid_image", "File is not a decodable image.")
		return
	}

	key := "avatars/" + uuid.NewString() + ".webp"
	url, err := h.media.Put(c.Request.Context(), key, processed, "image/webp")
	if err != nil {
		httperr.Internal(c, "failed_to_store_avatar", "Could not store avatar.")
		return
	}

	psych.AvatarURL = url
	if err := h.db.Save(&psych).Error; err != nil {
		httperr.Internal(c, "failed_to_update_psychologist", "Could not update profile.")
		return
	}

	h.invalidateProfile(c, psych.ID)
	h.respondWithProfile(c, psych.ID)
}

// --------- Helpers ---------

// resolveSpecializations loads the requested ids. A non-empty list that
// matches nothing is rejected; a partial match silently attaches the
// matched subset.
func (h *PsychologistHandler) resolveSpecializations(c *gin.Context, ids []uint) ([]models.Specialization, bool) {
	if len(ids) == 0 {
		return nil, true
	}

	var specs []models.Specialization
	if err := h.db.Where("id IN ?", ids).Find(&specs).Error; err != nil {
		httperr.Internal(c, "failed_to_load_specializations", "Could not load specializations.")
		return nil, false
	}

	if len(specs) == 0 {
		httperr.BadRequest(c, "specializations_not_found", "None of the requested specializations exist.")
		return nil, false
	}

	return specs, true
}

func (h *PsychologistHandler) loadProfile(c *gin.Context, id uint) (*models.Psychologist, bool) {
	var psych models.Psychologist
	err := h.db.
		Preload("User").
		Preload("Specializations").
		Preload("Schedule").
		Preload("Reviews").
		First(&psych, id).Error

	if err != nil {
		httperr.NotFound(c, "psychologist_not_found", "Psychologist not found.")
		return nil, false
	}

	psych.ComputeRating()
	return &psych, true
}

func (h *PsychologistHandler) respondWithProfile(c *gin.Context, id uint) {
	psych, ok := h.loadProfile(c, id)
	if !ok {
		return
	}

	if h.cache != nil {
		if body, err := json.Marshal(psych); err == nil {
			if err := h.cache.Set(c.Request.Context(), cache.ProfileKey(id), string(body), profileCacheTTL); err != nil {
				log.Println("profile cache set:", err)
			}
		}
	}

	c.JSON(http.StatusOK, psych)
}

func (h *PsychologistHandler) invalidateProfile(c *gin.Context, id uint) {
	if h.cache == nil {
		return
	}
	if err := h.cache.Del(c.Request.Context(), cache.ProfileKey(id)); err != nil {
		log.Println("profile cache del:", err)
	}
}

func parseID(s string) (uint, error) {
	id, err := strconv.ParseUint(s, 10, 32)
	if err != nil {
		return 0, err
	}
	return uint(id), nil
}
