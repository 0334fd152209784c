package appointment

import (
	"context"

	"github.com/psyline/psyline-api/internal/models"
)

type Repository interface {
	// -------- Psychologist --------
	GetPsychologistByID(
		ctx context.Context,
		id uint,
	) (*models.Psychologist, error)

	// GetPsychologistByUserID resolves the profile linked to a user,
	// nil when the user has none.
	GetPsychologistByUserID(
		ctx context.Context,
		userID uint,
	) (*models.Psychologist, error)

	// -------- Appointment --------

	// CreateAppointment persists the appointment after asserting no
	// overlapping pending/confirmed appointment exists for the same
	// psychologist. Both steps run in one transaction.
	CreateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	GetAppointment(
		ctx context.Context,
		id uint,
	) (*models.Appointment, error)

	UpdateAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error

	DeleteAppointment(
		ctx context.Context,
		ap *models.Appointment,
	) error
}
