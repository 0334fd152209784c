package appointment

import (
	"context"

	domain "github.com/psyline/psyline-api/internal/domain/appointment"
	"github.com/psyline/psyline-api/internal/httperr"
	"github.com/psyline/psyline-api/internal/models"
)

type GetAppointment struct {
	repo domain.Repository
}

func NewGetAppointment(repo domain.Repository) *GetAppointment {
	return &GetAppointment{repo: repo}
}

// Execute returns the appointment when the requester is its client or the
// user behind its psychologist profile.
func (uc *GetAppointment) Execute(
	ctx context.Context,
	appointmentID uint,
	requesterID uint,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	ok, err := requesterOnAppointment(ctx, uc.repo, ap, requesterID)
	if err != nil {
		return nil, err
	}
	if !ok {
		return nil, httperr.ErrBusiness("forbidden")
	}

	return ap, nil
}

// requesterOnAppointment is shared by the get/delete access rule.
func requesterOnAppointment(
	ctx context.Context,
	repo domain.Repository,
	ap *models.Appointment,
	requesterID uint,
) (bool, error) {

	if ap.ClientID == requesterID {
		return true, nil
	}

	psych, err := repo.GetPsychologistByUserID(ctx, requesterID)
	if err != nil {
		return false, err
	}

	return psych != nil && psych.ID == ap.PsychologistID, nil
}
