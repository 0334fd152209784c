package appointment

import (
	"context"

	"github.com/psyline/psyline-api/internal/audit"
	domain "github.com/psyline/psyline-api/internal/domain/appointment"
	"github.com/psyline/psyline-api/internal/httperr"
	"github.com/psyline/psyline-api/internal/models"
)

type UpdateStatus struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewUpdateStatus(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *UpdateStatus {
	return &UpdateStatus{
		repo:  repo,
		audit: audit,
	}
}

// Execute lets the psychologist on the appointment move it through the
// lifecycle. Clients are rejected, even for their own appointments.
func (uc *UpdateStatus) Execute(
	ctx context.Context,
	appointmentID uint,
	requesterID uint,
	newStatus domain.Status,
) (*models.Appointment, error) {

	ap, err := uc.repo.GetAppointment(ctx, appointmentID)
	if err != nil {
		return nil, httperr.ErrBusiness("appointment_not_found")
	}

	psych, err := uc.repo.GetPsychologistByUserID(ctx, requesterID)
	if err != nil {
		return nil, err
	}
	if psych == nil || psych.ID != ap.PsychologistID {
		return nil, httperr.ErrBusiness("forbidden")
	}

	if err := domain.CanTransition(domain.Status(ap.Status), newStatus); err != nil {
		return nil, err
	}

	ap.Status = string(newStatus)
	if err := uc.repo.UpdateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &requesterID,
		Action:   "appointment_status_changed",
		Entity:   "appointment",
		EntityID: &ap.ID,
		Metadata: map[string]any{"status": newStatus},
	})

	return ap, nil
}
