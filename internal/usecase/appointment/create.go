package appointment

import (
	"context"
	"time"

	"github.com/psyline/psyline-api/internal/audit"
	domain "github.com/psyline/psyline-api/internal/domain/appointment"
	"github.com/psyline/psyline-api/internal/httperr"
	"github.com/psyline/psyline-api/internal/models"
)

type CreateAppointmentInput struct {
	ClientID       uint
	PsychologistID uint

	StartTime time.Time
	EndTime   time.Time

	Price float64
}

type CreateAppointment struct {
	repo  domain.Repository
	audit *audit.Dispatcher
}

func NewCreateAppointment(
	repo domain.Repository,
	audit *audit.Dispatcher,
) *CreateAppointment {
	return &CreateAppointment{
		repo:  repo,
		audit: audit,
	}
}

func (uc *CreateAppointment) Execute(
	ctx context.Context,
	in CreateAppointmentInput,
) (*models.Appointment, error) {

	now := time.Now()
	if !in.StartTime.After(now) {
		return nil, httperr.ErrBusiness("start_in_past")
	}
	if !in.EndTime.After(in.StartTime) {
		return nil, httperr.ErrBusiness("invalid_time_range")
	}
	if in.Price <= 0 {
		return nil, httperr.ErrBusiness("invalid_price")
	}

	if _, err := uc.repo.GetPsychologistByID(ctx, in.PsychologistID); err != nil {
		return nil, httperr.ErrBusiness("psychologist_not_found")
	}

	ap := &models.Appointment{
		ClientID:       in.ClientID,
		PsychologistID: in.PsychologistID,
		StartTime:      in.StartTime,
		EndTime:        in.EndTime,
		Price:          in.Price,
		Status:         string(domain.InitialStatus()),
	}

	// Overlap detection happens inside the repository transaction.
	if err := uc.repo.CreateAppointment(ctx, ap); err != nil {
		return nil, err
	}

	uc.audit.Dispatch(audit.Event{
		UserID:   &in.ClientID,
		Action:   "appointment_created",
		Entity:   "appointment",
		EntityID: &ap.ID,
	})

	return ap, nil
}
