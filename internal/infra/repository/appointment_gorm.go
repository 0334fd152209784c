package repository

import (
	"context"
	"errors"

	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	domain "github.com/psyline/psyline-api/internal/domain/appointment"
	"github.com/psyline/psyline-api/internal/httperr"
	"github.com/psyline/psyline-api/internal/models"
)

type AppointmentGormRepository struct {
	db *gorm.DB
}

func NewAppointmentGormRepository(db *gorm.DB) *AppointmentGormRepository {
	return &AppointmentGormRepository{db: db}
}

// --------------------------------------------------
// Psychologist
// --------------------------------------------------

func (r *AppointmentGormRepository) GetPsychologistByID(
	ctx context.Context,
	id uint,
) (*models.Psychologist, error) {

	var psych models.Psychologist
	if err := r.db.WithContext(ctx).First(&psych, id).Error; err != nil {
		return nil, err
	}
	return &psych, nil
}

func (r *AppointmentGormRepository) GetPsychologistByUserID(
	ctx context.Context,
	userID uint,
) (*models.Psychologist, error) {

	var psych models.Psychologist
	err := r.db.WithContext(ctx).
		Where("user_id = ?", userID).
		First(&psych).Error

	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, nil
	}
	if err != nil {
		return nil, err
	}

	return &psych, nil
}

// --------------------------------------------------
// Appointment
// --------------------------------------------------

// CreateAppointment locks conflicting rows and inserts inside one
// transaction so concurrent overlapping bookings cannot both commit.
func (r *AppointmentGormRepository) CreateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {

	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {

		q := tx
		// sqlite has no row locks; its writes serialize anyway.
		if tx.Dialector.Name() == "postgres" {
			q = q.Clauses(clause.Locking{Strength: "UPDATE"})
		}

		var conflicts []models.Appointment
		if err := q.
			Where(
				"psychologist_id = ? AND status IN ('pending', 'confirmed') AND start_time < ? AND end_time > ?",
				ap.PsychologistID,
				ap.EndTime,
				ap.StartTime,
			).
			Find(&conflicts).Error; err != nil {
			return err
		}

		if len(conflicts) > 0 {
			return httperr.ErrBusiness("time_conflict")
		}

		return tx.Create(ap).Error
	})
}

func (r *AppointmentGormRepository) GetAppointment(
	ctx context.Context,
	id uint,
) (*models.Appointment, error) {

	var ap models.Appointment
	if err := r.db.WithContext(ctx).First(&ap, id).Error; err != nil {
		return nil, err
	}
	return &ap, nil
}

func (r *AppointmentGormRepository) UpdateAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Save(ap).Error
}

func (r *AppointmentGormRepository) DeleteAppointment(
	ctx context.Context,
	ap *models.Appointment,
) error {
	return r.db.WithContext(ctx).Delete(ap).Error
}

// Compile-time check
var _ domain.Repository = (*AppointmentGormRepository)(nil)
