package contracts

import (
	"context"
	"patient-directory-service/internal/app/models"
)

// AppointmentHistory is read-only; results are ordered newest first.
type AppointmentHistory interface {
	ListByPatient(ctx context.Context, patient models.PatientRef) ([]models.Appointment, error)
}
