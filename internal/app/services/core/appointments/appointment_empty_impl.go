package appointments

import (
	"context"
	"patient-directory-service/internal/app/contracts"
	"patient-directory-service/internal/app/models"
)

type emptyAppointmentHistory struct{}

// NewEmptyAppointmentHistory is used when no scheduling source is
// reachable, as with the memory store driver.
func NewEmptyAppointmentHistory() contracts.AppointmentHistory {
	return emptyAppointmentHistory{}
}

func (emptyAppointmentHistory) ListByPatient(ctx context.Context, patient models.PatientRef) ([]models.Appointment, error) {
	return []models.Appointment{}, nil
}
