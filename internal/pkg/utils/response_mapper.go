package utils

import (
	"patient-directory-service/internal/app/models"
	"patient-directory-service/internal/pkg/dto/responses"
	"time"
)

func BuildPatientRow(patient models.Patient) responses.PatientRow {
	return responses.PatientRow{
		ID:             patient.ID,
		FullName:       patient.DisplayName(),
		DocumentType:   patient.DocumentType,
		DocumentNumber: patient.DocumentNumber,
		Doctor:         patient.Doctor,
		Phone:          patient.Phone,
		Active:         patient.IsActive(),
		CreatedAt:      patient.CreatedAt,
	}
}

func BuildPatientRows(patients []models.Patient) []responses.PatientRow {
	rows := make([]responses.PatientRow, 0, len(patients))
	for _, patient := range patients {
		rows = append(rows, BuildPatientRow(patient))
	}
	return rows
}

// BuildPatientResponse recomputes age from the birth date; the stored
// value is only a cache.
func BuildPatientResponse(patient models.Patient, now time.Time) responses.Patient {
	patient.FullName = patient.DisplayName()
	return responses.Patient{
		Patient: patient,
		Age:     CalculateAgeAt(patient.BirthDate, now),
		Active:  patient.IsActive(),
	}
}

func BuildAppointmentResponses(appointments []models.Appointment) []responses.Appointment {
	result := make([]responses.Appointment, 0, len(appointments))
	for _, appointment := range appointments {
		result = append(result, responses.Appointment{
			Date:      appointment.Date,
			StartTime: appointment.StartTime,
			Doctor:    appointment.Doctor,
			Status:    appointment.Status,
			Comment:   appointment.Comment,
		})
	}
	return result
}
