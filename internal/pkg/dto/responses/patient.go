package responses

import "patient-directory-service/internal/app/models"

// PatientRow is one line of the directory table.
type PatientRow struct {
	ID             string `json:"id"`
	FullName       string `json:"fullName"`
	DocumentType   string `json:"documentType"`
	DocumentNumber string `json:"documentNumber"`
	Doctor         string `json:"doctor"`
	Phone          string `json:"phone"`
	Active         bool   `json:"active"`
	CreatedAt      string `json:"createdAt"`
}

type Patient struct {
	models.Patient
	Age    *int `json:"age"`
	Active bool `json:"active"`
}

type PatientList struct {
	Count    int          `json:"count"`
	Patients []PatientRow `json:"patients"`
}

type PhotoUploaded struct {
	PatientID string `json:"patient_id"`
	PhotoURL  string `json:"photo_url"`
}
