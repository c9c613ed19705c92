package responses

import (
	"patient-directory-service/internal/pkg/constvars"
	"patient-directory-service/internal/pkg/dto/requests"
	"time"
)

type DirectoryView struct {
	Seq        uint64                    `json:"seq"`
	Filters    requests.DirectoryFilters `json:"filters"`
	Rows       []PatientRow              `json:"rows"`
	ReadOnly   bool                      `json:"read_only"`
	Message    string                    `json:"message,omitempty"`
	RenderedAt time.Time                 `json:"rendered_at"`
}

type FormState struct {
	Open      bool                 `json:"open"`
	Mode      constvars.FormMode   `json:"mode,omitempty"`
	PatientID string               `json:"patient_id,omitempty"`
	Fields    requests.PatientForm `json:"fields"`
	FullName  string               `json:"fullName"`
	Age       *int                 `json:"age"`
}

type OpenedForm struct {
	Form         FormState     `json:"form"`
	Appointments []Appointment `json:"appointments,omitempty"`
}

type SubmittedForm struct {
	Patient Patient       `json:"patient"`
	View    DirectoryView `json:"view"`
}

type FiltersAccepted struct {
	Seq uint64 `json:"seq"`
}
