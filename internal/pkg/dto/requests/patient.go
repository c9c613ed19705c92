package requests

// PatientForm holds every editable field of the patient modal. Required
// tags are checked by the form binder, which reports all missing fields.
type PatientForm struct {
	GivenNames     string `json:"givenNames" validate:"required"`
	FamilyNames    string `json:"familyNames" validate:"required"`
	DocumentType   string `json:"documentType" validate:"max=40"`
	DocumentNumber string `json:"documentNumber" validate:"required,max=60"`
	BirthDate      string `json:"birthDate" validate:"omitempty,datetime=2006-01-02"`
	Phone          string `json:"phone" validate:"max=40"`
	Email          string `json:"email" validate:"omitempty,email"`
	Doctor         string `json:"doctor" validate:"max=120"`
	BirthCountry   string `json:"birthCountry"`
	BirthCity      string `json:"birthCity"`
	HomeCountry    string `json:"homeCountry"`
	HomeCity       string `json:"homeCity"`
	Neighborhood   string `json:"neighborhood"`
	Residence      string `json:"residence"`
	Notes          string `json:"notes" validate:"max=4000"`
}

// PatientFormPatch edits an open form; nil fields keep their value.
type PatientFormPatch struct {
	GivenNames     *string `json:"givenNames,omitempty"`
	FamilyNames    *string `json:"familyNames,omitempty"`
	DocumentType   *string `json:"documentType,omitempty"`
	DocumentNumber *string `json:"documentNumber,omitempty"`
	BirthDate      *string `json:"birthDate,omitempty"`
	Phone          *string `json:"phone,omitempty"`
	Email          *string `json:"email,omitempty"`
	Doctor         *string `json:"doctor,omitempty"`
	BirthCountry   *string `json:"birthCountry,omitempty"`
	BirthCity      *string `json:"birthCity,omitempty"`
	HomeCountry    *string `json:"homeCountry,omitempty"`
	HomeCity       *string `json:"homeCity,omitempty"`
	Neighborhood   *string `json:"neighborhood,omitempty"`
	Residence      *string `json:"residence,omitempty"`
	Notes          *string `json:"notes,omitempty"`
}

// ApplyTo copies the supplied fields onto form.
func (p PatientFormPatch) ApplyTo(form *PatientForm) {
	assign := func(target *string, value *string) {
		if value != nil {
			*target = *value
		}
	}
	assign(&form.GivenNames, p.GivenNames)
	assign(&form.FamilyNames, p.FamilyNames)
	assign(&form.DocumentType, p.DocumentType)
	assign(&form.DocumentNumber, p.DocumentNumber)
	assign(&form.BirthDate, p.BirthDate)
	assign(&form.Phone, p.Phone)
	assign(&form.Email, p.Email)
	assign(&form.Doctor, p.Doctor)
	assign(&form.BirthCountry, p.BirthCountry)
	assign(&form.BirthCity, p.BirthCity)
	assign(&form.HomeCountry, p.HomeCountry)
	assign(&form.HomeCity, p.HomeCity)
	assign(&form.Neighborhood, p.Neighborhood)
	assign(&form.Residence, p.Residence)
	assign(&form.Notes, p.Notes)
}

// CollectedPatient is a form that passed validation, trimmed and with its
// derived fields computed. PatientID is set only for edits. When Supplied
// is set, an edit writes only the fields it names.
type CollectedPatient struct {
	PatientID string
	Form      PatientForm
	FullName  string
	Age       *int
	Supplied  *PatientFormPatch
}

func (c *CollectedPatient) IsEdit() bool {
	return c.PatientID != ""
}

type DirectoryFilters struct {
	Term         string `json:"term"`
	Doctor       string `json:"doctor"`
	ShowInactive bool   `json:"show_inactive"`
}

type ConfirmAction struct {
	Confirm bool `json:"confirm"`
}

type OpenPatientForm struct {
	Mode      string `json:"mode" validate:"required,oneof=create edit"`
	PatientID string `json:"patient_id" validate:"required_if=Mode edit"`
}

type PhotoUpload struct {
	PatientID   string
	FileName    string
	ContentType string
	Data        []byte
}
