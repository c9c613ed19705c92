package patients

import (
	"patient-directory-service/internal/app/models"
	"patient-directory-service/internal/pkg/constvars"
	"patient-directory-service/internal/pkg/dto/requests"
	"patient-directory-service/internal/pkg/dto/responses"
	"patient-directory-service/internal/pkg/exceptions"
	"patient-directory-service/internal/pkg/utils"
	"time"
)

// FormBinder holds the single open patient form of a workspace. It is not
// safe for concurrent use; the directory controller serializes access.
type FormBinder struct {
	open      bool
	mode      constvars.FormMode
	patientID string
	fields    requests.PatientForm
	fullName  string
	age       *int
	now       func() time.Time
}

func NewFormBinder(now func() time.Time) *FormBinder {
	if now == nil {
		now = time.Now
	}
	return &FormBinder{now: now}
}

func (b *FormBinder) reset() {
	b.open = false
	b.mode = ""
	b.patientID = ""
	b.fields = requests.PatientForm{}
	b.fullName = ""
	b.age = nil
}

// Open discards any previous form state before populating. Edit requires
// the record; its id is the only source of the form's id.
func (b *FormBinder) Open(mode constvars.FormMode, record *models.Patient) error {
	switch mode {
	case constvars.FormModeCreate:
		b.reset()
	case constvars.FormModeEdit:
		if record == nil || record.ID == "" {
			return exceptions.ErrURLParamIDValidation(nil, constvars.URLParamPatientID)
		}
		b.reset()
		b.patientID = record.ID
		b.fields = FormFromRecord(record)
	default:
		return exceptions.ErrInvalidFormMode(string(mode))
	}

	b.open = true
	b.mode = mode
	b.bindDerived()
	return nil
}

// FormFromRecord maps every editable field of the record onto a form.
func FormFromRecord(record *models.Patient) requests.PatientForm {
	return requests.PatientForm{
		GivenNames:     record.GivenNames,
		FamilyNames:    record.FamilyNames,
		DocumentType:   record.DocumentType,
		DocumentNumber: record.DocumentNumber,
		BirthDate:      record.BirthDate,
		Phone:          record.Phone,
		Email:          record.Email,
		Doctor:         record.Doctor,
		BirthCountry:   record.BirthCountry,
		BirthCity:      record.BirthCity,
		HomeCountry:    record.HomeCountry,
		HomeCity:       record.HomeCity,
		Neighborhood:   record.Neighborhood,
		Residence:      record.Residence,
		Notes:          record.Notes,
	}
}

// Set applies the supplied field edits and recomputes derived fields.
func (b *FormBinder) Set(patch requests.PatientFormPatch) (responses.FormState, error) {
	if !b.open {
		return responses.FormState{}, exceptions.ErrNoOpenForm()
	}

	patch.ApplyTo(&b.fields)
	b.bindDerived()
	return b.State(), nil
}

func (b *FormBinder) bindDerived() {
	b.fullName = models.JoinFullName(b.fields.GivenNames, b.fields.FamilyNames)
	b.age = utils.CalculateAgeAt(b.fields.BirthDate, b.now())
}

func (b *FormBinder) IsOpen() bool {
	return b.open
}

func (b *FormBinder) State() responses.FormState {
	state := responses.FormState{
		Open:      b.open,
		Mode:      b.mode,
		PatientID: b.patientID,
		Fields:    b.fields,
		FullName:  b.fullName,
	}
	if b.age != nil {
		age := *b.age
		state.Age = &age
	}
	return state
}

// Collect validates the form. Every missing required field is reported
// at once; the form stays open either way.
func (b *FormBinder) Collect() (*requests.CollectedPatient, error) {
	if !b.open {
		return nil, exceptions.ErrNoOpenForm()
	}

	form := b.fields
	utils.SanitizePatientForm(&form)
	if err := utils.ValidateStruct(form); err != nil {
		return nil, exceptions.ErrInputValidation(utils.ToValidationError(err))
	}

	collected := &requests.CollectedPatient{
		Form:     form,
		FullName: models.JoinFullName(form.GivenNames, form.FamilyNames),
		Age:      utils.CalculateAgeAt(form.BirthDate, b.now()),
	}
	if b.mode == constvars.FormModeEdit {
		collected.PatientID = b.patientID
	}
	return collected, nil
}

// Close clears every field, the hidden id included.
func (b *FormBinder) Close() {
	b.reset()
}
