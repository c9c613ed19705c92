package utils

import (
	"patient-directory-service/internal/pkg/dto/requests"
	"strings"
)

func trimPointer(value *string) {
	if value != nil {
		*value = strings.TrimSpace(*value)
	}
}

// SanitizePatientForm trims every field. Email is also lower-cased.
func SanitizePatientForm(form *requests.PatientForm) {
	form.GivenNames = strings.TrimSpace(form.GivenNames)
	form.FamilyNames = strings.TrimSpace(form.FamilyNames)
	form.DocumentType = strings.TrimSpace(form.DocumentType)
	form.DocumentNumber = strings.TrimSpace(form.DocumentNumber)
	form.BirthDate = strings.TrimSpace(form.BirthDate)
	form.Phone = strings.TrimSpace(form.Phone)
	form.Email = strings.ToLower(strings.TrimSpace(form.Email))
	form.Doctor = strings.TrimSpace(form.Doctor)
	form.BirthCountry = strings.TrimSpace(form.BirthCountry)
	form.BirthCity = strings.TrimSpace(form.BirthCity)
	form.HomeCountry = strings.TrimSpace(form.HomeCountry)
	form.HomeCity = strings.TrimSpace(form.HomeCity)
	form.Neighborhood = strings.TrimSpace(form.Neighborhood)
	form.Residence = strings.TrimSpace(form.Residence)
	form.Notes = strings.TrimSpace(form.Notes)
}

// SanitizeDirectoryFilters keeps the term as typed apart from surrounding
// whitespace; case folding happens in the filter.
func SanitizeDirectoryFilters(filters *requests.DirectoryFilters) {
	filters.Term = strings.TrimSpace(filters.Term)
	filters.Doctor = strings.TrimSpace(filters.Doctor)
}

func SanitizeOpenPatientForm(request *requests.OpenPatientForm) {
	request.Mode = strings.ToLower(strings.TrimSpace(request.Mode))
	request.PatientID = strings.TrimSpace(request.PatientID)
}

func SanitizePatientFormPatch(patch *requests.PatientFormPatch) {
	trimPointer(patch.DocumentType)
	trimPointer(patch.DocumentNumber)
	trimPointer(patch.BirthDate)
	trimPointer(patch.Email)
}
