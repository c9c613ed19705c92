package utils

import (
	"net/http/httptest"
	"patient-directory-service/internal/pkg/dto/requests"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestSanitizePatientForm(t *testing.T) {
	form := &requests.PatientForm{
		GivenNames:     "  Maria ",
		FamilyNames:    " Ruiz",
		DocumentNumber: " A-99 ",
		Email:          "  MARIA@Example.COM ",
		Notes:          " allergic to X ",
	}

	SanitizePatientForm(form)

	assert.Equal(t, "Maria", form.GivenNames)
	assert.Equal(t, "Ruiz", form.FamilyNames)
	assert.Equal(t, "A-99", form.DocumentNumber)
	assert.Equal(t, "maria@example.com", form.Email, "email should be lowercase and trimmed")
	assert.Equal(t, "allergic to X", form.Notes)
}

func TestBuildDirectoryFiltersRequest(t *testing.T) {
	t.Run("All parameters", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/v1/patients?term=+Ana+&doctor=Dr.%20Perez&show_inactive=true", nil)

		filters := BuildDirectoryFiltersRequest(r)

		assert.Equal(t, "Ana", filters.Term)
		assert.Equal(t, "Dr. Perez", filters.Doctor)
		assert.True(t, filters.ShowInactive)
	})

	t.Run("Defaults", func(t *testing.T) {
		r := httptest.NewRequest("GET", "/api/v1/patients?show_inactive=maybe", nil)

		filters := BuildDirectoryFiltersRequest(r)

		assert.Equal(t, requests.DirectoryFilters{}, filters)
	})
}

func TestIsConfirmed(t *testing.T) {
	assert.True(t, IsConfirmed(httptest.NewRequest("DELETE", "/patients/x?confirm=true", nil)))
	assert.False(t, IsConfirmed(httptest.NewRequest("DELETE", "/patients/x", nil)))
}
