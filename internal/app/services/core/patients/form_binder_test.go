package patients

import (
	"errors"
	"testing"
	"time"

	"patient-directory-service/internal/app/models"
	"patient-directory-service/internal/pkg/constvars"
	"patient-directory-service/internal/pkg/dto/requests"
	"patient-directory-service/internal/pkg/exceptions"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func strPtr(value string) *string {
	return &value
}

func fixedNow() time.Time {
	return time.Date(2026, time.March, 10, 9, 0, 0, 0, time.UTC)
}

func TestFormBinder_DerivedFieldsFollowEdits(t *testing.T) {
	binder := NewFormBinder(fixedNow)
	require.NoError(t, binder.Open(constvars.FormModeCreate, nil))

	state, err := binder.Set(requests.PatientFormPatch{GivenNames: strPtr("Ana")})
	require.NoError(t, err)
	assert.Equal(t, "Ana", state.FullName)

	state, err = binder.Set(requests.PatientFormPatch{FamilyNames: strPtr("Lopez")})
	require.NoError(t, err)
	assert.Equal(t, "Ana Lopez", state.FullName)

	state, err = binder.Set(requests.PatientFormPatch{BirthDate: strPtr("1990-03-11")})
	require.NoError(t, err)
	require.NotNil(t, state.Age)
	assert.Equal(t, 35, *state.Age)

	state, err = binder.Set(requests.PatientFormPatch{BirthDate: strPtr("")})
	require.NoError(t, err)
	assert.Nil(t, state.Age)
	assert.Equal(t, "Ana Lopez", state.FullName)
}

func TestFormBinder_OpenEditRepopulatesEverything(t *testing.T) {
	binder := NewFormBinder(fixedNow)
	require.NoError(t, binder.Open(constvars.FormModeCreate, nil))
	_, err := binder.Set(requests.PatientFormPatch{
		GivenNames: strPtr("Leftover"),
		Notes:      strPtr("draft notes"),
		Email:      strPtr("draft@example.com"),
	})
	require.NoError(t, err)

	record := &models.Patient{ID: "A-99", GivenNames: "Maria", FamilyNames: "Ruiz", DocumentNumber: "A-99"}
	require.NoError(t, binder.Open(constvars.FormModeEdit, record))

	state := binder.State()
	assert.Equal(t, constvars.FormModeEdit, state.Mode)
	assert.Equal(t, "A-99", state.PatientID)
	assert.Equal(t, "Maria", state.Fields.GivenNames)
	assert.Empty(t, state.Fields.Notes)
	assert.Empty(t, state.Fields.Email)
	assert.Equal(t, "Maria Ruiz", state.FullName)
}

func TestFormBinder_CloseClearsHiddenID(t *testing.T) {
	binder := NewFormBinder(fixedNow)
	require.NoError(t, binder.Open(constvars.FormModeEdit, &models.Patient{ID: "p-1", GivenNames: "Ana"}))

	binder.Close()
	assert.False(t, binder.IsOpen())
	assert.Empty(t, binder.State().PatientID)

	require.NoError(t, binder.Open(constvars.FormModeCreate, nil))
	_, err := binder.Set(requests.PatientFormPatch{
		GivenNames:     strPtr("Juan"),
		FamilyNames:    strPtr("Perez"),
		DocumentNumber: strPtr("777"),
	})
	require.NoError(t, err)

	collected, err := binder.Collect()
	require.NoError(t, err)
	assert.Empty(t, collected.PatientID)
	assert.False(t, collected.IsEdit())
}

func TestFormBinder_CollectReportsEveryMissingField(t *testing.T) {
	binder := NewFormBinder(fixedNow)
	require.NoError(t, binder.Open(constvars.FormModeCreate, nil))
	_, err := binder.Set(requests.PatientFormPatch{GivenNames: strPtr("   ")})
	require.NoError(t, err)

	_, err = binder.Collect()
	require.Error(t, err)
	assert.True(t, errors.Is(err, exceptions.ErrValidation))

	var validationErr *exceptions.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.ElementsMatch(t, []string{"givenNames", "familyNames", "documentNumber"}, validationErr.MissingFields)

	// the form stays open with what was typed
	assert.True(t, binder.IsOpen())
}

func TestFormBinder_CollectRejectsBadDateAndEmail(t *testing.T) {
	binder := NewFormBinder(fixedNow)
	require.NoError(t, binder.Open(constvars.FormModeCreate, nil))
	_, err := binder.Set(requests.PatientFormPatch{
		GivenNames:     strPtr("Ana"),
		FamilyNames:    strPtr("Lopez"),
		DocumentNumber: strPtr("111"),
		BirthDate:      strPtr("11/03/1990"),
		Email:          strPtr("not-an-email"),
	})
	require.NoError(t, err)

	_, err = binder.Collect()
	var validationErr *exceptions.ValidationError
	require.True(t, errors.As(err, &validationErr))
	assert.Empty(t, validationErr.MissingFields)
	assert.Contains(t, validationErr.InvalidFields, "birthDate")
	assert.Contains(t, validationErr.InvalidFields, "email")
}

func TestFormBinder_CollectTrimsAndDerives(t *testing.T) {
	binder := NewFormBinder(fixedNow)
	require.NoError(t, binder.Open(constvars.FormModeEdit, &models.Patient{ID: "111", DocumentNumber: "111"}))
	_, err := binder.Set(requests.PatientFormPatch{
		GivenNames:  strPtr("  Ana "),
		FamilyNames: strPtr(" Lopez"),
		Email:       strPtr(" Ana@Example.COM "),
		BirthDate:   strPtr("2000-03-10"),
	})
	require.NoError(t, err)

	collected, err := binder.Collect()
	require.NoError(t, err)
	assert.Equal(t, "111", collected.PatientID)
	assert.Equal(t, "Ana", collected.Form.GivenNames)
	assert.Equal(t, "Ana Lopez", collected.FullName)
	assert.Equal(t, "ana@example.com", collected.Form.Email)
	require.NotNil(t, collected.Age)
	assert.Equal(t, 26, *collected.Age)
}

func TestFormBinder_RequiresOpenForm(t *testing.T) {
	binder := NewFormBinder(fixedNow)

	_, err := binder.Set(requests.PatientFormPatch{GivenNames: strPtr("Ana")})
	assert.True(t, errors.Is(err, exceptions.ErrFormNotOpen))

	_, err = binder.Collect()
	assert.True(t, errors.Is(err, exceptions.ErrFormNotOpen))
}

func TestFormBinder_OpenRejectsBadInput(t *testing.T) {
	binder := NewFormBinder(fixedNow)

	assert.Error(t, binder.Open(constvars.FormModeEdit, nil))
	assert.False(t, binder.IsOpen())

	err := binder.Open(constvars.FormMode("view"), nil)
	assert.True(t, errors.Is(err, exceptions.ErrValidation))
}
