package models

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestPatientPatchFields(t *testing.T) {
	t.Run("Only supplied fields", func(t *testing.T) {
		phone := "555-1111"
		patch := &PatientPatch{Phone: &phone, UpdatedAt: "2024-01-01T00:00:00.000Z"}

		fields := patch.Fields()

		assert.Equal(t, map[string]interface{}{
			FieldPhone:     "555-1111",
			FieldUpdatedAt: "2024-01-01T00:00:00.000Z",
		}, fields)
		assert.NotContains(t, fields, FieldNotes, "notes must not be part of the payload")
	})

	t.Run("Cleared age", func(t *testing.T) {
		empty := ""
		patch := &PatientPatch{BirthDate: &empty, ClearAge: true}

		fields := patch.Fields()

		value, ok := fields[FieldAge]
		assert.True(t, ok)
		assert.Nil(t, value)
	})
}

func TestPatientPatchApplyTo(t *testing.T) {
	age := 40
	record := &Patient{ID: "A-99", Notes: "allergic to X", Phone: "555-0000", Age: &age}
	phone := "555-1111"
	empty := ""

	patch := &PatientPatch{Phone: &phone, BirthDate: &empty, ClearAge: true}
	patch.ApplyTo(record)

	assert.Equal(t, "555-1111", record.Phone)
	assert.Equal(t, "allergic to X", record.Notes)
	assert.Nil(t, record.Age)
}

func TestPatientIsActive(t *testing.T) {
	inactive := false
	active := true

	assert.True(t, Patient{}.IsActive(), "legacy record without the field is active")
	assert.True(t, Patient{Active: &active}.IsActive())
	assert.False(t, Patient{Active: &inactive}.IsActive())
}

func TestPatientDisplayName(t *testing.T) {
	assert.Equal(t, "Ana Lopez", Patient{FullName: " Ana Lopez "}.DisplayName())
	assert.Equal(t, "Ana Lopez", Patient{GivenNames: "Ana", FamilyNames: "Lopez"}.DisplayName())
	assert.Equal(t, "Ana", Patient{GivenNames: " Ana "}.DisplayName())
}
