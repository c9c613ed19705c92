package utils

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCalculateAgeAt(t *testing.T) {
	now := time.Date(2024, time.June, 15, 10, 0, 0, 0, time.UTC)

	tests := []struct {
		name      string
		birthDate string
		expected  *int
	}{
		{name: "Birthday already passed", birthDate: "1990-01-10", expected: intPtr(34)},
		{name: "Birthday today", birthDate: "1990-06-15", expected: intPtr(34)},
		{name: "Birthday tomorrow", birthDate: "1990-06-16", expected: intPtr(33)},
		{name: "Empty", birthDate: "", expected: nil},
		{name: "Whitespace", birthDate: "   ", expected: nil},
		{name: "Wrong layout", birthDate: "15/06/1990", expected: nil},
		{name: "Future date", birthDate: "2030-01-01", expected: nil},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			age := CalculateAgeAt(tt.birthDate, now)
			if tt.expected == nil {
				assert.Nil(t, age)
				return
			}
			require.NotNil(t, age)
			assert.Equal(t, *tt.expected, *age)
		})
	}
}

func TestIsValidDate(t *testing.T) {
	assert.True(t, IsValidDate("2000-02-29"))
	assert.False(t, IsValidDate("2001-02-29"))
	assert.False(t, IsValidDate("2000-2-1"))
}

func intPtr(value int) *int {
	return &value
}
