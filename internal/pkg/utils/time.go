package utils

import (
	"patient-directory-service/internal/pkg/constvars"
	"strings"
	"time"
)

// CalculateAgeAt returns the completed years between birthDate and now.
// Empty, unparseable and future dates yield nil.
func CalculateAgeAt(birthDate string, now time.Time) *int {
	birthDate = strings.TrimSpace(birthDate)
	if birthDate == "" {
		return nil
	}

	dob, err := time.Parse(constvars.DateLayout, birthDate)
	if err != nil {
		return nil
	}

	age := now.Year() - dob.Year()
	if now.Month() < dob.Month() || (now.Month() == dob.Month() && now.Day() < dob.Day()) {
		age--
	}
	if age < 0 {
		return nil
	}
	return &age
}

func IsValidDate(value string) bool {
	_, err := time.Parse(constvars.DateLayout, value)
	return err == nil
}

func FormatTimestamp(t time.Time) string {
	return t.UTC().Format(constvars.TimestampLayout)
}
