package models

import "time"

// DirectoryEvent announces a change to the patient collection so other
// instances can drop their cached snapshot.
type DirectoryEvent struct {
	Type       string    `json:"type"`
	PatientID  string    `json:"patient_id"`
	Origin     string    `json:"origin"`
	OccurredAt time.Time `json:"occurred_at"`
}
