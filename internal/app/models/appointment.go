package models

// Appointment is read-only history shown next to a patient.
type Appointment struct {
	Date        string `bson:"date" json:"date"`
	StartTime   string `bson:"startTime" json:"startTime"`
	Doctor      string `bson:"doctor" json:"doctor"`
	Status      string `bson:"status" json:"status"`
	Comment     string `bson:"comment" json:"comment"`
	PatientID   string `bson:"patientId" json:"patientId"`
	PatientName string `bson:"patientName" json:"patientName"`
}

// PatientRef identifies the patient whose history is requested.
type PatientRef struct {
	ID       string
	FullName string
}
