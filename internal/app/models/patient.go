package models

import "strings"

// Storage field names, shared by the mongo and firestore documents.
const (
	FieldID             = "_id"
	FieldGivenNames     = "givenNames"
	FieldFamilyNames    = "familyNames"
	FieldFullName       = "fullName"
	FieldDocumentType   = "documentType"
	FieldDocumentNumber = "documentNumber"
	FieldBirthDate      = "birthDate"
	FieldAge            = "age"
	FieldPhone          = "phone"
	FieldEmail          = "email"
	FieldDoctor         = "doctor"
	FieldBirthCountry   = "birthCountry"
	FieldBirthCity      = "birthCity"
	FieldHomeCountry    = "homeCountry"
	FieldHomeCity       = "homeCity"
	FieldNeighborhood   = "neighborhood"
	FieldResidence      = "residence"
	FieldNotes          = "notes"
	FieldActive         = "active"
	FieldCreatedAt      = "createdAt"
	FieldUpdatedAt      = "updatedAt"
	FieldPhotoURL       = "photoUrl"
)

type Patient struct {
	ID             string `bson:"_id" firestore:"-" json:"id"`
	GivenNames     string `bson:"givenNames" firestore:"givenNames" json:"givenNames"`
	FamilyNames    string `bson:"familyNames" firestore:"familyNames" json:"familyNames"`
	FullName       string `bson:"fullName" firestore:"fullName" json:"fullName"`
	DocumentType   string `bson:"documentType" firestore:"documentType" json:"documentType"`
	DocumentNumber string `bson:"documentNumber" firestore:"documentNumber" json:"documentNumber"`
	BirthDate      string `bson:"birthDate" firestore:"birthDate" json:"birthDate"`
	Age            *int   `bson:"age,omitempty" firestore:"age,omitempty" json:"age,omitempty"`
	Phone          string `bson:"phone" firestore:"phone" json:"phone"`
	Email          string `bson:"email" firestore:"email" json:"email"`
	Doctor         string `bson:"doctor" firestore:"doctor" json:"doctor"`
	BirthCountry   string `bson:"birthCountry" firestore:"birthCountry" json:"birthCountry"`
	BirthCity      string `bson:"birthCity" firestore:"birthCity" json:"birthCity"`
	HomeCountry    string `bson:"homeCountry" firestore:"homeCountry" json:"homeCountry"`
	HomeCity       string `bson:"homeCity" firestore:"homeCity" json:"homeCity"`
	Neighborhood   string `bson:"neighborhood" firestore:"neighborhood" json:"neighborhood"`
	Residence      string `bson:"residence" firestore:"residence" json:"residence"`
	Notes          string `bson:"notes" firestore:"notes" json:"notes"`
	Active         *bool  `bson:"active,omitempty" firestore:"active,omitempty" json:"active,omitempty"`
	CreatedAt      string `bson:"createdAt" firestore:"createdAt" json:"createdAt"`
	UpdatedAt      string `bson:"updatedAt" firestore:"updatedAt" json:"updatedAt"`
	PhotoURL       string `bson:"photoUrl" firestore:"photoUrl" json:"photoUrl"`
}

// IsActive treats a record without the active field as active.
func (p Patient) IsActive() bool {
	return p.Active == nil || *p.Active
}

// DisplayName returns the stored full name, deriving it for legacy
// records that never stored one.
func (p Patient) DisplayName() string {
	if name := strings.TrimSpace(p.FullName); name != "" {
		return name
	}
	return JoinFullName(p.GivenNames, p.FamilyNames)
}

func JoinFullName(givenNames, familyNames string) string {
	return strings.TrimSpace(strings.TrimSpace(givenNames) + " " + strings.TrimSpace(familyNames))
}

// Clone copies the pointer fields so snapshot records are never shared
// with callers that mutate them.
func (p Patient) Clone() Patient {
	if p.Age != nil {
		age := *p.Age
		p.Age = &age
	}
	if p.Active != nil {
		active := *p.Active
		p.Active = &active
	}
	return p
}
