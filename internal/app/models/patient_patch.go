package models

// PatientPatch is a merge payload: only non-nil fields are written.
// The id and createdAt are never part of a patch.
type PatientPatch struct {
	GivenNames     *string
	FamilyNames    *string
	FullName       *string
	DocumentType   *string
	DocumentNumber *string
	BirthDate      *string
	Age            *int
	ClearAge       bool
	Phone          *string
	Email          *string
	Doctor         *string
	BirthCountry   *string
	BirthCity      *string
	HomeCountry    *string
	HomeCity       *string
	Neighborhood   *string
	Residence      *string
	Notes          *string
	Active         *bool
	PhotoURL       *string
	UpdatedAt      string
}

// Fields returns the storage field names and values the patch writes.
// A cleared age is written as nil.
func (p *PatientPatch) Fields() map[string]interface{} {
	fields := make(map[string]interface{})
	putString := func(name string, value *string) {
		if value != nil {
			fields[name] = *value
		}
	}

	putString(FieldGivenNames, p.GivenNames)
	putString(FieldFamilyNames, p.FamilyNames)
	putString(FieldFullName, p.FullName)
	putString(FieldDocumentType, p.DocumentType)
	putString(FieldDocumentNumber, p.DocumentNumber)
	putString(FieldBirthDate, p.BirthDate)
	putString(FieldPhone, p.Phone)
	putString(FieldEmail, p.Email)
	putString(FieldDoctor, p.Doctor)
	putString(FieldBirthCountry, p.BirthCountry)
	putString(FieldBirthCity, p.BirthCity)
	putString(FieldHomeCountry, p.HomeCountry)
	putString(FieldHomeCity, p.HomeCity)
	putString(FieldNeighborhood, p.Neighborhood)
	putString(FieldResidence, p.Residence)
	putString(FieldNotes, p.Notes)
	putString(FieldPhotoURL, p.PhotoURL)

	switch {
	case p.Age != nil:
		fields[FieldAge] = *p.Age
	case p.ClearAge:
		fields[FieldAge] = nil
	}
	if p.Active != nil {
		fields[FieldActive] = *p.Active
	}
	if p.UpdatedAt != "" {
		fields[FieldUpdatedAt] = p.UpdatedAt
	}
	return fields
}

// ApplyTo merges the patch into a record held in memory.
func (p *PatientPatch) ApplyTo(record *Patient) {
	setString := func(target *string, value *string) {
		if value != nil {
			*target = *value
		}
	}

	setString(&record.GivenNames, p.GivenNames)
	setString(&record.FamilyNames, p.FamilyNames)
	setString(&record.FullName, p.FullName)
	setString(&record.DocumentType, p.DocumentType)
	setString(&record.DocumentNumber, p.DocumentNumber)
	setString(&record.BirthDate, p.BirthDate)
	setString(&record.Phone, p.Phone)
	setString(&record.Email, p.Email)
	setString(&record.Doctor, p.Doctor)
	setString(&record.BirthCountry, p.BirthCountry)
	setString(&record.BirthCity, p.BirthCity)
	setString(&record.HomeCountry, p.HomeCountry)
	setString(&record.HomeCity, p.HomeCity)
	setString(&record.Neighborhood, p.Neighborhood)
	setString(&record.Residence, p.Residence)
	setString(&record.Notes, p.Notes)
	setString(&record.PhotoURL, p.PhotoURL)

	switch {
	case p.Age != nil:
		age := *p.Age
		record.Age = &age
	case p.ClearAge:
		record.Age = nil
	}
	if p.Active != nil {
		active := *p.Active
		record.Active = &active
	}
	if p.UpdatedAt != "" {
		record.UpdatedAt = p.UpdatedAt
	}
}
