package exceptions

import (
	"sort"
	"strings"
)

// ValidationError is local to the form: it never reaches the store.
type ValidationError struct {
	MissingFields []string          `json:"missing_fields,omitempty"`
	InvalidFields map[string]string `json:"invalid_fields,omitempty"`
}

func (e *ValidationError) Error() string {
	parts := make([]string, 0, 2)
	if len(e.MissingFields) > 0 {
		parts = append(parts, "missing: "+strings.Join(e.MissingFields, ", "))
	}
	if len(e.InvalidFields) > 0 {
		invalid := make([]string, 0, len(e.InvalidFields))
		for field, reason := range e.InvalidFields {
			invalid = append(invalid, field+" "+reason)
		}
		sort.Strings(invalid)
		parts = append(parts, "invalid: "+strings.Join(invalid, ", "))
	}
	if len(parts) == 0 {
		return ErrValidation.Error()
	}
	return strings.Join(parts, "; ")
}

func (e *ValidationError) Is(target error) bool {
	return target == ErrValidation
}

func (e *ValidationError) Empty() bool {
	return len(e.MissingFields) == 0 && len(e.InvalidFields) == 0
}

func (e *ValidationError) AddMissing(field string) {
	e.MissingFields = append(e.MissingFields, field)
}

func (e *ValidationError) AddInvalid(field, reason string) {
	if e.InvalidFields == nil {
		e.InvalidFields = make(map[string]string)
	}
	e.InvalidFields[field] = reason
}
