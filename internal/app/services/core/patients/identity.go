package patients

import (
	"patient-directory-service/internal/app/models"
	"patient-directory-service/internal/pkg/exceptions"
	"regexp"
	"strings"
)

// Runs of whitespace and slashes collapse into one separator. A slash
// would address a nested document in both stores.
var documentSeparators = regexp.MustCompile(`[\s/]+`)

const idSeparator = "_"

// ResolvePatientID keeps the id of a record being edited and otherwise
// derives it from the document number, so saving the same document number
// twice targets the same record.
func ResolvePatientID(existingID, documentNumber string) (string, error) {
	if id := strings.TrimSpace(existingID); id != "" {
		return id, nil
	}

	normalized := documentSeparators.ReplaceAllString(strings.TrimSpace(documentNumber), idSeparator)
	if normalized == "" {
		validationErr := &exceptions.ValidationError{}
		validationErr.AddMissing(models.FieldDocumentNumber)
		return "", exceptions.ErrInputValidation(validationErr)
	}
	return normalized, nil
}
