package exceptions

import "errors"

var (
	ErrValidation           = errors.New("validation error")
	ErrStoreUnavailable     = errors.New("store unavailable")
	ErrPatientNotFound      = errors.New("patient not found")
	ErrConfirmationRequired = errors.New("confirmation required")
	ErrPatientBusy          = errors.New("patient record busy")
	ErrReadOnlySession      = errors.New("read-only session")
	ErrHardDeleteDisabled   = errors.New("hard delete disabled")
	ErrFormNotOpen          = errors.New("form not open")
	ErrPhotoRejected        = errors.New("photo rejected")
)

// IsRetryable reports whether re-submitting the same action may succeed.
func IsRetryable(err error) bool {
	return errors.Is(err, ErrStoreUnavailable) || errors.Is(err, ErrPatientBusy)
}
