package constvars

// Validation messages, keyed by validator tag
var CustomValidationErrorMessages = map[string]string{
	"required":   "is required",
	"email":      "must be a valid email",
	"datetime":   "must be a date in YYYY-MM-DD format",
	"oneof":      "must be one of %s",
	"max":        "maximum at %s characters long",
	"patient_id": "must not contain '/'",
}

// Error messages for clients
const (
	ErrClientCannotProcessRequest          = "failed to process your request"
	ErrClientSomethingWrongWithApplication = "there is something wrong with the application"
	ErrClientServerLongRespond             = "the app taking too long to respond"
	ErrClientStoreUnavailable              = "patient records are temporarily unavailable, please try again"
	ErrClientPatientNotFound               = "patient not found, the list has been refreshed"
	ErrClientConfirmationRequired          = "please confirm this action"
	ErrClientPatientBusy                   = "this patient is being modified by another action, please try again"
	ErrClientReadOnlySession               = "you need to sign in to modify patient records"
	ErrClientHardDeleteDisabled            = "permanent deletion is not enabled"
	ErrClientFormNotOpen                   = "there is no patient form open"
	ErrClientInvalidImageFormat            = "photo must be a JPEG, PNG or WEBP image"
	ErrClientImageTooLarge                 = "photo exceeds the maximum upload size"
	ErrClientMissingFields                 = "missing required fields: %s"
)

// Error messages for developers
const (
	ErrDevInvalidInput               = "invalid input"
	ErrDevCannotParseJSON            = "cannot parse JSON"
	ErrDevCannotMarshalJSON          = "cannot marshal JSON"
	ErrDevCannotParseMultipartForm   = "cannot parse multipart form"
	ErrDevValidationFailed           = "validation failed"
	ErrDevStoreUnavailable           = "patient store unavailable during %s"
	ErrDevPatientNotFound            = "patient %s not found in store"
	ErrDevConfirmationRequired       = "state-changing action requested without confirmation"
	ErrDevPatientBusy                = "could not acquire record lock for patient %s"
	ErrDevReadOnlySession            = "no authenticated session, module is read-only"
	ErrDevHardDeleteDisabled         = "hard delete capability disabled by configuration"
	ErrDevFormNotOpen                = "binder has no open form"
	ErrDevImageValidationFailed      = "photo validation failed"
	ErrDevAppointmentHistory         = "failed to fetch appointment history"
	ErrDevMinioFailedToCreateObject  = "failed to create object in bucket %s"
	ErrDevRedisGetData               = "failed to get data from redis"
	ErrDevRedisSetData               = "failed to set data into redis"
	ErrDevRedisDeleteData            = "failed to delete data from redis"
	ErrDevRedisUnlock                = "failed to release redis lock"
	ErrDevSessionInvalid             = "session token invalid or expired"
	ErrDevServerDeadlineExceeded     = "deadline exceeded"
	ErrDevServerProcess              = "server failed to process request"
	ErrDevExportFailed               = "failed to build directory export"
	ErrDevMissingRequestID           = "request id missing from context"
	ErrDevURLParamIDValidationFailed = "url param %s failed validation"
)
