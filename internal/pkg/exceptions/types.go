package exceptions

import (
	"context"
	"errors"
	"fmt"
	"patient-directory-service/internal/pkg/constvars"
	"strings"
)

var (
	ErrURLParamIDValidation = func(err error, paramName string) *CustomError {
		return BuildNewCustomError(withKind(ErrValidation, err), constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, fmt.Sprintf(constvars.ErrDevURLParamIDValidationFailed, paramName))
	}
	ErrInputValidation = func(validationErr *ValidationError) *CustomError {
		clientMessage := constvars.ErrClientCannotProcessRequest
		if len(validationErr.MissingFields) > 0 {
			clientMessage = fmt.Sprintf(constvars.ErrClientMissingFields, strings.Join(validationErr.MissingFields, ", "))
		}
		customErr := BuildNewCustomError(validationErr, constvars.StatusBadRequest, clientMessage, constvars.ErrDevValidationFailed)
		customErr.Details = validationErr
		return customErr
	}
	ErrImageValidation = func(err error) *CustomError {
		return BuildNewCustomError(withKind(ErrPhotoRejected, err), constvars.StatusBadRequest, constvars.ErrClientInvalidImageFormat, constvars.ErrDevImageValidationFailed)
	}
	ErrImageTooLarge = func(err error) *CustomError {
		return BuildNewCustomError(withKind(ErrPhotoRejected, err), constvars.StatusRequestEntityTooBig, constvars.ErrClientImageTooLarge, constvars.ErrDevImageValidationFailed)
	}

	// Parse
	ErrCannotParseJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCannotParseJSON)
	}
	ErrCannotMarshalJSON = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevCannotMarshalJSON)
	}
	ErrCannotParseMultipartForm = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevCannotParseMultipartForm)
	}

	// Store
	ErrStoreUnavailableWrap = func(err error, operation string) *CustomError {
		statusCode := constvars.StatusServiceUnavailable
		if errors.Is(err, context.DeadlineExceeded) {
			statusCode = constvars.StatusGatewayTimeout
		}
		return BuildNewCustomError(withKind(ErrStoreUnavailable, err), statusCode, constvars.ErrClientStoreUnavailable, fmt.Sprintf(constvars.ErrDevStoreUnavailable, operation))
	}
	ErrPatientNotFoundWrap = func(err error, patientID string) *CustomError {
		return BuildNewCustomError(withKind(ErrPatientNotFound, err), constvars.StatusNotFound, constvars.ErrClientPatientNotFound, fmt.Sprintf(constvars.ErrDevPatientNotFound, patientID))
	}

	// Directory
	ErrNeedConfirmation = func() *CustomError {
		return BuildNewCustomError(ErrConfirmationRequired, constvars.StatusPreconditionRequired, constvars.ErrClientConfirmationRequired, constvars.ErrDevConfirmationRequired)
	}
	ErrRecordBusy = func(err error, patientID string) *CustomError {
		return BuildNewCustomError(withKind(ErrPatientBusy, err), constvars.StatusConflict, constvars.ErrClientPatientBusy, fmt.Sprintf(constvars.ErrDevPatientBusy, patientID))
	}
	ErrNoSession = func() *CustomError {
		return BuildNewCustomError(ErrReadOnlySession, constvars.StatusUnauthorized, constvars.ErrClientReadOnlySession, constvars.ErrDevReadOnlySession)
	}
	ErrHardDeleteNotEnabled = func() *CustomError {
		return BuildNewCustomError(ErrHardDeleteDisabled, constvars.StatusMethodNotAllowed, constvars.ErrClientHardDeleteDisabled, constvars.ErrDevHardDeleteDisabled)
	}
	ErrInvalidFormMode = func(mode string) *CustomError {
		return BuildNewCustomError(withKind(ErrValidation, fmt.Errorf("unknown form mode %q", mode)), constvars.StatusBadRequest, constvars.ErrClientCannotProcessRequest, constvars.ErrDevInvalidInput)
	}
	ErrNoOpenForm = func() *CustomError {
		return BuildNewCustomError(ErrFormNotOpen, constvars.StatusConflict, constvars.ErrClientFormNotOpen, constvars.ErrDevFormNotOpen)
	}

	// Collaborators
	ErrAppointmentHistory = func(err error) *CustomError {
		return BuildNewCustomError(withKind(ErrStoreUnavailable, err), constvars.StatusServiceUnavailable, constvars.ErrClientStoreUnavailable, constvars.ErrDevAppointmentHistory)
	}
	ErrMinioCreateObject = func(err error, bucketName string) *CustomError {
		return BuildNewCustomError(withKind(ErrStoreUnavailable, err), constvars.StatusServiceUnavailable, constvars.ErrClientStoreUnavailable, fmt.Sprintf(constvars.ErrDevMinioFailedToCreateObject, bucketName))
	}
	ErrExportFailed = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevExportFailed)
	}

	// Redis
	ErrRedisGet = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisGetData)
	}
	ErrRedisSet = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisSetData)
	}
	ErrRedisDelete = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisDeleteData)
	}
	ErrRedisUnlock = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevRedisUnlock)
	}

	// Session
	ErrSessionInvalid = func(err error) *CustomError {
		return BuildNewCustomError(withKind(ErrReadOnlySession, err), constvars.StatusUnauthorized, constvars.ErrClientReadOnlySession, constvars.ErrDevSessionInvalid)
	}

	// Default Server
	ErrServerDeadlineExceeded = func(err error) *CustomError {
		return BuildNewCustomError(withKind(ErrStoreUnavailable, err), constvars.StatusGatewayTimeout, constvars.ErrClientServerLongRespond, constvars.ErrDevServerDeadlineExceeded)
	}
	ErrMissingRequestID = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientSomethingWrongWithApplication, constvars.ErrDevMissingRequestID)
	}
	ErrServerProcess = func(err error) *CustomError {
		return BuildNewCustomError(err, constvars.StatusInternalServerError, constvars.ErrClientCannotProcessRequest, constvars.ErrDevServerProcess)
	}
)
