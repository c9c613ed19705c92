package controllers

import (
	"context"
	"errors"
	"io"
	"net/http"
	"patient-directory-service/internal/pkg/constvars"
	"patient-directory-service/internal/pkg/dto/requests"
	"patient-directory-service/internal/pkg/exceptions"
	"patient-directory-service/internal/pkg/utils"

	"github.com/go-chi/chi/v5"
	"github.com/goccy/go-json"
	"go.uber.org/zap"
)

func requestIDFrom(log *zap.Logger, w http.ResponseWriter, r *http.Request, operation string) (string, bool) {
	requestID := utils.GetRequestID(r.Context())
	if requestID == "" {
		log.Error(operation + " requestID not found in context")
		utils.BuildErrorResponse(log, w, exceptions.ErrMissingRequestID(nil))
		return "", false
	}
	return requestID, true
}

func respondError(log *zap.Logger, w http.ResponseWriter, requestID, operation string, err error) {
	log.Error(operation+" error from usecase",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Error(err),
	)
	var customErr *exceptions.CustomError
	if !errors.As(err, &customErr) && errors.Is(err, context.DeadlineExceeded) {
		utils.BuildErrorResponse(log, w, exceptions.ErrServerDeadlineExceeded(err))
		return
	}
	utils.BuildErrorResponse(log, w, err)
}

// decodeJSON decodes an optional body; an empty body leaves target as is.
func decodeJSON(r *http.Request, target interface{}) error {
	err := json.NewDecoder(r.Body).Decode(target)
	if err == nil || errors.Is(err, io.EOF) {
		return nil
	}
	return exceptions.ErrCannotParseJSON(err)
}

func patientIDParam(r *http.Request) (string, error) {
	patientID := chi.URLParam(r, constvars.URLParamPatientID)
	if err := utils.ValidatePatientIDParam(patientID); err != nil {
		return "", exceptions.ErrURLParamIDValidation(err, constvars.URLParamPatientID)
	}
	return patientID, nil
}

// confirmed accepts the confirmation as a query flag or a JSON body.
func confirmed(r *http.Request) (bool, error) {
	if utils.IsConfirmed(r) {
		return true, nil
	}
	request := new(requests.ConfirmAction)
	if err := decodeJSON(r, request); err != nil {
		return false, err
	}
	return request.Confirm, nil
}
