package controllers

import (
	"errors"
	"io"
	"net/http"
	"patient-directory-service/internal/app/config"
	"patient-directory-service/internal/app/contracts"
	"patient-directory-service/internal/app/models"
	"patient-directory-service/internal/app/services/core/patients"
	"patient-directory-service/internal/pkg/constvars"
	"patient-directory-service/internal/pkg/dto/requests"
	"patient-directory-service/internal/pkg/dto/responses"
	"patient-directory-service/internal/pkg/exceptions"
	"patient-directory-service/internal/pkg/utils"
	"time"

	"go.uber.org/zap"
)

type PatientController struct {
	Log            *zap.Logger
	PatientUsecase contracts.PatientUsecase
	InternalConfig *config.InternalConfig
}

func NewPatientController(logger *zap.Logger, patientUsecase contracts.PatientUsecase, internalConfig *config.InternalConfig) *PatientController {
	return &PatientController{
		Log:            logger,
		PatientUsecase: patientUsecase,
		InternalConfig: internalConfig,
	}
}

// Search answers anonymous callers with an empty, read-only list.
func (ctrl *PatientController) Search(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFrom(ctrl.Log, w, r, "PatientController.Search")
	if !ok {
		return
	}

	filters := utils.BuildDirectoryFiltersRequest(r)
	ctrl.Log.Info("PatientController.Search called",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingTermKey, filters.Term),
		zap.String(constvars.LoggingDoctorKey, filters.Doctor),
		zap.Bool(constvars.LoggingShowInactiveKey, filters.ShowInactive),
	)

	if utils.GetSession(r.Context()) == nil {
		utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.ReadOnlyDirectoryMessage, responses.PatientList{
			Patients: []responses.PatientRow{},
		})
		return
	}

	records, err := ctrl.PatientUsecase.Search(r.Context(), filters)
	if err != nil {
		respondError(ctrl.Log, w, requestID, "PatientController.Search", err)
		return
	}

	ctrl.Log.Info("PatientController.Search succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Int(constvars.LoggingCountKey, len(records)),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.PatientSearchSuccess, responses.PatientList{
		Count:    len(records),
		Patients: utils.BuildPatientRows(records),
	})
}

func (ctrl *PatientController) Export(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFrom(ctrl.Log, w, r, "PatientController.Export")
	if !ok {
		return
	}

	workbook, err := ctrl.PatientUsecase.Export(r.Context(), utils.BuildDirectoryFiltersRequest(r))
	if err != nil {
		respondError(ctrl.Log, w, requestID, "PatientController.Export", err)
		return
	}

	utils.BuildFileResponse(w, constvars.MIMEApplicationXLSX, utils.GenerateExportFileName(time.Now()), workbook)
}

func (ctrl *PatientController) Get(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFrom(ctrl.Log, w, r, "PatientController.Get")
	if !ok {
		return
	}
	patientID, err := patientIDParam(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	patient, err := ctrl.PatientUsecase.Get(r.Context(), patientID)
	if err != nil {
		respondError(ctrl.Log, w, requestID, "PatientController.Get", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.PatientGetSuccess, utils.BuildPatientResponse(*patient, time.Now()))
}

func (ctrl *PatientController) History(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFrom(ctrl.Log, w, r, "PatientController.History")
	if !ok {
		return
	}
	patientID, err := patientIDParam(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	appointments, err := ctrl.PatientUsecase.History(r.Context(), patientID)
	if err != nil {
		respondError(ctrl.Log, w, requestID, "PatientController.History", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.AppointmentHistorySuccess, utils.BuildAppointmentResponses(appointments))
}

func (ctrl *PatientController) Create(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFrom(ctrl.Log, w, r, "PatientController.Create")
	if !ok {
		return
	}

	form := new(requests.PatientForm)
	if err := decodeJSON(r, form); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	ctrl.save(w, r, requestID, "PatientController.Create", constvars.StatusCreated, &requests.CollectedPatient{Form: *form})
}

// Update merges the supplied fields into the stored record. Fields left out
// of the body keep their stored value.
func (ctrl *PatientController) Update(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFrom(ctrl.Log, w, r, "PatientController.Update")
	if !ok {
		return
	}
	patientID, err := patientIDParam(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	patch := new(requests.PatientFormPatch)
	if err := decodeJSON(r, patch); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	existing, err := ctrl.PatientUsecase.Get(r.Context(), patientID)
	if err != nil {
		respondError(ctrl.Log, w, requestID, "PatientController.Update", err)
		return
	}
	form := patients.FormFromRecord(existing)
	patch.ApplyTo(&form)

	ctrl.save(w, r, requestID, "PatientController.Update", constvars.StatusOK, &requests.CollectedPatient{
		PatientID: patientID,
		Form:      form,
		Supplied:  patch,
	})
}

func (ctrl *PatientController) save(w http.ResponseWriter, r *http.Request, requestID, operation string, status int, collected *requests.CollectedPatient) {
	utils.SanitizePatientForm(&collected.Form)
	if err := utils.ValidateStruct(collected.Form); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(utils.ToValidationError(err)))
		return
	}
	collected.FullName = models.JoinFullName(collected.Form.GivenNames, collected.Form.FamilyNames)
	collected.Age = utils.CalculateAgeAt(collected.Form.BirthDate, time.Now())

	patient, err := ctrl.PatientUsecase.Save(r.Context(), collected)
	if err != nil {
		respondError(ctrl.Log, w, requestID, operation, err)
		return
	}

	ctrl.Log.Info(operation+" succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, patient.ID),
	)
	utils.BuildSuccessResponse(w, status, constvars.PatientSavedSuccess, utils.BuildPatientResponse(*patient, time.Now()))
}

func (ctrl *PatientController) Deactivate(w http.ResponseWriter, r *http.Request) {
	ctrl.setActive(w, r, false)
}

func (ctrl *PatientController) Reactivate(w http.ResponseWriter, r *http.Request) {
	ctrl.setActive(w, r, true)
}

func (ctrl *PatientController) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	requestID, ok := requestIDFrom(ctrl.Log, w, r, "PatientController.SetActive")
	if !ok {
		return
	}
	patientID, err := patientIDParam(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	isConfirmed, err := confirmed(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	patient, err := ctrl.PatientUsecase.SetActive(r.Context(), patientID, active, isConfirmed)
	if err != nil {
		respondError(ctrl.Log, w, requestID, "PatientController.SetActive", err)
		return
	}

	message := constvars.PatientDeactivatedSuccess
	if active {
		message = constvars.PatientReactivatedSuccess
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, message, utils.BuildPatientResponse(*patient, time.Now()))
}

func (ctrl *PatientController) Delete(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFrom(ctrl.Log, w, r, "PatientController.Delete")
	if !ok {
		return
	}
	patientID, err := patientIDParam(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	if err := ctrl.PatientUsecase.Remove(r.Context(), patientID, utils.IsConfirmed(r)); err != nil {
		respondError(ctrl.Log, w, requestID, "PatientController.Delete", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.PatientRemovedSuccess, nil)
}

func (ctrl *PatientController) UploadPhoto(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFrom(ctrl.Log, w, r, "PatientController.UploadPhoto")
	if !ok {
		return
	}
	patientID, err := patientIDParam(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	maxSize := ctrl.InternalConfig.PhotoMaxUploadSize()
	if err := r.ParseMultipartForm(maxSize); err != nil {
		var maxBytesErr *http.MaxBytesError
		if errors.As(err, &maxBytesErr) {
			utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrImageTooLarge(err))
			return
		}
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseMultipartForm(err))
		return
	}
	file, header, err := r.FormFile(constvars.FormFieldPhoto)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseMultipartForm(err))
		return
	}
	defer file.Close()

	// one byte past the limit is enough to reject oversize uploads
	data, err := io.ReadAll(io.LimitReader(file, maxSize+1))
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrCannotParseMultipartForm(err))
		return
	}

	patient, err := ctrl.PatientUsecase.AttachPhoto(r.Context(), &requests.PhotoUpload{
		PatientID:   patientID,
		FileName:    header.Filename,
		ContentType: header.Header.Get(constvars.HeaderContentType),
		Data:        data,
	})
	if err != nil {
		respondError(ctrl.Log, w, requestID, "PatientController.UploadPhoto", err)
		return
	}

	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.PatientPhotoSuccess, responses.PhotoUploaded{
		PatientID: patient.ID,
		PhotoURL:  patient.PhotoURL,
	})
}
