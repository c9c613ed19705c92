package controllers

import (
	"net/http"
	"patient-directory-service/internal/app/contracts"
	"patient-directory-service/internal/app/services/core/patients"
	"patient-directory-service/internal/pkg/constvars"
	"patient-directory-service/internal/pkg/dto/requests"
	"patient-directory-service/internal/pkg/dto/responses"
	"patient-directory-service/internal/pkg/exceptions"
	"patient-directory-service/internal/pkg/utils"

	"go.uber.org/zap"
)

// WorkspaceController drives the per-session directory screen: one
// DirectoryController per signed-in session, a shared read-only one
// otherwise.
type WorkspaceController struct {
	Log             *zap.Logger
	Workspaces      *patients.WorkspaceRegistry
	SessionProvider contracts.SessionProvider
}

func NewWorkspaceController(logger *zap.Logger, workspaces *patients.WorkspaceRegistry, sessionProvider contracts.SessionProvider) *WorkspaceController {
	return &WorkspaceController{
		Log:             logger,
		Workspaces:      workspaces,
		SessionProvider: sessionProvider,
	}
}

func (ctrl *WorkspaceController) workspace(r *http.Request) *patients.DirectoryController {
	return ctrl.Workspaces.Get(utils.GetSession(r.Context()))
}

func (ctrl *WorkspaceController) View(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFrom(ctrl.Log, w, r, "WorkspaceController.View")
	if !ok {
		return
	}

	view, err := ctrl.workspace(r).View(r.Context())
	if err != nil {
		respondError(ctrl.Log, w, requestID, "WorkspaceController.View", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.WorkspaceViewSuccess, view)
}

// SetFilters answers before the search runs; clients poll View and match
// the returned seq.
func (ctrl *WorkspaceController) SetFilters(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFrom(ctrl.Log, w, r, "WorkspaceController.SetFilters")
	if !ok {
		return
	}

	filters := requests.DirectoryFilters{}
	if err := decodeJSON(r, &filters); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.SanitizeDirectoryFilters(&filters)

	seq := ctrl.workspace(r).SetFilters(r.Context(), filters)
	ctrl.Log.Debug("WorkspaceController.SetFilters accepted",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.Uint64(constvars.LoggingSequenceKey, seq),
	)
	utils.BuildSuccessResponse(w, constvars.StatusAccepted, constvars.WorkspaceFilterAccepted, responses.FiltersAccepted{Seq: seq})
}

func (ctrl *WorkspaceController) FormState(w http.ResponseWriter, r *http.Request) {
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.WorkspaceFormSuccess, ctrl.workspace(r).FormState())
}

func (ctrl *WorkspaceController) OpenForm(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFrom(ctrl.Log, w, r, "WorkspaceController.OpenForm")
	if !ok {
		return
	}

	request := new(requests.OpenPatientForm)
	if err := decodeJSON(r, request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.SanitizeOpenPatientForm(request)
	if err := utils.ValidateStruct(request); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrInputValidation(utils.ToValidationError(err)))
		return
	}

	workspace := ctrl.workspace(r)
	if constvars.FormMode(request.Mode) == constvars.FormModeCreate {
		state, err := workspace.OpenCreate()
		if err != nil {
			respondError(ctrl.Log, w, requestID, "WorkspaceController.OpenForm", err)
			return
		}
		utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.WorkspaceFormSuccess, responses.OpenedForm{Form: state})
		return
	}

	if err := utils.ValidatePatientIDParam(request.PatientID); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrURLParamIDValidation(err, constvars.URLParamPatientID))
		return
	}
	opened, err := workspace.OpenEdit(r.Context(), request.PatientID)
	if err != nil {
		respondError(ctrl.Log, w, requestID, "WorkspaceController.OpenForm", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.WorkspaceFormSuccess, opened)
}

func (ctrl *WorkspaceController) EditForm(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFrom(ctrl.Log, w, r, "WorkspaceController.EditForm")
	if !ok {
		return
	}

	patch := requests.PatientFormPatch{}
	if err := decodeJSON(r, &patch); err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}
	utils.SanitizePatientFormPatch(&patch)

	state, err := ctrl.workspace(r).EditForm(patch)
	if err != nil {
		respondError(ctrl.Log, w, requestID, "WorkspaceController.EditForm", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.WorkspaceFormSuccess, state)
}

func (ctrl *WorkspaceController) Submit(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFrom(ctrl.Log, w, r, "WorkspaceController.Submit")
	if !ok {
		return
	}

	submitted, err := ctrl.workspace(r).Submit(r.Context())
	if err != nil {
		respondError(ctrl.Log, w, requestID, "WorkspaceController.Submit", err)
		return
	}

	ctrl.Log.Info("WorkspaceController.Submit succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingPatientIDKey, submitted.Patient.ID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.PatientSavedSuccess, submitted)
}

func (ctrl *WorkspaceController) CloseForm(w http.ResponseWriter, r *http.Request) {
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.WorkspaceFormClosed, ctrl.workspace(r).CloseForm())
}

func (ctrl *WorkspaceController) Deactivate(w http.ResponseWriter, r *http.Request) {
	ctrl.setActive(w, r, false)
}

func (ctrl *WorkspaceController) Reactivate(w http.ResponseWriter, r *http.Request) {
	ctrl.setActive(w, r, true)
}

func (ctrl *WorkspaceController) setActive(w http.ResponseWriter, r *http.Request, active bool) {
	requestID, ok := requestIDFrom(ctrl.Log, w, r, "WorkspaceController.SetActive")
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

	view, err := ctrl.workspace(r).SetActive(r.Context(), patientID, active, isConfirmed)
	if err != nil {
		respondError(ctrl.Log, w, requestID, "WorkspaceController.SetActive", err)
		return
	}

	message := constvars.PatientDeactivatedSuccess
	if active {
		message = constvars.PatientReactivatedSuccess
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, message, view)
}

func (ctrl *WorkspaceController) Delete(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFrom(ctrl.Log, w, r, "WorkspaceController.Delete")
	if !ok {
		return
	}
	patientID, err := patientIDParam(r)
	if err != nil {
		utils.BuildErrorResponse(ctrl.Log, w, err)
		return
	}

	view, err := ctrl.workspace(r).Remove(r.Context(), patientID, utils.IsConfirmed(r))
	if err != nil {
		respondError(ctrl.Log, w, requestID, "WorkspaceController.Delete", err)
		return
	}
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.PatientRemovedSuccess, view)
}

// SignOut revokes the caller's session and drops its workspace, pending
// form included.
func (ctrl *WorkspaceController) SignOut(w http.ResponseWriter, r *http.Request) {
	requestID, ok := requestIDFrom(ctrl.Log, w, r, "WorkspaceController.SignOut")
	if !ok {
		return
	}
	session := utils.GetSession(r.Context())
	if session == nil {
		utils.BuildErrorResponse(ctrl.Log, w, exceptions.ErrNoSession())
		return
	}

	if err := ctrl.SessionProvider.Revoke(r.Context(), session.SessionID); err != nil {
		respondError(ctrl.Log, w, requestID, "WorkspaceController.SignOut", err)
		return
	}
	ctrl.Workspaces.Forget(session.SessionID)

	ctrl.Log.Info("WorkspaceController.SignOut succeeded",
		zap.String(constvars.LoggingRequestIDKey, requestID),
		zap.String(constvars.LoggingSessionIDKey, session.SessionID),
	)
	utils.BuildSuccessResponse(w, constvars.StatusOK, constvars.WorkspaceSignedOut, nil)
}
