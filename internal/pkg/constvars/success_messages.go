package constvars

const (
	ResponseUnknown = "unknown"

	PatientSearchSuccess      = "patients retrieved successfully"
	PatientGetSuccess         = "patient retrieved successfully"
	PatientSavedSuccess       = "patient saved successfully"
	PatientDeactivatedSuccess = "patient deactivated"
	PatientReactivatedSuccess = "patient reactivated"
	PatientRemovedSuccess     = "patient permanently deleted"
	PatientPhotoSuccess       = "patient photo uploaded"
	AppointmentHistorySuccess = "appointment history retrieved successfully"
	ReadOnlyDirectoryMessage  = "sign in to see patient records"

	WorkspaceViewSuccess    = "directory view retrieved"
	WorkspaceFilterAccepted = "filters accepted"
	WorkspaceFormSuccess    = "patient form updated"
	WorkspaceFormClosed     = "patient form closed"
	WorkspaceSignedOut      = "signed out"
)
