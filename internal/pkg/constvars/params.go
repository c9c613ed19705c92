package constvars

const (
	URLParamPatientID = "patient_id"
)

const (
	URLQueryParamTerm         = "term"
	URLQueryParamDoctor       = "doctor"
	URLQueryParamShowInactive = "show_inactive"
	URLQueryParamConfirm      = "confirm"
)

const (
	FormFieldPhoto = "photo"
)

// DoctorFilterAll disables the doctor filter.
const DoctorFilterAll = "all"
