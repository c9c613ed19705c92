package constvars

type ContextKey string

const (
	CONTEXT_REQUEST_ID_KEY           ContextKey = "request_id"
	CONTEXT_IS_CLIENT_REQUEST_ID_KEY ContextKey = "is_client_request_id"
	CONTEXT_SESSION_KEY              ContextKey = "session"
)

const (
	REQUEST_ID_PREFIX = "PTDIR_SVC_"
)

const (
	MongoCollectionPatients     = "patients"
	MongoCollectionAppointments = "appointments"
	FirestoreCollectionPatients = "patients"
)

const (
	StoreDriverMongoDB   = "mongodb"
	StoreDriverFirestore = "firestore"
	StoreDriverMemory    = "memory"
)

const (
	AppointmentSourceMongoDB = "mongodb"
	AppointmentSourceHTTP    = "http"
	AppointmentMatchByName   = "name"
	AppointmentMatchByID     = "id"
)

const (
	RedisSessionKeyFormat  = "session:%s"
	RedisPatientLockFormat = "patients:lock:%s"
)

const (
	DirectoryEventsExchange = "patients.directory"
	EventPatientSaved       = "patient.saved"
	EventPatientActivated   = "patient.activated"
	EventPatientDeactivated = "patient.deactivated"
	EventPatientRemoved     = "patient.removed"
	EventPatientPhoto       = "patient.photo_attached"
)

const (
	EnvironmentDevelopment = "development"
	EnvironmentProduction  = "production"
)

const (
	DateLayout      = "2006-01-02"
	TimestampLayout = "2006-01-02T15:04:05.000Z07:00"
)

type FormMode string

const (
	FormModeCreate FormMode = "create"
	FormModeEdit   FormMode = "edit"
)
