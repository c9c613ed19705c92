package constvars

const (
	LoggingRequestIDKey    = "request_id"
	LoggingMethodKey       = "method"
	LoggingEndpointKey     = "endpoint"
	LoggingRemoteAddrKey   = "remote_addr"
	LoggingUserAgentKey    = "user_agent"
	LoggingQueryKey        = "query"
	LoggingStatusCodeKey   = "status_code"
	LoggingDurationKey     = "duration"
	LoggingSuccessKey      = "success"
	LoggingOperationKey    = "operation"
	LoggingPatientIDKey    = "patient_id"
	LoggingSessionIDKey    = "session_id"
	LoggingUserIDKey       = "user_id"
	LoggingSequenceKey     = "sequence"
	LoggingTermKey         = "term"
	LoggingDoctorKey       = "doctor"
	LoggingShowInactiveKey = "show_inactive"
	LoggingCountKey        = "count"
	LoggingGenerationKey   = "generation"
	LoggingRedisKey        = "redis_key"
	LoggingLockValueKey    = "lock_value"
	LoggingEventTypeKey    = "event_type"
	LoggingBucketKey       = "bucket"
	LoggingObjectKey       = "object"
	LoggingStoreDriverKey  = "store_driver"
)
