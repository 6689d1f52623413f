package log

const (
	// Request
	FieldRequestID = "request_id"
	FieldMethod    = "method"
	FieldPath      = "path"
	FieldStatus    = "status"
	FieldLatency   = "latency_ms"
	FieldClientIP  = "client_ip"

	// Actor (matches internal/middleware/auth.go keys)
	FieldUserID = "user_id"
	FieldEmail  = "email"
	FieldRole   = "role"

	// Messaging
	FieldSessionID      = "session_id"
	FieldReceiverID     = "receiver_id"
	FieldMessageID      = "message_id"
	FieldNotificationID = "notification_id"
	FieldEvent          = "event"

	// Service
	FieldService   = "service"
	FieldComponent = "component"

	// Log type (for audit log)
	FieldLogType = "log_type"
	LogTypeAudit = "audit"
)
