package middleware

// Context keys used to carry request metadata.
const (
	ContextKeyRequestID = "request_id"
)
