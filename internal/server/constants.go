package server

// HTTP error messages for middleware responses
const (
	ErrMsgTooManyRequests = "Too Many Requests"
)

// Security alert message templates
const (
	SecurityAlertFailedAuth = "⚠️ SECURITY ALERT: Multiple failed session validations"
	SecurityAlertHighRate   = "⚠️ SECURITY ALERT: Blocking high request rate"
)

// Log messages for server lifecycle and request handling
const (
	LogMsgServerStarting   = "Server starting"
	LogMsgRequestStarted   = "Request started"
	LogMsgRequestCompleted = "Request completed"
	LogMsgRequestHeaders   = "Request headers"
	LogMsgAuthFailed       = "Session validation failed"
)

// HTTP header names
const (
	HeaderAuthorization  = "Authorization"
	HeaderCookie         = "Cookie"
	HeaderForwardedFor   = "X-Forwarded-For"
	HeaderContentType    = "X-Content-Type-Options"
	HeaderFrameOptions   = "X-Frame-Options"
	HeaderXSSProtection  = "X-XSS-Protection"
	HeaderReferrerPolicy = "Referrer-Policy"
)

// Security header values
const (
	HeaderValueNoSniff              = "nosniff"
	HeaderValueSameOrigin           = "SAMEORIGIN"
	HeaderValueXSSBlock             = "1; mode=block"
	HeaderValueReferrerStrictOrigin = "strict-origin-when-cross-origin"
)

// Header redaction marker
const (
	RedactedValue = "[REDACTED]"
)

// MaxRequestBodyBytes caps request bodies. Batch profile generation for a
// full bag export stays well under this.
const MaxRequestBodyBytes = 1 << 20
