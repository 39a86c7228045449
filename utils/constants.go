// File: utils/constants.go
package utils

// Gin context keys shared by middleware and handlers.
const (
	LoggerKey    = "logger"
	RequestIDKey = "requestID"
)

// RequestIDHeader is echoed back on every response.
const RequestIDHeader = "X-Request-ID"

// XMLContentType is what Twilio expects TwiML to be served as.
const XMLContentType = "application/xml"
