package errors

// IsRateLimitError reports whether err is the per-key request quota rejection.
func IsRateLimitError(err error) bool {
	return isKind(err, KindRequestLimit)
}

// NewRateLimitError creates a request-limit rejection with the given message.
func NewRateLimitError(message string) *GatewayError {
	return &GatewayError{Kind: KindRequestLimit, Message: message}
}
