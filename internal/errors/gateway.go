// Package errors defines the error taxonomy shared by the OMDb gateway,
// the credential selector and the application core.
package errors

import (
	stdErrors "errors"
	"fmt"
	"strings"
)

// Kind classifies a gateway failure.
type Kind int

const (
	// KindTransport means no response was received.
	KindTransport Kind = iota
	// KindHTTP means the server answered with a non-2xx status.
	KindHTTP
	// KindAPIRejected is a generic rejection: the API answered Response=False.
	KindAPIRejected
	// KindInvalidCredential is a rejection caused by the API key.
	KindInvalidCredential
	// KindRequestLimit is a rejection caused by the per-key daily quota.
	KindRequestLimit
	// KindNotFound is a rejection meaning the title or ID does not exist.
	KindNotFound
)

func (k Kind) String() string {
	switch k {
	case KindTransport:
		return "transport"
	case KindHTTP:
		return "http"
	case KindAPIRejected:
		return "api_rejected"
	case KindInvalidCredential:
		return "invalid_credential"
	case KindRequestLimit:
		return "request_limit"
	case KindNotFound:
		return "not_found"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// GatewayError is returned by every OMDb gateway operation.
type GatewayError struct {
	Kind       Kind
	StatusCode int    // set for KindHTTP
	Message    string // API error message or transport description
	Err        error
}

func (e *GatewayError) Error() string {
	switch e.Kind {
	case KindHTTP:
		if e.Message != "" {
			return fmt.Sprintf("omdb: unexpected status %d: %s", e.StatusCode, e.Message)
		}
		return fmt.Sprintf("omdb: unexpected status %d", e.StatusCode)
	case KindTransport:
		if e.Err != nil {
			return fmt.Sprintf("omdb: transport failure: %v", e.Err)
		}
		return "omdb: transport failure: " + e.Message
	default:
		return fmt.Sprintf("omdb: %s: %s", e.Kind, e.Message)
	}
}

func (e *GatewayError) Unwrap() error {
	return e.Err
}

// NewTransportError wraps a failure that prevented any response from arriving.
func NewTransportError(err error) *GatewayError {
	return &GatewayError{Kind: KindTransport, Err: err}
}

// NewHTTPError creates an error for a non-2xx response.
func NewHTTPError(statusCode int, body string) *GatewayError {
	return &GatewayError{Kind: KindHTTP, StatusCode: statusCode, Message: strings.TrimSpace(body)}
}

// NewAPIRejectedError classifies the Error string of a Response=False payload.
func NewAPIRejectedError(message string) *GatewayError {
	return &GatewayError{Kind: classifyRejection(message), Message: message}
}

// NewMalformedResponseError reports a payload that could not be decoded.
func NewMalformedResponseError(err error) *GatewayError {
	return &GatewayError{Kind: KindAPIRejected, Message: "malformed response", Err: err}
}

func classifyRejection(message string) Kind {
	lower := strings.ToLower(message)
	switch {
	case strings.Contains(lower, "invalid api key"), strings.Contains(lower, "no api key provided"):
		return KindInvalidCredential
	case strings.Contains(lower, "request limit reached"):
		return KindRequestLimit
	case strings.Contains(lower, "not found"), strings.Contains(lower, "incorrect imdb id"):
		return KindNotFound
	default:
		return KindAPIRejected
	}
}

// KindOf returns the Kind of a wrapped GatewayError.
func KindOf(err error) (Kind, bool) {
	var gwErr *GatewayError
	if stdErrors.As(err, &gwErr) {
		return gwErr.Kind, true
	}
	return 0, false
}

func isKind(err error, kinds ...Kind) bool {
	k, ok := KindOf(err)
	if !ok {
		return false
	}
	for _, want := range kinds {
		if k == want {
			return true
		}
	}
	return false
}

// IsTransport reports whether err is a transport failure.
func IsTransport(err error) bool { return isKind(err, KindTransport) }

// IsHTTPError reports whether err is a non-2xx response.
func IsHTTPError(err error) bool { return isKind(err, KindHTTP) }

// IsAPIRejected reports whether the API answered Response=False, whatever the reason.
func IsAPIRejected(err error) bool {
	return isKind(err, KindAPIRejected, KindInvalidCredential, KindRequestLimit, KindNotFound)
}

// IsInvalidCredential reports whether the API rejected the key.
func IsInvalidCredential(err error) bool { return isKind(err, KindInvalidCredential) }

// IsNotFound reports whether the API found no match.
func IsNotFound(err error) bool { return isKind(err, KindNotFound) }

// IsCredentialScoped reports whether another key could succeed where this one failed.
func IsCredentialScoped(err error) bool {
	return isKind(err, KindInvalidCredential, KindRequestLimit)
}
