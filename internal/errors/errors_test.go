package errors

import (
	stdErrors "errors"
	"fmt"
	"testing"
)

func TestNewAPIRejectedErrorClassifies(t *testing.T) {
	tests := []struct {
		message string
		want    Kind
	}{
		{"Invalid API key!", KindInvalidCredential},
		{"No API key provided.", KindInvalidCredential},
		{"Request limit reached!", KindRequestLimit},
		{"Movie not found!", KindNotFound},
		{"Incorrect IMDb ID.", KindNotFound},
		{"Too many results.", KindAPIRejected},
		{"", KindAPIRejected},
	}

	for _, tt := range tests {
		t.Run(tt.message, func(t *testing.T) {
			err := NewAPIRejectedError(tt.message)
			if err.Kind != tt.want {
				t.Fatalf("Kind = %v, want %v", err.Kind, tt.want)
			}
			if !IsAPIRejected(err) {
				t.Fatalf("IsAPIRejected returned false for %q", tt.message)
			}
		})
	}
}

func TestGatewayErrorHelpersSeeThroughWrapping(t *testing.T) {
	err := fmt.Errorf("search: %w", NewAPIRejectedError("Invalid API key!"))

	if !IsInvalidCredential(err) {
		t.Fatalf("IsInvalidCredential returned false for wrapped error")
	}
	if !IsCredentialScoped(err) {
		t.Fatalf("IsCredentialScoped returned false for invalid key")
	}
	if IsNotFound(err) || IsTransport(err) || IsHTTPError(err) {
		t.Fatalf("unexpected kind match for %v", err)
	}
}

func TestRateLimitError(t *testing.T) {
	err := NewRateLimitError("Request limit reached!")

	if !IsRateLimitError(err) {
		t.Fatalf("IsRateLimitError returned false for RateLimitError")
	}
	if !IsCredentialScoped(stdErrors.Join(err)) {
		t.Fatalf("IsCredentialScoped returned false for joined rate limit error")
	}
}

func TestGatewayErrorMessages(t *testing.T) {
	tests := []struct {
		name string
		err  error
		want string
	}{
		{"http with body", NewHTTPError(502, " bad gateway \n"), "omdb: unexpected status 502: bad gateway"},
		{"http without body", NewHTTPError(500, ""), "omdb: unexpected status 500"},
		{"transport", NewTransportError(stdErrors.New("dial tcp: refused")), "omdb: transport failure: dial tcp: refused"},
		{"rejected", NewAPIRejectedError("Movie not found!"), "omdb: not_found: Movie not found!"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if got := tt.err.Error(); got != tt.want {
				t.Fatalf("Error() = %q, want %q", got, tt.want)
			}
		})
	}
}

func TestTransportErrorUnwraps(t *testing.T) {
	cause := stdErrors.New("connection reset by peer")
	err := NewTransportError(cause)

	if !stdErrors.Is(err, cause) {
		t.Fatalf("errors.Is did not find the transport cause")
	}
	if !IsTransport(err) {
		t.Fatalf("IsTransport returned false")
	}
}

func TestAllSourcesExhaustedError(t *testing.T) {
	last := NewAPIRejectedError("Invalid API key!")
	err := NewAllSourcesExhaustedError(5, last)

	if !IsAllSourcesExhausted(fmt.Errorf("search: %w", err)) {
		t.Fatalf("IsAllSourcesExhausted returned false for wrapped error")
	}
	if !IsInvalidCredential(err) {
		t.Fatalf("exhausted error should unwrap to its last failure")
	}

	expected := "all sources exhausted after 5 attempts: omdb: invalid_credential: Invalid API key!"
	if err.Error() != expected {
		t.Fatalf("Error message = %q, want %q", err.Error(), expected)
	}

	empty := NewAllSourcesExhaustedError(0, nil)
	if empty.Error() != "all sources exhausted after 0 attempts" {
		t.Fatalf("Error message = %q", empty.Error())
	}
}
