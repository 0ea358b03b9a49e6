package extraction

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strings"
)

// Kind is the closed set of failure categories every adapter normalizes to.
type Kind string

const (
	KindConfiguration  Kind = "configuration"
	KindAuthentication Kind = "authentication"
	KindRateLimit      Kind = "rate_limit"
	KindService        Kind = "service"
	KindParse          Kind = "parse"
	KindValidation     Kind = "validation"
	KindUnknown        Kind = "unknown"
)

// Error is the typed failure returned by adapters and the braindump service.
type Error struct {
	Kind    Kind
	Backend Backend
	Status  int // wire status code when the backend answered, else 0
	Message string
	Err     error
}

func (e *Error) Error() string {
	var b strings.Builder
	b.WriteString(string(e.Kind))
	if e.Backend != "" {
		b.WriteString(" (")
		b.WriteString(string(e.Backend))
		b.WriteString(")")
	}
	b.WriteString(": ")
	b.WriteString(e.Message)
	if e.Err != nil {
		b.WriteString(": ")
		b.WriteString(e.Err.Error())
	}
	return b.String()
}

func (e *Error) Unwrap() error {
	return e.Err
}

// NewConfigurationError reports a user-correctable setup problem.
func NewConfigurationError(backend Backend, msg string) *Error {
	return &Error{Kind: KindConfiguration, Backend: backend, Message: msg}
}

// NewAuthenticationError reports a rejected credential.
func NewAuthenticationError(backend Backend, status int, msg string) *Error {
	return &Error{Kind: KindAuthentication, Backend: backend, Status: status, Message: msg}
}

// NewRateLimitError reports backend throttling.
func NewRateLimitError(backend Backend, msg string) *Error {
	return &Error{Kind: KindRateLimit, Backend: backend, Status: http.StatusTooManyRequests, Message: msg}
}

// NewServiceError reports a transient backend-side failure.
func NewServiceError(backend Backend, status int, msg string) *Error {
	return &Error{Kind: KindService, Backend: backend, Status: status, Message: msg}
}

// NewParseError reports a reply without a decodable payload.
func NewParseError(backend Backend, msg string, err error) *Error {
	return &Error{Kind: KindParse, Backend: backend, Message: msg, Err: err}
}

// NewUnknownError wraps any other failure, keeping the original message.
func NewUnknownError(backend Backend, err error) *Error {
	msg := "backend request failed"
	return &Error{Kind: KindUnknown, Backend: backend, Message: msg, Err: err}
}

// ValidationError lists every schema violation found in a decoded payload.
type ValidationError struct {
	Backend  Backend
	Problems []string
}

func (e *ValidationError) Error() string {
	return fmt.Sprintf("validation: response does not match extraction schema: %s", strings.Join(e.Problems, "; "))
}

// Unwrap exposes the validation failure as an *Error so KindOf and
// errors.As(*Error) treat both uniformly.
func (e *ValidationError) Unwrap() error {
	return &Error{Kind: KindValidation, Backend: e.Backend, Message: strings.Join(e.Problems, "; ")}
}

// KindOf returns the Kind of err, KindUnknown for foreign errors, or "" for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var e *Error
	if errors.As(err, &e) {
		return e.Kind
	}
	return KindUnknown
}

// IsKind reports whether err carries the given kind.
func IsKind(err error, kind Kind) bool {
	return KindOf(err) == kind
}

// Normalize guarantees err is part of the closed taxonomy.
func Normalize(backend Backend, err error) error {
	if err == nil {
		return nil
	}
	var e *Error
	if errors.As(err, &e) {
		return err
	}
	return NewUnknownError(backend, err)
}

// errorForStatus maps a non-2xx HTTP answer to the taxonomy.
// msg is the backend's own error text, preserved for diagnostics.
func errorForStatus(backend Backend, status int, msg string) *Error {
	if msg == "" {
		msg = http.StatusText(status)
	}
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return NewAuthenticationError(backend, status, msg)
	case status == http.StatusTooManyRequests:
		return NewRateLimitError(backend, msg)
	case status >= 500:
		return NewServiceError(backend, status, msg)
	}
	return &Error{Kind: KindUnknown, Backend: backend, Status: status, Message: fmt.Sprintf("API error (%d): %s", status, msg)}
}

// transportError wraps a failed round trip. Cancellation stays detectable
// through errors.Is(err, context.Canceled).
func transportError(ctx context.Context, backend Backend, err error) *Error {
	if ctxErr := ctx.Err(); ctxErr != nil {
		return &Error{Kind: KindUnknown, Backend: backend, Message: "request abandoned", Err: ctxErr}
	}
	return &Error{Kind: KindUnknown, Backend: backend, Message: "API request failed", Err: err}
}
