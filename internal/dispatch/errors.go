package dispatch

import "fmt"

type ErrorKind string

const (
	KindEmptyTarget               ErrorKind = "empty_target"
	KindInvalidAddress            ErrorKind = "invalid_address"
	KindSenderNotAllowed          ErrorKind = "sender_not_allowed"
	KindUnsupportedMediaReference ErrorKind = "unsupported_media_reference"
	KindMissingExternalURL        ErrorKind = "missing_external_url"
)

// ValidationError means the input itself is malformed or empty. It is
// detected before any provider call and always aborts the whole dispatch.
type ValidationError struct {
	Kind  ErrorKind
	Value string
}

func (e *ValidationError) Error() string {
	switch e.Kind {
	case KindEmptyTarget:
		return "no target recipients given"
	case KindInvalidAddress:
		return fmt.Sprintf("invalid phone number %q: expected E.164 format (+ followed by up to 15 digits)", e.Value)
	case KindSenderNotAllowed:
		return fmt.Sprintf("from number %q is not in the configured sender pool", e.Value)
	case KindUnsupportedMediaReference:
		return fmt.Sprintf("media reference %q is neither an absolute URL nor a recognized local path", e.Value)
	default:
		return fmt.Sprintf("validation failed (%s) for %q", e.Kind, e.Value)
	}
}

// ConfigurationError means the dispatch cannot proceed because the gateway
// is missing configuration. Like validation errors, it aborts pre-flight.
type ConfigurationError struct {
	Kind ErrorKind
}

func (e *ConfigurationError) Error() string {
	if e.Kind == KindMissingExternalURL {
		return "local media referenced but no external base URL is configured"
	}
	return fmt.Sprintf("configuration error: %s", e.Kind)
}
