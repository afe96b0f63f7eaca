package completion

import (
	"fmt"

	"github.com/pkg/errors"
)

// Kind classifies a completion failure.
type Kind string

const (
	// KindNetwork covers transport and connectivity failures, including
	// timeouts: the service could not be reached or did not answer in time.
	KindNetwork Kind = "network"
	// KindAuth covers missing or rejected credentials.
	KindAuth Kind = "auth"
	// KindRemote covers reachable services that returned an error payload.
	KindRemote Kind = "remote"
	// KindEmptyResponse covers replies that contained no usable content.
	KindEmptyResponse Kind = "empty-response"
)

func (k Kind) label() string {
	switch k {
	case KindNetwork:
		return "network error"
	case KindAuth:
		return "authentication error"
	case KindRemote:
		return "service error"
	case KindEmptyResponse:
		return "empty response"
	default:
		return "completion error"
	}
}

// ServiceError is the classified failure returned by completion clients.
type ServiceError struct {
	Kind    Kind
	Message string
	Cause   error
}

func (e *ServiceError) Error() string {
	switch {
	case e.Message != "" && e.Cause != nil:
		return fmt.Sprintf("%s: %s: %v", e.Kind.label(), e.Message, e.Cause)
	case e.Message != "":
		return fmt.Sprintf("%s: %s", e.Kind.label(), e.Message)
	case e.Cause != nil:
		return fmt.Sprintf("%s: %v", e.Kind.label(), e.Cause)
	default:
		return e.Kind.label()
	}
}

func (e *ServiceError) Unwrap() error {
	return e.Cause
}

func NewNetworkError(message string, cause error) *ServiceError {
	return &ServiceError{Kind: KindNetwork, Message: message, Cause: cause}
}

func NewAuthError(message string, cause error) *ServiceError {
	return &ServiceError{Kind: KindAuth, Message: message, Cause: cause}
}

func NewRemoteError(message string, cause error) *ServiceError {
	return &ServiceError{Kind: KindRemote, Message: message, Cause: cause}
}

func NewEmptyResponseError(message string) *ServiceError {
	return &ServiceError{Kind: KindEmptyResponse, Message: message}
}

// AsServiceError extracts a *ServiceError from an error chain.
func AsServiceError(err error) (*ServiceError, bool) {
	var serviceErr *ServiceError
	if errors.As(err, &serviceErr) {
		return serviceErr, true
	}
	return nil, false
}

// KindOf returns the classification of err, or the empty Kind when err carries
// no ServiceError.
func KindOf(err error) Kind {
	if serviceErr, ok := AsServiceError(err); ok {
		return serviceErr.Kind
	}
	return ""
}

func IsNetworkError(err error) bool {
	return KindOf(err) == KindNetwork
}

func IsAuthError(err error) bool {
	return KindOf(err) == KindAuth
}

func IsRemoteError(err error) bool {
	return KindOf(err) == KindRemote
}

func IsEmptyResponseError(err error) bool {
	return KindOf(err) == KindEmptyResponse
}
