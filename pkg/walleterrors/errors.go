package walleterrors

import (
	"errors"
	"fmt"
)

// Programming-invariant and configuration errors raised by the provider layer
// These are never produced by a wallet and must not be shown as user actions
var (
	ErrProviderNotSupported          = errors.New("provider not supported")
	ErrProviderWrapperMethodNotFound = errors.New("provider wrapper method not found")
	ErrProviderChainNotFound         = errors.New("provider chain not found")
	ErrProviderChainInvalid          = errors.New("provider chain invalid")
	ErrProviderUnconnected           = errors.New("provider unconnected")
	ErrProviderUserRejectedRequest   = errors.New("provider user rejected request")
)

// Sentinels matching a *ProviderError of the same kind through errors.Is
var (
	ErrUserRejected           error = kindError(KindUserRejected)
	ErrUnauthorized           error = kindError(KindUnauthorized)
	ErrUnsupportedMethod      error = kindError(KindUnsupportedMethod)
	ErrDisconnected           error = kindError(KindDisconnected)
	ErrChainDisconnected      error = kindError(KindChainDisconnected)
	ErrParseError             error = kindError(KindParseError)
	ErrInvalidRequest         error = kindError(KindInvalidRequest)
	ErrMethodNotFound         error = kindError(KindMethodNotFound)
	ErrInvalidParams          error = kindError(KindInvalidParams)
	ErrInternalError          error = kindError(KindInternalError)
	ErrInvalidInput           error = kindError(KindInvalidInput)
	ErrResourceNotFound       error = kindError(KindResourceNotFound)
	ErrResourceUnavailable    error = kindError(KindResourceUnavailable)
	ErrTransactionRejected    error = kindError(KindTransactionRejected)
	ErrMethodNotSupported     error = kindError(KindMethodNotSupported)
	ErrLimitExceeded          error = kindError(KindLimitExceeded)
	ErrRPCVersionNotSupported error = kindError(KindRPCVersionNotSupported)
)

type kindError Kind

func (k kindError) Error() string {
	return Kind(k).String()
}

// ProviderError is a wallet or RPC error classified into the closed Kind taxonomy
type ProviderError struct {
	Kind    Kind
	Code    int
	Message string // original message, kept for display
	Err     error
}

func (e *ProviderError) Error() string {
	if e.Message == "" {
		return fmt.Sprintf("provider error %d: %s", e.Code, e.Kind)
	}
	return fmt.Sprintf("provider error %d (%s): %s", e.Code, e.Kind, e.Message)
}

func (e *ProviderError) Unwrap() error {
	return e.Err
}

// Is matches the kind sentinels (ErrUserRejected, ...)
func (e *ProviderError) Is(target error) bool {
	k, ok := target.(kindError)
	return ok && Kind(k) == e.Kind
}

// CodedError is a plain coded error for wallet transports that do not use go-ethereum's rpc package
type CodedError struct {
	Code    int
	Message string
	Data    any
}

func (e *CodedError) Error() string {
	return e.Message
}

// ErrorCode implements rpc.Error
func (e *CodedError) ErrorCode() int {
	return e.Code
}

// ErrorData implements rpc.DataError
func (e *CodedError) ErrorData() any {
	return e.Data
}

// IsProgrammingError reports whether err signals a bug in the calling code rather than a wallet condition
func IsProgrammingError(err error) bool {
	return errors.Is(err, ErrProviderNotSupported) || errors.Is(err, ErrProviderWrapperMethodNotFound)
}

// IsConfigurationError reports whether err signals a gap in the chain configuration
func IsConfigurationError(err error) bool {
	return errors.Is(err, ErrProviderChainNotFound) || errors.Is(err, ErrProviderChainInvalid)
}
