package provider

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
)

// ErrorKind classifies a failed provider call.
type ErrorKind string

const (
	KindAuth      ErrorKind = "auth"
	KindTransient ErrorKind = "transient"
	KindProvider  ErrorKind = "provider"
	KindConfig    ErrorKind = "config"
)

// Retryable reports whether a call failing with k may be retried.
func (k ErrorKind) Retryable() bool {
	return k == KindTransient
}

// Sentinels matched by errors.Is against any *Error of the same kind.
var (
	ErrAuth      = errors.New("credential rejected")
	ErrTransient = errors.New("transient provider failure")
	ErrProvider  = errors.New("provider error")
	ErrConfig    = errors.New("sync configuration error")
)

// Error is a classified provider or configuration failure.
type Error struct {
	Kind       ErrorKind
	Provider   string
	StatusCode int
	Message    string
	Err        error
}

func (e *Error) Error() string {
	if e == nil {
		return ""
	}
	msg := e.Message
	if msg == "" && e.Err != nil {
		msg = e.Err.Error()
	}
	prefix := string(e.Kind) + " error"
	if e.Provider != "" {
		prefix = e.Provider + ": " + prefix
	}
	if e.StatusCode != 0 {
		return fmt.Sprintf("%s (http %d): %s", prefix, e.StatusCode, msg)
	}
	return fmt.Sprintf("%s: %s", prefix, msg)
}

func (e *Error) Unwrap() error { return e.Err }

func (e *Error) Is(target error) bool {
	switch e.Kind {
	case KindAuth:
		return target == ErrAuth
	case KindTransient:
		return target == ErrTransient
	case KindProvider:
		return target == ErrProvider
	case KindConfig:
		return target == ErrConfig
	}
	return false
}

// AuthError reports that the provider rejected the credential.
func AuthError(providerTag string, status int, msg string) *Error {
	return &Error{Kind: KindAuth, Provider: providerTag, StatusCode: status, Message: msg}
}

// TransientError reports a network failure, timeout or server-side error.
func TransientError(providerTag string, err error) *Error {
	return &Error{Kind: KindTransient, Provider: providerTag, Err: err}
}

// ProviderError reports any other unexpected provider response.
func ProviderError(providerTag string, status int, msg string) *Error {
	return &Error{Kind: KindProvider, Provider: providerTag, StatusCode: status, Message: msg}
}

// ConfigError reports an unusable sync configuration.
func ConfigError(format string, args ...any) *Error {
	return &Error{Kind: KindConfig, Message: fmt.Sprintf(format, args...)}
}

// StatusError classifies a non-2xx HTTP status.
func StatusError(providerTag string, status int, msg string) *Error {
	switch {
	case status == http.StatusUnauthorized || status == http.StatusForbidden:
		return AuthError(providerTag, status, msg)
	case status == http.StatusRequestTimeout || status == http.StatusTooManyRequests || status >= 500:
		return &Error{Kind: KindTransient, Provider: providerTag, StatusCode: status, Message: msg}
	default:
		return ProviderError(providerTag, status, msg)
	}
}

// Classify returns the kind of err. Unclassified errors are transient when
// they come from the network or a context deadline, and provider errors otherwise.
func Classify(err error) ErrorKind {
	if err == nil {
		return ""
	}
	var perr *Error
	if errors.As(err, &perr) {
		return perr.Kind
	}
	if errors.Is(err, context.DeadlineExceeded) || errors.Is(err, context.Canceled) {
		return KindTransient
	}
	var netErr net.Error
	if errors.As(err, &netErr) {
		return KindTransient
	}
	return KindProvider
}

// Wrap returns err as an *Error tagged with providerTag, classifying it if needed.
func Wrap(providerTag string, err error) error {
	if err == nil {
		return nil
	}
	var perr *Error
	if errors.As(err, &perr) {
		return err
	}
	return &Error{Kind: Classify(err), Provider: providerTag, Err: err}
}
