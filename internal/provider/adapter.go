// Package provider defines the adapter contract every external source implements.
package provider

import (
	"context"
	"strings"

	"lifesync/internal/model"
)

// Adapter is an external source. Capabilities are expressed by also
// implementing MessageFetcher, TaskFetcher and/or EventFetcher.
// Adapters hold no mutable state, so one instance may serve concurrent calls.
type Adapter interface {
	// Tag returns the provider type tag, e.g. "gmail".
	Tag() string
}

// MessageFetcher is implemented by adapters that produce messages.
type MessageFetcher interface {
	FetchMessages(ctx context.Context, cred Credential) ([]model.Message, error)
}

// TaskFetcher is implemented by adapters that produce tasks.
type TaskFetcher interface {
	FetchTasks(ctx context.Context, cred Credential) ([]model.Task, error)
}

// EventFetcher is implemented by adapters that produce calendar events.
type EventFetcher interface {
	FetchEvents(ctx context.Context, cred Credential) ([]model.Event, error)
}

// CredentialOptional is implemented by adapters that work without a credential.
type CredentialOptional interface {
	CredentialOptional() bool
}

// Kinds returns the entity kinds a supports, in merge order.
func Kinds(a Adapter) []model.Kind {
	var kinds []model.Kind
	if _, ok := a.(MessageFetcher); ok {
		kinds = append(kinds, model.KindMessages)
	}
	if _, ok := a.(TaskFetcher); ok {
		kinds = append(kinds, model.KindTasks)
	}
	if _, ok := a.(EventFetcher); ok {
		kinds = append(kinds, model.KindEvents)
	}
	return kinds
}

// NeedsCredential reports whether a requires a non-empty credential.
func NeedsCredential(a Adapter) bool {
	if o, ok := a.(CredentialOptional); ok {
		return !o.CredentialOptional()
	}
	return true
}

// Credential is the opaque auth material for one configured source.
// Adapters read only the fields their API needs.
type Credential struct {
	Token  string
	Domain string
	Params map[string]string
}

// IsZero reports whether c carries no auth material at all.
func (c Credential) IsZero() bool {
	return strings.TrimSpace(c.Token) == "" && strings.TrimSpace(c.Domain) == "" && len(c.Params) == 0
}

// Param returns a trimmed param value, or "" if absent.
func (c Credential) Param(key string) string {
	if c.Params == nil {
		return ""
	}
	return strings.TrimSpace(c.Params[key])
}
