package testutil

import (
	"context"
	"sync"
	"time"

	"lifesync/internal/model"
	"lifesync/internal/provider"
)

// FakeAdapter is a configurable provider adapter for orchestrator tests.
// It implements every capability; wrap it with OnlyMessages, OnlyTasks or
// OnlyEvents to advertise a subset.
type FakeAdapter struct {
	TagName string

	Messages []model.Message
	Tasks    []model.Task
	Events   []model.Event

	// Errs[kind][n] is returned by the n-th call for kind. Calls past the
	// end of the slice, and nil entries, succeed.
	Errs map[model.Kind][]error

	// Delay is applied to every call before returning.
	Delay time.Duration

	// IgnoreContext makes the delay uninterruptible, like a client with
	// no deadline support.
	IgnoreContext bool

	// PanicWith, if non-nil, makes every call panic with this value.
	PanicWith any

	// NoCredential marks the adapter as working without a credential.
	NoCredential bool

	mu    sync.Mutex
	calls map[model.Kind]int
	creds []provider.Credential
}

// Calls returns how many times kind was fetched.
func (f *FakeAdapter) Calls(kind model.Kind) int {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.calls[kind]
}

// TotalCalls returns the number of fetches across all kinds.
func (f *FakeAdapter) TotalCalls() int {
	f.mu.Lock()
	defer f.mu.Unlock()
	n := 0
	for _, c := range f.calls {
		n += c
	}
	return n
}

// Credentials returns the credentials passed to each call, in call order.
func (f *FakeAdapter) Credentials() []provider.Credential {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]provider.Credential(nil), f.creds...)
}

func (f *FakeAdapter) Tag() string { return f.TagName }

func (f *FakeAdapter) CredentialOptional() bool { return f.NoCredential }

func (f *FakeAdapter) FetchMessages(ctx context.Context, cred provider.Credential) ([]model.Message, error) {
	if err := f.begin(ctx, model.KindMessages, cred); err != nil {
		return nil, err
	}
	return append([]model.Message(nil), f.Messages...), nil
}

func (f *FakeAdapter) FetchTasks(ctx context.Context, cred provider.Credential) ([]model.Task, error) {
	if err := f.begin(ctx, model.KindTasks, cred); err != nil {
		return nil, err
	}
	return append([]model.Task(nil), f.Tasks...), nil
}

func (f *FakeAdapter) FetchEvents(ctx context.Context, cred provider.Credential) ([]model.Event, error) {
	if err := f.begin(ctx, model.KindEvents, cred); err != nil {
		return nil, err
	}
	return append([]model.Event(nil), f.Events...), nil
}

// begin records the call, waits out Delay and returns the injected error.
func (f *FakeAdapter) begin(ctx context.Context, kind model.Kind, cred provider.Credential) error {
	f.mu.Lock()
	if f.calls == nil {
		f.calls = make(map[model.Kind]int)
	}
	n := f.calls[kind]
	f.calls[kind]++
	f.creds = append(f.creds, cred)
	var err error
	if errs := f.Errs[kind]; n < len(errs) {
		err = errs[n]
	}
	f.mu.Unlock()

	if f.PanicWith != nil {
		panic(f.PanicWith)
	}

	if f.Delay > 0 {
		if f.IgnoreContext {
			time.Sleep(f.Delay)
		} else {
			timer := time.NewTimer(f.Delay)
			defer timer.Stop()
			select {
			case <-ctx.Done():
				return ctx.Err()
			case <-timer.C:
			}
		}
	}
	return err
}

type messageSource struct{ f *FakeAdapter }

func (s messageSource) Tag() string              { return s.f.Tag() }
func (s messageSource) CredentialOptional() bool { return s.f.NoCredential }
func (s messageSource) FetchMessages(ctx context.Context, cred provider.Credential) ([]model.Message, error) {
	return s.f.FetchMessages(ctx, cred)
}

type taskSource struct{ f *FakeAdapter }

func (s taskSource) Tag() string              { return s.f.Tag() }
func (s taskSource) CredentialOptional() bool { return s.f.NoCredential }
func (s taskSource) FetchTasks(ctx context.Context, cred provider.Credential) ([]model.Task, error) {
	return s.f.FetchTasks(ctx, cred)
}

type eventSource struct{ f *FakeAdapter }

func (s eventSource) Tag() string              { return s.f.Tag() }
func (s eventSource) CredentialOptional() bool { return s.f.NoCredential }
func (s eventSource) FetchEvents(ctx context.Context, cred provider.Credential) ([]model.Event, error) {
	return s.f.FetchEvents(ctx, cred)
}

type tagOnly struct{ tag string }

func (s tagOnly) Tag() string { return s.tag }

// OnlyMessages exposes just the message capability of f.
func OnlyMessages(f *FakeAdapter) provider.Adapter { return messageSource{f} }

// OnlyTasks exposes just the task capability of f.
func OnlyTasks(f *FakeAdapter) provider.Adapter { return taskSource{f} }

// OnlyEvents exposes just the event capability of f.
func OnlyEvents(f *FakeAdapter) provider.Adapter { return eventSource{f} }

// NoCapabilities returns an adapter that supports no entity kind.
func NoCapabilities(tag string) provider.Adapter { return tagOnly{tag} }
