package orchestrator

import (
	"errors"
	"time"

	"lifesync/internal/model"
	"lifesync/internal/provider"
)

// ErrNotFound is returned by snapshot updates for an unknown id.
var ErrNotFound = errors.New("entity not found")

// Failure records one isolated (source, kind) call that did not succeed.
type Failure struct {
	Source   string
	Kind     model.Kind
	ErrKind  provider.ErrorKind
	Err      error
	Attempts int
}

// CallRef names one (source, kind) call.
type CallRef struct {
	Source string
	Kind   model.Kind
}

// Result is an immutable snapshot of one sync. Consumers apply user
// actions with MarkReplied and ToggleTask, which return a new Result.
type Result struct {
	RunID    string
	SyncedAt time.Time

	Messages []model.Message
	Tasks    []model.Task
	Events   []model.Event

	// Failures is ordered by source configuration order, then kind.
	Failures []Failure

	// Cached lists calls answered from the result cache.
	Cached []CallRef

	// Calls is the number of (source, kind) calls planned.
	Calls int

	// KindCalls splits Calls by kind.
	KindCalls map[model.Kind]int
}

// ForKind narrows the sync outcome to one kind: failures, cache hits and
// the call count of other kinds are dropped. Collections are shared.
func (r *Result) ForKind(kind model.Kind) *Result {
	next := r.clone()
	next.Calls = r.KindCalls[kind]
	next.Failures = nil
	for _, f := range r.Failures {
		if f.Kind == kind {
			next.Failures = append(next.Failures, f)
		}
	}
	next.Cached = nil
	for _, c := range r.Cached {
		if c.Kind == kind {
			next.Cached = append(next.Cached, c)
		}
	}
	return next
}

// Failure looks up the failure recorded for source and kind.
func (r *Result) Failure(source string, kind model.Kind) (Failure, bool) {
	for _, f := range r.Failures {
		if f.Source == source && f.Kind == kind {
			return f, true
		}
	}
	return Failure{}, false
}

// Partial reports whether some, but not all, calls failed.
func (r *Result) Partial() bool {
	return len(r.Failures) > 0 && len(r.Failures) < r.Calls
}

// AllFailed reports whether every planned call failed.
func (r *Result) AllFailed() bool {
	return r.Calls > 0 && len(r.Failures) == r.Calls
}

// MarkReplied returns a new snapshot with message id marked replied.
func (r *Result) MarkReplied(id string) (*Result, error) {
	for i, m := range r.Messages {
		if m.ID != id {
			continue
		}
		next := r.clone()
		next.Messages = append([]model.Message(nil), r.Messages...)
		m.Replied = true
		next.Messages[i] = m
		return next, nil
	}
	return nil, ErrNotFound
}

// ToggleTask returns a new snapshot with task id's completed flag flipped.
func (r *Result) ToggleTask(id string) (*Result, error) {
	for i, t := range r.Tasks {
		if t.ID != id {
			continue
		}
		next := r.clone()
		next.Tasks = append([]model.Task(nil), r.Tasks...)
		t.Completed = !t.Completed
		next.Tasks[i] = t
		return next, nil
	}
	return nil, ErrNotFound
}

// clone copies the header; collections stay shared until replaced.
func (r *Result) clone() *Result {
	next := *r
	return &next
}
