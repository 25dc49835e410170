// Package orchestrator fans sync calls out to provider adapters and merges
// their results into one snapshot, tolerating individual provider failures.
package orchestrator

import (
	"context"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"golang.org/x/sync/errgroup"

	"lifesync/internal/logging"
	"lifesync/internal/model"
	"lifesync/internal/provider"
)

const (
	// DefaultPerCallTimeout bounds one attempt of one adapter call.
	DefaultPerCallTimeout = 10 * time.Second

	// DefaultMaxConcurrentAdapters is the fan-out limit.
	DefaultMaxConcurrentAdapters = 8

	// DefaultRetryBackoff is the fixed wait before retrying a transient failure.
	DefaultRetryBackoff = 250 * time.Millisecond
)

// Options tune a sync. Zero values take the defaults above.
type Options struct {
	PerCallTimeout time.Duration

	// MaxConcurrentAdapters limits in-flight adapter calls.
	// 1 runs every call sequentially, which is correct but slow.
	MaxConcurrentAdapters int

	RetryBackoff time.Duration

	// CacheTTL enables the result cache when positive.
	CacheTTL time.Duration

	// Now is the clock used for SyncedAt and cache expiry. Nil means time.Now.
	Now func() time.Time
}

// DefaultOptions returns the default tuning.
func DefaultOptions() Options {
	return Options{
		PerCallTimeout:        DefaultPerCallTimeout,
		MaxConcurrentAdapters: DefaultMaxConcurrentAdapters,
		RetryBackoff:          DefaultRetryBackoff,
	}
}

func (o Options) withDefaults() Options {
	if o.PerCallTimeout <= 0 {
		o.PerCallTimeout = DefaultPerCallTimeout
	}
	if o.MaxConcurrentAdapters <= 0 {
		o.MaxConcurrentAdapters = DefaultMaxConcurrentAdapters
	}
	if o.RetryBackoff < 0 {
		o.RetryBackoff = 0
	}
	if o.Now == nil {
		o.Now = time.Now
	}
	return o
}

// Source is one configured adapter together with its credential.
type Source struct {
	// Name is the provider tag used for id namespacing and failure reports.
	// Empty means Adapter.Tag().
	Name       string
	Adapter    provider.Adapter
	Credential provider.Credential
}

// Engine runs syncs. It is safe for concurrent use; the only state kept
// across calls is the optional result cache.
type Engine struct {
	opts   Options
	logger *logging.Logger
	cache  *resultCache
}

// New creates an engine. logger may be nil.
func New(opts Options, logger *logging.Logger) *Engine {
	opts = opts.withDefaults()
	e := &Engine{
		opts:   opts,
		logger: logging.OrNop(logger),
	}
	if opts.CacheTTL > 0 {
		e.cache = newResultCache(opts.CacheTTL, opts.Now)
	}
	return e
}

// Options returns the effective options.
func (e *Engine) Options() Options {
	return e.opts
}

// call is one (source, kind) unit of work.
type call struct {
	name    string
	kind    model.Kind
	adapter provider.Adapter
	cred    provider.Credential
}

// outcome is the immutable result of one call.
type outcome struct {
	messages []model.Message
	tasks    []model.Task
	events   []model.Event
	err      error
	attempts int
	cached   bool
}

// SyncAll fetches every supported kind from every source and merges the
// results. Individual failures are reported in Result.Failures; the only
// error returned is a ConfigError, raised before any network call.
//
// Cancelling ctx returns promptly with whatever has completed; calls still
// pending are recorded as transient failures.
func (e *Engine) SyncAll(ctx context.Context, sources []Source) (*Result, error) {
	calls, err := plan(sources)
	if err != nil {
		return nil, err
	}

	runID := uuid.NewString()
	log := e.logger.WithField("runId", runID)
	log.Debugw("sync started", "sources", len(sources), "calls", len(calls))
	started := time.Now()

	outcomes := make([]outcome, len(calls))
	var g errgroup.Group
	g.SetLimit(e.opts.MaxConcurrentAdapters)
	for i, c := range calls {
		g.Go(func() error {
			outcomes[i] = e.run(ctx, c, log.WithFields(map[string]any{
				"source": c.name,
				"kind":   string(c.kind),
			}))
			return nil
		})
	}
	_ = g.Wait()

	res := merge(runID, e.opts.Now(), calls, outcomes)
	log.Infow("sync finished",
		"durationMs", time.Since(started).Milliseconds(),
		"messages", len(res.Messages),
		"tasks", len(res.Tasks),
		"events", len(res.Events),
		"failures", len(res.Failures))
	return res, nil
}

// plan validates sources and expands them into calls in merge order.
func plan(sources []Source) ([]call, error) {
	if len(sources) == 0 {
		return nil, provider.ConfigError("no adapters configured")
	}

	seen := make(map[string]bool, len(sources))
	var calls []call
	for i, s := range sources {
		if s.Adapter == nil {
			return nil, provider.ConfigError("source %d has no adapter", i)
		}
		name := strings.TrimSpace(s.Name)
		if name == "" {
			name = s.Adapter.Tag()
		}
		if name == "" {
			return nil, provider.ConfigError("source %d has no name", i)
		}
		if seen[name] {
			return nil, provider.ConfigError("duplicate source name: %s", name)
		}
		seen[name] = true

		kinds := provider.Kinds(s.Adapter)
		if len(kinds) == 0 {
			return nil, provider.ConfigError("source %s supports no entity kinds", name)
		}
		if provider.NeedsCredential(s.Adapter) && s.Credential.IsZero() {
			return nil, provider.ConfigError("source %s has an empty credential", name)
		}
		for _, k := range kinds {
			calls = append(calls, call{name: name, kind: k, adapter: s.Adapter, cred: s.Credential})
		}
	}
	return calls, nil
}

// run executes one call through the cache, if enabled.
func (e *Engine) run(ctx context.Context, c call, log *logging.Logger) outcome {
	if e.cache == nil {
		return e.attemptWithRetry(ctx, c, log)
	}
	key, ok := keyFor(c)
	if !ok {
		return e.attemptWithRetry(ctx, c, log)
	}

	entry := e.cache.entry(key)
	if err := entry.acquire(ctx); err != nil {
		return outcome{err: provider.TransientError(c.name, err)}
	}
	defer entry.release()

	if out, ok := e.cache.fresh(entry); ok {
		log.Debug("served from cache")
		return out
	}
	out := e.attemptWithRetry(ctx, c, log)
	if out.err == nil {
		e.cache.store(entry, out)
	}
	return out
}

// attemptWithRetry retries a transient failure once after the fixed backoff.
func (e *Engine) attemptWithRetry(ctx context.Context, c call, log *logging.Logger) outcome {
	started := time.Now()
	out := e.attempt(ctx, c)
	out.attempts = 1

	if out.err != nil && provider.Classify(out.err).Retryable() && ctx.Err() == nil {
		log.WithError(out.err).Debugw("retrying transient failure", "backoffMs", e.opts.RetryBackoff.Milliseconds())
		if err := sleepContext(ctx, e.opts.RetryBackoff); err == nil {
			out = e.attempt(ctx, c)
			out.attempts = 2
		}
	}

	if out.err != nil {
		log.WithError(out.err).Warnw("provider call failed",
			"errorKind", string(provider.Classify(out.err)),
			"attempts", out.attempts)
	} else {
		log.Debugw("provider call succeeded", "durationMs", time.Since(started).Milliseconds())
	}
	return out
}

// attempt runs one bounded call. An adapter that ignores its context is
// abandoned once the deadline fires; its late result is discarded.
func (e *Engine) attempt(ctx context.Context, c call) outcome {
	if err := ctx.Err(); err != nil {
		return outcome{err: provider.TransientError(c.name, err)}
	}
	callCtx, cancel := context.WithTimeout(ctx, e.opts.PerCallTimeout)
	defer cancel()

	done := make(chan outcome, 1)
	go func() {
		defer func() {
			if r := recover(); r != nil {
				done <- outcome{err: provider.ProviderError(c.name, 0, fmt.Sprintf("adapter panic: %v", r))}
			}
		}()
		done <- fetch(callCtx, c)
	}()

	select {
	case out := <-done:
		return out
	case <-callCtx.Done():
		return outcome{err: provider.TransientError(c.name, callCtx.Err())}
	}
}

// fetch invokes the adapter for c.kind and namespaces the returned ids.
func fetch(ctx context.Context, c call) outcome {
	switch c.kind {
	case model.KindMessages:
		msgs, err := c.adapter.(provider.MessageFetcher).FetchMessages(ctx, c.cred)
		if err != nil {
			return outcome{err: provider.Wrap(c.name, err)}
		}
		return outcome{messages: model.NamespaceMessages(c.name, msgs)}
	case model.KindTasks:
		tasks, err := c.adapter.(provider.TaskFetcher).FetchTasks(ctx, c.cred)
		if err != nil {
			return outcome{err: provider.Wrap(c.name, err)}
		}
		return outcome{tasks: model.NamespaceTasks(c.name, tasks)}
	case model.KindEvents:
		events, err := c.adapter.(provider.EventFetcher).FetchEvents(ctx, c.cred)
		if err != nil {
			return outcome{err: provider.Wrap(c.name, err)}
		}
		return outcome{events: model.NamespaceEvents(c.name, events)}
	}
	return outcome{err: provider.ConfigError("unknown kind: %s", c.kind)}
}

// merge assembles the snapshot in plan order, independent of completion order.
func merge(runID string, syncedAt time.Time, calls []call, outcomes []outcome) *Result {
	res := &Result{
		RunID:     runID,
		SyncedAt:  syncedAt,
		Calls:     len(calls),
		KindCalls: make(map[model.Kind]int),
		Messages:  []model.Message{},
		Tasks:     []model.Task{},
		Events:    []model.Event{},
	}
	for i, c := range calls {
		res.KindCalls[c.kind]++
		out := outcomes[i]
		if out.err != nil {
			res.Failures = append(res.Failures, Failure{
				Source:   c.name,
				Kind:     c.kind,
				ErrKind:  provider.Classify(out.err),
				Err:      out.err,
				Attempts: out.attempts,
			})
			continue
		}
		if out.cached {
			res.Cached = append(res.Cached, CallRef{Source: c.name, Kind: c.kind})
		}
		res.Messages = append(res.Messages, out.messages...)
		res.Tasks = append(res.Tasks, out.tasks...)
		res.Events = append(res.Events, out.events...)
	}
	return res
}

func sleepContext(ctx context.Context, delay time.Duration) error {
	if delay <= 0 {
		return ctx.Err()
	}
	timer := time.NewTimer(delay)
	defer timer.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-timer.C:
		return nil
	}
}
