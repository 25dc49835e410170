package service

import (
	"context"
	"fmt"
	"net/http"
	"sync"

	"lifesync/internal/config"
	"lifesync/internal/logging"
	"lifesync/internal/orchestrator"
	"lifesync/internal/provider"
)

// Aggregator implements Service over providers.json, a provider registry
// and the sync engine.
type Aggregator struct {
	cfg        *config.Config
	registry   *provider.Registry
	httpClient *http.Client
	fixedLog   *logging.Logger

	mu      sync.RWMutex
	logger  *logging.Logger
	engine  *orchestrator.Engine
	sources []orchestrator.Source
	infos   []SourceInfo
}

// Option configures an Aggregator.
type Option func(*Aggregator)

// WithHTTPClient sets the transport handed to every adapter.
func WithHTTPClient(c *http.Client) Option {
	return func(a *Aggregator) { a.httpClient = c }
}

// WithLogger overrides the logger built from the log section of providers.json.
func WithLogger(l *logging.Logger) Option {
	return func(a *Aggregator) { a.fixedLog = l }
}

// Open loads cfg's providers.json and builds every enabled source.
func Open(cfg *config.Config, registry *provider.Registry, opts ...Option) (*Aggregator, error) {
	a := &Aggregator{
		cfg:      cfg,
		registry: registry,
	}
	for _, opt := range opts {
		opt(a)
	}
	if err := a.Reload(); err != nil {
		return nil, err
	}
	return a, nil
}

// Reload implements Service.
func (a *Aggregator) Reload() error {
	p, err := a.cfg.LoadProviders()
	if err != nil {
		return err
	}
	logger, err := a.newLogger(p.Log)
	if err != nil {
		return fmt.Errorf("%w: %v", config.ErrInvalidConfig, err)
	}
	sources, infos, err := a.build(p)
	if err != nil {
		return err
	}

	a.mu.Lock()
	a.logger = logger
	a.engine = orchestrator.New(p.Sync.Options(), logger)
	a.sources = sources
	a.infos = infos
	a.mu.Unlock()

	logger.Debugw("providers loaded", "path", a.cfg.ProvidersPath(), "enabled", len(sources), "configured", len(infos))
	return nil
}

func (a *Aggregator) newLogger(lc logging.Config) (*logging.Logger, error) {
	switch {
	case a.fixedLog != nil:
		return a.fixedLog, nil
	case a.cfg.Debug:
		return logging.NewDebug()
	}
	return logging.New(lc)
}

func (a *Aggregator) build(p *config.Providers) ([]orchestrator.Source, []SourceInfo, error) {
	var sources []orchestrator.Source
	infos := make([]SourceInfo, 0, len(p.Providers))
	for _, entry := range p.Providers {
		adapter, err := a.registry.Build(entry.Type, provider.Settings{
			BaseURL:    entry.BaseURL,
			HTTPClient: a.httpClient,
		})
		if err != nil {
			return nil, nil, fmt.Errorf("provider %s: %w", entry.Name, err)
		}
		infos = append(infos, SourceInfo{
			Name:     entry.Name,
			Type:     entry.Type,
			Kinds:    provider.Kinds(adapter),
			Disabled: entry.Disabled,
		})

		if entry.Disabled {
			continue
		}
		cred, err := entry.Credential()
		if err != nil {
			return nil, nil, err
		}
		sources = append(sources, orchestrator.Source{
			Name:       entry.Name,
			Adapter:    adapter,
			Credential: cred,
		})
	}
	return sources, infos, nil
}

// Sources implements Service.
func (a *Aggregator) Sources() []SourceInfo {
	a.mu.RLock()
	defer a.mu.RUnlock()
	out := make([]SourceInfo, len(a.infos))
	copy(out, a.infos)
	return out
}

// Sync implements Service.
func (a *Aggregator) Sync(ctx context.Context) (*orchestrator.Result, error) {
	a.mu.RLock()
	engine, sources := a.engine, a.sources
	a.mu.RUnlock()
	return engine.SyncAll(ctx, sources)
}
