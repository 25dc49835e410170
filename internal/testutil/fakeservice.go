// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"

	"lifesync/internal/orchestrator"
	"lifesync/internal/service"
)

// FakeService is an in-memory implementation of service.Service for testing.
// Sync returns the queued results in order and repeats the last one.
type FakeService struct {
	mu      sync.RWMutex
	sources []service.SourceInfo
	results []*orchestrator.Result

	syncCalls   int
	reloadCalls int

	// Error injection for testing
	SyncErr   error
	ReloadErr error

	// OnSync, if set, runs at the start of every Sync call.
	OnSync func(ctx context.Context, call int)
}

// NewFakeService creates a FakeService that returns results from Sync.
func NewFakeService(results ...*orchestrator.Result) *FakeService {
	return &FakeService{results: results}
}

// AddSource adds a source to the fake service.
func (f *FakeService) AddSource(info service.SourceInfo) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.sources = append(f.sources, info)
}

// SyncCalls returns how many times Sync was called.
func (f *FakeService) SyncCalls() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.syncCalls
}

// ReloadCalls returns how many times Reload was called.
func (f *FakeService) ReloadCalls() int {
	f.mu.RLock()
	defer f.mu.RUnlock()
	return f.reloadCalls
}

// Sources implements service.Service.
func (f *FakeService) Sources() []service.SourceInfo {
	f.mu.RLock()
	defer f.mu.RUnlock()
	result := make([]service.SourceInfo, len(f.sources))
	copy(result, f.sources)
	return result
}

// Sync implements service.Service.
func (f *FakeService) Sync(ctx context.Context) (*orchestrator.Result, error) {
	f.mu.Lock()
	call := f.syncCalls
	f.syncCalls++
	f.mu.Unlock()

	if f.OnSync != nil {
		f.OnSync(ctx, call)
	}
	if f.SyncErr != nil {
		return nil, f.SyncErr
	}

	f.mu.RLock()
	defer f.mu.RUnlock()
	if len(f.results) == 0 {
		return &orchestrator.Result{}, nil
	}
	if call >= len(f.results) {
		call = len(f.results) - 1
	}
	return f.results[call], nil
}

// Reload implements service.Service.
func (f *FakeService) Reload() error {
	f.mu.Lock()
	f.reloadCalls++
	f.mu.Unlock()
	return f.ReloadErr
}
