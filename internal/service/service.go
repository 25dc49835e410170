// Package service defines the backend-agnostic interface the CLI syncs through.
package service

import (
	"context"

	"lifesync/internal/model"
	"lifesync/internal/orchestrator"
)

// Service defines the interface for provider sync operations.
// Commands never import adapter packages directly.
type Service interface {
	// Sources describes the configured sources in configuration order,
	// including disabled ones.
	Sources() []SourceInfo

	// Sync fetches every enabled source and returns the merged snapshot.
	// Partial failures are reported in the result; only configuration
	// problems are returned as errors.
	Sync(ctx context.Context) (*orchestrator.Result, error)

	// Reload re-reads the configuration. The previous configuration stays
	// in effect if the new one is invalid.
	Reload() error
}

// SourceInfo describes one configured source.
type SourceInfo struct {
	Name     string
	Type     string
	Kinds    []model.Kind
	Disabled bool
}
