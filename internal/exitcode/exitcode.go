// Package exitcode defines exit codes for the CLI.
package exitcode

const (
	// Success indicates every sync call succeeded.
	Success = 0

	// UserError indicates a user error (bad args, unknown command or category).
	UserError = 1

	// AuthError is reserved for credential failures outside a sync.
	AuthError = 2

	// BackendError indicates every sync call failed.
	BackendError = 3

	// ConfigError indicates a missing or invalid providers.json, or a
	// sync configuration rejected before any call started.
	ConfigError = 4

	// PartialSync indicates some calls failed and at least one succeeded.
	PartialSync = 5
)
