package commands

import (
	"context"
	"errors"
	"fmt"
	"io"
	"time"

	"lifesync/internal/config"
	"lifesync/internal/exitcode"
	"lifesync/internal/orchestrator"
	"lifesync/internal/output"
	"lifesync/internal/provider"
	"lifesync/internal/service"
)

// runSync performs one sync. On error it reports to errOut and returns
// a nil result with the exit code to use.
func runSync(ctx context.Context, svc service.Service, errOut io.Writer) (*orchestrator.Result, int) {
	res, err := svc.Sync(ctx)
	if err != nil {
		return nil, reportError(errOut, err)
	}
	return res, exitcode.Success
}

// reportError prints err and maps it to an exit code.
func reportError(errOut io.Writer, err error) int {
	code := ErrorCode(err)
	switch code {
	case exitcode.ConfigError:
		fmt.Fprintf(errOut, "error: config error: %v\n", err)
	default:
		fmt.Fprintf(errOut, "error: backend error: %v\n", err)
	}
	return code
}

// ErrorCode maps an error from loading or syncing to an exit code.
func ErrorCode(err error) int {
	switch {
	case err == nil:
		return exitcode.Success
	case errors.Is(err, provider.ErrConfig),
		errors.Is(err, config.ErrInvalidConfig),
		errors.Is(err, config.ErrNotConfigured):
		return exitcode.ConfigError
	case errors.Is(err, provider.ErrAuth):
		return exitcode.AuthError
	}
	return exitcode.BackendError
}

// finish prints the failure block for res on errOut and returns the exit
// code describing it.
func finish(res *orchestrator.Result, errOut io.Writer) int {
	output.FormatFailures(errOut, res)
	return ResultCode(res)
}

// ResultCode maps a sync result to an exit code.
func ResultCode(res *orchestrator.Result) int {
	switch {
	case res.AllFailed():
		return exitcode.BackendError
	case len(res.Failures) > 0:
		return exitcode.PartialSync
	}
	return exitcode.Success
}

func clock(now func() time.Time) time.Time {
	if now == nil {
		return time.Now()
	}
	return now()
}
