package commands_test

import (
	"bytes"
	"context"
	"fmt"
	"os"
	"path/filepath"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lifesync/internal/commands"
	"lifesync/internal/config"
	"lifesync/internal/exitcode"
	"lifesync/internal/orchestrator"
	"lifesync/internal/testutil"
)

// lockedBuffer lets the test read output while the watch loop writes it.
type lockedBuffer struct {
	mu  sync.Mutex
	buf bytes.Buffer
}

func (b *lockedBuffer) Write(p []byte) (int, error) {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.Write(p)
}

func (b *lockedBuffer) String() string {
	b.mu.Lock()
	defer b.mu.Unlock()
	return b.buf.String()
}

func watchConfig(t *testing.T) *config.Config {
	t.Helper()
	return &config.Config{Dir: t.TempDir()}
}

func writeProviders(t *testing.T, cfg *config.Config) {
	t.Helper()
	data := []byte(`{"providers":[{"type":"static"}]}`)
	assert.NoError(t, os.WriteFile(cfg.ProvidersPath(), data, 0o600))
}

func TestWatchCommand_ResyncsOnInterval(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	svc := testutil.NewFakeService(&orchestrator.Result{Calls: 1})
	svc.OnSync = func(_ context.Context, call int) {
		if call == 2 {
			cancel()
		}
	}
	cmd := &commands.WatchCmd{}
	cmd.SetInterval(10 * time.Millisecond)

	var out, errOut lockedBuffer
	code := cmd.Run(ctx, watchConfig(t), svc, nil, &out, &errOut)

	assert.Equal(t, exitcode.Success, code)
	assert.GreaterOrEqual(t, svc.SyncCalls(), 3)
	assert.Zero(t, svc.ReloadCalls())
	assert.Contains(t, out.String(), "synced 0 messages, 0 tasks, 0 events (1/1 calls ok)")
	assert.Empty(t, errOut.String())
}

func TestWatchCommand_ReloadsOnConfigChange(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg := watchConfig(t)
	svc := testutil.NewFakeService(&orchestrator.Result{Calls: 1})
	svc.OnSync = func(_ context.Context, call int) {
		switch call {
		case 0:
			writeProviders(t, cfg)
		case 1:
			cancel()
		}
	}
	cmd := &commands.WatchCmd{}
	cmd.SetInterval(time.Hour)

	var out, errOut lockedBuffer
	code := cmd.Run(ctx, cfg, svc, nil, &out, &errOut)

	assert.Equal(t, exitcode.Success, code)
	assert.Equal(t, 1, svc.ReloadCalls(), "a burst of write events reloads once")
	assert.Equal(t, 2, svc.SyncCalls())
	assert.Contains(t, out.String(), "reloaded providers.json\n")
}

func TestWatchCommand_IgnoresOtherFiles(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 300*time.Millisecond)
	defer cancel()

	cfg := watchConfig(t)
	svc := testutil.NewFakeService(&orchestrator.Result{Calls: 1})
	svc.OnSync = func(_ context.Context, call int) {
		if call == 0 {
			require.NoError(t, os.WriteFile(filepath.Join(cfg.Dir, "notes.txt"), []byte("x"), 0o600))
		}
	}
	cmd := &commands.WatchCmd{}
	cmd.SetInterval(time.Hour)

	code := cmd.Run(ctx, cfg, svc, nil, &lockedBuffer{}, &lockedBuffer{})

	assert.Equal(t, exitcode.Success, code)
	assert.Zero(t, svc.ReloadCalls())
	assert.Equal(t, 1, svc.SyncCalls())
}

func TestWatchCommand_ReloadFailureKeepsWatching(t *testing.T) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	cfg := watchConfig(t)
	svc := testutil.NewFakeService(&orchestrator.Result{Calls: 1})
	svc.ReloadErr = fmt.Errorf("%w: providers[0].type: unknown", config.ErrInvalidConfig)
	svc.OnSync = func(_ context.Context, call int) {
		if call == 0 {
			writeProviders(t, cfg)
		}
	}
	cmd := &commands.WatchCmd{}
	cmd.SetInterval(time.Hour)

	var out, errOut lockedBuffer
	done := make(chan int, 1)
	go func() {
		done <- cmd.Run(ctx, cfg, svc, nil, &out, &errOut)
	}()

	require.Eventually(t, func() bool { return svc.ReloadCalls() >= 1 }, 2*time.Second, 10*time.Millisecond)
	cancel()

	assert.Equal(t, exitcode.Success, <-done)
	assert.Equal(t, 1, svc.SyncCalls(), "no sync after a failed reload")
	assert.Contains(t, errOut.String(), "error: config error: ")
}

func TestWatchCommand_InvalidInterval(t *testing.T) {
	cmd := &commands.WatchCmd{}
	cmd.SetInterval(0)

	_, stderr, code := runCommand(t, cmd, testutil.NewFakeService(), nil, false)

	assert.Equal(t, exitcode.UserError, code)
	assert.Equal(t, "error: invalid interval: 0s\n", stderr)
}

func TestWatchCommand_MissingConfigDir(t *testing.T) {
	cmd := &commands.WatchCmd{}
	cmd.SetInterval(time.Minute)
	svc := testutil.NewFakeService()

	var out, errOut bytes.Buffer
	cfg := &config.Config{Dir: filepath.Join(t.TempDir(), "missing")}
	code := cmd.Run(context.Background(), cfg, svc, nil, &out, &errOut)

	assert.Equal(t, exitcode.ConfigError, code)
	assert.Zero(t, svc.SyncCalls())
}
