package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/fsnotify/fsnotify"

	"lifesync/internal/config"
	"lifesync/internal/exitcode"
	"lifesync/internal/output"
	"lifesync/internal/service"
)

const (
	// DefaultWatchInterval is the re-sync period when --interval is not given.
	DefaultWatchInterval = 5 * time.Minute

	// WatchIntervalEnv overrides DefaultWatchInterval.
	WatchIntervalEnv = "LIFESYNC_WATCH_INTERVAL"

	// reloadDelay coalesces the burst of events an editor save produces.
	reloadDelay = 100 * time.Millisecond
)

func init() {
	Register(&WatchCmd{})
}

// WatchCmd implements the watch command. It syncs immediately, then again
// every interval and whenever providers.json changes, until interrupted.
type WatchCmd struct {
	interval time.Duration
}

// SetInterval sets the re-sync interval (for testing).
func (c *WatchCmd) SetInterval(d time.Duration) {
	c.interval = d
}

func (c *WatchCmd) Name() string       { return "watch" }
func (c *WatchCmd) Aliases() []string  { return nil }
func (c *WatchCmd) Synopsis() string   { return "Re-sync periodically and on config changes" }
func (c *WatchCmd) Usage() string      { return "lifesync watch [--interval <duration>]" }
func (c *WatchCmd) NeedsService() bool { return true }

func (c *WatchCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.DurationVar(&c.interval, "interval", defaultInterval(), "")
}

func (c *WatchCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		return usageError(errOut, c)
	}
	if c.interval <= 0 {
		fmt.Fprintf(errOut, "error: invalid interval: %s\n", c.interval)
		return exitcode.UserError
	}

	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		fmt.Fprintf(errOut, "error: watch config: %v\n", err)
		return exitcode.BackendError
	}
	defer watcher.Close()
	// Watch the directory: editors replace the file rather than write it.
	if err := watcher.Add(cfg.Dir); err != nil {
		fmt.Fprintf(errOut, "error: watch config dir: %v\n", err)
		return exitcode.ConfigError
	}

	run := func() {
		res, err := svc.Sync(ctx)
		if err != nil {
			if ctx.Err() == nil {
				reportError(errOut, err)
			}
			return
		}
		if !cfg.Quiet {
			fmt.Fprintf(out, "%s ", time.Now().Format(output.TimeLayout))
			output.FormatSummary(out, res)
		}
		output.FormatFailures(errOut, res)
	}

	run()

	timer := time.NewTimer(c.interval)
	defer timer.Stop()
	var reload <-chan time.Time
	for {
		select {
		case <-ctx.Done():
			return exitcode.Success
		case <-timer.C:
			run()
			timer.Reset(c.interval)
		case ev, ok := <-watcher.Events:
			if !ok {
				return exitcode.Success
			}
			if isProvidersChange(ev) {
				reload = time.After(reloadDelay)
			}
		case <-reload:
			reload = nil
			if err := svc.Reload(); err != nil {
				// The previous configuration stays active.
				reportError(errOut, err)
				continue
			}
			if !cfg.Quiet {
				fmt.Fprintln(out, "reloaded "+config.ProvidersFile)
			}
			run()
			if !timer.Stop() {
				select {
				case <-timer.C:
				default:
				}
			}
			timer.Reset(c.interval)
		case err, ok := <-watcher.Errors:
			if !ok {
				return exitcode.Success
			}
			fmt.Fprintf(errOut, "warning: watch: %v\n", err)
		}
	}
}

func isProvidersChange(ev fsnotify.Event) bool {
	if filepath.Base(ev.Name) != config.ProvidersFile {
		return false
	}
	return ev.Has(fsnotify.Write) || ev.Has(fsnotify.Create) || ev.Has(fsnotify.Rename)
}

func defaultInterval() time.Duration {
	raw := strings.TrimSpace(os.Getenv(WatchIntervalEnv))
	if raw == "" {
		return DefaultWatchInterval
	}
	d, err := time.ParseDuration(raw)
	if err != nil || d <= 0 {
		return DefaultWatchInterval
	}
	return d
}
