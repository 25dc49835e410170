package commands

import (
	"context"
	"flag"
	"io"

	"lifesync/internal/config"
	"lifesync/internal/exitcode"
	"lifesync/internal/output"
	"lifesync/internal/service"
)

func init() {
	Register(&SyncCmd{})
}

// SyncCmd implements the sync command.
// Handles both `lifesync` (no args) and `lifesync sync`.
type SyncCmd struct{}

func (c *SyncCmd) Name() string       { return "sync" }
func (c *SyncCmd) Aliases() []string  { return nil }
func (c *SyncCmd) Synopsis() string   { return "Sync every provider and print all items" }
func (c *SyncCmd) Usage() string      { return "lifesync sync" }
func (c *SyncCmd) NeedsService() bool { return true }

func (c *SyncCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *SyncCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		return usageError(errOut, c)
	}
	res, code := runSync(ctx, svc, errOut)
	if res == nil {
		return code
	}

	if len(res.Messages) > 0 {
		output.FormatSectionHeader(out, "Messages")
		for i, m := range res.Messages {
			output.FormatMessage(out, i+1, m)
		}
	}
	if len(res.Tasks) > 0 {
		output.FormatSectionHeader(out, "Tasks")
		for i, t := range res.Tasks {
			output.FormatTask(out, i+1, t)
		}
	}
	if len(res.Events) > 0 {
		output.FormatSectionHeader(out, "Events")
		for i, e := range res.Events {
			output.FormatEvent(out, i+1, e)
		}
	}
	if !cfg.Quiet {
		output.FormatSummary(out, res)
	}
	return finish(res, errOut)
}

// usageError reports unexpected positional arguments.
func usageError(errOut io.Writer, c Command) int {
	io.WriteString(errOut, "error: usage: "+c.Usage()+"\n")
	return exitcode.UserError
}
