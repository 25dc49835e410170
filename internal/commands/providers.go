package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"lifesync/internal/config"
	"lifesync/internal/exitcode"
	"lifesync/internal/output"
	"lifesync/internal/service"
)

func init() {
	Register(&ProvidersCmd{})
}

// ProvidersCmd implements the providers command. It lists configured
// sources without syncing.
type ProvidersCmd struct{}

func (c *ProvidersCmd) Name() string       { return "providers" }
func (c *ProvidersCmd) Aliases() []string  { return []string{"sources"} }
func (c *ProvidersCmd) Synopsis() string   { return "List configured providers" }
func (c *ProvidersCmd) Usage() string      { return "lifesync providers" }
func (c *ProvidersCmd) NeedsService() bool { return true }

func (c *ProvidersCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ProvidersCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		return usageError(errOut, c)
	}
	sources := svc.Sources()
	if len(sources) == 0 {
		if !cfg.Quiet {
			fmt.Fprintln(out, "no providers configured")
		}
		return exitcode.Success
	}
	for _, s := range sources {
		output.FormatSource(out, s)
	}
	return exitcode.Success
}
