package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"lifesync/internal/config"
	"lifesync/internal/exitcode"
	"lifesync/internal/service"
)

func init() {
	Register(&HelpCmd{})
}

// HelpCmd implements the help command.
type HelpCmd struct{}

func (c *HelpCmd) Name() string       { return "help" }
func (c *HelpCmd) Aliases() []string  { return nil }
func (c *HelpCmd) Synopsis() string   { return "Print usage" }
func (c *HelpCmd) Usage() string      { return "lifesync help" }
func (c *HelpCmd) NeedsService() bool { return false }

func (c *HelpCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *HelpCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	fmt.Fprint(out, helpText)
	return exitcode.Success
}

const helpText = `Usage:
  lifesync [common flags]                       Sync every provider and print all items
  lifesync sync [common flags]
  lifesync messages [common flags] [--category <filter>]
  lifesync tasks [common flags] [--category <filter>]
  lifesync events [common flags] [--category <filter>]
  lifesync dashboard [common flags]
  lifesync providers [common flags]
  lifesync watch [common flags] [--interval <duration>]
  lifesync help
  lifesync version

Filters:
  all, overdue, work, personal, social

Common flags:
  --config <dir>   Override config directory
  --quiet          Suppress informational output
  --debug          Print debug logs to stderr

Exit codes:
  0  every provider call succeeded
  1  usage error
  2  authentication error
  3  every provider call failed
  4  missing or invalid providers.json
  5  some provider calls failed
`
