package commands

import (
	"context"
	"flag"
	"io"
	"time"

	"lifesync/internal/backlog"
	"lifesync/internal/config"
	"lifesync/internal/model"
	"lifesync/internal/output"
	"lifesync/internal/service"
)

func init() {
	Register(&DashboardCmd{})
}

// DashboardCmd implements the dashboard command.
type DashboardCmd struct {
	// Now overrides the clock the counts are computed against.
	Now func() time.Time
}

func (c *DashboardCmd) Name() string       { return "dashboard" }
func (c *DashboardCmd) Aliases() []string  { return []string{"dash"} }
func (c *DashboardCmd) Synopsis() string   { return "Print due, unreplied, upcoming and backlog counts" }
func (c *DashboardCmd) Usage() string      { return "lifesync dashboard" }
func (c *DashboardCmd) NeedsService() bool { return true }

func (c *DashboardCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *DashboardCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		return usageError(errOut, c)
	}
	res, code := runSync(ctx, svc, errOut)
	if res == nil {
		return code
	}

	now := clock(c.Now)
	counts := backlog.DashboardCounts(res.Messages, res.Tasks, res.Events, now)
	byKind := map[model.Kind]backlog.CategoryCounts{
		model.KindMessages: backlog.CountMessageCategories(res.Messages),
		model.KindTasks:    backlog.CountTaskCategories(res.Tasks),
		model.KindEvents:   backlog.CountEventCategories(res.Events),
	}
	output.FormatDashboard(out, counts, byKind)
	return finish(res, errOut)
}
