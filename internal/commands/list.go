package commands

import (
	"context"
	"flag"
	"fmt"
	"io"
	"time"

	"lifesync/internal/backlog"
	"lifesync/internal/config"
	"lifesync/internal/exitcode"
	"lifesync/internal/model"
	"lifesync/internal/output"
	"lifesync/internal/service"
)

func init() {
	Register(&ListCmd{Kind: model.KindMessages})
	Register(&ListCmd{Kind: model.KindTasks})
	Register(&ListCmd{Kind: model.KindEvents})
}

// ListCmd implements the messages, tasks and events commands: one synced
// collection, optionally narrowed by --category.
type ListCmd struct {
	Kind model.Kind

	// Now overrides the clock used for the overdue filter.
	Now func() time.Time

	category string
}

// SetCategory sets the category filter (for testing).
func (c *ListCmd) SetCategory(category string) {
	c.category = category
}

func (c *ListCmd) Name() string       { return string(c.Kind) }
func (c *ListCmd) Aliases() []string  { return nil }
func (c *ListCmd) Synopsis() string   { return "List synced " + string(c.Kind) }
func (c *ListCmd) NeedsService() bool { return true }

func (c *ListCmd) Usage() string {
	return fmt.Sprintf("lifesync %s [--category all|overdue|work|personal|social]", c.Kind)
}

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.StringVar(&c.category, "category", string(backlog.FilterAll), "")
}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, svc service.Service, args []string, out, errOut io.Writer) int {
	if len(args) > 0 {
		return usageError(errOut, c)
	}
	filter, err := backlog.ParseFilter(c.category)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	res, code := runSync(ctx, svc, errOut)
	if res == nil {
		return code
	}
	now := clock(c.Now)

	n := 0
	switch c.Kind {
	case model.KindMessages:
		for i, m := range backlog.FilterMessages(res.Messages, filter, now) {
			output.FormatMessage(out, i+1, m)
			n++
		}
	case model.KindTasks:
		for i, t := range backlog.FilterTasks(res.Tasks, filter, now) {
			output.FormatTask(out, i+1, t)
			n++
		}
	case model.KindEvents:
		for i, e := range backlog.FilterEvents(res.Events, filter, now) {
			output.FormatEvent(out, i+1, e)
			n++
		}
	}

	if n == 0 && !cfg.Quiet {
		fmt.Fprintf(out, "no %s found\n", c.Kind)
	}
	return finish(res.ForKind(c.Kind), errOut)
}
