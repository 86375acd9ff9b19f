package commands

import (
	"context"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/output"
)

func init() {
	Register(&ListCmd{})
	Register(&StatusCmd{})
	Register(&WaitCmd{})
}

// ListCmd implements the list command: open tasks with action indicators.
type ListCmd struct{}

func (c *ListCmd) Name() string       { return "list" }
func (c *ListCmd) Aliases() []string  { return []string{"ls"} }
func (c *ListCmd) Synopsis() string   { return "List open tasks" }
func (c *ListCmd) Usage() string      { return "list" }
func (c *ListCmd) NeedsSession() bool { return true }

func (c *ListCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *ListCmd) Run(ctx context.Context, cfg *config.Config, sess Session, args []string, out, errOut io.Writer) int {
	v := sess.View()
	n := 0
	for t := range v.Active() {
		n++
		output.FormatTask(out, n, t, v)
	}
	switch {
	case cfg.Quiet:
	case n == 0:
		fmt.Fprintln(out, "no tasks found")
	default:
		fmt.Fprintf(out, "%d active\n", n)
	}
	return exitcode.Success
}

// StatusCmd implements the status command: every task and both action slots.
type StatusCmd struct{}

func (c *StatusCmd) Name() string       { return "status" }
func (c *StatusCmd) Aliases() []string  { return nil }
func (c *StatusCmd) Synopsis() string   { return "Show action status for every task" }
func (c *StatusCmd) Usage() string      { return "status" }
func (c *StatusCmd) NeedsSession() bool { return true }

func (c *StatusCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *StatusCmd) Run(ctx context.Context, cfg *config.Config, sess Session, args []string, out, errOut io.Writer) int {
	v := sess.View()
	output.StatusTable(out, v.Tasks(), v)
	return exitcode.Success
}

// WaitCmd blocks until every outstanding confirmation has settled.
type WaitCmd struct{}

func (c *WaitCmd) Name() string       { return "wait" }
func (c *WaitCmd) Aliases() []string  { return nil }
func (c *WaitCmd) Synopsis() string   { return "Wait for pending confirmations" }
func (c *WaitCmd) Usage() string      { return "wait" }
func (c *WaitCmd) NeedsSession() bool { return true }

func (c *WaitCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *WaitCmd) Run(ctx context.Context, cfg *config.Config, sess Session, args []string, out, errOut io.Writer) int {
	sess.Wait()
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
