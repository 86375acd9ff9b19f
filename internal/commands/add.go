package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/orchestrator"
)

func init() {
	Register(&AddCmd{})
}

// AddCmd implements the add command.
type AddCmd struct{}

func (c *AddCmd) Name() string       { return "add" }
func (c *AddCmd) Aliases() []string  { return []string{"create"} }
func (c *AddCmd) Synopsis() string   { return "Create a task" }
func (c *AddCmd) Usage() string      { return "add <title...>" }
func (c *AddCmd) NeedsSession() bool { return true }

func (c *AddCmd) RegisterFlags(fs *flag.FlagSet) {}

func (c *AddCmd) Run(ctx context.Context, cfg *config.Config, sess Session, args []string, out, errOut io.Writer) int {
	title := strings.Join(args, " ")
	t, err := sess.Create(ctx, title)
	if errors.Is(err, orchestrator.ErrEmptyTitle) {
		fmt.Fprintln(errOut, "error: title required")
		return exitcode.UserError
	}
	if err != nil {
		fmt.Fprintf(errOut, "error: add: %v\n", err)
		return exitcode.BackendError
	}

	if !cfg.Quiet {
		fmt.Fprintf(out, "added #%d\n", t.ID)
	}
	return exitcode.Success
}
