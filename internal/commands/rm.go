package commands

import (
	"context"
	"flag"
	"io"

	"todo/internal/config"
	"todo/internal/tracker"
)

func init() {
	Register(&RmCmd{})
}

// RmCmd implements the rm command.
type RmCmd struct {
	wait bool
}

// SetWait makes Run block until the confirmation settles (for testing).
func (c *RmCmd) SetWait(wait bool) {
	c.wait = wait
}

func (c *RmCmd) Name() string       { return "rm" }
func (c *RmCmd) Aliases() []string  { return []string{"delete"} }
func (c *RmCmd) Synopsis() string   { return "Delete a task" }
func (c *RmCmd) Usage() string      { return "rm [--wait] <ref>" }
func (c *RmCmd) NeedsSession() bool { return true }

func (c *RmCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.wait, "wait", false, "")
	fs.BoolVar(&c.wait, "w", false, "")
}

func (c *RmCmd) Run(ctx context.Context, cfg *config.Config, sess Session, args []string, out, errOut io.Writer) int {
	return runAction(ctx, cfg, sess, tracker.Delete, c.wait, args, out, errOut)
}
