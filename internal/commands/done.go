package commands

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"

	"todo/internal/config"
	"todo/internal/exitcode"
	"todo/internal/orchestrator"
	"todo/internal/tracker"
)

func init() {
	Register(&DoneCmd{})
}

// DoneCmd implements the done command.
type DoneCmd struct {
	wait bool
}

// SetWait makes Run block until the confirmation settles (for testing).
func (c *DoneCmd) SetWait(wait bool) {
	c.wait = wait
}

func (c *DoneCmd) Name() string       { return "done" }
func (c *DoneCmd) Aliases() []string  { return []string{"check"} }
func (c *DoneCmd) Synopsis() string   { return "Mark a task completed" }
func (c *DoneCmd) Usage() string      { return "done [--wait] <ref>" }
func (c *DoneCmd) NeedsSession() bool { return true }

func (c *DoneCmd) RegisterFlags(fs *flag.FlagSet) {
	fs.BoolVar(&c.wait, "wait", false, "")
	fs.BoolVar(&c.wait, "w", false, "")
}

func (c *DoneCmd) Run(ctx context.Context, cfg *config.Config, sess Session, args []string, out, errOut io.Writer) int {
	return runAction(ctx, cfg, sess, tracker.Complete, c.wait, args, out, errOut)
}

// runAction is the shared implementation for done and rm.
func runAction(ctx context.Context, cfg *config.Config, sess Session, kind tracker.Kind, wait bool, args []string, out, errOut io.Writer) int {
	ref, err := ParseTaskRef(args)
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	id, err := ref.Resolve(sess.View())
	if err != nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}

	call, err := sess.Start(ctx, kind, id)
	if err != nil {
		if errors.Is(err, orchestrator.ErrAlreadyInFlight) {
			fmt.Fprintf(errOut, "error: %s #%d already in flight\n", kind, id)
			return exitcode.UserError
		}
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.BackendError
	}

	if !wait {
		if !cfg.Quiet {
			fmt.Fprintf(out, "pending #%d\n", id)
		}
		return exitcode.Success
	}

	select {
	case <-call.Done():
	case <-ctx.Done():
		// The call keeps running; only this command stops waiting.
		fmt.Fprintln(errOut, "error: cancelled")
		return exitcode.UserError
	}
	if err := call.Err(); err != nil {
		fmt.Fprintf(errOut, "error: %s #%d: %v\n", kind, id, err)
		return exitcode.BackendError
	}
	if !cfg.Quiet {
		fmt.Fprintln(out, "ok")
	}
	return exitcode.Success
}
