// Package cli dispatches intent lines to commands against a shared session.
package cli

import (
	"context"
	"errors"
	"flag"
	"fmt"
	"io"
	"strings"
	"sync"

	"todo/internal/auth"
	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
)

// SessionFactory creates the session commands run against.
// Called at most once per Dispatcher, on the first command that needs it.
type SessionFactory func(ctx context.Context, cfg *config.Config) (commands.Session, error)

// Dispatcher parses intent lines and dispatches them to commands.
type Dispatcher struct {
	registry *commands.Registry
	cfg      *config.Config
	factory  SessionFactory

	mu   sync.Mutex
	sess commands.Session
}

// NewDispatcher creates a dispatcher over registry. cfg is the process-level
// configuration; per-line flags only override it for that line.
func NewDispatcher(registry *commands.Registry, cfg *config.Config, factory SessionFactory) *Dispatcher {
	return &Dispatcher{
		registry: registry,
		cfg:      cfg,
		factory:  factory,
	}
}

// Run parses one intent line and dispatches to the matching command.
// Returns the exit code.
func (d *Dispatcher) Run(ctx context.Context, args []string, out, errOut io.Writer) int {
	// Empty line -> list
	if len(args) == 0 {
		args = []string{"list"}
	}

	cmdName := args[0]

	// Flags require a command
	if strings.HasPrefix(cmdName, "-") {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	cmd, ok := d.registry.Find(cmdName)
	if !ok {
		fmt.Fprintf(errOut, "error: unknown command: %s\n", cmdName)
		return exitcode.UserError
	}

	return d.dispatchCommand(ctx, cmd, args[1:], out, errOut)
}

// Wait blocks until every call started through this dispatcher has settled.
func (d *Dispatcher) Wait() {
	d.mu.Lock()
	sess := d.sess
	d.mu.Unlock()
	if sess != nil {
		sess.Wait()
	}
}

func (d *Dispatcher) dispatchCommand(ctx context.Context, cmd commands.Command, args []string, out, errOut io.Writer) int {
	fs := flag.NewFlagSet(cmd.Name(), flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var quiet bool
	fs.BoolVar(&quiet, "quiet", false, "")
	fs.BoolVar(&quiet, "q", false, "")

	cmd.RegisterFlags(fs)

	if err := fs.Parse(args); err != nil {
		fmt.Fprintf(errOut, "error: %s\n", flagError(err))
		return exitcode.UserError
	}

	// A leading dash left over means the flag was never defined.
	positional := fs.Args()
	if len(positional) > 0 && strings.HasPrefix(positional[0], "-") {
		fmt.Fprintf(errOut, "error: unknown flag: %s\n", positional[0])
		return exitcode.UserError
	}

	cfg := *d.cfg
	cfg.Quiet = cfg.Quiet || quiet

	var sess commands.Session
	if cmd.NeedsSession() {
		var err error
		sess, err = d.session(ctx, &cfg)
		if err != nil {
			if errors.Is(err, auth.ErrNoClient) || errors.Is(err, auth.ErrNoToken) {
				fmt.Fprintf(errOut, "error: auth error: %s\n", err)
				return exitcode.AuthError
			}
			fmt.Fprintf(errOut, "error: backend error: %s\n", err)
			return exitcode.BackendError
		}
	}

	return cmd.Run(ctx, &cfg, sess, positional, out, errOut)
}

// session returns the shared session, creating it on first use. A failed
// creation is retried on the next command.
func (d *Dispatcher) session(ctx context.Context, cfg *config.Config) (commands.Session, error) {
	d.mu.Lock()
	defer d.mu.Unlock()
	if d.sess != nil {
		return d.sess, nil
	}
	if d.factory == nil {
		return nil, errors.New("no session configured")
	}
	sess, err := d.factory(ctx, cfg)
	if err != nil {
		return nil, err
	}
	d.sess = sess
	return sess, nil
}

// flagError rewrites flag package errors into the CLI's wording.
func flagError(err error) string {
	msg := err.Error()
	switch {
	case strings.HasPrefix(msg, "flag needs an argument:"):
		return "flag needs an argument: " + strings.TrimSpace(strings.TrimPrefix(msg, "flag needs an argument:"))
	case strings.HasPrefix(msg, "flag provided but not defined:"):
		return "unknown flag: " + strings.TrimSpace(strings.TrimPrefix(msg, "flag provided but not defined:"))
	default:
		return msg
	}
}
