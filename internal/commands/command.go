// Package commands provides the command interface and implementations.
package commands

import (
	"context"
	"flag"
	"io"

	"todo/internal/config"
	"todo/internal/orchestrator"
	"todo/internal/task"
	"todo/internal/tracker"
)

// Session is the in-memory task list commands operate on.
// *orchestrator.Orchestrator implements it.
type Session interface {
	Create(ctx context.Context, title string) (task.Task, error)
	Start(ctx context.Context, kind tracker.Kind, id int64) (*orchestrator.Call, error)
	Wait()
	View() orchestrator.View
}

// Command defines the interface for CLI commands.
type Command interface {
	// Name returns the primary command name.
	Name() string

	// Aliases returns alternative names for the command.
	Aliases() []string

	// Synopsis returns a short description for help output.
	Synopsis() string

	// Usage returns the usage string for help output.
	Usage() string

	// NeedsSession returns true if the command operates on the task list.
	// Commands like help, version, login, logout return false.
	NeedsSession() bool

	// RegisterFlags registers command-specific flags.
	RegisterFlags(fs *flag.FlagSet)

	// Run executes the command.
	// cfg is always provided.
	// sess is nil if NeedsSession() returns false.
	// args contains positional arguments after flag parsing.
	// Returns exit code.
	Run(ctx context.Context, cfg *config.Config, sess Session, args []string, out, errOut io.Writer) int
}
