// Package main is the entry point for the todo CLI.
package main

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"os/signal"
	"syscall"

	"github.com/joho/godotenv"
	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"todo/internal/commands"
	"todo/internal/config"
	"todo/internal/exitcode"
)

// cfg is loaded once per process in PersistentPreRunE.
var cfg *config.Config

var rootCmd = &cobra.Command{
	Use:   "todo",
	Short: "Task list with remotely confirmed actions",
	Long: `todo keeps an in-memory task list. Completing or deleting a task asks a
remote endpoint to confirm first; the task changes only once that succeeds.

Run without arguments for an interactive session, or see "todo shell --help".`,
	Args:          cobra.NoArgs,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(viper.GetString("config"), viper.GetViper())
		if err != nil {
			fmt.Fprintf(cmd.ErrOrStderr(), "error: %v\n", err)
			return exitcode.Wrap(exitcode.AuthError)
		}
		slog.SetDefault(newLogger(cfg.Debug))
		return nil
	},
	RunE: func(cmd *cobra.Command, args []string) error {
		return runShell(cmd, "")
	},
}

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	cobra.OnInitialize(initConfig)
	addPersistentFlags()
	rootCmd.Version = commands.Version
	rootCmd.AddCommand(shellCmd, execCmd, demoCmd, configCmd)

	code := exitcode.Success
	if err := rootCmd.ExecuteContext(ctx); err != nil {
		var carried *exitcode.Error
		if !errors.As(err, &carried) {
			fmt.Fprintf(os.Stderr, "error: %v\n", err)
		}
		code = exitcode.FromError(err)
	}
	stop()
	os.Exit(code)
}

func initConfig() {
	// A missing .env is fine.
	_ = godotenv.Load()
}

func addPersistentFlags() {
	rootCmd.PersistentFlags().String("config", "", "config directory (default $XDG_CONFIG_HOME/todo)")
	rootCmd.PersistentFlags().BoolP("quiet", "q", false, "suppress informational output")
	rootCmd.PersistentFlags().Bool("debug", false, "log state transitions to stderr")
	_ = viper.BindPFlag("config", rootCmd.PersistentFlags().Lookup("config"))
	_ = viper.BindPFlag("quiet", rootCmd.PersistentFlags().Lookup("quiet"))
	_ = viper.BindPFlag("debug", rootCmd.PersistentFlags().Lookup("debug"))
}

func newLogger(debug bool) *slog.Logger {
	level := slog.LevelWarn
	if debug {
		level = slog.LevelDebug
	}
	return slog.New(slog.NewTextHandler(os.Stderr, &slog.HandlerOptions{Level: level}))
}
