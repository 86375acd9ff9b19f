package main

import (
	"context"
	"fmt"
	"io"
	"os"

	"github.com/spf13/cobra"

	"todo/internal/cli"
	"todo/internal/exitcode"
)

const prompt = "todo> "

var shellCmd = &cobra.Command{
	Use:   "shell",
	Short: "Run intent commands interactively or from a script",
	Long: `shell reads one intent command per line and runs it against a single
in-memory session seeded from the config. Type "help" for the command list,
"exit" to leave. With --script, lines are read from a file instead.`,
	Args: cobra.NoArgs,
	RunE: func(cmd *cobra.Command, args []string) error {
		script, _ := cmd.Flags().GetString("script")
		return runShell(cmd, script)
	},
}

var execCmd = &cobra.Command{
	Use:   "exec -- <command> [args...]",
	Short: "Run one intent command against a fresh session",
	Long: `exec runs a single intent command, waits for any confirmation it
started to settle, and exits with that command's code.`,
	Example: `  todo exec -- done --wait 1
  todo exec -- add "Water the plants"`,
	Args: cobra.MinimumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		d := newDispatcher()
		code := d.Run(cmd.Context(), args, cmd.OutOrStdout(), cmd.ErrOrStderr())
		d.Wait()
		return exitcode.Wrap(code)
	},
}

func init() {
	shellCmd.Flags().String("script", "", "read commands from file instead of stdin")
}

func runShell(cmd *cobra.Command, script string) error {
	var in io.Reader = cmd.InOrStdin()
	p := ""
	if script != "" {
		f, err := os.Open(script)
		if err != nil {
			return err
		}
		defer f.Close()
		in = f
	} else if isTerminal(os.Stdin) {
		p = prompt
		// Unblock the pending read on interrupt.
		release := context.AfterFunc(cmd.Context(), func() { _ = os.Stdin.Close() })
		defer release()
	}

	sh := cli.NewShell(newDispatcher(), p)
	code := sh.Run(cmd.Context(), in, cmd.OutOrStdout(), cmd.ErrOrStderr())
	if p != "" {
		// Leave the terminal on a fresh line after the last prompt.
		fmt.Fprintln(cmd.OutOrStdout())
	}
	return exitcode.Wrap(code)
}

func isTerminal(f *os.File) bool {
	fi, err := f.Stat()
	if err != nil {
		return false
	}
	return fi.Mode()&os.ModeCharDevice != 0
}
