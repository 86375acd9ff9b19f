package cli

import (
	"bufio"
	"context"
	"fmt"
	"io"
	"strings"

	"todo/internal/exitcode"
)

// Shell feeds intent lines from a reader to a Dispatcher.
type Shell struct {
	d      *Dispatcher
	prompt string
}

// NewShell creates a shell. An empty prompt disables prompting, which is
// what scripts and pipes want.
func NewShell(d *Dispatcher, prompt string) *Shell {
	return &Shell{d: d, prompt: prompt}
}

// Run reads lines from in until EOF, "exit" or "quit", dispatching each one.
// Blank lines and lines starting with '#' are skipped. Outstanding calls are
// waited for before returning. The exit code is that of the last failing
// line, or Success.
func (s *Shell) Run(ctx context.Context, in io.Reader, out, errOut io.Writer) int {
	defer s.d.Wait()

	code := exitcode.Success
	sc := bufio.NewScanner(in)
	for {
		if ctx.Err() != nil {
			return code
		}
		if s.prompt != "" {
			fmt.Fprint(out, s.prompt)
		}
		if !sc.Scan() {
			break
		}

		line := strings.TrimSpace(sc.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		if line == "exit" || line == "quit" {
			return code
		}

		args, err := SplitLine(line)
		if err != nil {
			fmt.Fprintf(errOut, "error: %v\n", err)
			code = exitcode.UserError
			continue
		}
		if c := s.d.Run(ctx, args, out, errOut); c != exitcode.Success {
			code = c
		}
	}
	if err := sc.Err(); err != nil && ctx.Err() == nil {
		fmt.Fprintf(errOut, "error: %v\n", err)
		return exitcode.UserError
	}
	return code
}

// SplitLine splits an intent line into words. Single and double quotes group
// words; a backslash escapes the next character outside single quotes.
func SplitLine(line string) ([]string, error) {
	var (
		words   []string
		cur     strings.Builder
		inWord  bool
		quote   rune
		escaped bool
	)
	for _, r := range line {
		switch {
		case escaped:
			cur.WriteRune(r)
			escaped = false
		case r == '\\' && quote != '\'':
			escaped = true
			inWord = true
		case quote != 0:
			if r == quote {
				quote = 0
			} else {
				cur.WriteRune(r)
			}
		case r == '\'' || r == '"':
			quote = r
			inWord = true
		case r == ' ' || r == '\t':
			if inWord {
				words = append(words, cur.String())
				cur.Reset()
				inWord = false
			}
		default:
			cur.WriteRune(r)
			inWord = true
		}
	}
	if quote != 0 {
		return nil, fmt.Errorf("unterminated %c quote", quote)
	}
	if escaped {
		return nil, fmt.Errorf("trailing backslash")
	}
	if inWord {
		words = append(words, cur.String())
	}
	return words, nil
}
