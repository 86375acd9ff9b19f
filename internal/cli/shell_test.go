package cli_test

import (
	"bytes"
	"context"
	"reflect"
	"strings"
	"testing"
	"time"

	"todo/internal/cli"
	"todo/internal/exitcode"
	"todo/internal/gateway"
	"todo/internal/testutil"
)

const script = `# seeded: Buy bread, Call the doctor
list
add -q Walk the dog
done --wait 1
rm #2
wait

done 9
list
`

func TestShell_Script(t *testing.T) {
	gw := testutil.NewFakeGateway()
	gw.DeleteErr = &gateway.RemoteFailure{StatusCode: 500}
	sh := cli.NewShell(newDispatcher(t, testFactory(gw, nil)), "")

	var stdout, stderr bytes.Buffer
	code := sh.Run(context.Background(), strings.NewReader(script), &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d from the failing line, got %d", exitcode.UserError, code)
	}
	if stderr.String() != "error: task number out of range: 9\n" {
		t.Errorf("unexpected stderr %q", stderr.String())
	}
	testutil.GoldenString(t, "shell_script", stdout.String())
}

func TestShell_ExitStopsReading(t *testing.T) {
	sh := cli.NewShell(newDispatcher(t, testFactory(testutil.NewFakeGateway(), nil)), "> ")

	var stdout, stderr bytes.Buffer
	code := sh.Run(context.Background(), strings.NewReader("version\nexit\nversion\n"), &stdout, &stderr)

	if code != exitcode.Success {
		t.Errorf("expected exit code %d, got %d", exitcode.Success, code)
	}
	expected := "> todo 0.1.0\n> "
	if stdout.String() != expected {
		t.Errorf("expected %q, got %q", expected, stdout.String())
	}
}

func TestShell_WaitsAtEOF(t *testing.T) {
	gw := testutil.NewFakeGateway()
	gw.Hold(1, gateway.ActionComplete)
	sh := cli.NewShell(newDispatcher(t, testFactory(gw, nil)), "")

	go func() {
		for len(gw.Calls()) == 0 {
			time.Sleep(time.Millisecond)
		}
		gw.Release(1, gateway.ActionComplete)
	}()

	var stdout, stderr bytes.Buffer
	sh.Run(context.Background(), strings.NewReader("done 1\n"), &stdout, &stderr)

	if len(gw.Calls()) != 1 {
		t.Fatalf("expected one call, got %d", len(gw.Calls()))
	}
	if stdout.String() != "pending #1\n" {
		t.Errorf("unexpected stdout %q", stdout.String())
	}
}

func TestShell_UnterminatedQuote(t *testing.T) {
	sh := cli.NewShell(newDispatcher(t, testFactory(testutil.NewFakeGateway(), nil)), "")

	var stdout, stderr bytes.Buffer
	code := sh.Run(context.Background(), strings.NewReader(`add "Buy milk`+"\n"), &stdout, &stderr)

	if code != exitcode.UserError {
		t.Errorf("expected exit code %d, got %d", exitcode.UserError, code)
	}
	if stderr.String() != "error: unterminated \" quote\n" {
		t.Errorf("unexpected stderr %q", stderr.String())
	}
}

func TestSplitLine(t *testing.T) {
	tests := []struct {
		line string
		want []string
	}{
		{"list", []string{"list"}},
		{"  add   Buy   milk ", []string{"add", "Buy", "milk"}},
		{`add "Buy  milk"`, []string{"add", "Buy  milk"}},
		{`add 'it''s'`, []string{"add", "its"}},
		{`add don\'t`, []string{"add", "don't"}},
		{`add ''`, []string{"add", ""}},
		{"done\t#12", []string{"done", "#12"}},
	}
	for _, tt := range tests {
		got, err := cli.SplitLine(tt.line)
		if err != nil {
			t.Errorf("SplitLine(%q): unexpected error %v", tt.line, err)
			continue
		}
		if !reflect.DeepEqual(got, tt.want) {
			t.Errorf("SplitLine(%q) = %q, want %q", tt.line, got, tt.want)
		}
	}
}
