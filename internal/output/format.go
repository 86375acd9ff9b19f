// Package output provides formatters for CLI output.
package output

import (
	"fmt"
	"io"
	"strconv"
	"strings"

	"github.com/jedib0t/go-pretty/v6/table"

	"todo/internal/gateway"
	"todo/internal/task"
	"todo/internal/tracker"
)

// StatusReader is the part of the session view the formatters need.
type StatusReader interface {
	StatusOf(id int64, kind tracker.Kind) tracker.Status
	Failure(id int64, kind tracker.Kind) error
}

// FormatTask formats a task line for the active list.
// Format: "{N:>4}  {TITLE}{MARKERS}\n"
func FormatTask(w io.Writer, num int, t task.Task, sr StatusReader) {
	fmt.Fprintf(w, "%4d  %s%s\n", num, normalizeTitle(t.Title), markers(t.ID, sr))
}

// markers renders the per-action indicators shown after a title:
// "[completing…]", "[✕ error 500]", "[deleting…]", "[✕ delete failed 500]".
func markers(id int64, sr StatusReader) string {
	if sr == nil {
		return ""
	}
	var b strings.Builder
	switch sr.StatusOf(id, tracker.Complete) {
	case tracker.Pending:
		b.WriteString("  [completing…]")
	case tracker.Errored:
		fmt.Fprintf(&b, "  [✕ error%s]", codeSuffix(sr.Failure(id, tracker.Complete)))
	}
	switch sr.StatusOf(id, tracker.Delete) {
	case tracker.Pending:
		b.WriteString("  [deleting…]")
	case tracker.Errored:
		fmt.Fprintf(&b, "  [✕ delete failed%s]", codeSuffix(sr.Failure(id, tracker.Delete)))
	}
	return b.String()
}

func codeSuffix(err error) string {
	if code := gateway.StatusCode(err); code != 0 {
		return " " + strconv.Itoa(code)
	}
	return ""
}

// StatusCell renders one action slot for the status table.
func StatusCell(sr StatusReader, id int64, kind tracker.Kind) string {
	st := sr.StatusOf(id, kind)
	if st == tracker.Errored {
		return st.String() + codeSuffix(sr.Failure(id, kind))
	}
	return st.String()
}

// StatusTable writes every task with both action slots as a table.
func StatusTable(w io.Writer, tasks []task.Task, sr StatusReader) {
	tw := table.NewWriter()
	tw.SetOutputMirror(w)
	tw.SetStyle(table.StyleLight)
	tw.AppendHeader(table.Row{"ID", "Title", "Done", "Complete", "Delete"})
	for _, t := range tasks {
		done := ""
		if t.Done {
			done = "yes"
		}
		tw.AppendRow(table.Row{
			t.ID,
			normalizeTitle(t.Title),
			done,
			StatusCell(sr, t.ID, tracker.Complete),
			StatusCell(sr, t.ID, tracker.Delete),
		})
	}
	tw.Render()
}

// normalizeTitle normalizes a task title for display.
// - Empty or whitespace-only titles become "(untitled)"
// - Newlines are replaced with spaces
func normalizeTitle(title string) string {
	title = strings.ReplaceAll(title, "\r", " ")
	title = strings.ReplaceAll(title, "\n", " ")

	if strings.TrimSpace(title) == "" {
		return "(untitled)"
	}
	return title
}
