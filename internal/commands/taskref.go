package commands

import (
	"errors"
	"fmt"
	"strconv"
	"strings"
	"unicode"

	"todo/internal/orchestrator"
)

// TaskRef represents a parsed task reference.
type TaskRef struct {
	Num  int   // 1-based position in the active list, 0 if ByID
	ID   int64 // task id, 0 unless ByID
	ByID bool  // true for "#<id>" references
}

// ErrTaskRefRequired indicates no task reference was provided.
var ErrTaskRefRequired = errors.New("task reference required")

// ParseTaskRef parses a task reference from args.
//
// Accepted forms:
//  1. "<digits>"  → N-th active task, as numbered by list
//  2. "#<digits>" → task with that id
//
// Anything else → error: invalid task reference: <ref>
func ParseTaskRef(args []string) (TaskRef, error) {
	if len(args) == 0 {
		return TaskRef{}, ErrTaskRefRequired
	}
	arg := args[0]

	if isAllDigits(arg) {
		num, err := strconv.Atoi(arg)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		return TaskRef{Num: num}, nil
	}

	if rest, ok := strings.CutPrefix(arg, "#"); ok && isAllDigits(rest) {
		id, err := strconv.ParseInt(rest, 10, 64)
		if err != nil {
			return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
		}
		return TaskRef{ID: id, ByID: true}, nil
	}

	return TaskRef{}, fmt.Errorf("invalid task reference: %s", arg)
}

// Resolve maps the reference to a task id using the current view.
func (r TaskRef) Resolve(v orchestrator.View) (int64, error) {
	if r.ByID {
		if _, ok := v.Task(r.ID); !ok {
			return 0, fmt.Errorf("task not found: #%d", r.ID)
		}
		return r.ID, nil
	}
	if r.Num < 1 {
		return 0, fmt.Errorf("task number out of range: %d", r.Num)
	}
	n := 0
	for t := range v.Active() {
		n++
		if n == r.Num {
			return t.ID, nil
		}
	}
	return 0, fmt.Errorf("task number out of range: %d", r.Num)
}

// isAllDigits returns true if s consists only of ASCII digits and is non-empty.
func isAllDigits(s string) bool {
	if s == "" {
		return false
	}
	for _, r := range s {
		if r > unicode.MaxASCII || !unicode.IsDigit(r) {
			return false
		}
	}
	return true
}
