// Package gateway defines the remote confirmation boundary used by every
// task action. Implementations decide the transport; callers only see
// success (nil) or a *RemoteFailure.
package gateway

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"strconv"
)

// Action is the remote operation being confirmed.
type Action string

const (
	ActionComplete Action = "complete"
	ActionDelete   Action = "delete"
)

// Request describes one confirmation call.
type Request struct {
	Action Action
	TaskID int64

	// Ref is the remote identifier of the task, if known.
	Ref string

	// RequestID correlates logs and transport headers.
	RequestID string
}

// RemoteRef returns Ref, or the decimal task ID when Ref is empty.
func (r Request) RemoteRef() string {
	if r.Ref != "" {
		return r.Ref
	}
	return strconv.FormatInt(r.TaskID, 10)
}

// Gateway confirms an action remotely. It settles exactly once per call,
// does not retry, and applies no timeout of its own.
type Gateway interface {
	Confirm(ctx context.Context, req Request) error
}

// RemoteTask is an open task as the remote side knows it.
type RemoteTask struct {
	Ref   string
	Title string
}

// Registrar is implemented by gateways whose remote side owns task
// identity. Tasks must be registered before their actions can be confirmed.
type Registrar interface {
	// Register creates the task remotely and returns its remote identifier.
	Register(ctx context.Context, title string) (ref string, err error)

	// Open lists the remote tasks that are not completed.
	Open(ctx context.Context) ([]RemoteTask, error)
}

// Func adapts a function to Gateway.
type Func func(ctx context.Context, req Request) error

// Confirm implements Gateway.
func (f Func) Confirm(ctx context.Context, req Request) error {
	return f(ctx, req)
}

// RemoteFailure is a non-success outcome. StatusCode is 0 for transport
// faults that never produced a response.
type RemoteFailure struct {
	StatusCode int
	Err        error
}

func (e *RemoteFailure) Error() string {
	switch {
	case e.StatusCode == 0 && e.Err != nil:
		return fmt.Sprintf("remote failure: %v", e.Err)
	case e.Err != nil:
		return fmt.Sprintf("remote failure: status %d: %v", e.StatusCode, e.Err)
	default:
		return fmt.Sprintf("remote failure: status %d", e.StatusCode)
	}
}

func (e *RemoteFailure) Unwrap() error { return e.Err }

// AsRemoteFailure converts any error into a *RemoteFailure.
// Nil stays nil.
func AsRemoteFailure(err error) *RemoteFailure {
	if err == nil {
		return nil
	}
	var rf *RemoteFailure
	if errors.As(err, &rf) {
		return rf
	}
	return &RemoteFailure{Err: err}
}

// StatusCode returns the remote status code carried by err, or 0.
func StatusCode(err error) int {
	var rf *RemoteFailure
	if errors.As(err, &rf) {
		return rf.StatusCode
	}
	return 0
}

// Static always settles with the same outcome: 2xx codes succeed,
// anything else fails with that status.
type Static struct {
	StatusCode int
}

// Confirm implements Gateway.
func (s Static) Confirm(ctx context.Context, req Request) error {
	if err := ctx.Err(); err != nil {
		return &RemoteFailure{Err: err}
	}
	if s.StatusCode >= http.StatusOK && s.StatusCode < http.StatusMultipleChoices {
		return nil
	}
	return &RemoteFailure{StatusCode: s.StatusCode}
}
