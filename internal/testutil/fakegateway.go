// Package testutil provides testing utilities.
package testutil

import (
	"context"
	"sync"

	"todo/internal/gateway"
)

// FakeGateway is an in-memory gateway.Gateway for testing.
type FakeGateway struct {
	mu    sync.Mutex
	calls []gateway.Request
	gates map[gateKey]chan struct{}
	seen  map[gateKey]chan struct{}

	// Error injection for testing. A nil entry succeeds.
	CompleteErr error
	DeleteErr   error

	// Panic makes Confirm panic with this value when non-nil.
	Panic any
}

type gateKey struct {
	taskID int64
	action gateway.Action
}

// NewFakeGateway creates a gateway that confirms everything.
func NewFakeGateway() *FakeGateway {
	return &FakeGateway{
		gates: make(map[gateKey]chan struct{}),
		seen:  make(map[gateKey]chan struct{}),
	}
}

// FailWith makes both actions fail with the given status code.
func (f *FakeGateway) FailWith(status int) *FakeGateway {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.CompleteErr = &gateway.RemoteFailure{StatusCode: status}
	f.DeleteErr = &gateway.RemoteFailure{StatusCode: status}
	return f
}

// Hold makes calls for (taskID, action) block until Release.
func (f *FakeGateway) Hold(taskID int64, action gateway.Action) {
	f.mu.Lock()
	defer f.mu.Unlock()
	f.gates[gateKey{taskID, action}] = make(chan struct{})
}

// Release unblocks calls held for (taskID, action).
func (f *FakeGateway) Release(taskID int64, action gateway.Action) {
	f.mu.Lock()
	defer f.mu.Unlock()
	k := gateKey{taskID, action}
	if g, ok := f.gates[k]; ok {
		close(g)
		delete(f.gates, k)
	}
}

// Arrived returns a channel closed once a call for (taskID, action) has
// reached Confirm and been recorded.
func (f *FakeGateway) Arrived(taskID int64, action gateway.Action) <-chan struct{} {
	f.mu.Lock()
	defer f.mu.Unlock()
	return f.arrivalLocked(gateKey{taskID, action})
}

func (f *FakeGateway) arrivalLocked(k gateKey) chan struct{} {
	ch, ok := f.seen[k]
	if !ok {
		ch = make(chan struct{})
		f.seen[k] = ch
	}
	return ch
}

// Calls returns a copy of every request received, in arrival order.
func (f *FakeGateway) Calls() []gateway.Request {
	f.mu.Lock()
	defer f.mu.Unlock()
	return append([]gateway.Request(nil), f.calls...)
}

// Confirm implements gateway.Gateway.
func (f *FakeGateway) Confirm(ctx context.Context, req gateway.Request) error {
	f.mu.Lock()
	f.calls = append(f.calls, req)
	k := gateKey{req.TaskID, req.Action}
	gate := f.gates[k]
	arrived := f.arrivalLocked(k)
	select {
	case <-arrived:
	default:
		close(arrived)
	}
	completeErr, deleteErr, p := f.CompleteErr, f.DeleteErr, f.Panic
	f.mu.Unlock()

	if gate != nil {
		<-gate
	}
	if p != nil {
		panic(p)
	}
	if req.Action == gateway.ActionDelete {
		return deleteErr
	}
	return completeErr
}
