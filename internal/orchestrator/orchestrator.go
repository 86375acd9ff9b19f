// Package orchestrator coordinates task intents with the action tracker and
// the remote confirmation gateway. It owns the task store and the tracker;
// readers get a View.
package orchestrator

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"sync"

	"github.com/google/uuid"

	"todo/internal/gateway"
	"todo/internal/task"
	"todo/internal/tracker"
)

// ErrAlreadyInFlight is returned when an action is requested for a
// (task, kind) pair that already has an outstanding gateway call.
var ErrAlreadyInFlight = errors.New("already in flight")

// ErrEmptyTitle is returned by Create for a blank title.
var ErrEmptyTitle = errors.New("title required")

// Orchestrator applies intents. All methods are safe for concurrent use.
type Orchestrator struct {
	store   *task.Store
	tracker *tracker.Tracker
	gw      gateway.Gateway
	logger  *slog.Logger

	// mu serializes intent acceptance and guards inflight.
	mu       sync.Mutex
	settled  *sync.Cond
	inflight int
}

// Option configures an Orchestrator.
type Option func(*Orchestrator)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(o *Orchestrator) {
		if l != nil {
			o.logger = l
		}
	}
}

// WithTracker injects an existing tracker (for testing).
func WithTracker(t *tracker.Tracker) Option {
	return func(o *Orchestrator) {
		if t != nil {
			o.tracker = t
		}
	}
}

// New creates an orchestrator owning store.
func New(store *task.Store, gw gateway.Gateway, opts ...Option) *Orchestrator {
	o := &Orchestrator{
		store:   store,
		tracker: tracker.New(),
		gw:      gw,
		logger:  slog.Default(),
	}
	o.settled = sync.NewCond(&o.mu)
	for _, opt := range opts {
		opt(o)
	}
	return o
}

// Add creates a task. Returns false when the trimmed title is empty.
func (o *Orchestrator) Add(title string) (task.Task, bool) {
	t, ok := o.store.Add(title)
	if ok {
		o.logger.Debug("task added", "task_id", t.ID, "title", t.Title)
	}
	return t, ok
}

// Create adds a task. When the gateway is a gateway.Registrar the task is
// registered remotely first and linked to the returned ref; a registration
// failure adds nothing and is returned as a *gateway.RemoteFailure.
func (o *Orchestrator) Create(ctx context.Context, title string) (task.Task, error) {
	title = strings.TrimSpace(title)
	if title == "" {
		return task.Task{}, ErrEmptyTitle
	}
	reg, ok := o.gw.(gateway.Registrar)
	if !ok {
		t, _ := o.Add(title)
		return t, nil
	}

	ref, err := reg.Register(ctx, title)
	if err != nil {
		rf := gateway.AsRemoteFailure(err)
		o.logger.Warn("remote registration failed", "title", title, "status", rf.StatusCode, "error", rf)
		return task.Task{}, rf
	}
	t, _ := o.store.AddWithRef(title, ref)
	o.logger.Debug("task added", "task_id", t.ID, "title", t.Title, "ref", t.Ref)
	return t, nil
}

// Seed fills the store. With a gateway.Registrar the open remote tasks are
// loaded and fallback is ignored; otherwise fallback titles are seeded.
func (o *Orchestrator) Seed(ctx context.Context, fallback ...string) error {
	reg, ok := o.gw.(gateway.Registrar)
	if !ok {
		o.store.Seed(fallback...)
		return nil
	}
	open, err := reg.Open(ctx)
	if err != nil {
		return fmt.Errorf("load remote tasks: %w", err)
	}
	for _, rt := range open {
		o.store.SeedRef(rt.Title, rt.Ref)
	}
	return nil
}

// RequestComplete confirms completion remotely and marks the task done on
// success. It blocks until the gateway settles. The only error is
// ErrAlreadyInFlight; remote failures are recorded in the tracker.
func (o *Orchestrator) RequestComplete(ctx context.Context, id int64) error {
	return o.request(ctx, tracker.Complete, id)
}

// RequestDelete confirms deletion remotely and removes the task on success.
// Same contract as RequestComplete.
func (o *Orchestrator) RequestDelete(ctx context.Context, id int64) error {
	return o.request(ctx, tracker.Delete, id)
}

func (o *Orchestrator) request(ctx context.Context, kind tracker.Kind, id int64) error {
	call, err := o.Start(ctx, kind, id)
	if err != nil {
		return err
	}
	<-call.Done()
	return nil
}

// Start accepts an intent and returns without waiting for the gateway.
// Rejection with ErrAlreadyInFlight is synchronous and issues no call.
// Once accepted the call always runs to settlement; cancelling ctx does not
// abort it.
func (o *Orchestrator) Start(ctx context.Context, kind tracker.Kind, id int64) (*Call, error) {
	o.mu.Lock()
	lease, err := o.tracker.Acquire(id, kind)
	if err != nil {
		o.mu.Unlock()
		if errors.Is(err, tracker.ErrAlreadyPending) {
			o.logger.Debug("intent rejected", "task_id", id, "action", kind.String())
			return nil, fmt.Errorf("%s task %d: %w", kind, id, ErrAlreadyInFlight)
		}
		return nil, err
	}
	o.inflight++
	o.mu.Unlock()

	t, _ := o.store.Get(id)
	req := gateway.Request{
		Action:    actionFor(kind),
		TaskID:    id,
		Ref:       t.Ref,
		RequestID: uuid.NewString(),
	}
	call := &Call{Kind: kind, TaskID: id, RequestID: req.RequestID, done: make(chan struct{})}

	o.logger.Debug("intent accepted", "task_id", id, "action", kind.String(), "request_id", req.RequestID)
	go o.run(context.WithoutCancel(ctx), lease, req, call)
	return call, nil
}

// run performs the gateway call. The lease is released on every exit path,
// including a panicking gateway.
func (o *Orchestrator) run(ctx context.Context, lease *tracker.Lease, req gateway.Request, call *Call) {
	var err error
	defer o.done()
	defer close(call.done)
	defer func() {
		if r := recover(); r != nil {
			err = &gateway.RemoteFailure{Err: fmt.Errorf("gateway panic: %v", r)}
		}
		if err != nil {
			o.logger.Warn("remote confirmation failed",
				"task_id", req.TaskID,
				"action", string(req.Action),
				"request_id", req.RequestID,
				"status", gateway.StatusCode(err),
				"error", err,
			)
		}
		call.err = err
		lease.Release(err)
	}()

	err = o.confirm(ctx, req)
	if err != nil {
		return
	}
	o.apply(req)
}

func (o *Orchestrator) confirm(ctx context.Context, req gateway.Request) error {
	if err := o.gw.Confirm(ctx, req); err != nil {
		return gateway.AsRemoteFailure(err)
	}
	return nil
}

// apply mutates the store after a confirmed success.
func (o *Orchestrator) apply(req gateway.Request) {
	switch req.Action {
	case gateway.ActionComplete:
		o.store.MarkDone(req.TaskID)
		o.logger.Debug("task completed", "task_id", req.TaskID, "request_id", req.RequestID)
	case gateway.ActionDelete:
		o.store.Remove(req.TaskID)
		o.tracker.Forget(req.TaskID)
		o.logger.Debug("task deleted", "task_id", req.TaskID, "request_id", req.RequestID)
	}
}

func (o *Orchestrator) done() {
	o.mu.Lock()
	o.inflight--
	if o.inflight == 0 {
		o.settled.Broadcast()
	}
	o.mu.Unlock()
}

// Wait blocks until no accepted call is outstanding. Calls started while
// Wait is blocked are waited for too.
func (o *Orchestrator) Wait() {
	o.mu.Lock()
	for o.inflight > 0 {
		o.settled.Wait()
	}
	o.mu.Unlock()
}

// View returns a read-only handle on the current state.
func (o *Orchestrator) View() View {
	return View{store: o.store, tracker: o.tracker}
}

func actionFor(kind tracker.Kind) gateway.Action {
	if kind == tracker.Delete {
		return gateway.ActionDelete
	}
	return gateway.ActionComplete
}

// Call is an accepted intent whose gateway call may still be outstanding.
type Call struct {
	Kind      tracker.Kind
	TaskID    int64
	RequestID string

	done chan struct{}
	err  error
}

// Done is closed once the call has settled and the tracker is updated.
func (c *Call) Done() <-chan struct{} { return c.done }

// Err returns the remote failure, or nil on success. Only valid after Done
// is closed.
func (c *Call) Err() error {
	select {
	case <-c.done:
		return c.err
	default:
		return nil
	}
}
