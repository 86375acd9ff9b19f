// Package tracker records the asynchronous status of each (task, action) pair.
package tracker

import (
	"errors"
	"fmt"
	"sync"
)

// Kind is an action a task supports. Complete and Delete are tracked
// independently.
type Kind int

const (
	Complete Kind = iota
	Delete
)

// Kinds lists every action kind in display order.
var Kinds = []Kind{Complete, Delete}

func (k Kind) String() string {
	switch k {
	case Complete:
		return "complete"
	case Delete:
		return "delete"
	default:
		return fmt.Sprintf("kind(%d)", int(k))
	}
}

// Status is the state of one (task, action) slot.
type Status int

const (
	Idle Status = iota
	Pending
	Errored
)

func (s Status) String() string {
	switch s {
	case Idle:
		return "idle"
	case Pending:
		return "pending"
	case Errored:
		return "errored"
	default:
		return fmt.Sprintf("status(%d)", int(s))
	}
}

// Key identifies a status slot.
type Key struct {
	TaskID int64
	Kind   Kind
}

// ErrAlreadyPending is returned by Begin when the slot already has an
// outstanding call.
var ErrAlreadyPending = errors.New("already pending")

type slot struct {
	status  Status
	failure error
}

// Tracker maps (task, kind) to a Status. Absent keys read as Idle.
// It is safe for concurrent use.
type Tracker struct {
	mu    sync.RWMutex
	slots map[Key]slot
}

// New creates an empty tracker.
func New() *Tracker {
	return &Tracker{slots: make(map[Key]slot)}
}

// allowed reports whether from -> to is a legal transition.
// Fail is handled separately since it is reachable from any state.
func allowed(from, to Status) bool {
	switch from {
	case Idle, Errored:
		return to == Pending
	case Pending:
		return to == Idle || to == Errored
	default:
		return false
	}
}

// Begin moves the slot to Pending.
func (t *Tracker) Begin(id int64, kind Kind) error {
	t.mu.Lock()
	defer t.mu.Unlock()
	k := Key{id, kind}
	cur := t.slots[k].status
	if cur == Pending {
		return fmt.Errorf("%s task %d: %w", kind, id, ErrAlreadyPending)
	}
	if !allowed(cur, Pending) {
		return fmt.Errorf("%s task %d: disallowed transition %s -> %s", kind, id, cur, Pending)
	}
	t.slots[k] = slot{status: Pending}
	return nil
}

// Succeed moves the slot to Idle and clears any stored failure.
func (t *Tracker) Succeed(id int64, kind Kind) {
	t.mu.Lock()
	defer t.mu.Unlock()
	delete(t.slots, Key{id, kind})
}

// Fail moves the slot to Errored and keeps cause for display.
func (t *Tracker) Fail(id int64, kind Kind, cause error) {
	t.mu.Lock()
	defer t.mu.Unlock()
	t.slots[Key{id, kind}] = slot{status: Errored, failure: cause}
}

// StatusOf returns the slot status; Idle for unknown pairs.
func (t *Tracker) StatusOf(id int64, kind Kind) Status {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.slots[Key{id, kind}].status
}

// Failure returns the cause recorded by the last Fail, or nil.
func (t *Tracker) Failure(id int64, kind Kind) error {
	t.mu.RLock()
	defer t.mu.RUnlock()
	return t.slots[Key{id, kind}].failure
}

// Forget drops every non-pending slot for a task.
func (t *Tracker) Forget(id int64) {
	t.mu.Lock()
	defer t.mu.Unlock()
	for _, kind := range Kinds {
		k := Key{id, kind}
		if t.slots[k].status != Pending {
			delete(t.slots, k)
		}
	}
}

// Lease is a held Pending slot. Release settles it exactly once.
type Lease struct {
	t    *Tracker
	key  Key
	once sync.Once
}

// Acquire begins the slot and returns a lease that must be released on every
// exit path, usually with defer.
func (t *Tracker) Acquire(id int64, kind Kind) (*Lease, error) {
	if err := t.Begin(id, kind); err != nil {
		return nil, err
	}
	return &Lease{t: t, key: Key{id, kind}}, nil
}

// Key returns the slot the lease holds.
func (l *Lease) Key() Key { return l.key }

// Release settles the slot: Idle when err is nil, Errored otherwise.
// Calls after the first are ignored.
func (l *Lease) Release(err error) {
	l.once.Do(func() {
		if err != nil {
			l.t.Fail(l.key.TaskID, l.key.Kind, err)
			return
		}
		l.t.Succeed(l.key.TaskID, l.key.Kind)
	})
}
