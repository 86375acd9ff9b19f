// Package task holds the ordered, in-memory collection of tasks.
package task

import (
	"iter"
	"strings"
	"sync"
	"time"
)

// Task represents a single task item.
type Task struct {
	ID    int64
	Title string
	Done  bool

	// Ref is the remote identifier forwarded to the gateway.
	// Empty means the decimal ID is used.
	Ref string
}

// Store is an ordered sequence of tasks. Insertion order is display order.
// It is safe for concurrent use.
type Store struct {
	mu     sync.RWMutex
	tasks  []Task
	lastID int64
	now    func() time.Time
}

// NewStore creates an empty store using the wall clock for IDs.
func NewStore() *Store {
	return NewStoreWithClock(time.Now)
}

// NewStoreWithClock creates an empty store with a custom clock (for testing).
func NewStoreWithClock(now func() time.Time) *Store {
	if now == nil {
		now = time.Now
	}
	return &Store{now: now}
}

// Seed appends tasks with IDs 1..n, continuing from the last issued ID.
// Empty titles are skipped.
func (s *Store) Seed(titles ...string) {
	for _, title := range titles {
		s.SeedRef(title, "")
	}
}

// SeedRef appends one seeded task linked to a remote identifier. It takes
// the next sequential ID rather than a clock-based one.
func (s *Store) SeedRef(title, ref string) (Task, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Task{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	s.lastID++
	t := Task{ID: s.lastID, Title: title, Ref: strings.TrimSpace(ref)}
	s.tasks = append(s.tasks, t)
	return t, true
}

// Add appends a new open task. Returns false if the trimmed title is empty.
func (s *Store) Add(title string) (Task, bool) {
	return s.AddWithRef(title, "")
}

// AddWithRef is like Add but links the task to a remote identifier.
func (s *Store) AddWithRef(title, ref string) (Task, bool) {
	title = strings.TrimSpace(title)
	if title == "" {
		return Task{}, false
	}
	s.mu.Lock()
	defer s.mu.Unlock()
	t := Task{ID: s.freshID(), Title: title, Ref: strings.TrimSpace(ref)}
	s.tasks = append(s.tasks, t)
	return t, true
}

// freshID returns max(now in ms, last+1). Caller holds mu.
func (s *Store) freshID() int64 {
	id := s.now().UnixMilli()
	if id <= s.lastID {
		id = s.lastID + 1
	}
	s.lastID = id
	return id
}

// MarkDone sets Done on the task with the given id. No-op if absent.
func (s *Store) MarkDone(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		s.tasks[i].Done = true
	}
}

// Remove deletes the task with the given id. No-op if absent.
func (s *Store) Remove(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	if i := s.indexOf(id); i >= 0 {
		s.tasks = append(s.tasks[:i], s.tasks[i+1:]...)
	}
}

func (s *Store) indexOf(id int64) int {
	for i, t := range s.tasks {
		if t.ID == id {
			return i
		}
	}
	return -1
}

// Get returns the task with the given id.
func (s *Store) Get(id int64) (Task, bool) {
	s.mu.RLock()
	defer s.mu.RUnlock()
	if i := s.indexOf(id); i >= 0 {
		return s.tasks[i], true
	}
	return Task{}, false
}

// All returns a copy of every task in insertion order.
func (s *Store) All() []Task {
	s.mu.RLock()
	defer s.mu.RUnlock()
	out := make([]Task, len(s.tasks))
	copy(out, s.tasks)
	return out
}

// Len returns the number of tasks, done or not.
func (s *Store) Len() int {
	s.mu.RLock()
	defer s.mu.RUnlock()
	return len(s.tasks)
}

// Active yields open tasks in insertion order.
// Each range takes a fresh snapshot, so the sequence can be restarted.
func (s *Store) Active() iter.Seq[Task] {
	return func(yield func(Task) bool) {
		for _, t := range s.All() {
			if t.Done {
				continue
			}
			if !yield(t) {
				return
			}
		}
	}
}
