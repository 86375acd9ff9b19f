package orchestrator

import (
	"iter"

	"todo/internal/task"
	"todo/internal/tracker"
)

// View is the read handle given to the presentation layer.
type View struct {
	store   *task.Store
	tracker *tracker.Tracker
}

// Active yields open tasks in display order. Restartable.
func (v View) Active() iter.Seq[task.Task] {
	return v.store.Active()
}

// Tasks returns a snapshot of every task, done or not.
func (v View) Tasks() []task.Task {
	return v.store.All()
}

// Task looks up a task by id.
func (v View) Task(id int64) (task.Task, bool) {
	return v.store.Get(id)
}

// StatusOf returns the action status for a task.
func (v View) StatusOf(id int64, kind tracker.Kind) tracker.Status {
	return v.tracker.StatusOf(id, kind)
}

// Failure returns the last remote failure for an errored pair, or nil.
func (v View) Failure(id int64, kind tracker.Kind) error {
	return v.tracker.Failure(id, kind)
}
