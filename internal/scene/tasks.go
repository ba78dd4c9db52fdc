package scene

import "github.com/vovakirdan/tui-brawl/internal/entity"

type taskKind uint8

const (
	taskSpawn taskKind = iota + 1
	taskDestroy
)

type task struct {
	kind   taskKind
	spawn  entity.Spawn
	target entity.Handle
}

// TaskQueue collects spawn and destroy requests made during a tick. They are
// applied in the order they were queued once every entity has stepped.
type TaskQueue struct {
	tasks []task
}

// Spawn queues the creation of an entity.
func (q *TaskQueue) Spawn(req entity.Spawn) {
	q.tasks = append(q.tasks, task{kind: taskSpawn, spawn: req})
}

// Destroy queues the removal of an entity.
func (q *TaskQueue) Destroy(h entity.Handle) {
	q.tasks = append(q.tasks, task{kind: taskDestroy, target: h})
}

// Len returns the number of queued tasks.
func (q *TaskQueue) Len() int {
	return len(q.tasks)
}

// drain hands every queued task to apply, in order, and empties the queue.
// Tasks queued by apply itself run in the same drain.
func (q *TaskQueue) drain(apply func(task)) {
	for i := 0; i < len(q.tasks); i++ {
		apply(q.tasks[i])
	}
	clear(q.tasks)
	q.tasks = q.tasks[:0]
}

var _ entity.Tasks = (*TaskQueue)(nil)
