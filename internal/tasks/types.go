package tasks

import "errors"

var (
	ErrTaskNotFound    = errors.New("task not found")
	ErrSubtaskNotFound = errors.New("subtask not found")
	ErrInvalidProgress = errors.New("progress must be between 0 and 100")
	ErrNoTasks         = errors.New("no tasks recorded")
)

// DeleteAllSentinel, given in place of a subtask name, deletes the whole
// task together with its subtasks.
const DeleteAllSentinel = "all"

// Task is one named task for a user. Progress is only meaningful while the
// task has no subtasks; otherwise the effective progress is derived from them.
type Task struct {
	Progress int            `json:"progress"`
	Subtasks map[string]int `json:"subtasks"`
}

// Hierarchy is one user's full set of tasks keyed by task name.
type Hierarchy map[string]*Task

func NewHierarchy() Hierarchy {
	return make(Hierarchy)
}

// EffectiveProgress is the task's own progress when it has no subtasks,
// otherwise the mean of its subtask progress values.
func (t *Task) EffectiveProgress() int {
	if len(t.Subtasks) == 0 {
		return t.Progress
	}
	sum := 0
	for _, p := range t.Subtasks {
		sum += p
	}
	return sum / len(t.Subtasks)
}

func (t *Task) Clone() *Task {
	out := &Task{Progress: t.Progress, Subtasks: make(map[string]int, len(t.Subtasks))}
	for name, p := range t.Subtasks {
		out.Subtasks[name] = p
	}
	return out
}

func (h Hierarchy) Clone() Hierarchy {
	out := make(Hierarchy, len(h))
	for name, t := range h {
		out[name] = t.Clone()
	}
	return out
}

func validProgress(p int) bool {
	return p >= 0 && p <= 100
}
