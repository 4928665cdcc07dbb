package tasks

import "fmt"

// Create makes the task if it does not exist yet, then records progress.
// With a subtask name it sets that subtask's progress, creating the entry;
// without one it sets the task's own progress. Re-running with the same
// arguments leaves the hierarchy in the same state.
func (h Hierarchy) Create(taskName, subtaskName string, progress int) error {
	if !validProgress(progress) {
		return ErrInvalidProgress
	}
	t, ok := h[taskName]
	if !ok {
		t = &Task{Subtasks: make(map[string]int)}
		h[taskName] = t
	}
	if t.Subtasks == nil {
		t.Subtasks = make(map[string]int)
	}
	if subtaskName != "" {
		t.Subtasks[subtaskName] = progress
		return nil
	}
	t.Progress = progress
	return nil
}

// Update sets the progress of an existing subtask. Unlike Create it never
// creates anything: a missing task or subtask is an error.
func (h Hierarchy) Update(taskName, subtaskName string, progress int) error {
	if !validProgress(progress) {
		return ErrInvalidProgress
	}
	t, ok := h[taskName]
	if !ok {
		return fmt.Errorf("%w: %q", ErrTaskNotFound, taskName)
	}
	if _, ok := t.Subtasks[subtaskName]; !ok {
		return fmt.Errorf("%w: %q under task %q", ErrSubtaskNotFound, subtaskName, taskName)
	}
	t.Subtasks[subtaskName] = progress
	return nil
}

// Delete removes a subtask, a whole task, or everything. An empty task name
// clears the hierarchy. An empty subtask name, or the DeleteAllSentinel,
// removes the task together with all its subtasks.
func (h Hierarchy) Delete(taskName, subtaskName string) error {
	if taskName == "" {
		h.Reset()
		return nil
	}
	t, ok := h[taskName]
	if !ok {
		return fmt.Errorf("%w: %q", ErrTaskNotFound, taskName)
	}
	if subtaskName == "" || subtaskName == DeleteAllSentinel {
		delete(h, taskName)
		return nil
	}
	if _, ok := t.Subtasks[subtaskName]; !ok {
		return fmt.Errorf("%w: %q under task %q", ErrSubtaskNotFound, subtaskName, taskName)
	}
	delete(t.Subtasks, subtaskName)
	return nil
}

// ReadTask returns a copy of one task.
func (h Hierarchy) ReadTask(taskName string) (*Task, error) {
	t, ok := h[taskName]
	if !ok {
		return nil, fmt.Errorf("%w: %q", ErrTaskNotFound, taskName)
	}
	return t.Clone(), nil
}

// ReadSubtask returns one subtask's progress value.
func (h Hierarchy) ReadSubtask(taskName, subtaskName string) (int, error) {
	t, ok := h[taskName]
	if !ok {
		return 0, fmt.Errorf("%w: %q", ErrTaskNotFound, taskName)
	}
	p, ok := t.Subtasks[subtaskName]
	if !ok {
		return 0, fmt.Errorf("%w: %q under task %q", ErrSubtaskNotFound, subtaskName, taskName)
	}
	return p, nil
}

// Reset drops every task unconditionally.
func (h Hierarchy) Reset() {
	for name := range h {
		delete(h, name)
	}
}
