package tasks

import "sort"

// ChartRow is one bar of the progress chart: a task followed by its
// subtasks, already flattened for the renderer.
type ChartRow struct {
	Label    string `json:"label"`
	Progress int    `json:"progress"`
	Subtask  bool   `json:"subtask"`
}

// ChartRows flattens the hierarchy into renderer rows. Each task row shows
// its effective progress and is immediately followed by its subtask rows.
// Tasks and subtasks are ordered by name so the output is deterministic.
func ChartRows(h Hierarchy) ([]ChartRow, error) {
	if len(h) == 0 {
		return nil, ErrNoTasks
	}

	taskNames := make([]string, 0, len(h))
	for name := range h {
		taskNames = append(taskNames, name)
	}
	sort.Strings(taskNames)

	var rows []ChartRow
	for _, name := range taskNames {
		t := h[name]
		rows = append(rows, ChartRow{Label: name, Progress: t.EffectiveProgress()})

		subNames := make([]string, 0, len(t.Subtasks))
		for sub := range t.Subtasks {
			subNames = append(subNames, sub)
		}
		sort.Strings(subNames)
		for _, sub := range subNames {
			rows = append(rows, ChartRow{Label: sub, Progress: t.Subtasks[sub], Subtask: true})
		}
	}
	return rows, nil
}
