package worker

import (
	"encoding/json"
	"errors"
	"fmt"
	"path/filepath"

	"github.com/jwei512/taskline/internal/calc"
	"github.com/jwei512/taskline/internal/protocol"
	"github.com/jwei512/taskline/internal/queue"
	"github.com/jwei512/taskline/internal/tasks"
)

// MenuHint trails every completed reply.
const MenuHint = "Send 'menu' whenever you need the menu again."

const (
	outcomeOK       = "ok"
	outcomeNotFound = "not_found"
	outcomeEmpty    = "empty"
	outcomeInvalid  = "invalid"
	outcomeUnknown  = "unknown_action"
)

// execute runs one operation against the loaded hierarchy and composes the
// reply. mutated reports whether the hierarchy must be persisted.
func (w *Worker) execute(item queue.Item, h tasks.Hierarchy) (msgs []protocol.Message, mutated bool, outcome string) {
	p := item.Params

	switch item.Action {
	case queue.ActionCreateTask:
		if err := h.Create(p.TaskName, p.SubtaskName, p.Progress); err != nil {
			return []protocol.Message{protocol.TextMessage(operationMessage(err, p))}, false, outcomeInvalid
		}
		return []protocol.Message{protocol.TextMessage(fmt.Sprintf("Task %q saved.", p.TaskName))}, true, outcomeOK

	case queue.ActionUpdateTask:
		if err := h.Update(p.TaskName, p.SubtaskName, p.Progress); err != nil {
			return []protocol.Message{protocol.TextMessage(operationMessage(err, p))}, false, failureOutcome(err)
		}
		return []protocol.Message{protocol.TextMessage(
			fmt.Sprintf("Subtask %q under task %q updated.", p.SubtaskName, p.TaskName))}, true, outcomeOK

	case queue.ActionDeleteTask:
		if err := h.Delete(p.TaskName, p.SubtaskName); err != nil {
			return []protocol.Message{protocol.TextMessage(operationMessage(err, p))}, false, failureOutcome(err)
		}
		return []protocol.Message{protocol.TextMessage(deleteMessage(p))}, true, outcomeOK

	case queue.ActionResetTask:
		h.Reset()
		return []protocol.Message{protocol.TextMessage("All tasks have been reset.")}, true, outcomeOK

	case queue.ActionReadTask:
		text, err := readSnapshot(h, p)
		if err != nil {
			return []protocol.Message{protocol.TextMessage(operationMessage(err, p))}, false, failureOutcome(err)
		}
		return []protocol.Message{protocol.TextMessage(text)}, false, outcomeOK

	case queue.ActionTaskChart:
		rows, err := tasks.ChartRows(h)
		if err != nil {
			return []protocol.Message{protocol.TextMessage("You have no tasks to chart yet.")}, false, outcomeEmpty
		}
		path, err := w.renderer.Render(item.UserID, rows)
		if err != nil {
			return []protocol.Message{protocol.TextMessage("The chart could not be generated.")}, false, "render_failed"
		}
		url := fmt.Sprintf("%s/static/%s/%s", w.publicBaseURL, item.UserID, filepath.Base(path))
		return []protocol.Message{protocol.ImageMessage(url)}, false, outcomeOK

	case queue.ActionCalculator:
		res, err := calc.PositionSize(p.Calc)
		if err != nil {
			return []protocol.Message{protocol.TextMessage("Loss percent cannot be zero.")}, false, outcomeInvalid
		}
		return []protocol.Message{protocol.TextMessage(calculatorMessage(p.Calc, res))}, false, outcomeOK

	default:
		return []protocol.Message{protocol.TextMessage("Unknown operation.")}, false, outcomeUnknown
	}
}

// readSnapshot returns the whole hierarchy, one task, or one subtask as
// indented JSON, mirroring what the store holds.
func readSnapshot(h tasks.Hierarchy, p queue.Params) (string, error) {
	var v any
	switch {
	case p.TaskName == "":
		v = h
	case p.SubtaskName == "":
		t, err := h.ReadTask(p.TaskName)
		if err != nil {
			return "", err
		}
		v = t
	default:
		progress, err := h.ReadSubtask(p.TaskName, p.SubtaskName)
		if err != nil {
			return "", err
		}
		v = map[string]int{p.SubtaskName: progress}
	}
	data, err := json.MarshalIndent(v, "", "  ")
	if err != nil {
		return "", err
	}
	return string(data), nil
}

func deleteMessage(p queue.Params) string {
	switch {
	case p.TaskName == "":
		return "All tasks deleted."
	case p.SubtaskName == "" || p.SubtaskName == tasks.DeleteAllSentinel:
		return fmt.Sprintf("Task %q and all its subtasks deleted.", p.TaskName)
	default:
		return fmt.Sprintf("Subtask %q deleted under task %q.", p.SubtaskName, p.TaskName)
	}
}

func operationMessage(err error, p queue.Params) string {
	switch {
	case errors.Is(err, tasks.ErrSubtaskNotFound):
		return fmt.Sprintf("Subtask %q does not exist under task %q.", p.SubtaskName, p.TaskName)
	case errors.Is(err, tasks.ErrTaskNotFound):
		return fmt.Sprintf("Task %q does not exist.", p.TaskName)
	case errors.Is(err, tasks.ErrInvalidProgress):
		return "Progress must be between 0 and 100."
	default:
		return "The operation could not be completed."
	}
}

func failureOutcome(err error) string {
	switch {
	case errors.Is(err, tasks.ErrTaskNotFound), errors.Is(err, tasks.ErrSubtaskNotFound):
		return outcomeNotFound
	case errors.Is(err, tasks.ErrInvalidProgress):
		return outcomeInvalid
	default:
		return "error"
	}
}

func calculatorMessage(in calc.Input, res calc.Result) string {
	return fmt.Sprintf(
		"Current price: %g\nStop-loss price: %g\nTake-profit price: %g\nLoss per unit: %g\nProfit per unit: %g\nPosition size: %g",
		in.Price, res.StopPrice, res.TargetPrice, res.LossPerUnit, res.ProfitPerUnit, res.Quantity)
}
