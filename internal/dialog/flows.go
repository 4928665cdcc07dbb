// Package dialog tracks multi-turn input collection: one dialogue per user,
// advancing one field per inbound text event until the flow completes.
package dialog

import (
	"strconv"
	"strings"

	"github.com/jwei512/taskline/internal/calc"
)

// Action identifies which input flow a dialogue follows.
type Action string

const (
	ActionCreateTask Action = "create_task"
	ActionUpdateTask Action = "update_task"
	ActionDeleteTask Action = "delete_task"
	ActionCalculator Action = "calculator"
)

// NoSubtaskSentinel in the create flow means the progress value applies to
// the task itself rather than a subtask.
const NoSubtaskSentinel = "none"

// Values holds every field a completed dialogue can produce. Which fields
// are set depends on the action.
type Values struct {
	Action      Action
	TaskName    string
	SubtaskName string
	Progress    int
	Calc        calc.Input
}

// fieldSpec is one step of a flow: the prompt asking for the field, the
// re-prompt used when parsing fails, and the typed assignment.
type fieldSpec struct {
	prompt   string
	reprompt string
	assign   func(*Values, string) error
}

var flows = map[Action][]fieldSpec{
	ActionCreateTask: {
		{
			prompt: "Task name?",
			assign: func(v *Values, text string) error {
				v.TaskName = text
				return nil
			},
		},
		{
			prompt: "Subtask name? (or 'none')",
			assign: func(v *Values, text string) error {
				if strings.EqualFold(text, NoSubtaskSentinel) {
					v.SubtaskName = ""
					return nil
				}
				v.SubtaskName = text
				return nil
			},
		},
		{
			prompt:   "Progress? (0-100)",
			reprompt: "Please enter a whole number between 0 and 100.",
			assign:   assignProgress,
		},
	},
	ActionUpdateTask: {
		{
			prompt: "Task name?",
			assign: func(v *Values, text string) error {
				v.TaskName = text
				return nil
			},
		},
		{
			prompt: "Subtask name?",
			assign: func(v *Values, text string) error {
				v.SubtaskName = text
				return nil
			},
		},
		{
			prompt:   "New progress? (0-100)",
			reprompt: "Please enter a whole number between 0 and 100.",
			assign:   assignProgress,
		},
	},
	ActionDeleteTask: {
		{
			prompt: "Task name?",
			assign: func(v *Values, text string) error {
				v.TaskName = text
				return nil
			},
		},
		{
			prompt: "Subtask name? (or 'all' to delete the whole task)",
			assign: func(v *Values, text string) error {
				v.SubtaskName = text
				return nil
			},
		},
	},
	ActionCalculator: {
		{
			prompt:   "Current price?",
			reprompt: "Please enter a valid price.",
			assign: func(v *Values, text string) error {
				return assignFloat(&v.Calc.Price, text)
			},
		},
		{
			prompt:   "Expected loss percent? (5 means 5%)",
			reprompt: "Please enter a valid percentage.",
			assign: func(v *Values, text string) error {
				return assignFloat(&v.Calc.LossPercent, text)
			},
		},
		{
			prompt:   "Expected profit percent? (30 means 30%)",
			reprompt: "Please enter a valid percentage.",
			assign: func(v *Values, text string) error {
				return assignFloat(&v.Calc.ProfitPercent, text)
			},
		},
		{
			prompt:   "Total loss budget?",
			reprompt: "Please enter a valid amount.",
			assign: func(v *Values, text string) error {
				return assignFloat(&v.Calc.TotalLoss, text)
			},
		},
	},
}

func assignProgress(v *Values, text string) error {
	n, err := strconv.Atoi(strings.TrimSpace(text))
	if err != nil {
		return err
	}
	if n < 0 || n > 100 {
		return strconv.ErrRange
	}
	v.Progress = n
	return nil
}

func assignFloat(dst *float64, text string) error {
	f, err := strconv.ParseFloat(strings.TrimSpace(text), 64)
	if err != nil {
		return err
	}
	*dst = f
	return nil
}
