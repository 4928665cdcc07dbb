// Package bot routes inbound transport events: it advances dialogues,
// replies with prompts and menus, and enqueues completed work items.
package bot

import (
	"context"
	"fmt"
	"strings"

	"github.com/google/uuid"

	"github.com/jwei512/taskline/internal/dialog"
	"github.com/jwei512/taskline/internal/observability"
	"github.com/jwei512/taskline/internal/protocol"
	"github.com/jwei512/taskline/internal/queue"
)

// MenuCommand is the free-text command that opens the main menu.
const MenuCommand = "menu"

type Router struct {
	dialogs *dialog.Registry
	queue   *queue.Queue
	metrics *observability.Metrics
}

func NewRouter(dialogs *dialog.Registry, q *queue.Queue, metrics *observability.Metrics) *Router {
	return &Router{dialogs: dialogs, queue: q, metrics: metrics}
}

// HandleEvent processes one inbound event and replies through rp. It never
// reads the task store directly; every read or mutation goes through the
// queue as a work item.
func (r *Router) HandleEvent(ctx context.Context, ev protocol.Event, rp protocol.Replier) error {
	switch ev.Type {
	case protocol.EventText:
		return r.handleText(ctx, ev, rp)
	case protocol.EventAction:
		return r.handleAction(ctx, ev, rp)
	default:
		return fmt.Errorf("unsupported event type %q", ev.Type)
	}
}

func (r *Router) handleText(ctx context.Context, ev protocol.Event, rp protocol.Replier) error {
	reply, values, active := r.dialogs.Advance(ev.UserID, ev.Text)
	if active {
		r.updateDialogGauge()
		if values == nil {
			return rp.Reply(ctx, ev.ReplyToken, []protocol.Message{protocol.TextMessage(reply)})
		}
		if r.metrics != nil {
			r.metrics.DialogEvents.WithLabelValues("completed").Inc()
		}
		return r.enqueue(*values, ev, rp)
	}

	if strings.EqualFold(strings.TrimSpace(ev.Text), MenuCommand) {
		return rp.Reply(ctx, ev.ReplyToken, []protocol.Message{mainMenu()})
	}
	return rp.Reply(ctx, ev.ReplyToken, []protocol.Message{
		protocol.TextMessage(fmt.Sprintf("Send %q to open the menu.", MenuCommand)),
	})
}

func (r *Router) handleAction(ctx context.Context, ev protocol.Event, rp protocol.Replier) error {
	switch ev.Action {
	case protocol.ActionTaskOperations:
		return rp.Reply(ctx, ev.ReplyToken, []protocol.Message{taskOperationsMenu()})

	case protocol.ActionCreateTask, protocol.ActionUpdateTask, protocol.ActionDeleteTask, protocol.ActionCalculator:
		prompt, ok := r.dialogs.Begin(ev.UserID, dialog.Action(ev.Action))
		if !ok {
			return rp.Reply(ctx, ev.ReplyToken, []protocol.Message{protocol.TextMessage("Unknown operation.")})
		}
		if r.metrics != nil {
			r.metrics.DialogEvents.WithLabelValues("started").Inc()
		}
		r.updateDialogGauge()
		return rp.Reply(ctx, ev.ReplyToken, []protocol.Message{protocol.TextMessage(prompt)})

	default:
		// Single-shot actions, including unrecognized ones: the worker owns
		// the unknown-action reply.
		return r.enqueueAction(queue.Action(ev.Action), queue.Params{}, ev, rp)
	}
}

func (r *Router) enqueue(v dialog.Values, ev protocol.Event, rp protocol.Replier) error {
	return r.enqueueAction(queue.Action(v.Action), queue.Params{
		TaskName:    v.TaskName,
		SubtaskName: v.SubtaskName,
		Progress:    v.Progress,
		Calc:        v.Calc,
	}, ev, rp)
}

func (r *Router) enqueueAction(action queue.Action, params queue.Params, ev protocol.Event, rp protocol.Replier) error {
	err := r.queue.Enqueue(queue.Item{
		ID:         uuid.NewString(),
		UserID:     ev.UserID,
		Action:     action,
		Params:     params,
		ReplyToken: ev.ReplyToken,
		Replier:    rp,
	})
	if err != nil {
		return rp.Reply(context.Background(), ev.ReplyToken, []protocol.Message{
			protocol.TextMessage("The service is shutting down. Please try again later."),
		})
	}
	if r.metrics != nil {
		r.metrics.QueueDepth.Set(float64(r.queue.Depth()))
	}
	return nil
}

func (r *Router) updateDialogGauge() {
	if r.metrics != nil {
		r.metrics.ActiveDialogs.Set(float64(r.dialogs.ActiveCount()))
	}
}

func mainMenu() protocol.Message {
	return protocol.ButtonsMessage("Pick an operation", "What would you like to do?",
		protocol.Button{Label: "Task operations", Action: protocol.ActionTaskOperations},
		protocol.Button{Label: "Progress chart", Action: protocol.ActionTaskChart},
		protocol.Button{Label: "Position calculator", Action: protocol.ActionCalculator},
	)
}

func taskOperationsMenu() protocol.Message {
	return protocol.ButtonsMessage("Task operations", "Pick one",
		protocol.Button{Label: "Create task", Action: protocol.ActionCreateTask},
		protocol.Button{Label: "Read tasks", Action: protocol.ActionReadTask},
		protocol.Button{Label: "Update task", Action: protocol.ActionUpdateTask},
		protocol.Button{Label: "Delete task", Action: protocol.ActionDeleteTask},
		protocol.Button{Label: "Reset tasks", Action: protocol.ActionResetTask},
	)
}
