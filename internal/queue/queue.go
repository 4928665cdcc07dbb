// Package queue carries completed work items from the inbound event
// handlers to the single mutation worker.
package queue

import (
	"errors"
	"sync"

	"github.com/jwei512/taskline/internal/calc"
	"github.com/jwei512/taskline/internal/protocol"
)

var ErrStopped = errors.New("queue: stopped")

// Action names the operation a work item requests.
type Action string

const (
	ActionCreateTask Action = "create_task"
	ActionReadTask   Action = "read_task"
	ActionUpdateTask Action = "update_task"
	ActionDeleteTask Action = "delete_task"
	ActionResetTask  Action = "reset_task"
	ActionTaskChart  Action = "task_chart"
	ActionCalculator Action = "calculator"
)

// Params holds every field a work item can carry. Which fields are
// meaningful depends on the action.
type Params struct {
	TaskName    string
	SubtaskName string
	Progress    int
	Calc        calc.Input
}

// Item is one immutable unit of work. It carries everything the worker
// needs to execute and reply without touching dialogue state.
type Item struct {
	ID         string
	UserID     string
	Action     Action
	Params     Params
	ReplyToken string
	Replier    protocol.Replier

	stop bool
}

// Queue is a FIFO channel feeding exactly one worker. Enqueue may block
// when the buffer is full; ordering is arrival order with no priorities.
type Queue struct {
	items chan Item

	mu      sync.Mutex
	stopped bool
	pending sync.WaitGroup
}

func New(buffer int) *Queue {
	if buffer <= 0 {
		buffer = 128
	}
	return &Queue{items: make(chan Item, buffer)}
}

// Enqueue appends one item. It fails once Stop has been called so shutdown
// never races with late arrivals.
func (q *Queue) Enqueue(item Item) error {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return ErrStopped
	}
	q.pending.Add(1)
	q.mu.Unlock()

	q.items <- item
	return nil
}

// Dequeue blocks for the next item. It returns false when the stop
// sentinel is reached and the worker should exit.
func (q *Queue) Dequeue() (Item, bool) {
	item := <-q.items
	if item.stop {
		return Item{}, false
	}
	return item, true
}

// ItemDone marks one dequeued item as fully processed. The worker must call
// it exactly once per item so Drain can observe completion.
func (q *Queue) ItemDone() {
	q.pending.Done()
}

// Drain blocks until every item enqueued so far has been fully processed.
func (q *Queue) Drain() {
	q.pending.Wait()
}

// Stop rejects further enqueues and sends the stop sentinel. Items already
// queued ahead of the sentinel are still processed.
func (q *Queue) Stop() {
	q.mu.Lock()
	if q.stopped {
		q.mu.Unlock()
		return
	}
	q.stopped = true
	q.mu.Unlock()

	q.items <- Item{stop: true}
}

// Depth reports the number of buffered items, for metrics.
func (q *Queue) Depth() int {
	return len(q.items)
}
