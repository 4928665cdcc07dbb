// Package worker drains the mutation queue. Exactly one worker runs, so at
// most one task-store mutation is ever in flight and per-user operations
// apply in enqueue order.
package worker

import (
	"context"
	"log"
	"time"

	"github.com/jwei512/taskline/internal/chart"
	"github.com/jwei512/taskline/internal/observability"
	"github.com/jwei512/taskline/internal/protocol"
	"github.com/jwei512/taskline/internal/queue"
	"github.com/jwei512/taskline/internal/tasks"
)

type Worker struct {
	queue         *queue.Queue
	store         tasks.Store
	renderer      chart.Renderer
	publicBaseURL string
	metrics       *observability.Metrics
	done          chan struct{}
}

func New(q *queue.Queue, store tasks.Store, renderer chart.Renderer, publicBaseURL string, metrics *observability.Metrics) *Worker {
	return &Worker{
		queue:         q,
		store:         store,
		renderer:      renderer,
		publicBaseURL: publicBaseURL,
		metrics:       metrics,
		done:          make(chan struct{}),
	}
}

// Start launches the worker loop. It exits when the queue's stop sentinel
// is dequeued; Join blocks until then.
func (w *Worker) Start() {
	go w.run()
}

func (w *Worker) Join() {
	<-w.done
}

func (w *Worker) run() {
	defer close(w.done)
	for {
		item, ok := w.queue.Dequeue()
		if !ok {
			return
		}
		w.process(item)
		w.queue.ItemDone()
		if w.metrics != nil {
			w.metrics.QueueDepth.Set(float64(w.queue.Depth()))
		}
	}
}

// process executes one work item end to end: reload the user's hierarchy,
// dispatch, persist when mutated, reply. No single item's failure stops the
// loop.
func (w *Worker) process(item queue.Item) {
	ctx := context.Background()
	start := time.Now()

	h, err := w.store.Load(ctx, item.UserID)
	if err != nil {
		// An unreadable record is treated as "no tasks yet".
		log.Printf("work item %s: load for user %s failed: %v", item.ID, item.UserID, err)
		h = tasks.NewHierarchy()
	}

	msgs, mutated, outcome := w.execute(item, h)

	if mutated && outcome == outcomeOK {
		if err := w.saveWithRetry(ctx, item.UserID, h); err != nil {
			log.Printf("work item %s: save for user %s failed: %v", item.ID, item.UserID, err)
			msgs = []protocol.Message{protocol.TextMessage("Your change could not be saved. Please try again.")}
			outcome = "save_failed"
		}
	}

	msgs = append(msgs, protocol.TextMessage(MenuHint))
	if item.Replier != nil {
		if err := item.Replier.Reply(ctx, item.ReplyToken, msgs); err != nil {
			log.Printf("work item %s: reply failed: %v", item.ID, err)
		}
	}

	w.metrics.ObserveWorkItem(string(item.Action), outcome)
	w.metrics.ObserveWorkItemLatency(time.Since(start))
}

// saveWithRetry retries a failed save once. A silently lost mutation is the
// one unacceptable outcome, so the second failure is reported to the user.
func (w *Worker) saveWithRetry(ctx context.Context, userID string, h tasks.Hierarchy) error {
	if err := w.store.Save(ctx, userID, h); err == nil {
		return nil
	}
	return w.store.Save(ctx, userID, h)
}
