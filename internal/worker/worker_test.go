package worker

import (
	"context"
	"errors"
	"fmt"
	"strings"
	"sync"
	"testing"

	"github.com/jwei512/taskline/internal/calc"
	"github.com/jwei512/taskline/internal/chart"
	"github.com/jwei512/taskline/internal/protocol"
	"github.com/jwei512/taskline/internal/queue"
	"github.com/jwei512/taskline/internal/tasks"
)

type recordingReplier struct {
	mu      sync.Mutex
	replies [][]protocol.Message
}

func (r *recordingReplier) Reply(_ context.Context, _ string, msgs []protocol.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.replies = append(r.replies, msgs)
	return nil
}

func (r *recordingReplier) all() [][]protocol.Message {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([][]protocol.Message, len(r.replies))
	copy(out, r.replies)
	return out
}

func newTestWorker(t *testing.T) (*Worker, *queue.Queue, tasks.Store) {
	t.Helper()
	dir := t.TempDir()
	store, err := tasks.NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}
	q := queue.New(32)
	w := New(q, store, chart.NewSVGRenderer(dir), "http://localhost:8080", nil)
	return w, q, store
}

func runAll(t *testing.T, w *Worker, q *queue.Queue) {
	t.Helper()
	w.Start()
	q.Drain()
	q.Stop()
	w.Join()
}

func TestItemsApplySequentiallyToDurableStorage(t *testing.T) {
	w, q, store := newTestWorker(t)
	rp := &recordingReplier{}

	const n = 10
	for i := 1; i <= n; i++ {
		err := q.Enqueue(queue.Item{
			ID:      fmt.Sprintf("item-%d", i),
			UserID:  "u1",
			Action:  queue.ActionCreateTask,
			Params:  queue.Params{TaskName: "steps", Progress: i},
			Replier: rp,
		})
		if err != nil {
			t.Fatalf("Enqueue() #%d error = %v", i, err)
		}
	}
	runAll(t, w, q)

	h, err := store.Load(context.Background(), "u1")
	if err != nil {
		t.Fatalf("Load() error = %v", err)
	}
	if got := h["steps"].Progress; got != n {
		t.Fatalf("final progress = %d, want %d (last enqueued item)", got, n)
	}
	if len(rp.all()) != n {
		t.Fatalf("replies = %d, want %d, one per item in order", len(rp.all()), n)
	}
}

func TestEveryReplyEndsWithMenuHint(t *testing.T) {
	w, q, _ := newTestWorker(t)
	rp := &recordingReplier{}

	q.Enqueue(queue.Item{UserID: "u1", Action: queue.ActionResetTask, Replier: rp})
	runAll(t, w, q)

	replies := rp.all()
	if len(replies) != 1 {
		t.Fatalf("replies = %d, want 1", len(replies))
	}
	last := replies[0][len(replies[0])-1]
	if last.Text != MenuHint {
		t.Fatalf("trailing message = %q, want the menu hint", last.Text)
	}
}

func TestUpdateMissingSubtaskReportsNotFound(t *testing.T) {
	w, q, store := newTestWorker(t)
	rp := &recordingReplier{}

	h := tasks.NewHierarchy()
	h.Create("X", "a", 30)
	if err := store.Save(context.Background(), "u1", h); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	q.Enqueue(queue.Item{
		UserID:  "u1",
		Action:  queue.ActionUpdateTask,
		Params:  queue.Params{TaskName: "X", SubtaskName: "missing", Progress: 50},
		Replier: rp,
	})
	runAll(t, w, q)

	replies := rp.all()
	if got := replies[0][0].Text; !strings.Contains(got, "does not exist") {
		t.Fatalf("reply = %q, want a not-found message", got)
	}

	reloaded, _ := store.Load(context.Background(), "u1")
	if got := reloaded["X"].Subtasks["a"]; got != 30 {
		t.Fatalf("subtask a = %d after failed update, want 30", got)
	}
}

func TestChartWithNoTasks(t *testing.T) {
	w, q, _ := newTestWorker(t)
	rp := &recordingReplier{}

	q.Enqueue(queue.Item{UserID: "u1", Action: queue.ActionTaskChart, Replier: rp})
	runAll(t, w, q)

	if got := rp.all()[0][0].Text; !strings.Contains(got, "no tasks") {
		t.Fatalf("reply = %q, want the empty-state message", got)
	}
}

func TestChartReplyCarriesImageURL(t *testing.T) {
	w, q, store := newTestWorker(t)
	rp := &recordingReplier{}

	h := tasks.NewHierarchy()
	h.Create("X", "a", 30)
	if err := store.Save(context.Background(), "u1", h); err != nil {
		t.Fatalf("Save() error = %v", err)
	}

	q.Enqueue(queue.Item{UserID: "u1", Action: queue.ActionTaskChart, Replier: rp})
	runAll(t, w, q)

	first := rp.all()[0][0]
	if first.Type != protocol.TypeImage {
		t.Fatalf("first message type = %q, want image", first.Type)
	}
	want := "http://localhost:8080/static/u1/" + chart.ArtifactName
	if first.ImageURL != want {
		t.Fatalf("ImageURL = %q, want %q", first.ImageURL, want)
	}
}

func TestCalculatorWorkItem(t *testing.T) {
	w, q, _ := newTestWorker(t)
	rp := &recordingReplier{}

	q.Enqueue(queue.Item{
		UserID:  "u1",
		Action:  queue.ActionCalculator,
		Params:  queue.Params{Calc: calc.Input{Price: 100, LossPercent: 5, ProfitPercent: 30, TotalLoss: 2000}},
		Replier: rp,
	})
	runAll(t, w, q)

	got := rp.all()[0][0].Text
	for _, want := range []string{"Stop-loss price: 95", "Take-profit price: 130", "Position size: 400"} {
		if !strings.Contains(got, want) {
			t.Fatalf("calculator reply = %q, missing %q", got, want)
		}
	}
}

func TestUnknownActionReply(t *testing.T) {
	w, q, _ := newTestWorker(t)
	rp := &recordingReplier{}

	q.Enqueue(queue.Item{UserID: "u1", Action: queue.Action("bogus"), Replier: rp})
	runAll(t, w, q)

	if got := rp.all()[0][0].Text; got != "Unknown operation." {
		t.Fatalf("reply = %q, want %q", got, "Unknown operation.")
	}
}

type flakyStore struct {
	tasks.Store
	mu        sync.Mutex
	saveCalls int
	failures  int
}

func (s *flakyStore) Save(ctx context.Context, userID string, h tasks.Hierarchy) error {
	s.mu.Lock()
	s.saveCalls++
	failing := s.saveCalls <= s.failures
	s.mu.Unlock()
	if failing {
		return errors.New("disk full")
	}
	return s.Store.Save(ctx, userID, h)
}

func TestSaveRetriedOnceThenReported(t *testing.T) {
	dir := t.TempDir()
	inner, err := tasks.NewFileStore(dir)
	if err != nil {
		t.Fatalf("NewFileStore() error = %v", err)
	}

	// First failure is retried and succeeds silently.
	store := &flakyStore{Store: inner, failures: 1}
	q := queue.New(8)
	w := New(q, store, chart.NewSVGRenderer(dir), "http://localhost:8080", nil)
	rp := &recordingReplier{}

	q.Enqueue(queue.Item{
		UserID:  "u1",
		Action:  queue.ActionCreateTask,
		Params:  queue.Params{TaskName: "X", Progress: 10},
		Replier: rp,
	})
	runAll(t, w, q)

	if got := rp.all()[0][0].Text; !strings.Contains(got, "saved") || strings.Contains(got, "could not") {
		t.Fatalf("reply after retried save = %q, want success", got)
	}

	// Two failures exhaust the retry and must be surfaced.
	store2 := &flakyStore{Store: inner, failures: 2}
	q2 := queue.New(8)
	w2 := New(q2, store2, chart.NewSVGRenderer(dir), "http://localhost:8080", nil)
	rp2 := &recordingReplier{}

	q2.Enqueue(queue.Item{
		UserID:  "u2",
		Action:  queue.ActionCreateTask,
		Params:  queue.Params{TaskName: "X", Progress: 10},
		Replier: rp2,
	})
	runAll(t, w2, q2)

	if got := rp2.all()[0][0].Text; !strings.Contains(got, "could not be saved") {
		t.Fatalf("reply after exhausted retries = %q, want the save failure report", got)
	}
}
