package main

import (
	"context"
	"errors"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/jwei512/taskline/internal/bot"
	"github.com/jwei512/taskline/internal/chart"
	"github.com/jwei512/taskline/internal/config"
	"github.com/jwei512/taskline/internal/dialog"
	"github.com/jwei512/taskline/internal/httpapi"
	"github.com/jwei512/taskline/internal/observability"
	"github.com/jwei512/taskline/internal/protocol"
	"github.com/jwei512/taskline/internal/queue"
	"github.com/jwei512/taskline/internal/tasks"
	"github.com/jwei512/taskline/internal/worker"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("config error: %v", err)
	}

	metrics := observability.NewMetrics(cfg.MetricsNamespace)

	ctx := context.Background()
	store, err := tasks.NewStore(ctx, cfg.DatabaseURL, cfg.DataDir)
	if err != nil {
		log.Fatalf("task store init failed: %v", err)
	}
	defer store.Close()
	if cfg.DatabaseURL != "" {
		log.Printf("task store: postgres")
	} else {
		log.Printf("task store: files under %s", cfg.DataDir)
	}

	var replier protocol.Replier
	if cfg.ReplyEndpoint != "" {
		replier = bot.NewHTTPReplier(cfg.ReplyEndpoint)
		log.Printf("replies: POST %s", cfg.ReplyEndpoint)
	} else {
		replier = bot.LogReplier{}
		log.Printf("replies: log only (REPLY_ENDPOINT not set)")
	}

	q := queue.New(cfg.QueueBuffer)
	w := worker.New(q, store, chart.NewSVGRenderer(cfg.DataDir), cfg.PublicBaseURL, metrics)
	w.Start()

	dialogs := dialog.NewRegistry(cfg.DialogTTL)
	dialogs.SetExpireHook(func(userID string) {
		metrics.DialogEvents.WithLabelValues("expired").Inc()
		metrics.ActiveDialogs.Set(float64(dialogs.ActiveCount()))
		log.Printf("dialog for user %s expired", userID)
	})

	router := bot.NewRouter(dialogs, q, metrics)
	api := httpapi.New(cfg, router, replier, metrics)
	httpServer := &http.Server{
		Addr:    cfg.BindAddr,
		Handler: api.Router(),
	}

	runCtx, runCancel := context.WithCancel(context.Background())
	defer runCancel()
	dialogs.StartJanitor(runCtx, 30*time.Second)

	go func() {
		log.Printf("server listening on %s", cfg.BindAddr)
		if err := httpServer.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			log.Fatalf("listen error: %v", err)
		}
	}()

	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)
	<-sigCh
	log.Printf("shutdown signal received")

	runCancel()
	shutdownCtx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
	defer cancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		log.Printf("graceful shutdown failed: %v", err)
		_ = httpServer.Close()
	}

	// No new events can arrive. Finish queued mutations, then stop the
	// worker and wait for it.
	q.Drain()
	q.Stop()
	w.Join()

	log.Printf("shutdown complete")
}
