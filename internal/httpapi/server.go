package httpapi

import (
	"encoding/json"
	"errors"
	"log"
	"net/http"
	"net/url"
	"path/filepath"
	"strings"

	"github.com/go-chi/chi/v5"
	"github.com/gorilla/websocket"

	"github.com/jwei512/taskline/internal/bot"
	"github.com/jwei512/taskline/internal/config"
	"github.com/jwei512/taskline/internal/observability"
	"github.com/jwei512/taskline/internal/protocol"
)

var errEmptyBody = errors.New("empty request body")

type errorResponse struct {
	Error string `json:"error"`
	Code  string `json:"code"`
}

type Server struct {
	cfg      config.Config
	router   *bot.Router
	replier  protocol.Replier
	metrics  *observability.Metrics
	upgrader websocket.Upgrader
}

func New(cfg config.Config, router *bot.Router, replier protocol.Replier, metrics *observability.Metrics) *Server {
	return &Server{
		cfg:     cfg,
		router:  router,
		replier: replier,
		metrics: metrics,
		upgrader: websocket.Upgrader{
			ReadBufferSize:  4096,
			WriteBufferSize: 4096,
			CheckOrigin: func(r *http.Request) bool {
				// Same-origin only unless explicitly opened up; other sites
				// must not be able to drive a user's chat session.
				if cfg.AllowAnyOrigin {
					return true
				}
				origin := strings.TrimSpace(r.Header.Get("Origin"))
				if origin == "" {
					return true
				}
				u, err := url.Parse(origin)
				if err != nil {
					return false
				}
				if u.Scheme != "http" && u.Scheme != "https" {
					return false
				}
				return strings.EqualFold(u.Host, r.Host)
			},
		},
	}
}

func (s *Server) Router() http.Handler {
	r := chi.NewRouter()

	r.Get("/healthz", s.handleHealth)
	r.Get("/readyz", s.handleReady)
	r.Get("/metrics", func(w http.ResponseWriter, r *http.Request) {
		observability.MetricsHandler().ServeHTTP(w, r)
	})

	r.Post("/webhook", s.handleWebhook)
	r.Get("/static/{userID}/{filename}", s.handleStatic)
	r.Get("/ws/chat", s.handleChatWS)

	return r
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ok"})
}

func (s *Server) handleReady(w http.ResponseWriter, _ *http.Request) {
	respondJSON(w, http.StatusOK, map[string]any{"status": "ready"})
}

type webhookRequest struct {
	Events []protocol.Event `json:"events"`
}

// handleWebhook accepts a batch of transport events. Signature checking is
// the transport adapter's job; events arriving here are already verified.
func (s *Server) handleWebhook(w http.ResponseWriter, r *http.Request) {
	var req webhookRequest
	if err := decodeJSON(r, &req); err != nil {
		respondError(w, http.StatusBadRequest, "invalid_request", err.Error())
		return
	}

	handled := 0
	for _, ev := range req.Events {
		if strings.TrimSpace(ev.UserID) == "" {
			continue
		}
		if err := s.router.HandleEvent(r.Context(), ev, s.replier); err != nil {
			log.Printf("webhook event for user %s failed: %v", ev.UserID, err)
			continue
		}
		handled++
	}
	respondJSON(w, http.StatusOK, map[string]any{"handled": handled})
}

// handleStatic serves per-user artifacts, currently the rendered chart.
func (s *Server) handleStatic(w http.ResponseWriter, r *http.Request) {
	userID := filepath.Base(chi.URLParam(r, "userID"))
	filename := filepath.Base(chi.URLParam(r, "filename"))
	if userID == "." || userID == string(filepath.Separator) || filename == "." {
		respondError(w, http.StatusBadRequest, "invalid_path", "bad user id or file name")
		return
	}
	http.ServeFile(w, r, filepath.Join(s.cfg.DataDir, userID, filename))
}

func decodeJSON(r *http.Request, out any) error {
	if r.Body == nil {
		return errEmptyBody
	}
	defer r.Body.Close()
	dec := json.NewDecoder(r.Body)
	if err := dec.Decode(out); err != nil {
		if strings.Contains(strings.ToLower(err.Error()), "eof") {
			return errEmptyBody
		}
		return err
	}
	return nil
}

func respondJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func respondError(w http.ResponseWriter, status int, code, message string) {
	respondJSON(w, status, errorResponse{Error: message, Code: code})
}
