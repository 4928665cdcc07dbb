package httpapi

import (
	"context"
	"log"
	"net/http"
	"strings"
	"sync"

	"github.com/google/uuid"
	"github.com/gorilla/websocket"

	"github.com/jwei512/taskline/internal/protocol"
)

// handleChatWS is a local development transport: the browser talks the same
// event/message protocol the webhook does, over one websocket per user.
func (s *Server) handleChatWS(w http.ResponseWriter, r *http.Request) {
	userID := strings.TrimSpace(r.URL.Query().Get("user_id"))
	if userID == "" {
		respondError(w, http.StatusBadRequest, "missing_user_id", "query parameter user_id is required")
		return
	}

	conn, err := s.upgrader.Upgrade(w, r, nil)
	if err != nil {
		log.Printf("ws upgrade failed: %v", err)
		return
	}
	defer conn.Close()

	replier := &wsReplier{conn: conn}
	for {
		var ev protocol.Event
		if err := conn.ReadJSON(&ev); err != nil {
			if websocket.IsUnexpectedCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
				log.Printf("ws read for user %s: %v", userID, err)
			}
			return
		}
		ev.UserID = userID
		if ev.ReplyToken == "" {
			ev.ReplyToken = uuid.NewString()
		}
		if err := s.router.HandleEvent(r.Context(), ev, replier); err != nil {
			log.Printf("ws event for user %s failed: %v", userID, err)
		}
	}
}

// wsReplier serializes writes to one websocket connection. The router
// replies from the read loop while the worker replies from its own
// goroutine, so writes need the lock.
type wsReplier struct {
	mu   sync.Mutex
	conn *websocket.Conn
}

type wsReply struct {
	ReplyToken string             `json:"reply_token"`
	Messages   []protocol.Message `json:"messages"`
}

func (r *wsReplier) Reply(_ context.Context, replyToken string, msgs []protocol.Message) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.conn.WriteJSON(wsReply{ReplyToken: replyToken, Messages: msgs})
}
