package httpapi

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/gorilla/websocket"

	"github.com/jwei512/taskline/internal/protocol"
)

func TestChatWSRequiresUserID(t *testing.T) {
	s, _, _, _ := newTestServer(t)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	resp, err := http.Get(srv.URL + "/ws/chat")
	if err != nil {
		t.Fatalf("GET /ws/chat error = %v", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusBadRequest {
		t.Fatalf("GET /ws/chat status = %d, want 400", resp.StatusCode)
	}
}

func TestChatWSMenuRoundTrip(t *testing.T) {
	s, _, _, _ := newTestServer(t)
	srv := httptest.NewServer(s.Router())
	defer srv.Close()

	wsURL := "ws" + strings.TrimPrefix(srv.URL, "http") + "/ws/chat?user_id=u1"
	conn, resp, err := websocket.DefaultDialer.Dial(wsURL, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	if resp != nil {
		resp.Body.Close()
	}
	defer conn.Close()

	if err := conn.WriteJSON(protocol.Event{Type: protocol.EventText, Text: "menu"}); err != nil {
		t.Fatalf("WriteJSON() error = %v", err)
	}

	var reply wsReply
	if err := conn.ReadJSON(&reply); err != nil {
		t.Fatalf("ReadJSON() error = %v", err)
	}
	if reply.ReplyToken == "" {
		t.Fatalf("reply token empty, want generated token")
	}
	if len(reply.Messages) != 1 || reply.Messages[0].Type != protocol.TypeButtons {
		t.Fatalf("messages = %+v, want the main menu", reply.Messages)
	}
}
