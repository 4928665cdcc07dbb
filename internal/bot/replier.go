package bot

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"log"
	"net/http"
	"time"

	"github.com/jwei512/taskline/internal/protocol"
)

// HTTPReplier posts replies to the platform adapter's reply endpoint,
// keyed by the reply token the inbound event carried.
type HTTPReplier struct {
	endpoint string
	client   *http.Client
}

func NewHTTPReplier(endpoint string) *HTTPReplier {
	return &HTTPReplier{
		endpoint: endpoint,
		client:   &http.Client{Timeout: 10 * time.Second},
	}
}

type replyPayload struct {
	ReplyToken string             `json:"reply_token"`
	Messages   []protocol.Message `json:"messages"`
}

func (r *HTTPReplier) Reply(ctx context.Context, replyToken string, msgs []protocol.Message) error {
	body, err := json.Marshal(replyPayload{ReplyToken: replyToken, Messages: msgs})
	if err != nil {
		return fmt.Errorf("encode reply: %w", err)
	}
	req, err := http.NewRequestWithContext(ctx, http.MethodPost, r.endpoint, bytes.NewReader(body))
	if err != nil {
		return fmt.Errorf("build reply request: %w", err)
	}
	req.Header.Set("Content-Type", "application/json")

	resp, err := r.client.Do(req)
	if err != nil {
		return fmt.Errorf("send reply: %w", err)
	}
	defer resp.Body.Close()
	if resp.StatusCode >= 300 {
		return fmt.Errorf("reply endpoint returned %s", resp.Status)
	}
	return nil
}

// LogReplier logs replies instead of delivering them. Used when no reply
// endpoint is configured, typically during local development.
type LogReplier struct{}

func (LogReplier) Reply(_ context.Context, replyToken string, msgs []protocol.Message) error {
	for _, m := range msgs {
		log.Printf("reply token=%s type=%s text=%q image=%s", replyToken, m.Type, m.Text, m.ImageURL)
	}
	return nil
}
