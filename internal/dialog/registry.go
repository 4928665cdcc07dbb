package dialog

import (
	"context"
	"sync"
	"time"
)

// Registry holds at most one dialogue per user. It is the only owner of
// dialogue state; the worker never touches it.
type Registry struct {
	mu       sync.Mutex
	dialogs  map[string]*Dialog
	ttl      time.Duration
	onExpire func(userID string)
}

func NewRegistry(ttl time.Duration) *Registry {
	if ttl <= 0 {
		ttl = 10 * time.Minute
	}
	return &Registry{
		dialogs: make(map[string]*Dialog),
		ttl:     ttl,
	}
}

func (r *Registry) SetExpireHook(hook func(userID string)) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.onExpire = hook
}

// Begin starts a dialogue for the user, replacing any abandoned one, and
// returns the first prompt. Unknown actions report ok=false.
func (r *Registry) Begin(userID string, action Action) (prompt string, ok bool) {
	d, ok := newDialog(action)
	if !ok {
		return "", false
	}
	r.mu.Lock()
	defer r.mu.Unlock()
	r.dialogs[userID] = d
	return d.Prompt(), true
}

// Advance feeds one text turn into the user's dialogue. With no active
// dialogue, active is false. When the flow completes, the dialogue is
// removed and the collected values are returned.
func (r *Registry) Advance(userID, text string) (reply string, result *Values, active bool) {
	r.mu.Lock()
	defer r.mu.Unlock()
	d, ok := r.dialogs[userID]
	if !ok {
		return "", nil, false
	}
	reply, done := d.Advance(text)
	if !done {
		return reply, nil, true
	}
	delete(r.dialogs, userID)
	v := d.values
	return "", &v, true
}

func (r *Registry) ActiveCount() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.dialogs)
}

// StartJanitor expires dialogues abandoned for longer than the TTL.
func (r *Registry) StartJanitor(ctx context.Context, interval time.Duration) {
	if interval <= 0 {
		interval = 30 * time.Second
	}
	ticker := time.NewTicker(interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				r.expireIdle()
			}
		}
	}()
}

func (r *Registry) expireIdle() {
	now := time.Now().UTC()
	var expired []string

	r.mu.Lock()
	for userID, d := range r.dialogs {
		if now.Sub(d.lastActivityAt) < r.ttl {
			continue
		}
		delete(r.dialogs, userID)
		expired = append(expired, userID)
	}
	hook := r.onExpire
	r.mu.Unlock()

	if hook != nil {
		for _, userID := range expired {
			hook(userID)
		}
	}
}
