package dialog

import (
	"strings"
	"time"
)

// Dialog is one user's in-progress flow. It is owned by the Registry and
// never persisted.
type Dialog struct {
	action         Action
	values         Values
	step           int
	lastActivityAt time.Time
}

func newDialog(action Action) (*Dialog, bool) {
	if _, ok := flows[action]; !ok {
		return nil, false
	}
	return &Dialog{
		action:         action,
		values:         Values{Action: action},
		lastActivityAt: time.Now().UTC(),
	}, true
}

// Prompt returns the question for the current unfilled field.
func (d *Dialog) Prompt() string {
	return flows[d.action][d.step].prompt
}

// Advance consumes one text turn. A parse failure re-prompts the same field
// without consuming the step or touching already-collected fields. When the
// last field fills, done is true and the reply is empty; the caller emits
// the work item.
func (d *Dialog) Advance(text string) (reply string, done bool) {
	d.lastActivityAt = time.Now().UTC()
	flow := flows[d.action]
	spec := flow[d.step]

	if err := spec.assign(&d.values, strings.TrimSpace(text)); err != nil {
		return spec.reprompt, false
	}

	d.step++
	if d.step >= len(flow) {
		return "", true
	}
	return flow[d.step].prompt, false
}
