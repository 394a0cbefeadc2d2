package autosave

import (
	"io"
	"net/http"
	"net/url"
	"strings"
	"sync"
	"time"
)

// Trigger debounces save requests for a single form the way the browser
// script does: each Notify restarts the quiet-period timer, and when the
// timer expires uncancelled the current field values are captured and
// POSTed form-encoded to the endpoint. The request outcome is discarded
// entirely; a transport failure neither surfaces nor affects later cycles.
//
// A Trigger owns at most one pending timer. Cancelling the previous timer
// before scheduling the next is what collapses a burst of events into a
// single save.
type Trigger struct {
	endpoint string
	snapshot func() url.Values
	opts     Options

	mu    sync.Mutex
	timer *time.Timer
}

// NewTrigger builds a trigger for one form. snapshot is called when a save
// fires, so the payload reflects the values at fire time rather than at
// scheduling time. An empty endpoint yields an inert trigger, matching a
// form without the endpoint attribute.
func NewTrigger(endpoint string, snapshot func() url.Values, fns ...OptionFn) *Trigger {
	return &Trigger{
		endpoint: strings.TrimSpace(endpoint),
		snapshot: snapshot,
		opts:     NewOptions(fns...),
	}
}

// Notify records a qualifying event: any pending save is cancelled and the
// quiet period starts over. On a trigger without an endpoint it does
// nothing, not even start a timer.
func (t *Trigger) Notify() {
	if t == nil || t.endpoint == "" || t.snapshot == nil {
		return
	}

	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
	}
	t.timer = time.AfterFunc(t.opts.QuietPeriod, t.fire)
}

// Stop cancels any pending save. It does not interrupt a save already in
// flight.
func (t *Trigger) Stop() {
	if t == nil {
		return
	}
	t.mu.Lock()
	defer t.mu.Unlock()
	if t.timer != nil {
		t.timer.Stop()
		t.timer = nil
	}
}

func (t *Trigger) fire() {
	t.mu.Lock()
	t.timer = nil
	t.mu.Unlock()

	values := t.snapshot()
	if values == nil {
		values = url.Values{}
	}

	req, err := http.NewRequest(http.MethodPost, t.endpoint, strings.NewReader(values.Encode()))
	if err != nil {
		return
	}
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")
	req.Header.Set(t.opts.HeaderName, t.opts.HeaderValue)

	client := t.opts.Client
	if client == nil {
		client = http.DefaultClient
	}
	resp, err := client.Do(req)
	if err != nil {
		// Fire and forget: network failures are swallowed.
		return
	}
	_, _ = io.Copy(io.Discard, resp.Body)
	resp.Body.Close()
}
