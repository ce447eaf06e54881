package monitoring

import (
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/getsentry/sentry-go"

	"github.com/kilianp07/fuelprice/config"
	coremon "github.com/kilianp07/fuelprice/core/monitoring"
)

type captureTransport struct {
	mu     sync.Mutex
	events []*sentry.Event
}

func (c *captureTransport) Flush(time.Duration) bool       { return true }
func (c *captureTransport) Configure(sentry.ClientOptions) {}
func (c *captureTransport) Close()                         {}
func (c *captureTransport) SendEvent(e *sentry.Event) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, e)
}

func TestNewSentryMonitor_NoDSN(t *testing.T) {
	m, err := NewSentryMonitor(config.SentryConfig{})
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}
	if _, ok := m.(coremon.NopMonitor); !ok {
		t.Fatalf("expected NopMonitor, got %T", m)
	}
}

func TestSentryMonitor_CaptureWithTags(t *testing.T) {
	tr := &captureTransport{}
	m, err := newSentryMonitor(config.SentryConfig{DSN: "https://key@sentry.example.com/1", Environment: "test"}, tr)
	if err != nil {
		t.Fatalf("init: %v", err)
	}
	m.CaptureException(errors.New("no feasible candidate"), map[string]string{"outcome": "no_feasible_candidate"})
	m.CaptureException(nil, nil)
	m.Flush(time.Second)

	tr.mu.Lock()
	defer tr.mu.Unlock()
	if len(tr.events) != 1 {
		t.Fatalf("expected 1 event, got %d", len(tr.events))
	}
	ev := tr.events[0]
	if ev.Tags["outcome"] != "no_feasible_candidate" || ev.Tags["service"] != "fuelprice" {
		t.Fatalf("unexpected tags %v", ev.Tags)
	}
	if ev.Environment != "test" {
		t.Fatalf("unexpected environment %q", ev.Environment)
	}
}
