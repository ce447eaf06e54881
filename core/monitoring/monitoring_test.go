package monitoring

import (
	"errors"
	"testing"
	"time"
)

type recordMonitor struct {
	errs    []error
	tags    []map[string]string
	panics  []any
	flushed int
}

func (r *recordMonitor) CaptureException(err error, tags map[string]string) {
	r.errs = append(r.errs, err)
	r.tags = append(r.tags, tags)
}
func (r *recordMonitor) RecoverPanic(v any)     { r.panics = append(r.panics, v) }
func (r *recordMonitor) Flush(time.Duration) { r.flushed++ }

func TestCaptureException(t *testing.T) {
	m := &recordMonitor{}
	Init(m)
	t.Cleanup(func() { Init(nil) })

	CaptureException(nil, nil)
	CaptureException(errors.New("no feasible candidate"), map[string]string{"outcome": "no_feasible_candidate"})
	if len(m.errs) != 1 {
		t.Fatalf("expected 1 captured error, got %d", len(m.errs))
	}
	if m.tags[0]["outcome"] != "no_feasible_candidate" {
		t.Fatalf("tags not forwarded: %v", m.tags[0])
	}
}

func TestRecoverReportsAndRepanics(t *testing.T) {
	m := &recordMonitor{}
	Init(m)
	t.Cleanup(func() { Init(nil) })

	defer func() {
		if r := recover(); r != "boom" {
			t.Fatalf("expected re-panic with boom, got %v", r)
		}
		if len(m.panics) != 1 || m.flushed != 1 {
			t.Fatalf("panic not reported: %+v", m)
		}
	}()
	func() {
		defer Recover()
		panic("boom")
	}()
}
