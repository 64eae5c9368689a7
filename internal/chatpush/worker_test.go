package chatpush

import (
	"context"
	"sync"
	"testing"
	"time"

	"chatpoker/internal/chatpush/platforms"
)

type panelCleanerAdapter struct {
	mu          sync.Mutex
	calls       int
	forgetCalls int
	lastPanel   string
}

func (a *panelCleanerAdapter) Name() string { return "cleaner" }

func (a *panelCleanerAdapter) Send(_ context.Context, _ string, _ string, _ platforms.Message) error {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.calls++
	return nil
}

func (a *panelCleanerAdapter) ForgetPanel(_ string, panelKey string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.forgetCalls++
	a.lastPanel = panelKey
}

func (a *panelCleanerAdapter) Snapshot() (int, int, string) {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.calls, a.forgetCalls, a.lastPanel
}

func TestRetryStopsAtMaxAttempts(t *testing.T) {
	target := MirrorTarget{Platform: "fail", Endpoint: "https://example.com", ScopeType: "all", Enabled: true}
	m, _ := newTestManager(t, Config{Workers: 1, RetryMax: 1, RetryBase: 5 * time.Millisecond})
	adapter := &fakeAdapter{forceFail: true}
	m.adapters["fail"] = adapter
	startManager(t, m)

	if !m.dispatch(pushJob{Target: target, Formatted: FormattedMessage{Title: "x", Description: "y"}}) {
		t.Fatal("dispatch failed")
	}
	time.Sleep(120 * time.Millisecond)
	if got := adapter.Calls(); got != 2 {
		t.Fatalf("expected 2 calls (initial + 1 retry), got %d", got)
	}
}

func TestCircuitOpenSkipsSubsequentSends(t *testing.T) {
	target := MirrorTarget{Platform: "fail", Endpoint: "https://example.com", ScopeType: "all", Enabled: true}
	m, _ := newTestManager(t, Config{
		Workers:             1,
		RetryBase:           5 * time.Millisecond,
		FailureThreshold:    1,
		CircuitOpenDuration: 500 * time.Millisecond,
	})
	adapter := &fakeAdapter{forceFail: true}
	m.adapters["fail"] = adapter
	startManager(t, m)

	job := pushJob{Target: target, Formatted: FormattedMessage{Title: "x", Description: "y"}}
	if !m.dispatch(job) {
		t.Fatal("dispatch first failed")
	}
	time.Sleep(40 * time.Millisecond)
	if !m.dispatch(job) {
		t.Fatal("dispatch second failed")
	}
	time.Sleep(80 * time.Millisecond)

	if got := adapter.Calls(); got != 1 {
		t.Fatalf("expected 1 call due to circuit open, got %d", got)
	}
}

func TestBreakerIsPerDestination(t *testing.T) {
	m, _ := newTestManager(t, Config{FailureThreshold: 1, CircuitOpenDuration: time.Minute})
	now := time.Unix(1700000000, 0)
	a := targetKey(MirrorTarget{Platform: platformSlack, Endpoint: "C1"})
	b := targetKey(MirrorTarget{Platform: platformSlack, Endpoint: "C2"})

	m.afterFailure(a, now)
	if err := m.beforeSend(a, now.Add(time.Second)); err != errCircuitOpen {
		t.Fatalf("expected open circuit for C1, got %v", err)
	}
	if err := m.beforeSend(b, now.Add(time.Second)); err != nil {
		t.Fatalf("expected C2 unaffected, got %v", err)
	}
	if err := m.beforeSend(a, now.Add(2*time.Minute)); err != nil {
		t.Fatalf("expected circuit to close after the open window, got %v", err)
	}
	m.afterSuccess(a)
	m.mu.Lock()
	_, ok := m.breakerByKey[a]
	m.mu.Unlock()
	if ok {
		t.Fatal("expected success to reset breaker state")
	}
}

func TestTerminalPanelTriggersAdapterCleanup(t *testing.T) {
	target := MirrorTarget{Platform: "cleaner", Endpoint: "https://example.com", ScopeType: "all", Enabled: true}
	m, _ := newTestManager(t, Config{Workers: 1, RetryBase: 5 * time.Millisecond})
	adapter := &panelCleanerAdapter{}
	m.adapters["cleaner"] = adapter
	startManager(t, m)

	if !m.dispatch(pushJob{
		Target:        target,
		PanelTerminal: true,
		Formatted: FormattedMessage{
			PanelKey:    "C1-1.1",
			Title:       "x",
			Description: "y",
		},
	}) {
		t.Fatal("dispatch failed")
	}
	waitFor(t, "forget", func() bool {
		_, forgets, _ := adapter.Snapshot()
		return forgets == 1
	})
	calls, _, panel := adapter.Snapshot()
	if calls != 1 || panel != "C1-1.1" {
		t.Fatalf("expected one send and forget of C1-1.1, got calls=%d panel=%s", calls, panel)
	}
}

func TestUnknownPlatformIsDropped(t *testing.T) {
	m, slack := newTestManager(t, Config{Workers: 1})
	startManager(t, m)

	if !m.dispatch(pushJob{Target: MirrorTarget{Platform: "teams", Endpoint: "https://x"}}) {
		t.Fatal("dispatch failed")
	}
	time.Sleep(40 * time.Millisecond)
	if slack.Calls() != 0 {
		t.Fatalf("expected no sends, got %d", slack.Calls())
	}
}
