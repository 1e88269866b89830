package util

import (
	"testing"
	"time"

	"go.uber.org/zap"
)

func TestCircuitBreakerOpensAndRecovers(t *testing.T) {
	cb := NewCircuitBreaker("test", 2, 20*time.Millisecond, zap.NewNop())

	cb.RecordFailure(0)
	if !cb.CanExecute() {
		t.Fatalf("one failure must not open the circuit")
	}
	cb.RecordFailure(0)
	if cb.CanExecute() {
		t.Fatalf("expected circuit to open at threshold")
	}
	if st := cb.GetStatus(); st.State != CircuitStateOpen || st.NextRetryTime == nil {
		t.Fatalf("unexpected status %+v", st)
	}

	time.Sleep(30 * time.Millisecond)
	if cb.GetState() != CircuitStateHalfOpen {
		t.Fatalf("expected half-open after reset timeout")
	}
	cb.RecordSuccess()
	if cb.GetState() != CircuitStateClosed {
		t.Fatalf("expected closed after a successful trial")
	}
}

func TestCircuitBreakerHalfOpenFailureReopens(t *testing.T) {
	cb := NewCircuitBreaker("test", 1, 10*time.Millisecond, zap.NewNop())
	cb.RecordFailure(0)
	time.Sleep(20 * time.Millisecond)
	if !cb.CanExecute() {
		t.Fatalf("expected trial request to be allowed")
	}
	cb.RecordFailure(time.Hour)
	if cb.CanExecute() {
		t.Fatalf("expected circuit to reopen")
	}
	cb.Reset()
	if !cb.CanExecute() {
		t.Fatalf("expected reset to close the circuit")
	}
}

func TestNormalizeHandle(t *testing.T) {
	cases := map[string]string{
		" @Chef.Asha ":                      "chef.asha",
		"https://instagram.com/chef.asha/": "chef.asha",
		"plain":                             "plain",
	}
	for in, want := range cases {
		if got := NormalizeHandle(in); got != want {
			t.Fatalf("NormalizeHandle(%q) = %q, want %q", in, got, want)
		}
	}
}

func TestTruncateString(t *testing.T) {
	if got := TruncateString("नमस्ते दुनिया", 3); got != "नमस..." {
		t.Fatalf("unexpected truncation %q", got)
	}
	if got := TruncateString("short", 10); got != "short" {
		t.Fatalf("unexpected truncation %q", got)
	}
}

func TestFormatIST(t *testing.T) {
	ts := time.Date(2025, 3, 31, 20, 0, 0, 0, time.UTC)
	if got := FormatIST(ts, "2006-01-02 15:04"); got != "2025-04-01 01:30" {
		t.Fatalf("unexpected IST time %q", got)
	}
}
