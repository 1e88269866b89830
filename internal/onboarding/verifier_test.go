package onboarding

import (
	"sync/atomic"
	"testing"
	"time"

	"go.uber.org/goleak"
	"go.uber.org/zap"
)

func TestVerifierRunsCallbackAfterDelay(t *testing.T) {
	defer goleak.VerifyNone(t)

	v := NewVerifier(10*time.Millisecond, zap.NewNop())
	done := make(chan struct{})
	v.Start("kyc", func() { close(done) })

	select {
	case <-done:
	case <-time.After(2 * time.Second):
		t.Fatalf("callback did not run")
	}
	v.Close()
}

func TestVerifierCancelSuppressesCallback(t *testing.T) {
	defer goleak.VerifyNone(t)

	v := NewVerifier(50*time.Millisecond, zap.NewNop())
	var calls atomic.Int32
	cancel := v.Start("kyc", func() { calls.Add(1) })

	if !cancel() {
		t.Fatalf("expected task to still be pending")
	}
	if cancel() {
		t.Fatalf("second cancel must report nothing pending")
	}
	v.Close()

	time.Sleep(80 * time.Millisecond)
	if calls.Load() != 0 {
		t.Fatalf("cancelled task must not call back, got %d calls", calls.Load())
	}
}

func TestVerifierCloseCancelsPendingTasks(t *testing.T) {
	defer goleak.VerifyNone(t)

	v := NewVerifier(time.Hour, zap.NewNop())
	var calls atomic.Int32
	for i := 0; i < 5; i++ {
		v.Start("payment", func() { calls.Add(1) })
	}
	v.Close()

	if calls.Load() != 0 {
		t.Fatalf("expected no callbacks, got %d", calls.Load())
	}
	cancel := v.Start("late", func() { calls.Add(1) })
	if cancel() {
		t.Fatalf("tasks started after Close must not be pending")
	}
}
