package onboarding

import (
	"context"
	"sync"
	"time"

	"github.com/sourcegraph/conc"
	"go.uber.org/zap"
)

// DefaultVerificationDelay is how long simulated verification and payment take.
const DefaultVerificationDelay = 3 * time.Second

// Verifier runs simulated verification tasks. Every task can be cancelled, and a
// cancelled task never calls back.
type Verifier struct {
	delay  time.Duration
	logger *zap.Logger

	ctx    context.Context
	cancel context.CancelFunc
	wg     conc.WaitGroup

	mu     sync.Mutex
	closed bool
}

func NewVerifier(delay time.Duration, logger *zap.Logger) *Verifier {
	if delay < 0 {
		delay = 0
	}
	ctx, cancel := context.WithCancel(context.Background())
	return &Verifier{
		delay:  delay,
		logger: logger,
		ctx:    ctx,
		cancel: cancel,
	}
}

func (v *Verifier) Delay() time.Duration {
	return v.delay
}

// Start schedules done to run after the delay. The returned function cancels the
// task; it reports whether the task was still pending. Start after Close is a no-op
// that reports a cancelled task.
func (v *Verifier) Start(label string, done func()) (cancel func() bool) {
	v.mu.Lock()
	defer v.mu.Unlock()
	if v.closed {
		return func() bool { return false }
	}

	ctx, cancelTask := context.WithCancel(v.ctx)
	var once sync.Once

	v.wg.Go(func() {
		defer cancelTask()
		timer := time.NewTimer(v.delay)
		defer timer.Stop()
		select {
		case <-ctx.Done():
			v.logger.Debug("Verification cancelled", zap.String("task", label))
			return
		case <-timer.C:
		}
		claimed := false
		once.Do(func() { claimed = true })
		if !claimed || ctx.Err() != nil {
			return
		}
		v.logger.Debug("Verification finished", zap.String("task", label))
		done()
	})

	return func() bool {
		pending := false
		once.Do(func() { pending = true })
		cancelTask()
		return pending
	}
}

// Close cancels every pending task and waits for running callbacks to return.
func (v *Verifier) Close() {
	v.mu.Lock()
	if v.closed {
		v.mu.Unlock()
		return
	}
	v.closed = true
	v.mu.Unlock()

	v.cancel()
	v.wg.Wait()
}
