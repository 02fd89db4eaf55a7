package llm

import (
	"context"
	"sync"
	"time"

	"github.com/parabrain/para-flow/internal/common"
)

// rateLimiter is a token bucket limiting provider calls per minute.
type rateLimiter struct {
	tokens    chan struct{}
	done      chan struct{}
	once      sync.Once
	perMinute int
}

func newRateLimiter(perMinute int) *rateLimiter {
	rl := &rateLimiter{
		tokens:    make(chan struct{}, perMinute),
		done:      make(chan struct{}),
		perMinute: perMinute,
	}

	for i := 0; i < perMinute; i++ {
		rl.tokens <- struct{}{}
	}

	go rl.refillLoop()
	return rl
}

// wait blocks until a token is available or the context expires. A context
// expiry surfaces as a retryable rate limit error so the chain can back off.
func (rl *rateLimiter) wait(ctx context.Context) error {
	select {
	case <-rl.tokens:
		return nil
	case <-ctx.Done():
		return common.NewRetryableError(common.ErrRateLimit, true)
	case <-rl.done:
		return common.ErrRateLimit
	}
}

func (rl *rateLimiter) refillLoop() {
	interval := time.Minute / time.Duration(rl.perMinute)
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ticker.C:
			select {
			case rl.tokens <- struct{}{}:
			default:
			}
		case <-rl.done:
			return
		}
	}
}

func (rl *rateLimiter) close() {
	rl.once.Do(func() { close(rl.done) })
}
