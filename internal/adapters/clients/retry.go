package clients

import (
	"context"
	"errors"
	"math"
	"math/rand/v2"
	"net"
	"net/http"
	"strconv"
	"time"

	"github.com/jsamuelsen/quote-reader/internal/platform/config"
)

// retryPolicy turns config.RetryConfig into per-attempt decisions.
type retryPolicy struct {
	cfg config.RetryConfig

	// jitter returns a value in [0,1).
	jitter func() float64
}

func newRetryPolicy(cfg config.RetryConfig) retryPolicy {
	if cfg.MaxAttempts < 1 {
		cfg.MaxAttempts = 1
	}

	return retryPolicy{cfg: cfg, jitter: rand.Float64}
}

func (p retryPolicy) attempts() int {
	return p.cfg.MaxAttempts
}

// backoff returns initial * multiplier^attempt, capped at MaxInterval and
// spread by ±JitterFactor.
func (p retryPolicy) backoff(attempt int) time.Duration {
	d := float64(p.cfg.InitialInterval) * math.Pow(p.cfg.Multiplier, float64(attempt))
	d = p.capped(d)

	spread := p.jitter()*2 - 1
	d += d * p.cfg.JitterFactor * spread

	return time.Duration(d)
}

// delay picks the wait before attempt. A Retry-After on the previous
// response wins over the computed backoff, still capped at MaxInterval.
func (p retryPolicy) delay(attempt int, prev *http.Response) time.Duration {
	if after, ok := retryAfter(prev); ok {
		return time.Duration(p.capped(float64(after)))
	}

	return p.backoff(attempt)
}

func (p retryPolicy) capped(d float64) float64 {
	if p.cfg.MaxInterval > 0 && d > float64(p.cfg.MaxInterval) {
		return float64(p.cfg.MaxInterval)
	}

	return d
}

// retryStatus reports responses worth another attempt: any 5xx, and a 429
// when the provider says when to come back.
func retryStatus(resp *http.Response) bool {
	switch {
	case resp.StatusCode >= http.StatusInternalServerError:
		return true
	case resp.StatusCode == http.StatusTooManyRequests:
		_, ok := retryAfter(resp)
		return ok
	default:
		return false
	}
}

// retryAfter parses the Retry-After header in either seconds or HTTP-date form.
func retryAfter(resp *http.Response) (time.Duration, bool) {
	if resp == nil {
		return 0, false
	}

	v := resp.Header.Get("Retry-After")
	if v == "" {
		return 0, false
	}

	if secs, err := strconv.Atoi(v); err == nil && secs >= 0 {
		return time.Duration(secs) * time.Second, true
	}

	if at, err := http.ParseTime(v); err == nil {
		return max(time.Until(at), 0), true
	}

	return 0, false
}

// retryableError reports network timeouts and connection failures.
// Cancellation and deadline errors are never retried.
func retryableError(err error) bool {
	if err == nil {
		return false
	}

	if errors.Is(err, context.Canceled) || errors.Is(err, context.DeadlineExceeded) {
		return false
	}

	var netErr net.Error
	if errors.As(err, &netErr) && netErr.Timeout() {
		return true
	}

	var opErr *net.OpError

	return errors.As(err, &opErr)
}

// replayable reports whether req can be sent again.
func replayable(req *http.Request) bool {
	return req.Body == nil || req.Body == http.NoBody || req.GetBody != nil
}

func sleep(ctx context.Context, d time.Duration) error {
	t := time.NewTimer(d)
	defer t.Stop()

	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
