package clients

import (
	"errors"
	"sync"
	"time"
)

// ErrCircuitOpen is returned without contacting the downstream service while
// its circuit is open.
var ErrCircuitOpen = errors.New("circuit breaker open")

// State is a circuit breaker state.
type State int

const (
	// StateClosed lets every request through.
	StateClosed State = iota

	// StateOpen blocks every request until the open timeout elapses.
	StateOpen

	// StateHalfOpen lets a limited number of probe requests through.
	StateHalfOpen
)

var stateNames = [...]string{
	StateClosed:   "closed",
	StateOpen:     "open",
	StateHalfOpen: "half-open",
}

func (s State) String() string {
	if s < 0 || int(s) >= len(stateNames) {
		return "unknown"
	}

	return stateNames[s]
}

// CircuitBreakerConfig configures a CircuitBreaker. Zero MaxFailures and
// HalfOpenLimit are treated as 1.
type CircuitBreakerConfig struct {
	// MaxFailures is the number of consecutive failures that opens the circuit.
	MaxFailures int

	// Timeout is how long the circuit stays open before probing.
	Timeout time.Duration

	// HalfOpenLimit caps concurrent probes and is also the number of
	// consecutive probe successes that closes the circuit.
	HalfOpenLimit int
}

// Counts is a snapshot of the breaker's counters.
type Counts struct {
	ConsecutiveFailures  int
	ConsecutiveSuccesses int
	InFlightProbes       int
}

// CircuitBreaker guards one downstream service (the speech provider, for
// instance) so that an outage costs one fast ErrCircuitOpen per request
// instead of a full retry cycle.
//
//	closed    --MaxFailures consecutive failures-->  open
//	open      --Timeout elapsed, next Allow-->        half-open
//	half-open --HalfOpenLimit successes-->            closed
//	half-open --any failure-->                        open
type CircuitBreaker struct {
	mu       sync.Mutex
	cfg      CircuitBreakerConfig
	state    State
	counts   Counts
	openedAt time.Time

	onStateChange func(from, to State)
	now           func() time.Time
}

// NewCircuitBreaker returns a closed breaker.
func NewCircuitBreaker(cfg CircuitBreakerConfig) *CircuitBreaker {
	cfg.MaxFailures = max(cfg.MaxFailures, 1)
	cfg.HalfOpenLimit = max(cfg.HalfOpenLimit, 1)

	return &CircuitBreaker{cfg: cfg, now: time.Now}
}

// OnStateChange registers fn to be called asynchronously on every transition.
func (cb *CircuitBreaker) OnStateChange(fn func(from, to State)) {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	cb.onStateChange = fn
}

// Allow reports whether a request may proceed. A true result from an open
// or half-open breaker reserves a probe slot that the following
// RecordSuccess or RecordFailure releases.
func (cb *CircuitBreaker) Allow() bool {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateOpen {
		if cb.now().Sub(cb.openedAt) < cb.cfg.Timeout {
			return false
		}

		cb.setState(StateHalfOpen)
	}

	if cb.state == StateHalfOpen {
		if cb.counts.InFlightProbes >= cb.cfg.HalfOpenLimit {
			return false
		}

		cb.counts.InFlightProbes++
	}

	return true
}

// RecordSuccess records a request that reached the service and did not fail
// with a server error.
func (cb *CircuitBreaker) RecordSuccess() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		cb.counts.ConsecutiveFailures = 0

	case StateHalfOpen:
		cb.releaseProbe()
		cb.counts.ConsecutiveSuccesses++

		if cb.counts.ConsecutiveSuccesses >= cb.cfg.HalfOpenLimit {
			cb.setState(StateClosed)
		}

	case StateOpen:
	}
}

// RecordFailure records a transport failure, timeout or server error.
func (cb *CircuitBreaker) RecordFailure() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	switch cb.state {
	case StateClosed:
		cb.counts.ConsecutiveFailures++

		if cb.counts.ConsecutiveFailures >= cb.cfg.MaxFailures {
			cb.setState(StateOpen)
		}

	case StateHalfOpen:
		cb.releaseProbe()
		cb.setState(StateOpen)

	case StateOpen:
		cb.openedAt = cb.now()
	}
}

// State returns the current state without advancing an expired open timeout.
func (cb *CircuitBreaker) State() State {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.state
}

// Counts returns a snapshot of the counters.
func (cb *CircuitBreaker) Counts() Counts {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	return cb.counts
}

// Release frees a probe slot reserved by Allow without recording an
// outcome. Used when the caller abandons the request.
func (cb *CircuitBreaker) Release() {
	cb.mu.Lock()
	defer cb.mu.Unlock()

	if cb.state == StateHalfOpen {
		cb.releaseProbe()
	}
}

func (cb *CircuitBreaker) releaseProbe() {
	if cb.counts.InFlightProbes > 0 {
		cb.counts.InFlightProbes--
	}
}

// setState must be called with mu held.
func (cb *CircuitBreaker) setState(to State) {
	from := cb.state
	if from == to {
		return
	}

	cb.state = to
	cb.counts = Counts{}

	if to == StateOpen {
		cb.openedAt = cb.now()
	}

	if cb.onStateChange != nil {
		go cb.onStateChange(from, to)
	}
}
