// Package breaker provides a per-provider circuit breaker for upstream
// model calls. A circuit opens after a run of consecutive failures and
// stays open for a cooldown period, during which calls fail fast.
package breaker

import (
	"errors"
	"fmt"
	"sync"
	"time"
)

// ErrCircuitOpen is returned when a provider's circuit is open.
var ErrCircuitOpen = errors.New("circuit open")

// circuit tracks the failure state for one provider.
type circuit struct {
	failures int
	openedAt time.Time
}

// Breaker tracks circuits keyed by provider label.
type Breaker struct {
	threshold int
	cooldown  time.Duration

	mu       sync.Mutex
	circuits map[string]*circuit

	// now is injectable for tests.
	now func() time.Time
}

// New creates a Breaker. A circuit opens after threshold consecutive
// failures and admits a probe call once cooldown has elapsed.
func New(threshold int, cooldown time.Duration) *Breaker {
	if threshold <= 0 {
		threshold = 5
	}
	if cooldown <= 0 {
		cooldown = 30 * time.Second
	}
	return &Breaker{
		threshold: threshold,
		cooldown:  cooldown,
		circuits:  make(map[string]*circuit),
		now:       time.Now,
	}
}

// Allow reports whether a call to the named provider may proceed.
// Returns ErrCircuitOpen (wrapped with the provider name) while the
// circuit is open and the cooldown has not elapsed.
func (b *Breaker) Allow(name string) error {
	b.mu.Lock()
	defer b.mu.Unlock()

	c, ok := b.circuits[name]
	if !ok || c.failures < b.threshold {
		return nil
	}

	if b.now().Sub(c.openedAt) >= b.cooldown {
		// Cooldown elapsed: admit a probe. A failure re-opens the
		// circuit with a fresh cooldown; a success closes it.
		return nil
	}

	return fmt.Errorf("provider %q: %w", name, ErrCircuitOpen)
}

// Success records a successful call and closes the provider's circuit.
func (b *Breaker) Success(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()
	delete(b.circuits, name)
}

// Failure records a failed call. The circuit opens when the
// consecutive failure count reaches the threshold.
func (b *Breaker) Failure(name string) {
	b.mu.Lock()
	defer b.mu.Unlock()

	c, ok := b.circuits[name]
	if !ok {
		c = &circuit{}
		b.circuits[name] = c
	}
	c.failures++
	if c.failures >= b.threshold {
		c.openedAt = b.now()
	}
}

// ResetAll clears every circuit and returns how many were cleared.
func (b *Breaker) ResetAll() int {
	b.mu.Lock()
	defer b.mu.Unlock()

	n := len(b.circuits)
	b.circuits = make(map[string]*circuit)
	return n
}
