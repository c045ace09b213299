package advice

import (
	"context"
	"fmt"
	"log/slog"
	"sync"
	"time"

	"github.com/glimte/weave-go/contracts"
)

// Built-in advice for common cross-cutting concerns.

// LoggingAdvice logs method dispatch with timing information.
type LoggingAdvice struct {
	logger *slog.Logger
}

// NewLoggingAdvice creates a new logging advice.
func NewLoggingAdvice(logger *slog.Logger) *LoggingAdvice {
	if logger == nil {
		logger = slog.Default()
	}
	return &LoggingAdvice{logger: logger}
}

// Advise implements Around.
func (a *LoggingAdvice) Advise(ctx context.Context, inv Invocation) (any, error) {
	start := time.Now()

	a.logger.Info("invoking method",
		"invocationId", inv.ID(),
		"method", inv.Method().String(),
	)

	result, err := inv.Proceed(ctx)
	duration := time.Since(start)

	if err != nil {
		a.logger.Error("method failed",
			"invocationId", inv.ID(),
			"method", inv.Method().String(),
			"duration", duration,
			"error", err,
		)
	} else {
		a.logger.Info("method completed",
			"invocationId", inv.ID(),
			"method", inv.Method().String(),
			"duration", duration,
		)
	}

	return result, err
}

// Name implements Around.
func (a *LoggingAdvice) Name() string { return "LoggingAdvice" }

// CallCounter counts dispatched calls per method. It is safe to share one
// instance across many proxies: the count map synchronizes its own access.
type CallCounter struct {
	mu     sync.RWMutex
	counts map[string]int64
}

// NewCallCounter creates a new call counter.
func NewCallCounter() *CallCounter {
	return &CallCounter{counts: make(map[string]int64)}
}

// Before implements Before.
func (c *CallCounter) Before(ctx context.Context, m *contracts.Method, args []any, target any) error {
	c.mu.Lock()
	c.counts[m.Name]++
	c.mu.Unlock()
	return nil
}

// Name implements Before.
func (c *CallCounter) Name() string { return "CallCounter" }

// Count returns the number of calls observed for a method.
func (c *CallCounter) Count(method string) int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.counts[method]
}

// Total returns the number of calls observed across all methods.
func (c *CallCounter) Total() int64 {
	c.mu.RLock()
	defer c.mu.RUnlock()
	var total int64
	for _, n := range c.counts {
		total += n
	}
	return total
}

// DeniedError is the failure raised by AccessGuard when a call is rejected.
type DeniedError struct {
	// Method is the rejected method name.
	Method string
	// Reason describes why the call was denied.
	Reason string
}

// Error implements the error interface.
func (e *DeniedError) Error() string {
	if e.Reason != "" {
		return fmt.Sprintf("access denied: %s: %s", e.Method, e.Reason)
	}
	return fmt.Sprintf("access denied: %s", e.Method)
}

// AccessGuard rejects calls matched by a deny predicate before the target
// executes.
type AccessGuard struct {
	deny   func(ctx context.Context, m *contracts.Method) bool
	reason string
}

// NewAccessGuard creates a new access guard advice. Calls for which deny
// returns true fail with a DeniedError.
func NewAccessGuard(deny func(ctx context.Context, m *contracts.Method) bool, reason string) *AccessGuard {
	return &AccessGuard{deny: deny, reason: reason}
}

// Before implements Before.
func (g *AccessGuard) Before(ctx context.Context, m *contracts.Method, args []any, target any) error {
	if g.deny(ctx, m) {
		return &DeniedError{Method: m.Name, Reason: g.reason}
	}
	return nil
}

// Name implements Before.
func (g *AccessGuard) Name() string { return "AccessGuard" }
