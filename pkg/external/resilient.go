package external

import (
	"context"
	"sync"

	"github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"

	"github.com/medlit-search-server/internal/domain"
)

// PartsSearcher searches a source that accepts query parts.
type PartsSearcher interface {
	SearchParts(ctx context.Context, parts []string) ([]domain.Record, error)
}

// QuerySearcher searches a source that takes one query string.
type QuerySearcher interface {
	SearchQuery(ctx context.Context, query string) ([]domain.Record, error)
}

// BreakerRegistry tracks the circuit breaker of every wrapped source so
// /health can report their states.
type BreakerRegistry struct {
	mu       sync.Mutex
	breakers map[string]*gobreaker.CircuitBreaker
}

// NewBreakerRegistry creates an empty registry.
func NewBreakerRegistry() *BreakerRegistry {
	return &BreakerRegistry{breakers: make(map[string]*gobreaker.CircuitBreaker)}
}

func (r *BreakerRegistry) register(name string, cb *gobreaker.CircuitBreaker) {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.breakers[name] = cb
}

// States reports every registered breaker's current state by source name.
func (r *BreakerRegistry) States() map[string]string {
	r.mu.Lock()
	defer r.mu.Unlock()
	states := make(map[string]string, len(r.breakers))
	for name, cb := range r.breakers {
		states[name] = cb.State().String()
	}
	return states
}

func newBreaker(name string, logger *logrus.Logger) *gobreaker.CircuitBreaker {
	return gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= 5
		},
		OnStateChange: func(name string, from, to gobreaker.State) {
			logger.WithFields(logrus.Fields{
				"source": name,
				"from":   from.String(),
				"to":     to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})
}

// ResilientPartsSearcher wraps a parts-style source with a circuit breaker.
type ResilientPartsSearcher struct {
	inner   PartsSearcher
	breaker *gobreaker.CircuitBreaker
}

// WrapPartsSearcher adds a named circuit breaker around a parts-style
// source and registers it for health reporting.
func WrapPartsSearcher(name string, inner PartsSearcher, registry *BreakerRegistry, logger *logrus.Logger) *ResilientPartsSearcher {
	cb := newBreaker(name, logger)
	registry.register(name, cb)
	return &ResilientPartsSearcher{inner: inner, breaker: cb}
}

// SearchParts runs the wrapped search through the breaker.
func (r *ResilientPartsSearcher) SearchParts(ctx context.Context, parts []string) ([]domain.Record, error) {
	result, err := r.breaker.Execute(func() (interface{}, error) {
		return r.inner.SearchParts(ctx, parts)
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Record), nil
}

// ResilientQuerySearcher wraps a query-style source with a circuit breaker.
type ResilientQuerySearcher struct {
	inner   QuerySearcher
	breaker *gobreaker.CircuitBreaker
}

// WrapQuerySearcher adds a named circuit breaker around a query-style
// source and registers it for health reporting.
func WrapQuerySearcher(name string, inner QuerySearcher, registry *BreakerRegistry, logger *logrus.Logger) *ResilientQuerySearcher {
	cb := newBreaker(name, logger)
	registry.register(name, cb)
	return &ResilientQuerySearcher{inner: inner, breaker: cb}
}

// SearchQuery runs the wrapped search through the breaker.
func (r *ResilientQuerySearcher) SearchQuery(ctx context.Context, query string) ([]domain.Record, error) {
	result, err := r.breaker.Execute(func() (interface{}, error) {
		return r.inner.SearchQuery(ctx, query)
	})
	if err != nil {
		return nil, err
	}
	return result.([]domain.Record), nil
}
