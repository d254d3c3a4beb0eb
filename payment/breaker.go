package payment

import (
	"errors"
	"fmt"
	"time"

	"github.com/junaidrashid-git/autoparts-api/metrics"
	log "github.com/sirupsen/logrus"
	"github.com/sony/gobreaker"
)

const service = "autoparts-api"

var ErrUnavailable = errors.New("payment processor unavailable")

// breaker wraps gobreaker and mirrors its state into the circuit breaker gauge.
type breaker struct {
	*gobreaker.CircuitBreaker
	name string
}

func newBreaker(name string) *breaker {
	cb := gobreaker.NewCircuitBreaker(gobreaker.Settings{
		Name:        name,
		MaxRequests: 3,
		Interval:    30 * time.Second,
		Timeout:     30 * time.Second,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			failureRatio := float64(counts.TotalFailures) / float64(counts.Requests)
			return counts.Requests >= 5 && failureRatio >= 0.6
		},
		OnStateChange: func(cbName string, from, to gobreaker.State) {
			metrics.CircuitBreakerState.WithLabelValues(service, cbName).Set(stateValue(to))
			log.WithFields(log.Fields{
				"circuit": cbName,
				"from":    from.String(),
				"to":      to.String(),
			}).Warn("Circuit breaker state changed")
		},
	})
	metrics.CircuitBreakerState.WithLabelValues(service, name).Set(0)
	return &breaker{CircuitBreaker: cb, name: name}
}

func stateValue(s gobreaker.State) float64 {
	switch s {
	case gobreaker.StateOpen:
		return 1
	case gobreaker.StateHalfOpen:
		return 2
	default:
		return 0
	}
}

// call runs fn through the breaker. Open or saturated breakers surface as
// ErrUnavailable.
func (b *breaker) call(fn func() (interface{}, error)) (interface{}, error) {
	res, err := b.Execute(fn)
	if errors.Is(err, gobreaker.ErrOpenState) || errors.Is(err, gobreaker.ErrTooManyRequests) {
		return nil, fmt.Errorf("%w: circuit %s is %s", ErrUnavailable, b.name, b.State())
	}
	return res, err
}
