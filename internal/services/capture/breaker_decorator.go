package capture

import (
	"context"
	"fmt"
	"time"

	"github.com/sony/gobreaker"
)

const (
	timeInterval = 30 * time.Second
	timeTimeOut  = 15 * time.Second

	repeatNumber = 5
)

type capturer interface {
	Capture(ctx context.Context, email string) error
}

type BreakerClient struct {
	name    string
	cb      *gobreaker.CircuitBreaker
	wrapped capturer
}

func NewBreakerClient(name string, wrapped capturer) *BreakerClient {
	settings := gobreaker.Settings{
		Name:        name,
		MaxRequests: 1,
		Interval:    timeInterval,
		Timeout:     timeTimeOut,
		ReadyToTrip: func(counts gobreaker.Counts) bool {
			return counts.ConsecutiveFailures >= repeatNumber
		},
	}
	return &BreakerClient{
		name:    name,
		cb:      gobreaker.NewCircuitBreaker(settings),
		wrapped: wrapped,
	}
}

func (b *BreakerClient) Capture(ctx context.Context, email string) error {
	_, err := b.cb.Execute(func() (interface{}, error) {
		return nil, b.wrapped.Capture(ctx, email)
	})
	if err != nil {
		return fmt.Errorf("%s unavailable (breaker %s): %w", b.name, b.state(), err)
	}
	return nil
}

func (b *BreakerClient) state() gobreaker.State {
	return b.cb.State()
}
