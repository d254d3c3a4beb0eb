package checkout

import (
	"context"
	"errors"
	"fmt"
	"sync/atomic"
	"time"

	"github.com/junaidrashid-git/autoparts-api/events"
	"github.com/junaidrashid-git/autoparts-api/metrics"
	"github.com/junaidrashid-git/autoparts-api/models"
)

var ErrWatchTimeout = errors.New("timed out waiting for payment approval")

// Watcher waits for a placed order to be approved or paid.
type Watcher struct {
	orders  OrderReader
	hub     Subscriber
	timeout time.Duration
}

// NewWatcher returns a Watcher; a zero timeout waits until cancelled.
func NewWatcher(orders OrderReader, hub Subscriber, timeout time.Duration) *Watcher {
	return &Watcher{orders: orders, hub: hub, timeout: timeout}
}

type Subscription struct {
	cancel       context.CancelFunc
	done         chan struct{}
	err          error
	unsubscribed atomic.Bool
}

// Unsubscribe stops the watch. It does not wait for the watch goroutine.
func (s *Subscription) Unsubscribe() {
	s.unsubscribed.Store(true)
	s.cancel()
}

// Done is closed once the watch has ended for any reason.
func (s *Subscription) Done() <-chan struct{} { return s.done }

// Err is valid after Done is closed: nil when approved or unsubscribed,
// ErrWatchTimeout on timeout, otherwise the context error.
func (s *Subscription) Err() error {
	select {
	case <-s.done:
		return s.err
	default:
		return nil
	}
}

// Watch calls onApproved at most once, the first time the order status is
// Approved or Paid. The current status counts: an order already approved
// fires immediately.
func (w *Watcher) Watch(ctx context.Context, ref models.OrderRef, onApproved func(models.OrderStatus)) (*Subscription, error) {
	ledger, err := models.ParseLedgerPath(ref.LedgerPath)
	if err != nil {
		return nil, err
	}

	// subscribe before reading so no update between the two is lost
	updates, unsubscribe := w.hub.Subscribe(ref)

	order, err := w.orders.GetOrder(ctx, ledger, ref.OrderID)
	if err != nil {
		unsubscribe()
		return nil, fmt.Errorf("watch order %s: %w", ref.OrderID, err)
	}

	var wctx context.Context
	var cancel context.CancelFunc
	if w.timeout > 0 {
		wctx, cancel = context.WithTimeout(ctx, w.timeout)
	} else {
		wctx, cancel = context.WithCancel(ctx)
	}

	sub := &Subscription{cancel: cancel, done: make(chan struct{})}
	metrics.ActiveWatchers.Inc()

	go func() {
		defer close(sub.done)
		defer metrics.ActiveWatchers.Dec()
		defer unsubscribe()
		defer cancel()

		if order.Status.Settled() {
			onApproved(order.Status)
			return
		}
		for {
			select {
			case e, ok := <-updates:
				if !ok {
					return
				}
				if e.Type == events.OrderStatusChanged && e.Status.Settled() {
					onApproved(e.Status)
					return
				}
			case <-wctx.Done():
				switch {
				case sub.unsubscribed.Load():
				case errors.Is(wctx.Err(), context.DeadlineExceeded):
					sub.err = ErrWatchTimeout
				default:
					sub.err = wctx.Err()
				}
				return
			}
		}
	}()

	return sub, nil
}
