package events

import (
	"context"
	"errors"
	"time"

	"github.com/junaidrashid-git/autoparts-api/models"
)

type Type string

const (
	OrderCreated       Type = "order.created"
	OrderStatusChanged Type = "order.status_changed"
	RequestCreated     Type = "admin_request.created"
)

type Event struct {
	Type    Type                 `json:"type"`
	Ref     models.OrderRef      `json:"ref"`
	Status  models.OrderStatus   `json:"status,omitempty"`
	Order   *models.Order        `json:"order,omitempty"`
	Request *models.AdminRequest `json:"request,omitempty"`
	At      time.Time            `json:"at"`
}

// Publisher delivers events to one destination.
type Publisher interface {
	Publish(ctx context.Context, e Event) error
}

// Multi fans an event out to every publisher and joins their errors.
type Multi []Publisher

func (m Multi) Publish(ctx context.Context, e Event) error {
	var errs []error
	for _, p := range m {
		if p == nil {
			continue
		}
		if err := p.Publish(ctx, e); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
