package checkout

import (
	"context"

	"github.com/junaidrashid-git/autoparts-api/events"
	"github.com/junaidrashid-git/autoparts-api/models"
)

// CartStorage persists whole carts. LoadCart returns an empty slice when the
// key has never been written.
type CartStorage interface {
	LoadCart(ctx context.Context, key string) ([]models.LineItem, error)
	SaveCart(ctx context.Context, key string, items []models.LineItem) error
	DeleteCart(ctx context.Context, key string) error
}

// DiscountLookup finds the product carrying a discount code. Implementations
// return models.ErrNotFound on a miss.
type DiscountLookup interface {
	FindByDiscountCode(ctx context.Context, code string) (*models.Product, error)
}

// MarketerLookup finds a marketer by referral code, models.ErrNotFound on a miss.
type MarketerLookup interface {
	FindMarketerByCode(ctx context.Context, code string) (*models.Marketer, error)
}

// OrderWriter stores an order in ledger. When approval is not nil it is
// stored atomically with the order.
type OrderWriter interface {
	CreateOrder(ctx context.Context, ledger models.Ledger, order *models.Order, approval *models.AdminRequest) error
}

type OrderReader interface {
	GetOrder(ctx context.Context, ledger models.Ledger, id string) (*models.Order, error)
}

type Subscriber interface {
	Subscribe(ref models.OrderRef) (<-chan events.Event, func())
}
