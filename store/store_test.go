package store

import (
	"context"
	"path/filepath"
	"testing"

	"github.com/glebarez/sqlite"
	"github.com/junaidrashid-git/autoparts-api/events"
	"github.com/junaidrashid-git/autoparts-api/models"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestStore(t *testing.T) (*Store, *events.Hub) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(filepath.Join(t.TempDir(), "test.db")), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	require.NoError(t, err)

	sqlDB, err := db.DB()
	require.NoError(t, err)
	sqlDB.SetMaxOpenConns(1)
	t.Cleanup(func() { _ = sqlDB.Close() })

	require.NoError(t, Migrate(db))
	hub := events.NewHub()
	return New(db, hub), hub
}

func d(s string) decimal.Decimal { return decimal.RequireFromString(s) }

func seedProduct(t *testing.T, s *Store, p models.Product) *models.Product {
	t.Helper()
	if p.Currency == "" {
		p.Currency = models.CurrencyEUR
	}
	require.NoError(t, s.CreateProduct(context.Background(), &p))
	return &p
}

func seedMarketer(t *testing.T, s *Store, email string) *models.Marketer {
	t.Helper()
	m, err := s.CreateMarketer(context.Background(), NewMarketer{
		Name:     "Marketer " + email,
		Email:    email,
		Password: "secret123",
	})
	require.NoError(t, err)
	return m
}

func pendingOrder(total string) *models.Order {
	return &models.Order{
		Items: []models.LineItem{{
			ProductID: "p1", Name: "Brake pad", UnitPrice: d(total), Currency: models.CurrencyKES, Quantity: 1,
		}},
		Currency:      models.CurrencyKES,
		Subtotal:      d(total),
		Total:         d(total),
		Commission:    decimal.Zero,
		Customer:      models.Customer{Name: "Amina", Email: "amina@example.com", Phone: "0700", Address: "Nairobi"},
		PaymentMethod: models.PaymentMpesa,
		Status:        models.StatusPendingPayment,
	}
}
