package store

import (
	"context"
	"errors"
	"testing"
	"time"

	"github.com/junaidrashid-git/autoparts-api/checkout"
	"github.com/junaidrashid-git/autoparts-api/events"
	"github.com/junaidrashid-git/autoparts-api/models"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestCreateOrderGeneralLedgerWithApproval(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	order := pendingOrder("100")
	order.ID = "o-1"
	approval := &models.AdminRequest{
		Type:       models.RequestPaymentApproval,
		LedgerPath: models.OrdersLedgerPath,
		OrderID:    order.ID,
		Amount:     order.Total,
	}
	require.NoError(t, s.CreateOrder(ctx, models.GeneralLedger(), order, approval))

	got, err := s.GetOrder(ctx, models.GeneralLedger(), "o-1")
	require.NoError(t, err)
	assert.Equal(t, models.StatusPendingPayment, got.Status)
	assert.True(t, got.Total.Equal(d("100")))
	assert.Nil(t, got.MarketerCode)
	require.Len(t, got.Items, 1)

	_, err = s.GetOrder(ctx, models.MarketerLedger("m1"), "o-1")
	assert.ErrorIs(t, err, models.ErrNotFound)

	reqs, err := s.ListRequests(ctx, RequestFilter{Status: models.RequestPending})
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, "orders", reqs[0].LedgerPath)
	assert.Equal(t, "o-1", reqs[0].OrderID)
}

func TestCreateOrderMarketerLedger(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()
	m := seedMarketer(t, s, "m@example.com")

	order := pendingOrder("50")
	code := m.Code
	order.MarketerCode = &code
	ledger := models.MarketerLedger(m.ID)
	require.NoError(t, s.CreateOrder(ctx, ledger, order, nil))

	sales, err := s.ListOrders(ctx, ledger, "")
	require.NoError(t, err)
	require.Len(t, sales, 1)
	require.NotNil(t, sales[0].MarketerCode)
	assert.Equal(t, m.Code, *sales[0].MarketerCode)

	general, err := s.ListOrders(ctx, models.GeneralLedger(), "")
	require.NoError(t, err)
	assert.Empty(t, general)

	reloaded, err := s.GetMarketer(ctx, m.ID)
	require.NoError(t, err)
	assert.Equal(t, 1, reloaded.SalesCount)
}

func TestCreateOrderRollsBackOnApprovalFailure(t *testing.T) {
	s, _ := newTestStore(t)
	ctx := context.Background()

	first := &models.AdminRequest{ID: "r-1", Type: models.RequestPaymentApproval}
	require.NoError(t, s.CreateRequest(ctx, first))

	order := pendingOrder("10")
	order.ID = "o-2"
	err := s.CreateOrder(ctx, models.GeneralLedger(), order, &models.AdminRequest{ID: "r-1", Type: models.RequestPaymentApproval})
	require.Error(t, err)

	_, err = s.GetOrder(ctx, models.GeneralLedger(), "o-2")
	assert.ErrorIs(t, err, models.ErrNotFound)
}

func TestSettleOrderOnlyOnce(t *testing.T) {
	s, hub := newTestStore(t)
	ctx := context.Background()

	order := pendingOrder("10")
	require.NoError(t, s.CreateOrder(ctx, models.GeneralLedger(), order, &models.AdminRequest{
		Type: models.RequestPaymentApproval, LedgerPath: "orders", OrderID: order.ID,
	}))
	ref := models.OrderRef{LedgerPath: "orders", OrderID: order.ID}
	updates, cancel := hub.Subscribe(ref)
	defer cancel()

	require.NoError(t, s.SettleOrder(ctx, models.GeneralLedger(), order.ID, models.StatusApproved))

	e := <-updates
	assert.Equal(t, events.OrderStatusChanged, e.Type)
	assert.Equal(t, models.StatusApproved, e.Status)

	err := s.SettleOrder(ctx, models.GeneralLedger(), order.ID, models.StatusApproved)
	assert.True(t, errors.Is(err, ErrStatusConflict))

	err = s.SettleOrder(ctx, models.GeneralLedger(), "missing", models.StatusApproved)
	assert.ErrorIs(t, err, models.ErrNotFound)

	reqs, err := s.ListRequests(ctx, RequestFilter{})
	require.NoError(t, err)
	require.Len(t, reqs, 1)
	assert.Equal(t, models.RequestCompleted, reqs[0].Status)
}

func TestWatcherSeesApprovalThroughStore(t *testing.T) {
	s, hub := newTestStore(t)
	ctx := context.Background()

	order := pendingOrder("10")
	require.NoError(t, s.CreateOrder(ctx, models.GeneralLedger(), order, nil))
	ref := models.OrderRef{LedgerPath: "orders", OrderID: order.ID}

	fired := make(chan models.OrderStatus, 1)
	sub, err := checkout.NewWatcher(s, hub, time.Minute).Watch(ctx, ref, func(st models.OrderStatus) { fired <- st })
	require.NoError(t, err)

	require.NoError(t, s.SettleOrder(ctx, models.GeneralLedger(), order.ID, models.StatusApproved))

	select {
	case st := <-fired:
		assert.Equal(t, models.StatusApproved, st)
	case <-time.After(2 * time.Second):
		t.Fatal("approval not observed")
	}
	<-sub.Done()
	assert.NoError(t, sub.Err())
}
