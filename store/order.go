package store

import (
	"context"
	"fmt"
	"time"

	"github.com/junaidrashid-git/autoparts-api/events"
	"github.com/junaidrashid-git/autoparts-api/models"
	"gorm.io/gorm"
)

var pendingStatuses = []models.OrderStatus{models.StatusPendingPayment, models.StatusPendingApproval}

// CreateOrder writes order into ledger and, when given, its approval request
// in the same transaction. A marketer ledger write also bumps the marketer's
// sales counter.
func (s *Store) CreateOrder(ctx context.Context, ledger models.Ledger, order *models.Order, approval *models.AdminRequest) error {
	return s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if ledger.IsMarketer() {
			order.MarketerID = ledger.MarketerID
		}
		if err := tx.Table(ledger.Table()).Create(order).Error; err != nil {
			return fmt.Errorf("insert order: %w", err)
		}
		if approval != nil {
			if err := tx.Create(approval).Error; err != nil {
				return fmt.Errorf("insert approval request: %w", err)
			}
		}
		if ledger.IsMarketer() {
			res := tx.Model(&models.Marketer{}).
				Where("id = ?", ledger.MarketerID).
				UpdateColumn("sales_count", gorm.Expr("sales_count + 1"))
			if res.Error != nil {
				return res.Error
			}
		}
		return nil
	})
}

func (s *Store) GetOrder(ctx context.Context, ledger models.Ledger, id string) (*models.Order, error) {
	return getOrder(s.db.WithContext(ctx), ledger, id)
}

func getOrder(tx *gorm.DB, ledger models.Ledger, id string) (*models.Order, error) {
	q := tx.Table(ledger.Table()).Where("id = ?", id)
	if ledger.IsMarketer() {
		q = q.Where("marketer_id = ?", ledger.MarketerID)
	}
	var o models.Order
	if err := q.First(&o).Error; err != nil {
		return nil, notFound(err)
	}
	return &o, nil
}

// ListOrders returns a ledger's orders, newest first. An optional status
// narrows the listing.
func (s *Store) ListOrders(ctx context.Context, ledger models.Ledger, status models.OrderStatus) ([]models.Order, error) {
	q := s.db.WithContext(ctx).Table(ledger.Table())
	if ledger.IsMarketer() {
		q = q.Where("marketer_id = ?", ledger.MarketerID)
	}
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []models.Order
	if err := q.Order("created_at desc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ListAllSales returns every marketer sale across all marketer ledgers.
func (s *Store) ListAllSales(ctx context.Context, status models.OrderStatus) ([]models.Order, error) {
	q := s.db.WithContext(ctx).Table(models.MarketerLedger("_").Table())
	if status != "" {
		q = q.Where("status = ?", status)
	}
	var out []models.Order
	if err := q.Order("created_at desc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// SettleOrder moves a pending order to status and closes every pending
// request filed for it. It fails with ErrStatusConflict when the order has
// already left the pending states.
func (s *Store) SettleOrder(ctx context.Context, ledger models.Ledger, id string, status models.OrderStatus) error {
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := transitionOrder(tx, ledger, id, pendingStatuses, status); err != nil {
			return err
		}
		return closeOrderRequests(tx, ledger.Path(), id)
	})
	if err != nil {
		return err
	}
	s.statusChanged(ctx, ledger, id, status)
	return nil
}

// closeOrderRequests settles the pending requests of an order that has left
// the pending states. Sale Approval closes as Approved, every other type as
// Completed.
func closeOrderRequests(tx *gorm.DB, ledgerPath, orderID string) error {
	const pending = "ledger_path = ? AND order_id = ? AND status = ?"
	if err := tx.Model(&models.AdminRequest{}).
		Where(pending, ledgerPath, orderID, models.RequestPending).
		Where("type = ?", models.RequestSaleApproval).
		Update("status", models.RequestApproved).Error; err != nil {
		return err
	}
	return tx.Model(&models.AdminRequest{}).
		Where(pending, ledgerPath, orderID, models.RequestPending).
		Where("type <> ?", models.RequestSaleApproval).
		Update("status", models.RequestCompleted).Error
}

// transitionOrder changes the status only if the current one is in from.
func transitionOrder(tx *gorm.DB, ledger models.Ledger, id string, from []models.OrderStatus, to models.OrderStatus) error {
	q := tx.Table(ledger.Table()).Where("id = ? AND status IN ?", id, from)
	if ledger.IsMarketer() {
		q = q.Where("marketer_id = ?", ledger.MarketerID)
	}
	res := q.Updates(map[string]any{"status": to, "updated_at": time.Now().UTC()})
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected > 0 {
		return nil
	}
	if _, err := getOrder(tx, ledger, id); err != nil {
		return err
	}
	return fmt.Errorf("order %s: %w", id, ErrStatusConflict)
}

func (s *Store) statusChanged(ctx context.Context, ledger models.Ledger, id string, status models.OrderStatus) {
	s.publish(ctx, events.Event{
		Type:   events.OrderStatusChanged,
		Ref:    models.OrderRef{LedgerPath: ledger.Path(), OrderID: id},
		Status: status,
		At:     time.Now().UTC(),
	})
}
