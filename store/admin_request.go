package store

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/junaidrashid-git/autoparts-api/events"
	"github.com/junaidrashid-git/autoparts-api/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/gorm"
)

// RequestFilter narrows the approval queue listing.
type RequestFilter struct {
	Type       models.RequestType
	Status     models.RequestStatus
	MarketerID string
}

func (s *Store) CreateRequest(ctx context.Context, r *models.AdminRequest) error {
	if err := s.db.WithContext(ctx).Create(r).Error; err != nil {
		return err
	}
	s.publish(ctx, events.Event{
		Type:    events.RequestCreated,
		Ref:     models.OrderRef{LedgerPath: r.LedgerPath, OrderID: r.OrderID},
		Request: r,
	})
	return nil
}

func (s *Store) GetRequest(ctx context.Context, id string) (*models.AdminRequest, error) {
	var r models.AdminRequest
	if err := s.db.WithContext(ctx).First(&r, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &r, nil
}

func (s *Store) ListRequests(ctx context.Context, f RequestFilter) ([]models.AdminRequest, error) {
	q := s.db.WithContext(ctx).Model(&models.AdminRequest{})
	if f.Type != "" {
		q = q.Where("type = ?", f.Type)
	}
	if f.Status != "" {
		q = q.Where("status = ?", f.Status)
	}
	if f.MarketerID != "" {
		q = q.Where("marketer_id = ?", f.MarketerID)
	}
	var out []models.AdminRequest
	if err := q.Order("created_at desc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

// ApproveRequest applies the effect of a pending request and closes it:
//
//	Payment Approval       order Approved, request Completed
//	Sale Approval          sale Approved, request Approved
//	Delete Product         product deleted, request Completed
//	Marketer Registration  marketer created, request Completed
func (s *Store) ApproveRequest(ctx context.Context, id string) (*models.AdminRequest, error) {
	var (
		req     models.AdminRequest
		settled *models.OrderRef
	)
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&req, "id = ?", id).Error; err != nil {
			return notFound(err)
		}
		if req.Status != models.RequestPending {
			return fmt.Errorf("request %s is %s: %w", id, req.Status, ErrStatusConflict)
		}

		next := models.RequestCompleted
		switch req.Type {
		case models.RequestPaymentApproval:
			ledger, err := models.ParseLedgerPath(req.LedgerPath)
			if err != nil {
				return err
			}
			if err := transitionOrder(tx, ledger, req.OrderID, pendingStatuses, models.StatusApproved); err != nil {
				return err
			}
			if err := closeOrderRequests(tx, req.LedgerPath, req.OrderID); err != nil {
				return err
			}
			settled = &models.OrderRef{LedgerPath: req.LedgerPath, OrderID: req.OrderID}

		case models.RequestSaleApproval:
			ledger := models.MarketerLedger(req.MarketerID)
			if err := transitionOrder(tx, ledger, req.SaleID, pendingStatuses, models.StatusApproved); err != nil {
				return err
			}
			if err := closeOrderRequests(tx, ledger.Path(), req.SaleID); err != nil {
				return err
			}
			settled = &models.OrderRef{LedgerPath: ledger.Path(), OrderID: req.SaleID}
			next = models.RequestApproved

		case models.RequestDeleteProduct:
			if err := deleteProduct(tx, req.ProductID); err != nil && !errors.Is(err, models.ErrNotFound) {
				return err
			}

		case models.RequestMarketerRegistration:
			if req.Registration == nil {
				return errors.New("registration request has no applicant")
			}
			m, err := createMarketer(tx, NewMarketer{
				Name:         req.Registration.Name,
				Email:        req.Registration.Email,
				Phone:        req.Registration.Phone,
				PasswordHash: req.RegistrationPasswordHash,
			})
			if err != nil {
				return err
			}
			req.MarketerID = m.ID
			req.MarketerName = m.Name

		default:
			return fmt.Errorf("unknown request type %q", req.Type)
		}

		req.Status = next
		return tx.Model(&req).Updates(map[string]any{
			"status":        req.Status,
			"marketer_id":   req.MarketerID,
			"marketer_name": req.MarketerName,
		}).Error
	})
	if err != nil {
		return nil, err
	}

	log.WithFields(log.Fields{"request_id": req.ID, "type": req.Type, "status": req.Status}).Info("Admin request approved")
	if settled != nil {
		ledger, _ := models.ParseLedgerPath(settled.LedgerPath)
		s.statusChanged(ctx, ledger, settled.OrderID, models.StatusApproved)
	}
	return &req, nil
}

func (s *Store) RejectRequest(ctx context.Context, id string) (*models.AdminRequest, error) {
	var req models.AdminRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&req, "id = ?", id).Error; err != nil {
			return notFound(err)
		}
		if req.Status != models.RequestPending {
			return fmt.Errorf("request %s is %s: %w", id, req.Status, ErrStatusConflict)
		}
		req.Status = models.RequestRejected
		return tx.Model(&req).Update("status", req.Status).Error
	})
	if err != nil {
		return nil, err
	}
	return &req, nil
}

// RequestSaleApproval moves a marketer's pending sale to Pending Approval and
// files a Sale Approval request for it.
func (s *Store) RequestSaleApproval(ctx context.Context, m *models.Marketer, saleID string) (*models.AdminRequest, error) {
	ledger := models.MarketerLedger(m.ID)
	var req *models.AdminRequest
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		sale, err := getOrder(tx, ledger, saleID)
		if err != nil {
			return err
		}
		from := []models.OrderStatus{models.StatusPendingPayment}
		if err := transitionOrder(tx, ledger, saleID, from, models.StatusPendingApproval); err != nil {
			return err
		}
		req = &models.AdminRequest{
			Type:         models.RequestSaleApproval,
			Description:  fmt.Sprintf("%s requests approval of sale %s (%s %s)", m.Name, saleID, sale.Currency, sale.Total.StringFixed(2)),
			LedgerPath:   ledger.Path(),
			OrderID:      saleID,
			MarketerID:   m.ID,
			MarketerName: m.Name,
			SaleID:       saleID,
			Amount:       sale.Total,
		}
		return tx.Create(req).Error
	})
	if err != nil {
		return nil, err
	}
	s.statusChanged(ctx, ledger, saleID, models.StatusPendingApproval)
	s.publish(ctx, events.Event{Type: events.RequestCreated, Ref: models.OrderRef{LedgerPath: ledger.Path(), OrderID: saleID}, Request: req})
	return req, nil
}

// RequestProductDeletion files a Delete Product request for a product the
// marketer uploaded.
func (s *Store) RequestProductDeletion(ctx context.Context, m *models.Marketer, productID string) (*models.AdminRequest, error) {
	p, err := s.GetProduct(ctx, productID)
	if err != nil {
		return nil, err
	}
	if !strings.EqualFold(p.UploadedBy, m.Email) {
		return nil, ErrForbidden
	}
	req := &models.AdminRequest{
		Type:         models.RequestDeleteProduct,
		Description:  fmt.Sprintf("%s requests deletion of %s", m.Name, p.Name),
		MarketerID:   m.ID,
		MarketerName: m.Name,
		ProductID:    p.ID,
	}
	if err := s.CreateRequest(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}

// RequestMarketerRegistration files a registration for an admin to approve.
// The password is hashed before it is stored.
func (s *Store) RequestMarketerRegistration(ctx context.Context, reg models.Registration, password string) (*models.AdminRequest, error) {
	reg.Email = strings.ToLower(strings.TrimSpace(reg.Email))
	reg.Name = strings.TrimSpace(reg.Name)
	if reg.Name == "" || reg.Email == "" {
		return nil, errors.New("name and email are required")
	}
	if len(password) < 6 {
		return nil, errors.New("password must be at least 6 characters")
	}

	var count int64
	if err := s.db.WithContext(ctx).Model(&models.Marketer{}).Where("email = ?", reg.Email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("marketer %s: %w", reg.Email, ErrDuplicate)
	}

	hash, err := HashPassword(password)
	if err != nil {
		return nil, err
	}
	req := &models.AdminRequest{
		Type:                     models.RequestMarketerRegistration,
		Description:              fmt.Sprintf("%s <%s> wants to join as a marketer", reg.Name, reg.Email),
		Registration:             &reg,
		RegistrationPasswordHash: hash,
	}
	if err := s.CreateRequest(ctx, req); err != nil {
		return nil, err
	}
	return req, nil
}
