package store

import (
	"context"
	"crypto/rand"
	"errors"
	"fmt"
	"math/big"
	"strings"

	"github.com/junaidrashid-git/autoparts-api/models"
	"github.com/shopspring/decimal"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"
)

const (
	codeAlphabet   = "ABCDEFGHIJKLMNOPQRSTUVWXYZ0123456789"
	codeLength     = 6
	codeAttempts   = 10
	defaultPercent = 10
)

var ErrInvalidCredentials = errors.New("invalid email or password")

// NewMarketer is the input for creating a marketer account.
type NewMarketer struct {
	Name              string
	Email             string
	Phone             string
	Password          string
	PasswordHash      string
	CommissionPercent *decimal.Decimal
}

func (s *Store) FindMarketerByCode(ctx context.Context, code string) (*models.Marketer, error) {
	var m models.Marketer
	if err := s.db.WithContext(ctx).First(&m, "code = ?", models.NormalizeCode(code)).Error; err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

func (s *Store) GetMarketer(ctx context.Context, id string) (*models.Marketer, error) {
	var m models.Marketer
	if err := s.db.WithContext(ctx).First(&m, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &m, nil
}

func (s *Store) ListMarketers(ctx context.Context) ([]models.Marketer, error) {
	var out []models.Marketer
	if err := s.db.WithContext(ctx).Order("created_at desc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) CreateMarketer(ctx context.Context, in NewMarketer) (*models.Marketer, error) {
	var m *models.Marketer
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var err error
		m, err = createMarketer(tx, in)
		return err
	})
	return m, err
}

func createMarketer(tx *gorm.DB, in NewMarketer) (*models.Marketer, error) {
	email := strings.ToLower(strings.TrimSpace(in.Email))
	if strings.TrimSpace(in.Name) == "" || email == "" {
		return nil, errors.New("name and email are required")
	}

	hash := in.PasswordHash
	if hash == "" {
		if len(in.Password) < 6 {
			return nil, errors.New("password must be at least 6 characters")
		}
		h, err := HashPassword(in.Password)
		if err != nil {
			return nil, err
		}
		hash = h
	}

	var count int64
	if err := tx.Model(&models.Marketer{}).Where("email = ?", email).Count(&count).Error; err != nil {
		return nil, err
	}
	if count > 0 {
		return nil, fmt.Errorf("marketer %s: %w", email, ErrDuplicate)
	}

	code, err := uniqueCode(tx)
	if err != nil {
		return nil, err
	}

	percent := decimal.NewFromInt(defaultPercent)
	if in.CommissionPercent != nil {
		percent = *in.CommissionPercent
	}
	if percent.IsNegative() || percent.GreaterThan(decimal.NewFromInt(100)) {
		return nil, errors.New("commission percent must be between 0 and 100")
	}

	m := &models.Marketer{
		Name:              strings.TrimSpace(in.Name),
		Email:             email,
		Phone:             strings.TrimSpace(in.Phone),
		PasswordHash:      hash,
		Code:              code,
		CommissionPercent: percent,
	}
	if err := tx.Create(m).Error; err != nil {
		return nil, err
	}
	return m, nil
}

func uniqueCode(tx *gorm.DB) (string, error) {
	for i := 0; i < codeAttempts; i++ {
		code, err := GenerateCode()
		if err != nil {
			return "", err
		}
		var count int64
		if err := tx.Model(&models.Marketer{}).Where("code = ?", code).Count(&count).Error; err != nil {
			return "", err
		}
		if count == 0 {
			return code, nil
		}
	}
	return "", errors.New("could not generate a unique marketer code")
}

// GenerateCode returns six random upper-case alphanumerics.
func GenerateCode() (string, error) {
	b := make([]byte, codeLength)
	max := big.NewInt(int64(len(codeAlphabet)))
	for i := range b {
		n, err := rand.Int(rand.Reader, max)
		if err != nil {
			return "", err
		}
		b[i] = codeAlphabet[n.Int64()]
	}
	return string(b), nil
}

func (s *Store) DeleteMarketer(ctx context.Context, id string) error {
	res := s.db.WithContext(ctx).Delete(&models.Marketer{}, "id = ?", id)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

// AuthenticateMarketer checks an email/password pair.
func (s *Store) AuthenticateMarketer(ctx context.Context, email, password string) (*models.Marketer, error) {
	var m models.Marketer
	err := s.db.WithContext(ctx).First(&m, "email = ?", strings.ToLower(strings.TrimSpace(email))).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrInvalidCredentials
	}
	if err != nil {
		return nil, err
	}
	if bcrypt.CompareHashAndPassword([]byte(m.PasswordHash), []byte(password)) != nil {
		return nil, ErrInvalidCredentials
	}
	return &m, nil
}

func HashPassword(password string) (string, error) {
	h, err := bcrypt.GenerateFromPassword([]byte(password), bcrypt.DefaultCost)
	if err != nil {
		return "", fmt.Errorf("hash password: %w", err)
	}
	return string(h), nil
}
