package store

import (
	"context"
	"errors"
	"time"

	"github.com/junaidrashid-git/autoparts-api/models"
	"gorm.io/gorm"
)

// ErrAdminPending is returned for admins the super admin has not approved yet.
var ErrAdminPending = errors.New("pending approval by super admin")

// UpsertUser creates the user on first login and refreshes the profile
// fields on every later one.
func (s *Store) UpsertUser(ctx context.Context, u *models.User) (*models.User, error) {
	db := s.db.WithContext(ctx)

	var existing models.User
	err := db.First(&existing, "id = ?", u.ID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		if err := db.Create(u).Error; err != nil {
			return nil, err
		}
		return u, nil
	}
	if err != nil {
		return nil, err
	}

	if err := db.Model(&existing).Updates(models.User{Name: u.Name, Picture: u.Picture}).Error; err != nil {
		return nil, err
	}
	return &existing, nil
}

func (s *Store) GetUser(ctx context.Context, id string) (*models.User, error) {
	var u models.User
	if err := s.db.WithContext(ctx).First(&u, "id = ?", id).Error; err != nil {
		return nil, notFound(err)
	}
	return &u, nil
}

func (s *Store) UpdateUserProfile(ctx context.Context, id string, updates map[string]any) (*models.User, error) {
	u, err := s.GetUser(ctx, id)
	if err != nil {
		return nil, err
	}
	if len(updates) > 0 {
		if err := s.db.WithContext(ctx).Model(u).Updates(updates).Error; err != nil {
			return nil, err
		}
	}
	return s.GetUser(ctx, id)
}

func (s *Store) ListUsers(ctx context.Context) ([]models.User, error) {
	var users []models.User
	err := s.db.WithContext(ctx).
		Select("id", "email", "name", "picture", "provider", "created_at").
		Order("created_at desc").
		Find(&users).Error
	return users, err
}

// LoginAdmin registers unknown admins as pending and returns ErrAdminPending
// until they are approved.
func (s *Store) LoginAdmin(ctx context.Context, email, name, picture string) (*models.Admin, error) {
	db := s.db.WithContext(ctx)

	var admin models.Admin
	err := db.Where("email = ?", email).First(&admin).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		admin = models.Admin{Email: email, Name: name, Picture: picture}
		if err := db.Create(&admin).Error; err != nil {
			return nil, err
		}
		return nil, ErrAdminPending
	}
	if err != nil {
		return nil, err
	}

	if err := db.Model(&admin).Updates(models.Admin{Name: name, Picture: picture}).Error; err != nil {
		return nil, err
	}
	if !admin.Approved {
		return nil, ErrAdminPending
	}
	return &admin, nil
}

func (s *Store) ListAdmins(ctx context.Context, pendingOnly bool) ([]models.Admin, error) {
	q := s.db.WithContext(ctx).Model(&models.Admin{})
	if pendingOnly {
		q = q.Where("approved = ?", false)
	}
	var out []models.Admin
	if err := q.Order("id asc").Find(&out).Error; err != nil {
		return nil, err
	}
	return out, nil
}

func (s *Store) ApproveAdmin(ctx context.Context, email string) error {
	res := s.db.WithContext(ctx).Model(&models.Admin{}).Where("email = ?", email).Update("approved", true)
	if res.Error != nil {
		return res.Error
	}
	if res.RowsAffected == 0 {
		return models.ErrNotFound
	}
	return nil
}

func (s *Store) RejectAdmin(ctx context.Context, email string) error {
	return s.db.WithContext(ctx).Where("email = ?", email).Delete(&models.Admin{}).Error
}

func (s *Store) CreateGuest(ctx context.Context, id string, ttl time.Duration) (*models.GuestUser, error) {
	g := &models.GuestUser{ID: id, ExpiresAt: time.Now().Add(ttl)}
	if err := s.db.WithContext(ctx).Create(g).Error; err != nil {
		return nil, err
	}
	return g, nil
}
