package store

import (
	"context"
	"errors"
	"fmt"

	"github.com/junaidrashid-git/autoparts-api/events"
	"github.com/junaidrashid-git/autoparts-api/models"
	log "github.com/sirupsen/logrus"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

var (
	ErrStatusConflict = errors.New("status was already changed")
	ErrDuplicate      = errors.New("record already exists")
	ErrForbidden      = errors.New("record belongs to someone else")
	ErrInvalidInput   = errors.New("invalid input")
)

// Store implements every persistence port on top of gorm. Status changes are
// announced on publisher once their transaction has committed.
type Store struct {
	db        *gorm.DB
	publisher events.Publisher
}

func New(db *gorm.DB, publisher events.Publisher) *Store {
	return &Store{db: db, publisher: publisher}
}

func (s *Store) DB() *gorm.DB { return s.db }

// Open connects to Postgres.
func Open(dsn string) (*gorm.DB, error) {
	db, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Warn),
	})
	if err != nil {
		return nil, fmt.Errorf("connect database: %w", err)
	}
	return db, nil
}

// Migrate creates or updates every table, including both order ledgers.
func Migrate(db *gorm.DB) error {
	if err := db.AutoMigrate(
		&models.User{},
		&models.Admin{},
		&models.GuestUser{},
		&models.Product{},
		&models.Marketer{},
		&models.AdminRequest{},
		&models.VehicleMake{},
		&models.Cart{},
	); err != nil {
		return err
	}
	for _, l := range []models.Ledger{models.GeneralLedger(), models.MarketerLedger("_")} {
		if err := db.Table(l.Table()).AutoMigrate(&models.Order{}); err != nil {
			return fmt.Errorf("migrate %s: %w", l.Table(), err)
		}
	}
	return nil
}

func (s *Store) publish(ctx context.Context, e events.Event) {
	if s.publisher == nil {
		return
	}
	if err := s.publisher.Publish(ctx, e); err != nil {
		log.WithError(err).WithField("event", e.Type).Warn("Failed to publish event")
	}
}

func notFound(err error) error {
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrNotFound
	}
	return err
}
