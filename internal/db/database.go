package db

import (
	"errors"
	"fmt"
	"time"

	"nlpengine/internal/config"
	"nlpengine/internal/model"

	"gorm.io/driver/mysql"
	"gorm.io/driver/postgres"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// ErrNotFound is returned when a key with the requested id does not exist.
var ErrNotFound = errors.New("api key not found")

// Service is the storage contract behind the API key routes.
type Service interface {
	ListAPIKeys() ([]model.APIKey, error)
	CreateAPIKey(key *model.APIKey) error
	GetAPIKey(id string) (*model.APIKey, error)
	UpdateAPIKey(key *model.APIKey) error
	DeleteAPIKey(id string) error
	TouchAPIKey(id string, at time.Time) error
	ExpireAPIKeys(now time.Time) (int64, error)
	GetDB() *gorm.DB
}

type service struct {
	db *gorm.DB
}

// NewService opens the configured database and migrates the schema.
func NewService(cfg config.DatabaseConfig) (Service, error) {
	var dialector gorm.Dialector
	switch cfg.Type {
	case "sqlite":
		dialector = sqlite.Open(cfg.DSN)
	case "postgres":
		dialector = postgres.Open(cfg.DSN)
	case "mysql":
		dialector = mysql.Open(cfg.DSN)
	default:
		return nil, fmt.Errorf("unsupported database type: %s", cfg.Type)
	}

	gdb, err := gorm.Open(dialector, &gorm.Config{Logger: logger.Default.LogMode(logger.Silent)})
	if err != nil {
		return nil, fmt.Errorf("failed to connect to database: %w", err)
	}

	if cfg.Type == "sqlite" {
		// In-memory sqlite databases are per connection.
		sqlDB, err := gdb.DB()
		if err != nil {
			return nil, fmt.Errorf("failed to access sql handle: %w", err)
		}
		sqlDB.SetMaxOpenConns(1)
	}

	if err := gdb.AutoMigrate(&model.APIKey{}); err != nil {
		return nil, fmt.Errorf("failed to auto-migrate database: %w", err)
	}

	return &service{db: gdb}, nil
}

func (s *service) GetDB() *gorm.DB {
	return s.db
}

// ListAPIKeys returns every key, oldest first.
func (s *service) ListAPIKeys() ([]model.APIKey, error) {
	var keys []model.APIKey
	if err := s.db.Order("created_at asc").Find(&keys).Error; err != nil {
		return nil, fmt.Errorf("failed to list api keys: %w", err)
	}
	return keys, nil
}

func (s *service) CreateAPIKey(key *model.APIKey) error {
	if err := s.db.Create(key).Error; err != nil {
		return fmt.Errorf("failed to create api key: %w", err)
	}
	return nil
}

func (s *service) GetAPIKey(id string) (*model.APIKey, error) {
	var key model.APIKey
	err := s.db.Where("id = ?", id).First(&key).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, ErrNotFound
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get api key %s: %w", id, err)
	}
	return &key, nil
}

func (s *service) UpdateAPIKey(key *model.APIKey) error {
	key.UpdatedAt = time.Now()
	result := s.db.Model(&model.APIKey{}).Where("id = ?", key.ID).
		Select("name", "key", "domain", "service", "permissions", "status", "last_used", "expires_at", "updated_at").
		Updates(key)
	if result.Error != nil {
		return fmt.Errorf("failed to update api key %s: %w", key.ID, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

func (s *service) DeleteAPIKey(id string) error {
	result := s.db.Where("id = ?", id).Delete(&model.APIKey{})
	if result.Error != nil {
		return fmt.Errorf("failed to delete api key %s: %w", id, result.Error)
	}
	if result.RowsAffected == 0 {
		return ErrNotFound
	}
	return nil
}

// TouchAPIKey records the last successful use of a key.
func (s *service) TouchAPIKey(id string, at time.Time) error {
	result := s.db.Model(&model.APIKey{}).Where("id = ?", id).UpdateColumn("last_used", at)
	if result.Error != nil {
		return fmt.Errorf("failed to touch api key %s: %w", id, result.Error)
	}
	// The key may have been deleted in the meantime.
	return nil
}

// ExpireAPIKeys marks active keys whose expiry has passed as expired and
// returns how many were changed.
func (s *service) ExpireAPIKeys(now time.Time) (int64, error) {
	result := s.db.Model(&model.APIKey{}).
		Where("status = ? AND expires_at IS NOT NULL AND expires_at <= ?", model.StatusActive, now).
		Update("status", model.StatusExpired)
	if result.Error != nil {
		return 0, fmt.Errorf("failed to expire api keys: %w", result.Error)
	}
	return result.RowsAffected, nil
}
