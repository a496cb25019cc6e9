package model

import (
	"database/sql/driver"
	"fmt"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

const (
	StatusActive  = "active"
	StatusExpired = "expired"
	StatusRevoked = "revoked"
)

// APIKey is a third-party service credential managed from the settings screen.
type APIKey struct {
	ID          string      `gorm:"type:varchar(36);primaryKey" json:"id"`
	Name        string      `gorm:"type:varchar(255);not null" json:"name"`
	Key         string      `gorm:"type:varchar(255);not null" json:"key"`
	Domain      string      `gorm:"type:varchar(255);not null" json:"domain"`
	Service     string      `gorm:"type:varchar(100);not null" json:"service"`
	Permissions Permissions `gorm:"type:varchar(255);not null" json:"permissions"`
	Status      string      `gorm:"type:varchar(50);default:'active';not null" json:"status"`
	CreatedAt   time.Time   `json:"createdAt"`
	UpdatedAt   time.Time   `json:"-"`
	LastUsed    *time.Time  `json:"lastUsed,omitempty"`
	ExpiresAt   *time.Time  `gorm:"index" json:"expiresAt,omitempty"`
}

// BeforeCreate assigns a UUID when the caller did not supply one.
func (k *APIKey) BeforeCreate(tx *gorm.DB) error {
	if k.ID == "" {
		k.ID = uuid.NewString()
	}
	if k.Status == "" {
		k.Status = StatusActive
	}
	if k.Permissions == nil {
		k.Permissions = Permissions{}
	}
	return nil
}

// Permissions is stored as a comma separated column and serialized as a JSON array.
type Permissions []string

// Value implements driver.Valuer.
func (p Permissions) Value() (driver.Value, error) {
	return strings.Join(p, ","), nil
}

// Scan implements sql.Scanner.
func (p *Permissions) Scan(src any) error {
	var raw string
	switch v := src.(type) {
	case nil:
		*p = Permissions{}
		return nil
	case string:
		raw = v
	case []byte:
		raw = string(v)
	default:
		return fmt.Errorf("unsupported permissions column type %T", src)
	}
	if raw == "" {
		*p = Permissions{}
		return nil
	}
	*p = strings.Split(raw, ",")
	return nil
}

// APIKeyRequest is the body accepted by the create and update routes.
type APIKeyRequest struct {
	Name        string   `json:"name"`
	Key         string   `json:"key"`
	Domain      string   `json:"domain"`
	Service     string   `json:"service"`
	Permissions []string `json:"permissions"`
	Status      string   `json:"status,omitempty"`
}

// TestResult is returned by the key test route.
type TestResult struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}
