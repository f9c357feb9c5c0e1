package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrNotFound    = errors.New("not_found")
	ErrInvalidName = errors.New("invalid_name")
)

// Category classifies bookkeeping entries and carries a default VAT rate
// applied when an entry does not override it.
type Category struct {
	ID             snowflake.ID `json:"id" gorm:"primaryKey"`
	Name           string       `json:"name" gorm:"type:text;not null"`
	EntryType      string       `json:"entryType" gorm:"type:text;not null;default:'meno'"`
	DefaultVatRate float64      `json:"defaultVatRate" gorm:"not null;default:0"`
	CreatedAt      time.Time    `json:"createdAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time    `json:"updatedAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Category) TableName() string { return "categories" }

type CreateRequest struct {
	Name           string  `json:"name"`
	EntryType      string  `json:"entryType"`
	DefaultVatRate float64 `json:"defaultVatRate"`
}

type UpdateRequest struct {
	Name           *string  `json:"name,omitempty"`
	EntryType      *string  `json:"entryType,omitempty"`
	DefaultVatRate *float64 `json:"defaultVatRate,omitempty"`
}

type Service interface {
	List(ctx context.Context) ([]*Category, error)
	GetByID(ctx context.Context, id string) (*Category, error)
	Create(ctx context.Context, req CreateRequest) (*Category, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Category, error)
	Delete(ctx context.Context, id string) error
}
