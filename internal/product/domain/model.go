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
	ErrInvalidKind = errors.New("invalid_product_kind")
)

// ProductKind separates services from stocked goods. Only service lines
// post income entries at invoice approval; goods lines consume stock.
type ProductKind string

const (
	KindService ProductKind = "Palvelu"
	KindGoods   ProductKind = "Tavara"
)

// Product is a sellable item or service. PriceCents is gross or net
// depending on VatIncluded; the VAT package derives the other side.
// Stocked goods carry no stored quantity; the stock ledger answers that.
type Product struct {
	ID          snowflake.ID `json:"id" gorm:"primaryKey"`
	Name        string       `json:"name" gorm:"type:text;not null;index"`
	Kind        ProductKind  `json:"kind" gorm:"type:text;not null"`
	PriceCents  int64        `json:"priceCents" gorm:"not null;default:0"`
	VatRate     float64      `json:"vatRate" gorm:"not null;default:0"`
	VatIncluded bool         `json:"vatIncluded" gorm:"not null;default:true"`
	VatHandling string       `json:"vatHandling" gorm:"type:text;not null"`
	Description *string      `json:"description,omitempty" gorm:"type:text"`
	Active      bool         `json:"active" gorm:"not null;default:true"`
	CreatedAt   time.Time    `json:"createdAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time    `json:"updatedAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Product) TableName() string { return "products" }

func (k ProductKind) Valid() bool {
	return k == KindService || k == KindGoods
}

type CreateRequest struct {
	Name        string  `json:"name"`
	Kind        string  `json:"kind"`
	PriceCents  int64   `json:"priceCents"`
	VatRate     float64 `json:"vatRate"`
	VatIncluded *bool   `json:"vatIncluded,omitempty"`
	VatHandling string  `json:"vatHandling"`
	Description *string `json:"description,omitempty"`
}

type UpdateRequest struct {
	Name        *string  `json:"name,omitempty"`
	Kind        *string  `json:"kind,omitempty"`
	PriceCents  *int64   `json:"priceCents,omitempty"`
	VatRate     *float64 `json:"vatRate,omitempty"`
	VatIncluded *bool    `json:"vatIncluded,omitempty"`
	VatHandling *string  `json:"vatHandling,omitempty"`
	Description *string  `json:"description,omitempty"`
	Active      *bool    `json:"active,omitempty"`
}

type ListRequest struct {
	Kind   string
	Active *bool
}

type Service interface {
	List(ctx context.Context, req ListRequest) ([]*Product, error)
	GetByID(ctx context.Context, id string) (*Product, error)
	Create(ctx context.Context, req CreateRequest) (*Product, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Product, error)
	Delete(ctx context.Context, id string) error
}
