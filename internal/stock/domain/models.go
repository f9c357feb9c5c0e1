// Package domain contains the stock ledger models. Stock quantity is never
// stored as a running balance: it is always the sum of signed event deltas
// up to a point in time.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrNotFound        = errors.New("not_found")
	ErrInvalidQuantity = errors.New("invalid_quantity")
)

// StockMovement is a manual stock adjustment, positive for additions and
// negative for removals.
type StockMovement struct {
	ID         snowflake.ID `json:"id" gorm:"primaryKey"`
	ProductID  snowflake.ID `json:"productId" gorm:"not null;index"`
	Quantity   int64        `json:"quantity" gorm:"not null"`
	Reason     *string      `json:"reason,omitempty" gorm:"type:text"`
	OccurredAt time.Time    `json:"occurredAt" gorm:"not null;index"`
	CreatedAt  time.Time    `json:"createdAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (StockMovement) TableName() string { return "stock_movements" }

// ProductUsage is consumption tied to an invoice or a bookkeeping entry.
// Quantity is negative for consumption.
type ProductUsage struct {
	ID         snowflake.ID  `json:"id" gorm:"primaryKey"`
	ProductID  snowflake.ID  `json:"productId" gorm:"not null;index"`
	InvoiceID  *snowflake.ID `json:"invoiceId,omitempty" gorm:"index"`
	EntryID    *snowflake.ID `json:"entryId,omitempty" gorm:"index"`
	Quantity   int64         `json:"quantity" gorm:"not null"`
	OccurredAt time.Time     `json:"occurredAt" gorm:"not null;index"`
	CreatedAt  time.Time     `json:"createdAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (ProductUsage) TableName() string { return "product_usages" }

// Rollup is the aggregated stock position of one product over a range.
// Final == Initial + Added - Used by construction.
type Rollup struct {
	ProductID string `json:"productId"`
	Initial   int64  `json:"initialStock"`
	Added     int64  `json:"added"`
	Used      int64  `json:"used"`
	Final     int64  `json:"finalStock"`
}

type AdjustRequest struct {
	ProductID  string     `json:"productId"`
	Quantity   int64      `json:"quantity"`
	Reason     *string    `json:"reason,omitempty"`
	OccurredAt *time.Time `json:"occurredAt,omitempty"`
}

type Service interface {
	// Adjust records a manual stock movement. Consumption rows are not
	// posted here: invoicing and bookkeeping write them inside their own
	// transactions.
	Adjust(ctx context.Context, req AdjustRequest) (*StockMovement, error)
	// Rollup aggregates one product's ledger over [from, to].
	Rollup(ctx context.Context, productID snowflake.ID, from, to time.Time) (*Rollup, error)
	// RollupAll aggregates every product with ledger events in [from, to]
	// or a non-zero opening position.
	RollupAll(ctx context.Context, from, to time.Time) ([]Rollup, error)
}

type Repository interface {
	CreateMovement(ctx context.Context, movement *StockMovement) error
	SumDeltasBefore(ctx context.Context, productID snowflake.ID, before time.Time) (int64, error)
	SumRange(ctx context.Context, productID snowflake.ID, from, to time.Time) (added int64, used int64, err error)
	ProductIDsWithEvents(ctx context.Context, until time.Time) ([]snowflake.ID, error)
}
