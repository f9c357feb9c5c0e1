package domain

import (
	"context"

	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type Repository interface {
	Find(ctx context.Context, filter ListRequest) ([]*Invoice, error)
	FindByID(ctx context.Context, id snowflake.ID) (*Invoice, error)
	Create(ctx context.Context, invoice *Invoice) error
	Save(ctx context.Context, tx *gorm.DB, invoice *Invoice) error
	ReplaceLines(ctx context.Context, invoice *Invoice, lines []InvoiceLine) error
	Delete(ctx context.Context, id snowflake.ID) error

	// NextNumber increments the shared counter inside tx and returns the
	// new value. The increment is a single atomic UPDATE so concurrent
	// approvals serialize on the counter row and can never share a number.
	NextNumber(ctx context.Context, tx *gorm.DB) (int64, error)
}
