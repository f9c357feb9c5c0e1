package repository

import (
	"context"
	"time"

	stockdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/stock/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) stockdomain.Repository {
	return &repository{db: db}
}

func (r *repository) CreateMovement(ctx context.Context, movement *stockdomain.StockMovement) error {
	return r.db.WithContext(ctx).Create(movement).Error
}

// ledgerUnion merges both event tables into one (product_id, quantity,
// occurred_at) stream.
const ledgerUnion = `
	SELECT product_id, quantity, occurred_at FROM stock_movements
	UNION ALL
	SELECT product_id, quantity, occurred_at FROM product_usages
`

func (r *repository) SumDeltasBefore(ctx context.Context, productID snowflake.ID, before time.Time) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(quantity), 0) FROM (`+ledgerUnion+`) AS ledger
		 WHERE product_id = ? AND occurred_at < ?`,
		productID, before,
	).Scan(&total).Error
	return total, err
}

func (r *repository) SumRange(ctx context.Context, productID snowflake.ID, from, to time.Time) (int64, int64, error) {
	var row struct {
		Added int64
		Used  int64
	}
	err := r.db.WithContext(ctx).Raw(
		`SELECT
			COALESCE(SUM(CASE WHEN quantity > 0 THEN quantity ELSE 0 END), 0) AS added,
			COALESCE(SUM(CASE WHEN quantity < 0 THEN -quantity ELSE 0 END), 0) AS used
		 FROM (`+ledgerUnion+`) AS ledger
		 WHERE product_id = ? AND occurred_at >= ? AND occurred_at <= ?`,
		productID, from, to,
	).Scan(&row).Error
	return row.Added, row.Used, err
}

func (r *repository) ProductIDsWithEvents(ctx context.Context, until time.Time) ([]snowflake.ID, error) {
	var ids []snowflake.ID
	err := r.db.WithContext(ctx).Raw(
		`SELECT DISTINCT product_id FROM (`+ledgerUnion+`) AS ledger
		 WHERE occurred_at <= ? ORDER BY product_id`,
		until,
	).Scan(&ids).Error
	return ids, err
}
