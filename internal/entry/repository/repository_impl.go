package repository

import (
	"context"
	"errors"
	"time"

	entrydomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/entry/domain"
	stockdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/stock/domain"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) entrydomain.Repository {
	return &repository{db: db}
}

func (r *repository) Find(ctx context.Context, filter entrydomain.ListRequest) ([]entrydomain.BookkeepingEntry, error) {
	var entries []entrydomain.BookkeepingEntry
	stmt := r.db.WithContext(ctx).Model(&entrydomain.BookkeepingEntry{}).Order("date DESC, id DESC")

	if filter.Type != "" {
		stmt = stmt.Where("type = ?", filter.Type)
	}
	if filter.AccountID != nil {
		stmt = stmt.Where("account_id = ?", *filter.AccountID)
	}
	if filter.From != nil {
		stmt = stmt.Where("date >= ?", *filter.From)
	}
	if filter.To != nil {
		stmt = stmt.Where("date <= ?", *filter.To)
	}

	if err := stmt.Find(&entries).Error; err != nil {
		return nil, err
	}
	return entries, nil
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*entrydomain.BookkeepingEntry, error) {
	var entry entrydomain.BookkeepingEntry
	err := r.db.WithContext(ctx).First(&entry, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &entry, nil
}

func (r *repository) Create(ctx context.Context, entry *entrydomain.BookkeepingEntry) error {
	return r.db.WithContext(ctx).Create(entry).Error
}

func (r *repository) Update(ctx context.Context, entry *entrydomain.BookkeepingEntry) error {
	return r.db.WithContext(ctx).Save(entry).Error
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("entry_id = ?", id).Delete(&stockdomain.ProductUsage{}).Error; err != nil {
			return err
		}
		return tx.Delete(&entrydomain.BookkeepingEntry{}, "id = ?", id).Error
	})
}

func (r *repository) SumByType(ctx context.Context, from, to time.Time) ([]entrydomain.TypeSum, error) {
	var sums []entrydomain.TypeSum
	err := r.db.WithContext(ctx).Raw(
		`SELECT type,
			COALESCE(SUM(net_amount), 0)   AS net,
			COALESCE(SUM(vat_amount), 0)   AS vat,
			COALESCE(SUM(gross_amount), 0) AS gross,
			COUNT(*)                       AS count
		 FROM bookkeeping_entries
		 WHERE date >= ? AND date <= ?
		 GROUP BY type
		 ORDER BY type`,
		from, to,
	).Scan(&sums).Error
	return sums, err
}

func (r *repository) SumByRate(ctx context.Context, from, to time.Time) ([]entrydomain.RateSum, error) {
	var sums []entrydomain.RateSum
	err := r.db.WithContext(ctx).Raw(
		`SELECT vat_rate,
			COALESCE(SUM(net_amount), 0)   AS net,
			COALESCE(SUM(vat_amount), 0)   AS vat,
			COALESCE(SUM(gross_amount), 0) AS gross,
			COUNT(*)                       AS count
		 FROM bookkeeping_entries
		 WHERE date >= ? AND date <= ?
		 GROUP BY vat_rate
		 ORDER BY vat_rate`,
		from, to,
	).Scan(&sums).Error
	return sums, err
}
