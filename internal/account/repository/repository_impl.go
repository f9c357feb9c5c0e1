package repository

import (
	"context"
	"errors"

	accountdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/account/domain"
	"github.com/Kaisa-Ukkonen/tyoukkoset/pkg/db/option"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
)

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) accountdomain.Repository {
	return &repository{db: db}
}

func (r *repository) Find(ctx context.Context, filter accountdomain.ListRequest) ([]accountdomain.Account, error) {
	var items []accountdomain.Account
	stmt := r.db.WithContext(ctx).Model(&accountdomain.Account{})

	if filter.Type != "" {
		stmt = stmt.Where("type = ?", filter.Type)
	}

	stmt = option.WithSortBy(option.WithQuerySortBy(filter.SortBy, filter.OrderBy, map[string]bool{
		"created_at": true,
		"name":       true,
	})).Apply(stmt)

	if err := stmt.Find(&items).Error; err != nil {
		return nil, err
	}
	return items, nil
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*accountdomain.Account, error) {
	var account accountdomain.Account
	err := r.db.WithContext(ctx).First(&account, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &account, nil
}

func (r *repository) Create(ctx context.Context, account *accountdomain.Account) error {
	return r.db.WithContext(ctx).Create(account).Error
}

func (r *repository) Update(ctx context.Context, account *accountdomain.Account) error {
	return r.db.WithContext(ctx).Save(account).Error
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Delete(&accountdomain.Account{}, "id = ?", id).Error
}

// SumPostedEntries sums posted bookkeeping entries against the account,
// income positive, expense negative.
func (r *repository) SumPostedEntries(ctx context.Context, id snowflake.ID) (int64, error) {
	var total int64
	err := r.db.WithContext(ctx).Raw(
		`SELECT COALESCE(SUM(CASE WHEN type = 'tulo' THEN gross_amount ELSE -gross_amount END), 0)
		 FROM bookkeeping_entries
		 WHERE account_id = ?`,
		id,
	).Scan(&total).Error
	return total, err
}
