package repository

import (
	"context"
	"errors"

	invoicedomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/invoice/domain"
	"github.com/Kaisa-Ukkonen/tyoukkoset/pkg/db/option"
	"github.com/Kaisa-Ukkonen/tyoukkoset/pkg/db/pagination"
	"github.com/bwmarrin/snowflake"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const counterRowID = 1

type repository struct {
	db *gorm.DB
}

func NewRepository(db *gorm.DB) invoicedomain.Repository {
	return &repository{db: db}
}

func (r *repository) Find(ctx context.Context, filter invoicedomain.ListRequest) ([]*invoicedomain.Invoice, error) {
	var invoices []*invoicedomain.Invoice
	stmt := r.db.WithContext(ctx).Model(&invoicedomain.Invoice{}).
		Preload("Lines").
		Order("created_at DESC, id DESC")

	stmt = option.ApplyPagination(pagination.Pagination{
		PageToken: filter.PageToken,
		PageSize:  filter.PageSize,
	}).Apply(stmt)

	if filter.Status != "" {
		stmt = stmt.Where("status = ?", filter.Status)
	}
	if filter.ContactID != nil {
		if contactID, err := snowflake.ParseString(*filter.ContactID); err == nil {
			stmt = stmt.Where("contact_id = ?", contactID)
		}
	}
	if filter.From != nil {
		stmt = stmt.Where("created_at >= ?", *filter.From)
	}
	if filter.To != nil {
		stmt = stmt.Where("created_at <= ?", *filter.To)
	}

	if err := stmt.Find(&invoices).Error; err != nil {
		return nil, err
	}
	return invoices, nil
}

func (r *repository) FindByID(ctx context.Context, id snowflake.ID) (*invoicedomain.Invoice, error) {
	var invoice invoicedomain.Invoice
	err := r.db.WithContext(ctx).Preload("Lines").First(&invoice, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, nil
		}
		return nil, err
	}
	return &invoice, nil
}

func (r *repository) Create(ctx context.Context, invoice *invoicedomain.Invoice) error {
	return r.db.WithContext(ctx).Create(invoice).Error
}

func (r *repository) Save(ctx context.Context, tx *gorm.DB, invoice *invoicedomain.Invoice) error {
	conn := r.db
	if tx != nil {
		conn = tx
	}
	return conn.WithContext(ctx).Omit("Lines").Save(invoice).Error
}

func (r *repository) ReplaceLines(ctx context.Context, invoice *invoicedomain.Invoice, lines []invoicedomain.InvoiceLine) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", invoice.ID).Delete(&invoicedomain.InvoiceLine{}).Error; err != nil {
			return err
		}
		if len(lines) > 0 {
			if err := tx.Create(&lines).Error; err != nil {
				return err
			}
		}
		invoice.Lines = lines
		return tx.Omit("Lines").Save(invoice).Error
	})
}

func (r *repository) Delete(ctx context.Context, id snowflake.ID) error {
	return r.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("invoice_id = ?", id).Delete(&invoicedomain.InvoiceLine{}).Error; err != nil {
			return err
		}
		return tx.Delete(&invoicedomain.Invoice{}, "id = ?", id).Error
	})
}

func (r *repository) NextNumber(ctx context.Context, tx *gorm.DB) (int64, error) {
	increment := func() (*gorm.DB, error) {
		res := tx.WithContext(ctx).Model(&invoicedomain.InvoiceCounter{}).
			Where("id = ?", counterRowID).
			Update("value", gorm.Expr("value + 1"))
		return res, res.Error
	}

	res, err := increment()
	if err != nil {
		return 0, err
	}
	if res.RowsAffected == 0 {
		// First approval ever: seed the singleton row, then increment.
		// OnConflict absorbs the race where another transaction seeds first.
		seed := &invoicedomain.InvoiceCounter{ID: counterRowID, Value: invoicedomain.CounterSeed}
		if err := tx.WithContext(ctx).Clauses(clause.OnConflict{DoNothing: true}).Create(seed).Error; err != nil {
			return 0, err
		}
		if _, err := increment(); err != nil {
			return 0, err
		}
	}

	var counter invoicedomain.InvoiceCounter
	if err := tx.WithContext(ctx).First(&counter, "id = ?", counterRowID).Error; err != nil {
		return 0, err
	}
	return counter.Value, nil
}
