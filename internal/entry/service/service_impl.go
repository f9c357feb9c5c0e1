package service

import (
	"context"
	"time"

	entrydomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/entry/domain"
	stockdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/stock/domain"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/vat"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	Log        *zap.Logger
	GenID      *snowflake.Node
	DB         *gorm.DB
	Repository entrydomain.Repository
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	db    *gorm.DB
	repo  entrydomain.Repository
}

func NewService(p ServiceParam) entrydomain.Service {
	return &Service{
		log:   p.Log.Named("entry.service"),
		genID: p.GenID,
		db:    p.DB,
		repo:  p.Repository,
	}
}

func (s *Service) List(ctx context.Context, req entrydomain.ListRequest) ([]entrydomain.BookkeepingEntry, error) {
	return s.repo.Find(ctx, req)
}

func (s *Service) GetByID(ctx context.Context, id string) (*entrydomain.BookkeepingEntry, error) {
	parsed, err := snowflake.ParseString(id)
	if err != nil {
		return nil, entrydomain.ErrNotFound
	}
	entry, err := s.repo.FindByID(ctx, parsed)
	if err != nil {
		return nil, err
	}
	if entry == nil {
		return nil, entrydomain.ErrNotFound
	}
	return entry, nil
}

func (s *Service) Create(ctx context.Context, req entrydomain.CreateRequest) (*entrydomain.BookkeepingEntry, error) {
	entryType := entrydomain.EntryType(req.Type)
	if !entryType.Valid() {
		return nil, entrydomain.ErrInvalidType
	}
	if req.GrossAmount <= 0 {
		return nil, entrydomain.ErrInvalidAmount
	}
	if req.AccountID == nil && req.CategoryID == nil {
		return nil, entrydomain.ErrMissingAccount
	}

	handling := req.VatHandling
	if handling == "" {
		handling = vat.HandlingDomestic
	}
	class, err := vat.Classify(handling, req.VatRate)
	if err != nil {
		return nil, err
	}
	breakdown := vat.FromGross(class, req.GrossAmount)

	date := time.Now().UTC()
	if req.Date != nil {
		date = req.Date.UTC()
	}

	entry := &entrydomain.BookkeepingEntry{
		ID:          s.genID.Generate(),
		Type:        entryType,
		Date:        date,
		Description: req.Description,
		GrossAmount: breakdown.Gross,
		NetAmount:   breakdown.Net,
		VatAmount:   breakdown.VAT,
		VatRate:     req.VatRate,
		VatHandling: handling,
		ReceiptURL:  req.ReceiptURL,
	}

	if entry.AccountID, err = parseOptionalID(req.AccountID); err != nil {
		return nil, err
	}
	if entry.CategoryID, err = parseOptionalID(req.CategoryID); err != nil {
		return nil, err
	}
	if entry.ContactID, err = parseOptionalID(req.ContactID); err != nil {
		return nil, err
	}
	if entry.InvoiceID, err = parseOptionalID(req.InvoiceID); err != nil {
		return nil, err
	}

	usage, err := s.buildUsage(req, entry)
	if err != nil {
		return nil, err
	}
	if usage == nil {
		if err := s.repo.Create(ctx, entry); err != nil {
			s.log.Error("create entry failed", zap.Error(err))
			return nil, err
		}
		return entry, nil
	}

	err = s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(entry).Error; err != nil {
			return err
		}
		return tx.Create(usage).Error
	})
	if err != nil {
		s.log.Error("create entry failed", zap.Error(err))
		return nil, err
	}
	return entry, nil
}

// buildUsage derives the stock consumption row for entries that record a
// product being used up, such as supplies expensed on purchase.
func (s *Service) buildUsage(req entrydomain.CreateRequest, entry *entrydomain.BookkeepingEntry) (*stockdomain.ProductUsage, error) {
	if req.ProductID == nil || *req.ProductID == "" {
		return nil, nil
	}
	if req.QuantityUsed <= 0 {
		return nil, stockdomain.ErrInvalidQuantity
	}
	productID, err := snowflake.ParseString(*req.ProductID)
	if err != nil {
		return nil, stockdomain.ErrNotFound
	}
	return &stockdomain.ProductUsage{
		ID:         s.genID.Generate(),
		ProductID:  productID,
		EntryID:    &entry.ID,
		Quantity:   -req.QuantityUsed,
		OccurredAt: entry.Date,
	}, nil
}

func (s *Service) Update(ctx context.Context, id string, req entrydomain.UpdateRequest) (*entrydomain.BookkeepingEntry, error) {
	entry, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Date != nil {
		entry.Date = req.Date.UTC()
	}
	if req.Description != nil {
		entry.Description = *req.Description
	}
	if req.GrossAmount != nil {
		if *req.GrossAmount <= 0 {
			return nil, entrydomain.ErrInvalidAmount
		}
		entry.GrossAmount = *req.GrossAmount
	}
	if req.VatRate != nil {
		entry.VatRate = *req.VatRate
	}
	if req.VatHandling != nil {
		entry.VatHandling = *req.VatHandling
	}
	if req.ReceiptURL != nil {
		entry.ReceiptURL = req.ReceiptURL
	}

	// Any change to amount or VAT fields recomputes the derived pair.
	class, err := vat.Classify(entry.VatHandling, entry.VatRate)
	if err != nil {
		return nil, err
	}
	breakdown := vat.FromGross(class, entry.GrossAmount)
	entry.NetAmount = breakdown.Net
	entry.VatAmount = breakdown.VAT

	if err := s.repo.Update(ctx, entry); err != nil {
		return nil, err
	}
	return entry, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	entry, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, entry.ID)
}

func parseOptionalID(value *string) (*snowflake.ID, error) {
	if value == nil || *value == "" {
		return nil, nil
	}
	parsed, err := snowflake.ParseString(*value)
	if err != nil {
		return nil, entrydomain.ErrNotFound
	}
	return &parsed, nil
}
