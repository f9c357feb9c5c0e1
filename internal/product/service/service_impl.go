package service

import (
	"context"
	"strings"

	productdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/product/domain"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/vat"
	"github.com/Kaisa-Ukkonen/tyoukkoset/pkg/db/option"
	"github.com/Kaisa-Ukkonen/tyoukkoset/pkg/repository"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type ServiceParam struct {
	fx.In

	DB    *gorm.DB
	Log   *zap.Logger
	GenID *snowflake.Node
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  repository.Repository[productdomain.Product]
}

func NewService(p ServiceParam) productdomain.Service {
	return &Service{
		log:   p.Log.Named("product.service"),
		genID: p.GenID,
		repo:  repository.ProvideStore[productdomain.Product](p.DB),
	}
}

func (s *Service) List(ctx context.Context, req productdomain.ListRequest) ([]*productdomain.Product, error) {
	filter := &productdomain.Product{}
	if req.Kind != "" {
		filter.Kind = productdomain.ProductKind(req.Kind)
	}

	opts := []option.QueryOption{
		option.WithSortBy(option.WithQuerySortBy("name", "asc", map[string]bool{"name": true})),
	}
	if req.Active != nil {
		opts = append(opts, option.ApplyOperator(option.Condition{
			Field:    "active",
			Operator: option.EQ,
			Value:    *req.Active,
		}))
	}
	return s.repo.Find(ctx, filter, opts...)
}

func (s *Service) GetByID(ctx context.Context, id string) (*productdomain.Product, error) {
	parsed, err := snowflake.ParseString(id)
	if err != nil {
		return nil, productdomain.ErrNotFound
	}
	product, err := s.repo.FindOne(ctx, &productdomain.Product{ID: parsed})
	if err != nil {
		return nil, err
	}
	if product == nil {
		return nil, productdomain.ErrNotFound
	}
	return product, nil
}

func (s *Service) Create(ctx context.Context, req productdomain.CreateRequest) (*productdomain.Product, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, productdomain.ErrInvalidName
	}
	kind := productdomain.ProductKind(req.Kind)
	if !kind.Valid() {
		return nil, productdomain.ErrInvalidKind
	}
	handling := req.VatHandling
	if handling == "" {
		handling = vat.HandlingDomestic
	}
	if _, err := vat.Classify(handling, req.VatRate); err != nil {
		return nil, err
	}

	vatIncluded := true
	if req.VatIncluded != nil {
		vatIncluded = *req.VatIncluded
	}

	product := &productdomain.Product{
		ID:          s.genID.Generate(),
		Name:        name,
		Kind:        kind,
		PriceCents:  req.PriceCents,
		VatRate:     req.VatRate,
		VatIncluded: vatIncluded,
		VatHandling: handling,
		Description: req.Description,
		Active:      true,
	}
	if err := s.repo.Create(ctx, product); err != nil {
		s.log.Error("create product failed", zap.Error(err))
		return nil, err
	}
	return product, nil
}

func (s *Service) Update(ctx context.Context, id string, req productdomain.UpdateRequest) (*productdomain.Product, error) {
	product, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, productdomain.ErrInvalidName
		}
		product.Name = name
	}
	if req.Kind != nil {
		kind := productdomain.ProductKind(*req.Kind)
		if !kind.Valid() {
			return nil, productdomain.ErrInvalidKind
		}
		product.Kind = kind
	}
	if req.PriceCents != nil {
		product.PriceCents = *req.PriceCents
	}
	if req.VatRate != nil {
		product.VatRate = *req.VatRate
	}
	if req.VatIncluded != nil {
		product.VatIncluded = *req.VatIncluded
	}
	if req.VatHandling != nil {
		if _, err := vat.Classify(*req.VatHandling, product.VatRate); err != nil {
			return nil, err
		}
		product.VatHandling = *req.VatHandling
	}
	if req.Description != nil {
		product.Description = req.Description
	}
	if req.Active != nil {
		product.Active = *req.Active
	}

	if err := s.repo.Update(ctx, id, product); err != nil {
		return nil, err
	}
	return product, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
