package service

import (
	"context"
	"strings"

	categorydomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/category/domain"
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
	repo  repository.Repository[categorydomain.Category]
}

func NewService(p ServiceParam) categorydomain.Service {
	return &Service{
		log:   p.Log.Named("category.service"),
		genID: p.GenID,
		repo:  repository.ProvideStore[categorydomain.Category](p.DB),
	}
}

func (s *Service) List(ctx context.Context) ([]*categorydomain.Category, error) {
	return s.repo.Find(ctx, &categorydomain.Category{},
		option.WithSortBy(option.WithQuerySortBy("name", "asc", map[string]bool{"name": true})),
	)
}

func (s *Service) GetByID(ctx context.Context, id string) (*categorydomain.Category, error) {
	parsed, err := snowflake.ParseString(id)
	if err != nil {
		return nil, categorydomain.ErrNotFound
	}
	category, err := s.repo.FindOne(ctx, &categorydomain.Category{ID: parsed})
	if err != nil {
		return nil, err
	}
	if category == nil {
		return nil, categorydomain.ErrNotFound
	}
	return category, nil
}

func (s *Service) Create(ctx context.Context, req categorydomain.CreateRequest) (*categorydomain.Category, error) {
	name := strings.TrimSpace(req.Name)
	if name == "" {
		return nil, categorydomain.ErrInvalidName
	}
	entryType := req.EntryType
	if entryType == "" {
		entryType = "meno"
	}

	category := &categorydomain.Category{
		ID:             s.genID.Generate(),
		Name:           name,
		EntryType:      entryType,
		DefaultVatRate: req.DefaultVatRate,
	}
	if err := s.repo.Create(ctx, category); err != nil {
		s.log.Error("create category failed", zap.Error(err))
		return nil, err
	}
	return category, nil
}

func (s *Service) Update(ctx context.Context, id string, req categorydomain.UpdateRequest) (*categorydomain.Category, error) {
	category, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Name != nil {
		name := strings.TrimSpace(*req.Name)
		if name == "" {
			return nil, categorydomain.ErrInvalidName
		}
		category.Name = name
	}
	if req.EntryType != nil {
		category.EntryType = *req.EntryType
	}
	if req.DefaultVatRate != nil {
		category.DefaultVatRate = *req.DefaultVatRate
	}

	if err := s.repo.Update(ctx, id, category); err != nil {
		return nil, err
	}
	return category, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	if _, err := s.GetByID(ctx, id); err != nil {
		return err
	}
	return s.repo.Delete(ctx, id)
}
