package service

import (
	"context"
	"time"

	stockdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/stock/domain"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Log        *zap.Logger
	GenID      *snowflake.Node
	Repository stockdomain.Repository
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	repo  stockdomain.Repository
}

func NewService(p ServiceParam) stockdomain.Service {
	return &Service{
		log:   p.Log.Named("stock.service"),
		genID: p.GenID,
		repo:  p.Repository,
	}
}

func (s *Service) Adjust(ctx context.Context, req stockdomain.AdjustRequest) (*stockdomain.StockMovement, error) {
	if req.Quantity == 0 {
		return nil, stockdomain.ErrInvalidQuantity
	}
	productID, err := snowflake.ParseString(req.ProductID)
	if err != nil {
		return nil, stockdomain.ErrNotFound
	}

	occurredAt := time.Now().UTC()
	if req.OccurredAt != nil {
		occurredAt = req.OccurredAt.UTC()
	}

	movement := &stockdomain.StockMovement{
		ID:         s.genID.Generate(),
		ProductID:  productID,
		Quantity:   req.Quantity,
		Reason:     req.Reason,
		OccurredAt: occurredAt,
	}
	if err := s.repo.CreateMovement(ctx, movement); err != nil {
		s.log.Error("record stock movement failed", zap.Error(err))
		return nil, err
	}
	return movement, nil
}

func (s *Service) Rollup(ctx context.Context, productID snowflake.ID, from, to time.Time) (*stockdomain.Rollup, error) {
	initial, err := s.repo.SumDeltasBefore(ctx, productID, from)
	if err != nil {
		return nil, err
	}
	added, used, err := s.repo.SumRange(ctx, productID, from, to)
	if err != nil {
		return nil, err
	}

	return &stockdomain.Rollup{
		ProductID: productID.String(),
		Initial:   initial,
		Added:     added,
		Used:      used,
		Final:     initial + added - used,
	}, nil
}

func (s *Service) RollupAll(ctx context.Context, from, to time.Time) ([]stockdomain.Rollup, error) {
	ids, err := s.repo.ProductIDsWithEvents(ctx, to)
	if err != nil {
		return nil, err
	}

	rollups := make([]stockdomain.Rollup, 0, len(ids))
	for _, id := range ids {
		rollup, err := s.Rollup(ctx, id, from, to)
		if err != nil {
			return nil, err
		}
		rollups = append(rollups, *rollup)
	}
	return rollups, nil
}
