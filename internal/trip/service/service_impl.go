package service

import (
	"context"
	"strings"
	"time"

	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/config"
	tripdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/trip/domain"
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
	Rates *config.RatesHolder
}

type Service struct {
	log   *zap.Logger
	genID *snowflake.Node
	rates *config.RatesHolder
	repo  repository.Repository[tripdomain.Trip]
}

func NewService(p ServiceParam) tripdomain.Service {
	return &Service{
		log:   p.Log.Named("trip.service"),
		genID: p.GenID,
		rates: p.Rates,
		repo:  repository.ProvideStore[tripdomain.Trip](p.DB),
	}
}

func (s *Service) List(ctx context.Context, req tripdomain.ListRequest) ([]*tripdomain.Trip, error) {
	opts := []option.QueryOption{
		option.WithSortBy(option.WithQuerySortBy("date", "desc", map[string]bool{"date": true})),
	}
	opts = append(opts, rangeOptions(req.From, req.To)...)
	return s.repo.Find(ctx, &tripdomain.Trip{}, opts...)
}

func (s *Service) GetByID(ctx context.Context, id string) (*tripdomain.Trip, error) {
	if _, err := snowflake.ParseString(id); err != nil {
		return nil, tripdomain.ErrNotFound
	}
	trip, err := s.repo.FindOne(ctx, &tripdomain.Trip{}, option.ApplyOperator(option.Condition{
		Field:    "id",
		Operator: option.EQ,
		Value:    id,
	}))
	if err != nil {
		return nil, err
	}
	if trip == nil {
		return nil, tripdomain.ErrNotFound
	}
	return trip, nil
}

func (s *Service) Create(ctx context.Context, req tripdomain.CreateRequest) (*tripdomain.Trip, error) {
	tier := tripdomain.AllowanceTier(req.Tier)
	if req.Tier == "" {
		tier = tripdomain.TierNone
	}
	if !tier.Valid() {
		return nil, tripdomain.ErrInvalidTier
	}
	if req.Kilometers < 0 {
		return nil, tripdomain.ErrInvalidKm
	}

	date := time.Now()
	if req.Date != nil {
		date = *req.Date
	}
	trip := &tripdomain.Trip{
		ID:         s.genID.Generate(),
		Date:       date,
		Route:      strings.TrimSpace(req.Route),
		Purpose:    req.Purpose,
		Kilometers: req.Kilometers,
		Tier:       tier,
	}
	if err := s.repo.Create(ctx, trip); err != nil {
		s.log.Error("create trip failed", zap.Error(err))
		return nil, err
	}
	return trip, nil
}

func (s *Service) Update(ctx context.Context, id string, req tripdomain.UpdateRequest) (*tripdomain.Trip, error) {
	trip, err := s.GetByID(ctx, id)
	if err != nil {
		return nil, err
	}

	if req.Date != nil {
		trip.Date = *req.Date
	}
	if req.Route != nil {
		trip.Route = strings.TrimSpace(*req.Route)
	}
	if req.Purpose != nil {
		trip.Purpose = req.Purpose
	}
	if req.Kilometers != nil {
		if *req.Kilometers < 0 {
			return nil, tripdomain.ErrInvalidKm
		}
		trip.Kilometers = *req.Kilometers
	}
	if req.Tier != nil {
		tier := tripdomain.AllowanceTier(*req.Tier)
		if !tier.Valid() {
			return nil, tripdomain.ErrInvalidTier
		}
		trip.Tier = tier
	}

	if err := s.repo.Update(ctx, id, trip); err != nil {
		return nil, err
	}
	return trip, nil
}

func (s *Service) Delete(ctx context.Context, id string) error {
	trip, err := s.GetByID(ctx, id)
	if err != nil {
		return err
	}
	return s.repo.Delete(ctx, trip.ID.String())
}

// Report sums trips per tier. A row stores the tier code, never the
// euro amount, so allowances are valued at the current rate.
func (s *Service) Report(ctx context.Context, from, to time.Time) (*tripdomain.Report, error) {
	trips, err := s.List(ctx, tripdomain.ListRequest{From: &from, To: &to})
	if err != nil {
		return nil, err
	}

	rates := s.rates.Current()
	perTrip := map[tripdomain.AllowanceTier]int64{
		tripdomain.TierFull: rates.TripAllowanceFullCents,
		tripdomain.TierHalf: rates.TripAllowanceHalfCents,
		tripdomain.TierNone: 0,
	}

	sums := map[tripdomain.AllowanceTier]*tripdomain.TierSum{}
	report := &tripdomain.Report{From: from, To: to}
	for _, trip := range trips {
		sum, ok := sums[trip.Tier]
		if !ok {
			sum = &tripdomain.TierSum{Tier: trip.Tier}
			sums[trip.Tier] = sum
		}
		sum.Trips++
		sum.Kilometers += trip.Kilometers
		sum.AllowanceCents += perTrip[trip.Tier]

		report.TotalTrips++
		report.TotalKilometers += trip.Kilometers
		report.TotalAllowanceCents += perTrip[trip.Tier]
	}

	for _, tier := range []tripdomain.AllowanceTier{tripdomain.TierFull, tripdomain.TierHalf, tripdomain.TierNone} {
		if sum, ok := sums[tier]; ok {
			report.Tiers = append(report.Tiers, *sum)
		}
	}
	return report, nil
}

func rangeOptions(from, to *time.Time) []option.QueryOption {
	var opts []option.QueryOption
	if from != nil {
		opts = append(opts, option.ApplyOperator(option.Condition{
			Field:    "date",
			Operator: option.GTE,
			Value:    *from,
		}))
	}
	if to != nil {
		opts = append(opts, option.ApplyOperator(option.Condition{
			Field:    "date",
			Operator: option.LTE,
			Value:    *to,
		}))
	}
	return opts
}
