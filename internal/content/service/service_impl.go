package service

import (
	"context"
	"fmt"
	"strings"
	"time"

	contentdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/content/domain"
	"github.com/Kaisa-Ukkonen/tyoukkoset/pkg/db/option"
	"github.com/Kaisa-Ukkonen/tyoukkoset/pkg/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/gosimple/slug"
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
	log     *zap.Logger
	genID   *snowflake.Node
	gigs    repository.Repository[contentdomain.StandupGig]
	tattoos repository.Repository[contentdomain.Tattoo]
}

func NewService(p ServiceParam) contentdomain.Service {
	return &Service{
		log:     p.Log.Named("content.service"),
		genID:   p.GenID,
		gigs:    repository.ProvideStore[contentdomain.StandupGig](p.DB),
		tattoos: repository.ProvideStore[contentdomain.Tattoo](p.DB),
	}
}

func (s *Service) ListGigs(ctx context.Context, publishedOnly bool) ([]*contentdomain.StandupGig, error) {
	opts := []option.QueryOption{
		option.WithSortBy(option.WithQuerySortBy("starts_at", "desc", map[string]bool{"starts_at": true})),
	}
	if publishedOnly {
		opts = append(opts, option.ApplyOperator(option.Condition{
			Field:    "published",
			Operator: option.EQ,
			Value:    true,
		}))
	}
	return s.gigs.Find(ctx, &contentdomain.StandupGig{}, opts...)
}

func (s *Service) CreateGig(ctx context.Context, req contentdomain.GigRequest) (*contentdomain.StandupGig, error) {
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
		return nil, contentdomain.ErrInvalidTitle
	}

	id := s.genID.Generate()
	gig := &contentdomain.StandupGig{
		ID:        id,
		Slug:      s.makeSlug(*req.Title, id),
		Title:     strings.TrimSpace(*req.Title),
		StartsAt:  time.Now(),
		TicketURL: req.TicketURL,
		Notes:     req.Notes,
		Published: true,
	}
	if req.Venue != nil {
		gig.Venue = *req.Venue
	}
	if req.City != nil {
		gig.City = *req.City
	}
	if req.StartsAt != nil {
		gig.StartsAt = *req.StartsAt
	}
	if req.Published != nil {
		gig.Published = *req.Published
	}

	if err := s.gigs.Create(ctx, gig); err != nil {
		s.log.Error("create gig failed", zap.Error(err))
		return nil, err
	}
	return gig, nil
}

func (s *Service) UpdateGig(ctx context.Context, id string, req contentdomain.GigRequest) (*contentdomain.StandupGig, error) {
	gig, err := findByID(ctx, s.gigs, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, contentdomain.ErrInvalidTitle
		}
		gig.Title = title
	}
	if req.Venue != nil {
		gig.Venue = *req.Venue
	}
	if req.City != nil {
		gig.City = *req.City
	}
	if req.StartsAt != nil {
		gig.StartsAt = *req.StartsAt
	}
	if req.TicketURL != nil {
		gig.TicketURL = req.TicketURL
	}
	if req.Notes != nil {
		gig.Notes = req.Notes
	}
	if req.Published != nil {
		gig.Published = *req.Published
	}

	if err := s.gigs.Update(ctx, id, gig); err != nil {
		return nil, err
	}
	return gig, nil
}

func (s *Service) DeleteGig(ctx context.Context, id string) error {
	if _, err := findByID(ctx, s.gigs, id); err != nil {
		return err
	}
	return s.gigs.Delete(ctx, id)
}

func (s *Service) ListTattoos(ctx context.Context, publishedOnly bool) ([]*contentdomain.Tattoo, error) {
	opts := []option.QueryOption{
		option.WithSortBy(option.WithQuerySortBy("created_at", "desc", map[string]bool{"created_at": true})),
	}
	if publishedOnly {
		opts = append(opts, option.ApplyOperator(option.Condition{
			Field:    "published",
			Operator: option.EQ,
			Value:    true,
		}))
	}
	return s.tattoos.Find(ctx, &contentdomain.Tattoo{}, opts...)
}

func (s *Service) CreateTattoo(ctx context.Context, req contentdomain.TattooRequest) (*contentdomain.Tattoo, error) {
	if req.Title == nil || strings.TrimSpace(*req.Title) == "" {
		return nil, contentdomain.ErrInvalidTitle
	}

	id := s.genID.Generate()
	tattoo := &contentdomain.Tattoo{
		ID:          id,
		Slug:        s.makeSlug(*req.Title, id),
		Title:       strings.TrimSpace(*req.Title),
		Style:       req.Style,
		Description: req.Description,
		ImageURL:    req.ImageURL,
		Published:   true,
	}
	if req.Published != nil {
		tattoo.Published = *req.Published
	}

	if err := s.tattoos.Create(ctx, tattoo); err != nil {
		s.log.Error("create tattoo failed", zap.Error(err))
		return nil, err
	}
	return tattoo, nil
}

func (s *Service) UpdateTattoo(ctx context.Context, id string, req contentdomain.TattooRequest) (*contentdomain.Tattoo, error) {
	tattoo, err := findByID(ctx, s.tattoos, id)
	if err != nil {
		return nil, err
	}

	if req.Title != nil {
		title := strings.TrimSpace(*req.Title)
		if title == "" {
			return nil, contentdomain.ErrInvalidTitle
		}
		tattoo.Title = title
	}
	if req.Style != nil {
		tattoo.Style = req.Style
	}
	if req.Description != nil {
		tattoo.Description = req.Description
	}
	if req.ImageURL != nil {
		tattoo.ImageURL = req.ImageURL
	}
	if req.Published != nil {
		tattoo.Published = *req.Published
	}

	if err := s.tattoos.Update(ctx, id, tattoo); err != nil {
		return nil, err
	}
	return tattoo, nil
}

func (s *Service) DeleteTattoo(ctx context.Context, id string) error {
	if _, err := findByID(ctx, s.tattoos, id); err != nil {
		return err
	}
	return s.tattoos.Delete(ctx, id)
}

// makeSlug appends the row id so two gigs with the same title never
// collide on the unique slug index.
func (s *Service) makeSlug(title string, id snowflake.ID) string {
	return fmt.Sprintf("%s-%d", slug.Make(title), id)
}

func findByID[T any](ctx context.Context, store repository.Repository[T], id string) (*T, error) {
	if _, err := snowflake.ParseString(id); err != nil {
		return nil, contentdomain.ErrNotFound
	}
	found, err := store.FindOne(ctx, new(T), option.ApplyOperator(option.Condition{
		Field:    "id",
		Operator: option.EQ,
		Value:    id,
	}))
	if err != nil {
		return nil, err
	}
	if found == nil {
		return nil, contentdomain.ErrNotFound
	}
	return found, nil
}
