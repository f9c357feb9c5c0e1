// Package domain contains the public-site content records. They have no
// financial ties; slugs keep their public URLs stable.
package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrNotFound     = errors.New("not_found")
	ErrInvalidTitle = errors.New("invalid_title")
)

// StandupGig is one listed comedy gig.
type StandupGig struct {
	ID        snowflake.ID `json:"id" gorm:"primaryKey"`
	Slug      string       `json:"slug" gorm:"type:text;not null;uniqueIndex:ux_standup_gigs_slug"`
	Title     string       `json:"title" gorm:"type:text;not null"`
	Venue     string       `json:"venue" gorm:"type:text"`
	City      string       `json:"city" gorm:"type:text"`
	StartsAt  time.Time    `json:"startsAt" gorm:"not null;index"`
	TicketURL *string      `json:"ticketUrl,omitempty" gorm:"type:text"`
	Notes     *string      `json:"notes,omitempty" gorm:"type:text"`
	Published bool         `json:"published" gorm:"not null;default:true"`
	CreatedAt time.Time    `json:"createdAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt time.Time    `json:"updatedAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (StandupGig) TableName() string { return "standup_gigs" }

// Tattoo is one gallery piece. ImageURL is a relative URL under the
// public file tree.
type Tattoo struct {
	ID          snowflake.ID `json:"id" gorm:"primaryKey"`
	Slug        string       `json:"slug" gorm:"type:text;not null;uniqueIndex:ux_tattoos_slug"`
	Title       string       `json:"title" gorm:"type:text;not null"`
	Style       *string      `json:"style,omitempty" gorm:"type:text"`
	Description *string      `json:"description,omitempty" gorm:"type:text"`
	ImageURL    *string      `json:"imageUrl,omitempty" gorm:"type:text"`
	Published   bool         `json:"published" gorm:"not null;default:true"`
	CreatedAt   time.Time    `json:"createdAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time    `json:"updatedAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Tattoo) TableName() string { return "tattoos" }

type GigRequest struct {
	Title     *string    `json:"title,omitempty"`
	Venue     *string    `json:"venue,omitempty"`
	City      *string    `json:"city,omitempty"`
	StartsAt  *time.Time `json:"startsAt,omitempty"`
	TicketURL *string    `json:"ticketUrl,omitempty"`
	Notes     *string    `json:"notes,omitempty"`
	Published *bool      `json:"published,omitempty"`
}

type TattooRequest struct {
	Title       *string `json:"title,omitempty"`
	Style       *string `json:"style,omitempty"`
	Description *string `json:"description,omitempty"`
	ImageURL    *string `json:"imageUrl,omitempty"`
	Published   *bool   `json:"published,omitempty"`
}

type Service interface {
	ListGigs(ctx context.Context, publishedOnly bool) ([]*StandupGig, error)
	CreateGig(ctx context.Context, req GigRequest) (*StandupGig, error)
	UpdateGig(ctx context.Context, id string, req GigRequest) (*StandupGig, error)
	DeleteGig(ctx context.Context, id string) error

	ListTattoos(ctx context.Context, publishedOnly bool) ([]*Tattoo, error)
	CreateTattoo(ctx context.Context, req TattooRequest) (*Tattoo, error)
	UpdateTattoo(ctx context.Context, id string, req TattooRequest) (*Tattoo, error)
	DeleteTattoo(ctx context.Context, id string) error
}
