package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrNotFound    = errors.New("not_found")
	ErrInvalidTier = errors.New("invalid_allowance_tier")
	ErrInvalidKm   = errors.New("invalid_kilometers")
)

// AllowanceTier codes the daily allowance class of a trip. The euro
// amount per tier comes from the rates configuration, not the row.
type AllowanceTier string

const (
	TierFull AllowanceTier = "full"
	TierHalf AllowanceTier = "half"
	TierNone AllowanceTier = "none"
)

func (t AllowanceTier) Valid() bool {
	return t == TierFull || t == TierHalf || t == TierNone
}

// Trip is a mileage and allowance record.
type Trip struct {
	ID          snowflake.ID  `json:"id" gorm:"primaryKey"`
	Date        time.Time     `json:"date" gorm:"not null;index"`
	Route       string        `json:"route" gorm:"type:text;not null"`
	Purpose     *string       `json:"purpose,omitempty" gorm:"type:text"`
	Kilometers  int64         `json:"kilometers" gorm:"not null;default:0"`
	Tier        AllowanceTier `json:"tier" gorm:"type:text;not null;default:'none'"`
	CreatedAt   time.Time     `json:"createdAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt   time.Time     `json:"updatedAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Trip) TableName() string { return "trips" }

type CreateRequest struct {
	Date       *time.Time `json:"date,omitempty"`
	Route      string     `json:"route"`
	Purpose    *string    `json:"purpose,omitempty"`
	Kilometers int64      `json:"kilometers"`
	Tier       string     `json:"tier"`
}

type UpdateRequest struct {
	Date       *time.Time `json:"date,omitempty"`
	Route      *string    `json:"route,omitempty"`
	Purpose    *string    `json:"purpose,omitempty"`
	Kilometers *int64     `json:"kilometers,omitempty"`
	Tier       *string    `json:"tier,omitempty"`
}

type ListRequest struct {
	From *time.Time
	To   *time.Time
}

// TierSum is the aggregate for one allowance tier in the trip report.
type TierSum struct {
	Tier           AllowanceTier `json:"tier"`
	Trips          int64         `json:"trips"`
	Kilometers     int64         `json:"kilometers"`
	AllowanceCents int64         `json:"allowanceCents"`
}

// Report is the trip report for a date range.
type Report struct {
	From                time.Time `json:"from"`
	To                  time.Time `json:"to"`
	Tiers               []TierSum `json:"tiers"`
	TotalTrips          int64     `json:"totalTrips"`
	TotalKilometers     int64     `json:"totalKilometers"`
	TotalAllowanceCents int64     `json:"totalAllowanceCents"`
}

type Service interface {
	List(ctx context.Context, req ListRequest) ([]*Trip, error)
	GetByID(ctx context.Context, id string) (*Trip, error)
	Create(ctx context.Context, req CreateRequest) (*Trip, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Trip, error)
	Delete(ctx context.Context, id string) error

	// Report aggregates trips per allowance tier over [from, to] using
	// the currently loaded allowance rates.
	Report(ctx context.Context, from, to time.Time) (*Report, error)
}
