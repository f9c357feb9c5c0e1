package domain

import (
	"context"
	"errors"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrNotFound      = errors.New("not_found")
	ErrInvalidName   = errors.New("invalid_name")
	ErrInvalidType   = errors.New("invalid_account_type")
	ErrDuplicateName = errors.New("duplicate_account_name")
)

type CreateRequest struct {
	Name           string  `json:"name"`
	Type           string  `json:"type"`
	VatHandling    string  `json:"vatHandling"`
	VatRate        float64 `json:"vatRate"`
	OpeningBalance int64   `json:"openingBalance"`
}

type UpdateRequest struct {
	Name           *string  `json:"name,omitempty"`
	Type           *string  `json:"type,omitempty"`
	VatHandling    *string  `json:"vatHandling,omitempty"`
	VatRate        *float64 `json:"vatRate,omitempty"`
	OpeningBalance *int64   `json:"openingBalance,omitempty"`
}

type ListRequest struct {
	Type    string
	SortBy  string
	OrderBy string
}

// Balance is the account's opening balance adjusted by every posted entry.
type Balance struct {
	AccountID string `json:"accountId"`
	Balance   int64  `json:"balance"`
}

type Service interface {
	List(ctx context.Context, req ListRequest) ([]Account, error)
	GetByID(ctx context.Context, id string) (*Account, error)
	Create(ctx context.Context, req CreateRequest) (*Account, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Account, error)
	Delete(ctx context.Context, id string) error
	Balance(ctx context.Context, id string) (*Balance, error)
}

type Repository interface {
	Find(ctx context.Context, filter ListRequest) ([]Account, error)
	FindByID(ctx context.Context, id snowflake.ID) (*Account, error)
	Create(ctx context.Context, account *Account) error
	Update(ctx context.Context, account *Account) error
	Delete(ctx context.Context, id snowflake.ID) error
	SumPostedEntries(ctx context.Context, id snowflake.ID) (int64, error)
}
