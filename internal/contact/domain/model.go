package domain

import (
	"context"
	"errors"
	"time"

	"github.com/bwmarrin/snowflake"
)

var (
	ErrNotFound    = errors.New("not_found")
	ErrInvalidName = errors.New("invalid_name")
)

// ContactKind distinguishes people from companies.
type ContactKind string

const (
	ContactPerson  ContactKind = "henkilo"
	ContactCompany ContactKind = "yritys"
)

// Contact is a customer or supplier record with optional e-invoicing fields.
type Contact struct {
	ID              snowflake.ID `json:"id" gorm:"primaryKey"`
	Kind            ContactKind  `json:"kind" gorm:"type:text;not null;default:'henkilo'"`
	Name            string       `json:"name" gorm:"type:text;not null;index"`
	BusinessID      *string      `json:"businessId,omitempty" gorm:"type:text"`
	Email           *string      `json:"email,omitempty" gorm:"type:text"`
	Phone           *string      `json:"phone,omitempty" gorm:"type:text"`
	Address         *string      `json:"address,omitempty" gorm:"type:text"`
	PostalCode      *string      `json:"postalCode,omitempty" gorm:"type:text"`
	City            *string      `json:"city,omitempty" gorm:"type:text"`
	EInvoiceAddress *string      `json:"eInvoiceAddress,omitempty" gorm:"type:text"`
	EInvoiceBroker  *string      `json:"eInvoiceBroker,omitempty" gorm:"type:text"`
	CreatedAt       time.Time    `json:"createdAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt       time.Time    `json:"updatedAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Contact) TableName() string { return "contacts" }

type CreateRequest struct {
	Kind            string  `json:"kind"`
	Name            string  `json:"name"`
	BusinessID      *string `json:"businessId,omitempty"`
	Email           *string `json:"email,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	Address         *string `json:"address,omitempty"`
	PostalCode      *string `json:"postalCode,omitempty"`
	City            *string `json:"city,omitempty"`
	EInvoiceAddress *string `json:"eInvoiceAddress,omitempty"`
	EInvoiceBroker  *string `json:"eInvoiceBroker,omitempty"`
}

type UpdateRequest struct {
	Kind            *string `json:"kind,omitempty"`
	Name            *string `json:"name,omitempty"`
	BusinessID      *string `json:"businessId,omitempty"`
	Email           *string `json:"email,omitempty"`
	Phone           *string `json:"phone,omitempty"`
	Address         *string `json:"address,omitempty"`
	PostalCode      *string `json:"postalCode,omitempty"`
	City            *string `json:"city,omitempty"`
	EInvoiceAddress *string `json:"eInvoiceAddress,omitempty"`
	EInvoiceBroker  *string `json:"eInvoiceBroker,omitempty"`
}

type Service interface {
	List(ctx context.Context, search string) ([]*Contact, error)
	GetByID(ctx context.Context, id string) (*Contact, error)
	Create(ctx context.Context, req CreateRequest) (*Contact, error)
	Update(ctx context.Context, id string, req UpdateRequest) (*Contact, error)
	Delete(ctx context.Context, id string) error
}
