// Package domain contains persistence models for ledger accounts.
package domain

import (
	"time"

	"github.com/bwmarrin/snowflake"
)

// AccountType separates income and expense accounts.
type AccountType string

const (
	AccountTypeIncome  AccountType = "tulo"
	AccountTypeExpense AccountType = "meno"
)

// Account is a bookkeeping ledger account. Names are unique.
type Account struct {
	ID             snowflake.ID `json:"id" gorm:"primaryKey"`
	Name           string       `json:"name" gorm:"type:text;not null;uniqueIndex:ux_accounts_name"`
	Type           AccountType  `json:"type" gorm:"type:text;not null"`
	VatHandling    string       `json:"vatHandling" gorm:"type:text;not null"`
	VatRate        float64      `json:"vatRate" gorm:"not null;default:0"`
	OpeningBalance int64        `json:"openingBalance" gorm:"not null;default:0"` // cents
	CreatedAt      time.Time    `json:"createdAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
	UpdatedAt      time.Time    `json:"updatedAt" gorm:"not null;default:CURRENT_TIMESTAMP"`
}

func (Account) TableName() string { return "accounts" }

func (a AccountType) Valid() bool {
	return a == AccountTypeIncome || a == AccountTypeExpense
}
