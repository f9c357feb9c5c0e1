// Package domain defines the aggregated report shapes. Every report is
// recomputed from the ledger on request, nothing is cached.
package domain

import (
	"context"
	"errors"
	"time"

	tripdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/trip/domain"
)

var ErrInvalidRange = errors.New("invalid_report_range")

// TypeTotal is the period report aggregate for one entry type.
type TypeTotal struct {
	Net   int64 `json:"net"`
	VAT   int64 `json:"vat"`
	Gross int64 `json:"gross"`
	Count int64 `json:"count"`
}

// PeriodReport sums posted entries by income/expense over a range.
type PeriodReport struct {
	From        time.Time `json:"from"`
	To          time.Time `json:"to"`
	Income      TypeTotal `json:"income"`
	Expense     TypeTotal `json:"expense"`
	ProfitNet   int64     `json:"profitNet"`
	ProfitGross int64     `json:"profitGross"`
}

// RateBucket is one VAT-rate row of the VAT report. Exempt and
// zero-rated entries land in the 0% bucket.
type RateBucket struct {
	Rate  float64 `json:"rate"`
	Net   int64   `json:"net"`
	VAT   int64   `json:"vat"`
	Gross int64   `json:"gross"`
	Count int64   `json:"count"`
}

// VATReport buckets posted entries by VAT rate over a range. Every
// configured bucket appears even when empty; rates found in the data
// but missing from configuration get their own rows.
type VATReport struct {
	From    time.Time    `json:"from"`
	To      time.Time    `json:"to"`
	Buckets []RateBucket `json:"buckets"`
	Total   TypeTotal    `json:"total"`
}

// StockItem is one product's position and valuation in the stock report.
type StockItem struct {
	ProductID   string `json:"productId"`
	Name        string `json:"name"`
	Initial     int64  `json:"initialStock"`
	Added       int64  `json:"added"`
	Used        int64  `json:"used"`
	Final       int64  `json:"finalStock"`
	UnitNet     int64  `json:"unitNet"`
	UnitVat     int64  `json:"unitVat"`
	UnitGross   int64  `json:"unitGross"`
	ValueGross  int64  `json:"valueGross"`
}

type StockReport struct {
	From            time.Time   `json:"from"`
	To              time.Time   `json:"to"`
	Items           []StockItem `json:"items"`
	TotalValueGross int64       `json:"totalValueGross"`
}

type Service interface {
	Period(ctx context.Context, from, to time.Time) (*PeriodReport, error)
	VAT(ctx context.Context, from, to time.Time) (*VATReport, error)
	Stock(ctx context.Context, from, to time.Time) (*StockReport, error)
	Trips(ctx context.Context, from, to time.Time) (*tripdomain.Report, error)

	PeriodPDF(ctx context.Context, from, to time.Time) ([]byte, error)
	VATPDF(ctx context.Context, from, to time.Time) ([]byte, error)
	StockPDF(ctx context.Context, from, to time.Time) ([]byte, error)
	TripsPDF(ctx context.Context, from, to time.Time) ([]byte, error)
}
