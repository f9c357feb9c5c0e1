package service

import (
	"context"
	"testing"
	"time"

	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/config"
	entrydomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/entry/domain"
	entryrepository "github.com/Kaisa-Ukkonen/tyoukkoset/internal/entry/repository"
	entryservice "github.com/Kaisa-Ukkonen/tyoukkoset/internal/entry/service"
	productdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/product/domain"
	productservice "github.com/Kaisa-Ukkonen/tyoukkoset/internal/product/service"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/providers/pdf"
	reportdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/report/domain"
	stockdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/stock/domain"
	stockrepository "github.com/Kaisa-Ukkonen/tyoukkoset/internal/stock/repository"
	stockservice "github.com/Kaisa-Ukkonen/tyoukkoset/internal/stock/service"
	tripdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/trip/domain"
	tripservice "github.com/Kaisa-Ukkonen/tyoukkoset/internal/trip/service"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/vat"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

type stubPDF struct{}

func (stubPDF) RenderInvoice(ctx context.Context, doc pdf.InvoiceDoc) ([]byte, error) {
	return []byte("%PDF"), nil
}

func (stubPDF) RenderReceipt(ctx context.Context, doc pdf.ReceiptDoc) ([]byte, error) {
	return []byte("%PDF"), nil
}

func (stubPDF) RenderReport(ctx context.Context, doc pdf.ReportDoc) ([]byte, error) {
	return []byte("%PDF"), nil
}

type fixture struct {
	reports   reportdomain.Service
	entries   entrydomain.Service
	stock     stockdomain.Service
	trips     tripdomain.Service
	products  productdomain.Service
	accountID string
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entrydomain.BookkeepingEntry{},
		&stockdomain.StockMovement{},
		&stockdomain.ProductUsage{},
		&tripdomain.Trip{},
		&productdomain.Product{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zap.NewNop()
	rates := config.StaticRatesHolder(config.DefaultRatesConfig())

	entryRepo := entryrepository.NewRepository(db)
	entries := entryservice.NewService(entryservice.ServiceParam{Log: log, GenID: node, DB: db, Repository: entryRepo})
	stock := stockservice.NewService(stockservice.ServiceParam{Log: log, GenID: node, Repository: stockrepository.NewRepository(db)})
	trips := tripservice.NewService(tripservice.ServiceParam{DB: db, Log: log, GenID: node, Rates: rates})
	products := productservice.NewService(productservice.ServiceParam{DB: db, Log: log, GenID: node})

	reports := NewService(ServiceParam{
		Log:      log,
		Rates:    rates,
		Entries:  entryRepo,
		Stock:    stock,
		Trips:    trips,
		Products: products,
		PDF:      stubPDF{},
	})

	return &fixture{
		reports:   reports,
		entries:   entries,
		stock:     stock,
		trips:     trips,
		products:  products,
		accountID: node.Generate().String(),
	}
}

func day(d int) time.Time {
	return time.Date(2026, time.May, d, 12, 0, 0, 0, time.UTC)
}

func timePtr(t time.Time) *time.Time { return &t }

func (f *fixture) postEntry(t *testing.T, entryType string, gross int64, rate float64, handling string, on time.Time) {
	t.Helper()
	_, err := f.entries.Create(context.Background(), entrydomain.CreateRequest{
		Type:        entryType,
		AccountID:   &f.accountID,
		Date:        timePtr(on),
		Description: "testirivi",
		GrossAmount: gross,
		VatRate:     rate,
		VatHandling: handling,
	})
	require.NoError(t, err)
}

func TestPeriodReport(t *testing.T) {
	f := newFixture(t)

	f.postEntry(t, "tulo", 12100, 21, vat.HandlingDomestic, day(2))
	f.postEntry(t, "tulo", 5000, 0, vat.HandlingExempt, day(5))
	f.postEntry(t, "meno", 2550, 25.5, vat.HandlingDomestic, day(8))
	// Outside the range.
	f.postEntry(t, "tulo", 99900, 21, vat.HandlingDomestic, day(28))

	report, err := f.reports.Period(context.Background(), day(1), day(10))
	require.NoError(t, err)

	assert.Equal(t, int64(17100), report.Income.Gross)
	assert.Equal(t, int64(15000), report.Income.Net)
	assert.Equal(t, int64(2100), report.Income.VAT)
	assert.Equal(t, int64(2), report.Income.Count)
	assert.Equal(t, int64(2550), report.Expense.Gross)
	assert.Equal(t, report.Income.Gross-report.Expense.Gross, report.ProfitGross)
}

func TestVATReport_BucketsNormalized(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	f.postEntry(t, "tulo", 12100, 21, vat.HandlingDomestic, day(2))
	f.postEntry(t, "tulo", 11400, 14, vat.HandlingDomestic, day(3))
	// Exempt and taxable-at-zero both land in the 0% bucket.
	f.postEntry(t, "tulo", 5000, 0, vat.HandlingExempt, day(4))
	f.postEntry(t, "tulo", 3000, 0, vat.HandlingDomestic, day(5))

	report, err := f.reports.VAT(ctx, day(1), day(10))
	require.NoError(t, err)

	// Configured buckets 0/10/14/25.5 all present, plus the 21 found in data.
	rates := make([]float64, 0, len(report.Buckets))
	for _, bucket := range report.Buckets {
		rates = append(rates, bucket.Rate)
	}
	assert.Equal(t, []float64{0, 10, 14, 21, 25.5}, rates)

	byRate := map[float64]reportdomain.RateBucket{}
	for _, bucket := range report.Buckets {
		byRate[bucket.Rate] = bucket
	}
	assert.Equal(t, int64(8000), byRate[0].Gross)
	assert.Equal(t, int64(0), byRate[0].VAT)
	assert.Equal(t, int64(2), byRate[0].Count)
	assert.Equal(t, int64(2100), byRate[21].VAT)
	assert.Equal(t, int64(1400), byRate[14].VAT)
	assert.Equal(t, int64(0), byRate[10].Count)
	assert.Equal(t, int64(0), byRate[25.5].Count)

	assert.Equal(t, int64(31500), report.Total.Gross)
	assert.Equal(t, report.Total.Net+report.Total.VAT, report.Total.Gross)
}

func TestStockReport_Valuation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	product, err := f.products.Create(ctx, productdomain.CreateRequest{
		Name:        "Väri",
		Kind:        string(productdomain.KindGoods),
		PriceCents:  2510, // gross, 25.5% included
		VatRate:     25.5,
		VatHandling: vat.HandlingDomestic,
	})
	require.NoError(t, err)

	_, err = f.stock.Adjust(ctx, stockdomain.AdjustRequest{
		ProductID:  product.ID.String(),
		Quantity:   10,
		OccurredAt: timePtr(day(2)),
	})
	require.NoError(t, err)
	_, err = f.stock.Adjust(ctx, stockdomain.AdjustRequest{
		ProductID:  product.ID.String(),
		Quantity:   -4,
		OccurredAt: timePtr(day(6)),
	})
	require.NoError(t, err)

	report, err := f.reports.Stock(ctx, day(1), day(10))
	require.NoError(t, err)
	require.Len(t, report.Items, 1)

	item := report.Items[0]
	assert.Equal(t, "Väri", item.Name)
	assert.Equal(t, int64(10), item.Added)
	assert.Equal(t, int64(4), item.Used)
	assert.Equal(t, int64(6), item.Final)
	assert.Equal(t, int64(2510), item.UnitGross)
	assert.Equal(t, int64(2000), item.UnitNet)
	assert.Equal(t, int64(510), item.UnitVat)
	assert.Equal(t, int64(6*2510), item.ValueGross)
	assert.Equal(t, item.ValueGross, report.TotalValueGross)
}

func TestTripsReport_Passthrough(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	_, err := f.trips.Create(ctx, tripdomain.CreateRequest{
		Date: timePtr(day(3)), Route: "Helsinki-Turku", Kilometers: 165, Tier: "full",
	})
	require.NoError(t, err)

	report, err := f.reports.Trips(ctx, day(1), day(10))
	require.NoError(t, err)
	assert.Equal(t, int64(1), report.TotalTrips)
	assert.Equal(t, int64(5300), report.TotalAllowanceCents)

	_, err = f.reports.Trips(ctx, day(10), day(1))
	assert.ErrorIs(t, err, reportdomain.ErrInvalidRange)
}

func TestReportPDFs(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	for _, render := range []func(context.Context, time.Time, time.Time) ([]byte, error){
		f.reports.PeriodPDF,
		f.reports.VATPDF,
		f.reports.StockPDF,
		f.reports.TripsPDF,
	} {
		data, err := render(ctx, day(1), day(10))
		require.NoError(t, err)
		assert.NotEmpty(t, data)
	}
}
