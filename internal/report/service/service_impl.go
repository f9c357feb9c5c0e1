package service

import (
	"context"
	"fmt"
	"sort"
	"strings"
	"time"

	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/config"
	entrydomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/entry/domain"
	productdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/product/domain"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/providers/pdf"
	reportdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/report/domain"
	stockdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/stock/domain"
	tripdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/trip/domain"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/vat"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

type ServiceParam struct {
	fx.In

	Log      *zap.Logger
	Rates    *config.RatesHolder
	Entries  entrydomain.Repository
	Stock    stockdomain.Service
	Trips    tripdomain.Service
	Products productdomain.Service
	PDF      pdf.Provider
}

type Service struct {
	log      *zap.Logger
	rates    *config.RatesHolder
	entries  entrydomain.Repository
	stock    stockdomain.Service
	trips    tripdomain.Service
	products productdomain.Service
	pdf      pdf.Provider
}

func NewService(p ServiceParam) reportdomain.Service {
	return &Service{
		log:      p.Log.Named("report.service"),
		rates:    p.Rates,
		entries:  p.Entries,
		stock:    p.Stock,
		trips:    p.Trips,
		products: p.Products,
		pdf:      p.PDF,
	}
}

func (s *Service) Period(ctx context.Context, from, to time.Time) (*reportdomain.PeriodReport, error) {
	if to.Before(from) {
		return nil, reportdomain.ErrInvalidRange
	}
	sums, err := s.entries.SumByType(ctx, from, to)
	if err != nil {
		return nil, err
	}

	report := &reportdomain.PeriodReport{From: from, To: to}
	for _, sum := range sums {
		total := reportdomain.TypeTotal{Net: sum.Net, VAT: sum.VAT, Gross: sum.Gross, Count: sum.Count}
		switch sum.Type {
		case entrydomain.EntryIncome:
			report.Income = total
		case entrydomain.EntryExpense:
			report.Expense = total
		}
	}
	report.ProfitNet = report.Income.Net - report.Expense.Net
	report.ProfitGross = report.Income.Gross - report.Expense.Gross
	return report, nil
}

// VAT buckets posted entries by numeric rate. Bucketing keys on the
// stored rate, so a taxable row at 0% and an exempt row land in the
// same 0% bucket.
func (s *Service) VAT(ctx context.Context, from, to time.Time) (*reportdomain.VATReport, error) {
	if to.Before(from) {
		return nil, reportdomain.ErrInvalidRange
	}
	sums, err := s.entries.SumByRate(ctx, from, to)
	if err != nil {
		return nil, err
	}

	buckets := map[float64]*reportdomain.RateBucket{}
	for _, rate := range s.rates.Current().VATBuckets {
		buckets[rate] = &reportdomain.RateBucket{Rate: rate}
	}

	report := &reportdomain.VATReport{From: from, To: to}
	for _, sum := range sums {
		bucket, ok := buckets[sum.VatRate]
		if !ok {
			bucket = &reportdomain.RateBucket{Rate: sum.VatRate}
			buckets[sum.VatRate] = bucket
		}
		bucket.Net += sum.Net
		bucket.VAT += sum.VAT
		bucket.Gross += sum.Gross
		bucket.Count += sum.Count

		report.Total.Net += sum.Net
		report.Total.VAT += sum.VAT
		report.Total.Gross += sum.Gross
		report.Total.Count += sum.Count
	}

	rates := make([]float64, 0, len(buckets))
	for rate := range buckets {
		rates = append(rates, rate)
	}
	sort.Float64s(rates)
	for _, rate := range rates {
		report.Buckets = append(report.Buckets, *buckets[rate])
	}
	return report, nil
}

func (s *Service) Stock(ctx context.Context, from, to time.Time) (*reportdomain.StockReport, error) {
	if to.Before(from) {
		return nil, reportdomain.ErrInvalidRange
	}
	rollups, err := s.stock.RollupAll(ctx, from, to)
	if err != nil {
		return nil, err
	}

	report := &reportdomain.StockReport{From: from, To: to}
	for _, rollup := range rollups {
		item := reportdomain.StockItem{
			ProductID: rollup.ProductID,
			Initial:   rollup.Initial,
			Added:     rollup.Added,
			Used:      rollup.Used,
			Final:     rollup.Final,
		}

		product, err := s.products.GetByID(ctx, rollup.ProductID)
		if err == nil {
			item.Name = product.Name
			unit := unitBreakdown(product)
			item.UnitNet = unit.Net
			item.UnitVat = unit.VAT
			item.UnitGross = unit.Gross
			item.ValueGross = rollup.Final * unit.Gross
		} else {
			// Deleted products keep their ledger rows; report them unnamed
			// and unvalued rather than dropping the quantities.
			s.log.Warn("stock report product lookup failed",
				zap.String("product_id", rollup.ProductID), zap.Error(err))
		}

		report.Items = append(report.Items, item)
		report.TotalValueGross += item.ValueGross
	}

	sort.Slice(report.Items, func(i, j int) bool {
		return report.Items[i].Name < report.Items[j].Name
	})
	return report, nil
}

func (s *Service) Trips(ctx context.Context, from, to time.Time) (*tripdomain.Report, error) {
	if to.Before(from) {
		return nil, reportdomain.ErrInvalidRange
	}
	return s.trips.Report(ctx, from, to)
}

func unitBreakdown(product *productdomain.Product) vat.Breakdown {
	class, err := vat.Classify(product.VatHandling, product.VatRate)
	if err != nil {
		class = vat.Class{Treatment: vat.Taxable, Rate: product.VatRate}
	}
	if product.VatIncluded {
		return vat.FromGross(class, product.PriceCents)
	}
	return vat.FromNet(class, product.PriceCents)
}

func (s *Service) PeriodPDF(ctx context.Context, from, to time.Time) ([]byte, error) {
	report, err := s.Period(ctx, from, to)
	if err != nil {
		return nil, err
	}
	doc := pdf.ReportDoc{
		Title:   "Tulosraportti",
		Period:  formatPeriod(from, to),
		Columns: []string{"", "Netto", "ALV", "Brutto", "Tapahtumia"},
		Rows: [][]string{
			{"Tulot", pdf.FormatEuros(report.Income.Net), pdf.FormatEuros(report.Income.VAT), pdf.FormatEuros(report.Income.Gross), fmt.Sprintf("%d", report.Income.Count)},
			{"Menot", pdf.FormatEuros(report.Expense.Net), pdf.FormatEuros(report.Expense.VAT), pdf.FormatEuros(report.Expense.Gross), fmt.Sprintf("%d", report.Expense.Count)},
		},
		Totals: []string{"Tulos", pdf.FormatEuros(report.ProfitNet), "", pdf.FormatEuros(report.ProfitGross), ""},
	}
	return s.pdf.RenderReport(ctx, doc)
}

func (s *Service) VATPDF(ctx context.Context, from, to time.Time) ([]byte, error) {
	report, err := s.VAT(ctx, from, to)
	if err != nil {
		return nil, err
	}
	doc := pdf.ReportDoc{
		Title:   "ALV-raportti",
		Period:  formatPeriod(from, to),
		Columns: []string{"Verokanta", "Netto", "ALV", "Brutto", "Tapahtumia"},
		Totals: []string{
			"Yhteensä",
			pdf.FormatEuros(report.Total.Net),
			pdf.FormatEuros(report.Total.VAT),
			pdf.FormatEuros(report.Total.Gross),
			fmt.Sprintf("%d", report.Total.Count),
		},
	}
	for _, bucket := range report.Buckets {
		doc.Rows = append(doc.Rows, []string{
			formatRate(bucket.Rate),
			pdf.FormatEuros(bucket.Net),
			pdf.FormatEuros(bucket.VAT),
			pdf.FormatEuros(bucket.Gross),
			fmt.Sprintf("%d", bucket.Count),
		})
	}
	return s.pdf.RenderReport(ctx, doc)
}

func (s *Service) StockPDF(ctx context.Context, from, to time.Time) ([]byte, error) {
	report, err := s.Stock(ctx, from, to)
	if err != nil {
		return nil, err
	}
	doc := pdf.ReportDoc{
		Title:   "Varastoraportti",
		Period:  formatPeriod(from, to),
		Columns: []string{"Tuote", "Alkusaldo", "Lisätty", "Käytetty", "Loppusaldo", "Yks. brutto", "Arvo"},
		Totals:  []string{"Yhteensä", "", "", "", "", "", pdf.FormatEuros(report.TotalValueGross)},
	}
	for _, item := range report.Items {
		doc.Rows = append(doc.Rows, []string{
			item.Name,
			fmt.Sprintf("%d", item.Initial),
			fmt.Sprintf("%d", item.Added),
			fmt.Sprintf("%d", item.Used),
			fmt.Sprintf("%d", item.Final),
			pdf.FormatEuros(item.UnitGross),
			pdf.FormatEuros(item.ValueGross),
		})
	}
	return s.pdf.RenderReport(ctx, doc)
}

func (s *Service) TripsPDF(ctx context.Context, from, to time.Time) ([]byte, error) {
	report, err := s.Trips(ctx, from, to)
	if err != nil {
		return nil, err
	}
	doc := pdf.ReportDoc{
		Title:   "Matkaraportti",
		Period:  formatPeriod(from, to),
		Columns: []string{"Päivärahaluokka", "Matkoja", "Kilometrit", "Päivärahat"},
		Totals: []string{
			"Yhteensä",
			fmt.Sprintf("%d", report.TotalTrips),
			fmt.Sprintf("%d km", report.TotalKilometers),
			pdf.FormatEuros(report.TotalAllowanceCents),
		},
	}
	for _, tier := range report.Tiers {
		doc.Rows = append(doc.Rows, []string{
			tierLabel(tier.Tier),
			fmt.Sprintf("%d", tier.Trips),
			fmt.Sprintf("%d km", tier.Kilometers),
			pdf.FormatEuros(tier.AllowanceCents),
		})
	}
	return s.pdf.RenderReport(ctx, doc)
}

func tierLabel(tier tripdomain.AllowanceTier) string {
	switch tier {
	case tripdomain.TierFull:
		return "Kokopäiväraha"
	case tripdomain.TierHalf:
		return "Osapäiväraha"
	default:
		return "Ei päivärahaa"
	}
}

func formatPeriod(from, to time.Time) string {
	return from.Format("02.01.2006") + " – " + to.Format("02.01.2006")
}

func formatRate(rate float64) string {
	formatted := strings.TrimRight(strings.TrimRight(fmt.Sprintf("%.1f", rate), "0"), ".")
	if formatted == "" {
		formatted = "0"
	}
	return formatted + " %"
}
