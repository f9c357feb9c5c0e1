package service

import (
	"context"
	"net/url"
	"path/filepath"
	"sync"
	"testing"

	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/config"
	contactdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/contact/domain"
	contactservice "github.com/Kaisa-Ukkonen/tyoukkoset/internal/contact/service"
	entrydomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/entry/domain"
	invoicedomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/invoice/domain"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/invoice/repository"
	productdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/product/domain"
	productservice "github.com/Kaisa-Ukkonen/tyoukkoset/internal/product/service"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/providers/email"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/providers/pdf"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/providers/storage"
	stockdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/stock/domain"
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
	return []byte("%PDF invoice"), nil
}

func (stubPDF) RenderReceipt(ctx context.Context, doc pdf.ReceiptDoc) ([]byte, error) {
	return []byte("%PDF receipt"), nil
}

func (stubPDF) RenderReport(ctx context.Context, doc pdf.ReportDoc) ([]byte, error) {
	return []byte("%PDF report"), nil
}

type recordingEmail struct {
	to          []string
	subject     string
	attachments []email.Attachment
}

func (r *recordingEmail) Send(ctx context.Context, to []string, subject, htmlBody string, attachments ...email.Attachment) error {
	r.to = to
	r.subject = subject
	r.attachments = attachments
	return nil
}

type fixture struct {
	db       *gorm.DB
	node     *snowflake.Node
	invoices invoicedomain.Service
	products productdomain.Service
	contacts contactdomain.Service
	email    *recordingEmail
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	// A plain file::memory: DSN gives every pooled connection its own
	// empty database; the service queries products outside the approval
	// transaction on a second connection, so the tests need one shared
	// in-memory database per test.
	dsn := "file:" + url.PathEscape(t.Name()) + "?mode=memory&cache=shared"
	return newFixtureWithDSN(t, dsn)
}

func newFixtureWithDSN(t *testing.T, dsn string) *fixture {
	t.Helper()
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceLine{},
		&invoicedomain.InvoiceCounter{},
		&productdomain.Product{},
		&contactdomain.Contact{},
		&entrydomain.BookkeepingEntry{},
		&stockdomain.ProductUsage{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)
	log := zap.NewNop()

	products := productservice.NewService(productservice.ServiceParam{DB: db, Log: log, GenID: node})
	contacts := contactservice.NewService(contactservice.ServiceParam{DB: db, Log: log, GenID: node})
	recorder := &recordingEmail{}

	invoices := NewService(ServiceParam{
		Log:        log,
		GenID:      node,
		DB:         db,
		Config:     config.Config{SellerName: "Testifirma"},
		Repository: repository.NewRepository(db),
		Products:   products,
		Contacts:   contacts,
		PDF:        stubPDF{},
		Email:      recorder,
		Storage:    storage.NewLocal(t.TempDir()),
	})

	return &fixture{
		db:       db,
		node:     node,
		invoices: invoices,
		products: products,
		contacts: contacts,
		email:    recorder,
	}
}

func (f *fixture) serviceProduct(t *testing.T) *productdomain.Product {
	t.Helper()
	product, err := f.products.Create(context.Background(), productdomain.CreateRequest{
		Name:        "Keikkatyö",
		Kind:        string(productdomain.KindService),
		PriceCents:  12100,
		VatRate:     21,
		VatHandling: vat.HandlingDomestic,
	})
	require.NoError(t, err)
	return product
}

func (f *fixture) goodsProduct(t *testing.T) *productdomain.Product {
	t.Helper()
	product, err := f.products.Create(context.Background(), productdomain.CreateRequest{
		Name:        "Tarvike",
		Kind:        string(productdomain.KindGoods),
		PriceCents:  2550,
		VatRate:     25.5,
		VatHandling: vat.HandlingDomestic,
	})
	require.NoError(t, err)
	return product
}

func strPtr(s string) *string { return &s }

func TestCreate_DerivesLineAmounts(t *testing.T) {
	f := newFixture(t)
	product := f.serviceProduct(t)

	invoice, err := f.invoices.Create(context.Background(), invoicedomain.CreateRequest{
		CustomerName: strPtr("Matti Meikäläinen"),
		Lines: []invoicedomain.LineRequest{
			{ProductID: strPtr(product.ID.String()), Quantity: 2},
		},
	})
	require.NoError(t, err)
	require.Len(t, invoice.Lines, 1)

	line := invoice.Lines[0]
	assert.Equal(t, int64(24200), line.GrossAmount)
	assert.Equal(t, int64(20000), line.NetAmount)
	assert.Equal(t, int64(4200), line.VatAmount)
	assert.Equal(t, line.GrossAmount, line.NetAmount+line.VatAmount)

	assert.Equal(t, invoicedomain.InvoiceStatusDraft, invoice.Status)
	assert.Nil(t, invoice.InvoiceNumber)
	assert.Equal(t, int64(24200), invoice.TotalGross)
}

func TestCreate_RequiresCustomer(t *testing.T) {
	f := newFixture(t)
	_, err := f.invoices.Create(context.Background(), invoicedomain.CreateRequest{})
	assert.ErrorIs(t, err, invoicedomain.ErrMissingCustomer)
}

func TestApprove_AssignsNumberAndReference(t *testing.T) {
	f := newFixture(t)
	product := f.serviceProduct(t)
	ctx := context.Background()

	first, err := f.invoices.Create(ctx, invoicedomain.CreateRequest{
		CustomerName: strPtr("Asiakas A"),
		Lines:        []invoicedomain.LineRequest{{ProductID: strPtr(product.ID.String()), Quantity: 1}},
	})
	require.NoError(t, err)

	approved, err := f.invoices.Approve(ctx, first.ID.String())
	require.NoError(t, err)
	require.NotNil(t, approved.InvoiceNumber)
	assert.Equal(t, int64(104), *approved.InvoiceNumber)
	assert.Equal(t, "1041", *approved.ReferenceNumber)
	assert.Equal(t, invoicedomain.InvoiceStatusApproved, approved.Status)
	assert.NotNil(t, approved.IssuedAt)

	second, err := f.invoices.Create(ctx, invoicedomain.CreateRequest{
		CustomerName: strPtr("Asiakas B"),
		Lines:        []invoicedomain.LineRequest{{ProductID: strPtr(product.ID.String()), Quantity: 1}},
	})
	require.NoError(t, err)

	approved2, err := f.invoices.Approve(ctx, second.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(105), *approved2.InvoiceNumber)
	assert.True(t, invoicedomain.ValidReference(*approved2.ReferenceNumber))
}

func TestApprove_TwiceFails(t *testing.T) {
	f := newFixture(t)
	product := f.serviceProduct(t)
	ctx := context.Background()

	invoice, err := f.invoices.Create(ctx, invoicedomain.CreateRequest{
		CustomerName: strPtr("Asiakas"),
		Lines:        []invoicedomain.LineRequest{{ProductID: strPtr(product.ID.String()), Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = f.invoices.Approve(ctx, invoice.ID.String())
	require.NoError(t, err)

	_, err = f.invoices.Approve(ctx, invoice.ID.String())
	assert.ErrorIs(t, err, invoicedomain.ErrNotDraft)

	// The counter did not advance on the failed attempt.
	var counter invoicedomain.InvoiceCounter
	require.NoError(t, f.db.First(&counter, "id = ?", 1).Error)
	assert.Equal(t, int64(104), counter.Value)
}

func TestApprove_PostsEntriesAndConsumesStock(t *testing.T) {
	f := newFixture(t)
	service := f.serviceProduct(t)
	goods := f.goodsProduct(t)
	ctx := context.Background()

	invoice, err := f.invoices.Create(ctx, invoicedomain.CreateRequest{
		CustomerName: strPtr("Asiakas"),
		Lines: []invoicedomain.LineRequest{
			{ProductID: strPtr(service.ID.String()), Quantity: 1},
			{ProductID: strPtr(goods.ID.String()), Quantity: 3},
		},
	})
	require.NoError(t, err)

	_, err = f.invoices.Approve(ctx, invoice.ID.String())
	require.NoError(t, err)

	var entries []entrydomain.BookkeepingEntry
	require.NoError(t, f.db.Where("invoice_id = ?", invoice.ID).Find(&entries).Error)
	require.Len(t, entries, 1)
	assert.Equal(t, entrydomain.EntryIncome, entries[0].Type)
	assert.Equal(t, int64(12100), entries[0].GrossAmount)
	assert.Equal(t, int64(10000), entries[0].NetAmount)
	require.NotNil(t, entries[0].ReceiptURL)
	assert.NotEmpty(t, *entries[0].ReceiptURL)

	var usages []stockdomain.ProductUsage
	require.NoError(t, f.db.Where("invoice_id = ?", invoice.ID).Find(&usages).Error)
	require.Len(t, usages, 1)
	assert.Equal(t, goods.ID, usages[0].ProductID)
	assert.Equal(t, int64(-3), usages[0].Quantity)
}

func TestApprove_RequiresLines(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()

	invoice, err := f.invoices.Create(ctx, invoicedomain.CreateRequest{
		CustomerName: strPtr("Asiakas"),
	})
	require.NoError(t, err)

	_, err = f.invoices.Approve(ctx, invoice.ID.String())
	assert.ErrorIs(t, err, invoicedomain.ErrNoLines)
}

func TestSend_EmailsPDFAndTransitions(t *testing.T) {
	f := newFixture(t)
	product := f.serviceProduct(t)
	ctx := context.Background()

	invoice, err := f.invoices.Create(ctx, invoicedomain.CreateRequest{
		CustomerName:  strPtr("Asiakas"),
		CustomerEmail: strPtr("asiakas@example.fi"),
		Lines:         []invoicedomain.LineRequest{{ProductID: strPtr(product.ID.String()), Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = f.invoices.Send(ctx, invoice.ID.String())
	assert.ErrorIs(t, err, invoicedomain.ErrNotSendable)

	_, err = f.invoices.Approve(ctx, invoice.ID.String())
	require.NoError(t, err)

	sent, err := f.invoices.Send(ctx, invoice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, invoicedomain.InvoiceStatusSent, sent.Status)
	assert.Equal(t, []string{"asiakas@example.fi"}, f.email.to)
	assert.Equal(t, "Lasku 104", f.email.subject)
	require.Len(t, f.email.attachments, 1)
	assert.Equal(t, "lasku-104.pdf", f.email.attachments[0].Filename)
}

func TestSend_WithoutRecipientFails(t *testing.T) {
	f := newFixture(t)
	product := f.serviceProduct(t)
	ctx := context.Background()

	invoice, err := f.invoices.Create(ctx, invoicedomain.CreateRequest{
		CustomerName: strPtr("Asiakas"),
		Lines:        []invoicedomain.LineRequest{{ProductID: strPtr(product.ID.String()), Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = f.invoices.Approve(ctx, invoice.ID.String())
	require.NoError(t, err)

	_, err = f.invoices.Send(ctx, invoice.ID.String())
	assert.ErrorIs(t, err, invoicedomain.ErrNoRecipient)
}

func TestMarkPaid(t *testing.T) {
	f := newFixture(t)
	product := f.serviceProduct(t)
	ctx := context.Background()

	invoice, err := f.invoices.Create(ctx, invoicedomain.CreateRequest{
		CustomerName: strPtr("Asiakas"),
		Lines:        []invoicedomain.LineRequest{{ProductID: strPtr(product.ID.String()), Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = f.invoices.MarkPaid(ctx, invoice.ID.String(), nil)
	assert.ErrorIs(t, err, invoicedomain.ErrNotPayable)

	_, err = f.invoices.Approve(ctx, invoice.ID.String())
	require.NoError(t, err)

	paid, err := f.invoices.MarkPaid(ctx, invoice.ID.String(), nil)
	require.NoError(t, err)
	assert.Equal(t, invoicedomain.InvoiceStatusPaid, paid.Status)
	require.NotNil(t, paid.PaidAt)

	_, err = f.invoices.MarkPaid(ctx, invoice.ID.String(), nil)
	assert.ErrorIs(t, err, invoicedomain.ErrNotPayable)
}

func TestCreate_StoresMetadata(t *testing.T) {
	f := newFixture(t)
	product := f.serviceProduct(t)
	ctx := context.Background()

	invoice, err := f.invoices.Create(ctx, invoicedomain.CreateRequest{
		CustomerName: strPtr("Asiakas"),
		Metadata:     map[string]any{"channel": "instagram", "gigId": "2026-021"},
		Lines:        []invoicedomain.LineRequest{{ProductID: strPtr(product.ID.String()), Quantity: 1}},
	})
	require.NoError(t, err)

	reloaded, err := f.invoices.GetByID(ctx, invoice.ID.String())
	require.NoError(t, err)
	require.NotNil(t, reloaded.Metadata)
	assert.Equal(t, "instagram", reloaded.Metadata["channel"])
	assert.Equal(t, "2026-021", reloaded.Metadata["gigId"])

	updated, err := f.invoices.Update(ctx, invoice.ID.String(), invoicedomain.UpdateRequest{
		Metadata: map[string]any{"channel": "word-of-mouth"},
	})
	require.NoError(t, err)
	assert.Equal(t, "word-of-mouth", updated.Metadata["channel"])
}

func TestList_CursorPagination(t *testing.T) {
	f := newFixture(t)
	product := f.serviceProduct(t)
	ctx := context.Background()

	for _, name := range []string{"Asiakas A", "Asiakas B", "Asiakas C"} {
		_, err := f.invoices.Create(ctx, invoicedomain.CreateRequest{
			CustomerName: strPtr(name),
			Lines:        []invoicedomain.LineRequest{{ProductID: strPtr(product.ID.String()), Quantity: 1}},
		})
		require.NoError(t, err)
	}

	first, err := f.invoices.List(ctx, invoicedomain.ListRequest{PageSize: 2})
	require.NoError(t, err)
	require.Len(t, first.Invoices, 2)
	assert.True(t, first.HasMore)
	require.NotEmpty(t, first.NextPageToken)

	second, err := f.invoices.List(ctx, invoicedomain.ListRequest{
		PageSize:  2,
		PageToken: first.NextPageToken,
	})
	require.NoError(t, err)
	require.Len(t, second.Invoices, 1)
	assert.False(t, second.HasMore)

	seen := map[string]bool{}
	for _, inv := range append(first.Invoices, second.Invoices...) {
		assert.False(t, seen[inv.ID.String()])
		seen[inv.ID.String()] = true
	}
}

func TestSend_UnconfiguredEmailFails(t *testing.T) {
	f := newFixture(t)
	product := f.serviceProduct(t)
	ctx := context.Background()

	unconfigured := NewService(ServiceParam{
		Log:        zap.NewNop(),
		GenID:      f.node,
		DB:         f.db,
		Config:     config.Config{SellerName: "Testifirma"},
		Repository: repository.NewRepository(f.db),
		Products:   f.products,
		Contacts:   f.contacts,
		PDF:        stubPDF{},
		Email:      email.NewFromConfig(config.Config{}),
		Storage:    storage.NewLocal(t.TempDir()),
	})

	invoice, err := f.invoices.Create(ctx, invoicedomain.CreateRequest{
		CustomerName:  strPtr("Asiakas"),
		CustomerEmail: strPtr("asiakas@example.fi"),
		Lines:         []invoicedomain.LineRequest{{ProductID: strPtr(product.ID.String()), Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = f.invoices.Approve(ctx, invoice.ID.String())
	require.NoError(t, err)

	_, err = unconfigured.Send(ctx, invoice.ID.String())
	assert.ErrorIs(t, err, email.ErrNotConfigured)

	// The failed send left the invoice approved, so it can be retried
	// once SMTP is configured.
	reloaded, err := f.invoices.GetByID(ctx, invoice.ID.String())
	require.NoError(t, err)
	assert.Equal(t, invoicedomain.InvoiceStatusApproved, reloaded.Status)
}

func TestApprove_ConcurrentIssuesDistinctNumbers(t *testing.T) {
	dsn := "file:" + filepath.Join(t.TempDir(), "invoices.db") + "?_txlock=immediate&_pragma=busy_timeout(10000)"
	f := newFixtureWithDSN(t, dsn)
	product := f.serviceProduct(t)
	ctx := context.Background()

	ids := make([]string, 2)
	for i, name := range []string{"Asiakas A", "Asiakas B"} {
		invoice, err := f.invoices.Create(ctx, invoicedomain.CreateRequest{
			CustomerName: strPtr(name),
			Lines:        []invoicedomain.LineRequest{{ProductID: strPtr(product.ID.String()), Quantity: 1}},
		})
		require.NoError(t, err)
		ids[i] = invoice.ID.String()
	}

	var wg sync.WaitGroup
	results := make([]*invoicedomain.Invoice, 2)
	errs := make([]error, 2)
	for i, id := range ids {
		wg.Add(1)
		go func(i int, id string) {
			defer wg.Done()
			results[i], errs[i] = f.invoices.Approve(ctx, id)
		}(i, id)
	}
	wg.Wait()

	require.NoError(t, errs[0])
	require.NoError(t, errs[1])
	require.NotNil(t, results[0].InvoiceNumber)
	require.NotNil(t, results[1].InvoiceNumber)
	assert.ElementsMatch(t,
		[]int64{104, 105},
		[]int64{*results[0].InvoiceNumber, *results[1].InvoiceNumber},
	)
	assert.NotEqual(t, *results[0].ReferenceNumber, *results[1].ReferenceNumber)
	assert.True(t, invoicedomain.ValidReference(*results[0].ReferenceNumber))
	assert.True(t, invoicedomain.ValidReference(*results[1].ReferenceNumber))
}

func TestUpdate_OnlyDraft(t *testing.T) {
	f := newFixture(t)
	product := f.serviceProduct(t)
	ctx := context.Background()

	invoice, err := f.invoices.Create(ctx, invoicedomain.CreateRequest{
		CustomerName: strPtr("Asiakas"),
		Lines:        []invoicedomain.LineRequest{{ProductID: strPtr(product.ID.String()), Quantity: 1}},
	})
	require.NoError(t, err)

	_, err = f.invoices.Approve(ctx, invoice.ID.String())
	require.NoError(t, err)

	_, err = f.invoices.Update(ctx, invoice.ID.String(), invoicedomain.UpdateRequest{
		Notes: strPtr("muokkaus"),
	})
	assert.ErrorIs(t, err, invoicedomain.ErrNotDraft)

	err = f.invoices.Delete(ctx, invoice.ID.String())
	assert.ErrorIs(t, err, invoicedomain.ErrNotDraft)
}
