package service

import (
	"context"
	"testing"
	"time"

	entrydomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/entry/domain"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/entry/repository"
	stockdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/stock/domain"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/vat"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (entrydomain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(
		&entrydomain.BookkeepingEntry{},
		&stockdomain.ProductUsage{},
	))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := NewService(ServiceParam{
		Log:        zap.NewNop(),
		GenID:      node,
		DB:         db,
		Repository: repository.NewRepository(db),
	})
	return svc, db, node
}

func TestCreate_DerivesVATFromGross(t *testing.T) {
	svc, _, node := newTestService(t)
	accountID := node.Generate().String()

	// Gross 121.00 at 21% domestic taxable: vat = 121.00 - 121.00/1.21 = 21.00.
	entry, err := svc.Create(context.Background(), entrydomain.CreateRequest{
		Type:        "tulo",
		AccountID:   &accountID,
		Description: "Käteismyynti",
		GrossAmount: 12100,
		VatRate:     21,
		VatHandling: vat.HandlingDomestic,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(12100), entry.GrossAmount)
	assert.Equal(t, int64(10000), entry.NetAmount)
	assert.Equal(t, int64(2100), entry.VatAmount)
	assert.Equal(t, entry.GrossAmount, entry.NetAmount+entry.VatAmount)
}

func TestCreate_ExemptHasNoVAT(t *testing.T) {
	svc, _, node := newTestService(t)
	categoryID := node.Generate().String()

	entry, err := svc.Create(context.Background(), entrydomain.CreateRequest{
		Type:        "meno",
		CategoryID:  &categoryID,
		GrossAmount: 5000,
		VatRate:     24,
		VatHandling: vat.HandlingExempt,
	})
	require.NoError(t, err)

	assert.Equal(t, int64(5000), entry.NetAmount)
	assert.Zero(t, entry.VatAmount)
}

func TestCreate_Validation(t *testing.T) {
	svc, _, node := newTestService(t)
	accountID := node.Generate().String()
	ctx := context.Background()

	_, err := svc.Create(ctx, entrydomain.CreateRequest{Type: "weird", AccountID: &accountID, GrossAmount: 100})
	assert.ErrorIs(t, err, entrydomain.ErrInvalidType)

	_, err = svc.Create(ctx, entrydomain.CreateRequest{Type: "tulo", AccountID: &accountID, GrossAmount: 0})
	assert.ErrorIs(t, err, entrydomain.ErrInvalidAmount)

	_, err = svc.Create(ctx, entrydomain.CreateRequest{Type: "tulo", GrossAmount: 100})
	assert.ErrorIs(t, err, entrydomain.ErrMissingAccount)
}

func TestCreate_RecordsProductUsage(t *testing.T) {
	svc, db, node := newTestService(t)
	accountID := node.Generate().String()
	productID := node.Generate().String()
	ctx := context.Background()

	date := time.Date(2026, time.May, 4, 0, 0, 0, 0, time.UTC)
	entry, err := svc.Create(ctx, entrydomain.CreateRequest{
		Type:         "meno",
		AccountID:    &accountID,
		Date:         &date,
		Description:  "Värit keikalle",
		GrossAmount:  2550,
		VatRate:      25.5,
		VatHandling:  vat.HandlingDomestic,
		ProductID:    &productID,
		QuantityUsed: 2,
	})
	require.NoError(t, err)

	var usages []stockdomain.ProductUsage
	require.NoError(t, db.Where("entry_id = ?", entry.ID).Find(&usages).Error)
	require.Len(t, usages, 1)
	assert.Equal(t, productID, usages[0].ProductID.String())
	assert.Equal(t, int64(-2), usages[0].Quantity)
	assert.Equal(t, date, usages[0].OccurredAt.UTC())
}

func TestCreate_RejectsNonPositiveUsage(t *testing.T) {
	svc, db, node := newTestService(t)
	accountID := node.Generate().String()
	productID := node.Generate().String()

	_, err := svc.Create(context.Background(), entrydomain.CreateRequest{
		Type:         "meno",
		AccountID:    &accountID,
		GrossAmount:  1000,
		VatHandling:  vat.HandlingExempt,
		ProductID:    &productID,
		QuantityUsed: 0,
	})
	assert.ErrorIs(t, err, stockdomain.ErrInvalidQuantity)

	// The rejected request left nothing behind.
	var count int64
	require.NoError(t, db.Model(&entrydomain.BookkeepingEntry{}).Count(&count).Error)
	assert.Zero(t, count)
}

func TestDelete_RemovesLinkedUsage(t *testing.T) {
	svc, db, node := newTestService(t)
	accountID := node.Generate().String()
	productID := node.Generate().String()
	ctx := context.Background()

	entry, err := svc.Create(ctx, entrydomain.CreateRequest{
		Type:         "meno",
		AccountID:    &accountID,
		GrossAmount:  1000,
		VatHandling:  vat.HandlingExempt,
		ProductID:    &productID,
		QuantityUsed: 1,
	})
	require.NoError(t, err)

	require.NoError(t, svc.Delete(ctx, entry.ID.String()))

	var count int64
	require.NoError(t, db.Model(&stockdomain.ProductUsage{}).Where("entry_id = ?", entry.ID).Count(&count).Error)
	assert.Zero(t, count)
}

func TestUpdate_RecomputesDerivedAmounts(t *testing.T) {
	svc, _, node := newTestService(t)
	accountID := node.Generate().String()
	ctx := context.Background()

	entry, err := svc.Create(ctx, entrydomain.CreateRequest{
		Type:        "tulo",
		AccountID:   &accountID,
		GrossAmount: 12100,
		VatRate:     21,
		VatHandling: vat.HandlingDomestic,
	})
	require.NoError(t, err)

	newRate := 25.5
	updated, err := svc.Update(ctx, entry.ID.String(), entrydomain.UpdateRequest{VatRate: &newRate})
	require.NoError(t, err)

	assert.Equal(t, int64(12100), updated.GrossAmount)
	assert.Equal(t, int64(9641), updated.NetAmount)
	assert.Equal(t, updated.GrossAmount-updated.NetAmount, updated.VatAmount)
}

func TestListByRange(t *testing.T) {
	svc, _, node := newTestService(t)
	accountID := node.Generate().String()
	ctx := context.Background()

	for _, d := range []int{1, 15, 28} {
		date := time.Date(2026, time.April, d, 0, 0, 0, 0, time.UTC)
		_, err := svc.Create(ctx, entrydomain.CreateRequest{
			Type:        "tulo",
			AccountID:   &accountID,
			Date:        &date,
			GrossAmount: 1000,
			VatHandling: vat.HandlingExempt,
		})
		require.NoError(t, err)
	}

	from := time.Date(2026, time.April, 10, 0, 0, 0, 0, time.UTC)
	to := time.Date(2026, time.April, 20, 0, 0, 0, 0, time.UTC)
	entries, err := svc.List(ctx, entrydomain.ListRequest{From: &from, To: &to})
	require.NoError(t, err)
	assert.Len(t, entries, 1)
}
