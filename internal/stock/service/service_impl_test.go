package service

import (
	"context"
	"testing"
	"time"

	stockdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/stock/domain"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/stock/repository"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (stockdomain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&stockdomain.StockMovement{}, &stockdomain.ProductUsage{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := NewService(ServiceParam{
		Log:        zap.NewNop(),
		GenID:      node,
		Repository: repository.NewRepository(db),
	})
	return svc, db, node
}

func day(d int) time.Time {
	return time.Date(2026, time.March, d, 12, 0, 0, 0, time.UTC)
}

func TestRollup_Identity(t *testing.T) {
	svc, db, node := newTestService(t)
	ctx := context.Background()
	productID := node.Generate()

	// Opening: +10 before the range.
	_, err := svc.Adjust(ctx, stockdomain.AdjustRequest{
		ProductID:  productID.String(),
		Quantity:   10,
		OccurredAt: timePtr(day(1)),
	})
	require.NoError(t, err)

	// In range: +5 added, 3 used via invoice consumption.
	_, err = svc.Adjust(ctx, stockdomain.AdjustRequest{
		ProductID:  productID.String(),
		Quantity:   5,
		OccurredAt: timePtr(day(10)),
	})
	require.NoError(t, err)

	invoiceID := node.Generate()
	require.NoError(t, db.Create(&stockdomain.ProductUsage{
		ID:         node.Generate(),
		ProductID:  productID,
		InvoiceID:  &invoiceID,
		Quantity:   -3,
		OccurredAt: day(12),
	}).Error)

	rollup, err := svc.Rollup(ctx, productID, day(5), day(20))
	require.NoError(t, err)

	assert.Equal(t, int64(10), rollup.Initial)
	assert.Equal(t, int64(5), rollup.Added)
	assert.Equal(t, int64(3), rollup.Used)
	assert.Equal(t, int64(12), rollup.Final)
	assert.Equal(t, rollup.Final, rollup.Initial+rollup.Added-rollup.Used)
}

func TestRollup_ChainedRangesAgree(t *testing.T) {
	svc, _, node := newTestService(t)
	ctx := context.Background()
	productID := node.Generate()

	for _, ev := range []struct {
		qty int64
		on  time.Time
	}{
		{20, day(2)},
		{-4, day(6)},
		{7, day(8)},
	} {
		_, err := svc.Adjust(ctx, stockdomain.AdjustRequest{
			ProductID:  productID.String(),
			Quantity:   ev.qty,
			OccurredAt: timePtr(ev.on),
		})
		require.NoError(t, err)
	}

	first, err := svc.Rollup(ctx, productID, day(1), day(10))
	require.NoError(t, err)

	// No events fall between day 10 and day 15: the second range opens
	// exactly where the first one closed.
	second, err := svc.Rollup(ctx, productID, day(15), day(25))
	require.NoError(t, err)

	assert.Equal(t, first.Final, second.Initial)
	assert.Equal(t, first.Final, second.Final)
}

func TestRollupAll(t *testing.T) {
	svc, _, node := newTestService(t)
	ctx := context.Background()

	a := node.Generate()
	b := node.Generate()
	for _, id := range []snowflake.ID{a, b} {
		_, err := svc.Adjust(ctx, stockdomain.AdjustRequest{
			ProductID:  id.String(),
			Quantity:   3,
			OccurredAt: timePtr(day(3)),
		})
		require.NoError(t, err)
	}

	rollups, err := svc.RollupAll(ctx, day(1), day(10))
	require.NoError(t, err)
	assert.Len(t, rollups, 2)
	for _, rollup := range rollups {
		assert.Equal(t, int64(3), rollup.Final)
	}
}

func TestAdjust_RejectsZeroQuantity(t *testing.T) {
	svc, _, node := newTestService(t)
	_, err := svc.Adjust(context.Background(), stockdomain.AdjustRequest{
		ProductID: node.Generate().String(),
		Quantity:  0,
	})
	assert.ErrorIs(t, err, stockdomain.ErrInvalidQuantity)
}

func timePtr(t time.Time) *time.Time { return &t }
