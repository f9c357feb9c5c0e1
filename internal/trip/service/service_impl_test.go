package service

import (
	"context"
	"testing"
	"time"

	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/config"
	tripdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/trip/domain"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) tripdomain.Service {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tripdomain.Trip{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	return NewService(ServiceParam{
		DB:    db,
		Log:   zap.NewNop(),
		GenID: node,
		Rates: config.StaticRatesHolder(config.DefaultRatesConfig()),
	})
}

func day(d int) time.Time {
	return time.Date(2026, time.April, d, 9, 0, 0, 0, time.UTC)
}

func timePtr(t time.Time) *time.Time { return &t }

func TestReport_SumsPerTier(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	for _, trip := range []tripdomain.CreateRequest{
		{Date: timePtr(day(2)), Route: "Helsinki-Tampere", Kilometers: 180, Tier: "full"},
		{Date: timePtr(day(5)), Route: "Helsinki-Lahti", Kilometers: 100, Tier: "full"},
		{Date: timePtr(day(8)), Route: "Helsinki-Porvoo", Kilometers: 50, Tier: "half"},
		{Date: timePtr(day(9)), Route: "Paikallisajo", Kilometers: 20, Tier: "none"},
		{Date: timePtr(day(28)), Route: "Rajan ulkopuolella", Kilometers: 500, Tier: "full"},
	} {
		_, err := svc.Create(ctx, trip)
		require.NoError(t, err)
	}

	report, err := svc.Report(ctx, day(1), day(10))
	require.NoError(t, err)

	assert.Equal(t, int64(4), report.TotalTrips)
	assert.Equal(t, int64(350), report.TotalKilometers)
	// 2 full days at 53,00 + 1 half day at 24,00.
	assert.Equal(t, int64(2*5300+2400), report.TotalAllowanceCents)

	require.Len(t, report.Tiers, 3)
	assert.Equal(t, tripdomain.TierFull, report.Tiers[0].Tier)
	assert.Equal(t, int64(2), report.Tiers[0].Trips)
	assert.Equal(t, int64(10600), report.Tiers[0].AllowanceCents)
	assert.Equal(t, tripdomain.TierNone, report.Tiers[2].Tier)
	assert.Equal(t, int64(0), report.Tiers[2].AllowanceCents)
}

func TestReport_FollowsRateChanges(t *testing.T) {
	holder := config.StaticRatesHolder(config.RatesConfig{
		VATBuckets:             []float64{0, 10, 14, 25.5},
		TripAllowanceFullCents: 5500,
		TripAllowanceHalfCents: 2500,
	})

	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&tripdomain.Trip{}))
	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := NewService(ServiceParam{DB: db, Log: zap.NewNop(), GenID: node, Rates: holder})
	ctx := context.Background()

	_, err = svc.Create(ctx, tripdomain.CreateRequest{
		Date: timePtr(day(3)), Route: "Turku", Kilometers: 160, Tier: "full",
	})
	require.NoError(t, err)

	report, err := svc.Report(ctx, day(1), day(10))
	require.NoError(t, err)
	assert.Equal(t, int64(5500), report.TotalAllowanceCents)
}

func TestCreate_Validation(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, tripdomain.CreateRequest{Route: "X", Tier: "double"})
	assert.ErrorIs(t, err, tripdomain.ErrInvalidTier)

	_, err = svc.Create(ctx, tripdomain.CreateRequest{Route: "X", Kilometers: -5})
	assert.ErrorIs(t, err, tripdomain.ErrInvalidKm)

	trip, err := svc.Create(ctx, tripdomain.CreateRequest{Route: "X", Kilometers: 10})
	require.NoError(t, err)
	assert.Equal(t, tripdomain.TierNone, trip.Tier)
}

func TestUpdateAndDelete(t *testing.T) {
	svc := newTestService(t)
	ctx := context.Background()

	trip, err := svc.Create(ctx, tripdomain.CreateRequest{
		Date: timePtr(day(1)), Route: "Helsinki", Kilometers: 30, Tier: "half",
	})
	require.NoError(t, err)

	km := int64(45)
	updated, err := svc.Update(ctx, trip.ID.String(), tripdomain.UpdateRequest{Kilometers: &km})
	require.NoError(t, err)
	assert.Equal(t, int64(45), updated.Kilometers)

	require.NoError(t, svc.Delete(ctx, trip.ID.String()))
	_, err = svc.GetByID(ctx, trip.ID.String())
	assert.ErrorIs(t, err, tripdomain.ErrNotFound)
}
