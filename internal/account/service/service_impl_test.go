package service

import (
	"context"
	"testing"

	accountdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/account/domain"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/account/repository"
	entrydomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/entry/domain"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/vat"
	"github.com/bwmarrin/snowflake"
	"github.com/glebarez/sqlite"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"gorm.io/gorm"
)

func newTestService(t *testing.T) (accountdomain.Service, *gorm.DB, *snowflake.Node) {
	t.Helper()
	db, err := gorm.Open(sqlite.Open("file::memory:"), &gorm.Config{})
	require.NoError(t, err)
	require.NoError(t, db.AutoMigrate(&accountdomain.Account{}, &entrydomain.BookkeepingEntry{}))

	node, err := snowflake.NewNode(1)
	require.NoError(t, err)

	svc := NewService(ServiceParam{
		Log:        zap.NewNop(),
		GenID:      node,
		Repository: repository.NewRepository(db),
	})
	return svc, db, node
}

func TestCreate_DefaultsAndValidation(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	account, err := svc.Create(ctx, accountdomain.CreateRequest{
		Name:    "Keikkamyynti",
		Type:    "tulo",
		VatRate: 25.5,
	})
	require.NoError(t, err)
	assert.Equal(t, vat.HandlingDomestic, account.VatHandling)

	_, err = svc.Create(ctx, accountdomain.CreateRequest{Name: "  ", Type: "tulo"})
	assert.ErrorIs(t, err, accountdomain.ErrInvalidName)

	_, err = svc.Create(ctx, accountdomain.CreateRequest{Name: "Sekalaiset", Type: "varasto"})
	assert.ErrorIs(t, err, accountdomain.ErrInvalidType)
}

func TestCreate_DuplicateName(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	_, err := svc.Create(ctx, accountdomain.CreateRequest{Name: "Tarvikeostot", Type: "meno"})
	require.NoError(t, err)

	_, err = svc.Create(ctx, accountdomain.CreateRequest{Name: "Tarvikeostot", Type: "meno"})
	assert.ErrorIs(t, err, accountdomain.ErrDuplicateName)
}

func TestBalance_OpeningPlusPostedEntries(t *testing.T) {
	svc, db, node := newTestService(t)
	ctx := context.Background()

	account, err := svc.Create(ctx, accountdomain.CreateRequest{
		Name:           "Kassa",
		Type:           "tulo",
		OpeningBalance: 10000,
	})
	require.NoError(t, err)

	post := func(entryType string, gross int64) {
		require.NoError(t, db.Create(&entrydomain.BookkeepingEntry{
			ID:          node.Generate(),
			Type:        entrydomain.EntryType(entryType),
			AccountID:   &account.ID,
			GrossAmount: gross,
			NetAmount:   gross,
		}).Error)
	}
	post("tulo", 5000)
	post("tulo", 2500)
	post("meno", 1500)

	balance, err := svc.Balance(ctx, account.ID.String())
	require.NoError(t, err)
	assert.Equal(t, int64(10000+5000+2500-1500), balance.Balance)
	assert.Equal(t, account.ID.String(), balance.AccountID)
}

func TestBalance_UnknownAccount(t *testing.T) {
	svc, _, node := newTestService(t)

	_, err := svc.Balance(context.Background(), node.Generate().String())
	assert.ErrorIs(t, err, accountdomain.ErrNotFound)
}

func TestUpdate_RenameAndDelete(t *testing.T) {
	svc, _, _ := newTestService(t)
	ctx := context.Background()

	account, err := svc.Create(ctx, accountdomain.CreateRequest{Name: "Vanha nimi", Type: "meno"})
	require.NoError(t, err)

	name := "Uusi nimi"
	updated, err := svc.Update(ctx, account.ID.String(), accountdomain.UpdateRequest{Name: &name})
	require.NoError(t, err)
	assert.Equal(t, "Uusi nimi", updated.Name)

	require.NoError(t, svc.Delete(ctx, account.ID.String()))
	_, err = svc.GetByID(ctx, account.ID.String())
	assert.ErrorIs(t, err, accountdomain.ErrNotFound)
}
