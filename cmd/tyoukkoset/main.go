package main

import (
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/account"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/category"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/config"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/contact"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/content"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/entry"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/invoice"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/logger"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/migration"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/observability"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/product"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/providers/email"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/providers/pdf"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/providers/storage"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/report"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/server"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/stock"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/sumup"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/trip"
	"github.com/Kaisa-Ukkonen/tyoukkoset/pkg/db"
	"github.com/bwmarrin/snowflake"
	"go.uber.org/fx"
)

func main() {
	app := fx.New(
		config.Module,
		logger.Module,
		observability.Module,
		fx.Provide(RegisterSnowflake),
		db.Module,
		migration.Module,

		email.Module,
		pdf.Module,
		storage.Module,

		account.Module,
		category.Module,
		contact.Module,
		product.Module,
		entry.Module,
		stock.Module,
		invoice.Module,
		trip.Module,
		report.Module,
		content.Module,
		sumup.Module,

		server.Module,
	)
	app.Run()
}

func RegisterSnowflake() (*snowflake.Node, error) {
	return snowflake.NewNode(1)
}
