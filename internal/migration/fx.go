package migration

import (
	accountdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/account/domain"
	categorydomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/category/domain"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/config"
	contactdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/contact/domain"
	contentdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/content/domain"
	entrydomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/entry/domain"
	invoicedomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/invoice/domain"
	productdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/product/domain"
	stockdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/stock/domain"
	tripdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/trip/domain"
	"go.uber.org/fx"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

var Module = fx.Module("migrations",
	fx.Invoke(func(conn *gorm.DB, cfg config.Config) error {
		if cfg.DBType == "postgres" {
			sqlDB, err := conn.DB()
			if err != nil {
				return err
			}
			if err := RunMigrations(sqlDB); err != nil {
				return err
			}
		} else {
			if err := autoMigrate(conn); err != nil {
				return err
			}
		}
		return seedCounter(conn)
	}),
)

func autoMigrate(conn *gorm.DB) error {
	return conn.AutoMigrate(
		&accountdomain.Account{},
		&categorydomain.Category{},
		&contactdomain.Contact{},
		&productdomain.Product{},
		&entrydomain.BookkeepingEntry{},
		&stockdomain.StockMovement{},
		&stockdomain.ProductUsage{},
		&invoicedomain.Invoice{},
		&invoicedomain.InvoiceLine{},
		&invoicedomain.InvoiceCounter{},
		&tripdomain.Trip{},
		&contentdomain.StandupGig{},
		&contentdomain.Tattoo{},
	)
}

// seedCounter makes sure the numbering row exists so the first approval
// issues CounterSeed + 1.
func seedCounter(conn *gorm.DB) error {
	return conn.Clauses(clause.OnConflict{DoNothing: true}).
		Create(&invoicedomain.InvoiceCounter{ID: 1, Value: invoicedomain.CounterSeed}).Error
}
