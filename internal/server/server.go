package server

import (
	"context"
	"net/http"
	"time"

	accountdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/account/domain"
	categorydomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/category/domain"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/config"
	contactdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/contact/domain"
	contentdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/content/domain"
	entrydomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/entry/domain"
	invoicedomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/invoice/domain"
	obsmiddleware "github.com/Kaisa-Ukkonen/tyoukkoset/internal/observability/logger"
	obsmetrics "github.com/Kaisa-Ukkonen/tyoukkoset/internal/observability/metrics"
	productdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/product/domain"
	reportdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/report/domain"
	stockdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/stock/domain"
	"github.com/Kaisa-Ukkonen/tyoukkoset/internal/sumup"
	tripdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/trip/domain"
	"github.com/gin-gonic/gin"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/fx"
	"go.uber.org/zap"
)

var Module = fx.Module("http.server",
	fx.Provide(NewEngine),
	fx.Invoke(NewServer),
	fx.Invoke(run),
)

func NewEngine(cfg config.Config, log *zap.Logger, httpMetrics *obsmetrics.HTTPMetrics) *gin.Engine {
	if cfg.Environment == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(obsmiddleware.GinMiddleware(log))
	r.Use(obsmetrics.GinMiddleware(httpMetrics))
	r.Use(ErrorHandlingMiddleware())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.Handler()))
	r.Static("/public", cfg.PublicDir)

	return r
}

type Server struct {
	engine      *gin.Engine
	cfg         config.Config
	accountSvc  accountdomain.Service
	categorySvc categorydomain.Service
	contactSvc  contactdomain.Service
	productSvc  productdomain.Service
	entrySvc    entrydomain.Service
	stockSvc    stockdomain.Service
	invoiceSvc  invoicedomain.Service
	tripSvc     tripdomain.Service
	reportSvc   reportdomain.Service
	contentSvc  contentdomain.Service
	sumupClient *sumup.Client
}

type ServerParams struct {
	fx.In

	Gin         *gin.Engine
	Cfg         config.Config
	AccountSvc  accountdomain.Service
	CategorySvc categorydomain.Service
	ContactSvc  contactdomain.Service
	ProductSvc  productdomain.Service
	EntrySvc    entrydomain.Service
	StockSvc    stockdomain.Service
	InvoiceSvc  invoicedomain.Service
	TripSvc     tripdomain.Service
	ReportSvc   reportdomain.Service
	ContentSvc  contentdomain.Service
	SumupClient *sumup.Client
}

func NewServer(p ServerParams) *Server {
	s := &Server{
		engine:      p.Gin,
		cfg:         p.Cfg,
		accountSvc:  p.AccountSvc,
		categorySvc: p.CategorySvc,
		contactSvc:  p.ContactSvc,
		productSvc:  p.ProductSvc,
		entrySvc:    p.EntrySvc,
		stockSvc:    p.StockSvc,
		invoiceSvc:  p.InvoiceSvc,
		tripSvc:     p.TripSvc,
		reportSvc:   p.ReportSvc,
		contentSvc:  p.ContentSvc,
		sumupClient: p.SumupClient,
	}

	s.registerBookkeepingRoutes()
	s.registerContentRoutes()
	s.registerSumupRoutes()

	return s
}

func (s *Server) registerBookkeepingRoutes() {
	api := s.engine.Group("/api/bookkeeping")

	accounts := api.Group("/accounts")
	accounts.GET("", s.ListAccounts)
	accounts.POST("", s.CreateAccount)
	accounts.GET("/:id", s.GetAccount)
	accounts.GET("/:id/balance", s.GetAccountBalance)
	accounts.PUT("/:id", s.UpdateAccount)
	accounts.DELETE("/:id", s.DeleteAccount)

	categories := api.Group("/categories")
	categories.GET("", s.ListCategories)
	categories.POST("", s.CreateCategory)
	categories.GET("/:id", s.GetCategory)
	categories.PUT("/:id", s.UpdateCategory)
	categories.DELETE("/:id", s.DeleteCategory)

	contacts := api.Group("/contacts")
	contacts.GET("", s.ListContacts)
	contacts.POST("", s.CreateContact)
	contacts.GET("/:id", s.GetContact)
	contacts.PUT("/:id", s.UpdateContact)
	contacts.DELETE("/:id", s.DeleteContact)

	products := api.Group("/products")
	products.GET("", s.ListProducts)
	products.POST("", s.CreateProduct)
	products.GET("/:id", s.GetProduct)
	products.PUT("/:id", s.UpdateProduct)
	products.DELETE("/:id", s.DeleteProduct)
	products.POST("/:id/stock", s.AdjustStock)

	entries := api.Group("/entries")
	entries.GET("", s.ListEntries)
	entries.POST("", s.CreateEntry)
	entries.GET("/:id", s.GetEntry)
	entries.PUT("/:id", s.UpdateEntry)
	entries.DELETE("/:id", s.DeleteEntry)

	invoices := api.Group("/invoices")
	invoices.GET("", s.ListInvoices)
	invoices.POST("", s.CreateInvoice)
	invoices.GET("/:id", s.GetInvoice)
	invoices.PUT("/:id", s.UpdateInvoice)
	invoices.DELETE("/:id", s.DeleteInvoice)
	invoices.POST("/:id/approve", s.ApproveInvoice)
	invoices.POST("/:id/send", s.SendInvoice)
	invoices.POST("/:id/paid", s.MarkInvoicePaid)
	invoices.GET("/:id/pdf", s.InvoicePDF)

	trips := api.Group("/trips")
	trips.GET("", s.ListTrips)
	trips.POST("", s.CreateTrip)
	trips.GET("/:id", s.GetTrip)
	trips.PUT("/:id", s.UpdateTrip)
	trips.DELETE("/:id", s.DeleteTrip)

	api.GET("/stock", s.StockRollup)

	reports := api.Group("/reports")
	reports.GET("/period", s.PeriodReport)
	reports.GET("/period/pdf", s.PeriodReportPDF)
	reports.GET("/vat", s.VATReport)
	reports.GET("/vat/pdf", s.VATReportPDF)
	reports.GET("/trips", s.TripsReport)
	reports.GET("/trips/pdf", s.TripsReportPDF)
	reports.GET("/stock", s.StockReport)
	reports.GET("/stock/pdf", s.StockReportPDF)
}

func (s *Server) registerContentRoutes() {
	standup := s.engine.Group("/api/standup")
	standup.GET("", s.ListGigs)
	standup.POST("", s.CreateGig)
	standup.PUT("/:id", s.UpdateGig)
	standup.DELETE("/:id", s.DeleteGig)

	tattoos := s.engine.Group("/api/tattoos")
	tattoos.GET("", s.ListTattoos)
	tattoos.POST("", s.CreateTattoo)
	tattoos.PUT("/:id", s.UpdateTattoo)
	tattoos.DELETE("/:id", s.DeleteTattoo)
}

func (s *Server) registerSumupRoutes() {
	s.engine.GET("/api/sumup/me", s.SumupMe)
}

func run(lc fx.Lifecycle, r *gin.Engine, cfg config.Config, log *zap.Logger) {
	srv := &http.Server{
		Addr:    cfg.HTTPAddr,
		Handler: r,
	}

	lc.Append(fx.Hook{
		OnStart: func(ctx context.Context) error {
			log.Info("http server listening", zap.String("addr", cfg.HTTPAddr))
			go func() {
				if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
					log.Fatal("http server failed", zap.Error(err))
				}
			}()
			return nil
		},
		OnStop: func(ctx context.Context) error {
			shutdownCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
			defer cancel()
			return srv.Shutdown(shutdownCtx)
		},
	})
}
