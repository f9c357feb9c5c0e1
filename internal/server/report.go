package server

import (
	"context"
	"net/http"
	"time"

	"github.com/gin-gonic/gin"
)

func (s *Server) PeriodReport(c *gin.Context) {
	s.jsonReport(c, func(ctx context.Context, from, to time.Time) (any, error) {
		return s.reportSvc.Period(ctx, from, to)
	})
}

func (s *Server) VATReport(c *gin.Context) {
	s.jsonReport(c, func(ctx context.Context, from, to time.Time) (any, error) {
		return s.reportSvc.VAT(ctx, from, to)
	})
}

func (s *Server) StockReport(c *gin.Context) {
	s.jsonReport(c, func(ctx context.Context, from, to time.Time) (any, error) {
		return s.reportSvc.Stock(ctx, from, to)
	})
}

func (s *Server) TripsReport(c *gin.Context) {
	s.jsonReport(c, func(ctx context.Context, from, to time.Time) (any, error) {
		return s.reportSvc.Trips(ctx, from, to)
	})
}

func (s *Server) PeriodReportPDF(c *gin.Context) {
	s.pdfReport(c, "tulosraportti.pdf", s.reportSvc.PeriodPDF)
}

func (s *Server) VATReportPDF(c *gin.Context) {
	s.pdfReport(c, "alv-raportti.pdf", s.reportSvc.VATPDF)
}

func (s *Server) StockReportPDF(c *gin.Context) {
	s.pdfReport(c, "varastoraportti.pdf", s.reportSvc.StockPDF)
}

func (s *Server) TripsReportPDF(c *gin.Context) {
	s.pdfReport(c, "matkaraportti.pdf", s.reportSvc.TripsPDF)
}

func (s *Server) jsonReport(c *gin.Context, build func(context.Context, time.Time, time.Time) (any, error)) {
	from, to, err := parseReportRange(c.Query("from"), c.Query("to"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	report, err := build(c.Request.Context(), from, to)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": report})
}

func (s *Server) pdfReport(c *gin.Context, filename string, render func(context.Context, time.Time, time.Time) ([]byte, error)) {
	from, to, err := parseReportRange(c.Query("from"), c.Query("to"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	data, err := render(c.Request.Context(), from, to)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Header("Content-Disposition", `inline; filename="`+filename+`"`)
	c.Data(http.StatusOK, "application/pdf", data)
}
