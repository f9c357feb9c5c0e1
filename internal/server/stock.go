package server

import (
	"net/http"
	"strings"

	"github.com/bwmarrin/snowflake"
	"github.com/gin-gonic/gin"
)

// StockRollup answers the stock position query. With productId it
// returns one product's rollup, without it every product that has
// ledger events.
func (s *Server) StockRollup(c *gin.Context) {
	from, to, err := parseReportRange(c.Query("from"), c.Query("to"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	if productID := strings.TrimSpace(c.Query("productId")); productID != "" {
		parsed, err := snowflake.ParseString(productID)
		if err != nil {
			AbortWithError(c, newValidationError("productId", "invalid_product_id", "invalid productId"))
			return
		}
		rollup, err := s.stockSvc.Rollup(c.Request.Context(), parsed, from, to)
		if err != nil {
			AbortWithError(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"data": rollup})
		return
	}

	rollups, err := s.stockSvc.RollupAll(c.Request.Context(), from, to)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": rollups})
}
