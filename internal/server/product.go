package server

import (
	"net/http"
	"strings"

	productdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/product/domain"
	stockdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/stock/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListProducts(c *gin.Context) {
	active, err := parseOptionalBool(c.Query("active"))
	if err != nil {
		AbortWithError(c, newValidationError("active", "invalid_active", "invalid active"))
		return
	}
	products, err := s.productSvc.List(c.Request.Context(), productdomain.ListRequest{
		Kind:   strings.TrimSpace(c.Query("kind")),
		Active: active,
	})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": products})
}

func (s *Server) GetProduct(c *gin.Context) {
	product, err := s.productSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": product})
}

func (s *Server) CreateProduct(c *gin.Context) {
	var req productdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	product, err := s.productSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": product})
}

func (s *Server) UpdateProduct(c *gin.Context) {
	var req productdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	product, err := s.productSvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": product})
}

func (s *Server) DeleteProduct(c *gin.Context) {
	if err := s.productSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

type adjustStockRequest struct {
	Quantity   int64   `json:"quantity"`
	Reason     *string `json:"reason,omitempty"`
	OccurredAt *string `json:"occurredAt,omitempty"`
}

// AdjustStock records a manual stock movement for a product. The
// product must exist; the movement quantity is signed.
func (s *Server) AdjustStock(c *gin.Context) {
	var req adjustStockRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}

	product, err := s.productSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}

	adjust := stockdomain.AdjustRequest{
		ProductID: product.ID.String(),
		Quantity:  req.Quantity,
		Reason:    req.Reason,
	}
	if req.OccurredAt != nil {
		occurredAt, err := parseOptionalTime(*req.OccurredAt, false)
		if err != nil {
			AbortWithError(c, newValidationError("occurredAt", "invalid_occurred_at", "invalid occurredAt"))
			return
		}
		adjust.OccurredAt = occurredAt
	}

	movement, err := s.stockSvc.Adjust(c.Request.Context(), adjust)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": movement})
}
