package server

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

// SumupMe proxies the merchant profile lookup to SumUp.
func (s *Server) SumupMe(c *gin.Context) {
	raw, err := s.sumupClient.Me(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.Data(http.StatusOK, "application/json", raw)
}
