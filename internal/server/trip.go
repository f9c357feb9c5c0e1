package server

import (
	"net/http"

	tripdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/trip/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListTrips(c *gin.Context) {
	from, err := parseOptionalTime(c.Query("from"), false)
	if err != nil {
		AbortWithError(c, newValidationError("from", "invalid_from", "invalid from"))
		return
	}
	to, err := parseOptionalTime(c.Query("to"), true)
	if err != nil {
		AbortWithError(c, newValidationError("to", "invalid_to", "invalid to"))
		return
	}

	trips, err := s.tripSvc.List(c.Request.Context(), tripdomain.ListRequest{From: from, To: to})
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": trips})
}

func (s *Server) GetTrip(c *gin.Context) {
	trip, err := s.tripSvc.GetByID(c.Request.Context(), c.Param("id"))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": trip})
}

func (s *Server) CreateTrip(c *gin.Context) {
	var req tripdomain.CreateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	trip, err := s.tripSvc.Create(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": trip})
}

func (s *Server) UpdateTrip(c *gin.Context) {
	var req tripdomain.UpdateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	trip, err := s.tripSvc.Update(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": trip})
}

func (s *Server) DeleteTrip(c *gin.Context) {
	if err := s.tripSvc.Delete(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}
