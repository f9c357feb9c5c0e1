package server

import (
	"net/http"
	"strings"

	contentdomain "github.com/Kaisa-Ukkonen/tyoukkoset/internal/content/domain"
	"github.com/gin-gonic/gin"
)

func (s *Server) ListGigs(c *gin.Context) {
	gigs, err := s.contentSvc.ListGigs(c.Request.Context(), publishedOnly(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gigs})
}

func (s *Server) CreateGig(c *gin.Context) {
	var req contentdomain.GigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	gig, err := s.contentSvc.CreateGig(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gig})
}

func (s *Server) UpdateGig(c *gin.Context) {
	var req contentdomain.GigRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	gig, err := s.contentSvc.UpdateGig(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gig})
}

func (s *Server) DeleteGig(c *gin.Context) {
	if err := s.contentSvc.DeleteGig(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

func (s *Server) ListTattoos(c *gin.Context) {
	tattoos, err := s.contentSvc.ListTattoos(c.Request.Context(), publishedOnly(c))
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tattoos})
}

func (s *Server) CreateTattoo(c *gin.Context) {
	var req contentdomain.TattooRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	tattoo, err := s.contentSvc.CreateTattoo(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tattoo})
}

func (s *Server) UpdateTattoo(c *gin.Context) {
	var req contentdomain.TattooRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	tattoo, err := s.contentSvc.UpdateTattoo(c.Request.Context(), c.Param("id"), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": tattoo})
}

func (s *Server) DeleteTattoo(c *gin.Context) {
	if err := s.contentSvc.DeleteTattoo(c.Request.Context(), c.Param("id")); err != nil {
		AbortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"data": gin.H{"deleted": true}})
}

// publishedOnly defaults to true so the public site never sees drafts;
// admin callers pass published=false to list everything.
func publishedOnly(c *gin.Context) bool {
	raw := strings.TrimSpace(c.Query("published"))
	if raw == "" {
		return true
	}
	parsed, err := parseOptionalBool(raw)
	if err != nil || parsed == nil {
		return true
	}
	return *parsed
}
