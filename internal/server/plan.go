package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
)

func (s *Server) ListPlans(c *gin.Context) {
	plans, err := s.planSvc.List(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": plans})
}

func (s *Server) GetPlan(c *gin.Context) {
	idOrSlug := strings.TrimSpace(c.Param("idOrSlug"))
	if idOrSlug == "" {
		AbortWithError(c, newValidationError("idOrSlug", "invalid_id", "invalid id"))
		return
	}

	plan, err := s.planSvc.Get(c.Request.Context(), idOrSlug)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": plan})
}
