package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	subscriptiondomain "github.com/trackwise/billing/internal/subscription/domain"
)

func (s *Server) ActivatePlan(c *gin.Context) {
	var req subscriptiondomain.ActivateRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if strings.TrimSpace(req.PaymentID) == "" {
		AbortWithError(c, newValidationError("paymentId", "missing_payment_id", "paymentId is required"))
		return
	}
	if strings.TrimSpace(req.NewPlanID) == "" {
		AbortWithError(c, newValidationError("newPlanId", "missing_new_plan_id", "newPlanId is required"))
		return
	}

	resp, err := s.subscriptionSvc.Activate(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}

func (s *Server) MySubscription(c *gin.Context) {
	resp, err := s.subscriptionSvc.Me(c.Request.Context())
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
