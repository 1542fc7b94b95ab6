package server

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	paymentdomain "github.com/trackwise/billing/internal/payment/domain"
)

func (s *Server) SubmitManualPayment(c *gin.Context) {
	var req paymentdomain.ConfirmManualRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		AbortWithError(c, invalidRequestError())
		return
	}
	if strings.TrimSpace(req.PaymentID) == "" {
		AbortWithError(c, newValidationError("paymentId", "missing_payment_id", "paymentId is required"))
		return
	}

	resp, err := s.paymentSvc.ConfirmManual(c.Request.Context(), req)
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusCreated, gin.H{"data": resp})
}

func (s *Server) RejectPayment(c *gin.Context) {
	id := strings.TrimSpace(c.Param("id"))
	if id == "" {
		AbortWithError(c, newValidationError("id", "invalid_id", "invalid id"))
		return
	}

	resp, err := s.paymentSvc.Reject(c.Request.Context(), paymentdomain.RejectRequest{PaymentID: id})
	if err != nil {
		AbortWithError(c, err)
		return
	}

	c.JSON(http.StatusOK, gin.H{"data": resp})
}
