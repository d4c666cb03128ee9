package http

import (
	"fmt"
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Humphrey-He/vanya/internal/checkout"
	verrors "github.com/Humphrey-He/vanya/pkg/errors"
)

// placeOrderRequest carries either a full shipping form or the id of a
// saved address of the signed-in user.
type placeOrderRequest struct {
	Shipping      *checkout.ShippingInfo `json:"shippingInfo"`
	AddressID     string                 `json:"addressId"`
	PaymentMethod string                 `json:"paymentMethod" binding:"required"`
}

func (s *Server) quote(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"summary": s.checkout.Quote(),
		"rules":   s.checkout.Settings().Rules,
	})
}

func (s *Server) placeOrder(c *gin.Context) {
	var req placeOrderRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	method, err := checkout.ParsePaymentMethod(req.PaymentMethod)
	if err != nil {
		abortWithError(c, err)
		return
	}
	info, err := s.shippingInfo(req)
	if err != nil {
		abortWithError(c, err)
		return
	}

	order, err := s.checkout.PlaceOrder(c.Request.Context(), info, method)
	if err != nil && order.ID == "" {
		abortWithError(c, err)
		return
	}
	if err != nil {
		// The order went through; only clearing the persisted cart failed.
		s.logger.Warn("Order placed with persistence error", zap.String("order", order.ID), zap.Error(err))
	}
	c.JSON(http.StatusCreated, order)
}

func (s *Server) shippingInfo(req placeOrderRequest) (checkout.ShippingInfo, error) {
	if req.Shipping != nil {
		return *req.Shipping, nil
	}
	if req.AddressID == "" {
		return checkout.ShippingInfo{}, fmt.Errorf("%w: shippingInfo", verrors.ErrMissingShippingField)
	}

	u, ok := s.session.Auth.User()
	if !ok {
		return checkout.ShippingInfo{}, verrors.ErrNotAuthenticated
	}
	for _, a := range s.session.Auth.Addresses() {
		if a.ID == req.AddressID {
			return checkout.ShippingInfoFrom(u, a), nil
		}
	}
	return checkout.ShippingInfo{}, fmt.Errorf("%w: %s", verrors.ErrAddressNotFound, req.AddressID)
}
