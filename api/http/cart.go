package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Humphrey-He/vanya/pkg/cart"
)

type addToCartRequest struct {
	ProductID string `json:"productId" binding:"required"`
	Quantity  int    `json:"quantity"`
	Size      string `json:"size" binding:"required"`
	Color     string `json:"color" binding:"required"`
}

type updateQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// lineQuery selects a cart line next to its product id path parameter.
type lineQuery struct {
	Size  string `form:"size" binding:"required"`
	Color string `form:"color" binding:"required"`
}

func (s *Server) cartView() gin.H {
	return gin.H{
		"items":   s.session.Cart.Items(),
		"summary": s.checkout.Quote(),
	}
}

func (s *Server) getCart(c *gin.Context) {
	c.JSON(http.StatusOK, s.cartView())
}

// addToCart merges a line into the cart. Quantity defaults to one.
func (s *Server) addToCart(c *gin.Context) {
	var req addToCartRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if req.Quantity == 0 {
		req.Quantity = 1
	}

	p, err := s.session.Catalog.Find(req.ProductID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	item := cart.LineItem{Product: p, Quantity: req.Quantity, Size: req.Size, Color: req.Color}
	if err := s.session.Cart.AddItem(c.Request.Context(), item); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s.cartView())
}

func (s *Server) updateCartItem(c *gin.Context) {
	var line lineQuery
	if err := c.ShouldBindQuery(&line); err != nil {
		badRequest(c, err)
		return
	}
	var req updateQuantityRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}

	err := s.session.Cart.UpdateQuantity(c.Request.Context(), c.Param("productId"), line.Size, line.Color, req.Quantity)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.cartView())
}

func (s *Server) removeCartItem(c *gin.Context) {
	var line lineQuery
	if err := c.ShouldBindQuery(&line); err != nil {
		badRequest(c, err)
		return
	}
	if err := s.session.Cart.RemoveItem(c.Request.Context(), c.Param("productId"), line.Size, line.Color); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.cartView())
}

func (s *Server) clearCart(c *gin.Context) {
	if err := s.session.Cart.Clear(c.Request.Context()); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
