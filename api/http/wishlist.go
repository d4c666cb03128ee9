package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
)

type wishlistRequest struct {
	ProductID string `json:"productId" binding:"required"`
}

func (s *Server) wishlistView() gin.H {
	items := s.session.Wishlist.Items()
	return gin.H{"items": viewsOf(items), "count": len(items)}
}

func (s *Server) getWishlist(c *gin.Context) {
	c.JSON(http.StatusOK, s.wishlistView())
}

func (s *Server) addToWishlist(c *gin.Context) {
	var req wishlistRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	p, err := s.session.Catalog.Find(req.ProductID)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if err := s.session.Wishlist.AddItem(c.Request.Context(), p); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, s.wishlistView())
}

func (s *Server) removeFromWishlist(c *gin.Context) {
	if err := s.session.Wishlist.RemoveItem(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, s.wishlistView())
}

func (s *Server) toggleWishlist(c *gin.Context) {
	p, err := s.session.Catalog.Find(c.Param("id"))
	if err != nil {
		abortWithError(c, err)
		return
	}
	in, err := s.session.Wishlist.Toggle(c.Request.Context(), p)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"productId": p.ID, "inWishlist": in})
}

func (s *Server) clearWishlist(c *gin.Context) {
	if err := s.session.Wishlist.Clear(c.Request.Context()); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}
