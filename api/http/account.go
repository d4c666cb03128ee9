package http

import (
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/Humphrey-He/vanya/pkg/auth"
)

type loginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

// login answers 401 when either credential is blank, mirroring the
// boolean result of the store.
func (s *Server) login(c *gin.Context) {
	var req loginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	ok, err := s.session.Auth.Login(c.Request.Context(), req.Email, req.Password)
	if err != nil {
		abortWithError(c, err)
		return
	}
	if !ok {
		c.AbortWithStatusJSON(http.StatusUnauthorized, gin.H{"error": "email and password are required"})
		return
	}
	s.metrics.RecordLogin()
	s.me(c)
}

func (s *Server) signup(c *gin.Context) {
	var req auth.Registration
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	if _, err := s.session.Auth.Signup(c.Request.Context(), req); err != nil {
		abortWithError(c, err)
		return
	}
	s.metrics.RecordSignup()
	u, _ := s.session.Auth.User()
	c.JSON(http.StatusCreated, gin.H{"user": u})
}

func (s *Server) logout(c *gin.Context) {
	if err := s.session.Auth.Logout(c.Request.Context()); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) me(c *gin.Context) {
	u, _ := s.session.Auth.User()
	c.JSON(http.StatusOK, gin.H{"user": u, "fullName": u.FullName()})
}

func (s *Server) listAddresses(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{"addresses": s.session.Auth.Addresses()})
}

func (s *Server) addAddress(c *gin.Context) {
	var req auth.Address
	if err := c.ShouldBindJSON(&req); err != nil {
		badRequest(c, err)
		return
	}
	addr, err := s.session.Auth.AddAddress(c.Request.Context(), req)
	if err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusCreated, addr)
}

func (s *Server) removeAddress(c *gin.Context) {
	if err := s.session.Auth.RemoveAddress(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.Status(http.StatusNoContent)
}

func (s *Server) setDefaultAddress(c *gin.Context) {
	if err := s.session.Auth.SetDefaultAddress(c.Request.Context(), c.Param("id")); err != nil {
		abortWithError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"addresses": s.session.Auth.Addresses()})
}
