// Package http exposes the storefront session over a JSON API built on gin.
// Every endpoint maps onto one store or checkout operation.
//
// Package http 通过基于gin的JSON API暴露店面会话。
// 每个端点对应一个存储或结账操作。
package http

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"

	"github.com/Humphrey-He/vanya/internal/checkout"
	"github.com/Humphrey-He/vanya/internal/metrics"
	"github.com/Humphrey-He/vanya/internal/session"
)

// Server holds the handlers' dependencies.
//
// Server 保存处理程序的依赖。
type Server struct {
	session  *session.Session
	checkout *checkout.Service
	metrics  *metrics.Metrics
	exporter *metrics.PrometheusExporter
	logger   *zap.Logger
}

// NewServer creates a Server. m and logger may be nil.
//
// NewServer 创建一个Server。m和logger可以为nil。
func NewServer(sess *session.Session, co *checkout.Service, m *metrics.Metrics, logger *zap.Logger) *Server {
	if logger == nil {
		logger = zap.NewNop()
	}
	if m == nil {
		m = metrics.New(&metrics.Config{Level: metrics.Disabled})
	}
	return &Server{
		session:  sess,
		checkout: co,
		metrics:  m,
		exporter: metrics.NewPrometheusExporter(m, "vanya"),
		logger:   logger,
	}
}

// Router builds the gin engine with every route registered.
//
// Router 构建注册了所有路由的gin引擎。
func (s *Server) Router() *gin.Engine {
	r := gin.New()
	r.Use(Recovery(s.logger), RequestLogger(s.logger))

	r.GET("/healthz", func(c *gin.Context) { c.JSON(http.StatusOK, gin.H{"status": "ok"}) })
	r.GET("/stats", s.stats)
	r.GET("/metrics", gin.WrapH(s.exporter))

	r.GET("/products", s.listProducts)
	r.GET("/products/:id", s.getProduct)
	r.GET("/catalog/facets", s.facets)

	cart := r.Group("/cart")
	cart.GET("", s.getCart)
	cart.POST("", s.addToCart)
	cart.DELETE("", s.clearCart)
	cart.PATCH("/items/:productId", s.updateCartItem)
	cart.DELETE("/items/:productId", s.removeCartItem)

	wishlist := r.Group("/wishlist")
	wishlist.GET("", s.getWishlist)
	wishlist.POST("", s.addToWishlist)
	wishlist.DELETE("", s.clearWishlist)
	wishlist.DELETE("/:id", s.removeFromWishlist)
	wishlist.POST("/:id/toggle", s.toggleWishlist)

	account := r.Group("/auth")
	account.POST("/login", s.login)
	account.POST("/signup", s.signup)
	account.POST("/logout", s.logout)
	account.GET("/me", RequireAuth(s.session.Auth), s.me)

	addresses := r.Group("/addresses", RequireAuth(s.session.Auth))
	addresses.GET("", s.listAddresses)
	addresses.POST("", s.addAddress)
	addresses.DELETE("/:id", s.removeAddress)
	addresses.POST("/:id/default", s.setDefaultAddress)

	r.GET("/checkout/quote", s.quote)
	r.POST("/checkout", s.placeOrder)

	return r
}

// stats reports the counters together with the live store sizes.
func (s *Server) stats(c *gin.Context) {
	c.JSON(http.StatusOK, gin.H{
		"metrics": s.metrics.GetSnapshot(),
		"cart": gin.H{
			"lines":      s.session.Cart.Len(),
			"totalItems": s.session.Cart.TotalItems(),
			"totalPrice": s.session.Cart.TotalPrice(),
		},
		"wishlist":        s.session.Wishlist.Len(),
		"isAuthenticated": s.session.Auth.IsAuthenticated(),
		"slots":           s.session.Slots(),
	})
}
