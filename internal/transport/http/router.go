package httpserver

import (
	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/hahacafe/coffee-shop/internal/handlers"
	"github.com/hahacafe/coffee-shop/internal/handlers/cart"
	"github.com/hahacafe/coffee-shop/internal/handlers/order"
	"github.com/hahacafe/coffee-shop/internal/jwtmiddleware"
)

type Deps struct {
	DB             *gorm.DB
	JWTSecret      []byte
	AuthHandler    *handlers.AuthHandler
	ProductHandler *handlers.ProductHandler
	SearchHandler  *handlers.SearchHandler
	CartHandler    *cart.CartHandler
	OrderHandler   *order.OrderHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.Validator = NewValidator()

	e.GET("/health/live", func(c echo.Context) error { return c.NoContent(200) })
	e.GET("/health/ready", func(c echo.Context) error { return c.NoContent(200) })

	api := e.Group("/api")
	authed := jwtmiddleware.JWTMiddleware(d.JWTSecret)

	auth := api.Group("/auth")
	auth.POST("/register", d.AuthHandler.Register)
	auth.POST("/login", d.AuthHandler.Login)
	auth.POST("/request-reset-otp", d.AuthHandler.RequestResetOTP)
	auth.POST("/verify-reset-otp", d.AuthHandler.VerifyResetOTP)
	auth.POST("/reset-password", d.AuthHandler.ResetPassword)
	auth.GET("/profile", d.AuthHandler.GetProfile, authed)
	auth.PUT("/profile", d.AuthHandler.UpdateProfile, authed)

	products := api.Group("/products")
	products.GET("", d.ProductHandler.GetProducts)
	products.GET("/categories", d.ProductHandler.GetCategories)
	products.GET("/category/:id", d.ProductHandler.GetProductsByCategory)
	products.GET("/:id", d.ProductHandler.GetProduct)

	api.GET("/search", d.SearchHandler.Search)

	cartGroup := api.Group("/cart", authed)
	cartGroup.GET("", d.CartHandler.GetCart)
	cartGroup.POST("", d.CartHandler.AddToCart)
	cartGroup.PUT("/:id", d.CartHandler.UpdateCartItem)
	cartGroup.DELETE("/clear/all", d.CartHandler.ClearCart)
	cartGroup.DELETE("/:id", d.CartHandler.RemoveCartItem)

	orders := api.Group("/orders", authed)
	orders.POST("", d.OrderHandler.CreateOrder)
	orders.GET("", d.OrderHandler.GetOrderHistory)
	orders.PUT("/:orderId/status", d.OrderHandler.UpdateOrderStatus)
	orders.PUT("/:orderId/confirm-transfer", d.OrderHandler.ConfirmUserTransfer)
}
