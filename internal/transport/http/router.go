package http

import (
	"net/http"

	"github.com/labstack/echo/v4"
	"gorm.io/gorm"

	"github.com/electrohub/backend/internal/handlers"
	"github.com/electrohub/backend/internal/handlers/cart"
	"github.com/electrohub/backend/internal/service/token"
)

// Deps carries the wired handlers into route registration.
type Deps struct {
	DB           *gorm.DB
	TokenService *token.TokenService
	Auth         *handlers.AuthHandler
	Product      *handlers.ProductHandler
	Cart         *cart.CartHandler
	Order        *handlers.OrderHandler
	Admin        *handlers.AdminHandler
	Search       *handlers.SearchHandler
	Support      *handlers.SupportHandler
}

func Register(e *echo.Echo, d *Deps) {
	e.GET("/health/live", func(c echo.Context) error {
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})
	e.GET("/health/ready", func(c echo.Context) error {
		sqlDB, err := d.DB.DB()
		if err != nil || sqlDB.PingContext(c.Request().Context()) != nil {
			return c.JSON(http.StatusServiceUnavailable, echo.Map{"status": "degraded"})
		}
		return c.JSON(http.StatusOK, echo.Map{"status": "ok"})
	})

	v1 := e.Group("/api/v1")

	auth := v1.Group("/auth")
	auth.POST("/register", d.Auth.Register)
	auth.POST("/login", d.Auth.Login)
	auth.POST("/logout", d.Auth.LogOut)
	auth.POST("/verify-email", d.Auth.VerifyEmail)
	auth.POST("/resend-verification", d.Auth.ResendVerification)
	auth.GET("/me", d.Auth.Me, d.TokenService.AutoRefreshMiddleware)
	auth.PATCH("/me", d.Auth.UpdateMe, d.TokenService.AutoRefreshMiddleware)

	v1.GET("/categories", d.Product.GetCategories)
	v1.GET("/products", d.Product.GetProducts)
	v1.GET("/products/:id", d.Product.GetProduct)
	v1.GET("/products/:id/image", d.Product.GetProductImage)
	v1.GET("/search", d.Search.Search)

	support := v1.Group("/support")
	support.POST("/contact", d.Support.Contact)
	support.GET("/faq", d.Support.FAQ)
	support.GET("/shipping-info", d.Support.ShippingInfo)
	support.GET("/return-policy", d.Support.ReturnPolicy)
	support.GET("/tickets", d.Support.Tickets, d.TokenService.AutoRefreshMiddleware)

	ct := v1.Group("/cart", d.TokenService.AutoRefreshMiddleware)
	ct.GET("", d.Cart.GetCart)
	ct.GET("/total", d.Cart.CartTotal)
	ct.POST("/items", d.Cart.AddToCart)
	ct.PATCH("/items/:id", d.Cart.UpdateItem)
	ct.DELETE("/items/:id", d.Cart.DeleteItem)
	ct.DELETE("", d.Cart.ClearCart)

	orders := v1.Group("/orders", d.TokenService.AutoRefreshMiddleware)
	orders.POST("", d.Order.Create)
	orders.GET("", d.Order.List)
	orders.GET("/:id", d.Order.Get)
	orders.POST("/:id/cancel", d.Order.Cancel)

	admin := v1.Group("/admin", d.TokenService.AutoRefreshMiddlewareAdmin)
	admin.GET("/dashboard", d.Admin.Dashboard)
	admin.GET("/users", d.Admin.ListUsers)
	admin.POST("/users/:id/promote", d.Admin.PromoteUser)
	admin.POST("/users/:id/toggle-active", d.Admin.ToggleUserActive)
	admin.GET("/orders", d.Admin.ListOrders)
	admin.GET("/orders/:id", d.Admin.OrderDetails)
	admin.PATCH("/orders/:id/status", d.Admin.SetOrderStatus)
	admin.POST("/products", d.Product.CreateProduct)
	admin.PUT("/products/:id", d.Product.UpdateProduct)
	admin.POST("/products/:id/toggle-active", d.Product.ToggleProductActive)
	admin.DELETE("/products/:id", d.Product.DeleteProduct)
	admin.POST("/products/:id/image", d.Product.UploadProductImage)
	admin.POST("/categories", d.Product.CreateCategory)
	admin.PUT("/categories/:id", d.Product.UpdateCategory)
	admin.DELETE("/categories/:id", d.Product.DeleteCategory)
}
