package routes

import (
	"github.com/gin-gonic/gin"
	authControllers "github.com/jnineawiwii/maquillaje-mac/controllers/auth"
	cartControllers "github.com/jnineawiwii/maquillaje-mac/controllers/cart"
	checkoutControllers "github.com/jnineawiwii/maquillaje-mac/controllers/checkout"
	orderControllers "github.com/jnineawiwii/maquillaje-mac/controllers/order"
	"github.com/jnineawiwii/maquillaje-mac/middleware"
	"gorm.io/gorm"
)

// SetupUserRoutes registers all "/user/*" endpoints. Requires JWT middleware.
func SetupUserRoutes(r *gin.Engine, db *gorm.DB, gw checkoutControllers.Gateway) {
	userGroup := r.Group("/user")
	userGroup.Use(middleware.ValidateToken)
	{
		userGroup.GET("/", authControllers.ProfileHandler(db))

		// ──────────────── Shopping Cart ────────────────
		cartGroup := userGroup.Group("/cart")
		{
			cartGroup.GET("/", cartControllers.GetCartHandler(db))
			cartGroup.POST("/items", cartControllers.AddItemHandler(db))
			cartGroup.PUT("/items", cartControllers.UpdateItemHandler(db))
			cartGroup.DELETE("/items/:product_id", cartControllers.RemoveItemHandler(db))
			cartGroup.DELETE("/", cartControllers.ClearCartHandler(db))
		}

		// ──────────────── Checkout ────────────────
		checkoutGroup := userGroup.Group("/checkout")
		{
			checkoutGroup.GET("/", checkoutControllers.QuoteHandler(db))
			checkoutGroup.POST("/paypal/order", checkoutControllers.BeginPaymentHandler(db, gw))
			checkoutGroup.POST("/paypal/capture", checkoutControllers.CapturePaymentHandler(db, gw))
			checkoutGroup.POST("/confirm", checkoutControllers.ConfirmOrderHandler(db))
			checkoutGroup.POST("/simulate", checkoutControllers.SimulatePaymentHandler(db))
			checkoutGroup.GET("/confirmation/:intent_ref", checkoutControllers.OrderConfirmationHandler(db))
		}

		// ──────────────── Order History ────────────────
		userGroup.GET("/orders", orderControllers.GetUserOrdersHandler(db))
		userGroup.GET("/orders/:orderID", orderControllers.GetOrderByIDHandler(db))
	}
}
