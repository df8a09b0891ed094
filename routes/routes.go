package routes

import (
	"github.com/gin-gonic/gin"
	checkoutControllers "github.com/jnineawiwii/maquillaje-mac/controllers/checkout"
	"gorm.io/gorm"
)

// SetupRoutes is the single entry-point that wires up the public, user, and
// admin route groups.
func SetupRoutes(r *gin.Engine, db *gorm.DB, gw checkoutControllers.Gateway) {
	// Public auth routes (no middleware)
	SetupAuthRoutes(r, db)

	// Public catalog browsing
	SetupCatalogRoutes(r, db)

	// User routes (JWT-protected): profile, cart, checkout, orders
	SetupUserRoutes(r, db, gw)

	// Admin routes (JWT + role-protected)
	SetupAdminRoutes(r, db)
}
