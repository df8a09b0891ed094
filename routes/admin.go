package routes

import (
	"github.com/gin-gonic/gin"
	adminController "github.com/jnineawiwii/maquillaje-mac/controllers/admin"
	orderControllers "github.com/jnineawiwii/maquillaje-mac/controllers/order"
	"github.com/jnineawiwii/maquillaje-mac/middleware"
	"github.com/jnineawiwii/maquillaje-mac/models"
	"gorm.io/gorm"
)

// SetupAdminRoutes registers all "/admin/*" endpoints. Admin tier covers
// products, videos, orders, and the sales report; user management is
// reserved for the master admin.
func SetupAdminRoutes(r *gin.Engine, db *gorm.DB) {
	adminGroup := r.Group("/admin")
	adminGroup.Use(middleware.ValidateToken,
		middleware.RequireRole(models.RoleAdmin, models.RoleMasterAdmin))
	{
		adminGroup.GET("/dashboard", adminController.DashboardStats(db))

		// ─────────── Product Management ───────────
		productAdmin := adminGroup.Group("/products")
		{
			productAdmin.GET("", adminController.ListProducts(db))
			productAdmin.POST("", adminController.CreateProduct(db))
			productAdmin.PUT("/:id", adminController.UpdateProduct(db))
			productAdmin.DELETE("/:id", adminController.DeleteProduct(db))
		}

		// ─────────── Video Management ───────────
		videoAdmin := adminGroup.Group("/videos")
		{
			videoAdmin.GET("", adminController.ListVideos(db))
			videoAdmin.POST("", adminController.CreateVideo(db))
			videoAdmin.PUT("/:id", adminController.UpdateVideo(db))
			videoAdmin.DELETE("/:id", adminController.DeleteVideo(db))
		}

		// ─────────── Orders ───────────
		orderAdmin := adminGroup.Group("/orders")
		{
			orderAdmin.GET("", orderControllers.GetAllOrdersHandler(db))
			orderAdmin.GET("/ws", orderControllers.OrderFeedHandler)
			orderAdmin.PUT("/:orderID/status", orderControllers.UpdateOrderStatusHandler(db))
		}

		// ─────────── Sales Report ───────────
		adminGroup.GET("/ventas", adminController.ListVentas(db))
		adminGroup.GET("/ventas/export-excel", adminController.ExportVentasToExcel(db))
	}

	// ─────────── User Management (master admin only) ───────────
	masterGroup := r.Group("/admin/users")
	masterGroup.Use(middleware.ValidateToken, middleware.RequireRole(models.RoleMasterAdmin))
	{
		masterGroup.GET("", adminController.ListUsers(db))
		masterGroup.POST("", adminController.CreateUser(db))
		masterGroup.PUT("/:id", adminController.UpdateUser(db))
		masterGroup.DELETE("/:id", adminController.DeleteUser(db))
	}
}
