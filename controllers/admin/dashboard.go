package adminController

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"github.com/jnineawiwii/maquillaje-mac/models"
	"gorm.io/gorm"
)

// GET /admin/dashboard
func DashboardStats(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var productCount, userCount, orderCount, videoCount, ventaCount int64
		db.Model(&models.Product{}).Count(&productCount)
		db.Model(&models.User{}).Count(&userCount)
		db.Model(&models.Order{}).Count(&orderCount)
		db.Model(&models.Video{}).Count(&videoCount)
		db.Model(&models.Venta{}).Count(&ventaCount)

		c.JSON(http.StatusOK, gin.H{
			"success": true,
			"stats": gin.H{
				"product_count": productCount,
				"user_count":    userCount,
				"order_count":   orderCount,
				"video_count":   videoCount,
				"venta_count":   ventaCount,
			},
		})
	}
}
