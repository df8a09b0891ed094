package routes

import (
	"github.com/gin-gonic/gin"
	productcontroller "github.com/jnineawiwii/maquillaje-mac/controllers/product"
	"gorm.io/gorm"
)

// SetupCatalogRoutes registers the public browsing endpoints.
func SetupCatalogRoutes(r *gin.Engine, db *gorm.DB) {
	r.GET("/products", productcontroller.GetProducts(db))
	r.GET("/products/:id", productcontroller.GetProductByID(db))
	r.GET("/featured", productcontroller.GetFeatured(db))
}
