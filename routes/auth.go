package routes

import (
	"github.com/gin-gonic/gin"
	authControllers "github.com/jnineawiwii/maquillaje-mac/controllers/auth"
	"gorm.io/gorm"
)

// SetupAuthRoutes registers all "/auth/*" endpoints.
func SetupAuthRoutes(r *gin.Engine, db *gorm.DB) {
	authGroup := r.Group("/auth")
	{
		authGroup.POST("/register", authControllers.RegisterHandler(db))
		authGroup.POST("/login", authControllers.LoginHandler(db))
	}
}
