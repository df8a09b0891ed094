package productcontroller

import (
	"errors"
	"net/http"
	"strconv"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/jnineawiwii/maquillaje-mac/models"
	"gorm.io/gorm"
)

// GET /products?category=&q=
func GetProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		query := db.Model(&models.Product{})
		if category := c.Query("category"); category != "" {
			query = query.Where("category = ?", category)
		}
		if q := strings.TrimSpace(c.Query("q")); q != "" {
			pattern := "%" + strings.ToLower(q) + "%"
			query = query.Where(
				"LOWER(name) LIKE ? OR LOWER(description) LIKE ? OR LOWER(category) LIKE ?",
				pattern, pattern, pattern,
			)
		}

		var products []models.Product
		if err := query.Order("name").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch products"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "products": products, "count": len(products)})
	}
}

// GET /products/:id
func GetProductByID(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		id, err := strconv.Atoi(c.Param("id"))
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid product id"})
			return
		}

		var product models.Product
		if err := db.First(&product, id).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": models.ErrProductNotFound.Error()})
			} else {
				c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch product"})
			}
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
	}
}

// GET /featured
// Landing page payload: featured products plus the promotional videos.
func GetFeatured(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := db.Where("featured = ?", true).Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch featured products"})
			return
		}

		var featuredVideo models.Video
		var otherVideos []models.Video
		hasFeatured := db.Where("is_featured = ?", true).First(&featuredVideo).Error == nil
		db.Where("is_featured = ?", false).Find(&otherVideos)

		resp := gin.H{
			"success":  true,
			"products": products,
			"videos":   otherVideos,
		}
		if hasFeatured {
			resp["featured_video"] = featuredVideo
		}
		c.JSON(http.StatusOK, resp)
	}
}
