package adminController

import (
	"errors"
	"fmt"
	"net/http"
	"os"
	"path/filepath"
	"strconv"
	"strings"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/jnineawiwii/maquillaje-mac/models"
	"gorm.io/gorm"
)

var allowedImageExts = map[string]bool{
	".png": true, ".jpg": true, ".jpeg": true, ".gif": true, ".webp": true,
}

func uploadDir() string {
	if dir := os.Getenv("UPLOAD_DIR"); dir != "" {
		return dir
	}
	return "static/uploads"
}

// saveUpload writes the file under dir with a timestamp prefix and returns
// the public URL path.
func saveUpload(c *gin.Context, field, dir, urlPrefix string, allowed map[string]bool) (string, error) {
	file, err := c.FormFile(field)
	if err != nil {
		return "", err
	}
	ext := strings.ToLower(filepath.Ext(file.Filename))
	if !allowed[ext] {
		return "", fmt.Errorf("file type %s not allowed", ext)
	}
	if err := os.MkdirAll(dir, 0755); err != nil {
		return "", err
	}
	name := strings.ReplaceAll(file.Filename, " ", "_")
	unique := time.Now().Format("20060102_150405") + "_" + name
	if err := c.SaveUploadedFile(file, filepath.Join(dir, unique)); err != nil {
		return "", err
	}
	return urlPrefix + "/" + unique, nil
}

func parseProductForm(c *gin.Context, product *models.Product) error {
	if name := c.PostForm("name"); name != "" {
		product.Name = name
	}
	if desc := c.PostForm("description"); desc != "" {
		product.Description = desc
	}
	if category := c.PostForm("category"); category != "" {
		product.Category = category
	}
	if priceStr := c.PostForm("price"); priceStr != "" {
		price, err := strconv.ParseFloat(priceStr, 64)
		if err != nil || price < 0 {
			return &models.ValidationError{Msg: "price must be a non-negative number"}
		}
		product.Price = price
	}
	if stockStr := c.PostForm("stock"); stockStr != "" {
		stock, err := strconv.Atoi(stockStr)
		if err != nil || stock < 0 {
			return &models.ValidationError{Msg: "stock must be a non-negative integer"}
		}
		product.Stock = stock
	}
	if featuredStr, ok := c.GetPostForm("featured"); ok {
		product.Featured = featuredStr == "true" || featuredStr == "1" || featuredStr == "on"
	}
	return nil
}

// GET /admin/products
func ListProducts(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var products []models.Product
		if err := db.Order("id").Find(&products).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch products"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "products": products})
	}
}

// POST /admin/products
func CreateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		if c.PostForm("name") == "" || c.PostForm("description") == "" ||
			c.PostForm("price") == "" || c.PostForm("category") == "" {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "name, description, price, and category are required"})
			return
		}

		var product models.Product
		if err := parseProductForm(c, &product); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}

		if _, err := c.FormFile("image"); err == nil {
			url, err := saveUpload(c, "image", filepath.Join(uploadDir(), "products"), "/uploads/products", allowedImageExts)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "failed to save image: " + err.Error()})
				return
			}
			product.ImageURL = url
		}

		if err := db.Create(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to create product"})
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "product": product})
	}
}

// PUT /admin/products/:id
func UpdateProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		var product models.Product
		if err := db.First(&product, c.Param("id")).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				c.JSON(http.StatusNotFound, gin.H{"success": false, "message": models.ErrProductNotFound.Error()})
				return
			}
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to fetch product"})
			return
		}

		if err := parseProductForm(c, &product); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": err.Error()})
			return
		}
		if _, err := c.FormFile("image"); err == nil {
			url, err := saveUpload(c, "image", filepath.Join(uploadDir(), "products"), "/uploads/products", allowedImageExts)
			if err != nil {
				c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "failed to save image: " + err.Error()})
				return
			}
			product.ImageURL = url
		}

		if err := db.Save(&product).Error; err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to update product"})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "product": product})
	}
}

// DELETE /admin/products/:id
func DeleteProduct(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		result := db.Delete(&models.Product{}, c.Param("id"))
		if result.Error != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"success": false, "message": "failed to delete product"})
			return
		}
		if result.RowsAffected == 0 {
			c.JSON(http.StatusNotFound, gin.H{"success": false, "message": models.ErrProductNotFound.Error()})
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "product deleted"})
	}
}
