package cartControllers

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gin-gonic/gin"
	"github.com/jnineawiwii/maquillaje-mac/models"
	"gorm.io/gorm"
)

type cartItemInput struct {
	ProductID uint `json:"product_id" binding:"required"`
	Quantity  int  `json:"quantity" binding:"required"`
}

func currentUserID(c *gin.Context) (uint, bool) {
	val, exists := c.Get("user_id")
	if !exists {
		c.JSON(http.StatusUnauthorized, gin.H{
			"success":  false,
			"message":  "login required",
			"redirect": "/auth/login",
		})
		return 0, false
	}
	return val.(uint), true
}

func fail(c *gin.Context, err error) {
	status := http.StatusInternalServerError
	var ve *models.ValidationError
	var ge *models.GatewayError
	switch {
	case errors.Is(err, models.ErrProductNotFound),
		errors.Is(err, models.ErrItemNotFound),
		errors.Is(err, models.ErrOrderNotFound):
		status = http.StatusNotFound
	case errors.Is(err, models.ErrNoActiveCart),
		errors.Is(err, models.ErrInsufficientStock):
		status = http.StatusConflict
	case errors.Is(err, models.ErrEmptyCart),
		errors.Is(err, models.ErrInvalidReference),
		errors.As(err, &ve):
		status = http.StatusBadRequest
	case errors.As(err, &ge):
		status = http.StatusBadGateway
	}
	c.JSON(status, gin.H{"success": false, "message": err.Error()})
}

// GET /user/cart
func GetCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		cart, err := ActiveCart(db, userID)
		if errors.Is(err, models.ErrNoActiveCart) {
			c.JSON(http.StatusOK, gin.H{"success": true, "items": []LineTotal{}, "total": 0.0})
			return
		}
		if err != nil {
			fail(c, err)
			return
		}
		lines, total, err := ComputeTotals(db, cart)
		if err != nil {
			fail(c, err)
			return
		}
		if lines == nil {
			lines = []LineTotal{}
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "items": lines, "total": total})
	}
}

// POST /user/cart/items
func AddItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var input cartItemInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid input: " + err.Error()})
			return
		}
		item, err := AddItem(db, userID, input.ProductID, input.Quantity)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{"success": true, "message": "product added to cart", "item": item})
	}
}

// PUT /user/cart/items
func UpdateItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var input struct {
			ProductID uint `json:"product_id" binding:"required"`
			Quantity  int  `json:"quantity"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid input: " + err.Error()})
			return
		}
		if err := UpdateQuantity(db, userID, input.ProductID, input.Quantity); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "quantity updated"})
	}
}

// DELETE /user/cart/items/:product_id
func RemoveItemHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		productID, err := strconv.ParseUint(c.Param("product_id"), 10, 64)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid product id"})
			return
		}
		total, count, err := RemoveItem(db, userID, uint(productID))
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":    true,
			"message":    "product removed from cart",
			"total":      total,
			"item_count": count,
		})
	}
}

// DELETE /user/cart
func ClearCartHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		if err := ClearCart(db, userID); err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "message": "cart cleared"})
	}
}
