package checkoutControllers

import (
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"
	cartControllers "github.com/jnineawiwii/maquillaje-mac/controllers/cart"
	orderControllers "github.com/jnineawiwii/maquillaje-mac/controllers/order"
	"github.com/jnineawiwii/maquillaje-mac/models"
	"gorm.io/gorm"
)

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

// GET /user/checkout
// Quotes the active cart with the same breakdown the gateway will see.
func QuoteHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}

		var lines []cartControllers.LineTotal
		var subtotal float64
		cart, err := cartControllers.ActiveCart(db, userID)
		if err == nil {
			lines, subtotal, err = cartControllers.ComputeTotals(db, cart)
			if err != nil {
				fail(c, err)
				return
			}
		} else if !errors.Is(err, models.ErrNoActiveCart) {
			fail(c, err)
			return
		}
		if lines == nil {
			lines = []cartControllers.LineTotal{}
		}

		b := ComputeBreakdown(subtotal)
		c.JSON(http.StatusOK, gin.H{
			"success":  true,
			"items":    lines,
			"subtotal": b.Subtotal,
			"tax":      b.Tax,
			"shipping": b.Shipping,
			"total":    b.Total,
			"currency": Currency,
		})
	}
}

// POST /user/checkout/paypal/order
func BeginPaymentHandler(db *gorm.DB, gw Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		intent, err := BeginPayment(db, gw, userID)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusCreated, gin.H{
			"success":          true,
			"intent_ref":       intent.ID,
			"gateway_order_id": intent.GatewayOrderID,
			"total":            intent.Total,
			"currency":         intent.Currency,
		})
	}
}

// POST /user/checkout/paypal/capture
func CapturePaymentHandler(db *gorm.DB, gw Gateway) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var input struct {
			IntentRef string `json:"intent_ref" binding:"required"`
		}
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid input: " + err.Error()})
			return
		}
		intent, err := CapturePayment(db, gw, userID, input.IntentRef)
		if err != nil {
			fail(c, err)
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"success":         true,
			"intent_ref":      intent.ID,
			"captured_amount": intent.CapturedAmount,
			"capture_id":      intent.CaptureID,
		})
	}
}

type confirmInput struct {
	IntentRef string `json:"intent_ref" binding:"required"`
	ShippingInfo
}

// POST /user/checkout/confirm
func ConfirmOrderHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var input confirmInput
		if err := c.ShouldBindJSON(&input); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid input: " + err.Error()})
			return
		}
		order, err := FinalizeOrder(db, userID, input.IntentRef, input.ShippingInfo)
		if err != nil {
			fail(c, err)
			return
		}
		orderControllers.Broadcast(*order)
		c.JSON(http.StatusCreated, gin.H{"success": true, "order": order})
	}
}

// POST /user/checkout/simulate
func SimulatePaymentHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		var shipping ShippingInfo
		if err := c.ShouldBindJSON(&shipping); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"success": false, "message": "invalid input: " + err.Error()})
			return
		}
		order, err := SimulatePayment(db, userID, shipping)
		if err != nil {
			fail(c, err)
			return
		}
		orderControllers.Broadcast(*order)
		c.JSON(http.StatusCreated, gin.H{"success": true, "order": order})
	}
}

// GET /user/checkout/confirmation/:intent_ref
func OrderConfirmationHandler(db *gorm.DB) gin.HandlerFunc {
	return func(c *gin.Context) {
		userID, ok := currentUserID(c)
		if !ok {
			return
		}
		intent, err := loadIntent(db, userID, c.Param("intent_ref"))
		if err != nil {
			fail(c, err)
			return
		}
		if intent.Status != models.IntentStatusFinalized || intent.OrderID == 0 {
			fail(c, models.ErrOrderNotFound)
			return
		}
		var order models.Order
		if err := db.Preload("Items").First(&order, intent.OrderID).Error; err != nil {
			fail(c, models.ErrOrderNotFound)
			return
		}
		c.JSON(http.StatusOK, gin.H{"success": true, "order": order, "currency": intent.Currency})
	}
}
