package checkoutControllers

import (
	"errors"
	"fmt"
	"math"
	"math/rand"
	"time"

	"github.com/google/uuid"
	cartControllers "github.com/jnineawiwii/maquillaje-mac/controllers/cart"
	"github.com/jnineawiwii/maquillaje-mac/controllers/paypal"
	"github.com/jnineawiwii/maquillaje-mac/models"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	// TaxRate is the Mexican IVA applied to every quote.
	TaxRate = 0.16
	// ShippingFlat is charged on any non-empty order, in MXN.
	ShippingFlat = 5.00
	Currency     = "MXN"

	orderDescription = "Compra en Tienda de Maquillaje"
)

// Gateway is the slice of the payment processor checkout depends on.
// *paypal.Client satisfies it; tests substitute a fake.
type Gateway interface {
	CreateOrder(a paypal.Amounts, currency, description string) (string, error)
	CaptureOrder(orderID string) (paypal.CaptureResult, error)
}

type Breakdown struct {
	Subtotal float64 `json:"subtotal"`
	Tax      float64 `json:"tax"`
	Shipping float64 `json:"shipping"`
	Total    float64 `json:"total"`
}

type ShippingInfo struct {
	FullName string `json:"full_name"`
	Email    string `json:"email"`
	Phone    string `json:"phone"`
	Address  string `json:"address"`
	City     string `json:"city"`
	State    string `json:"state"`
	ZipCode  string `json:"zip_code"`
	Country  string `json:"country"`
}

func (s ShippingInfo) addressLine() string {
	return fmt.Sprintf("%s, %s, %s %s", s.Address, s.City, s.State, s.ZipCode)
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// ComputeBreakdown is the single source of truth for quoting a price. The
// same figures go to the client, to the gateway, and onto the finalized
// order; any divergence means captured funds differ from the recorded total.
func ComputeBreakdown(subtotal float64) Breakdown {
	b := Breakdown{Subtotal: round2(subtotal)}
	b.Tax = round2(b.Subtotal * TaxRate)
	if b.Subtotal > 0 {
		b.Shipping = ShippingFlat
	}
	b.Total = round2(b.Subtotal + b.Tax + b.Shipping)
	return b
}

// sqlite has no SELECT ... FOR UPDATE; its single-writer lock already
// serializes the test path.
func lockForUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "postgres" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

// BeginPayment quotes the active cart, registers the order with the gateway
// carrying the identical breakdown, and records a PaymentIntent the client
// will confirm by reference.
func BeginPayment(db *gorm.DB, gw Gateway, userID uint) (*models.PaymentIntent, error) {
	cart, err := cartControllers.ActiveCart(db, userID)
	if err != nil {
		if errors.Is(err, models.ErrNoActiveCart) {
			return nil, models.ErrEmptyCart
		}
		return nil, err
	}

	lines, subtotal, err := cartControllers.ComputeTotals(db, cart)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, models.ErrEmptyCart
	}

	b := ComputeBreakdown(subtotal)
	gatewayOrderID, err := gw.CreateOrder(paypal.Amounts{
		Subtotal: b.Subtotal,
		Tax:      b.Tax,
		Shipping: b.Shipping,
		Total:    b.Total,
	}, Currency, orderDescription)
	if err != nil {
		return nil, err
	}

	intent := models.PaymentIntent{
		ID:             uuid.NewString(),
		UserID:         userID,
		CartID:         cart.ID,
		Subtotal:       b.Subtotal,
		Tax:            b.Tax,
		Shipping:       b.Shipping,
		Total:          b.Total,
		Currency:       Currency,
		Status:         models.IntentStatusCreated,
		GatewayOrderID: gatewayOrderID,
		CreatedAt:      time.Now(),
	}
	if err := db.Create(&intent).Error; err != nil {
		return nil, models.OperationFailed(err)
	}
	return &intent, nil
}

// CapturePayment asks the gateway to capture the funds authorized under the
// intent and records the capture id and amount. Capturing an already
// captured intent returns the stored result unchanged.
func CapturePayment(db *gorm.DB, gw Gateway, userID uint, intentRef string) (*models.PaymentIntent, error) {
	intent, err := loadIntent(db, userID, intentRef)
	if err != nil {
		return nil, err
	}
	switch intent.Status {
	case models.IntentStatusCaptured:
		return intent, nil
	case models.IntentStatusFinalized:
		return nil, models.ErrInvalidReference
	}

	result, err := gw.CaptureOrder(intent.GatewayOrderID)
	if err != nil {
		return nil, err
	}

	intent.Status = models.IntentStatusCaptured
	intent.CaptureID = result.CaptureID
	intent.CapturedAmount = result.Amount
	if err := db.Save(intent).Error; err != nil {
		return nil, models.OperationFailed(err)
	}
	return intent, nil
}

// FinalizeOrder converts the captured intent's cart into an immutable order
// in one transaction: stock is checked and decremented under row locks, one
// OrderItem per line freezes the product's current unit price, a Venta row
// is logged per line, the cart goes inactive, the intent is consumed. A
// second confirm against the same intent fails with ErrNoActiveCart instead
// of minting a duplicate order.
func FinalizeOrder(db *gorm.DB, userID uint, intentRef string, shipping ShippingInfo) (*models.Order, error) {
	intent, err := loadIntent(db, userID, intentRef)
	if err != nil {
		return nil, err
	}
	if intent.Status == models.IntentStatusFinalized {
		return nil, models.ErrNoActiveCart
	}
	if intent.Status != models.IntentStatusCaptured {
		return nil, &models.ValidationError{Msg: "payment has not been captured"}
	}

	var order models.Order
	err = db.Transaction(func(tx *gorm.DB) error {
		var cart models.Cart
		if err := lockForUpdate(tx).
			Where("id = ? AND user_id = ? AND is_active = ?", intent.CartID, userID, true).
			First(&cart).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNoActiveCart
			}
			return err
		}

		var items []models.CartItem
		if err := tx.Where("cart_id = ?", cart.ID).Order("added_at").
			Find(&items).Error; err != nil {
			return err
		}
		if len(items) == 0 {
			return models.ErrEmptyCart
		}

		order = models.Order{
			UserID:          userID,
			Total:           intent.Total,
			Status:          models.OrderStatusCompleted,
			PaymentID:       intent.GatewayOrderID,
			PayerID:         intent.CaptureID,
			ShippingAddress: shipping.addressLine(),
			ShippingName:    shipping.FullName,
			CreatedAt:       time.Now(),
		}
		if err := tx.Create(&order).Error; err != nil {
			return err
		}

		for _, it := range items {
			var product models.Product
			if err := lockForUpdate(tx).First(&product, it.ProductID).Error; err != nil {
				if errors.Is(err, gorm.ErrRecordNotFound) {
					return models.ErrProductNotFound
				}
				return err
			}
			if product.Stock < it.Quantity {
				return fmt.Errorf("%w: %s", models.ErrInsufficientStock, product.Name)
			}
			product.Stock -= it.Quantity
			if err := tx.Save(&product).Error; err != nil {
				return err
			}

			orderItem := models.OrderItem{
				OrderID:   order.ID,
				ProductID: product.ID,
				Quantity:  it.Quantity,
				Price:     product.Price,
			}
			if err := tx.Create(&orderItem).Error; err != nil {
				return err
			}
			order.Items = append(order.Items, orderItem)

			venta := models.Venta{
				ProductID: product.ID,
				Quantity:  it.Quantity,
				UserID:    userID,
				Fecha:     time.Now(),
			}
			if err := tx.Create(&venta).Error; err != nil {
				return err
			}
		}

		cart.IsActive = false
		if err := tx.Save(&cart).Error; err != nil {
			return err
		}

		return tx.Model(&models.PaymentIntent{}).Where("id = ?", intent.ID).
			Updates(map[string]interface{}{
				"status":   models.IntentStatusFinalized,
				"order_id": order.ID,
			}).Error
	})
	if err != nil {
		return nil, models.OperationFailed(err)
	}
	return &order, nil
}

// SimulatePayment is the offline checkout: it fabricates payment references
// instead of calling the gateway, then runs the identical finalize sequence
// so simulated orders are indistinguishable in shape from gateway-backed
// ones.
func SimulatePayment(db *gorm.DB, userID uint, shipping ShippingInfo) (*models.Order, error) {
	cart, err := cartControllers.ActiveCart(db, userID)
	if err != nil {
		if errors.Is(err, models.ErrNoActiveCart) {
			return nil, models.ErrEmptyCart
		}
		return nil, err
	}
	lines, subtotal, err := cartControllers.ComputeTotals(db, cart)
	if err != nil {
		return nil, err
	}
	if len(lines) == 0 {
		return nil, models.ErrEmptyCart
	}

	b := ComputeBreakdown(subtotal)
	intent := models.PaymentIntent{
		ID:             uuid.NewString(),
		UserID:         userID,
		CartID:         cart.ID,
		Subtotal:       b.Subtotal,
		Tax:            b.Tax,
		Shipping:       b.Shipping,
		Total:          b.Total,
		Currency:       Currency,
		Status:         models.IntentStatusCaptured,
		GatewayOrderID: fmt.Sprintf("simulated_%06d", rand.Intn(900000)+100000),
		CaptureID:      fmt.Sprintf("simulated_%d", userID),
		CapturedAmount: b.Total,
		CreatedAt:      time.Now(),
	}
	if err := db.Create(&intent).Error; err != nil {
		return nil, models.OperationFailed(err)
	}

	return FinalizeOrder(db, userID, intent.ID, shipping)
}

func loadIntent(db *gorm.DB, userID uint, intentRef string) (*models.PaymentIntent, error) {
	if intentRef == "" {
		return nil, models.ErrInvalidReference
	}
	var intent models.PaymentIntent
	if err := db.Where("id = ? AND user_id = ?", intentRef, userID).
		First(&intent).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrInvalidReference
		}
		return nil, models.OperationFailed(err)
	}
	return &intent, nil
}
