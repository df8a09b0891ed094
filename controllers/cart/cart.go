package cartControllers

import (
	"errors"
	"math"
	"time"

	"github.com/jnineawiwii/maquillaje-mac/models"
	"gorm.io/gorm"
)

// LineTotal pairs a cart line with its price at the moment of the read.
type LineTotal struct {
	Product  models.Product `json:"product"`
	Quantity int            `json:"quantity"`
	Total    float64        `json:"total"`
}

func round2(v float64) float64 {
	return math.Round(v*100) / 100
}

// GetOrCreateActiveCart returns the user's active cart, creating one on the
// first add-to-cart. The partial unique index on carts(user_id) WHERE
// is_active makes concurrent creates collide; the loser re-reads the
// winner's row.
func GetOrCreateActiveCart(db *gorm.DB, userID uint) (*models.Cart, error) {
	var cart models.Cart
	err := db.Where("user_id = ? AND is_active = ?", userID, true).First(&cart).Error
	if err == nil {
		return &cart, nil
	}
	if !errors.Is(err, gorm.ErrRecordNotFound) {
		return nil, models.OperationFailed(err)
	}

	cart = models.Cart{UserID: userID, IsActive: true, CreatedAt: time.Now()}
	if createErr := db.Create(&cart).Error; createErr != nil {
		var existing models.Cart
		if findErr := db.Where("user_id = ? AND is_active = ?", userID, true).
			First(&existing).Error; findErr == nil {
			return &existing, nil
		}
		return nil, models.OperationFailed(createErr)
	}
	return &cart, nil
}

// ActiveCart returns the user's active cart or ErrNoActiveCart.
func ActiveCart(db *gorm.DB, userID uint) (*models.Cart, error) {
	var cart models.Cart
	if err := db.Where("user_id = ? AND is_active = ?", userID, true).
		First(&cart).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNoActiveCart
		}
		return nil, models.OperationFailed(err)
	}
	return &cart, nil
}

// AddItem puts quantity units of a product into the user's active cart,
// merging with an existing line for the same product.
func AddItem(db *gorm.DB, userID, productID uint, quantity int) (*models.CartItem, error) {
	if quantity < 1 {
		return nil, &models.ValidationError{Msg: "quantity must be at least 1"}
	}

	var product models.Product
	if err := db.First(&product, productID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrProductNotFound
		}
		return nil, models.OperationFailed(err)
	}

	cart, err := GetOrCreateActiveCart(db, userID)
	if err != nil {
		return nil, err
	}

	var item models.CartItem
	err = db.Transaction(func(tx *gorm.DB) error {
		findErr := tx.Where("cart_id = ? AND product_id = ?", cart.ID, productID).
			First(&item).Error
		if errors.Is(findErr, gorm.ErrRecordNotFound) {
			item = models.CartItem{
				CartID:    cart.ID,
				ProductID: productID,
				Quantity:  quantity,
				AddedAt:   time.Now(),
			}
			return tx.Create(&item).Error
		}
		if findErr != nil {
			return findErr
		}
		item.Quantity += quantity
		return tx.Save(&item).Error
	})
	if err != nil {
		return nil, models.OperationFailed(err)
	}
	return &item, nil
}

// UpdateQuantity sets a line's quantity; zero or below removes the line.
func UpdateQuantity(db *gorm.DB, userID, productID uint, quantity int) error {
	cart, err := ActiveCart(db, userID)
	if err != nil {
		return err
	}

	return models.OperationFailed(db.Transaction(func(tx *gorm.DB) error {
		var item models.CartItem
		if err := tx.Where("cart_id = ? AND product_id = ?", cart.ID, productID).
			First(&item).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrItemNotFound
			}
			return err
		}
		if quantity <= 0 {
			return tx.Delete(&item).Error
		}
		item.Quantity = quantity
		return tx.Save(&item).Error
	}))
}

// RemoveItem deletes a line and returns the cart's recomputed grand total
// and remaining line count so the client can refresh its display.
func RemoveItem(db *gorm.DB, userID, productID uint) (float64, int, error) {
	cart, err := ActiveCart(db, userID)
	if err != nil {
		return 0, 0, err
	}

	result := db.Where("cart_id = ? AND product_id = ?", cart.ID, productID).
		Delete(&models.CartItem{})
	if result.Error != nil {
		return 0, 0, models.OperationFailed(result.Error)
	}
	if result.RowsAffected == 0 {
		return 0, 0, models.ErrItemNotFound
	}

	lines, total, err := ComputeTotals(db, cart)
	if err != nil {
		return 0, 0, err
	}
	return total, len(lines), nil
}

// ClearCart drops every line from the user's active cart.
func ClearCart(db *gorm.DB, userID uint) error {
	cart, err := ActiveCart(db, userID)
	if err != nil {
		return err
	}
	if err := db.Where("cart_id = ?", cart.ID).Delete(&models.CartItem{}).Error; err != nil {
		return models.OperationFailed(err)
	}
	return nil
}

// ComputeTotals prices every line at the product's current price and sums
// them. Totals are never stored on the cart; every read recomputes.
func ComputeTotals(db *gorm.DB, cart *models.Cart) ([]LineTotal, float64, error) {
	var items []models.CartItem
	if err := db.Where("cart_id = ?", cart.ID).Order("added_at").
		Find(&items).Error; err != nil {
		return nil, 0, models.OperationFailed(err)
	}
	if len(items) == 0 {
		return nil, 0, nil
	}

	ids := make([]uint, 0, len(items))
	for _, it := range items {
		ids = append(ids, it.ProductID)
	}
	var products []models.Product
	if err := db.Where("id IN ?", ids).Find(&products).Error; err != nil {
		return nil, 0, models.OperationFailed(err)
	}
	byID := make(map[uint]models.Product, len(products))
	for _, p := range products {
		byID[p.ID] = p
	}

	var lines []LineTotal
	var total float64
	for _, it := range items {
		p, ok := byID[it.ProductID]
		if !ok {
			return nil, 0, models.ErrProductNotFound
		}
		lineTotal := round2(p.Price * float64(it.Quantity))
		total += lineTotal
		lines = append(lines, LineTotal{Product: p, Quantity: it.Quantity, Total: lineTotal})
	}
	return lines, round2(total), nil
}
