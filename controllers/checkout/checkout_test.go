package checkoutControllers

import (
	"errors"
	"fmt"
	"math"
	"strings"
	"testing"
	"time"

	"github.com/google/uuid"
	cartControllers "github.com/jnineawiwii/maquillaje-mac/controllers/cart"
	"github.com/jnineawiwii/maquillaje-mac/controllers/paypal"
	"github.com/jnineawiwii/maquillaje-mac/models"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

func newTestDB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := fmt.Sprintf("file:checkout_%s?mode=memory&cache=shared",
		strings.ReplaceAll(t.Name(), "/", "_"))
	db, err := gorm.Open(sqlite.Open(dsn), &gorm.Config{
		Logger: logger.Default.LogMode(logger.Silent),
	})
	if err != nil {
		t.Fatalf("failed to open test db: %v", err)
	}
	if err := db.AutoMigrate(
		&models.User{}, &models.Product{}, &models.Cart{}, &models.CartItem{},
		&models.Order{}, &models.OrderItem{}, &models.PaymentIntent{},
		&models.Venta{}, &models.Video{},
	); err != nil {
		t.Fatalf("failed to migrate test db: %v", err)
	}
	if err := models.MigrateCartIndexes(db); err != nil {
		t.Fatalf("failed to create cart indexes: %v", err)
	}
	return db
}

func seedProduct(t *testing.T, db *gorm.DB, name string, price float64, stock int) models.Product {
	t.Helper()
	p := models.Product{Name: name, Description: name, Price: price, Category: "rostro", Stock: stock}
	if err := db.Create(&p).Error; err != nil {
		t.Fatalf("failed to seed product: %v", err)
	}
	return p
}

func approx(a, b float64) bool {
	return math.Abs(a-b) < 1e-9
}

var testShipping = ShippingInfo{
	FullName: "Ana García",
	Email:    "ana@example.com",
	Address:  "Av. Reforma 123",
	City:     "CDMX",
	State:    "CDMX",
	ZipCode:  "06600",
	Country:  "MX",
}

type fakeGateway struct {
	lastAmounts paypal.Amounts
	createErr   error
	captureErr  error
	captured    []string
}

func (f *fakeGateway) CreateOrder(a paypal.Amounts, currency, description string) (string, error) {
	if f.createErr != nil {
		return "", f.createErr
	}
	f.lastAmounts = a
	return "GW-ORDER-1", nil
}

func (f *fakeGateway) CaptureOrder(orderID string) (paypal.CaptureResult, error) {
	if f.captureErr != nil {
		return paypal.CaptureResult{}, f.captureErr
	}
	f.captured = append(f.captured, orderID)
	return paypal.CaptureResult{Status: "COMPLETED", CaptureID: "CAP-" + orderID, Amount: f.lastAmounts.Total}, nil
}

func TestComputeBreakdownEmpty(t *testing.T) {
	b := ComputeBreakdown(0)
	if !approx(b.Subtotal, 0) || !approx(b.Tax, 0) || !approx(b.Shipping, 0) || !approx(b.Total, 0) {
		t.Errorf("breakdown of 0 = %+v, want all zeros", b)
	}
}

func TestComputeBreakdownHundred(t *testing.T) {
	b := ComputeBreakdown(100.00)
	if !approx(b.Tax, 16.00) {
		t.Errorf("tax = %v, want 16.00", b.Tax)
	}
	if !approx(b.Shipping, 5.00) {
		t.Errorf("shipping = %v, want 5.00", b.Shipping)
	}
	if !approx(b.Total, 121.00) {
		t.Errorf("total = %v, want 121.00", b.Total)
	}
}

func TestSimulatePaymentEndToEnd(t *testing.T) {
	db := newTestDB(t)
	a := seedProduct(t, db, "Labial", 25.00, 50)
	b := seedProduct(t, db, "Sombra", 45.00, 25)

	if _, err := cartControllers.AddItem(db, 1, a.ID, 2); err != nil {
		t.Fatalf("add a: %v", err)
	}
	if _, err := cartControllers.AddItem(db, 1, b.ID, 1); err != nil {
		t.Fatalf("add b: %v", err)
	}

	order, err := SimulatePayment(db, 1, testShipping)
	if err != nil {
		t.Fatalf("simulate payment: %v", err)
	}
	if !approx(order.Total, 115.20) {
		t.Errorf("order total = %v, want 115.20", order.Total)
	}
	if order.Status != models.OrderStatusCompleted {
		t.Errorf("order status = %q, want completed", order.Status)
	}
	if !strings.HasPrefix(order.PaymentID, "simulated_") {
		t.Errorf("payment id = %q, want simulated_ prefix", order.PaymentID)
	}
	if order.ShippingName != "Ana García" {
		t.Errorf("shipping name = %q", order.ShippingName)
	}

	var items []models.OrderItem
	if err := db.Where("order_id = ?", order.ID).Order("id").Find(&items).Error; err != nil {
		t.Fatalf("load order items: %v", err)
	}
	if len(items) != 2 {
		t.Fatalf("order items = %d, want 2", len(items))
	}
	if !approx(items[0].Price, 25.00) || !approx(items[1].Price, 45.00) {
		t.Errorf("snapshot prices = %v, %v; want 25.00, 45.00", items[0].Price, items[1].Price)
	}

	var cart models.Cart
	if err := db.First(&cart).Error; err != nil {
		t.Fatalf("load cart: %v", err)
	}
	if cart.IsActive {
		t.Error("source cart is still active after finalize")
	}

	// Stock was reserved inside the same transaction.
	var reloadedA, reloadedB models.Product
	db.First(&reloadedA, a.ID)
	db.First(&reloadedB, b.ID)
	if reloadedA.Stock != 48 || reloadedB.Stock != 24 {
		t.Errorf("stock = %d, %d; want 48, 24", reloadedA.Stock, reloadedB.Stock)
	}

	var ventaCount int64
	db.Model(&models.Venta{}).Count(&ventaCount)
	if ventaCount != 2 {
		t.Errorf("venta rows = %d, want 2", ventaCount)
	}
}

func TestOrderPriceSnapshotImmuneToCatalogChanges(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Labial", 25.00, 50)

	if _, err := cartControllers.AddItem(db, 1, p.ID, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	order, err := SimulatePayment(db, 1, testShipping)
	if err != nil {
		t.Fatalf("simulate payment: %v", err)
	}

	if err := db.Model(&models.Product{}).Where("id = ?", p.ID).
		Update("price", 99.00).Error; err != nil {
		t.Fatalf("price update: %v", err)
	}

	var item models.OrderItem
	if err := db.Where("order_id = ?", order.ID).First(&item).Error; err != nil {
		t.Fatalf("load order item: %v", err)
	}
	if !approx(item.Price, 25.00) {
		t.Errorf("snapshot price = %v after catalog change, want 25.00", item.Price)
	}
}

func TestFinalizeOrderIsIdempotent(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Labial", 25.00, 50)

	if _, err := cartControllers.AddItem(db, 1, p.ID, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	if _, err := SimulatePayment(db, 1, testShipping); err != nil {
		t.Fatalf("simulate payment: %v", err)
	}

	// A second confirm against the consumed intent must not mint a
	// duplicate order.
	var intent models.PaymentIntent
	if err := db.First(&intent).Error; err != nil {
		t.Fatalf("load intent: %v", err)
	}
	if _, err := FinalizeOrder(db, 1, intent.ID, testShipping); !errors.Is(err, models.ErrNoActiveCart) {
		t.Errorf("err = %v, want ErrNoActiveCart", err)
	}

	var orderCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	if orderCount != 1 {
		t.Errorf("orders = %d, want 1", orderCount)
	}
}

func capturedIntent(t *testing.T, db *gorm.DB, userID uint, total float64) models.PaymentIntent {
	t.Helper()
	cart, err := cartControllers.ActiveCart(db, userID)
	if err != nil {
		t.Fatalf("active cart: %v", err)
	}
	b := ComputeBreakdown(total)
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
		GatewayOrderID: "GW-ORDER-1",
		CaptureID:      "CAP-GW-ORDER-1",
		CapturedAmount: b.Total,
		CreatedAt:      time.Now(),
	}
	if err := db.Create(&intent).Error; err != nil {
		t.Fatalf("create intent: %v", err)
	}
	return intent
}

func TestFinalizeOrderIsAtomic(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Labial", 25.00, 50)

	if _, err := cartControllers.AddItem(db, 1, p.ID, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	intent := capturedIntent(t, db, 1, 50.00)

	err := db.Callback().Create().Before("gorm:create").
		Register("inject_order_item_failure", func(tx *gorm.DB) {
			if tx.Statement.Table == "order_items" {
				tx.AddError(errors.New("injected failure"))
			}
		})
	if err != nil {
		t.Fatalf("register callback: %v", err)
	}

	if _, err := FinalizeOrder(db, 1, intent.ID, testShipping); err == nil {
		t.Fatal("finalize succeeded despite injected failure")
	}

	var orderCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	if orderCount != 0 {
		t.Errorf("orders = %d after rollback, want 0", orderCount)
	}

	var cart models.Cart
	if err := db.First(&cart).Error; err != nil {
		t.Fatalf("load cart: %v", err)
	}
	if !cart.IsActive {
		t.Error("cart was deactivated despite rollback")
	}

	var reloaded models.Product
	db.First(&reloaded, p.ID)
	if reloaded.Stock != 50 {
		t.Errorf("stock = %d after rollback, want 50", reloaded.Stock)
	}
}

func TestFinalizeOrderInsufficientStock(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Labial", 25.00, 1)

	if _, err := cartControllers.AddItem(db, 1, p.ID, 2); err != nil {
		t.Fatalf("add: %v", err)
	}
	intent := capturedIntent(t, db, 1, 50.00)

	if _, err := FinalizeOrder(db, 1, intent.ID, testShipping); !errors.Is(err, models.ErrInsufficientStock) {
		t.Errorf("err = %v, want ErrInsufficientStock", err)
	}

	var orderCount int64
	db.Model(&models.Order{}).Count(&orderCount)
	if orderCount != 0 {
		t.Errorf("orders = %d, want 0", orderCount)
	}
	var reloaded models.Product
	db.First(&reloaded, p.ID)
	if reloaded.Stock != 1 {
		t.Errorf("stock = %d, want 1", reloaded.Stock)
	}
}

func TestFinalizeOrderRequiresCapturedIntent(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Labial", 25.00, 50)

	if _, err := cartControllers.AddItem(db, 1, p.ID, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	gw := &fakeGateway{}
	intent, err := BeginPayment(db, gw, 1)
	if err != nil {
		t.Fatalf("begin payment: %v", err)
	}

	var ve *models.ValidationError
	if _, err := FinalizeOrder(db, 1, intent.ID, testShipping); !errors.As(err, &ve) {
		t.Errorf("err = %v, want ValidationError (payment not captured)", err)
	}
}

func TestBeginPaymentEmptyCart(t *testing.T) {
	db := newTestDB(t)
	gw := &fakeGateway{}

	if _, err := BeginPayment(db, gw, 1); !errors.Is(err, models.ErrEmptyCart) {
		t.Errorf("err = %v, want ErrEmptyCart", err)
	}
}

func TestBeginPaymentSendsMatchingBreakdown(t *testing.T) {
	db := newTestDB(t)
	a := seedProduct(t, db, "Labial", 25.00, 50)
	b := seedProduct(t, db, "Sombra", 45.00, 25)

	if _, err := cartControllers.AddItem(db, 1, a.ID, 2); err != nil {
		t.Fatalf("add a: %v", err)
	}
	if _, err := cartControllers.AddItem(db, 1, b.ID, 1); err != nil {
		t.Fatalf("add b: %v", err)
	}

	gw := &fakeGateway{}
	intent, err := BeginPayment(db, gw, 1)
	if err != nil {
		t.Fatalf("begin payment: %v", err)
	}

	// The gateway must see exactly what the intent records.
	if !approx(gw.lastAmounts.Subtotal, 95.00) || !approx(gw.lastAmounts.Tax, 15.20) ||
		!approx(gw.lastAmounts.Shipping, 5.00) || !approx(gw.lastAmounts.Total, 115.20) {
		t.Errorf("gateway amounts = %+v, want 95.00/15.20/5.00/115.20", gw.lastAmounts)
	}
	if !approx(intent.Total, 115.20) {
		t.Errorf("intent total = %v, want 115.20", intent.Total)
	}
	if intent.GatewayOrderID != "GW-ORDER-1" {
		t.Errorf("gateway order id = %q", intent.GatewayOrderID)
	}
	if intent.Status != models.IntentStatusCreated {
		t.Errorf("intent status = %q, want created", intent.Status)
	}
}

func TestCapturePayment(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Labial", 25.00, 50)

	if _, err := cartControllers.AddItem(db, 1, p.ID, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	gw := &fakeGateway{}
	intent, err := BeginPayment(db, gw, 1)
	if err != nil {
		t.Fatalf("begin payment: %v", err)
	}

	captured, err := CapturePayment(db, gw, 1, intent.ID)
	if err != nil {
		t.Fatalf("capture: %v", err)
	}
	if captured.Status != models.IntentStatusCaptured {
		t.Errorf("status = %q, want captured", captured.Status)
	}
	if captured.CaptureID != "CAP-GW-ORDER-1" {
		t.Errorf("capture id = %q", captured.CaptureID)
	}
	if !approx(captured.CapturedAmount, captured.Total) {
		t.Errorf("captured amount = %v, want %v", captured.CapturedAmount, captured.Total)
	}

	// Capturing again returns the stored result without a second gateway
	// round-trip.
	again, err := CapturePayment(db, gw, 1, intent.ID)
	if err != nil {
		t.Fatalf("second capture: %v", err)
	}
	if len(gw.captured) != 1 {
		t.Errorf("gateway captures = %d, want 1", len(gw.captured))
	}
	if again.CaptureID != captured.CaptureID {
		t.Errorf("second capture id = %q, want %q", again.CaptureID, captured.CaptureID)
	}
}

func TestCapturePaymentInvalidReference(t *testing.T) {
	db := newTestDB(t)
	gw := &fakeGateway{}

	if _, err := CapturePayment(db, gw, 1, ""); !errors.Is(err, models.ErrInvalidReference) {
		t.Errorf("empty ref err = %v, want ErrInvalidReference", err)
	}
	if _, err := CapturePayment(db, gw, 1, "not-a-real-intent"); !errors.Is(err, models.ErrInvalidReference) {
		t.Errorf("unknown ref err = %v, want ErrInvalidReference", err)
	}
}

func TestCapturePaymentGatewayRejection(t *testing.T) {
	db := newTestDB(t)
	p := seedProduct(t, db, "Labial", 25.00, 50)

	if _, err := cartControllers.AddItem(db, 1, p.ID, 1); err != nil {
		t.Fatalf("add: %v", err)
	}
	gw := &fakeGateway{}
	intent, err := BeginPayment(db, gw, 1)
	if err != nil {
		t.Fatalf("begin payment: %v", err)
	}

	gw.captureErr = &models.GatewayError{Status: 422, Message: "INSTRUMENT_DECLINED"}
	var ge *models.GatewayError
	if _, err := CapturePayment(db, gw, 1, intent.ID); !errors.As(err, &ge) {
		t.Fatalf("err = %v, want GatewayError", err)
	}
	if !strings.Contains(ge.Message, "INSTRUMENT_DECLINED") {
		t.Errorf("gateway message %q lost the provider reason", ge.Message)
	}

	// A rejected capture leaves the intent confirmable later.
	var reloaded models.PaymentIntent
	if err := db.First(&reloaded, "id = ?", intent.ID).Error; err != nil {
		t.Fatalf("reload intent: %v", err)
	}
	if reloaded.Status != models.IntentStatusCreated {
		t.Errorf("intent status = %q after rejected capture, want created", reloaded.Status)
	}
}
