package paypal

import (
	"encoding/json"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/jnineawiwii/maquillaje-mac/models"
)

// Amounts is the price breakdown sent to the gateway. It must match the
// locally computed breakdown to the cent or the captured funds diverge from
// the recorded order.
type Amounts struct {
	Subtotal float64
	Tax      float64
	Shipping float64
	Total    float64
}

type CaptureResult struct {
	Status    string
	CaptureID string
	Amount    float64
}

type Client struct {
	baseURL      string
	clientID     string
	clientSecret string
	returnURL    string
	cancelURL    string
	http         *http.Client
}

// NewClientFromEnv builds a client against the live or sandbox endpoint
// depending on PAYPAL_MODE. PAYPAL_BASE_URL overrides both for tests.
func NewClientFromEnv() *Client {
	base := "https://api-m.sandbox.paypal.com"
	if os.Getenv("PAYPAL_MODE") == "live" {
		base = "https://api-m.paypal.com"
	}
	if override := os.Getenv("PAYPAL_BASE_URL"); override != "" {
		base = override
	}
	return &Client{
		baseURL:      base,
		clientID:     os.Getenv("PAYPAL_CLIENT_ID"),
		clientSecret: os.Getenv("PAYPAL_CLIENT_SECRET"),
		returnURL:    os.Getenv("PAYPAL_RETURN_URL"),
		cancelURL:    os.Getenv("PAYPAL_CANCEL_URL"),
		http:         &http.Client{Timeout: 20 * time.Second},
	}
}

type money struct {
	CurrencyCode string `json:"currency_code"`
	Value        string `json:"value"`
}

func moneyValue(currency string, v float64) money {
	return money{CurrencyCode: currency, Value: fmt.Sprintf("%.2f", v)}
}

type amountBreakdown struct {
	ItemTotal money `json:"item_total"`
	TaxTotal  money `json:"tax_total"`
	Shipping  money `json:"shipping"`
}

type purchaseAmount struct {
	CurrencyCode string          `json:"currency_code"`
	Value        string          `json:"value"`
	Breakdown    amountBreakdown `json:"breakdown"`
}

type purchaseUnit struct {
	Amount      purchaseAmount `json:"amount"`
	Description string         `json:"description"`
}

type applicationContext struct {
	ReturnURL string `json:"return_url"`
	CancelURL string `json:"cancel_url"`
	Locale    string `json:"locale"`
}

type orderRequest struct {
	Intent             string             `json:"intent"`
	PurchaseUnits      []purchaseUnit     `json:"purchase_units"`
	ApplicationContext applicationContext `json:"application_context"`
}

type orderResponse struct {
	ID     string `json:"id"`
	Status string `json:"status"`
}

type captureResponse struct {
	ID            string `json:"id"`
	Status        string `json:"status"`
	PurchaseUnits []struct {
		Payments struct {
			Captures []struct {
				ID     string `json:"id"`
				Status string `json:"status"`
				Amount money  `json:"amount"`
			} `json:"captures"`
		} `json:"payments"`
	} `json:"purchase_units"`
}

// Authenticate exchanges the client credentials for a short-lived access
// token. Each gateway call reacquires one; tokens are never cached.
func (c *Client) Authenticate() (string, error) {
	form := url.Values{"grant_type": {"client_credentials"}}
	req, err := http.NewRequest(http.MethodPost, c.baseURL+"/v1/oauth2/token",
		strings.NewReader(form.Encode()))
	if err != nil {
		return "", err
	}
	req.SetBasicAuth(c.clientID, c.clientSecret)
	req.Header.Set("Content-Type", "application/x-www-form-urlencoded")

	resp, err := c.http.Do(req)
	if err != nil {
		return "", &models.GatewayError{Message: "failed to reach gateway: " + err.Error()}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != http.StatusOK {
		return "", &models.GatewayError{Status: resp.StatusCode, Message: string(body)}
	}

	var tok struct {
		AccessToken string `json:"access_token"`
	}
	if err := json.Unmarshal(body, &tok); err != nil {
		return "", &models.GatewayError{Message: "failed to parse token response: " + err.Error()}
	}
	return tok.AccessToken, nil
}

// CreateOrder registers a CAPTURE-intent order carrying the broken-out
// amounts and returns the gateway's order id.
func (c *Client) CreateOrder(a Amounts, currency, description string) (string, error) {
	token, err := c.Authenticate()
	if err != nil {
		return "", err
	}

	payload := orderRequest{
		Intent: "CAPTURE",
		PurchaseUnits: []purchaseUnit{{
			Amount: purchaseAmount{
				CurrencyCode: currency,
				Value:        fmt.Sprintf("%.2f", a.Total),
				Breakdown: amountBreakdown{
					ItemTotal: moneyValue(currency, a.Subtotal),
					TaxTotal:  moneyValue(currency, a.Tax),
					Shipping:  moneyValue(currency, a.Shipping),
				},
			},
			Description: description,
		}},
		ApplicationContext: applicationContext{
			ReturnURL: c.returnURL,
			CancelURL: c.cancelURL,
			Locale:    "es-MX",
		},
	}

	var created orderResponse
	if err := c.post("/v2/checkout/orders", token, payload, http.StatusCreated, &created); err != nil {
		return "", err
	}
	if created.ID == "" {
		return "", &models.GatewayError{Message: "gateway returned empty order id"}
	}
	return created.ID, nil
}

// CaptureOrder captures funds previously authorized under orderID.
func (c *Client) CaptureOrder(orderID string) (CaptureResult, error) {
	if orderID == "" {
		return CaptureResult{}, models.ErrInvalidReference
	}
	token, err := c.Authenticate()
	if err != nil {
		return CaptureResult{}, err
	}

	var captured captureResponse
	path := "/v2/checkout/orders/" + orderID + "/capture"
	if err := c.post(path, token, nil, http.StatusCreated, &captured); err != nil {
		return CaptureResult{}, err
	}

	if len(captured.PurchaseUnits) == 0 ||
		len(captured.PurchaseUnits[0].Payments.Captures) == 0 {
		return CaptureResult{}, &models.GatewayError{Message: "capture response carried no capture"}
	}
	capture := captured.PurchaseUnits[0].Payments.Captures[0]
	amount, err := strconv.ParseFloat(capture.Amount.Value, 64)
	if err != nil {
		return CaptureResult{}, &models.GatewayError{Message: "unparseable capture amount: " + capture.Amount.Value}
	}
	return CaptureResult{Status: captured.Status, CaptureID: capture.ID, Amount: amount}, nil
}

func (c *Client) post(path, token string, payload interface{}, wantStatus int, out interface{}) error {
	var reader io.Reader
	if payload != nil {
		data, err := json.Marshal(payload)
		if err != nil {
			return err
		}
		reader = strings.NewReader(string(data))
	}

	req, err := http.NewRequest(http.MethodPost, c.baseURL+path, reader)
	if err != nil {
		return err
	}
	req.Header.Set("Content-Type", "application/json")
	req.Header.Set("Authorization", "Bearer "+token)

	resp, err := c.http.Do(req)
	if err != nil {
		return &models.GatewayError{Message: "failed to reach gateway: " + err.Error()}
	}
	defer resp.Body.Close()

	body, _ := io.ReadAll(resp.Body)
	if resp.StatusCode != wantStatus {
		return &models.GatewayError{Status: resp.StatusCode, Message: string(body)}
	}
	if err := json.Unmarshal(body, out); err != nil {
		return &models.GatewayError{Message: "failed to parse gateway response: " + err.Error()}
	}
	return nil
}
