//go:build e2e

package e2e

import (
	"bytes"
	"context"
	"encoding/json"
	"io"
	"net/http"
	"os"
	"strconv"
	"strings"
	"testing"
	"time"

	"github.com/shopspring/decimal"
)

// 起動済みのサーバー（BASE_URL）に対して叩く
type TestClient struct {
	BaseURL string
	HTTP    *http.Client
}

func NewTestClient(t *testing.T) *TestClient {
	t.Helper()

	baseURL := os.Getenv("BASE_URL")
	if baseURL == "" {
		baseURL = "http://localhost:8080"
	}

	return &TestClient{
		BaseURL: strings.TrimRight(baseURL, "/"),
		HTTP:    &http.Client{Timeout: 10 * time.Second},
	}
}

type ErrorResponse struct {
	Message string `json:"message"`
}

type LoginRequest struct {
	Email    string `json:"email"`
	Password string `json:"password"`
}

type LoginResponse struct {
	Token string `json:"token"`
}

type Product struct {
	ID          int64           `json:"id"`
	Name        string          `json:"name"`
	Price       decimal.Decimal `json:"price"`
	Image       string          `json:"image"`
	Description string          `json:"description"`
}

type CartLine struct {
	ProductID int64 `json:"productId"`
	Quantity  int64 `json:"quantity"`
}

type OrderCreateRequest struct {
	ClientName    string     `json:"clientName"`
	ClientSurname string     `json:"clientSurname"`
	Address       string     `json:"address"`
	PostalCode    string     `json:"postalCode"`
	City          string     `json:"city"`
	Phone         string     `json:"phone"`
	Items         []CartLine `json:"items"`
	TotalPrice    float64    `json:"totalPrice"`
}

type OrderItem struct {
	ID              int64           `json:"id"`
	OrderID         int64           `json:"orderId"`
	ProductID       int64           `json:"productId"`
	Quantity        int64           `json:"quantity"`
	PriceAtPurchase decimal.Decimal `json:"priceAtPurchase"`
	Product         *Product        `json:"product"`
}

type Order struct {
	ID         int64           `json:"id"`
	ClientName string          `json:"clientName"`
	TotalPrice decimal.Decimal `json:"totalPrice"`
	Status     string          `json:"status"`
	CreatedAt  string          `json:"createdAt"`
	Items      []OrderItem     `json:"items"`
}

func (c *TestClient) doJSON(
	ctx context.Context,
	t *testing.T,
	method string,
	path string,
	bearer string,
	body any,
) (*http.Response, []byte) {
	t.Helper()

	var reqBody io.Reader
	if body != nil {
		b, err := json.Marshal(body)
		if err != nil {
			t.Fatalf("json.Marshal failed: %v", err)
		}
		reqBody = bytes.NewReader(b)
	}

	req, err := http.NewRequestWithContext(ctx, method, c.BaseURL+path, reqBody)
	if err != nil {
		t.Fatalf("http.NewRequest failed: %v", err)
	}

	if body != nil {
		req.Header.Set("Content-Type", "application/json")
	}
	if bearer != "" {
		req.Header.Set("Authorization", "Bearer "+bearer)
	}

	resp, err := c.HTTP.Do(req)
	if err != nil {
		t.Fatalf("HTTP.Do failed: %v", err)
	}

	defer func() { _ = resp.Body.Close() }()
	data, err := io.ReadAll(resp.Body)
	if err != nil {
		t.Fatalf("ReadAll failed: %v", err)
	}

	return resp, data
}

func requireStatus(t *testing.T, resp *http.Response, want int, body []byte) {
	t.Helper()
	if resp.StatusCode != want {
		t.Fatalf("status=%d want=%d body=%s", resp.StatusCode, want, string(body))
	}
}

func mustDecode[T any](t *testing.T, body []byte) T {
	t.Helper()
	var v T
	if err := json.Unmarshal(body, &v); err != nil {
		t.Fatalf("json.Unmarshal(%T) failed: %v body=%s", v, err, string(body))
	}
	return v
}

func toStr(v int64) string {
	return strconv.FormatInt(v, 10)
}

func envOr(key, def string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return def
}

func adminLogin(t *testing.T, c *TestClient, ctx context.Context) string {
	t.Helper()

	//seedされた管理者でログイン
	req := LoginRequest{
		Email:    envOr("ADMIN_EMAIL", "admin@frippyfroppy.com"),
		Password: envOr("ADMIN_PASSWORD", "Admin123"),
	}
	resp, body := c.doJSON(ctx, t, http.MethodPost, "/api/auth/login", "", req)
	requireStatus(t, resp, http.StatusOK, body)

	login := mustDecode[LoginResponse](t, body)
	if strings.TrimSpace(login.Token) == "" {
		t.Fatalf("token is empty: body=%s", string(body))
	}
	return login.Token
}

// テスト専用の商品を作る
func createProduct(t *testing.T, c *TestClient, ctx context.Context, token string, name string, price string) Product {
	t.Helper()

	req := map[string]any{
		"name":        name,
		"price":       decimal.RequireFromString(price),
		"image":       "https://example.com/" + name + ".jpg",
		"description": "e2e",
	}
	resp, body := c.doJSON(ctx, t, http.MethodPost, "/api/products", token, req)
	requireStatus(t, resp, http.StatusCreated, body)

	p := mustDecode[Product](t, body)
	if p.ID <= 0 {
		t.Fatalf("invalid product id: body=%s", string(body))
	}
	return p
}

func newOrderRequest(items []CartLine) OrderCreateRequest {
	return OrderCreateRequest{
		ClientName:    "Amira",
		ClientSurname: "E2E",
		Address:       "12 Rue de Marseille",
		PostalCode:    "1000",
		City:          "Tunis",
		Phone:         "+216 20 000 000",
		Items:         items,
	}
}
