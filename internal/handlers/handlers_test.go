package handlers_test

import (
	"bytes"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"stockmaster/internal/auth"
	"stockmaster/internal/billing"
	"stockmaster/internal/database"
	"stockmaster/internal/export"
	"stockmaster/internal/handlers"
	"stockmaster/internal/inventory"
	"stockmaster/internal/pos"
	"stockmaster/internal/reports"
	"stockmaster/internal/routes"
	"stockmaster/internal/users"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"gorm.io/gorm/logger"
)

func TestMain(m *testing.M) {
	gin.SetMode(gin.TestMode)
	decimal.MarshalJSONWithoutQuotes = true
	os.Exit(m.Run())
}

type server struct {
	t      *testing.T
	router *gin.Engine
	issuer *auth.Issuer
	token  string
}

func newServer(t *testing.T) *server {
	t.Helper()
	db, err := database.OpenMemory(logger.Silent)
	require.NoError(t, err)

	cred, err := auth.NewCredential("admin@example.com", "admin123", "Admin User", "Admin")
	require.NoError(t, err)

	ledger := inventory.NewLedger(db)
	invoices := billing.NewStore(db)
	issuer := auth.NewIssuer("test-secret", time.Hour)
	h := &handlers.Handlers{
		Ledger:     ledger,
		Carts:      pos.NewRegistry(ledger),
		Checkout:   pos.NewCheckout(ledger, invoices, pos.WithTerminal("POS-TEST")),
		Invoices:   invoices,
		Users:      users.NewDirectory(db),
		Reports:    reports.NewService(db),
		Issuer:     issuer,
		Credential: cred,
		System:     handlers.SystemInfo{TerminalID: "POS-TEST", Database: "sqlite"},
	}

	s := &server{t: t, router: routes.SetupRouter(h, routes.Options{}), issuer: issuer}
	s.token = s.login()
	return s
}

func (s *server) login() string {
	w := s.do(http.MethodPost, "/login", map[string]string{"email": "admin@example.com", "password": "admin123"}, "")
	require.Equal(s.t, http.StatusOK, w.Code, w.Body.String())
	var body struct {
		Token string `json:"token"`
	}
	require.NoError(s.t, json.Unmarshal(w.Body.Bytes(), &body))
	return body.Token
}

func (s *server) tokenFor(subject, name, role string) string {
	token, _, err := s.issuer.GenerateToken(subject, name, role)
	require.NoError(s.t, err)
	return token
}

func (s *server) do(method, path string, body any, token string) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		require.NoError(s.t, json.NewEncoder(&buf).Encode(body))
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	if token != "" {
		req.Header.Set("Authorization", "Bearer "+token)
	}
	w := httptest.NewRecorder()
	s.router.ServeHTTP(w, req)
	return w
}

func (s *server) api(method, path string, body any) *httptest.ResponseRecorder {
	return s.do(method, path, body, s.token)
}

func decode[T any](t *testing.T, w *httptest.ResponseRecorder) T {
	t.Helper()
	var v T
	require.NoError(t, json.Unmarshal(w.Body.Bytes(), &v), w.Body.String())
	return v
}

func (s *server) createProduct(name string, qty int, weight, price float64) map[string]any {
	w := s.api(http.MethodPost, "/api/products", map[string]any{
		"inventoryName": "Main Store",
		"itemName":      name,
		"weightPerItem": weight,
		"quantity":      qty,
		"price":         price,
	})
	require.Equal(s.t, http.StatusCreated, w.Code, w.Body.String())
	return decode[map[string]any](s.t, w)
}

func TestHealth(t *testing.T) {
	s := newServer(t)
	w := s.do(http.MethodGet, "/health", nil, "")
	assert.Equal(t, http.StatusOK, w.Code)
	assert.JSONEq(t, `{"status":"online"}`, w.Body.String())
}

func TestLogin(t *testing.T) {
	s := newServer(t)

	tests := []struct {
		name string
		body any
		want int
	}{
		{"wrong password", map[string]string{"email": "admin@example.com", "password": "nope"}, http.StatusUnauthorized},
		{"wrong email", map[string]string{"email": "jane@example.com", "password": "admin123"}, http.StatusUnauthorized},
		{"missing password", map[string]string{"email": "admin@example.com"}, http.StatusBadRequest},
		{"ok", map[string]string{"email": "Admin@Example.com", "password": "admin123"}, http.StatusOK},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.do(http.MethodPost, "/login", tt.body, "")
			assert.Equal(t, tt.want, w.Code, w.Body.String())
		})
	}

	assert.Equal(t, http.StatusUnauthorized, s.do(http.MethodGet, "/api/products", nil, "").Code)
	assert.Equal(t, http.StatusOK, s.api(http.MethodGet, "/api/products", nil).Code)
}

func TestProductEndpoints(t *testing.T) {
	s := newServer(t)

	p := s.createProduct("Premium Coffee Beans", 5, 0.5, 25)
	id := p["id"].(string)
	assert.InDelta(t, 2.5, p["totalWeight"], 1e-9)
	assert.EqualValues(t, 25, p["price"])

	w := s.api(http.MethodGet, "/api/products/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)

	w = s.api(http.MethodPost, "/api/products/"+id+"/adjust", map[string]any{"type": "decrease", "amount": 8})
	assert.Equal(t, http.StatusConflict, w.Code)
	assert.Contains(t, w.Body.String(), "insufficient stock")

	w = s.api(http.MethodPost, "/api/products/"+id+"/adjust", map[string]any{"type": "sale", "amount": 1})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.api(http.MethodPost, "/api/products/"+id+"/adjust", map[string]any{"type": "increase", "amount": 3})
	require.Equal(t, http.StatusOK, w.Code)
	adjusted := decode[map[string]map[string]any](t, w)
	assert.EqualValues(t, 8, adjusted["product"]["quantity"])
	assert.EqualValues(t, 5, adjusted["history"]["previousQuantity"])
	assert.Equal(t, "Admin User", adjusted["history"]["updatedBy"])

	w = s.api(http.MethodPatch, "/api/products/"+id, map[string]any{
		"inventoryName": "Warehouse A", "itemName": "Coffee", "weightPerItem": 1, "quantity": 2, "price": "30.00",
	})
	require.Equal(t, http.StatusOK, w.Code, w.Body.String())
	assert.InDelta(t, 2.0, decode[map[string]any](t, w)["totalWeight"], 1e-9)

	w = s.api(http.MethodGet, "/api/products?q=warehouse", nil)
	assert.Len(t, decode[[]map[string]any](t, w), 1)

	w = s.api(http.MethodDelete, "/api/products/"+id, nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusNotFound, s.api(http.MethodGet, "/api/products/"+id, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.api(http.MethodDelete, "/api/products/"+id, nil).Code)

	w = s.api(http.MethodGet, "/api/history?productId="+id, nil)
	assert.Len(t, decode[[]map[string]any](t, w), 2, "history outlives the product")
}

func TestProductValidation(t *testing.T) {
	s := newServer(t)

	tests := []struct {
		name string
		body any
	}{
		{"missing name", map[string]any{"inventoryName": "Main Store", "quantity": 1}},
		{"negative quantity", map[string]any{"inventoryName": "Main Store", "itemName": "Tea", "quantity": -1}},
		{"wrong type", map[string]any{"inventoryName": "Main Store", "itemName": "Tea", "quantity": "many"}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			w := s.api(http.MethodPost, "/api/products", tt.body)
			assert.Equal(t, http.StatusBadRequest, w.Code, w.Body.String())
			assert.Contains(t, w.Body.String(), `"error"`)
		})
	}
}

func TestCartCheckoutFlow(t *testing.T) {
	s := newServer(t)
	id := s.createProduct("Coffee", 10, 0.5, 5)["id"].(string)

	w := s.api(http.MethodPost, "/api/cart/checkout", nil)
	assert.Equal(t, http.StatusConflict, w.Code)

	for i := 0; i < 3; i++ {
		w = s.api(http.MethodPost, "/api/cart/items", map[string]string{"productId": id})
		require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	}
	cart := decode[map[string]any](t, w)
	assert.Equal(t, "building", cart["state"])
	assert.EqualValues(t, 3, cart["totalQuantity"])
	assert.EqualValues(t, 15, cart["grandTotal"])

	w = s.api(http.MethodPatch, "/api/cart/items/"+id, map[string]int{"quantity": 11})
	assert.Equal(t, http.StatusConflict, w.Code)

	w = s.api(http.MethodPost, "/api/cart/checkout", map[string]string{"customerName": "Acme"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	inv := decode[map[string]any](t, w)
	assert.Equal(t, "INV-000001", inv["billNumber"])
	assert.Equal(t, "Acme", inv["customerName"])
	assert.EqualValues(t, 15, inv["grandTotal"])
	assert.InDelta(t, 1.5, inv["totalWeight"], 1e-9)
	assert.Equal(t, "POS-TEST", inv["terminalId"])

	w = s.api(http.MethodGet, "/api/cart", nil)
	assert.Equal(t, "empty", decode[map[string]any](t, w)["state"])

	w = s.api(http.MethodGet, "/api/products/"+id, nil)
	assert.EqualValues(t, 7, decode[map[string]any](t, w)["quantity"])

	w = s.api(http.MethodGet, "/api/history?actionType=sale", nil)
	sales := decode[[]map[string]any](t, w)
	require.Len(t, sales, 1)
	assert.EqualValues(t, 10, sales[0]["previousQuantity"])
	assert.EqualValues(t, 7, sales[0]["newQuantity"])

	w = s.api(http.MethodGet, "/api/invoices?q=acme", nil)
	assert.Len(t, decode[[]map[string]any](t, w), 1)
	w = s.api(http.MethodGet, "/api/invoices/"+inv["id"].(string), nil)
	assert.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, http.StatusNotFound, s.api(http.MethodGet, "/api/invoices/nope", nil).Code)
}

func TestCartsAreScopedToSession(t *testing.T) {
	s := newServer(t)
	id := s.createProduct("Coffee", 10, 0.5, 5)["id"].(string)
	other := s.tokenFor("jane@example.com", "Jane Smith", "Staff")

	w := s.api(http.MethodPost, "/api/cart/items", map[string]string{"productId": id})
	require.Equal(t, http.StatusCreated, w.Code)

	w = s.do(http.MethodGet, "/api/cart", nil, other)
	assert.Equal(t, "empty", decode[map[string]any](t, w)["state"])

	w = s.api(http.MethodDelete, "/api/cart/items/"+id, nil)
	assert.Equal(t, "empty", decode[map[string]any](t, w)["state"])
}

func TestRoleGuards(t *testing.T) {
	s := newServer(t)
	staff := s.tokenFor("sam@example.com", "Sam", "Staff")

	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPost, "/api/products", map[string]any{"itemName": "x"}, staff).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodGet, "/api/users", nil, staff).Code)
	assert.Equal(t, http.StatusForbidden, s.do(http.MethodPost, "/api/ask", map[string]string{"message": "hi"}, staff).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/products", nil, staff).Code)
	assert.Equal(t, http.StatusOK, s.do(http.MethodGet, "/api/cart", nil, staff).Code)
}

func TestUserEndpoints(t *testing.T) {
	s := newServer(t)

	w := s.api(http.MethodPost, "/api/users", map[string]string{"name": "Jane Smith", "email": "jane@example.com", "role": "Manager"})
	require.Equal(t, http.StatusCreated, w.Code, w.Body.String())
	u := decode[map[string]any](t, w)
	assert.Equal(t, "Active", u["status"])
	id := u["id"].(string)

	w = s.api(http.MethodPost, "/api/users", map[string]string{"name": "X", "email": "bad"})
	assert.Equal(t, http.StatusBadRequest, w.Code)

	w = s.api(http.MethodPut, "/api/users/"+id, map[string]string{"name": "Jane Smith", "email": "jane@example.com", "status": "Inactive"})
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "Inactive", decode[map[string]any](t, w)["status"])

	w = s.api(http.MethodGet, "/api/users?q=jane", nil)
	assert.Len(t, decode[[]map[string]any](t, w), 1)

	assert.Equal(t, http.StatusOK, s.api(http.MethodDelete, "/api/users/"+id, nil).Code)
	assert.Equal(t, http.StatusNotFound, s.api(http.MethodGet, "/api/users/"+id, nil).Code)
}

func TestReportsAndExports(t *testing.T) {
	s := newServer(t)
	s.createProduct("Chocolate", 8, 0.1, 5.99)

	w := s.api(http.MethodGet, "/api/dashboard", nil)
	require.Equal(t, http.StatusOK, w.Code)
	d := decode[map[string]any](t, w)
	assert.EqualValues(t, 1, d["totalProducts"])
	assert.EqualValues(t, 1, d["lowStock"])

	w = s.api(http.MethodGet, "/api/reports/valuation", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.InDelta(t, 47.92, decode[map[string]any](t, w)["totalValue"], 1e-9)

	w = s.api(http.MethodGet, "/api/reports/sales?start=2024-03-01&end=2024-03-31", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.EqualValues(t, 0, decode[map[string]any](t, w)["totalCount"])
	assert.Equal(t, http.StatusBadRequest, s.api(http.MethodGet, "/api/reports/sales?start=March", nil).Code)

	for _, path := range []string{"/api/history/export", "/api/invoices/export"} {
		w = s.api(http.MethodGet, path, nil)
		require.Equal(t, http.StatusOK, w.Code, path)
		assert.Equal(t, export.ContentType, w.Header().Get("Content-Type"))
		assert.Contains(t, w.Header().Get("Content-Disposition"), ".xlsx")
	}
	assert.Equal(t, http.StatusBadRequest, s.api(http.MethodGet, "/api/history?actionType=refund", nil).Code)
}

func TestAssistantDisabled(t *testing.T) {
	s := newServer(t)
	w := s.api(http.MethodPost, "/api/ask", map[string]string{"message": "how much tea?"})
	assert.Equal(t, http.StatusServiceUnavailable, w.Code)
}

func TestSystemStatusAndLogout(t *testing.T) {
	s := newServer(t)

	w := s.api(http.MethodGet, "/api/system/status", nil)
	require.Equal(t, http.StatusOK, w.Code)
	assert.Equal(t, "POS-TEST", decode[map[string]any](t, w)["terminalId"])

	id := s.createProduct("Coffee", 10, 0.5, 5)["id"].(string)
	require.Equal(t, http.StatusCreated, s.api(http.MethodPost, "/api/cart/items", map[string]string{"productId": id}).Code)
	require.Equal(t, http.StatusOK, s.api(http.MethodPost, "/api/logout", nil).Code)

	w = s.api(http.MethodGet, "/api/cart", nil)
	assert.Empty(t, decode[map[string]any](t, w)["items"])
}
