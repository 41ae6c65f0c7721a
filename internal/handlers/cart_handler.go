package handlers

import (
	"net/http"

	"stockmaster/internal/middleware"
	"stockmaster/internal/models"
	"stockmaster/internal/pos"

	"github.com/gin-gonic/gin"
)

type CartView struct {
	State pos.State         `json:"state"`
	Items []models.SaleItem `json:"items"`
	pos.Totals
}

func (h *Handlers) cart(c *gin.Context) *pos.Cart {
	return h.Carts.Cart(middleware.Session(c))
}

func viewOf(cart *pos.Cart) CartView {
	return CartView{State: cart.State(), Items: cart.Lines(), Totals: cart.Totals()}
}

// --- GET: /api/cart ---
func (h *Handlers) GetCart(c *gin.Context) {
	c.JSON(http.StatusOK, viewOf(h.cart(c)))
}

type AddItemRequest struct {
	ProductID string `json:"productId"`
}

// --- POST: /api/cart/items --- adds one unit
func (h *Handlers) AddCartItem(c *gin.Context) {
	var req AddItemRequest
	if !bindJSON(c, &req) {
		return
	}

	cart := h.cart(c)
	if _, err := cart.AddItem(c.Request.Context(), req.ProductID); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, viewOf(cart))
}

type SetQuantityRequest struct {
	Quantity int `json:"quantity"`
}

// --- PATCH: /api/cart/items/:productId ---
func (h *Handlers) UpdateCartItem(c *gin.Context) {
	var req SetQuantityRequest
	if !bindJSON(c, &req) {
		return
	}

	cart := h.cart(c)
	if err := cart.SetLineQuantity(c.Request.Context(), c.Param("productId"), req.Quantity); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, viewOf(cart))
}

// --- DELETE: /api/cart/items/:productId ---
func (h *Handlers) RemoveCartItem(c *gin.Context) {
	cart := h.cart(c)
	cart.RemoveItem(c.Param("productId"))
	c.JSON(http.StatusOK, viewOf(cart))
}

type CheckoutRequest struct {
	CustomerName string `json:"customerName"`
}

// --- POST: /api/cart/checkout ---
func (h *Handlers) CheckoutCart(c *gin.Context) {
	var req CheckoutRequest
	// an empty body means a walk-in customer
	if c.Request.ContentLength != 0 && !bindJSON(c, &req) {
		return
	}

	inv, err := h.Checkout.Checkout(c.Request.Context(), h.cart(c), middleware.Operator(c), req.CustomerName)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, inv)
}
