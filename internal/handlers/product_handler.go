package handlers

import (
	"net/http"
	"strconv"

	"stockmaster/internal/apperr"
	"stockmaster/internal/inventory"
	"stockmaster/internal/middleware"
	"stockmaster/internal/models"

	"github.com/gin-gonic/gin"
)

// --- GET: /api/products?q=&inStock= ---
func (h *Handlers) ListProducts(c *gin.Context) {
	inStock, _ := strconv.ParseBool(c.Query("inStock"))
	products, err := h.Ledger.ListProducts(c.Request.Context(), inventory.ProductFilter{
		Query:       c.Query("q"),
		InStockOnly: inStock,
	})
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, products)
}

func (h *Handlers) GetProduct(c *gin.Context) {
	p, err := h.Ledger.GetProduct(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

// --- POST: Add a new product ---
func (h *Handlers) CreateProduct(c *gin.Context) {
	var input inventory.ProductInput
	if !bindJSON(c, &input) {
		return
	}

	p, err := h.Ledger.CreateProduct(c.Request.Context(), middleware.Operator(c), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusCreated, p)
}

// --- PUT/PATCH: Replace the editable fields ---
func (h *Handlers) UpdateProduct(c *gin.Context) {
	var input inventory.ProductInput
	if !bindJSON(c, &input) {
		return
	}

	p, err := h.Ledger.UpdateProduct(c.Request.Context(), c.Param("id"), input)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, p)
}

func (h *Handlers) DeleteProduct(c *gin.Context) {
	id := c.Param("id")
	if err := h.Ledger.DeleteProduct(c.Request.Context(), id); err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"message": "Product deleted", "id": id})
}

type AdjustRequest struct {
	Type   models.ActionType `json:"type"` // increase | decrease
	Amount int               `json:"amount"`
}

// --- POST: /api/products/:id/adjust ---
func (h *Handlers) AdjustStock(c *gin.Context) {
	var req AdjustRequest
	if !bindJSON(c, &req) {
		return
	}
	if req.Type != models.ActionIncrease && req.Type != models.ActionDecrease {
		respondError(c, apperr.Invalid("type", "must be increase or decrease"))
		return
	}

	p, entry, err := h.Ledger.AdjustQuantity(c.Request.Context(), middleware.Operator(c), c.Param("id"), req.Type, req.Amount)
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, gin.H{"product": p, "history": entry})
}
