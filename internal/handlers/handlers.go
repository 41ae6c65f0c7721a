package handlers

import (
	"log"
	"net/http"

	"stockmaster/internal/ai"
	"stockmaster/internal/apperr"
	"stockmaster/internal/auth"
	"stockmaster/internal/billing"
	"stockmaster/internal/inventory"
	"stockmaster/internal/pos"
	"stockmaster/internal/reports"
	"stockmaster/internal/users"

	"github.com/gin-gonic/gin"
)

// Handlers holds every service the HTTP layer calls.
type Handlers struct {
	Ledger     *inventory.Ledger
	Carts      *pos.Registry
	Checkout   *pos.Checkout
	Invoices   *billing.Store
	Users      *users.Directory
	Reports    *reports.Service
	Agent      *ai.Agent // nil when GEMINI_API_KEY is unset
	Issuer     *auth.Issuer
	Credential *auth.Credential
	System     SystemInfo
}

// respondError writes the status apperr maps err to. Unexpected errors are
// logged and hidden from the client.
func respondError(c *gin.Context, err error) {
	status := apperr.Status(err)
	if status == http.StatusInternalServerError {
		log.Printf("❌ %s %s: %v", c.Request.Method, c.FullPath(), err)
		c.JSON(status, gin.H{"error": "Internal server error"})
		return
	}
	c.JSON(status, gin.H{"error": err.Error()})
}

// bindJSON decodes the body into v, answering 400 on malformed input.
func bindJSON(c *gin.Context, v any) bool {
	if err := c.ShouldBindJSON(v); err != nil {
		respondError(c, apperr.Invalid("", "malformed JSON body"))
		return false
	}
	return true
}
