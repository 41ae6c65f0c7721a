package handlers

import (
	"net/http"
	"time"

	"stockmaster/internal/apperr"

	"github.com/gin-gonic/gin"
)

// --- GET: /api/dashboard ---
func (h *Handlers) Dashboard(c *gin.Context) {
	d, err := h.Reports.Dashboard(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, d)
}

// parseDay reads a YYYY-MM-DD query parameter as a UTC day, defaulting to today.
func parseDay(c *gin.Context, key string) (time.Time, error) {
	raw := c.Query(key)
	if raw == "" {
		return time.Now().UTC().Truncate(24 * time.Hour), nil
	}
	day, err := time.Parse("2006-01-02", raw)
	if err != nil {
		return time.Time{}, apperr.Invalid(key, "must be a date in YYYY-MM-DD format")
	}
	return day, nil
}

// --- GET: /api/reports/sales?start=&end= --- both days inclusive
func (h *Handlers) SalesReport(c *gin.Context) {
	start, err := parseDay(c, "start")
	if err != nil {
		respondError(c, err)
		return
	}
	end, err := parseDay(c, "end")
	if err != nil {
		respondError(c, err)
		return
	}

	report, err := h.Invoices.SalesReport(c.Request.Context(), start, end.Add(24*time.Hour-time.Nanosecond))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, report)
}

// --- GET: /api/reports/valuation ---
// Stock value at retail price, grouped by inventory location
func (h *Handlers) StockValuation(c *gin.Context) {
	v, err := h.Reports.Valuation(c.Request.Context())
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, v)
}
