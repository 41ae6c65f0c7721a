package handlers

import (
	"bytes"
	"fmt"
	"net/http"
	"time"

	"stockmaster/internal/export"
	"stockmaster/internal/inventory"

	"github.com/gin-gonic/gin"
)

// --- GET: /api/invoices?q= --- newest first
func (h *Handlers) ListInvoices(c *gin.Context) {
	invoices, err := h.Invoices.List(c.Request.Context(), c.Query("q"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, invoices)
}

func (h *Handlers) GetInvoice(c *gin.Context) {
	inv, err := h.Invoices.Get(c.Request.Context(), c.Param("id"))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, inv)
}

// sendWorkbook buffers the workbook so a failed export still gets a JSON error.
func sendWorkbook(c *gin.Context, name string, write func(buf *bytes.Buffer) error) {
	var buf bytes.Buffer
	if err := write(&buf); err != nil {
		respondError(c, err)
		return
	}
	filename := fmt.Sprintf("%s-%s.xlsx", name, time.Now().Format("20060102"))
	c.Header("Content-Disposition", `attachment; filename="`+filename+`"`)
	c.Data(http.StatusOK, export.ContentType, buf.Bytes())
}

// --- GET: /api/invoices/export?q= ---
func (h *Handlers) ExportInvoices(c *gin.Context) {
	sendWorkbook(c, "invoices", func(buf *bytes.Buffer) error {
		return h.Invoices.Export(c.Request.Context(), buf, c.Query("q"))
	})
}

func historyFilter(c *gin.Context) inventory.HistoryFilter {
	return inventory.HistoryFilter{
		ProductID:  c.Query("productId"),
		ActionType: c.Query("actionType"),
		Query:      c.Query("q"),
	}
}

// --- GET: /api/history?productId=&actionType=&q= ---
func (h *Handlers) ListHistory(c *gin.Context) {
	entries, err := h.Ledger.History(c.Request.Context(), historyFilter(c))
	if err != nil {
		respondError(c, err)
		return
	}
	c.JSON(http.StatusOK, entries)
}

func (h *Handlers) ExportHistory(c *gin.Context) {
	sendWorkbook(c, "inventory-history", func(buf *bytes.Buffer) error {
		return h.Ledger.ExportHistory(c.Request.Context(), buf, historyFilter(c))
	})
}
