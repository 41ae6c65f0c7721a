// Package billing keeps the append-only record of completed sales.
package billing

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"
	"time"

	"stockmaster/internal/apperr"
	"stockmaster/internal/export"
	"stockmaster/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

// BillNumber formats a sequence as INV-000001. Past 999999 it simply grows.
func BillNumber(seq int64) string {
	return fmt.Sprintf("INV-%06d", seq)
}

// Store has no update or delete: an invoice is written once, by checkout.
type Store struct {
	db *gorm.DB
}

func NewStore(db *gorm.DB) *Store {
	return &Store{db: db}
}

// NextSequence returns the sequence the next invoice should take. Call it in
// the same transaction as Create; the unique index rejects a reused number.
func (s *Store) NextSequence(tx *gorm.DB) (int64, error) {
	var last int64
	if err := tx.Model(&models.Invoice{}).Select("COALESCE(MAX(sequence), 0)").Scan(&last).Error; err != nil {
		return 0, fmt.Errorf("read invoice sequence: %w", err)
	}
	return last + 1, nil
}

// Create persists inv and its items inside tx.
func (s *Store) Create(tx *gorm.DB, inv *models.Invoice) error {
	if inv.ID == "" {
		inv.ID = uuid.NewString()
	}
	if inv.BillNumber == "" {
		inv.BillNumber = BillNumber(inv.Sequence)
	}
	for i := range inv.Items {
		inv.Items[i].InvoiceID = inv.ID
		inv.Items[i].Position = i
	}
	if err := tx.Create(inv).Error; err != nil {
		return fmt.Errorf("create invoice %s: %w", inv.BillNumber, err)
	}
	return nil
}

func orderedItems(db *gorm.DB) *gorm.DB {
	return db.Order("position")
}

func (s *Store) Get(ctx context.Context, id string) (*models.Invoice, error) {
	var inv models.Invoice
	err := s.db.WithContext(ctx).Preload("Items", orderedItems).First(&inv, "id = ?", id).Error
	if err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("invoice", id)
		}
		return nil, fmt.Errorf("load invoice %s: %w", id, err)
	}
	return &inv, nil
}

// List returns invoices newest first. A non-blank query keeps the ones whose
// bill number or customer name contains it, ignoring case.
func (s *Store) List(ctx context.Context, query string) ([]models.Invoice, error) {
	q := s.db.WithContext(ctx).Preload("Items", orderedItems)
	if query = strings.TrimSpace(query); query != "" {
		like := "%" + strings.ToLower(query) + "%"
		q = q.Where("(LOWER(bill_number) LIKE ? OR LOWER(customer_name) LIKE ?)", like, like)
	}

	invoices := []models.Invoice{}
	if err := q.Order("sequence DESC").Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("list invoices: %w", err)
	}
	return invoices, nil
}

// SalesReport is the revenue and order count for a date range.
type SalesReport struct {
	Start        time.Time       `json:"start"`
	End          time.Time       `json:"end"`
	TotalRevenue decimal.Decimal `json:"totalRevenue"`
	TotalCount   int64           `json:"totalCount"`
}

// SalesReport sums invoices dated within [start, end].
func (s *Store) SalesReport(ctx context.Context, start, end time.Time) (*SalesReport, error) {
	if end.Before(start) {
		return nil, apperr.Invalid("end", "must not be before start")
	}

	// summed in Go: sqlite keeps decimal columns as REAL
	var totals []decimal.Decimal
	err := s.db.WithContext(ctx).Model(&models.Invoice{}).
		Where("date BETWEEN ? AND ?", start, end).
		Pluck("grand_total", &totals).Error
	if err != nil {
		return nil, fmt.Errorf("sales report: %w", err)
	}

	report := &SalesReport{Start: start, End: end, TotalRevenue: decimal.Zero, TotalCount: int64(len(totals))}
	for _, t := range totals {
		report.TotalRevenue = report.TotalRevenue.Add(t)
	}
	return report, nil
}

// Export writes the filtered invoice list as an xlsx workbook.
func (s *Store) Export(ctx context.Context, w io.Writer, query string) error {
	invoices, err := s.List(ctx, query)
	if err != nil {
		return err
	}

	rows := make([][]any, 0, len(invoices))
	for _, inv := range invoices {
		rows = append(rows, []any{
			inv.BillNumber,
			inv.Date.Format("2006-01-02 15:04:05"),
			inv.CustomerName,
			len(inv.Items),
			inv.TotalQuantity,
			inv.TotalWeight,
			inv.GrandTotal.StringFixed(2),
			inv.TerminalID,
			inv.CreatedBy,
		})
	}
	header := []string{"Bill Number", "Date", "Customer", "Lines", "Total Qty", "Total Weight (kg)", "Grand Total", "Terminal", "Cashier"}
	return export.WriteSheet(w, "Invoices", header, rows)
}
