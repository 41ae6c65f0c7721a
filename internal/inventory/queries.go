package inventory

import (
	"context"
	"errors"
	"fmt"
	"io"
	"strings"

	"stockmaster/internal/apperr"
	"stockmaster/internal/export"
	"stockmaster/internal/models"

	"gorm.io/gorm"
)

type ProductFilter struct {
	Query       string // matches itemName or inventoryName, case-insensitive
	InStockOnly bool
}

type HistoryFilter struct {
	ProductID  string
	ActionType string // "", "all" or one of the action types
	Query      string // matches productName or updatedBy, case-insensitive
}

func likePattern(q string) string {
	return "%" + strings.ToLower(strings.TrimSpace(q)) + "%"
}

func (l *Ledger) GetProduct(ctx context.Context, id string) (*models.Product, error) {
	var p models.Product
	if err := l.db.WithContext(ctx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product", id)
		}
		return nil, fmt.Errorf("load product %s: %w", id, err)
	}
	return &p, nil
}

// ListProducts returns products newest first.
func (l *Ledger) ListProducts(ctx context.Context, f ProductFilter) ([]models.Product, error) {
	q := l.db.WithContext(ctx).Model(&models.Product{})
	if strings.TrimSpace(f.Query) != "" {
		like := likePattern(f.Query)
		q = q.Where("(LOWER(item_name) LIKE ? OR LOWER(inventory_name) LIKE ?)", like, like)
	}
	if f.InStockOnly {
		q = q.Where("quantity > 0")
	}

	products := []models.Product{}
	if err := q.Order("date_added DESC").Order("item_name").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("list products: %w", err)
	}
	return products, nil
}

// History returns matching log entries newest first.
func (l *Ledger) History(ctx context.Context, f HistoryFilter) ([]models.InventoryHistory, error) {
	q := l.db.WithContext(ctx).Model(&models.InventoryHistory{})
	if f.ProductID != "" {
		q = q.Where("product_id = ?", f.ProductID)
	}
	if f.ActionType != "" && f.ActionType != "all" {
		action := models.ActionType(f.ActionType)
		if !action.Valid() {
			return nil, apperr.Invalid("actionType", "must be one of: all, increase, decrease, sale")
		}
		q = q.Where("action_type = ?", action)
	}
	if strings.TrimSpace(f.Query) != "" {
		like := likePattern(f.Query)
		q = q.Where("(LOWER(product_name) LIKE ? OR LOWER(updated_by) LIKE ?)", like, like)
	}

	entries := []models.InventoryHistory{}
	if err := q.Order("seq DESC").Find(&entries).Error; err != nil {
		return nil, fmt.Errorf("list history: %w", err)
	}
	return entries, nil
}

// ExportHistory writes the filtered log as an xlsx workbook.
func (l *Ledger) ExportHistory(ctx context.Context, w io.Writer, f HistoryFilter) error {
	entries, err := l.History(ctx, f)
	if err != nil {
		return err
	}

	rows := make([][]any, 0, len(entries))
	for _, e := range entries {
		rows = append(rows, []any{
			e.Timestamp.Format("2006-01-02 15:04:05"),
			e.ProductName,
			string(e.ActionType),
			e.PreviousQuantity,
			e.NewQuantity,
			e.NewQuantity - e.PreviousQuantity,
			e.UpdatedBy,
		})
	}
	header := []string{"Timestamp", "Product", "Action", "Previous Qty", "New Qty", "Change", "Updated By"}
	return export.WriteSheet(w, "History", header, rows)
}
