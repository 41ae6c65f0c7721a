// Package inventory is the authoritative store of products and the
// append-only log of every quantity movement.
package inventory

import (
	"context"
	"errors"
	"fmt"
	"math"
	"strings"
	"sync"
	"time"

	"stockmaster/internal/apperr"
	"stockmaster/internal/events"
	"stockmaster/internal/models"
	"stockmaster/internal/validation"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

const (
	systemOperator = "system"
	// priceScale matches the decimal(20,4) money columns.
	priceScale = 4
)

// ProductInput is the editable part of a product, as sent by the add/edit form.
type ProductInput struct {
	InventoryName string          `json:"inventoryName" validate:"required,max=120"`
	ItemName      string          `json:"itemName" validate:"required,max=200"`
	WeightPerItem float64         `json:"weightPerItem" validate:"gte=0"`
	Quantity      int             `json:"quantity" validate:"gte=0"`
	Price         decimal.Decimal `json:"price"`
}

func (in *ProductInput) validate() error {
	in.InventoryName = strings.TrimSpace(in.InventoryName)
	in.ItemName = strings.TrimSpace(in.ItemName)

	if err := validation.Struct(in); err != nil {
		return err
	}
	if math.IsNaN(in.WeightPerItem) || math.IsInf(in.WeightPerItem, 0) {
		return apperr.Invalid("weightPerItem", "must be a finite number")
	}
	if in.Price.IsNegative() {
		return apperr.Invalid("price", "must be >= 0")
	}
	if in.Price.Exponent() < -priceScale {
		return apperr.Invalid("price", fmt.Sprintf("must have at most %d decimal places", priceScale))
	}
	return nil
}

// SaleLine is one product/quantity pair of a sale posted to the ledger.
type SaleLine struct {
	ProductID string `json:"productId"`
	Quantity  int    `json:"quantity"`
}

// CommitHook runs inside the sale transaction once stock and history are
// written. Returning an error rolls the whole sale back.
type CommitHook func(tx *gorm.DB) error

// Ledger owns the product collection and its history log. Every mutation
// holds mu and runs in one transaction, so stock checks and the writes they
// guard can never interleave with another caller's.
type Ledger struct {
	db        *gorm.DB
	now       func() time.Time
	publisher events.Publisher

	mu sync.Mutex
}

type Option func(*Ledger)

func WithClock(now func() time.Time) Option {
	return func(l *Ledger) { l.now = now }
}

func WithPublisher(p events.Publisher) Option {
	return func(l *Ledger) { l.publisher = p }
}

func NewLedger(db *gorm.DB, opts ...Option) *Ledger {
	l := &Ledger{
		db:        db,
		now:       time.Now,
		publisher: events.Nop{},
	}
	for _, opt := range opts {
		opt(l)
	}
	return l
}

// forUpdate row-locks reads on engines that support it. SQLite has no row
// locks; there the single-connection pool plus mu already serialize writers.
func forUpdate(tx *gorm.DB) *gorm.DB {
	if tx.Dialector.Name() == "mysql" {
		return tx.Clauses(clause.Locking{Strength: "UPDATE"})
	}
	return tx
}

func findProduct(tx *gorm.DB, id string) (*models.Product, error) {
	var p models.Product
	if err := forUpdate(tx).First(&p, "id = ?", id).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, apperr.NotFound("product", id)
		}
		return nil, fmt.Errorf("load product %s: %w", id, err)
	}
	return &p, nil
}

// lastSeq reads the highest history sequence inside tx. It is read on every
// write so several servers sharing one database keep a single order; the
// unique index on seq rejects a racing duplicate.
func lastSeq(tx *gorm.DB) (int64, error) {
	var last int64
	if err := forUpdate(tx.Model(&models.InventoryHistory{})).Select("COALESCE(MAX(seq), 0)").Scan(&last).Error; err != nil {
		return 0, fmt.Errorf("read history sequence: %w", err)
	}
	return last, nil
}

func record(seq int64, p *models.Product, prev, next int, action models.ActionType, operator string, at time.Time) models.InventoryHistory {
	if operator == "" {
		operator = systemOperator
	}
	return models.InventoryHistory{
		ID:               uuid.NewString(),
		Seq:              seq,
		ProductID:        p.ID,
		ProductName:      p.ItemName,
		PreviousQuantity: prev,
		NewQuantity:      next,
		ActionType:       action,
		UpdatedBy:        operator,
		Timestamp:        at,
	}
}

// CreateProduct adds a product and logs its opening stock as an increase from 0.
func (l *Ledger) CreateProduct(ctx context.Context, operator string, in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	now := l.now()
	p := &models.Product{
		ID:            uuid.NewString(),
		InventoryName: in.InventoryName,
		ItemName:      in.ItemName,
		WeightPerItem: in.WeightPerItem,
		Quantity:      in.Quantity,
		DateAdded:     now,
		Price:         in.Price,
	}
	p.Recompute()

	l.mu.Lock()
	defer l.mu.Unlock()

	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(p).Error; err != nil {
			return err
		}
		seq, err := lastSeq(tx)
		if err != nil {
			return err
		}
		entry := record(seq+1, p, 0, p.Quantity, models.ActionIncrease, operator, now)
		return tx.Create(&entry).Error
	})
	if err != nil {
		return nil, fmt.Errorf("create product: %w", err)
	}
	return p, nil
}

// UpdateProduct replaces the editable fields of a product. Edits are treated
// as corrections, not movements, so no history entry is written.
func (l *Ledger) UpdateProduct(ctx context.Context, id string, in ProductInput) (*models.Product, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var updated *models.Product
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := findProduct(tx, id)
		if err != nil {
			return err
		}
		p.InventoryName = in.InventoryName
		p.ItemName = in.ItemName
		p.WeightPerItem = in.WeightPerItem
		p.Quantity = in.Quantity
		p.Price = in.Price
		p.Recompute()
		if err := tx.Save(p).Error; err != nil {
			return fmt.Errorf("save product %s: %w", id, err)
		}
		updated = p
		return nil
	})
	if err != nil {
		return nil, err
	}
	return updated, nil
}

// DeleteProduct removes a product for good. Its history entries stay.
func (l *Ledger) DeleteProduct(ctx context.Context, id string) error {
	l.mu.Lock()
	defer l.mu.Unlock()

	res := l.db.WithContext(ctx).Delete(&models.Product{}, "id = ?", id)
	if res.Error != nil {
		return fmt.Errorf("delete product %s: %w", id, res.Error)
	}
	if res.RowsAffected == 0 {
		return apperr.NotFound("product", id)
	}
	return nil
}

// AdjustQuantity moves stock up or down by amount and logs the movement.
// A decrease larger than the current stock fails without touching anything.
func (l *Ledger) AdjustQuantity(ctx context.Context, operator, id string, direction models.ActionType, amount int) (*models.Product, *models.InventoryHistory, error) {
	if direction != models.ActionIncrease && direction != models.ActionDecrease {
		return nil, nil, apperr.Invalid("direction", "must be increase or decrease")
	}
	if amount <= 0 {
		return nil, nil, apperr.Invalid("amount", "must be a positive integer")
	}

	product, entry, err := l.adjust(ctx, operator, id, direction, amount)
	if err != nil {
		return nil, nil, err
	}

	events.Emit(ctx, l.publisher, events.StockAdjusted, *entry)
	return product, entry, nil
}

func (l *Ledger) adjust(ctx context.Context, operator, id string, direction models.ActionType, amount int) (*models.Product, *models.InventoryHistory, error) {
	l.mu.Lock()
	defer l.mu.Unlock()

	var (
		product *models.Product
		entry   models.InventoryHistory
	)
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		p, err := findProduct(tx, id)
		if err != nil {
			return err
		}

		prev := p.Quantity
		var next int
		switch direction {
		case models.ActionIncrease:
			if amount > math.MaxInt-prev {
				return apperr.Invalid("amount", "would overflow the stock quantity")
			}
			next = prev + amount
		case models.ActionDecrease:
			if amount > prev {
				return &apperr.InsufficientStockError{ProductID: p.ID, ItemName: p.ItemName, Available: prev, Requested: amount}
			}
			next = prev - amount
		}

		p.Quantity = next
		p.Recompute()
		if err := tx.Save(p).Error; err != nil {
			return fmt.Errorf("save product %s: %w", id, err)
		}

		seq, err := lastSeq(tx)
		if err != nil {
			return err
		}
		entry = record(seq+1, p, prev, next, direction, operator, l.now())
		if err := tx.Create(&entry).Error; err != nil {
			return fmt.Errorf("append history: %w", err)
		}
		product = p
		return nil
	})
	if err != nil {
		return nil, nil, err
	}
	return product, &entry, nil
}

// ApplySale decrements stock for every line and logs one sale entry per line.
// It is all-or-nothing: every line is checked against stock read inside the
// lock before any product is written, and any failing check (or hook) leaves
// products and history exactly as they were. Each entry's previous quantity
// comes from the stock before the batch; repeated lines for one product chain
// from there.
func (l *Ledger) ApplySale(ctx context.Context, operator string, lines []SaleLine, hooks ...CommitHook) ([]models.InventoryHistory, error) {
	if len(lines) == 0 {
		return nil, apperr.Invalid("lines", "at least one line is required")
	}
	for _, line := range lines {
		if line.ProductID == "" {
			return nil, apperr.Invalid("productId", "is required")
		}
		if line.Quantity < 1 {
			return nil, apperr.Invalid("quantity", "must be >= 1")
		}
	}

	l.mu.Lock()
	defer l.mu.Unlock()

	var entries []models.InventoryHistory
	err := l.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		products := make(map[string]*models.Product)
		demand := make(map[string]int)
		var order []string
		for _, line := range lines {
			if _, seen := products[line.ProductID]; !seen {
				p, err := findProduct(tx, line.ProductID)
				if err != nil {
					return err
				}
				products[line.ProductID] = p
				order = append(order, line.ProductID)
			}
		}

		// demand never exceeds stock, so the subtraction cannot overflow
		for _, line := range lines {
			p := products[line.ProductID]
			have := demand[line.ProductID]
			if line.Quantity > p.Quantity-have {
				requested := math.MaxInt
				if line.Quantity <= math.MaxInt-have {
					requested = have + line.Quantity
				}
				return &apperr.InsufficientStockError{ProductID: p.ID, ItemName: p.ItemName, Available: p.Quantity, Requested: requested}
			}
			demand[line.ProductID] = have + line.Quantity
		}

		seq, err := lastSeq(tx)
		if err != nil {
			return err
		}

		now := l.now()
		running := make(map[string]int, len(products))
		for id, p := range products {
			running[id] = p.Quantity
		}
		entries = make([]models.InventoryHistory, 0, len(lines))
		for _, line := range lines {
			p := products[line.ProductID]
			prev := running[line.ProductID]
			next := prev - line.Quantity
			running[line.ProductID] = next

			seq++
			entries = append(entries, record(seq, p, prev, next, models.ActionSale, operator, now))
		}

		for _, id := range order {
			p := products[id]
			p.Quantity = running[id]
			p.Recompute()
			if err := tx.Save(p).Error; err != nil {
				return fmt.Errorf("save product %s: %w", id, err)
			}
		}
		if err := tx.Create(&entries).Error; err != nil {
			return fmt.Errorf("append history: %w", err)
		}

		for _, hook := range hooks {
			if err := hook(tx); err != nil {
				return err
			}
		}
		return nil
	})
	if err != nil {
		return nil, err
	}
	return entries, nil
}
