// Package pos builds pending sales and turns them into ledger sales and invoices.
package pos

import (
	"context"
	"sync"

	"stockmaster/internal/apperr"
	"stockmaster/internal/models"

	"github.com/shopspring/decimal"
)

type State string

const (
	StateEmpty      State = "empty"
	StateBuilding   State = "building"
	StateCheckedOut State = "checked_out"
)

// ProductLookup reads current stock. *inventory.Ledger satisfies it.
type ProductLookup interface {
	GetProduct(ctx context.Context, id string) (*models.Product, error)
}

type Totals struct {
	TotalQuantity int             `json:"totalQuantity"`
	TotalWeight   float64         `json:"totalWeight"`
	GrandTotal    decimal.Decimal `json:"grandTotal"`
}

// Cart is one register's pending sale. Stock is checked when lines grow but
// only reserved by checkout.
type Cart struct {
	products ProductLookup

	mu    sync.Mutex
	lines []models.SaleItem
	state State
}

func NewCart(products ProductLookup) *Cart {
	return &Cart{products: products, state: StateEmpty}
}

func (c *Cart) indexOf(productID string) int {
	for i := range c.lines {
		if c.lines[i].ProductID == productID {
			return i
		}
	}
	return -1
}

func (c *Cart) syncState() {
	if len(c.lines) == 0 {
		c.state = StateEmpty
	} else {
		c.state = StateBuilding
	}
}

func setQuantity(line *models.SaleItem, qty int) {
	line.Quantity = qty
	line.TotalPrice = line.Price.Mul(decimal.NewFromInt(int64(qty)))
}

// AddItem puts one more unit of the product in the cart, snapshotting its
// name, weight and price on first add.
func (c *Cart) AddItem(ctx context.Context, productID string) (models.SaleItem, error) {
	if productID == "" {
		return models.SaleItem{}, apperr.Invalid("productId", "is required")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	p, err := c.products.GetProduct(ctx, productID)
	if err != nil {
		return models.SaleItem{}, err
	}

	i := c.indexOf(productID)
	want := 1
	if i >= 0 {
		want = c.lines[i].Quantity + 1
	}
	if p.Quantity == 0 || want > p.Quantity {
		return models.SaleItem{}, &apperr.OutOfStockError{ProductID: p.ID, ItemName: p.ItemName, Available: p.Quantity, Requested: want}
	}

	if i < 0 {
		c.lines = append(c.lines, models.SaleItem{
			ProductID: p.ID,
			ItemName:  p.ItemName,
			Weight:    p.WeightPerItem,
			Price:     p.Price,
		})
		i = len(c.lines) - 1
	}
	setQuantity(&c.lines[i], want)
	c.syncState()
	return c.lines[i], nil
}

// SetLineQuantity replaces a line's quantity. Zero removes the line; more
// than the product has in stock fails and leaves the line as it was.
func (c *Cart) SetLineQuantity(ctx context.Context, productID string, qty int) error {
	if qty < 0 {
		return apperr.Invalid("quantity", "must be >= 0")
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	i := c.indexOf(productID)
	if i < 0 {
		return apperr.NotFound("cart line", productID)
	}
	if qty == 0 {
		c.removeAt(i)
		return nil
	}

	p, err := c.products.GetProduct(ctx, productID)
	if err != nil {
		return err
	}
	if qty > p.Quantity {
		return &apperr.OutOfStockError{ProductID: p.ID, ItemName: p.ItemName, Available: p.Quantity, Requested: qty}
	}
	setQuantity(&c.lines[i], qty)
	return nil
}

// RemoveItem drops the product's line. Absent lines are ignored.
func (c *Cart) RemoveItem(productID string) {
	c.mu.Lock()
	defer c.mu.Unlock()

	if i := c.indexOf(productID); i >= 0 {
		c.removeAt(i)
	}
}

func (c *Cart) removeAt(i int) {
	c.lines = append(c.lines[:i], c.lines[i+1:]...)
	c.syncState()
}

// Lines returns a copy of the cart lines in insertion order.
func (c *Cart) Lines() []models.SaleItem {
	c.mu.Lock()
	defer c.mu.Unlock()
	return append([]models.SaleItem{}, c.lines...)
}

func (c *Cart) Totals() Totals {
	c.mu.Lock()
	defer c.mu.Unlock()
	return totalsOf(c.lines)
}

func (c *Cart) State() State {
	c.mu.Lock()
	defer c.mu.Unlock()
	return c.state
}

func totalsOf(lines []models.SaleItem) Totals {
	t := Totals{GrandTotal: decimal.Zero}
	for _, l := range lines {
		t.TotalQuantity += l.Quantity
		t.TotalWeight += l.Weight * float64(l.Quantity)
		t.GrandTotal = t.GrandTotal.Add(l.TotalPrice)
	}
	return t
}

// commit hands a copy of the lines to post while holding the cart, so the
// cart cannot change under a checkout. The cart is cleared only if post succeeds.
func (c *Cart) commit(post func(lines []models.SaleItem) error) error {
	c.mu.Lock()
	defer c.mu.Unlock()

	if len(c.lines) == 0 {
		return apperr.ErrEmptyCart
	}
	if err := post(append([]models.SaleItem{}, c.lines...)); err != nil {
		return err
	}

	c.state = StateCheckedOut
	c.lines = nil
	c.syncState()
	return nil
}
