package pos

import (
	"context"
	"fmt"
	"strings"
	"time"

	"stockmaster/internal/billing"
	"stockmaster/internal/events"
	"stockmaster/internal/inventory"
	"stockmaster/internal/models"

	"gorm.io/gorm"
)

const WalkInCustomer = "Walk-in Customer"

// SaleLedger is the part of the inventory ledger checkout posts to.
type SaleLedger interface {
	ApplySale(ctx context.Context, operator string, lines []inventory.SaleLine, hooks ...inventory.CommitHook) ([]models.InventoryHistory, error)
}

type Checkout struct {
	ledger     SaleLedger
	invoices   *billing.Store
	publisher  events.Publisher
	now        func() time.Time
	terminalID string
}

type CheckoutOption func(*Checkout)

func WithClock(now func() time.Time) CheckoutOption {
	return func(c *Checkout) { c.now = now }
}

func WithPublisher(p events.Publisher) CheckoutOption {
	return func(c *Checkout) { c.publisher = p }
}

// WithTerminal stamps every invoice with the register that produced it.
func WithTerminal(id string) CheckoutOption {
	return func(c *Checkout) { c.terminalID = id }
}

func NewCheckout(ledger SaleLedger, invoices *billing.Store, opts ...CheckoutOption) *Checkout {
	c := &Checkout{
		ledger:    ledger,
		invoices:  invoices,
		publisher: events.Nop{},
		now:       time.Now,
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Checkout posts the cart to the ledger and records its invoice in the same
// transaction. If anything fails the cart, the stock and the invoice store
// are left as they were.
func (c *Checkout) Checkout(ctx context.Context, cart *Cart, operator, customerName string) (*models.Invoice, error) {
	customerName = strings.TrimSpace(customerName)
	if customerName == "" {
		customerName = WalkInCustomer
	}

	var invoice *models.Invoice
	err := cart.commit(func(lines []models.SaleItem) error {
		totals := totalsOf(lines)
		inv := &models.Invoice{
			Date:          c.now().UTC(),
			CustomerName:  customerName,
			Items:         make([]models.InvoiceItem, len(lines)),
			TotalQuantity: totals.TotalQuantity,
			TotalWeight:   totals.TotalWeight,
			GrandTotal:    totals.GrandTotal,
			TerminalID:    c.terminalID,
			CreatedBy:     operator,
		}
		sale := make([]inventory.SaleLine, len(lines))
		for i, l := range lines {
			inv.Items[i] = models.InvoiceItem{SaleItem: l}
			sale[i] = inventory.SaleLine{ProductID: l.ProductID, Quantity: l.Quantity}
		}

		_, err := c.ledger.ApplySale(ctx, operator, sale, func(tx *gorm.DB) error {
			seq, err := c.invoices.NextSequence(tx)
			if err != nil {
				return err
			}
			inv.Sequence = seq
			inv.BillNumber = billing.BillNumber(seq)
			return c.invoices.Create(tx, inv)
		})
		if err != nil {
			return fmt.Errorf("checkout: %w", err)
		}
		invoice = inv
		return nil
	})
	if err != nil {
		return nil, err
	}

	events.Emit(ctx, c.publisher, events.InvoiceCreated, invoice)
	return invoice, nil
}
