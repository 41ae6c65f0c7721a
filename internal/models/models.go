package models

import (
	"time"

	"github.com/shopspring/decimal"
)

// ActionType tags an inventory history entry with the operation that caused it.
type ActionType string

const (
	ActionIncrease ActionType = "increase"
	ActionDecrease ActionType = "decrease"
	ActionSale     ActionType = "sale"
)

func (a ActionType) Valid() bool {
	switch a {
	case ActionIncrease, ActionDecrease, ActionSale:
		return true
	}
	return false
}

// Role - what a directory user is allowed to do
type Role string

const (
	RoleAdmin   Role = "Admin"
	RoleManager Role = "Manager"
	RoleStaff   Role = "Staff"
)

type UserStatus string

const (
	StatusActive   UserStatus = "Active"
	StatusInactive UserStatus = "Inactive"
)

// Product - one stocked item at one inventory location
type Product struct {
	ID            string          `gorm:"primaryKey;size:36" json:"id"`
	InventoryName string          `gorm:"size:120;index" json:"inventoryName"`
	ItemName      string          `gorm:"size:200" json:"itemName"`
	WeightPerItem float64         `json:"weightPerItem"` // kg
	Quantity      int             `json:"quantity"`
	TotalWeight   float64         `json:"totalWeight"`
	DateAdded     time.Time       `gorm:"index" json:"dateAdded"`
	Price         decimal.Decimal `gorm:"type:decimal(20,4)" json:"price"`
}

// Recompute keeps TotalWeight equal to WeightPerItem * Quantity.
// Every code path that touches Quantity or WeightPerItem calls it before saving.
func (p *Product) Recompute() {
	p.TotalWeight = p.WeightPerItem * float64(p.Quantity)
}

// InventoryHistory - append-only audit record of one quantity change
type InventoryHistory struct {
	ID               string     `gorm:"primaryKey;size:36" json:"id"`
	Seq              int64      `gorm:"uniqueIndex" json:"-"` // ledger order, newest is highest
	ProductID        string     `gorm:"size:36;index" json:"productId"` // reference only, survives product deletion
	ProductName      string     `gorm:"size:200" json:"productName"`
	PreviousQuantity int        `json:"previousQuantity"`
	NewQuantity      int        `json:"newQuantity"`
	ActionType       ActionType `gorm:"size:16;index" json:"actionType"`
	UpdatedBy        string     `gorm:"size:120" json:"updatedBy"`
	Timestamp        time.Time  `gorm:"index" json:"timestamp"`
}

func (InventoryHistory) TableName() string {
	return "inventory_history"
}

// SaleItem - a cart line. Item name, weight and price are snapshots taken
// when the line was created, not live references to the product.
type SaleItem struct {
	ProductID  string          `gorm:"size:36" json:"productId"`
	ItemName   string          `gorm:"size:200" json:"itemName"`
	Quantity   int             `json:"quantity"`
	Weight     float64         `json:"weight"` // per unit
	Price      decimal.Decimal `gorm:"type:decimal(20,4)" json:"price"`
	TotalPrice decimal.Decimal `gorm:"type:decimal(20,4)" json:"totalPrice"`
}

// Invoice - immutable snapshot of one completed checkout
type Invoice struct {
	ID            string          `gorm:"primaryKey;size:36" json:"id"`
	Sequence      int64           `gorm:"uniqueIndex" json:"sequence"`
	BillNumber    string          `gorm:"uniqueIndex;size:32" json:"billNumber"`
	Date          time.Time       `gorm:"index" json:"date"`
	CustomerName  string          `gorm:"size:200" json:"customerName"`
	Items         []InvoiceItem   `gorm:"foreignKey:InvoiceID" json:"items"`
	TotalQuantity int             `json:"totalQuantity"`
	TotalWeight   float64         `json:"totalWeight"`
	GrandTotal    decimal.Decimal `gorm:"type:decimal(20,4)" json:"grandTotal"`
	TerminalID    string          `gorm:"size:32" json:"terminalId"`
	CreatedBy     string          `gorm:"size:120" json:"createdBy"`
}

// InvoiceItem - the persisted copy of a SaleItem, owned by its invoice
type InvoiceItem struct {
	ID        uint   `gorm:"primaryKey" json:"-"`
	InvoiceID string `gorm:"size:36;index" json:"-"`
	Position  int    `json:"-"`
	SaleItem  `gorm:"embedded"`
}

// User - directory entry. Not linked to the login session.
type User struct {
	ID        string     `gorm:"primaryKey;size:36" json:"id"`
	Name      string     `gorm:"size:120" json:"name"`
	Email     string     `gorm:"size:200;index" json:"email"`
	Role      Role       `gorm:"size:16" json:"role"`
	Status    UserStatus `gorm:"size:16" json:"status"`
	CreatedAt time.Time  `json:"createdAt"`
}
