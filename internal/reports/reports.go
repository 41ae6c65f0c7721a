// Package reports computes the dashboard figures and the stock valuation.
package reports

import (
	"context"
	"fmt"
	"sort"
	"time"

	"stockmaster/internal/models"

	"github.com/gosimple/slug"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

const DefaultLowStockThreshold = 10

type Service struct {
	db                *gorm.DB
	lowStockThreshold int
	now               func() time.Time
}

type Option func(*Service)

func WithClock(now func() time.Time) Option {
	return func(s *Service) { s.now = now }
}

// WithLowStockThreshold flags products whose quantity is below n.
func WithLowStockThreshold(n int) Option {
	return func(s *Service) {
		if n > 0 {
			s.lowStockThreshold = n
		}
	}
}

func NewService(db *gorm.DB, opts ...Option) *Service {
	s := &Service{db: db, lowStockThreshold: DefaultLowStockThreshold, now: time.Now}
	for _, opt := range opts {
		opt(s)
	}
	return s
}

type DaySales struct {
	Day     string          `json:"day"` // Mon, Tue, ...
	Date    string          `json:"date"`
	Revenue decimal.Decimal `json:"revenue"`
	Count   int             `json:"count"`
}

type Dashboard struct {
	TotalProducts     int              `json:"totalProducts"`
	TotalStockWeight  float64          `json:"totalStockWeight"`
	TodaySales        int              `json:"todaySales"`
	TotalRevenue      decimal.Decimal  `json:"totalRevenue"`
	LowStock          int              `json:"lowStock"`
	LowStockThreshold int              `json:"lowStockThreshold"`
	LowStockItems     []models.Product `json:"lowStockItems"`
	LastSevenDays     []DaySales       `json:"lastSevenDays"`
}

type invoiceRow struct {
	Date       time.Time
	GrandTotal decimal.Decimal
}

// Dashboard summarizes the catalogue and all invoices. Days are UTC calendar days.
func (s *Service) Dashboard(ctx context.Context) (*Dashboard, error) {
	db := s.db.WithContext(ctx)

	var products []models.Product
	if err := db.Order("quantity").Order("item_name").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("dashboard products: %w", err)
	}
	var invoices []invoiceRow
	if err := db.Model(&models.Invoice{}).Select("date", "grand_total").Find(&invoices).Error; err != nil {
		return nil, fmt.Errorf("dashboard invoices: %w", err)
	}

	d := &Dashboard{
		TotalProducts:     len(products),
		TotalRevenue:      decimal.Zero,
		LowStockThreshold: s.lowStockThreshold,
		LowStockItems:     []models.Product{},
	}
	for _, p := range products {
		d.TotalStockWeight += p.TotalWeight
		if p.Quantity < s.lowStockThreshold {
			d.LowStock++
			d.LowStockItems = append(d.LowStockItems, p)
		}
	}

	today := s.now().UTC().Truncate(24 * time.Hour)
	first := today.AddDate(0, 0, -6)
	d.LastSevenDays = make([]DaySales, 7)
	for i := range d.LastSevenDays {
		day := first.AddDate(0, 0, i)
		d.LastSevenDays[i] = DaySales{Day: day.Format("Mon"), Date: day.Format("2006-01-02"), Revenue: decimal.Zero}
	}

	for _, inv := range invoices {
		d.TotalRevenue = d.TotalRevenue.Add(inv.GrandTotal)
		day := inv.Date.UTC().Truncate(24 * time.Hour)
		if day.Equal(today) {
			d.TodaySales++
		}
		if day.Before(first) || day.After(today) {
			continue
		}
		i := int(day.Sub(first) / (24 * time.Hour))
		d.LastSevenDays[i].Revenue = d.LastSevenDays[i].Revenue.Add(inv.GrandTotal)
		d.LastSevenDays[i].Count++
	}
	return d, nil
}

// Location is the stock held at one inventory location.
type Location struct {
	Key      string          `json:"key"`
	Name     string          `json:"name"`
	Products int             `json:"products"`
	Units    int             `json:"units"`
	Weight   float64         `json:"weight"`
	Value    decimal.Decimal `json:"value"`
}

type Valuation struct {
	Locations   []Location      `json:"locations"`
	TotalUnits  int             `json:"totalUnits"`
	TotalWeight float64         `json:"totalWeight"`
	TotalValue  decimal.Decimal `json:"totalValue"`
}

// Valuation groups products by location at retail price. Location names that
// differ only in case, spacing or punctuation ("Main Store", "main-store")
// are the same location.
func (s *Service) Valuation(ctx context.Context) (*Valuation, error) {
	var products []models.Product
	if err := s.db.WithContext(ctx).Order("date_added").Find(&products).Error; err != nil {
		return nil, fmt.Errorf("valuation: %w", err)
	}

	byKey := make(map[string]*Location)
	v := &Valuation{Locations: []Location{}, TotalValue: decimal.Zero}
	for _, p := range products {
		key := slug.Make(p.InventoryName)
		loc, ok := byKey[key]
		if !ok {
			loc = &Location{Key: key, Name: p.InventoryName, Value: decimal.Zero}
			byKey[key] = loc
		}
		value := p.Price.Mul(decimal.NewFromInt(int64(p.Quantity)))

		loc.Products++
		loc.Units += p.Quantity
		loc.Weight += p.TotalWeight
		loc.Value = loc.Value.Add(value)

		v.TotalUnits += p.Quantity
		v.TotalWeight += p.TotalWeight
		v.TotalValue = v.TotalValue.Add(value)
	}

	for _, loc := range byKey {
		v.Locations = append(v.Locations, *loc)
	}
	sort.Slice(v.Locations, func(i, j int) bool { return v.Locations[i].Key < v.Locations[j].Key })
	return v, nil
}
