package database

import (
	"fmt"
	"time"

	"stockmaster/internal/models"

	"github.com/google/uuid"
	"github.com/shopspring/decimal"
	"gorm.io/gorm"
)

func seedTime(s string) time.Time {
	t, _ := time.Parse(time.RFC3339, s)
	return t
}

// Seed loads the demo catalogue and directory into an empty store.
// Tables that already hold rows are left alone. Seeded stock has no
// history entries; the log starts with the first real movement.
func Seed(db *gorm.DB) error {
	return db.Transaction(func(tx *gorm.DB) error {
		var count int64
		if err := tx.Model(&models.Product{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			products := []models.Product{
				{InventoryName: "Main Store", ItemName: "Premium Coffee Beans", WeightPerItem: 0.5, Quantity: 120, DateAdded: seedTime("2024-02-20T10:00:00Z"), Price: decimal.RequireFromString("25.00")},
				{InventoryName: "Warehouse A", ItemName: "Organic Green Tea", WeightPerItem: 0.25, Quantity: 45, DateAdded: seedTime("2024-02-21T14:30:00Z"), Price: decimal.RequireFromString("18.50")},
				{InventoryName: "Main Store", ItemName: "Dark Chocolate Bars", WeightPerItem: 0.1, Quantity: 8, DateAdded: seedTime("2024-02-22T09:15:00Z"), Price: decimal.RequireFromString("5.99")},
			}
			for i := range products {
				products[i].ID = uuid.NewString()
				products[i].Recompute()
			}
			if err := tx.Create(&products).Error; err != nil {
				return fmt.Errorf("seed products: %w", err)
			}
		}

		if err := tx.Model(&models.User{}).Count(&count).Error; err != nil {
			return err
		}
		if count == 0 {
			now := time.Now()
			users := []models.User{
				{ID: uuid.NewString(), Name: "John Doe", Email: "john@example.com", Role: models.RoleAdmin, Status: models.StatusActive, CreatedAt: now},
				{ID: uuid.NewString(), Name: "Jane Smith", Email: "jane@example.com", Role: models.RoleManager, Status: models.StatusActive, CreatedAt: now},
			}
			if err := tx.Create(&users).Error; err != nil {
				return fmt.Errorf("seed users: %w", err)
			}
		}
		return nil
	})
}
