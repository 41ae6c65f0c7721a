package database

import (
	"fmt"
	"log"
	"time"

	"stockmaster/internal/config"
	"stockmaster/internal/models"

	"gorm.io/driver/mysql"
	"gorm.io/driver/sqlite"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// Connect opens the store described by cfg and syncs the schema.
// Without DB_DSN the whole store lives in memory and is gone on restart.
func Connect(cfg *config.Config) (*gorm.DB, error) {
	level := logger.Warn
	if cfg.DBDebug {
		level = logger.Info
	}

	if cfg.DatabaseDSN == "" {
		log.Println("💾 DB_DSN not set, using in-memory SQLite (nothing survives a restart)")
		return OpenMemory(level)
	}

	var db *gorm.DB
	var err error

	// MySQL may still be booting when we start (docker compose)
	for i := 0; i < 5; i++ {
		db, err = gorm.Open(mysql.Open(cfg.DatabaseDSN), &gorm.Config{
			Logger: logger.Default.LogMode(level),
		})
		if err == nil {
			break
		}
		log.Printf("Failed to connect to database. Retrying in 2 seconds... (%d/5)", i+1)
		time.Sleep(2 * time.Second)
	}
	if err != nil {
		return nil, fmt.Errorf("connect mysql after 5 attempts: %w", err)
	}
	log.Println("✅ Successfully connected to MySQL!")

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

// OpenMemory returns a migrated private in-memory SQLite database.
// The pool is pinned to one connection: a ":memory:" database belongs to the
// connection that created it, and one connection also serializes writers.
func OpenMemory(level logger.LogLevel) (*gorm.DB, error) {
	db, err := gorm.Open(sqlite.Open(":memory:"), &gorm.Config{
		Logger: logger.Default.LogMode(level),
	})
	if err != nil {
		return nil, fmt.Errorf("open sqlite: %w", err)
	}

	sqlDB, err := db.DB()
	if err != nil {
		return nil, err
	}
	sqlDB.SetMaxOpenConns(1)
	sqlDB.SetMaxIdleConns(1)
	sqlDB.SetConnMaxLifetime(0)
	sqlDB.SetConnMaxIdleTime(0)

	if err := Migrate(db); err != nil {
		return nil, err
	}
	return db, nil
}

func Migrate(db *gorm.DB) error {
	err := db.AutoMigrate(
		&models.Product{},
		&models.InventoryHistory{},
		&models.Invoice{},
		&models.InvoiceItem{},
		&models.User{},
	)
	if err != nil {
		return fmt.Errorf("migrate schema: %w", err)
	}
	log.Println("✅ Database Schema Synced!")
	return nil
}
