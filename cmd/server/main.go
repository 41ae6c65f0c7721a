package main

import (
	"log"

	"stockmaster/internal/ai"
	"stockmaster/internal/auth"
	"stockmaster/internal/billing"
	"stockmaster/internal/config"
	"stockmaster/internal/database"
	"stockmaster/internal/events"
	"stockmaster/internal/handlers"
	"stockmaster/internal/inventory"
	"stockmaster/internal/models"
	"stockmaster/internal/pos"
	"stockmaster/internal/reports"
	"stockmaster/internal/routes"
	"stockmaster/internal/users"
	"stockmaster/internal/utils"

	"github.com/gin-gonic/gin"
	"github.com/shopspring/decimal"
)

func main() {
	cfg := config.Load()
	gin.SetMode(cfg.GinMode)

	// money goes out as JSON numbers, like every other figure
	decimal.MarshalJSONWithoutQuotes = true

	db, err := database.Connect(cfg)
	if err != nil {
		log.Fatal("Database failed to start: ", err)
	}
	if cfg.SeedDemo {
		if err := database.Seed(db); err != nil {
			log.Fatal("Seeding demo data failed: ", err)
		}
		log.Println("🌱 Demo catalogue loaded")
	}

	// --- Events: RabbitMQ when configured, otherwise dropped ---
	var publisher events.Publisher = events.Nop{}
	if cfg.RabbitMQURL != "" {
		amqp, err := events.NewAMQPPublisher(cfg.RabbitMQURL, cfg.RabbitMQExchange)
		if err != nil {
			log.Printf("⚠️ RabbitMQ unavailable, events disabled: %v", err)
		} else {
			defer amqp.Close()
			publisher = amqp
		}
	}
	_, eventsOn := publisher.(*events.AMQPPublisher)

	credential, err := auth.NewCredential(cfg.AdminEmail, cfg.AdminPassword, cfg.AdminName, string(models.RoleAdmin))
	if err != nil {
		log.Fatal("Login credential: ", err)
	}

	terminal := utils.TerminalID(cfg.TerminalID)
	ledger := inventory.NewLedger(db, inventory.WithPublisher(publisher))
	invoices := billing.NewStore(db)

	h := &handlers.Handlers{
		Ledger:     ledger,
		Carts:      pos.NewRegistry(ledger),
		Checkout:   pos.NewCheckout(ledger, invoices, pos.WithPublisher(publisher), pos.WithTerminal(terminal)),
		Invoices:   invoices,
		Users:      users.NewDirectory(db),
		Reports:    reports.NewService(db, reports.WithLowStockThreshold(cfg.LowStockThreshold)),
		Issuer:     auth.NewIssuer(cfg.JWTSecret, cfg.TokenTTL),
		Credential: credential,
		System: handlers.SystemInfo{
			TerminalID: terminal,
			Database:   db.Dialector.Name(),
			Events:     eventsOn,
		},
	}

	if cfg.GeminiAPIKey != "" {
		h.Agent = ai.NewAgent(cfg.GeminiAPIKey, ledger, invoices)
		h.System.Assistant = true
	} else {
		log.Println("🤖 GEMINI_API_KEY not set, assistant disabled")
	}

	r := routes.SetupRouter(h, routes.Options{
		AllowedOrigins: cfg.AllowedOrigins,
		WebDir:         cfg.WebDir,
	})

	log.Printf("🚀 Register %s starting on :%s", terminal, cfg.Port)
	if err := r.Run(":" + cfg.Port); err != nil {
		log.Fatal("Server failed to start:", err)
	}
}
