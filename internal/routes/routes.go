package routes

import (
	"os"
	"path/filepath"
	"time"

	"stockmaster/internal/handlers"
	"stockmaster/internal/middleware"
	"stockmaster/internal/models"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

type Options struct {
	AllowedOrigins []string
	WebDir         string // built SPA; skipped when it has no index.html
}

func SetupRouter(h *handlers.Handlers, opts Options) *gin.Engine {
	r := gin.Default()

	origins := opts.AllowedOrigins
	if len(origins) == 0 {
		origins = []string{"http://localhost:5173"}
	}
	r.Use(cors.New(cors.Config{
		AllowOrigins:     origins,
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length", "Content-Disposition"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	r.GET("/health", handlers.Health)
	r.POST("/login", h.Login)

	admin := string(models.RoleAdmin)
	manager := string(models.RoleManager)

	// --- PROTECTED ROUTES ---
	api := r.Group("/api")
	api.Use(middleware.AuthMiddleware(h.Issuer))
	{
		api.POST("/logout", h.Logout)
		api.GET("/system/status", h.GetSystemStatus)

		api.GET("/products", h.ListProducts)
		api.GET("/products/:id", h.GetProduct)

		stock := api.Group("/products", middleware.RequireRole(admin, manager))
		{
			stock.POST("", h.CreateProduct)
			stock.PUT("/:id", h.UpdateProduct)
			stock.PATCH("/:id", h.UpdateProduct)
			stock.DELETE("/:id", h.DeleteProduct)
			stock.POST("/:id/adjust", h.AdjustStock)
		}

		api.GET("/cart", h.GetCart)
		api.POST("/cart/items", h.AddCartItem)
		api.PATCH("/cart/items/:productId", h.UpdateCartItem)
		api.DELETE("/cart/items/:productId", h.RemoveCartItem)
		api.POST("/cart/checkout", h.CheckoutCart)

		api.GET("/invoices", h.ListInvoices)
		api.GET("/invoices/export", h.ExportInvoices)
		api.GET("/invoices/:id", h.GetInvoice)

		api.GET("/history", h.ListHistory)
		api.GET("/history/export", h.ExportHistory)

		api.GET("/dashboard", h.Dashboard)
		api.GET("/reports/sales", h.SalesReport)
		api.GET("/reports/valuation", h.StockValuation)

		// ADMIN ONLY
		adminOnly := api.Group("", middleware.RequireRole(admin))
		{
			adminOnly.GET("/users", h.ListUsers)
			adminOnly.GET("/users/:id", h.GetUser)
			adminOnly.POST("/users", h.CreateUser)
			adminOnly.PUT("/users/:id", h.UpdateUser)
			adminOnly.DELETE("/users/:id", h.DeleteUser)

			adminOnly.POST("/ask", h.AskAI)
		}
	}

	serveSPA(r, opts.WebDir)
	return r
}

// serveSPA serves the built frontend. Unknown paths get index.html so the
// client router can handle a refresh on e.g. /dashboard.
func serveSPA(r *gin.Engine, dir string) {
	if dir == "" {
		return
	}
	index := filepath.Join(dir, "index.html")
	if _, err := os.Stat(index); err != nil {
		return
	}

	r.Static("/assets", filepath.Join(dir, "assets"))
	r.NoRoute(func(c *gin.Context) {
		c.File(index)
	})
}
