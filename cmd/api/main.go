package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-materials-ledger/internal/handler"
	"go-materials-ledger/internal/middleware"
	"go-materials-ledger/internal/model"
	"go-materials-ledger/internal/repository"
	"go-materials-ledger/internal/service"
	"go-materials-ledger/internal/ws"
	"go-materials-ledger/pkg/database"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/cors"
	"github.com/gofiber/fiber/v2/middleware/logger"
	"github.com/gofiber/fiber/v2/middleware/recover"
	"github.com/joho/godotenv"
	"gorm.io/gorm"
)

func main() {
	// 1. Load Env
	if err := godotenv.Load(); err != nil {
		log.Println("Warning: .env file not found")
	}

	// 2. Setup Database
	db := database.ConnectDB()
	// Auto Migrate (Hati-hati di production, sebaiknya pakai tools migrasi terpisah)
	db.AutoMigrate(
		&model.Product{}, &model.StockMovement{}, &model.PriceLevel{},
		&model.Customer{}, &model.CustomerCredit{}, &model.PaymentTerm{},
		&model.User{}, &model.Privilege{}, &model.Role{},
	)

	// 3. Seed default privileges, roles, and admin user
	seedPrivilegesRolesAndAdmin(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	movementRepo := repository.NewStockMovementRepo(db)
	priceLevelRepo := repository.NewPriceLevelRepo(db)
	customerRepo := repository.NewCustomerRepo(db)
	creditRepo := repository.NewCustomerCreditRepo(db)
	termRepo := repository.NewPaymentTermRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	productService := service.NewProductService(productRepo, wsHub)
	stockService := service.NewStockService(productRepo, movementRepo, db, wsHub)
	creditService := service.NewCreditService(creditRepo, termRepo, customerRepo, db, wsHub)
	pricingService := service.NewPricingService(productRepo, priceLevelRepo)
	dashService := service.NewDashboardService(movementRepo, termRepo)
	authService := service.NewAuthService(userRepo, wsHub)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo)

	productHandler := handler.NewProductHandler(productService)
	stockHandler := handler.NewStockHandler(stockService)
	creditHandler := handler.NewCreditHandler(creditService)
	pricingHandler := handler.NewPricingHandler(pricingService, priceLevelRepo)
	customerHandler := handler.NewCustomerHandler(customerRepo)
	dashHandler := handler.NewDashboardHandler(dashService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleRepo)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Materials Ledger API v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New())    // CORS

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	auth := api.Group("/auth")
	auth.Post("/login", authHandler.Login)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)
	auth.Post("/heartbeat", middleware.RequireAuth(userRepo), authHandler.Heartbeat)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Dashboard
	protected.Get("/dashboard/stats", middleware.RequirePrivilege("dashboard:view"), dashHandler.GetDashboardStats)
	protected.Get("/dashboard/stock-movement", middleware.RequirePrivilege("dashboard:view"), dashHandler.GetStockMovement)

	// Products (catalog)
	protected.Get("/products", productHandler.GetProducts)
	protected.Get("/products/:id", productHandler.GetProduct)
	protected.Post("/products", middleware.RequirePrivilege("product:create"), productHandler.CreateProduct)
	protected.Put("/products/:id", middleware.RequirePrivilege("product:update"), productHandler.UpdateProduct)

	// Pricing (tiered price lookup + price level management)
	protected.Get("/products/:id/price", middleware.RequirePrivilege("price_level:view"), pricingHandler.GetPrice)
	protected.Get("/products/:id/price-levels", middleware.RequirePrivilege("price_level:view"), pricingHandler.GetPriceLevels)
	protected.Post("/products/:id/price-levels", middleware.RequirePrivilege("price_level:manage"), pricingHandler.CreatePriceLevel)
	protected.Put("/price-levels/:levelId", middleware.RequirePrivilege("price_level:manage"), pricingHandler.UpdatePriceLevel)
	protected.Delete("/price-levels/:levelId", middleware.RequirePrivilege("price_level:manage"), pricingHandler.DeactivatePriceLevel)

	// Stock ledger
	protected.Get("/stock/movements", middleware.RequirePrivilege("stock:view"), stockHandler.GetMovements)
	protected.Get("/stock/movements/:id", middleware.RequirePrivilege("stock:view"), stockHandler.GetMovement)
	protected.Get("/products/:id/stock", middleware.RequirePrivilege("stock:view"), stockHandler.GetProductStock)
	protected.Post("/stock/in", middleware.RequirePrivilege("stock:in"), stockHandler.StockIn)
	protected.Post("/stock/out", middleware.RequirePrivilege("stock:out"), stockHandler.StockOut)
	protected.Post("/products/:id/stock/adjust", middleware.RequirePrivilege("stock:adjust"), stockHandler.AdjustStock)
	protected.Post("/stock/reserve", middleware.RequirePrivilege("stock:reserve"), stockHandler.ReserveStock)
	protected.Delete("/stock/reserve/:orderId", middleware.RequirePrivilege("stock:reserve"), stockHandler.ReleaseReservation)

	// Customers & credit
	protected.Get("/customers", middleware.RequirePrivilege("customer:view"), customerHandler.GetCustomers)
	protected.Get("/customers/:id", middleware.RequirePrivilege("customer:view"), customerHandler.GetCustomer)
	protected.Post("/customers", middleware.RequirePrivilege("customer:create"), customerHandler.CreateCustomer)
	protected.Put("/customers/:id", middleware.RequirePrivilege("customer:update"), customerHandler.UpdateCustomer)
	protected.Post("/customers/:id/credit", middleware.RequirePrivilege("credit:manage"), creditHandler.GrantCredit)
	protected.Get("/customers/:id/credit", middleware.RequirePrivilege("credit:view"), creditHandler.GetCreditInfo)
	protected.Get("/customers/:id/credit/validate", middleware.RequirePrivilege("credit:view"), creditHandler.ValidateCredit)
	protected.Post("/customers/:id/credit/use", middleware.RequirePrivilege("credit:manage"), creditHandler.UseCredit)
	protected.Put("/customers/:id/credit/limit", middleware.RequirePrivilege("credit:manage"), creditHandler.UpdateCreditLimit)
	protected.Put("/customers/:id/credit/status", middleware.RequirePrivilege("credit:manage"), creditHandler.ToggleCreditStatus)
	protected.Get("/customers/:id/credit/overdue", middleware.RequirePrivilege("credit:view"), creditHandler.GetOverdueAmount)

	// Payment terms
	protected.Get("/payment-terms", middleware.RequirePrivilege("payment_term:view"), creditHandler.GetPaymentTerms)
	protected.Get("/payment-terms/:id", middleware.RequirePrivilege("payment_term:view"), creditHandler.GetPaymentTerm)
	protected.Post("/payment-terms/:id/payments", middleware.RequirePrivilege("credit:record_payment"), creditHandler.RecordPayment)
	protected.Post("/payment-terms/refresh-overdue", middleware.RequirePrivilege("credit:manage"), creditHandler.RefreshOverdue)

	// Users & roles
	protected.Get("/users", userHandler.GetUsers)
	protected.Get("/users/:id", userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege("user:update"), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege("user:delete"), userHandler.DeleteUser)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege("user:update_privilege"), userHandler.UpdateUserPrivileges)
	protected.Get("/roles", roleHandler.GetRoles)
	protected.Get("/privileges", func(c *fiber.Ctx) error {
		privileges, err := privilegeRepo.FindAll()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch privileges"})
		}
		return c.JSON(privileges)
	})

	// WebSocket Route
	app.Use("/ws", func(c *fiber.Ctx) error {
		if websocket.IsWebSocketUpgrade(c) {
			return c.Next()
		}
		return c.SendStatus(fiber.StatusUpgradeRequired)
	})
	app.Get("/ws", websocket.New(func(c *websocket.Conn) {
		wsHub.Register <- c
		defer func() { wsHub.Unregister <- c }()

		for {
			// Keep alive loop
			if _, _, err := c.ReadMessage(); err != nil {
				break
			}
		}
	}))

	// 8. Graceful Shutdown
	go func() {
		port := os.Getenv("PORT")
		if port == "" {
			port = "3000"
		}
		if err := app.Listen(":" + port); err != nil {
			log.Panic(err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedPrivilegesRolesAndAdmin creates default privileges, roles, and admin user if they don't exist
func seedPrivilegesRolesAndAdmin(db *gorm.DB) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	// 1. Seed privileges first
	if err := privilegeRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed privileges: %v", err)
	}

	// 2. Seed roles
	if err := roleRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed roles: %v", err)
	}

	// 3. Assign privileges to roles
	allPrivileges, _ := privilegeRepo.FindAll()

	// MASTER_ADMIN gets ALL privileges
	masterRole, err := roleRepo.FindByCode(model.RoleMasterAdmin)
	if err == nil && len(masterRole.Privileges) == 0 {
		db.Model(&masterRole).Association("Privileges").Replace(allPrivileges)
		log.Println("✅ MASTER_ADMIN role assigned all privileges")
	}

	// ADMIN gets limited privileges (exclude user management)
	adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
	if err == nil && len(adminRole.Privileges) == 0 {
		adminPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			// Exclude user creation, update, delete, and privilege update
			if p.Code != "user:create" && p.Code != "user:update" && p.Code != "user:delete" && p.Code != "user:update_privilege" {
				adminPrivileges = append(adminPrivileges, p)
			}
		}
		db.Model(&adminRole).Association("Privileges").Replace(adminPrivileges)
		log.Println("✅ ADMIN role assigned limited privileges")
	}

	// 4. Create default admin user with MASTER_ADMIN role
	_, err = userRepo.FindByEmail("admin@example.com")
	if err != nil {
		masterRole, _ := roleRepo.FindByCode(model.RoleMasterAdmin)

		admin := &model.User{
			Email:       "admin@example.com",
			FullName:    "Master Administrator",
			PhoneNumber: "",
			RoleID:      &masterRole.ID,
			IsActive:    true,
			Privileges:  masterRole.Privileges,
		}
		admin.CreatedBy = "system"
		admin.UpdatedBy = "system"

		if err := admin.SetPassword("admin123"); err != nil {
			log.Printf("Warning: Failed to hash admin password: %v", err)
			return
		}

		if err := userRepo.Create(admin); err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			log.Println("✅ Admin user created: admin@example.com / admin123 (MASTER_ADMIN)")
		}
	}
}
