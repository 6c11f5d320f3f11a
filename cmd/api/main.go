package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-pos-backend/internal/handler"
	"go-pos-backend/internal/middleware"
	"go-pos-backend/internal/model"
	"go-pos-backend/internal/repository"
	"go-pos-backend/internal/service"
	"go-pos-backend/internal/ws"
	"go-pos-backend/pkg/database"
	"go-pos-backend/pkg/metrics"

	"github.com/gofiber/contrib/websocket"
	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
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
	if err := repository.Migrate(db); err != nil {
		log.Fatal("Failed to migrate database: ", err)
	}

	// 3. Seed default privileges, roles, and owner user
	seedPrivilegesRolesAndOwner(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	saleRepo := repository.NewSaleRepo(db)
	shiftRepo := repository.NewShiftRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)

	checkoutService := service.NewCheckoutService(productRepo, saleRepo, shiftRepo, db, wsHub)
	catalogService := service.NewCatalogService(productRepo, db, wsHub)
	shiftService := service.NewShiftService(shiftRepo, saleRepo)
	reportService := service.NewReportService(saleRepo, productRepo)
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo)

	checkoutMetrics := metrics.NewCheckoutMetrics()

	saleHandler := handler.NewSaleHandler(checkoutService, checkoutMetrics)
	productHandler := handler.NewProductHandler(catalogService)
	shiftHandler := handler.NewShiftHandler(shiftService)
	reportHandler := handler.NewReportHandler(reportService)
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	roleHandler := handler.NewRoleHandler(roleRepo)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "POS Backend v1.0",
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

	// ============ PROTECTED ROUTES ============
	// All routes below require authentication
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Product Routes
	protected.Get("/products", productHandler.GetProducts)
	protected.Get("/products/categories", productHandler.GetCategories)
	protected.Post("/products", middleware.RequirePrivilege("product:create"), productHandler.CreateProduct)
	protected.Put("/products/:id", middleware.RequirePrivilege("product:update"), productHandler.UpdateProduct)

	// Sale Routes (checkout is the core of the register)
	protected.Get("/sales", middleware.RequirePrivilege("sale:view"), saleHandler.GetSales)
	protected.Get("/sales/:id", middleware.RequirePrivilege("sale:view"), saleHandler.GetSale)
	protected.Get("/sales/:id/receipt", middleware.RequirePrivilege("sale:view"), saleHandler.GetReceipt)
	protected.Post("/sales", middleware.RequirePrivilege("sale:create"), saleHandler.CreateSale)

	// Shift Routes
	protected.Get("/shifts", middleware.RequirePrivilege("shift:view"), shiftHandler.GetShifts)
	protected.Get("/shifts/current", middleware.RequirePrivilege("shift:view"), shiftHandler.GetCurrentShift)
	protected.Post("/shifts/open", middleware.RequirePrivilege("shift:open"), shiftHandler.OpenShift)
	protected.Post("/shifts/close", middleware.RequirePrivilege("shift:close"), shiftHandler.CloseShift)

	// Report Routes
	protected.Get("/reports/summary", middleware.RequirePrivilege("report:view"), reportHandler.GetSalesSummary)
	protected.Get("/reports/top-products", middleware.RequirePrivilege("report:view"), reportHandler.GetTopProducts)
	protected.Get("/reports/low-stock", middleware.RequirePrivilege("report:view"), reportHandler.GetLowStock)
	protected.Get("/reports/sales/export", middleware.RequirePrivilege("report:export"), reportHandler.ExportSales)

	// User Management Routes
	protected.Get("/users", userHandler.GetUsers)
	protected.Get("/users/:id", userHandler.GetUser)
	protected.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)
	protected.Put("/users/:id", middleware.RequirePrivilege("user:update"), userHandler.UpdateUser)
	protected.Delete("/users/:id", middleware.RequirePrivilege("user:delete"), userHandler.DeleteUser)
	protected.Put("/users/:id/privileges", middleware.RequirePrivilege("user:update_privilege"), userHandler.UpdateUserPrivileges)

	// Role Routes
	protected.Get("/roles", roleHandler.GetRoles)

	// Privileges Route (list all available privileges)
	protected.Get("/privileges", func(c *fiber.Ctx) error {
		privileges, err := privilegeRepo.FindAll()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch privileges"})
		}
		return c.JSON(privileges)
	})

	// Metrics
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

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

	// Wait for interrupt signal to gracefully shutdown
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Shutting down server...")
	if err := app.Shutdown(); err != nil {
		log.Fatal("Server forced to shutdown:", err)
	}

	log.Println("Server exited")
}

// seedPrivilegesRolesAndOwner creates default privileges, roles, and the
// store owner user if they don't exist
func seedPrivilegesRolesAndOwner(db *gorm.DB) {
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

	// STORE_OWNER gets ALL privileges
	ownerRole, err := roleRepo.FindByCode(model.RoleStoreOwner)
	if err == nil && len(ownerRole.Privileges) == 0 {
		db.Model(&ownerRole).Association("Privileges").Replace(allPrivileges)
		log.Println("STORE_OWNER role assigned all privileges")
	}

	// WAREHOUSE_ADMIN: products, reports and register work, no user management
	warehouseRole, err := roleRepo.FindByCode(model.RoleWarehouseAdmin)
	if err == nil && len(warehouseRole.Privileges) == 0 {
		warehousePrivileges, _ := privilegeRepo.FindByCodes(model.WarehouseAdminPrivileges)
		db.Model(&warehouseRole).Association("Privileges").Replace(warehousePrivileges)
		log.Println("WAREHOUSE_ADMIN role assigned product and report privileges")
	}

	// SHOPKEEPER: register work only
	shopkeeperRole, err := roleRepo.FindByCode(model.RoleShopkeeper)
	if err == nil && len(shopkeeperRole.Privileges) == 0 {
		shopkeeperPrivileges, _ := privilegeRepo.FindByCodes(model.ShopkeeperPrivileges)
		db.Model(&shopkeeperRole).Association("Privileges").Replace(shopkeeperPrivileges)
		log.Println("SHOPKEEPER role assigned register privileges")
	}

	// 4. Create default owner user with STORE_OWNER role
	_, err = userRepo.FindByEmail("owner@example.com")
	if err != nil {
		ownerRole, _ := roleRepo.FindByCode(model.RoleStoreOwner)

		owner := &model.User{
			Email:       "owner@example.com",
			FullName:    "Store Owner",
			PhoneNumber: "",
			RoleID:      &ownerRole.ID,
			IsActive:    true,
			Privileges:  ownerRole.Privileges,
		}
		owner.CreatedBy = "system"
		owner.UpdatedBy = "system"

		if err := owner.SetPassword("owner123"); err != nil {
			log.Printf("Warning: Failed to hash owner password: %v", err)
			return
		}

		if err := userRepo.Create(owner); err != nil {
			log.Printf("Warning: Failed to create owner user: %v", err)
		} else {
			log.Println("Owner user created: owner@example.com / owner123 (STORE_OWNER)")
		}
	}
}
