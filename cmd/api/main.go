package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-farmbasket/internal/config"
	"go-farmbasket/internal/handler"
	"go-farmbasket/internal/middleware"
	"go-farmbasket/internal/model"
	"go-farmbasket/internal/repository"
	"go-farmbasket/internal/service"
	"go-farmbasket/internal/ws"
	"go-farmbasket/pkg/database"

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
	cfg := config.Load()
	jwtSecret := []byte(cfg.JWTSecret)

	// 2. Setup Database
	db := database.ConnectDB(cfg.DatabaseDSN)
	db.AutoMigrate(
		&model.User{}, &model.Address{}, &model.Farm{},
		&model.Category{}, &model.Product{}, &model.PendingProduct{},
		&model.HarvestBatch{}, &model.Order{}, &model.OrderItem{},
	)

	// 3. Seed default categories and admin user
	seedCategoriesAndAdmin(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()
	defer wsHub.Stop()

	// 5. Dependency Injection (Wiring Layers)
	userRepo := repository.NewUserRepo(db)
	addressRepo := repository.NewAddressRepo(db)
	farmRepo := repository.NewFarmRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	productRepo := repository.NewProductRepo(db)
	pendingRepo := repository.NewPendingProductRepo(db)
	batchRepo := repository.NewBatchRepo(db)
	orderRepo := repository.NewOrderRepo(db)

	authService := service.NewAuthService(userRepo, db, jwtSecret, cfg.AdminInviteCode)
	userService := service.NewUserService(userRepo, addressRepo)
	farmService := service.NewFarmService(farmRepo)
	catalogService := service.NewCatalogService(categoryRepo, productRepo, pendingRepo, farmRepo, db)
	batchService := service.NewBatchService(batchRepo, farmRepo, db, wsHub)
	importService := service.NewBatchImportService(productRepo, farmRepo, batchService)
	orderService := service.NewOrderService(orderRepo, batchRepo, addressRepo, farmRepo, db, wsHub, cfg.DeliveryFee)
	dashService := service.NewDashboardService(orderRepo)

	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	farmHandler := handler.NewFarmHandler(farmService)
	catalogHandler := handler.NewCatalogHandler(catalogService)
	batchHandler := handler.NewBatchHandler(batchService, importService)
	orderHandler := handler.NewOrderHandler(orderService)
	dashHandler := handler.NewDashboardHandler(dashService)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "FarmBasket API v1.0",
	})

	// Middleware
	app.Use(logger.New())  // Logging request
	app.Use(recover.New()) // Panic recovery
	app.Use(cors.New(cors.Config{
		AllowOrigins:     cfg.CORSOrigins,
		AllowCredentials: true,
	}))

	authLimiter := middleware.NewRateLimiter(10, 5)
	defer authLimiter.Stop()

	// 7. Routes
	api := app.Group("/api/v1")

	// ============ PUBLIC ROUTES ============
	// Auth (rate limited, credential endpoints are brute-force targets)
	auth := api.Group("/auth", authLimiter.Handler())
	auth.Post("/register", authHandler.Register)
	auth.Post("/login", authHandler.Login)
	auth.Post("/logout", authHandler.Logout)

	// Storefront browsing needs no account
	api.Get("/categories", catalogHandler.ListCategories)
	api.Get("/products", catalogHandler.ListProducts)
	api.Get("/products/:slug", catalogHandler.GetProduct)
	api.Get("/batches", batchHandler.ListBatches)
	api.Get("/batches/:id", batchHandler.GetBatch)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(jwtSecret, userRepo))

	protected.Get("/auth/me", authHandler.Me)
	protected.Get("/profile", userHandler.GetProfile)
	protected.Patch("/profile", userHandler.UpdateProfile)

	// Addresses (any authenticated user, ownership enforced in service)
	protected.Get("/addresses", userHandler.ListAddresses)
	protected.Post("/addresses", userHandler.CreateAddress)
	protected.Patch("/addresses/:id", userHandler.UpdateAddress)
	protected.Delete("/addresses/:id", userHandler.DeleteAddress)

	// Orders (role-aware: customers place/cancel, farmers ship, admins manage)
	protected.Post("/orders", middleware.RequireRole(model.RoleCustomer), orderHandler.PlaceOrder)
	protected.Get("/orders", orderHandler.ListOrders)
	protected.Get("/orders/:id", orderHandler.GetOrder)
	protected.Patch("/orders/:id/status", orderHandler.UpdateStatus)

	// Farmer portal
	farmer := protected.Group("", middleware.RequireRole(model.RoleFarmer))
	farmer.Get("/farms/me", farmHandler.GetMyFarm)
	farmer.Patch("/farms/me", farmHandler.UpdateMyFarm)
	farmer.Get("/farms/me/batches", batchHandler.ListMyBatches)
	farmer.Post("/batches", batchHandler.CreateBatch)
	farmer.Patch("/batches/:id", batchHandler.UpdateBatch)
	farmer.Delete("/batches/:id", batchHandler.DeleteBatch)
	farmer.Post("/batches/import", batchHandler.ImportBatches)
	farmer.Post("/pending-products", catalogHandler.SubmitPendingProduct)

	// Review queue is shared: admins see all open, farmers see their own
	protected.Get("/pending-products",
		middleware.RequireRole(model.RoleFarmer, model.RoleAdmin),
		catalogHandler.ListPendingProducts)

	// Admin dashboard
	admin := protected.Group("", middleware.RequireRole(model.RoleAdmin))
	admin.Post("/categories", catalogHandler.CreateCategory)
	admin.Post("/products", catalogHandler.CreateProduct)
	admin.Patch("/products/:id", catalogHandler.UpdateProduct)
	admin.Delete("/products/:id", catalogHandler.DeleteProduct)
	admin.Post("/pending-products/:id/approve", catalogHandler.ApprovePendingProduct)
	admin.Post("/pending-products/:id/reject", catalogHandler.RejectPendingProduct)
	admin.Get("/farms", farmHandler.ListFarms)
	admin.Patch("/farms/:id/verify", farmHandler.VerifyFarm)
	admin.Get("/users", userHandler.ListUsers)
	admin.Get("/dashboard/stats", dashHandler.GetStats)
	admin.Get("/dashboard/sales", dashHandler.GetSalesMovement)

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
		if err := app.Listen(":" + cfg.HTTPPort); err != nil {
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

// seedCategoriesAndAdmin creates the default categories and a bootstrap admin
// user if they don't exist
func seedCategoriesAndAdmin(db *gorm.DB) {
	categoryRepo := repository.NewCategoryRepo(db)
	userRepo := repository.NewUserRepo(db)

	if err := categoryRepo.SeedDefaults(); err != nil {
		log.Printf("Warning: Failed to seed categories: %v", err)
	}

	email := os.Getenv("ADMIN_EMAIL")
	if email == "" {
		email = "admin@farmbasket.local"
	}
	if _, err := userRepo.FindByEmail(email); err == nil {
		return
	}

	password := os.Getenv("ADMIN_PASSWORD")
	if password == "" {
		password = "admin123"
	}

	admin := &model.User{
		Email:    email,
		FullName: "Administrator",
		Role:     model.RoleAdmin,
		IsActive: true,
	}
	if err := admin.SetPassword(password); err != nil {
		log.Printf("Warning: Failed to hash admin password: %v", err)
		return
	}
	if err := userRepo.Create(admin); err != nil {
		log.Printf("Warning: Failed to create admin user: %v", err)
	} else {
		log.Printf("✅ Admin user created: %s", email)
	}
}
