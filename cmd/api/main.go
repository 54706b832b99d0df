package main

import (
	"log"
	"os"
	"os/signal"
	"syscall"

	"go-store-api/internal/handler"
	"go-store-api/internal/middleware"
	"go-store-api/internal/model"
	"go-store-api/internal/notify"
	"go-store-api/internal/repository"
	"go-store-api/internal/service"
	"go-store-api/internal/ws"
	"go-store-api/pkg/database"

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
	db.AutoMigrate(
		&model.Category{}, &model.Supplier{}, &model.Product{}, &model.ProductVariant{},
		&model.Cart{}, &model.CartItem{},
		&model.Order{}, &model.OrderItem{},
		&model.Coupon{},
		&model.Review{}, &model.WishlistItem{}, &model.NewsletterSubscriber{},
		&model.User{}, &model.Privilege{}, &model.Role{}, &model.ShippingAddress{},
		&model.SiteSettings{},
	)

	// 3. Seed default privileges, roles, admin user, and settings
	seedDefaults(db)

	// 4. Setup WebSocket Hub
	wsHub := ws.NewHub()
	go wsHub.Run()

	// 5. Dependency Injection (Wiring Layers)
	productRepo := repository.NewProductRepo(db)
	categoryRepo := repository.NewCategoryRepo(db)
	cartRepo := repository.NewCartRepo(db)
	orderRepo := repository.NewOrderRepo(db)
	stockRepo := repository.NewStockRepo(db)
	couponRepo := repository.NewCouponRepo(db)
	reviewRepo := repository.NewReviewRepo(db)
	addressRepo := repository.NewAddressRepo(db)
	wishlistRepo := repository.NewWishlistRepo(db)
	newsletterRepo := repository.NewNewsletterRepo(db)
	settingsRepo := repository.NewSettingsRepo(db)
	userRepo := repository.NewUserRepo(db)
	privilegeRepo := repository.NewPrivilegeRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	txRunner := repository.NewTxRunner(db)

	notifier := notify.NewNotifierFromEnv()

	pricingService := service.NewPricingService(couponRepo)
	catalogService := service.NewCatalogService(productRepo, categoryRepo, reviewRepo, db, wsHub)
	cartService := service.NewCartService(cartRepo, productRepo, stockRepo, txRunner)
	checkoutService := service.NewCheckoutService(cartRepo, orderRepo, stockRepo, couponRepo, settingsRepo, pricingService, txRunner, notifier, wsHub)
	reviewService := service.NewReviewService(reviewRepo, productRepo)
	authService := service.NewAuthService(userRepo)
	userService := service.NewUserService(userRepo, privilegeRepo, roleRepo)
	dashService := service.NewDashboardService(orderRepo)

	catalogHandler := handler.NewCatalogHandler(catalogService, categoryRepo)
	cartHandler := handler.NewCartHandler(cartService)
	checkoutHandler := handler.NewCheckoutHandler(checkoutService)
	reviewHandler := handler.NewReviewHandler(reviewService)
	accountHandler := handler.NewAccountHandler(addressRepo, wishlistRepo, newsletterRepo)
	authHandler := handler.NewAuthHandler(authService, cartService)
	userHandler := handler.NewUserHandler(userService)
	dashHandler := handler.NewDashboardHandler(dashService)
	couponHandler := handler.NewCouponHandler(couponRepo)
	settingsHandler := handler.NewSettingsHandler(settingsRepo)

	// 6. Setup Fiber
	app := fiber.New(fiber.Config{
		AppName: "Storefront API v1.0",
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
	auth.Post("/register", authHandler.Register)
	auth.Post("/reset-password", authHandler.ResetPassword)
	auth.Post("/validate-token", authHandler.ValidateToken)

	// Storefront catalog (no authentication required)
	api.Get("/products", catalogHandler.GetProducts)
	api.Get("/products/featured", catalogHandler.GetFeatured)
	api.Get("/products/:slug", catalogHandler.GetProduct)
	api.Get("/categories", catalogHandler.GetCategories)

	// Guest order tracking
	api.Get("/orders/track", checkoutHandler.TrackOrder)

	// Newsletter
	api.Post("/newsletter/subscribe", accountHandler.SubscribeNewsletter)
	api.Post("/newsletter/unsubscribe", accountHandler.UnsubscribeNewsletter)

	// Cart and checkout work for both guests (X-Session-Key) and users
	store := api.Group("", middleware.OptionalAuth(userRepo))
	store.Get("/cart", cartHandler.GetCart)
	store.Post("/cart/items", cartHandler.AddItem)
	store.Put("/cart/items/:itemId", cartHandler.UpdateItem)
	store.Delete("/cart/items/:itemId", cartHandler.RemoveItem)
	store.Delete("/cart", cartHandler.ClearCart)
	store.Post("/checkout/quote", checkoutHandler.Quote)
	store.Post("/checkout", checkoutHandler.Checkout)

	// ============ PROTECTED ROUTES ============
	protected := api.Group("", middleware.RequireAuth(userRepo))

	// Customer account
	protected.Get("/my/orders", checkoutHandler.MyOrders)
	protected.Get("/my/orders/:id", checkoutHandler.GetMyOrder)
	protected.Post("/my/orders/:id/cancel", checkoutHandler.CancelMyOrder)
	protected.Get("/my/reviews", reviewHandler.MyReviews)
	protected.Post("/products/:productId/reviews", reviewHandler.AddReview)
	protected.Put("/reviews/:id", reviewHandler.UpdateReview)
	protected.Delete("/reviews/:id", reviewHandler.DeleteReview)
	protected.Get("/my/addresses", accountHandler.ListAddresses)
	protected.Post("/my/addresses", accountHandler.CreateAddress)
	protected.Put("/my/addresses/:id", accountHandler.UpdateAddress)
	protected.Delete("/my/addresses/:id", accountHandler.DeleteAddress)
	protected.Post("/my/addresses/:id/default", accountHandler.SetDefaultAddress)
	protected.Get("/my/wishlist", accountHandler.GetWishlist)
	protected.Post("/my/wishlist/:productId", accountHandler.ToggleWishlist)

	// ============ ADMIN ROUTES ============
	admin := api.Group("/admin", middleware.RequireAuth(userRepo))

	// Dashboard
	admin.Get("/dashboard/stats", middleware.RequirePrivilege("dashboard:view"), dashHandler.GetStats)
	admin.Get("/dashboard/sales-movement", middleware.RequirePrivilege("dashboard:view"), dashHandler.GetSalesMovement)

	// Catalog management
	admin.Post("/products", middleware.RequirePrivilege("product:create"), catalogHandler.CreateProduct)
	admin.Put("/products/:id", middleware.RequirePrivilege("product:update"), catalogHandler.UpdateProduct)
	admin.Post("/products/:id/variants", middleware.RequirePrivilege("product:update"), catalogHandler.CreateVariant)
	admin.Post("/categories", middleware.RequirePrivilege("category:manage"), catalogHandler.CreateCategory)
	admin.Put("/categories/:id", middleware.RequirePrivilege("category:manage"), catalogHandler.UpdateCategory)
	admin.Delete("/categories/:id", middleware.RequirePrivilege("category:manage"), catalogHandler.DeleteCategory)

	// Order management
	admin.Get("/orders", middleware.RequirePrivilege("order:view"), checkoutHandler.ListOrders)
	admin.Get("/orders/:id", middleware.RequirePrivilege("order:view"), checkoutHandler.GetOrder)
	admin.Put("/orders/:id/status", middleware.RequirePrivilege("order:update"), checkoutHandler.UpdateOrderStatus)
	admin.Post("/orders/:id/cancel", middleware.RequirePrivilege("order:cancel"), checkoutHandler.CancelOrder)

	// Coupons
	admin.Get("/coupons", middleware.RequirePrivilege("coupon:manage"), couponHandler.ListCoupons)
	admin.Get("/coupons/:id", middleware.RequirePrivilege("coupon:manage"), couponHandler.GetCoupon)
	admin.Post("/coupons", middleware.RequirePrivilege("coupon:manage"), couponHandler.CreateCoupon)
	admin.Put("/coupons/:id", middleware.RequirePrivilege("coupon:manage"), couponHandler.UpdateCoupon)
	admin.Delete("/coupons/:id", middleware.RequirePrivilege("coupon:manage"), couponHandler.DeleteCoupon)

	// Review moderation
	admin.Get("/reviews/pending", middleware.RequirePrivilege("review:moderate"), reviewHandler.ListPending)
	admin.Post("/reviews/:id/approve", middleware.RequirePrivilege("review:moderate"), reviewHandler.Approve)

	// Settings
	admin.Get("/settings", settingsHandler.GetSettings)
	admin.Put("/settings", middleware.RequirePrivilege("settings:update"), settingsHandler.UpdateSettings)

	// User management
	admin.Get("/users", middleware.RequirePrivilege("user:view"), userHandler.GetAllUsers)
	admin.Get("/users/:id", middleware.RequirePrivilege("user:view"), userHandler.GetUser)
	admin.Post("/users", middleware.RequirePrivilege("user:create"), userHandler.CreateUser)
	admin.Put("/users/:id", middleware.RequirePrivilege("user:update"), userHandler.UpdateUser)
	admin.Delete("/users/:id", middleware.RequirePrivilege("user:delete"), userHandler.DeleteUser)
	admin.Put("/users/:id/privileges", middleware.RequirePrivilege("user:update_privilege"), userHandler.UpdateUserPrivileges)

	// Roles and privileges
	admin.Get("/roles", func(c *fiber.Ctx) error {
		roles, err := roleRepo.FindAll()
		if err != nil {
			return c.Status(500).JSON(fiber.Map{"error": "Failed to fetch roles"})
		}
		return c.JSON(roles)
	})
	admin.Get("/privileges", func(c *fiber.Ctx) error {
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

// seedDefaults creates default privileges, roles, the initial admin user and
// the site settings row if they don't exist.
func seedDefaults(db *gorm.DB) {
	privilegeRepo := repository.NewPrivilegeRepo(db)
	userRepo := repository.NewUserRepo(db)
	roleRepo := repository.NewRoleRepo(db)
	settingsRepo := repository.NewSettingsRepo(db)

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
		if err := roleRepo.ReplacePrivileges(masterRole, allPrivileges); err != nil {
			log.Printf("Warning: Failed to assign MASTER_ADMIN privileges: %v", err)
		}
	}

	// ADMIN gets everything except user management
	adminRole, err := roleRepo.FindByCode(model.RoleAdmin)
	if err == nil && len(adminRole.Privileges) == 0 {
		adminPrivileges := []model.Privilege{}
		for _, p := range allPrivileges {
			if p.Code != "user:create" && p.Code != "user:update" && p.Code != "user:delete" && p.Code != "user:update_privilege" {
				adminPrivileges = append(adminPrivileges, p)
			}
		}
		if err := roleRepo.ReplacePrivileges(adminRole, adminPrivileges); err != nil {
			log.Printf("Warning: Failed to assign ADMIN privileges: %v", err)
		}
	}

	// 4. Create default admin user with MASTER_ADMIN role
	if _, err := userRepo.FindByEmail("admin@example.com"); err != nil {
		masterRole, _ := roleRepo.FindByCode(model.RoleMasterAdmin)

		admin := &model.User{
			Email:    "admin@example.com",
			FullName: "Master Administrator",
			RoleID:   &masterRole.ID,
			IsActive: true,
		}
		if err := admin.SetPassword("admin123"); err != nil {
			log.Printf("Warning: Failed to hash admin password: %v", err)
			return
		}
		if err := userRepo.Create(admin); err != nil {
			log.Printf("Warning: Failed to create admin user: %v", err)
		} else {
			log.Println("Admin user created: admin@example.com / admin123 (MASTER_ADMIN)")
		}
	}

	// 5. Ensure the settings singleton exists
	if _, err := settingsRepo.Get(); err != nil {
		log.Printf("Warning: Failed to initialize site settings: %v", err)
	}
}
