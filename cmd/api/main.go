package main

import (
	_ "backend/api/swagger" // swagger docs
	"backend/internal/database"
	"backend/internal/handler"
	"backend/internal/middleware"
	"backend/internal/repository"
	"backend/internal/service"
	"backend/internal/websocket"
	"log"
	"os"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
)

// @title           Business Management API
// @version         1.0
// @description     Role-based backend for users, employees, orders, inventory, payroll and finance.
// @host            localhost:8080
// @BasePath        /api/v1
// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
func main() {
	if err := godotenv.Load("configs/.env"); err != nil {
		log.Println("No configs/.env file found or error loading it")
	}

	dbHost := os.Getenv("DB_HOST")
	dbPort := os.Getenv("DB_PORT")
	dbUser := os.Getenv("DB_USER")
	dbPassword := os.Getenv("DB_PASSWORD")
	dbName := os.Getenv("DB_NAME")
	dbSslMode := os.Getenv("DB_SSLMODE")

	if dbHost == "" {
		dbHost = "localhost"
	}
	if dbPort == "" {
		dbPort = "5432"
	}
	if dbUser == "" {
		dbUser = "postgres"
	}
	if dbPassword == "" {
		dbPassword = "postgres"
	}
	if dbName == "" {
		dbName = "postgres"
	}
	if dbSslMode == "" {
		dbSslMode = "disable"
	}

	dsn := "postgres://" + dbUser + ":" + dbPassword + "@" + dbHost + ":" + dbPort + "/" + dbName + "?sslmode=" + dbSslMode

	db, err := database.NewConnection(dsn)
	if err != nil {
		log.Fatalf("Database connection failed: %v", err)
	}
	log.Println("Connected to PostgreSQL successfully.")

	// WebSocket hub for live events (order created, stock low)
	wsHub := websocket.NewHub()
	go wsHub.Run()

	// Repositories
	txManager := repository.NewTransactionManager(db)
	userRepo := repository.NewUserRepository(db)
	employeeRepo := repository.NewEmployeeRepository(db)
	departmentRepo := repository.NewDepartmentRepository(db)
	customerRepo := repository.NewCustomerRepository(db)
	orderRepo := repository.NewOrderRepository(db)
	inventoryRepo := repository.NewInventoryRepository(db)
	payrollRepo := repository.NewPayrollRepository(db)
	rewardRepo := repository.NewRewardRepository(db)
	invoiceRepo := repository.NewInvoiceRepository(db)
	expenseRepo := repository.NewExpenseRepository(db)
	auditRepo := repository.NewAuditRepository(db)
	notificationRepo := repository.NewNotificationRepository(db)
	reportRepo := repository.NewReportRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, employeeRepo, auditRepo, txManager, middleware.GetJWTSecret())
	userService := service.NewUserService(userRepo, auditRepo, txManager)
	employeeService := service.NewEmployeeService(employeeRepo, userRepo, departmentRepo, auditRepo, txManager)
	departmentService := service.NewDepartmentService(departmentRepo, employeeRepo, auditRepo, txManager)
	customerService := service.NewCustomerService(customerRepo, auditRepo, txManager)
	orderService := service.NewOrderService(orderRepo, customerRepo, inventoryRepo, employeeRepo, auditRepo, txManager, wsHub)
	inventoryService := service.NewInventoryService(inventoryRepo, userRepo, notificationRepo, auditRepo, txManager, wsHub)
	payrollService := service.NewPayrollService(payrollRepo, employeeRepo, auditRepo, txManager)
	rewardService := service.NewRewardService(rewardRepo, employeeRepo, auditRepo, txManager)
	invoiceService := service.NewInvoiceService(invoiceRepo, orderRepo, auditRepo, txManager)
	expenseService := service.NewExpenseService(expenseRepo, departmentRepo, auditRepo, txManager)
	reportService := service.NewReportService(reportRepo)
	notificationService := service.NewNotificationService(notificationRepo)
	auditService := service.NewAuditService(auditRepo)

	// Handlers
	authHandler := handler.NewAuthHandler(authService)
	userHandler := handler.NewUserHandler(userService)
	employeeHandler := handler.NewEmployeeHandler(employeeService)
	departmentHandler := handler.NewDepartmentHandler(departmentService)
	customerHandler := handler.NewCustomerHandler(customerService)
	orderHandler := handler.NewOrderHandler(orderService)
	inventoryHandler := handler.NewInventoryHandler(inventoryService)
	payrollHandler := handler.NewPayrollHandler(payrollService)
	rewardHandler := handler.NewRewardHandler(rewardService)
	invoiceHandler := handler.NewInvoiceHandler(invoiceService)
	expenseHandler := handler.NewExpenseHandler(expenseService)
	reportHandler := handler.NewReportHandler(reportService)
	notificationHandler := handler.NewNotificationHandler(notificationService)
	auditHandler := handler.NewAuditHandler(auditService)

	router := gin.Default()

	// CORS configuration
	corsConfig := cors.DefaultConfig()
	corsConfig.AllowOrigins = []string{"http://localhost:5173", "http://127.0.0.1:5173", "http://localhost:5174"}
	corsConfig.AllowCredentials = true
	corsConfig.AllowHeaders = []string{"Origin", "Content-Length", "Content-Type", "Authorization", "Accept"}
	corsConfig.AllowMethods = []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"}
	router.Use(cors.New(corsConfig))

	// Swagger route
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "OK"})
	})

	// WebSocket endpoint
	router.GET("/ws", func(c *gin.Context) {
		websocket.ServeWs(wsHub, c, middleware.GetJWTSecret())
	})

	api := router.Group("/api/v1")
	authHandler.RegisterRoutes(api)
	userHandler.RegisterRoutes(api)
	employeeHandler.RegisterRoutes(api)
	departmentHandler.RegisterRoutes(api)
	customerHandler.RegisterRoutes(api)
	orderHandler.RegisterRoutes(api)
	inventoryHandler.RegisterRoutes(api)
	payrollHandler.RegisterRoutes(api)
	rewardHandler.RegisterRoutes(api)
	invoiceHandler.RegisterRoutes(api)
	expenseHandler.RegisterRoutes(api)
	reportHandler.RegisterRoutes(api)
	notificationHandler.RegisterRoutes(api)
	auditHandler.RegisterRoutes(api)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server listening on :%s", port)
	if err := router.Run(":" + port); err != nil {
		log.Fatalf("Server failed: %v", err)
	}
}
