package main

import (
	"log"
	"os"

	"github.com/joho/godotenv"
	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"

	"tutordesk/internal/handlers"
	appMiddleware "tutordesk/internal/middleware"
	"tutordesk/internal/services"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found, using system environment")
	}

	// Initialize Firebase
	credPath := os.Getenv("FIREBASE_CREDENTIALS_PATH")
	if credPath == "" {
		credPath = "./firebase-service-account.json"
	}
	storageBucket := os.Getenv("FIREBASE_STORAGE_BUCKET")

	firebase, err := services.InitFirebase(credPath, storageBucket)
	if err != nil {
		log.Fatalf("Failed to initialize Firebase: %v", err)
	}

	// Initialize Database
	databaseURL := os.Getenv("DATABASE_URL")
	if databaseURL == "" {
		log.Fatal("DATABASE_URL not set")
	}
	db, err := services.InitDB(databaseURL)
	if err != nil {
		log.Fatalf("Failed to connect to database: %v", err)
	}
	if err := services.AutoMigrate(db); err != nil {
		log.Fatalf("Failed to run database migrations: %v", err)
	}

	// Initialize Redis cache
	cache, err := services.NewRedisCache(os.Getenv("REDIS_URL"))
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}
	defer cache.Close()

	// Storage for material/homework/library uploads
	storage, err := services.NewStorageService(firebase.App, storageBucket)
	if err != nil {
		log.Printf("Warning: storage initialization failed: %v", err)
		log.Println("Upload endpoints will not work until a bucket is configured")
	}

	// Services
	calendarService := services.NewCalendarService(db, cache)
	midtransService := services.NewMidtransService()
	paymentService := services.NewPaymentService(db, calendarService, midtransService)

	// Create Echo instance
	e := echo.New()

	// Middleware
	e.Use(middleware.Logger())
	e.Use(middleware.Recover())
	e.Use(middleware.CORS())
	e.HTTPErrorHandler = appMiddleware.JSONErrorHandler
	e.Validator = handlers.NewValidator()

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(firebase.Auth)
	calendarHandler := handlers.NewCalendarHandler(calendarService)
	classHandler := handlers.NewClassHandler(db, calendarService)
	userHandler := handlers.NewUserHandler(db)
	paymentHandler := handlers.NewPaymentHandler(db, paymentService)
	materialHandler := handlers.NewMaterialHandler(db)
	libraryHandler := handlers.NewLibraryHandler(db)
	planHandler := handlers.NewPlanHandler(db)
	uploadHandler := handlers.NewUploadHandler(storage)
	preferenceHandler := handlers.NewPreferenceHandler(db)

	// Public routes
	e.POST("/auth/login", authHandler.HandleLogin)
	e.POST("/auth/logout", authHandler.HandleLogout)

	// Gateway notifications carry no user credentials
	e.POST("/api/payments/callback", paymentHandler.GatewayCallback)

	// Protected API routes
	api := e.Group("/api")
	api.Use(appMiddleware.RequireAuth(firebase.Auth))

	// Calendar routes
	api.GET("/calendar", calendarHandler.GetCalendarData)
	api.GET("/classes/month", calendarHandler.GetClassesForMonth)

	// Class routes
	api.GET("/classes", classHandler.ListClasses)
	api.GET("/classes/:id", classHandler.GetClass)
	api.POST("/classes", classHandler.CreateClass)
	api.PUT("/classes/:id", classHandler.UpdateClass)
	api.DELETE("/classes/:id", classHandler.DeleteClass)

	// User routes
	api.GET("/users", userHandler.ListUsers)
	api.GET("/users/:id", userHandler.GetUser)
	api.POST("/users", userHandler.CreateUser)
	api.PUT("/users/:id", userHandler.UpdateUser)
	api.DELETE("/users/:id", userHandler.DeleteUser)

	// Payment routes
	api.GET("/payments/due", paymentHandler.GetDueForDay)
	api.GET("/payments", paymentHandler.ListPayments)
	api.POST("/payments", paymentHandler.RecordPayment)
	api.DELETE("/payments/:id", paymentHandler.DeletePayment)
	api.POST("/payments/pay", paymentHandler.InitiatePayment)

	// Material and homework routes
	api.GET("/materials", materialHandler.ListMaterials)
	api.POST("/materials", materialHandler.CreateMaterial)
	api.PUT("/materials/:id", materialHandler.UpdateMaterial)
	api.DELETE("/materials/:id", materialHandler.DeleteMaterial)
	api.GET("/homework", materialHandler.ListHomework)
	api.POST("/homework", materialHandler.CreateHomework)
	api.PUT("/homework/:id", materialHandler.UpdateHomework)
	api.DELETE("/homework/:id", materialHandler.DeleteHomework)

	// Library routes
	api.GET("/library", libraryHandler.ListItems)
	api.GET("/library/:id", libraryHandler.GetItem)
	api.POST("/library", libraryHandler.CreateItem)
	api.PUT("/library/:id", libraryHandler.UpdateItem)
	api.DELETE("/library/:id", libraryHandler.DeleteItem)

	// Class plan and note routes
	api.GET("/class-plans", planHandler.ListPlans)
	api.POST("/class-plans", planHandler.CreatePlan)
	api.PUT("/class-plans/:id", planHandler.UpdatePlan)
	api.DELETE("/class-plans/:id", planHandler.DeletePlan)
	api.GET("/notes", planHandler.ListNotes)
	api.POST("/notes", planHandler.CreateNote)
	api.PUT("/notes/:id", planHandler.UpdateNote)
	api.DELETE("/notes/:id", planHandler.DeleteNote)

	// Upload route
	api.POST("/uploads", uploadHandler.Upload)

	// Notification preference routes
	api.GET("/preferences/:userId", preferenceHandler.GetPreference)
	api.PUT("/preferences/:userId", preferenceHandler.SetPreference)

	// Start server
	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Printf("Server starting on port %s", port)
	e.Logger.Fatal(e.Start(":" + port))
}
