package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/prayerly/prayerly-api/internal/config"
	"github.com/prayerly/prayerly-api/internal/handler"
	"github.com/prayerly/prayerly-api/internal/middleware"
	"github.com/prayerly/prayerly-api/internal/model"
	"github.com/prayerly/prayerly-api/internal/repository"
	"github.com/prayerly/prayerly-api/internal/service"
	"github.com/prayerly/prayerly-api/migrations"
	"github.com/prayerly/prayerly-api/pkg/auth"
	"github.com/prayerly/prayerly-api/pkg/mailer"
	"github.com/prayerly/prayerly-api/pkg/notification"
	"github.com/prayerly/prayerly-api/pkg/storage"
	"github.com/redis/go-redis/v9"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"
	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	"gorm.io/gorm/logger"
)

// @title           Prayerly API
// @version         1.0
// @description     Prayer journal with scheduled email and push reminders. Go, Gin, PostgreSQL, Redis, FCM.
// @termsOfService  http://swagger.io/terms/

// @contact.name   API Support
// @contact.email  support@prayerly.local

// @license.name  MIT
// @license.url   https://opensource.org/licenses/MIT

// @host      api.localhost
// @BasePath  /api/v1

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization

func main() {
	// ==================== Load Config ====================
	cfg := config.Load()
	log.Printf("🚀 Starting Prayerly API Server [env=%s]", cfg.App.Env)

	// ==================== Database (PostgreSQL) ====================
	gormLogger := logger.Default.LogMode(logger.Info)
	if cfg.App.Env == "production" {
		gormLogger = logger.Default.LogMode(logger.Warn)
	}

	db, err := gorm.Open(postgres.Open(cfg.DB.DSN()), &gorm.Config{
		Logger: gormLogger,
	})
	if err != nil {
		log.Fatalf("❌ Failed to connect to database: %v", err)
	}
	log.Println("✅ Connected to PostgreSQL")

	// ==================== Run Migrations ====================
	if err := migrations.Run(cfg.DB.URL()); err != nil {
		log.Printf("⚠️  Migration warning: %v", err)
		log.Println("📦 Falling back to GORM AutoMigrate...")
		// Fallback to AutoMigrate if migration files fail
		if err := db.AutoMigrate(
			&model.User{},
			&model.OTPCode{},
			&model.Prayer{},
			&model.Reflection{},
			&model.Reminder{},
			&model.ReminderLog{},
			&model.PushSubscription{},
		); err != nil {
			log.Fatalf("❌ Failed to migrate database: %v", err)
		}
	}
	log.Println("✅ Database migrated successfully")

	// ==================== Redis ====================
	rdb := redis.NewClient(&redis.Options{
		Addr:     cfg.Redis.Addr(),
		Password: cfg.Redis.Password,
		DB:       0,
	})

	if _, err := rdb.Ping(context.Background()).Result(); err != nil {
		log.Fatalf("❌ Failed to connect to Redis: %v", err)
	}
	log.Println("✅ Connected to Redis")

	// ==================== Email (SMTP / Mailpit) ====================
	mailClient := mailer.New(mailer.Config{
		Host:     cfg.SMTP.Host,
		Port:     cfg.SMTP.Port,
		Username: cfg.SMTP.Username,
		Password: cfg.SMTP.Password,
		From:     cfg.SMTP.From,
		FromName: cfg.SMTP.FromName,
	})
	log.Printf("📧 SMTP configured: %s:%s", cfg.SMTP.Host, cfg.SMTP.Port)

	// ==================== Push (Firebase FCM) ====================
	pushSender, err := notification.NewPushSender(cfg.Firebase.CredentialsFile)
	if err != nil {
		log.Printf("⚠️  FCM not available: %v", err)
	}

	// ==================== MinIO Storage ====================
	minioStorage, err := storage.NewMinIO(storage.Config{
		Endpoint:  cfg.MinIO.Endpoint,
		PublicURL: cfg.MinIO.PublicURL,
		AccessKey: cfg.MinIO.AccessKey,
		SecretKey: cfg.MinIO.SecretKey,
		Bucket:    cfg.MinIO.Bucket,
		UseSSL:    cfg.MinIO.UseSSL,
	})
	if err != nil {
		log.Printf("⚠️  MinIO not available: %v (avatar upload disabled)", err)
	}
	if minioStorage != nil {
		log.Println("✅ Connected to MinIO")
	}

	// ==================== Initialize Layers ====================
	// JWT Manager
	jwtManager := auth.NewJWTManager(cfg.JWT.Secret, cfg.JWT.Expiry)

	// Repositories
	userRepo := repository.NewUserRepository(db)
	otpRepo := repository.NewOTPRepository(db)
	prayerRepo := repository.NewPrayerRepository(db)
	reflectionRepo := repository.NewReflectionRepository(db)
	reminderRepo := repository.NewReminderRepository(db)
	pushSubRepo := repository.NewPushSubscriptionRepository(db)

	// Services
	authService := service.NewAuthService(userRepo, otpRepo, jwtManager, mailClient, rdb)
	prayerService := service.NewPrayerService(prayerRepo, reminderRepo, userRepo)
	reflectionService := service.NewReflectionService(reflectionRepo, prayerRepo)
	reminderService := service.NewReminderService(reminderRepo)
	pushService := service.NewPushService(pushSubRepo)
	dispatchService := service.NewDispatchService(reminderRepo, pushSubRepo, mailClient, pushSender, service.DispatchOptions{
		BatchTimeout: cfg.Cron.BatchTimeout,
		ClaimTTL:     cfg.Cron.ClaimTTL,
		PublicURL:    cfg.App.PublicURL,
	})

	// Handlers
	var avatarStorage storage.Storage
	if minioStorage != nil {
		avatarStorage = minioStorage
	}
	authHandler := handler.NewAuthHandler(authService, avatarStorage)
	prayerHandler := handler.NewPrayerHandler(prayerService)
	reflectionHandler := handler.NewReflectionHandler(reflectionService)
	reminderHandler := handler.NewReminderHandler(reminderService)
	pushHandler := handler.NewPushHandler(pushService)
	cronHandler := handler.NewCronHandler(dispatchService, cfg.Cron.Secret)

	// ==================== Gin Router ====================
	if cfg.App.Env == "production" {
		gin.SetMode(gin.ReleaseMode)
	}

	router := gin.Default()

	// Swagger configuration
	// Serve swagger.json at /docs/swagger.json to avoid conflict with /swagger/* wildcard
	router.StaticFile("/docs/swagger.json", "./docs/swagger.json")

	url := ginSwagger.URL("/docs/swagger.json")
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler, url))

	// Global middleware
	router.Use(middleware.CORSMiddleware(cfg.CORS.Origins))

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "prayerly-api",
			"time":    time.Now().Format(time.RFC3339),
		})
	})

	// ==================== API Routes ====================
	api := router.Group("/api/v1")
	{
		// Auth routes (public)
		authGroup := api.Group("/auth")
		{
			authGroup.POST("/register", authHandler.Register)
			authGroup.POST("/verify-otp", authHandler.VerifyOTP)
			authGroup.POST("/resend-otp", authHandler.ResendOTP)
			authGroup.POST("/login", authHandler.Login)
			authGroup.POST("/forgot-password", authHandler.ForgotPassword)
			authGroup.POST("/reset-password", authHandler.ResetPassword)
		}

		// Cron trigger (shared-secret auth, no user token)
		api.GET("/cron/send-reminders", cronHandler.SendReminders)

		// Protected routes
		protected := api.Group("")
		protected.Use(middleware.AuthMiddleware(jwtManager, rdb))
		{
			// Auth / profile
			protected.POST("/auth/logout", authHandler.Logout)
			protected.GET("/auth/profile", authHandler.GetProfile)
			protected.PUT("/auth/profile", authHandler.UpdateProfile)
			protected.GET("/auth/settings", authHandler.GetSettings)
			protected.PUT("/auth/settings", authHandler.UpdateSettings)
			protected.DELETE("/auth/account", authHandler.DeleteAccount)

			// Prayers
			protected.POST("/prayers", prayerHandler.Create)
			protected.GET("/prayers", prayerHandler.List)
			protected.POST("/prayers/bulk", prayerHandler.Bulk)
			protected.GET("/prayers/:id", prayerHandler.Get)
			protected.PUT("/prayers/:id", prayerHandler.Update)
			protected.DELETE("/prayers/:id", prayerHandler.Delete)

			// Reflections
			protected.POST("/reflections", reflectionHandler.Create)
			protected.GET("/reflections", reflectionHandler.List)
			protected.PUT("/reflections/:id", reflectionHandler.Update)
			protected.DELETE("/reflections/:id", reflectionHandler.Delete)

			// Reminders
			protected.GET("/reminders", reminderHandler.List)
			protected.GET("/reminders/:id", reminderHandler.Get)
			protected.PUT("/reminders/:id", reminderHandler.Update)
			protected.DELETE("/reminders/:id", reminderHandler.Delete)
			protected.GET("/reminders/:id/logs", reminderHandler.Logs)

			// Push subscriptions
			protected.POST("/push/subscribe", pushHandler.Subscribe)
			protected.POST("/push/unsubscribe", pushHandler.Unsubscribe)
			protected.GET("/push/status", pushHandler.Status)
		}
	}

	// ==================== Start Server ====================
	srv := &http.Server{
		Addr:    ":" + cfg.App.Port,
		Handler: router,
	}

	// Graceful shutdown
	go func() {
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			log.Fatalf("❌ Server failed: %v", err)
		}
	}()

	log.Printf("🌐 Prayerly API running on http://0.0.0.0:%s", cfg.App.Port)
	log.Printf("📋 API docs: http://0.0.0.0:%s/swagger/index.html", cfg.App.Port)
	log.Printf("⏰ Cron trigger: GET /api/v1/cron/send-reminders (Bearer CRON_SECRET)")
	log.Printf("📧 Mailpit UI: http://localhost:8025")

	// Wait for interrupt signal
	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit
	log.Println("🛑 Shutting down server...")

	// Give ongoing requests 5 seconds to complete
	shutdownCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := srv.Shutdown(shutdownCtx); err != nil {
		log.Fatalf("❌ Server forced to shutdown: %v", err)
	}

	log.Println("✅ Server exited gracefully")
}
