package main

import (
	"log"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/yuelin-lee/mentorhub/pkg/mentorhub/auth"
	"github.com/yuelin-lee/mentorhub/pkg/mentorhub/config"
	"github.com/yuelin-lee/mentorhub/pkg/mentorhub/database"
	"github.com/yuelin-lee/mentorhub/pkg/mentorhub/groups"
	"github.com/yuelin-lee/mentorhub/pkg/mentorhub/mail"
	"github.com/yuelin-lee/mentorhub/pkg/mentorhub/meeting"
	"github.com/yuelin-lee/mentorhub/pkg/mentorhub/models"
	"github.com/yuelin-lee/mentorhub/pkg/mentorhub/monitor"
	"github.com/yuelin-lee/mentorhub/pkg/mentorhub/partnerships"
	"github.com/yuelin-lee/mentorhub/pkg/mentorhub/transcripts"
	"go.uber.org/zap"
)

// @title MentorHub API
// @version 1.0
// @description Coordination backend for mentoring groups: passwordless auth, group and partnership management, cloud meeting scheduling, and transcript sync.

// @host localhost:8080
// @BasePath /api

// @securityDefinitions.apikey BearerAuth
// @in header
// @name Authorization
// @description JWT session token. Format: "Bearer {token}"

func main() {
	cfg, err := config.Load()
	if err != nil {
		log.Fatalf("Failed to load configuration: %v", err)
	}

	logger, err := zap.NewProduction()
	if err != nil {
		log.Fatalf("Failed to create logger: %v", err)
	}
	defer logger.Sync()

	auth.SetSecret(cfg.JWTSecret)

	if cfg.SentryDSN != "" {
		if err := monitor.Init(cfg.SentryDSN, "production"); err != nil {
			logger.Fatal("Failed to init error monitoring", zap.Error(err))
		}
		defer monitor.Flush(2 * time.Second)
	}

	// Connect to database
	if err := database.Connect(cfg.DatabasePath); err != nil {
		logger.Fatal("Failed to connect to database", zap.Error(err))
	}

	// Run auto-migrations
	if err := models.AutoMigrate(database.GetDB()); err != nil {
		logger.Fatal("Failed to run migrations", zap.Error(err))
	}
	logger.Info("Database migrations completed")

	// Promote the configured admin account if one is set
	if err := ensureAdminExists(cfg.AdminEmail); err != nil {
		logger.Fatal("Failed to ensure admin user exists", zap.Error(err))
	}

	// Outbound integrations. Each degrades gracefully when unconfigured so the
	// server still runs for local development.
	var sender mail.Sender
	if cfg.Mail.APIKey != "" {
		sender = mail.NewSendGridSender(cfg.Mail.APIKey, cfg.Mail.TemplateID, cfg.Mail.FromEmail, cfg.Mail.FromName)
	} else {
		sender = mail.NewLogSender(logger)
	}

	var meetingClient *meeting.Client
	if cfg.Meeting.SecretID != "" && cfg.Meeting.SecretKey != "" {
		var reporter monitor.Reporter = monitor.Nop{}
		if cfg.SentryDSN != "" {
			reporter = monitor.NewSentryReporter(logger)
		}
		meetingClient = meeting.NewClient(cfg.Meeting, reporter, logger)
	} else {
		logger.Warn("Meeting provider credentials not set, scheduling disabled")
	}

	// Set up Gin router
	r := gin.Default()

	// Health check endpoint
	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"status": "ok",
		})
	})

	// API routes
	api := r.Group("/api")
	{
		api.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "ok",
				"service": "mentorhub",
			})
		})

		// Public config projection
		configHandler := config.NewHandler(cfg)
		configHandler.RegisterRoutes(api)

		// Auth routes (public)
		authHandler := auth.NewHandler(database.GetDB(), sender, cfg.SignupsEnabled)
		authHandler.RegisterRoutes(api.Group("/auth"))

		// Groups routes (protected)
		var scheduler groups.MeetingScheduler
		if meetingClient != nil {
			scheduler = meetingClient
		}
		groupsHandler := groups.NewHandler(database.GetDB(), scheduler)
		groupsGroup := api.Group("/groups")
		groupsGroup.Use(auth.AuthMiddleware())
		groupsHandler.RegisterRoutes(groupsGroup)
		groupsHandler.RegisterMemberRoutes(groupsGroup)
		groupsHandler.RegisterMeetingRoutes(groupsGroup)

		// Transcripts routes (protected)
		var records transcripts.RecordSource
		if meetingClient != nil {
			records = meetingClient
		}
		transcriptsHandler := transcripts.NewHandler(database.GetDB(), records, logger)
		transcriptsHandler.RegisterRoutes(api.Group("", auth.AuthMiddleware()))

		// Admin routes (admin role required)
		adminGroup := api.Group("/admin")
		adminGroup.Use(auth.AuthMiddleware(), auth.RequireAdmin())
		authHandler.RegisterAdminRoutes(adminGroup)
		transcriptsHandler.RegisterAdminRoutes(adminGroup)

		partnershipsHandler := partnerships.NewHandler(database.GetDB())
		partnershipsHandler.RegisterRoutes(adminGroup)
	}

	logger.Info("Starting MentorHub server", zap.String("port", cfg.Port))
	if err := r.Run(":" + cfg.Port); err != nil {
		logger.Fatal("Failed to start server", zap.Error(err))
	}
}

// ensureAdminExists promotes the configured email to admin, creating the
// account if it does not exist yet. The user signs in with a verification
// code like everyone else; no default password is involved.
func ensureAdminExists(email string) error {
	if email == "" {
		return nil
	}
	db := database.GetDB()

	var user models.User
	err := db.Where("email = ?", email).First(&user).Error
	if err == nil {
		if user.Role == models.UserRoleAdmin {
			return nil
		}
		return db.Model(&user).Update("role", models.UserRoleAdmin).Error
	}

	user = models.User{
		Email: email,
		Name:  "Admin",
		Role:  models.UserRoleAdmin,
	}
	if err := db.Create(&user).Error; err != nil {
		return err
	}
	log.Printf("Created admin user: %s", email)
	return nil
}
