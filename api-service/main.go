package main

import (
	"log"
	"net/http"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	swaggerFiles "github.com/swaggo/files"
	ginSwagger "github.com/swaggo/gin-swagger"

	"auditgate-backend/api-service/handlers"
	"auditgate-backend/api-service/middleware"
	"auditgate-backend/shared/config"
	"auditgate-backend/shared/database"
	"auditgate-backend/shared/utils/cache"

	_ "auditgate-backend/docs"
)

func main() {
	// Load configuration
	config.LoadConfig()
	cfg := config.GetConfig()

	// Initialize database
	if err := database.InitDatabase(); err != nil {
		log.Fatalf("Failed to initialize database: %v", err)
	}
	defer database.CloseDatabase()

	// Seed platform admin and system templates
	if err := database.SeedDatabase(); err != nil {
		log.Fatalf("Failed to seed database: %v", err)
	}

	// Redis is optional; scope lookups fall back to the database
	if err := cache.InitCacheManager(); err != nil {
		log.Printf("Warning: cache unavailable: %v", err)
	}

	router := gin.Default()

	router.Use(cors.New(cors.Config{
		AllowOrigins:     []string{cfg.FrontendURL},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))

	api := router.Group("/api/v1")

	// Public routes
	api.POST("/auth/login", handlers.Login)

	// Authenticated routes
	authorized := api.Group("")
	authorized.Use(middleware.AuthMiddleware(database.DB))
	{
		// Auth
		authorized.GET("/auth/me", handlers.GetMe)
		authorized.POST("/auth/change-password", handlers.ChangePassword)

		// Organizations
		authorized.GET("/organizations", handlers.GetOrganizations)
		authorized.GET("/organizations/:id", handlers.GetOrganization)
		authorized.POST("/organizations", handlers.CreateOrganization)
		authorized.PUT("/organizations/:id", handlers.UpdateOrganization)
		authorized.DELETE("/organizations/:id", handlers.DeleteOrganization)

		// Users
		authorized.GET("/users", handlers.GetUsers)
		authorized.GET("/users/:id", handlers.GetUser)
		authorized.POST("/users", handlers.CreateUser)
		authorized.PUT("/users/:id", handlers.UpdateUser)
		authorized.DELETE("/users/:id", handlers.DeleteUser)

		// Projects
		authorized.GET("/projects", handlers.GetProjects)
		authorized.GET("/projects/:id", handlers.GetProject)
		authorized.POST("/projects", handlers.CreateProject)
		authorized.PUT("/projects/:id", handlers.UpdateProject)
		authorized.DELETE("/projects/:id", handlers.DeleteProject)
		authorized.POST("/projects/:id/copy", handlers.CopyProject)

		// Templates
		authorized.GET("/templates", handlers.GetTemplates)
		authorized.GET("/templates/:id", handlers.GetTemplate)
		authorized.POST("/templates", handlers.CreateTemplate)
		authorized.PUT("/templates/:id", handlers.UpdateTemplate)
		authorized.DELETE("/templates/:id", handlers.DeleteTemplate)
		authorized.POST("/templates/:id/copy", handlers.CopyTemplate)
		authorized.POST("/templates/:id/items", handlers.CreateTemplateItem)
		authorized.PUT("/templates/:id/items/:item_id", handlers.UpdateTemplateItem)
		authorized.DELETE("/templates/:id/items/:item_id", handlers.DeleteTemplateItem)

		// Audits
		authorized.GET("/audits", handlers.GetAudits)
		authorized.GET("/audits/:id", handlers.GetAudit)
		authorized.POST("/audits", handlers.CreateAudit)
		authorized.PUT("/audits/:id", handlers.UpdateAudit)
		authorized.DELETE("/audits/:id", handlers.DeleteAudit)
		authorized.POST("/audits/:id/copy", handlers.CopyAudit)

		// Findings
		authorized.GET("/findings", handlers.GetFindings)
		authorized.GET("/findings/:id", handlers.GetFinding)
		authorized.POST("/findings", handlers.CreateFinding)
		authorized.PUT("/findings/:id", handlers.UpdateFinding)
		authorized.DELETE("/findings/:id", handlers.DeleteFinding)

		// Evidence
		authorized.POST("/findings/:id/evidences", handlers.UploadEvidence)
		authorized.GET("/findings/evidences/:id/download", handlers.DownloadEvidence)
		authorized.DELETE("/findings/evidences/:id", handlers.DeleteEvidence)

		// Comments
		authorized.GET("/findings/:id/comments", handlers.GetComments)
		authorized.POST("/findings/:id/comments", handlers.CreateComment)
		authorized.DELETE("/findings/comments/:id", handlers.DeleteComment)

		// Notifications
		authorized.GET("/notifications", handlers.GetNotifications)
		authorized.GET("/notifications/unread/count", handlers.GetUnreadCount)
		authorized.PUT("/notifications/:id/read", handlers.MarkNotificationRead)
		authorized.PUT("/notifications/read-all", handlers.MarkAllNotificationsRead)
		authorized.DELETE("/notifications/:id", handlers.DeleteNotification)
		authorized.POST("/notifications/check-due-dates", handlers.CheckDueDates)
		authorized.GET("/notifications/ws", handlers.NotificationStream)

		// Activity
		authorized.GET("/activity", handlers.GetActivityLogs)
		authorized.GET("/activity/:entity_type/:entity_id", handlers.GetEntityActivityLogs)

		// Analytics
		authorized.GET("/analytics/dashboard", handlers.GetDashboardStats)
		authorized.GET("/analytics/findings-timeline", handlers.GetFindingsTimeline)

		// Reports
		authorized.GET("/reports/audit/:id/excel", handlers.ExportAuditReport)
	}

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"service": "api",
		})
	})

	// Swagger documentation
	router.GET("/swagger/*any", ginSwagger.WrapHandler(swaggerFiles.Handler))

	port := cfg.APIPort
	log.Printf("API Service starting on port %s...", port)
	router.Run(":" + port)
}
