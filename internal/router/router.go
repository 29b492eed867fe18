// internal/router/router.go
package router

import (
	"net/http"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/Bharat11o8/Warranty-Portal--sub003/internal/config"
	"github.com/Bharat11o8/Warranty-Portal--sub003/internal/handlers"
	"github.com/Bharat11o8/Warranty-Portal--sub003/internal/middleware"
	"github.com/Bharat11o8/Warranty-Portal--sub003/internal/services"
	"github.com/Bharat11o8/Warranty-Portal--sub003/internal/utils"
)

func Initialize(db *gorm.DB, cfg *config.Config) *gin.Engine {
	// Initialize services
	auditService := services.NewAuditService(db)
	notificationService := services.NewNotificationService(db)
	catalogService := services.NewCatalogService(db, auditService, notificationService)
	warrantyService := services.NewWarrantyService(db, auditService, cfg.Warranty.DefaultDurationMonths)
	grievanceService := services.NewGrievanceService(db, notificationService)
	posmService := services.NewPosmService(db, notificationService)
	authService := services.NewAuthService(db, cfg)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	notificationHandler := handlers.NewNotificationHandler(notificationService)
	warrantyHandler := handlers.NewWarrantyHandler(warrantyService)
	grievanceHandler := handlers.NewGrievanceHandler(grievanceService)
	posmHandler := handlers.NewPosmHandler(posmService)
	adminHandler := handlers.NewAdminHandler(authService, auditService)

	// Set JWT secret
	utils.SetJWTSecret(cfg.JWT.SecretKey)

	// Initialize Gin router
	r := gin.New()

	// Global middleware
	r.Use(gin.Recovery())
	r.Use(middleware.RequestLogger())
	r.Use(middleware.CORS(cfg.CORS.AllowedOrigins))
	r.Use(middleware.GeneralRateLimit())
	r.Use(middleware.AuditLogMiddleware(db))

	// Health check
	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "healthy",
			"version": "1.0.0",
		})
	})

	// API v1 routes
	v1 := r.Group("/v1")
	{
		// Authentication routes
		auth := v1.Group("/auth")
		auth.Use(middleware.AuthRateLimit())
		{
			auth.POST("/login", authHandler.Login)
			auth.GET("/me", middleware.AuthRequired(), authHandler.Me)
		}

		// Public catalog routes
		catalog := v1.Group("/catalog")
		{
			catalog.GET("/categories", catalogHandler.GetCategories)
			catalog.GET("/products", catalogHandler.GetProducts)
			catalog.GET("/products/:id", catalogHandler.GetProduct)
		}

		// Warranty routes
		warranty := v1.Group("/warranty")
		{
			warranty.GET("/validate/:code", warrantyHandler.Validate)

			protected := warranty.Group("")
			protected.Use(middleware.AuthRequired(), middleware.VendorRequired())
			{
				protected.POST("/register", warrantyHandler.Register)
				protected.GET("", warrantyHandler.ListMine)
			}
		}

		// Notification routes
		notifications := v1.Group("/notifications")
		notifications.Use(middleware.AuthRequired())
		{
			notifications.GET("", notificationHandler.GetFeed)
			notifications.GET("/unread-count", notificationHandler.GetUnreadCount)
			notifications.PUT("/read-all", notificationHandler.MarkAllAsRead)
			notifications.PUT("/:id/read", notificationHandler.MarkAsRead)
		}

		// Grievance routes
		grievances := v1.Group("/grievances")
		grievances.Use(middleware.AuthRequired())
		{
			grievances.POST("", grievanceHandler.Create)
			grievances.GET("", grievanceHandler.ListMine)
			grievances.GET("/:id", grievanceHandler.GetByID)
		}

		// POSM routes (vendor)
		posm := v1.Group("/posm")
		posm.Use(middleware.AuthRequired(), middleware.VendorRequired())
		{
			posm.POST("", posmHandler.Create)
			posm.GET("", posmHandler.ListMine)
			posm.GET("/:id", posmHandler.GetByID)
			posm.POST("/:id/messages", posmHandler.AddMessage)
		}

		// Admin routes
		admin := v1.Group("/admin")
		admin.Use(middleware.AuthRequired(), middleware.AdminRequired())
		{
			adminProducts := admin.Group("/products")
			{
				adminProducts.POST("", catalogHandler.CreateProduct)
				adminProducts.PUT("/:id", catalogHandler.UpdateProduct)
				adminProducts.DELETE("/:id", catalogHandler.DeleteProduct)
			}

			adminNotifications := admin.Group("/notifications")
			{
				adminNotifications.POST("/broadcast", notificationHandler.Broadcast)
			}

			adminWarranties := admin.Group("/warranties")
			{
				adminWarranties.PUT("/:id/void", warrantyHandler.Void)
			}

			adminGrievances := admin.Group("/grievances")
			{
				adminGrievances.GET("", grievanceHandler.ListAll)
				adminGrievances.PUT("/:id/status", grievanceHandler.UpdateStatus)
			}

			adminPosm := admin.Group("/posm")
			{
				adminPosm.GET("", posmHandler.ListAll)
				adminPosm.PUT("/:id/status", posmHandler.UpdateStatus)
				adminPosm.POST("/:id/messages", posmHandler.AddMessage)
			}

			adminVendors := admin.Group("/vendors")
			{
				adminVendors.POST("", adminHandler.CreateVendor)
			}

			admin.GET("/audit-logs", adminHandler.GetAuditLogs)
		}
	}

	return r
}
