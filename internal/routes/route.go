package routes

import (
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"

	"github.com/taxdir/api/internal/container"
	"github.com/taxdir/api/internal/handlers"
	"github.com/taxdir/api/internal/helpers"
	"github.com/taxdir/api/internal/middleware"
)

// SetupRoutes configures all routes with the dependency container
func SetupRoutes(container *container.Container) *gin.Engine {
	gin.SetMode(gin.ReleaseMode)

	r := gin.New()
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:3000"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS", "PATCH"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization", "X-Request-ID"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	// Add middleware
	r.Use(middleware.RequestID())
	r.Use(middleware.StructuredLogger(container.Logger))
	r.Use(middleware.ErrorHandler(container.Logger))
	r.Use(gin.Recovery())

	// API version 1
	v1 := r.Group("/api/v1")
	{
		// Health check
		v1.GET("/health", func(c *gin.Context) {
			c.JSON(200, gin.H{
				"status":  "OK",
				"service": "taxdir-api",
			})
		})

		// public routes
		v1.POST("/signup", handlers.CreateUser(container.UserService))
		v1.POST("/login", handlers.AuthenticateUser(container.UserService))
		v1.POST("/logout", handlers.Logout())
		v1.GET("/auth/google", handlers.GoogleAuth(container.UserService))
		v1.GET("/auth/google/callback", handlers.GoogleAuthCallback(container.UserService))

		// public directory and calendar
		v1.GET("/directory", handlers.Directory(container.UserService))
		v1.GET("/events", handlers.ListEvents(container.EventService))
		v1.GET("/events/:id", handlers.GetEvent(container.EventService))
		v1.GET("/jobs", handlers.ListJobs(container.JobService))
		v1.GET("/jobs/:id", handlers.GetJob(container.JobService))
	}

	protected := v1.Group("/")
	protected.Use(middleware.AuthMiddleware(container.UserService, container.Logger))

	userRoutes := protected.Group("/users")
	{
		protected.GET("/profile", func(c *gin.Context) {
			user, exist := c.Get("user")
			if !exist {
				c.JSON(401, gin.H{"error": "Unauthorized"})
				return
			}

			enhancedClaims, ok := user.(*helpers.EnhancedClaims)
			if !ok {
				c.JSON(500, gin.H{"error": "Invalid user claims format"})
				return
			}

			c.JSON(200, gin.H{
				"status":      "OK",
				"user_id":     enhancedClaims.UserID,
				"email":       enhancedClaims.Email,
				"role":        enhancedClaims.Role,
				"username":    enhancedClaims.Username,
				"is_admin":    enhancedClaims.IsAdmin(),
				"is_verified": enhancedClaims.IsVerified,
			})
		})

		userRoutes.GET("/:id", handlers.GetUser(container.UserService))
		userRoutes.PATCH("/:id", handlers.UpdateUser(container.UserService))
		userRoutes.DELETE("/:id", handlers.DeleteUser(container.UserService))
		userRoutes.POST("/avatar", handlers.UploadAvatar(container.UserService, container.Cloudinary))
	}

	jobRoutes := protected.Group("/jobs")
	{
		jobRoutes.POST("/", handlers.CreateJob(container.JobService))
		jobRoutes.POST("/:id/close", handlers.CloseJob(container.JobService))
		jobRoutes.POST("/:id/apply", handlers.ApplyToJob(container.JobService))
		jobRoutes.GET("/:id/applications", handlers.ListApplications(container.JobService))
		jobRoutes.PATCH("/applications/:id", handlers.UpdateApplicationStatus(container.JobService))
	}

	messageRoutes := protected.Group("/messages")
	{
		messageRoutes.POST("/conversations", handlers.StartConversation(container.MessageService))
		messageRoutes.GET("/conversations", handlers.ListConversations(container.MessageService))
		messageRoutes.POST("/conversations/:id", handlers.SendMessage(container.MessageService))
		messageRoutes.GET("/conversations/:id", handlers.ListMessages(container.MessageService))
	}

	// Admin surface: event pipeline and professional verification. The
	// handlers enforce the admin role themselves.
	adminRoutes := protected.Group("/admin")
	{
		adminRoutes.POST("/events/extract", handlers.ExtractEvent(container.EventService))
		adminRoutes.POST("/events", handlers.SubmitEvent(container.EventService))
		adminRoutes.PATCH("/events/:id/review", handlers.ReviewEvent(container.EventService))
		adminRoutes.POST("/links/check", handlers.CheckLink(container.EventService))
		adminRoutes.POST("/links/run-batch", handlers.RunValidationBatch(container.EventService))
		adminRoutes.PATCH("/professionals/:id/verify", handlers.VerifyProfessional(container.UserService))
	}

	return r
}
