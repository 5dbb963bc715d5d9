package main

import (
	"log"
	"net/http"

	"reviewbase-api/config"
	"reviewbase-api/handlers"
	"reviewbase-api/mailer"
	"reviewbase-api/middleware"
	"reviewbase-api/repositories"
	"reviewbase-api/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
)

func main() {
	// Load environment variables
	if err := godotenv.Load(); err != nil {
		log.Println("No .env file found")
	}

	cfg := config.Load()

	// Initialize database
	db := config.InitDB(cfg)

	// Redis tracks confirmation-code redemption
	rdb, err := config.NewRedisClient(cfg.RedisURL)
	if err != nil {
		log.Fatalf("Failed to connect to redis: %v", err)
	}

	var sender mailer.Sender = mailer.LogSender{}
	if cfg.SMTPAddr != "" {
		sender = mailer.NewSMTPSender(cfg.SMTPAddr, cfg.MailFrom)
	}

	// Initialize repositories
	userRepo := repositories.NewUserRepository(db)
	categoryRepo := repositories.NewCategoryRepository(db)
	genreRepo := repositories.NewGenreRepository(db)
	titleRepo := repositories.NewTitleRepository(db)
	reviewRepo := repositories.NewReviewRepository(db)
	commentRepo := repositories.NewCommentRepository(db)
	codeRepo := repositories.NewCodeRepository(rdb)

	// Initialize services
	authService := services.NewAuthService(userRepo, codeRepo, sender)
	userService := services.NewUserService(userRepo)
	ratingService := services.NewRatingService(reviewRepo)
	catalogService := services.NewCatalogService(categoryRepo, genreRepo, titleRepo, ratingService)
	reviewService := services.NewReviewService(titleRepo, reviewRepo, commentRepo)

	// Initialize handlers
	authHandler := handlers.NewAuthHandler(authService)
	userHandler := handlers.NewUserHandler(userService)
	catalogHandler := handlers.NewCatalogHandler(catalogService)
	reviewHandler := handlers.NewReviewHandler(reviewService)

	// Setup router
	router := gin.Default()

	// Health check
	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "healthy"})
	})

	// API routes
	v1 := router.Group("/api/v1")
	v1.Use(middleware.ActorMiddleware())
	{
		auth := v1.Group("/auth")
		{
			auth.POST("/signup", authHandler.Signup)
			auth.POST("/token", authHandler.Token)
		}

		users := v1.Group("/users")
		{
			users.GET("/me", authHandler.GetProfile)
			users.PATCH("/me", authHandler.UpdateProfile)
			users.GET("", userHandler.ListUsers)
			users.POST("", userHandler.CreateUser)
			users.GET("/:username", userHandler.GetUser)
			users.PATCH("/:username", userHandler.UpdateUser)
			users.DELETE("/:username", userHandler.DeleteUser)
		}

		categories := v1.Group("/categories")
		{
			categories.GET("", catalogHandler.ListCategories)
			categories.POST("", catalogHandler.CreateCategory)
			categories.DELETE("/:slug", catalogHandler.DeleteCategory)
		}

		genres := v1.Group("/genres")
		{
			genres.GET("", catalogHandler.ListGenres)
			genres.POST("", catalogHandler.CreateGenre)
			genres.DELETE("/:slug", catalogHandler.DeleteGenre)
		}

		titles := v1.Group("/titles")
		{
			titles.GET("", catalogHandler.ListTitles)
			titles.POST("", catalogHandler.CreateTitle)
			titles.GET("/:title_id", catalogHandler.GetTitle)
			titles.PATCH("/:title_id", catalogHandler.UpdateTitle)
			titles.DELETE("/:title_id", catalogHandler.DeleteTitle)

			reviews := titles.Group("/:title_id/reviews")
			{
				reviews.GET("", reviewHandler.ListReviews)
				reviews.POST("", reviewHandler.CreateReview)
				reviews.GET("/:review_id", reviewHandler.GetReview)
				reviews.PATCH("/:review_id", reviewHandler.UpdateReview)
				reviews.DELETE("/:review_id", reviewHandler.DeleteReview)

				comments := reviews.Group("/:review_id/comments")
				{
					comments.GET("", reviewHandler.ListComments)
					comments.POST("", reviewHandler.CreateComment)
					comments.GET("/:comment_id", reviewHandler.GetComment)
					comments.PATCH("/:comment_id", reviewHandler.UpdateComment)
					comments.DELETE("/:comment_id", reviewHandler.DeleteComment)
				}
			}
		}
	}

	log.Printf("Server starting on port %s", cfg.Port)
	log.Fatal(http.ListenAndServe(":"+cfg.Port, router))
}
