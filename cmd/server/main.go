package main

import (
	"os"

	"linkden/internal/db"
	"linkden/internal/errors"
	"linkden/internal/handlers"
	"linkden/internal/logger"
	"linkden/internal/middleware"
	"linkden/internal/services"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/jonboulle/clockwork"
	"go.uber.org/zap"
)

func main() {
	// Load .env file
	if err := godotenv.Load(); err != nil {
		logger.L.Info("no .env file found, reading env vars from system")
	}

	// Initialize Database
	db.Init()

	// Karma deltas are commutative, so queued delivery is safe.
	services.Karma().StartWorker()

	ranker := services.NewRanker(clockwork.NewRealClock())

	r := gin.Default()
	r.Use(errors.Middleware(logger.L))

	linkHandler := handlers.NewLinkHandler(ranker)
	voteHandler := handlers.NewVoteHandler()
	commentHandler := handlers.NewCommentHandler()
	userHandler := handlers.NewUserHandler()

	// Public Routes
	r.GET("/links", linkHandler.List)
	r.GET("/links/:id", linkHandler.Detail)
	r.GET("/links/:id/comments", commentHandler.Roots)
	r.GET("/comments/:id/children", commentHandler.Children)
	r.GET("/users/:id/karma", userHandler.Karma)

	// Routes requiring a caller identity from the upstream auth layer
	authorized := r.Group("/")
	authorized.Use(middleware.Identity())
	{
		authorized.POST("/links", linkHandler.Create)
		authorized.POST("/links/:id/comments", commentHandler.Create)
		authorized.POST("/votes/:type/:id", voteHandler.Cast)
	}

	// Operational routes; upstream is expected to restrict these
	r.POST("/users/:id/karma/reconcile", userHandler.Reconcile)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}
	logger.L.Info("linkden server starting", zap.String("port", port))
	if err := r.Run(":" + port); err != nil {
		logger.L.Fatal("server exited", zap.Error(err))
	}
}
