package main

import (
	"context"
	"strconv"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/go-redis/redis/v8"
	"github.com/sirupsen/logrus"

	"secret-santa-backend/internal/config"
	"secret-santa-backend/internal/database"
	"secret-santa-backend/internal/handlers"
	"secret-santa-backend/internal/middleware"
	"secret-santa-backend/internal/services"
)

func main() {
	cfg := config.Load()

	db := database.Connect(cfg)
	database.AutoMigrate(db)

	roomService := services.NewRoomService(db)
	suggestionService := services.NewSuggestionService(cfg.AIAPIKey, cfg.AIAPIURL, cfg.AIModel)

	roomHandler := handlers.NewRoomHandler(roomService)
	playHandler := handlers.NewPlayHandler(roomService)
	suggestHandler := handlers.NewSuggestHandler(suggestionService)

	r := gin.Default()

	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"*"},
		AllowMethods:     []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		AllowCredentials: true,
	}))

	var limiter gin.HandlerFunc
	if cfg.RedisAddr != "" {
		rdb := redis.NewClient(&redis.Options{
			Addr:     cfg.RedisAddr,
			Password: cfg.RedisPassword,
		})
		if _, err := rdb.Ping(context.Background()).Result(); err != nil {
			logrus.Fatalf("failed to connect to redis: %v", err)
		}
		maxRequests, _ := strconv.Atoi(cfg.RateLimit)
		if maxRequests <= 0 {
			maxRequests = 20
		}
		limiter = middleware.RateLimit(rdb, maxRequests)
		logrus.WithField("per_second", maxRequests).Info("redis rate limiting enabled")
	}

	api := r.Group("/api/v1")
	{
		rooms := api.Group("/rooms")
		{
			rooms.POST("", roomHandler.CreateRoom)
			rooms.GET("/:id", roomHandler.GetRoom)
			rooms.POST("/:id/lock", roomHandler.LockRoom)
			rooms.POST("/:id/pairings", roomHandler.GeneratePairing)
			rooms.GET("/:id/pairings", roomHandler.GetAllPairings)
			rooms.POST("/:id/reveal", roomHandler.RevealRoom)
		}

		play := api.Group("/play")
		if limiter != nil {
			play.Use(limiter)
		}
		{
			play.POST("/join", playHandler.Join)
			play.GET("/my-pairing", playHandler.GetMyPairing)
			play.PUT("/profile", playHandler.UpdateProfile)
			play.POST("/suggestions", suggestHandler.Suggest)
		}
	}

	logrus.Infof("server starting on :%s", cfg.ServerPort)
	if err := r.Run(":" + cfg.ServerPort); err != nil {
		logrus.Fatalf("failed to start server: %v", err)
	}
}
