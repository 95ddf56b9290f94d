package main

import (
	"context"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"arena-service/config"
	"arena-service/internal/arena"
	"arena-service/internal/client"
	"arena-service/internal/handlers"
	"arena-service/internal/repository"
	ws "arena-service/internal/websocket"
	"arena-service/pkg/cache"
	"arena-service/pkg/database"

	"github.com/gin-gonic/gin"
)

func main() {
	cfg := config.Load()
	log.Println("Configuration loaded")

	pgClient, err := database.NewPostgresClient(&cfg.DB)
	if err != nil {
		log.Fatalf("Failed to connect to PostgreSQL: %v", err)
	}
	log.Println("Connected to PostgreSQL")
	defer pgClient.Close()

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	if err := pgClient.InitSchema(ctx); err != nil {
		log.Printf("Warning: Failed to initialize PostgreSQL schema: %v", err)
	} else {
		log.Println("PostgreSQL schema initialized")
	}
	cancel()

	redisClient, err := cache.NewRedisClient(&cfg.Redis)
	if err != nil {
		log.Printf("Warning: Failed to connect to Redis: %v", err)
		redisClient = nil
	} else {
		log.Println("Connected to Redis")
		defer redisClient.Close()
	}

	generatorClient := client.NewGeneratorClient(&cfg.Generator)

	var profileCache client.ProfileCache
	if redisClient != nil {
		profileCache = redisClient
	}
	userClient := client.NewUserClient(&cfg.User, profileCache)

	resultRepo := repository.NewResultRepository(pgClient.GetDB())
	recorder := arena.NewRecorder(resultRepo, userClient)
	registry := arena.NewRegistry(generatorClient, recorder)

	hub := ws.NewHub(registry)
	go hub.Run()
	log.Println("WebSocket hub started")

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}
	router := gin.New()

	router.Use(gin.Logger())
	router.Use(gin.Recovery())

	router.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{
			"status":  "ok",
			"service": "arena-service",
		})
	})

	router.GET("/ready", func(c *gin.Context) {
		if pgClient == nil {
			c.JSON(http.StatusServiceUnavailable, gin.H{
				"status": "not ready",
			})
			return
		}
		c.JSON(http.StatusOK, gin.H{
			"status": "ready",
			"rooms":  registry.Count(),
		})
	})

	wsHandler := handlers.NewWebSocketHandler(hub, cfg, userClient, redisClient)
	router.GET("/ws", wsHandler.HandleWebSocket)

	resultHandler := handlers.NewResultHandler(resultRepo)
	router.GET("/users/:userID/results", resultHandler.GetUserResults)

	httpAddr := ":" + cfg.Server.HTTPPort
	log.Printf("Arena Service HTTP server starting on port %s...", cfg.Server.HTTPPort)

	go func() {
		if err := router.Run(httpAddr); err != nil {
			log.Fatalf("Failed to start HTTP server: %v", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	log.Println("Arena service stopped")
}
