package main

import (
	"log"
	"net/http"

	"github.com/gin-gonic/gin"

	"github.com/psyline/psyline-api/internal/cache"
	"github.com/psyline/psyline-api/internal/config"
	dbpkg "github.com/psyline/psyline-api/internal/db"
	"github.com/psyline/psyline-api/internal/media"
	"github.com/psyline/psyline-api/internal/middleware"
	"github.com/psyline/psyline-api/internal/monitoring"
	"github.com/psyline/psyline-api/internal/routes"
)

func main() {

	cfg := config.Load()
	db := dbpkg.NewDB(cfg)

	var cacheClient cache.Client
	if cfg.RedisAddr != "" {
		c, err := cache.New(cfg)
		if err != nil {
			log.Printf("redis unavailable, running without cache: %v", err)
		} else {
			cacheClient = c
			defer cacheClient.Close()
		}
	}

	var mediaStore media.Store
	if cfg.S3Bucket != "" {
		mediaStore = media.NewS3Store(cfg)
	}

	monitoring.Init()

	r := gin.Default()

	r.Use(middleware.CORSMiddleware())
	r.Use(middleware.RequestID())
	r.Use(middleware.Metrics())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(monitoring.Handler()))

	routes.RegisterRoutes(r, routes.Deps{
		DB:    db,
		Cfg:   cfg,
		Cache: cacheClient,
		Media: mediaStore,
	})

	log.Printf("Server running on %s", cfg.Addr())
	if err := r.Run(cfg.Addr()); err != nil {
		log.Fatalf("failed to start server: %v", err)
	}
}
