package main

import (
	"net/http"
	"os"

	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/rs/zerolog/log"

	"github.com/talentmarket/shiftpulse/pkg/database"
	"github.com/talentmarket/shiftpulse/pkg/handlers"
	"github.com/talentmarket/shiftpulse/pkg/logging"
	"github.com/talentmarket/shiftpulse/pkg/metrics"
	"github.com/talentmarket/shiftpulse/pkg/shift"
)

func main() {
	// Load .env if it exists
	// Try root and parent directories for flexibility
	envPaths := []string{".env", "../.env", "../../.env"}
	for _, p := range envPaths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			break
		}
	}

	logging.Setup(logging.ConfigFromEnv())

	if os.Getenv("GIN_MODE") == "" {
		gin.SetMode(gin.ReleaseMode)
	}

	db, err := database.InitDB()
	if err != nil {
		log.Fatal().Err(err).Msg("Failed to initialize database")
	}

	h := &handlers.Handler{
		DB:      db,
		Manager: shift.NewManager(shift.NewGormStore(db)),
	}

	r := gin.New()
	r.Use(gin.Recovery())

	r.GET("/health", func(c *gin.Context) {
		c.JSON(http.StatusOK, gin.H{"status": "ok"})
	})
	r.GET("/metrics", gin.WrapH(promhttp.HandlerFor(metrics.Gatherer, promhttp.HandlerOpts{})))

	h.Register(r)

	port := os.Getenv("PORT")
	if port == "" {
		port = "8080"
	}

	log.Info().Str("port", port).Msg("Starting shift lifecycle server")
	if err := r.Run(":" + port); err != nil {
		log.Fatal().Err(err).Msg("Server failed")
	}
}
