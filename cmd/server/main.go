package main

import (
	"log"
	"os"
	"strings"

	"accesslens/internal/audit"
	"accesslens/internal/config"
	"accesslens/internal/gemini"
	"accesslens/internal/ratelimit"
	"accesslens/internal/store"

	"github.com/gin-gonic/gin"
)

func main() {
	if err := config.Load(); err != nil {
		log.Println("no .env loaded:", err)
	}
	if config.GeminiAPIKey() == "" {
		log.Println("warning: GEMINI_API_KEY not set; audits will fail with config_error")
	}

	limiter := ratelimit.New(ratelimit.NewMemoryStore(), config.RateLimitMax())
	audits := store.NewFileStore(config.AuditsDir(), config.AuditsIndexLimit(), config.AuditsMax())

	r := gin.Default()
	r.HandleMethodNotAllowed = true
	r.NoMethod(audit.NoMethod)

	r.GET("/health", func(c *gin.Context) {
		c.JSON(200, gin.H{"status": "ok"})
	})
	r.GET("/ready", func(c *gin.Context) {
		if err := os.MkdirAll(config.DataDir(), 0o755); err != nil {
			c.JSON(500, gin.H{"status": "error", "error": "data dir not writable"})
			return
		}
		if err := os.MkdirAll(config.AuditsDir(), 0o755); err != nil {
			c.JSON(500, gin.H{"status": "error", "error": "audits dir not writable"})
			return
		}
		c.JSON(200, gin.H{"status": "ok"})
	})

	api := r.Group("/api")
	{
		api.POST("/run-audit", audit.Handler(gemini.Client{}, limiter, config.DataDir()))
		api.POST("/audits", store.CreateHandler(audits))
		api.GET("/audits/:id", store.GetHandler(audits))
	}

	addr := ":8080"
	if port := os.Getenv("PORT"); port != "" {
		if strings.HasPrefix(port, ":") {
			addr = port
		} else {
			addr = ":" + port
		}
	}

	if err := r.Run(addr); err != nil {
		log.Fatal(err)
	}
}
