package main

import (
	"log"
	"time"

	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"

	"github.com/rafiansyah/docqa-backend/config"
	"github.com/rafiansyah/docqa-backend/controllers"
	"github.com/rafiansyah/docqa-backend/routes"
	"github.com/rafiansyah/docqa-backend/services"
	"github.com/rafiansyah/docqa-backend/utils"
)

func main() {
	// Load .env
	if err := godotenv.Load(); err != nil {
		log.Println("File .env tidak ditemukan")
	}

	cfg, err := config.Load()
	if err != nil {
		log.Fatal(err)
	}

	// Secret kosong langsung menghentikan startup
	tokens, err := utils.NewTokenManager(cfg.JWTSecret)
	if err != nil {
		log.Fatal(err)
	}
	mailer := utils.NewMailer(cfg.SMTPEmail, cfg.SMTPPassword)

	config.InitDB(cfg)

	// Job retensi riwayat chat (opsional, lihat CHAT_RETENTION_DAYS)
	utils.StartRetentionJob(config.DB, cfg.ChatRetentionDays)

	// Rangkai pipeline QA
	store := services.NewGormStore(config.DB)
	lmClient := services.NewLMStudioClient(
		cfg.LMStudioURL,
		cfg.LMStudioModel,
		cfg.LMTemperature,
		cfg.LMMaxTokens,
		time.Duration(cfg.LMTimeoutSec)*time.Second,
	)
	chatService := services.NewChatService(store, store, lmClient, services.DefaultRelevancePolicy(), cfg.ChatMaxDocChars)

	authCtl := controllers.NewAuthController(tokens)
	adminCtl := controllers.NewAdminController(mailer)
	docCtl := controllers.NewDocumentController(cfg, store)
	chatCtl := controllers.NewChatController(chatService, store)

	r := gin.Default()

	// Aktifkan CORS
	r.Use(cors.New(cors.Config{
		AllowOrigins:     []string{"http://localhost:5173"},
		AllowMethods:     []string{"GET", "POST", "PUT", "PATCH", "DELETE", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
	}))

	r = routes.SetupRouter(r, config.DB, tokens, authCtl, adminCtl, docCtl, chatCtl)

	r.GET("/", func(c *gin.Context) {
		c.JSON(200, gin.H{
			"message": "Document QA UNNES API",
			"version": "1.0.0",
			"endpoints": gin.H{
				"user":  []string{"/api/auth/register", "/api/auth/login", "/api/documents", "/api/chat", "/api/chat/history"},
				"admin": []string{"/api/admin/users", "/api/admin/stats", "/api/admin/documents", "/api/admin/chats", "/api/admin/cleanup"},
			},
		})
	})

	log.Println("Server running at Port:" + cfg.Port)
	r.Run(":" + cfg.Port)
}
