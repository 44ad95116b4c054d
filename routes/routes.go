package routes

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rafiansyah/docqa-backend/controllers"
	"github.com/rafiansyah/docqa-backend/middleware"
	"github.com/rafiansyah/docqa-backend/models"
	"github.com/rafiansyah/docqa-backend/utils"
	"github.com/rafiansyah/docqa-backend/ws"
)

func SetupRouter(
	r *gin.Engine,
	db *gorm.DB,
	tokens *utils.TokenManager,
	authCtl *controllers.AuthController,
	adminCtl *controllers.AdminController,
	docCtl *controllers.DocumentController,
	chatCtl *controllers.ChatController,
) *gin.Engine {
	r.GET("/ping", func(c *gin.Context) {
		c.JSON(200, gin.H{"message": "pong"})
	})
	r.GET("/health", middleware.DBMiddleware(db), controllers.HealthCheck)

	// Handle database dipasang sekali di level /api; semua controller
	// membacanya lewat c.MustGet("db")
	api := r.Group("/api")
	api.Use(middleware.DBMiddleware(db))

	auth := api.Group("/auth")
	{
		auth.POST("/register", authCtl.Register)
		auth.POST("/login", authCtl.Login)
	}

	user := api.Group("")
	{
		user.Use(middleware.AuthMiddleware(tokens))

		user.POST("/auth/change-password", authCtl.ChangePassword)

		// Dokumen milik user
		user.POST("/documents", docCtl.UploadDocuments)
		user.GET("/documents", docCtl.GetDocuments)
		user.GET("/documents/:id", docCtl.GetDocumentDetail)
		user.DELETE("/documents/:id", docCtl.DeleteDocument)

		// Tanya-jawab dokumen
		user.POST("/chat", chatCtl.Chat)
		user.GET("/chat/history", chatCtl.GetChatHistory)
		user.GET("/chat/sessions", chatCtl.GetSessions)
	}

	admin := api.Group("/admin")
	{
		admin.Use(middleware.AuthMiddleware(tokens), middleware.RequireRoles(string(models.RoleAdmin)))

		// Manajemen pengguna
		admin.POST("/users", adminCtl.CreateAdmin)
		admin.POST("/lecturers", adminCtl.CreateLecturer)
		admin.GET("/users", adminCtl.GetAllUsers)
		admin.PATCH("/users/:id", adminCtl.UpdateUser)
		admin.PATCH("/users/:id/toggle-status", adminCtl.ToggleUserStatus)
		admin.PATCH("/users/:id/role", adminCtl.ChangeUserRole)
		admin.POST("/users/:id/reset-password", adminCtl.ResetUserPassword)
		admin.DELETE("/users/:id", adminCtl.DeleteUser)

		// Manajemen dokumen
		admin.GET("/documents", adminCtl.GetAllDocuments)
		admin.DELETE("/documents/:id", adminCtl.AdminDeleteDocument)

		// Pemantauan chat & statistik
		admin.GET("/chats", adminCtl.GetAllChats)
		admin.GET("/stats", adminCtl.GetSystemStats)
		admin.POST("/cleanup", adminCtl.CleanupOldData)
	}

	r.GET("/ws/status", ws.HandleStatusWebSocket)

	return r
}
