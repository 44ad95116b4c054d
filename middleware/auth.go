package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/rafiansyah/docqa-backend/models"
	"github.com/rafiansyah/docqa-backend/utils"
)

// AuthMiddleware memverifikasi JWT dan memeriksa status aktif user.
// Handle database diambil dari context (dipasang DBMiddleware lebih dulu).
func AuthMiddleware(tokens *utils.TokenManager) gin.HandlerFunc {
	return func(c *gin.Context) {
		authHeader := c.GetHeader("Authorization")
		if authHeader == "" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header tidak ada"})
			c.Abort()
			return
		}

		// Pisahkan token dari "Bearer <token>"
		parts := strings.Split(authHeader, " ")
		if len(parts) != 2 || parts[0] != "Bearer" {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Authorization header tidak valid"})
			c.Abort()
			return
		}

		claims, err := tokens.Verify(parts[1])
		if err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Token tidak valid atau kedaluwarsa"})
			c.Abort()
			return
		}

		// Periksa status aktif user di DB
		db := c.MustGet("db").(*gorm.DB)
		var user models.User
		if err := db.Select("is_active").First(&user, "id = ?", claims.UserID).Error; err != nil {
			c.JSON(http.StatusUnauthorized, gin.H{"error": "Pengguna tidak ditemukan"})
			c.Abort()
			return
		}

		if user.IsActive != nil && !*user.IsActive {
			c.JSON(http.StatusForbidden, gin.H{"error": "Akun sedang dinonaktifkan"})
			c.Abort()
			return
		}

		// Simpan identitas ke context untuk dipakai controller
		c.Set("user_id", claims.UserID)
		c.Set("username", claims.Username)
		c.Set("role", claims.Role)
		c.Next()
	}
}
