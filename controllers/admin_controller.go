package controllers

import (
	"crypto/rand"
	"encoding/base64"
	"fmt"
	"log"
	"net/http"
	"strconv"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"
	"golang.org/x/crypto/bcrypt"
	"gorm.io/gorm"

	"github.com/rafiansyah/docqa-backend/models"
	"github.com/rafiansyah/docqa-backend/utils"
	"github.com/rafiansyah/docqa-backend/ws"
)

type AdminController struct {
	Mailer *utils.Mailer
}

func NewAdminController(mailer *utils.Mailer) *AdminController {
	return &AdminController{Mailer: mailer}
}

// ==== MANAJEMEN PENGGUNA ====

type CreateAdminInput struct {
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=6"`
	Email    string `json:"email" binding:"required,email"`
}

func (ctl *AdminController) CreateAdmin(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var input CreateAdminInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.User
	if err := db.Where("username = ?", input.Username).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username sudah terdaftar"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Tidak dapat mengenkripsi password"})
		return
	}

	newUser := models.User{
		Username: input.Username,
		Email:    input.Email,
		Password: string(hashed),
		Role:     models.RoleAdmin,
	}
	if err := db.Create(&newUser).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal membuat akun admin"})
		return
	}

	c.JSON(http.StatusCreated, gin.H{
		"message": fmt.Sprintf("Akun admin '%s' berhasil dibuat", newUser.Username),
		"user": gin.H{
			"id":       newUser.ID,
			"username": newUser.Username,
			"email":    newUser.Email,
			"role":     newUser.Role,
		},
	})
}

type CreateLecturerInput struct {
	Username string `json:"username" binding:"required,min=3"`
	Password string `json:"password" binding:"required,min=6"`
	Email    string `json:"email" binding:"required,email"`
}

// CreateLecturer membuat akun dosen dan mengirim kredensial lewat email
func (ctl *AdminController) CreateLecturer(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var input CreateLecturerInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}

	var existing models.User
	if err := db.Where("username = ?", input.Username).First(&existing).Error; err == nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Username sudah terdaftar"})
		return
	}

	hashed, err := bcrypt.GenerateFromPassword([]byte(input.Password), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Tidak dapat mengenkripsi password"})
		return
	}

	newUser := models.User{
		Username: input.Username,
		Email:    input.Email,
		Password: string(hashed),
		Role:     models.RoleDosen,
	}
	if err := db.Create(&newUser).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal membuat akun dosen"})
		return
	}

	// Kirim email kredensial tanpa memblokir respons
	go func() {
		subject := "Akun dosen Document QA UNNES Anda telah dibuat"
		body := `
		<h3>Halo ` + input.Username + `,</h3>
		<p>Anda telah diberi akun dosen pada sistem <b>Document QA UNNES</b>.</p>
		<p><b>Username:</b> ` + input.Username + `<br>
		<b>Password:</b> ` + input.Password + `</p>
		<p>Silakan login dan ganti password setelah pemakaian pertama.</p>
		<hr>
		<p><i>Email ini dikirim otomatis, mohon tidak dibalas.</i></p>
		`
		if err := ctl.Mailer.Send(input.Email, subject, body); err != nil {
			log.Println("Gagal mengirim email:", err.Error())
		}
	}()

	c.JSON(http.StatusCreated, gin.H{
		"message": "Akun dosen berhasil dibuat",
		"user": gin.H{
			"id":       newUser.ID,
			"username": newUser.Username,
			"email":    newUser.Email,
			"role":     newUser.Role,
		},
	})
}

func (ctl *AdminController) GetAllUsers(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var users []models.User
	if err := db.Order("created_at DESC").Find(&users).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengambil daftar pengguna"})
		return
	}
	c.JSON(http.StatusOK, gin.H{"users": users})
}

func (ctl *AdminController) ToggleUserStatus(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID tidak valid"})
		return
	}

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pengguna tidak ditemukan"})
		return
	}

	newStatus := !(user.IsActive != nil && *user.IsActive)
	if err := db.Model(&user).Update("is_active", newStatus).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal memperbarui status pengguna"})
		return
	}

	statusText := "dinonaktifkan"
	if newStatus {
		statusText = "diaktifkan"
	}
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Pengguna '%s' berhasil %s", user.Username, statusText),
	})
}

// UserPatch mendaftarkan seluruh atribut opsional secara eksplisit; field nil
// berarti tidak diubah. Tidak ada penyusunan statement dinamis.
type UserPatch struct {
	Email    *string `json:"email" binding:"omitempty,email"`
	Role     *string `json:"role"`
	IsActive *bool   `json:"is_active"`
}

func (ctl *AdminController) UpdateUser(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID tidak valid"})
		return
	}

	var patch UserPatch
	if err := c.ShouldBindJSON(&patch); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if patch.Role != nil && !models.ValidRole(*patch.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Role tidak valid"})
		return
	}

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pengguna tidak ditemukan"})
		return
	}

	if patch.Email != nil {
		user.Email = *patch.Email
	}
	if patch.Role != nil {
		user.Role = models.UserRole(*patch.Role)
	}
	if patch.IsActive != nil {
		user.IsActive = patch.IsActive
	}

	if err := db.Save(&user).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal memperbarui pengguna"})
		return
	}

	user.Password = ""
	c.JSON(http.StatusOK, gin.H{
		"message": "Pengguna berhasil diperbarui",
		"user":    user,
	})
}

type ChangeRoleInput struct {
	Role string `json:"role" binding:"required"`
}

func (ctl *AdminController) ChangeUserRole(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID tidak valid"})
		return
	}

	var input ChangeRoleInput
	if err := c.ShouldBindJSON(&input); err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": err.Error()})
		return
	}
	if !models.ValidRole(input.Role) {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Role tidak valid"})
		return
	}

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pengguna tidak ditemukan"})
		return
	}

	if err := db.Model(&user).Update("role", input.Role).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengubah role pengguna"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Role pengguna '%s' diubah menjadi %s", user.Username, input.Role),
	})
}

// DeleteUser menghapus pengguna beserta semua dokumen, sesi, dan riwayat
// chat-nya dalam satu transaksi. Akun admin tidak bisa dihapus.
func (ctl *AdminController) DeleteUser(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID tidak valid"})
		return
	}

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pengguna tidak ditemukan"})
		return
	}
	if user.Role == models.RoleAdmin {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tidak dapat menghapus akun admin"})
		return
	}

	// Kumpulkan path file dulu supaya bisa dihapus setelah transaksi sukses
	var filePaths []string
	if err := db.Model(&models.Document{}).Where("user_id = ?", userID).Pluck("file_path", &filePaths).Error; err != nil {
		log.Printf("Gagal mengambil path file milik %s: %v", user.Username, err)
	}

	err = db.Transaction(func(tx *gorm.DB) error {
		if err := tx.Where("user_id = ?", userID).Delete(&models.ChatExchange{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.ChatSession{}).Error; err != nil {
			return err
		}
		if err := tx.Where("user_id = ?", userID).Delete(&models.Document{}).Error; err != nil {
			return err
		}
		return tx.Delete(&user).Error
	})
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal menghapus pengguna", "details": err.Error()})
		return
	}

	for _, path := range filePaths {
		utils.RemoveStoredFile(path)
	}

	ws.BroadcastDocumentListChanged()
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Pengguna '%s' berhasil dihapus", user.Username),
	})
}

// ResetUserPassword mengganti password user dengan password sementara acak
func (ctl *AdminController) ResetUserPassword(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	userID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID tidak valid"})
		return
	}

	var user models.User
	if err := db.First(&user, "id = ?", userID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Pengguna tidak ditemukan"})
		return
	}

	tempPassword, err := generateTempPassword()
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal membuat password sementara"})
		return
	}
	hashed, err := bcrypt.GenerateFromPassword([]byte(tempPassword), bcrypt.DefaultCost)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Tidak dapat mengenkripsi password"})
		return
	}

	if err := db.Model(&user).Update("password", string(hashed)).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mereset password"})
		return
	}

	if user.Email != "" {
		go func() {
			subject := "Password Document QA UNNES Anda telah direset"
			body := `
			<h3>Halo ` + user.Username + `,</h3>
			<p>Password Anda telah direset oleh admin.</p>
			<p><b>Password sementara:</b> ` + tempPassword + `</p>
			<p>Silakan login dan segera ganti password.</p>
			`
			if err := ctl.Mailer.Send(user.Email, subject, body); err != nil {
				log.Println("Gagal mengirim email:", err.Error())
			}
		}()
	}

	c.JSON(http.StatusOK, gin.H{
		"message":       fmt.Sprintf("Password '%s' berhasil direset", user.Username),
		"temp_password": tempPassword,
	})
}

func generateTempPassword() (string, error) {
	buf := make([]byte, 9)
	if _, err := rand.Read(buf); err != nil {
		return "", err
	}
	return base64.RawURLEncoding.EncodeToString(buf), nil
}

// ==== MANAJEMEN DOKUMEN ====

func (ctl *AdminController) GetAllDocuments(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var documents []models.Document
	if err := db.Preload("User").Order("uploaded_at DESC").Find(&documents).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengambil daftar dokumen"})
		return
	}

	items := make([]gin.H, 0, len(documents))
	for _, doc := range documents {
		items = append(items, gin.H{
			"id":          doc.ID,
			"filename":    doc.OriginalName,
			"file_path":   doc.FilePath,
			"size":        doc.FileSize,
			"uploaded_at": doc.UploadedAt,
			"username":    doc.User.Username,
		})
	}
	c.JSON(http.StatusOK, gin.H{"documents": items})
}

func (ctl *AdminController) AdminDeleteDocument(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID tidak valid"})
		return
	}

	var doc models.Document
	if err := db.First(&doc, "id = ?", docID).Error; err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Dokumen tidak ditemukan"})
		return
	}

	if err := db.Delete(&doc).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal menghapus dokumen"})
		return
	}
	utils.RemoveStoredFile(doc.FilePath)

	ws.BroadcastDocumentListChanged()
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Dokumen '%s' berhasil dihapus", doc.OriginalName),
	})
}

// ==== PEMANTAUAN CHAT ====

func (ctl *AdminController) GetAllChats(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	var exchanges []models.ChatExchange
	if err := db.Preload("User").Order("created_at DESC").Limit(100).Find(&exchanges).Error; err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengambil riwayat chat"})
		return
	}

	chats := make([]gin.H, 0, len(exchanges))
	for _, ex := range exchanges {
		chats = append(chats, gin.H{
			"id":        ex.ID,
			"username":  ex.User.Username,
			"message":   ex.Question,
			"response":  ex.Answer,
			"timestamp": ex.CreatedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"chats": chats})
}

// CleanupOldData menghapus riwayat chat lebih tua dari `days` hari (default 30)
func (ctl *AdminController) CleanupOldData(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)

	days, err := strconv.Atoi(c.DefaultQuery("days", "30"))
	if err != nil || days <= 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Parameter days tidak valid"})
		return
	}

	deleted, err := utils.CleanupOldExchanges(db, days)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal membersihkan data lama"})
		return
	}

	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("Berhasil menghapus %d riwayat chat lama", deleted),
	})
}

// ==== STATISTIK ====

type activeUserRow struct {
	Username  string `json:"username"`
	ChatCount int64  `json:"chat_count"`
}

func (ctl *AdminController) GetSystemStats(c *gin.Context) {
	db := c.MustGet("db").(*gorm.DB)
	stats := gin.H{}

	var totalUsers int64
	db.Model(&models.User{}).Where("role = ?", models.RoleUser).Count(&totalUsers)
	stats["total_users"] = totalUsers

	var activeUsers int64
	db.Model(&models.User{}).Where("role = ? AND is_active = ?", models.RoleUser, true).Count(&activeUsers)
	stats["active_users"] = activeUsers

	var totalDocuments int64
	db.Model(&models.Document{}).Count(&totalDocuments)
	stats["total_documents"] = totalDocuments

	var totalChats int64
	db.Model(&models.ChatExchange{}).Count(&totalChats)
	stats["total_chats"] = totalChats

	var recentRegistrations int64
	db.Model(&models.User{}).
		Where("created_at >= ?", time.Now().AddDate(0, 0, -7)).
		Count(&recentRegistrations)
	stats["recent_registrations"] = recentRegistrations

	var mostActive []activeUserRow
	db.Table("users").
		Select("users.username, COUNT(chat_exchanges.id) AS chat_count").
		Joins("LEFT JOIN chat_exchanges ON chat_exchanges.user_id = users.id").
		Where("users.role = ?", models.RoleUser).
		Group("users.id, users.username").
		Order("chat_count DESC").
		Limit(5).
		Scan(&mostActive)
	stats["most_active_users"] = mostActive

	c.JSON(http.StatusOK, gin.H{"stats": stats})
}
