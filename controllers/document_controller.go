package controllers

import (
	"errors"
	"fmt"
	"io"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/gin-gonic/gin"
	"github.com/google/uuid"

	"github.com/rafiansyah/docqa-backend/config"
	"github.com/rafiansyah/docqa-backend/models"
	"github.com/rafiansyah/docqa-backend/services"
	"github.com/rafiansyah/docqa-backend/utils"
	"github.com/rafiansyah/docqa-backend/ws"
)

const (
	maxUploadFiles    = 5
	maxUploadFileSize = 20 * 1024 * 1024 // 20MB per file
)

type DocumentController struct {
	Cfg   *config.Config
	Store services.DocumentStore
}

func NewDocumentController(cfg *config.Config, store services.DocumentStore) *DocumentController {
	return &DocumentController{Cfg: cfg, Store: store}
}

// UploadDocuments menerima maksimal 5 file per request. Ekstensi yang tidak
// didukung ditolak sebelum ada file yang tersimpan.
func (ctl *DocumentController) UploadDocuments(c *gin.Context) {
	uid, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id tidak valid"})
		return
	}

	form, err := c.MultipartForm()
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tidak ada file terlampir"})
		return
	}
	files := form.File["files"]
	if len(files) == 0 {
		c.JSON(http.StatusBadRequest, gin.H{"error": "Tidak ada file terlampir"})
		return
	}
	if len(files) > maxUploadFiles {
		c.JSON(http.StatusBadRequest, gin.H{"error": fmt.Sprintf("Maksimal %d file per unggahan", maxUploadFiles)})
		return
	}

	// Validasi seluruh batch dulu supaya penolakan terjadi sebelum penyimpanan
	for _, file := range files {
		if _, err := utils.GetInputTypeFromExt(filepath.Ext(file.Filename)); err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Tipe file tidak didukung: " + file.Filename})
			return
		}
		if file.Size > maxUploadFileSize {
			c.JSON(http.StatusBadRequest, gin.H{"error": "File melebihi 20MB: " + file.Filename})
			return
		}
	}

	uploaded := make([]gin.H, 0, len(files))
	for _, file := range files {
		src, err := file.Open()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal membuka file", "details": err.Error()})
			return
		}
		data, err := io.ReadAll(src)
		src.Close()
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal membaca file", "details": err.Error()})
			return
		}

		// Ekstraksi dijalankan langsung; kegagalan total hanya menghasilkan
		// teks kosong, dokumen tetap tercatat.
		result, err := services.ExtractText(data, file.Filename)
		if err != nil {
			c.JSON(http.StatusBadRequest, gin.H{"error": "Tipe file tidak didukung: " + file.Filename})
			return
		}

		docID := uuid.New()
		path, err := utils.SaveUploadedFile(data, ctl.Cfg.UploadDir, docID, file.Filename)
		if err != nil {
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal menyimpan file", "details": err.Error()})
			return
		}

		doc := models.Document{
			ID:            docID,
			UserID:        uid,
			OriginalName:  file.Filename,
			FilePath:      path,
			FileType:      strings.TrimPrefix(strings.ToLower(filepath.Ext(file.Filename)), "."),
			FileSize:      file.Size,
			ExtractedText: result.Text,
			CharCount:     result.CharCount,
			WordCount:     result.WordCount,
			Preview:       result.Preview,
		}
		if err := ctl.Store.Save(&doc); err != nil {
			utils.RemoveStoredFile(path)
			c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal menyimpan dokumen", "details": err.Error()})
			return
		}

		ws.SendStatusUpdate(docID.String(), "Selesai diekstrak", "")
		uploaded = append(uploaded, gin.H{
			"id":       doc.ID,
			"filename": doc.OriginalName,
			"size":     doc.FileSize,
		})
	}

	ws.BroadcastDocumentListChanged()
	c.JSON(http.StatusOK, gin.H{
		"message": fmt.Sprintf("%d file berhasil diunggah", len(uploaded)),
		"files":   uploaded,
	})
}

func (ctl *DocumentController) GetDocuments(c *gin.Context) {
	uid, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id tidak valid"})
		return
	}

	documents, err := ctl.Store.ListByOwner(uid)
	if err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengambil daftar dokumen"})
		return
	}

	items := make([]gin.H, 0, len(documents))
	for _, doc := range documents {
		items = append(items, gin.H{
			"id":          doc.ID,
			"filename":    doc.OriginalName,
			"size":        doc.FileSize,
			"char_count":  doc.CharCount,
			"word_count":  doc.WordCount,
			"preview":     doc.Preview,
			"uploaded_at": doc.UploadedAt,
		})
	}
	c.JSON(http.StatusOK, gin.H{"documents": items})
}

func (ctl *DocumentController) GetDocumentDetail(c *gin.Context) {
	uid, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id tidak valid"})
		return
	}
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID tidak valid"})
		return
	}

	doc, err := ctl.Store.GetOwned(docID, uid)
	if err != nil {
		c.JSON(http.StatusNotFound, gin.H{"error": "Dokumen tidak ditemukan"})
		return
	}
	c.JSON(http.StatusOK, doc)
}

// DeleteDocument menghapus dokumen milik user: baris database dan file di
// disk dihapus bersamaan.
func (ctl *DocumentController) DeleteDocument(c *gin.Context) {
	uid, err := uuid.Parse(c.GetString("user_id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "user_id tidak valid"})
		return
	}
	docID, err := uuid.Parse(c.Param("id"))
	if err != nil {
		c.JSON(http.StatusBadRequest, gin.H{"error": "ID tidak valid"})
		return
	}

	doc, err := ctl.Store.GetOwned(docID, uid)
	if err != nil {
		if errors.Is(err, services.ErrNotFound) {
			c.JSON(http.StatusNotFound, gin.H{"error": "Dokumen tidak ditemukan"})
			return
		}
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal mengambil dokumen"})
		return
	}

	if err := ctl.Store.Delete(doc.ID); err != nil {
		c.JSON(http.StatusInternalServerError, gin.H{"error": "Gagal menghapus dokumen"})
		return
	}
	utils.RemoveStoredFile(doc.FilePath)

	ws.BroadcastDocumentListChanged()
	c.JSON(http.StatusOK, gin.H{"message": "Dokumen berhasil dihapus"})
}
