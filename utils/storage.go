package utils

import (
	"fmt"
	"log"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
	"github.com/gosimple/slug"
)

// SaveUploadedFile menyimpan isi file ke direktori upload lokal.
// Nama file di disk: <docID>_<nama-asli-tersanitasi>.<ext>
func SaveUploadedFile(data []byte, uploadDir string, docID uuid.UUID, originalName string) (string, error) {
	if err := os.MkdirAll(uploadDir, 0o755); err != nil {
		return "", fmt.Errorf("gagal membuat direktori upload: %w", err)
	}

	ext := strings.ToLower(filepath.Ext(originalName))
	base := strings.TrimSuffix(originalName, filepath.Ext(originalName))
	name := fmt.Sprintf("%s_%s%s", docID.String(), slug.Make(base), ext)

	path := filepath.Join(uploadDir, name)
	if err := os.WriteFile(path, data, 0o644); err != nil {
		return "", fmt.Errorf("gagal menulis file: %w", err)
	}
	return path, nil
}

// RemoveStoredFile menghapus file dokumen dari disk. File yang sudah tidak
// ada bukan error; baris database dan file dihapus bersamaan oleh pemanggil.
func RemoveStoredFile(path string) {
	if path == "" {
		return
	}
	if err := os.Remove(path); err != nil && !os.IsNotExist(err) {
		log.Printf("Gagal menghapus file %s: %v", path, err)
	}
}
