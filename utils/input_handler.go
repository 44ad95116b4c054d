package utils

import (
	"strings"

	"github.com/rafiansyah/docqa-backend/services"
)

// GetInputTypeFromExt memetakan ekstensi file ke InputType
func GetInputTypeFromExt(ext string) (services.InputType, error) {
	switch strings.ToLower(ext) {
	case ".pdf":
		return services.InputPDF, nil
	case ".docx":
		return services.InputDOCX, nil
	case ".txt":
		return services.InputTXT, nil
	default:
		return "", services.ErrUnsupportedFormat
	}
}
