package utils

import (
	"errors"
	"testing"

	"github.com/rafiansyah/docqa-backend/services"
)

func TestGetInputTypeFromExt(t *testing.T) {
	tests := []struct {
		ext  string
		want services.InputType
	}{
		{".pdf", services.InputPDF},
		{".PDF", services.InputPDF},
		{".docx", services.InputDOCX},
		{".txt", services.InputTXT},
	}
	for _, tt := range tests {
		got, err := GetInputTypeFromExt(tt.ext)
		if err != nil {
			t.Errorf("GetInputTypeFromExt(%q) error = %v", tt.ext, err)
		}
		if got != tt.want {
			t.Errorf("GetInputTypeFromExt(%q) = %v, want %v", tt.ext, got, tt.want)
		}
	}

	for _, ext := range []string{".doc", ".xlsx", ".png", ""} {
		if _, err := GetInputTypeFromExt(ext); !errors.Is(err, services.ErrUnsupportedFormat) {
			t.Errorf("GetInputTypeFromExt(%q) error = %v, want ErrUnsupportedFormat", ext, err)
		}
	}
}
