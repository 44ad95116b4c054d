package services

import (
	"archive/zip"
	"bytes"
	"encoding/xml"
	"errors"
	"fmt"
	"io"
	"log"
	"path/filepath"
	"strings"
	"unicode/utf8"

	"github.com/ledongthuc/pdf"
	"golang.org/x/text/encoding"
	"golang.org/x/text/encoding/charmap"
	"golang.org/x/text/encoding/unicode"
)

type InputType string

const (
	InputPDF  InputType = "pdf"
	InputDOCX InputType = "docx"
	InputTXT  InputType = "txt"
)

var (
	ErrUnsupportedFormat = errors.New("format file tidak didukung")
	ErrDecode            = errors.New("isi file tidak dapat dibaca dengan encoding yang didukung")
)

// ExtractResult berisi teks hasil ekstraksi beserta metadatanya
type ExtractResult struct {
	Text      string `json:"-"`
	CharCount int    `json:"char_count"`
	WordCount int    `json:"word_count"`
	Preview   string `json:"preview"`
}

// ExtractText mengekstrak teks dari isi file berdasarkan ekstensi nama file.
// Ekstensi yang tidak dikenal ditolak dengan ErrUnsupportedFormat sebelum ada
// efek samping apa pun. Kegagalan ekstraksi pada format yang didukung tidak
// fatal: hasilnya teks kosong agar unggahan tetap tercatat.
func ExtractText(data []byte, filename string) (ExtractResult, error) {
	ext := strings.ToLower(filepath.Ext(filename))

	var text string
	var err error
	switch ext {
	case ".pdf":
		text, err = ExtractTextFromPDF(data)
	case ".docx":
		text, err = ExtractTextFromDOCX(data)
	case ".txt":
		text, err = ExtractTextFromTXT(data)
	default:
		return ExtractResult{}, ErrUnsupportedFormat
	}

	if err != nil {
		log.Printf("Gagal mengekstrak teks dari %s: %v", filename, err)
		text = ""
	}
	return buildResult(text), nil
}

func buildResult(text string) ExtractResult {
	preview := strings.TrimSpace(strings.ReplaceAll(firstRunes(text, 200), "\n", " "))
	if utf8.RuneCountInString(text) > 200 {
		preview += "..."
	}
	return ExtractResult{
		Text:      text,
		CharCount: utf8.RuneCountInString(text),
		WordCount: len(strings.Fields(text)),
		Preview:   preview,
	}
}

func firstRunes(s string, n int) string {
	runes := []rune(s)
	if len(runes) <= n {
		return s
	}
	return string(runes[:n])
}

// ExtractTextFromPDF menggabungkan teks semua halaman. Halaman yang gagal
// diekstrak dilewati, bukan menggagalkan seluruh dokumen.
func ExtractTextFromPDF(data []byte) (string, error) {
	reader, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("tidak dapat membuat reader PDF: %w", err)
	}

	var textBuilder strings.Builder
	pages := reader.NumPage()
	for i := 1; i <= pages; i++ {
		page := reader.Page(i)
		if page.V.IsNull() {
			continue
		}
		content, err := page.GetPlainText(nil)
		if err != nil {
			log.Printf("Gagal mengekstrak halaman %d: %v", i, err)
			continue
		}
		textBuilder.WriteString(content)
		textBuilder.WriteString("\n")
	}

	return textBuilder.String(), nil
}

// ExtractTextFromDOCX membaca word/document.xml dari arsip zip (.docx adalah
// file zip) dan mengumpulkan teks: paragraf dipisah newline, lalu isi tabel
// (sel dipisah spasi, baris dipisah newline).
func ExtractTextFromDOCX(data []byte) (string, error) {
	r, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return "", fmt.Errorf("tidak dapat membuka arsip docx: %w", err)
	}

	var docFile *zip.File
	for _, f := range r.File {
		if f.Name == "word/document.xml" {
			docFile = f
			break
		}
	}
	if docFile == nil {
		return "", errors.New("word/document.xml tidak ditemukan")
	}

	rc, err := docFile.Open()
	if err != nil {
		return "", err
	}
	defer rc.Close()

	// Telusuri token XML: teks paragraf dan teks tabel dikumpulkan terpisah
	var paragraphs, tables bytes.Buffer
	inTable := 0
	decoder := xml.NewDecoder(rc)
	for {
		tok, err := decoder.Token()
		if err == io.EOF {
			break
		}
		if err != nil {
			return "", err
		}
		switch se := tok.(type) {
		case xml.StartElement:
			switch se.Name.Local {
			case "tbl":
				inTable++
			case "t": // <w:t>
				var text string
				if err := decoder.DecodeElement(&text, &se); err == nil {
					if inTable > 0 {
						tables.WriteString(text)
					} else {
						paragraphs.WriteString(text)
					}
				}
			}
		case xml.EndElement:
			switch se.Name.Local {
			case "tbl":
				inTable--
			case "p":
				if inTable == 0 {
					paragraphs.WriteString("\n")
				}
			case "tc":
				tables.WriteString(" ")
			case "tr":
				tables.WriteString("\n")
			}
		}
	}

	return paragraphs.String() + tables.String(), nil
}

// ExtractTextFromTXT mencoba daftar encoding berurutan sampai ada yang cocok
func ExtractTextFromTXT(data []byte) (string, error) {
	// UTF-8 dicek langsung; decoder x/text mengganti byte rusak alih-alih gagal
	if utf8.Valid(data) {
		return string(data), nil
	}

	// UTF-16 wajib ber-BOM, sama seperti codec 'utf-16' Python
	if decoded, err := unicode.UTF16(unicode.LittleEndian, unicode.ExpectBOM).NewDecoder().Bytes(data); err == nil {
		return string(decoded), nil
	}

	// Latin-1 menerima semua byte sehingga jadi langkah terakhir yang selalu
	// berhasil; Windows-1252 dan ErrDecode hanya cadangan bila urutan berubah.
	for _, enc := range []encoding.Encoding{charmap.ISO8859_1, charmap.Windows1252} {
		if decoded, err := enc.NewDecoder().Bytes(data); err == nil {
			return string(decoded), nil
		}
	}

	return "", ErrDecode
}
