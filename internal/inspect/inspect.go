// Package inspect classifies uploaded files by extension and magic bytes.
package inspect

import (
	"archive/zip"
	"bytes"
	"fmt"
	"net/http"
	"path/filepath"
	"strings"

	"github.com/ledongthuc/pdf"

	"lexmerge/internal/domain"
)

// Result describes an accepted upload.
type Result struct {
	ContentType string
	Kind        domain.FileKind
	// Pages is set for PDFs only.
	Pages int
}

// Classify checks that name's extension is allowed and that the content agrees
// with it. PDFs must parse and contain at least one page.
func Classify(name string, data []byte) (*Result, error) {
	ext := strings.ToLower(strings.TrimPrefix(filepath.Ext(name), "."))
	expected, ok := domain.AllowedExtensions[ext]
	if !ok {
		return nil, fmt.Errorf("%w: extension %q", domain.ErrUnsupportedFileType, ext)
	}
	if len(data) == 0 {
		return nil, fmt.Errorf("%w: empty file", domain.ErrUnsupportedFileType)
	}

	head := data
	if len(head) > 512 {
		head = head[:512]
	}
	detected := http.DetectContentType(head)

	switch expected {
	case domain.DocxContentType:
		if detected != "application/zip" || !isDocx(data) {
			return nil, fmt.Errorf("%w: %s is not a Word document", domain.ErrUnsupportedFileType, name)
		}
		return &Result{ContentType: expected, Kind: domain.FileKindTemplate}, nil

	case "application/pdf":
		if detected != expected {
			return nil, fmt.Errorf("%w: %s is not a PDF", domain.ErrUnsupportedFileType, name)
		}
		pages, err := PageCount(data)
		if err != nil {
			return nil, fmt.Errorf("%w: %s: %v", domain.ErrUnsupportedFileType, name, err)
		}
		return &Result{ContentType: expected, Kind: domain.FileKindPDF, Pages: pages}, nil

	case "image/heic", "image/heif":
		// net/http does not sniff HEIF; check the ISO BMFF ftyp box instead.
		if !isHEIF(data) {
			return nil, fmt.Errorf("%w: %s is not a HEIF image", domain.ErrUnsupportedFileType, name)
		}
		return &Result{ContentType: expected, Kind: domain.FileKindImage}, nil

	default:
		if detected != expected {
			return nil, fmt.Errorf("%w: %s looks like %s", domain.ErrUnsupportedFileType, name, detected)
		}
		return &Result{ContentType: expected, Kind: domain.FileKindImage}, nil
	}
}

// PageCount returns the number of pages of a PDF document.
func PageCount(data []byte) (pages int, err error) {
	// The pdf reader panics on some malformed inputs.
	defer func() {
		if r := recover(); r != nil {
			pages, err = 0, fmt.Errorf("malformed PDF: %v", r)
		}
	}()

	r, err := pdf.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return 0, fmt.Errorf("opening PDF: %w", err)
	}
	n := r.NumPage()
	if n < 1 {
		return 0, fmt.Errorf("PDF has no pages")
	}
	return n, nil
}

func isDocx(data []byte) bool {
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	if err != nil {
		return false
	}
	for _, f := range zr.File {
		if f.Name == "word/document.xml" {
			return true
		}
	}
	return false
}

var heifBrands = []string{"heic", "heix", "hevc", "hevx", "heim", "heis", "mif1", "msf1", "heif"}

func isHEIF(data []byte) bool {
	if len(data) < 12 || string(data[4:8]) != "ftyp" {
		return false
	}
	brand := string(data[8:12])
	for _, b := range heifBrands {
		if brand == b {
			return true
		}
	}
	return false
}
