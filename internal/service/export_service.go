package service

import (
	"bytes"
	"context"
	"fmt"

	"github.com/google/uuid"

	"lexmerge/internal/csvexport"
	"lexmerge/internal/domain"
	"lexmerge/internal/port"
	"lexmerge/internal/xlsxexport"
)

// ExportFormat selects a tabular export.
type ExportFormat string

const (
	ExportFormatXLSX ExportFormat = "xlsx"
	ExportFormatCSV  ExportFormat = "csv"
)

// ExportFile is a rendered export ready for download.
type ExportFile struct {
	FileName    string
	ContentType string
	Data        []byte
}

// ExportService renders records as spreadsheets.
type ExportService interface {
	ExportSession(ctx context.Context, sessionID uuid.UUID, format ExportFormat) (*ExportFile, error)
	ExportRecord(record *domain.ExtractionRecord, format ExportFormat) (*ExportFile, error)
}

type exportService struct {
	store    port.SessionStore
	fileBase string
}

// NewExportService creates a new ExportService. fileBase names the downloads
// (without extension).
func NewExportService(store port.SessionStore, fileBase string) ExportService {
	if fileBase == "" {
		fileBase = "Extracted_Legal_Data"
	}
	return &exportService{store: store, fileBase: fileBase}
}

func (s *exportService) ExportSession(ctx context.Context, sessionID uuid.UUID, format ExportFormat) (*ExportFile, error) {
	sess, err := s.store.Get(ctx, sessionID)
	if err != nil {
		return nil, err
	}
	if sess.Record == nil {
		return nil, domain.ErrNoExtractionResult
	}
	return s.ExportRecord(sess.Record, format)
}

func (s *exportService) ExportRecord(record *domain.ExtractionRecord, format ExportFormat) (*ExportFile, error) {
	if record == nil {
		return nil, domain.ErrNoExtractionResult
	}
	switch format {
	case ExportFormatXLSX:
		data, err := xlsxexport.Export(record)
		if err != nil {
			return nil, err
		}
		return &ExportFile{
			FileName:    xlsxexport.BuildFilename(s.fileBase),
			ContentType: xlsxexport.ContentType,
			Data:        data,
		}, nil
	case ExportFormatCSV:
		var buf bytes.Buffer
		if err := csvexport.Export(&buf, record); err != nil {
			return nil, fmt.Errorf("csv export: %w", err)
		}
		return &ExportFile{
			FileName:    csvexport.BuildFilename(s.fileBase),
			ContentType: "text/csv; charset=utf-8",
			Data:        buf.Bytes(),
		}, nil
	default:
		return nil, fmt.Errorf("unknown export format %q", format)
	}
}
