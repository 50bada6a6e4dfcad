package service_test

import (
	"archive/zip"
	"bytes"
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/require"

	"lexmerge/internal/docmerge"
	"lexmerge/internal/domain"
	"lexmerge/internal/port"
	"lexmerge/internal/repository/memory"
	"lexmerge/internal/service"
)

var pngBytes = append([]byte("\x89PNG\r\n\x1a\n"), make([]byte, 32)...)

// templateDocx builds a Word document with one paragraph per line.
func templateDocx(t *testing.T, lines ...string) []byte {
	t.Helper()
	var body strings.Builder
	for _, l := range lines {
		body.WriteString(`<w:p><w:r><w:t>`)
		body.WriteString(l)
		body.WriteString(`</w:t></w:r></w:p>`)
	}
	var buf bytes.Buffer
	zw := zip.NewWriter(&buf)
	w, err := zw.Create("word/document.xml")
	require.NoError(t, err)
	_, err = w.Write([]byte(`<?xml version="1.0" encoding="UTF-8"?>` +
		`<w:document xmlns:w="http://schemas.openxmlformats.org/wordprocessingml/2006/main"><w:body>` +
		body.String() + `</w:body></w:document>`))
	require.NoError(t, err)
	require.NoError(t, zw.Close())
	return buf.Bytes()
}

// documentText returns the concatenated <w:t> text of a merged document.
func documentText(t *testing.T, data []byte) string {
	t.Helper()
	zr, err := zip.NewReader(bytes.NewReader(data), int64(len(data)))
	require.NoError(t, err)
	for _, f := range zr.File {
		if f.Name != "word/document.xml" {
			continue
		}
		rc, err := f.Open()
		require.NoError(t, err)
		defer rc.Close()
		var b bytes.Buffer
		_, err = b.ReadFrom(rc)
		require.NoError(t, err)
		return b.String()
	}
	t.Fatal("word/document.xml missing")
	return ""
}

func sampleRecord() *domain.ExtractionRecord {
	return &domain.ExtractionRecord{
		Fields: []domain.ExtractionField{
			{ID: 1, FieldName: "COURT", Value: "District Court, Salem"},
			{ID: 2, FieldName: "BRANCH", Value: "Attur"},
			{ID: 5, FieldName: "ACCOUNT NO", Value: ""},
		},
		ImmovablePropertyDescription: "Survey No. 12/3, Attur Village",
		ApplicantsAndCoBorrowers:     "1. R. Kumar\n2. S. Devi",
	}
}

func strictEngine() *docmerge.Engine {
	return docmerge.NewEngine(docmerge.Options{Strict: true})
}

// newSession creates a session in store holding one PNG source file.
func newSession(t *testing.T, store port.SessionStore) *domain.Session {
	t.Helper()
	svc := service.NewSessionService(store, strictEngine(), service.UploadLimits{})
	sess, err := svc.Create(context.Background())
	require.NoError(t, err)
	sess, err = svc.AddFiles(context.Background(), sess.ID, []service.UploadedFile{{Name: "page1.png", Data: pngBytes}})
	require.NoError(t, err)
	return sess
}

// withRecord stores record on the session directly.
func withRecord(t *testing.T, store port.SessionStore, sess *domain.Session, record *domain.ExtractionRecord) {
	t.Helper()
	_, err := store.Update(context.Background(), sess.ID, func(s *domain.Session) error {
		s.Record = record
		return nil
	})
	require.NoError(t, err)
}

func newStore() port.SessionStore {
	return memory.NewSessionRepo()
}
