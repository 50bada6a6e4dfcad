package service_test

import (
	"context"
	"errors"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexmerge/internal/docmerge"
	"lexmerge/internal/domain"
	"lexmerge/internal/service"
)

func newSessionService(limits service.UploadLimits) (service.SessionService, context.Context) {
	return service.NewSessionService(newStore(), strictEngine(), limits), context.Background()
}

func TestSessionService_CreateAndGet(t *testing.T) {
	svc, ctx := newSessionService(service.UploadLimits{})

	sess, err := svc.Create(ctx)
	require.NoError(t, err)
	assert.NotEqual(t, uuid.Nil, sess.ID)
	assert.Empty(t, sess.Files)
	assert.Nil(t, sess.Record)

	got, err := svc.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, sess.ID, got.ID)
}

func TestSessionService_Get_NotFound(t *testing.T) {
	svc, ctx := newSessionService(service.UploadLimits{})
	_, err := svc.Get(ctx, uuid.New())
	assert.ErrorIs(t, err, domain.ErrSessionNotFound)
}

func TestSessionService_AddFiles_SourcesAndTemplate(t *testing.T) {
	svc, ctx := newSessionService(service.UploadLimits{})
	sess, err := svc.Create(ctx)
	require.NoError(t, err)

	sess, err = svc.AddFiles(ctx, sess.ID, []service.UploadedFile{
		{Name: "scan.png", Data: pngBytes},
		{Name: "Notice.docx", Data: templateDocx(t, "To the {COURT}", "Branch: {branch}")},
	})
	require.NoError(t, err)

	require.Len(t, sess.Files, 1)
	assert.Equal(t, "scan.png", sess.Files[0].Name)
	assert.Equal(t, "image/png", sess.Files[0].ContentType)
	require.NotNil(t, sess.Template)
	assert.Equal(t, "Notice.docx", sess.Template.Name)
	assert.Equal(t, []string{"COURT", "branch"}, sess.Template.Placeholders)
}

func TestSessionService_AddFiles_TemplateWithTagProblemsAccepted(t *testing.T) {
	svc, ctx := newSessionService(service.UploadLimits{})
	sess, err := svc.Create(ctx)
	require.NoError(t, err)

	sess, err = svc.AddFiles(ctx, sess.ID, []service.UploadedFile{
		{Name: "broken.docx", Data: templateDocx(t, "unclosed {COURT")},
	})
	require.NoError(t, err)
	require.NotNil(t, sess.Template)
	assert.Nil(t, sess.Template.Placeholders)
}

func TestSessionService_AddFiles_Rejections(t *testing.T) {
	tests := []struct {
		name    string
		limits  service.UploadLimits
		files   []service.UploadedFile
		wantErr error
	}{
		{
			name:    "no files",
			wantErr: domain.ErrUnsupportedFileType,
		},
		{
			name:    "disallowed extension",
			files:   []service.UploadedFile{{Name: "notes.txt", Data: []byte("hello")}},
			wantErr: domain.ErrUnsupportedFileType,
		},
		{
			name:    "content does not match extension",
			files:   []service.UploadedFile{{Name: "scan.pdf", Data: pngBytes}},
			wantErr: domain.ErrUnsupportedFileType,
		},
		{
			name:    "too large",
			limits:  service.UploadLimits{MaxFileBytes: 10},
			files:   []service.UploadedFile{{Name: "scan.png", Data: pngBytes}},
			wantErr: domain.ErrFileTooLarge,
		},
		{
			name:   "too many files",
			limits: service.UploadLimits{MaxFiles: 1},
			files: []service.UploadedFile{
				{Name: "a.png", Data: pngBytes},
				{Name: "b.png", Data: pngBytes},
			},
			wantErr: domain.ErrTooManyFiles,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			svc, ctx := newSessionService(tt.limits)
			sess, err := svc.Create(ctx)
			require.NoError(t, err)

			_, err = svc.AddFiles(ctx, sess.ID, tt.files)
			assert.ErrorIs(t, err, tt.wantErr)

			got, err := svc.Get(ctx, sess.ID)
			require.NoError(t, err)
			assert.Empty(t, got.Files)
		})
	}
}

func TestSessionService_AddFiles_InvalidTemplateContainer(t *testing.T) {
	svc, ctx := newSessionService(service.UploadLimits{})
	sess, err := svc.Create(ctx)
	require.NoError(t, err)

	// A zip whose document part is not XML.
	data := templateDocx(t, "<<<")
	_, err = svc.AddFiles(ctx, sess.ID, []service.UploadedFile{{Name: "bad.docx", Data: data}})
	assert.ErrorIs(t, err, domain.ErrInvalidTemplateFormat)
}

func TestSessionService_RemoveFile(t *testing.T) {
	svc, ctx := newSessionService(service.UploadLimits{})
	sess, err := svc.Create(ctx)
	require.NoError(t, err)
	sess, err = svc.AddFiles(ctx, sess.ID, []service.UploadedFile{
		{Name: "a.png", Data: pngBytes},
		{Name: "b.png", Data: pngBytes},
		{Name: "t.docx", Data: templateDocx(t, "{COURT}")},
	})
	require.NoError(t, err)

	sess, err = svc.RemoveFile(ctx, sess.ID, sess.Files[0].ID)
	require.NoError(t, err)
	require.Len(t, sess.Files, 1)
	assert.Equal(t, "b.png", sess.Files[0].Name)

	sess, err = svc.RemoveFile(ctx, sess.ID, sess.Template.ID)
	require.NoError(t, err)
	assert.Nil(t, sess.Template)

	_, err = svc.RemoveFile(ctx, sess.ID, uuid.New())
	assert.ErrorIs(t, err, domain.ErrFileNotFound)
}

func TestSessionService_UpdateField(t *testing.T) {
	store := newStore()
	svc := service.NewSessionService(store, strictEngine(), service.UploadLimits{})
	ctx := context.Background()
	sess := newSession(t, store)

	_, err := svc.UpdateField(ctx, sess.ID, 1, "x")
	assert.ErrorIs(t, err, domain.ErrNoExtractionResult)

	withRecord(t, store, sess, sampleRecord())

	updated, err := svc.UpdateField(ctx, sess.ID, 5, "ACC-0042")
	require.NoError(t, err)
	assert.Equal(t, "ACC-0042", updated.Record.Fields[2].Value)

	_, err = svc.UpdateField(ctx, sess.ID, 99, "x")
	assert.ErrorIs(t, err, domain.ErrFieldNotFound)
}

func TestSessionService_UpdateSections(t *testing.T) {
	store := newStore()
	svc := service.NewSessionService(store, strictEngine(), service.UploadLimits{})
	ctx := context.Background()
	sess := newSession(t, store)
	withRecord(t, store, sess, sampleRecord())

	desc := "Plot 7, Ward 3"
	updated, err := svc.UpdateSections(ctx, sess.ID, service.SectionsUpdate{ImmovablePropertyDescription: &desc})
	require.NoError(t, err)
	assert.Equal(t, desc, updated.Record.ImmovablePropertyDescription)
	assert.Equal(t, "1. R. Kumar\n2. S. Devi", updated.Record.ApplicantsAndCoBorrowers)
}

func TestSessionService_ReplaceRecord(t *testing.T) {
	store := newStore()
	svc := service.NewSessionService(store, strictEngine(), service.UploadLimits{})
	ctx := context.Background()
	sess := newSession(t, store)

	rec := sampleRecord()
	updated, err := svc.ReplaceRecord(ctx, sess.ID, rec)
	require.NoError(t, err)
	assert.Equal(t, rec, updated.Record)

	// The stored record is a copy.
	rec.Fields[0].Value = "changed"
	got, err := svc.Get(ctx, sess.ID)
	require.NoError(t, err)
	assert.Equal(t, "District Court, Salem", got.Record.Fields[0].Value)

	bad := sampleRecord()
	bad.Fields[1].ID = 1
	_, err = svc.ReplaceRecord(ctx, sess.ID, bad)
	assert.ErrorIs(t, err, domain.ErrInvalidRecord)

	_, err = svc.ReplaceRecord(ctx, sess.ID, nil)
	assert.ErrorIs(t, err, domain.ErrInvalidRecord)
}

func TestSessionService_ReplaceRecord_RejectedWhileExtracting(t *testing.T) {
	store := newStore()
	svc := service.NewSessionService(store, strictEngine(), service.UploadLimits{})
	ctx := context.Background()
	sess := newSession(t, store)
	_, err := store.Update(ctx, sess.ID, func(s *domain.Session) error {
		s.Extracting = true
		return nil
	})
	require.NoError(t, err)

	_, err = svc.ReplaceRecord(ctx, sess.ID, sampleRecord())
	assert.ErrorIs(t, err, domain.ErrExtractionInProgress)
}

func TestSessionService_Reset(t *testing.T) {
	svc, ctx := newSessionService(service.UploadLimits{})
	sess, err := svc.Create(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.Reset(ctx, sess.ID))
	_, err = svc.Get(ctx, sess.ID)
	assert.True(t, errors.Is(err, domain.ErrSessionNotFound))

	assert.ErrorIs(t, svc.Reset(ctx, sess.ID), domain.ErrSessionNotFound)
}

func TestSessionService_TemplateMergesAfterUpload(t *testing.T) {
	store := newStore()
	svc := service.NewSessionService(store, strictEngine(), service.UploadLimits{})
	ctx := context.Background()
	sess := newSession(t, store)

	sess, err := svc.AddFiles(ctx, sess.ID, []service.UploadedFile{{Name: "t.docx", Data: templateDocx(t, "{COURT}")}})
	require.NoError(t, err)

	out, err := strictEngine().Merge(docmerge.Template{Name: sess.Template.Name, Data: sess.Template.Data}, sampleRecord())
	require.NoError(t, err)
	assert.Equal(t, "Populated_t.docx", out.FileName)
}
