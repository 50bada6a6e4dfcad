package s3_test

import (
	"context"
	"errors"
	"io"
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"lexmerge/internal/config"
	"lexmerge/internal/domain"
	"lexmerge/internal/port"
	s3storage "lexmerge/internal/storage/s3"
)

const listXML = `<?xml version="1.0" encoding="UTF-8"?>
<ListBucketResult xmlns="http://s3.amazonaws.com/doc/2006-03-01/">
  <Name>lexmerge-templates</Name>
  <Prefix>templates/</Prefix>
  <KeyCount>2</KeyCount>
  <MaxKeys>1000</MaxKeys>
  <IsTruncated>false</IsTruncated>
  <Contents><Key>templates/a/notice.docx</Key><Size>120</Size></Contents>
  <Contents><Key>templates/b/deed.docx</Key><Size>340</Size></Contents>
</ListBucketResult>`

const noSuchKeyXML = `<?xml version="1.0" encoding="UTF-8"?>
<Error><Code>NoSuchKey</Code><Message>The specified key does not exist.</Message></Error>`

func newTestClient(t *testing.T, handler http.HandlerFunc) port.ObjectStorage {
	t.Helper()
	server := httptest.NewServer(handler)
	t.Cleanup(server.Close)

	client, err := s3storage.NewS3Client(context.Background(), &config.StorageConfig{
		Provider:  "s3",
		Region:    "ap-south-1",
		Bucket:    "lexmerge-templates",
		Endpoint:  server.URL,
		AccessKey: "test",
		SecretKey: "test",
	})
	require.NoError(t, err)
	return client
}

func TestS3Client_List(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/lexmerge-templates", strings.TrimSuffix(r.URL.Path, "/"))
		assert.Equal(t, "2", r.URL.Query().Get("list-type"))
		assert.Equal(t, "templates/", r.URL.Query().Get("prefix"))
		w.Header().Set("Content-Type", "application/xml")
		_, _ = io.WriteString(w, listXML)
	})

	objects, err := client.List(context.Background(), "lexmerge-templates", "templates/")

	require.NoError(t, err)
	assert.Equal(t, []port.ObjectInfo{
		{Key: "templates/a/notice.docx", Size: 120},
		{Key: "templates/b/deed.docx", Size: 340},
	}, objects)
}

func TestS3Client_Download(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/lexmerge-templates/templates/a/notice.docx", r.URL.Path)
		_, _ = io.WriteString(w, "docx-bytes")
	})

	data, err := client.Download(context.Background(), "lexmerge-templates", "templates/a/notice.docx")

	require.NoError(t, err)
	assert.Equal(t, []byte("docx-bytes"), data)
}

func TestS3Client_Download_NotFound(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Header().Set("Content-Type", "application/xml")
		w.WriteHeader(http.StatusNotFound)
		_, _ = io.WriteString(w, noSuchKeyXML)
	})

	_, err := client.Download(context.Background(), "lexmerge-templates", "templates/missing.docx")

	assert.True(t, errors.Is(err, domain.ErrNotFound))
}

func TestS3Client_GetPresignedURL(t *testing.T) {
	client := newTestClient(t, func(w http.ResponseWriter, r *http.Request) {
		t.Fatalf("presigning must not call the server")
	})

	url, err := client.GetPresignedURL(context.Background(), "lexmerge-templates", "templates/a/notice.docx", 900)

	require.NoError(t, err)
	assert.Contains(t, url, "/lexmerge-templates/templates/a/notice.docx")
	assert.Contains(t, url, "X-Amz-Expires=900")
}
