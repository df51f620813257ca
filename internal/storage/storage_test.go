package storage

import (
	"context"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/spec-kit/placement-service/internal/config"
)

func TestObjectKeyKeepsExtension(t *testing.T) {
	key := ObjectKey("/resumes/", "My CV.PDF")
	assert.True(t, strings.HasPrefix(key, "resumes/"))
	assert.True(t, strings.HasSuffix(key, ".pdf"))
	assert.NotEqual(t, key, ObjectKey("resumes", "My CV.PDF"))
}

func TestPublicBaseURL(t *testing.T) {
	tests := []struct {
		name string
		cfg  config.StorageConfig
		want string
	}{
		{"explicit", config.StorageConfig{PublicBaseURL: "https://cdn.example.com/", Bucket: "docs"}, "https://cdn.example.com"},
		{"path style endpoint", config.StorageConfig{Endpoint: "http://minio:9000", Bucket: "docs", UsePathStyle: true}, "http://minio:9000/docs"},
		{"virtual host endpoint", config.StorageConfig{Endpoint: "https://storage.example.com", Bucket: "docs"}, "https://docs.storage.example.com"},
		{"aws default", config.StorageConfig{Bucket: "docs", Region: "eu-west-1"}, "https://docs.s3.eu-west-1.amazonaws.com"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, PublicBaseURL(tt.cfg))
		})
	}
}

func TestMemoryStorePut(t *testing.T) {
	store := NewMemoryStore("http://localhost/files")
	url, err := store.Put(context.Background(), Object{
		Folder:   "certificates",
		FileName: "intern.pdf",
		Body:     strings.NewReader("%PDF-1.4"),
	})
	require.NoError(t, err)
	assert.True(t, strings.HasPrefix(url, "http://localhost/files/certificates/"))
	assert.Equal(t, 1, store.Len())
}
