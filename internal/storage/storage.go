// Package storage uploads student and company documents to object storage.
package storage

import (
	"context"
	"io"
	"path"
	"strings"

	"github.com/google/uuid"
)

// Object describes an upload.
type Object struct {
	Folder      string
	FileName    string
	ContentType string
	Size        int64
	Body        io.Reader
}

// ObjectStore persists uploaded files and returns their public URL.
type ObjectStore interface {
	Put(ctx context.Context, obj Object) (string, error)
}

// ObjectKey builds a collision-free key that keeps the original extension.
func ObjectKey(folder, fileName string) string {
	ext := strings.ToLower(path.Ext(fileName))
	folder = strings.Trim(folder, "/")
	key := uuid.NewString() + ext
	if folder == "" {
		return key
	}
	return folder + "/" + key
}
