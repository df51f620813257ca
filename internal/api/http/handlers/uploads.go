package handlers

import (
	"io"
	"mime/multipart"

	"github.com/gofiber/fiber/v2"

	"github.com/spec-kit/placement-service/internal/storage"
	apperrors "github.com/spec-kit/placement-service/pkg/util/errorutil"
)

// openUpload turns a multipart part into a storage object. The caller closes the returned closer.
func openUpload(fh *multipart.FileHeader, maxBytes int64) (storage.Object, io.Closer, error) {
	if maxBytes > 0 && fh.Size > maxBytes {
		return storage.Object{}, nil, apperrors.NewValidationError("file too large", map[string]any{"file": fh.Filename, "max_bytes": maxBytes})
	}
	f, err := fh.Open()
	if err != nil {
		return storage.Object{}, nil, apperrors.NewValidationError("unreadable file", map[string]any{"file": fh.Filename})
	}
	return storage.Object{
		FileName:    fh.Filename,
		ContentType: fh.Header.Get(fiber.HeaderContentType),
		Size:        fh.Size,
		Body:        f,
	}, f, nil
}

// uploadSet opens every file in a multipart field list and closes them together.
type uploadSet struct {
	closers []io.Closer
}

func (u *uploadSet) open(fh *multipart.FileHeader, maxBytes int64) (storage.Object, error) {
	obj, closer, err := openUpload(fh, maxBytes)
	if err != nil {
		return storage.Object{}, err
	}
	u.closers = append(u.closers, closer)
	return obj, nil
}

func (u *uploadSet) openAll(files []*multipart.FileHeader, maxBytes int64) ([]storage.Object, error) {
	objs := make([]storage.Object, 0, len(files))
	for _, fh := range files {
		obj, err := u.open(fh, maxBytes)
		if err != nil {
			return nil, err
		}
		objs = append(objs, obj)
	}
	return objs, nil
}

func (u *uploadSet) Close() {
	for _, c := range u.closers {
		_ = c.Close()
	}
}

// multipartFiles returns the files in field, or nil when the request has none.
func multipartFiles(c *fiber.Ctx, field string) []*multipart.FileHeader {
	form, err := c.MultipartForm()
	if err != nil || form == nil {
		return nil
	}
	return form.File[field]
}
