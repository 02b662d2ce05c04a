package uploads

import (
	"context"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"mime/multipart"
	"os"
	"path"
	"path/filepath"
	"strings"

	"civiceye-be/services"

	"github.com/gabriel-vasile/mimetype"
	"github.com/google/uuid"
)

// URLPrefix is the path under which stored files are served.
const URLPrefix = "/uploads"

// DiskUploader writes attachments to a local directory.
type DiskUploader struct {
	dir      string
	maxBytes int64
}

func NewDiskUploader(dir string, maxBytes int64) (*DiskUploader, error) {
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("create upload dir: %w", err)
	}
	return &DiskUploader{dir: dir, maxBytes: maxBytes}, nil
}

// Dir returns the directory files are written to.
func (u *DiskUploader) Dir() string { return u.dir }

// Save stores every file or none of them. References are returned in the
// order the files were given.
func (u *DiskUploader) Save(ctx context.Context, files []*multipart.FileHeader) ([]string, error) {
	refs := make([]string, 0, len(files))
	for _, fh := range files {
		if err := ctx.Err(); err != nil {
			u.Discard(refs)
			return nil, err
		}
		ref, err := u.saveOne(fh)
		if err != nil {
			u.Discard(refs)
			return nil, err
		}
		refs = append(refs, ref)
	}
	return refs, nil
}

func (u *DiskUploader) saveOne(fh *multipart.FileHeader) (string, error) {
	if fh.Size > u.maxBytes {
		return "", &services.ValidationError{Field: "images", Message: fmt.Sprintf("file %q exceeds %d bytes", fh.Filename, u.maxBytes)}
	}

	src, err := fh.Open()
	if err != nil {
		return "", err
	}
	defer src.Close()

	mtype, err := mimetype.DetectReader(src)
	if err != nil {
		return "", err
	}
	if !strings.HasPrefix(mtype.String(), "image/") {
		return "", &services.ValidationError{Field: "images", Message: fmt.Sprintf("file %q is not an image", fh.Filename)}
	}
	if _, err := src.Seek(0, io.SeekStart); err != nil {
		return "", err
	}

	name := uuid.NewString() + mtype.Extension()
	dst, err := os.OpenFile(filepath.Join(u.dir, name), os.O_WRONLY|os.O_CREATE|os.O_EXCL, 0o644)
	if err != nil {
		return "", err
	}

	// One byte past the limit detects bodies larger than the declared size.
	n, err := io.Copy(dst, io.LimitReader(src, u.maxBytes+1))
	if cerr := dst.Close(); err == nil {
		err = cerr
	}
	if err == nil && n > u.maxBytes {
		err = &services.ValidationError{Field: "images", Message: fmt.Sprintf("file %q exceeds %d bytes", fh.Filename, u.maxBytes)}
	}
	if err != nil {
		_ = os.Remove(filepath.Join(u.dir, name))
		return "", err
	}

	return path.Join(URLPrefix, name), nil
}

// Discard removes stored files. Failures are logged, not returned.
func (u *DiskUploader) Discard(refs []string) {
	for _, ref := range refs {
		name := path.Base(ref)
		if name == "." || name == "/" {
			continue
		}
		err := os.Remove(filepath.Join(u.dir, name))
		if err != nil && !errors.Is(err, os.ErrNotExist) {
			slog.Warn("failed to discard upload", "ref", ref, "err", err)
		}
	}
}
