// internal/upload/receiver.go
package upload

import (
	"fmt"
	"io"
	"math/rand/v2"
	"os"
	"path/filepath"
	"strings"
	"time"

	"recruitment-core/internal/common/errors"
	"recruitment-core/internal/common/logger"
)

// MaxFileSize is the upload size limit (5 MiB), matching the intake contract.
const MaxFileSize = 5 * 1024 * 1024

var allowedExtensions = map[string]bool{
	".pdf":  true,
	".docx": true,
	".doc":  true,
}

// StoredFile is a durable upload plus its release action. The receiver never
// deletes on its own; Remove is the intake chain's cleanup hook.
type StoredFile struct {
	Path         string
	OriginalName string
}

// Remove deletes the stored file. Best-effort: callers log the error instead
// of letting it mask the failure that triggered cleanup.
func (f *StoredFile) Remove() error {
	return os.Remove(f.Path)
}

// Receiver accepts one uploaded resume file, enforcing type and size
// constraints before anything touches storage.
type Receiver struct {
	dir     string
	maxSize int64
	logger  logger.Logger
}

func NewReceiver(dir string, maxSize int64, log logger.Logger) *Receiver {
	if maxSize <= 0 {
		maxSize = MaxFileSize
	}
	return &Receiver{
		dir:     dir,
		maxSize: maxSize,
		logger:  log.WithFields(map[string]interface{}{"component": "upload-receiver"}),
	}
}

// Save validates and stores one upload, returning the durable file. The
// declared size is checked up front; the copy is capped as well in case the
// declaration lied.
func (r *Receiver) Save(originalName string, declaredSize int64, src io.Reader) (*StoredFile, error) {
	ext := strings.ToLower(filepath.Ext(originalName))
	if !allowedExtensions[ext] {
		return nil, errors.NewInvalidFileTypeError(ext)
	}
	if declaredSize > r.maxSize {
		return nil, errors.NewFileTooLargeError(declaredSize, r.maxSize)
	}

	if err := os.MkdirAll(r.dir, 0o755); err != nil {
		return nil, errors.NewFileSaveError(err)
	}

	path := filepath.Join(r.dir, storedName(ext))
	dst, err := os.Create(path)
	if err != nil {
		return nil, errors.NewFileSaveError(err)
	}

	written, err := io.Copy(dst, io.LimitReader(src, r.maxSize+1))
	if closeErr := dst.Close(); err == nil {
		err = closeErr
	}
	if err != nil {
		os.Remove(path)
		return nil, errors.NewFileSaveError(err)
	}
	if written > r.maxSize {
		os.Remove(path)
		return nil, errors.NewFileTooLargeError(written, r.maxSize)
	}

	r.logger.Debug("upload stored", map[string]interface{}{
		"path":  path,
		"bytes": written,
	})

	return &StoredFile{Path: path, OriginalName: originalName}, nil
}

// storedName builds a collision-free file name preserving the original
// extension, e.g. resume-1735689600123-482910475.pdf
func storedName(ext string) string {
	return fmt.Sprintf("resume-%d-%09d%s", time.Now().UnixMilli(), rand.IntN(1_000_000_000), ext)
}
