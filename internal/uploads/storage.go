// Package uploads persists client image uploads to local disk. Stored
// files are served verbatim and are not scoped to a user.
package uploads

import (
	"errors"
	"fmt"
	"io"
	"math/rand"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/lifelog-labs/lifelog/backend/internal/apperrors"
	"go.uber.org/zap"
)

// DefaultMaxBytes caps uploads at 5 MB.
const DefaultMaxBytes = 5 << 20

var errMissingDirectory = errors.New("uploads: directory is required")

var allowedExtensions = map[string]struct{}{
	".jpeg": {},
	".jpg":  {},
	".png":  {},
	".gif":  {},
	".webp": {},
}

// StorageConfig describes the dependencies of the upload store.
type StorageConfig struct {
	Dir      string
	MaxBytes int64
	Clock    func() time.Time
	Logger   *zap.Logger
}

// Storage writes validated image files into a single directory.
type Storage struct {
	dir      string
	maxBytes int64
	clock    func() time.Time
	logger   *zap.Logger
}

// NewStorage creates the upload directory if needed and returns a Storage.
func NewStorage(cfg StorageConfig) (*Storage, error) {
	if strings.TrimSpace(cfg.Dir) == "" {
		return nil, errMissingDirectory
	}
	if err := os.MkdirAll(cfg.Dir, 0o755); err != nil {
		return nil, fmt.Errorf("uploads: create directory: %w", err)
	}
	maxBytes := cfg.MaxBytes
	if maxBytes <= 0 {
		maxBytes = DefaultMaxBytes
	}
	clock := cfg.Clock
	if clock == nil {
		clock = time.Now
	}
	logger := cfg.Logger
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Storage{dir: cfg.Dir, maxBytes: maxBytes, clock: clock, logger: logger}, nil
}

// Dir returns the directory files are stored in, for static serving.
func (s *Storage) Dir() string {
	return s.dir
}

// SaveImage validates and persists one uploaded file, returning the
// stored file name.
func (s *Storage) SaveImage(file *multipart.FileHeader) (string, error) {
	if file == nil {
		return "", apperrors.InvalidArgument("no file uploaded")
	}

	extension := strings.ToLower(filepath.Ext(file.Filename))
	if _, ok := allowedExtensions[extension]; !ok {
		return "", apperrors.InvalidArgument("only image files are allowed (jpeg, jpg, png, gif, webp)")
	}
	if file.Size > s.maxBytes {
		return "", apperrors.InvalidArgument("file exceeds the 5MB size limit")
	}

	name := fmt.Sprintf("file-%d-%09d%s", s.clock().UnixMilli(), rand.Intn(1_000_000_000), extension)

	source, err := file.Open()
	if err != nil {
		s.logger.Error("upload open failed", zap.String("file", file.Filename), zap.Error(err))
		return "", apperrors.Internal("failed to store file", err)
	}
	defer source.Close()

	destination, err := os.Create(filepath.Join(s.dir, name))
	if err != nil {
		s.logger.Error("upload create failed", zap.String("file", name), zap.Error(err))
		return "", apperrors.Internal("failed to store file", err)
	}
	defer destination.Close()

	if _, err := io.Copy(destination, source); err != nil {
		s.logger.Error("upload write failed", zap.String("file", name), zap.Error(err))
		return "", apperrors.Internal("failed to store file", err)
	}

	return name, nil
}
