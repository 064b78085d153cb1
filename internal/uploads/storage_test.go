package uploads

import (
	"bytes"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/lifelog-labs/lifelog/backend/internal/apperrors"
)

func fileHeader(t *testing.T, filename string, content []byte) *multipart.FileHeader {
	t.Helper()
	var body bytes.Buffer
	writer := multipart.NewWriter(&body)
	part, err := writer.CreateFormFile("file", filename)
	if err != nil {
		t.Fatalf("failed to create form file: %v", err)
	}
	if _, err := part.Write(content); err != nil {
		t.Fatalf("failed to write form file: %v", err)
	}
	if err := writer.Close(); err != nil {
		t.Fatalf("failed to close writer: %v", err)
	}

	reader := multipart.NewReader(&body, writer.Boundary())
	form, err := reader.ReadForm(32 << 20)
	if err != nil {
		t.Fatalf("failed to read form: %v", err)
	}
	t.Cleanup(func() { form.RemoveAll() }) //nolint:errcheck
	return form.File["file"][0]
}

func newTestStorage(t *testing.T, maxBytes int64) *Storage {
	t.Helper()
	storage, err := NewStorage(StorageConfig{
		Dir:      t.TempDir(),
		MaxBytes: maxBytes,
		Clock: func() time.Time {
			return time.Unix(1700000000, 0)
		},
	})
	if err != nil {
		t.Fatalf("failed to create storage: %v", err)
	}
	return storage
}

func TestSaveImageWritesFile(t *testing.T) {
	storage := newTestStorage(t, 0)

	name, err := storage.SaveImage(fileHeader(t, "photo.PNG", []byte("pngbytes")))
	if err != nil {
		t.Fatalf("save failed: %v", err)
	}
	if !strings.HasPrefix(name, "file-") || !strings.HasSuffix(name, ".png") {
		t.Fatalf("unexpected stored name: %q", name)
	}

	stored, err := os.ReadFile(filepath.Join(storage.Dir(), name))
	if err != nil {
		t.Fatalf("failed to read stored file: %v", err)
	}
	if string(stored) != "pngbytes" {
		t.Fatalf("stored content mismatch: %q", stored)
	}
}

func TestSaveImageRejectsNonImageExtension(t *testing.T) {
	storage := newTestStorage(t, 0)

	_, err := storage.SaveImage(fileHeader(t, "script.exe", []byte("nope")))
	if err == nil {
		t.Fatalf("expected error for non-image extension")
	}
	if apperrors.KindOf(err) != apperrors.KindInvalidArgument {
		t.Fatalf("expected invalid-argument kind, got %d", apperrors.KindOf(err))
	}
}

func TestSaveImageRejectsOversizedFile(t *testing.T) {
	storage := newTestStorage(t, 4)

	_, err := storage.SaveImage(fileHeader(t, "big.jpg", []byte("way too large")))
	if err == nil {
		t.Fatalf("expected error for oversized file")
	}
	if apperrors.KindOf(err) != apperrors.KindInvalidArgument {
		t.Fatalf("expected invalid-argument kind, got %d", apperrors.KindOf(err))
	}
}

func TestSaveImageNilHeader(t *testing.T) {
	storage := newTestStorage(t, 0)

	if _, err := storage.SaveImage(nil); apperrors.KindOf(err) != apperrors.KindInvalidArgument {
		t.Fatalf("expected invalid-argument for nil header, got %v", err)
	}
}
