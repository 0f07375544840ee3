package service

import (
	"context"
	"encoding/base64"
	"fmt"
	"log/slog"
	"mime"
	"os"
	"path/filepath"
	"strings"

	"github.com/dustin/go-humanize"
	"github.com/google/uuid"

	"github.com/jask/staffdesk/internal/database/repository"
)

// DefaultMaxDocumentBytes caps uploads when no limit is configured.
const DefaultMaxDocumentBytes = 5 << 20

// DocumentService stores employee files inside the database.
type DocumentService struct {
	Documents *repository.DocumentRepo
	Employees *repository.EmployeeRepo
	MaxBytes  int64
	Logger    *slog.Logger
}

func (s *DocumentService) log() *slog.Logger {
	if s.Logger == nil {
		return slog.Default()
	}
	return s.Logger
}

func (s *DocumentService) limit() int64 {
	if s.MaxBytes <= 0 {
		return DefaultMaxDocumentBytes
	}
	return s.MaxBytes
}

// Upload reads path and attaches it to employeeID.
func (s *DocumentService) Upload(ctx context.Context, employeeID, path, uploadedBy string) (repository.Document, error) {
	path = expandHome(strings.TrimSpace(path))
	if path == "" {
		return repository.Document{}, invalid("file", "choose a file")
	}
	emp, err := s.Employees.Get(ctx, employeeID)
	if err != nil {
		return repository.Document{}, err
	}
	if emp == nil {
		return repository.Document{}, notFound("employee", employeeID)
	}
	info, err := os.Stat(path)
	if err != nil {
		return repository.Document{}, invalid("file", "%v", err)
	}
	if info.IsDir() {
		return repository.Document{}, invalid("file", "%s is a directory", path)
	}
	if info.Size() > s.limit() {
		return repository.Document{}, invalid("file", "%s is larger than %s",
			humanize.IBytes(uint64(info.Size())), humanize.IBytes(uint64(s.limit())))
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return repository.Document{}, fmt.Errorf("read %s: %w", path, err)
	}
	d := repository.Document{
		ID:         uuid.NewString(),
		EmployeeID: employeeID,
		Filename:   filepath.Base(path),
		MimeType:   MimeType(path),
		SizeBytes:  int64(len(raw)),
		ContentB64: base64.StdEncoding.EncodeToString(raw),
		UploadedBy: nullableStr(uploadedBy),
	}
	if err := s.Documents.Insert(ctx, d); err != nil {
		return d, fmt.Errorf("insert document: %w", err)
	}
	s.log().Info("document uploaded", "id", d.ID, "employee", employeeID, "size", d.SizeBytes)
	return d, nil
}

// MimeType guesses the content type from the file extension.
func MimeType(path string) string {
	if t := mime.TypeByExtension(strings.ToLower(filepath.Ext(path))); t != "" {
		return t
	}
	return "application/octet-stream"
}

func (s *DocumentService) List(ctx context.Context, employeeID string) ([]repository.Document, error) {
	return s.Documents.ListForEmployee(ctx, employeeID)
}

func (s *DocumentService) Delete(ctx context.Context, id string) error {
	ok, err := s.Documents.Delete(ctx, id)
	if err != nil {
		return fmt.Errorf("delete document: %w", err)
	}
	if !ok {
		return notFound("document", id)
	}
	return nil
}

// Export writes the document into dir under its original name and returns
// the written path.
func (s *DocumentService) Export(ctx context.Context, id, dir string) (string, error) {
	d, err := s.Documents.Get(ctx, id)
	if err != nil {
		return "", err
	}
	if d == nil {
		return "", notFound("document", id)
	}
	raw, err := base64.StdEncoding.DecodeString(d.ContentB64)
	if err != nil {
		return "", fmt.Errorf("decode document %s: %w", id, err)
	}
	dir = expandHome(dir)
	if err := os.MkdirAll(dir, 0o755); err != nil {
		return "", err
	}
	out := filepath.Join(dir, filepath.Base(d.Filename))
	if err := os.WriteFile(out, raw, 0o644); err != nil {
		return "", fmt.Errorf("write %s: %w", out, err)
	}
	return out, nil
}

func expandHome(p string) string {
	if p == "~" || strings.HasPrefix(p, "~/") {
		if home, err := os.UserHomeDir(); err == nil {
			return filepath.Join(home, strings.TrimPrefix(p, "~"))
		}
	}
	return p
}
