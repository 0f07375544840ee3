package service

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/require"
)

func TestUploadListExportDelete(t *testing.T) {
	t.Parallel()
	env, ctx := setupEnv(t)
	emp := env.hire(t, ctx, "Ada", "ada@example.com")

	dir := t.TempDir()
	src := filepath.Join(dir, "contract.pdf")
	require.NoError(t, os.WriteFile(src, []byte("%PDF-1.4 small"), 0o600))

	doc, err := env.documents.Upload(ctx, emp.ID, src, "")
	require.NoError(t, err)
	require.Equal(t, "contract.pdf", doc.Filename)
	require.Equal(t, "application/pdf", doc.MimeType)
	require.Equal(t, int64(14), doc.SizeBytes)

	list, err := env.documents.List(ctx, emp.ID)
	require.NoError(t, err)
	require.Len(t, list, 1)
	require.Empty(t, list[0].ContentB64, "listing leaves content out")

	out, err := env.documents.Export(ctx, doc.ID, filepath.Join(dir, "out"))
	require.NoError(t, err)
	raw, err := os.ReadFile(out)
	require.NoError(t, err)
	require.Equal(t, "%PDF-1.4 small", string(raw))

	require.NoError(t, env.documents.Delete(ctx, doc.ID))
	require.ErrorIs(t, env.documents.Delete(ctx, doc.ID), ErrNotFound)
}

func TestUploadRejectsBadFiles(t *testing.T) {
	t.Parallel()
	env, ctx := setupEnv(t)
	emp := env.hire(t, ctx, "Ada", "ada@example.com")
	dir := t.TempDir()

	big := filepath.Join(dir, "big.bin")
	require.NoError(t, os.WriteFile(big, make([]byte, 65), 0o600))

	_, err := env.documents.Upload(ctx, emp.ID, big, "")
	require.ErrorIs(t, err, ErrValidation)
	_, err = env.documents.Upload(ctx, emp.ID, dir, "")
	require.ErrorIs(t, err, ErrValidation)
	_, err = env.documents.Upload(ctx, emp.ID, "", "")
	require.ErrorIs(t, err, ErrValidation)
	_, err = env.documents.Upload(ctx, emp.ID, filepath.Join(dir, "missing.txt"), "")
	require.ErrorIs(t, err, ErrValidation)
	_, err = env.documents.Upload(ctx, "ghost", big, "")
	require.ErrorIs(t, err, ErrNotFound)
}

func TestMimeTypeFallback(t *testing.T) {
	require.Equal(t, "application/octet-stream", MimeType("notes.unknownext"))
	require.Equal(t, "image/png", MimeType("PHOTO.PNG"))
}
