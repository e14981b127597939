package storage

import (
	"bytes"
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/uuid"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
)

var pngHeader = []byte{0x89, 0x50, 0x4E, 0x47, 0x0D, 0x0A, 0x1A, 0x0A, 0x00, 0x00, 0x00, 0x0D, 0x49, 0x48, 0x44, 0x52}

func TestAttachmentStorage_SavePNG(t *testing.T) {
	root := t.TempDir()
	s, err := NewAttachmentStorage(root, 1)
	require.NoError(t, err)

	projectID := uuid.New()
	stored, err := s.Save(context.Background(), projectID, "../../etc/diagram.png", bytes.NewReader(pngHeader))
	require.NoError(t, err)

	assert.Equal(t, "image/png", stored.MimeType)
	assert.Equal(t, int64(len(pngHeader)), stored.Size)
	assert.Equal(t, projectID.String(), filepath.Dir(filepath.FromSlash(stored.Path)))

	data, err := os.ReadFile(filepath.Join(root, filepath.FromSlash(stored.Path)))
	require.NoError(t, err)
	assert.Equal(t, pngHeader, data)

	require.NoError(t, s.Delete(context.Background(), stored.Path))
	_, err = os.Stat(filepath.Join(root, filepath.FromSlash(stored.Path)))
	assert.True(t, os.IsNotExist(err))
}

func TestAttachmentStorage_RejectsUnknownType(t *testing.T) {
	s, err := NewAttachmentStorage(t.TempDir(), 1)
	require.NoError(t, err)

	_, err = s.Save(context.Background(), uuid.New(), "notes.txt", bytes.NewReader([]byte("plain text")))
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestAttachmentStorage_RejectsOversized(t *testing.T) {
	s, err := NewAttachmentStorage(t.TempDir(), 1)
	require.NoError(t, err)

	payload := append(append([]byte{}, pngHeader...), make([]byte, 1024*1024)...)
	_, err = s.Save(context.Background(), uuid.New(), "big.png", bytes.NewReader(payload))
	require.Error(t, err)
	assert.True(t, apperror.IsValidation(err))
}

func TestSanitizeFilename(t *testing.T) {
	assert.Equal(t, "passwd", sanitizeFilename("../../etc/passwd"))
	assert.Equal(t, "attachment", sanitizeFilename(""))
}
