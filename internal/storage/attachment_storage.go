package storage

import (
	"bytes"
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"time"

	"github.com/google/uuid"
	"github.com/h2non/filetype"

	"github.com/ignatzorin/fairlance-backend/internal/pkg/apperror"
)

var allowedMimeTypes = map[string]bool{
	"image/jpeg":      true,
	"image/png":       true,
	"image/gif":       true,
	"image/webp":      true,
	"application/pdf": true,
	"application/zip": true,
}

// Stored результат сохранения вложения.
type Stored struct {
	Path     string
	MimeType string
	Size     int64
}

// AttachmentStorage хранит вложения проектов на диске, по каталогу на проект.
type AttachmentStorage struct {
	rootPath       string
	maxUploadBytes int64
}

func NewAttachmentStorage(rootPath string, maxUploadMB int64) (*AttachmentStorage, error) {
	if err := os.MkdirAll(rootPath, 0o755); err != nil {
		return nil, fmt.Errorf("storage: не удалось создать каталог %s: %w", rootPath, err)
	}

	return &AttachmentStorage{
		rootPath:       rootPath,
		maxUploadBytes: maxUploadMB * 1024 * 1024,
	}, nil
}

// Save определяет тип по содержимому, проверяет лимит и сохраняет файл.
// Возвращает путь относительно корня хранилища.
func (s *AttachmentStorage) Save(ctx context.Context, projectID uuid.UUID, originalName string, r io.Reader) (*Stored, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	head := make([]byte, 512)
	n, err := io.ReadFull(r, head)
	if err != nil && err != io.ErrUnexpectedEOF && err != io.EOF {
		return nil, fmt.Errorf("storage: не удалось прочитать файл: %w", err)
	}
	head = head[:n]

	kind, err := filetype.Match(head)
	if err != nil || kind == filetype.Unknown {
		return nil, apperror.New(apperror.ErrCodeValidation, "не удалось определить тип файла")
	}
	if !allowedMimeTypes[kind.MIME.Value] {
		return nil, apperror.Newf(apperror.ErrCodeValidation, "тип файла %s не поддерживается", kind.MIME.Value)
	}

	safeName := sanitizeFilename(originalName)
	fileName := fmt.Sprintf("%d_%s", time.Now().UnixNano(), strings.TrimSuffix(safeName, filepath.Ext(safeName)))
	fileName += "." + kind.Extension

	projectDir := filepath.Join(s.rootPath, projectID.String())
	if err := os.MkdirAll(projectDir, 0o755); err != nil {
		return nil, fmt.Errorf("storage: не удалось создать каталог проекта: %w", err)
	}

	targetPath := filepath.Join(projectDir, fileName)
	tempPath := targetPath + ".tmp"

	f, err := os.Create(tempPath)
	if err != nil {
		return nil, fmt.Errorf("storage: не удалось создать файл: %w", err)
	}
	defer f.Close()

	limited := io.LimitedReader{R: io.MultiReader(bytes.NewReader(head), r), N: s.maxUploadBytes + 1}
	written, err := io.Copy(f, &limited)
	if err != nil {
		_ = os.Remove(tempPath)
		return nil, fmt.Errorf("storage: ошибка записи файла: %w", err)
	}
	if written > s.maxUploadBytes {
		_ = os.Remove(tempPath)
		return nil, apperror.Newf(apperror.ErrCodeValidation, "размер файла превышает лимит %d байт", s.maxUploadBytes)
	}

	if err := f.Close(); err != nil {
		return nil, fmt.Errorf("storage: ошибка закрытия файла: %w", err)
	}
	if err := os.Rename(tempPath, targetPath); err != nil {
		return nil, fmt.Errorf("storage: не удалось переименовать файл: %w", err)
	}

	return &Stored{
		Path:     filepath.ToSlash(filepath.Join(projectID.String(), fileName)),
		MimeType: kind.MIME.Value,
		Size:     written,
	}, nil
}

func (s *AttachmentStorage) Delete(ctx context.Context, relativePath string) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	target := filepath.Join(s.rootPath, filepath.FromSlash(relativePath))
	if err := os.Remove(target); err != nil && !os.IsNotExist(err) {
		return fmt.Errorf("storage: не удалось удалить файл: %w", err)
	}
	return nil
}

func sanitizeFilename(name string) string {
	name = filepath.Base(name)
	name = strings.ReplaceAll(name, "..", "")
	name = strings.ReplaceAll(name, "/", "_")
	name = strings.ReplaceAll(name, "\\", "_")
	if name == "" || name == "." {
		name = "attachment"
	}
	return name
}
