// Package upload проверяет и сохраняет загружаемые файлы:
// подтверждения оплаты и фотографии профиля. Тип и размер файла
// проверяются до записи на диск.
package upload

import (
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"os"
	"path/filepath"
	"strings"

	"github.com/google/uuid"
)

// MaxFileSize — максимальный размер загружаемого файла, 5 МБ.
const MaxFileSize = 5 << 20

var (
	// ErrTooLarge возвращается для файлов больше MaxFileSize.
	ErrTooLarge = errors.New("file is too large")
	// ErrBadType возвращается для файлов недопустимого типа.
	ErrBadType = errors.New("file type is not allowed")
)

// ReceiptTypes — допустимые типы файлов-подтверждений: PDF, JPG, PNG.
var ReceiptTypes = map[string]string{
	".pdf":  "application/pdf",
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// PhotoTypes — допустимые типы фотографий профиля.
var PhotoTypes = map[string]string{
	".jpg":  "image/jpeg",
	".jpeg": "image/jpeg",
	".png":  "image/png",
}

// Stored описывает сохранённый на диске файл.
type Stored struct {
	Filename string // исходное имя файла
	Path     string // путь к сохранённой копии
	MimeType string
	Size     int64
}

// Validate проверяет тип и размер файла по заголовку multipart,
// не читая содержимое. Возвращает mime-тип файла.
func Validate(header *multipart.FileHeader, allowed map[string]string) (string, error) {
	if header.Size > MaxFileSize {
		return "", ErrTooLarge
	}
	ext := strings.ToLower(filepath.Ext(header.Filename))
	mimeType, ok := allowed[ext]
	if !ok {
		return "", ErrBadType
	}
	return mimeType, nil
}

// Save проверяет файл и сохраняет его в dir под uuid-префиксованным
// именем. Размер дополнительно ограничивается при копировании.
func Save(file io.Reader, header *multipart.FileHeader, dir string, allowed map[string]string) (*Stored, error) {
	const op = "upload.Save"

	mimeType, err := Validate(header, allowed)
	if err != nil {
		return nil, err
	}

	if err := os.MkdirAll(dir, 0o755); err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}

	storedName := uuid.New().String() + "-" + filepath.Base(header.Filename)
	storedPath := filepath.Join(dir, storedName)

	dst, err := os.Create(storedPath)
	if err != nil {
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	defer dst.Close()

	written, err := io.Copy(dst, io.LimitReader(file, MaxFileSize+1))
	if err != nil {
		_ = os.Remove(storedPath)
		return nil, fmt.Errorf("%s: %w", op, err)
	}
	if written > MaxFileSize {
		_ = os.Remove(storedPath)
		return nil, ErrTooLarge
	}

	return &Stored{
		Filename: header.Filename,
		Path:     storedPath,
		MimeType: mimeType,
		Size:     written,
	}, nil
}
