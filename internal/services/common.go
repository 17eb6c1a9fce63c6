package services

import (
	"bytes"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"

	"gorm.io/gorm"

	"jobhunt_backend/pkg/apperrors"
)

// txRunner выполняет fn в транзакции; в тестах подменяется на прямой вызов
type txRunner func(db *gorm.DB, fn func(tx *gorm.DB) error) error

func gormTx(db *gorm.DB, fn func(tx *gorm.DB) error) error {
	return db.Transaction(fn)
}

// uploadedFile - загруженный файл, прочитанный в память
type uploadedFile struct {
	Name        string
	ContentType string
	Data        []byte
}

// readUpload читает multipart файл целиком, не больше maxSize байт
func readUpload(fh *multipart.FileHeader, maxSize int64) (*uploadedFile, error) {
	if maxSize > 0 && fh.Size > maxSize {
		return nil, apperrors.ErrFileTooLarge
	}

	f, err := fh.Open()
	if err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("open upload: %w", err))
	}
	defer f.Close()

	var r io.Reader = f
	if maxSize > 0 {
		r = io.LimitReader(f, maxSize+1)
	}

	data, err := io.ReadAll(r)
	if err != nil {
		return nil, apperrors.InternalError(fmt.Errorf("read upload: %w", err))
	}
	if maxSize > 0 && int64(len(data)) > maxSize {
		return nil, apperrors.ErrFileTooLarge
	}

	contentType := fh.Header.Get("Content-Type")
	if contentType == "" || contentType == "application/octet-stream" {
		contentType = http.DetectContentType(data)
	}

	return &uploadedFile{
		Name:        fh.Filename,
		ContentType: contentType,
		Data:        data,
	}, nil
}

func (u *uploadedFile) Reader() io.Reader {
	return bytes.NewReader(u.Data)
}
