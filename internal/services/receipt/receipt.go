// Package services содержит логику бизнес-уровня для квитанций:
// загрузку файлов-подтверждений и выдачу документов арендодателю.
package services

import (
	"bytes"
	"context"
	"fmt"
	"log/slog"
	"mime/multipart"
	"path/filepath"

	"github.com/renteaseone/rentease-backend/internal/lib/upload"
	"github.com/renteaseone/rentease-backend/internal/models"
	"github.com/renteaseone/rentease-backend/internal/pdf"
)

// ReceiptRepository описывает контракт для работы с квитанциями в базе данных.
type ReceiptRepository interface {
	CreateUploadReceipt(ctx context.Context, receipt models.Receipt) (*models.Receipt, error)
	GetReceipt(ctx context.Context, id int) (*models.Receipt, error)
	ListAllReceipts(ctx context.Context) ([]*models.ReceiptInfo, error)
	GetUser(ctx context.Context, userUID string) (*models.User, error)
}

// Document — готовый к выдаче документ квитанции: либо путь к файлу
// на диске, либо содержимое, построенное на лету.
type Document struct {
	Filename string
	MimeType string
	Path     string
	Content  []byte
}

// ReceiptService отвечает за загрузку и выдачу квитанций.
type ReceiptService struct {
	repo       ReceiptRepository
	uploadsDir string
	log        *slog.Logger
}

// NewReceiptService создает новый экземпляр ReceiptService.
func NewReceiptService(repo ReceiptRepository, uploadsDir string, log *slog.Logger) *ReceiptService {
	return &ReceiptService{
		repo:       repo,
		uploadsDir: uploadsDir,
		log:        log,
	}
}

// Upload проверяет и сохраняет файл-подтверждение оплаты, затем создает
// запись о квитанции. Файл проверяется до записи на диск.
func (s *ReceiptService) Upload(ctx context.Context, userUID string, file multipart.File, header *multipart.FileHeader) (*models.Receipt, error) {
	stored, err := upload.Save(file, header, filepath.Join(s.uploadsDir, "receipts"), upload.ReceiptTypes)
	if err != nil {
		return nil, err
	}
	receipt := models.Receipt{
		UserUID:   userUID,
		Kind:      models.ReceiptKindUpload,
		Filename:  &stored.Filename,
		Path:      &stored.Path,
		MimeType:  &stored.MimeType,
		SizeBytes: &stored.Size,
	}
	return s.repo.CreateUploadReceipt(ctx, receipt)
}

// ListAll возвращает все квитанции с данными их владельцев, новые первыми.
func (s *ReceiptService) ListAll(ctx context.Context) ([]*models.ReceiptInfo, error) {
	return s.repo.ListAllReceipts(ctx)
}

// Document возвращает документ квитанции: загруженные файлы отдаются
// с диска, шлюзовые квитанции рендерятся в PDF на лету.
func (s *ReceiptService) Document(ctx context.Context, id int) (*Document, error) {
	receipt, err := s.repo.GetReceipt(ctx, id)
	if err != nil {
		return nil, err
	}

	if receipt.Kind == models.ReceiptKindUpload {
		doc := &Document{MimeType: "application/octet-stream"}
		if receipt.Filename != nil {
			doc.Filename = *receipt.Filename
		}
		if receipt.MimeType != nil {
			doc.MimeType = *receipt.MimeType
		}
		if receipt.Path != nil {
			doc.Path = *receipt.Path
		}
		return doc, nil
	}

	owner, err := s.repo.GetUser(ctx, receipt.UserUID)
	if err != nil {
		return nil, err
	}
	var buf bytes.Buffer
	if err := pdf.RenderReceipt(&buf, receipt, owner.FirstName+" "+owner.LastName, owner.Email); err != nil {
		return nil, err
	}
	return &Document{
		Filename: fmt.Sprintf("receipt-%d.pdf", receipt.ID),
		MimeType: "application/pdf",
		Content:  buf.Bytes(),
	}, nil
}
