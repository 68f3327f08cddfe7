package services

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/renteaseone/rentease-backend/internal/lib/upload"
	"github.com/renteaseone/rentease-backend/internal/models"
)

type MockRepository struct {
	mock.Mock
}

func (m *MockRepository) CreateUploadReceipt(ctx context.Context, receipt models.Receipt) (*models.Receipt, error) {
	args := m.Called(ctx, receipt)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Receipt), args.Error(1)
}

func (m *MockRepository) GetReceipt(ctx context.Context, id int) (*models.Receipt, error) {
	args := m.Called(ctx, id)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Receipt), args.Error(1)
}

func (m *MockRepository) ListAllReceipts(ctx context.Context) ([]*models.ReceiptInfo, error) {
	args := m.Called(ctx)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]*models.ReceiptInfo), args.Error(1)
}

func (m *MockRepository) GetUser(ctx context.Context, userUID string) (*models.User, error) {
	args := m.Called(ctx, userUID)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.User), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

type nopFile struct {
	*bytes.Reader
}

func (nopFile) Close() error { return nil }

func TestUpload_RejectsOversizeBeforeStorage(t *testing.T) {
	repo := new(MockRepository)
	svc := NewReceiptService(repo, t.TempDir(), newNoopLogger())

	header := &multipart.FileHeader{Filename: "receipt.pdf", Size: upload.MaxFileSize + 1}
	var file multipart.File = nopFile{bytes.NewReader([]byte("%PDF"))}

	_, err := svc.Upload(context.Background(), "uid-t", file, header)
	assert.ErrorIs(t, err, upload.ErrTooLarge)
	repo.AssertNotCalled(t, "CreateUploadReceipt", mock.Anything, mock.Anything)
}

func TestUpload_RejectsBadType(t *testing.T) {
	repo := new(MockRepository)
	svc := NewReceiptService(repo, t.TempDir(), newNoopLogger())

	header := &multipart.FileHeader{Filename: "receipt.exe", Size: 100}
	var file multipart.File = nopFile{bytes.NewReader([]byte("MZ"))}

	_, err := svc.Upload(context.Background(), "uid-t", file, header)
	assert.ErrorIs(t, err, upload.ErrBadType)
	repo.AssertNotCalled(t, "CreateUploadReceipt", mock.Anything, mock.Anything)
}

func TestUpload_StoresFileAndRow(t *testing.T) {
	repo := new(MockRepository)
	dir := t.TempDir()
	svc := NewReceiptService(repo, dir, newNoopLogger())

	content := []byte("%PDF-1.4 test receipt")
	header := &multipart.FileHeader{Filename: "march.pdf", Size: int64(len(content))}
	var file multipart.File = nopFile{bytes.NewReader(content)}

	saved := &models.Receipt{ID: 3, UserUID: "uid-t", Kind: models.ReceiptKindUpload}
	repo.On("CreateUploadReceipt", mock.Anything, mock.MatchedBy(func(r models.Receipt) bool {
		return r.UserUID == "uid-t" &&
			r.Kind == models.ReceiptKindUpload &&
			r.Filename != nil && *r.Filename == "march.pdf" &&
			r.MimeType != nil && *r.MimeType == "application/pdf"
	})).Return(saved, nil)

	got, err := svc.Upload(context.Background(), "uid-t", file, header)
	require.NoError(t, err)
	assert.Equal(t, saved, got)
	repo.AssertExpectations(t)
}

func TestDocument_GatewayReceiptRendersPDF(t *testing.T) {
	repo := new(MockRepository)
	svc := NewReceiptService(repo, t.TempDir(), newNoopLogger())

	ref := "ref123"
	receipt := &models.Receipt{
		ID:         5,
		UserUID:    "uid-t",
		Kind:       models.ReceiptKindGateway,
		RentAmount: 10000,
		ServiceFee: 300,
		TotalPaid:  10300,
		Reference:  &ref,
		CreatedAt:  time.Now(),
	}
	repo.On("GetReceipt", mock.Anything, 5).Return(receipt, nil)
	repo.On("GetUser", mock.Anything, "uid-t").Return(&models.User{UID: "uid-t", FirstName: "Ada", LastName: "Obi", Email: "ada@example.com"}, nil)

	doc, err := svc.Document(context.Background(), 5)
	require.NoError(t, err)
	assert.Equal(t, "application/pdf", doc.MimeType)
	assert.Equal(t, "receipt-5.pdf", doc.Filename)
	assert.True(t, bytes.HasPrefix(doc.Content, []byte("%PDF")))
	assert.Empty(t, doc.Path)
}

func TestDocument_UploadReceiptPointsToFile(t *testing.T) {
	repo := new(MockRepository)
	svc := NewReceiptService(repo, t.TempDir(), newNoopLogger())

	filename := "march.pdf"
	path := "/uploads/receipts/abc-march.pdf"
	mime := "application/pdf"
	receipt := &models.Receipt{ID: 6, UserUID: "uid-t", Kind: models.ReceiptKindUpload, Filename: &filename, Path: &path, MimeType: &mime}
	repo.On("GetReceipt", mock.Anything, 6).Return(receipt, nil)

	doc, err := svc.Document(context.Background(), 6)
	require.NoError(t, err)
	assert.Equal(t, path, doc.Path)
	assert.Equal(t, mime, doc.MimeType)
	assert.Empty(t, doc.Content)
	repo.AssertNotCalled(t, "GetUser", mock.Anything, mock.Anything)
}
