package upload

import (
	"bytes"
	"context"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/renteaseone/rentease-backend/internal/http/middlewarectx"
	uploadlib "github.com/renteaseone/rentease-backend/internal/lib/upload"
	"github.com/renteaseone/rentease-backend/internal/models"
)

type MockService struct {
	mock.Mock
}

func (m *MockService) Upload(ctx context.Context, userUID string, file multipart.File, header *multipart.FileHeader) (*models.Receipt, error) {
	args := m.Called(ctx, userUID, file, header)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*models.Receipt), args.Error(1)
}

func newNoopLogger() *slog.Logger {
	h := slog.NewTextHandler(io.Discard, &slog.HandlerOptions{})
	return slog.New(h)
}

func multipartBody(t *testing.T, field, filename string, content []byte) (*bytes.Buffer, string) {
	t.Helper()
	var buf bytes.Buffer
	mw := multipart.NewWriter(&buf)
	fw, err := mw.CreateFormFile(field, filename)
	require.NoError(t, err)
	_, err = fw.Write(content)
	require.NoError(t, err)
	require.NoError(t, mw.Close())
	return &buf, mw.FormDataContentType()
}

func TestUploadHandler(t *testing.T) {
	body, contentType := multipartBody(t, "receipt", "march.pdf", []byte("%PDF-1.4"))

	mockService := new(MockService)
	saved := &models.Receipt{ID: 3, UserUID: "uid-t", Kind: models.ReceiptKindUpload}
	mockService.On("Upload", mock.Anything, "uid-t", mock.Anything, mock.Anything).Return(saved, nil)

	handler := New(newNoopLogger(), mockService)

	req := httptest.NewRequest(http.MethodPost, "/receipts/upload", body)
	req.Header.Set("Content-Type", contentType)
	req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, "uid-t"))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusOK, w.Code)
	assert.Contains(t, w.Body.String(), `"kind":"upload"`)
}

func TestUploadHandler_MissingFile(t *testing.T) {
	body, contentType := multipartBody(t, "document", "march.pdf", []byte("%PDF-1.4"))

	handler := New(newNoopLogger(), new(MockService))

	req := httptest.NewRequest(http.MethodPost, "/receipts/upload", body)
	req.Header.Set("Content-Type", contentType)
	req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, "uid-t"))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "receipt file is required")
}

func TestUploadHandler_RejectedFile(t *testing.T) {
	body, contentType := multipartBody(t, "receipt", "virus.exe", []byte("MZ"))

	mockService := new(MockService)
	mockService.On("Upload", mock.Anything, "uid-t", mock.Anything, mock.Anything).Return(nil, uploadlib.ErrBadType)

	handler := New(newNoopLogger(), mockService)

	req := httptest.NewRequest(http.MethodPost, "/receipts/upload", body)
	req.Header.Set("Content-Type", contentType)
	req = req.WithContext(context.WithValue(req.Context(), middlewarectx.UserUID, "uid-t"))

	w := httptest.NewRecorder()
	handler.ServeHTTP(w, req)

	assert.Equal(t, http.StatusBadRequest, w.Code)
	assert.Contains(t, w.Body.String(), "file type is not allowed")
}
