package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"mime/multipart"
	"net/http"
	"strconv"

	"github.com/Aashish23092/access-key-extractor/dto"
	"github.com/Aashish23092/access-key-extractor/service"
	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

// AccessKeyExtractor is the service surface the handler needs.
type AccessKeyExtractor interface {
	ExtractFromPDF(ctx context.Context, doc dto.Document) (*dto.AccessKeyResult, error)
	ExtractFromText(text string) (*dto.AccessKeyResult, error)
	History(ctx context.Context, limit int) ([]dto.AccessKeyResult, error)
}

// BatchRunner processes several documents in one request.
type BatchRunner interface {
	ProcessBatch(ctx context.Context, docs []dto.Document) *dto.BatchResponse
}

type AccessKeyHandler struct {
	service     AccessKeyExtractor
	batch       BatchRunner
	maxFileSize int64
	logger      *zap.Logger
}

func NewAccessKeyHandler(svc AccessKeyExtractor, batch BatchRunner, maxFileSize int64, logger *zap.Logger) *AccessKeyHandler {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &AccessKeyHandler{
		service:     svc,
		batch:       batch,
		maxFileSize: maxFileSize,
		logger:      logger,
	}
}

// Register mounts the access key routes on rg.
func (h *AccessKeyHandler) Register(rg *gin.RouterGroup) {
	keys := rg.Group("/access-keys")
	{
		keys.POST("/extract", h.ExtractFile)
		keys.POST("/batch", h.ExtractBatch)
		keys.POST("/text", h.ExtractText)
		keys.GET("/history", h.History)
	}
}

// ExtractFile handles POST /access-keys/extract with a single "file" field
func (h *AccessKeyHandler) ExtractFile(c *gin.Context) {
	fileHeader, err := c.FormFile("file")
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "file missing", nil)
		return
	}

	doc, err := h.readDocument(fileHeader, c.PostForm("password"))
	if err != nil {
		h.sendError(c, statusFor(err), "failed to read upload", err)
		return
	}

	result, err := h.service.ExtractFromPDF(c.Request.Context(), doc)
	if err != nil {
		h.sendError(c, statusFor(err), "failed to extract access key", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// ExtractBatch handles POST /access-keys/batch with one or more "files[]" fields.
// Per-file failures are reported inside the response, not as an HTTP error.
func (h *AccessKeyHandler) ExtractBatch(c *gin.Context) {
	form, err := c.MultipartForm()
	if err != nil {
		h.sendError(c, http.StatusBadRequest, "Failed to parse multipart form", err)
		return
	}

	files := form.File["files[]"]
	if len(files) == 0 {
		h.sendError(c, http.StatusBadRequest, "No files provided", dto.ErrNoFiles)
		return
	}

	password := c.PostForm("password")
	docs := make([]dto.Document, 0, len(files))
	for _, fh := range files {
		doc, err := h.readDocument(fh, password)
		if err != nil {
			h.sendError(c, statusFor(err), fmt.Sprintf("failed to read %s", fh.Filename), err)
			return
		}
		docs = append(docs, doc)
	}

	h.logger.Info("processing batch", zap.Int("files", len(docs)))
	c.JSON(http.StatusOK, h.batch.ProcessBatch(c.Request.Context(), docs))
}

// ExtractText handles POST /access-keys/text with a JSON body
func (h *AccessKeyHandler) ExtractText(c *gin.Context) {
	var req dto.TextExtractRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		h.sendError(c, http.StatusBadRequest, "text is required", err)
		return
	}

	result, err := h.service.ExtractFromText(req.Text)
	if err != nil {
		h.sendError(c, statusFor(err), "failed to extract access key", err)
		return
	}

	c.JSON(http.StatusOK, result)
}

// History handles GET /access-keys/history?limit=N
func (h *AccessKeyHandler) History(c *gin.Context) {
	limit := 50
	if raw := c.Query("limit"); raw != "" {
		n, err := strconv.Atoi(raw)
		if err != nil || n <= 0 {
			h.sendError(c, http.StatusBadRequest, "limit must be a positive integer", nil)
			return
		}
		limit = n
	}

	records, err := h.service.History(c.Request.Context(), limit)
	if err != nil {
		h.sendError(c, statusFor(err), "failed to load history", err)
		return
	}

	c.JSON(http.StatusOK, dto.HistoryResponse{Records: records})
}

func (h *AccessKeyHandler) readDocument(fh *multipart.FileHeader, password string) (dto.Document, error) {
	if h.maxFileSize > 0 && fh.Size > h.maxFileSize {
		return dto.Document{}, fmt.Errorf("%w: %s is %d bytes", dto.ErrFileTooLarge, fh.Filename, fh.Size)
	}

	file, err := fh.Open()
	if err != nil {
		return dto.Document{}, fmt.Errorf("failed to open file: %w", err)
	}
	defer file.Close()

	data, err := io.ReadAll(file)
	if err != nil {
		return dto.Document{}, fmt.Errorf("failed to read file: %w", err)
	}

	return dto.Document{
		Filename: fh.Filename,
		Data:     data,
		Password: password,
		MimeType: fh.Header.Get("Content-Type"),
	}, nil
}

func statusFor(err error) int {
	switch {
	case errors.Is(err, dto.ErrFileTooLarge):
		return http.StatusRequestEntityTooLarge
	case errors.Is(err, service.ErrExtractionFailed):
		return http.StatusUnprocessableEntity
	case errors.Is(err, service.ErrEmptyText):
		return http.StatusBadRequest
	case errors.Is(err, service.ErrHistoryDisabled):
		return http.StatusNotFound
	case errors.Is(err, context.Canceled), errors.Is(err, context.DeadlineExceeded):
		return http.StatusRequestTimeout
	default:
		return http.StatusInternalServerError
	}
}

func errorCode(status int) string {
	switch status {
	case http.StatusUnprocessableEntity:
		return "EXTRACTION_FAILED"
	case http.StatusRequestEntityTooLarge:
		return "FILE_TOO_LARGE"
	case http.StatusNotFound:
		return "NOT_AVAILABLE"
	case http.StatusBadRequest:
		return "INVALID_REQUEST"
	default:
		return "INTERNAL_ERROR"
	}
}

// sendError sends a structured error response
func (h *AccessKeyHandler) sendError(c *gin.Context, statusCode int, message string, err error) {
	errorMsg := message
	if err != nil {
		errorMsg = err.Error()
		h.logger.Warn(message, zap.Error(err), zap.Int("status", statusCode))
	}

	c.JSON(statusCode, dto.ErrorResponse{
		Error:   errorCode(statusCode),
		Message: errorMsg,
		Code:    statusCode,
	})
}
