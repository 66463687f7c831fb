package uploads

import (
	"context"
	"errors"
	"net/http"

	"github.com/gin-gonic/gin"

	"contractorreg-backend/internal/extract"
	"contractorreg-backend/internal/pipeline"
	"contractorreg-backend/internal/shared/server/middleware"
	"contractorreg-backend/internal/shared/server/respond"
	"contractorreg-backend/internal/shared/storage/object"
	"contractorreg-backend/internal/shared/telemetry"
	"contractorreg-backend/internal/shared/util"
)

const (
	defaultMaxUploadBytes = 10 << 20
	formField             = "file"
)

// Processor runs the extraction pipeline for one persisted upload.
type Processor interface {
	Process(ctx context.Context, doc pipeline.UploadedDocument) (pipeline.Result, error)
}

// Handler accepts multipart uploads, persists them to a temporary location and runs the
// extraction pipeline on the stored file.
type Handler struct {
	Store          object.Store
	Pipeline       Processor
	MaxUploadBytes int64
	RetainUploads  bool
}

// NewHandler constructs a Handler.
func NewHandler(store object.Store, proc Processor, maxUploadBytes int64, retainUploads bool) *Handler {
	if maxUploadBytes <= 0 {
		maxUploadBytes = defaultMaxUploadBytes
	}
	return &Handler{
		Store:          store,
		Pipeline:       proc,
		MaxUploadBytes: maxUploadBytes,
		RetainUploads:  retainUploads,
	}
}

// RegisterRoutes attaches the upload route.
func (h *Handler) RegisterRoutes(r gin.IRoutes) {
	r.POST("/upload", h.upload)
}

func (h *Handler) upload(c *gin.Context) {
	c.Request.Body = http.MaxBytesReader(c.Writer, c.Request.Body, h.MaxUploadBytes)

	fileHeader, err := c.FormFile(formField)
	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			respond.Error(c, http.StatusRequestEntityTooLarge, "payload_too_large", "File exceeds upload limit", nil)
			return
		}
		respond.Error(c, http.StatusBadRequest, "validation_error", "No file uploaded", nil)
		return
	}

	file, err := fileHeader.Open()
	if err != nil {
		respond.Error(c, http.StatusBadRequest, "validation_error", "unable to read file", nil)
		return
	}
	defer file.Close()

	// Decoding is not tied to the client connection.
	ctx := context.WithoutCancel(c.Request.Context())

	stored, err := h.Store.Save(ctx, fileHeader.Filename, file)
	if err != nil {
		telemetry.Error("uploads.save.failed", map[string]any{
			"err":        err.Error(),
			"file_name":  fileHeader.Filename,
			"request_id": middleware.RequestIDFromContext(c),
		})
		if errors.Is(err, util.ErrInvalidFileName) {
			respond.Error(c, http.StatusBadRequest, "validation_error", "invalid file name", nil)
			return
		}
		respond.Error(c, http.StatusInternalServerError, "storage_error", "failed to store upload", nil)
		return
	}
	if !h.RetainUploads {
		defer h.cleanup(ctx, c, stored.Key)
	}
	c.Set(middleware.UploadNameKey, stored.Key)

	res, err := h.Pipeline.Process(ctx, pipeline.UploadedDocument{
		FilePath:          stored.Path,
		DeclaredExtension: extract.DeclaredExtension(fileHeader.Filename),
		OriginalFilename:  fileHeader.Filename,
	})
	if err != nil {
		switch {
		case errors.Is(err, extract.ErrUnsupportedFormat):
			respond.Error(c, http.StatusBadRequest, "unsupported_file_type", "Unsupported file type", nil)
		default:
			respond.Error(c, http.StatusInternalServerError, "extraction_failed", "Failed to extract text", nil)
		}
		return
	}

	c.Set(middleware.ABNFoundKey, res.Found)
	respond.OK(c, uploadResponse{
		Message:       "File uploaded and parsed",
		Filename:      stored.Key,
		ABN:           res.IdentifierOrNil(),
		ExtractedText: res.RawText,
	})
}

func (h *Handler) cleanup(ctx context.Context, c *gin.Context, key string) {
	if err := h.Store.Remove(ctx, key); err != nil {
		telemetry.Warn("uploads.cleanup.failed", map[string]any{
			"err":        err.Error(),
			"key":        key,
			"request_id": middleware.RequestIDFromContext(c),
		})
	}
}
