package vault

import (
	"errors"
	"time"

	"doc-vault/core/logger"

	"github.com/gofiber/fiber/v2"
	"go.uber.org/zap"
)

// Handler handles HTTP requests for vault operations.
type Handler struct {
	service *Service
	// bucket is used when a request names no bucket of its own.
	bucket string
}

// NewHandler creates a new HTTP handler.
func NewHandler(service *Service, defaultBucket string) *Handler {
	return &Handler{service: service, bucket: defaultBucket}
}

// RegisterRoutes registers the vault routes.
func (h *Handler) RegisterRoutes(app fiber.Router) {
	documents := app.Group("/documents")
	documents.Post("/upload-url", h.HandleUploadURL)
	documents.Post("/download-url", h.HandleDownloadURL)
	documents.Get("/version", h.HandleVersionID)
	documents.Delete("/", h.HandleDeleteDocument)
	documents.Delete("/version", h.HandleDeleteDocumentVersion)

	folders := app.Group("/folders")
	folders.Post("/", h.HandleCreateFolder)
	folders.Delete("/", h.HandleDeleteFolder)
}

type presignRequest struct {
	Bucket    string `json:"bucket"`
	Key       string `json:"key"`
	ExpiresIn int    `json:"expires_in"`
	VersionID string `json:"version_id"`
}

type folderRequest struct {
	Bucket string `json:"bucket"`
	Folder string `json:"folder"`
}

type documentRequest struct {
	Bucket    string `json:"bucket"`
	Folder    string `json:"folder"`
	Key       string `json:"key"`
	VersionID string `json:"version_id"`
}

// HandleUploadURL generates a pre-signed upload URL.
func (h *Handler) HandleUploadURL(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req presignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "key is required"})
	}

	bucket := h.bucketOrDefault(req.Bucket)
	expires := time.Duration(req.ExpiresIn) * time.Second

	url, err := h.service.UploadURL(c.Context(), bucket, req.Key, expires)
	if err != nil {
		l.Error("Upload URL generation failed", zap.Error(err))
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"url": url})
}

// HandleDownloadURL generates a pre-signed download URL, optionally pinned to
// a specific object version.
func (h *Handler) HandleDownloadURL(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req presignRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "key is required"})
	}

	bucket := h.bucketOrDefault(req.Bucket)
	expires := time.Duration(req.ExpiresIn) * time.Second

	url, err := h.service.DownloadURL(c.Context(), bucket, req.Key, expires, req.VersionID)
	if err != nil {
		l.Error("Download URL generation failed", zap.Error(err))
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"url": url})
}

// HandleVersionID returns the current version identifier of an object.
func (h *Handler) HandleVersionID(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	key := c.Query("key")
	if key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "key is required"})
	}
	bucket := h.bucketOrDefault(c.Query("bucket"))

	versionID, err := h.service.VersionID(c.Context(), bucket, key)
	if err != nil {
		l.Error("Version lookup failed", zap.Error(err))
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{"version_id": versionID})
}

// HandleCreateFolder creates a zero-byte folder marker.
func (h *Handler) HandleCreateFolder(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req folderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Folder == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "folder is required"})
	}

	bucket := h.bucketOrDefault(req.Bucket)

	info, err := h.service.CreateFolder(c.Context(), bucket, req.Folder)
	if err != nil {
		l.Error("Folder creation failed", zap.Error(err))
		return errorResponse(c, err)
	}

	l.Info("Folder created", zap.String("bucket", bucket), zap.String("folder", req.Folder))
	return c.JSON(fiber.Map{
		"status": "created",
		"folder": req.Folder,
		"etag":   info.ETag,
	})
}

// HandleDeleteFolder deletes every object under a folder prefix.
func (h *Handler) HandleDeleteFolder(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req folderRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Folder == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "folder is required"})
	}

	bucket := h.bucketOrDefault(req.Bucket)

	if err := h.service.DeleteFolder(c.Context(), bucket, req.Folder); err != nil {
		l.Error("Folder deletion failed", zap.Error(err))
		return errorResponse(c, err)
	}

	l.Info("Folder deleted", zap.String("bucket", bucket), zap.String("folder", req.Folder))
	return c.JSON(fiber.Map{
		"status": "deleted",
		"folder": req.Folder,
	})
}

// HandleDeleteDocument deletes the current version of a document.
func (h *Handler) HandleDeleteDocument(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req documentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Folder == "" || req.Key == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "folder and key are required"})
	}

	bucket := h.bucketOrDefault(req.Bucket)

	if err := h.service.DeleteDocument(c.Context(), bucket, req.Folder, req.Key); err != nil {
		l.Error("Document deletion failed", zap.Error(err))
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"status": "deleted",
		"folder": req.Folder,
		"key":    req.Key,
	})
}

// HandleDeleteDocumentVersion deletes one specific version of a document.
func (h *Handler) HandleDeleteDocumentVersion(c *fiber.Ctx) error {
	l := logger.WithRayID(h.service.logger, c)

	var req documentRequest
	if err := c.BodyParser(&req); err != nil {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "invalid request body"})
	}
	if req.Folder == "" || req.Key == "" || req.VersionID == "" {
		return c.Status(fiber.StatusBadRequest).JSON(fiber.Map{"error": "folder, key and version_id are required"})
	}

	bucket := h.bucketOrDefault(req.Bucket)

	if err := h.service.DeleteDocumentVersion(c.Context(), bucket, req.Folder, req.Key, req.VersionID); err != nil {
		l.Error("Document version deletion failed", zap.Error(err))
		return errorResponse(c, err)
	}

	return c.JSON(fiber.Map{
		"status":     "deleted",
		"folder":     req.Folder,
		"key":        req.Key,
		"version_id": req.VersionID,
	})
}

func (h *Handler) bucketOrDefault(bucket string) string {
	if bucket == "" {
		return h.bucket
	}
	return bucket
}

// errorResponse maps the error taxonomy onto HTTP statuses. Failed keys from
// an aggregated folder delete are included so callers can retry those.
func errorResponse(c *fiber.Ctx, err error) error {
	status := fiber.StatusInternalServerError
	if IsNotFound(err) {
		status = fiber.StatusNotFound
	}

	body := fiber.Map{"error": err.Error()}
	var ve *Error
	if errors.As(err, &ve) && len(ve.FailedKeys) > 0 {
		body["failed_keys"] = ve.FailedKeys
	}

	return c.Status(status).JSON(body)
}
