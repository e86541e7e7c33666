package vault

import (
	"bytes"
	"encoding/json"
	"net/http/httptest"
	"testing"
	"time"

	"doc-vault/core/storage/mocks"

	"github.com/gofiber/fiber/v2"
	"github.com/minio/minio-go/v7"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
)

func setupTestApp(t *testing.T) (*fiber.App, *mocks.Client) {
	t.Helper()
	app := fiber.New()
	mockClient := new(mocks.Client)
	svc := NewService(mockClient, zap.NewNop())
	handler := NewHandler(svc, "test-bucket")
	handler.RegisterRoutes(app)
	return app, mockClient
}

func TestHandleUploadURL(t *testing.T) {
	app, mockClient := setupTestApp(t)

	mockClient.On("PresignedPutObject", mock.Anything, "test-bucket", "docs/a.txt", 120*time.Second).
		Return(mustURL(t, "https://storage.local/test-bucket/docs/a.txt?sig=abc"), nil)

	payload, _ := json.Marshal(map[string]any{"key": "docs/a.txt", "expires_in": 120})
	req := httptest.NewRequest("POST", "/documents/upload-url", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Equal(t, "https://storage.local/test-bucket/docs/a.txt?sig=abc", body["url"])
}

func TestHandleUploadURL_MissingKey(t *testing.T) {
	app, _ := setupTestApp(t)

	payload, _ := json.Marshal(map[string]any{"expires_in": 120})
	req := httptest.NewRequest("POST", "/documents/upload-url", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 400, resp.StatusCode)
}

func TestHandleDownloadURL(t *testing.T) {
	app, mockClient := setupTestApp(t)

	mockClient.On("PresignedGetObject", mock.Anything, "other-bucket", "docs/a.txt", DefaultURLExpiry, mock.Anything).
		Return(mustURL(t, "https://storage.local/other-bucket/docs/a.txt?versionId=v1"), nil)

	payload, _ := json.Marshal(map[string]any{
		"bucket":     "other-bucket",
		"key":        "docs/a.txt",
		"version_id": "v1",
	})
	req := httptest.NewRequest("POST", "/documents/download-url", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	json.NewDecoder(resp.Body).Decode(&body)
	url, _ := body["url"].(string)
	assert.Contains(t, url, "versionId=v1")
}

func TestHandleVersionID(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		app, mockClient := setupTestApp(t)

		mockClient.On("StatObject", mock.Anything, "test-bucket", "docs/a.txt", minio.StatObjectOptions{}).
			Return(minio.ObjectInfo{VersionID: "v1"}, nil)

		req := httptest.NewRequest("GET", "/documents/version?key=docs%2Fa.txt", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)

		var body map[string]any
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Equal(t, "v1", body["version_id"])
	})

	t.Run("LookupFailure", func(t *testing.T) {
		app, mockClient := setupTestApp(t)

		mockClient.On("StatObject", mock.Anything, "test-bucket", "docs/missing.txt", minio.StatObjectOptions{}).
			Return(minio.ObjectInfo{}, assert.AnError)

		req := httptest.NewRequest("GET", "/documents/version?key=docs%2Fmissing.txt", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 500, resp.StatusCode)
	})

	t.Run("MissingKey", func(t *testing.T) {
		app, _ := setupTestApp(t)

		req := httptest.NewRequest("GET", "/documents/version", nil)
		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
	})
}

func TestHandleCreateFolder(t *testing.T) {
	app, mockClient := setupTestApp(t)

	mockClient.On("PutObject", mock.Anything, "test-bucket", "projects/", mock.Anything, int64(0), mock.Anything).
		Return(minio.UploadInfo{ETag: "abc"}, nil)

	payload, _ := json.Marshal(map[string]any{"folder": "projects"})
	req := httptest.NewRequest("POST", "/folders/", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)

	var body map[string]any
	json.NewDecoder(resp.Body).Decode(&body)
	assert.Equal(t, "created", body["status"])
	assert.Equal(t, "abc", body["etag"])
}

func TestHandleDeleteFolder(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		app, mockClient := setupTestApp(t)

		mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).
			Return(listing(minio.ObjectInfo{Key: "projects/"}, minio.ObjectInfo{Key: "projects/a.txt"}))
		mockClient.On("RemoveObjects", mock.Anything, "test-bucket", mock.Anything, mock.Anything).
			Return(removalErrors())

		payload, _ := json.Marshal(map[string]any{"folder": "projects"})
		req := httptest.NewRequest("DELETE", "/folders/", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
	})

	t.Run("NotFound", func(t *testing.T) {
		app, mockClient := setupTestApp(t)

		mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).
			Return(listing())

		payload, _ := json.Marshal(map[string]any{"folder": "ghost"})
		req := httptest.NewRequest("DELETE", "/folders/", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 404, resp.StatusCode)
	})

	t.Run("PartialFailure", func(t *testing.T) {
		app, mockClient := setupTestApp(t)

		mockClient.On("ListObjects", mock.Anything, "test-bucket", mock.Anything).
			Return(listing(minio.ObjectInfo{Key: "projects/a.txt"}))
		mockClient.On("RemoveObjects", mock.Anything, "test-bucket", mock.Anything, mock.Anything).
			Return(removalErrors(minio.RemoveObjectError{ObjectName: "projects/a.txt", Err: assert.AnError}))

		payload, _ := json.Marshal(map[string]any{"folder": "projects"})
		req := httptest.NewRequest("DELETE", "/folders/", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 500, resp.StatusCode)

		var body map[string]any
		json.NewDecoder(resp.Body).Decode(&body)
		assert.Contains(t, body["failed_keys"], "projects/a.txt")
	})
}

func TestHandleDeleteDocument(t *testing.T) {
	app, mockClient := setupTestApp(t)

	mockClient.On("RemoveObject", mock.Anything, "test-bucket", "projects/a.txt", minio.RemoveObjectOptions{}).
		Return(nil)

	payload, _ := json.Marshal(map[string]any{"folder": "projects", "key": "a.txt"})
	req := httptest.NewRequest("DELETE", "/documents/", bytes.NewReader(payload))
	req.Header.Set("Content-Type", "application/json")

	resp, err := app.Test(req)
	require.NoError(t, err)
	assert.Equal(t, 200, resp.StatusCode)
	mockClient.AssertExpectations(t)
}

func TestHandleDeleteDocumentVersion(t *testing.T) {
	t.Run("Success", func(t *testing.T) {
		app, mockClient := setupTestApp(t)

		mockClient.On("RemoveObject", mock.Anything, "test-bucket", "projects/a.txt", minio.RemoveObjectOptions{VersionID: "v1"}).
			Return(nil)

		payload, _ := json.Marshal(map[string]any{"folder": "projects", "key": "a.txt", "version_id": "v1"})
		req := httptest.NewRequest("DELETE", "/documents/version", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 200, resp.StatusCode)
		mockClient.AssertExpectations(t)
	})

	t.Run("MissingVersion", func(t *testing.T) {
		app, _ := setupTestApp(t)

		payload, _ := json.Marshal(map[string]any{"folder": "projects", "key": "a.txt"})
		req := httptest.NewRequest("DELETE", "/documents/version", bytes.NewReader(payload))
		req.Header.Set("Content-Type", "application/json")

		resp, err := app.Test(req)
		require.NoError(t, err)
		assert.Equal(t, 400, resp.StatusCode)
	})
}
