package handler

import (
	"bytes"
	"io"
	"log/slog"
	"mime/multipart"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/nomnom-routing/vrpcore/config"
	deliverymw "github.com/nomnom-routing/vrpcore/internal/delivery/http/middleware"
	corehandler "github.com/nomnom-routing/vrpcore/internal/handler"
	"github.com/nomnom-routing/vrpcore/internal/session"
)

func uploadTestServer(t *testing.T) *echo.Echo {
	t.Helper()

	logger := slog.New(slog.NewTextHandler(io.Discard, nil))
	cfg := &config.Config{}
	cfg.HTTP.Timeouts.RequestTimeout = 30 * time.Second

	core := corehandler.New(session.NewStore(), 15, logger)

	e := echo.New()
	e.Use(deliverymw.NewErrorMiddleware(logger).HandleErrors)
	e.POST("/osm/upload", NewOSMHandler(core, logger, cfg).Upload)

	return e
}

func multipartBody(t *testing.T, fields map[string]string, fileField, fileName string, fileContent []byte) (*bytes.Buffer, string) {
	t.Helper()

	var buf bytes.Buffer
	w := multipart.NewWriter(&buf)
	for k, v := range fields {
		require.NoError(t, w.WriteField(k, v))
	}
	if fileField != "" {
		fw, err := w.CreateFormFile(fileField, fileName)
		require.NoError(t, err)
		_, err = fw.Write(fileContent)
		require.NoError(t, err)
	}
	require.NoError(t, w.Close())

	return &buf, w.FormDataContentType()
}

func TestUploadMissingBothSourcesReturns400(t *testing.T) {
	e := uploadTestServer(t)

	body, contentType := multipartBody(t, map[string]string{"roads_only": "true"}, "", "", nil)
	req := httptest.NewRequest(http.MethodPost, "/osm/upload", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
	assert.Contains(t, rec.Body.String(), "file_url")
}

func TestUploadMalformedExtractReturns500(t *testing.T) {
	e := uploadTestServer(t)

	body, contentType := multipartBody(t, nil, "file", "garbage.pbf", []byte("not a pbf stream at all"))
	req := httptest.NewRequest(http.MethodPost, "/osm/upload", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusInternalServerError, rec.Code)
}

func TestUploadRejectsBadRoadsOnlyValue(t *testing.T) {
	e := uploadTestServer(t)

	body, contentType := multipartBody(t, map[string]string{"roads_only": "maybe"}, "file", "x.pbf", []byte("x"))
	req := httptest.NewRequest(http.MethodPost, "/osm/upload", body)
	req.Header.Set(echo.HeaderContentType, contentType)
	rec := httptest.NewRecorder()
	e.ServeHTTP(rec, req)

	assert.Equal(t, http.StatusBadRequest, rec.Code)
}
