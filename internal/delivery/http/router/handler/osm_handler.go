package handler

import (
	"context"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"os"
	"strconv"
	"time"

	"github.com/labstack/echo/v4"

	"github.com/nomnom-routing/vrpcore/config"
	"github.com/nomnom-routing/vrpcore/internal/apperrors"
	deliverycontext "github.com/nomnom-routing/vrpcore/internal/delivery/context"
	"github.com/nomnom-routing/vrpcore/internal/delivery/http/response"
	"github.com/nomnom-routing/vrpcore/internal/handler"
	"github.com/nomnom-routing/vrpcore/internal/util"
)

// OSMHandler serves the extract upload endpoint.
type OSMHandler struct {
	core    *handler.Handler
	logger  *slog.Logger
	timeout time.Duration
}

// NewOSMHandler is the constructor for OSMHandler, injected by Fx.
func NewOSMHandler(core *handler.Handler, logger *slog.Logger, cfg *config.Config) *OSMHandler {
	return &OSMHandler{
		core:    core,
		logger:  logger,
		timeout: cfg.HTTP.Timeouts.RequestTimeout,
	}
}

// Upload handles POST /osm/upload. The request carries either a multipart
// `file` or a `file_url` to fetch; either way the stream is staged to a
// temporary file whose lifetime is bound to this handler invocation — it
// is released only after the parse has succeeded or failed, on every exit
// path including cancellation.
func (h *OSMHandler) Upload(c echo.Context) error {
	ctx, cancel := context.WithTimeout(c.Request().Context(), h.timeout)
	defer cancel()

	roadsOnly := true
	if raw := c.FormValue("roads_only"); raw != "" {
		parsed, err := strconv.ParseBool(raw)
		if err != nil {
			return response.BadRequest(c, "InvalidInput", "roads_only must be a boolean")
		}
		roadsOnly = parsed
	}

	staged, err := h.stageUpload(ctx, c)
	if err != nil {
		return err
	}
	if staged == nil {
		return response.BadRequest(c, "InvalidInput", "request must carry either a file or a file_url field")
	}
	defer staged.release()

	resp, err := h.core.UploadOSM(ctx, staged.file, roadsOnly)
	if err != nil {
		return err
	}

	return response.JSON(c, http.StatusOK, resp)
}

// stagedUpload owns the temporary file an upload was spooled into.
type stagedUpload struct {
	file *os.File
	size int64
}

func (s *stagedUpload) release() {
	name := s.file.Name()
	s.file.Close()
	os.Remove(name)
}

// stageUpload spools the upload source into a temp file and rewinds it
// for parsing. Returns (nil, nil) when the request carries neither source.
func (h *OSMHandler) stageUpload(ctx context.Context, c echo.Context) (*stagedUpload, error) {
	source, sourceName, err := h.openSource(ctx, c)
	if err != nil || source == nil {
		return nil, err
	}
	defer source.Close()

	tmp, err := os.CreateTemp("", "osm-upload-*.pbf")
	if err != nil {
		return nil, apperrors.Wrap(err, "create staging file")
	}

	size, err := io.Copy(tmp, source)
	if err != nil {
		tmp.Close()
		os.Remove(tmp.Name())

		return nil, apperrors.Wrap(err, "stage upload")
	}

	if _, err := tmp.Seek(0, io.SeekStart); err != nil {
		tmp.Close()
		os.Remove(tmp.Name())

		return nil, apperrors.Wrap(err, "rewind staging file")
	}

	logger := deliverycontext.GetLoggerOrDefault(ctx, h.logger)
	logger.Info("staged OSM upload",
		slog.String("source", sourceName),
		slog.String("size", util.FormatBytes(size)),
	)

	if logger.Enabled(ctx, slog.LevelDebug) {
		if checksum, err := util.CalculateFileChecksum(tmp.Name()); err == nil {
			logger.Debug("staged upload checksum", slog.String("sha256", checksum))
		}
	}

	return &stagedUpload{file: tmp, size: size}, nil
}

// openSource picks the upload source: the multipart file if present,
// otherwise a fetch of file_url. Returns (nil, "", nil) when neither is
// supplied.
func (h *OSMHandler) openSource(ctx context.Context, c echo.Context) (io.ReadCloser, string, error) {
	fileHeader, err := c.FormFile("file")
	if err == nil {
		f, err := fileHeader.Open()
		if err != nil {
			return nil, "", apperrors.Wrap(err, "open multipart file")
		}

		return f, fileHeader.Filename, nil
	}

	rawURL := c.FormValue("file_url")
	if rawURL == "" {
		return nil, "", nil
	}

	parsed, err := url.Parse(rawURL)
	if err != nil || (parsed.Scheme != "http" && parsed.Scheme != "https") {
		return nil, "", echo.NewHTTPError(http.StatusBadRequest, "file_url must be an http or https URL")
	}

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, rawURL, nil)
	if err != nil {
		return nil, "", apperrors.Wrap(err, "build file_url request")
	}

	resp, err := http.DefaultClient.Do(req)
	if err != nil {
		return nil, "", apperrors.Wrap(err, "fetch file_url")
	}

	if resp.StatusCode != http.StatusOK {
		resp.Body.Close()

		return nil, "", echo.NewHTTPError(http.StatusBadRequest, "file_url fetch returned status "+resp.Status)
	}

	return resp.Body, rawURL, nil
}
