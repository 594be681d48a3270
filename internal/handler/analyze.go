package handler

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net/http"
	"strings"

	"emotionanalyzer/internal/config"
	"emotionanalyzer/internal/logger"
	"emotionanalyzer/internal/model"
	"emotionanalyzer/internal/service"
)

// uploadField is the multipart form field the browser form posts.
const uploadField = "image"

var errEmptyUpload = errors.New("empty upload")

// AnalyzeHandler handles POST /api/analyze. The image is read from the "image"
// multipart field or, for other content types, from the raw request body.
func AnalyzeHandler(manager *service.Manager, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		upload, status, err := readUpload(w, r, cfg.MaxUploadSize)
		if err != nil {
			logger.Warning("Rejected upload from %s: %v", r.RemoteAddr, err)
			http.Error(w, err.Error(), status)
			return
		}

		out, err := runAnalysis(r.Context(), manager, cfg, upload)
		resp, status := BuildResponse(out, err)
		writeJSON(w, status, resp, logger)
	}
}

// ExportImageHandler handles POST /api/export/image and returns the annotated
// JPEG as an attachment.
func ExportImageHandler(manager *service.Manager, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return exportHandler(manager, cfg, logger, func(out *service.Outcome) *model.ExportArtifact {
		return out.ImageArtifact
	})
}

// ExportReportHandler handles POST /api/export/report and returns the CSV report
// as an attachment.
func ExportReportHandler(manager *service.Manager, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	return exportHandler(manager, cfg, logger, func(out *service.Outcome) *model.ExportArtifact {
		return out.ReportArtifact
	})
}

func exportHandler(manager *service.Manager, cfg *config.Config, logger *logger.Logger,
	pick func(*service.Outcome) *model.ExportArtifact) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "Method not allowed", http.StatusMethodNotAllowed)
			return
		}

		upload, status, err := readUpload(w, r, cfg.MaxUploadSize)
		if err != nil {
			http.Error(w, err.Error(), status)
			return
		}

		out, err := runAnalysis(r.Context(), manager, cfg, upload)
		if err != nil {
			resp, status := BuildResponse(out, err)
			writeJSON(w, status, resp, logger)
			return
		}
		artifact := pick(out)
		if artifact == nil {
			resp, _ := BuildResponse(out, nil)
			writeJSON(w, http.StatusInternalServerError, resp, logger)
			return
		}

		w.Header().Set("Content-Type", artifact.MIMEType)
		w.Header().Set("Content-Disposition", fmt.Sprintf("attachment; filename=%q", artifact.Filename))
		w.Header().Set("X-Request-ID", out.RequestID)
		if _, err := w.Write(artifact.Data); err != nil {
			logger.Error("[%s] Failed to write %s: %v", out.RequestID, artifact.Filename, err)
		}
	}
}

// HealthHandler handles GET /api/health by probing the inference service.
func HealthHandler(manager *service.Manager, logger *logger.Logger) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if err := manager.Health(r.Context()); err != nil {
			logger.Warning("Health check failed: %v", err)
			writeJSON(w, http.StatusServiceUnavailable, map[string]string{
				"status": "unavailable",
				"error":  err.Error(),
			}, logger)
			return
		}
		writeJSON(w, http.StatusOK, map[string]string{"status": "ok"}, logger)
	}
}

func runAnalysis(ctx context.Context, manager *service.Manager, cfg *config.Config, upload []byte) (*service.Outcome, error) {
	if cfg.InferenceTimeout > 0 {
		var cancel context.CancelFunc
		ctx, cancel = context.WithTimeout(ctx, cfg.InferenceTimeout)
		defer cancel()
	}
	return manager.Analyze(ctx, upload)
}

// readUpload returns the uploaded bytes along with the status to use if reading failed.
func readUpload(w http.ResponseWriter, r *http.Request, maxSize int64) ([]byte, int, error) {
	if maxSize > 0 {
		r.Body = http.MaxBytesReader(w, r.Body, maxSize)
	}

	var (
		data []byte
		err  error
	)
	if isMultipart(r) {
		data, err = readMultipart(r, maxSize)
	} else {
		data, err = io.ReadAll(r.Body)
	}

	if err != nil {
		var tooLarge *http.MaxBytesError
		if errors.As(err, &tooLarge) {
			return nil, http.StatusRequestEntityTooLarge, fmt.Errorf("upload exceeds %d bytes", maxSize)
		}
		return nil, http.StatusBadRequest, err
	}
	if len(data) == 0 {
		return nil, http.StatusBadRequest, errEmptyUpload
	}
	return data, http.StatusOK, nil
}

func readMultipart(r *http.Request, maxSize int64) ([]byte, error) {
	memory := maxSize
	if memory <= 0 {
		memory = 32 << 20
	}
	if err := r.ParseMultipartForm(memory); err != nil {
		return nil, err
	}

	file, _, err := r.FormFile(uploadField)
	if err != nil {
		return nil, fmt.Errorf("missing %q form field: %w", uploadField, err)
	}
	defer file.Close()

	return io.ReadAll(file)
}

func isMultipart(r *http.Request) bool {
	return strings.HasPrefix(r.Header.Get("Content-Type"), "multipart/form-data")
}
