package service

import (
	"context"
	"time"

	"emotionanalyzer/internal/apperror"
	"emotionanalyzer/internal/logger"
	"emotionanalyzer/internal/model"
	"emotionanalyzer/internal/service/annotate"
	"emotionanalyzer/internal/service/export"
	"emotionanalyzer/internal/service/imaging"
	"emotionanalyzer/internal/service/inference"

	"github.com/google/uuid"
)

// FaceAnalyzer is the inference stage as the Manager sees it.
type FaceAnalyzer interface {
	Analyze(ctx context.Context, buf imaging.ImageBuffer) (*model.AnalysisResult, error)
}

// Outcome is everything one upload produced. Fields after Result are only set on success.
type Outcome struct {
	RequestID  string
	Source     []byte
	SourceType string
	Width      int
	Height     int

	Result    *model.AnalysisResult
	Annotated []byte // JPEG of the annotated display image, nil if its export failed
	Rows      []model.ReportRow
	Labels    []annotate.Label

	ImageArtifact  *model.ExportArtifact
	ReportArtifact *model.ExportArtifact
	ExportErr      error // Export failures leave the analysis valid

	Duration time.Duration
}

// PrimaryEmotion is the capitalized dominant emotion of the first detected face.
func (o *Outcome) PrimaryEmotion() string {
	if o.Result == nil || o.Result.Len() == 0 {
		return ""
	}
	return annotate.Capitalize(o.Result.Faces[0].Dominant)
}

// ImageExporter encodes the annotated image.
type ImageExporter func(buf imaging.ImageBuffer, quality int) (*model.ExportArtifact, error)

// ReportExporter encodes the report rows.
type ReportExporter func(rows []model.ReportRow) (*model.ExportArtifact, error)

// Manager runs uploads through ingestion, inference, annotation and export.
type Manager struct {
	analyzer     FaceAnalyzer
	health       func(ctx context.Context) error
	exportImage  ImageExporter
	exportReport ReportExporter
	maxDim       int
	jpegQuality  int
	logger       *logger.Logger
}

// NewManager wires the pipeline stages.
func NewManager(analyzer FaceAnalyzer, maxDim, jpegQuality int, logger *logger.Logger) *Manager {
	return &Manager{
		analyzer:     analyzer,
		exportImage:  export.Image,
		exportReport: export.Report,
		maxDim:       maxDim,
		jpegQuality:  jpegQuality,
		logger:       logger,
	}
}

// WithExporters replaces the artifact encoders. A nil argument keeps the current one.
func (m *Manager) WithExporters(image ImageExporter, report ReportExporter) *Manager {
	if image != nil {
		m.exportImage = image
	}
	if report != nil {
		m.exportReport = report
	}
	return m
}

// WithHealthCheck sets the probe used by Health.
func (m *Manager) WithHealthCheck(check func(ctx context.Context) error) *Manager {
	m.health = check
	return m
}

// Health reports whether the inference collaborator is reachable.
func (m *Manager) Health(ctx context.Context) error {
	if m.health == nil {
		return nil
	}
	return m.health(ctx)
}

// Analyze runs one upload through the whole pipeline.
// On DecodeError nothing but the request id is set. On NoFaceDetected and
// inference errors the outcome still carries the untouched source image.
func (m *Manager) Analyze(ctx context.Context, upload []byte) (*Outcome, error) {
	start := time.Now()
	out := &Outcome{RequestID: uuid.NewString()}

	frame, err := imaging.Normalize(upload, m.maxDim)
	if err != nil {
		m.logger.Warning("[%s] Rejected upload of %d bytes: %v", out.RequestID, len(upload), err)
		return out, err
	}
	defer frame.Close()

	out.Source = frame.Source
	out.SourceType = frame.SourceType
	out.Width = frame.Display.Width()
	out.Height = frame.Display.Height()

	result, err := m.analyzer.Analyze(ctx, frame.Inference)
	if err != nil {
		if apperror.Is(err, apperror.CodeNoFaceDetected) {
			m.logger.Info("[%s] No face detected in %dx%d image", out.RequestID, out.Width, out.Height)
		} else {
			m.logger.Error("[%s] Inference failed: %v", out.RequestID, err)
		}
		return out, err
	}
	out.Result = result

	ann, err := annotate.Annotate(frame.Display, result)
	if err != nil {
		m.logger.Error("[%s] Annotation failed: %v", out.RequestID, err)
		return out, apperror.NewInferenceError("failed to annotate image", err)
	}
	defer ann.Image.Close()

	out.Rows = ann.Rows
	out.Labels = ann.Labels

	m.export(out, ann)

	out.Duration = time.Since(start)
	m.logger.Info("[%s] Analyzed %d face(s) in %v, primary emotion %s",
		out.RequestID, result.Len(), out.Duration.Round(time.Millisecond), out.PrimaryEmotion())

	return out, nil
}

// export encodes both artifacts independently; one failing does not drop the other.
// ExportErr holds the first failure.
func (m *Manager) export(out *Outcome, ann *annotate.Annotation) {
	image, err := m.exportImage(ann.Image, m.jpegQuality)
	if err != nil {
		m.logger.Error("[%s] Image export failed: %v", out.RequestID, err)
		out.ExportErr = err
	} else {
		out.ImageArtifact = image
		out.Annotated = image.Data
	}

	report, err := m.exportReport(out.Rows)
	if err != nil {
		m.logger.Error("[%s] Report export failed: %v", out.RequestID, err)
		if out.ExportErr == nil {
			out.ExportErr = err
		}
	} else {
		out.ReportArtifact = report
	}
}

var _ FaceAnalyzer = (*inference.Adapter)(nil)
