package inference

import (
	"bytes"
	"context"
	"crypto/sha256"
	"encoding/binary"
	"encoding/hex"
	"errors"
	"fmt"

	"emotionanalyzer/internal/apperror"
	"emotionanalyzer/internal/logger"
	"emotionanalyzer/internal/model"
	"emotionanalyzer/internal/repository"
	"emotionanalyzer/internal/service/imaging"

	"gocv.io/x/gocv"
)

// transportQuality is the JPEG quality used to ship pixels to the collaborator.
const transportQuality = 95

// Analyzer is the external face/emotion model.
type Analyzer interface {
	Analyze(ctx context.Context, r Request) ([]RawFace, error)
}

// Adapter turns collaborator calls into AnalysisResults and caches them by pixel content.
type Adapter struct {
	analyzer        Analyzer
	cache           repository.AnalysisRepository
	detectorBackend string
	logger          *logger.Logger
}

// NewAdapter creates an adapter. A nil cache disables caching.
func NewAdapter(analyzer Analyzer, cache repository.AnalysisRepository, detectorBackend string, logger *logger.Logger) *Adapter {
	return &Adapter{
		analyzer:        analyzer,
		cache:           cache,
		detectorBackend: detectorBackend,
		logger:          logger,
	}
}

// Analyze returns the faces found in buf, which must be in BGR order.
// Errors are *apperror.Error with CodeNoFaceDetected or CodeInference.
func (a *Adapter) Analyze(ctx context.Context, buf imaging.ImageBuffer) (*model.AnalysisResult, error) {
	if buf.Empty() {
		return nil, apperror.NewInferenceError("empty image buffer", nil)
	}
	if buf.Order() != imaging.BGR {
		return nil, apperror.NewInferenceError("collaborator expects BGR input, got "+buf.Order().String(), nil)
	}

	key := ContentKey(buf.Width(), buf.Height(), buf.Order(), buf.Pixels())

	if a.cache != nil {
		cached, ok, err := a.cache.Get(ctx, key)
		if err != nil {
			a.logger.Warning("Inference cache read failed: %v", err)
		} else if ok && cached.Len() > 0 {
			a.logger.Info("Inference cache hit %s (%d faces)", key[:12], cached.Len())
			return cached, nil
		} else if ok {
			a.logger.Warning("Ignoring empty cache entry %s", key[:12])
		}
	}

	encoded, err := encodeForTransport(buf)
	if err != nil {
		return nil, apperror.NewInferenceError("failed to encode image for the collaborator", err)
	}

	raw, err := a.analyzer.Analyze(ctx, Request{
		Image:            encoded,
		MIMEType:         "image/jpeg",
		Actions:          []string{ActionEmotion},
		EnforceDetection: true,
		DetectorBackend:  a.detectorBackend,
	})
	if err != nil {
		if errors.Is(err, ErrNoFace) {
			return nil, apperror.NewNoFaceDetectedError(err)
		}
		return nil, apperror.NewInferenceError("collaborator request failed", err)
	}

	result, err := toResult(raw, buf.Width(), buf.Height())
	if err != nil {
		return nil, err
	}

	if a.cache != nil {
		if err := a.cache.Put(ctx, key, result); err != nil {
			a.logger.Warning("Inference cache write failed: %v", err)
		}
	}

	a.logger.Info("Inference found %d face(s) for %s", result.Len(), key[:12])
	return result, nil
}

// toResult validates raw faces, clamps their regions and derives dominant emotions.
func toResult(raw []RawFace, width, height int) (*model.AnalysisResult, error) {
	if len(raw) == 0 {
		return nil, apperror.NewNoFaceDetectedError(nil)
	}

	faces := make([]model.FaceDetection, 0, len(raw))
	for i, face := range raw {
		if len(face.Emotion) == 0 {
			return nil, apperror.NewInferenceError("collaborator returned a face without emotion scores", fmt.Errorf("face %d", i+1))
		}
		region := face.Region.toRegion().ClampTo(width, height)
		faces = append(faces, model.NewFaceDetection(region, face.Emotion))
	}

	return &model.AnalysisResult{Faces: faces}, nil
}

// ContentKey hashes the pixel content together with its geometry and channel order.
func ContentKey(width, height int, order imaging.ChannelOrder, pixels []byte) string {
	var header bytes.Buffer
	binary.Write(&header, binary.BigEndian, [3]int64{int64(width), int64(height), int64(order)})

	h := sha256.New()
	h.Write(header.Bytes())
	h.Write(pixels)
	return hex.EncodeToString(h.Sum(nil))
}

func encodeForTransport(buf imaging.ImageBuffer) ([]byte, error) {
	native, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, *buf.Mat(), []int{int(gocv.IMWriteJpegQuality), transportQuality})
	if err != nil {
		return nil, err
	}
	defer native.Close()

	out := make([]byte, len(native.GetBytes()))
	copy(out, native.GetBytes())
	return out, nil
}
