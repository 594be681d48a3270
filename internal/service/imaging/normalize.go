package imaging

import (
	"fmt"
	"image"
	"net/http"

	"emotionanalyzer/internal/apperror"

	"gocv.io/x/gocv"
)

// DefaultMaxDimension bounds the longest side of a normalized image.
const DefaultMaxDimension = 800

var acceptedTypes = map[string]bool{
	"image/jpeg": true,
	"image/png":  true,
}

// Frame is one normalized upload in both channel orders.
type Frame struct {
	Source     []byte // Upload bytes, untouched
	SourceType string
	Display    ImageBuffer // RGB
	Inference  ImageBuffer // BGR
}

// Close releases both buffers.
func (f *Frame) Close() {
	f.Display.Close()
	f.Inference.Close()
}

// DetectType sniffs the upload and returns its MIME type if it is an accepted format.
func DetectType(upload []byte) (string, bool) {
	mime := http.DetectContentType(upload)
	return mime, acceptedTypes[mime]
}

// Normalize decodes a JPEG or PNG upload, drops alpha, bounds its size by maxDim
// and returns it in the display and inference channel orders.
func Normalize(upload []byte, maxDim int) (*Frame, error) {
	if len(upload) == 0 {
		return nil, apperror.NewDecodeError("empty upload", nil)
	}

	mime, ok := DetectType(upload)
	if !ok {
		return nil, apperror.NewDecodeError(fmt.Sprintf("unsupported format %s", mime), nil)
	}

	// IMReadColor always yields 3 channels, which discards alpha and expands grayscale.
	mat, err := gocv.IMDecode(upload, gocv.IMReadColor)
	if err != nil {
		return nil, apperror.NewDecodeError("failed to decode image", err)
	}
	if mat.Empty() {
		mat.Close()
		return nil, apperror.NewDecodeError("decoded image is empty", nil)
	}

	bgr, err := downscale(mat, maxDim)
	mat.Close()
	if err != nil {
		return nil, apperror.NewDecodeError("failed to resize image", err)
	}

	inference := NewImageBuffer(bgr, BGR)
	display, err := inference.Convert(RGB)
	if err != nil {
		inference.Close()
		return nil, apperror.NewDecodeError("failed to convert color order", err)
	}

	return &Frame{
		Source:     upload,
		SourceType: mime,
		Display:    display,
		Inference:  inference,
	}, nil
}

// downscale returns a new Mat whose sides fit maxDim. Smaller images are copied as is.
func downscale(src gocv.Mat, maxDim int) (gocv.Mat, error) {
	target := FitWithin(image.Pt(src.Cols(), src.Rows()), maxDim)
	if target.X == src.Cols() && target.Y == src.Rows() {
		return src.Clone(), nil
	}

	dst := gocv.NewMat()
	if err := gocv.Resize(src, &dst, target, 0, 0, gocv.InterpolationArea); err != nil {
		dst.Close()
		return gocv.Mat{}, err
	}
	return dst, nil
}

// FitWithin scales size down so neither side exceeds maxDim, keeping the aspect ratio.
// It never upscales; a non-positive maxDim disables the bound.
func FitWithin(size image.Point, maxDim int) image.Point {
	longest := max(size.X, size.Y)
	if maxDim <= 0 || longest <= maxDim {
		return size
	}

	scale := float64(maxDim) / float64(longest)
	w := max(1, int(float64(size.X)*scale+0.5))
	h := max(1, int(float64(size.Y)*scale+0.5))
	return image.Pt(min(w, maxDim), min(h, maxDim))
}
