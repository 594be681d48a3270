package export

import (
	"bytes"
	"encoding/csv"
	"fmt"

	"emotionanalyzer/internal/apperror"
	"emotionanalyzer/internal/model"
	"emotionanalyzer/internal/service/imaging"

	"gocv.io/x/gocv"
)

const (
	ImageFilename  = "analyzed_image.jpg"
	ImageMIMEType  = "image/jpeg"
	ReportFilename = "emotion_report.csv"
	ReportMIMEType = "text/csv; charset=utf-8"

	DefaultJPEGQuality = 95
)

// ReportHeader is the first CSV line.
var ReportHeader = []string{"Subject", "Emotion"}

// Image encodes buf as a JPEG artifact. RGB buffers are converted to BGR first.
func Image(buf imaging.ImageBuffer, quality int) (*model.ExportArtifact, error) {
	if buf.Empty() {
		return nil, apperror.NewExportEncodingError("image", fmt.Errorf("empty image buffer"))
	}
	if quality <= 0 || quality > 100 {
		quality = DefaultJPEGQuality
	}

	bgr, err := buf.Convert(imaging.BGR)
	if err != nil {
		return nil, apperror.NewExportEncodingError("image", err)
	}
	defer bgr.Close()

	native, err := gocv.IMEncodeWithParams(gocv.JPEGFileExt, *bgr.Mat(), []int{int(gocv.IMWriteJpegQuality), quality})
	if err != nil {
		return nil, apperror.NewExportEncodingError("image", err)
	}
	defer native.Close()

	data := make([]byte, len(native.GetBytes()))
	copy(data, native.GetBytes())

	return &model.ExportArtifact{
		Filename: ImageFilename,
		MIMEType: ImageMIMEType,
		Data:     data,
	}, nil
}

// Report encodes the rows as CSV with a Subject,Emotion header.
func Report(rows []model.ReportRow) (*model.ExportArtifact, error) {
	var buf bytes.Buffer
	w := csv.NewWriter(&buf)

	if err := w.Write(ReportHeader); err != nil {
		return nil, apperror.NewExportEncodingError("report", err)
	}
	for _, row := range rows {
		if err := w.Write([]string{row.Subject, row.Emotion}); err != nil {
			return nil, apperror.NewExportEncodingError("report", err)
		}
	}

	w.Flush()
	if err := w.Error(); err != nil {
		return nil, apperror.NewExportEncodingError("report", err)
	}

	return &model.ExportArtifact{
		Filename: ReportFilename,
		MIMEType: ReportMIMEType,
		Data:     buf.Bytes(),
	}, nil
}
