package export

import (
	"bytes"
	"encoding/csv"
	"image/jpeg"
	"testing"

	"emotionanalyzer/internal/apperror"
	"emotionanalyzer/internal/model"
	"emotionanalyzer/internal/service/imaging"

	"gocv.io/x/gocv"
)

func TestReport_RoundTrip(t *testing.T) {
	rows := []model.ReportRow{
		{Subject: "Person 1", Emotion: "Happy"},
		{Subject: "Person 2", Emotion: "Sad"},
	}

	artifact, err := Report(rows)
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if artifact.Filename != ReportFilename || artifact.MIMEType != ReportMIMEType {
		t.Errorf("Unexpected artifact metadata: %s %s", artifact.Filename, artifact.MIMEType)
	}

	records, err := csv.NewReader(bytes.NewReader(artifact.Data)).ReadAll()
	if err != nil {
		t.Fatalf("Exported CSV does not parse: %v", err)
	}
	if len(records) != len(rows)+1 {
		t.Fatalf("Expected %d records, got %d", len(rows)+1, len(records))
	}
	if records[0][0] != "Subject" || records[0][1] != "Emotion" {
		t.Errorf("Unexpected header: %v", records[0])
	}
	for i, row := range rows {
		if records[i+1][0] != row.Subject || records[i+1][1] != row.Emotion {
			t.Errorf("Row %d = %v, want %+v", i, records[i+1], row)
		}
	}
}

func TestReport_SingleSubject(t *testing.T) {
	artifact, err := Report([]model.ReportRow{{Subject: "Subject", Emotion: "Happy"}})
	if err != nil {
		t.Fatalf("Report failed: %v", err)
	}
	if got := string(artifact.Data); got != "Subject,Emotion\nSubject,Happy\n" {
		t.Errorf("Unexpected CSV: %q", got)
	}
}

func TestImage_EncodesJPEG(t *testing.T) {
	for _, order := range []imaging.ChannelOrder{imaging.RGB, imaging.BGR} {
		t.Run(order.String(), func(t *testing.T) {
			mat := gocv.NewMatWithSizeFromScalar(gocv.NewScalar(10, 200, 30, 0), 48, 64, gocv.MatTypeCV8UC3)
			buf := imaging.NewImageBuffer(mat, order)
			defer buf.Close()

			artifact, err := Image(buf, 90)
			if err != nil {
				t.Fatalf("Image failed: %v", err)
			}
			if artifact.Filename != ImageFilename || artifact.MIMEType != ImageMIMEType {
				t.Errorf("Unexpected artifact metadata: %s %s", artifact.Filename, artifact.MIMEType)
			}

			img, err := jpeg.Decode(bytes.NewReader(artifact.Data))
			if err != nil {
				t.Fatalf("Exported image is not a JPEG: %v", err)
			}
			if b := img.Bounds(); b.Dx() != 64 || b.Dy() != 48 {
				t.Errorf("Expected 64x48, got %v", b)
			}
		})
	}
}

func TestImage_EmptyBuffer(t *testing.T) {
	buf := imaging.NewImageBuffer(gocv.NewMat(), imaging.BGR)
	defer buf.Close()

	if _, err := Image(buf, 90); !apperror.Is(err, apperror.CodeExportEncoding) {
		t.Errorf("Expected EXPORT_ENCODING_ERROR, got %v", err)
	}
}
