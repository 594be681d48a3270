package annotate

import (
	"fmt"
	"image"
	"image/color"

	"emotionanalyzer/internal/model"
	"emotionanalyzer/internal/service/imaging"

	"gocv.io/x/gocv"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"
)

const (
	StrokeWidth  = 2
	FontFace     = gocv.FontHersheySimplex
	FontScale    = 0.6
	FontWeight   = 2
	LabelPadding = 4

	SingleSubject = "Subject"
)

var (
	BoxColor  = color.RGBA{R: 37, G: 99, B: 235, A: 255}
	TextColor = color.RGBA{R: 255, G: 255, B: 255, A: 255}
)

var titleCaser = cases.Title(language.English)

// Label is a rendered caption and where its background box went.
type Label struct {
	Text string
	Box  image.Rectangle
}

// Annotation is the drawn copy plus everything that was drawn on it.
type Annotation struct {
	Image  imaging.ImageBuffer // Owned by the caller; Close it
	Boxes  []image.Rectangle
	Labels []Label
	Rows   []model.ReportRow
}

// Capitalize upper-cases the first letter of an emotion label and lower-cases the rest.
func Capitalize(emotion string) string {
	return titleCaser.String(emotion)
}

// FaceLabel is the caption drawn next to face i (0-based) out of total.
func FaceLabel(i, total int, emotion string) string {
	if total == 1 {
		return Capitalize(emotion)
	}
	return fmt.Sprintf("Person %d: %s", i+1, Capitalize(emotion))
}

// SubjectName is the report's subject column for face i (0-based) out of total.
func SubjectName(i, total int) string {
	if total == 1 {
		return SingleSubject
	}
	return fmt.Sprintf("Person %d", i+1)
}

// Rows builds one report row per detection, in detection order.
func Rows(result *model.AnalysisResult) []model.ReportRow {
	rows := make([]model.ReportRow, 0, result.Len())
	for i, face := range result.Faces {
		rows = append(rows, model.ReportRow{
			Subject: SubjectName(i, result.Len()),
			Emotion: Capitalize(face.Dominant),
		})
	}
	return rows
}

// PlaceLabel positions a label of the given size for region inside an image of bounds.
// The label sits above the region when there is room, otherwise below it, and is then
// shifted so it never leaves the image.
func PlaceLabel(region image.Rectangle, label image.Point, bounds image.Point) image.Rectangle {
	y := region.Min.Y - label.Y
	if region.Min.Y < label.Y {
		y = region.Max.Y
	}
	y = clamp(y, 0, bounds.Y-label.Y)
	x := clamp(region.Min.X, 0, bounds.X-label.X)

	return image.Rect(x, y, x+label.X, y+label.Y).Intersect(image.Rect(0, 0, bounds.X, bounds.Y))
}

// Annotate draws every detection onto a copy of display and builds the report rows.
// display is never modified.
func Annotate(display imaging.ImageBuffer, result *model.AnalysisResult) (*Annotation, error) {
	canvas := display.Clone()
	out := &Annotation{
		Image: canvas,
		Rows:  Rows(result),
	}

	box := colorFor(BoxColor, canvas.Order())
	text := colorFor(TextColor, canvas.Order())
	bounds := canvas.Size()

	for i, face := range result.Faces {
		rect := face.Region.Rect()
		if err := gocv.Rectangle(canvas.Mat(), rect, box, StrokeWidth); err != nil {
			canvas.Close()
			return nil, fmt.Errorf("failed to draw rectangle: %w", err)
		}
		out.Boxes = append(out.Boxes, rect)

		caption := FaceLabel(i, result.Len(), face.Dominant)
		textSize, baseline := gocv.GetTextSizeWithBaseline(caption, FontFace, FontScale, FontWeight)
		labelSize := image.Pt(textSize.X+2*LabelPadding, textSize.Y+baseline+2*LabelPadding)
		labelBox := PlaceLabel(rect, labelSize, bounds)

		if err := gocv.Rectangle(canvas.Mat(), labelBox, box, -1); err != nil {
			canvas.Close()
			return nil, fmt.Errorf("failed to draw label background: %w", err)
		}
		origin := image.Pt(labelBox.Min.X+LabelPadding, labelBox.Min.Y+LabelPadding+textSize.Y)
		if err := gocv.PutText(canvas.Mat(), caption, origin, FontFace, FontScale, text, FontWeight); err != nil {
			canvas.Close()
			return nil, fmt.Errorf("failed to draw text: %w", err)
		}
		out.Labels = append(out.Labels, Label{Text: caption, Box: labelBox})
	}

	return out, nil
}

// colorFor maps an RGB color to what gocv must be given for a buffer in order.
// gocv writes color.RGBA as B,G,R into the first three channels.
func colorFor(c color.RGBA, order imaging.ChannelOrder) color.RGBA {
	if order == imaging.RGB {
		return color.RGBA{R: c.B, G: c.G, B: c.R, A: c.A}
	}
	return c
}

func clamp(v, lo, hi int) int {
	if hi < lo {
		return lo
	}
	return max(lo, min(v, hi))
}
