package model

import (
	"image"
	"sort"
)

// Region is the pixel rectangle locating one face.
type Region struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// Rect converts the region to an image.Rectangle.
func (r Region) Rect() image.Rectangle {
	return image.Rect(r.X, r.Y, r.X+r.W, r.Y+r.H)
}

// ClampTo returns the region intersected with a width x height image.
func (r Region) ClampTo(width, height int) Region {
	rect := r.Rect().Canon().Intersect(image.Rect(0, 0, width, height))
	return Region{X: rect.Min.X, Y: rect.Min.Y, W: rect.Dx(), H: rect.Dy()}
}

// FaceDetection is one face found by the inference collaborator.
type FaceDetection struct {
	Region   Region             `json:"region"`
	Scores   map[string]float64 `json:"scores"` // Verbatim from the collaborator
	Dominant string             `json:"dominant"`
}

// NewFaceDetection builds a detection and derives its dominant emotion.
func NewFaceDetection(region Region, scores map[string]float64) FaceDetection {
	return FaceDetection{
		Region:   region,
		Scores:   scores,
		Dominant: DominantEmotion(scores),
	}
}

// Confidence returns the label's share of the total score, in [0, 1].
func (f FaceDetection) Confidence(label string) float64 {
	var total float64
	for _, v := range f.Scores {
		total += v
	}
	if total <= 0 {
		return 0
	}
	return f.Scores[label] / total
}

// DominantEmotion returns the label with the highest score.
// Ties go to the lexicographically smallest label so the result does not depend on map order.
func DominantEmotion(scores map[string]float64) string {
	labels := make([]string, 0, len(scores))
	for label := range scores {
		labels = append(labels, label)
	}
	sort.Strings(labels)

	best := ""
	for _, label := range labels {
		if best == "" || scores[label] > scores[best] {
			best = label
		}
	}
	return best
}

// AnalysisResult holds the detected faces in the order the collaborator returned them.
type AnalysisResult struct {
	Faces []FaceDetection `json:"faces"`
}

// Len returns the number of detected faces.
func (r AnalysisResult) Len() int {
	return len(r.Faces)
}
