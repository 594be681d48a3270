package inference

import "emotionanalyzer/internal/model"

// Action names understood by the DeepFace REST API.
const (
	ActionEmotion = "emotion"
)

// Request is one call to the collaborator.
type Request struct {
	Image            []byte // Encoded image in the collaborator's channel order
	MIMEType         string
	Actions          []string
	EnforceDetection bool
	DetectorBackend  string
}

// AnalyzeRequest is the JSON body of POST /analyze.
type AnalyzeRequest struct {
	Img              string   `json:"img"` // data URI
	Actions          []string `json:"actions"`
	EnforceDetection bool     `json:"enforce_detection"`
	DetectorBackend  string   `json:"detector_backend,omitempty"`
}

// RawFace is one face as returned by the collaborator. Extra fields are ignored.
type RawFace struct {
	Region          FacialArea         `json:"region"`
	Emotion         map[string]float64 `json:"emotion"`
	DominantEmotion string             `json:"dominant_emotion"`
	FaceConfidence  float64            `json:"face_confidence"`
}

// FacialArea is the collaborator's bounding box.
type FacialArea struct {
	X int `json:"x"`
	Y int `json:"y"`
	W int `json:"w"`
	H int `json:"h"`
}

// ErrorResponse is the body DeepFace sends with a non-2xx status.
type ErrorResponse struct {
	Error string `json:"error"`
}

func (f FacialArea) toRegion() model.Region {
	return model.Region{X: f.X, Y: f.Y, W: f.W, H: f.H}
}
