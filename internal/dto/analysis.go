package dto

import "emotionanalyzer/internal/model"

// Analysis statuses.
const (
	StatusAnalyzing = "analyzing"
	StatusSuccess   = "success"
	StatusNoFace    = "no_face"
	StatusError     = "error"
)

// AnalysisResponse is returned by /api/analyze and over the WebSocket.
type AnalysisResponse struct {
	RequestID      string            `json:"requestId,omitempty"`
	Status         string            `json:"status"`
	Message        string            `json:"message"`
	ErrorCode      string            `json:"errorCode,omitempty"`
	PrimaryEmotion string            `json:"primaryEmotion,omitempty"`
	Width          int               `json:"width,omitempty"`
	Height         int               `json:"height,omitempty"`
	Faces          []FaceInfo        `json:"faces,omitempty"`
	Report         []model.ReportRow `json:"report,omitempty"`
	SourceImage    string            `json:"sourceImage,omitempty"`    // data URI
	AnnotatedImage string            `json:"annotatedImage,omitempty"` // data URI
	Downloads      []Download        `json:"downloads,omitempty"`
	ExportError    string            `json:"exportError,omitempty"`
	DurationMs     int64             `json:"durationMs,omitempty"`
}

// FaceInfo describes one detected face.
type FaceInfo struct {
	Label     string             `json:"label"`
	Subject   string             `json:"subject"`
	Emotion   string             `json:"emotion"`
	Region    model.Region       `json:"region"`
	Scores    map[string]float64 `json:"scores"`
	Certainty float64            `json:"certainty"` // Dominant label's share of all scores
}

// Download is an export artifact ready for a download button.
type Download struct {
	Filename string `json:"filename"`
	MIMEType string `json:"mimeType"`
	Data     string `json:"data"` // data URI
}

// StatusMessage is the interim frame sent over the WebSocket while inference runs.
type StatusMessage struct {
	Status  string `json:"status"`
	Message string `json:"message"`
}
