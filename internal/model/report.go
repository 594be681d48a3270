package model

// ReportRow is one line of the tabular report.
type ReportRow struct {
	Subject string `json:"subject"`
	Emotion string `json:"emotion"`
}

// ExportArtifact is a downloadable payload.
type ExportArtifact struct {
	Filename string
	MIMEType string
	Data     []byte
}
