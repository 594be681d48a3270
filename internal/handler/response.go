package handler

import (
	"encoding/base64"
	"encoding/json"
	"net/http"

	"emotionanalyzer/internal/apperror"
	"emotionanalyzer/internal/dto"
	"emotionanalyzer/internal/logger"
	"emotionanalyzer/internal/model"
	"emotionanalyzer/internal/service"
	"emotionanalyzer/internal/service/annotate"
)

// BuildResponse converts a pipeline outcome into the JSON payload and its HTTP status.
func BuildResponse(out *service.Outcome, err error) (dto.AnalysisResponse, int) {
	resp := dto.AnalysisResponse{}
	if out != nil {
		resp.RequestID = out.RequestID
		resp.Width = out.Width
		resp.Height = out.Height
		if len(out.Source) > 0 {
			resp.SourceImage = dataURI(out.SourceType, out.Source)
		}
	}

	if err != nil {
		resp.Message = apperror.UserMessage(err)
		resp.ErrorCode = string(apperror.CodeOf(err))
		resp.Status = dto.StatusError

		switch apperror.CodeOf(err) {
		case apperror.CodeNoFaceDetected:
			resp.Status = dto.StatusNoFace
			return resp, http.StatusUnprocessableEntity
		case apperror.CodeDecode:
			return resp, http.StatusBadRequest
		default:
			resp.ErrorCode = string(apperror.CodeInference)
			return resp, http.StatusBadGateway
		}
	}

	resp.Status = dto.StatusSuccess
	resp.Message = "Analysis complete."
	resp.PrimaryEmotion = out.PrimaryEmotion()
	resp.Report = out.Rows
	resp.DurationMs = out.Duration.Milliseconds()

	total := out.Result.Len()
	for i, face := range out.Result.Faces {
		resp.Faces = append(resp.Faces, dto.FaceInfo{
			Label:     annotate.FaceLabel(i, total, face.Dominant),
			Subject:   annotate.SubjectName(i, total),
			Emotion:   annotate.Capitalize(face.Dominant),
			Region:    face.Region,
			Scores:    face.Scores,
			Certainty: face.Confidence(face.Dominant),
		})
	}

	if len(out.Annotated) > 0 {
		resp.AnnotatedImage = dataURI("image/jpeg", out.Annotated)
	}
	if out.ExportErr != nil {
		resp.ExportError = apperror.UserMessage(out.ExportErr)
	}
	for _, a := range []*model.ExportArtifact{out.ImageArtifact, out.ReportArtifact} {
		if a != nil {
			resp.Downloads = append(resp.Downloads, toDownload(a))
		}
	}

	return resp, http.StatusOK
}

func toDownload(a *model.ExportArtifact) dto.Download {
	return dto.Download{
		Filename: a.Filename,
		MIMEType: a.MIMEType,
		Data:     dataURI(a.MIMEType, a.Data),
	}
}

func dataURI(mime string, data []byte) string {
	return "data:" + mime + ";base64," + base64.StdEncoding.EncodeToString(data)
}

func writeJSON(w http.ResponseWriter, status int, v interface{}, logger *logger.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		logger.Error("Error encoding JSON response: %v", err)
	}
}
