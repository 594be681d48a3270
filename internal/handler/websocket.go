package handler

import (
	"net/http"
	"net/url"
	"strings"

	"emotionanalyzer/internal/config"
	"emotionanalyzer/internal/dto"
	"emotionanalyzer/internal/logger"
	"emotionanalyzer/internal/service"

	"github.com/gorilla/websocket"
)

// NewUpgrader upgrades HTTP connections to WebSocket. Without a password every
// origin is accepted; with one, browsers must connect from the serving host.
func NewUpgrader(cfg *config.Config) *websocket.Upgrader {
	return &websocket.Upgrader{
		CheckOrigin: func(r *http.Request) bool {
			if cfg.Password == "" {
				return true
			}
			return sameOrigin(r)
		},
	}
}

// sameOrigin accepts requests without an Origin header (non-browser clients)
// and those whose Origin host matches the request Host.
func sameOrigin(r *http.Request) bool {
	origin := r.Header.Get("Origin")
	if origin == "" {
		return true
	}
	u, err := url.Parse(origin)
	if err != nil {
		return false
	}
	return strings.EqualFold(u.Host, r.Host)
}

// AnalyzeWebsocketHandler handles GET /api/analyze/ws. Every binary message is
// treated as one upload: the client first receives an "analyzing" status frame
// and then the full analysis response. Each connection is served on its own.
func AnalyzeWebsocketHandler(manager *service.Manager, cfg *config.Config, logger *logger.Logger) http.HandlerFunc {
	upgrader := NewUpgrader(cfg)

	return func(w http.ResponseWriter, r *http.Request) {
		connection, err := upgrader.Upgrade(w, r, nil)
		if err != nil {
			logger.Error("WebSocket upgrade error: %v", err)
			return
		}
		defer connection.Close()

		if cfg.MaxUploadSize > 0 {
			connection.SetReadLimit(cfg.MaxUploadSize)
		}

		logger.Info("Analysis client connected from %s", r.RemoteAddr)

		for {
			messageType, data, err := connection.ReadMessage()
			if err != nil {
				if websocket.IsCloseError(err, websocket.CloseNormalClosure, websocket.CloseGoingAway) {
					logger.Info("Analysis client disconnected normally")
				} else {
					logger.Error("Analysis client disconnected with error: %v", err)
				}
				return
			}

			if messageType != websocket.BinaryMessage {
				if err := connection.WriteJSON(dto.StatusMessage{
					Status:  dto.StatusError,
					Message: "Send the image as a binary message.",
				}); err != nil {
					logger.Error("WebSocket write error: %v", err)
					return
				}
				continue
			}

			if err := connection.WriteJSON(dto.StatusMessage{
				Status:  dto.StatusAnalyzing,
				Message: "Analyzing your image...",
			}); err != nil {
				logger.Error("WebSocket write error: %v", err)
				return
			}

			out, err := runAnalysis(r.Context(), manager, cfg, data)
			resp, _ := BuildResponse(out, err)
			if err := connection.WriteJSON(resp); err != nil {
				logger.Error("WebSocket write error: %v", err)
				return
			}
		}
	}
}
