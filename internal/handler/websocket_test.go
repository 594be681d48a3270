package handler

import (
	"net/http"
	"net/http/httptest"
	"strings"
	"testing"
	"time"

	"emotionanalyzer/internal/apperror"
	"emotionanalyzer/internal/dto"
	"emotionanalyzer/internal/logger"

	"github.com/gorilla/websocket"
)

func dialAnalyze(t *testing.T, server *httptest.Server) *websocket.Conn {
	t.Helper()

	url := "ws" + strings.TrimPrefix(server.URL, "http")
	conn, _, err := websocket.DefaultDialer.Dial(url, nil)
	if err != nil {
		t.Fatalf("Failed to dial: %v", err)
	}
	conn.SetReadDeadline(time.Now().Add(10 * time.Second))
	t.Cleanup(func() { conn.Close() })
	return conn
}

func TestAnalyzeWebsocketHandler(t *testing.T) {
	server := httptest.NewServer(AnalyzeWebsocketHandler(newManager(happyFace(), nil), testConfig(), logger.Discard()))
	defer server.Close()

	conn := dialAnalyze(t, server)
	if err := conn.WriteMessage(websocket.BinaryMessage, pngUpload(t)); err != nil {
		t.Fatalf("Failed to send upload: %v", err)
	}

	var status dto.StatusMessage
	if err := conn.ReadJSON(&status); err != nil {
		t.Fatalf("Failed to read status frame: %v", err)
	}
	if status.Status != dto.StatusAnalyzing {
		t.Errorf("Expected analyzing status first, got %q", status.Status)
	}

	var resp dto.AnalysisResponse
	if err := conn.ReadJSON(&resp); err != nil {
		t.Fatalf("Failed to read result: %v", err)
	}
	if resp.Status != dto.StatusSuccess || resp.PrimaryEmotion != "Happy" {
		t.Errorf("Unexpected result: %+v", resp.Status)
	}
}

func TestAnalyzeWebsocketHandler_NoFaceKeepsConnection(t *testing.T) {
	server := httptest.NewServer(AnalyzeWebsocketHandler(newManager(nil, apperror.NewNoFaceDetectedError(nil)), testConfig(), logger.Discard()))
	defer server.Close()

	conn := dialAnalyze(t, server)

	for i := 0; i < 2; i++ {
		if err := conn.WriteMessage(websocket.BinaryMessage, pngUpload(t)); err != nil {
			t.Fatalf("Upload %d failed: %v", i, err)
		}

		var status dto.StatusMessage
		if err := conn.ReadJSON(&status); err != nil {
			t.Fatalf("Failed to read status frame: %v", err)
		}

		var resp dto.AnalysisResponse
		if err := conn.ReadJSON(&resp); err != nil {
			t.Fatalf("Failed to read result: %v", err)
		}
		if resp.Status != dto.StatusNoFace || resp.SourceImage == "" {
			t.Errorf("Upload %d: expected no_face with the source image, got %s", i, resp.Status)
		}
	}
}

func TestAnalyzeWebsocketHandler_TextMessage(t *testing.T) {
	server := httptest.NewServer(AnalyzeWebsocketHandler(newManager(happyFace(), nil), testConfig(), logger.Discard()))
	defer server.Close()

	conn := dialAnalyze(t, server)
	if err := conn.WriteMessage(websocket.TextMessage, []byte("hello")); err != nil {
		t.Fatalf("Failed to send: %v", err)
	}

	var status dto.StatusMessage
	if err := conn.ReadJSON(&status); err != nil {
		t.Fatalf("Failed to read reply: %v", err)
	}
	if status.Status != dto.StatusError {
		t.Errorf("Expected error status, got %q", status.Status)
	}
}

func TestAnalyzeWebsocketHandler_OriginCheck(t *testing.T) {
	cfg := testConfig()
	cfg.Password = "secret"
	server := httptest.NewServer(AnalyzeWebsocketHandler(newManager(happyFace(), nil), cfg, logger.Discard()))
	defer server.Close()

	url := "ws" + strings.TrimPrefix(server.URL, "http")

	tests := []struct {
		name   string
		origin string
		allow  bool
	}{
		{"no origin", "", true},
		{"same host", server.URL, true},
		{"foreign site", "http://evil.example", false},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			header := http.Header{}
			if tt.origin != "" {
				header.Set("Origin", tt.origin)
			}
			conn, resp, err := websocket.DefaultDialer.Dial(url, header)
			if conn != nil {
				conn.Close()
			}

			if tt.allow && err != nil {
				t.Errorf("Expected the connection to be accepted, got %v", err)
			}
			if !tt.allow {
				if err == nil {
					t.Fatal("Expected the connection to be refused")
				}
				if resp == nil || resp.StatusCode != http.StatusForbidden {
					t.Errorf("Expected 403, got %+v", resp)
				}
			}
		})
	}
}

func TestAnalyzeWebsocketHandler_AnyOriginWithoutPassword(t *testing.T) {
	server := httptest.NewServer(AnalyzeWebsocketHandler(newManager(happyFace(), nil), testConfig(), logger.Discard()))
	defer server.Close()

	header := http.Header{"Origin": {"http://elsewhere.example"}}
	conn, _, err := websocket.DefaultDialer.Dial("ws"+strings.TrimPrefix(server.URL, "http"), header)
	if err != nil {
		t.Fatalf("Expected open access without a password, got %v", err)
	}
	conn.Close()
}
