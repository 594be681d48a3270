package route

import (
	"net/http"
	"os"
	"path/filepath"

	"emotionanalyzer/internal/config"
	"emotionanalyzer/internal/handler"
	"emotionanalyzer/internal/logger"
	"emotionanalyzer/internal/middleware"
	"emotionanalyzer/internal/service"
)

// dynamicHTMLHandler serves /path as <staticDir>/path.html if the file exists; otherwise 404.
func dynamicHTMLHandler(staticDir string) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		path := r.URL.Path

		if path == "/" {
			path = "/index"
		}

		filePath := filepath.Join(staticDir, filepath.Clean("/"+path)+".html")

		if _, err := os.Stat(filePath); os.IsNotExist(err) {
			http.NotFound(w, r)
			return
		}

		http.ServeFile(w, r, filePath)
	}
}

// SetupRoutes registers HTTP routes, static file serving, API endpoints,
// and wraps the mux with the authentication middleware.
func SetupRoutes(manager *service.Manager, cfg *config.Config, logger *logger.Logger) http.Handler {
	mux := http.NewServeMux()

	// Static files
	mux.Handle("/static/", http.StripPrefix("/static/", http.FileServer(http.Dir(cfg.StaticDirectory))))

	// API endpoints
	mux.HandleFunc("/api/analyze", handler.AnalyzeHandler(manager, cfg, logger))
	mux.HandleFunc("/api/analyze/ws", handler.AnalyzeWebsocketHandler(manager, cfg, logger))
	mux.HandleFunc("/api/export/image", handler.ExportImageHandler(manager, cfg, logger))
	mux.HandleFunc("/api/export/report", handler.ExportReportHandler(manager, cfg, logger))
	mux.HandleFunc("/api/health", handler.HealthHandler(manager, logger))

	// Log endpoints
	mux.HandleFunc("/logs/info", handler.ShowInfoLogsHandler(logger))
	mux.HandleFunc("/logs/warning", handler.ShowWarningLogsHandler(logger))
	mux.HandleFunc("/logs/error", handler.ShowErrorLogsHandler(logger))

	mux.HandleFunc("/logs/info/clear", handler.ClearInfoLogsHandler(logger))
	mux.HandleFunc("/logs/warning/clear", handler.ClearWarningLogsHandler(logger))
	mux.HandleFunc("/logs/error/clear", handler.ClearErrorLogsHandler(logger))

	// Auth endpoints
	mux.HandleFunc("/auth/login", handler.LoginHandler(cfg, logger))
	mux.HandleFunc("/auth/logout", handler.LogoutHandler)

	// Automatic HTML handler mapping for example: /login -> /static/login.html
	mux.HandleFunc("/", dynamicHTMLHandler(cfg.StaticDirectory))

	// Apply middleware
	return middleware.AuthMiddleware(cfg.Password)(mux)
}
