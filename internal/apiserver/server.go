// Package apiserver exposes the transcript engine over a plain JSON HTTP
// API for the Research Blender frontend.
package apiserver

import (
	"context"
	"encoding/json"
	"log/slog"
	"net/http"
	"time"

	"github.com/anatolykoptev/go_blender/internal/engine"
	"github.com/anatolykoptev/go_blender/internal/engine/youtube"
)

// ServiceName appears in health responses and logs.
const ServiceName = "go-blender"

// Server wires HTTP routes to the engine. The fetch funcs are fields so
// tests can stub the network-facing pipeline.
type Server struct {
	mux             *http.ServeMux
	fetchTranscript func(ctx context.Context, urlOrID, accessToken string) (*youtube.Result, error)
	fetchArticle    func(ctx context.Context, rawURL string) (*engine.Article, error)
}

func New() *Server {
	s := &Server{
		mux:             http.NewServeMux(),
		fetchTranscript: youtube.FetchTranscript,
		fetchArticle:    engine.FetchArticle,
	}
	s.mux.HandleFunc("POST /api/youtube/transcript", s.handleTranscript)
	s.mux.HandleFunc("POST /api/youtube/info", s.handleInfo)
	s.mux.HandleFunc("POST /api/article/extract", s.handleArticle)
	s.mux.HandleFunc("GET /api/health", s.handleHealth)
	s.mux.HandleFunc("GET /metrics", s.handleMetrics)
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	// The frontend runs on a different origin; every response carries CORS
	// headers and preflights answer empty 200.
	w.Header().Set("Access-Control-Allow-Origin", "*")
	w.Header().Set("Access-Control-Allow-Methods", "GET, POST, OPTIONS")
	w.Header().Set("Access-Control-Allow-Headers", "Content-Type, Authorization")
	if r.Method == http.MethodOptions {
		w.WriteHeader(http.StatusOK)
		return
	}
	s.mux.ServeHTTP(w, r)
}

// ListenAndServe blocks serving the API on the configured port.
func (s *Server) ListenAndServe(port string) error {
	srv := &http.Server{
		Addr:              ":" + port,
		Handler:           s,
		ReadHeaderTimeout: 10 * time.Second,
	}
	slog.Info("api server listening", slog.String("port", port))
	return srv.ListenAndServe()
}

type transcriptRequest struct {
	URL         string `json:"url"`
	AccessToken string `json:"accessToken"`
}

type articleRequest struct {
	URL string `json:"url"`
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		slog.Warn("write response", slog.Any("err", err))
	}
}

// writeFailure maps a classified failure to its status and user message.
func writeFailure(w http.ResponseWriter, err error, videoID string) {
	f := youtube.Classify(err, videoID)
	body := map[string]any{
		"success": false,
		"error":   f.Message(),
	}
	if f.VideoID != "" {
		body["video_id"] = f.VideoID
	}
	writeJSON(w, f.HTTPStatus(), body)
}

func (s *Server) handleTranscript(w http.ResponseWriter, r *http.Request) {
	var req transcriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "Missing url in request body",
		})
		return
	}

	res, err := s.fetchTranscript(r.Context(), req.URL, req.AccessToken)
	if err != nil {
		videoID, _ := youtube.ResolveVideoID(req.URL)
		slog.Warn("transcript request failed", slog.String("id", videoID), slog.Any("err", err))
		writeFailure(w, err, videoID)
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":    true,
		"video_id":   res.VideoID,
		"transcript": res.FullText,
		"segments":   res.Segments,
	})
}

func (s *Server) handleInfo(w http.ResponseWriter, r *http.Request) {
	engine.IncrInfoRequests()

	var req transcriptRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "Missing url in request body",
		})
		return
	}

	info, err := youtube.VideoInfo(req.URL)
	if err != nil {
		writeFailure(w, err, "")
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success":   true,
		"video_id":  info.VideoID,
		"thumbnail": info.Thumbnail,
	})
}

func (s *Server) handleArticle(w http.ResponseWriter, r *http.Request) {
	var req articleRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil || req.URL == "" {
		writeJSON(w, http.StatusBadRequest, map[string]any{
			"success": false,
			"error":   "Missing url in request body",
		})
		return
	}

	article, err := s.fetchArticle(r.Context(), req.URL)
	if err != nil {
		slog.Warn("article request failed", slog.String("url", req.URL), slog.Any("err", err))
		writeJSON(w, http.StatusBadGateway, map[string]any{
			"success": false,
			"error":   "Could not extract article content",
		})
		return
	}

	writeJSON(w, http.StatusOK, map[string]any{
		"success": true,
		"url":     article.URL,
		"title":   article.Title,
		"content": article.Content,
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]any{
		"status":  "ok",
		"service": ServiceName,
	})
}

func (s *Server) handleMetrics(w http.ResponseWriter, _ *http.Request) {
	w.Header().Set("Content-Type", "text/plain; charset=utf-8")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write([]byte(engine.FormatMetrics()))
}
