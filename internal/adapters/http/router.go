package httpadapter

import (
	"encoding/json"
	"net/http"
	"strings"

	"github.com/enterpriseai/knowledge-retrieval/internal/config"
	"github.com/enterpriseai/knowledge-retrieval/internal/core/domain"
	"github.com/enterpriseai/knowledge-retrieval/internal/core/ports"
)

type Router struct {
	cfg       config.Config
	ingestor  ports.KnowledgeIngestor
	querier   ports.KnowledgeQueryService
	analytics ports.AnalyticsReader
	metrics   http.Handler
}

func NewRouter(
	cfg config.Config,
	ingestor ports.KnowledgeIngestor,
	querier ports.KnowledgeQueryService,
	analytics ports.AnalyticsReader,
	metricsHandler http.Handler,
) *Router {
	return &Router{
		cfg:       cfg,
		ingestor:  ingestor,
		querier:   querier,
		analytics: analytics,
		metrics:   metricsHandler,
	}
}

func (rt *Router) Handler() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/healthz", rt.healthz)
	mux.HandleFunc("/v1/documents", rt.ingestDocument)
	mux.HandleFunc("/v1/query", rt.queryKnowledgeBase)
	mux.HandleFunc("/v1/analytics", rt.systemAnalytics)
	if rt.metrics != nil {
		mux.Handle("/metrics", rt.metrics)
	}

	handler := rateLimitMiddleware(mux, rt.cfg.APIRateLimitRPS, rt.cfg.APIRateLimitBurst)
	handler = accessLogMiddleware(handler)
	return requestIDMiddleware(handler)
}

func (rt *Router) healthz(w http.ResponseWriter, _ *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

func (rt *Router) ingestDocument(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var req struct {
		Content      string         `json:"content"`
		Metadata     map[string]any `json:"metadata"`
		DocumentType string         `json:"document_type"`
	}
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(req.Content) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "content is required"})
		return
	}

	result, err := rt.ingestor.IngestDocument(r.Context(), req.Content, req.Metadata, req.DocumentType)
	if err != nil {
		writeJSON(w, statusForError(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, result)
}

func (rt *Router) queryKnowledgeBase(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	var query domain.RetrievalQuery
	if err := json.NewDecoder(r.Body).Decode(&query); err != nil {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "invalid json"})
		return
	}
	if strings.TrimSpace(query.Text) == "" {
		writeJSON(w, http.StatusBadRequest, map[string]string{"error": "text is required"})
		return
	}

	response, err := rt.querier.QueryKnowledgeBase(r.Context(), query)
	if err != nil {
		writeJSON(w, statusForError(err), map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, response)
}

func (rt *Router) systemAnalytics(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		writeJSON(w, http.StatusMethodNotAllowed, map[string]string{"error": "method not allowed"})
		return
	}

	analytics, err := rt.analytics.SystemAnalytics(r.Context())
	if err != nil {
		writeJSON(w, http.StatusInternalServerError, map[string]string{"error": err.Error()})
		return
	}
	writeJSON(w, http.StatusOK, analytics)
}

func statusForError(err error) int {
	switch {
	case domain.IsKind(err, domain.ErrInvalidInput):
		return http.StatusBadRequest
	case domain.IsKind(err, domain.ErrProviderUnavailable):
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}
