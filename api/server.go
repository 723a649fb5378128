package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log"
	"net/http"
	"strings"
	"time"

	"doc-assistant/ingestion"
	"doc-assistant/knowledge"
	"doc-assistant/tools"
	"doc-assistant/vectordb"
)

// QueryProcessor routes free-form queries to a tool and runs it.
type QueryProcessor interface {
	Process(ctx context.Context, query string) tools.Outcome
}

// Ingestor loads documents into the vector store.
type Ingestor interface {
	ProcessDocuments(ctx context.Context, paths []string) (ingestion.Report, error)
}

// Store is the slice of the vector store the server manages directly.
type Store interface {
	Stats(ctx context.Context) (vectordb.Stats, error)
	Reset(ctx context.Context) error
}

// Graph is the optional issue graph. A nil Graph disables summary
// recording and the component endpoint.
type Graph interface {
	RecordSummary(ctx context.Context, summary tools.IssueSummary) (string, error)
	ComponentInsights(ctx context.Context) ([]knowledge.ComponentInsight, error)
}

// Server exposes HTTP handlers for the assistant workflows.
type Server struct {
	qa       tools.Answerer
	issues   tools.Summarizer
	router   QueryProcessor
	ingestor Ingestor
	store    Store
	graph    Graph
	jobs     *jobTracker
	logger   *log.Logger
	handler  http.Handler
}

type messageResponse struct {
	Message string `json:"message"`
}

type errorResponse struct {
	Error string `json:"error"`
}

type statusResponse struct {
	Status string `json:"status"`
}

type rootResponse struct {
	Message string `json:"message"`
	Version string `json:"version"`
}

type qaRequest struct {
	Query string `json:"query"`
}

type summaryRequest struct {
	IssueText string `json:"issue_text"`
}

type queryRequest struct {
	Query string `json:"query"`
}

type ingestRequest struct {
	Docs []string `json:"docs"`
}

type ingestResponse struct {
	JobID   string `json:"job_id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type resetRequest struct {
	Confirm bool `json:"confirm"`
}

type componentsResponse struct {
	Components []knowledge.ComponentInsight `json:"components"`
}

// New constructs a Server around already-wired components. graph may be
// nil when Neo4j is not configured.
func New(qa tools.Answerer, issues tools.Summarizer, router QueryProcessor, ingestor Ingestor, store Store, graph Graph, logger *log.Logger) *Server {
	if logger == nil {
		logger = log.Default()
	}

	s := &Server{
		qa:       qa,
		issues:   issues,
		router:   router,
		ingestor: ingestor,
		store:    store,
		graph:    graph,
		jobs:     newJobTracker(),
		logger:   logger,
	}
	s.handler = s.routes()
	return s
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.handler.ServeHTTP(w, r)
}

func (s *Server) Handler() http.Handler {
	return s.handler
}

func (s *Server) routes() http.Handler {
	mux := http.NewServeMux()
	mux.HandleFunc("/", s.handleRoot)
	mux.HandleFunc("/healthz", s.handleHealth)
	mux.HandleFunc("/api/v1/qa", s.handleQA)
	mux.HandleFunc("/api/v1/summarize", s.handleSummarize)
	mux.HandleFunc("/api/v1/query", s.handleQuery)
	mux.HandleFunc("/api/v1/ingest", s.handleIngest)
	mux.HandleFunc("/api/v1/jobs/", s.handleJob)
	mux.HandleFunc("/api/v1/stats", s.handleStats)
	mux.HandleFunc("/api/v1/reset", s.handleReset)
	mux.HandleFunc("/api/v1/components", s.handleComponents)
	return mux
}

func (s *Server) handleRoot(w http.ResponseWriter, r *http.Request) {
	if r.URL.Path != "/" {
		http.NotFound(w, r)
		return
	}
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, http.MethodGet)
		return
	}

	s.writeJSON(w, http.StatusOK, rootResponse{
		Message: "Internal AI Assistant API",
		Version: "1.0.0",
	})
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, http.MethodGet)
		return
	}

	s.writeJSON(w, http.StatusOK, statusResponse{Status: "ok"})
}

func (s *Server) handleQA(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, http.MethodPost)
		return
	}

	var req qaRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("query is required"))
		return
	}

	s.writeJSON(w, http.StatusOK, s.qa.Answer(r.Context(), req.Query))
}

func (s *Server) handleSummarize(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, http.MethodPost)
		return
	}

	var req summaryRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	req.IssueText = strings.TrimSpace(req.IssueText)
	if req.IssueText == "" {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("issue_text is required"))
		return
	}

	summary := s.issues.Summarize(r.Context(), req.IssueText)

	if s.graph != nil {
		go s.recordSummary(summary)
	}

	s.writeJSON(w, http.StatusOK, summary)
}

// recordSummary writes a summary to the issue graph off the request
// path. The response has already been sent, so failures only log.
func (s *Server) recordSummary(summary tools.IssueSummary) {
	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer cancel()

	if _, err := s.graph.RecordSummary(ctx, summary); err != nil {
		s.logger.Printf("record issue summary: %v", err)
	}
}

func (s *Server) handleQuery(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, http.MethodPost)
		return
	}

	var req queryRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	req.Query = strings.TrimSpace(req.Query)
	if req.Query == "" {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("query is required"))
		return
	}

	s.writeJSON(w, http.StatusOK, s.router.Process(r.Context(), req.Query))
}

func (s *Server) handleIngest(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, http.MethodPost)
		return
	}

	var req ingestRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	if len(req.Docs) == 0 {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("docs is required"))
		return
	}

	job := s.jobs.create(req.Docs)
	go s.runIngestJob(job.ID, req.Docs)

	s.writeJSON(w, http.StatusAccepted, ingestResponse{
		JobID:   job.ID,
		Status:  job.Status,
		Message: fmt.Sprintf("Scheduled ingestion of %d documents", len(req.Docs)),
	})
}

func (s *Server) runIngestJob(id string, docs []string) {
	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Minute)
	defer cancel()

	report, err := s.ingestor.ProcessDocuments(ctx, docs)
	if err != nil {
		s.logger.Printf("ingest job %s failed: %v", id, err)
	}
	s.jobs.finish(id, &report, err)
}

func (s *Server) handleJob(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, http.MethodGet)
		return
	}

	id := strings.TrimPrefix(r.URL.Path, "/api/v1/jobs/")
	if id == "" || strings.Contains(id, "/") {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("job not found"))
		return
	}

	job, ok := s.jobs.get(id)
	if !ok {
		s.writeError(w, http.StatusNotFound, fmt.Errorf("job not found"))
		return
	}

	s.writeJSON(w, http.StatusOK, job)
}

func (s *Server) handleStats(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, http.MethodGet)
		return
	}

	stats, err := s.store.Stats(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Errorf("read index stats: %w", err))
		return
	}

	s.writeJSON(w, http.StatusOK, stats)
}

func (s *Server) handleReset(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodPost {
		s.methodNotAllowed(w, http.MethodPost)
		return
	}

	var req resetRequest
	if err := decodeJSON(r, &req); err != nil {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("decode request: %w", err))
		return
	}

	if !req.Confirm {
		s.writeError(w, http.StatusBadRequest, fmt.Errorf("confirm must be true to reset the index"))
		return
	}

	if err := s.store.Reset(r.Context()); err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Errorf("reset index: %w", err))
		return
	}

	s.writeJSON(w, http.StatusOK, messageResponse{Message: "index reset"})
}

func (s *Server) handleComponents(w http.ResponseWriter, r *http.Request) {
	if r.Method != http.MethodGet {
		s.methodNotAllowed(w, http.MethodGet)
		return
	}

	if s.graph == nil {
		s.writeError(w, http.StatusServiceUnavailable, fmt.Errorf("graph store not configured"))
		return
	}

	insights, err := s.graph.ComponentInsights(r.Context())
	if err != nil {
		s.writeError(w, http.StatusInternalServerError, fmt.Errorf("query component insights: %w", err))
		return
	}

	s.writeJSON(w, http.StatusOK, componentsResponse{Components: insights})
}

func (s *Server) methodNotAllowed(w http.ResponseWriter, allowed string) {
	w.Header().Set("Allow", allowed)
	s.writeError(w, http.StatusMethodNotAllowed, fmt.Errorf("method not allowed, use %s", allowed))
}

func (s *Server) writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.logger.Printf("encode response: %v", err)
	}
}

func (s *Server) writeError(w http.ResponseWriter, status int, err error) {
	s.logger.Printf("api error (%d): %v", status, err)
	s.writeJSON(w, status, errorResponse{Error: err.Error()})
}

func decodeJSON(r *http.Request, dst any) error {
	if r.Body == nil {
		return nil
	}
	defer r.Body.Close()

	dec := json.NewDecoder(r.Body)
	dec.DisallowUnknownFields()
	if err := dec.Decode(dst); err != nil {
		if err == io.EOF {
			return nil
		}
		return err
	}

	if dec.More() {
		return fmt.Errorf("request body must contain a single JSON object")
	}

	return nil
}
