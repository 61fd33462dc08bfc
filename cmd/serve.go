package main

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"os/signal"
	"strconv"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/google/uuid"
	"github.com/rotisserie/eris"
	"github.com/spf13/cobra"
	"go.uber.org/zap"

	"github.com/sells-group/pharma-intel/internal/model"
	"github.com/sells-group/pharma-intel/internal/resolver"
	"github.com/sells-group/pharma-intel/internal/store"
	"github.com/sells-group/pharma-intel/internal/synthetic"
)

var servePort int

var serveCmd = &cobra.Command{
	Use:   "serve",
	Short: "Start the research intelligence HTTP API",
	RunE: func(cmd *cobra.Command, args []string) error {
		ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
		defer stop()

		env, err := initReportEnv(ctx, "serve")
		if err != nil {
			return err
		}
		defer env.Close()

		port := servePort
		if port == 0 {
			port = cfg.Server.Port
		}

		srv := &http.Server{
			Addr:              fmt.Sprintf(":%d", port),
			Handler:           newRouter(env, cfg.Server.AllowedOrigins),
			ReadHeaderTimeout: 10 * time.Second,
		}

		// Graceful shutdown
		go func() {
			<-ctx.Done()
			zap.L().Info("shutting down server")
			srv.Shutdown(context.Background())
		}()

		zap.L().Info("starting server", zap.Int("port", port))
		if err := srv.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			return eris.Wrap(err, "server listen")
		}

		return nil
	},
}

// newRouter builds the API route tree. The trends generator is separate from
// the resolver's fallback generator so the data endpoint can serve the
// year-over-year trade view without touching resolution state.
func newRouter(env *reportEnv, allowedOrigins []string) http.Handler {
	s := &apiServer{env: env, gen: synthetic.New(nil)}

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins: allowedOrigins,
		AllowedMethods: []string{http.MethodGet, http.MethodPost, http.MethodOptions},
		AllowedHeaders: []string{"Accept", "Content-Type"},
	}))

	r.Get("/health", s.handleHealth)
	r.Route("/api", func(api chi.Router) {
		api.Get("/data/{category}", s.handleData)
		api.Post("/reports", s.handleCreateReport)
		api.Get("/reports", s.handleListReports)
		api.Get("/reports/{id}", s.handleGetReport)
		api.Get("/reports/{id}/download", s.handleDownloadReport)
		api.Post("/documents", s.handleUploadDocument)
		api.Get("/documents", s.handleSearchDocuments)
	})
	return r
}

type apiServer struct {
	env *reportEnv
	gen *synthetic.Generator
}

func (s *apiServer) handleHealth(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, map[string]string{"status": "ok"})
}

// dataResponse adds the year-over-year trend view to trade lookups; other
// categories carry the resolution result alone.
type dataResponse struct {
	model.ResolutionResult
	Trends []model.TradeTrend `json:"trends,omitempty"`
}

func (s *apiServer) handleData(w http.ResponseWriter, r *http.Request) {
	cat, err := model.ParseCategory(chi.URLParam(r, "category"))
	if err != nil {
		writeError(w, http.StatusNotFound, err.Error())
		return
	}

	q := r.URL.Query()
	f := synthetic.Filters{
		HSCode: q.Get("hs_code"),
		Phase:  q.Get("phase"),
		Status: q.Get("status"),
	}
	query := q.Get("q")
	if query == "" && f.HSCode == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}

	limit := 0
	if raw := q.Get("limit"); raw != "" {
		limit, err = strconv.Atoi(raw)
		if err != nil || limit < 0 {
			writeError(w, http.StatusBadRequest, "limit must be a non-negative integer")
			return
		}
	}

	resp := dataResponse{
		ResolutionResult: s.env.resolver.Resolve(r.Context(), resolver.Request{
			Category: cat,
			Query:    query,
			Limit:    limit,
			Filters:  f,
		}),
	}
	if resp.Err != "" {
		writeError(w, http.StatusBadGateway, resp.Err)
		return
	}
	if cat == model.CategoryTrade {
		resp.Trends = s.gen.TradeTrends(f.HSCode)
	}

	writeJSON(w, http.StatusOK, resp)
}

type createReportRequest struct {
	Query      string   `json:"query"`
	ReportType string   `json:"report_type"`
	Categories []string `json:"categories,omitempty"`
	Limit      int      `json:"limit,omitempty"`
	HSCode     string   `json:"hs_code,omitempty"`
	Phase      string   `json:"phase,omitempty"`
	Status     string   `json:"status,omitempty"`
}

func (s *apiServer) handleCreateReport(w http.ResponseWriter, r *http.Request) {
	var req createReportRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Query == "" {
		writeError(w, http.StatusBadRequest, "query is required")
		return
	}
	format, err := model.ParseFormat(req.ReportType)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	categories, err := parseCategories(req.Categories)
	if err != nil {
		writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	sections, _ := s.env.orchestrator.ResolveAll(r.Context(), req.Query, categories, req.Limit, synthetic.Filters{
		HSCode: req.HSCode,
		Phase:  req.Phase,
		Status: req.Status,
	})

	artifact, err := s.env.engine.Synthesize(req.Query, sections, format)
	if err != nil {
		writeError(w, http.StatusInternalServerError, err.Error())
		return
	}
	if err := s.env.store.SaveReport(r.Context(), artifact); err != nil {
		zap.L().Error("save report", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not persist report")
		return
	}

	writeJSON(w, http.StatusCreated, artifact)
}

func (s *apiServer) handleListReports(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()

	var format model.Format
	if raw := q.Get("report_type"); raw != "" {
		f, err := model.ParseFormat(raw)
		if err != nil {
			writeError(w, http.StatusBadRequest, err.Error())
			return
		}
		format = f
	}
	limit, _ := strconv.Atoi(q.Get("limit"))
	offset, _ := strconv.Atoi(q.Get("offset"))

	summaries, err := s.env.store.ListReports(r.Context(), store.ReportFilter{
		Query:  q.Get("query"),
		Format: format,
		Limit:  limit,
		Offset: offset,
	})
	if err != nil {
		zap.L().Error("list reports", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not list reports")
		return
	}
	if summaries == nil {
		summaries = []model.ReportSummary{}
	}

	writeJSON(w, http.StatusOK, summaries)
}

func (s *apiServer) handleGetReport(w http.ResponseWriter, r *http.Request) {
	artifact, err := s.env.store.GetReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if eris.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "report not found")
			return
		}
		zap.L().Error("get report", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load report")
		return
	}

	writeJSON(w, http.StatusOK, artifact)
}

func (s *apiServer) handleDownloadReport(w http.ResponseWriter, r *http.Request) {
	artifact, err := s.env.store.GetReport(r.Context(), chi.URLParam(r, "id"))
	if err != nil {
		if eris.Is(err, store.ErrNotFound) {
			writeError(w, http.StatusNotFound, "report not found")
			return
		}
		zap.L().Error("download report", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not load report")
		return
	}

	if err := s.env.store.IncrementDownloads(r.Context(), artifact.ID); err != nil {
		zap.L().Warn("increment downloads", zap.String("report_id", artifact.ID), zap.Error(err))
	}

	w.Header().Set("Content-Type", artifact.Format.ContentType())
	w.Header().Set("Content-Disposition",
		fmt.Sprintf("attachment; filename=%q", artifact.ID+artifact.Format.Extension()))
	w.WriteHeader(http.StatusOK)
	w.Write(artifact.Body)
}

type uploadDocumentRequest struct {
	DocID      string `json:"doc_id,omitempty"`
	Title      string `json:"title"`
	Content    string `json:"content"`
	UploadedBy string `json:"uploaded_by,omitempty"`
}

func (s *apiServer) handleUploadDocument(w http.ResponseWriter, r *http.Request) {
	var req uploadDocumentRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		writeError(w, http.StatusBadRequest, "invalid request body")
		return
	}
	if req.Title == "" || req.Content == "" {
		writeError(w, http.StatusBadRequest, "title and content are required")
		return
	}

	doc := model.InternalDoc{
		DocID:       req.DocID,
		Title:       req.Title,
		TextExcerpt: excerpt(req.Content),
		UploadedBy:  req.UploadedBy,
		UploadedAt:  time.Now().UTC().Format("2006-01-02"),
	}
	if doc.DocID == "" {
		doc.DocID = "DOC-" + uuid.New().String()
	}
	if doc.UploadedBy == "" {
		doc.UploadedBy = "api"
	}

	if err := s.env.store.UploadDocument(r.Context(), doc, req.Content); err != nil {
		zap.L().Error("upload document", zap.String("doc_id", doc.DocID), zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not store document")
		return
	}

	writeJSON(w, http.StatusCreated, doc)
}

func (s *apiServer) handleSearchDocuments(w http.ResponseWriter, r *http.Request) {
	q := r.URL.Query()
	term := q.Get("q")
	if term == "" {
		writeError(w, http.StatusBadRequest, "q is required")
		return
	}
	limit, _ := strconv.Atoi(q.Get("limit"))

	docs, err := s.env.store.SearchDocuments(r.Context(), term, limit)
	if err != nil {
		zap.L().Error("search documents", zap.Error(err))
		writeError(w, http.StatusInternalServerError, "could not search documents")
		return
	}
	if docs == nil {
		docs = []model.InternalDoc{}
	}

	writeJSON(w, http.StatusOK, docs)
}

func writeJSON(w http.ResponseWriter, status int, v any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(v); err != nil {
		zap.L().Warn("write response", zap.Error(err))
	}
}

func writeError(w http.ResponseWriter, status int, msg string) {
	writeJSON(w, status, map[string]string{"error": msg})
}

func init() {
	serveCmd.Flags().IntVar(&servePort, "port", 0, "server port (default from config)")
	rootCmd.AddCommand(serveCmd)
}
