package web

import (
	"context"
	"embed"
	"encoding/json"
	"fmt"
	"html/template"
	"log/slog"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"

	"newsbrief/internal/digest"
	"newsbrief/internal/markdown"
)

const (
	topicPlaceholder = "cricket match results"
	failureText      = "Something went wrong while fetching the news. Please try again."
)

//go:embed templates/*.html
var templatesFS embed.FS

type Controller interface {
	Submit(ctx context.Context, topic string) (digest.Page, error)
	EmptyPage() digest.Page
}

type Server struct {
	controller Controller
	tmpl       *template.Template
	router     chi.Router
	log        *slog.Logger
}

type sectionView struct {
	digest.Section
	SummaryHTML template.HTML
}

type pageView struct {
	digest.Page
	Sections    []sectionView
	Placeholder string
	Failure     string
}

type errorResponse struct {
	Error string `json:"error"`
}

func New(controller Controller, log *slog.Logger) (*Server, error) {
	tmpl, err := template.ParseFS(templatesFS, "templates/page.html")
	if err != nil {
		return nil, fmt.Errorf("parse templates: %w", err)
	}

	s := &Server{
		controller: controller,
		tmpl:       tmpl,
		log:        log,
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(requestLogger(log))
	r.Use(middleware.Recoverer)

	r.Get("/", s.handleIndex)
	r.Post("/", s.handleSubmit)
	r.Get("/api/summaries", s.handleAPISummaries)
	r.Get("/health", s.handleHealth)

	s.router = r

	return s, nil
}

func (s *Server) Handler() http.Handler {
	return s.router
}

func (s *Server) handleIndex(w http.ResponseWriter, r *http.Request) {
	s.renderPage(w, r, http.StatusOK, s.controller.EmptyPage(), "")
}

func (s *Server) handleSubmit(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()

	if err := r.ParseForm(); err != nil {
		s.log.WarnContext(ctx, "Failed to parse form",
			"error", err,
			"requestID", middleware.GetReqID(ctx))

		s.renderPage(w, r, http.StatusBadRequest, s.controller.EmptyPage(), "Invalid form submission.")

		return
	}

	topic := r.PostForm.Get("topic")

	page, err := s.controller.Submit(ctx, topic)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to submit topic",
			"error", err,
			"topic", topic,
			"requestID", middleware.GetReqID(ctx))

		s.renderPage(w, r, http.StatusBadGateway, page, failureText)

		return
	}

	s.renderPage(w, r, http.StatusOK, page, "")
}

func (s *Server) handleAPISummaries(w http.ResponseWriter, r *http.Request) {
	ctx := r.Context()
	topic := r.URL.Query().Get("topic")

	page, err := s.controller.Submit(ctx, topic)
	if err != nil {
		s.log.ErrorContext(ctx, "Failed to submit topic",
			"error", err,
			"topic", topic,
			"requestID", middleware.GetReqID(ctx))

		s.writeJSON(w, r, http.StatusBadGateway, errorResponse{Error: err.Error()})

		return
	}

	status := http.StatusOK
	if page.HasLevel(digest.LevelError) {
		status = http.StatusBadRequest
	}

	s.writeJSON(w, r, status, page)
}

func (s *Server) handleHealth(w http.ResponseWriter, r *http.Request) {
	s.writeJSON(w, r, http.StatusOK, map[string]string{"status": "ok"})
}

func (s *Server) renderPage(
	w http.ResponseWriter,
	r *http.Request,
	status int,
	page digest.Page,
	failure string,
) {
	ctx := r.Context()

	view := pageView{
		Page:        page,
		Sections:    make([]sectionView, 0, len(page.Sections)),
		Placeholder: topicPlaceholder,
		Failure:     failure,
	}

	for _, section := range page.Sections {
		summaryHTML, err := markdown.ToHTML(section.Summary)
		if err != nil {
			s.log.WarnContext(ctx, "Failed to render summary markdown",
				"error", err,
				"index", section.Index)

			summaryHTML = template.HTML("<p>" + template.HTMLEscapeString(section.Summary) + "</p>") //nolint:gosec // escaped
		}

		view.Sections = append(view.Sections, sectionView{
			Section:     section,
			SummaryHTML: summaryHTML,
		})
	}

	w.Header().Set("Content-Type", "text/html; charset=utf-8")
	w.WriteHeader(status)

	if err := s.tmpl.ExecuteTemplate(w, "page.html", view); err != nil {
		s.log.ErrorContext(ctx, "Failed to render page",
			"error", err,
			"requestID", middleware.GetReqID(ctx))
	}
}

func (s *Server) writeJSON(w http.ResponseWriter, r *http.Request, status int, payload any) {
	ctx := r.Context()

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(payload); err != nil {
		s.log.ErrorContext(ctx, "Failed to encode response",
			"error", err,
			"status", status,
			"requestID", middleware.GetReqID(ctx))
	}
}
