package web

import (
	"context"
	"crypto/subtle"
	"errors"
	"net/http"
	"strings"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/google/uuid"
	"github.com/prometheus/client_golang/prometheus"
	"github.com/prometheus/client_golang/prometheus/promhttp"

	"github.com/dshills/intake/internal/field"
	"github.com/dshills/intake/internal/formspec"
	"github.com/dshills/intake/internal/logger"
	"github.com/dshills/intake/internal/store"
)

const visitorCookie = "intake_visitor"

// Store is the persistence the web server needs.
type Store interface {
	CreateApplicant(ctx context.Context, visitorID string) (*store.Applicant, error)
	ApplicantByVisitor(ctx context.Context, visitorID string) (*store.Applicant, error)
	LogEvent(ctx context.Context, applicantID int64, name string, data map[string]any) (*store.Event, error)
	CreateSubmission(ctx context.Context, sub *store.Submission) error
	GetSubmission(ctx context.Context, id int64) (*store.Submission, error)
	GetSubmissionByPublicID(ctx context.Context, publicID string) (*store.Submission, error)
	UpdateAnswers(ctx context.Context, submissionID int64, answers field.Answers) error
	SetApplicant(ctx context.Context, submissionID, applicantID int64) error
}

// Options configures a Server.
type Options struct {
	StaffToken string
	CacheTTL   time.Duration
}

// Server serves the applicant-facing forms and the staff API.
type Server struct {
	store      Store
	counties   *formspec.Selector
	display    *formspec.Selector
	orgs       *formspec.Selector
	staffToken string
	lggr       logger.Logger
	registry   *prometheus.Registry
	metrics    *metrics
	router     chi.Router
}

// New builds a Server and its routes.
func New(st Store, opts Options, lggr logger.Logger) *Server {
	reg := prometheus.NewRegistry()
	s := &Server{
		store:      st,
		counties:   formspec.NewCountySelector(opts.CacheTTL),
		display:    formspec.NewDisplaySelector(opts.CacheTTL),
		orgs:       formspec.NewOrganizationSelector(opts.CacheTTL),
		staffToken: opts.StaffToken,
		lggr:       lggr.Named("web"),
		registry:   reg,
		metrics:    newMetrics(reg),
	}
	s.router = s.routes()
	return s
}

// Handler returns the root HTTP handler.
func (s *Server) Handler() http.Handler { return s.router }

func (s *Server) routes() chi.Router {
	r := chi.NewRouter()
	r.Use(middleware.RequestID)
	r.Use(middleware.RealIP)
	r.Use(s.logRequests)
	r.Use(middleware.Recoverer)

	r.Get("/healthz", func(w http.ResponseWriter, _ *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("ok")); err != nil {
			s.lggr.Warnw("write error", "err", err)
		}
	})
	r.Get("/", s.selectCounty)
	r.Post("/apply", s.apply)
	r.Get("/application", s.application)
	r.Post("/application", s.submitApplication)
	r.Get("/application/{publicID}/declaration", s.declaration)
	r.Post("/application/{publicID}/declaration", s.submitDeclaration)
	r.Get("/thanks/{publicID}", s.thanks)

	r.Route("/api", func(r chi.Router) {
		r.Use(s.staffOnly)
		r.Get("/forms", s.apiForms)
		r.Get("/submissions/{id}", s.apiSubmission)
		r.Get("/submissions/{id}/display", s.apiSubmissionDisplay)
		r.Post("/submissions/{id}/declaration-review", s.apiDeclarationReview)
	})

	r.Method(http.MethodGet, "/metrics", promhttp.HandlerFor(s.registry, promhttp.HandlerOpts{}))
	return r
}

func (s *Server) logRequests(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		ww := middleware.NewWrapResponseWriter(w, r.ProtoMajor)
		start := time.Now()
		next.ServeHTTP(ww, r)

		route := chi.RouteContext(r.Context()).RoutePattern()
		if route == "" {
			route = "unmatched"
		}
		status := ww.Status()
		if status == 0 {
			status = http.StatusOK
		}
		s.metrics.observeRequest(r.Method, route, status)
		s.lggr.Debugw("request",
			"method", r.Method,
			"route", route,
			"status", status,
			"duration", time.Since(start),
			"request_id", middleware.GetReqID(r.Context()),
		)
	})
}

// staffOnly requires "Authorization: Bearer <staff token>". With no token
// configured every request is refused.
func (s *Server) staffOnly(next http.Handler) http.Handler {
	return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		token, ok := strings.CutPrefix(r.Header.Get("Authorization"), "Bearer ")
		if !ok || s.staffToken == "" ||
			subtle.ConstantTimeCompare([]byte(token), []byte(s.staffToken)) != 1 {
			writeJSON(w, http.StatusUnauthorized, map[string]string{"error": "unauthorized"})
			return
		}
		next.ServeHTTP(w, r)
	})
}

// visitorID returns the visitor's id from the cookie, issuing a new one when
// it is missing or malformed.
func visitorID(w http.ResponseWriter, r *http.Request) string {
	if c, err := r.Cookie(visitorCookie); err == nil {
		if id, err := uuid.Parse(c.Value); err == nil {
			return id.String()
		}
	}
	id := uuid.NewString()
	http.SetCookie(w, &http.Cookie{
		Name:     visitorCookie,
		Value:    id,
		Path:     "/",
		HttpOnly: true,
		SameSite: http.SameSiteLaxMode,
		MaxAge:   int((365 * 24 * time.Hour).Seconds()),
	})
	return id
}

// applicant returns the applicant for the current visitor, creating one on
// first contact.
func (s *Server) applicant(w http.ResponseWriter, r *http.Request) (*store.Applicant, error) {
	id := visitorID(w, r)
	a, err := s.store.ApplicantByVisitor(r.Context(), id)
	if errors.Is(err, store.ErrNotFound) {
		return s.store.CreateApplicant(r.Context(), id)
	}
	return a, err
}

// logEvent records an applicant event. Failures are logged, not returned:
// events never block an applicant.
func (s *Server) logEvent(ctx context.Context, applicantID int64, name string, data map[string]any) {
	if _, err := s.store.LogEvent(ctx, applicantID, name, data); err != nil {
		s.lggr.Errorw("logging event failed", "event", name, "applicant_id", applicantID, "err", err)
	}
}

func (s *Server) serverError(w http.ResponseWriter, r *http.Request, err error) {
	s.lggr.Errorw("request failed",
		"method", r.Method,
		"path", r.URL.Path,
		"request_id", middleware.GetReqID(r.Context()),
		"err", err,
	)
	http.Error(w, http.StatusText(http.StatusInternalServerError), http.StatusInternalServerError)
}
