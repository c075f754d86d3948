package http

import (
	"database/sql"
	"net/http"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"

	"github.com/mind-engage/examprep/internal/auth"
	authmw "github.com/mind-engage/examprep/internal/auth/middleware"
	"github.com/mind-engage/examprep/internal/history"
	"github.com/mind-engage/examprep/internal/logger"
	"github.com/mind-engage/examprep/internal/rbac"
)

type RouterConfig struct {
	Auth      *authmw.AuthService
	DB        *sql.DB // users table; nil disables login, guest and DB roles
	Catalog   QuestionCatalog
	Evaluator Evaluator
	History   history.Store
	Log       logger.Logger

	CORSOrigins     []string
	EnableLocalAuth bool
	EnableGuestAuth bool
	// RequestTimeout bounds every request, including the marking call.
	RequestTimeout time.Duration
	AccessLog      bool
}

func NewRouter(c RouterConfig) http.Handler {
	if c.RequestTimeout == 0 {
		c.RequestTimeout = 90 * time.Second
	}

	r := chi.NewRouter()
	r.Use(middleware.RequestID, middleware.RealIP)
	if c.AccessLog {
		r.Use(middleware.Logger)
	}
	r.Use(middleware.Recoverer)
	r.Use(middleware.Timeout(c.RequestTimeout))
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   c.CORSOrigins,
		AllowedMethods:   []string{"GET", "POST", "OPTIONS"},
		AllowedHeaders:   []string{"Authorization", "Content-Type"},
		ExposedHeaders:   []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	r.Get("/healthz", func(w http.ResponseWriter, r *http.Request) { w.WriteHeader(http.StatusOK) })
	r.Get("/readyz", readyHandler(c.DB))

	if c.DB != nil && c.EnableLocalAuth {
		r.Post("/auth/login", authmw.LoginHandler(c.Auth, c.DB))
	}
	if c.DB != nil && c.EnableGuestAuth {
		r.Post("/auth/guest", auth.GuestLoginHandler(c.Auth, c.DB))
	}

	// Protected API (JWT → role in context → RBAC)
	r.Group(func(pr chi.Router) {
		pr.Use(authmw.JWTMiddleware(c.Auth))
		if c.DB != nil {
			pr.Use(authmw.AttachRoleFromDB(c.DB, false))
		}

		pr.With(rbac.Require(rbac.PermQuestionsView)).
			Get("/question-types", ListQuestionTypesHandler(c.Catalog))
		pr.With(rbac.Require(rbac.PermQuestionsView)).
			Get("/question-types/{id}", GetQuestionTypeHandler(c.Catalog))

		pr.With(rbac.Require(rbac.PermEvaluationCreate)).
			Post("/evaluate", EvaluateHandler(c.Evaluator, c.History, c.Log))

		if c.History != nil {
			pr.With(rbac.RequireAny(rbac.PermEvaluationViewOwn, rbac.PermEvaluationViewAll)).
				Get("/evaluations", ListEvaluationsHandler(c.History))
			pr.With(rbac.RequireAny(rbac.PermEvaluationViewOwn, rbac.PermEvaluationViewAll)).
				Get("/evaluations/{id}", GetEvaluationHandler(c.History))
			pr.With(rbac.RequireAny(rbac.PermAnalyticsViewOwn, rbac.PermAnalyticsViewAll)).
				Get("/analytics/summary", AnalyticsSummaryHandler(c.History))
		}
	})
	return r
}

func readyHandler(db *sql.DB) http.HandlerFunc {
	return func(w http.ResponseWriter, r *http.Request) {
		if db != nil {
			if err := db.PingContext(r.Context()); err != nil {
				writeError(w, http.StatusServiceUnavailable, "not_ready", "database unavailable")
				return
			}
		}
		w.WriteHeader(http.StatusOK)
	}
}
