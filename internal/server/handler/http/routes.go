package http

import (
	"net/http"
	"time"

	"github.com/atinyakov/baristafolio/internal/middleware"
	"github.com/atinyakov/baristafolio/internal/models"
	"github.com/go-chi/chi/v5"
	chiMiddleware "github.com/go-chi/chi/v5/middleware"
	"github.com/go-chi/cors"
	"github.com/go-chi/httprate"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"go.uber.org/zap"
)

var (
	jsonOnly      = chiMiddleware.AllowContentType("application/json")
	multipartOnly = chiMiddleware.AllowContentType("multipart/form-data")
)

// Handlers groups everything NewRouter mounts.
type Handlers struct {
	Skills       *ContentHandler[models.Skill, models.SkillPatch]
	Courses      *ContentHandler[models.Course, models.CoursePatch]
	Career       *ContentHandler[models.Career, models.CareerPatch]
	Videos       *ContentHandler[models.Video, models.VideoPatch]
	Certificates *CertificateHandler
	Gallery      *GalleryHandler
	Messages     *MessageHandler
	Analytics    *AnalyticsHandler
	Auth         *AuthHandler
	Health       http.HandlerFunc
}

// RouterOptions tune cross-cutting behaviour of the router.
type RouterOptions struct {
	// AllowedOrigins are passed to CORS; empty allows none cross-origin.
	AllowedOrigins []string
	// ContactRateLimit is the number of contact submissions per client IP
	// per minute. Zero disables the limiter.
	ContactRateLimit int
	// TrustProxy takes the client IP from True-Client-IP, X-Real-IP or
	// X-Forwarded-For. Leave it off unless a proxy overwrites those headers,
	// otherwise any client can pick its own rate limit key.
	TrustProxy bool
}

// NewRouter constructs the portfolio API.
//
// Routes:
//
//	GET    /api/{skills,courses,career,videos,certificates,gallery}  public
//	POST   /api/messages                                             public, rate limited
//	POST   /api/auth/login, /api/auth/logout                         public
//	everything else under /api                                       session required
//	GET    /metrics, /healthz
//
// Middleware chain (applied in order): request id, real ip (only with
// TrustProxy), request logging, metrics, panic recovery, CORS.
func NewRouter(h Handlers, v middleware.SessionVerifier, opts RouterOptions, logger *zap.Logger) http.Handler {
	r := chi.NewRouter()

	r.Use(chiMiddleware.RequestID)
	if opts.TrustProxy {
		r.Use(chiMiddleware.RealIP)
	}
	r.Use(middleware.WithRequestLogging(logger))
	r.Use(middleware.Metrics)
	r.Use(chiMiddleware.Recoverer)
	r.Use(cors.Handler(cors.Options{
		AllowedOrigins:   opts.AllowedOrigins,
		AllowedMethods:   []string{"GET", "POST", "PUT", "DELETE", "OPTIONS"},
		AllowedHeaders:   []string{"Accept", "Authorization", "Content-Type"},
		AllowCredentials: true,
		MaxAge:           300,
	}))

	protect := middleware.RequireSession(v)

	r.Get("/healthz", h.Health)
	r.Handle("/metrics", promhttp.Handler())

	r.Route("/api", func(r chi.Router) {
		r.Route("/auth", func(r chi.Router) {
			r.With(jsonOnly).Post("/login", h.Auth.Login)
			r.Post("/logout", h.Auth.Logout)
			r.With(protect).Get("/session", h.Auth.Session)
		})
		r.With(protect, jsonOnly).Put("/admin/settings", h.Auth.UpdateSettings)

		r.Route("/skills", func(r chi.Router) { h.Skills.Mount(r, protect) })
		r.Route("/courses", func(r chi.Router) { h.Courses.Mount(r, protect) })
		r.Route("/career", func(r chi.Router) { h.Career.Mount(r, protect) })
		r.Route("/videos", func(r chi.Router) { h.Videos.Mount(r, protect) })

		r.Route("/certificates", func(r chi.Router) {
			r.Get("/", h.Certificates.List)
			r.Group(func(r chi.Router) {
				r.Use(protect)
				r.With(multipartOnly).Post("/", h.Certificates.Create)
				r.With(multipartOnly).Put("/{id}", h.Certificates.Update)
				r.Delete("/{id}", h.Certificates.Delete)
			})
		})

		r.Route("/gallery", func(r chi.Router) {
			r.Get("/", h.Gallery.List)
			r.Group(func(r chi.Router) {
				r.Use(protect)
				r.With(multipartOnly).Post("/", h.Gallery.Create)
				r.Delete("/{id}", h.Gallery.Delete)
			})
		})

		r.Route("/messages", func(r chi.Router) {
			submit := http.Handler(http.HandlerFunc(h.Messages.Submit))
			if opts.ContactRateLimit > 0 {
				// Keyed on RemoteAddr, which only RealIP may rewrite.
				submit = httprate.Limit(opts.ContactRateLimit, time.Minute,
					httprate.WithKeyFuncs(httprate.KeyByIP))(submit)
			}
			r.With(jsonOnly).Method(http.MethodPost, "/", submit)
			r.Group(func(r chi.Router) {
				r.Use(protect)
				r.Get("/", h.Messages.List)
				r.With(jsonOnly).Put("/{id}", h.Messages.Update)
				r.Delete("/{id}", h.Messages.Delete)
			})
		})

		r.With(protect).Get("/analytics", h.Analytics.Get)
	})

	return r
}
