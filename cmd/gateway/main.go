// Package main is the entrypoint for the admin gateway: one process
// serving the compiled admin SPA, proxying CV traffic to the backend,
// and mediating the admin API.
package main

import (
	"context"
	"log/slog"
	"net/url"
	"os"
	"strings"

	"github.com/go-chi/chi/v5"
	chimiddleware "github.com/go-chi/chi/v5/middleware"

	"github.com/fapmendoza/admin-gateway/internal/auth"
	"github.com/fapmendoza/admin-gateway/internal/backend"
	"github.com/fapmendoza/admin-gateway/internal/config"
	"github.com/fapmendoza/admin-gateway/internal/handler"
	"github.com/fapmendoza/admin-gateway/internal/kvstore"
	"github.com/fapmendoza/admin-gateway/internal/metrics"
	"github.com/fapmendoza/admin-gateway/internal/middleware"
	"github.com/fapmendoza/admin-gateway/internal/proxy"
	"github.com/fapmendoza/admin-gateway/internal/server"
	"github.com/fapmendoza/admin-gateway/internal/workflow"
)

func main() {
	ctx := context.Background()

	cfg, err := config.Load()
	if err != nil {
		slog.Error("failed to load config", "error", err)
		os.Exit(1)
	}

	logger := initLogger(cfg)

	// Session store: Redis when configured, in-memory otherwise.
	var store kvstore.Store
	if cfg.RedisURL != "" {
		redisStore, err := kvstore.NewRedis(ctx, cfg.RedisURL, cfg.SessionTTL)
		if err != nil {
			logger.Error("failed to connect to Redis",
				slog.String("error", sanitizeError(err, cfg.RedisURL)),
				slog.String("redis_url", redactURL(cfg.RedisURL)),
			)
			os.Exit(1)
		}
		store = redisStore
		logger.Info("connected to Redis session store")
	} else {
		store = kvstore.NewMemory()
		logger.Warn("REDIS_URL not set, using in-memory session store")
	}
	defer store.Close()

	client := backend.New(cfg.APIURL, cfg.BackendTimeout)
	gate := auth.NewGate(cfg.AuthJWTKey, cfg.AuthLegacyPlaceholder)
	submitter := workflow.NewSubmitter()
	notifier := workflow.NewNotifier()
	recorder := metrics.NewInMemory()

	forwarder, err := proxy.NewForwarder(cfg.ProxyPrefix, cfg.APIURL, logger, recorder)
	if err != nil {
		logger.Error("failed to build proxy", "error", err)
		os.Exit(1)
	}

	h := handler.New()
	healthHandler := handler.NewHealthHandler(store)
	sessionHandler := handler.NewSessionHandler(store, gate, cfg.SessionTTL, cfg.IsProduction(), logger)
	uploadHandler := handler.NewUploadHandler(client, store, submitter, notifier, cfg.ResultRetention, cfg.LoginPath, logger, recorder)
	jobHandler := handler.NewJobHandler(client, store, submitter, notifier, cfg.LoginPath, logger)
	emailHandler := handler.NewEmailHandler(client, store, submitter, notifier, cfg.LoginPath, logger)
	trainingHandler := handler.NewTrainingHandler(client, store, submitter, notifier, cfg.LoginPath, logger)
	adminHandler := handler.NewAdminHandler(client, store, submitter, notifier, cfg.LoginPath, logger)
	prefsHandler := handler.NewPrefsHandler(store, logger)
	notificationHandler := handler.NewNotificationHandler(notifier)

	r := setupRouter(routerDeps{
		base:         h,
		health:       healthHandler,
		session:      sessionHandler,
		upload:       uploadHandler,
		job:          jobHandler,
		email:        emailHandler,
		training:     trainingHandler,
		admin:        adminHandler,
		prefs:        prefsHandler,
		notification: notificationHandler,
		forwarder:    forwarder,
		static:       proxy.NewSPAHandler(cfg.StaticDir),
		store:        store,
		gate:         gate,
		recorder:     recorder,
		cfg:          cfg,
		logger:       logger,
	})

	srv := server.New(r, server.Options{
		Port:            cfg.Port,
		ReadTimeout:     cfg.ReadTimeout,
		WriteTimeout:    cfg.WriteTimeout,
		IdleTimeout:     cfg.IdleTimeout,
		ShutdownTimeout: cfg.ShutdownTimeout,
	}, logger)

	srv.OnShutdown("session store", func(ctx context.Context) error {
		return store.Close()
	})

	logger.Info("starting gateway",
		"port", cfg.Port,
		"backend", cfg.APIURL,
		"proxy_prefix", cfg.ProxyPrefix,
		"static_dir", cfg.StaticDir,
		"env", cfg.AppEnv,
	)

	if err := srv.Run(); err != nil {
		logger.Error("server error", "error", err)
		os.Exit(1)
	}
}

// routerDeps bundles everything setupRouter wires together.
type routerDeps struct {
	base         *handler.Handler
	health       *handler.HealthHandler
	session      *handler.SessionHandler
	upload       *handler.UploadHandler
	job          *handler.JobHandler
	email        *handler.EmailHandler
	training     *handler.TrainingHandler
	admin        *handler.AdminHandler
	prefs        *handler.PrefsHandler
	notification *handler.NotificationHandler
	forwarder    *proxy.Forwarder
	static       *proxy.SPAHandler
	store        kvstore.Store
	gate         *auth.Gate
	recorder     metrics.Recorder
	cfg          *config.Config
	logger       *slog.Logger
}

// setupRouter configures the chi router: the admin API subtree behind
// the auth gate, the CV proxy, and the SPA catch-all.
func setupRouter(d routerDeps) *chi.Mux {
	r := chi.NewRouter()

	// Global middleware
	r.Use(chimiddleware.RealIP)
	r.Use(middleware.RequestID)
	r.Use(middleware.Logger(d.logger))
	r.Use(middleware.Recoverer(d.logger))

	corsCfg := middleware.DefaultCORSConfig()
	corsCfg.AllowedOrigins = d.cfg.GetCORSAllowedOrigins()
	r.Use(middleware.CORS(corsCfg))

	// Health endpoints (no auth required)
	r.Get("/healthz", d.health.Healthz)
	r.Get("/readyz", d.health.Readyz)

	authCfg := middleware.AuthConfig{
		Logger:    d.logger,
		Store:     d.store,
		Gate:      d.gate,
		LoginPath: d.cfg.LoginPath,
		Metrics:   d.recorder,
	}

	r.Route("/admin/api", func(r chi.Router) {
		r.Use(middleware.Security(middleware.SecurityConfig{
			IsDevelopment: d.cfg.IsDevelopment(),
		}))

		// Login hands over the backend token; it runs before a session
		// exists, so it sits outside the gate.
		r.Post("/session", d.session.Create)

		r.Group(func(r chi.Router) {
			r.Use(middleware.Auth(authCfg))

			r.Get("/session", d.session.Current)
			r.Delete("/session", d.session.Delete)

			r.Route("/uploads", func(r chi.Router) {
				r.With(middleware.MaxBodySize(d.cfg.MaxUploadSize)).Post("/cv", d.upload.Submit)
				r.Get("/last", d.upload.LastResults)
				r.Delete("/last", d.upload.ClearResults)
				r.Get("/progress", d.upload.Progress)
			})

			r.Route("/jobs", func(r chi.Router) {
				r.Get("/", d.job.List)
				r.Post("/", d.job.Create)
				r.Put("/{id}", d.job.Update)
				r.Delete("/{id}", d.job.Delete)
			})

			r.Route("/emails", func(r chi.Router) {
				r.Get("/", d.email.List)
				r.Post("/", d.email.Create)
				r.Put("/{id}", d.email.Update)
				r.Delete("/{id}", d.email.Delete)
			})

			r.Route("/training", func(r chi.Router) {
				r.Get("/courses", d.training.ListCourses)
				r.Post("/courses", d.training.CreateCourse)
				r.Put("/courses/{id}", d.training.UpdateCourse)
				r.Delete("/courses/{id}", d.training.DeleteCourse)
				r.Post("/courses/{id}/lessons", d.training.CreateLesson)
				r.Put("/lessons/{id}", d.training.UpdateLesson)
				r.Delete("/lessons/{id}", d.training.DeleteLesson)
			})

			r.Get("/config", d.admin.GetConfig)
			r.Post("/config", d.admin.SetConfig)
			r.Get("/matchings", d.admin.Matchings)
			r.Get("/proposals", d.admin.Proposals)
			r.Patch("/proposals/{id}/send", d.admin.SendProposal)

			r.Get("/prefs", d.prefs.Get)
			r.Put("/prefs", d.prefs.Update)

			r.Get("/notification", d.notification.Current)
			r.Delete("/notification", d.notification.Dismiss)
		})

		r.NotFound(d.base.NotFound)
		r.MethodNotAllowed(d.base.MethodNotAllowed)
	})

	// CV traffic goes straight through to the backend.
	r.Handle(d.cfg.ProxyPrefix, d.forwarder)
	r.Handle(d.cfg.ProxyPrefix+"/*", d.forwarder)

	// Everything else is the SPA: real files as-is, unknown paths get
	// index.html so client-side routing works on hard refresh.
	r.NotFound(d.static.ServeHTTP)

	return r
}

// initLogger initializes the slog logger based on configuration.
func initLogger(cfg *config.Config) *slog.Logger {
	var h slog.Handler

	opts := &slog.HandlerOptions{
		Level: parseLogLevel(cfg.LogLevel),
	}

	if cfg.LogFormat == "json" {
		h = slog.NewJSONHandler(os.Stdout, opts)
	} else {
		h = slog.NewTextHandler(os.Stdout, opts)
	}

	logger := slog.New(h)
	slog.SetDefault(logger)

	return logger
}

// parseLogLevel converts string log level to slog.Level.
func parseLogLevel(level string) slog.Level {
	switch level {
	case "debug":
		return slog.LevelDebug
	case "info":
		return slog.LevelInfo
	case "warn":
		return slog.LevelWarn
	case "error":
		return slog.LevelError
	default:
		return slog.LevelInfo
	}
}

func redactURL(raw string) string {
	if raw == "" {
		return ""
	}

	parsed, err := url.Parse(raw)
	if err != nil {
		return "[redacted]"
	}

	if parsed.User != nil {
		if username := parsed.User.Username(); username == "" {
			parsed.User = url.User("redacted")
		} else {
			parsed.User = url.User(username)
		}
	}

	return parsed.String()
}

func sanitizeError(err error, secrets ...string) string {
	if err == nil {
		return ""
	}

	msg := err.Error()
	for _, secret := range secrets {
		if secret == "" {
			continue
		}
		redacted := redactURL(secret)
		if redacted == "" {
			redacted = "[redacted]"
		}
		msg = strings.ReplaceAll(msg, secret, redacted)
	}

	return msg
}
