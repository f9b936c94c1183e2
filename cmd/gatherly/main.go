// Copyright (c) 2026 Gatherly Authors
// SPDX-License-Identifier: GPL-3.0-or-later

package main

import (
	"context"
	"database/sql"
	"errors"
	"flag"
	"fmt"
	"io/fs"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"github.com/joho/godotenv"

	"gatherly/internal/config"
	"gatherly/internal/handler"
	"gatherly/internal/logging"
	"gatherly/internal/middleware"
	"gatherly/internal/render"
	"gatherly/internal/scheduler"
	"gatherly/internal/session"
	"gatherly/internal/store"
	"gatherly/web"
)

// Version information - injected at build time via ldflags
var (
	appVersion   = "dev"
	appGitCommit = "unknown"
	appBuildTime = "unknown"
)

func main() {
	showVersion := flag.Bool("version", false, "Show version information")
	flag.BoolVar(showVersion, "v", false, "Show version information (shorthand)")
	showHelp := flag.Bool("help", false, "Show help information")
	flag.BoolVar(showHelp, "h", false, "Show help information (shorthand)")

	flag.Usage = func() {
		_, _ = fmt.Fprintf(os.Stderr, "Gatherly - event management\n\n")
		_, _ = fmt.Fprintf(os.Stderr, "Usage: %s [options]\n\n", os.Args[0])
		_, _ = fmt.Fprintf(os.Stderr, "Options:\n")
		flag.PrintDefaults()
		_, _ = fmt.Fprintf(os.Stderr, "\nEnvironment Variables:\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GATHERLY_SESSION_SECRET    Session encryption key (required, min 32 bytes)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GATHERLY_DB_PATH           SQLite database path (default: ./data/gatherly.db)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GATHERLY_SERVER_PORT      Server port (default: 8080)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GATHERLY_ENV              Environment: development|production (default: development)\n")
		_, _ = fmt.Fprintf(os.Stderr, "  GATHERLY_DO_SEED          Seed demo data on startup (default: false)\n")
	}

	flag.Parse()

	if *showHelp {
		flag.Usage()
		os.Exit(0)
	}

	if *showVersion {
		_, _ = fmt.Printf("gatherly %s (commit: %s, built: %s)\n", appVersion, appGitCommit, appBuildTime)
		os.Exit(0)
	}

	if err := run(); err != nil {
		slog.Error("application error", "error", err)
		os.Exit(1)
	}
}

func run() error {
	// Load .env file if present (development)
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	logLevel := slog.LevelInfo
	switch cfg.LogLevel {
	case "debug":
		logLevel = slog.LevelDebug
	case "warn":
		logLevel = slog.LevelWarn
	case "error":
		logLevel = slog.LevelError
	}

	logger := slog.New(slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{
		Level: logLevel,
	}))
	slog.SetDefault(logger)

	// Ensure data directory exists
	dbDir := filepath.Dir(cfg.DBPath)
	if err := os.MkdirAll(dbDir, 0755); err != nil {
		return fmt.Errorf("creating data directory: %w", err)
	}

	slog.Info("initializing database", "path", cfg.DBPath)
	db, err := store.NewDB(cfg.DBPath)
	if err != nil {
		return fmt.Errorf("initializing database: %w", err)
	}
	defer func(db *sql.DB) {
		if err := db.Close(); err != nil {
			slog.Error("error closing database connection", "error", err)
		}
	}(db)

	slog.Info("running database migrations")
	if err := store.Migrate(db); err != nil {
		return fmt.Errorf("running migrations: %w", err)
	}
	slog.Info("database ready")

	// Upgrade logger to also write WARN and ERROR logs to the audit log
	textHandler := slog.NewTextHandler(os.Stdout, &slog.HandlerOptions{Level: logLevel})
	logger = slog.New(logging.NewAuditLogHandler(textHandler, db))
	slog.SetDefault(logger)
	slog.Info("audit log integration enabled", "min_level", "warn")

	ctx := context.Background()
	if err := store.Seed(ctx, db, cfg.DoSeed); err != nil {
		return fmt.Errorf("seeding database: %w", err)
	}

	sessionManager := session.New(db, cfg.IsDevelopment())
	slog.Info("session manager initialized")

	templatesFS, err := fs.Sub(web.Templates, "templates")
	if err != nil {
		return fmt.Errorf("getting templates fs: %w", err)
	}

	renderer, err := render.New(render.Config{
		TemplatesFS:    templatesFS,
		SessionManager: sessionManager,
		IsDev:          cfg.IsDevelopment(),
	})
	if err != nil {
		return fmt.Errorf("initializing renderer: %w", err)
	}
	slog.Info("template renderer initialized")

	sched := scheduler.New(db, logger)
	if err := sched.Start(); err != nil {
		return fmt.Errorf("starting scheduler: %w", err)
	}
	defer sched.Stop()

	// Catch up on lifecycle transitions missed while the server was down
	if err := sched.Sweep(ctx, time.Now()); err != nil {
		slog.Warn("startup lifecycle sweep failed", "error", err)
	}

	r := chi.NewRouter()

	r.Use(chimw.RequestID)
	r.Use(chimw.RealIP)
	r.Use(chimw.Logger)
	r.Use(chimw.Recoverer)
	r.Use(chimw.Compress(5))
	r.Use(chimw.GetHead)
	r.Use(middleware.Timeout(30 * time.Second))
	r.Use(middleware.StripTrailingSlash)

	securityConfig := middleware.DefaultSecurityHeadersConfig(cfg.IsDevelopment())
	r.Use(middleware.SecurityHeaders(securityConfig))
	slog.Info("security headers middleware initialized", "hsts", !cfg.IsDevelopment())

	r.Use(middleware.RequestPath)
	r.Use(sessionManager.LoadAndSave)

	csrfConfig := middleware.DefaultCSRFConfig([]byte(cfg.SessionSecret), cfg.IsDevelopment(), cfg.ServerPort)
	r.Use(middleware.CSRF(csrfConfig))
	slog.Info("CSRF protection initialized", "secure", !cfg.IsDevelopment())

	loginProtection := middleware.NewLoginProtection(middleware.DefaultLoginProtectionConfig())
	slog.Info("login protection initialized",
		"ip_rate_limit", "0.5 req/s",
		"max_failed_attempts", 5,
		"lockout_duration", "15m",
	)

	// Defense-in-depth rate limit on the auth form actions
	authRateLimiter := middleware.NewGlobalRateLimiter(10.0, 20)

	authHandler := handler.NewAuthHandler(db, renderer, sessionManager, loginProtection, logger)
	pageHandler := handler.NewPageHandler(db, renderer, sessionManager)
	eventHandler := handler.NewEventHandler(db, renderer, sessionManager)
	healthHandler := handler.NewHealthHandler(db, sessionManager)

	// Health check routes (public, more detail for authenticated callers)
	r.Get(handler.RouteHealth, healthHandler.Health)
	r.Get(handler.RouteHealthLive, healthHandler.Liveness)
	r.Get(handler.RouteHealthReady, healthHandler.Readiness)

	// Public routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.RequireAnonymous(sessionManager))
		r.Get(handler.RouteRoot, pageHandler.Landing)
		r.Get(handler.RouteUser, pageHandler.UserForms)

		r.Group(func(r chi.Router) {
			r.Use(authRateLimiter.HTMLMiddleware())
			r.Use(loginProtection.Middleware())
			r.Post(handler.RouteSignup, authHandler.Signup)
			r.Post(handler.RouteLogin, authHandler.Login)
		})
	})

	// Public event listing, user loaded when a session exists
	r.Group(func(r chi.Router) {
		r.Use(middleware.OptionalLoadUser(sessionManager, db))
		r.Get(handler.RouteView, eventHandler.View)
	})

	// Signed-in routes
	r.Group(func(r chi.Router) {
		r.Use(middleware.Auth(sessionManager))
		r.Use(middleware.LoadUser(sessionManager, db))

		r.Get(handler.RouteHome, pageHandler.Home)
		r.Get(handler.RouteDashboard, pageHandler.Dashboard)
		r.Get(handler.RouteHistory, eventHandler.History)
		r.Post(handler.RouteLogout, authHandler.Logout)
		r.Delete(handler.RouteLogout, authHandler.Logout)

		// Organizer routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireOrganizer())
			r.Get(handler.RouteCreate, eventHandler.CreateForm)
			r.Post(handler.RouteCreate, eventHandler.Create)
			r.Get(handler.RouteManage, eventHandler.Manage)
			r.Get(handler.RouteManageID, eventHandler.Detail)
			r.Post(handler.RouteManageCancel, eventHandler.Cancel)
		})

		// Attendee routes
		r.Group(func(r chi.Router) {
			r.Use(middleware.RequireAttendee())
			r.Get(handler.RouteFind, eventHandler.Find)
			r.Post(handler.RouteFindRegister, eventHandler.Register)
		})
	})

	// Development-only diagnostics
	if cfg.IsDevelopment() {
		diagHandler := handler.NewDiagHandler(db, sessionManager)
		r.Get(handler.RouteQuery, diagHandler.Query)
		r.Get(handler.RouteTest, diagHandler.Test)
		slog.Info("development diagnostic routes enabled")
	}

	// Static assets
	staticFS, err := fs.Sub(web.Static, "static")
	if err != nil {
		return fmt.Errorf("getting static fs: %w", err)
	}
	r.Handle("/static/*", http.StripPrefix("/static/", http.FileServer(http.FS(staticFS))))

	srv := &http.Server{
		Addr:              cfg.ServerAddr(),
		Handler:           r,
		ReadTimeout:       15 * time.Second,
		ReadHeaderTimeout: 5 * time.Second,
		WriteTimeout:      60 * time.Second,
		IdleTimeout:       60 * time.Second,
		MaxHeaderBytes:    1 << 20,
	}

	go func() {
		slog.Info("starting server", "addr", cfg.ServerAddr(), "env", cfg.Env)
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			slog.Error("server error", "error", err)
		}
	}()

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	slog.Info("shutting down server...")

	ctx, cancel := context.WithTimeout(context.Background(), 30*time.Second)
	defer cancel()

	if err := srv.Shutdown(ctx); err != nil {
		return fmt.Errorf("server shutdown: %w", err)
	}

	slog.Info("server stopped")
	return nil
}
