package main

import (
	"context"
	"errors"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	ginGzip "github.com/gin-contrib/gzip"
	"github.com/gin-gonic/gin"
	"github.com/joho/godotenv"
	"github.com/rs/zerolog/log"
	"github.com/samber/oops"
	"golang.org/x/time/rate"

	"wordlebot/internal/config"
	"wordlebot/internal/session"
	"wordlebot/internal/words"
)

func main() {
	_ = godotenv.Load()

	cfg, err := config.Load()
	if err != nil {
		logFatal(err, "Failed to load configuration")
	}
	setupLogger(cfg.LogLevel, cfg.IsProduction())
	logInfo("Starting wordlebot in %s mode", envName(cfg.IsProduction()))

	app, err := newApp(cfg)
	if err != nil {
		logFatal(err, "Failed to initialise game engine")
	}
	logInfo("Loaded %d solution words and %d extra accepted words", app.WordCount, app.AcceptedCount)

	if cfg.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	go app.Sessions.RunJanitor(log.Logger.WithContext(ctx), cfg.SweepInterval, cfg.SessionTimeout)

	if err := app.startServer(ctx, app.setupRouter()); err != nil {
		logFatal(err, "Server failed")
	}
}

// newApp loads the word lists named in cfg and builds the session manager.
func newApp(cfg config.Config) (*App, error) {
	solutions, err := words.Load(cfg.WordListFile)
	if err != nil {
		return nil, oops.In("main").Wrapf(err, "loading solution words")
	}
	accepted, err := words.LoadOptional(cfg.AcceptedWordsFile)
	if err != nil {
		return nil, oops.In("main").Wrapf(err, "loading accepted words")
	}

	manager, err := session.New(session.Config{
		Words:     solutions,
		Accepted:  accepted,
		MaxTrials: cfg.MaxTrials,
		Commands:  session.Commands{Start: cfg.StartCommand, GiveUp: cfg.GiveUpCommand},
	})
	if err != nil {
		return nil, oops.In("main").Wrapf(err, "building session manager")
	}

	return &App{
		Config:        cfg,
		Sessions:      manager,
		WordCount:     len(solutions),
		AcceptedCount: len(accepted),
		LimiterMap:    make(map[string]*rate.Limiter),
		StartTime:     time.Now(),
	}, nil
}

// setupRouter registers middleware and routes.
func (app *App) setupRouter() *gin.Engine {
	router := gin.New()
	router.Use(gin.Recovery(), requestIDMiddleware(), requestLogMiddleware())
	router.Use(ginGzip.Gzip(ginGzip.DefaultCompression))
	router.Use(noStoreMiddleware())

	if err := router.SetTrustedProxies([]string{"127.0.0.1"}); err != nil {
		logWarn("Failed to set trusted proxies: %v", err)
	}

	router.POST(RouteEvents, app.rateLimitMiddleware(), app.eventHandler)
	router.POST(RouteTelegramWebhook, app.telegramWebhookHandler)
	router.GET(RouteHealth, app.healthzHandler)
	return router
}

// startServer serves router until ctx is cancelled, then shuts down gracefully.
func (app *App) startServer(ctx context.Context, router *gin.Engine) error {
	srv := &http.Server{
		Addr:              ":" + app.Config.Port,
		Handler:           router,
		ReadHeaderTimeout: 10 * time.Second,
		ReadTimeout:       30 * time.Second,
		WriteTimeout:      30 * time.Second,
		IdleTimeout:       120 * time.Second,
	}

	idleConnsClosed := make(chan struct{})
	go func() {
		<-ctx.Done()
		logInfo("Shutdown signal received, shutting down server gracefully...")
		shutdownCtx, cancel := context.WithTimeout(context.Background(), 10*time.Second)
		defer cancel()
		if err := srv.Shutdown(shutdownCtx); err != nil {
			logWarn("HTTP server Shutdown: %v", err)
		}
		close(idleConnsClosed)
	}()

	logInfo("Server starting on http://localhost:%s", app.Config.Port)
	if err := srv.ListenAndServe(); !errors.Is(err, http.ErrServerClosed) {
		return oops.In("main").Wrapf(err, "listening on %s", srv.Addr)
	}
	<-idleConnsClosed
	logInfo("Server shutdown complete")
	return nil
}
