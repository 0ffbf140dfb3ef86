package main

import (
	"context"
	"errors"
	"fmt"
	"log"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	apirest "github.com/hexforge/worldengine/api/rest"
	apiws "github.com/hexforge/worldengine/api/ws"
	"github.com/hexforge/worldengine/config"
	"github.com/hexforge/worldengine/game/session"
	mw "github.com/hexforge/worldengine/middleware"
	"github.com/hexforge/worldengine/scheduler"
	"go.uber.org/zap"
	"golang.org/x/time/rate"
)

const shutdownTimeout = 5 * time.Second

func newLogger(debug bool) (*zap.Logger, error) {
	if debug {
		return zap.NewDevelopment()
	}
	return zap.NewProduction()
}

// serve runs the server until it fails or ctx is canceled, then drains
// in-flight requests before returning.
func serve(ctx context.Context, srv *http.Server) error {
	errCh := make(chan error, 1)
	go func() {
		errCh <- srv.ListenAndServe()
	}()

	select {
	case err := <-errCh:
		return err
	case <-ctx.Done():
	}

	shutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return srv.Shutdown(shutCtx)
}

func main() {
	cfgPath := "config/config.yaml"
	if len(os.Args) > 1 {
		cfgPath = os.Args[1]
	}
	cfg, err := config.Load(cfgPath)
	if err != nil {
		log.Fatalf("config: %v", err)
	}

	logger, err := newLogger(cfg.Server.Debug)
	if err != nil {
		log.Fatalf("logger: %v", err)
	}
	defer logger.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	// ---- Battle sessions ----
	sessions := session.NewManager(cfg.Battle, logger)

	// ---- Background jobs ----
	sched := scheduler.New(logger)
	defer sched.Stop()
	if cfg.Battle.SessionTTL > 0 {
		sched.AddTicker("session_reaper", cfg.Battle.SessionTTL/2, func() {
			sessions.Reap()
		})
	}

	// ---- WS command routing ----
	wsRouter := apiws.NewRouter(logger)
	apiws.NewBattleHandlers(logger).RegisterHandlers(wsRouter)

	// ---- HTTP server ----
	if !cfg.Server.Debug {
		gin.SetMode(gin.ReleaseMode)
	}
	r := gin.New()
	r.Use(mw.TraceID(), mw.Logger(logger), mw.Recovery(logger))
	r.Use(mw.RateLimit(rate.Limit(cfg.Security.RateLimitRPS), cfg.Security.RateLimitBurst))

	r.GET("/health", func(ctx *gin.Context) {
		ctx.JSON(200, gin.H{"status": "ok", "battles": sessions.Count()})
	})

	apirest.NewBattleHandler(sessions, logger).RegisterRoutes(r.Group("/api"))

	wsH := apiws.NewHandler(sessions, cfg.Server.AllowedOrigins, wsRouter, logger)
	r.GET("/ws/battles/:id", wsH.ServeWS)

	srv := &http.Server{
		Addr:              fmt.Sprintf(":%d", cfg.Server.Port),
		Handler:           r,
		ReadHeaderTimeout: 5 * time.Second,
	}

	logger.Info("server listening", zap.String("addr", srv.Addr))
	if err := serve(ctx, srv); err != nil && !errors.Is(err, http.ErrServerClosed) {
		logger.Fatal("server", zap.Error(err))
	}
	logger.Info("server stopped")
}
