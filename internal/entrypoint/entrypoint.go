package entrypoint

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/gin-gonic/gin"
	"github.com/rs/zerolog/log"
	"golang.org/x/sync/errgroup"

	"github.com/mrlokans/library/internal/audit"
	"github.com/mrlokans/library/internal/auth"
	"github.com/mrlokans/library/internal/config"
	"github.com/mrlokans/library/internal/database"
	auditdb "github.com/mrlokans/library/internal/database/audit"
	"github.com/mrlokans/library/internal/database/books"
	http_controllers "github.com/mrlokans/library/internal/http"
	"github.com/mrlokans/library/internal/logging"
	"github.com/mrlokans/library/internal/openapi"
	"github.com/mrlokans/library/internal/publicip"
	"github.com/mrlokans/library/internal/scheduler"
	"github.com/mrlokans/library/internal/tasks"
)

const readHeaderTimeout = 10 * time.Second

// background holds the optional task queue and its scheduler.
type background struct {
	client    *tasks.Client
	scheduler *scheduler.AuditCleanupScheduler
}

func (b *background) stop(ctx context.Context) {
	if b == nil {
		return
	}
	b.scheduler.Stop()
	b.client.Stop(ctx)
}

func (b *background) close() {
	if b == nil {
		return
	}
	if err := b.client.Close(); err != nil {
		log.Error().Err(err).Msg("error closing task client")
	}
}

func startBackground(ctx context.Context, cfg *config.Config, cleaner tasks.AuditEventCleaner) (*background, error) {
	client, err := tasks.NewClient(cfg.Tasks.DatabasePath, tasks.Config{
		Workers:         cfg.Tasks.Workers,
		ReleaseAfter:    cfg.Tasks.ReleaseAfter,
		CleanupInterval: cfg.Tasks.CleanupInterval,
	})
	if err != nil {
		return nil, fmt.Errorf("failed to initialize task queue: %w", err)
	}

	client.Register(tasks.NewCleanupAuditEventsQueue(cleaner))
	client.Start(ctx)

	sched := scheduler.NewAuditCleanupScheduler(client, cfg.Audit.CleanupSchedule, cfg.Audit.RetentionDays)
	if err := sched.Start(ctx); err != nil {
		client.Stop(ctx)
		client.Close()
		return nil, fmt.Errorf("failed to start audit cleanup scheduler: %w", err)
	}

	return &background{client: client, scheduler: sched}, nil
}

// docsOrigins lists the origins Swagger UI may call besides the page itself.
func docsOrigins(info openapi.Info) []string {
	return []string{fmt.Sprintf("http://%s:%d", info.Host, info.Port)}
}

// Run serves the API until ctx is cancelled or the process receives
// SIGINT/SIGTERM, then shuts everything down within the configured timeout.
func Run(ctx context.Context, cfg *config.Config, version string) error {
	if err := logging.Init(cfg.Env, cfg.Logging.Level); err != nil {
		return err
	}
	log.Info().Str("version", version).Str("env", string(cfg.Env)).Msg("starting library api")

	db, err := database.NewDatabase(cfg.Database.URI, logging.GormLevel(cfg.Env))
	if err != nil {
		return err
	}
	defer func() {
		if err := db.Close(); err != nil {
			log.Error().Err(err).Msg("error closing database")
		}
	}()

	bookRepo := books.NewRepository(db.DB)
	auditService := audit.NewService(auditdb.NewRepository(db.DB))
	defer auditService.Wait()

	docsInfo := openapi.Info{
		Host: publicip.ResolveHost(ctx, cfg, publicip.NewClient(publicip.DefaultMetadataURL)),
		Port: int(cfg.HTTP.Port),
	}
	document, err := openapi.Build(docsInfo)
	if err != nil {
		return err
	}

	var limiter *auth.RateLimiter
	if cfg.RateLimit.RPS > 0 {
		limiter = auth.NewRateLimiter(auth.RateLimitConfig{
			RPS:   cfg.RateLimit.RPS,
			Burst: cfg.RateLimit.Burst,
		})
		defer limiter.Stop()
	}

	if cfg.Env.IsProduction() {
		gin.SetMode(gin.ReleaseMode)
	}

	router := http_controllers.NewRouter(http_controllers.RouterConfig{
		BookStore:      bookRepo,
		Auditor:        auditService,
		HealthChecker:  db,
		APIKey:         cfg.Auth.APIKey,
		AuthFailures:   auditService,
		RateLimiter:    limiter,
		OpenAPIDoc:     document,
		ConnectOrigins: docsOrigins(docsInfo),
		Version:        version,
	})

	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	var bg *background
	if cfg.Tasks.Enabled {
		bg, err = startBackground(ctx, cfg, auditService)
		if err != nil {
			return err
		}
		defer bg.close()
	} else {
		log.Info().Msg("background tasks disabled, audit events will not be pruned")
	}

	srv := &http.Server{
		Addr:              cfg.Addr(),
		Handler:           router,
		ReadHeaderTimeout: readHeaderTimeout,
	}

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		log.Info().
			Str("addr", srv.Addr).
			Str("docs", docsInfo.ServerURL()).
			Msg("starting server")
		if err := srv.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			return fmt.Errorf("listen: %w", err)
		}
		return nil
	})

	g.Go(func() error {
		<-gctx.Done()
		timeout := cfg.ShutdownTimeout()
		log.Info().Dur("timeout", timeout).Msg("shutting down server")

		shutdownCtx, cancel := context.WithTimeout(context.Background(), timeout)
		defer cancel()

		// Stop producing tasks before the server drains
		bg.stop(shutdownCtx)

		if err := srv.Shutdown(shutdownCtx); err != nil {
			return fmt.Errorf("server shutdown: %w", err)
		}
		return nil
	})

	err = g.Wait()
	log.Info().Msg("server exited")
	return err
}
