package daemon

import (
	"context"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/moodlift/moodlift/internal/api"
	"github.com/moodlift/moodlift/internal/app/account"
	"github.com/moodlift/moodlift/internal/app/coach"
	"github.com/moodlift/moodlift/internal/app/schedule"
	"github.com/moodlift/moodlift/internal/app/stats"
	"github.com/moodlift/moodlift/internal/health"
	_ "github.com/moodlift/moodlift/internal/infra/metrics" // Register Prometheus metrics
	"github.com/moodlift/moodlift/internal/infra/sqlite"
)

// Daemon is the core Moodlift runtime. It wires together all services.
type Daemon struct {
	Config Config
	DB     *sqlite.DB
	Server *api.Server

	Accounts   *account.Service
	Schedules  *schedule.Cache
	Statistics *stats.Cache
	Recorder   *stats.Recorder
	Coach      *coach.Service
	Health     *health.Checker

	cancel context.CancelFunc
}

// New creates and initializes a Daemon with all services wired.
func New() (*Daemon, error) {
	cfg, err := LoadConfig()
	if err != nil {
		return nil, fmt.Errorf("load config: %w", err)
	}

	return NewWithConfig(cfg)
}

// NewWithConfig creates a Daemon with the given configuration.
func NewWithConfig(cfg Config) (*Daemon, error) {
	db, err := sqlite.Open(moodliftHome())
	if err != nil {
		return nil, fmt.Errorf("open database: %w", err)
	}

	accounts := account.NewService(db, cfg.Cohort.Cutoff)
	schedules := schedule.NewCache(db, schedule.NewResolver(db), schedule.NewGenerator())

	aggregator := stats.NewAggregator(db, db, db)
	statistics := stats.NewCache(db, aggregator)
	recorder := stats.NewRecorder(db, db, db, statistics)

	coachSvc := coach.NewService(cfg.Coach.Endpoint, cfg.Coach.Model, cfg.Coach.CoachTimeout())

	checker := health.NewChecker(db, moodliftHome())

	srv := api.NewServer(accounts, schedules, statistics, coachSvc, recorder)
	srv.SetHealth(checker)
	if cfg.Telemetry.Prometheus {
		srv.EnableMetrics()
	}

	return &Daemon{
		Config:     cfg,
		DB:         db,
		Server:     srv,
		Accounts:   accounts,
		Schedules:  schedules,
		Statistics: statistics,
		Recorder:   recorder,
		Coach:      coachSvc,
		Health:     checker,
	}, nil
}

// Serve starts the HTTP server and blocks until shutdown.
func (d *Daemon) Serve(ctx context.Context) error {
	ctx, cancel := context.WithCancel(ctx)
	d.cancel = cancel

	go d.Health.Run(ctx)

	addr := fmt.Sprintf("%s:%d", d.Config.API.Host, d.Config.API.Port)

	httpServer := &http.Server{
		Addr:         addr,
		Handler:      d.Server.Handler(),
		ReadTimeout:  30 * time.Second,
		WriteTimeout: 60 * time.Second,
		IdleTimeout:  2 * time.Minute,
	}

	// Graceful shutdown on signal
	sigCh := make(chan os.Signal, 1)
	signal.Notify(sigCh, syscall.SIGINT, syscall.SIGTERM)

	go func() {
		select {
		case <-sigCh:
		case <-ctx.Done():
		}

		shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 30*time.Second)
		defer shutdownCancel()

		_ = httpServer.Shutdown(shutdownCtx)
		_ = d.DB.Close()
	}()

	fmt.Printf("Moodlift serving on http://%s\n", addr)
	if d.Config.Telemetry.Prometheus {
		fmt.Printf("  Metrics: http://%s/metrics\n", addr)
	}

	if err := httpServer.ListenAndServe(); err != http.ErrServerClosed {
		return err
	}
	return nil
}

// Close shuts down all daemon resources.
func (d *Daemon) Close() {
	if d.cancel != nil {
		d.cancel()
	}
	if d.DB != nil {
		_ = d.DB.Close()
	}
}
