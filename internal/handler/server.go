package handler

import (
	"context"
	"time"

	"github.com/gofiber/fiber/v2"
	"github.com/gofiber/fiber/v2/middleware/adaptor"
	"github.com/gofiber/fiber/v2/middleware/recover"

	"seo-monitor/internal/config"
	"seo-monitor/pkg/logger"
	"seo-monitor/pkg/metrics"
)

const shutdownTimeout = 5 * time.Second

// DashboardServer is a Dashboard that can also warm its cache.
type DashboardServer interface {
	Dashboard
	Warmer
}

// NewApp builds the fiber app serving the dashboard, its JSON API, health
// and Prometheus metrics.
func NewApp(dashboard Dashboard, log *logger.Logger) *fiber.App {
	app := fiber.New(fiber.Config{
		AppName:               "seo-monitor",
		DisableStartupMessage: true,
		ReadTimeout:           30 * time.Second,
		WriteTimeout:          30 * time.Second,
	})

	app.Use(recover.New())
	app.Use(RequestLogger(log))

	NewController(dashboard).Register(app)
	app.Get("/metrics", adaptor.HTTPHandler(metrics.Handler()))

	return app
}

type Server struct {
	app       *fiber.App
	addr      string
	refresher *Refresher
	log       *logger.Logger
}

func NewServer(cfg *config.Config, dashboard DashboardServer) (*Server, error) {
	log := logger.GetLogger().WithField("component", "server")

	refresher, err := NewRefresher(cfg.Dashboard.RefreshInterval, dashboard)
	if err != nil {
		return nil, err
	}

	return &Server{
		app:       NewApp(dashboard, log),
		addr:      cfg.Server.Addr(),
		refresher: refresher,
		log:       log,
	}, nil
}

// Run serves until ctx is canceled or the listener fails, then shuts down.
func (s *Server) Run(ctx context.Context) error {
	if err := s.refresher.Start(ctx); err != nil {
		return err
	}
	defer func() {
		if err := s.refresher.Stop(); err != nil {
			s.log.WithError(err).Warn("Refresher did not stop cleanly")
		}
	}()

	listenErr := make(chan error, 1)
	go func() {
		s.log.WithField("addr", s.addr).Info("Dashboard server listening")
		listenErr <- s.app.Listen(s.addr)
	}()

	select {
	case err := <-listenErr:
		return err
	case <-ctx.Done():
	}

	s.log.Info("Shutting down dashboard server")
	if err := s.app.ShutdownWithTimeout(shutdownTimeout); err != nil {
		return err
	}
	return <-listenErr
}
