package server

import (
	"context"
	"fmt"
	"time"

	"github.com/labstack/echo/v4"
	"github.com/labstack/echo/v4/middleware"
	"github.com/rs/zerolog"
	"github.com/samber/do"
	"github.com/zeadev/zeacontrol/internal/billing"
	"github.com/zeadev/zeacontrol/internal/notify"
	"github.com/zeadev/zeacontrol/internal/orchestrator"
	"github.com/zeadev/zeacontrol/internal/ports"
	"github.com/zeadev/zeacontrol/internal/proxy"
	"github.com/zeadev/zeacontrol/internal/remote"
	"github.com/zeadev/zeacontrol/internal/repository"
	"github.com/zeadev/zeacontrol/internal/server/routes"
	"github.com/zeadev/zeacontrol/internal/tasks"
	"github.com/zeadev/zeacontrol/internal/usecase"
	"gorm.io/gorm"
)

type Config struct {
	Port           int
	DatabasePath   string
	SSHTimeout     time.Duration
	TelegramToken  string
	TelegramChatID string
	Logger         zerolog.Logger
}

type Server struct {
	e        *echo.Echo
	config   *Config
	injector *do.Injector
}

func New(config *Config) *Server {
	e := echo.New()
	e.HidePort = true
	e.HideBanner = true
	e.Use(middleware.RequestLoggerWithConfig(middleware.RequestLoggerConfig{
		LogRemoteIP:  true,
		LogHost:      true,
		LogMethod:    true,
		LogURI:       true,
		LogUserAgent: true,
		LogStatus:    true,
		LogLatency:   true,
		LogValuesFunc: func(c echo.Context, v middleware.RequestLoggerValues) error {
			config.Logger.Info().
				Str("remote_ip", v.RemoteIP).
				Str("host", v.Host).
				Str("method", v.Method).
				Str("uri", v.URI).
				Str("user_agent", v.UserAgent).
				Int("status", v.Status).
				Int64("latency_ms", v.Latency.Milliseconds()).
				Msg("handled request")
			return nil
		},
	}))
	e.Use(middleware.RecoverWithConfig(middleware.RecoverConfig{
		LogErrorFunc: func(c echo.Context, err error, stack []byte) error {
			config.Logger.Error().Err(err).Bytes("stack", stack).Send()
			return err
		},
	}))
	e.Use(func(next echo.HandlerFunc) echo.HandlerFunc {
		return func(c echo.Context) error {
			req := c.Request()
			ctx := config.Logger.WithContext(req.Context())
			c.SetRequest(req.WithContext(ctx))
			return next(c)
		}
	})

	s := &Server{e: e, config: config}
	s.init()
	return s
}

func (s *Server) init() {
	injector := do.New()
	s.injector = injector
	s.injectDependencies(injector)
	s.registerRoutes(injector)
}

func (s *Server) injectDependencies(injector *do.Injector) {
	do.Provide(injector, func(i *do.Injector) (*gorm.DB, error) {
		return repository.NewSQLiteDB(s.config.DatabasePath)
	})
	do.Provide(injector, func(i *do.Injector) (repository.ProjectRepository, error) {
		return repository.NewProjectRepository(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(injector, func(i *do.Injector) (repository.ServerRepository, error) {
		db := do.MustInvoke[*gorm.DB](i)
		return repository.NewServerRepository(db, do.MustInvoke[repository.ProjectRepository](i)), nil
	})
	do.Provide(injector, func(i *do.Injector) (repository.DeploymentRepository, error) {
		return repository.NewDeploymentRepository(do.MustInvoke[*gorm.DB](i)), nil
	})
	do.Provide(injector, func(i *do.Injector) (*ports.Allocator, error) {
		return ports.NewAllocator(do.MustInvoke[repository.ProjectRepository](i)), nil
	})
	do.Provide(injector, func(i *do.Injector) (remote.Executor, error) {
		return remote.NewSSHExecutor(s.config.SSHTimeout, s.config.Logger), nil
	})
	do.Provide(injector, func(i *do.Injector) (*proxy.Configurator, error) {
		return proxy.NewConfigurator(do.MustInvoke[remote.Executor](i), s.config.Logger), nil
	})
	do.Provide(injector, func(i *do.Injector) (notify.Notifier, error) {
		return notify.NewTelegram(s.config.TelegramToken, s.config.TelegramChatID, s.config.Logger), nil
	})
	do.Provide(injector, func(i *do.Injector) (*tasks.Dispatcher, error) {
		return tasks.NewDispatcher(s.config.Logger), nil
	})
	do.Provide(injector, func(i *do.Injector) (*orchestrator.Orchestrator, error) {
		return orchestrator.New(
			do.MustInvoke[repository.ProjectRepository](i),
			do.MustInvoke[repository.ServerRepository](i),
			do.MustInvoke[repository.DeploymentRepository](i),
			do.MustInvoke[remote.Executor](i),
			do.MustInvoke[*proxy.Configurator](i),
			do.MustInvoke[notify.Notifier](i),
			s.config.Logger,
		), nil
	})
	do.Provide(injector, func(i *do.Injector) (*billing.Sweeper, error) {
		return billing.NewSweeper(
			do.MustInvoke[repository.ProjectRepository](i),
			do.MustInvoke[notify.Notifier](i),
			do.MustInvoke[*orchestrator.Orchestrator](i),
			do.MustInvoke[*tasks.Dispatcher](i),
			s.config.Logger,
		), nil
	})
	do.Provide(injector, usecase.NewCreateProjectUsecase)
	do.Provide(injector, usecase.NewGetProjectUsecase)
	do.Provide(injector, usecase.NewListProjectsUsecase)
	do.Provide(injector, usecase.NewListDeploymentsUsecase)
	do.Provide(injector, usecase.NewMarkPaidUsecase)
}

func (s *Server) registerRoutes(injector *do.Injector) {
	routes.RegisterRestAPI(injector, s.e)
}

// Sweeper exposes the billing sweeper so the serve command can schedule it.
func (s *Server) Sweeper() *billing.Sweeper {
	return do.MustInvoke[*billing.Sweeper](s.injector)
}

// Dispatcher exposes the task dispatcher for shutdown draining.
func (s *Server) Dispatcher() *tasks.Dispatcher {
	return do.MustInvoke[*tasks.Dispatcher](s.injector)
}

func (s *Server) Start() error {
	addr := fmt.Sprintf(":%d", s.config.Port)
	s.config.Logger.Info().Str("addr", addr).Msg("starting server")
	return s.e.Start(addr)
}

func (s *Server) Stop(ctx context.Context) error {
	return s.e.Shutdown(ctx)
}
