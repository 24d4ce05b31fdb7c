// Package server wires the session service to its storage, throttle and mail
// backends and runs the gRPC and HTTP transports until shutdown.
package server

import (
	"context"
	"errors"
	"fmt"
	"os"
	"os/signal"
	"sync"
	"syscall"

	"github.com/dmitrijs2005/blogauth/internal/logging"
	"github.com/dmitrijs2005/blogauth/internal/server/auth"
	"github.com/dmitrijs2005/blogauth/internal/server/config"
	"github.com/dmitrijs2005/blogauth/internal/server/mailer"
	"github.com/dmitrijs2005/blogauth/internal/server/repositories/repomanager"
	"github.com/dmitrijs2005/blogauth/internal/server/rest"
	"github.com/dmitrijs2005/blogauth/internal/server/services"
	"github.com/dmitrijs2005/blogauth/internal/server/throttle"
	"github.com/redis/go-redis/v9"

	gs "github.com/dmitrijs2005/blogauth/internal/server/grpc"
)

type runner interface {
	Run(ctx context.Context) error
}

type App struct {
	config   *config.Config
	logger   logging.Logger
	repos    repomanager.RepositoryManager
	redis    *redis.Client
	sessions *services.SessionService
	servers  map[string]runner
}

func NewApp(ctx context.Context, c *config.Config, logger logging.Logger) (*App, error) {
	if err := auth.ValidateSecret([]byte(c.SecretKey)); err != nil {
		return nil, fmt.Errorf("config error: %w", err)
	}
	if c.SecretKey == config.DefaultSecretKey {
		logger.Warn(ctx, "Using the default token signing secret, set BLOGAUTH_SECRET_KEY or -s outside development")
	}

	repos, err := openRepositories(ctx, c, logger)
	if err != nil {
		return nil, err
	}

	app := &App{config: c, logger: logger, repos: repos}

	var limiter services.LoginThrottle = throttle.Nop{}
	if c.RedisURL != "" {
		client, err := throttle.Connect(c.RedisURL)
		if err != nil {
			_ = repos.Close()
			return nil, fmt.Errorf("redis init error: %w", err)
		}
		app.redis = client
		limiter = throttle.NewRedisLimiter(client, c.LoginAttemptLimit, c.LoginAttemptWindow)
		logger.Info(ctx, "Login throttling enabled", "limit", c.LoginAttemptLimit, "window", c.LoginAttemptWindow.String())
	}

	var sender services.EmailSender = mailer.NewLogSender(logger)
	if c.SMTPHost != "" {
		s, err := mailer.NewSMTPSender(mailer.SMTPConfig{
			Host:     c.SMTPHost,
			Port:     c.SMTPPort,
			Username: c.SMTPUsername,
			Password: c.SMTPPassword,
			From:     c.MailFrom,
		})
		if err != nil {
			app.close(ctx)
			return nil, fmt.Errorf("mailer init error: %w", err)
		}
		sender = s
	}

	codec := auth.NewTokenCodec([]byte(c.SecretKey))
	gate := auth.NewGate(codec)

	app.sessions, err = services.NewSessionService(
		repos.UserStore(),
		auth.NewBcryptHasher(c.BcryptCost),
		codec,
		sender,
		c,
		services.WithThrottle(limiter),
		services.WithLogger(logger),
	)
	if err != nil {
		app.close(ctx)
		return nil, fmt.Errorf("session service init error: %w", err)
	}

	app.servers = map[string]runner{
		"grpc": gs.NewGRPCServer(c.EndpointAddrGRPC, logger, app.sessions, gate),
		"http": rest.NewHTTPServer(c.EndpointAddrHTTP, rest.NewHandler(app.sessions, gate, logger), logger),
	}

	return app, nil
}

func openRepositories(ctx context.Context, c *config.Config, logger logging.Logger) (repomanager.RepositoryManager, error) {
	if c.DatabaseDSN == "" {
		logger.Warn(ctx, "No database DSN configured, using in-memory store")
		return repomanager.NewMemoryRepositoryManager(), nil
	}

	db, err := repomanager.Open(ctx, c.DatabaseDSN)
	if err != nil {
		return nil, fmt.Errorf("db init error: %w", err)
	}

	m := repomanager.NewPostgresRepositoryManager(db)
	if err := m.RunMigrations(ctx); err != nil {
		_ = m.Close()
		return nil, fmt.Errorf("db migration error: %w", err)
	}
	return m, nil
}

func (app *App) initSignalHandler(ctx context.Context, cancelFunc context.CancelFunc) {
	sigs := make(chan os.Signal, 1)
	signal.Notify(sigs, syscall.SIGINT, syscall.SIGTERM, syscall.SIGQUIT)

	go func() {
		defer signal.Stop(sigs)
		select {
		case <-sigs:
			cancelFunc()
		case <-ctx.Done():
		}
	}()
}

// Run starts every transport and blocks until ctx is cancelled, a signal
// arrives or one of the transports fails. A failing transport stops the rest.
func (app *App) Run(ctx context.Context) error {
	ctx, cancelFunc := context.WithCancel(ctx)
	defer cancelFunc()

	app.logger.Info(ctx, "Starting app...")

	app.initSignalHandler(ctx, cancelFunc)

	var (
		wg   sync.WaitGroup
		mu   sync.Mutex
		errs []error
	)

	for name, s := range app.servers {
		wg.Add(1)
		go func() {
			defer wg.Done()
			if err := s.Run(ctx); err != nil {
				app.logger.Error(ctx, "server failed", "server", name, "error", err)
				mu.Lock()
				errs = append(errs, fmt.Errorf("%s: %w", name, err))
				mu.Unlock()
				cancelFunc()
			}
		}()
	}

	wg.Wait()
	app.close(ctx)
	app.logger.Info(ctx, "App stopped")

	return errors.Join(errs...)
}

func (app *App) close(ctx context.Context) {
	if app.redis != nil {
		if err := app.redis.Close(); err != nil {
			app.logger.Error(ctx, "redis close error", "error", err)
		}
	}
	if err := app.repos.Close(); err != nil {
		app.logger.Error(ctx, "db close error", "error", err)
	}
}
