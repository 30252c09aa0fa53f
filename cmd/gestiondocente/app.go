package main

import (
	"context"
	"errors"
	"fmt"
	"net/http"
	"time"

	"github.com/nkiryanov/gestiondocente/internal/backend"
	"github.com/nkiryanov/gestiondocente/internal/db"
	"github.com/nkiryanov/gestiondocente/internal/handlers"
	"github.com/nkiryanov/gestiondocente/internal/logger"
	"github.com/nkiryanov/gestiondocente/internal/service/auth"
	"github.com/nkiryanov/gestiondocente/internal/service/grades"
	"github.com/nkiryanov/gestiondocente/internal/tokenstore"
	"github.com/nkiryanov/gestiondocente/internal/tokenstore/postgres"
	"github.com/nkiryanov/gestiondocente/internal/tokenstore/redisstore"
)

const shutdownTimeout = 5 * time.Second

type ServerApp struct {
	ListenAddr string
	Handler    http.Handler

	logger logger.Logger

	// Called in reverse order when server stopped
	closers []func()
}

func NewServerApp(ctx context.Context, c *Config) (_ *ServerApp, err error) {
	// Initialize logger
	logger, err := logger.New(c.Environment, c.LogLevel)
	if err != nil {
		return nil, fmt.Errorf("error while initializing logger: %w", err)
	}

	app := &ServerApp{ListenAddr: c.ListenAddr, logger: logger}
	defer func() {
		if err != nil {
			app.close()
		}
	}()

	store, err := app.openStore(ctx, c)
	if err != nil {
		return nil, err
	}

	// Initialize services
	client, err := backend.NewClient(backend.Config{
		BaseURL: c.APIURL,
		Timeout: c.RequestTimeout,
		Logger:  logger,
	}, store)
	if err != nil {
		return nil, fmt.Errorf("error while creating backend client. Err: %w", err)
	}

	session, err := auth.NewSession(auth.Config{Logger: logger}, store, client)
	if err != nil {
		return nil, fmt.Errorf("error while creating session. Err: %w", err)
	}
	app.closers = append(app.closers, session.Close)

	sheets, err := grades.NewService(grades.Config{Logger: logger}, client)
	if err != nil {
		return nil, fmt.Errorf("error while creating grade sheet service. Err: %w", err)
	}

	// Pick up tokens left by previous run
	session.ResumeSession(ctx)

	app.Handler = handlers.NewRouter(session, client, sheets, logger)
	return app, nil
}

// Token store selected by config. Connections are closed with the app
func (s *ServerApp) openStore(ctx context.Context, c *Config) (tokenstore.Store, error) {
	switch c.TokenStore {
	case StoreFile:
		store, err := tokenstore.NewFileStore(c.TokenFile)
		if err != nil {
			return nil, fmt.Errorf("error while opening token file. Err: %w", err)
		}
		return store, nil

	case StorePostgres:
		pool, err := db.ConnectAndMigrate(ctx, c.DatabaseDSN)
		if err != nil {
			return nil, fmt.Errorf("error while connecting to db. Err: %w", err)
		}
		s.closers = append(s.closers, pool.Close)
		return postgres.NewStore(pool), nil

	case StoreRedis:
		client, err := redisstore.Connect(ctx, redisstore.Config{Addr: c.RedisAddr})
		if err != nil {
			return nil, fmt.Errorf("error while connecting to redis. Err: %w", err)
		}
		s.closers = append(s.closers, func() { _ = client.Close() })
		return redisstore.NewStore(client, ""), nil

	case StoreMemory:
		return tokenstore.NewMemoryStore(), nil

	default:
		return nil, fmt.Errorf("unknown token store '%s'", c.TokenStore)
	}
}

func (s *ServerApp) close() {
	for i := len(s.closers) - 1; i >= 0; i-- {
		s.closers[i]()
	}
	s.closers = nil
}

// Run starts http server and closes gracefully on context cancellation
func (s *ServerApp) Run(ctx context.Context) error {
	defer s.close()

	httpServer := &http.Server{
		Addr:    s.ListenAddr,
		Handler: s.Handler,
	}

	idleConnsClosed := make(chan struct{})
	srvCtx, srvCtxCancel := context.WithCancel(ctx)
	defer srvCtxCancel()

	go func() {
		<-srvCtx.Done()

		timeoutCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
		defer cancel()

		if err := httpServer.Shutdown(timeoutCtx); errors.Is(err, context.DeadlineExceeded) {
			s.logger.Error("HTTP server shutdown timeout exceeded, forcing shutdown...")
		}
		s.logger.Info("HTTP server stopped")
		close(idleConnsClosed)
	}()

	// Listen and serve until context is cancelled; then close gracefully connections
	s.logger.Info("Starting server", "address", s.ListenAddr)
	err := httpServer.ListenAndServe()
	srvCtxCancel()
	<-idleConnsClosed

	return err
}
