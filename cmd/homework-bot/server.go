package main

import (
	"context"
	"errors"
	"net"
	"net/http"

	commonmw "hwbot/internal/common/http/middleware"
	"hwbot/internal/homework/controller"
	"hwbot/pkg/utils/logger"

	"github.com/gin-gonic/gin"
	"go.uber.org/zap"
)

func buildHTTPServer(cfg ServerConfig, status controller.BotStatus) *http.Server {
	gin.SetMode(gin.ReleaseMode)
	router := gin.New()
	router.Use(gin.Recovery())
	router.Use(commonmw.TraceContextMiddleware())
	router.Use(commonmw.RequestLogger())

	controller.NewBotController(status).RegisterRoutes(router)

	return &http.Server{
		Addr:         cfg.Addr,
		Handler:      router,
		ReadTimeout:  cfg.ReadTimeout,
		WriteTimeout: cfg.WriteTimeout,
		IdleTimeout:  cfg.IdleTimeout,
	}
}

// startHTTPServer listens on cfg.Addr and returns a shutdown func.
func startHTTPServer(cfg ServerConfig, status controller.BotStatus) (func(), error) {
	httpServer := buildHTTPServer(cfg, status)
	listener, err := net.Listen("tcp", cfg.Addr)
	if err != nil {
		return nil, err
	}

	done := make(chan struct{})
	go func() {
		defer close(done)
		logger.Info(context.Background(), "status server started", zap.String("addr", listener.Addr().String()))
		if err := httpServer.Serve(listener); err != nil && !errors.Is(err, http.ErrServerClosed) {
			logger.Error(context.Background(), "status server stopped", zap.Error(err))
		}
	}()

	return func() {
		ctx, cancel := context.WithTimeout(context.Background(), cfg.ShutdownTimeout)
		defer cancel()
		if err := httpServer.Shutdown(ctx); err != nil {
			logger.Error(context.Background(), "status server shutdown failed", zap.Error(err))
		}
		<-done
	}, nil
}
