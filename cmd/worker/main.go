// Package main runs the background job worker (attachment purges).
package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/samber/do"
	"go.uber.org/zap"

	"github.com/zookeepr/backend/internal/bootstrap"
	"github.com/zookeepr/backend/internal/worker"
)

func main() {
	inj := bootstrap.BuildContainer()
	logger := do.MustInvoke[*zap.Logger](inj)
	defer logger.Sync()

	processor, err := do.Invoke[*worker.AttachmentJanitor](inj)
	if err != nil {
		logger.Fatal("build worker", zap.Error(err))
	}

	workerCtx, cancel := context.WithCancel(context.Background())
	defer cancel()

	done := make(chan struct{})
	go func() {
		processor.Run(workerCtx)
		close(done)
	}()
	logger.Info("worker started")

	quit := make(chan os.Signal, 1)
	signal.Notify(quit, syscall.SIGINT, syscall.SIGTERM)
	<-quit

	cancel()
	select {
	case <-done:
	case <-time.After(10 * time.Second):
		logger.Warn("worker did not stop in time")
	}
	if err := inj.Shutdown(); err != nil {
		logger.Warn("shutdown", zap.Error(err))
	}
	logger.Info("worker stopped")
}
