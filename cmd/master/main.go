// Command master serves n-gram counting jobs over gRPC.
package main

import (
	"flag"
	"os"
	"os/signal"
	"syscall"

	"go.uber.org/zap"

	"github.com/TLI-1994/Multithreaded-n-gram-Counter/master"
)

func main() {
	port := flag.Int("port", 50051, "port of the master server")
	flag.Parse()

	logger := setupLogger()
	defer logger.Sync()

	m := master.NewMaster(logger)

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, syscall.SIGINT, syscall.SIGTERM)
	go func() {
		<-sigChan
		logger.Info("shutting down")
		m.Shutdown()
	}()

	if err := m.Start(*port); err != nil {
		logger.Fatal("failed to start master", zap.Error(err))
	}
}

func setupLogger() *zap.Logger {
	cfg := zap.NewDevelopmentConfig()
	logger, err := cfg.Build()
	if err != nil {
		panic(err)
	}
	return logger
}
