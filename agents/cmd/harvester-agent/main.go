package main

import (
	"context"
	"errors"
	"flag"
	"os"
	"os/signal"
	"syscall"
	"time"

	"go.uber.org/zap"

	"universal-harvester/agents/internal/agent"
)

func main() {
	serverURL := flag.String("server-url", "http://127.0.0.1:8090", "Harvester server base URL")
	harvestType := flag.String("type", "all", "Harvest selector to trigger")
	every := flag.Duration("every", 15*time.Minute, "Trigger interval")
	flag.Parse()

	log, err := zap.NewProduction()
	if err != nil {
		os.Stderr.WriteString(err.Error() + "\n")
		os.Exit(1)
	}
	defer log.Sync()

	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	err = agent.Run(ctx, agent.Config{
		ServerURL: *serverURL,
		Type:      *harvestType,
		Every:     *every,
	}, log)
	if err != nil && !errors.Is(err, context.Canceled) {
		log.Error("agent exited", zap.Error(err))
		os.Exit(1)
	}
}
