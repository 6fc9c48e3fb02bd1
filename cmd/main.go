package main

import (
	"chat-engine/infrastructure/ws"
	"chat-engine/repositories"
	"chat-engine/runtime"
	"chat-engine/runtime/workers"
	"chat-engine/services"
	"context"
	"errors"
	"fmt"
	"net/http"
	"os"
	"os/signal"
	"syscall"

	"github.com/Netflix/go-env"
	"github.com/dgraph-io/badger/v4"
	"github.com/joho/godotenv"
	"github.com/mama165/sdk-go/logs"
)

func main() {
	if err := run(); err != nil {
		fmt.Fprintf(os.Stderr, "Fatal error: %v\n", err)
		os.Exit(1)
	}
}

// run initializes all components, manages the server lifecycle, and
// centralizes error reporting so that every defer (database cleanup
// included) executes before the process exits.
func run() error {
	// 1. Configuration & Logger
	_ = godotenv.Load()
	var config Config
	if _, err := env.UnmarshalFromEnviron(&config); err != nil {
		return fmt.Errorf("config error: %w", err)
	}
	log := logs.GetLoggerFromString(config.LogLevel)

	// 2. Database (BadgerDB)
	db, err := badger.Open(badger.DefaultOptions(config.BadgerFilepath).
		WithLoggingLevel(badger.WARNING))
	if err != nil {
		return fmt.Errorf("database opening failed: %w", err)
	}
	defer func() {
		log.Info("Closing BadgerDB...")
		_ = db.Close()
	}()

	// 3. Repositories
	messageRepository := repositories.NewMessageRepository(db, log)
	groupRepository := repositories.NewGroupRepository(db, log)
	groupMessageRepository := repositories.NewGroupMessageRepository(db, log)

	// 4. Presence-and-delivery engine
	presence := runtime.NewPresence(log)
	registry := runtime.NewRegistry(log, presence)
	directRouter := runtime.NewDirectRouter(log, registry)
	groupRouter := runtime.NewGroupRouter(log, registry)
	coordinator := runtime.NewCoordinator(log, registry, groupRepository, groupMessageRepository)
	seen := runtime.NewSeenTracker(log, messageRepository, groupMessageRepository)

	chatService := services.NewChatService(log, messageRepository, groupRepository,
		groupMessageRepository, directRouter, groupRouter, seen)
	groupService := services.NewGroupService(coordinator, groupRepository)

	// 5. Context & Signals
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	defer stop()

	// 6. Supervision
	sup := workers.NewSupervisor(log, config.RestartInterval)
	sup.Add(workers.NewTelemetryWorker(log, registry, config.TelemetryInterval))
	go sup.Run(ctx)
	defer sup.Stop()

	// 7. Transport
	server := ws.NewServer(log, registry, chatService, groupService, config.SendQueueSize)
	addr := fmt.Sprintf("%s:%d", config.Host, config.Port)
	log.Info("Chat engine listening", "addr", addr)
	if err := server.Run(ctx, addr); err != nil && !errors.Is(err, http.ErrServerClosed) {
		return fmt.Errorf("server failed: %w", err)
	}
	return nil
}
