package main

import (
	"context"
	"encoding/json"
	"log"
	"os"
	"os/signal"
	"syscall"

	"github.com/gartstein/companyd/internal/company/config"
	"github.com/gartstein/companyd/internal/company/controller"
	"github.com/gartstein/companyd/internal/company/db"
	"github.com/gartstein/companyd/internal/company/domain"
	"github.com/gartstein/companyd/internal/company/events"
	"github.com/gartstein/companyd/internal/company/handlers"
	"go.uber.org/zap"
)

func main() {
	logger := initLogger()
	defer func(logger *zap.Logger) {
		err := logger.Sync()
		if err != nil {
			logger.Error("failed to sync logger", zap.Error(err))
		}
	}(logger)

	cfg, err := config.Load(configPath())
	if err != nil {
		logger.Fatal("failed to load config", zap.Error(err))
	}

	repo, err := db.NewRepository(initDatabase(cfg))
	if err != nil {
		log.Fatal("failed to initialize database", err)
	}
	defer repo.Close()

	dispatcher := events.NewDispatcher(cfg.Events.Enabled, logger)
	registerHandlers(dispatcher, cfg, logger)

	var forwarder *events.Forwarder
	var consumer *events.Consumer
	if cfg.Events.Enabled && cfg.Events.Backend == config.BackendKafka {
		forwarder, err = events.NewForwarder(
			cfg.Events.Brokers,
			cfg.Events.Topic,
			cfg.Events.QueueSize,
			cfg.Events.FallbackLimit,
			logger,
		)
		if err != nil {
			logger.Fatal("failed to initialize Kafka forwarder", zap.Error(err))
		}
		defer forwarder.Close()

		subscribeForwarder(dispatcher, forwarder, logger)

		if cfg.Events.GroupID != "" {
			consumer = events.NewConsumer(cfg.Events.Brokers, cfg.Events.Topic, cfg.Events.GroupID, logger)
			consumer.RegisterHandler(logEnvelope(logger))
			ctx, cancel := context.WithCancel(context.Background())
			defer cancel()
			consumer.Start(ctx)
			defer consumer.Close()
		}
	}

	companySvc := controller.NewCompanyService(repo, dispatcher, logger)
	companyHandler := handlers.NewCompanyHandler(companySvc, logger)

	server := handlers.NewServer(
		cfg.Server.Port,
		companyHandler.Routes(cfg.Auth.JWTSecret),
		cfg.Server.ReadTimeout,
		cfg.Server.WriteTimeout,
		logger,
	)

	errChan := make(chan error, 1)
	go func() {
		errChan <- server.Start()
	}()

	waitForShutdown(server, cfg, errChan, logger)
}

// initLogger initializes a Zap production logger.
func initLogger() *zap.Logger {
	logger, _ := zap.NewProduction()
	return logger
}

func configPath() string {
	if path := os.Getenv("COMPANYD_CONFIG"); path != "" {
		return path
	}
	return "configs/config.yaml"
}

// initDatabase maps config to the repository connection settings.
func initDatabase(cfg *config.Config) *db.Config {
	return &db.Config{
		Host:            cfg.Database.Host,
		Port:            cfg.Database.Port,
		User:            cfg.Database.User,
		Password:        cfg.Database.Password,
		DBName:          cfg.Database.DBName,
		SSLMode:         cfg.Database.SSLMode,
		MaxOpenConns:    cfg.Database.MaxOpenConns,
		MaxIdleConns:    cfg.Database.MaxIdleConns,
		ConnMaxLifetime: cfg.Database.ConnMaxLifetime,
	}
}

// registerHandlers wires the in-process subscribers. Registration happens
// once at startup; the dispatcher is read-only afterwards.
func registerHandlers(dispatcher *events.Dispatcher, _ *config.Config, logger *zap.Logger) {
	subs := []struct {
		event   string
		handler events.Handler
		opts    []events.SubscribeOption
	}{
		{domain.EventCompanyCreated, events.NewCreatedLogger(logger), []events.SubscribeOption{events.WithPriority(10)}},
		{domain.EventCompanyUpdated, events.NewUpdatedLogger(logger), []events.SubscribeOption{events.WithPriority(10)}},
	}
	for _, s := range subs {
		if err := dispatcher.Subscribe(s.event, s.handler, s.opts...); err != nil {
			logger.Warn("handler registration skipped",
				zap.String("event", s.event),
				zap.Error(err),
			)
		}
	}
}

// subscribeForwarder attaches the Kafka forwarder to both company events,
// async so broker latency never blocks a request.
func subscribeForwarder(dispatcher *events.Dispatcher, forwarder *events.Forwarder, logger *zap.Logger) {
	for _, event := range []string{domain.EventCompanyCreated, domain.EventCompanyUpdated} {
		if err := dispatcher.Subscribe(event, forwarder, events.WithAsync()); err != nil {
			logger.Warn("forwarder registration skipped",
				zap.String("event", event),
				zap.Error(err),
			)
		}
	}
}

// logEnvelope is the consumer-side stand-in handler: it decodes the payload
// enough to log the fact.
func logEnvelope(logger *zap.Logger) func(context.Context, events.Envelope) error {
	log := logger.Named("consumed_events")
	return func(_ context.Context, env events.Envelope) error {
		var payload map[string]interface{}
		if err := json.Unmarshal(env.Payload, &payload); err != nil {
			return err
		}
		log.Info("Consumed company event",
			zap.String("event", env.EventName),
			zap.Any("payload", payload),
		)
		return nil
	}
}

// waitForShutdown blocks until an interrupt, SIGTERM or server error,
// then shuts the server down.
func waitForShutdown(server *handlers.Server, cfg *config.Config, errChan <-chan error, logger *zap.Logger) {
	stop := make(chan os.Signal, 1)
	signal.Notify(stop, os.Interrupt, syscall.SIGTERM)

	select {
	case <-stop:
	case err := <-errChan:
		if err != nil {
			logger.Error("server error", zap.Error(err))
		}
	}

	server.Stop(cfg.Server.ShutdownTimeout)
	logger.Info("Server stopped properly")
}
