package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"strings"
	"time"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/prometheus/client_golang/prometheus/promhttp"
	"github.com/redis/go-redis/v9"
	"go.opentelemetry.io/otel/trace"

	"github.com/voxline/voxline/pkg/channels/kafka"
	"github.com/voxline/voxline/pkg/eventbus"
	"github.com/voxline/voxline/pkg/persistence"
	"github.com/voxline/voxline/pkg/persistence/file"
	"github.com/voxline/voxline/pkg/protocol"
	"github.com/voxline/voxline/pkg/providers/console"
	"github.com/voxline/voxline/pkg/registry"
	"github.com/voxline/voxline/pkg/schedule"
	"github.com/voxline/voxline/pkg/session"
	"github.com/voxline/voxline/pkg/trigger"
	"github.com/voxline/voxline/pkg/workflow"
)

type Config struct {
	DataPath     string
	EventBus     string
	KafkaBrokers string
	RedisURL     string
	SessionTTL   time.Duration
	Pace         time.Duration
	MetricsPort  int
	Tracing      bool
}

type Engine struct {
	config      Config
	logger      *slog.Logger
	persistence persistence.Persistence
	sessions    session.Store
	bus         eventbus.EventBus
	resolver    *trigger.Resolver
	collab      *protocol.Collaborators
	receiver    *schedule.Receiver
}

func NewEngine(ctx context.Context, logger *slog.Logger, config Config) (*Engine, error) {
	store := file.NewPersistence(config.DataPath)

	sessions, err := newSessionStore(config)
	if err != nil {
		return nil, err
	}

	var tracer trace.Tracer

	if config.Tracing {
		tracer, err = otelTracer(ctx)
		if err != nil {
			return nil, fmt.Errorf("failed to set up tracing: %w", err)
		}
	}

	providers := console.New(logger)
	collab := &protocol.Collaborators{
		Telephony:     providers,
		TextGen:       providers,
		Knowledge:     providers,
		Email:         providers,
		Calendar:      providers,
		Mail:          providers,
		Drive:         providers,
		Sheets:        providers,
		CRM:           providers,
		Messages:      providers,
		Conversations: store.Conversations(),
		Sessions:      sessions,
		Tenants:       store.Tenants(),
		WorkflowStore: store.Workflows(),
	}

	executor := workflow.NewExecutor(registry.NewDefaultRegistry(logger, collab), logger, tracer).
		WithPace(config.Pace)

	resolver := trigger.NewResolver(store, sessions, executor, collab, logger)
	if tracer != nil {
		resolver = resolver.WithTracer(tracer)
	}

	bus, err := newEventBus(config, logger)
	if err != nil {
		return nil, err
	}

	return &Engine{
		config:      config,
		logger:      logger,
		persistence: store,
		sessions:    sessions,
		bus:         bus,
		resolver:    resolver,
		collab:      collab,
		receiver:    schedule.NewReceiver(store, bus, logger),
	}, nil
}

// Run registers the event handlers and blocks until the context is
// cancelled.
func (e *Engine) Run(ctx context.Context) error {
	e.registerHandlers(ctx)

	if err := e.bus.Subscribe(ctx); err != nil {
		return fmt.Errorf("failed to subscribe to event bus: %w", err)
	}

	if err := e.receiver.Start(ctx); err != nil {
		return fmt.Errorf("failed to start schedule receiver: %w", err)
	}

	if e.config.MetricsPort > 0 {
		go e.serveMetrics()
	}

	e.logger.Info("engine started", "event_bus", e.config.EventBus, "data_path", e.config.DataPath)

	<-ctx.Done()
	e.logger.Info("shutting down")

	return nil
}

func (e *Engine) Close(ctx context.Context) {
	e.receiver.Stop()

	if err := e.bus.Close(); err != nil {
		e.logger.Error("failed to close event bus", "error", err)
	}

	if err := e.sessions.Close(); err != nil {
		e.logger.Error("failed to close session store", "error", err)
	}

	if err := e.persistence.Close(ctx); err != nil {
		e.logger.Error("failed to close persistence", "error", err)
	}
}

func (e *Engine) serveMetrics() {
	mux := http.NewServeMux()
	mux.Handle("/metrics", promhttp.Handler())

	addr := fmt.Sprintf(":%d", e.config.MetricsPort)
	e.logger.Info("metrics endpoint listening", "addr", addr)

	if err := http.ListenAndServe(addr, mux); err != nil {
		e.logger.Error("metrics server stopped", "error", err)
	}
}

func newSessionStore(config Config) (session.Store, error) {
	if config.RedisURL == "" {
		return session.NewMemoryStore(config.SessionTTL), nil
	}

	opts, err := redis.ParseURL(config.RedisURL)
	if err != nil {
		return nil, fmt.Errorf("invalid redis URL: %w", err)
	}

	return session.NewRedisStore(redis.NewClient(opts), config.SessionTTL), nil
}

func newEventBus(config Config, logger *slog.Logger) (eventbus.EventBus, error) {
	switch config.EventBus {
	case "kafka":
		brokers := strings.Split(config.KafkaBrokers, ",")

		pub, sub, err := kafka.CreateChannel(watermill.NewSlogLogger(logger), "voxline", brokers)
		if err != nil {
			return nil, fmt.Errorf("failed to create Kafka pub/sub: %w", err)
		}

		return eventbus.NewWatermillEventBus(pub, sub), nil
	case "gochannel":
		channel := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewSlogLogger(logger))

		return eventbus.NewWatermillEventBus(channel, channel), nil
	default:
		return nil, fmt.Errorf("unsupported event bus type: %s", config.EventBus)
	}
}
