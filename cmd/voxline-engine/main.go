package main

import (
	"context"
	"os"
	"os/signal"
	"syscall"
	"time"

	cli "github.com/urfave/cli/v3"

	"github.com/voxline/voxline/pkg/log"
)

func main() {
	cmd := &cli.Command{
		Name:                  "voxline-engine",
		EnableShellCompletion: true,
		Usage:                 "Consume inbound events and execute tenant workflows",
		Flags: []cli.Flag{
			&cli.StringFlag{
				Name:    "data-path",
				Usage:   "Directory holding the JSON data store",
				Value:   "./data",
				Sources: cli.EnvVars("DATA_PATH"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus type (gochannel, kafka)",
				Value:   "gochannel",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "kafka-brokers",
				Usage:   "Comma-separated Kafka broker list",
				Sources: cli.EnvVars("KAFKA_BROKERS"),
			},
			&cli.StringFlag{
				Name:    "redis-url",
				Usage:   "Redis URL for the session store (in-memory store when empty)",
				Sources: cli.EnvVars("REDIS_URL"),
			},
			&cli.DurationFlag{
				Name:    "session-ttl",
				Usage:   "TTL for abandoned call sessions",
				Value:   4 * time.Hour,
				Sources: cli.EnvVars("SESSION_TTL"),
			},
			&cli.DurationFlag{
				Name:    "pace",
				Usage:   "Delay between workflow node executions",
				Value:   100 * time.Millisecond,
				Sources: cli.EnvVars("NODE_PACE"),
			},
			&cli.IntFlag{
				Name:    "metrics-port",
				Usage:   "Port for the Prometheus metrics endpoint (0 disables)",
				Value:   9090,
				Sources: cli.EnvVars("METRICS_PORT"),
			},
			&cli.BoolFlag{
				Name:    "tracing",
				Usage:   "Enable OpenTelemetry tracing (OTLP over HTTP)",
				Sources: cli.EnvVars("TRACING_ENABLED"),
			},
			&cli.StringFlag{
				Name:    "log-level",
				Usage:   "Log level (debug, info, warn, error)",
				Value:   "info",
				Sources: cli.EnvVars("LOG_LEVEL"),
			},
			&cli.StringFlag{
				Name:    "log-format",
				Usage:   "Log output format (text, json)",
				Value:   "text",
				Sources: cli.EnvVars("LOG_FORMAT"),
			},
		},
		Action: func(ctx context.Context, command *cli.Command) error {
			log.Setup(command.String("log-level"), command.String("log-format"))
			logger := log.WithModule("voxline-engine")

			ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			engine, err := NewEngine(ctx, logger, Config{
				DataPath:     command.String("data-path"),
				EventBus:     command.String("event-bus"),
				KafkaBrokers: command.String("kafka-brokers"),
				RedisURL:     command.String("redis-url"),
				SessionTTL:   command.Duration("session-ttl"),
				Pace:         command.Duration("pace"),
				MetricsPort:  int(command.Int("metrics-port")),
				Tracing:      command.Bool("tracing"),
			})
			if err != nil {
				return err
			}
			defer engine.Close(context.Background())

			return engine.Run(ctx)
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
