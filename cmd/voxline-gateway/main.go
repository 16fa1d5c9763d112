package main

import (
	"context"
	"os"
	"strconv"

	cli "github.com/urfave/cli/v3"

	"github.com/voxline/voxline/pkg/log"
)

func main() {
	cmd := &cli.Command{
		Name:                  "voxline-gateway",
		EnableShellCompletion: true,
		Usage:                 "Accept provider callbacks and publish them onto the event bus",
		Flags: []cli.Flag{
			&cli.IntFlag{
				Name:    "port",
				Usage:   "HTTP listen port",
				Value:   8080,
				Sources: cli.EnvVars("PORT"),
			},
			&cli.StringFlag{
				Name:    "event-bus",
				Usage:   "Event bus type (gochannel, kafka)",
				Value:   "kafka",
				Sources: cli.EnvVars("EVENT_BUS_TYPE"),
			},
			&cli.StringFlag{
				Name:    "kafka-brokers",
				Usage:   "Comma-separated Kafka broker list",
				Sources: cli.EnvVars("KAFKA_BROKERS"),
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
			logger := log.WithModule("voxline-gateway")

			gateway, err := NewGateway(logger, command.String("event-bus"), command.String("kafka-brokers"))
			if err != nil {
				return err
			}
			defer gateway.Close()

			port := int(command.Int("port"))
			logger.InfoContext(ctx, "gateway listening", "port", port)

			return gateway.App().Listen(":" + strconv.Itoa(port))
		},
	}

	if err := cmd.Run(context.Background(), os.Args); err != nil {
		panic(err)
	}
}
