package main

import (
	"fmt"
	"log/slog"
	"strings"

	"github.com/ThreeDotsLabs/watermill"
	"github.com/ThreeDotsLabs/watermill/pubsub/gochannel"
	"github.com/gofiber/fiber/v3"
	"github.com/gofiber/fiber/v3/middleware/cors"
	"github.com/gofiber/fiber/v3/middleware/healthcheck"
	fiberlogger "github.com/gofiber/fiber/v3/middleware/logger"

	"github.com/voxline/voxline/pkg/channels/kafka"
	"github.com/voxline/voxline/pkg/eventbus"
	"github.com/voxline/voxline/pkg/web"
)

type Gateway struct {
	logger *slog.Logger
	bus    eventbus.EventBus
}

func NewGateway(logger *slog.Logger, busType, kafkaBrokers string) (*Gateway, error) {
	bus, err := newEventBus(busType, kafkaBrokers, logger)
	if err != nil {
		return nil, err
	}

	return &Gateway{logger: logger, bus: bus}, nil
}

func (g *Gateway) App() *fiber.App {
	handlers := web.NewGatewayHandlers(g.bus, g.logger)

	app := fiber.New()
	app.Use(cors.New())
	app.Use(fiberlogger.New(fiberlogger.Config{
		DisableColors: true,
	}))

	app.Get(healthcheck.DefaultLivenessEndpoint, healthcheck.NewHealthChecker())
	app.Get(healthcheck.DefaultReadinessEndpoint, healthcheck.NewHealthChecker())

	app.Get("/", func(c fiber.Ctx) error {
		return c.SendString("Voxline Gateway")
	})

	callbacks := app.Group("/callbacks")
	callbacks.Post("/messages", handlers.ReceiveMessage)
	callbacks.Post("/calls/incoming", handlers.ReceiveIncomingCall)
	callbacks.Post("/calls/:callId/transcription", handlers.ReceiveTranscription)
	callbacks.Post("/calls/:callId/speak-ended", handlers.ReceiveSpeakEnded)
	callbacks.Post("/webhooks/:source", handlers.ReceiveWebhook)

	app.Get("/condition-fields", handlers.GetConditionFields)

	return app
}

func (g *Gateway) Close() {
	if err := g.bus.Close(); err != nil {
		g.logger.Error("failed to close event bus", "error", err)
	}
}

func newEventBus(busType, kafkaBrokers string, logger *slog.Logger) (eventbus.EventBus, error) {
	switch busType {
	case "kafka":
		pub, sub, err := kafka.CreateChannel(watermill.NewSlogLogger(logger), "voxline-gateway", strings.Split(kafkaBrokers, ","))
		if err != nil {
			return nil, fmt.Errorf("failed to create Kafka pub/sub: %w", err)
		}

		return eventbus.NewWatermillEventBus(pub, sub), nil
	case "gochannel":
		channel := gochannel.NewGoChannel(gochannel.Config{}, watermill.NewSlogLogger(logger))

		return eventbus.NewWatermillEventBus(channel, channel), nil
	default:
		return nil, fmt.Errorf("unsupported event bus type: %s", busType)
	}
}
