package runs

import (
	"context"
	"encoding/json"
	"errors"

	gcppubsub "cloud.google.com/go/pubsub/v2"

	pkgerrors "github.com/angelmondragon/packfinderz-simulator/pkg/errors"
	"github.com/angelmondragon/packfinderz-simulator/pkg/logger"
)

// Consumer drains queued run requests from Pub/Sub and executes them.
type Consumer struct {
	subscription *gcppubsub.Subscriber
	service      Service
	logg         *logger.Logger
}

// NewConsumer wires the run-request consumer.
func NewConsumer(subscription *gcppubsub.Subscriber, service Service, logg *logger.Logger) (*Consumer, error) {
	if subscription == nil {
		return nil, errors.New("run request subscription is required")
	}
	if service == nil {
		return nil, errors.New("run service is required")
	}
	if logg == nil {
		return nil, errors.New("logger is required")
	}
	return &Consumer{
		subscription: subscription,
		service:      service,
		logg:         logg,
	}, nil
}

type processResult struct {
	nack bool
}

// Run starts consuming run requests until the context is canceled.
func (c *Consumer) Run(ctx context.Context) error {
	if ctx == nil {
		ctx = context.Background()
	}
	return c.subscription.Receive(ctx, func(innerCtx context.Context, msg *gcppubsub.Message) {
		if c.process(innerCtx, msg).nack {
			msg.Nack()
			return
		}
		msg.Ack()
	})
}

func (c *Consumer) process(ctx context.Context, msg *gcppubsub.Message) processResult {
	fields := map[string]any{"message_id": msg.ID}
	logCtx := c.logg.WithFields(ctx, fields)

	var input RunScenarioInput
	if err := json.Unmarshal(msg.Data, &input); err != nil {
		// Malformed requests will never succeed; drop them.
		c.logg.Warn(logCtx, "invalid run request payload")
		return processResult{}
	}

	fields["scenario"] = input.Scenario.Name
	fields["venue_id"] = input.VenueID
	logCtx = c.logg.WithFields(ctx, fields)

	if _, err := c.service.RunScenario(logCtx, input); err != nil {
		if appErr := pkgerrors.As(err); appErr != nil && !pkgerrors.MetadataFor(appErr.Code()).Retryable {
			c.logg.Warn(logCtx, "dropping unretryable run request: "+appErr.Message())
			return processResult{}
		}
		c.logg.Error(logCtx, "run request failed", err)
		return processResult{nack: true}
	}

	c.logg.Info(logCtx, "queued run completed")
	return processResult{}
}
