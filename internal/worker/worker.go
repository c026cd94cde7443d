package worker

import (
	"context"
	"encoding/json"

	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"

	"robostore/internal/broker"
	"robostore/internal/models"
	"robostore/internal/util"
)

// OrderEventsWorker consumes order events and records them for audit.
// Fulfillment itself lives outside this service; the worker only keeps an
// observable trail of what was published.
type OrderEventsWorker struct {
	consumer *broker.Consumer
	logger   *zap.Logger
}

// NewOrderEventsWorker creates a new order events worker
func NewOrderEventsWorker(consumer *broker.Consumer) *OrderEventsWorker {
	return &OrderEventsWorker{
		consumer: consumer,
		logger:   util.GetLogger(),
	}
}

// Start starts the worker
func (w *OrderEventsWorker) Start(ctx context.Context) error {
	return w.consumer.StartConsuming(ctx, w.handleMessage)
}

// Stop stops the worker
func (w *OrderEventsWorker) Stop() error {
	return w.consumer.Close()
}

func (w *OrderEventsWorker) handleMessage(ctx context.Context, msg kafka.Message) error {
	var base models.BaseEvent
	if err := json.Unmarshal(msg.Value, &base); err != nil {
		w.logger.Warn("Discarding unparseable event", zap.Error(err))
		return nil
	}

	util.OrderEventsConsumedTotal.WithLabelValues(base.EventType).Inc()

	switch base.EventType {
	case models.EventTypeOrderCreated:
		var event models.OrderCreatedEvent
		if err := json.Unmarshal(msg.Value, &event); err != nil {
			w.logger.Warn("Discarding malformed OrderCreated event", zap.Error(err))
			return nil
		}
		w.logger.Info("Order created",
			zap.String("order_id", event.OrderID),
			zap.String("user_id", event.UserID),
			zap.Float64("total_amount", event.TotalAmount),
			zap.Int("item_count", len(event.Items)))
	default:
		w.logger.Debug("Ignoring event", zap.String("type", base.EventType))
	}

	return nil
}
