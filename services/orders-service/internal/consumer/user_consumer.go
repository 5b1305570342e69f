package consumer

import (
	"context"
	"errors"

	amqp "github.com/rabbitmq/amqp091-go"
	"go.uber.org/zap"

	"github.com/gabrielg4rrido/desafio-prog-web-2/pkg/events"
	"github.com/gabrielg4rrido/desafio-prog-web-2/services/orders-service/internal/cache"
)

var errEmptyID = errors.New("user event without id")

// DeliverySource hands out the delivery stream of one queue binding.
// Satisfied by mq.Consumer.
type DeliverySource interface {
	Deliveries(ctx context.Context) (<-chan amqp.Delivery, error)
}

// UserConsumer feeds the user cache from the durable queue. One message
// at a time: good payloads are upserted and acked, unparsable ones are
// nacked without requeue and lost (routed to the DLQ when one is
// configured on the queue).
type UserConsumer struct {
	cache *cache.UserCache
	cons  DeliverySource
	log   *zap.Logger
}

func NewUserConsumer(c *cache.UserCache, cons DeliverySource, log *zap.Logger) *UserConsumer {
	return &UserConsumer{cache: c, cons: cons, log: log}
}

// Run starts the consumption loop in its own goroutine and returns. The
// loop ends when ctx is cancelled or the delivery channel closes.
func (uc *UserConsumer) Run(ctx context.Context) error {
	msgs, err := uc.cons.Deliveries(ctx)
	if err != nil {
		return err
	}
	go func() {
		for {
			select {
			case <-ctx.Done():
				return
			case d, ok := <-msgs:
				if !ok {
					uc.log.Warn("delivery channel closed, consumer stopped")
					return
				}
				if err := uc.handle(d); err != nil {
					uc.log.Error("drop malformed user event",
						zap.String("key", d.RoutingKey), zap.Error(err))
					_ = d.Nack(false, false)
					continue
				}
				_ = d.Ack(false)
			}
		}
	}()
	return nil
}

func (uc *UserConsumer) handle(d amqp.Delivery) error {
	switch d.RoutingKey {
	case events.RKUserCreated, events.RKUserUpdated:
		u, err := events.Unmarshal[events.User](d.Body)
		if err != nil {
			return err
		}
		if u.ID == "" {
			return errEmptyID
		}
		uc.cache.Upsert(u)
		uc.log.Info("cached user from event",
			zap.String("key", d.RoutingKey), zap.String("user_id", u.ID))
	default:
		// not ours; ack and move on
		uc.log.Debug("skip unknown routing key", zap.String("key", d.RoutingKey))
	}
	return nil
}
