package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	pkgkafka "github.com/stasstaf/shopcart/pkg/kafka"

	"github.com/stasstaf/shopcart/internal/domain"
)

// Kafka topics for catalog and cart domain events.
const (
	TopicItemCreated = "shopcart.item.created"
	TopicItemDeleted = "shopcart.item.deleted"
	TopicCartUpdated = "shopcart.cart.updated"
)

const (
	aggregateTypeItem = "item"
	aggregateTypeCart = "cart"
	source            = "shopcart"
)

// ItemData is the payload for item events.
type ItemData struct {
	ID    int64   `json:"id"`
	Name  string  `json:"name"`
	Price float64 `json:"price"`
}

// CartUpdatedData is the payload for a cart.updated event.
type CartUpdatedData struct {
	ID            int64   `json:"id"`
	ItemCount     int     `json:"item_count"`
	TotalQuantity int     `json:"total_quantity"`
	Price         float64 `json:"price"`
}

// Producer publishes domain events to Kafka. A Producer constructed with a
// nil kafka producer is disabled and every publish is a no-op, so the service
// runs standalone without a broker.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates an event producer. Pass nil to disable publishing.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// Enabled reports whether events are actually published.
func (p *Producer) Enabled() bool {
	return p.kafka != nil
}

// PublishItemCreated publishes an item.created event.
func (p *Producer) PublishItemCreated(ctx context.Context, item *domain.Item) error {
	return p.publish(ctx, TopicItemCreated, item.ID, aggregateTypeItem, ItemData{
		ID:    item.ID,
		Name:  item.Name,
		Price: item.Price,
	})
}

// PublishItemDeleted publishes an item.deleted event.
func (p *Producer) PublishItemDeleted(ctx context.Context, item *domain.Item) error {
	return p.publish(ctx, TopicItemDeleted, item.ID, aggregateTypeItem, ItemData{
		ID:    item.ID,
		Name:  item.Name,
		Price: item.Price,
	})
}

// PublishCartUpdated publishes a cart.updated event.
func (p *Producer) PublishCartUpdated(ctx context.Context, cart *domain.Cart) error {
	return p.publish(ctx, TopicCartUpdated, cart.ID, aggregateTypeCart, CartUpdatedData{
		ID:            cart.ID,
		ItemCount:     len(cart.Items),
		TotalQuantity: cart.TotalQuantity(),
		Price:         cart.Price,
	})
}

func (p *Producer) publish(ctx context.Context, topic string, aggregateID int64, aggregateType string, data any) error {
	if p.kafka == nil {
		return nil
	}

	event, err := pkgkafka.NewEvent(topic, strconv.FormatInt(aggregateID, 10), aggregateType, source, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published event",
		slog.String("topic", topic),
		slog.Int64("aggregate_id", aggregateID),
	)

	return nil
}
