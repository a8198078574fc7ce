package event

import (
	"context"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/utafrali/catalog/internal/domain"
	pkgkafka "github.com/utafrali/catalog/pkg/kafka"
	"github.com/utafrali/catalog/pkg/logger"
)

// Kafka topic constants for product domain events.
const (
	TopicProductCreated = "catalog.product.created"
	TopicProductUpdated = "catalog.product.updated"
	TopicProductDeleted = "catalog.product.deleted"
)

// Aggregate type constant.
const AggregateTypeProduct = "product"

// SourceCatalogService identifies events originating from this service.
const SourceCatalogService = "catalog-service"

// ProductData is the payload of product.created and product.updated events.
type ProductData struct {
	ID              int64    `json:"id"`
	SellerID        int64    `json:"seller_id"`
	Title           string   `json:"title"`
	Price           string   `json:"price"`
	FinalPrice      string   `json:"final_price"`
	Stock           int      `json:"stock"`
	Category        *string  `json:"category,omitempty"`
	Brand           *string  `json:"brand,omitempty"`
	Tags            []string `json:"tags"`
	DiscountPercent int      `json:"discount_percent"`
	Featured        bool     `json:"featured"`
}

// ProductDeletedData is the payload for a product.deleted event.
type ProductDeletedData struct {
	ID int64 `json:"id"`
}

type publisher interface {
	Publish(ctx context.Context, topic string, event *pkgkafka.Event) error
}

// Producer publishes product domain events to Kafka.
type Producer struct {
	kafka  publisher
	logger *slog.Logger
}

// NewProducer creates a new event producer. kafka is normally a
// *pkgkafka.Producer.
func NewProducer(kafka publisher, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishProductCreated publishes a product.created event.
func (p *Producer) PublishProductCreated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductCreated, product.ID, productData(product))
}

// PublishProductUpdated publishes a product.updated event.
func (p *Producer) PublishProductUpdated(ctx context.Context, product *domain.Product) error {
	return p.publish(ctx, TopicProductUpdated, product.ID, productData(product))
}

// PublishProductDeleted publishes a product.deleted event.
func (p *Producer) PublishProductDeleted(ctx context.Context, id int64) error {
	return p.publish(ctx, TopicProductDeleted, id, ProductDeletedData{ID: id})
}

func (p *Producer) publish(ctx context.Context, topic string, id int64, data any) error {
	aggregateID := strconv.FormatInt(id, 10)

	event, err := pkgkafka.NewEvent(topic, aggregateID, AggregateTypeProduct, SourceCatalogService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}
	if cid := logger.CorrelationIDFromContext(ctx); cid != "" {
		event.WithCorrelationID(cid)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published product event",
		slog.String("topic", topic),
		slog.Int64("product_id", id),
	)
	return nil
}

func productData(p *domain.Product) ProductData {
	data := ProductData{
		ID:              p.ID,
		SellerID:        p.SellerID,
		Title:           p.Title,
		Price:           p.Price.StringFixed(2),
		FinalPrice:      p.FinalPrice().StringFixed(2),
		Stock:           p.Stock,
		Tags:            make([]string, 0, len(p.Tags)),
		DiscountPercent: p.DiscountPercent,
		Featured:        p.Featured,
	}
	if p.Category != nil {
		data.Category = &p.Category.Slug
	}
	if p.Brand != nil {
		data.Brand = &p.Brand.Slug
	}
	for _, t := range p.Tags {
		data.Tags = append(data.Tags, t.Slug)
	}
	return data
}
