package event

import (
	"context"
	"fmt"
	"log/slog"

	"github.com/vouchwall/testimonial-service/internal/domain"
	pkgkafka "github.com/vouchwall/testimonial-service/pkg/kafka"
)

// Kafka topics for testimonial and customer domain events.
var (
	TopicTestimonialCreated = pkgkafka.Topic("testimonial", "created")
	TopicTestimonialUpdated = pkgkafka.Topic("testimonial", "updated")
	TopicTestimonialDeleted = pkgkafka.Topic("testimonial", "deleted")
	TopicCustomerCreated    = pkgkafka.Topic("customer", "created")
)

// Aggregate type constants.
const (
	AggregateTypeTestimonial = "testimonial"
	AggregateTypeCustomer    = "customer"
)

// Source identifier for events originating from this service.
const SourceTestimonialService = "testimonial-service"

// TestimonialEventData is the payload for testimonial lifecycle events.
type TestimonialEventData struct {
	ID         string  `json:"id"`
	ProjectID  string  `json:"project_id"`
	CustomerID *string `json:"customer_id,omitempty"`
	Type       string  `json:"type"`
	Status     string  `json:"status"`
}

// TestimonialDeletedData is the payload for a testimonial.deleted event.
type TestimonialDeletedData struct {
	ID        string `json:"id"`
	ProjectID string `json:"project_id"`
}

// CustomerCreatedData is the payload for a customer.created event.
type CustomerCreatedData struct {
	ID        string  `json:"id"`
	ProjectID string  `json:"project_id"`
	Email     *string `json:"email,omitempty"`
}

// Producer publishes testimonial domain events to Kafka.
type Producer struct {
	kafka  *pkgkafka.Producer
	logger *slog.Logger
}

// NewProducer creates a new event producer.
func NewProducer(kafka *pkgkafka.Producer, logger *slog.Logger) *Producer {
	return &Producer{
		kafka:  kafka,
		logger: logger,
	}
}

// PublishTestimonialCreated publishes a testimonial.created event.
func (p *Producer) PublishTestimonialCreated(ctx context.Context, t *domain.Testimonial) error {
	return p.publishTestimonial(ctx, TopicTestimonialCreated, t)
}

// PublishTestimonialUpdated publishes a testimonial.updated event.
func (p *Producer) PublishTestimonialUpdated(ctx context.Context, t *domain.Testimonial) error {
	return p.publishTestimonial(ctx, TopicTestimonialUpdated, t)
}

func (p *Producer) publishTestimonial(ctx context.Context, topic string, t *domain.Testimonial) error {
	data := TestimonialEventData{
		ID:         t.ID,
		ProjectID:  t.ProjectID,
		CustomerID: t.CustomerID,
		Type:       t.Type,
		Status:     t.Status,
	}

	event, err := pkgkafka.NewEvent(topic, t.ID, AggregateTypeTestimonial, SourceTestimonialService, data)
	if err != nil {
		return fmt.Errorf("create %s event: %w", topic, err)
	}

	if err := p.kafka.Publish(ctx, topic, event); err != nil {
		return fmt.Errorf("publish %s event: %w", topic, err)
	}

	p.logger.DebugContext(ctx, "published testimonial event",
		slog.String("topic", topic),
		slog.String("testimonial_id", t.ID),
		slog.String("project_id", t.ProjectID),
	)

	return nil
}

// PublishTestimonialDeleted publishes a testimonial.deleted event.
func (p *Producer) PublishTestimonialDeleted(ctx context.Context, projectID, id string) error {
	data := TestimonialDeletedData{ID: id, ProjectID: projectID}

	event, err := pkgkafka.NewEvent(TopicTestimonialDeleted, id, AggregateTypeTestimonial, SourceTestimonialService, data)
	if err != nil {
		return fmt.Errorf("create testimonial.deleted event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicTestimonialDeleted, event); err != nil {
		return fmt.Errorf("publish testimonial.deleted event: %w", err)
	}

	p.logger.DebugContext(ctx, "published testimonial.deleted event",
		slog.String("testimonial_id", id),
		slog.String("project_id", projectID),
	)

	return nil
}

// PublishCustomerCreated publishes a customer.created event.
func (p *Producer) PublishCustomerCreated(ctx context.Context, c *domain.Customer) error {
	data := CustomerCreatedData{
		ID:        c.ID,
		ProjectID: c.ProjectID,
		Email:     c.Email,
	}

	event, err := pkgkafka.NewEvent(TopicCustomerCreated, c.ID, AggregateTypeCustomer, SourceTestimonialService, data)
	if err != nil {
		return fmt.Errorf("create customer.created event: %w", err)
	}

	if err := p.kafka.Publish(ctx, TopicCustomerCreated, event); err != nil {
		return fmt.Errorf("publish customer.created event: %w", err)
	}

	p.logger.DebugContext(ctx, "published customer.created event",
		slog.String("customer_id", c.ID),
		slog.String("project_id", c.ProjectID),
	)

	return nil
}
