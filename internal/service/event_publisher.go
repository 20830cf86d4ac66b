package service

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/twmb/franz-go/pkg/kgo"

	"github.com/NTAravind/Eustress/internal/domain"
)

// Registration event types
const (
	EventRegistrationCreated   = "registration.created"
	EventRegistrationCancelled = "registration.cancelled"
	EventWorkshopCancelled     = "workshop.cancelled"
)

// RegistrationEvent is the envelope published for every booking change
type RegistrationEvent struct {
	EventID        string    `json:"event_id"`
	EventType      string    `json:"event_type"`
	RegistrationID string    `json:"registration_id,omitempty"`
	UserID         string    `json:"user_id,omitempty"`
	WorkshopID     string    `json:"workshop_id"`
	Seats          int       `json:"seats,omitempty"`
	PaymentMethod  string    `json:"payment_method,omitempty"`
	Timestamp      time.Time `json:"timestamp"`
}

// EventPublisher defines the interface for publishing registration events
type EventPublisher interface {
	// PublishRegistrationCreated publishes a registration created event
	PublishRegistrationCreated(ctx context.Context, reg *domain.Registration) error

	// PublishRegistrationCancelled publishes a registration cancelled event
	PublishRegistrationCancelled(ctx context.Context, reg *domain.Registration) error

	// PublishWorkshopCancelled publishes a workshop cancelled event
	PublishWorkshopCancelled(ctx context.Context, workshopID string) error

	// Close closes the event publisher
	Close() error
}

// KafkaEventPublisher implements EventPublisher using Kafka
type KafkaEventPublisher struct {
	client      *kgo.Client
	topic       string
	serviceName string
}

// EventPublisherConfig contains configuration for the event publisher
type EventPublisherConfig struct {
	Brokers     []string
	Topic       string
	ServiceName string
	ClientID    string
}

// NewKafkaEventPublisher creates a new Kafka event publisher
func NewKafkaEventPublisher(ctx context.Context, cfg *EventPublisherConfig) (*KafkaEventPublisher, error) {
	if cfg == nil {
		return nil, fmt.Errorf("event publisher config is required")
	}
	if len(cfg.Brokers) == 0 {
		return nil, fmt.Errorf("kafka brokers are required")
	}

	topic := cfg.Topic
	if topic == "" {
		topic = "registration-events"
	}
	serviceName := cfg.ServiceName
	if serviceName == "" {
		serviceName = "eustress-api"
	}
	clientID := cfg.ClientID
	if clientID == "" {
		clientID = "eustress-api-producer"
	}

	client, err := kgo.NewClient(
		kgo.SeedBrokers(cfg.Brokers...),
		kgo.ClientID(clientID),
		kgo.ProducerLinger(10*time.Millisecond),
		kgo.RecordRetries(3),
	)
	if err != nil {
		return nil, fmt.Errorf("failed to create kafka client: %w", err)
	}

	if err := client.Ping(ctx); err != nil {
		client.Close()
		return nil, fmt.Errorf("failed to reach kafka brokers: %w", err)
	}

	return &KafkaEventPublisher{
		client:      client,
		topic:       topic,
		serviceName: serviceName,
	}, nil
}

// PublishRegistrationCreated publishes a registration created event
func (p *KafkaEventPublisher) PublishRegistrationCreated(ctx context.Context, reg *domain.Registration) error {
	return p.publish(ctx, &RegistrationEvent{
		EventType:      EventRegistrationCreated,
		RegistrationID: reg.ID,
		UserID:         reg.UserID,
		WorkshopID:     reg.WorkshopID,
		Seats:          reg.Seats,
		PaymentMethod:  reg.PaymentMethod,
	})
}

// PublishRegistrationCancelled publishes a registration cancelled event
func (p *KafkaEventPublisher) PublishRegistrationCancelled(ctx context.Context, reg *domain.Registration) error {
	return p.publish(ctx, &RegistrationEvent{
		EventType:      EventRegistrationCancelled,
		RegistrationID: reg.ID,
		UserID:         reg.UserID,
		WorkshopID:     reg.WorkshopID,
		Seats:          reg.Seats,
	})
}

// PublishWorkshopCancelled publishes a workshop cancelled event
func (p *KafkaEventPublisher) PublishWorkshopCancelled(ctx context.Context, workshopID string) error {
	return p.publish(ctx, &RegistrationEvent{
		EventType:  EventWorkshopCancelled,
		WorkshopID: workshopID,
	})
}

// Close closes the event publisher
func (p *KafkaEventPublisher) Close() error {
	if p.client != nil {
		p.client.Close()
	}
	return nil
}

func (p *KafkaEventPublisher) publish(ctx context.Context, event *RegistrationEvent) error {
	event.EventID = uuid.New().String()
	event.Timestamp = time.Now()

	value, err := json.Marshal(event)
	if err != nil {
		return fmt.Errorf("failed to marshal event: %w", err)
	}

	record := &kgo.Record{
		Topic: p.topic,
		// Key by workshop so consumers see one workshop's events in order
		Key:   []byte(event.WorkshopID),
		Value: value,
		Headers: []kgo.RecordHeader{
			{Key: "event_type", Value: []byte(event.EventType)},
			{Key: "event_id", Value: []byte(event.EventID)},
			{Key: "source", Value: []byte(p.serviceName)},
			{Key: "content_type", Value: []byte("application/json")},
		},
	}

	if err := p.client.ProduceSync(ctx, record).FirstErr(); err != nil {
		return fmt.Errorf("failed to publish %s event: %w", event.EventType, err)
	}

	return nil
}

// NoOpEventPublisher is a no-op implementation of EventPublisher used when
// Kafka is disabled and in tests
type NoOpEventPublisher struct{}

// NewNoOpEventPublisher creates a new no-op event publisher
func NewNoOpEventPublisher() *NoOpEventPublisher {
	return &NoOpEventPublisher{}
}

// PublishRegistrationCreated is a no-op
func (p *NoOpEventPublisher) PublishRegistrationCreated(ctx context.Context, reg *domain.Registration) error {
	return nil
}

// PublishRegistrationCancelled is a no-op
func (p *NoOpEventPublisher) PublishRegistrationCancelled(ctx context.Context, reg *domain.Registration) error {
	return nil
}

// PublishWorkshopCancelled is a no-op
func (p *NoOpEventPublisher) PublishWorkshopCancelled(ctx context.Context, workshopID string) error {
	return nil
}

// Close is a no-op
func (p *NoOpEventPublisher) Close() error {
	return nil
}
