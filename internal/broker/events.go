package broker

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"storefront/internal/models"
	"storefront/internal/util"

	"github.com/google/uuid"
	"github.com/segmentio/kafka-go"
	"go.uber.org/zap"
)

// EventPublisher handles publishing domain events
type EventPublisher struct {
	producer *Producer
}

// NewEventPublisher creates a new event publisher
func NewEventPublisher(producer *Producer) *EventPublisher {
	return &EventPublisher{producer: producer}
}

// PublishPurchaseCompleted publishes PurchaseCompleted event
func (ep *EventPublisher) PublishPurchaseCompleted(ctx context.Context, event *models.PurchaseCompletedEvent) error {
	key := fmt.Sprintf("purchase-%d", event.PurchaseID)
	return ep.producer.PublishEvent(ctx, key, event)
}

// NotifyPurchase publishes a saved purchase
func (ep *EventPublisher) NotifyPurchase(ctx context.Context, purchase *models.Purchase) error {
	event, err := NewPurchaseCompletedEvent(purchase)
	if err != nil {
		return err
	}
	return ep.PublishPurchaseCompleted(ctx, event)
}

// NewPurchaseCompletedEvent builds the event for a saved purchase
func NewPurchaseCompletedEvent(purchase *models.Purchase) (*models.PurchaseCompletedEvent, error) {
	ids, err := purchase.ItemIDs()
	if err != nil {
		return nil, fmt.Errorf("invalid purchase items: %w", err)
	}

	return &models.PurchaseCompletedEvent{
		BaseEvent: models.BaseEvent{
			EventID:   uuid.New().String(),
			EventType: models.EventTypePurchaseCompleted,
			Timestamp: time.Now(),
		},
		PurchaseID:    purchase.ID,
		UserPhoneNumb: purchase.UserPhoneNumb,
		ProductIDs:    ids,
		TotalPrice:    purchase.TotalPrice,
		RegisterDate:  purchase.RegisterDate,
	}, nil
}

// EventHandler handles incoming events
type EventHandler struct {
	onPurchaseCompleted func(context.Context, *models.PurchaseCompletedEvent) error
}

// NewEventHandler creates a new event handler
func NewEventHandler() *EventHandler {
	return &EventHandler{}
}

// OnPurchaseCompleted registers a handler for PurchaseCompleted events
func (eh *EventHandler) OnPurchaseCompleted(handler func(context.Context, *models.PurchaseCompletedEvent) error) {
	eh.onPurchaseCompleted = handler
}

// HandleMessage routes messages to appropriate handlers
func (eh *EventHandler) HandleMessage(ctx context.Context, msg kafka.Message) error {
	var baseEvent models.BaseEvent
	if err := json.Unmarshal(msg.Value, &baseEvent); err != nil {
		return fmt.Errorf("failed to unmarshal base event: %w", err)
	}

	logger := util.GetLogger()
	logger.Debug("Handling event",
		zap.String("type", baseEvent.EventType),
		zap.String("id", baseEvent.EventID))

	switch baseEvent.EventType {
	case models.EventTypePurchaseCompleted:
		if eh.onPurchaseCompleted != nil {
			var event models.PurchaseCompletedEvent
			if err := json.Unmarshal(msg.Value, &event); err != nil {
				return fmt.Errorf("failed to unmarshal PurchaseCompleted event: %w", err)
			}
			return eh.onPurchaseCompleted(ctx, &event)
		}

	default:
		logger.Warn("Unhandled event type", zap.String("type", baseEvent.EventType))
	}

	return nil
}
