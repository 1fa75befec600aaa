package service

import (
	"context"
	"strings"

	"go.uber.org/zap"

	"github.com/spec-kit/lostfound-service/internal/config"
	"github.com/spec-kit/lostfound-service/internal/events"
)

// NotificationService handles emitting notifications for domain events.
type NotificationService struct {
	dispatcher events.Dispatcher
	logger     *zap.Logger
	cfg        config.NotificationConfig
	baseURL    string
	stops      []func()
}

// NewNotificationService creates the service. baseURL is used to build
// confirmation links.
func NewNotificationService(dispatcher events.Dispatcher, logger *zap.Logger, cfg config.NotificationConfig, baseURL string) *NotificationService {
	return &NotificationService{
		dispatcher: dispatcher,
		logger:     logger,
		cfg:        cfg,
		baseURL:    strings.TrimRight(baseURL, "/"),
	}
}

// RegisterHandlers subscribes to events.
func (n *NotificationService) RegisterHandlers() {
	if n.dispatcher == nil {
		return
	}
	n.stops = append(n.stops,
		n.dispatcher.Subscribe(events.EventUserRegistered, n.handleConfirmation),
		n.dispatcher.Subscribe(events.EventConfirmationResent, n.handleConfirmation),
		n.dispatcher.Subscribe(events.EventItemPosted, n.handleItemPosted),
		n.dispatcher.Subscribe(events.EventItemClaimed, n.handleItemClaimed),
		n.dispatcher.Subscribe(events.EventMessageReceived, n.handleMessageReceived),
	)
}

// Stop unsubscribes every handler registered by RegisterHandlers.
func (n *NotificationService) Stop() {
	for _, stop := range n.stops {
		stop()
	}
	n.stops = nil
}

func (n *NotificationService) handleConfirmation(ctx context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.ConfirmationPayload)
	n.logger.Info("ConfirmationRequested",
		zap.String("user_id", event.SubjectID),
		zap.String("event_type", string(event.Type)))
	n.sendEmailNotificationStub(ctx, event, payload.Email,
		zap.String("confirm_url", n.baseURL+"/auth/confirm?token="+payload.Token))
	return nil
}

func (n *NotificationService) handleItemPosted(ctx context.Context, event events.Event) error {
	n.logger.Info("ItemPosted", zap.String("item_id", event.SubjectID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleItemClaimed(ctx context.Context, event events.Event) error {
	n.logger.Info("ItemClaimToggled", zap.String("item_id", event.SubjectID), zap.Any("payload", event.Payload))
	n.sendWebhookNotificationStub(ctx, event)
	return nil
}

func (n *NotificationService) handleMessageReceived(ctx context.Context, event events.Event) error {
	payload, _ := event.Payload.(events.MessageReceivedPayload)
	n.logger.Info("MessageReceived",
		zap.String("message_id", event.SubjectID),
		zap.Bool("feedback", payload.Feedback))
	n.sendEmailNotificationStub(ctx, event, n.cfg.EmailFrom, zap.String("subject", payload.Subject))
	return nil
}

func (n *NotificationService) sendEmailNotificationStub(_ context.Context, event events.Event, to string, extra ...zap.Field) {
	if strings.TrimSpace(n.cfg.EmailFrom) == "" || strings.TrimSpace(to) == "" {
		return
	}
	fields := append([]zap.Field{
		zap.String("from", n.cfg.EmailFrom),
		zap.String("to", to),
		zap.String("subject_id", event.SubjectID),
		zap.String("event_type", string(event.Type)),
	}, extra...)
	n.logger.Debug("sendEmailNotificationStub", fields...)
}

func (n *NotificationService) sendWebhookNotificationStub(_ context.Context, event events.Event) {
	if strings.TrimSpace(n.cfg.WebhookURL) == "" {
		return
	}
	n.logger.Debug("sendWebhookNotificationStub",
		zap.String("url", n.cfg.WebhookURL),
		zap.String("subject_id", event.SubjectID),
		zap.String("event_type", string(event.Type)))
}
