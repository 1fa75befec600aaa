package service

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
	"go.uber.org/zap"
	"go.uber.org/zap/zapcore"
	"go.uber.org/zap/zaptest/observer"

	"github.com/spec-kit/lostfound-service/internal/config"
	"github.com/spec-kit/lostfound-service/internal/events"
)

func TestNotificationServiceConfirmationLink(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	dispatcher := events.NewInMemoryDispatcher()
	n := NewNotificationService(dispatcher, zap.New(core), config.NotificationConfig{
		EmailFrom: "noreply@tracecloud.rit.edu",
	}, "http://lostfound.test/")
	n.RegisterHandlers()

	err := dispatcher.Publish(context.Background(), events.NewEvent(events.EventUserRegistered, "u-1", nil, events.ConfirmationPayload{
		Email: "ravi@student.rit.edu",
		Token: "tok-1",
	}))
	require.NoError(t, err)

	sent := logs.FilterMessage("sendEmailNotificationStub").All()
	require.Len(t, sent, 1)
	fields := sent[0].ContextMap()
	assert.Equal(t, "ravi@student.rit.edu", fields["to"])
	assert.Equal(t, "http://lostfound.test/auth/confirm?token=tok-1", fields["confirm_url"])

	n.Stop()
	require.NoError(t, dispatcher.Publish(context.Background(), events.NewEvent(events.EventUserRegistered, "u-2", nil, events.ConfirmationPayload{
		Email: "meera@student.rit.edu",
	})))
	assert.Len(t, logs.FilterMessage("sendEmailNotificationStub").All(), 1)
}

func TestNotificationServiceSkipsWebhookWithoutURL(t *testing.T) {
	core, logs := observer.New(zapcore.DebugLevel)
	dispatcher := events.NewInMemoryDispatcher()
	n := NewNotificationService(dispatcher, zap.New(core), config.NotificationConfig{}, "http://lostfound.test")
	n.RegisterHandlers()
	defer n.Stop()

	require.NoError(t, dispatcher.Publish(context.Background(), events.NewEvent(events.EventItemPosted, "item-1", nil, events.ItemPostedPayload{Title: "Umbrella"})))
	assert.Equal(t, 1, logs.FilterMessage("ItemPosted").Len())
	assert.Zero(t, logs.FilterMessage("sendWebhookNotificationStub").Len())
}
