// Copyright The WellnessHQ Authors.
// SPDX-License-Identifier: MIT

// Package messaging publishes meeting lifecycle events over NATS so that
// collaborating services (class schedulers, notification senders) can
// react without polling.
package messaging

import (
	"context"
	"encoding/json"
	"log/slog"

	"github.com/wellnesshq/meeting-pool-service/internal/domain"
	"github.com/wellnesshq/meeting-pool-service/internal/domain/models"
	"github.com/wellnesshq/meeting-pool-service/internal/logging"
)

// NATS subjects for meeting lifecycle events.
const (
	MeetingCreatedSubject = "meeting-pool.meeting.created"
	MeetingEndedSubject   = "meeting-pool.meeting.ended"
)

// INatsConn is the NATS connection interface needed by the MessageBuilder.
type INatsConn interface {
	IsConnected() bool
	Publish(subj string, data []byte) error
}

// MessageBuilder builds lifecycle event messages and sends them to the
// NATS server.
type MessageBuilder struct {
	NatsConn INatsConn
}

// NewMessageBuilder creates a new MessageBuilder.
func NewMessageBuilder(natsConn INatsConn) *MessageBuilder {
	return &MessageBuilder{
		NatsConn: natsConn,
	}
}

// SendMeetingCreated publishes a meeting-created event.
func (m *MessageBuilder) SendMeetingCreated(ctx context.Context, event *models.MeetingEvent) error {
	return m.sendEvent(ctx, MeetingCreatedSubject, event)
}

// SendMeetingEnded publishes a meeting-ended event.
func (m *MessageBuilder) SendMeetingEnded(ctx context.Context, event *models.MeetingEvent) error {
	return m.sendEvent(ctx, MeetingEndedSubject, event)
}

func (m *MessageBuilder) sendEvent(ctx context.Context, subject string, event *models.MeetingEvent) error {
	data, err := json.Marshal(event)
	if err != nil {
		slog.ErrorContext(ctx, "error marshalling meeting event", logging.ErrKey, err, "subject", subject)
		return err
	}

	if err := m.NatsConn.Publish(subject, data); err != nil {
		slog.ErrorContext(ctx, "error sending message to NATS", logging.ErrKey, err, "subject", subject)
		return err
	}

	slog.DebugContext(ctx, "sent message to NATS", "subject", subject, "meeting_id", event.MeetingID)
	return nil
}

var _ domain.MessageBuilder = (*MessageBuilder)(nil)
