// Copyright The WellnessHQ Authors.
// SPDX-License-Identifier: MIT

package messaging

import (
	"context"
	"log/slog"

	"github.com/wellnesshq/meeting-pool-service/internal/domain"
	"github.com/wellnesshq/meeting-pool-service/internal/domain/models"
)

// NoopMessageBuilder is used when NATS is not configured: events are
// logged and dropped, meeting operations proceed normally.
type NoopMessageBuilder struct{}

// SendMeetingCreated logs and drops the event.
func (n *NoopMessageBuilder) SendMeetingCreated(ctx context.Context, event *models.MeetingEvent) error {
	slog.DebugContext(ctx, "messaging disabled, dropping meeting-created event", "meeting_id", event.MeetingID)
	return nil
}

// SendMeetingEnded logs and drops the event.
func (n *NoopMessageBuilder) SendMeetingEnded(ctx context.Context, event *models.MeetingEvent) error {
	slog.DebugContext(ctx, "messaging disabled, dropping meeting-ended event", "meeting_id", event.MeetingID)
	return nil
}

var _ domain.MessageBuilder = (*NoopMessageBuilder)(nil)
