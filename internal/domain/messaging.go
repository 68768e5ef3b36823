// Copyright The WellnessHQ Authors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/wellnesshq/meeting-pool-service/internal/domain/models"
)

// MessageBuilder publishes meeting lifecycle events for collaborating
// services. Publishing is best-effort: a failed publish never fails the
// meeting operation that triggered it.
type MessageBuilder interface {
	SendMeetingCreated(ctx context.Context, event *models.MeetingEvent) error
	SendMeetingEnded(ctx context.Context, event *models.MeetingEvent) error
}
