// Copyright The WellnessHQ Authors.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"
	"sync"

	"github.com/wellnesshq/meeting-pool-service/internal/domain"
	"github.com/wellnesshq/meeting-pool-service/internal/domain/models"
)

// MockMessageBuilder records published lifecycle events for assertions.
type MockMessageBuilder struct {
	mu            sync.Mutex
	CreatedEvents []*models.MeetingEvent
	EndedEvents   []*models.MeetingEvent
	Err           error
}

// SendMeetingCreated records a created event.
func (m *MockMessageBuilder) SendMeetingCreated(_ context.Context, event *models.MeetingEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.CreatedEvents = append(m.CreatedEvents, event)
	return m.Err
}

// SendMeetingEnded records an ended event.
func (m *MockMessageBuilder) SendMeetingEnded(_ context.Context, event *models.MeetingEvent) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.EndedEvents = append(m.EndedEvents, event)
	return m.Err
}

var _ domain.MessageBuilder = (*MockMessageBuilder)(nil)
