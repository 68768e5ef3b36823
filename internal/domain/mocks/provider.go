// Copyright The WellnessHQ Authors.
// SPDX-License-Identifier: MIT

package mocks

import (
	"context"

	"github.com/wellnesshq/meeting-pool-service/internal/domain"
	"github.com/wellnesshq/meeting-pool-service/internal/domain/models"
)

// MockProviderClient is a mock implementation of domain.ProviderClient
// for testing the orchestrator without network calls.
type MockProviderClient struct {
	TokenFunc         func(ctx context.Context, account *models.Account) (string, error)
	CreateMeetingFunc func(ctx context.Context, account *models.Account, token string, request *models.CreateMeetingRequest) (*models.CreateMeetingResult, error)
	DeleteMeetingFunc func(ctx context.Context, account *models.Account, token string, meetingID string) (bool, error)
}

// Token mocks the token exchange.
func (m *MockProviderClient) Token(ctx context.Context, account *models.Account) (string, error) {
	if m.TokenFunc != nil {
		return m.TokenFunc(ctx, account)
	}
	return "test-token-" + account.ID, nil
}

// CreateMeeting mocks the meeting creation call.
func (m *MockProviderClient) CreateMeeting(ctx context.Context, account *models.Account, token string, request *models.CreateMeetingRequest) (*models.CreateMeetingResult, error) {
	if m.CreateMeetingFunc != nil {
		return m.CreateMeetingFunc(ctx, account, token, request)
	}
	return &models.CreateMeetingResult{
		MeetingID:    "123456789",
		JoinPassword: "test123",
		JoinURL:      "https://example.zoom.us/j/123456789",
	}, nil
}

// DeleteMeeting mocks the meeting deletion call.
func (m *MockProviderClient) DeleteMeeting(ctx context.Context, account *models.Account, token string, meetingID string) (bool, error) {
	if m.DeleteMeetingFunc != nil {
		return m.DeleteMeetingFunc(ctx, account, token, meetingID)
	}
	return false, nil
}

var _ domain.ProviderClient = (*MockProviderClient)(nil)
