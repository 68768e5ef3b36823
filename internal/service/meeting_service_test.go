// Copyright The WellnessHQ Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"net/http"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wellnesshq/meeting-pool-service/internal/domain"
	"github.com/wellnesshq/meeting-pool-service/internal/domain/mocks"
	"github.com/wellnesshq/meeting-pool-service/internal/domain/models"
	"github.com/wellnesshq/meeting-pool-service/internal/pool"
)

func poolAccount(id string) models.Account {
	return models.Account{
		ID:                    id,
		ClientID:              "cli_" + id,
		ClientSecret:          "secret_" + id,
		ProviderAccountID:     "acc_" + id,
		HostUserID:            "host_" + id,
		MaxConcurrentMeetings: 2,
	}
}

func newService(provider *mocks.MockProviderClient, accounts ...models.Account) (*MeetingPoolService, *pool.Pool, *mocks.MockMessageBuilder) {
	p := pool.NewPool(accounts)
	builder := &mocks.MockMessageBuilder{}
	return NewMeetingPoolService(p, provider, builder), p, builder
}

func createRequest() *models.CreateMeetingRequest {
	return &models.CreateMeetingRequest{Topic: "Morning Yoga", Duration: 60, Timezone: "Asia/Kolkata"}
}

func TestCreateMeeting_Success(t *testing.T) {
	provider := &mocks.MockProviderClient{}
	svc, p, builder := newService(provider, poolAccount("account_1"))

	result, err := svc.CreateMeeting(context.Background(), createRequest())
	require.NoError(t, err)

	assert.Equal(t, "123456789", result.MeetingID)
	assert.Equal(t, "account_1", result.AccountUsed)
	assert.Equal(t, 1, p.UsageStats()["account_1"].ActiveMeetings)
	require.Len(t, builder.CreatedEvents, 1)
	assert.Equal(t, "123456789", builder.CreatedEvents[0].MeetingID)
}

func TestCreateMeeting_GeneratesPasscodeWhenAbsent(t *testing.T) {
	var gotPassword string
	provider := &mocks.MockProviderClient{
		CreateMeetingFunc: func(_ context.Context, _ *models.Account, _ string, request *models.CreateMeetingRequest) (*models.CreateMeetingResult, error) {
			gotPassword = request.Password
			return &models.CreateMeetingResult{MeetingID: "1", JoinPassword: request.Password}, nil
		},
	}
	svc, _, _ := newService(provider, poolAccount("account_1"))

	_, err := svc.CreateMeeting(context.Background(), createRequest())
	require.NoError(t, err)
	assert.Len(t, gotPassword, 10)
}

func TestCreateMeeting_ValidatesRequest(t *testing.T) {
	svc, _, _ := newService(&mocks.MockProviderClient{}, poolAccount("account_1"))

	tests := []struct {
		name    string
		request *models.CreateMeetingRequest
	}{
		{name: "nil request", request: nil},
		{name: "empty topic", request: &models.CreateMeetingRequest{Duration: 30}},
		{name: "negative duration", request: &models.CreateMeetingRequest{Topic: "t", Duration: -1}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := svc.CreateMeeting(context.Background(), tt.request)
			require.Error(t, err)
			assert.Equal(t, domain.ErrorTypeValidation, domain.GetErrorType(err))
		})
	}
}

func TestCreateMeeting_EmptyPool(t *testing.T) {
	svc, _, _ := newService(&mocks.MockProviderClient{})

	_, err := svc.CreateMeeting(context.Background(), createRequest())
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeUnavailable, domain.GetErrorType(err))
}

func TestCreateMeeting_FailsOverOnInvalidClient(t *testing.T) {
	provider := &mocks.MockProviderClient{
		TokenFunc: func(_ context.Context, account *models.Account) (string, error) {
			if account.ID == "account_a" {
				return "", &domain.AuthError{
					AccountID:  "account_a",
					StatusCode: http.StatusUnauthorized,
					Code:       "invalid_client",
				}
			}
			return "tok-" + account.ID, nil
		},
	}
	svc, p, _ := newService(provider, poolAccount("account_a"), poolAccount("account_b"))

	result, err := svc.CreateMeeting(context.Background(), createRequest())
	require.NoError(t, err)

	assert.Equal(t, "account_b", result.AccountUsed)

	stats := p.UsageStats()
	assert.False(t, stats["account_a"].Available, "rejected account must be suspended")
	assert.True(t, stats["account_b"].Available)
	assert.Equal(t, 0, stats["account_a"].ActiveMeetings)
	assert.Equal(t, 1, stats["account_b"].ActiveMeetings)
}

func TestCreateMeeting_ResetRecovery(t *testing.T) {
	failing := true
	provider := &mocks.MockProviderClient{
		TokenFunc: func(_ context.Context, account *models.Account) (string, error) {
			if account.ID == "account_a" && failing {
				return "", &domain.AuthError{AccountID: "account_a", StatusCode: http.StatusUnauthorized, Code: "invalid_client"}
			}
			return "tok", nil
		},
	}
	svc, p, _ := newService(provider, poolAccount("account_a"), poolAccount("account_b"))

	_, err := svc.CreateMeeting(context.Background(), createRequest())
	require.NoError(t, err)
	require.False(t, p.UsageStats()["account_a"].Available)

	// Credentials fixed out of band; admin resets the account.
	failing = false
	require.True(t, p.Reset("account_a"))
	assert.True(t, p.UsageStats()["account_a"].Available)

	// account_a is selectable again and, being least loaded, wins.
	result, err := svc.CreateMeeting(context.Background(), createRequest())
	require.NoError(t, err)
	assert.Equal(t, "account_a", result.AccountUsed)
}

func TestCreateMeeting_TransientAuthFailureDoesNotSuspend(t *testing.T) {
	provider := &mocks.MockProviderClient{
		TokenFunc: func(_ context.Context, account *models.Account) (string, error) {
			if account.ID == "account_a" {
				return "", &domain.AuthError{AccountID: "account_a", StatusCode: http.StatusInternalServerError}
			}
			return "tok", nil
		},
	}
	svc, p, _ := newService(provider, poolAccount("account_a"), poolAccount("account_b"))

	result, err := svc.CreateMeeting(context.Background(), createRequest())
	require.NoError(t, err)
	assert.Equal(t, "account_b", result.AccountUsed)
	assert.True(t, p.UsageStats()["account_a"].Available, "5xx auth failure is transient, not a credential problem")
}

func TestCreateMeeting_SuspendsOnAuthShapedProviderError(t *testing.T) {
	provider := &mocks.MockProviderClient{
		CreateMeetingFunc: func(_ context.Context, account *models.Account, _ string, _ *models.CreateMeetingRequest) (*models.CreateMeetingResult, error) {
			if account.ID == "account_a" {
				return nil, &domain.ProviderError{StatusCode: http.StatusUnauthorized, Code: 124, Message: "Invalid access token."}
			}
			return &models.CreateMeetingResult{MeetingID: "55", JoinURL: "https://zoom.us/j/55"}, nil
		},
	}
	svc, p, _ := newService(provider, poolAccount("account_a"), poolAccount("account_b"))

	result, err := svc.CreateMeeting(context.Background(), createRequest())
	require.NoError(t, err)
	assert.Equal(t, "account_b", result.AccountUsed)
	assert.False(t, p.UsageStats()["account_a"].Available)
}

func TestCreateMeeting_NonAuthProviderErrorFailsOverWithoutSuspension(t *testing.T) {
	provider := &mocks.MockProviderClient{
		CreateMeetingFunc: func(_ context.Context, account *models.Account, _ string, _ *models.CreateMeetingRequest) (*models.CreateMeetingResult, error) {
			if account.ID == "account_a" {
				return nil, &domain.ProviderError{StatusCode: http.StatusTooManyRequests, Message: "Rate limited."}
			}
			return &models.CreateMeetingResult{MeetingID: "56"}, nil
		},
	}
	svc, p, _ := newService(provider, poolAccount("account_a"), poolAccount("account_b"))

	result, err := svc.CreateMeeting(context.Background(), createRequest())
	require.NoError(t, err)
	assert.Equal(t, "account_b", result.AccountUsed)
	assert.True(t, p.UsageStats()["account_a"].Available)
}

func TestCreateMeeting_ExhaustsPoolAfterExactlyPoolSizeAttempts(t *testing.T) {
	attempts := 0
	provider := &mocks.MockProviderClient{
		TokenFunc: func(_ context.Context, account *models.Account) (string, error) {
			attempts++
			return "", &domain.AuthError{AccountID: account.ID, StatusCode: http.StatusUnauthorized, Code: "invalid_client"}
		},
	}
	svc, _, builder := newService(provider,
		poolAccount("account_a"), poolAccount("account_b"), poolAccount("account_c"))

	_, err := svc.CreateMeeting(context.Background(), createRequest())
	require.Error(t, err)

	var exhausted *domain.ExhaustedError
	require.ErrorAs(t, err, &exhausted)
	assert.Equal(t, domain.ErrorTypeExhausted, domain.GetErrorType(err))
	assert.Len(t, exhausted.Tried, 3)
	assert.Equal(t, 3, attempts, "exactly |pool| attempts, never more")
	assert.ErrorContains(t, err, "invalid_client")
	assert.Empty(t, builder.CreatedEvents)
}

func TestEndMeeting_Success(t *testing.T) {
	provider := &mocks.MockProviderClient{}
	svc, p, builder := newService(provider, poolAccount("account_1"))
	p.IncrementActive("account_1")

	result, err := svc.EndMeeting(context.Background(), "123456789", "account_1")
	require.NoError(t, err)

	assert.Equal(t, "account_1", result.AccountUsed)
	assert.Equal(t, "meeting ended", result.Message)
	assert.Equal(t, 0, p.UsageStats()["account_1"].ActiveMeetings)
	require.Len(t, builder.EndedEvents, 1)
}

func TestEndMeeting_AlreadyEndedIsIdempotent(t *testing.T) {
	provider := &mocks.MockProviderClient{
		DeleteMeetingFunc: func(context.Context, *models.Account, string, string) (bool, error) {
			return true, nil
		},
	}
	svc, p, _ := newService(provider, poolAccount("account_1"))
	p.IncrementActive("account_1")

	result, err := svc.EndMeeting(context.Background(), "123456789", "account_1")
	require.NoError(t, err)
	assert.Contains(t, result.Message, "already ended")
	assert.Equal(t, 0, p.UsageStats()["account_1"].ActiveMeetings)

	// Ending twice never drives the counter negative.
	result, err = svc.EndMeeting(context.Background(), "123456789", "account_1")
	require.NoError(t, err)
	assert.Contains(t, result.Message, "already ended")
	assert.Equal(t, 0, p.UsageStats()["account_1"].ActiveMeetings)
}

func TestEndMeeting_UnknownAccount(t *testing.T) {
	svc, _, _ := newService(&mocks.MockProviderClient{}, poolAccount("account_1"))

	_, err := svc.EndMeeting(context.Background(), "123456789", "account_unknown")
	require.Error(t, err)
	assert.Equal(t, domain.ErrorTypeNotFound, domain.GetErrorType(err))
}

func TestEndMeeting_ProviderErrorPropagates(t *testing.T) {
	provider := &mocks.MockProviderClient{
		DeleteMeetingFunc: func(context.Context, *models.Account, string, string) (bool, error) {
			return false, &domain.ProviderError{StatusCode: http.StatusBadRequest, Message: "Cannot delete this meeting."}
		},
	}
	svc, p, _ := newService(provider, poolAccount("account_1"))
	p.IncrementActive("account_1")

	_, err := svc.EndMeeting(context.Background(), "123456789", "account_1")
	require.Error(t, err)

	// The meeting may still exist; the slot stays occupied.
	assert.Equal(t, 1, p.UsageStats()["account_1"].ActiveMeetings)
}

func TestServiceReady(t *testing.T) {
	svc, _, _ := newService(&mocks.MockProviderClient{}, poolAccount("account_1"))
	assert.True(t, svc.ServiceReady())

	var empty MeetingPoolService
	assert.False(t, empty.ServiceReady())
}
