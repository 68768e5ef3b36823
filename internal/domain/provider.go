// Copyright The WellnessHQ Authors.
// SPDX-License-Identifier: MIT

package domain

import (
	"context"

	"github.com/wellnesshq/meeting-pool-service/internal/domain/models"
)

// ProviderClient defines the operations the orchestrator needs from the
// video-conferencing provider. Tokens are fetched fresh per operation and
// passed explicitly so that a failed exchange is attributable to one
// account.
type ProviderClient interface {
	// Token exchanges the account's client credentials for a short-lived
	// bearer token. Failures are *AuthError.
	Token(ctx context.Context, account *models.Account) (string, error)

	// CreateMeeting creates a meeting hosted by the account's provider-side
	// user. Non-2xx responses are *ProviderError.
	CreateMeeting(ctx context.Context, account *models.Account, token string, request *models.CreateMeetingRequest) (*models.CreateMeetingResult, error)

	// DeleteMeeting ends a meeting. A provider "not found" response is
	// reported as alreadyEnded, not as an error: ending a meeting twice
	// must never fail the caller.
	DeleteMeeting(ctx context.Context, account *models.Account, token string, meetingID string) (alreadyEnded bool, err error)
}
