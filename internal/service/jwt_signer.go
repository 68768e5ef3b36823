// Copyright The WellnessHQ Authors.
// SPDX-License-Identifier: MIT

package service

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wellnesshq/meeting-pool-service/internal/domain"
	"github.com/wellnesshq/meeting-pool-service/internal/domain/models"
	"github.com/wellnesshq/meeting-pool-service/internal/logging"
	"github.com/wellnesshq/meeting-pool-service/internal/pool"
)

const (
	// joinTokenLifetime is fixed by the provider-side verifier.
	joinTokenLifetime = 2 * time.Hour
	// joinTokenBackdate tolerates clock skew between services: the token
	// is issued 30 seconds in the past.
	joinTokenBackdate = 30 * time.Second

	joinTokenAudience = "zoom"
)

// JoinTokenSigner generates signed, time-boxed join tokens bound to a
// specific account's SDK credential pair. Only the provider side holding
// the same signing secret as the hosting account can verify the result,
// so the token must be signed by the account that actually hosts the
// meeting.
type JoinTokenSigner struct {
	pool *pool.Pool
	now  func() time.Time
}

// NewJoinTokenSigner creates a new JoinTokenSigner over the pool.
func NewJoinTokenSigner(accountPool *pool.Pool) *JoinTokenSigner {
	return &JoinTokenSigner{
		pool: accountPool,
		now:  time.Now,
	}
}

// Sign produces an HS256 join token for the meeting number and role.
func (s *JoinTokenSigner) Sign(ctx context.Context, meetingNumber string, role int, accountID string) (*models.JoinToken, error) {
	ctx = logging.AppendCtx(ctx, slog.String("account_id", accountID))

	account, ok := s.pool.Account(accountID)
	if !ok {
		return nil, domain.NewNotFoundError(fmt.Sprintf("account %s not found in pool", accountID))
	}
	if !account.HasSigningCredentials() {
		return nil, domain.NewValidationError(fmt.Sprintf("account %s has no SDK signing credentials", accountID))
	}

	now := s.now()
	issuedAt := now.Add(-joinTokenBackdate)
	expiresAt := now.Add(joinTokenLifetime)

	// Claim names are fixed by the provider's external verifier.
	claims := jwt.MapClaims{
		"iss":  account.SDKKey,
		"aud":  joinTokenAudience,
		"mn":   meetingNumber,
		"role": role,
		"iat":  issuedAt.Unix(),
		"exp":  expiresAt.Unix(),
	}

	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims)
	signed, err := token.SignedString([]byte(account.SDKSecret))
	if err != nil {
		slog.ErrorContext(ctx, "failed to sign join token", logging.ErrKey, err)
		return nil, domain.NewInternalError("failed to sign join token", err)
	}

	slog.DebugContext(ctx, "signed join token", "meeting_number", meetingNumber, "role", role)
	return &models.JoinToken{Token: signed, SigningKeyID: account.SDKKey}, nil
}
