// Copyright The WellnessHQ Authors.
// SPDX-License-Identifier: MIT

// Package service contains the meeting orchestration logic: account
// selection, failover across the pool, and join-token signing.
package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/google/uuid"

	"github.com/wellnesshq/meeting-pool-service/internal/domain"
	"github.com/wellnesshq/meeting-pool-service/internal/domain/models"
	"github.com/wellnesshq/meeting-pool-service/internal/logging"
	"github.com/wellnesshq/meeting-pool-service/internal/pool"
)

// Zoom caps meeting passcodes at 10 characters.
const generatedPasscodeLength = 10

// MeetingPoolService drives meeting creation and teardown across the
// account pool, failing over to the next account when authentication or
// provisioning fails.
type MeetingPoolService struct {
	pool           *pool.Pool
	provider       domain.ProviderClient
	messageBuilder domain.MessageBuilder
	signer         *JoinTokenSigner
}

// NewMeetingPoolService creates a new MeetingPoolService.
func NewMeetingPoolService(
	accountPool *pool.Pool,
	provider domain.ProviderClient,
	messageBuilder domain.MessageBuilder,
) *MeetingPoolService {
	return &MeetingPoolService{
		pool:           accountPool,
		provider:       provider,
		messageBuilder: messageBuilder,
		signer:         NewJoinTokenSigner(accountPool),
	}
}

// ServiceReady checks if the service is able to take inbound requests.
func (s *MeetingPoolService) ServiceReady() bool {
	return s.pool != nil && s.provider != nil && s.messageBuilder != nil
}

// Pool exposes the underlying account pool to the admin surface.
func (s *MeetingPoolService) Pool() *pool.Pool {
	return s.pool
}

// CreateMeeting provisions a meeting on the best available account,
// retrying across the pool on failure. Each account is tried at most
// once; an account whose credentials the provider rejects is suspended
// until an explicit admin reset.
func (s *MeetingPoolService) CreateMeeting(ctx context.Context, request *models.CreateMeetingRequest) (*models.CreateMeetingResult, error) {
	if err := validateCreateRequest(request); err != nil {
		return nil, err
	}

	if request.Password == "" {
		request.Password = generatePasscode()
	}

	maxAttempts := s.pool.Size()
	if maxAttempts == 0 {
		return nil, domain.NewNoAccountsAvailableError("meeting account pool is empty")
	}

	excluded := make(map[string]struct{}, maxAttempts)
	var tried []string
	var causes []error

	for attempts := 0; attempts < maxAttempts; attempts++ {
		account, err := s.pool.Select(excluded)
		if err != nil {
			if len(tried) == 0 {
				return nil, err
			}
			break
		}

		// Guard against a stale pick: a selector bug returning an account
		// we already tried must not burn the remaining attempts on it.
		if _, seen := excluded[account.ID]; seen {
			continue
		}
		excluded[account.ID] = struct{}{}
		tried = append(tried, account.ID)

		attemptCtx := logging.AppendCtx(ctx, slog.String("account_id", account.ID))

		token, err := s.provider.Token(attemptCtx, account)
		if err != nil {
			causes = append(causes, err)
			s.suspendIfAuthFailure(attemptCtx, account.ID, err)
			continue
		}

		result, err := s.provider.CreateMeeting(attemptCtx, account, token, request)
		if err != nil {
			causes = append(causes, fmt.Errorf("account %s: %w", account.ID, err))
			s.suspendIfAuthFailure(attemptCtx, account.ID, err)
			continue
		}

		s.pool.IncrementActive(account.ID)
		result.AccountUsed = account.ID

		slog.InfoContext(attemptCtx, "meeting created",
			"meeting_id", result.MeetingID,
			"topic", request.Topic,
			"attempts", attempts+1,
		)

		// Best-effort: a failed publish never fails the create.
		if err := s.messageBuilder.SendMeetingCreated(attemptCtx, &models.MeetingEvent{
			MeetingID: result.MeetingID,
			AccountID: account.ID,
			Topic:     request.Topic,
			Timestamp: time.Now().UTC(),
		}); err != nil {
			slog.WarnContext(attemptCtx, "failed to publish meeting-created event", logging.ErrKey, err)
		}

		return result, nil
	}

	exhausted := domain.NewExhaustedError(tried, causes...)
	slog.ErrorContext(ctx, "meeting creation exhausted the account pool",
		"tried", strings.Join(tried, ","),
		logging.ErrKey, exhausted,
		logging.PriorityCritical())
	return nil, exhausted
}

// EndMeeting ends a meeting on the account that hosts it. Ending is
// account-pinned, never load-balanced: the meeting lives on exactly one
// account. A meeting the provider already forgot still counts as ended.
func (s *MeetingPoolService) EndMeeting(ctx context.Context, meetingID, accountID string) (*models.EndMeetingResult, error) {
	ctx = logging.AppendCtx(ctx, slog.String("account_id", accountID))
	ctx = logging.AppendCtx(ctx, slog.String("meeting_id", meetingID))

	account, ok := s.pool.Account(accountID)
	if !ok {
		return nil, domain.NewNotFoundError(fmt.Sprintf("account %s not found in pool", accountID))
	}

	token, err := s.provider.Token(ctx, account)
	if err != nil {
		return nil, err
	}

	alreadyEnded, err := s.provider.DeleteMeeting(ctx, account, token, meetingID)
	if err != nil {
		return nil, err
	}

	// The meeting is gone either way; release the slot.
	s.pool.DecrementActive(accountID)

	message := "meeting ended"
	if alreadyEnded {
		message = "meeting already ended"
	}
	slog.InfoContext(ctx, message)

	if err := s.messageBuilder.SendMeetingEnded(ctx, &models.MeetingEvent{
		MeetingID: meetingID,
		AccountID: accountID,
		Timestamp: time.Now().UTC(),
	}); err != nil {
		slog.WarnContext(ctx, "failed to publish meeting-ended event", logging.ErrKey, err)
	}

	return &models.EndMeetingResult{AccountUsed: accountID, Message: message}, nil
}

// SignJoinToken signs a join token against the hosting account's SDK
// credential pair.
func (s *MeetingPoolService) SignJoinToken(ctx context.Context, meetingNumber string, role int, accountID string) (*models.JoinToken, error) {
	return s.signer.Sign(ctx, meetingNumber, role, accountID)
}

func (s *MeetingPoolService) suspendIfAuthFailure(ctx context.Context, accountID string, err error) {
	var authErr *domain.AuthError
	if errors.As(err, &authErr) && authErr.Suspends() {
		s.pool.Suspend(accountID)
		slog.WarnContext(ctx, "suspending account after credential rejection",
			"status", authErr.StatusCode,
			"oauth_error_code", authErr.Code)
		return
	}

	var providerErr *domain.ProviderError
	if errors.As(err, &providerErr) && providerErr.AuthShaped() {
		s.pool.Suspend(accountID)
		slog.WarnContext(ctx, "suspending account after provider auth rejection",
			"status", providerErr.StatusCode)
	}
}

func validateCreateRequest(request *models.CreateMeetingRequest) error {
	if request == nil {
		return domain.NewValidationError("request is required")
	}
	if strings.TrimSpace(request.Topic) == "" {
		return domain.NewValidationError("meeting topic is required")
	}
	if request.Duration < 0 {
		return domain.NewValidationError("meeting duration must not be negative")
	}
	return nil
}

func generatePasscode() string {
	passcode := strings.ReplaceAll(uuid.NewString(), "-", "")
	return passcode[:generatedPasscodeLength]
}
