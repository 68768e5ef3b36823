// Copyright The WellnessHQ Authors.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"encoding/json"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"time"

	"github.com/wellnesshq/meeting-pool-service/internal/domain"
	"github.com/wellnesshq/meeting-pool-service/internal/domain/models"
	"github.com/wellnesshq/meeting-pool-service/internal/logging"
)

// Meeting type constants for the Zoom API
const (
	MeetingTypeInstant            = 1
	MeetingTypeScheduled          = 2
	MeetingTypeRecurringFixedTime = 8
)

// CreateMeetingRequest represents the request to create a Zoom meeting
type CreateMeetingRequest struct {
	Topic      string              `json:"topic"`
	Type       int                 `json:"type"`
	StartTime  string              `json:"start_time,omitempty"`
	Duration   int                 `json:"duration,omitempty"`
	Timezone   string              `json:"timezone,omitempty"`
	Password   string              `json:"password,omitempty"`
	Agenda     string              `json:"agenda,omitempty"`
	Recurrence *RecurrenceSettings `json:"recurrence,omitempty"`
	Settings   *MeetingSettings    `json:"settings,omitempty"`
}

// RecurrenceSettings represents Zoom meeting recurrence settings
type RecurrenceSettings struct {
	Type           int    `json:"type"`
	RepeatInterval int    `json:"repeat_interval,omitempty"`
	WeeklyDays     string `json:"weekly_days,omitempty"`
	MonthlyDay     int    `json:"monthly_day,omitempty"`
	EndTimes       int    `json:"end_times,omitempty"`
	EndDateTime    string `json:"end_date_time,omitempty"`
}

// MeetingSettings represents Zoom meeting settings
type MeetingSettings struct {
	HostVideo        bool   `json:"host_video"`
	ParticipantVideo bool   `json:"participant_video"`
	JoinBeforeHost   bool   `json:"join_before_host"`
	MuteUponEntry    bool   `json:"mute_upon_entry"`
	WaitingRoom      bool   `json:"waiting_room"`
	Audio            string `json:"audio"`
	AutoRecording    string `json:"auto_recording"`
	ApprovalType     int    `json:"approval_type"`
}

// CreateMeetingResponse represents the response from creating a Zoom meeting
type CreateMeetingResponse struct {
	ID        int64            `json:"id"`
	UUID      string           `json:"uuid"`
	HostID    string           `json:"host_id"`
	Topic     string           `json:"topic"`
	Type      int              `json:"type"`
	Status    string           `json:"status"`
	StartTime string           `json:"start_time"`
	Duration  int              `json:"duration"`
	Timezone  string           `json:"timezone"`
	StartURL  string           `json:"start_url"`
	JoinURL   string           `json:"join_url"`
	Password  string           `json:"password"`
	Settings  *MeetingSettings `json:"settings"`
}

// CreateMeeting creates a meeting in the account's host user namespace.
// Pool defaults (two-way video, join before host, local recording, no
// waiting room) apply unless the caller overrides them field-by-field.
func (c *Client) CreateMeeting(ctx context.Context, account *models.Account, token string, request *models.CreateMeetingRequest) (*models.CreateMeetingResult, error) {
	ctx = logging.AppendCtx(ctx, slog.String("zoom_operation", "create_meeting"))
	ctx = logging.AppendCtx(ctx, slog.String("account_id", account.ID))

	req := buildCreateMeetingRequest(request)

	path := fmt.Sprintf("/users/%s/meetings", account.HostUserID)
	resp, err := c.doRequest(ctx, http.MethodPost, path, token, req)
	if err != nil {
		slog.ErrorContext(ctx, "failed to create Zoom meeting", logging.ErrKey, err)
		return nil, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode != http.StatusCreated && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		err := parseErrorResponse(resp.StatusCode, body)
		slog.ErrorContext(ctx, "Zoom API returned error", logging.ErrKey, err, "status", resp.StatusCode)
		return nil, err
	}

	var meetingResp CreateMeetingResponse
	if err := json.NewDecoder(resp.Body).Decode(&meetingResp); err != nil {
		slog.ErrorContext(ctx, "failed to decode meeting response", logging.ErrKey, err)
		return nil, fmt.Errorf("failed to decode meeting response: %w", err)
	}

	meetingID := fmt.Sprintf("%d", meetingResp.ID)
	slog.InfoContext(ctx, "successfully created Zoom meeting",
		"meeting_id", meetingID,
		"topic", meetingResp.Topic,
		"join_url", meetingResp.JoinURL)

	return &models.CreateMeetingResult{
		MeetingID:    meetingID,
		JoinPassword: meetingResp.Password,
		JoinURL:      meetingResp.JoinURL,
	}, nil
}

// DeleteMeeting ends a meeting. Zoom returns 204 on successful deletion;
// 404 means the meeting is already gone and is reported as alreadyEnded,
// never as an error.
func (c *Client) DeleteMeeting(ctx context.Context, account *models.Account, token string, meetingID string) (bool, error) {
	ctx = logging.AppendCtx(ctx, slog.String("zoom_operation", "delete_meeting"))
	ctx = logging.AppendCtx(ctx, slog.String("zoom_meeting_id", meetingID))
	ctx = logging.AppendCtx(ctx, slog.String("account_id", account.ID))

	path := fmt.Sprintf("/meetings/%s", meetingID)
	resp, err := c.doRequest(ctx, http.MethodDelete, path, token, nil)
	if err != nil {
		slog.ErrorContext(ctx, "failed to delete Zoom meeting", logging.ErrKey, err)
		return false, err
	}
	defer func() { _ = resp.Body.Close() }()

	if resp.StatusCode == http.StatusNotFound {
		slog.WarnContext(ctx, "Zoom meeting not found, may have been already deleted")
		return true, nil
	}

	if resp.StatusCode != http.StatusNoContent && resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(resp.Body)
		err := parseErrorResponse(resp.StatusCode, body)
		slog.ErrorContext(ctx, "Zoom API returned error", logging.ErrKey, err, "status", resp.StatusCode)
		return false, err
	}

	slog.InfoContext(ctx, "successfully deleted Zoom meeting")
	return false, nil
}

// buildCreateMeetingRequest merges pool defaults with caller overrides;
// caller values win field-by-field.
func buildCreateMeetingRequest(request *models.CreateMeetingRequest) *CreateMeetingRequest {
	req := &CreateMeetingRequest{
		Topic:    request.Topic,
		Duration: request.Duration,
		Timezone: request.Timezone,
		Password: request.Password,
		Agenda:   request.Agenda,
	}

	if request.Recurrence != nil {
		req.Type = MeetingTypeRecurringFixedTime
		req.Recurrence = &RecurrenceSettings{
			Type:           request.Recurrence.Type,
			RepeatInterval: request.Recurrence.RepeatInterval,
			WeeklyDays:     request.Recurrence.WeeklyDays,
			MonthlyDay:     request.Recurrence.MonthlyDay,
			EndTimes:       request.Recurrence.EndTimes,
			EndDateTime:    request.Recurrence.EndDateTime,
		}
	} else {
		req.Type = MeetingTypeScheduled
	}
	if !request.StartTime.IsZero() {
		req.StartTime = request.StartTime.Format(time.RFC3339)
	}

	settings := &MeetingSettings{
		HostVideo:        true,
		ParticipantVideo: true,
		JoinBeforeHost:   true,
		MuteUponEntry:    false,
		WaitingRoom:      false,
		Audio:            "both",
		AutoRecording:    "local",
		ApprovalType:     2, // no registration required
	}

	if o := request.Settings; o != nil {
		if o.HostVideo != nil {
			settings.HostVideo = *o.HostVideo
		}
		if o.ParticipantVideo != nil {
			settings.ParticipantVideo = *o.ParticipantVideo
		}
		if o.JoinBeforeHost != nil {
			settings.JoinBeforeHost = *o.JoinBeforeHost
		}
		if o.MuteUponEntry != nil {
			settings.MuteUponEntry = *o.MuteUponEntry
		}
		if o.WaitingRoom != nil {
			settings.WaitingRoom = *o.WaitingRoom
		}
		if o.Audio != nil {
			settings.Audio = *o.Audio
		}
		if o.AutoRecording != nil {
			settings.AutoRecording = *o.AutoRecording
		}
		if o.ApprovalType != nil {
			settings.ApprovalType = *o.ApprovalType
		}
	}
	req.Settings = settings

	return req
}

// parseErrorResponse attempts to parse a Zoom API error response
func parseErrorResponse(statusCode int, body []byte) error {
	var errResp struct {
		Code    int    `json:"code"`
		Message string `json:"message"`
	}
	if err := json.Unmarshal(body, &errResp); err == nil && errResp.Message != "" {
		return &domain.ProviderError{StatusCode: statusCode, Code: errResp.Code, Message: errResp.Message}
	}
	return &domain.ProviderError{StatusCode: statusCode, Message: string(body)}
}
