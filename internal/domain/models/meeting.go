// Copyright The WellnessHQ Authors.
// SPDX-License-Identifier: MIT

package models

import "time"

// CreateMeetingRequest is a caller's request for a new meeting. The
// caller does not pick the hosting account; the pool does.
type CreateMeetingRequest struct {
	Topic      string                    `json:"topic"`
	StartTime  time.Time                 `json:"start_time"`
	Duration   int                       `json:"duration"`
	Timezone   string                    `json:"timezone"`
	Password   string                    `json:"password,omitempty"`
	Agenda     string                    `json:"agenda,omitempty"`
	Settings   *MeetingSettingsOverrides `json:"settings,omitempty"`
	Recurrence *Recurrence               `json:"recurrence,omitempty"`
}

// MeetingSettingsOverrides carries caller-supplied meeting settings.
// Pointer fields distinguish "not set" from zero values so that caller
// values win field-by-field over the pool defaults.
type MeetingSettingsOverrides struct {
	HostVideo        *bool   `json:"host_video,omitempty"`
	ParticipantVideo *bool   `json:"participant_video,omitempty"`
	JoinBeforeHost   *bool   `json:"join_before_host,omitempty"`
	MuteUponEntry    *bool   `json:"mute_upon_entry,omitempty"`
	WaitingRoom      *bool   `json:"waiting_room,omitempty"`
	Audio            *string `json:"audio,omitempty"`
	AutoRecording    *string `json:"auto_recording,omitempty"`
	ApprovalType     *int    `json:"approval_type,omitempty"`
}

// Recurrence is passed through to the provider opaquely; the service does
// not compute occurrence series.
type Recurrence struct {
	Type           int    `json:"type"`
	RepeatInterval int    `json:"repeat_interval,omitempty"`
	WeeklyDays     string `json:"weekly_days,omitempty"`
	MonthlyDay     int    `json:"monthly_day,omitempty"`
	EndTimes       int    `json:"end_times,omitempty"`
	EndDateTime    string `json:"end_date_time,omitempty"`
}

// CreateMeetingResult is returned to the caller, who is responsible for
// persisting it; the pool keeps no meeting records.
type CreateMeetingResult struct {
	MeetingID    string `json:"meeting_id"`
	JoinPassword string `json:"join_password"`
	JoinURL      string `json:"join_url"`
	AccountUsed  string `json:"account_used"`
}

// EndMeetingResult reports the outcome of ending a meeting.
type EndMeetingResult struct {
	AccountUsed string `json:"account_used"`
	Message     string `json:"message"`
}

// Join token roles, matching the provider's SDK role values.
const (
	JoinRoleParticipant = 0
	JoinRoleHost        = 1
)

// JoinToken is a signed, time-boxed credential a client presents to the
// provider to join a specific meeting with a specific role. It is derived,
// never stored.
type JoinToken struct {
	Token        string `json:"token"`
	SigningKeyID string `json:"signing_key_id"`
}

// MeetingEvent is published on meeting lifecycle transitions so that
// collaborating services (schedulers, notifiers) can react.
type MeetingEvent struct {
	MeetingID string    `json:"meeting_id"`
	AccountID string    `json:"account_id"`
	Topic     string    `json:"topic,omitempty"`
	Timestamp time.Time `json:"timestamp"`
}
