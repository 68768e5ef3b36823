// Copyright The WellnessHQ Authors.
// SPDX-License-Identifier: MIT

package models

import "time"

// DefaultMaxConcurrentMeetings is the advisory capacity assigned to an
// account whose configuration does not set one.
const DefaultMaxConcurrentMeetings = 2

// Account is one set of provider credentials capable of hosting meetings.
// It is static configuration, loaded once at startup and read-only after
// pool construction.
type Account struct {
	ID                string `yaml:"id" json:"id"`
	ClientID          string `yaml:"client_id" json:"client_id"`
	ClientSecret      string `yaml:"client_secret" json:"-"`
	ProviderAccountID string `yaml:"account_id" json:"account_id"`
	HostUserID        string `yaml:"host_user_id" json:"host_user_id"`
	// SDK signing pair used only for join-token signing. Optional; signing
	// fails for this account when absent.
	SDKKey                string `yaml:"sdk_key" json:"-"`
	SDKSecret             string `yaml:"sdk_secret" json:"-"`
	MaxConcurrentMeetings int    `yaml:"max_concurrent_meetings" json:"max_concurrent_meetings"`
}

// HasSigningCredentials reports whether the account can sign join tokens.
func (a *Account) HasSigningCredentials() bool {
	return a.SDKKey != "" && a.SDKSecret != ""
}

// AccountUsage is the mutable per-account state tracked for the lifetime
// of the process.
type AccountUsage struct {
	ActiveMeetings int       `json:"active_meetings"`
	LastSelectedAt time.Time `json:"last_selected_at"`
	Available      bool      `json:"available"`
}

// AccountUsageStats is the read-only snapshot returned by the admin
// surface: static configuration merged with current usage state.
type AccountUsageStats struct {
	ID                    string    `json:"id"`
	ClientID              string    `json:"client_id"`
	ProviderAccountID     string    `json:"account_id"`
	HostUserID            string    `json:"host_user_id"`
	MaxConcurrentMeetings int       `json:"max_concurrent_meetings"`
	ActiveMeetings        int       `json:"active_meetings"`
	LastSelectedAt        time.Time `json:"last_selected_at"`
	Available             bool      `json:"available"`
	HasSigningCredentials bool      `json:"has_signing_credentials"`
}
