// Copyright The WellnessHQ Authors.
// SPDX-License-Identifier: MIT

package pool

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wellnesshq/meeting-pool-service/internal/domain/models"
)

func validAccount(id string) models.Account {
	return models.Account{
		ID:                    id,
		ClientID:              "cli_" + id,
		ClientSecret:          "secret_" + id,
		ProviderAccountID:     "acc_" + id,
		HostUserID:            "host_" + id,
		MaxConcurrentMeetings: 2,
	}
}

func TestValidateAccounts(t *testing.T) {
	tests := []struct {
		name            string
		mutate          func(*models.Account)
		wantExcluded    bool
		wantDiagnostic  string
	}{
		{
			name:   "valid account kept",
			mutate: func(a *models.Account) {},
		},
		{
			name:           "empty client id excluded",
			mutate:         func(a *models.Account) { a.ClientID = "   " },
			wantExcluded:   true,
			wantDiagnostic: "missing client_id",
		},
		{
			name:           "empty client secret excluded",
			mutate:         func(a *models.Account) { a.ClientSecret = "" },
			wantExcluded:   true,
			wantDiagnostic: "missing client_secret",
		},
		{
			name:           "empty provider account id excluded",
			mutate:         func(a *models.Account) { a.ProviderAccountID = "" },
			wantExcluded:   true,
			wantDiagnostic: "missing account_id",
		},
		{
			name:           "empty host user id excluded",
			mutate:         func(a *models.Account) { a.HostUserID = "\t" },
			wantExcluded:   true,
			wantDiagnostic: "missing host_user_id",
		},
		{
			name: "cross-assigned credentials excluded",
			mutate: func(a *models.Account) {
				a.ClientID = "ABCdef123"
				a.ProviderAccountID = "abcXYZ789"
			},
			wantExcluded:   true,
			wantDiagnostic: "cross-assigned",
		},
		{
			name: "prefix match is case-insensitive only on full prefix",
			mutate: func(a *models.Account) {
				a.ClientID = "ab"
				a.ProviderAccountID = "abc123"
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			account := validAccount("account_1")
			tt.mutate(&account)

			valid, diagnostics := ValidateAccounts([]models.Account{account})

			if tt.wantExcluded {
				assert.Empty(t, valid)
				require.Len(t, diagnostics, 1)
				assert.Contains(t, diagnostics[0], tt.wantDiagnostic)
			} else {
				require.Len(t, valid, 1)
				assert.Empty(t, diagnostics)
			}
		})
	}
}

func TestValidateAccounts_TrimsFields(t *testing.T) {
	account := validAccount("account_1")
	account.ClientID = "  cli_account_1  "
	account.HostUserID = "\thost_account_1\n"

	valid, diagnostics := ValidateAccounts([]models.Account{account})

	require.Len(t, valid, 1)
	assert.Empty(t, diagnostics)
	assert.Equal(t, "cli_account_1", valid[0].ClientID)
	assert.Equal(t, "host_account_1", valid[0].HostUserID)
}

func TestValidateAccounts_PoolSizeReflectsOnlyValidAccounts(t *testing.T) {
	crossed := validAccount("account_2")
	crossed.ClientID = "xyz_client"
	crossed.ProviderAccountID = "XYZ_account"

	valid, diagnostics := ValidateAccounts([]models.Account{validAccount("account_1"), crossed, validAccount("account_3")})

	require.Len(t, valid, 2)
	assert.Len(t, diagnostics, 1)

	p := NewPool(valid)
	assert.Equal(t, 2, p.Size())
	_, ok := p.Account("account_2")
	assert.False(t, ok)
}

func TestValidateAccounts_DefaultsCapacity(t *testing.T) {
	account := validAccount("account_1")
	account.MaxConcurrentMeetings = 0

	valid, _ := ValidateAccounts([]models.Account{account})

	require.Len(t, valid, 1)
	assert.Equal(t, models.DefaultMaxConcurrentMeetings, valid[0].MaxConcurrentMeetings)
}

func TestPool_DecrementFloorsAtZero(t *testing.T) {
	p := NewPool([]models.Account{validAccount("account_1")})

	p.IncrementActive("account_1")
	p.DecrementActive("account_1")
	p.DecrementActive("account_1")

	stats := p.UsageStats()
	assert.Equal(t, 0, stats["account_1"].ActiveMeetings)
}

func TestPool_SuspendAndReset(t *testing.T) {
	p := NewPool([]models.Account{validAccount("account_1"), validAccount("account_2")})

	p.Suspend("account_1")
	stats := p.UsageStats()
	assert.False(t, stats["account_1"].Available)
	assert.True(t, stats["account_2"].Available)

	assert.True(t, p.Reset("account_1"))
	assert.True(t, p.UsageStats()["account_1"].Available)

	assert.False(t, p.Reset("account_unknown"), "reset of unknown account is a no-op")
}

func TestPool_ResetAll(t *testing.T) {
	p := NewPool([]models.Account{validAccount("account_1"), validAccount("account_2")})
	p.Suspend("account_1")
	p.Suspend("account_2")

	p.ResetAll()

	for id, stats := range p.UsageStats() {
		assert.True(t, stats.Available, "account %s should be available after ResetAll", id)
	}
}

func TestPool_UsageStatsMergesConfigAndState(t *testing.T) {
	account := validAccount("account_1")
	account.SDKKey = "sdk-key"
	account.SDKSecret = "sdk-secret"
	p := NewPool([]models.Account{account})

	p.IncrementActive("account_1")
	stats := p.UsageStats()["account_1"]

	assert.Equal(t, "cli_account_1", stats.ClientID)
	assert.Equal(t, "acc_account_1", stats.ProviderAccountID)
	assert.Equal(t, 2, stats.MaxConcurrentMeetings)
	assert.Equal(t, 1, stats.ActiveMeetings)
	assert.True(t, stats.HasSigningCredentials)
	assert.False(t, stats.LastSelectedAt.IsZero())
}
