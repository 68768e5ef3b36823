// Copyright The WellnessHQ Authors.
// SPDX-License-Identifier: MIT

package pool

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wellnesshq/meeting-pool-service/internal/domain"
	"github.com/wellnesshq/meeting-pool-service/internal/domain/models"
)

// fakeClock advances one second per reading so that selection stamps are
// strictly ordered.
type fakeClock struct {
	current time.Time
}

func (c *fakeClock) now() time.Time {
	c.current = c.current.Add(time.Second)
	return c.current
}

func newTestPool(accounts ...models.Account) *Pool {
	p := NewPool(accounts)
	clock := &fakeClock{current: time.Date(2026, 3, 1, 9, 0, 0, 0, time.UTC)}
	p.now = clock.now
	return p
}

func TestSelect_SingleAccountBypassesCapacity(t *testing.T) {
	account := validAccount("account_1")
	account.MaxConcurrentMeetings = 1
	p := newTestPool(account)

	// Push the account over capacity; a single-account deployment must
	// still serve every request.
	p.IncrementActive("account_1")
	p.IncrementActive("account_1")

	selected, err := p.Select(nil)
	require.NoError(t, err)
	assert.Equal(t, "account_1", selected.ID)
}

func TestSelect_LeastLoadedAlternates(t *testing.T) {
	p := newTestPool(validAccount("account_a"), validAccount("account_b"))

	var sequence []string
	for i := 0; i < 3; i++ {
		selected, err := p.Select(nil)
		require.NoError(t, err)
		sequence = append(sequence, selected.ID)
		p.IncrementActive(selected.ID)
	}

	// Never the same account twice in a row while the other is strictly
	// less loaded.
	assert.NotEqual(t, sequence[0], sequence[1])
	assert.Equal(t, sequence[0], sequence[2])
}

func TestSelect_TieBreaksLeastRecentlySelected(t *testing.T) {
	p := newTestPool(validAccount("account_a"), validAccount("account_b"))

	first, err := p.Select(nil)
	require.NoError(t, err)

	// Equal load, so the account not stamped by the previous selection
	// must win the tie-break.
	second, err := p.Select(nil)
	require.NoError(t, err)
	assert.NotEqual(t, first.ID, second.ID)
}

func TestSelect_CapacityIsAdvisory(t *testing.T) {
	a := validAccount("account_a")
	a.MaxConcurrentMeetings = 1
	b := validAccount("account_b")
	b.MaxConcurrentMeetings = 1
	p := newTestPool(a, b)

	p.IncrementActive("account_a")
	p.IncrementActive("account_a")
	p.IncrementActive("account_b")

	// Both at or over capacity: selection still returns the least loaded
	// rather than failing.
	selected, err := p.Select(nil)
	require.NoError(t, err)
	assert.Equal(t, "account_b", selected.ID)
}

func TestSelect_PrefersUnderCapacity(t *testing.T) {
	a := validAccount("account_a")
	a.MaxConcurrentMeetings = 1
	b := validAccount("account_b")
	b.MaxConcurrentMeetings = 5
	p := newTestPool(a, b)

	// account_a is at capacity with 1; account_b carries more meetings but
	// is still under its own ceiling, so it must win.
	p.IncrementActive("account_a")
	p.IncrementActive("account_b")
	p.IncrementActive("account_b")

	selected, err := p.Select(nil)
	require.NoError(t, err)
	assert.Equal(t, "account_b", selected.ID)
}

func TestSelect_SkipsExcludedAndSuspended(t *testing.T) {
	p := newTestPool(validAccount("account_a"), validAccount("account_b"), validAccount("account_c"))

	p.Suspend("account_a")
	excluded := map[string]struct{}{"account_b": {}}

	selected, err := p.Select(excluded)
	require.NoError(t, err)
	assert.Equal(t, "account_c", selected.ID)
}

func TestSelect_NoCandidates(t *testing.T) {
	tests := []struct {
		name  string
		setup func() (*Pool, map[string]struct{})
	}{
		{
			name: "empty pool",
			setup: func() (*Pool, map[string]struct{}) {
				return newTestPool(), nil
			},
		},
		{
			name: "all suspended",
			setup: func() (*Pool, map[string]struct{}) {
				p := newTestPool(validAccount("account_a"))
				p.Suspend("account_a")
				return p, nil
			},
		},
		{
			name: "all excluded",
			setup: func() (*Pool, map[string]struct{}) {
				p := newTestPool(validAccount("account_a"))
				return p, map[string]struct{}{"account_a": {}}
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			p, excluded := tt.setup()
			_, err := p.Select(excluded)
			require.Error(t, err)
			assert.Equal(t, domain.ErrorTypeUnavailable, domain.GetErrorType(err))
		})
	}
}

func TestSelect_StampsLastSelectedAtOnAttempt(t *testing.T) {
	p := newTestPool(validAccount("account_a"))

	before := p.UsageStats()["account_a"].LastSelectedAt
	_, err := p.Select(nil)
	require.NoError(t, err)
	after := p.UsageStats()["account_a"].LastSelectedAt

	// The stamp moves on selection, even though no meeting was created.
	assert.True(t, after.After(before))
	assert.Equal(t, 0, p.UsageStats()["account_a"].ActiveMeetings)
}
