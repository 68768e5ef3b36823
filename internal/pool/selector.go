// Copyright The WellnessHQ Authors.
// SPDX-License-Identifier: MIT

package pool

import (
	"log/slog"

	"github.com/wellnesshq/meeting-pool-service/internal/domain"
	"github.com/wellnesshq/meeting-pool-service/internal/domain/models"
)

type candidate struct {
	account *models.Account
	usage   models.AccountUsage
}

// Select picks the account that should host the next meeting and stamps
// its last-selected time. The stamp records the attempt, not the outcome;
// the active-meeting counter only moves on success.
//
// Policy: available accounts not in excluded, single-account bypass,
// then least loaded among under-capacity candidates with
// least-recently-selected tie-break. Capacity is advisory: when every
// candidate is at or over capacity the least loaded one still wins.
func (p *Pool) Select(excluded map[string]struct{}) (*models.Account, error) {
	p.mu.Lock()
	defer p.mu.Unlock()

	var candidates []candidate
	available := 0
	for _, id := range p.order {
		usage := p.usage[id]
		if !usage.Available {
			continue
		}
		available++
		if _, skip := excluded[id]; skip {
			continue
		}
		candidates = append(candidates, candidate{account: p.accounts[id], usage: *usage})
	}

	if len(candidates) == 0 {
		return nil, domain.NewNoAccountsAvailableError("no meeting accounts available for selection")
	}

	// A single-account deployment serves every request regardless of load.
	var chosen *models.Account
	if available == 1 && len(candidates) == 1 {
		chosen = candidates[0].account
	} else {
		chosen = pickLeastLoaded(candidates)
	}

	usage := p.usage[chosen.ID]
	usage.LastSelectedAt = p.now()

	slog.Debug("selected meeting account",
		"account_id", chosen.ID,
		"active_meetings", usage.ActiveMeetings,
		"max_concurrent_meetings", chosen.MaxConcurrentMeetings,
	)
	return chosen, nil
}

func pickLeastLoaded(candidates []candidate) *models.Account {
	var underCapacity []candidate
	for _, c := range candidates {
		if c.usage.ActiveMeetings < c.account.MaxConcurrentMeetings {
			underCapacity = append(underCapacity, c)
		}
	}
	if len(underCapacity) > 0 {
		candidates = underCapacity
	}

	best := candidates[0]
	for _, c := range candidates[1:] {
		if c.usage.ActiveMeetings < best.usage.ActiveMeetings {
			best = c
			continue
		}
		if c.usage.ActiveMeetings == best.usage.ActiveMeetings &&
			c.usage.LastSelectedAt.Before(best.usage.LastSelectedAt) {
			best = c
		}
	}
	return best.account
}
