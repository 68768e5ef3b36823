// Copyright The WellnessHQ Authors.
// SPDX-License-Identifier: MIT

// Package pool owns the static set of validated provider accounts and the
// mutable per-account usage state used for load balancing.
package pool

import (
	"log/slog"
	"strings"
	"sync"
	"time"

	"github.com/wellnesshq/meeting-pool-service/internal/domain/models"
)

// Pool is the fixed collection of validated accounts plus their usage
// state. The account set is read-only after construction; the usage map
// is the only mutable shared state and is guarded by the mutex.
//
// The mutex serializes individual state transitions, not whole
// select-then-reserve spans: two concurrent create calls can both select
// the same least-loaded account before either increments its counter.
// Capacity is advisory, so this temporary over-subscription is accepted.
type Pool struct {
	mu       sync.RWMutex
	accounts map[string]*models.Account
	order    []string // insertion order, for deterministic iteration
	usage    map[string]*models.AccountUsage
	now      func() time.Time
}

// ValidateAccounts sanitizes raw account configuration and drops accounts
// that cannot be used. Returned diagnostics describe each exclusion; an
// empty result is valid and simply means the first orchestrator call will
// fail with a no-accounts error.
func ValidateAccounts(raw []models.Account) ([]models.Account, []string) {
	var valid []models.Account
	var diagnostics []string

	for _, account := range raw {
		account.ClientID = strings.TrimSpace(account.ClientID)
		account.ClientSecret = strings.TrimSpace(account.ClientSecret)
		account.ProviderAccountID = strings.TrimSpace(account.ProviderAccountID)
		account.HostUserID = strings.TrimSpace(account.HostUserID)

		if reason := validateAccount(&account); reason != "" {
			diagnostic := "account " + account.ID + " excluded from pool: " + reason
			diagnostics = append(diagnostics, diagnostic)
			slog.Warn("excluding misconfigured meeting account", "account_id", account.ID, "reason", reason)
			continue
		}

		if account.MaxConcurrentMeetings <= 0 {
			account.MaxConcurrentMeetings = models.DefaultMaxConcurrentMeetings
		}
		valid = append(valid, account)
	}

	return valid, diagnostics
}

func validateAccount(account *models.Account) string {
	switch {
	case account.ClientID == "":
		return "missing client_id"
	case account.ClientSecret == "":
		return "missing client_secret"
	case account.ProviderAccountID == "":
		return "missing account_id"
	case account.HostUserID == "":
		return "missing host_user_id"
	}

	// Heuristic for swapped environment variables: a client ID sharing the
	// account ID's leading characters almost certainly belongs to another
	// account's credential set.
	if strings.EqualFold(prefix3(account.ClientID), prefix3(account.ProviderAccountID)) {
		return "client_id shares the account_id prefix, credentials look cross-assigned"
	}

	return ""
}

func prefix3(s string) string {
	if len(s) > 3 {
		return s[:3]
	}
	return s
}

// NewPool builds a pool from already-validated accounts. Every account
// starts available with zero active meetings.
func NewPool(accounts []models.Account) *Pool {
	p := &Pool{
		accounts: make(map[string]*models.Account, len(accounts)),
		usage:    make(map[string]*models.AccountUsage, len(accounts)),
		now:      time.Now,
	}
	for i := range accounts {
		account := accounts[i]
		if _, exists := p.accounts[account.ID]; exists {
			slog.Warn("duplicate account id in pool configuration, keeping first", "account_id", account.ID)
			continue
		}
		p.accounts[account.ID] = &account
		p.order = append(p.order, account.ID)
		p.usage[account.ID] = &models.AccountUsage{Available: true}
	}
	return p
}

// Size returns the number of accounts in the pool.
func (p *Pool) Size() int {
	return len(p.order)
}

// Account returns the account with the given ID, if present.
func (p *Pool) Account(id string) (*models.Account, bool) {
	account, ok := p.accounts[id]
	return account, ok
}

// IncrementActive bumps the account's active meeting count and stamps its
// last-selected time. Called on successful meeting creation only.
func (p *Pool) IncrementActive(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if usage, ok := p.usage[id]; ok {
		usage.ActiveMeetings++
		usage.LastSelectedAt = p.now()
	}
}

// DecrementActive lowers the account's active meeting count, floored at
// zero, and stamps its last-selected time.
func (p *Pool) DecrementActive(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if usage, ok := p.usage[id]; ok {
		if usage.ActiveMeetings > 0 {
			usage.ActiveMeetings--
		}
		usage.LastSelectedAt = p.now()
	}
}

// Suspend takes an account out of rotation after an authentication
// failure. Only an explicit reset or a process restart brings it back.
func (p *Pool) Suspend(id string) {
	p.mu.Lock()
	defer p.mu.Unlock()
	if usage, ok := p.usage[id]; ok {
		usage.Available = false
	}
}

// Reset marks one account available again. Returns false for unknown IDs.
func (p *Pool) Reset(id string) bool {
	p.mu.Lock()
	defer p.mu.Unlock()
	usage, ok := p.usage[id]
	if !ok {
		slog.Warn("reset requested for unknown account", "account_id", id)
		return false
	}
	usage.Available = true
	return true
}

// ResetAll marks every account in the pool available.
func (p *Pool) ResetAll() {
	p.mu.Lock()
	defer p.mu.Unlock()
	for _, usage := range p.usage {
		usage.Available = true
	}
}

// UsageStats returns a read-only snapshot of static configuration merged
// with current usage state, keyed by account ID.
func (p *Pool) UsageStats() map[string]models.AccountUsageStats {
	p.mu.RLock()
	defer p.mu.RUnlock()

	stats := make(map[string]models.AccountUsageStats, len(p.order))
	for _, id := range p.order {
		account := p.accounts[id]
		usage := p.usage[id]
		stats[id] = models.AccountUsageStats{
			ID:                    account.ID,
			ClientID:              account.ClientID,
			ProviderAccountID:     account.ProviderAccountID,
			HostUserID:            account.HostUserID,
			MaxConcurrentMeetings: account.MaxConcurrentMeetings,
			ActiveMeetings:        usage.ActiveMeetings,
			LastSelectedAt:        usage.LastSelectedAt,
			Available:             usage.Available,
			HasSigningCredentials: account.HasSigningCredentials(),
		}
	}
	return stats
}
