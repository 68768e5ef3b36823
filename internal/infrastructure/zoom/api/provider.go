// Copyright The WellnessHQ Authors.
// SPDX-License-Identifier: MIT

package api

import (
	"github.com/wellnesshq/meeting-pool-service/internal/domain"
)

// Ensure Client implements ProviderClient
var _ domain.ProviderClient = (*Client)(nil)
