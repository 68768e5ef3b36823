// Copyright The WellnessHQ Authors.
// SPDX-License-Identifier: MIT

package api

import (
	"context"
	"errors"
	"log/slog"
	"net/url"

	"golang.org/x/oauth2"
	"golang.org/x/oauth2/clientcredentials"

	"github.com/wellnesshq/meeting-pool-service/internal/domain"
	"github.com/wellnesshq/meeting-pool-service/internal/domain/models"
	"github.com/wellnesshq/meeting-pool-service/internal/logging"
)

// Token exchanges an account's client credentials for a short-lived
// bearer token using Zoom's server-to-server OAuth flow
// (grant_type=account_credentials with Basic auth).
//
// A fresh token is fetched for every call on purpose: the pool trades a
// token exchange per operation for not having to track token expiry per
// account, and a stale cached token would mask suspended credentials.
func (c *Client) Token(ctx context.Context, account *models.Account) (string, error) {
	ctx = logging.AppendCtx(ctx, slog.String("account_id", account.ID))

	oauthConfig := &clientcredentials.Config{
		ClientID:     account.ClientID,
		ClientSecret: account.ClientSecret,
		TokenURL:     c.config.AuthURL,
		EndpointParams: url.Values{
			"grant_type": []string{"account_credentials"},
			"account_id": []string{account.ProviderAccountID},
		},
		AuthStyle: oauth2.AuthStyleInHeader,
	}

	// Route the exchange through our timeout-bounded HTTP client.
	ctx = context.WithValue(ctx, oauth2.HTTPClient, c.httpClient)

	token, err := oauthConfig.Token(ctx)
	if err != nil {
		authErr := &domain.AuthError{AccountID: account.ID, Err: err}
		var retrieveErr *oauth2.RetrieveError
		if errors.As(err, &retrieveErr) {
			if retrieveErr.Response != nil {
				authErr.StatusCode = retrieveErr.Response.StatusCode
			}
			authErr.Code = retrieveErr.ErrorCode
		}
		slog.ErrorContext(ctx, "Zoom token exchange failed",
			"status", authErr.StatusCode,
			"oauth_error_code", authErr.Code,
			logging.ErrKey, err)
		return "", authErr
	}

	slog.DebugContext(ctx, "Zoom token exchange completed", "token_type", token.TokenType)
	return token.AccessToken, nil
}
