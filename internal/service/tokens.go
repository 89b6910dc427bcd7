package service

import (
	"fmt"
	"time"

	"github.com/artiops/artifactory-automation/internal/client"
	"github.com/artiops/artifactory-automation/internal/utils"
	"go.uber.org/zap"
)

// TokenManager issues and revokes scoped access tokens.
type TokenManager struct {
	access client.AccessClient
}

// NewTokenManager creates a new TokenManager instance.
func NewTokenManager(access client.AccessClient) *TokenManager {
	return &TokenManager{access: access}
}

// CreateUserToken issues a revokable token scoped to the user's own
// permissions. A zero ttl lets the server apply its default expiry.
func (tm *TokenManager) CreateUserToken(username, description string, ttl time.Duration) (*client.TokenResponse, error) {
	req := &client.TokenRequest{
		Username:              username,
		Scope:                 "applied-permissions/user",
		ExpiresIn:             int(ttl.Seconds()),
		Description:           description,
		IncludeReferenceToken: true,
		ForceRevokable:        true,
	}
	token, err := tm.access.CreateToken(req)
	if err != nil {
		return nil, fmt.Errorf("create token for user '%s': %w", username, err)
	}
	utils.WithComponent("tokens").Info("Created access token",
		zap.String("username", username),
		zap.String("token_id", token.TokenID),
		zap.Int("expires_in", token.ExpiresIn))
	return token, nil
}

// RevokeToken revokes a token by id. Revoking an unknown token is not an
// error.
func (tm *TokenManager) RevokeToken(tokenID string) error {
	if err := tm.access.RevokeToken(tokenID); err != nil {
		return fmt.Errorf("revoke token '%s': %w", tokenID, err)
	}
	utils.WithComponent("tokens").Info("Revoked access token", zap.String("token_id", tokenID))
	return nil
}
