package service

import (
	"testing"
	"time"

	"github.com/artiops/artifactory-automation/internal/client"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"
)

func TestParseLastLogin(t *testing.T) {
	t.Run("Valid timestamp", func(t *testing.T) {
		ts, ok := parseLastLogin("2026-08-20T10:30:00.000Z")
		assert.True(t, ok)
		assert.Equal(t, 2026, ts.Year())
	})

	t.Run("Epoch sentinel means never", func(t *testing.T) {
		_, ok := parseLastLogin("1970-01-01T00:00:00.000Z")
		assert.False(t, ok)
	})

	t.Run("Empty means never", func(t *testing.T) {
		_, ok := parseLastLogin("")
		assert.False(t, ok)
	})

	t.Run("Garbage rejected", func(t *testing.T) {
		_, ok := parseLastLogin("not-a-time")
		assert.False(t, ok)
	})
}

func TestUserActivityReport(t *testing.T) {
	recent := time.Now().Add(-24 * time.Hour).UTC().Format(time.RFC3339Nano)
	stale := time.Now().AddDate(0, 0, -90).UTC().Format(time.RFC3339Nano)

	users := []client.UserSummary{
		{Username: "alice", Status: "enabled"},
		{Username: "bob", Status: "enabled"},
		{Username: "carol", Status: "disabled"},
		{Username: "dave", Status: "enabled"},
	}

	mockAccess := new(MockAccessClient)
	mockAccess.On("ListUsers").Return(users, nil)
	mockAccess.On("GetUserDetail", "alice").Return(&client.UserDetail{Username: "alice", LastLoggedIn: recent}, nil)
	mockAccess.On("GetUserDetail", "bob").Return(&client.UserDetail{Username: "bob", LastLoggedIn: stale}, nil)
	mockAccess.On("GetUserDetail", "dave").Return(&client.UserDetail{Username: "dave", LastLoggedIn: neverLoggedIn}, nil)

	report, err := NewUserActivityReport(mockAccess).Run(30)

	require.NoError(t, err)
	assert.Equal(t, 4, report.TotalUsers)
	assert.Equal(t, 3, report.EnabledUsers)
	require.Len(t, report.ActiveUsers, 1)
	assert.Equal(t, "alice", report.ActiveUsers[0].Username)
	mockAccess.AssertNotCalled(t, "GetUserDetail", "carol")
}

func TestTokenManager(t *testing.T) {
	t.Run("Create user token", func(t *testing.T) {
		mockAccess := new(MockAccessClient)
		mockAccess.On("CreateToken", mock.MatchedBy(func(r *client.TokenRequest) bool {
			return r.Username == "ci-bot" && r.Scope == "applied-permissions/user" &&
				r.ForceRevokable && r.ExpiresIn == 3600
		})).Return(&client.TokenResponse{TokenID: "t-1", AccessToken: "secret", ExpiresIn: 3600}, nil)

		tm := NewTokenManager(mockAccess)
		token, err := tm.CreateUserToken("ci-bot", "ci token", time.Hour)

		require.NoError(t, err)
		assert.Equal(t, "t-1", token.TokenID)
		mockAccess.AssertExpectations(t)
	})

	t.Run("Revoke token", func(t *testing.T) {
		mockAccess := new(MockAccessClient)
		mockAccess.On("RevokeToken", "t-1").Return(nil)

		tm := NewTokenManager(mockAccess)
		assert.NoError(t, tm.RevokeToken("t-1"))
		mockAccess.AssertExpectations(t)
	})
}
