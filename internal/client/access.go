package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"net/http"
)

// accessClient handles the Access API: token lifecycle and user reporting.
type accessClient struct {
	*HTTPClient
}

// NewAccessClient creates a new AccessClient instance.
func NewAccessClient(baseURL string, creds Credentials) AccessClient {
	return &accessClient{
		HTTPClient: NewHTTPClient(baseURL, creds),
	}
}

func (c *accessClient) CreateToken(req *TokenRequest) (*TokenResponse, error) {
	resp, err := c.DoReq("POST", "/access/api/v1/tokens", req, nil)
	if err != nil {
		return nil, fmt.Errorf("create access token for '%s': %w", req.Username, err)
	}
	var token TokenResponse
	if err := json.Unmarshal(resp.Bytes(), &token); err != nil {
		return nil, fmt.Errorf("create access token for '%s': failed to unmarshal response: %w", req.Username, err)
	}
	return &token, nil
}

// RevokeToken revokes a token by its token id, ignoring 404 so revoking an
// already-revoked token is a no-op.
func (c *accessClient) RevokeToken(tokenID string) error {
	_, err := c.DoReq("DELETE", fmt.Sprintf("/access/api/v1/tokens/%s", tokenID), nil, nil)
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return nil
		}
		return fmt.Errorf("revoke access token '%s': %w", tokenID, err)
	}
	return nil
}

// GroupExists reports whether a security group with the given name exists.
func (c *accessClient) GroupExists(name string) (bool, error) {
	_, err := c.DoReq("GET", fmt.Sprintf("/access/api/v2/groups/%s", name), nil, nil)
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return false, nil
		}
		return false, fmt.Errorf("check group '%s': %w", name, err)
	}
	return true, nil
}

func (c *accessClient) CreateGroup(group *Group) error {
	if group.Name == "" {
		return fmt.Errorf("create group: name is empty")
	}
	if _, err := c.DoReq("POST", "/access/api/v2/groups", group, nil); err != nil {
		return fmt.Errorf("create group '%s': %w", group.Name, err)
	}
	return nil
}

// DeleteGroup removes a group, ignoring 404 so deleting an absent group is
// a no-op.
func (c *accessClient) DeleteGroup(name string) error {
	_, err := c.DoReq("DELETE", fmt.Sprintf("/access/api/v2/groups/%s", name), nil, nil)
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return nil
		}
		return fmt.Errorf("delete group '%s': %w", name, err)
	}
	return nil
}

// GetProject returns the project with the given key, or nil when it does
// not exist.
func (c *accessClient) GetProject(key string) (*Project, error) {
	resp, err := c.DoReq("GET", fmt.Sprintf("/access/api/v1/projects/%s", key), nil, nil)
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get project '%s': %w", key, err)
	}
	var project Project
	if err := json.Unmarshal(resp.Bytes(), &project); err != nil {
		return nil, fmt.Errorf("get project '%s': failed to unmarshal response: %w", key, err)
	}
	return &project, nil
}

func (c *accessClient) CreateProject(project *Project) error {
	if project.Key == "" {
		return fmt.Errorf("create project: key is empty")
	}
	if _, err := c.DoReq("POST", "/access/api/v1/projects", project, nil); err != nil {
		return fmt.Errorf("create project '%s': %w", project.Key, err)
	}
	return nil
}

func (c *accessClient) ListUsers() ([]UserSummary, error) {
	resp, err := c.DoReq("GET", "/access/api/v2/users", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("list users: %w", err)
	}
	var envelope struct {
		Users []UserSummary `json:"users"`
	}
	if err := json.Unmarshal(resp.Bytes(), &envelope); err != nil {
		return nil, fmt.Errorf("list users: failed to unmarshal response: %w", err)
	}
	return envelope.Users, nil
}

func (c *accessClient) GetUserDetail(username string) (*UserDetail, error) {
	resp, err := c.DoReq("GET", fmt.Sprintf("/access/api/v2/users/%s", username), nil, nil)
	if err != nil {
		return nil, fmt.Errorf("get user '%s': %w", username, err)
	}
	var detail UserDetail
	if err := json.Unmarshal(resp.Bytes(), &detail); err != nil {
		return nil, fmt.Errorf("get user '%s': failed to unmarshal response: %w", username, err)
	}
	return &detail, nil
}
