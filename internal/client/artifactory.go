package client

import (
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"net/http"
	"net/url"
	"strings"
)

// artifactoryClient is an unexported concrete implementation of
// ArtifactoryClient.
type artifactoryClient struct {
	*HTTPClient
}

// NewArtifactoryClient creates a configured ArtifactoryClient implementation
// for the provided base URL and credentials.
//
// The concrete returned type is unexported; callers work with the
// ArtifactoryClient interface.
func NewArtifactoryClient(baseURL string, creds Credentials) ArtifactoryClient {
	return &artifactoryClient{
		HTTPClient: NewHTTPClient(baseURL, creds),
	}
}

// aqlQuery is an Artifactory Query Language request. The API takes a
// text/plain body of the form `<type>.find(<criteria>).include("a","b")`,
// optionally followed by `.limit(n)`.
type aqlQuery struct {
	Type    string
	Find    map[string]any
	Include []string
	Limit   int
}

func (q aqlQuery) encode() (string, error) {
	criteria, err := json.Marshal(q.Find)
	if err != nil {
		return "", fmt.Errorf("encode AQL criteria: %w", err)
	}
	quoted := make([]string, 0, len(q.Include))
	for _, field := range q.Include {
		quoted = append(quoted, fmt.Sprintf("%q", field))
	}
	body := fmt.Sprintf("%s.find(%s).include(%s)", q.Type, criteria, strings.Join(quoted, ","))
	if q.Limit > 0 {
		body += fmt.Sprintf(".limit(%d)", q.Limit)
	}
	return body, nil
}

func (c *artifactoryClient) searchAQL(query aqlQuery, out any) error {
	body, err := query.encode()
	if err != nil {
		return err
	}
	resp, err := c.DoText("POST", "/artifactory/api/search/aql", body)
	if err != nil {
		return fmt.Errorf("AQL search: %w", err)
	}
	if err := json.Unmarshal(resp.Bytes(), out); err != nil {
		return fmt.Errorf("AQL search: failed to unmarshal response: %w", err)
	}
	return nil
}

func (c *artifactoryClient) SearchOldBuilds(years int) ([]BuildRecord, error) {
	query := aqlQuery{
		Type: "builds",
		Find: map[string]any{
			"created": map[string]any{"$before": fmt.Sprintf("%dyears", years)},
		},
		Include: []string{"name", "number", "created"},
	}
	var result struct {
		Results []BuildRecord `json:"results"`
		Range   aqlRange      `json:"range"`
	}
	if err := c.searchAQL(query, &result); err != nil {
		return nil, fmt.Errorf("search builds older than %d years: %w", years, err)
	}
	return result.Results, nil
}

func (c *artifactoryClient) DeleteBuild(name string, numbers []string) error {
	endpoint := fmt.Sprintf("/artifactory/api/build/%s?buildNumbers=%s",
		url.PathEscape(name), strings.Join(numbers, ","))
	if _, err := c.DoReq("DELETE", endpoint, nil, nil); err != nil {
		return fmt.Errorf("delete build '%s' numbers [%s]: %w", name, strings.Join(numbers, ","), err)
	}
	return nil
}

// SearchItems lists the artifacts of a repository. When namePattern is
// non-empty it restricts the results to artifact names matching the AQL
// wildcard pattern.
func (c *artifactoryClient) SearchItems(repo, namePattern string) ([]ArtifactRef, error) {
	find := map[string]any{
		"repo": map[string]any{"$eq": repo},
	}
	if namePattern != "" {
		find["name"] = map[string]any{"$match": namePattern}
	}
	query := aqlQuery{
		Type:    "items",
		Find:    find,
		Include: []string{"path", "name"},
	}
	var result struct {
		Results []ArtifactRef `json:"results"`
		Range   aqlRange      `json:"range"`
	}
	if err := c.searchAQL(query, &result); err != nil {
		return nil, fmt.Errorf("search items in repository '%s': %w", repo, err)
	}
	// The query only includes path and name; stamp the repo on each ref.
	for i := range result.Results {
		result.Results[i].Repo = repo
	}
	return result.Results, nil
}

// SearchRecentItems lists artifacts created within the last N days, across
// all repositories when repo is empty. The result set is capped at limit.
func (c *artifactoryClient) SearchRecentItems(repo string, days, limit int) ([]ArtifactRef, error) {
	created := map[string]any{"$last": fmt.Sprintf("%ddays", days)}
	find := map[string]any{"created": created}
	if repo != "" {
		find = map[string]any{
			"$and": []map[string]any{
				{"repo": repo},
				{"created": created},
			},
		}
	}
	query := aqlQuery{
		Type:    "items",
		Find:    find,
		Include: []string{"repo", "path", "name", "created"},
		Limit:   limit,
	}
	var result struct {
		Results []ArtifactRef `json:"results"`
		Range   aqlRange      `json:"range"`
	}
	if err := c.searchAQL(query, &result); err != nil {
		return nil, fmt.Errorf("search items created in the last %d days: %w", days, err)
	}
	return result.Results, nil
}

func (c *artifactoryClient) CreateDirectory(path string) error {
	if _, err := c.DoReq("PUT", fmt.Sprintf("/artifactory/%s/", path), nil, nil); err != nil {
		return fmt.Errorf("create directory '%s': %w", path, err)
	}
	return nil
}

func (c *artifactoryClient) CopyArtifact(from, to string) error {
	endpoint := fmt.Sprintf("/artifactory/api/copy/%s?to=/%s", from, to)
	if _, err := c.DoReq("POST", endpoint, nil, nil); err != nil {
		return fmt.Errorf("copy artifact '%s' to '%s': %w", from, to, err)
	}
	return nil
}

func (c *artifactoryClient) MoveArtifact(from, to string) error {
	endpoint := fmt.Sprintf("/artifactory/api/move/%s?to=/%s", from, to)
	if _, err := c.DoReq("POST", endpoint, nil, nil); err != nil {
		return fmt.Errorf("move artifact '%s' to '%s': %w", from, to, err)
	}
	return nil
}

func (c *artifactoryClient) DeleteArtifact(path string) error {
	if _, err := c.DoReq("DELETE", fmt.Sprintf("/artifactory/%s", path), nil, nil); err != nil {
		return fmt.Errorf("delete artifact '%s': %w", path, err)
	}
	return nil
}

func (c *artifactoryClient) UploadArtifact(path string, body io.Reader) error {
	if _, err := c.DoStream("PUT", fmt.Sprintf("/artifactory/%s", path), body); err != nil {
		return fmt.Errorf("upload artifact '%s': %w", path, err)
	}
	return nil
}

func (c *artifactoryClient) GetRepository(key string) (*Repository, error) {
	resp, err := c.DoReq("GET", fmt.Sprintf("/artifactory/api/repositories/%s", key), nil, nil)
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return nil, nil
		}
		return nil, fmt.Errorf("get repository '%s': %w", key, err)
	}
	var repo Repository
	if err := json.Unmarshal(resp.Bytes(), &repo); err != nil {
		return nil, fmt.Errorf("get repository '%s': failed to unmarshal response: %w", key, err)
	}
	return &repo, nil
}

// CreateRepository creates a repository from a full definition. The API uses
// PUT for creation and POST for updates.
func (c *artifactoryClient) CreateRepository(repo *Repository) error {
	if repo.Key == "" {
		return fmt.Errorf("create repository: key is empty")
	}
	if _, err := c.DoReq("PUT", fmt.Sprintf("/artifactory/api/repositories/%s", repo.Key), repo, nil); err != nil {
		return fmt.Errorf("create repository '%s': %w", repo.Key, err)
	}
	return nil
}

func (c *artifactoryClient) UpdateRepository(repo *Repository) error {
	if repo.Key == "" {
		return fmt.Errorf("update repository: key is empty")
	}
	if _, err := c.DoReq("POST", fmt.Sprintf("/artifactory/api/repositories/%s", repo.Key), repo, nil); err != nil {
		return fmt.Errorf("update repository '%s': %w", repo.Key, err)
	}
	return nil
}

func (c *artifactoryClient) DeleteRepository(key string) error {
	resp, err := c.DoReq("DELETE", fmt.Sprintf("/artifactory/api/repositories/%s", key), nil, nil)
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return nil
		}
		return err
	}
	if resp.StatusCode() != http.StatusOK && resp.StatusCode() != http.StatusNoContent {
		return fmt.Errorf("unexpected status: %d", resp.StatusCode())
	}
	return nil
}

// PermissionTargetExists reports whether a v2 permission target with the
// given name exists.
func (c *artifactoryClient) PermissionTargetExists(name string) (bool, error) {
	_, err := c.DoReq("HEAD", fmt.Sprintf("/artifactory/api/v2/security/permissions/%s", name), nil, nil)
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return false, nil
		}
		return false, fmt.Errorf("check permission target '%s': %w", name, err)
	}
	return true, nil
}

func (c *artifactoryClient) CreatePermissionTarget(target *PermissionTarget) error {
	if target.Name == "" {
		return fmt.Errorf("create permission target: name is empty")
	}
	endpoint := fmt.Sprintf("/artifactory/api/v2/security/permissions/%s", target.Name)
	if _, err := c.DoReq("POST", endpoint, target, nil); err != nil {
		return fmt.Errorf("create permission target '%s': %w", target.Name, err)
	}
	return nil
}

// DeletePermissionTarget removes a permission target, ignoring 404 so
// deleting an absent target is a no-op.
func (c *artifactoryClient) DeletePermissionTarget(name string) error {
	_, err := c.DoReq("DELETE", fmt.Sprintf("/artifactory/api/v2/security/permissions/%s", name), nil, nil)
	if err != nil {
		var httpErr *HTTPError
		if errors.As(err, &httpErr) && httpErr.StatusCode == http.StatusNotFound {
			return nil
		}
		return fmt.Errorf("delete permission target '%s': %w", name, err)
	}
	return nil
}

// GetRepositoryConfigurations returns every repository definition grouped by
// repository class (LOCAL, REMOTE, VIRTUAL, FEDERATED).
func (c *artifactoryClient) GetRepositoryConfigurations() (map[string][]Repository, error) {
	resp, err := c.DoReq("GET", "/artifactory/api/repositories/configurations", nil, nil)
	if err != nil {
		return nil, fmt.Errorf("get repository configurations: %w", err)
	}
	var grouped map[string][]Repository
	if err := json.Unmarshal(resp.Bytes(), &grouped); err != nil {
		return nil, fmt.Errorf("get repository configurations: failed to unmarshal response: %w", err)
	}
	return grouped, nil
}
