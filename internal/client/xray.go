package client

import (
	"encoding/json"
	"fmt"
)

// xrayClient handles the Xray curation APIs. It is intentionally unexported
// so callers use the XrayClient interface.
type xrayClient struct {
	*HTTPClient
}

// NewXrayClient creates a new XrayClient instance.
func NewXrayClient(baseURL string, creds Credentials) XrayClient {
	return &xrayClient{
		HTTPClient: NewHTTPClient(baseURL, creds),
	}
}

// The list endpoints default to 15 rows, which is far too low for a full
// reconciliation pass, so a high row count is forced.
// TODO: handle pagination instead once the result sets approach 1000 rows.
const curationRowLimit = "1000"

func (c *xrayClient) ListConditions() ([]Condition, error) {
	params := map[string]string{"num_of_rows": curationRowLimit}
	resp, err := c.DoReq("GET", "/xray/api/v1/curation/conditions", nil, params)
	if err != nil {
		return nil, fmt.Errorf("list curation conditions: %w", err)
	}
	var envelope struct {
		Data []Condition `json:"data"`
	}
	if err := json.Unmarshal(resp.Bytes(), &envelope); err != nil {
		return nil, fmt.Errorf("list curation conditions: failed to unmarshal response: %w", err)
	}
	return envelope.Data, nil
}

func (c *xrayClient) CreateCondition(condition *Condition) error {
	if _, err := c.DoReq("POST", "/xray/api/v1/curation/conditions", condition, nil); err != nil {
		return fmt.Errorf("create condition '%s': %w", condition.Name, err)
	}
	return nil
}

func (c *xrayClient) UpdateCondition(condition *Condition) error {
	if condition.ID == "" {
		return fmt.Errorf("update condition '%s': id is empty", condition.Name)
	}
	endpoint := fmt.Sprintf("/xray/api/v1/curation/conditions/%s", condition.ID)
	if _, err := c.DoReq("PUT", endpoint, condition, nil); err != nil {
		return fmt.Errorf("update condition '%s': %w", condition.Name, err)
	}
	return nil
}

func (c *xrayClient) ListPolicies() ([]Policy, error) {
	params := map[string]string{"num_of_rows": curationRowLimit}
	resp, err := c.DoReq("GET", "/xray/api/v1/curation/policies", nil, params)
	if err != nil {
		return nil, fmt.Errorf("list curation policies: %w", err)
	}
	var envelope struct {
		Data []Policy `json:"data"`
	}
	if err := json.Unmarshal(resp.Bytes(), &envelope); err != nil {
		return nil, fmt.Errorf("list curation policies: failed to unmarshal response: %w", err)
	}
	return envelope.Data, nil
}

func (c *xrayClient) CreatePolicy(policy *Policy) error {
	if _, err := c.DoReq("POST", "/xray/api/v1/curation/policies", policy, nil); err != nil {
		return fmt.Errorf("create policy '%s': %w", policy.Name, err)
	}
	return nil
}

func (c *xrayClient) UpdatePolicy(policy *Policy) error {
	if policy.ID == "" {
		return fmt.Errorf("update policy '%s': id is empty", policy.Name)
	}
	endpoint := fmt.Sprintf("/xray/api/v1/curation/policies/%s", policy.ID)
	if _, err := c.DoReq("PUT", endpoint, policy, nil); err != nil {
		return fmt.Errorf("update policy '%s': %w", policy.Name, err)
	}
	return nil
}
