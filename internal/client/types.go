package client

import "encoding/json"

// Repository is an Artifactory repository definition. Optional booleans are
// pointers so that an unset field is omitted from requests rather than sent
// as false.
type Repository struct {
	Key             string   `json:"key"`
	Rclass          string   `json:"rclass,omitempty"`
	PackageType     string   `json:"packageType,omitempty"`
	ProjectKey      string   `json:"projectKey,omitempty"`
	Environments    []string `json:"environments,omitempty"`
	Description     string   `json:"description,omitempty"`
	Notes           string   `json:"notes,omitempty"`
	IncludesPattern string   `json:"includesPattern,omitempty"`
	ExcludesPattern string   `json:"excludesPattern,omitempty"`
	RepoLayoutRef   string   `json:"repoLayoutRef,omitempty"`

	HandleReleases               *bool    `json:"handleReleases,omitempty"`
	HandleSnapshots              *bool    `json:"handleSnapshots,omitempty"`
	MaxUniqueSnapshots           int      `json:"maxUniqueSnapshots,omitempty"`
	SnapshotVersionBehavior      string   `json:"snapshotVersionBehavior,omitempty"`
	SuppressPomConsistencyChecks *bool    `json:"suppressPomConsistencyChecks,omitempty"`
	ChecksumPolicyType           string   `json:"checksumPolicyType,omitempty"`
	BlackedOut                   *bool    `json:"blackedOut,omitempty"`
	XrayIndex                    *bool    `json:"xrayIndex,omitempty"`
	PropertySets                 []string `json:"propertySets,omitempty"`
	ArchiveBrowsingEnabled       *bool    `json:"archiveBrowsingEnabled,omitempty"`
	CalculateYumMetadata         *bool    `json:"calculateYumMetadata,omitempty"`
	YumRootDepth                 int      `json:"yumRootDepth,omitempty"`
	DockerAPIVersion             string   `json:"dockerApiVersion,omitempty"`
	EnableFileListsIndexing      *bool    `json:"enableFileListsIndexing,omitempty"`
	DownloadRedirect             *bool    `json:"downloadRedirect,omitempty"`
	CdnRedirect                  *bool    `json:"cdnRedirect,omitempty"`
	BlockPushingSchema1          *bool    `json:"blockPushingSchema1,omitempty"`
	PriorityResolution           *bool    `json:"priorityResolution,omitempty"`

	// Remote repositories
	URL string `json:"url,omitempty"`

	// Federated repositories
	Members []FederatedMember `json:"members,omitempty"`
	Proxy   string            `json:"proxy,omitempty"`

	// Virtual repositories
	Repositories          []string `json:"repositories,omitempty"`
	DefaultDeploymentRepo string   `json:"defaultDeploymentRepo,omitempty"`
}

// FederatedMember is one member of a federated repository.
type FederatedMember struct {
	URL     string `json:"url"`
	Enabled bool   `json:"enabled"`
}

// BuildRecord identifies one build run returned by an AQL builds query.
type BuildRecord struct {
	Name    string      `json:"name"`
	Number  json.Number `json:"number"`
	Created string      `json:"created"`
}

// ArtifactRef locates one artifact inside a repository. Created is only
// populated by queries that ask for it.
type ArtifactRef struct {
	Repo    string `json:"repo"`
	Path    string `json:"path"`
	Name    string `json:"name"`
	Created string `json:"created,omitempty"`
}

// FullPath returns the repo/path/name form used by the copy, move, and
// delete APIs.
func (a ArtifactRef) FullPath() string {
	return a.Repo + "/" + a.Path + "/" + a.Name
}

// aqlRange is the paging envelope on AQL responses.
type aqlRange struct {
	Total int `json:"total"`
}

// Condition is an Xray curation condition.
type Condition struct {
	ID                  json.Number      `json:"id,omitempty"`
	Name                string           `json:"name"`
	ConditionTemplateID string           `json:"condition_template_id"`
	ParamValues         []ConditionParam `json:"param_values"`
}

// ConditionParam is one parameter of a curation condition. Value may be a
// string, number, boolean, or list depending on the template.
type ConditionParam struct {
	ParamID string `json:"param_id"`
	Value   any    `json:"value"`
}

// Policy is an Xray curation policy.
type Policy struct {
	ID                  json.Number   `json:"id,omitempty"`
	Name                string        `json:"name"`
	Enabled             bool          `json:"enabled"`
	Scope               string        `json:"scope"`
	RepoInclude         []string      `json:"repo_include,omitempty"`
	RepoExclude         []string      `json:"repo_exclude,omitempty"`
	PkgTypesInclude     []string      `json:"pkg_types_include,omitempty"`
	PolicyAction        string        `json:"policy_action"`
	ConditionID         string        `json:"condition_id"`
	Waivers             []Waiver      `json:"waivers,omitempty"`
	LabelWaivers        []LabelWaiver `json:"label_waivers,omitempty"`
	NotifyEmails        []string      `json:"notify_emails,omitempty"`
	WaiverRequestConfig string        `json:"waiver_request_config,omitempty"`
	DecisionOwners      []string      `json:"decision_owners,omitempty"`
}

// Waiver exempts a package from a curation policy.
type Waiver struct {
	ID            string   `json:"id,omitempty"`
	PkgType       string   `json:"pkg_type"`
	PkgName       string   `json:"pkg_name"`
	AllVersions   bool     `json:"all_versions"`
	PkgVersions   []string `json:"pkg_versions,omitempty"`
	Justification string   `json:"justification"`
	CreatedBy     string   `json:"created_by,omitempty"`
	CreatedAt     string   `json:"created_at,omitempty"`
}

// LabelWaiver exempts all packages carrying a label from a curation policy.
type LabelWaiver struct {
	ID            string `json:"id,omitempty"`
	Label         string `json:"label"`
	Justification string `json:"justification"`
	CreatedBy     string `json:"created_by,omitempty"`
	CreatedAt     string `json:"created_at,omitempty"`
}

// PermissionTarget grants repository actions to groups or users.
type PermissionTarget struct {
	Name string           `json:"name"`
	Repo *PermissionGrant `json:"repo,omitempty"`
}

// PermissionGrant scopes a permission target to repositories and paths.
type PermissionGrant struct {
	IncludePatterns []string          `json:"include-patterns,omitempty"`
	ExcludePatterns []string          `json:"exclude-patterns,omitempty"`
	Repositories    []string          `json:"repositories"`
	Actions         PermissionActions `json:"actions"`
}

// PermissionActions maps principal names to their granted actions.
type PermissionActions struct {
	Groups map[string][]string `json:"groups,omitempty"`
	Users  map[string][]string `json:"users,omitempty"`
}

// Group is a security group managed through the Access API.
type Group struct {
	Name            string `json:"name"`
	Description     string `json:"description,omitempty"`
	AdminPrivileges bool   `json:"admin_privileges"`
}

// Project is a project definition for the Access projects API.
type Project struct {
	Key               string                  `json:"key"`
	Name              string                  `json:"name"`
	Description       string                  `json:"description,omitempty"`
	AdminPrivileges   *ProjectAdminPrivileges `json:"admin_privileges,omitempty"`
	StorageQuotaBytes int64                   `json:"storage_quota_bytes,omitempty"`
}

// ProjectAdminPrivileges configures what project admins may manage.
type ProjectAdminPrivileges struct {
	ManageMembers        bool `json:"manage_members"`
	ManageResources      bool `json:"manage_resources"`
	ManageSecurityAssets bool `json:"manage_security_assets"`
	IndexResources       bool `json:"index_resources"`
	AllowIgnoreRules     bool `json:"allow_ignore_rules"`
}

// TokenRequest is the payload for creating an access token.
type TokenRequest struct {
	Username              string `json:"username"`
	Scope                 string `json:"scope"`
	ExpiresIn             int    `json:"expires_in"`
	Description           string `json:"description,omitempty"`
	IncludeReferenceToken bool   `json:"include_reference_token"`
	ForceRevokable        bool   `json:"force_revokable"`
}

// TokenResponse is the server's answer to a token creation request.
type TokenResponse struct {
	TokenID        string `json:"token_id"`
	AccessToken    string `json:"access_token"`
	ReferenceToken string `json:"reference_token,omitempty"`
	ExpiresIn      int    `json:"expires_in"`
	Scope          string `json:"scope"`
	TokenType      string `json:"token_type"`
}

// UserSummary is one entry from the users list API.
type UserSummary struct {
	Username string `json:"username"`
	Status   string `json:"status"`
	Realm    string `json:"realm,omitempty"`
}

// UserDetail carries the per-user fields we care about; LastLoggedIn keeps
// the server's ISO 8601 string, with the epoch sentinel meaning "never".
type UserDetail struct {
	Username     string `json:"username"`
	Status       string `json:"status"`
	LastLoggedIn string `json:"last_logged_in"`
}
