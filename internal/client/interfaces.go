package client

import "io"

// ArtifactoryClient defines the operations we perform against the Artifactory
// REST API. Use NewArtifactoryClient to obtain an implementation that
// satisfies this interface.
type ArtifactoryClient interface {
	SearchOldBuilds(years int) ([]BuildRecord, error)
	DeleteBuild(name string, numbers []string) error

	SearchItems(repo, namePattern string) ([]ArtifactRef, error)
	SearchRecentItems(repo string, days, limit int) ([]ArtifactRef, error)
	CreateDirectory(path string) error
	CopyArtifact(from, to string) error
	MoveArtifact(from, to string) error
	DeleteArtifact(path string) error
	UploadArtifact(path string, body io.Reader) error

	GetRepository(key string) (*Repository, error)
	CreateRepository(repo *Repository) error
	UpdateRepository(repo *Repository) error
	DeleteRepository(key string) error
	GetRepositoryConfigurations() (map[string][]Repository, error)

	PermissionTargetExists(name string) (bool, error)
	CreatePermissionTarget(target *PermissionTarget) error
	DeletePermissionTarget(name string) error
}

// XrayClient defines the curation operations we perform against Xray.
// Use NewXrayClient to create a real implementation.
type XrayClient interface {
	ListConditions() ([]Condition, error)
	CreateCondition(condition *Condition) error
	UpdateCondition(condition *Condition) error
	ListPolicies() ([]Policy, error)
	CreatePolicy(policy *Policy) error
	UpdatePolicy(policy *Policy) error
}

// AccessClient defines the operations against the Access API: token
// issuance/revocation, user reporting, groups, and projects.
type AccessClient interface {
	CreateToken(req *TokenRequest) (*TokenResponse, error)
	RevokeToken(tokenID string) error
	ListUsers() ([]UserSummary, error)
	GetUserDetail(username string) (*UserDetail, error)

	GroupExists(name string) (bool, error)
	CreateGroup(group *Group) error
	DeleteGroup(name string) error

	GetProject(key string) (*Project, error)
	CreateProject(project *Project) error
}
