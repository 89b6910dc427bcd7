package service

import (
	"io"

	"github.com/artiops/artifactory-automation/internal/client"
	"github.com/stretchr/testify/mock"
)

// MockArtifactoryClient is a mock implementation of client.ArtifactoryClient
type MockArtifactoryClient struct {
	mock.Mock
}

func (m *MockArtifactoryClient) SearchOldBuilds(years int) ([]client.BuildRecord, error) {
	args := m.Called(years)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]client.BuildRecord), args.Error(1)
}

func (m *MockArtifactoryClient) DeleteBuild(name string, numbers []string) error {
	args := m.Called(name, numbers)
	return args.Error(0)
}

func (m *MockArtifactoryClient) SearchItems(repo, namePattern string) ([]client.ArtifactRef, error) {
	args := m.Called(repo, namePattern)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]client.ArtifactRef), args.Error(1)
}

func (m *MockArtifactoryClient) SearchRecentItems(repo string, days, limit int) ([]client.ArtifactRef, error) {
	args := m.Called(repo, days, limit)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]client.ArtifactRef), args.Error(1)
}

func (m *MockArtifactoryClient) CreateDirectory(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

func (m *MockArtifactoryClient) CopyArtifact(from, to string) error {
	args := m.Called(from, to)
	return args.Error(0)
}

func (m *MockArtifactoryClient) MoveArtifact(from, to string) error {
	args := m.Called(from, to)
	return args.Error(0)
}

func (m *MockArtifactoryClient) DeleteArtifact(path string) error {
	args := m.Called(path)
	return args.Error(0)
}

func (m *MockArtifactoryClient) UploadArtifact(path string, body io.Reader) error {
	args := m.Called(path, body)
	return args.Error(0)
}

func (m *MockArtifactoryClient) GetRepository(key string) (*client.Repository, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Repository), args.Error(1)
}

func (m *MockArtifactoryClient) CreateRepository(repo *client.Repository) error {
	args := m.Called(repo)
	return args.Error(0)
}

func (m *MockArtifactoryClient) UpdateRepository(repo *client.Repository) error {
	args := m.Called(repo)
	return args.Error(0)
}

func (m *MockArtifactoryClient) DeleteRepository(key string) error {
	args := m.Called(key)
	return args.Error(0)
}

func (m *MockArtifactoryClient) GetRepositoryConfigurations() (map[string][]client.Repository, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(map[string][]client.Repository), args.Error(1)
}

func (m *MockArtifactoryClient) PermissionTargetExists(name string) (bool, error) {
	args := m.Called(name)
	return args.Bool(0), args.Error(1)
}

func (m *MockArtifactoryClient) CreatePermissionTarget(target *client.PermissionTarget) error {
	args := m.Called(target)
	return args.Error(0)
}

func (m *MockArtifactoryClient) DeletePermissionTarget(name string) error {
	args := m.Called(name)
	return args.Error(0)
}

// MockXrayClient is a mock implementation of client.XrayClient
type MockXrayClient struct {
	mock.Mock
}

func (m *MockXrayClient) ListConditions() ([]client.Condition, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]client.Condition), args.Error(1)
}

func (m *MockXrayClient) CreateCondition(condition *client.Condition) error {
	args := m.Called(condition)
	return args.Error(0)
}

func (m *MockXrayClient) UpdateCondition(condition *client.Condition) error {
	args := m.Called(condition)
	return args.Error(0)
}

func (m *MockXrayClient) ListPolicies() ([]client.Policy, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]client.Policy), args.Error(1)
}

func (m *MockXrayClient) CreatePolicy(policy *client.Policy) error {
	args := m.Called(policy)
	return args.Error(0)
}

func (m *MockXrayClient) UpdatePolicy(policy *client.Policy) error {
	args := m.Called(policy)
	return args.Error(0)
}

// MockAccessClient is a mock implementation of client.AccessClient
type MockAccessClient struct {
	mock.Mock
}

func (m *MockAccessClient) CreateToken(req *client.TokenRequest) (*client.TokenResponse, error) {
	args := m.Called(req)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.TokenResponse), args.Error(1)
}

func (m *MockAccessClient) RevokeToken(tokenID string) error {
	args := m.Called(tokenID)
	return args.Error(0)
}

func (m *MockAccessClient) ListUsers() ([]client.UserSummary, error) {
	args := m.Called()
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).([]client.UserSummary), args.Error(1)
}

func (m *MockAccessClient) GetUserDetail(username string) (*client.UserDetail, error) {
	args := m.Called(username)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.UserDetail), args.Error(1)
}

func (m *MockAccessClient) GroupExists(name string) (bool, error) {
	args := m.Called(name)
	return args.Bool(0), args.Error(1)
}

func (m *MockAccessClient) CreateGroup(group *client.Group) error {
	args := m.Called(group)
	return args.Error(0)
}

func (m *MockAccessClient) DeleteGroup(name string) error {
	args := m.Called(name)
	return args.Error(0)
}

func (m *MockAccessClient) GetProject(key string) (*client.Project, error) {
	args := m.Called(key)
	if args.Get(0) == nil {
		return nil, args.Error(1)
	}
	return args.Get(0).(*client.Project), args.Error(1)
}

func (m *MockAccessClient) CreateProject(project *client.Project) error {
	args := m.Called(project)
	return args.Error(0)
}
