// Package config provides configuration loading, validation, and data models.
package config

import "slices"

// RepoTypes lists the package types accepted for provisioned repositories.
var RepoTypes = []string{
	"alpine", "cargo", "composer", "bower", "chef", "cocoapods", "conan",
	"cran", "debian", "docker", "helm", "gems", "gitlfs", "go", "gradle",
	"ivy", "maven", "npm", "nuget", "opkg", "pub", "puppet", "pypi", "rpm",
	"sbt", "swift", "terraform", "vagrant", "yum", "generic",
}

// IsSupportedRepoType reports whether t is an accepted package type.
func IsSupportedRepoType(t string) bool {
	return slices.Contains(RepoTypes, t)
}

// RepoProvisionRequest represents a single repository creation request from
// the bulk provisioning API or input file.
type RepoProvisionRequest struct {
	// Key is the repository key to create; validated per request so one bad
	// entry does not reject the whole batch
	Key string `json:"key"`
	// PackageType is the repository format; defaults to "generic" when empty
	PackageType string `json:"packageType"`
	// Rclass is "local" or "remote"; defaults to "local" when empty
	Rclass string `json:"rclass,omitempty"`
	// RemoteURL is the upstream URL, required when Rclass is "remote"
	RemoteURL string `json:"remoteUrl,omitempty"`
	// ProjectKey optionally assigns the repository to a project
	ProjectKey string `json:"projectKey,omitempty"`
}

// FailedRequest represents a request that failed during processing along with the error reason.
type FailedRequest struct {
	// Request is the original provisioning request that failed
	Request RepoProvisionRequest `json:"request"`
	// Reason is the error message describing why the request failed
	Reason string `json:"reason"`
}
