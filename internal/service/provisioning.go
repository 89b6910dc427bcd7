package service

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/artiops/artifactory-automation/internal/client"
	"github.com/artiops/artifactory-automation/internal/config"
	"github.com/artiops/artifactory-automation/internal/utils"
	"go.uber.org/zap"
)

// ProvisioningManager handles idempotent creation of local and remote
// repositories.
type ProvisioningManager struct {
	arti   client.ArtifactoryClient
	dryRun bool
}

// NewProvisioningManager creates a new ProvisioningManager instance.
func NewProvisioningManager(arti client.ArtifactoryClient, dryRun bool) *ProvisioningManager {
	return &ProvisioningManager{arti: arti, dryRun: dryRun}
}

// CreateRepository creates a repository if it does not exist. An empty
// rclass defaults to local and an empty package type to generic; remote
// repositories require an upstream URL. Unsupported values are rejected
// before any API call.
func (pm *ProvisioningManager) CreateRepository(req config.RepoProvisionRequest) error {
	log := utils.WithComponent("provisioning")

	pkgType := req.PackageType
	if pkgType == "" {
		pkgType = "generic"
	}
	if !config.IsSupportedRepoType(pkgType) {
		return fmt.Errorf("create repository '%s': unsupported package type '%s'", req.Key, pkgType)
	}

	rclass := req.Rclass
	if rclass == "" {
		rclass = "local"
	}
	switch rclass {
	case "local":
	case "remote":
		if req.RemoteURL == "" {
			return fmt.Errorf("create repository '%s': remote repository requires a remote URL", req.Key)
		}
	default:
		return fmt.Errorf("create repository '%s': unsupported rclass '%s'", req.Key, rclass)
	}

	existing, err := pm.arti.GetRepository(req.Key)
	if err != nil {
		return fmt.Errorf("create repository '%s': %w", req.Key, err)
	}
	if existing != nil {
		// Repository exists, idempotent skip
		log.Debug("Repository already exists, skipping creation",
			zap.String(utils.FieldRepo, req.Key))
		return nil
	}

	if pm.dryRun {
		log.Info("Dry run: would create repository",
			zap.String(utils.FieldRepo, req.Key),
			zap.String("rclass", rclass),
			zap.String("package_type", pkgType))
		return nil
	}

	repo := &client.Repository{
		Key:         req.Key,
		Rclass:      rclass,
		PackageType: pkgType,
		URL:         req.RemoteURL,
		ProjectKey:  req.ProjectKey,
	}
	if err := pm.arti.CreateRepository(repo); err != nil {
		return fmt.Errorf("create repository '%s' (package_type='%s'): %w", req.Key, pkgType, err)
	}
	log.Info("Successfully created repository",
		zap.String(utils.FieldRepo, req.Key),
		zap.String("rclass", rclass),
		zap.String("package_type", pkgType),
		zap.String("project_key", req.ProjectKey))
	return nil
}

// AttachToVirtual ensures a virtual repository exists and lists the given
// repositories as members. A missing virtual is created with the given
// package type; an existing one gets the missing members appended.
func (pm *ProvisioningManager) AttachToVirtual(virtualKey, pkgType string, repoKeys []string) error {
	log := utils.WithComponent("provisioning")

	if !config.IsSupportedRepoType(pkgType) {
		log.Warn("Unsupported virtual package type, defaulting to generic",
			zap.String("package_type", pkgType))
		pkgType = "generic"
	}

	virtual, err := pm.arti.GetRepository(virtualKey)
	if err != nil {
		return fmt.Errorf("attach to virtual '%s': %w", virtualKey, err)
	}
	if virtual == nil {
		if pm.dryRun {
			log.Info("Dry run: would create virtual repository",
				zap.String(utils.FieldRepo, virtualKey),
				zap.Strings("members", repoKeys))
			return nil
		}
		virtual = &client.Repository{
			Key:          virtualKey,
			Rclass:       "virtual",
			PackageType:  pkgType,
			Repositories: repoKeys,
		}
		if err := pm.arti.CreateRepository(virtual); err != nil {
			return fmt.Errorf("attach to virtual '%s': %w", virtualKey, err)
		}
		log.Info("Created virtual repository",
			zap.String(utils.FieldRepo, virtualKey),
			zap.Strings("members", repoKeys))
		return nil
	}

	members := make(map[string]bool, len(virtual.Repositories))
	for _, key := range virtual.Repositories {
		members[key] = true
	}
	added := 0
	for _, key := range repoKeys {
		if !members[key] {
			virtual.Repositories = append(virtual.Repositories, key)
			added++
		}
	}
	if added == 0 {
		log.Debug("Virtual repository already lists all members",
			zap.String(utils.FieldRepo, virtualKey))
		return nil
	}
	if pm.dryRun {
		log.Info("Dry run: would update virtual repository",
			zap.String(utils.FieldRepo, virtualKey),
			zap.Int("new_members", added))
		return nil
	}
	if err := pm.arti.UpdateRepository(virtual); err != nil {
		return fmt.Errorf("attach to virtual '%s': %w", virtualKey, err)
	}
	log.Info("Updated virtual repository",
		zap.String(utils.FieldRepo, virtualKey),
		zap.Int("new_members", added))
	return nil
}

// ShardedRepoRequests generates a generic local-repository request for each
// three-digit hex shard, named <prefix>-000 through <prefix>-FFF. Used to
// provision content-addressed layouts where artifacts land in the repository
// matching the leading digits of their hash.
func ShardedRepoRequests(prefix string) []config.RepoProvisionRequest {
	const digits = "0123456789ABCDEF"
	requests := make([]config.RepoProvisionRequest, 0, 16*16*16)
	for _, i := range digits {
		for _, j := range digits {
			for _, k := range digits {
				requests = append(requests, config.RepoProvisionRequest{
					Key:         fmt.Sprintf("%s-%c%c%c", prefix, i, j, k),
					PackageType: "generic",
				})
			}
		}
	}
	return requests
}

// LoadProvisionRequests reads a JSON file containing a list of repository
// provisioning requests, as accepted by the bulk API.
func LoadProvisionRequests(path string) ([]config.RepoProvisionRequest, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open provisioning input: %w", err)
	}
	defer file.Close()
	var requests []config.RepoProvisionRequest
	if err := json.NewDecoder(file).Decode(&requests); err != nil {
		return nil, fmt.Errorf("decode provisioning input '%s': %w", path, err)
	}
	return requests, nil
}
