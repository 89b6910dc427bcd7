package service

import (
	"encoding/json"
	"fmt"
	"os"
	"reflect"
	"strconv"

	"github.com/artiops/artifactory-automation/internal/client"
	"github.com/artiops/artifactory-automation/internal/reconcile"
	"github.com/artiops/artifactory-automation/internal/utils"
	"go.uber.org/zap"
)

// CurationInput is the declarative JSON document describing the desired
// curation conditions and policies.
type CurationInput struct {
	Conditions []client.Condition `json:"conditions"`
	Policies   []client.Policy    `json:"policies"`
}

// LoadCurationInput reads and decodes a curation input file.
func LoadCurationInput(path string) (*CurationInput, error) {
	file, err := os.Open(path)
	if err != nil {
		return nil, fmt.Errorf("open curation input: %w", err)
	}
	defer file.Close()
	var input CurationInput
	if err := json.NewDecoder(file).Decode(&input); err != nil {
		return nil, fmt.Errorf("decode curation input '%s': %w", path, err)
	}
	return &input, nil
}

// ConditionSpec describes how curation conditions reconcile: identity is the
// condition name, and the parameter list is compared keyed by param_id with
// whole-list replacement on any difference.
func ConditionSpec() reconcile.Spec[client.Condition] {
	return reconcile.Spec[client.Condition]{
		Kind:     "condition",
		Identity: func(c client.Condition) string { return c.Name },
		Merge: func(desired, current client.Condition) (client.Condition, bool) {
			changed := false
			if desired.ConditionTemplateID != current.ConditionTemplateID {
				current.ConditionTemplateID = desired.ConditionTemplateID
				changed = true
			}
			if reconcile.KeyedListChanged(desired.ParamValues, current.ParamValues,
				func(p client.ConditionParam) string { return p.ParamID },
				func(a, b client.ConditionParam) bool { return !reflect.DeepEqual(a.Value, b.Value) },
			) {
				current.ParamValues = desired.ParamValues
				changed = true
			}
			return current, changed
		},
	}
}

// PolicySpec describes how curation policies reconcile. Scalar fields
// compare directly, set-valued fields compare unordered, and waiver lists
// compare keyed by waiver id with whole-list replacement. A field the
// desired policy leaves unset (nil) is never compared, so desired state
// never deletes fields it does not mention.
func PolicySpec() reconcile.Spec[client.Policy] {
	return reconcile.Spec[client.Policy]{
		Kind:     "policy",
		Identity: func(p client.Policy) string { return p.Name },
		Merge:    mergePolicy,
	}
}

func mergePolicy(desired, current client.Policy) (client.Policy, bool) {
	changed := false

	if desired.Enabled != current.Enabled {
		current.Enabled = desired.Enabled
		changed = true
	}
	if desired.Scope != current.Scope {
		current.Scope = desired.Scope
		changed = true
	}
	if desired.PolicyAction != current.PolicyAction {
		current.PolicyAction = desired.PolicyAction
		changed = true
	}
	if desired.ConditionID != current.ConditionID {
		current.ConditionID = desired.ConditionID
		changed = true
	}
	if desired.WaiverRequestConfig != current.WaiverRequestConfig {
		current.WaiverRequestConfig = desired.WaiverRequestConfig
		changed = true
	}

	if mergeStringSet(&current.RepoInclude, desired.RepoInclude) {
		changed = true
	}
	if mergeStringSet(&current.RepoExclude, desired.RepoExclude) {
		changed = true
	}
	if mergeStringSet(&current.PkgTypesInclude, desired.PkgTypesInclude) {
		changed = true
	}
	if mergeStringSet(&current.NotifyEmails, desired.NotifyEmails) {
		changed = true
	}
	if mergeStringSet(&current.DecisionOwners, desired.DecisionOwners) {
		changed = true
	}

	if desired.Waivers != nil {
		if reconcile.KeyedListChanged(desired.Waivers, current.Waivers,
			func(w client.Waiver) string { return w.ID }, waiverDiffers) {
			current.Waivers = desired.Waivers
			changed = true
		}
	}
	if desired.LabelWaivers != nil {
		if reconcile.KeyedListChanged(desired.LabelWaivers, current.LabelWaivers,
			func(w client.LabelWaiver) string { return w.ID }, labelWaiverDiffers) {
			current.LabelWaivers = desired.LabelWaivers
			changed = true
		}
	}

	return current, changed
}

// mergeStringSet overwrites *current with desired when desired is set and
// differs as a set. Reports whether it changed anything.
func mergeStringSet(current *[]string, desired []string) bool {
	if desired == nil {
		return false
	}
	if *current == nil || !reconcile.StringSetsEqual(desired, *current) {
		*current = desired
		return true
	}
	return false
}

// waiverDiffers flags a waiver as changed when any comparable field differs.
func waiverDiffers(desired, current client.Waiver) bool {
	return desired.PkgType != current.PkgType ||
		desired.PkgName != current.PkgName ||
		desired.AllVersions != current.AllVersions ||
		!reconcile.StringSetsEqual(desired.PkgVersions, current.PkgVersions) ||
		desired.Justification != current.Justification ||
		desired.CreatedBy != current.CreatedBy ||
		desired.CreatedAt != current.CreatedAt
}

func labelWaiverDiffers(desired, current client.LabelWaiver) bool {
	return desired.Label != current.Label ||
		desired.Justification != current.Justification ||
		desired.CreatedBy != current.CreatedBy ||
		desired.CreatedAt != current.CreatedAt
}

// ResolveConditionIDs rewrites each policy's condition reference from a
// condition name to the numeric id of the matching condition. References
// that are already numeric are kept. A name that matches zero or multiple
// conditions is logged and left unresolved; the server will reject the
// policy rather than attach it to the wrong condition.
func ResolveConditionIDs(policies []client.Policy, conditions []client.Condition) []client.Policy {
	log := utils.WithComponent("curation")
	resolved := make([]client.Policy, len(policies))
	copy(resolved, policies)
	for i := range resolved {
		ref := resolved[i].ConditionID
		if _, err := strconv.Atoi(ref); err == nil {
			continue
		}
		var matches []client.Condition
		for _, c := range conditions {
			if c.Name == ref {
				matches = append(matches, c)
			}
		}
		if len(matches) != 1 {
			log.Error("Condition reference does not resolve to exactly one condition",
				zap.String("policy", resolved[i].Name),
				zap.String("condition", ref),
				zap.Int("matches", len(matches)))
			continue
		}
		resolved[i].ConditionID = matches[0].ID.String()
	}
	return resolved
}

// CurationSummary reports what an Apply pass did.
type CurationSummary struct {
	ConditionsCreated int
	ConditionsUpdated int
	PoliciesCreated   int
	PoliciesUpdated   int
	Unchanged         int
}

// CurationManager applies a declarative curation document: reconcile
// conditions first, re-list them so new ids are known, then reconcile
// policies with resolved condition references.
type CurationManager struct {
	xray   client.XrayClient
	dryRun bool
}

// NewCurationManager creates a new CurationManager instance.
func NewCurationManager(xray client.XrayClient, dryRun bool) *CurationManager {
	return &CurationManager{xray: xray, dryRun: dryRun}
}

// Apply converges the server's curation configuration onto the input
// document. Running Apply twice with the same input performs no work the
// second time.
func (cm *CurationManager) Apply(input *CurationInput) (*CurationSummary, error) {
	log := utils.WithComponent("curation")
	summary := &CurationSummary{}

	currentConditions, err := cm.xray.ListConditions()
	if err != nil {
		return nil, fmt.Errorf("apply curation: %w", err)
	}

	conditionDiff := reconcile.Diff(input.Conditions, currentConditions, ConditionSpec())
	log.Info("Reconciled conditions",
		zap.Int("create", len(conditionDiff.ToCreate)),
		zap.Int("update", len(conditionDiff.ToUpdate)),
		zap.Int("unchanged", conditionDiff.Unchanged))

	for _, cond := range conditionDiff.ToUpdate {
		if cm.dryRun {
			log.Info("Dry run: would update condition", zap.String("name", cond.Name))
			continue
		}
		if err := cm.xray.UpdateCondition(&cond); err != nil {
			return summary, fmt.Errorf("apply curation: %w", err)
		}
		summary.ConditionsUpdated++
	}
	for _, cond := range conditionDiff.ToCreate {
		if cm.dryRun {
			log.Info("Dry run: would create condition", zap.String("name", cond.Name))
			continue
		}
		if err := cm.xray.CreateCondition(&cond); err != nil {
			return summary, fmt.Errorf("apply curation: %w", err)
		}
		summary.ConditionsCreated++
	}

	// Re-list so freshly created conditions have server-assigned ids for the
	// policy references below.
	currentConditions, err = cm.xray.ListConditions()
	if err != nil {
		return summary, fmt.Errorf("apply curation: re-list conditions: %w", err)
	}

	currentPolicies, err := cm.xray.ListPolicies()
	if err != nil {
		return summary, fmt.Errorf("apply curation: %w", err)
	}

	desiredPolicies := ResolveConditionIDs(input.Policies, currentConditions)
	policyDiff := reconcile.Diff(desiredPolicies, currentPolicies, PolicySpec())
	log.Info("Reconciled policies",
		zap.Int("create", len(policyDiff.ToCreate)),
		zap.Int("update", len(policyDiff.ToUpdate)),
		zap.Int("unchanged", policyDiff.Unchanged))

	for _, pol := range policyDiff.ToUpdate {
		if cm.dryRun {
			log.Info("Dry run: would update policy", zap.String("name", pol.Name))
			continue
		}
		if err := cm.xray.UpdatePolicy(&pol); err != nil {
			return summary, fmt.Errorf("apply curation: %w", err)
		}
		summary.PoliciesUpdated++
	}
	for _, pol := range policyDiff.ToCreate {
		if cm.dryRun {
			log.Info("Dry run: would create policy", zap.String("name", pol.Name))
			continue
		}
		if err := cm.xray.CreatePolicy(&pol); err != nil {
			return summary, fmt.Errorf("apply curation: %w", err)
		}
		summary.PoliciesCreated++
	}

	summary.Unchanged = conditionDiff.Unchanged + policyDiff.Unchanged
	return summary, nil
}
