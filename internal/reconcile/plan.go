package reconcile

import (
	"fmt"

	"github.com/clusterkit/gntsync/internal/config"
	"github.com/clusterkit/gntsync/internal/platform/rapi"
)

// ConfigError reports an invalid combination in the desired spec. It is
// detected before any mutation is issued and is never retried.
type ConfigError struct {
	Reason string
}

func (e *ConfigError) Error() string {
	return "configuration error: " + e.Reason
}

// Plan is the ordered set of changes needed to align an existing instance
// with its desired spec. It is built once per run from the fresh observation
// and consumed immediately.
type Plan struct {
	Mods rapi.InstanceModifications

	// NeedsShutdownCycle is set when the disk template changes; the
	// instance must be down for the modify and is started again after,
	// unless a reinstall takes over.
	NeedsShutdownCycle bool

	// NeedsReinstall is set when the OS type changes. Reinstall brings
	// the instance back up itself, so it replaces the post-cycle startup.
	NeedsReinstall bool
}

// Empty reports whether the plan requires no action at all.
func (p Plan) Empty() bool {
	return p.Mods.Empty() && !p.NeedsReinstall
}

// buildPlan diffs the desired spec against the observed instance. Only
// attributes that actually differ end up in the modification set; memory and
// vcpus are grouped because the cluster updates them together.
func buildPlan(spec *config.InstanceSpec, cur *rapi.Instance) (Plan, error) {
	var plan Plan

	if spec.MemoryMB != nil && *spec.MemoryMB != cur.BEParams.Memory {
		plan.Mods.Memory = spec.MemoryMB
	}
	if spec.VCPUs != nil && *spec.VCPUs != cur.BEParams.VCPUs {
		plan.Mods.VCPUs = spec.VCPUs
	}

	if spec.DiskTemplate != "" && string(spec.DiskTemplate) != cur.DiskTemplate {
		if spec.DiskTemplate == config.TemplateDRBD && spec.SecondaryNode == "" {
			return Plan{}, &ConfigError{Reason: fmt.Sprintf("changing %s to drbd requires snode", spec.Name)}
		}
		plan.Mods.DiskTemplate = string(spec.DiskTemplate)
		if spec.DiskTemplate == config.TemplateDRBD {
			plan.Mods.RemoteNode = spec.SecondaryNode
		}
		plan.NeedsShutdownCycle = true
	}

	if spec.OSType != "" && spec.OSType != cur.OS {
		plan.Mods.OSName = spec.OSType
		plan.NeedsReinstall = true
	}

	return plan, nil
}
