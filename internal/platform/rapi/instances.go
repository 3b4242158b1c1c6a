package rapi

import (
	"context"
	"fmt"
	"net/http"
)

// instanceCreateBody is the wire format for POST /2/instances.
type instanceCreateBody struct {
	Version      int              `json:"__version__"`
	BEParams     map[string]int   `json:"beparams"`
	DiskTemplate string           `json:"disk_template"`
	Disks        []map[string]any `json:"disks"`
	IAllocator   string           `json:"iallocator,omitempty"`
	InstanceName string           `json:"instance_name"`
	Mode         string           `json:"mode"`
	PNode        string           `json:"pnode,omitempty"`
	SNode        string           `json:"snode,omitempty"`
	NICs         []map[string]any `json:"nics"`
	OSType       string           `json:"os_type,omitempty"`
}

func instancePath(name string) string {
	return "/instances/" + name
}

// GetInstance fetches the current instance record. A 404 from the cluster is
// mapped to (nil, nil): absence is an observation, not a failure.
func (c *RealClient) GetInstance(ctx context.Context, name string) (*Instance, error) {
	var inst Instance
	err := c.do(ctx, http.MethodGet, instancePath(name), nil, &inst)
	if err != nil {
		if IsNotFound(err) {
			return nil, nil
		}
		return nil, err
	}
	return &inst, nil
}

// CreateInstance submits an instance creation and returns its job.
func (c *RealClient) CreateInstance(ctx context.Context, opts InstanceCreateOpts) (JobID, error) {
	beparams := map[string]int{}
	if opts.MemoryMB != nil {
		beparams["memory"] = *opts.MemoryMB
	}
	if opts.VCPUs != nil {
		beparams["vcpus"] = *opts.VCPUs
	}

	body := instanceCreateBody{
		Version:      1,
		BEParams:     beparams,
		DiskTemplate: opts.DiskTemplate,
		Disks:        []map[string]any{{"size": opts.DiskSize}},
		IAllocator:   opts.IAllocator,
		InstanceName: opts.Name,
		Mode:         "create",
		PNode:        opts.PrimaryNode,
		SNode:        opts.SecondaryNode,
		NICs:         []map[string]any{{}},
		OSType:       opts.OSType,
	}
	return c.submit(ctx, http.MethodPost, "/instances", body)
}

// ModifyInstance submits a partial modification built from mods. Callers
// must not pass an empty modification set.
func (c *RealClient) ModifyInstance(ctx context.Context, name string, mods InstanceModifications) (JobID, error) {
	if mods.Empty() {
		return 0, fmt.Errorf("refusing to submit empty modification for %s", name)
	}

	body := map[string]any{}
	if mods.Memory != nil || mods.VCPUs != nil {
		beparams := map[string]int{}
		if mods.Memory != nil {
			beparams["memory"] = *mods.Memory
		}
		if mods.VCPUs != nil {
			beparams["vcpus"] = *mods.VCPUs
		}
		body["beparams"] = beparams
	}
	if mods.DiskTemplate != "" {
		body["disk_template"] = mods.DiskTemplate
		if mods.RemoteNode != "" {
			body["remote_node"] = mods.RemoteNode
		}
	}
	if mods.OSName != "" {
		body["os_name"] = mods.OSName
	}

	return c.submit(ctx, http.MethodPut, instancePath(name)+"/modify", body)
}

// DeleteInstance submits removal of the instance.
func (c *RealClient) DeleteInstance(ctx context.Context, name string) (JobID, error) {
	return c.submit(ctx, http.MethodDelete, instancePath(name), nil)
}

// StartupInstance submits a power-on.
func (c *RealClient) StartupInstance(ctx context.Context, name string) (JobID, error) {
	return c.submit(ctx, http.MethodPut, instancePath(name)+"/startup", nil)
}

// ShutdownInstance submits a power-off.
func (c *RealClient) ShutdownInstance(ctx context.Context, name string) (JobID, error) {
	return c.submit(ctx, http.MethodPut, instancePath(name)+"/shutdown", nil)
}

// RebootInstance submits a reboot.
func (c *RealClient) RebootInstance(ctx context.Context, name string) (JobID, error) {
	return c.submit(ctx, http.MethodPost, instancePath(name)+"/reboot", nil)
}

// MigrateInstance submits a live migration to the secondary node.
func (c *RealClient) MigrateInstance(ctx context.Context, name string, allowFailover bool) (JobID, error) {
	body := map[string]any{"allow_failover": allowFailover}
	return c.submit(ctx, http.MethodPut, instancePath(name)+"/migrate", body)
}

// ReinstallInstance submits an OS reinstallation.
func (c *RealClient) ReinstallInstance(ctx context.Context, name string) (JobID, error) {
	return c.submit(ctx, http.MethodPost, instancePath(name)+"/reinstall", nil)
}
