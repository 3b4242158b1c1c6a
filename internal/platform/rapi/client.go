// Package rapi provides a client for the Ganeti cluster remote API.
package rapi

import "context"

// JobID identifies an asynchronous cluster job returned by mutating calls.
type JobID int64

// Instance power status values as reported by the cluster.
const (
	StatusRunning   = "running"
	StatusAdminDown = "ADMIN_down"
)

// BEParams holds the backend parameter pair the cluster updates together.
type BEParams struct {
	Memory int `json:"memory"`
	VCPUs  int `json:"vcpus"`
}

// Instance is the cluster's view of a virtual machine instance.
type Instance struct {
	Name         string   `json:"name"`
	Status       string   `json:"status"`
	BEParams     BEParams `json:"beparams"`
	DiskTemplate string   `json:"disk_template"`
	OS           string   `json:"os"`
}

// InstanceCreateOpts holds all parameters for creating an instance.
type InstanceCreateOpts struct {
	Name          string
	MemoryMB      *int
	VCPUs         *int
	DiskSize      string
	DiskTemplate  string
	IAllocator    string
	OSType        string
	PrimaryNode   string
	SecondaryNode string
}

// InstanceModifications is an explicit builder for a partial modify payload.
// Only fields that were set end up on the wire.
type InstanceModifications struct {
	Memory       *int
	VCPUs        *int
	DiskTemplate string
	RemoteNode   string
	OSName       string
}

// Empty reports whether no modification was recorded at all.
func (m InstanceModifications) Empty() bool {
	return m.Memory == nil && m.VCPUs == nil && m.DiskTemplate == "" && m.OSName == ""
}

// NeedsModify reports whether a modify call must be issued. An os_name-only
// drift is handled by reinstall and never produces a modify.
func (m InstanceModifications) NeedsModify() bool {
	return m.Memory != nil || m.VCPUs != nil || m.DiskTemplate != ""
}

// InstanceManager defines the instance operations the reconciler drives.
// Every mutating call returns a job handle; completion is observed through
// JobWaiter.
type InstanceManager interface {
	// GetInstance returns the instance record, or (nil, nil) when the
	// cluster reports the instance as absent. Absence is an expected
	// observation outcome, not an error.
	GetInstance(ctx context.Context, name string) (*Instance, error)

	CreateInstance(ctx context.Context, opts InstanceCreateOpts) (JobID, error)
	ModifyInstance(ctx context.Context, name string, mods InstanceModifications) (JobID, error)
	DeleteInstance(ctx context.Context, name string) (JobID, error)

	StartupInstance(ctx context.Context, name string) (JobID, error)
	ShutdownInstance(ctx context.Context, name string) (JobID, error)
	RebootInstance(ctx context.Context, name string) (JobID, error)
	MigrateInstance(ctx context.Context, name string, allowFailover bool) (JobID, error)
	ReinstallInstance(ctx context.Context, name string) (JobID, error)
}

// JobWaiter blocks until a submitted job reaches a terminal status.
type JobWaiter interface {
	// WaitForJob polls the job until it terminates. A terminal status
	// other than success yields a JobFailedError. Cancellation of ctx
	// aborts the wait.
	WaitForJob(ctx context.Context, id JobID) error
}

// Client combines everything the reconciler needs from the cluster.
type Client interface {
	InstanceManager
	JobWaiter
}
