// Package config defines the configuration structure and methods for the application.
package config

// TargetState is the declared goal for an instance.
type TargetState string

const (
	StatePresent     TargetState = "present"
	StateAbsent      TargetState = "absent"
	StateStarted     TargetState = "started"
	StateStopped     TargetState = "stopped"
	StateRestarted   TargetState = "restarted"
	StateMigrated    TargetState = "migrated"
	StateReinstalled TargetState = "reinstalled"
)

// DiskTemplate is the storage backend type for an instance's disks.
type DiskTemplate string

const (
	TemplateSharedFile DiskTemplate = "sharedfile"
	TemplateDiskless   DiskTemplate = "diskless"
	TemplatePlain      DiskTemplate = "plain"
	TemplateBlockdev   DiskTemplate = "blockdev"
	TemplateDRBD       DiskTemplate = "drbd"
	TemplateFile       DiskTemplate = "file"
	TemplateRBD        DiskTemplate = "rbd"
)

// Config holds the application configuration: how to reach the cluster and
// the desired state of one instance.
type Config struct {
	Cluster  ClusterConfig `yaml:"cluster"`
	Instance InstanceSpec  `yaml:"instance"`
}

// ClusterConfig holds the RAPI connection settings.
type ClusterConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"` // Default: 5080

	// User and Password enable HTTP Basic auth. Both must be set;
	// Password may also come from the GNT_RAPI_PASSWORD environment
	// variable, which takes precedence over the file.
	User     string `yaml:"user"`
	Password string `yaml:"password"`
}

// InstanceSpec declares the desired state of a single instance. It is
// immutable for the duration of one reconciliation run.
type InstanceSpec struct {
	Name  string      `yaml:"name"`
	State TargetState `yaml:"state"` // Default: present

	// MemoryMB and VCPUs are the grouped backend parameters the cluster
	// updates together. Nil means "leave as is" on existing instances.
	MemoryMB *int `yaml:"memory_mb"`
	VCPUs    *int `yaml:"vcpus"`

	// DiskSize is a size spec like "2G", passed through to the cluster.
	DiskSize     string       `yaml:"disk_size"`
	DiskTemplate DiskTemplate `yaml:"disk_template"`

	// IAllocator names the cluster-side placement strategy used to pick
	// nodes for a new instance.
	IAllocator string `yaml:"iallocator"`

	OSType string `yaml:"os_type"`

	// PrimaryNode and SecondaryNode pin node placement explicitly.
	// SecondaryNode is required when DiskTemplate is drbd.
	PrimaryNode   string `yaml:"pnode"`
	SecondaryNode string `yaml:"snode"`
}
