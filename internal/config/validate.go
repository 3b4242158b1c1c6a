package config

import "fmt"

// ValidTargetStates contains all accepted instance target states.
var ValidTargetStates = map[TargetState]bool{
	StatePresent:     true,
	StateAbsent:      true,
	StateStarted:     true,
	StateStopped:     true,
	StateRestarted:   true,
	StateMigrated:    true,
	StateReinstalled: true,
}

// ValidDiskTemplates contains all disk templates the cluster accepts.
var ValidDiskTemplates = map[DiskTemplate]bool{
	TemplateSharedFile: true,
	TemplateDiskless:   true,
	TemplatePlain:      true,
	TemplateBlockdev:   true,
	TemplateDRBD:       true,
	TemplateFile:       true,
	TemplateRBD:        true,
}

// Validate checks the configuration for common errors and returns a detailed
// error if validation fails. Violations are caught here, before any network
// call is made.
func (c *Config) Validate() error {
	if c.Cluster.Host == "" {
		return fmt.Errorf("cluster.host is required")
	}
	if c.Cluster.Port <= 0 || c.Cluster.Port > 65535 {
		return fmt.Errorf("cluster.port %d is out of range", c.Cluster.Port)
	}

	if err := c.Instance.Validate(); err != nil {
		return fmt.Errorf("instance validation failed: %w", err)
	}

	return nil
}

// Validate checks the desired instance spec.
func (s *InstanceSpec) Validate() error {
	if s.Name == "" {
		return fmt.Errorf("name is required")
	}
	if !ValidTargetStates[s.State] {
		return fmt.Errorf("invalid state %q: must be one of %v", s.State, mapKeys(ValidTargetStates))
	}
	if s.DiskTemplate != "" && !ValidDiskTemplates[s.DiskTemplate] {
		return fmt.Errorf("invalid disk_template %q: must be one of %v", s.DiskTemplate, mapKeys(ValidDiskTemplates))
	}
	if s.DiskTemplate == TemplateDRBD && s.SecondaryNode == "" {
		return fmt.Errorf("disk_template drbd requires snode to be set")
	}
	if s.MemoryMB != nil && *s.MemoryMB <= 0 {
		return fmt.Errorf("memory_mb must be positive, got %d", *s.MemoryMB)
	}
	if s.VCPUs != nil && *s.VCPUs <= 0 {
		return fmt.Errorf("vcpus must be positive, got %d", *s.VCPUs)
	}
	return nil
}

func mapKeys[K comparable](m map[K]bool) []K {
	keys := make([]K, 0, len(m))
	for k := range m {
		keys = append(keys, k)
	}
	return keys
}
