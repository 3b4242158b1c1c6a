package rapi

import (
	"context"

	"github.com/rs/zerolog"

	"github.com/clusterkit/gntsync/internal/log"
)

// DryRunJobID is the sentinel job id returned for intercepted mutations.
// No such job exists on the cluster.
const DryRunJobID JobID = -1

// DryRunClient decorates a Client so that reads pass through untouched while
// every mutating call is intercepted before transmission and answered with a
// synthetic success. Waiting on the sentinel job is a no-op.
type DryRunClient struct {
	inner  Client
	logger zerolog.Logger
}

var _ Client = (*DryRunClient)(nil)

// NewDryRunClient wraps inner for planning without side effects.
func NewDryRunClient(inner Client) *DryRunClient {
	return &DryRunClient{
		inner:  inner,
		logger: log.WithComponent("rapi-dryrun"),
	}
}

func (c *DryRunClient) GetInstance(ctx context.Context, name string) (*Instance, error) {
	return c.inner.GetInstance(ctx, name)
}

func (c *DryRunClient) intercept(op, name string) (JobID, error) {
	c.logger.Info().Str("operation", op).Str("instance", name).Msg("dry run, skipping")
	return DryRunJobID, nil
}

func (c *DryRunClient) CreateInstance(_ context.Context, opts InstanceCreateOpts) (JobID, error) {
	return c.intercept("create", opts.Name)
}

func (c *DryRunClient) ModifyInstance(_ context.Context, name string, _ InstanceModifications) (JobID, error) {
	return c.intercept("modify", name)
}

func (c *DryRunClient) DeleteInstance(_ context.Context, name string) (JobID, error) {
	return c.intercept("delete", name)
}

func (c *DryRunClient) StartupInstance(_ context.Context, name string) (JobID, error) {
	return c.intercept("startup", name)
}

func (c *DryRunClient) ShutdownInstance(_ context.Context, name string) (JobID, error) {
	return c.intercept("shutdown", name)
}

func (c *DryRunClient) RebootInstance(_ context.Context, name string) (JobID, error) {
	return c.intercept("reboot", name)
}

func (c *DryRunClient) MigrateInstance(_ context.Context, name string, _ bool) (JobID, error) {
	return c.intercept("migrate", name)
}

func (c *DryRunClient) ReinstallInstance(_ context.Context, name string) (JobID, error) {
	return c.intercept("reinstall", name)
}

// WaitForJob is a no-op under dry run: no job was actually created.
func (c *DryRunClient) WaitForJob(_ context.Context, _ JobID) error {
	return nil
}
