package reconcile

import (
	"context"
	"fmt"

	"github.com/rs/zerolog"

	"github.com/clusterkit/gntsync/internal/config"
	"github.com/clusterkit/gntsync/internal/log"
	"github.com/clusterkit/gntsync/internal/metrics"
	"github.com/clusterkit/gntsync/internal/platform/rapi"
)

// Result reports what one reconciliation run did (or, under a dry-run
// client, would have done).
type Result struct {
	// Changed is true when at least one mutation was submitted.
	Changed bool

	// Actions lists the submitted operations in order.
	Actions []string
}

// Reconciler drives one instance toward its desired state. Each run observes
// fresh state, applies attribute drift in the required order, then performs
// the final desired-state action. Runs are stateless and strictly
// sequential: one mutation in flight at a time, jobs awaited in issue order.
type Reconciler struct {
	client rapi.Client
	spec   *config.InstanceSpec
	logger zerolog.Logger
}

// NewReconciler creates a reconciler for the given desired spec. Pass a
// client wrapped in rapi.NewDryRunClient to plan without side effects.
func NewReconciler(client rapi.Client, spec *config.InstanceSpec) *Reconciler {
	return &Reconciler{
		client: client,
		spec:   spec,
		logger: log.WithComponent("reconcile"),
	}
}

// Reconcile performs one run. Any configuration, transport, remote or job
// failure aborts immediately; retries are the caller's concern.
func (r *Reconciler) Reconcile(ctx context.Context) (*Result, error) {
	timer := metrics.NewTimer()
	res, err := r.run(ctx)
	timer.ObserveDuration(metrics.ReconcileDuration)

	switch {
	case err != nil:
		metrics.ReconcileRunsTotal.WithLabelValues("failed").Inc()
	case res.Changed:
		metrics.ReconcileRunsTotal.WithLabelValues("changed").Inc()
	default:
		metrics.ReconcileRunsTotal.WithLabelValues("unchanged").Inc()
	}
	return res, err
}

func (r *Reconciler) run(ctx context.Context) (*Result, error) {
	res := &Result{}

	// Invalid spec combinations fail before any network call.
	if err := r.spec.Validate(); err != nil {
		return res, &ConfigError{Reason: err.Error()}
	}

	cur, err := r.client.GetInstance(ctx, r.spec.Name)
	if err != nil {
		return res, fmt.Errorf("observe instance %s: %w", r.spec.Name, err)
	}
	if cur == nil {
		r.logger.Debug().Str("instance", r.spec.Name).Msg("instance not found")
	}

	if cur != nil && r.spec.State != config.StateAbsent {
		if err := r.alignAttributes(ctx, res, cur); err != nil {
			return res, err
		}
	}

	// The final action is keyed on the pre-mutation observation; the
	// shutdown/startup cycle above does not refresh it.
	if err := r.finalAction(ctx, res, cur); err != nil {
		return res, err
	}

	return res, nil
}

// alignAttributes corrects attribute drift on an existing instance. The
// ordering is the hard invariant: a disk template change forces a shutdown
// before the modify, and afterwards either a reinstall (when the OS changed
// too) or a startup closes the cycle. Reinstall and the post-cycle startup
// are mutually exclusive because reinstall boots the instance itself.
func (r *Reconciler) alignAttributes(ctx context.Context, res *Result, cur *rapi.Instance) error {
	plan, err := buildPlan(r.spec, cur)
	if err != nil {
		return err
	}
	if plan.Empty() {
		r.logger.Debug().Str("instance", r.spec.Name).Msg("attributes in sync")
		return nil
	}

	name := r.spec.Name

	if plan.NeedsShutdownCycle {
		if err := r.mutateWait(ctx, res, "shutdown", func() (rapi.JobID, error) {
			return r.client.ShutdownInstance(ctx, name)
		}); err != nil {
			return err
		}
	}

	if plan.Mods.NeedsModify() {
		if err := r.mutateWait(ctx, res, "modify", func() (rapi.JobID, error) {
			return r.client.ModifyInstance(ctx, name, plan.Mods)
		}); err != nil {
			return err
		}
	}

	switch {
	case plan.NeedsReinstall:
		if _, err := r.mutate(res, "reinstall", func() (rapi.JobID, error) {
			return r.client.ReinstallInstance(ctx, name)
		}); err != nil {
			return err
		}
	case plan.NeedsShutdownCycle:
		if err := r.mutateWait(ctx, res, "startup", func() (rapi.JobID, error) {
			return r.client.StartupInstance(ctx, name)
		}); err != nil {
			return err
		}
	}

	return nil
}

// finalAction applies the desired-state action against the pre-mutation
// observation.
func (r *Reconciler) finalAction(ctx context.Context, res *Result, cur *rapi.Instance) error {
	name := r.spec.Name

	switch r.spec.State {
	case config.StateAbsent:
		if cur == nil {
			return nil
		}
		// Terminal removal is fire-and-forget, matching create.
		_, err := r.mutate(res, "delete", func() (rapi.JobID, error) {
			return r.client.DeleteInstance(ctx, name)
		})
		return err

	case config.StatePresent:
		if cur != nil {
			return nil
		}
		_, err := r.mutate(res, "create", func() (rapi.JobID, error) {
			return r.client.CreateInstance(ctx, rapi.InstanceCreateOpts{
				Name:          name,
				MemoryMB:      r.spec.MemoryMB,
				VCPUs:         r.spec.VCPUs,
				DiskSize:      r.spec.DiskSize,
				DiskTemplate:  string(r.spec.DiskTemplate),
				IAllocator:    r.spec.IAllocator,
				OSType:        r.spec.OSType,
				PrimaryNode:   r.spec.PrimaryNode,
				SecondaryNode: r.spec.SecondaryNode,
			})
		})
		return err
	}

	// Every remaining target operates on an existing instance.
	if cur == nil {
		return &ConfigError{
			Reason: fmt.Sprintf("instance %s does not exist but target state %q does not create it", name, r.spec.State),
		}
	}

	switch r.spec.State {
	case config.StateStopped:
		if cur.Status == rapi.StatusRunning {
			return r.mutateWait(ctx, res, "shutdown", func() (rapi.JobID, error) {
				return r.client.ShutdownInstance(ctx, name)
			})
		}

	case config.StateStarted:
		if cur.Status != rapi.StatusRunning {
			return r.mutateWait(ctx, res, "startup", func() (rapi.JobID, error) {
				return r.client.StartupInstance(ctx, name)
			})
		}

	case config.StateRestarted:
		switch cur.Status {
		case rapi.StatusRunning:
			return r.mutateWait(ctx, res, "reboot", func() (rapi.JobID, error) {
				return r.client.RebootInstance(ctx, name)
			})
		case rapi.StatusAdminDown:
			return r.mutateWait(ctx, res, "startup", func() (rapi.JobID, error) {
				return r.client.StartupInstance(ctx, name)
			})
		}

	case config.StateMigrated:
		return r.mutateWait(ctx, res, "migrate", func() (rapi.JobID, error) {
			return r.client.MigrateInstance(ctx, name, true)
		})

	case config.StateReinstalled:
		_, err := r.mutate(res, "reinstall", func() (rapi.JobID, error) {
			return r.client.ReinstallInstance(ctx, name)
		})
		return err
	}

	return nil
}

// mutate submits one mutation and records it on the result.
func (r *Reconciler) mutate(res *Result, op string, submit func() (rapi.JobID, error)) (rapi.JobID, error) {
	id, err := submit()
	if err != nil {
		return 0, fmt.Errorf("%s %s: %w", op, r.spec.Name, err)
	}
	res.Changed = true
	res.Actions = append(res.Actions, op)
	metrics.MutationsTotal.WithLabelValues(op).Inc()
	r.logger.Info().Str("operation", op).Str("instance", r.spec.Name).Int64("job", int64(id)).Msg("mutation submitted")
	return id, nil
}

// mutateWait submits one mutation and blocks until its job terminates.
func (r *Reconciler) mutateWait(ctx context.Context, res *Result, op string, submit func() (rapi.JobID, error)) error {
	id, err := r.mutate(res, op, submit)
	if err != nil {
		return err
	}
	if err := r.client.WaitForJob(ctx, id); err != nil {
		return fmt.Errorf("await %s of %s: %w", op, r.spec.Name, err)
	}
	return nil
}
