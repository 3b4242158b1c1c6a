package reconcile

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/clusterkit/gntsync/internal/config"
	"github.com/clusterkit/gntsync/internal/platform/rapi"
)

func found(inst *rapi.Instance) func(context.Context, string) (*rapi.Instance, error) {
	return func(context.Context, string) (*rapi.Instance, error) {
		return inst, nil
	}
}

func notFound() func(context.Context, string) (*rapi.Instance, error) {
	return func(context.Context, string) (*rapi.Instance, error) {
		return nil, nil
	}
}

func TestReconcile_DRBDWithoutSnodeFailsBeforeAnyRequest(t *testing.T) {
	mock := &rapi.MockClient{}
	spec := &config.InstanceSpec{
		Name:         "foo",
		State:        config.StatePresent,
		DiskTemplate: config.TemplateDRBD,
	}

	_, err := NewReconciler(mock, spec).Reconcile(context.Background())

	var cfgErr *ConfigError
	require.ErrorAs(t, err, &cfgErr)
	assert.Empty(t, mock.Calls, "no request may be sent for an invalid spec")
}

func TestReconcile_Idempotent(t *testing.T) {
	mock := &rapi.MockClient{GetInstanceFunc: found(observedInstance())}
	spec := &config.InstanceSpec{
		Name:         "foo",
		State:        config.StatePresent,
		MemoryMB:     intPtr(512),
		VCPUs:        intPtr(2),
		DiskTemplate: config.TemplatePlain,
		OSType:       "debootstrap+default",
	}

	res, err := NewReconciler(mock, spec).Reconcile(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Changed)
	assert.Equal(t, []string{"get foo"}, mock.Calls)
}

func TestReconcile_OSChangeAloneReinstallsWithoutModify(t *testing.T) {
	mock := &rapi.MockClient{GetInstanceFunc: found(observedInstance())}
	spec := &config.InstanceSpec{
		Name:   "foo",
		State:  config.StatePresent,
		OSType: "gentoo+default",
	}

	res, err := NewReconciler(mock, spec).Reconcile(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Changed)
	// Reinstall is fire-and-forget and suppresses the post-cycle startup.
	assert.Equal(t, []string{"get foo", "reinstall foo"}, mock.Calls)
}

func TestReconcile_DiskTemplateChangeSequence(t *testing.T) {
	mock := &rapi.MockClient{GetInstanceFunc: found(observedInstance())}
	spec := &config.InstanceSpec{
		Name:         "foo",
		State:        config.StatePresent,
		DiskTemplate: config.TemplateFile,
	}

	var mods rapi.InstanceModifications
	mock.ModifyInstanceFunc = func(_ context.Context, _ string, m rapi.InstanceModifications) (rapi.JobID, error) {
		mods = m
		return 2, nil
	}

	res, err := NewReconciler(mock, spec).Reconcile(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, []string{
		"get foo",
		"shutdown foo", "wait",
		"modify foo", "wait",
		"startup foo", "wait",
	}, mock.Calls)
	assert.Equal(t, "file", mods.DiskTemplate)
}

func TestReconcile_DiskAndOSChangeReinstallsInsteadOfStartup(t *testing.T) {
	mock := &rapi.MockClient{GetInstanceFunc: found(observedInstance())}
	spec := &config.InstanceSpec{
		Name:         "foo",
		State:        config.StatePresent,
		DiskTemplate: config.TemplateFile,
		OSType:       "gentoo+default",
	}

	_, err := NewReconciler(mock, spec).Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"get foo",
		"shutdown foo", "wait",
		"modify foo", "wait",
		"reinstall foo",
	}, mock.Calls)
}

func TestReconcile_CreateWhenAbsent(t *testing.T) {
	mock := &rapi.MockClient{GetInstanceFunc: notFound()}
	var opts rapi.InstanceCreateOpts
	mock.CreateInstanceFunc = func(_ context.Context, o rapi.InstanceCreateOpts) (rapi.JobID, error) {
		opts = o
		return 9, nil
	}

	spec := &config.InstanceSpec{
		Name:     "bar",
		State:    config.StatePresent,
		MemoryMB: intPtr(512),
		VCPUs:    intPtr(2),
	}

	res, err := NewReconciler(mock, spec).Reconcile(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, []string{"get bar", "create bar"}, mock.Calls)
	require.NotNil(t, opts.MemoryMB)
	require.NotNil(t, opts.VCPUs)
	assert.Equal(t, 512, *opts.MemoryMB)
	assert.Equal(t, 2, *opts.VCPUs)
}

func TestReconcile_PresentAndFoundIsNoop(t *testing.T) {
	mock := &rapi.MockClient{GetInstanceFunc: found(observedInstance())}
	spec := &config.InstanceSpec{Name: "foo", State: config.StatePresent}

	res, err := NewReconciler(mock, spec).Reconcile(context.Background())
	require.NoError(t, err)
	assert.False(t, res.Changed)
}

func TestReconcile_Absent(t *testing.T) {
	t.Run("found issues delete without wait", func(t *testing.T) {
		mock := &rapi.MockClient{GetInstanceFunc: found(observedInstance())}
		spec := &config.InstanceSpec{Name: "foo", State: config.StateAbsent}

		res, err := NewReconciler(mock, spec).Reconcile(context.Background())
		require.NoError(t, err)
		assert.True(t, res.Changed)
		assert.Equal(t, []string{"get foo", "delete foo"}, mock.Calls)
	})

	t.Run("not found is a no-op", func(t *testing.T) {
		mock := &rapi.MockClient{GetInstanceFunc: notFound()}
		spec := &config.InstanceSpec{Name: "foo", State: config.StateAbsent}

		res, err := NewReconciler(mock, spec).Reconcile(context.Background())
		require.NoError(t, err)
		assert.False(t, res.Changed)
		assert.Equal(t, []string{"get foo"}, mock.Calls)
	})
}

func TestReconcile_Stopped(t *testing.T) {
	t.Run("running instance is shut down", func(t *testing.T) {
		mock := &rapi.MockClient{GetInstanceFunc: found(observedInstance())}
		spec := &config.InstanceSpec{Name: "foo", State: config.StateStopped}

		res, err := NewReconciler(mock, spec).Reconcile(context.Background())
		require.NoError(t, err)
		assert.True(t, res.Changed)
		assert.Equal(t, []string{"get foo", "shutdown foo", "wait"}, mock.Calls)
	})

	t.Run("stopped instance stays put", func(t *testing.T) {
		inst := observedInstance()
		inst.Status = rapi.StatusAdminDown
		mock := &rapi.MockClient{GetInstanceFunc: found(inst)}
		spec := &config.InstanceSpec{Name: "foo", State: config.StateStopped}

		res, err := NewReconciler(mock, spec).Reconcile(context.Background())
		require.NoError(t, err)
		assert.False(t, res.Changed)
	})
}

func TestReconcile_Started(t *testing.T) {
	inst := observedInstance()
	inst.Status = rapi.StatusAdminDown
	mock := &rapi.MockClient{GetInstanceFunc: found(inst)}
	spec := &config.InstanceSpec{Name: "foo", State: config.StateStarted}

	res, err := NewReconciler(mock, spec).Reconcile(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, []string{"get foo", "startup foo", "wait"}, mock.Calls)
}

func TestReconcile_Restarted(t *testing.T) {
	tests := []struct {
		name      string
		status    string
		wantCalls []string
	}{
		{"running reboots", rapi.StatusRunning, []string{"get foo", "reboot foo", "wait"}},
		{"admin down starts up", rapi.StatusAdminDown, []string{"get foo", "startup foo", "wait"}},
		{"other status does nothing", "ERROR_down", []string{"get foo"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			inst := observedInstance()
			inst.Status = tt.status
			mock := &rapi.MockClient{GetInstanceFunc: found(inst)}
			spec := &config.InstanceSpec{Name: "foo", State: config.StateRestarted}

			_, err := NewReconciler(mock, spec).Reconcile(context.Background())
			require.NoError(t, err)
			assert.Equal(t, tt.wantCalls, mock.Calls)
		})
	}
}

func TestReconcile_MigratedAlwaysMigrates(t *testing.T) {
	for _, status := range []string{rapi.StatusRunning, rapi.StatusAdminDown, "ERROR_down"} {
		t.Run(status, func(t *testing.T) {
			inst := observedInstance()
			inst.Status = status
			mock := &rapi.MockClient{GetInstanceFunc: found(inst)}
			var allowFailover bool
			mock.MigrateInstanceFunc = func(_ context.Context, _ string, af bool) (rapi.JobID, error) {
				allowFailover = af
				return 4, nil
			}
			spec := &config.InstanceSpec{Name: "foo", State: config.StateMigrated}

			res, err := NewReconciler(mock, spec).Reconcile(context.Background())
			require.NoError(t, err)
			assert.True(t, res.Changed)
			assert.Equal(t, []string{"get foo", "migrate foo", "wait"}, mock.Calls)
			assert.True(t, allowFailover)
		})
	}
}

func TestReconcile_ReinstalledAlwaysReinstalls(t *testing.T) {
	mock := &rapi.MockClient{GetInstanceFunc: found(observedInstance())}
	spec := &config.InstanceSpec{Name: "foo", State: config.StateReinstalled}

	res, err := NewReconciler(mock, spec).Reconcile(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, []string{"get foo", "reinstall foo"}, mock.Calls)
}

func TestReconcile_MissingInstanceWithNonCreatingTarget(t *testing.T) {
	for _, state := range []config.TargetState{
		config.StateStarted,
		config.StateStopped,
		config.StateRestarted,
		config.StateMigrated,
		config.StateReinstalled,
	} {
		t.Run(string(state), func(t *testing.T) {
			mock := &rapi.MockClient{GetInstanceFunc: notFound()}
			spec := &config.InstanceSpec{Name: "foo", State: state}

			_, err := NewReconciler(mock, spec).Reconcile(context.Background())
			var cfgErr *ConfigError
			require.ErrorAs(t, err, &cfgErr)
		})
	}
}

// The final action is decided on the observation taken before the
// modify phase, not on re-observed state. A disk template change on a
// running instance with target stopped therefore ends the run with a second
// shutdown: the snapshot still says running.
func TestReconcile_FinalActionUsesPreMutationSnapshot(t *testing.T) {
	mock := &rapi.MockClient{GetInstanceFunc: found(observedInstance())}
	spec := &config.InstanceSpec{
		Name:         "foo",
		State:        config.StateStopped,
		DiskTemplate: config.TemplateFile,
	}

	_, err := NewReconciler(mock, spec).Reconcile(context.Background())
	require.NoError(t, err)
	assert.Equal(t, []string{
		"get foo",
		"shutdown foo", "wait",
		"modify foo", "wait",
		"startup foo", "wait",
		"shutdown foo", "wait",
	}, mock.Calls)
}

func TestReconcile_JobFailureAborts(t *testing.T) {
	mock := &rapi.MockClient{GetInstanceFunc: found(observedInstance())}
	mock.WaitForJobFunc = func(_ context.Context, id rapi.JobID) error {
		return &rapi.JobFailedError{ID: id, Status: rapi.JobError}
	}
	spec := &config.InstanceSpec{
		Name:         "foo",
		State:        config.StatePresent,
		DiskTemplate: config.TemplateFile,
	}

	_, err := NewReconciler(mock, spec).Reconcile(context.Background())
	require.Error(t, err)
	assert.True(t, rapi.IsJobFailed(err))
	// The failed shutdown job stops the run before modify.
	assert.Equal(t, []string{"get foo", "shutdown foo", "wait"}, mock.Calls)
}

func TestReconcile_DryRunReportsWouldChange(t *testing.T) {
	inner := &rapi.MockClient{GetInstanceFunc: notFound()}
	client := rapi.NewDryRunClient(inner)
	spec := &config.InstanceSpec{
		Name:     "bar",
		State:    config.StatePresent,
		MemoryMB: intPtr(512),
	}

	res, err := NewReconciler(client, spec).Reconcile(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, []string{"create"}, res.Actions)
	// Only the read reached the inner client.
	assert.Equal(t, []string{"get bar"}, inner.Calls)
}

func TestReconcile_DryRunModifySequence(t *testing.T) {
	inner := &rapi.MockClient{GetInstanceFunc: found(observedInstance())}
	client := rapi.NewDryRunClient(inner)
	spec := &config.InstanceSpec{
		Name:         "foo",
		State:        config.StateStarted,
		DiskTemplate: config.TemplateFile,
	}

	res, err := NewReconciler(client, spec).Reconcile(context.Background())
	require.NoError(t, err)
	assert.True(t, res.Changed)
	assert.Equal(t, []string{"shutdown", "modify", "startup"}, res.Actions)
	assert.Equal(t, []string{"get foo"}, inner.Calls)
}
