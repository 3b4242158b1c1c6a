package rapi

import "context"

// MockClient is a function-field implementation of Client for tests.
// Unset mutation funcs succeed with a fake job id; an unset GetInstanceFunc
// reports the instance as absent, and WaitForJobFunc defaults to immediate
// success.
type MockClient struct {
	GetInstanceFunc       func(ctx context.Context, name string) (*Instance, error)
	CreateInstanceFunc    func(ctx context.Context, opts InstanceCreateOpts) (JobID, error)
	ModifyInstanceFunc    func(ctx context.Context, name string, mods InstanceModifications) (JobID, error)
	DeleteInstanceFunc    func(ctx context.Context, name string) (JobID, error)
	StartupInstanceFunc   func(ctx context.Context, name string) (JobID, error)
	ShutdownInstanceFunc  func(ctx context.Context, name string) (JobID, error)
	RebootInstanceFunc    func(ctx context.Context, name string) (JobID, error)
	MigrateInstanceFunc   func(ctx context.Context, name string, allowFailover bool) (JobID, error)
	ReinstallInstanceFunc func(ctx context.Context, name string) (JobID, error)
	WaitForJobFunc        func(ctx context.Context, id JobID) error

	// Calls records every operation in submission order, e.g.
	// "shutdown foo", "wait 7". Useful for asserting sequencing.
	Calls []string
}

var _ Client = (*MockClient)(nil)

func (m *MockClient) record(call string) {
	m.Calls = append(m.Calls, call)
}

func (m *MockClient) GetInstance(ctx context.Context, name string) (*Instance, error) {
	m.record("get " + name)
	if m.GetInstanceFunc == nil {
		return nil, nil
	}
	return m.GetInstanceFunc(ctx, name)
}

func (m *MockClient) CreateInstance(ctx context.Context, opts InstanceCreateOpts) (JobID, error) {
	m.record("create " + opts.Name)
	if m.CreateInstanceFunc == nil {
		return 1, nil
	}
	return m.CreateInstanceFunc(ctx, opts)
}

func (m *MockClient) ModifyInstance(ctx context.Context, name string, mods InstanceModifications) (JobID, error) {
	m.record("modify " + name)
	if m.ModifyInstanceFunc == nil {
		return 1, nil
	}
	return m.ModifyInstanceFunc(ctx, name, mods)
}

func (m *MockClient) DeleteInstance(ctx context.Context, name string) (JobID, error) {
	m.record("delete " + name)
	if m.DeleteInstanceFunc == nil {
		return 1, nil
	}
	return m.DeleteInstanceFunc(ctx, name)
}

func (m *MockClient) StartupInstance(ctx context.Context, name string) (JobID, error) {
	m.record("startup " + name)
	if m.StartupInstanceFunc == nil {
		return 1, nil
	}
	return m.StartupInstanceFunc(ctx, name)
}

func (m *MockClient) ShutdownInstance(ctx context.Context, name string) (JobID, error) {
	m.record("shutdown " + name)
	if m.ShutdownInstanceFunc == nil {
		return 1, nil
	}
	return m.ShutdownInstanceFunc(ctx, name)
}

func (m *MockClient) RebootInstance(ctx context.Context, name string) (JobID, error) {
	m.record("reboot " + name)
	if m.RebootInstanceFunc == nil {
		return 1, nil
	}
	return m.RebootInstanceFunc(ctx, name)
}

func (m *MockClient) MigrateInstance(ctx context.Context, name string, allowFailover bool) (JobID, error) {
	m.record("migrate " + name)
	if m.MigrateInstanceFunc == nil {
		return 1, nil
	}
	return m.MigrateInstanceFunc(ctx, name, allowFailover)
}

func (m *MockClient) ReinstallInstance(ctx context.Context, name string) (JobID, error) {
	m.record("reinstall " + name)
	if m.ReinstallInstanceFunc == nil {
		return 1, nil
	}
	return m.ReinstallInstanceFunc(ctx, name)
}

func (m *MockClient) WaitForJob(ctx context.Context, id JobID) error {
	m.record("wait")
	if m.WaitForJobFunc == nil {
		return nil
	}
	return m.WaitForJobFunc(ctx, id)
}
