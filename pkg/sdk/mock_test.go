package searchgate

import (
	"context"

	"github.com/kailas-cloud/searchgate/internal/domain/search/params"
	"github.com/kailas-cloud/searchgate/internal/domain/search/policy"
	"github.com/kailas-cloud/searchgate/internal/domain/search/query"
	"github.com/kailas-cloud/searchgate/internal/domain/search/result"
	domusage "github.com/kailas-cloud/searchgate/internal/domain/usage"
	healthuc "github.com/kailas-cloud/searchgate/internal/usecase/health"
)

// --- searchUseCase mock ---

type mockSearchUC struct {
	searchFn  func(ctx context.Context, pol policy.Policy, p params.Params) (result.Envelope, error)
	compileFn func(pol policy.Policy, p params.Params) (query.Compiled, error)
}

func (m *mockSearchUC) Search(ctx context.Context, pol policy.Policy, p params.Params) (result.Envelope, error) {
	return m.searchFn(ctx, pol, p)
}

func (m *mockSearchUC) Compile(pol policy.Policy, p params.Params) (query.Compiled, error) {
	return m.compileFn(pol, p)
}

// --- healthUseCase mock ---

type mockHealthUC struct {
	report healthuc.Report
}

func (m *mockHealthUC) Check(context.Context) healthuc.Report { return m.report }

// --- usageUseCase mock ---

type mockUsageUC struct {
	enabled bool
	todayFn func(ctx context.Context, endpoint string) (domusage.Report, error)
}

func (m *mockUsageUC) Enabled() bool { return m.enabled }

func (m *mockUsageUC) Record(context.Context, string) {}

func (m *mockUsageUC) Today(ctx context.Context, endpoint string) (domusage.Report, error) {
	return m.todayFn(ctx, endpoint)
}
