package api

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/go-chi/chi/v5"
	"github.com/google/uuid"
	"github.com/stretchr/testify/mock"

	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/domain"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/service"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/store"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/task"
)

// mockBuildService is a testify mock for service.BuildService.
type mockBuildService struct {
	mock.Mock
}

var _ service.BuildService = (*mockBuildService)(nil)

func (m *mockBuildService) CreateBuild(ctx context.Context, build *domain.Build) error {
	args := m.Called(ctx, build)
	return args.Error(0)
}

func (m *mockBuildService) GetBuild(ctx context.Context, ref domain.BuildRef) (*domain.Build, error) {
	args := m.Called(ctx, ref)
	if build := args.Get(0); build != nil {
		return build.(*domain.Build), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBuildService) ListBuilds(ctx context.Context, filter store.BuildFilter) ([]*domain.Build, error) {
	args := m.Called(ctx, filter)
	if builds := args.Get(0); builds != nil {
		return builds.([]*domain.Build), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBuildService) ListAuthors(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if values := args.Get(0); values != nil {
		return values.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBuildService) ListThemes(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if values := args.Get(0); values != nil {
		return values.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBuildService) ListColors(ctx context.Context) ([]string, error) {
	args := m.Called(ctx)
	if values := args.Get(0); values != nil {
		return values.([]string), args.Error(1)
	}
	return nil, args.Error(1)
}

func (m *mockBuildService) UpdateBuild(ctx context.Context, build *domain.Build) error {
	args := m.Called(ctx, build)
	return args.Error(0)
}

func (m *mockBuildService) DeleteBuild(ctx context.Context, id int64) error {
	args := m.Called(ctx, id)
	return args.Error(0)
}

// mockBuildLogService is a testify mock for service.BuildLogService.
type mockBuildLogService struct {
	mock.Mock
}

var _ service.BuildLogService = (*mockBuildLogService)(nil)

func (m *mockBuildLogService) Initiate(ctx context.Context, ref domain.BuildRef) (uuid.UUID, error) {
	args := m.Called(ctx, ref)
	return args.Get(0).(uuid.UUID), args.Error(1)
}

func (m *mockBuildLogService) GetStatus(ctx context.Context, handle uuid.UUID) (domain.TaskStatus, error) {
	args := m.Called(ctx, handle)
	return args.Get(0).(domain.TaskStatus), args.Error(1)
}

func (m *mockBuildLogService) GetFile(ctx context.Context, handle uuid.UUID) (service.LogFile, error) {
	args := m.Called(ctx, handle)
	return args.Get(0).(service.LogFile), args.Error(1)
}

func (m *mockBuildLogService) HandleJobFailure(job task.Job, err error) {
	m.Called(job, err)
}

// withRouteParam attaches a chi route context carrying one URL parameter,
// so handlers can be called directly without mounting a router.
func withRouteParam(t *testing.T, r *http.Request, key, value string) *http.Request {
	t.Helper()
	rctx := chi.NewRouteContext()
	rctx.URLParams.Add(key, value)
	return r.WithContext(context.WithValue(r.Context(), chi.RouteCtxKey, rctx))
}

// doRequest runs one handler func against a recorded request.
func doRequest(handler http.HandlerFunc, r *http.Request) *httptest.ResponseRecorder {
	rr := httptest.NewRecorder()
	handler(rr, r)
	return rr
}
