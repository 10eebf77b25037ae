package service

import (
	"context"
	"errors"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/mock"
	"github.com/stretchr/testify/require"

	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/cache"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/domain"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/store"
)

func newTestBuildService(t *testing.T) (BuildService, *MockBuildStore, *mockCacheMetrics) {
	t.Helper()
	mockStore := new(MockBuildStore)
	cacheMetrics := &mockCacheMetrics{}
	svc, err := NewBuildService(mockStore, cache.NewStore(100, newTestLogger()), cacheMetrics, newTestLogger())
	require.NoError(t, err)
	return svc, mockStore, cacheMetrics
}

func catalogBuild(id int64, name string) *domain.Build {
	return &domain.Build{
		ID:      id,
		Name:    name,
		Authors: []string{"alice"},
		Themes:  []string{"medieval"},
		Colors:  []string{"gray"},
	}
}

func TestNewBuildService(t *testing.T) {
	t.Parallel()

	mockStore := new(MockBuildStore)
	cacheStore := cache.NewStore(10, newTestLogger())
	cacheMetrics := &mockCacheMetrics{}

	t.Run("nil store", func(t *testing.T) {
		svc, err := NewBuildService(nil, cacheStore, cacheMetrics, newTestLogger())
		assert.Nil(t, svc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "buildStore cannot be nil")
	})

	t.Run("nil cache", func(t *testing.T) {
		svc, err := NewBuildService(mockStore, nil, cacheMetrics, newTestLogger())
		assert.Nil(t, svc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cacheStore cannot be nil")
	})

	t.Run("nil metrics", func(t *testing.T) {
		svc, err := NewBuildService(mockStore, cacheStore, nil, newTestLogger())
		assert.Nil(t, svc)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "cacheMetrics cannot be nil")
	})

	t.Run("nil logger falls back to default", func(t *testing.T) {
		svc, err := NewBuildService(mockStore, cacheStore, cacheMetrics, nil)
		require.NoError(t, err)
		assert.NotNil(t, svc)
	})
}

func TestGetBuildCaching(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, mockStore, cacheMetrics := newTestBuildService(t)
	build := catalogBuild(7, "Stone Keep")

	mockStore.On("GetByID", mock.Anything, int64(7)).Return(build, nil).Once()

	got, err := svc.GetBuild(ctx, domain.NewBuildRefID(7))
	require.NoError(t, err)
	assert.Equal(t, build, got)

	// Second lookup by id and a lookup by name are both answered from the
	// cache; the store sees exactly one call.
	got, err = svc.GetBuild(ctx, domain.NewBuildRefID(7))
	require.NoError(t, err)
	assert.Equal(t, build, got)

	got, err = svc.GetBuild(ctx, domain.NewBuildRefName("Stone Keep"))
	require.NoError(t, err)
	assert.Equal(t, build, got)

	hits, misses := cacheMetrics.counts()
	assert.Equal(t, 2, hits)
	assert.Equal(t, 1, misses)
	mockStore.AssertExpectations(t)
	mockStore.AssertNotCalled(t, "GetByName", mock.Anything, mock.Anything)
}

func TestGetBuildNumericNameFallback(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, mockStore, _ := newTestBuildService(t)
	build := catalogBuild(50, "123")

	mockStore.On("GetByID", mock.Anything, int64(123)).Return(nil, store.ErrBuildNotFound).Once()
	mockStore.On("GetByName", mock.Anything, "123").Return(build, nil).Once()

	ref, err := domain.ParseBuildRef("123")
	require.NoError(t, err)

	got, err := svc.GetBuild(ctx, ref)
	require.NoError(t, err)
	assert.Equal(t, build, got)
	mockStore.AssertExpectations(t)
}

func TestGetBuildNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, mockStore, _ := newTestBuildService(t)
	mockStore.On("GetByName", mock.Anything, "Missing").Return(nil, store.ErrBuildNotFound).Once()

	got, err := svc.GetBuild(ctx, domain.NewBuildRefName("Missing"))
	assert.Nil(t, got)
	assert.ErrorIs(t, err, store.ErrBuildNotFound)
	mockStore.AssertExpectations(t)
}

func TestGetBuildStoreErrorWrapped(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, mockStore, _ := newTestBuildService(t)
	storeErr := errors.New("connection reset")
	mockStore.On("GetByID", mock.Anything, int64(9)).Return(nil, storeErr).Once()

	got, err := svc.GetBuild(ctx, domain.NewBuildRefID(9))
	assert.Nil(t, got)

	var svcErr *BuildServiceError
	require.ErrorAs(t, err, &svcErr)
	assert.Equal(t, "get_build", svcErr.Operation)
	assert.ErrorIs(t, err, storeErr)
	mockStore.AssertExpectations(t)
}

func TestListBuildsCachesPerFilter(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, mockStore, cacheMetrics := newTestBuildService(t)
	alice := "alice"
	bob := "bob"
	aliceFilter := store.BuildFilter{Author: &alice, Limit: 10}
	bobFilter := store.BuildFilter{Author: &bob, Limit: 10}
	aliceBuilds := []*domain.Build{catalogBuild(1, "Stone Keep")}
	bobBuilds := []*domain.Build{catalogBuild(2, "Oak Hall")}

	mockStore.On("List", mock.Anything, aliceFilter).Return(aliceBuilds, nil).Once()
	mockStore.On("List", mock.Anything, bobFilter).Return(bobBuilds, nil).Once()

	got, err := svc.ListBuilds(ctx, aliceFilter)
	require.NoError(t, err)
	assert.Equal(t, aliceBuilds, got)

	got, err = svc.ListBuilds(ctx, aliceFilter)
	require.NoError(t, err)
	assert.Equal(t, aliceBuilds, got)

	// A different filter is a different cache entry.
	got, err = svc.ListBuilds(ctx, bobFilter)
	require.NoError(t, err)
	assert.Equal(t, bobBuilds, got)

	hits, misses := cacheMetrics.counts()
	assert.Equal(t, 1, hits)
	assert.Equal(t, 2, misses)
	mockStore.AssertExpectations(t)
}

func TestListMetadataCaching(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, mockStore, _ := newTestBuildService(t)
	mockStore.On("ListDistinct", mock.Anything, store.MetadataAuthors).
		Return([]string{"alice", "bob"}, nil).Once()
	mockStore.On("ListDistinct", mock.Anything, store.MetadataThemes).
		Return([]string{"medieval"}, nil).Once()

	authors, err := svc.ListAuthors(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, authors)

	authors, err = svc.ListAuthors(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"alice", "bob"}, authors)

	// Themes live in their own namespace and miss independently.
	themes, err := svc.ListThemes(ctx)
	require.NoError(t, err)
	assert.Equal(t, []string{"medieval"}, themes)

	mockStore.AssertExpectations(t)
	mockStore.AssertNumberOfCalls(t, "ListDistinct", 2)
}

func TestCreateBuildInvalidatesQueryCaches(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, mockStore, _ := newTestBuildService(t)
	filter := store.BuildFilter{Limit: 20}

	mockStore.On("List", mock.Anything, filter).
		Return([]*domain.Build{catalogBuild(1, "Stone Keep")}, nil).Times(2)
	mockStore.On("ListDistinct", mock.Anything, store.MetadataAuthors).
		Return([]string{"alice"}, nil).Times(2)
	mockStore.On("Create", mock.Anything, mock.AnythingOfType("*domain.Build")).
		Run(func(args mock.Arguments) {
			args.Get(1).(*domain.Build).ID = 2
		}).
		Return(nil).Once()

	_, err := svc.ListBuilds(ctx, filter)
	require.NoError(t, err)
	_, err = svc.ListAuthors(ctx)
	require.NoError(t, err)

	require.NoError(t, svc.CreateBuild(ctx, catalogBuild(0, "Oak Hall")))

	// Both listings were evicted by the write and hit the store again.
	_, err = svc.ListBuilds(ctx, filter)
	require.NoError(t, err)
	_, err = svc.ListAuthors(ctx)
	require.NoError(t, err)

	mockStore.AssertExpectations(t)
}

func TestCreateBuildDuplicateName(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, mockStore, _ := newTestBuildService(t)
	mockStore.On("Create", mock.Anything, mock.AnythingOfType("*domain.Build")).
		Return(store.ErrBuildNameExists).Once()

	err := svc.CreateBuild(ctx, catalogBuild(0, "Stone Keep"))
	assert.ErrorIs(t, err, store.ErrBuildNameExists)
	mockStore.AssertExpectations(t)
}

func TestUpdateBuildEvictsOldName(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, mockStore, _ := newTestBuildService(t)
	current := catalogBuild(7, "Stone Keep")
	renamed := catalogBuild(7, "Granite Keep")

	mockStore.On("GetByName", mock.Anything, "Stone Keep").Return(current, nil).Once()

	// Populate the cache under both the id and the old name.
	_, err := svc.GetBuild(ctx, domain.NewBuildRefName("Stone Keep"))
	require.NoError(t, err)

	mockStore.On("GetByID", mock.Anything, int64(7)).Return(current, nil).Once()
	mockStore.On("Update", mock.Anything, renamed).Return(nil).Once()
	require.NoError(t, svc.UpdateBuild(ctx, renamed))

	// The old name no longer resolves from the cache; the store decides.
	mockStore.On("GetByName", mock.Anything, "Stone Keep").
		Return(nil, store.ErrBuildNotFound).Once()
	_, err = svc.GetBuild(ctx, domain.NewBuildRefName("Stone Keep"))
	assert.ErrorIs(t, err, store.ErrBuildNotFound)

	mockStore.AssertExpectations(t)
}

func TestUpdateBuildNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, mockStore, _ := newTestBuildService(t)
	mockStore.On("GetByID", mock.Anything, int64(404)).
		Return(nil, store.ErrBuildNotFound).Once()

	err := svc.UpdateBuild(ctx, catalogBuild(404, "Ghost"))
	assert.ErrorIs(t, err, store.ErrBuildNotFound)
	mockStore.AssertExpectations(t)
	mockStore.AssertNotCalled(t, "Update", mock.Anything, mock.Anything)
}

func TestDeleteBuildInvalidatesIdentity(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, mockStore, _ := newTestBuildService(t)
	build := catalogBuild(7, "Stone Keep")

	mockStore.On("GetByID", mock.Anything, int64(7)).Return(build, nil).Times(2)

	_, err := svc.GetBuild(ctx, domain.NewBuildRefID(7))
	require.NoError(t, err)

	mockStore.On("Delete", mock.Anything, int64(7)).Return(nil).Once()
	require.NoError(t, svc.DeleteBuild(ctx, 7))

	// The identity entry is gone, so the next lookup consults the store.
	mockStore.On("GetByID", mock.Anything, int64(7)).
		Return(nil, store.ErrBuildNotFound).Once()
	_, err = svc.GetBuild(ctx, domain.NewBuildRefID(7))
	assert.ErrorIs(t, err, store.ErrBuildNotFound)

	mockStore.AssertExpectations(t)
}

func TestDeleteBuildNotFound(t *testing.T) {
	t.Parallel()
	ctx := context.Background()

	svc, mockStore, _ := newTestBuildService(t)
	mockStore.On("GetByID", mock.Anything, int64(404)).
		Return(nil, store.ErrBuildNotFound).Once()

	err := svc.DeleteBuild(ctx, 404)
	assert.ErrorIs(t, err, store.ErrBuildNotFound)
	mockStore.AssertExpectations(t)
	mockStore.AssertNotCalled(t, "Delete", mock.Anything, mock.Anything)
}
