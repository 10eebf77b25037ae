package service

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"strconv"

	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/cache"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/domain"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/platform/logger"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/store"
)

// Entity types used in cache keys. Metadata listings get their own
// namespaces so they can be invalidated alongside build queries.
const (
	buildEntityType  = "Build"
	authorEntityType = "Author"
	themeEntityType  = "Theme"
	colorEntityType  = "Color"
)

// CacheMetrics records catalog cache lookup outcomes for the stats endpoint.
type CacheMetrics interface {
	RecordCacheHit()
	RecordCacheMiss()
}

// BuildService provides catalog operations over the build store. Reads go
// through the shared cache; writes invalidate it.
type BuildService interface {
	// CreateBuild saves a new build and assigns its ID.
	// Returns store.ErrBuildNameExists if the name is already taken.
	CreateBuild(ctx context.Context, build *domain.Build) error

	// GetBuild resolves a reference to a build: by id first when the
	// reference is numeric, then by exact name.
	// Returns store.ErrBuildNotFound when nothing matches.
	GetBuild(ctx context.Context, ref domain.BuildRef) (*domain.Build, error)

	// ListBuilds returns builds matching the filter, newest first.
	ListBuilds(ctx context.Context, filter store.BuildFilter) ([]*domain.Build, error)

	// ListAuthors returns the sorted distinct authors across all builds.
	ListAuthors(ctx context.Context) ([]string, error)

	// ListThemes returns the sorted distinct themes across all builds.
	ListThemes(ctx context.Context) ([]string, error)

	// ListColors returns the sorted distinct colors across all builds.
	ListColors(ctx context.Context) ([]string, error)

	// UpdateBuild replaces an existing build's fields by id.
	// Returns store.ErrBuildNotFound if the build does not exist and
	// store.ErrBuildNameExists on a name collision.
	UpdateBuild(ctx context.Context, build *domain.Build) error

	// DeleteBuild removes a build by id.
	// Returns store.ErrBuildNotFound if the build does not exist.
	DeleteBuild(ctx context.Context, id int64) error
}

// buildServiceImpl implements the BuildService interface
type buildServiceImpl struct {
	store   store.BuildStore
	cache   *cache.Store
	metrics CacheMetrics
	logger  *slog.Logger
}

// NewBuildService creates a new BuildService.
// It returns an error if any of the required dependencies are nil.
func NewBuildService(
	buildStore store.BuildStore,
	cacheStore *cache.Store,
	cacheMetrics CacheMetrics,
	logger *slog.Logger,
) (BuildService, error) {
	if buildStore == nil {
		return nil, &BuildServiceError{Operation: "create_service", Message: "buildStore cannot be nil"}
	}
	if cacheStore == nil {
		return nil, &BuildServiceError{Operation: "create_service", Message: "cacheStore cannot be nil"}
	}
	if cacheMetrics == nil {
		return nil, &BuildServiceError{Operation: "create_service", Message: "cacheMetrics cannot be nil"}
	}
	if logger == nil {
		logger = slog.Default()
	}

	return &buildServiceImpl{
		store:   buildStore,
		cache:   cacheStore,
		metrics: cacheMetrics,
		logger:  logger.With(slog.String("component", "build_service")),
	}, nil
}

// CreateBuild implements BuildService.CreateBuild.
func (s *buildServiceImpl) CreateBuild(ctx context.Context, build *domain.Build) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := s.store.Create(ctx, build); err != nil {
		log.Error("failed to create build",
			"error", err,
			"build_name", build.Name)
		return NewBuildServiceError("create_build", "failed to create build", err)
	}

	s.invalidate(build.ID, build.Name)
	log.Info("build created",
		"build_id", build.ID,
		"build_name", build.Name)
	return nil
}

// GetBuild implements BuildService.GetBuild.
func (s *buildServiceImpl) GetBuild(ctx context.Context, ref domain.BuildRef) (*domain.Build, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if id, ok := ref.ByID(); ok {
		build, err := s.getByID(ctx, log, id)
		if err == nil {
			return build, nil
		}
		if !errors.Is(err, store.ErrBuildNotFound) {
			return nil, err
		}
		// Numeric identifiers fall back to an exact-name lookup, so a
		// build literally named "123" stays reachable.
	}
	return s.getByName(ctx, log, ref.Name())
}

// ListBuilds implements BuildService.ListBuilds.
func (s *buildServiceImpl) ListBuilds(ctx context.Context, filter store.BuildFilter) ([]*domain.Build, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	key := cache.QueryKey(buildEntityType, map[string]any{
		"author": queryParam(filter.Author),
		"theme":  queryParam(filter.Theme),
		"color":  queryParam(filter.Color),
		"name":   queryParam(filter.Name),
		"limit":  filter.Limit,
		"offset": filter.Offset,
	})

	if builds, ok := cache.GetTyped[[]*domain.Build](s.cache, key); ok {
		s.metrics.RecordCacheHit()
		log.Debug("build list served from cache", "key", key, "count", len(builds))
		return builds, nil
	}
	s.metrics.RecordCacheMiss()

	builds, err := s.store.List(ctx, filter)
	if err != nil {
		log.Error("failed to list builds", "error", err)
		return nil, NewBuildServiceError("list_builds", "failed to list builds", err)
	}

	s.cache.Put(key, builds)
	return builds, nil
}

// ListAuthors implements BuildService.ListAuthors.
func (s *buildServiceImpl) ListAuthors(ctx context.Context) ([]string, error) {
	return s.listMetadata(ctx, authorEntityType, store.MetadataAuthors)
}

// ListThemes implements BuildService.ListThemes.
func (s *buildServiceImpl) ListThemes(ctx context.Context) ([]string, error) {
	return s.listMetadata(ctx, themeEntityType, store.MetadataThemes)
}

// ListColors implements BuildService.ListColors.
func (s *buildServiceImpl) ListColors(ctx context.Context) ([]string, error) {
	return s.listMetadata(ctx, colorEntityType, store.MetadataColors)
}

// UpdateBuild implements BuildService.UpdateBuild.
func (s *buildServiceImpl) UpdateBuild(ctx context.Context, build *domain.Build) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Fresh read so the old name's identity key can be invalidated when a
	// rename happens.
	current, err := s.store.GetByID(ctx, build.ID)
	if err != nil {
		if errors.Is(err, store.ErrBuildNotFound) {
			return err
		}
		return NewBuildServiceError("update_build", "failed to load build before update", err)
	}

	if err := s.store.Update(ctx, build); err != nil {
		log.Error("failed to update build",
			"error", err,
			"build_id", build.ID)
		return NewBuildServiceError("update_build", "failed to update build", err)
	}

	s.invalidate(build.ID, current.Name, build.Name)
	log.Info("build updated",
		"build_id", build.ID,
		"build_name", build.Name)
	return nil
}

// DeleteBuild implements BuildService.DeleteBuild.
func (s *buildServiceImpl) DeleteBuild(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	// Fresh read so the name's identity key can be invalidated.
	current, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrBuildNotFound) {
			return err
		}
		return NewBuildServiceError("delete_build", "failed to load build before delete", err)
	}

	if err := s.store.Delete(ctx, id); err != nil {
		log.Error("failed to delete build",
			"error", err,
			"build_id", id)
		return NewBuildServiceError("delete_build", "failed to delete build", err)
	}

	s.invalidate(id, current.Name)
	log.Info("build deleted",
		"build_id", id,
		"build_name", current.Name)
	return nil
}

// getByID serves a single build from the cache or the store.
func (s *buildServiceImpl) getByID(ctx context.Context, log *slog.Logger, id int64) (*domain.Build, error) {
	key := cache.IdentityKey(buildEntityType, strconv.FormatInt(id, 10))
	if build, ok := cache.GetTyped[*domain.Build](s.cache, key); ok {
		s.metrics.RecordCacheHit()
		log.Debug("build served from cache", "key", key)
		return build, nil
	}
	s.metrics.RecordCacheMiss()

	build, err := s.store.GetByID(ctx, id)
	if err != nil {
		if errors.Is(err, store.ErrBuildNotFound) {
			return nil, err
		}
		return nil, NewBuildServiceError("get_build", "failed to load build by id", err)
	}

	s.cacheBuild(build)
	return build, nil
}

// getByName serves a single build from the cache or the store.
func (s *buildServiceImpl) getByName(ctx context.Context, log *slog.Logger, name string) (*domain.Build, error) {
	key := cache.IdentityKey(buildEntityType, name)
	if build, ok := cache.GetTyped[*domain.Build](s.cache, key); ok {
		s.metrics.RecordCacheHit()
		log.Debug("build served from cache", "key", key)
		return build, nil
	}
	s.metrics.RecordCacheMiss()

	build, err := s.store.GetByName(ctx, name)
	if err != nil {
		if errors.Is(err, store.ErrBuildNotFound) {
			return nil, err
		}
		return nil, NewBuildServiceError("get_build", "failed to load build by name", err)
	}

	s.cacheBuild(build)
	return build, nil
}

// listMetadata serves one distinct-value listing from the cache or the store.
func (s *buildServiceImpl) listMetadata(ctx context.Context, entityType string, field store.MetadataField) ([]string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	key := cache.QueryKey(entityType, nil)
	if values, ok := cache.GetTyped[[]string](s.cache, key); ok {
		s.metrics.RecordCacheHit()
		log.Debug("metadata listing served from cache", "key", key, "count", len(values))
		return values, nil
	}
	s.metrics.RecordCacheMiss()

	values, err := s.store.ListDistinct(ctx, field)
	if err != nil {
		log.Error("failed to list metadata",
			"error", err,
			"field", string(field))
		return nil, NewBuildServiceError("list_metadata", fmt.Sprintf("failed to list distinct %s", field), err)
	}

	s.cache.Put(key, values)
	return values, nil
}

// cacheBuild stores a build under both of its identity keys.
func (s *buildServiceImpl) cacheBuild(build *domain.Build) {
	s.cache.Put(cache.IdentityKey(buildEntityType, strconv.FormatInt(build.ID, 10)), build)
	s.cache.Put(cache.IdentityKey(buildEntityType, build.Name), build)
}

// invalidate drops the build's identity keys and every cached query for the
// entity types a write can affect. A build write can change any metadata
// listing, so all four query namespaces go.
func (s *buildServiceImpl) invalidate(id int64, names ...string) {
	s.cache.Evict(cache.IdentityKey(buildEntityType, strconv.FormatInt(id, 10)))
	for _, name := range names {
		s.cache.Evict(cache.IdentityKey(buildEntityType, name))
	}
	for _, entityType := range []string{buildEntityType, authorEntityType, themeEntityType, colorEntityType} {
		s.cache.EvictByTypePrefix(entityType)
	}
}

// queryParam converts an optional filter member for key canonicalization;
// nil pointers render as the null token.
func queryParam(p *string) any {
	if p == nil {
		return nil
	}
	return *p
}
