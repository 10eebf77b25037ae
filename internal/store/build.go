package store

import (
	"context"

	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/domain"
)

// BuildFilter narrows List results. Nil members are not applied; the
// service layer renders them into the query cache key as the null token so
// equivalent filters share a cache entry.
type BuildFilter struct {
	Author *string
	Theme  *string
	Color  *string
	Name   *string
	Limit  int
	Offset int
}

// MetadataField selects which distinct-value listing ListDistinct returns.
type MetadataField string

// Metadata fields extractable from builds.
const (
	MetadataAuthors MetadataField = "authors"
	MetadataThemes  MetadataField = "themes"
	MetadataColors  MetadataField = "colors"
)

// BuildStore defines persistence for builds. It is the concrete form of the
// "resolve a build by numeric id or exact name" collaborator the log
// pipeline depends on; the catalog endpoints use the rest.
type BuildStore interface {
	// Create saves a new build and assigns its ID.
	// Returns ErrBuildNameExists if the name is already taken.
	Create(ctx context.Context, build *domain.Build) error

	// GetByID retrieves a build by its numeric id.
	// Returns ErrBuildNotFound if no such build exists.
	GetByID(ctx context.Context, id int64) (*domain.Build, error)

	// GetByName retrieves a build by its exact name.
	// Returns ErrBuildNotFound if no such build exists.
	GetByName(ctx context.Context, name string) (*domain.Build, error)

	// List returns builds matching the filter, newest first.
	// Returns an empty slice when nothing matches.
	List(ctx context.Context, filter BuildFilter) ([]*domain.Build, error)

	// ListDistinct returns the sorted distinct values of one metadata field
	// across all builds.
	ListDistinct(ctx context.Context, field MetadataField) ([]string, error)

	// Update replaces an existing build's fields by id.
	// Returns ErrBuildNotFound if the build does not exist and
	// ErrBuildNameExists if the new name collides with another build.
	Update(ctx context.Context, build *domain.Build) error

	// Delete removes a build by id.
	// Returns ErrBuildNotFound if the build does not exist.
	Delete(ctx context.Context, id int64) error
}
