package postgres

import (
	"context"
	"database/sql"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/domain"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/platform/logger"
	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/store"
)

// defaultListLimit bounds List results when the caller does not set a limit.
const defaultListLimit = 50

// buildColumns is the column list shared by every SELECT over builds.
const buildColumns = `id, name, authors, themes, colors, description, screenshot_urls, schem_file, created_at, updated_at`

// PostgresBuildStore implements the store.BuildStore interface
// using a PostgreSQL database as the storage backend.
//
// The list-valued fields (authors, themes, colors, screenshot URLs) live in
// JSONB columns and are encoded and decoded through encoding/json.
type PostgresBuildStore struct {
	db     store.DBTX
	logger *slog.Logger
}

// NewPostgresBuildStore creates a new PostgreSQL implementation of the
// BuildStore interface. It accepts a database connection or transaction that
// should be initialized and managed by the caller.
// If logger is nil, a default logger will be used.
func NewPostgresBuildStore(db store.DBTX, logger *slog.Logger) *PostgresBuildStore {
	if db == nil {
		panic("db cannot be nil")
	}

	if logger == nil {
		logger = slog.Default()
	}

	return &PostgresBuildStore{
		db:     db,
		logger: logger.With(slog.String("component", "build_store")),
	}
}

// Ensure PostgresBuildStore implements store.BuildStore interface
var _ store.BuildStore = (*PostgresBuildStore)(nil)

// Create implements store.BuildStore.Create
// It saves a new build and assigns the database-generated ID back to it.
// Returns store.ErrBuildNameExists if the name is already taken.
func (s *PostgresBuildStore) Create(ctx context.Context, build *domain.Build) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := build.Validate(); err != nil {
		log.Warn("build validation failed during create",
			slog.String("error", err.Error()),
			slog.String("build_name", build.Name))
		return err
	}

	authors, themes, colors, screenshots, err := marshalBuildLists(build)
	if err != nil {
		return err
	}

	query := `
		INSERT INTO builds (name, authors, themes, colors, description, screenshot_urls, schem_file, created_at, updated_at)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
		RETURNING id
	`
	err = s.db.QueryRowContext(
		ctx,
		query,
		build.Name,
		authors,
		themes,
		colors,
		build.Description,
		screenshots,
		build.SchemFile,
		build.CreatedAt,
		build.UpdatedAt,
	).Scan(&build.ID)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate build name during create",
				slog.String("build_name", build.Name))
			return fmt.Errorf("%w: %v", store.ErrBuildNameExists, err)
		}

		log.Error("failed to create build",
			slog.String("error", err.Error()),
			slog.String("build_name", build.Name))
		return MapError(err)
	}

	log.Info("build created",
		slog.Int64("build_id", build.ID),
		slog.String("build_name", build.Name))
	return nil
}

// GetByID implements store.BuildStore.GetByID
// Returns store.ErrBuildNotFound if no build has the given id.
func (s *PostgresBuildStore) GetByID(ctx context.Context, id int64) (*domain.Build, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving build by ID", slog.Int64("build_id", id))

	query := `SELECT ` + buildColumns + ` FROM builds WHERE id = $1`
	build, err := scanBuild(s.db.QueryRowContext(ctx, query, id))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("build not found", slog.Int64("build_id", id))
			return nil, store.ErrBuildNotFound
		}
		log.Error("failed to get build by ID",
			slog.String("error", err.Error()),
			slog.Int64("build_id", id))
		return nil, MapError(err)
	}

	return build, nil
}

// GetByName implements store.BuildStore.GetByName
// The lookup is by exact name. Returns store.ErrBuildNotFound if no build
// has the given name.
func (s *PostgresBuildStore) GetByName(ctx context.Context, name string) (*domain.Build, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	log.Debug("retrieving build by name", slog.String("build_name", name))

	query := `SELECT ` + buildColumns + ` FROM builds WHERE name = $1`
	build, err := scanBuild(s.db.QueryRowContext(ctx, query, name))
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			log.Debug("build not found", slog.String("build_name", name))
			return nil, store.ErrBuildNotFound
		}
		log.Error("failed to get build by name",
			slog.String("error", err.Error()),
			slog.String("build_name", name))
		return nil, MapError(err)
	}

	return build, nil
}

// List implements store.BuildStore.List
// Author, theme, and color filters match exact list membership; the name
// filter matches case-insensitive substrings. Filters combine with AND.
// Returns an empty slice if no builds match.
func (s *PostgresBuildStore) List(ctx context.Context, filter store.BuildFilter) ([]*domain.Build, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	limit := filter.Limit
	if limit <= 0 {
		limit = defaultListLimit
	}
	offset := filter.Offset
	if offset < 0 {
		offset = 0
	}

	var (
		conditions []string
		args       []any
	)
	addCondition := func(format string, value any) {
		args = append(args, value)
		conditions = append(conditions, fmt.Sprintf(format, len(args)))
	}

	// The ? operator tests JSONB array membership. The pgx stdlib driver
	// passes SQL through verbatim, so it is not mistaken for a placeholder.
	if filter.Author != nil {
		addCondition("authors ? $%d", *filter.Author)
	}
	if filter.Theme != nil {
		addCondition("themes ? $%d", *filter.Theme)
	}
	if filter.Color != nil {
		addCondition("colors ? $%d", *filter.Color)
	}
	if filter.Name != nil {
		addCondition("name ILIKE '%%' || $%d || '%%'", *filter.Name)
	}

	query := `SELECT ` + buildColumns + ` FROM builds`
	if len(conditions) > 0 {
		query += " WHERE " + strings.Join(conditions, " AND ")
	}
	args = append(args, limit, offset)
	query += fmt.Sprintf(" ORDER BY created_at DESC, id DESC LIMIT $%d OFFSET $%d", len(args)-1, len(args))

	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		log.Error("failed to list builds", slog.String("error", err.Error()))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	builds := []*domain.Build{}
	for rows.Next() {
		build, err := scanBuild(rows)
		if err != nil {
			log.Error("failed to scan build row", slog.String("error", err.Error()))
			return nil, err
		}
		builds = append(builds, build)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	log.Debug("listed builds", slog.Int("count", len(builds)))
	return builds, nil
}

// ListDistinct implements store.BuildStore.ListDistinct
// It unnests one JSONB list column across all builds and returns the sorted
// distinct values. Returns an empty slice when the table is empty.
func (s *PostgresBuildStore) ListDistinct(ctx context.Context, field store.MetadataField) ([]string, error) {
	log := logger.FromContextOrDefault(ctx, s.logger)

	column, err := metadataColumn(field)
	if err != nil {
		log.Warn("unknown metadata field", slog.String("field", string(field)))
		return nil, err
	}

	query := `SELECT DISTINCT jsonb_array_elements_text(` + column + `) AS value FROM builds ORDER BY value`

	rows, err := s.db.QueryContext(ctx, query)
	if err != nil {
		log.Error("failed to list distinct metadata values",
			slog.String("error", err.Error()),
			slog.String("field", string(field)))
		return nil, MapError(err)
	}
	defer func() {
		if err := rows.Close(); err != nil {
			log.Error("failed to close rows", slog.String("error", err.Error()))
		}
	}()

	values := []string{}
	for rows.Next() {
		var value string
		if err := rows.Scan(&value); err != nil {
			log.Error("failed to scan metadata value", slog.String("error", err.Error()))
			return nil, err
		}
		values = append(values, value)
	}

	if err := rows.Err(); err != nil {
		log.Error("error after scanning rows", slog.String("error", err.Error()))
		return nil, MapError(err)
	}

	log.Debug("listed distinct metadata values",
		slog.String("field", string(field)),
		slog.Int("count", len(values)))
	return values, nil
}

// Update implements store.BuildStore.Update
// It fully replaces the build's mutable fields by id and refreshes
// UpdatedAt. Returns store.ErrBuildNotFound if the build does not exist and
// store.ErrBuildNameExists if the new name collides with another build.
func (s *PostgresBuildStore) Update(ctx context.Context, build *domain.Build) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	if err := build.Validate(); err != nil {
		log.Warn("build validation failed during update",
			slog.String("error", err.Error()),
			slog.Int64("build_id", build.ID))
		return err
	}

	authors, themes, colors, screenshots, err := marshalBuildLists(build)
	if err != nil {
		return err
	}

	build.UpdatedAt = time.Now().UTC()

	query := `
		UPDATE builds
		SET name = $1, authors = $2, themes = $3, colors = $4, description = $5, screenshot_urls = $6, schem_file = $7, updated_at = $8
		WHERE id = $9
	`
	result, err := s.db.ExecContext(
		ctx,
		query,
		build.Name,
		authors,
		themes,
		colors,
		build.Description,
		screenshots,
		build.SchemFile,
		build.UpdatedAt,
		build.ID,
	)

	if err != nil {
		if IsUniqueViolation(err) {
			log.Warn("duplicate build name during update",
				slog.Int64("build_id", build.ID),
				slog.String("build_name", build.Name))
			return fmt.Errorf("%w: %v", store.ErrBuildNameExists, err)
		}

		log.Error("failed to update build",
			slog.String("error", err.Error()),
			slog.Int64("build_id", build.ID))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.Int64("build_id", build.ID))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("build not found for update", slog.Int64("build_id", build.ID))
		return store.ErrBuildNotFound
	}

	log.Info("build updated",
		slog.Int64("build_id", build.ID),
		slog.String("build_name", build.Name))
	return nil
}

// Delete implements store.BuildStore.Delete
// Returns store.ErrBuildNotFound if the build does not exist.
func (s *PostgresBuildStore) Delete(ctx context.Context, id int64) error {
	log := logger.FromContextOrDefault(ctx, s.logger)

	query := `DELETE FROM builds WHERE id = $1`
	result, err := s.db.ExecContext(ctx, query, id)
	if err != nil {
		log.Error("failed to delete build",
			slog.String("error", err.Error()),
			slog.Int64("build_id", id))
		return MapError(err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		log.Error("failed to get rows affected",
			slog.String("error", err.Error()),
			slog.Int64("build_id", id))
		return err
	}

	if rowsAffected == 0 {
		log.Debug("build not found for delete", slog.Int64("build_id", id))
		return store.ErrBuildNotFound
	}

	log.Info("build deleted", slog.Int64("build_id", id))
	return nil
}

// rowScanner abstracts *sql.Row and *sql.Rows for scanBuild.
type rowScanner interface {
	Scan(dest ...any) error
}

// scanBuild reads one builds row, decoding the JSONB list columns.
func scanBuild(row rowScanner) (*domain.Build, error) {
	var (
		build       domain.Build
		authors     []byte
		themes      []byte
		colors      []byte
		screenshots []byte
	)

	err := row.Scan(
		&build.ID,
		&build.Name,
		&authors,
		&themes,
		&colors,
		&build.Description,
		&screenshots,
		&build.SchemFile,
		&build.CreatedAt,
		&build.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	for _, column := range []struct {
		raw []byte
		dst *[]string
	}{
		{authors, &build.Authors},
		{themes, &build.Themes},
		{colors, &build.Colors},
		{screenshots, &build.ScreenshotURLs},
	} {
		if err := unmarshalList(column.raw, column.dst); err != nil {
			return nil, fmt.Errorf("failed to decode build list column: %w", err)
		}
	}

	return &build, nil
}

// marshalBuildLists encodes the build's list fields for the JSONB columns.
func marshalBuildLists(build *domain.Build) (authors, themes, colors, screenshots []byte, err error) {
	if authors, err = marshalList(build.Authors); err != nil {
		return nil, nil, nil, nil, err
	}
	if themes, err = marshalList(build.Themes); err != nil {
		return nil, nil, nil, nil, err
	}
	if colors, err = marshalList(build.Colors); err != nil {
		return nil, nil, nil, nil, err
	}
	if screenshots, err = marshalList(build.ScreenshotURLs); err != nil {
		return nil, nil, nil, nil, err
	}
	return authors, themes, colors, screenshots, nil
}

func marshalList(values []string) ([]byte, error) {
	if values == nil {
		values = []string{}
	}
	encoded, err := json.Marshal(values)
	if err != nil {
		return nil, fmt.Errorf("failed to encode build list column: %w", err)
	}
	return encoded, nil
}

func unmarshalList(raw []byte, dst *[]string) error {
	if len(raw) == 0 {
		*dst = []string{}
		return nil
	}
	return json.Unmarshal(raw, dst)
}

// metadataColumn maps a metadata field to its column, rejecting anything
// unknown so field names never reach the SQL text unchecked.
func metadataColumn(field store.MetadataField) (string, error) {
	switch field {
	case store.MetadataAuthors:
		return "authors", nil
	case store.MetadataThemes:
		return "themes", nil
	case store.MetadataColors:
		return "colors", nil
	default:
		return "", fmt.Errorf("%w: unknown metadata field %q", store.ErrInvalidEntity, field)
	}
}
