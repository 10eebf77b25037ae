package domain

import (
	"fmt"
	"strings"
	"time"
)

// Build-specific validation errors. Each wraps ErrValidation so callers
// can match the category as a whole.
var (
	// ErrEmptyBuildName is returned when a build's name is empty or blank.
	ErrEmptyBuildName = fmt.Errorf("%w: build name cannot be empty", ErrValidation)

	// ErrNoBuildAuthors is returned when a build has no authors.
	ErrNoBuildAuthors = fmt.Errorf("%w: build must have at least one author", ErrValidation)

	// ErrBlankListValue is returned when an author, theme, or color entry
	// is empty or blank.
	ErrBlankListValue = fmt.Errorf("%w: list values cannot be blank", ErrValidation)
)

// Build represents one community build in the library: its unique name, the
// people who made it, how it is categorized, and where its screenshots live.
// The schematic payload rides along for storage but is never rendered into
// logs or list responses.
type Build struct {
	ID             int64     `json:"id"`
	Name           string    `json:"name"`
	Authors        []string  `json:"authors"`
	Themes         []string  `json:"themes"`
	Colors         []string  `json:"colors"`
	Description    string    `json:"description,omitempty"`
	ScreenshotURLs []string  `json:"screenshotUrls,omitempty"`
	SchemFile      []byte    `json:"-"`
	CreatedAt      time.Time `json:"created_at"`
	UpdatedAt      time.Time `json:"updated_at"`
}

// NewBuild creates a Build with normalized fields and fresh timestamps. The
// ID is zero until the store assigns one. Returns a validation error if the
// name is blank, no authors are given, or any list entry is blank.
func NewBuild(name string, authors, themes, colors []string, description string, screenshotURLs []string) (*Build, error) {
	now := time.Now().UTC()
	build := &Build{
		Name:           strings.TrimSpace(name),
		Authors:        normalizeList(authors),
		Themes:         normalizeList(themes),
		Colors:         normalizeList(colors),
		Description:    strings.TrimSpace(description),
		ScreenshotURLs: normalizeList(screenshotURLs),
		CreatedAt:      now,
		UpdatedAt:      now,
	}

	if err := build.Validate(); err != nil {
		return nil, err
	}
	return build, nil
}

// Validate checks the build's invariants.
func (b *Build) Validate() error {
	if strings.TrimSpace(b.Name) == "" {
		return ErrEmptyBuildName
	}
	if len(b.Authors) == 0 {
		return ErrNoBuildAuthors
	}
	for _, list := range [][]string{b.Authors, b.Themes, b.Colors} {
		for _, v := range list {
			if strings.TrimSpace(v) == "" {
				return ErrBlankListValue
			}
		}
	}
	return nil
}

// normalizeList trims entries and drops empty ones, preserving order.
func normalizeList(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		v = strings.TrimSpace(v)
		if v != "" {
			out = append(out, v)
		}
	}
	return out
}
