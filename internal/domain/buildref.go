package domain

import (
	"fmt"
	"strconv"
	"strings"
)

// ErrEmptyBuildRef is returned when an identifier to parse is blank.
// It wraps ErrValidation.
var ErrEmptyBuildRef = fmt.Errorf("%w: build identifier cannot be empty", ErrValidation)

// BuildRef is a build identifier parsed once at the API boundary: either a
// numeric id or an exact name. A purely numeric identifier keeps its raw
// form too, so lookup can fall back to treating "123" as a name when no
// build has id 123.
type BuildRef struct {
	id   int64
	raw  string
	byID bool
}

// NewBuildRefID returns a reference addressing a build by numeric id.
func NewBuildRefID(id int64) BuildRef {
	return BuildRef{id: id, raw: strconv.FormatInt(id, 10), byID: true}
}

// NewBuildRefName returns a reference addressing a build by exact name.
func NewBuildRefName(name string) BuildRef {
	return BuildRef{raw: name}
}

// ParseBuildRef interprets a raw path segment. A string of decimal digits
// that fits in an int64 is an id reference (its raw form retained for name
// fallback); anything else is a name reference. Blank input is an error.
func ParseBuildRef(raw string) (BuildRef, error) {
	raw = strings.TrimSpace(raw)
	if raw == "" {
		return BuildRef{}, ErrEmptyBuildRef
	}

	if id, err := strconv.ParseInt(raw, 10, 64); err == nil && id >= 0 {
		return BuildRef{id: id, raw: raw, byID: true}, nil
	}
	return BuildRef{raw: raw}, nil
}

// ByID returns the numeric id and whether this reference carries one.
func (r BuildRef) ByID() (int64, bool) {
	return r.id, r.byID
}

// Name returns the raw identifier, used for exact-name lookup.
func (r BuildRef) Name() string {
	return r.raw
}

// String returns the raw identifier for logging.
func (r BuildRef) String() string {
	return r.raw
}
