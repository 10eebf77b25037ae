package logbuild

import (
	"fmt"
	"strings"

	"github.com/Sovok1917/MCBuildLibrary-sub001/internal/domain"
	"github.com/google/uuid"
)

// Render formats a build's displayable fields as the plain-text body of its
// build log. The same build value always renders to the same text: no
// timestamps, no randomness, no side effects.
func Render(b *domain.Build) string {
	var sb strings.Builder

	sb.WriteString("Build: ")
	sb.WriteString(b.Name)
	sb.WriteString("\n")
	sb.WriteString("Authors: ")
	sb.WriteString(renderList(b.Authors))
	sb.WriteString("\n")
	sb.WriteString("Themes: ")
	sb.WriteString(renderList(b.Themes))
	sb.WriteString("\n")
	sb.WriteString("Colors: ")
	sb.WriteString(renderList(b.Colors))
	sb.WriteString("\n")

	if b.Description != "" {
		sb.WriteString("\nDescription:\n")
		sb.WriteString(b.Description)
		sb.WriteString("\n")
	}

	if len(b.ScreenshotURLs) > 0 {
		sb.WriteString("\nScreenshots:\n")
		for i, url := range b.ScreenshotURLs {
			fmt.Fprintf(&sb, "  %d. %s\n", i+1, url)
		}
	}

	return sb.String()
}

// Filename derives the log file's name from the build name and the task
// handle. The build name is kept recognizable for whoever downloads the
// file, and the handle keeps concurrent generations for one build from
// colliding on disk.
func Filename(name string, handle uuid.UUID) string {
	return sanitize(name) + "_" + handle.String() + ".txt"
}

// sanitize replaces every character outside [A-Za-z0-9] with an underscore
// so build names cannot smuggle path separators or shell metacharacters
// into filenames.
func sanitize(name string) string {
	var sb strings.Builder
	sb.Grow(len(name))
	for _, r := range name {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9':
			sb.WriteRune(r)
		default:
			sb.WriteByte('_')
		}
	}
	return sb.String()
}

func renderList(values []string) string {
	if len(values) == 0 {
		return "(none)"
	}
	return strings.Join(values, ", ")
}
