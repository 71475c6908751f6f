package sync

import (
	"fmt"
	"strings"

	"github.com/Masterminds/semver/v3"
)

// SemverFilter filters tags based on semantic versioning constraints
type SemverFilter struct {
	constraint *semver.Constraints
}

// NewSemverFilter creates a new semver filter from a constraint string
// Constraint examples:
//   - ">=1.2.3" - Greater than or equal to 1.2.3
//   - "^2.0.0" - Compatible with 2.0.0 (>=2.0.0, <3.0.0)
//   - "~1.2.3" - Approximately 1.2.3 (>=1.2.3, <1.3.0)
//   - "1.2.x" - Any patch version of 1.2
//   - ">=1.0.0 <2.0.0" - Range constraint
func NewSemverFilter(constraintStr string) (*SemverFilter, error) {
	constraint, err := semver.NewConstraint(constraintStr)
	if err != nil {
		return nil, fmt.Errorf("invalid semver constraint '%s': %w", constraintStr, err)
	}

	return &SemverFilter{
		constraint: constraint,
	}, nil
}

// Filter filters tags based on semver constraint
func (f *SemverFilter) Filter(tags []string) []string {
	var filtered []string

	for _, tag := range tags {
		// Try to parse as semver
		v, err := f.parseVersion(tag)
		if err != nil {
			// Not a valid semver tag, skip
			continue
		}

		// Check if version matches constraint
		if f.constraint.Check(v) {
			filtered = append(filtered, tag)
		}
	}

	return filtered
}

// parseVersion parses a tag as a semantic version
// Handles common tag formats:
//   - "v1.2.3" -> 1.2.3
//   - "1.2.3" -> 1.2.3
//   - "v1.2.3-alpha" -> 1.2.3-alpha
//   - "release-1.2.3" -> 1.2.3
func (f *SemverFilter) parseVersion(tag string) (*semver.Version, error) {
	// Try direct parsing first
	v, err := semver.NewVersion(tag)
	if err == nil {
		return v, nil
	}

	// Strip common prefixes
	cleaned := tag
	tagLower := strings.ToLower(tag)
	for _, prefix := range []string{"release-", "version-", "ver-", "v"} {
		if strings.HasPrefix(tagLower, prefix) {
			cleaned = tag[len(prefix):]
			break
		}
	}

	// Try parsing cleaned version
	v, err = semver.NewVersion(cleaned)
	if err != nil {
		return nil, fmt.Errorf("not a valid semver: %s", tag)
	}

	return v, nil
}
