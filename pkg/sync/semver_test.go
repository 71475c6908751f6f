package sync

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestNewSemverFilter(t *testing.T) {
	tests := []struct {
		name        string
		constraint  string
		expectError bool
	}{
		{"valid constraint >=", ">=1.2.3", false},
		{"valid constraint ^", "^2.0.0", false},
		{"valid constraint ~", "~1.2.3", false},
		{"valid constraint range", ">=1.0.0 <2.0.0", false},
		{"valid constraint x", "1.2.x", false},
		{"invalid constraint", "invalid", true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := NewSemverFilter(tt.constraint)
			if tt.expectError {
				assert.Error(t, err)
				assert.Nil(t, filter)
			} else {
				assert.NoError(t, err)
				assert.NotNil(t, filter)
			}
		})
	}
}

func TestSemverFilter_Filter(t *testing.T) {
	tags := []string{
		"1.0.0",
		"1.2.3",
		"1.2.4",
		"2.0.0",
		"2.1.0",
		"3.0.0",
		"v1.5.0",
		"v2.5.0",
		"not-a-version",
		"latest",
	}

	tests := []struct {
		name       string
		constraint string
		expected   []string
	}{
		{
			name:       "greater than or equal",
			constraint: ">=2.0.0",
			expected:   []string{"2.0.0", "2.1.0", "3.0.0", "v2.5.0"},
		},
		{
			name:       "caret constraint",
			constraint: "^1.2.0",
			expected:   []string{"1.2.3", "1.2.4", "v1.5.0"},
		},
		{
			name:       "tilde constraint",
			constraint: "~1.2.3",
			expected:   []string{"1.2.3", "1.2.4"},
		},
		{
			name:       "exact version",
			constraint: "2.0.0",
			expected:   []string{"2.0.0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := NewSemverFilter(tt.constraint)
			require.NoError(t, err)

			filtered := filter.Filter(tags)
			assert.ElementsMatch(t, tt.expected, filtered)
		})
	}
}

func TestSemverFilter_ParseVersion(t *testing.T) {
	filter := &SemverFilter{}

	tests := []struct {
		tag      string
		expected string
		valid    bool
	}{
		{"1.2.3", "1.2.3", true},
		{"v1.2.3", "1.2.3", true},
		{"V1.2.3", "1.2.3", true},
		{"release-1.2.3", "1.2.3", true},
		{"ver-1.2.3", "1.2.3", true},
		{"1.2.3-alpha", "1.2.3-alpha", true},
		{"not-a-version", "", false},
		{"latest", "", false},
	}

	for _, tt := range tests {
		t.Run(tt.tag, func(t *testing.T) {
			version, err := filter.parseVersion(tt.tag)
			if tt.valid {
				assert.NoError(t, err)
				assert.Equal(t, tt.expected, version.String())
			} else {
				assert.Error(t, err)
			}
		})
	}
}

func TestSemverConstraintExamples(t *testing.T) {
	tags := []string{
		"1.0.0",
		"1.2.3",
		"1.2.4",
		"1.3.0",
		"2.0.0",
		"2.1.0",
		"3.0.0",
	}

	tests := []struct {
		name       string
		constraint string
		expected   []string
	}{
		{
			name:       "caret allows minor and patch updates",
			constraint: "^1.2.0",
			expected:   []string{"1.2.3", "1.2.4", "1.3.0"},
		},
		{
			name:       "tilde allows patch updates only",
			constraint: "~1.2.0",
			expected:   []string{"1.2.3", "1.2.4"},
		},
		{
			name:       "x wildcard for major.minor",
			constraint: "1.x",
			expected:   []string{"1.0.0", "1.2.3", "1.2.4", "1.3.0"},
		},
		{
			name:       "range constraint",
			constraint: ">=1.2.0 <2.0.0",
			expected:   []string{"1.2.3", "1.2.4", "1.3.0"},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			filter, err := NewSemverFilter(tt.constraint)
			require.NoError(t, err)

			filtered := filter.Filter(tags)
			assert.ElementsMatch(t, tt.expected, filtered)
		})
	}
}
