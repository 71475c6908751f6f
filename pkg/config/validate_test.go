package config

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hemzaz/tugboat/pkg/helper/errors"
)

func minimalYAML() string {
	return `
registries:
  src:
    url: src.example.com
  dst:
    url: dst.example.com
stages:
  - from:
      source: src
      repository: library/alpine
    to:
      - destination: dst
        repository: library/alpine
        tags: ["1.0"]
`
}

func TestLoadMinimumValidPlan(t *testing.T) {
	cfg, err := LoadFromBytes(context.Background(), []byte(minimalYAML()), EnvResolver{})
	require.NoError(t, err)
	require.Len(t, cfg.Stages, 1)
	assert.NotEmpty(t, cfg.Stages[0].ID)
}

func TestDuplicateStageIDsRejected(t *testing.T) {
	doc := `
registries:
  src: {url: src.example.com}
  dst: {url: dst.example.com}
stages:
  - id: test-stage
    from: {source: src, repository: a}
    to: [{destination: dst, repository: a, tags: ["1.0"]}]
  - id: test-stage
    from: {source: src, repository: b}
    to: [{destination: dst, repository: b, tags: ["1.0"]}]
`
	_, err := LoadFromBytes(context.Background(), []byte(doc), EnvResolver{})
	require.Error(t, err)
	var cerr *errors.ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, errors.KindDuplicateStageID, cerr.Kind)
	assert.Contains(t, cerr.Error(), "stages[#].id must be unique")
}

func TestUnknownDependsOnRejected(t *testing.T) {
	doc := `
registries:
  src: {url: src.example.com}
  dst: {url: dst.example.com}
stages:
  - id: A
    depends_on: ["no-such"]
    from: {source: src, repository: a}
    to: [{destination: dst, repository: a, tags: ["1.0"]}]
`
	_, err := LoadFromBytes(context.Background(), []byte(doc), EnvResolver{})
	require.Error(t, err)
	var cerr *errors.ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, errors.KindUnknownDependsOn, cerr.Kind)
}

func TestSelfDependencyRejected(t *testing.T) {
	doc := `
registries:
  src: {url: src.example.com}
  dst: {url: dst.example.com}
stages:
  - id: A
    depends_on: ["A"]
    from: {source: src, repository: a}
    to: [{destination: dst, repository: a, tags: ["1.0"]}]
`
	_, err := LoadFromBytes(context.Background(), []byte(doc), EnvResolver{})
	require.Error(t, err)
	var cerr *errors.ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, errors.KindSelfDependency, cerr.Kind)
}

func TestUnknownDestinationRejected(t *testing.T) {
	doc := `
registries:
  src: {url: src.example.com}
stages:
  - from: {source: src, repository: a}
    to: [{destination: ghost, repository: a, tags: ["1.0"]}]
`
	_, err := LoadFromBytes(context.Background(), []byte(doc), EnvResolver{})
	require.Error(t, err)
	var cerr *errors.ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, errors.KindUnknownDest, cerr.Kind)
}

func TestUnknownSourceRejected(t *testing.T) {
	doc := `
registries:
  dst: {url: dst.example.com}
stages:
  - from: {source: ghost, repository: a}
    to: [{destination: dst, repository: a, tags: ["1.0"]}]
`
	_, err := LoadFromBytes(context.Background(), []byte(doc), EnvResolver{})
	require.Error(t, err)
	var cerr *errors.ConfigError
	require.True(t, errors.As(err, &cerr))
	assert.Equal(t, errors.KindUnknownSource, cerr.Kind)
}

func TestMissingEnvVarIsFatal(t *testing.T) {
	doc := `
registries:
  src:
    url: src.example.com
    env_user: TUGBOAT_TEST_UNSET_VAR
stages:
  - from: {source: src, repository: a}
    to: [{destination: src, repository: a, tags: ["1.0"]}]
`
	_, err := LoadFromBytes(context.Background(), []byte(doc), EnvResolver{})
	require.Error(t, err)
	var envErr *errors.EnvVarMissingError
	assert.True(t, errors.As(err, &envErr))
}

func TestUnknownFieldsRejected(t *testing.T) {
	doc := `
registries:
  src: {url: src.example.com}
stages: []
bogus_top_level_field: true
`
	_, err := LoadFromBytes(context.Background(), []byte(doc), EnvResolver{})
	require.Error(t, err)
}
