package config

import (
	"context"
	"os"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hemzaz/tugboat/pkg/helper/errors"
)

const validDoc = `
registries:
  src:
    url: src.example.com
    env_user: SRC_USER
    env_password: SRC_PASS
  dst:
    url: dst.example.com
stages:
  - from:
      source: src
      repository: team/app
    to:
      - destination: dst
        repository: team/app
        tags: ["1.0", "1.1"]
`

type mapResolver map[string]string

func (m mapResolver) Resolve(_ context.Context, name string) (string, bool, error) {
	v, ok := m[name]
	return v, ok, nil
}

func TestLoadFromBytesResolvesSecretsAndAssignsStageIDs(t *testing.T) {
	resolver := mapResolver{"SRC_USER": "alice", "SRC_PASS": "hunter2"}

	cfg, err := LoadFromBytes(context.Background(), []byte(validDoc), resolver)
	require.NoError(t, err)

	require.Len(t, cfg.Stages, 1)
	assert.NotEmpty(t, cfg.Stages[0].ID)
	assert.Equal(t, "alice", cfg.Registries["src"].User)
	assert.Equal(t, "hunter2", cfg.Registries["src"].Password)
}

func TestLoadFromBytesDefaultsToEnvResolver(t *testing.T) {
	t.Setenv("SRC_USER", "bob")
	t.Setenv("SRC_PASS", "s3cret")

	cfg, err := LoadFromBytes(context.Background(), []byte(validDoc), nil)
	require.NoError(t, err)
	assert.Equal(t, "bob", cfg.Registries["src"].User)
}

func TestLoadFromBytesMissingSecretFails(t *testing.T) {
	_, err := LoadFromBytes(context.Background(), []byte(validDoc), mapResolver{})

	var missing *errors.EnvVarMissingError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "SRC_USER", missing.VarName)
}

func TestLoadFromBytesRejectsUnknownFields(t *testing.T) {
	_, err := LoadFromBytes(context.Background(), []byte("not_a_real_field: true\n"), mapResolver{})
	require.Error(t, err)
}

func TestLoadFromFileReadsDisk(t *testing.T) {
	path := t.TempDir() + "/plan.yaml"
	require.NoError(t, os.WriteFile(path, []byte(validDoc), 0o600))

	cfg, err := LoadFromFile(context.Background(), path, mapResolver{"SRC_USER": "a", "SRC_PASS": "b"})
	require.NoError(t, err)
	assert.Len(t, cfg.Stages, 1)
}

func TestLoadFromFileMissingPath(t *testing.T) {
	_, err := LoadFromFile(context.Background(), "/nonexistent/plan.yaml", EnvResolver{})
	require.Error(t, err)
}
