package config

import (
	"bytes"
	"context"
	"os"

	"gopkg.in/yaml.v3"

	"github.com/hemzaz/tugboat/pkg/helper/errors"
)

// SecretResolver resolves a named secret (typically an env_user/env_password
// name) to its value. The default resolver reads the process environment;
// pkg/secrets adapts AWS/GCP-backed providers to the same shape.
type SecretResolver interface {
	Resolve(ctx context.Context, name string) (string, bool, error)
}

// EnvResolver resolves names against the process environment.
type EnvResolver struct{}

func (EnvResolver) Resolve(_ context.Context, name string) (string, bool, error) {
	v, ok := os.LookupEnv(name)
	return v, ok, nil
}

// LoadFromFile reads and validates a configuration document, resolving
// secrets with resolver (pass EnvResolver{} for the default behavior).
func LoadFromFile(ctx context.Context, path string, resolver SecretResolver) (*Configuration, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, errors.Wrapf(err, "reading configuration file %q", path)
	}
	return LoadFromBytes(ctx, data, resolver)
}

// LoadFromBytes parses, normalizes, and validates a configuration document
// from raw YAML bytes.
func LoadFromBytes(ctx context.Context, data []byte, resolver SecretResolver) (*Configuration, error) {
	if resolver == nil {
		resolver = EnvResolver{}
	}

	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)

	var cfg Configuration
	if err := dec.Decode(&cfg); err != nil {
		return nil, errors.NewConfigError(errors.KindUnknownField, "parsing configuration: %s", err)
	}

	if err := resolveSecrets(ctx, &cfg, resolver); err != nil {
		return nil, err
	}

	assignStageIDs(&cfg)

	if err := Validate(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

func resolveSecrets(ctx context.Context, cfg *Configuration, resolver SecretResolver) error {
	for key, reg := range cfg.Registries {
		if reg.EnvUser != "" {
			v, ok, err := resolver.Resolve(ctx, reg.EnvUser)
			if err != nil {
				return errors.Wrapf(err, "resolving env_user %q for registry %q", reg.EnvUser, key)
			}
			if !ok {
				return &errors.EnvVarMissingError{VarName: reg.EnvUser}
			}
			reg.User = v
		}
		if reg.EnvPassword != "" {
			v, ok, err := resolver.Resolve(ctx, reg.EnvPassword)
			if err != nil {
				return errors.Wrapf(err, "resolving env_password %q for registry %q", reg.EnvPassword, key)
			}
			if !ok {
				return &errors.EnvVarMissingError{VarName: reg.EnvPassword}
			}
			reg.Password = v
		}
		cfg.Registries[key] = reg
	}
	return nil
}
