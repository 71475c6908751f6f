package secrets

import (
	"context"
)

// Resolver adapts a secrets-manager Provider to config.SecretResolver,
// so env_user/env_password names are looked up against AWS
// Secrets Manager or Google Secret Manager instead of the OS environment
// when a plan's secrets.provider selects one.
type Resolver struct {
	provider Provider
}

// NewResolver wraps an already-constructed Provider as a resolver.
func NewResolver(provider Provider) *Resolver {
	return &Resolver{provider: provider}
}

// NewResolverFromOptions builds a Provider via GetProvider and wraps it.
func NewResolverFromOptions(ctx context.Context, opts ManagerOptions) (*Resolver, error) {
	provider, err := GetProvider(ctx, opts)
	if err != nil {
		return nil, err
	}
	return NewResolver(provider), nil
}

// Resolve looks name up as a secret-manager key. A lookup failure is
// reported as "not found" rather than an error, matching the env-var
// resolver's contract: the caller (config.resolveSecrets) turns a false ok
// into an EnvVarMissingError either way.
func (r *Resolver) Resolve(ctx context.Context, name string) (string, bool, error) {
	value, err := r.provider.GetSecret(ctx, name)
	if err != nil {
		return "", false, nil
	}
	return value, true, nil
}
