package secrets

import (
	"context"
	"fmt"

	"github.com/hemzaz/tugboat/pkg/helper/log"
	"github.com/hemzaz/tugboat/pkg/secrets/aws"
	"github.com/hemzaz/tugboat/pkg/secrets/gcp"
)

// Provider defines the interface for secret retrieval across different
// backends. The sync scheduler only ever reads secrets (env_user and
// env_password values), so the surface is read-only.
type Provider interface {
	// GetSecret retrieves a secret value by name
	GetSecret(ctx context.Context, secretName string) (string, error)
}

// ProviderType defines the supported secret manager providers
type ProviderType string

const (
	// AWSProvider is AWS Secrets Manager
	AWSProvider ProviderType = "aws"

	// GCPProvider is Google Secret Manager
	GCPProvider ProviderType = "gcp"
)

// ManagerOptions contains configuration for creating a secret manager
type ManagerOptions struct {
	// Provider is the type of secret manager to use
	Provider ProviderType

	// Logger is the logger instance to use
	Logger log.Logger

	// AWS-specific options
	AWSRegion string

	// GCP-specific options
	GCPProject         string
	GCPCredentialsFile string
}

// GetProvider creates and returns a secret provider based on the specified type
func GetProvider(ctx context.Context, opts ManagerOptions) (Provider, error) {
	if opts.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	switch opts.Provider {
	case AWSProvider:
		return aws.NewProvider(ctx, aws.ProviderOptions{
			Region: opts.AWSRegion,
			Logger: opts.Logger,
		})
	case GCPProvider:
		return gcp.NewProvider(ctx, gcp.ProviderOptions{
			Project:         opts.GCPProject,
			CredentialsFile: opts.GCPCredentialsFile,
			Logger:          opts.Logger,
		})
	default:
		return nil, fmt.Errorf("unsupported provider type: %s", opts.Provider)
	}
}
