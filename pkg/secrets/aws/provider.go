package aws

import (
	"context"
	"fmt"

	"github.com/hemzaz/tugboat/pkg/helper/log"

	"github.com/aws/aws-sdk-go-v2/aws"
	"github.com/aws/aws-sdk-go-v2/config"
	"github.com/aws/aws-sdk-go-v2/service/secretsmanager"
)

// Provider implements credential retrieval using AWS Secrets Manager
type Provider struct {
	client *secretsmanager.Client
	logger log.Logger
	region string
}

// ProviderOptions contains configuration for the AWS Secrets Manager provider
type ProviderOptions struct {
	Region string
	Logger log.Logger
}

// NewProvider creates a new AWS Secrets Manager provider
func NewProvider(ctx context.Context, opts ProviderOptions) (*Provider, error) {
	if opts.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	cfg, err := config.LoadDefaultConfig(ctx, config.WithRegion(opts.Region))
	if err != nil {
		return nil, fmt.Errorf("failed to load AWS configuration: %w", err)
	}

	client := secretsmanager.NewFromConfig(cfg)

	return &Provider{
		client: client,
		logger: opts.Logger,
		region: opts.Region,
	}, nil
}

// GetSecret retrieves a secret value by name
func (p *Provider) GetSecret(ctx context.Context, secretName string) (string, error) {
	input := &secretsmanager.GetSecretValueInput{
		SecretId: aws.String(secretName),
	}

	result, err := p.client.GetSecretValue(ctx, input)
	if err != nil {
		return "", fmt.Errorf("failed to get secret value for '%s': %w", secretName, err)
	}

	// AWS returns either SecretString or SecretBinary
	var secretValue string
	if result.SecretString != nil {
		secretValue = *result.SecretString
	} else if result.SecretBinary != nil {
		// If the secret is binary, we'll need to decode it
		secretValue = string(result.SecretBinary)
	} else {
		return "", fmt.Errorf("retrieved secret has no value")
	}

	return secretValue, nil
}
