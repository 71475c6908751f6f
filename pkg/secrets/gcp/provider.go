package gcp

import (
	"context"
	"encoding/json"
	"fmt"

	"github.com/hemzaz/tugboat/pkg/helper/log"

	secretmanager "cloud.google.com/go/secretmanager/apiv1"
	"cloud.google.com/go/secretmanager/apiv1/secretmanagerpb"
	"google.golang.org/api/option"
)

// Provider implements credential retrieval using Google Secret Manager
type Provider struct {
	client  *secretmanager.Client
	logger  log.Logger
	project string
}

// ProviderOptions contains configuration for the Google Secret Manager provider
type ProviderOptions struct {
	Project         string
	CredentialsFile string
	Logger          log.Logger
}

// NewProvider creates a new Google Secret Manager provider
func NewProvider(ctx context.Context, opts ProviderOptions) (*Provider, error) {
	if opts.Logger == nil {
		return nil, fmt.Errorf("logger is required")
	}

	if opts.Project == "" {
		return nil, fmt.Errorf("project is required")
	}

	var clientOpts []option.ClientOption
	if opts.CredentialsFile != "" {
		clientOpts = append(clientOpts, option.WithCredentialsFile(opts.CredentialsFile))
	}

	client, err := secretmanager.NewClient(ctx, clientOpts...)
	if err != nil {
		return nil, fmt.Errorf("failed to create Secret Manager client: %w", err)
	}

	return &Provider{
		client:  client,
		logger:  opts.Logger,
		project: opts.Project,
	}, nil
}

// buildSecretVersionName creates a fully-qualified secret version name
func (p *Provider) buildSecretVersionName(secretName string) string {
	return fmt.Sprintf("projects/%s/secrets/%s/versions/latest", p.project, secretName)
}

// GetSecret retrieves a secret value by name
func (p *Provider) GetSecret(ctx context.Context, secretName string) (string, error) {
	accessRequest := &secretmanagerpb.AccessSecretVersionRequest{
		Name: p.buildSecretVersionName(secretName),
	}

	result, err := p.client.AccessSecretVersion(ctx, accessRequest)
	if err != nil {
		return "", fmt.Errorf("failed to access secret %s: %w", secretName, err)
	}

	return string(result.Payload.Data), nil
}

// GetJSONSecret retrieves a JSON-formatted secret and unmarshals it into the provided struct
func (p *Provider) GetJSONSecret(ctx context.Context, secretName string, v interface{}) error {
	secretValue, err := p.GetSecret(ctx, secretName)
	if err != nil {
		return err
	}

	if err := json.Unmarshal([]byte(secretValue), v); err != nil {
		return fmt.Errorf("failed to unmarshal secret JSON: %w", err)
	}

	return nil
}
