package registryclient

import (
	"context"
	"net/url"
	"strings"

	"github.com/hemzaz/tugboat/pkg/helper/log"
	"github.com/hemzaz/tugboat/pkg/resilience"
)

// RateLimitedClient decorates a Client with a per-registry-host rate limit,
// so a misconfigured plan cannot hammer a single registry across many
// concurrently executing tasks.
type RateLimitedClient struct {
	inner   Client
	manager *resilience.RateLimiterManager
}

// NewRateLimitedClient wraps inner with per-host rate limiting. settings
// applies uniformly to every registry host encountered.
func NewRateLimitedClient(inner Client, settings resilience.RateLimiterSettings, logger log.Logger) *RateLimitedClient {
	return &RateLimitedClient{
		inner:   inner,
		manager: resilience.NewRateLimiterManager(settings, logger),
	}
}

func (c *RateLimitedClient) wait(ctx context.Context, imageRef string) error {
	return c.manager.Wait(ctx, hostOf(imageRef))
}

func (c *RateLimitedClient) Login(ctx context.Context, registryURL, user, password string) error {
	if err := c.manager.Wait(ctx, hostOf(registryURL)); err != nil {
		return err
	}
	return c.inner.Login(ctx, registryURL, user, password)
}

func (c *RateLimitedClient) GetDigest(ctx context.Context, imageRef string, skipTLSVerify bool) (string, bool, error) {
	if err := c.wait(ctx, imageRef); err != nil {
		return "", false, err
	}
	return c.inner.GetDigest(ctx, imageRef, skipTLSVerify)
}

func (c *RateLimitedClient) GetImageTags(ctx context.Context, imageRef string) ([]string, error) {
	if err := c.wait(ctx, imageRef); err != nil {
		return nil, err
	}
	return c.inner.GetImageTags(ctx, imageRef)
}

func (c *RateLimitedClient) Copy(ctx context.Context, srcRef, dstRef string, srcSkipTLSVerify, dstSkipTLSVerify bool) error {
	if err := c.wait(ctx, srcRef); err != nil {
		return err
	}
	return c.inner.Copy(ctx, srcRef, dstRef, srcSkipTLSVerify, dstSkipTLSVerify)
}

func (c *RateLimitedClient) ResetCache() {
	c.inner.ResetCache()
}

// hostOf extracts the registry host from an "host/repo:tag"-shaped
// reference, falling back to the whole string if it cannot be parsed as a
// URL-like value.
func hostOf(ref string) string {
	if u, err := url.Parse("//" + ref); err == nil && u.Host != "" {
		return u.Host
	}
	if i := strings.Index(ref, "/"); i >= 0 {
		return ref[:i]
	}
	return ref
}

var _ Client = (*RateLimitedClient)(nil)
