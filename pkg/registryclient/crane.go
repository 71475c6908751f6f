package registryclient

import (
	"bytes"
	"context"
	"os/exec"
	"strings"
	"time"

	"github.com/google/go-containerregistry/pkg/name"
	godigest "github.com/opencontainers/go-digest"

	"github.com/hemzaz/tugboat/pkg/helper/errors"
	"github.com/hemzaz/tugboat/pkg/helper/log"
)

const (
	// DigestTimeout bounds a single digest lookup.
	DigestTimeout = 30 * time.Second
	// TagsTimeout bounds a single tag-listing call.
	TagsTimeout = 60 * time.Second
)

// CraneClient invokes the "crane" CLI as the external registry tool.
type CraneClient struct {
	logger log.Logger
	binary string
	cache  *memoCache
	runner commandRunner
}

type commandRunner func(ctx context.Context, name string, args ...string) (stdout string, err error)

// Option configures a CraneClient.
type Option func(*CraneClient)

// WithBinary overrides the registry CLI executable name (default "crane").
func WithBinary(path string) Option {
	return func(c *CraneClient) { c.binary = path }
}

// WithCacheCapacity overrides the per-batch memoization cache capacity.
func WithCacheCapacity(capacity int) Option {
	return func(c *CraneClient) { c.cache = newMemoCache(capacity) }
}

// NewCraneClient creates a Registry Client backed by the crane CLI.
func NewCraneClient(logger log.Logger, opts ...Option) *CraneClient {
	if logger == nil {
		logger = log.NewBasicLogger(log.InfoLevel)
	}
	c := &CraneClient{
		logger: logger,
		binary: "crane",
		cache:  newMemoCache(0),
	}
	c.runner = c.execCommand
	for _, opt := range opts {
		opt(c)
	}
	return c
}

func (c *CraneClient) execCommand(ctx context.Context, name string, args ...string) (string, error) {
	cmd := exec.CommandContext(ctx, name, args...)
	var out bytes.Buffer
	cmd.Stdout = &out
	cmd.Stderr = &out
	err := cmd.Run()
	return out.String(), err
}

// redact replaces secret values in an argument vector with a placeholder,
// so a RegistryCommandError never carries a credential.
func redact(args []string, secrets ...string) []string {
	redacted := make([]string, len(args))
	copy(redacted, args)
	for i, a := range redacted {
		for _, s := range secrets {
			if s != "" && a == s {
				redacted[i] = "****"
			}
		}
	}
	return redacted
}

func (c *CraneClient) Login(ctx context.Context, registryURL, user, password string) error {
	args := []string{"auth", "login", registryURL, "--username", user, "--password", password}
	c.logger.WithField("registry", registryURL).Debug("logging into registry")
	out, err := c.runner(ctx, c.binary, args...)
	if err != nil {
		return &errors.RegistryCommandError{
			Command: redact(append([]string{c.binary}, args...), user, password),
			Output:  out,
			Err:     err,
		}
	}
	return nil
}

// parseRef validates an image reference client-side before any subprocess
// is spawned.
func parseRef(ref string) error {
	if _, err := name.ParseReference(ref); err != nil {
		return errors.InvalidInputf("parsing image reference %q: %s", ref, err)
	}
	return nil
}

func (c *CraneClient) GetDigest(ctx context.Context, imageRef string, skipTLSVerify bool) (string, bool, error) {
	if err := parseRef(imageRef); err != nil {
		return "", false, err
	}

	key := digestKey{imageRef: imageRef, skipTLSVerify: skipTLSVerify}
	if entry, found := c.cache.digests.Get(key); found {
		return entry.digest, entry.ok, nil
	}

	digest, ok, err := c.fetchDigest(ctx, imageRef, skipTLSVerify)
	if err != nil {
		return "", false, err
	}
	c.cache.digests.Put(key, digestEntry{digest: digest, ok: ok})
	return digest, ok, nil
}

func (c *CraneClient) fetchDigest(ctx context.Context, imageRef string, skipTLSVerify bool) (string, bool, error) {
	ctx, cancel := context.WithTimeout(ctx, DigestTimeout)
	defer cancel()

	args := []string{"digest", imageRef}
	if skipTLSVerify {
		args = append(args, "--insecure")
	}

	out, err := c.runner(ctx, c.binary, args...)
	if ctx.Err() == context.DeadlineExceeded {
		return "", false, &errors.TimeoutError{Operation: "get_digest", Seconds: DigestTimeout.Seconds()}
	}
	if err != nil {
		if isNotFound(out) {
			return "", false, nil
		}
		return "", false, &errors.RegistryCommandError{
			Command: append([]string{c.binary}, args...),
			Output:  out,
			Err:     err,
		}
	}
	digest := strings.TrimSpace(out)
	if _, err := godigest.Parse(digest); err != nil {
		return "", false, &errors.RegistryCommandError{
			Command: append([]string{c.binary}, args...),
			Output:  out,
			Err:     errors.Wrap(err, "tool printed a malformed digest"),
		}
	}
	return digest, true, nil
}

func (c *CraneClient) GetImageTags(ctx context.Context, imageRef string) ([]string, error) {
	if err := parseRef(imageRef); err != nil {
		return nil, err
	}

	if tags, found := c.cache.tags.Get(imageRef); found {
		return tags, nil
	}

	ctx, cancel := context.WithTimeout(ctx, TagsTimeout)
	defer cancel()

	args := []string{"ls", "--omit-digest-tags", imageRef}
	out, err := c.runner(ctx, c.binary, args...)
	if ctx.Err() == context.DeadlineExceeded {
		return nil, &errors.TimeoutError{Operation: "get_image_tags", Seconds: TagsTimeout.Seconds()}
	}
	if err != nil {
		return nil, &errors.RegistryCommandError{
			Command: append([]string{c.binary}, args...),
			Output:  out,
			Err:     err,
		}
	}

	tags := splitNonEmptyLines(out)
	c.cache.tags.Put(imageRef, tags)
	return tags, nil
}

func (c *CraneClient) Copy(ctx context.Context, srcRef, dstRef string, srcSkipTLSVerify, dstSkipTLSVerify bool) error {
	if err := parseRef(srcRef); err != nil {
		return err
	}
	if err := parseRef(dstRef); err != nil {
		return err
	}

	args := []string{"copy", srcRef, dstRef}
	if srcSkipTLSVerify || dstSkipTLSVerify {
		args = append(args, "--insecure")
	}

	c.logger.WithFields(map[string]interface{}{"src": srcRef, "dst": dstRef}).Debug("copying image")
	out, err := c.runner(ctx, c.binary, args...)
	if err != nil {
		return &errors.RegistryCommandError{
			Command: append([]string{c.binary}, args...),
			Output:  out,
			Err:     err,
		}
	}
	return nil
}

func (c *CraneClient) ResetCache() {
	c.cache.reset()
}

func isNotFound(output string) bool {
	return strings.Contains(output, "unexpected status code 404") || strings.Contains(output, "404 Not Found")
}

func splitNonEmptyLines(s string) []string {
	var result []string
	for _, line := range strings.Split(s, "\n") {
		line = strings.TrimSpace(line)
		if line != "" {
			result = append(result, line)
		}
	}
	return result
}

var _ Client = (*CraneClient)(nil)
