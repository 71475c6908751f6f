// Package config holds the typed representation of a sync plan, its YAML
// loading, and its structural and referential validation.
package config

// Registry is a named endpoint that images are copied from or to.
type Registry struct {
	URL           string `yaml:"url"`
	EnvUser       string `yaml:"env_user"`
	EnvPassword   string `yaml:"env_password"`
	SkipTLSVerify bool   `yaml:"skip-tls-verify"`

	// User and Password are resolved from the named environment variables
	// at load time; they are never populated directly from YAML.
	User     string `yaml:"-"`
	Password string `yaml:"-"`
}

// FromEntry names the source repository a stage copies from.
type FromEntry struct {
	Source     string `yaml:"source"`
	Repository string `yaml:"repository"`
}

// ToEntry names one destination repository a stage copies to.
type ToEntry struct {
	Destination string   `yaml:"destination"`
	Repository  string   `yaml:"repository"`
	Tags        []string `yaml:"tags"`

	// TagFilter narrows Tags (or the discovered tag set) through a semver
	// constraint before task construction. Absent by default; a domain
	// enrichment, never required by the core scheduler semantics.
	TagFilter string `yaml:"tag_filter,omitempty"`
}

// Stage is one declarative copy directive, fanning out to one or more
// ToEntries and, per entry, one or more tags.
type Stage struct {
	From      FromEntry `yaml:"from"`
	To        []ToEntry `yaml:"to"`
	ID        string    `yaml:"id,omitempty"`
	DependsOn []string  `yaml:"depends_on,omitempty"`
}

// SecretsConfig selects how env_user/env_password names are resolved.
// Absent or Provider == "" behaves exactly like plain environment lookup.
type SecretsConfig struct {
	Provider   string `yaml:"provider,omitempty"`
	AWSRegion  string `yaml:"aws_region,omitempty"`
	GCPProject string `yaml:"gcp_project,omitempty"`
}

// SigningConfig gates the optional cosign pre-copy verification.
type SigningConfig struct {
	Verify        bool   `yaml:"verify,omitempty"`
	PublicKeyPath string `yaml:"public_key_path,omitempty"`
}

// NotificationsConfig gates the optional cron-scheduled notification flush.
type NotificationsConfig struct {
	Enabled  bool   `yaml:"enabled,omitempty"`
	Schedule string `yaml:"schedule,omitempty"`
}

// ReportConfig gates the optional CSV-to-Markdown service report.
type ReportConfig struct {
	ServicesDir string `yaml:"services_dir,omitempty"`
	Output      string `yaml:"output,omitempty"`
}

// Configuration is the full declarative plan.
type Configuration struct {
	Registries    map[string]Registry  `yaml:"registries"`
	Stages        []Stage              `yaml:"stages"`
	Secrets       *SecretsConfig       `yaml:"secrets,omitempty"`
	Signing       *SigningConfig       `yaml:"signing,omitempty"`
	Notifications *NotificationsConfig `yaml:"notifications,omitempty"`
	Report        *ReportConfig        `yaml:"report,omitempty"`
}
