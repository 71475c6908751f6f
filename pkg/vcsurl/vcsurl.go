// Package vcsurl converts a git SSH remote URL into its HTTPS equivalent.
// A single-purpose helper, not part of the sync scheduler.
package vcsurl

import "strings"

// FromGitSSHToHTTPS converts a "git@host:owner/repo.git"-shaped SSH remote
// into "https://host/owner/repo.git": replace every ":" with "/", then keep
// whatever follows the last "@".
func FromGitSSHToHTTPS(sshURL string) string {
	rewritten := strings.ReplaceAll(sshURL, ":", "/")
	parts := strings.Split(rewritten, "@")
	return "https://" + parts[len(parts)-1]
}
