package config

import "strings"

// CanonicalImage builds the full reference "{url}/{repository}[:{tag}]",
// stripping any leading slash from repository. An empty tag is omitted.
func CanonicalImage(url, repository, tag string) string {
	repository = strings.TrimPrefix(repository, "/")
	ref := url + "/" + repository
	if tag != "" {
		ref += ":" + tag
	}
	return ref
}
