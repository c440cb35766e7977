package issue

import (
	"fmt"
	"strings"
)

const (
	namePrefix    = "projects/"
	nameSeparator = "/issues/"
)

// FormatName builds the resource name of an issue.
func FormatName(projectID, key string) string {
	return fmt.Sprintf("projects/%s/issues/%s", projectID, key)
}

// ParseName splits a resource name into its project id and issue key.
// The project id may itself contain slashes (GitLab namespaces); the key
// may not.
func ParseName(name string) (projectID, key string, err error) {
	rest, ok := strings.CutPrefix(name, namePrefix)
	i := strings.LastIndex(rest, nameSeparator)
	if !ok || i <= 0 {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	projectID, key = rest[:i], rest[i+len(nameSeparator):]
	if key == "" || strings.Contains(key, "/") {
		return "", "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	return projectID, key, nil
}
