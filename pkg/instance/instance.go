package instance

import (
	"os"
	"strings"
)

// EnvInstanceID overrides the replica identifier.
const EnvInstanceID = "MINISHOP_INSTANCE_ID"

const fallbackID = "minishop-0"

// GetID returns the replica identifier: MINISHOP_INSTANCE_ID, then the
// hostname, then a fixed default.
func GetID() string {
	if id := strings.TrimSpace(os.Getenv(EnvInstanceID)); id != "" {
		return id
	}
	if host, err := os.Hostname(); err == nil && host != "" {
		return host
	}
	return fallbackID
}
