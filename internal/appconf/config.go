package appconf

import (
	"slices"
	"strings"
)

type Environment int

const (
	Development Environment = iota
	Test
	Production
)

func (e Environment) String() string {
	switch e {
	case Test:
		return "test"
	case Production:
		return "production"
	default:
		return "development"
	}
}

// EnvFlagToEnvironment maps the -env flag to an Environment. Unknown values
// fall back to Development.
func EnvFlagToEnvironment(env string) Environment {
	switch strings.ToLower(strings.TrimSpace(env)) {
	case "test":
		return Test
	case "production", "prod":
		return Production
	default:
		return Development
	}
}

// Config holds the settings read from command-line flags when the server starts.
type Config struct {
	Port        int
	Env         Environment
	ApiKeys     []string
	RateLimit   int    // requests per second per API key
	CatalogPath string // SQLite layer catalog, ":memory:" in tests
	GridDir     string // base directory for relative grid paths
	LogLevel    string
}

// HasAPIKey reports whether key is one of the configured API keys. The blank
// key never matches.
func (c Config) HasAPIKey(key string) bool {
	return key != "" && slices.Contains(c.ApiKeys, key)
}
