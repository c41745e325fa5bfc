package catalog

import "polarprofile.org/internal/appconf"

// Config holds configuration options for the Client
type Config struct {
	DBPath  string // Path to SQLite database file
	GridDir string // Base directory for relative layer paths
	Env     appconf.Environment
	verbose bool
}

func NewConfig(dbPath, gridDir string, env appconf.Environment, verbose bool) Config {
	return Config{
		DBPath:  dbPath,
		GridDir: gridDir,
		Env:     env,
		verbose: verbose,
	}
}
