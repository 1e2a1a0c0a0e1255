package config

import "os"

// Environment variables that override file settings.
const (
	EnvHome        = "TASKVAULT_HOME"
	EnvProjectsDir = "TASKVAULT_PROJECTS_DIR"
	EnvUser        = "TASKVAULT_USER"
	EnvLogLevel    = "TASKVAULT_LOG_LEVEL"
	EnvLogFormat   = "TASKVAULT_LOG_FORMAT"
)

func envString(key, def string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return def
}
