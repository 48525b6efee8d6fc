package config

import (
	"os"
	"strings"
)

// Environment is the deployment stage the process runs in.
type Environment string

const (
	Development Environment = "development"
	Test        Environment = "test"
	CI          Environment = "ci"
	Production  Environment = "production"
)

// envAliases accepts the short names used in container manifests.
var envAliases = map[string]Environment{
	"development": Development,
	"dev":         Development,
	"local":       Development,
	"test":        Test,
	"testing":     Test,
	"production":  Production,
	"prod":        Production,
}

// GetEnvironment reads CI=true first, then NUTRIPLAN_ENV and ENV.
// Anything unrecognised is development.
func GetEnvironment() Environment {
	if os.Getenv("CI") == "true" {
		return CI
	}

	for _, key := range []string{"NUTRIPLAN_ENV", "ENV"} {
		raw := strings.ToLower(strings.TrimSpace(os.Getenv(key)))
		if raw == "" {
			continue
		}
		if env, ok := envAliases[raw]; ok {
			return env
		}
		return Development
	}
	return Development
}

// LoadsDotEnv reports whether a local .env file should be read.
func (e Environment) LoadsDotEnv() bool {
	return e == Development || e == Test
}

// RequiresCredentials reports whether database passwords are mandatory.
func (e Environment) RequiresCredentials() bool {
	return e == Production || e == CI
}

func IsDevelopment() bool {
	return GetEnvironment() == Development
}

func IsTest() bool {
	return GetEnvironment() == Test
}

func IsCI() bool {
	return GetEnvironment() == CI
}

// IsProduction selects release mode for gin.
func IsProduction() bool {
	return GetEnvironment() == Production
}
