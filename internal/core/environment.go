package core

import (
	"strings"

	"github.com/rs/zerolog"
)

// Environment is the deployment stage; it selects log format and verbosity.
type Environment string

const (
	Development Environment = "development"
	Staging     Environment = "staging"
	Testing     Environment = "testing"
	Production  Environment = "production"
)

func (e Environment) String() string {
	return string(e)
}

func (e Environment) IsProduction() bool {
	return e == Production
}

// IsTesting reports whether the process runs under automated tests.
func (e Environment) IsTesting() bool {
	return e == Testing
}

// LogLevel is info in production and debug everywhere else.
func (e Environment) LogLevel() zerolog.Level {
	if e.IsProduction() {
		return zerolog.InfoLevel
	}
	return zerolog.DebugLevel
}

// Decode lets envconfig fill an Environment field directly.
func (e *Environment) Decode(value string) error {
	*e = ParseEnvironment(value)
	return nil
}

// ParseEnvironment is case-insensitive; unknown or empty values mean Development.
func ParseEnvironment(v string) Environment {
	switch env := Environment(strings.ToLower(strings.TrimSpace(v))); env {
	case Production, Staging, Testing:
		return env
	default:
		return Development
	}
}
