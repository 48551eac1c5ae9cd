package definitions

import (
	"fmt"
	"time"

	"github.com/joho/godotenv"
	"github.com/samber/lo"
	"github.com/spance/concise-go/constants"
)

// Config is resolved once per run and never modified afterwards.
type Config struct {
	Model    string        `json:"model"`
	Endpoint string        `json:"endpoint"`
	Ratio    float64       `json:"ratio"`
	APIKey   string        `json:"-"`
	Timeout  time.Duration `json:"timeout"`
}

// Flags holds command line values. Empty strings mean the flag was not given.
type Flags struct {
	Model    string
	Endpoint string
	EnvFile  string
	Ratio    float64
	Timeout  time.Duration
}

// LookupFunc returns the value of an environment variable, or "" when unset.
type LookupFunc func(key string) string

// Resolve builds the run configuration. Each setting is taken from the flag
// if present, then the environment, then the built-in default.
func Resolve(flags Flags, env LookupFunc) (*Config, error) {
	lookup, err := withEnvFile(env, lo.CoalesceOrEmpty(flags.EnvFile, env(constants.EnvEnvFile)))
	if err != nil {
		return nil, err
	}

	apiKey := lookup(constants.EnvAPIKey)
	if apiKey == "" {
		return nil, NewConfigError(ErrMissingAPIKey)
	}

	return &Config{
		Model:    lo.CoalesceOrEmpty(flags.Model, lookup(constants.EnvModel), constants.DefaultModel),
		Endpoint: lo.CoalesceOrEmpty(flags.Endpoint, lookup(constants.EnvEndpoint), constants.DefaultEndpoint),
		Ratio:    flags.Ratio,
		APIKey:   apiKey,
		Timeout:  lo.CoalesceOrEmpty(flags.Timeout, constants.DefaultTimeout),
	}, nil
}

// withEnvFile layers a dotenv file below the process environment. The
// process environment itself is left untouched.
func withEnvFile(env LookupFunc, path string) (LookupFunc, error) {
	if path == "" {
		return env, nil
	}
	values, err := godotenv.Read(path)
	if err != nil {
		return nil, NewConfigError(fmt.Errorf("read env file %s: %w", path, err))
	}
	return func(key string) string {
		return lo.CoalesceOrEmpty(env(key), values[key])
	}, nil
}
