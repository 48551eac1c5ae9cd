package constants

import "time"

// environment variables
const (
	EnvAPIKey   = "OPEN_AI_KEY"
	EnvModel    = "CONCISE_OPENAI_MODEL"
	EnvEndpoint = "CONCISE_OPENAI_ENDPOINT"
	EnvEnvFile  = "CONCISE_ENV_FILE"
)

// defaults
const (
	DefaultModel    = "gpt-4o-mini"
	DefaultEndpoint = "https://api.openai.com/v1/chat/completions"
	DefaultRatio    = 0.75
	DefaultTimeout  = 60 * time.Second

	Temperature float32 = 0.2
)
