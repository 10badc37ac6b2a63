package config

// Config holds all application configuration.
// It organizes settings into logical groups for better maintainability.
type Config struct {
	Server   ServerConfig   `mapstructure:"server" validate:"required"`
	Database DatabaseConfig `mapstructure:"database" validate:"required"`
	SRS      SRSConfig      `mapstructure:"srs"`
	LLM      LLMConfig      `mapstructure:"llm"`
}

// ServerConfig contains all server-related configuration settings.
type ServerConfig struct {
	Port     int    `mapstructure:"port" validate:"required,gt=0,lt=65536"`
	LogLevel string `mapstructure:"log_level" validate:"required,oneof=debug info warn error"`
}

// DatabaseConfig contains all database-related configuration settings.
// Driver selects the backend: "postgres" expects URL to be a connection
// string; "sqlite" expects Path to name the database file.
type DatabaseConfig struct {
	Driver string `mapstructure:"driver" validate:"required,oneof=postgres sqlite"`
	URL    string `mapstructure:"url" validate:"required_if=Driver postgres"`
	Path   string `mapstructure:"path" validate:"required_if=Driver sqlite"`
}

// SRSConfig overrides the scheduling algorithm's default parameters.
// Zero values keep the defaults.
type SRSConfig struct {
	MinEaseFactor    float64 `mapstructure:"min_ease_factor" validate:"omitempty,gt=1"`
	CorrectEaseBonus float64 `mapstructure:"correct_ease_bonus" validate:"omitempty,gt=0"`
	LapseEasePenalty float64 `mapstructure:"lapse_ease_penalty" validate:"omitempty,gt=0"`
}

// LLMConfig contains the mistake-explanation integration settings.
// The feature is disabled when GeminiAPIKey is empty.
type LLMConfig struct {
	GeminiAPIKey      string `mapstructure:"gemini_api_key"`
	ModelName         string `mapstructure:"model_name"`
	MaxRetries        int    `mapstructure:"max_retries" validate:"omitempty,gte=0"`
	RetryDelaySeconds int    `mapstructure:"retry_delay_seconds" validate:"omitempty,gte=1"`
}
