// internal/common/config/config.go
package config

import "strings"

// Config is the main application configuration struct.
type Config struct {
	App     AppConfig               `mapstructure:"app"`
	Server  ServerConfig            `mapstructure:"server"`
	PokeAPI PokeAPIConfig           `mapstructure:"pokeapi"`
	LLM     LLMConfig               `mapstructure:"llm"`
	Router  RouterConfig            `mapstructure:"router"`
	Tracing TracingConfig           `mapstructure:"tracing"`
	Camunda CamundaConfig           `mapstructure:"camunda"`
	Workers map[string]WorkerConfig `mapstructure:"workers"`
	Logging LoggingConfig           `mapstructure:"logging"`
}

type AppConfig struct {
	Name        string `mapstructure:"name"`
	Version     string `mapstructure:"version"`
	Environment string `mapstructure:"environment"`
}

type ServerConfig struct {
	Host            string `mapstructure:"host"`
	Port            int    `mapstructure:"port"`
	ReadTimeout     int    `mapstructure:"read_timeout"`     // milliseconds
	WriteTimeout    int    `mapstructure:"write_timeout"`    // milliseconds
	RequestTimeout  int    `mapstructure:"request_timeout"`  // milliseconds
	ShutdownTimeout int    `mapstructure:"shutdown_timeout"` // milliseconds
	MetricsPort     int    `mapstructure:"metrics_port"`
}

// PokeAPIConfig configures the knowledge source.
type PokeAPIConfig struct {
	BaseURL    string `mapstructure:"base_url"`
	Timeout    int    `mapstructure:"timeout"` // milliseconds
	MaxRetries int    `mapstructure:"max_retries"`
}

// LLMConfig selects and configures the language model backend used for
// classification, battle reasoning and research answers.
type LLMConfig struct {
	Provider    string  `mapstructure:"provider"` // openai | gemini | gateway
	BaseURL     string  `mapstructure:"base_url"`
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Timeout     int     `mapstructure:"timeout"` // milliseconds
	MaxRetries  int     `mapstructure:"max_retries"`
	MaxTokens   int     `mapstructure:"max_tokens"`
	Temperature float64 `mapstructure:"temperature"`
}

type RouterConfig struct {
	ConfidenceThreshold float64 `mapstructure:"confidence_threshold"`
}

type TracingConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	ServiceName    string `mapstructure:"service_name"`
	BattleProject  string `mapstructure:"battle_project"`
	ChatProject    string `mapstructure:"chat_project"`
	JaegerEndpoint string `mapstructure:"jaeger_endpoint"`
}

type CamundaConfig struct {
	Enabled        bool   `mapstructure:"enabled"`
	BrokerAddress  string `mapstructure:"broker_address"`
	MaxJobsActive  int    `mapstructure:"max_jobs_active"`
	Timeout        int    `mapstructure:"timeout"`         // milliseconds
	RequestTimeout int    `mapstructure:"request_timeout"` // milliseconds
}

// WorkerConfig holds the core settings applicable to every job worker.
type WorkerConfig struct {
	Enabled       bool `mapstructure:"enabled"`
	MaxJobsActive int  `mapstructure:"max_jobs_active"`
	Timeout       int  `mapstructure:"timeout"` // milliseconds
	MaxRetries    int  `mapstructure:"max_retries"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
	Output string `mapstructure:"output"`
}

// ProviderName returns the normalized LLM provider.
func (l LLMConfig) ProviderName() string {
	return strings.ToLower(strings.TrimSpace(l.Provider))
}
