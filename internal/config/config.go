// Package config loads the function configuration from the environment.
package config

import (
	"fmt"
	"math"
	"strings"

	"github.com/joho/godotenv"
	"github.com/knadh/koanf/providers/env"
	"github.com/knadh/koanf/v2"

	"github.com/pricofy/bedrock-translator/internal/prompt"
)

// Defaults applied when the matching variable is unset.
const (
	DefaultModelName   = "anthropic.claude-3-5-sonnet-20240620-v1:0"
	DefaultRegionName  = "ap-northeast-1"
	DefaultTemperature = 0.0
	DefaultMaxTokens   = 4096
	DefaultPromptStyle = string(prompt.StyleDetailed)
	DefaultBodyStyle   = string(BodyStyleJSON)
	DefaultLogLevel    = "info"
)

// BodyStyle controls how a successful translation is written to the envelope body.
type BodyStyle string

const (
	// BodyStyleJSON wraps the translation as {"translation": "..."}.
	BodyStyleJSON BodyStyle = "json"
	// BodyStyleRaw writes the translation verbatim.
	BodyStyleRaw BodyStyle = "raw"
)

// Config holds the settings read once at process start.
type Config struct {
	ModelName   string  `koanf:"model_name"`
	RegionName  string  `koanf:"region_name"`
	Temperature float64 `koanf:"temperature"`
	MaxTokens   int     `koanf:"max_tokens"`

	SystemPromptStyle string `koanf:"system_prompt_style"`
	SystemPrompt      string `koanf:"system_prompt"`
	BodyStyle         string `koanf:"body_style"`

	LogLevel string `koanf:"log_level"`
}

var defaults = map[string]any{
	"model_name":          DefaultModelName,
	"region_name":         DefaultRegionName,
	"temperature":         DefaultTemperature,
	"max_tokens":          DefaultMaxTokens,
	"system_prompt_style": DefaultPromptStyle,
	"body_style":          DefaultBodyStyle,
	"log_level":           DefaultLogLevel,
}

// watched lists the variables read from the environment.
var watched = map[string]bool{
	"MODEL_NAME":          true,
	"REGION_NAME":         true,
	"TEMPERATURE":         true,
	"MAX_TOKENS":          true,
	"SYSTEM_PROMPT_STYLE": true,
	"SYSTEM_PROMPT":       true,
	"BODY_STYLE":          true,
	"LOG_LEVEL":           true,
}

// Load reads the translation configuration from the environment (and a
// local .env file when present) and validates it.
func Load() (*Config, error) {
	k, err := load(watched)
	if err != nil {
		return nil, err
	}

	var cfg Config
	if err := k.Unmarshal("", &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse configuration: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// LoadLogLevel reads only LOG_LEVEL, for functions that never call the
// completion service and so must not fail on translation settings.
func LoadLogLevel() (string, error) {
	k, err := load(map[string]bool{"LOG_LEVEL": true})
	if err != nil {
		return "", err
	}
	return k.String("log_level"), nil
}

// load reads the named variables into koanf and fills in defaults for them.
func load(names map[string]bool) (*koanf.Koanf, error) {
	_ = godotenv.Load()

	k := koanf.New(".")

	if err := k.Load(env.Provider("", ".", func(s string) string {
		if !names[s] {
			return ""
		}
		return strings.ToLower(s)
	}), nil); err != nil {
		return nil, fmt.Errorf("failed to read environment: %w", err)
	}

	for name := range names {
		key := strings.ToLower(name)
		value, ok := defaults[key]
		if !ok {
			continue
		}
		if !k.Exists(key) || k.String(key) == "" {
			if err := k.Set(key, value); err != nil {
				return nil, fmt.Errorf("failed to set default %s: %w", key, err)
			}
		}
	}

	return k, nil
}

// Validate checks value ranges and enumerations.
func (c *Config) Validate() error {
	if c.ModelName == "" {
		return fmt.Errorf("MODEL_NAME must not be empty")
	}
	if c.RegionName == "" {
		return fmt.Errorf("REGION_NAME must not be empty")
	}
	if math.IsNaN(c.Temperature) || c.Temperature < 0 || c.Temperature > 1 {
		return fmt.Errorf("TEMPERATURE must be between 0 and 1, got %v", c.Temperature)
	}
	if c.MaxTokens <= 0 || c.MaxTokens > math.MaxInt32 {
		return fmt.Errorf("MAX_TOKENS must be between 1 and %d, got %d", math.MaxInt32, c.MaxTokens)
	}
	if c.SystemPrompt == "" {
		if _, err := prompt.ForStyle(prompt.Style(c.SystemPromptStyle)); err != nil {
			return fmt.Errorf("SYSTEM_PROMPT_STYLE: %w", err)
		}
	}
	switch BodyStyle(c.BodyStyle) {
	case BodyStyleJSON, BodyStyleRaw:
	default:
		return fmt.Errorf("BODY_STYLE must be %q or %q, got %q", BodyStyleJSON, BodyStyleRaw, c.BodyStyle)
	}
	return nil
}

// Instruction returns the system instruction sent with every translation.
// SYSTEM_PROMPT wins over SYSTEM_PROMPT_STYLE.
func (c *Config) Instruction() string {
	if c.SystemPrompt != "" {
		return c.SystemPrompt
	}
	instruction, err := prompt.ForStyle(prompt.Style(c.SystemPromptStyle))
	if err != nil {
		return prompt.Detailed
	}
	return instruction
}
