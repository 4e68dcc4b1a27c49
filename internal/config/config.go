package config

import (
	"errors"
	"io/fs"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"

	DefaultPort           = 5000
	DefaultOpenAIModel    = "gpt-4o-mini"
	DefaultAnthropicModel = "claude-sonnet-4-5"
	DefaultTemperature    = 0.35
	DefaultMaxTokens      = 700
	DefaultTimeout        = 60 * time.Second
	DefaultCORSAllowlist  = "https://privacy-prism-1.vercel.app,http://localhost:3000"
	modelEnvPrefix        = "MODEL_"
)

type Config struct {
	Server struct {
		Port          int      `yaml:"port"`
		CORSAllowlist []string `yaml:"corsAllowlist"`
	} `yaml:"server"`

	LLM struct {
		Provider        string            `yaml:"provider"`
		OpenAIAPIKey    string            `yaml:"openaiApiKey"`
		AnthropicAPIKey string            `yaml:"anthropicApiKey"`
		BaseURL         string            `yaml:"baseUrl"`
		Model           string            `yaml:"model"`
		SummaryModel    string            `yaml:"summaryModel"`
		Models          map[string]string `yaml:"models"`
		Temperature     float64           `yaml:"temperature"`
		MaxTokens       int               `yaml:"maxTokens"`
		Timeout         time.Duration     `yaml:"timeout"`
		Proxy           string            `yaml:"proxy"`
	} `yaml:"llm"`

	Log struct {
		Level  string `yaml:"level"`
		Format string `yaml:"format"`
	} `yaml:"log"`

	Minio struct {
		Endpoint   string `yaml:"endpoint"`
		AccessKey  string `yaml:"accessKey"`
		SecretKey  string `yaml:"secretKey"`
		BucketName string `yaml:"bucketName"`
		Region     string `yaml:"region"`
		UseSSL     bool   `yaml:"useSSL"`
	} `yaml:"minio"`

	Journal struct {
		Driver string `yaml:"driver"`
		DSN    string `yaml:"dsn"`
	} `yaml:"journal"`
}

// Load baca file config.yaml (boleh tidak ada), lalu override dari env, lalu default
func Load(path string) (*Config, error) {
	var cfg Config
	if path != "" {
		data, err := os.ReadFile(path)
		switch {
		case errors.Is(err, fs.ErrNotExist):
		case err != nil:
			return nil, err
		default:
			if err := yaml.Unmarshal(data, &cfg); err != nil {
				return nil, err
			}
		}
	}
	cfg.applyEnv()
	cfg.applyDefaults()
	return &cfg, nil
}

func (c *Config) applyEnv() {
	if v, ok := envInt("PORT"); ok {
		c.Server.Port = v
	}
	if v := os.Getenv("CORS_ALLOWLIST"); v != "" {
		c.Server.CORSAllowlist = splitList(v)
	}

	setString(&c.LLM.Provider, "LLM_PROVIDER")
	setString(&c.LLM.OpenAIAPIKey, "OPENAI_API_KEY")
	setString(&c.LLM.AnthropicAPIKey, "ANTHROPIC_API_KEY")
	setString(&c.LLM.BaseURL, "OPENAI_BASE_URL")
	setString(&c.LLM.Model, "MODEL")
	setString(&c.LLM.SummaryModel, "SUMMARY_MODEL")
	setString(&c.LLM.Proxy, "HTTP_PROXY")
	setString(&c.LLM.Proxy, "HTTPS_PROXY")

	// MODEL_EXPOSURE, MODEL_INFERENCE, ... override one dimension each
	for _, kv := range os.Environ() {
		name, value, _ := strings.Cut(kv, "=")
		if !strings.HasPrefix(name, modelEnvPrefix) || value == "" {
			continue
		}
		key := strings.ToLower(strings.TrimPrefix(name, modelEnvPrefix))
		if key == "" {
			continue
		}
		if c.LLM.Models == nil {
			c.LLM.Models = map[string]string{}
		}
		c.LLM.Models[key] = value
	}

	setString(&c.Log.Level, "LOG_LEVEL")
	setString(&c.Log.Format, "LOG_FORMAT")

	setString(&c.Minio.Endpoint, "MINIO_ENDPOINT")
	setString(&c.Minio.AccessKey, "MINIO_ACCESS_KEY")
	setString(&c.Minio.SecretKey, "MINIO_SECRET_KEY")
	setString(&c.Minio.BucketName, "MINIO_BUCKET")
	setString(&c.Minio.Region, "MINIO_REGION")
	if v, err := strconv.ParseBool(os.Getenv("MINIO_USE_SSL")); err == nil {
		c.Minio.UseSSL = v
	}

	setString(&c.Journal.Driver, "JOURNAL_DRIVER")
	setString(&c.Journal.DSN, "JOURNAL_DSN")
}

func (c *Config) applyDefaults() {
	if c.Server.Port == 0 {
		c.Server.Port = DefaultPort
	}
	if len(c.Server.CORSAllowlist) == 0 {
		c.Server.CORSAllowlist = splitList(DefaultCORSAllowlist)
	}

	c.LLM.Provider = strings.ToLower(strings.TrimSpace(c.LLM.Provider))
	if c.LLM.Provider == "" {
		c.LLM.Provider = ProviderOpenAI
	}
	if c.LLM.Model == "" {
		c.LLM.Model = DefaultOpenAIModel
		if c.LLM.Provider == ProviderAnthropic {
			c.LLM.Model = DefaultAnthropicModel
		}
	}
	if c.LLM.SummaryModel == "" {
		c.LLM.SummaryModel = c.LLM.Model
	}
	if c.LLM.Temperature == 0 {
		c.LLM.Temperature = DefaultTemperature
	}
	if c.LLM.MaxTokens == 0 {
		c.LLM.MaxTokens = DefaultMaxTokens
	}
	if c.LLM.Timeout == 0 {
		c.LLM.Timeout = DefaultTimeout
	}

	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "json"
	}
	c.Journal.Driver = strings.ToLower(strings.TrimSpace(c.Journal.Driver))
}

// APIKey returns the credential of the selected provider.
func (c *Config) APIKey() string {
	if c.LLM.Provider == ProviderAnthropic {
		return c.LLM.AnthropicAPIKey
	}
	return c.LLM.OpenAIAPIKey
}

// DimensionModels returns a copy of the per-dimension overrides.
func (c *Config) DimensionModels() map[string]string {
	out := make(map[string]string, len(c.LLM.Models))
	for k, v := range c.LLM.Models {
		if v = strings.TrimSpace(v); v != "" {
			out[strings.ToLower(k)] = v
		}
	}
	return out
}

func (c *Config) StorageEnabled() bool { return c.Minio.Endpoint != "" && c.Minio.BucketName != "" }

func (c *Config) JournalEnabled() bool { return c.Journal.Driver != "" && c.Journal.DSN != "" }

func setString(dst *string, name string) {
	if v := strings.TrimSpace(os.Getenv(name)); v != "" {
		*dst = v
	}
}

func envInt(name string) (int, bool) {
	v, err := strconv.Atoi(strings.TrimSpace(os.Getenv(name)))
	if err != nil || v <= 0 {
		return 0, false
	}
	return v, true
}

func splitList(s string) []string {
	var out []string
	for _, part := range strings.Split(s, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
