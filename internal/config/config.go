package config

import (
	"context"
	"errors"
	"fmt"
	"net"
	"strconv"
	"strings"
	"time"

	"github.com/caarlos0/env/v10"
	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

const (
	APIVersion     = "1.0.0"
	APITitle       = "EverKind Therapeutic API"
	APIDescription = "AI-powered therapeutic chat API using CBT techniques"
	ServiceName    = "everkind-api"

	ProviderOpenAI = "openai"
	ProviderArk    = "ark"

	EnvDevelopment = "development"
	EnvProduction  = "production"
)

// ErrMissingCredential 表示所选模型提供方没有配置凭证。
var ErrMissingCredential = errors.New("provider credential is not configured")

// Config 聚合整个服务的配置项。
type Config struct {
	Environment   string `env:"ENVIRONMENT" envDefault:"development"`
	StrictStartup bool   `env:"STRICT_STARTUP" envDefault:"false"`

	Server    ServerConfig
	AI        AIConfig
	Session   SessionConfig
	Log       LogConfig
	Telemetry TelemetryConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	cfg := &Config{}
	if err := env.Parse(cfg); err != nil {
		return nil, fmt.Errorf("parse environment: %w", err)
	}
	cfg.normalize()

	if err := cfg.check(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Host           string   `env:"HOST" envDefault:"0.0.0.0"`
	Port           int      `env:"PORT" envDefault:"8000"`
	AllowedOrigins []string `env:"ALLOWED_ORIGINS" envSeparator:"," envDefault:"http://localhost:3000,https://everkind-demo.15rock.com,http://localhost:8000"`
	TrustedHosts   []string `env:"TRUSTED_HOSTS" envSeparator:"," envDefault:"everkind-demo.15rock.com,localhost"`
}

// Addr 返回 http.Server 的监听地址。
func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

// AIConfig 描述大模型相关配置。
type AIConfig struct {
	Provider string `env:"AI_PROVIDER" envDefault:"openai"`

	APIKey           string  `env:"OPENAI_API_KEY"`
	Model            string  `env:"OPENAI_MODEL" envDefault:"gpt-4"`
	MaxTokens        int     `env:"OPENAI_MAX_TOKENS" envDefault:"500"`
	Temperature      float64 `env:"OPENAI_TEMPERATURE" envDefault:"0.7"`
	PresencePenalty  float64 `env:"OPENAI_PRESENCE_PENALTY" envDefault:"0.1"`
	FrequencyPenalty float64 `env:"OPENAI_FREQUENCY_PENALTY" envDefault:"0.1"`
	BaseURL          string  `env:"OPENAI_BASE_URL"`
	MaxRetries       int     `env:"OPENAI_MAX_RETRIES" envDefault:"2"`

	ArkAPIKey    string `env:"ARK_API_KEY"`
	ArkAccessKey string `env:"ARK_ACCESS_KEY"`
	ArkSecretKey string `env:"ARK_SECRET_KEY"`
	ArkModel     string `env:"ARK_MODEL"`
	ArkBaseURL   string `env:"ARK_BASE_URL" envDefault:"https://ark.cn-beijing.volces.com/api/v3"`
	ArkRegion    string `env:"ARK_REGION" envDefault:"cn-beijing"`

	Timeout         time.Duration `env:"PROVIDER_TIMEOUT" envDefault:"30s"`
	BreakerFailures uint32        `env:"PROVIDER_BREAKER_FAILURES" envDefault:"5"`
	BreakerCooldown time.Duration `env:"PROVIDER_BREAKER_COOLDOWN" envDefault:"30s"`

	SystemPrompt string `env:"THERAPIST_SYSTEM_PROMPT"`
}

// Enabled 表示所选提供方是否提供了必需的密钥。
func (c AIConfig) Enabled() bool {
	switch c.Provider {
	case ProviderArk:
		return c.ArkModel != "" && (c.ArkAPIKey != "" || (c.ArkAccessKey != "" && c.ArkSecretKey != ""))
	default:
		return c.APIKey != ""
	}
}

// ModelName 返回当前提供方使用的模型标识。
func (c AIConfig) ModelName() string {
	if c.Provider == ProviderArk {
		return c.ArkModel
	}
	return c.Model
}

// NewChatModel 使用 Ark 配置创建一个 eino 模型实例，惩罚系数仅作用于 OpenAI。
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if c.Provider != ProviderArk || !c.Enabled() {
		return nil, fmt.Errorf("ark credentials or model missing: provide ARK_API_KEY + ARK_MODEL or an AK/SK pair")
	}

	temperature := float32(c.Temperature)
	maxTokens := c.MaxTokens

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.ArkBaseURL,
		Region:      c.ArkRegion,
		APIKey:      c.ArkAPIKey,
		AccessKey:   c.ArkAccessKey,
		SecretKey:   c.ArkSecretKey,
		Model:       c.ArkModel,
		MaxTokens:   &maxTokens,
		Temperature: &temperature,
	}

	return ark.NewChatModel(ctx, cfg)
}

// SessionConfig 控制会话存储的容量与过期策略，0 表示不限制。
type SessionConfig struct {
	MaxEntries int           `env:"SESSION_MAX_ENTRIES" envDefault:"0"`
	TTL        time.Duration `env:"SESSION_TTL" envDefault:"0s"`
}

// LogConfig 描述日志输出。
type LogConfig struct {
	Level  string `env:"LOG_LEVEL" envDefault:"info"`
	Format string `env:"LOG_FORMAT" envDefault:"console"`
}

// TelemetryConfig 描述指标与链路追踪。
type TelemetryConfig struct {
	MetricsNamespace string  `env:"METRICS_NAMESPACE" envDefault:"everkind"`
	OTLPEndpoint     string  `env:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	SamplingRate     float64 `env:"OTEL_SAMPLING_RATE" envDefault:"1.0"`
}

// IsProduction reports whether ENVIRONMENT is production (case-insensitive).
func (c *Config) IsProduction() bool {
	return strings.EqualFold(c.Environment, EnvProduction)
}

// IsDevelopment reports whether ENVIRONMENT is development (case-insensitive).
func (c *Config) IsDevelopment() bool {
	return strings.EqualFold(c.Environment, EnvDevelopment)
}

// Validate checks that the selected provider has a credential.
func (c *Config) Validate() error {
	if !c.AI.Enabled() {
		return fmt.Errorf("%s provider: %w", c.AI.Provider, ErrMissingCredential)
	}
	return nil
}

func (c *Config) normalize() {
	c.Environment = strings.TrimSpace(c.Environment)
	c.AI.Provider = strings.ToLower(strings.TrimSpace(c.AI.Provider))
	c.AI.APIKey = strings.TrimSpace(c.AI.APIKey)
	c.AI.ArkAPIKey = strings.TrimSpace(c.AI.ArkAPIKey)
	c.AI.ArkAccessKey = strings.TrimSpace(c.AI.ArkAccessKey)
	c.AI.ArkSecretKey = strings.TrimSpace(c.AI.ArkSecretKey)
	c.AI.ArkModel = strings.TrimSpace(c.AI.ArkModel)
	if strings.TrimSpace(c.AI.SystemPrompt) == "" {
		c.AI.SystemPrompt = DefaultSystemPrompt
	}
	c.Server.AllowedOrigins = trimAll(c.Server.AllowedOrigins)
	c.Server.TrustedHosts = trimAll(c.Server.TrustedHosts)
}

func (c *Config) check() error {
	switch c.AI.Provider {
	case ProviderOpenAI, ProviderArk:
	default:
		return fmt.Errorf("invalid AI_PROVIDER value %q", c.AI.Provider)
	}
	if c.Server.Port <= 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid PORT value: %d", c.Server.Port)
	}
	if c.AI.MaxTokens <= 0 {
		return fmt.Errorf("invalid OPENAI_MAX_TOKENS value: %d", c.AI.MaxTokens)
	}
	if c.AI.Temperature < 0 || c.AI.Temperature > 2 {
		return fmt.Errorf("invalid OPENAI_TEMPERATURE value: %v", c.AI.Temperature)
	}
	if c.AI.Timeout <= 0 {
		return fmt.Errorf("invalid PROVIDER_TIMEOUT value: %s", c.AI.Timeout)
	}
	if c.Session.MaxEntries < 0 {
		return fmt.Errorf("invalid SESSION_MAX_ENTRIES value: %d", c.Session.MaxEntries)
	}
	return nil
}

func trimAll(values []string) []string {
	out := make([]string, 0, len(values))
	for _, v := range values {
		if v = strings.TrimSpace(v); v != "" {
			out = append(out, v)
		}
	}
	return out
}
