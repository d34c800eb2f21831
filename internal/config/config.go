package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
)

// Config 聚合整个服务的配置项。
type Config struct {
	Server   ServerConfig
	AI       AIConfig
	Database DatabaseConfig
	Log      LogConfig
}

// Load 从环境变量加载配置。
func Load() (*Config, error) {
	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	database, err := loadDatabaseConfig()
	if err != nil {
		return nil, err
	}

	log, err := loadLogConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Server: server, AI: ai, Database: database, Log: log}, nil
}

// ServerConfig 描述 HTTP 服务配置。
type ServerConfig struct {
	Addr string
}

// loadServerConfig 解析服务器监听地址。
func loadServerConfig() (ServerConfig, error) {
	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8080"
	}

	if strings.Contains(port, ":") {
		// 允许用户直接传入 ":8080" 或 "127.0.0.1:8080"。
		return ServerConfig{Addr: port}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port}, nil
}

// Provider 标识生成式模型的后端。
type Provider string

const (
	ProviderGemini Provider = "gemini"
	ProviderArk    Provider = "ark"
)

// DefaultReplyTemperature 是生成回复时使用的采样温度。
const DefaultReplyTemperature = 0.7

// AIConfig 描述大模型相关配置。
type AIConfig struct {
	Provider         Provider
	GeminiAPIKey     string
	GeminiModel      string
	ArkAPIKey        string
	ArkAccessKey     string
	ArkSecretKey     string
	ArkModel         string
	ArkBaseURL       string
	ArkRegion        string
	ReplyTemperature float32
	MaxTokens        *int
}

// Enabled 表示当前 Provider 是否提供了必需的密钥。
func (c AIConfig) Enabled() bool {
	switch c.Provider {
	case ProviderGemini:
		return c.GeminiAPIKey != "" && c.GeminiModel != ""
	case ProviderArk:
		return c.ArkModel != "" && (c.ArkAPIKey != "" || (c.ArkAccessKey != "" && c.ArkSecretKey != ""))
	default:
		return false
	}
}

func loadAIConfig() (AIConfig, error) {
	provider := Provider(strings.ToLower(getEnvOrDefault("AI_PROVIDER", string(ProviderGemini))))
	switch provider {
	case ProviderGemini, ProviderArk:
	default:
		return AIConfig{}, fmt.Errorf("invalid AI_PROVIDER value %q", provider)
	}

	temperature, err := parseOptionalFloatEnv("AI_REPLY_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}
	replyTemperature := float32(DefaultReplyTemperature)
	if temperature != nil {
		if *temperature < 0 || *temperature > 2 {
			return AIConfig{}, fmt.Errorf("invalid AI_REPLY_TEMPERATURE value %v: must be within [0, 2]", *temperature)
		}
		replyTemperature = float32(*temperature)
	}

	maxTokens, err := parseOptionalIntEnv("AI_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		Provider:         provider,
		GeminiAPIKey:     strings.TrimSpace(os.Getenv("GEMINI_API_KEY")),
		GeminiModel:      getEnvOrDefault("GEMINI_MODEL", "gemini-1.5-flash"),
		ArkAPIKey:        strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		ArkAccessKey:     strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		ArkSecretKey:     strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		ArkModel:         strings.TrimSpace(os.Getenv("ARK_MODEL")),
		ArkBaseURL:       getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		ArkRegion:        getEnvOrDefault("ARK_REGION", "cn-beijing"),
		ReplyTemperature: replyTemperature,
		MaxTokens:        maxTokens,
	}, nil
}

// DatabaseConfig 描述持久化存储配置。
type DatabaseConfig struct {
	Driver string
	DSN    string
}

func loadDatabaseConfig() (DatabaseConfig, error) {
	driver := strings.ToLower(getEnvOrDefault("DATABASE_DRIVER", "sqlite"))
	switch driver {
	case "sqlite":
		return DatabaseConfig{Driver: driver, DSN: getEnvOrDefault("DATABASE_DSN", "mood_journal.db")}, nil
	case "postgres":
		dsn := strings.TrimSpace(os.Getenv("DATABASE_DSN"))
		if dsn == "" {
			return DatabaseConfig{}, fmt.Errorf("DATABASE_DSN is required when DATABASE_DRIVER=postgres")
		}
		return DatabaseConfig{Driver: driver, DSN: dsn}, nil
	default:
		return DatabaseConfig{}, fmt.Errorf("invalid DATABASE_DRIVER value %q", driver)
	}
}

// LogConfig 描述日志输出模式。
type LogConfig struct {
	Mode string
}

func loadLogConfig() (LogConfig, error) {
	mode := getEnvOrDefault("LOG_MODE", "development")
	if mode != "development" && mode != "production" {
		return LogConfig{}, fmt.Errorf("invalid LOG_MODE value %q", mode)
	}
	return LogConfig{Mode: mode}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseOptionalFloatEnv(key string) (*float64, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.ParseFloat(value, 64)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}

func parseOptionalIntEnv(key string) (*int, error) {
	raw, ok := os.LookupEnv(key)
	if !ok {
		return nil, nil
	}

	value := strings.TrimSpace(raw)
	if value == "" {
		return nil, nil
	}

	val, err := strconv.Atoi(value)
	if err != nil {
		return nil, fmt.Errorf("invalid %s value %q: %w", key, value, err)
	}
	return &val, nil
}
