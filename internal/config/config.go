package config

import (
	"context"
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/cloudwego/eino-ext/components/model/ark"
	"github.com/cloudwego/eino/components/model"
)

// Config aggregates every configurable knob of the client and the
// development stub server.
type Config struct {
	Client  ClientConfig
	Session SessionConfig
	Server  ServerConfig
	AI      AIConfig
}

// Load reads configuration from environment variables.
func Load() (*Config, error) {
	client, err := loadClientConfig()
	if err != nil {
		return nil, err
	}

	session, err := loadSessionConfig()
	if err != nil {
		return nil, err
	}

	server, err := loadServerConfig()
	if err != nil {
		return nil, err
	}

	ai, err := loadAIConfig()
	if err != nil {
		return nil, err
	}

	return &Config{Client: client, Session: session, Server: server, AI: ai}, nil
}

// ClientConfig describes how outbound requests to the chat backend are made.
type ClientConfig struct {
	BaseURL        string
	Model          string
	FileType       string
	RequestTimeout time.Duration
}

func loadClientConfig() (ClientConfig, error) {
	fileType := strings.ToLower(getEnvOrDefault("DOCCHAT_FILE_TYPE", "pdf"))
	if fileType != "pdf" && fileType != "csv" {
		return ClientConfig{}, fmt.Errorf("invalid DOCCHAT_FILE_TYPE value %q: must be pdf or csv", fileType)
	}

	timeoutSeconds := 30
	if override, err := parseOptionalIntEnv("DOCCHAT_REQUEST_TIMEOUT"); err != nil {
		return ClientConfig{}, err
	} else if override != nil {
		if *override < 1 {
			return ClientConfig{}, fmt.Errorf("invalid DOCCHAT_REQUEST_TIMEOUT value %d: must be positive", *override)
		}
		timeoutSeconds = *override
	}

	return ClientConfig{
		BaseURL:        strings.TrimRight(getEnvOrDefault("DOCCHAT_BASE_URL", "http://localhost:8000"), "/"),
		Model:          getEnvOrDefault("DOCCHAT_MODEL", "gpt-4o-mini"),
		FileType:       fileType,
		RequestTimeout: time.Duration(timeoutSeconds) * time.Second,
	}, nil
}

// SessionConfig controls how the per-client session identifier is resolved.
type SessionConfig struct {
	// Path of the persisted identifier. Empty means the default location
	// under the user config dir.
	Path string
	// Strict makes an unresolved identifier an error instead of silently
	// sending the empty string. The lenient default matches the behavior
	// of the original web client; flip it once the backend rejects
	// unattributed chats.
	Strict bool
}

func loadSessionConfig() (SessionConfig, error) {
	strict, err := parseBoolEnv("DOCCHAT_SESSION_STRICT", false)
	if err != nil {
		return SessionConfig{}, err
	}

	return SessionConfig{
		Path:   strings.TrimSpace(os.Getenv("DOCCHAT_SESSION_FILE")),
		Strict: strict,
	}, nil
}

// ServerConfig describes the development stub server.
type ServerConfig struct {
	Addr    string
	DataDir string
}

func loadServerConfig() (ServerConfig, error) {
	dataDir := getEnvOrDefault("DOCCHAT_DATA_DIR", "data")

	port := strings.TrimSpace(os.Getenv("PORT"))
	if port == "" {
		port = "8000"
	}

	if strings.Contains(port, ":") {
		// Allow passing ":8000" or "127.0.0.1:8000" directly.
		return ServerConfig{Addr: port, DataDir: dataDir}, nil
	}

	if strings.Contains(port, " ") {
		return ServerConfig{}, fmt.Errorf("invalid PORT value: %q", port)
	}

	return ServerConfig{Addr: ":" + port, DataDir: dataDir}, nil
}

// AIConfig describes the optional Ark model backing the stub server's chat
// endpoint. Without credentials the stub falls back to canned replies.
type AIConfig struct {
	APIKey      string
	AccessKey   string
	SecretKey   string
	Model       string
	BaseURL     string
	Region      string
	Temperature *float64
	MaxTokens   *int
}

// Enabled reports whether the required credentials are present.
func (c AIConfig) Enabled() bool {
	return c.Model != "" && (c.APIKey != "" || (c.AccessKey != "" && c.SecretKey != ""))
}

// NewChatModel builds a model instance from the configuration.
func (c AIConfig) NewChatModel(ctx context.Context) (model.ChatModel, error) {
	if !c.Enabled() {
		return nil, fmt.Errorf("ark credentials or model missing: provide ARK_API_KEY + ARK_MODEL or an AK/SK pair")
	}

	var temperature *float32
	if c.Temperature != nil {
		val := float32(*c.Temperature)
		temperature = &val
	}

	cfg := &ark.ChatModelConfig{
		BaseURL:     c.BaseURL,
		Region:      c.Region,
		APIKey:      c.APIKey,
		AccessKey:   c.AccessKey,
		SecretKey:   c.SecretKey,
		Model:       c.Model,
		MaxTokens:   c.MaxTokens,
		Temperature: temperature,
	}

	return ark.NewChatModel(ctx, cfg)
}

func loadAIConfig() (AIConfig, error) {
	temperature, err := parseOptionalFloatEnv("ARK_TEMPERATURE")
	if err != nil {
		return AIConfig{}, err
	}

	maxTokens, err := parseOptionalIntEnv("ARK_MAX_TOKENS")
	if err != nil {
		return AIConfig{}, err
	}

	return AIConfig{
		APIKey:      strings.TrimSpace(os.Getenv("ARK_API_KEY")),
		AccessKey:   strings.TrimSpace(os.Getenv("ARK_ACCESS_KEY")),
		SecretKey:   strings.TrimSpace(os.Getenv("ARK_SECRET_KEY")),
		Model:       strings.TrimSpace(os.Getenv("ARK_MODEL")),
		BaseURL:     getEnvOrDefault("ARK_BASE_URL", "https://ark.cn-beijing.volces.com/api/v3"),
		Region:      getEnvOrDefault("ARK_REGION", "cn-beijing"),
		Temperature: temperature,
		MaxTokens:   maxTokens,
	}, nil
}

func getEnvOrDefault(key, defaultValue string) string {
	if value := strings.TrimSpace(os.Getenv(key)); value != "" {
		return value
	}
	return defaultValue
}

func parseBoolEnv(key string, defaultValue bool) (bool, error) {
	raw := strings.TrimSpace(os.Getenv(key))
	if raw == "" {
		return defaultValue, nil
	}

	val, err := strconv.ParseBool(raw)
	if err != nil {
		return false, fmt.Errorf("invalid %s value %q: %w", key, raw, err)
	}
	return val, nil
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
