package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"path/filepath"
	"regexp"
	"runtime"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Index drivers.
const (
	DriverPinecone = "pinecone"
	DriverRedis    = "redis"
	DriverValkey   = "valkey"
)

// Config holds the retriever API configuration.
type Config struct {
	HTTP      HTTPConfig      `yaml:"http"`
	CORS      CORSConfig      `yaml:"cors"`
	Embedding EmbeddingConfig `yaml:"embedding"`
	Index     IndexConfig     `yaml:"index"`
	Retrieval RetrievalConfig `yaml:"retrieval"`
	Logging   LoggingConfig   `yaml:"logging"`
}

// LoggingConfig holds logging settings.
type LoggingConfig struct {
	Level string `yaml:"level"` // debug, info, warn, error (default: determined by env)
}

// HTTPConfig holds HTTP server settings.
type HTTPConfig struct {
	Port            int `yaml:"port"`
	ReadTimeoutSec  int `yaml:"read_timeout_sec"`
	WriteTimeoutSec int `yaml:"write_timeout_sec"`
	ShutdownSec     int `yaml:"shutdown_timeout_sec"`
}

// CORSConfig holds the browser origin allow-list.
type CORSConfig struct {
	AllowedOrigins []string `yaml:"allowed_origins"`
	MaxAgeSec      int      `yaml:"max_age_sec"`
}

// EmbeddingConfig holds embedding provider settings.
type EmbeddingConfig struct {
	Provider   string `yaml:"provider"`
	APIKey     string `yaml:"api_key"`
	BaseURL    string `yaml:"base_url"`
	Model      string `yaml:"model"`
	Dimensions int    `yaml:"dimensions"`
}

// IndexConfig holds vector index settings.
type IndexConfig struct {
	Driver       string         `yaml:"driver"` // pinecone, redis, valkey (default: pinecone)
	Name         string         `yaml:"name"`
	ContentField string         `yaml:"content_field"`
	Pinecone     PineconeConfig `yaml:"pinecone"`
	Database     DatabaseConfig `yaml:"database"`
}

// PineconeConfig holds Pinecone connection settings.
type PineconeConfig struct {
	APIKey    string `yaml:"api_key"`
	Host      string `yaml:"host"` // empty = resolved via DescribeIndex
	Namespace string `yaml:"namespace"`
}

// DatabaseConfig holds Redis/Valkey connection settings.
type DatabaseConfig struct {
	Addrs            []string `yaml:"addrs"`
	Password         string   `yaml:"password"`
	VectorField      string   `yaml:"vector_field"`
	ReadinessTimeout int      `yaml:"readiness_timeout_sec"`
}

// RetrievalConfig holds per-request retrieval settings.
type RetrievalConfig struct {
	TimeoutSec int `yaml:"timeout_sec"` // 0 = no timeout
}

// Load reads configuration from a YAML file by environment name (local, dev, prod).
// A .env file in the working directory is loaded first when present.
func Load(env string) (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, fs.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}
	return LoadFile(findConfigPath(env))
}

// LoadFile reads configuration from an explicit YAML path.
func LoadFile(configPath string) (Config, error) {
	data, err := os.ReadFile(filepath.Clean(configPath))
	if err != nil {
		return Config{}, fmt.Errorf("failed to read config %s: %w", configPath, err)
	}

	// Substitute env variables of the form ${VAR}
	data = expandEnvVars(data)

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config: %w", err)
	}

	cfg.ApplyDefaults()

	if err := cfg.Validate(); err != nil {
		return Config{}, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// MustLoad loads configuration or panics.
func MustLoad(env string) Config {
	cfg, err := Load(env)
	if err != nil {
		panic(err)
	}
	return cfg
}

// GetEnv returns the current environment from the ENV variable, defaulting to "local".
func GetEnv() string {
	if env := os.Getenv("ENV"); env != "" {
		return env
	}
	return "local"
}

// ApplyDefaults fills empty fields with default values.
func (c *Config) ApplyDefaults() {
	if c.HTTP.Port == 0 {
		c.HTTP.Port = 8080
	}
	if c.HTTP.ReadTimeoutSec <= 0 {
		c.HTTP.ReadTimeoutSec = 10
	}
	if c.HTTP.WriteTimeoutSec <= 0 {
		c.HTTP.WriteTimeoutSec = 30
	}
	if c.HTTP.ShutdownSec <= 0 {
		c.HTTP.ShutdownSec = 10
	}
	if c.CORS.MaxAgeSec <= 0 {
		c.CORS.MaxAgeSec = 300
	}
	if c.Embedding.Provider == "" {
		c.Embedding.Provider = "openai"
	}
	if c.Embedding.Model == "" {
		c.Embedding.Model = "text-embedding-3-small"
	}
	if c.Index.Driver == "" {
		c.Index.Driver = DriverPinecone
	}
	if c.Index.ContentField == "" {
		c.Index.ContentField = "text"
	}
	if c.Index.Database.VectorField == "" {
		c.Index.Database.VectorField = "vector"
	}
	if c.Index.Database.ReadinessTimeout <= 0 {
		c.Index.Database.ReadinessTimeout = 10
	}
}

// Validate checks the configuration for correctness.
func (c *Config) Validate() error {
	if c.HTTP.Port <= 0 || c.HTTP.Port > 65535 {
		return fmt.Errorf("http.port must be between 1 and 65535, got %d", c.HTTP.Port)
	}
	if c.Embedding.APIKey == "" {
		return fmt.Errorf("embedding.api_key is required")
	}
	if c.Embedding.Dimensions < 0 {
		return fmt.Errorf("embedding.dimensions must not be negative, got %d", c.Embedding.Dimensions)
	}
	if c.Index.Name == "" {
		return fmt.Errorf("index.name is required")
	}
	if c.Retrieval.TimeoutSec < 0 {
		return fmt.Errorf("retrieval.timeout_sec must not be negative, got %d", c.Retrieval.TimeoutSec)
	}

	switch c.Index.Driver {
	case DriverPinecone:
		if c.Index.Pinecone.APIKey == "" {
			return fmt.Errorf("index.pinecone.api_key is required for driver %q", c.Index.Driver)
		}
	case DriverRedis, DriverValkey:
		if len(c.Index.Database.Addrs) == 0 {
			return fmt.Errorf("index.database.addrs is required for driver %q", c.Index.Driver)
		}
	default:
		return fmt.Errorf(
			"index.driver must be one of %q, %q, %q, got %q",
			DriverPinecone, DriverRedis, DriverValkey, c.Index.Driver,
		)
	}
	return nil
}

// findConfigPath locates the config file.
func findConfigPath(env string) string {
	filename := fmt.Sprintf("%s.yaml", env)

	// 1. Check ./config/
	if path := filepath.Join("config", filename); fileExists(path) {
		return path
	}

	// 2. Check relative to the source file
	_, b, _, _ := runtime.Caller(0)
	projectRoot := filepath.Dir(filepath.Dir(filepath.Dir(b))) // internal/config -> project root
	if path := filepath.Join(projectRoot, "config", filename); fileExists(path) {
		return path
	}

	// 3. Fallback to ./config/
	return filepath.Join("config", filename)
}

func fileExists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}

// expandEnvVars replaces ${VAR} and ${VAR:-default} with environment variable values.
var envVarRegex = regexp.MustCompile(`\$\{([^}]+)\}`)

func expandEnvVars(data []byte) []byte {
	return envVarRegex.ReplaceAllFunc(data, func(match []byte) []byte {
		expr := string(match[2 : len(match)-1]) // strip ${ and }
		varName, defaultVal, hasDefault := strings.Cut(expr, ":-")
		val := os.Getenv(varName)
		if val == "" && hasDefault {
			val = defaultVal
		}
		return []byte(val)
	})
}
