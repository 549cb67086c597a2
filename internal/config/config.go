package config

import (
	"bufio"
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/spf13/viper"
	"golang.org/x/crypto/bcrypt"
)

const (
	BackendSQLite = "sqlite"
	BackendS3     = "s3"
	BackendMemory = "memory"
)

// Config holds application level configuration aggregated from env/config files.
type Config struct {
	Server struct {
		Addr string
	}
	Log struct {
		Level string
	}
	Database struct {
		Path string
	}
	Auth struct {
		Secret          string
		Algorithm       string
		TokenTTLMinutes int
		BcryptCost      int
	}
	Samples struct {
		Backend   string
		Bucket    string
		KeyPrefix string
		Region    string
		Endpoint  string
	}
	AWS struct {
		Profile string
	}
}

// Load reads configuration from environment variables and optional config files.
func Load() (Config, error) {
	loadDotEnv(".env")

	v := viper.New()
	v.SetEnvPrefix("SAMPLES")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	v.SetDefault("server.addr", "0.0.0.0:8080")
	v.SetDefault("log.level", "info")
	v.SetDefault("database.path", "data/samples.db")
	v.SetDefault("auth.secret", "")
	v.SetDefault("auth.algorithm", "HS256")
	v.SetDefault("auth.tokenttlminutes", 15)
	v.SetDefault("auth.bcryptcost", bcrypt.DefaultCost)
	v.SetDefault("samples.backend", BackendSQLite)
	v.SetDefault("samples.bucket", "")
	v.SetDefault("samples.keyprefix", "samples")
	v.SetDefault("samples.region", "us-east-1")
	v.SetDefault("samples.endpoint", "")
	v.SetDefault("aws.profile", "")

	// bare names used by existing deployments
	_ = v.BindEnv("auth.secret", "SAMPLES_AUTH_SECRET", "API_KEY")
	_ = v.BindEnv("auth.algorithm", "SAMPLES_AUTH_ALGORITHM", "ALGORITHM")
	_ = v.BindEnv("auth.tokenttlminutes", "SAMPLES_AUTH_TOKENTTLMINUTES", "ACCESS_TOKEN_EXPIRE_MINUTES")

	v.SetConfigName("config")
	v.AddConfigPath(".")
	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return Config{}, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return Config{}, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	cfg.Samples.Backend = strings.ToLower(strings.TrimSpace(cfg.Samples.Backend))

	return cfg, nil
}

// Validate reports the first setting the server cannot start with.
func (c Config) Validate() error {
	if strings.TrimSpace(c.Auth.Secret) == "" {
		return errors.New("auth secret is required")
	}
	switch c.Auth.Algorithm {
	case "HS256", "HS384", "HS512":
	default:
		return fmt.Errorf("unsupported auth algorithm %q", c.Auth.Algorithm)
	}
	if c.Auth.TokenTTLMinutes <= 0 {
		return fmt.Errorf("auth token ttl must be positive, got %d minutes", c.Auth.TokenTTLMinutes)
	}
	if c.Auth.BcryptCost < bcrypt.MinCost || c.Auth.BcryptCost > bcrypt.MaxCost {
		return fmt.Errorf("bcrypt cost %d outside [%d, %d]", c.Auth.BcryptCost, bcrypt.MinCost, bcrypt.MaxCost)
	}
	switch c.Samples.Backend {
	case BackendSQLite, BackendMemory:
	case BackendS3:
		if c.Samples.Bucket == "" {
			return errors.New("samples bucket is required for the s3 backend")
		}
	default:
		return fmt.Errorf("unknown samples backend %q", c.Samples.Backend)
	}
	return nil
}

func (c Config) TokenTTL() time.Duration {
	return time.Duration(c.Auth.TokenTTLMinutes) * time.Minute
}

// loadDotEnv exports KEY=VALUE lines from path without overriding the
// real environment.
func loadDotEnv(path string) {
	file, err := os.Open(path)
	if err != nil {
		return
	}
	defer file.Close()

	scanner := bufio.NewScanner(file)
	for scanner.Scan() {
		line := strings.TrimSpace(scanner.Text())
		if line == "" || strings.HasPrefix(line, "#") {
			continue
		}
		line = strings.TrimPrefix(line, "export ")

		key, value, ok := strings.Cut(line, "=")
		if !ok {
			continue
		}
		key = strings.TrimSpace(key)
		value = strings.Trim(strings.TrimSpace(value), `"'`)
		if key == "" {
			continue
		}

		if _, exists := os.LookupEnv(key); !exists {
			_ = os.Setenv(key, value)
		}
	}
}
