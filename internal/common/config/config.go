package config

import (
	"errors"
	"fmt"
	"net"
	"net/url"
	"os"
	"strconv"

	"github.com/caarlos0/env/v11"
	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/pelletier/go-toml"

	"github.com/AlibekovAA/crudik/internal/common/constants"
)

const envPrefix = "APP_"

var (
	ErrMissingConfigFile = errors.New("config file not found")
	ErrInvalidConfig     = errors.New("invalid config")
)

type DBConfig struct {
	User     string `toml:"user" env:"USER" validate:"required"`
	Password string `toml:"password" env:"PASSWORD"`
	Host     string `toml:"host" env:"HOST" validate:"required"`
	Port     int    `toml:"port" env:"PORT" validate:"min=1,max=65535"`
	Name     string `toml:"name" env:"NAME" validate:"required"`
}

// DSN renders a postgres:// URL accepted by both pgx and golang-migrate.
func (c DBConfig) DSN() string {
	u := url.URL{
		Scheme: "postgres",
		User:   url.UserPassword(c.User, c.Password),
		Host:   net.JoinHostPort(c.Host, strconv.Itoa(c.Port)),
		Path:   "/" + c.Name,
	}
	q := u.Query()
	q.Set("sslmode", "disable")
	u.RawQuery = q.Encode()
	return u.String()
}

type ServerConfig struct {
	Host string `toml:"host" env:"HOST"`
	Port int    `toml:"port" env:"PORT" validate:"min=1,max=65535"`
}

func (c ServerConfig) Addr() string {
	return net.JoinHostPort(c.Host, strconv.Itoa(c.Port))
}

type AuthConfig struct {
	UserIDHeader         string `toml:"user_id_header" env:"USER_ID_HEADER" validate:"required"`
	AccessTokenHeader    string `toml:"access_token_header" env:"ACCESS_TOKEN_HEADER" validate:"required"`
	JWTAlgorithm         string `toml:"jwt_algorithm" env:"JWT_ALGORITHM" validate:"oneof=HS256 HS384 HS512 RS256 RS384 RS512 ES256 ES384 ES512 PS256 PS384 PS512 EdDSA"`
	AllowUnverifiedEmail bool   `toml:"allow_unverified_email" env:"ALLOW_UNVERIFIED_EMAIL"`
}

type TracingConfig struct {
	TraceIDHeader   string `toml:"trace_id_header" env:"TRACE_ID_HEADER" validate:"required"`
	TraceIDRequired bool   `toml:"trace_id_required" env:"TRACE_ID_REQUIRED"`
}

type LogConfig struct {
	Dir   string `toml:"dir" env:"DIR"`
	Level string `toml:"level" env:"LEVEL" validate:"oneof=debug info warning warn error critical DEBUG INFO WARNING WARN ERROR CRITICAL"`
}

type OtelConfig struct {
	Endpoint string `toml:"endpoint" env:"ENDPOINT" validate:"omitempty,url"`
}

type Config struct {
	DB      DBConfig      `toml:"db" envPrefix:"DB_"`
	Server  ServerConfig  `toml:"server" envPrefix:"SERVER_"`
	Auth    AuthConfig    `toml:"auth" envPrefix:"AUTH_"`
	Tracing TracingConfig `toml:"tracing" envPrefix:"TRACING_"`
	Log     LogConfig     `toml:"log" envPrefix:"LOG_"`
	Otel    OtelConfig    `toml:"otel" envPrefix:"OTEL_"`
}

// Load reads .env (if present), the TOML file named by APP_CONFIG_PATH and
// then APP_* environment variables, which take precedence over the file.
func Load() (Config, error) {
	if err := godotenv.Load(); err != nil && !errors.Is(err, os.ErrNotExist) {
		return Config{}, fmt.Errorf("failed to load .env: %w", err)
	}

	path := getEnv(envPrefix+"CONFIG_PATH", constants.DefaultConfigPath)
	return LoadFile(path)
}

func LoadFile(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if errors.Is(err, os.ErrNotExist) {
			return Config{}, fmt.Errorf("%w: %s", ErrMissingConfigFile, path)
		}
		return Config{}, fmt.Errorf("failed to read config file: %w", err)
	}
	return Parse(data)
}

// Parse decodes TOML data, overlays the environment and validates the result.
func Parse(data []byte) (Config, error) {
	var cfg Config
	if err := toml.Unmarshal(data, &cfg); err != nil {
		return Config{}, fmt.Errorf("failed to parse config file: %w", err)
	}

	if err := env.ParseWithOptions(&cfg, env.Options{Prefix: envPrefix}); err != nil {
		return Config{}, fmt.Errorf("failed to parse environment: %w", err)
	}

	applyDefaults(&cfg)

	if err := validator.New().Struct(cfg); err != nil {
		return Config{}, fmt.Errorf("%w: %v", ErrInvalidConfig, err)
	}
	return cfg, nil
}

func applyDefaults(cfg *Config) {
	setDefault(&cfg.DB.Host, "localhost")
	if cfg.DB.Port == 0 {
		cfg.DB.Port = 5432
	}
	setDefault(&cfg.Server.Host, "0.0.0.0")
	if cfg.Server.Port == 0 {
		cfg.Server.Port = 8000
	}
	setDefault(&cfg.Auth.UserIDHeader, "X-Auth-User-Id")
	setDefault(&cfg.Auth.AccessTokenHeader, "X-Access-Token")
	setDefault(&cfg.Auth.JWTAlgorithm, "RS256")
	setDefault(&cfg.Tracing.TraceIDHeader, "X-Trace-Id")
	setDefault(&cfg.Log.Level, "info")
}

func setDefault(field *string, value string) {
	if *field == "" {
		*field = value
	}
}

func getEnv(key, fallback string) string {
	if v, ok := os.LookupEnv(key); ok && v != "" {
		return v
	}
	return fallback
}
