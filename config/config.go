// Package config loads process settings from an optional YAML or JSON file
// overlaid with environment variables, e.g. RABBITMQ_HOST_ADDRESS overrides
// rabbitmq.host_address.
package config

import (
	"context"
	"fmt"
	"strings"

	"github.com/golang-devkit/logconv/convention"
	"github.com/golang-devkit/logconv/crypto/jwt"
	"github.com/golang-devkit/logconv/crypto/rsa"
	"github.com/golang-devkit/logconv/logger"
	"github.com/golang-devkit/logconv/messaging/rabbit"
	"github.com/golang-devkit/logconv/mongodb"
	"github.com/golang-devkit/logconv/net"
	"github.com/spf13/viper"
)

type Config struct {
	Logging   Logging   `mapstructure:"logging"`
	Formatter Formatter `mapstructure:"formatter"`
	HTTP      HTTP      `mapstructure:"http"`
	JWT       JWT       `mapstructure:"jwt"`
	RabbitMQ  RabbitMQ  `mapstructure:"rabbitmq"`
	Mongo     Mongo     `mapstructure:"mongo"`
}

type Logging struct {
	Level       string `mapstructure:"level"`
	Encoding    string `mapstructure:"encoding"`
	Development bool   `mapstructure:"development"`
}

type Formatter struct {
	MaxDepth int `mapstructure:"max_depth"`
}

type HTTP struct {
	// CorsSites is a comma separated origin list, CORS is off when empty.
	CorsSites        string `mapstructure:"cors_sites"`
	AllowCredentials bool   `mapstructure:"allow_credentials"`
	MaxBodyBytes     int64  `mapstructure:"max_body_bytes"`
}

type JWT struct {
	// PublicKey is a PEM or base64 DER RSA public key. Token checks are off
	// when empty.
	PublicKey string `mapstructure:"public_key"`
}

type RabbitMQ struct {
	HostAddress      string `mapstructure:"host_address"`
	Username         string `mapstructure:"username"`
	Password         string `mapstructure:"password"`
	PrefetchCount    int    `mapstructure:"prefetch_count"`
	ConcurrencyLimit int    `mapstructure:"concurrency_limit"`
}

type Mongo struct {
	URI      string `mapstructure:"uri"`
	Database string `mapstructure:"database"`
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.encoding", "json")
	v.SetDefault("logging.development", false)

	v.SetDefault("formatter.max_depth", convention.MaxDepth)

	v.SetDefault("http.cors_sites", "")
	v.SetDefault("http.allow_credentials", false)
	v.SetDefault("http.max_body_bytes", 10*1024*1024)

	v.SetDefault("jwt.public_key", "")

	v.SetDefault("rabbitmq.host_address", rabbit.DefaultHostAddress)
	v.SetDefault("rabbitmq.username", rabbit.DefaultUsername)
	v.SetDefault("rabbitmq.password", rabbit.DefaultPassword)
	v.SetDefault("rabbitmq.prefetch_count", rabbit.DefaultPrefetchCount)
	v.SetDefault("rabbitmq.concurrency_limit", rabbit.DefaultConcurrencyLimit)

	v.SetDefault("mongo.uri", "")
	v.SetDefault("mongo.database", "")
}

// Load reads pathFile when it is not empty. The file type is inferred from
// its extension. Every key can be overridden from the environment.
func Load(pathFile string) (*Config, error) {
	v := viper.New()
	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if pathFile != "" {
		v.SetConfigFile(pathFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", pathFile, err)
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to decode config: %w", err)
	}
	cfg.normalize()
	return cfg, nil
}

func (c *Config) normalize() {
	if c.Formatter.MaxDepth <= 0 {
		c.Formatter.MaxDepth = convention.MaxDepth
	}
	if c.RabbitMQ.PrefetchCount <= 0 {
		c.RabbitMQ.PrefetchCount = rabbit.DefaultPrefetchCount
	}
	if c.RabbitMQ.ConcurrencyLimit <= 0 {
		c.RabbitMQ.ConcurrencyLimit = rabbit.DefaultConcurrencyLimit
	}
}

func (c *Config) LoggerConfig() logger.Config {
	return logger.Config{
		Level:       c.Logging.Level,
		Encoding:    c.Logging.Encoding,
		Development: c.Logging.Development,
	}
}

// NewFormatter returns a formatter using the configured depth budget.
func (c *Config) NewFormatter() *convention.Formatter {
	return convention.New(convention.NewOption().SetMaxDepth(c.Formatter.MaxDepth))
}

func (c *Config) RabbitConfig() rabbit.Config {
	return rabbit.Config{
		HostAddress:      c.RabbitMQ.HostAddress,
		Username:         c.RabbitMQ.Username,
		Password:         c.RabbitMQ.Password,
		PrefetchCount:    c.RabbitMQ.PrefetchCount,
		ConcurrencyLimit: c.RabbitMQ.ConcurrencyLimit,
	}
}

// TokenValidator returns nil when no public key is configured.
func (c *Config) TokenValidator() (*jwt.Validator, error) {
	if c.JWT.PublicKey == "" {
		return nil, nil
	}
	pub, err := rsa.ParsePublicKey(c.JWT.PublicKey)
	if err != nil {
		return nil, fmt.Errorf("invalid jwt.public_key: %w", err)
	}
	return jwt.NewValidatorRS256(pub), nil
}

// NetOptions builds the HTTP middleware options.
func (c *Config) NetOptions() (*net.Options, error) {
	opt := &net.Options{MaxBodyBytes: c.HTTP.MaxBodyBytes}
	if origins := net.ParseOrigins(c.HTTP.CorsSites); len(origins) > 0 {
		opt.CORS = &net.CORSOptions{
			AllowedOrigins:   origins,
			AllowCredentials: c.HTTP.AllowCredentials,
		}
	}
	validator, err := c.TokenValidator()
	if err != nil {
		return nil, err
	}
	if validator != nil {
		opt.Authenticator = validator
	}
	return opt, nil
}

// Logger builds the process logger from the logging section and installs it.
func (c *Config) Logger() (*logger.Log, error) {
	zlg, err := logger.Build(c.LoggerConfig())
	if err != nil {
		return nil, err
	}
	logger.SetLogEntry(zlg)
	return logger.NewLog(zlg).WithFormatter(c.NewFormatter()), nil
}

// ConnectMongo opens the configured MongoDB connection. The database from
// mongo.database wins over the one named in the URI.
func (c *Config) ConnectMongo(ctx context.Context) (*mongodb.Connection, error) {
	conn, err := mongodb.NewConnection(ctx, c.Mongo.URI)
	if err != nil {
		return nil, err
	}
	if c.Mongo.Database != "" {
		if err := conn.WithDatabase(c.Mongo.Database); err != nil {
			return nil, err
		}
	}
	return conn, nil
}
