package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

type Config struct {
	HTTPAddr              string        `yaml:"http_addr"`
	ShutdownTimeout       time.Duration `yaml:"shutdown_timeout"`
	CheckoutDelay         time.Duration `yaml:"checkout_delay"`
	ChatDelay             time.Duration `yaml:"chat_delay"`
	NewsletterDelay       time.Duration `yaml:"newsletter_delay"`
	FreeShippingThreshold int64         `yaml:"free_shipping_threshold"`
	ShippingFee           int64         `yaml:"shipping_fee"`
	OrderIDSeed           int64         `yaml:"order_id_seed"`
	SeedFile              string        `yaml:"seed_file"`
	RabbitMQURL           string        `yaml:"rabbitmq_url"`
	NotifyExchange        string        `yaml:"notify_exchange"`
	NotifyBuffer          int           `yaml:"notify_buffer"`
	LogLevel              string        `yaml:"log_level"`
}

func Default() *Config {
	return &Config{
		HTTPAddr:              ":9091",
		ShutdownTimeout:       5 * time.Second,
		CheckoutDelay:         2 * time.Second,
		ChatDelay:             time.Second,
		NewsletterDelay:       time.Second,
		FreeShippingThreshold: 500000,
		ShippingFee:           30000,
		OrderIDSeed:           100000,
		NotifyExchange:        "storefront_notifications",
		NotifyBuffer:          256,
		LogLevel:              "info",
	}
}

// LoadConfig reads the optional YAML file at path and then applies
// environment overrides. An empty path skips the file.
func LoadConfig(path string) (*Config, error) {
	cfg := Default()
	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("read config: %w", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("parse config %s: %w", path, err)
		}
	}
	var err error
	cfg.HTTPAddr = getEnv("HTTP_ADDR", cfg.HTTPAddr)
	cfg.SeedFile = getEnv("SEED_FILE", cfg.SeedFile)
	cfg.RabbitMQURL = getEnvFromFile("RABBITMQ_URL_FILE", "RABBITMQ_URL", cfg.RabbitMQURL)
	cfg.NotifyExchange = getEnv("NOTIFY_EXCHANGE", cfg.NotifyExchange)
	cfg.LogLevel = getEnv("LOG_LEVEL", cfg.LogLevel)
	if cfg.ShutdownTimeout, err = getDuration("SHUTDOWN_TIMEOUT", cfg.ShutdownTimeout); err != nil {
		return nil, err
	}
	if cfg.CheckoutDelay, err = getDuration("CHECKOUT_DELAY", cfg.CheckoutDelay); err != nil {
		return nil, err
	}
	if cfg.ChatDelay, err = getDuration("CHAT_DELAY", cfg.ChatDelay); err != nil {
		return nil, err
	}
	if cfg.NewsletterDelay, err = getDuration("NEWSLETTER_DELAY", cfg.NewsletterDelay); err != nil {
		return nil, err
	}
	if cfg.FreeShippingThreshold, err = getInt("FREE_SHIPPING_THRESHOLD", cfg.FreeShippingThreshold); err != nil {
		return nil, err
	}
	if cfg.ShippingFee, err = getInt("SHIPPING_FEE", cfg.ShippingFee); err != nil {
		return nil, err
	}
	if cfg.OrderIDSeed, err = getInt("ORDER_ID_SEED", cfg.OrderIDSeed); err != nil {
		return nil, err
	}
	return cfg, cfg.Validate()
}

func (c *Config) Validate() error {
	switch {
	case c.HTTPAddr == "":
		return fmt.Errorf("http_addr is required")
	case c.CheckoutDelay < 0 || c.ChatDelay < 0 || c.NewsletterDelay < 0:
		return fmt.Errorf("delays must not be negative")
	case c.FreeShippingThreshold < 0 || c.ShippingFee < 0:
		return fmt.Errorf("shipping amounts must not be negative")
	case c.OrderIDSeed < 100000 || c.OrderIDSeed > 999999:
		return fmt.Errorf("order_id_seed must have six digits, got %d", c.OrderIDSeed)
	}
	return nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvFromFile(fileKey, envKey, defaultValue string) string {
	if filePath := os.Getenv(fileKey); filePath != "" {
		if content, err := os.ReadFile(filePath); err == nil {
			return strings.TrimSpace(string(content))
		}
	}
	return getEnv(envKey, defaultValue)
}

func getDuration(key string, def time.Duration) (time.Duration, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	d, err := time.ParseDuration(v)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return d, nil
}

func getInt(key string, def int64) (int64, error) {
	v := os.Getenv(key)
	if v == "" {
		return def, nil
	}
	n, err := strconv.ParseInt(v, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("%s: %w", key, err)
	}
	return n, nil
}
