// Package config loads runtime configuration from the environment, with an
// optional YAML file overlay for local development.
package config

import (
	"fmt"
	"os"

	"github.com/kelseyhightower/envconfig"
	"gopkg.in/yaml.v3"
)

// Config holds everything the service needs at startup.
type Config struct {
	Port             string `envconfig:"PORT" default:"8080" yaml:"port"`
	Region           string `envconfig:"AWS_REGION" default:"us-east-1" yaml:"region"`
	DynamoDBEndpoint string `envconfig:"DYNAMODB_ENDPOINT" yaml:"dynamodbEndpoint"`
	UsersTable       string `envconfig:"USERS_TABLE" default:"users" yaml:"usersTable"`
	ShopsTable       string `envconfig:"SHOPS_TABLE" default:"shops" yaml:"shopsTable"`
	ItemsTable       string `envconfig:"ITEMS_TABLE" default:"items" yaml:"itemsTable"`
	OrdersTable      string `envconfig:"ORDERS_TABLE" default:"orders" yaml:"ordersTable"`
	LogLevel         string `envconfig:"LOG_LEVEL" default:"info" yaml:"logLevel"`
}

// Load reads configuration from the environment.
func Load() (*Config, error) {
	var cfg Config
	if err := envconfig.Process("", &cfg); err != nil {
		return nil, fmt.Errorf("process environment: %w", err)
	}
	return &cfg, nil
}

// LoadFile reads configuration from the environment and then overlays the
// YAML file at path. File values win over environment values, which suits
// the local server's -config flag.
func LoadFile(path string) (*Config, error) {
	cfg, err := Load()
	if err != nil {
		return nil, err
	}
	raw, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("read config file: %w", err)
	}
	if err := yaml.Unmarshal(raw, cfg); err != nil {
		return nil, fmt.Errorf("parse config file %s: %w", path, err)
	}
	return cfg, nil
}

// Tables maps container names to the configured table names.
func (c *Config) Tables() map[string]string {
	return map[string]string{
		"users":  c.UsersTable,
		"shops":  c.ShopsTable,
		"items":  c.ItemsTable,
		"orders": c.OrdersTable,
	}
}
