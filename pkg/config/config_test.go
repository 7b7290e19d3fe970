package config_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/shopfront/shopfront/pkg/config"
)

// clearEnv unsets the given variables for the test, restoring any ambient
// values afterwards, so default assertions hold on any machine.
func clearEnv(t *testing.T, keys ...string) {
	t.Helper()
	for _, key := range keys {
		if value, ok := os.LookupEnv(key); ok {
			t.Setenv(key, value) // registers the restore
			os.Unsetenv(key)
		}
	}
}

var configVars = []string{
	"PORT", "AWS_REGION", "DYNAMODB_ENDPOINT",
	"USERS_TABLE", "SHOPS_TABLE", "ITEMS_TABLE", "ORDERS_TABLE",
	"LOG_LEVEL",
}

func TestLoadDefaults(t *testing.T) {
	clearEnv(t, configVars...)

	cfg, err := config.Load()
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "us-east-1", cfg.Region)
	assert.Equal(t, map[string]string{
		"users":  "users",
		"shops":  "shops",
		"items":  "items",
		"orders": "orders",
	}, cfg.Tables())
}

func TestLoadFromEnvironment(t *testing.T) {
	clearEnv(t, configVars...)
	t.Setenv("AWS_REGION", "eu-west-1")
	t.Setenv("ITEMS_TABLE", "storefront-items")

	cfg, err := config.Load()
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.Equal(t, "storefront-items", cfg.Tables()["items"])
}

func TestLoadFileOverridesEnvironment(t *testing.T) {
	clearEnv(t, configVars...)
	t.Setenv("PORT", "9090")

	path := filepath.Join(t.TempDir(), "local.yaml")
	require.NoError(t, os.WriteFile(path, []byte(
		"port: \"3000\"\ndynamodbEndpoint: http://localhost:8000\n",
	), 0o600))

	cfg, err := config.LoadFile(path)
	require.NoError(t, err)
	assert.Equal(t, "3000", cfg.Port)
	assert.Equal(t, "http://localhost:8000", cfg.DynamoDBEndpoint)
	// Fields absent from the file keep their environment/default values.
	assert.Equal(t, "us-east-1", cfg.Region)
}

func TestLoadFileMissing(t *testing.T) {
	_, err := config.LoadFile(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
