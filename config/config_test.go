package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeEnvFile(t *testing.T, contents string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), ".env")
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
	return path
}

func clearVars(t *testing.T) {
	t.Helper()
	for _, name := range []string{"SERVER_API_KEY", "SERVER_URL", "SERVER_MODEL"} {
		t.Setenv(name, "")
	}
}

func TestLoadReadsValuesFromEnvFile(t *testing.T) {
	clearVars(t)
	path := writeEnvFile(t, "SERVER_API_KEY=file-key\nSERVER_URL=http://localhost:9999\nSERVER_MODEL=test-model\n")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "file-key", c.APIKey)
	assert.Equal(t, "http://localhost:9999", c.ServiceURL)
	assert.Equal(t, "test-model", c.Model)
}

func TestEnvironmentVariableOverridesEnvFile(t *testing.T) {
	clearVars(t)
	t.Setenv("SERVER_API_KEY", "env-key")
	path := writeEnvFile(t, "SERVER_API_KEY=file-key\n")

	c, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "env-key", c.APIKey)
}

func TestMissingAPIKeyIsAFatalConfigurationError(t *testing.T) {
	clearVars(t)
	path := writeEnvFile(t, "SERVER_URL=http://localhost:9999\n")

	_, err := Load(path)
	require.Error(t, err)
	var missing *MissingKeyError
	require.ErrorAs(t, err, &missing)
	assert.Equal(t, "SERVER_API_KEY", missing.Key)
}

func TestMissingEnvFileIsNotAnErrorWhenEnvIsSet(t *testing.T) {
	clearVars(t)
	t.Setenv("SERVER_API_KEY", "env-key")

	c, err := Load(filepath.Join(t.TempDir(), "does-not-exist.env"))
	require.NoError(t, err)
	assert.Equal(t, "env-key", c.APIKey)
	assert.Equal(t, defaultServiceURL, c.ServiceURL)
	assert.Equal(t, defaultModel, c.Model)
}

func TestMissingEnvFileAndNoEnvKeyFails(t *testing.T) {
	clearVars(t)

	_, err := Load(filepath.Join(t.TempDir(), "does-not-exist.env"))
	require.Error(t, err)
}
