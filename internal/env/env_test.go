package env

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaults(t *testing.T) {
	assert.Equal(t, "localhost", GetString("ENV_TEST_MISSING", "localhost"))
	assert.Equal(t, 8080, GetInt("ENV_TEST_MISSING", 8080))
	assert.Equal(t, 150.0, GetFloat("ENV_TEST_MISSING", 150))
	assert.True(t, GetBool("ENV_TEST_MISSING", true))
	assert.Equal(t, time.Second, GetDuration("ENV_TEST_MISSING", time.Second))
}

func TestValues(t *testing.T) {
	t.Setenv("ENV_TEST_STRING", "")
	t.Setenv("ENV_TEST_INT", "9090")
	t.Setenv("ENV_TEST_FLOAT", "52.52")
	t.Setenv("ENV_TEST_BOOL", "false")
	t.Setenv("ENV_TEST_DURATION", "30s")

	assert.Equal(t, "", GetString("ENV_TEST_STRING", "fallback"), "set but empty is still set")
	assert.Equal(t, 9090, GetInt("ENV_TEST_INT", 0))
	assert.Equal(t, 52.52, GetFloat("ENV_TEST_FLOAT", 0))
	assert.False(t, GetBool("ENV_TEST_BOOL", true))
	assert.Equal(t, 30*time.Second, GetDuration("ENV_TEST_DURATION", 0))
}

func TestInvalidValuesPanic(t *testing.T) {
	t.Setenv("ENV_TEST_BAD", "not-a-number")

	assert.Panics(t, func() { GetInt("ENV_TEST_BAD", 0) })
	assert.Panics(t, func() { GetFloat("ENV_TEST_BAD", 0) })
	assert.Panics(t, func() { GetBool("ENV_TEST_BAD", false) })
	assert.Panics(t, func() { GetDuration("ENV_TEST_BAD", 0) })
}

func TestLoad(t *testing.T) {
	path := filepath.Join(t.TempDir(), "test.env")
	require.NoError(t, os.WriteFile(path, []byte("ENV_TEST_LOADED=from-file\nENV_TEST_PRESET=from-file\n"), 0o600))

	t.Setenv("ENV_TEST_PRESET", "from-env")
	t.Cleanup(func() { os.Unsetenv("ENV_TEST_LOADED") })

	require.NoError(t, Load(path))
	assert.Equal(t, "from-file", GetString("ENV_TEST_LOADED", ""))
	assert.Equal(t, "from-env", GetString("ENV_TEST_PRESET", ""))

	assert.Error(t, Load(filepath.Join(t.TempDir(), "missing.env")))
}
