package configutil

import (
	"os"
	"path/filepath"
	"testing"
	"tpsearch/lib/testutil"

	"github.com/stretchr/testify/require"
)

type testConfig struct {
	Locale  string `json:"locale"`
	Adults  int    `json:"adults"`
	Origin  string `json:"origin"`
	Comment string `json:"comment"`
}

func writeFile(t *testing.T, path, contents string) {
	t.Helper()
	require.NoError(t, os.WriteFile(path, []byte(contents), 0600))
}

func TestReadConfig(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "flight_search.json5")

	_, err := ReadConfig[testConfig](name)
	require.True(t, os.IsNotExist(err))

	writeFile(t, name, `{
		// json5 allows comments and unquoted keys
		locale: "en",
		adults: 1,
		origin: 'MOW',
	}`)
	cfg, err := ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, testConfig{Locale: "en", Adults: 1, Origin: "MOW"}, cfg)

	writeFile(t, filepath.Join(dir, "flight_search.local.json5"), `{adults: 2, comment: "local"}`)
	cfg, err = ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, testConfig{Locale: "en", Adults: 2, Origin: "MOW", Comment: "local"}, cfg)
}

func TestReadConfigLocalZeroValues(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "flight_search.json5")
	writeFile(t, name, `{locale: "en", adults: 1, origin: "MOW", comment: "one way"}`)
	writeFile(t, filepath.Join(dir, "flight_search.local.json5"), `{adults: 0, comment: ""}`)

	cfg, err := ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, testConfig{Locale: "en", Origin: "MOW"}, cfg)
}

func TestReadConfigOnlyLocal(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "config.json")
	writeFile(t, filepath.Join(dir, "config.local.json"), `{"locale": "ru"}`)

	cfg, err := ReadConfig[testConfig](name)
	require.NoError(t, err)
	require.Equal(t, testConfig{Locale: "ru"}, cfg)
}

func TestReadConfigMap(t *testing.T) {
	dir := t.TempDir()
	name := filepath.Join(dir, "config.json")
	writeFile(t, name, `{"iata": "MOW", "adults_count": 2}`)
	writeFile(t, filepath.Join(dir, "config.local.json"), `{"adults_count": 3}`)

	cfg, err := ReadConfig[map[string]any](name)
	require.NoError(t, err)
	require.Equal(t, "MOW", cfg["iata"])
	require.EqualValues(t, 3, cfg["adults_count"])
}

func TestReadConfigInvalid(t *testing.T) {
	name := filepath.Join(t.TempDir(), "broken.json5")
	writeFile(t, name, `{locale: `)

	_, err := ReadConfig[testConfig](name)
	require.Error(t, err)
	require.False(t, os.IsNotExist(err))
}

func TestLocalPath(t *testing.T) {
	require.Equal(t, "config.local.json", LocalPath("config.json"))
	require.Equal(t, filepath.Join("a", "b.local.json5"), LocalPath(filepath.Join("a", "b.json5")))
	require.Equal(t, "noext.local", LocalPath("noext"))
}

func TestReadRecursively(t *testing.T) {
	root := t.TempDir()
	nested := filepath.Join(root, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0777))
	writeFile(t, filepath.Join(root, "telemetry.json5"), `{locale: "ru"}`)

	testutil.Chdir(t, nested)

	cfg, err := ReadRecursively[testConfig]("telemetry.json5")
	require.NoError(t, err)
	require.Equal(t, "ru", cfg.Locale)

	_, err = ReadRecursively[testConfig]("does-not-exist.json5")
	require.True(t, os.IsNotExist(err))
}

func TestEnv(t *testing.T) {
	dir := t.TempDir()
	envFile := filepath.Join(dir, ".env")
	writeFile(t, envFile, "TPSEARCH_TEST_TOKEN=secret\nTPSEARCH_TEST_HOST=example.com\n")

	t.Setenv("TPSEARCH_TEST_HOST", "already-set")
	t.Setenv("TPSEARCH_TEST_TOKEN", "")
	os.Unsetenv("TPSEARCH_TEST_TOKEN")
	t.Setenv("TPSEARCH_TEST_MARKER", "")

	require.NoError(t, LoadEnv(envFile, filepath.Join(dir, "missing.env")))

	values, err := RequireEnv("TPSEARCH_TEST_TOKEN", "TPSEARCH_TEST_HOST")
	require.NoError(t, err)
	require.Equal(t, []string{"secret", "already-set"}, values)

	_, err = RequireEnv("TPSEARCH_TEST_TOKEN", "TPSEARCH_TEST_MARKER")
	require.ErrorIs(t, err, ErrMissingEnv)
	require.Contains(t, err.Error(), "TPSEARCH_TEST_MARKER")
}
