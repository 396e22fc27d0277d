package flagbind

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type fileConfig struct {
	Host  string   `default:"localhost"`
	Port  int      `default:"1"`
	Debug bool     `default:"false"`
	Tags  []string `default:""`
}

func writeConfigFile(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))
	return path
}

func TestFileSourceValues(t *testing.T) {
	path := writeConfigFile(t, `
host: filehost
port: 7070
debug: "yes"
tags: [x, y]
`)

	var cfg fileConfig
	err := Bind(&cfg, Args(nil), LookupEnv(noEnv), File(path))
	require.NoError(t, err)

	assert.Equal(t, "filehost", cfg.Host)
	assert.Equal(t, 7070, cfg.Port)
	assert.True(t, cfg.Debug)
	assert.Equal(t, []string{"x", "y"}, cfg.Tags)
}

func TestFileSourceScalarListIsCSV(t *testing.T) {
	path := writeConfigFile(t, `tags: "a,b"`)

	var cfg fileConfig
	err := Bind(&cfg, Args(nil), LookupEnv(noEnv), File(path))
	require.NoError(t, err)
	assert.Equal(t, []string{"a", "b"}, cfg.Tags)
}

func TestFileSourcePrecedence(t *testing.T) {
	path := writeConfigFile(t, "host: filehost\nport: 7070\ntags: [x]\n")

	t.Run("env wins over file", func(t *testing.T) {
		var cfg fileConfig
		err := Bind(&cfg, Args(nil),
			LookupEnv(mapEnv(map[string]string{"HOST": "envhost"})),
			File(path),
		)
		require.NoError(t, err)
		assert.Equal(t, "envhost", cfg.Host)
		assert.Equal(t, 7070, cfg.Port)
	})

	t.Run("flag wins over file and env", func(t *testing.T) {
		var cfg fileConfig
		err := Bind(&cfg, Args([]string{"--host", "flaghost"}),
			LookupEnv(mapEnv(map[string]string{"HOST": "envhost"})),
			File(path),
		)
		require.NoError(t, err)
		assert.Equal(t, "flaghost", cfg.Host)
	})

	t.Run("file wins over default", func(t *testing.T) {
		var cfg fileConfig
		err := Bind(&cfg, Args(nil), LookupEnv(noEnv), File(path))
		require.NoError(t, err)
		assert.Equal(t, "filehost", cfg.Host)
	})
}

func TestFileSourceBadValue(t *testing.T) {
	path := writeConfigFile(t, "port: not-a-number\n")

	var cfg fileConfig
	err := Bind(&cfg, Name("testprog"), Args(nil), LookupEnv(noEnv), File(path))

	var uerr *UsageError
	require.ErrorAs(t, err, &uerr)
	var cerr *ConversionError
	require.ErrorAs(t, err, &cerr)
	assert.Contains(t, uerr.Error(), "field port")
	assert.Contains(t, uerr.Error(), "invalid int value: 'not-a-number'")
}

func TestFileSourceNestedMapping(t *testing.T) {
	path := writeConfigFile(t, "host:\n  nested: true\n")

	var cfg fileConfig
	err := Bind(&cfg, Args(nil), LookupEnv(noEnv), File(path))
	var uerr *UsageError
	require.ErrorAs(t, err, &uerr)
}

func TestFileSourceMissingFile(t *testing.T) {
	var cfg fileConfig
	err := Bind(&cfg, Args(nil), LookupEnv(noEnv),
		File(filepath.Join(t.TempDir(), "absent.yaml")),
	)
	var uerr *UsageError
	require.ErrorAs(t, err, &uerr)
}

func TestFileSourceMalformedYAML(t *testing.T) {
	path := writeConfigFile(t, "host: [unclosed\n")

	var cfg fileConfig
	err := Bind(&cfg, Args(nil), LookupEnv(noEnv), File(path))
	var uerr *UsageError
	require.ErrorAs(t, err, &uerr)
}

func TestFileFlagNamesTheFile(t *testing.T) {
	path := writeConfigFile(t, "host: fromflagfile\n")

	var cfg fileConfig
	err := Bind(&cfg,
		Args([]string{"--config", path}),
		LookupEnv(noEnv),
		FileFlag("config"),
	)
	require.NoError(t, err)
	assert.Equal(t, "fromflagfile", cfg.Host)
}

func TestFileFlagOverridesFileOption(t *testing.T) {
	optionPath := writeConfigFile(t, "host: fromoption\n")
	flagPath := writeConfigFile(t, "host: fromflag\n")

	var cfg fileConfig
	err := Bind(&cfg,
		Args([]string{"--config", flagPath}),
		LookupEnv(noEnv),
		File(optionPath),
		FileFlag("config"),
	)
	require.NoError(t, err)
	assert.Equal(t, "fromflag", cfg.Host)
}

func TestFileFlagCollisionIsSchemaError(t *testing.T) {
	var cfg struct {
		Config string
	}
	err := Bind(&cfg, Args(nil), LookupEnv(noEnv), FileFlag("config"))
	var serr *SchemaError
	require.ErrorAs(t, err, &serr)
}
