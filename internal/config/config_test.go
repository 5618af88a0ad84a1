package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestConfig_Validate(t *testing.T) {
	tests := []struct {
		name    string
		config  Config
		wantErr bool
		errMsg  string
	}{
		{
			name:   "empty config",
			config: Config{},
		},
		{
			name: "full config",
			config: Config{
				DefaultFormat: "md",
				OutputFormat:  "json",
				ProbeTimeout:  "5s",
			},
		},
		{
			name:    "unknown format",
			config:  Config{DefaultFormat: "docx"},
			wantErr: true,
			errMsg:  "default_format must be html or md",
		},
		{
			name:    "unknown output",
			config:  Config{OutputFormat: "xml"},
			wantErr: true,
			errMsg:  "output_format must be",
		},
		{
			name:    "bad timeout",
			config:  Config{ProbeTimeout: "soon"},
			wantErr: true,
			errMsg:  "probe_timeout is not a duration",
		},
		{
			name:    "negative timeout",
			config:  Config{ProbeTimeout: "-1s"},
			wantErr: true,
			errMsg:  "probe_timeout must be positive",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			err := tt.config.Validate()
			if tt.wantErr {
				require.Error(t, err)
				assert.Contains(t, err.Error(), tt.errMsg)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestConfig_Defaults(t *testing.T) {
	cfg := Config{}
	assert.True(t, cfg.RatioLock())
	assert.Equal(t, 10*time.Second, cfg.ProbeTimeoutDuration())
	assert.Equal(t, "html", cfg.Format())

	off := false
	cfg = Config{LockAspectRatio: &off, ProbeTimeout: "250ms", DefaultFormat: "md"}
	assert.False(t, cfg.RatioLock())
	assert.Equal(t, 250*time.Millisecond, cfg.ProbeTimeoutDuration())
	assert.Equal(t, "md", cfg.Format())
}

func TestConfig_LoadFromEnv(t *testing.T) {
	t.Run("loads all env vars", func(t *testing.T) {
		t.Setenv("RTE_DEFAULT_FORMAT", "md")
		t.Setenv("RTE_OUTPUT_FORMAT", "json")
		t.Setenv("RTE_EXCLUSIVE_MENUS", "true")
		t.Setenv("RTE_LOCK_ASPECT_RATIO", "false")
		t.Setenv("RTE_PROBE_TIMEOUT", "3s")
		t.Setenv("RTE_FONT_DIRS", "/a"+string(os.PathListSeparator)+"/b")
		t.Setenv("RTE_LOG_FILE", "/tmp/rte.log")
		t.Setenv("RTE_TRACE", "1")
		t.Setenv("RTE_READONLY", "yes-not-a-bool")

		cfg := &Config{}
		cfg.LoadFromEnv()

		assert.Equal(t, "md", cfg.DefaultFormat)
		assert.Equal(t, "json", cfg.OutputFormat)
		assert.True(t, cfg.ExclusiveMenus)
		assert.False(t, cfg.RatioLock())
		assert.Equal(t, "3s", cfg.ProbeTimeout)
		assert.Equal(t, []string{"/a", "/b"}, cfg.FontDirs)
		assert.Equal(t, "/tmp/rte.log", cfg.LogFile)
		assert.True(t, cfg.Trace)
		assert.False(t, cfg.Readonly, "unparseable booleans are ignored")
	})

	t.Run("empty env vars keep existing values", func(t *testing.T) {
		t.Setenv("RTE_DEFAULT_FORMAT", "")
		t.Setenv("RTE_TRACE", "")

		cfg := &Config{DefaultFormat: "html", Trace: true}
		cfg.LoadFromEnv()

		assert.Equal(t, "html", cfg.DefaultFormat)
		assert.True(t, cfg.Trace)
	})
}

func TestDefaultConfigPath(t *testing.T) {
	t.Run("xdg", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "/xdg")
		assert.Equal(t, filepath.Join("/xdg", "rte", "config.yml"), DefaultConfigPath())
	})

	t.Run("home", func(t *testing.T) {
		t.Setenv("XDG_CONFIG_HOME", "")
		path := DefaultConfigPath()

		home, err := os.UserHomeDir()
		require.NoError(t, err)
		assert.True(t, strings.HasPrefix(path, home))
		assert.Contains(t, path, "rte")
		assert.Equal(t, ".yml", filepath.Ext(path))
	})
}

func TestDefaultLogPath(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/state")
	assert.Equal(t, filepath.Join("/state", "rte", "rte.log"), DefaultLogPath())
}

func TestConfig_Save_and_Load(t *testing.T) {
	configPath := filepath.Join(t.TempDir(), "nested", "config.yml")

	lock := false
	original := Config{
		DefaultFormat:   "md",
		OutputFormat:    "plain",
		ExclusiveMenus:  true,
		LockAspectRatio: &lock,
		ProbeTimeout:    "2s",
		FontDirs:        []string{"/fonts"},
		FallbackFonts:   []string{"Serif"},
		LogFile:         "/tmp/rte.log",
		Trace:           true,
		Readonly:        true,
	}

	require.NoError(t, original.Save(configPath))

	info, err := os.Stat(configPath)
	require.NoError(t, err)
	assert.Equal(t, os.FileMode(0600), info.Mode().Perm())

	loaded, err := Load(configPath)
	require.NoError(t, err)
	assert.Equal(t, original, *loaded)
}

func TestLoad_FileNotFound(t *testing.T) {
	_, err := Load("/nonexistent/path/config.yml")
	require.Error(t, err)
}

func TestLoad_InvalidYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yml")
	require.NoError(t, os.WriteFile(path, []byte("font_dirs: [unterminated"), 0600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "failed to parse config file")
}

func TestLoadWithEnv_MissingFile(t *testing.T) {
	t.Setenv("RTE_DEFAULT_FORMAT", "md")

	cfg, err := LoadWithEnv(filepath.Join(t.TempDir(), "missing.yml"))
	require.NoError(t, err)
	assert.Equal(t, "md", cfg.DefaultFormat)
}
