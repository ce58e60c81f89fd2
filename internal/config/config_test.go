package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func clearEnv(t *testing.T) {
	t.Helper()
	for _, k := range []string{EnvCatalog, EnvFormat, EnvPlotDir, EnvConfig} {
		t.Setenv(k, "")
	}
}

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0644))
	return path
}

func TestApplyEnv(t *testing.T) {
	clearEnv(t)
	cfg := Default()
	cfg.Catalog = "/from/file.db3"
	cfg.ApplyEnv()
	assert.Equal(t, "/from/file.db3", cfg.Catalog, "unset env keeps the file value")
	assert.Equal(t, DefaultFormat, cfg.Format)
	assert.Equal(t, DefaultPlotDir, cfg.PlotDir)

	t.Setenv(EnvCatalog, "/data/run1.db3")
	t.Setenv(EnvFormat, "output_print_pdf")
	t.Setenv(EnvPlotDir, "/data/plots")
	cfg.ApplyEnv()
	assert.Equal(t, "/data/run1.db3", cfg.Catalog)
	assert.Equal(t, "output_print_pdf", cfg.Format)
	assert.Equal(t, "/data/plots", cfg.PlotDir)
}

func TestLoadFile(t *testing.T) {
	path := writeConfig(t, `
catalog = "/srv/analysis_manager.db3"
format = "output_print_pdf"
viewer_command = "feh"
start_timeout = "750ms"

[keys]
next = "n"
previous = "p"
`)

	cfg, err := LoadFile(path, true)
	require.NoError(t, err)
	assert.Equal(t, "/srv/analysis_manager.db3", cfg.Catalog)
	assert.Equal(t, "output_print_pdf", cfg.Format)
	assert.Equal(t, "feh", cfg.ViewerCommand)
	assert.Equal(t, 750*time.Millisecond, cfg.StartTimeout.Duration)
	assert.Equal(t, Keys{Next: "n", Previous: "p"}, cfg.Keys)
	assert.Equal(t, DefaultPlotDir, cfg.PlotDir, "unset keys keep defaults")
	assert.Equal(t, DefaultLogLevel, cfg.LogLevel)
}

func TestLoadFile_Missing(t *testing.T) {
	missing := filepath.Join(t.TempDir(), "nope.toml")

	cfg, err := LoadFile(missing, false)
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)

	_, err = LoadFile(missing, true)
	assert.Error(t, err)
}

func TestLoadFile_Invalid(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "syntax", body: "catalog = "},
		{name: "bad duration", body: `start_timeout = "soon"`},
		{name: "negative duration", body: `start_timeout = "-1s"`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := LoadFile(writeConfig(t, tt.body), true)
			assert.Error(t, err)
		})
	}
}

func TestLoad_Precedence(t *testing.T) {
	clearEnv(t)
	path := writeConfig(t, `
catalog = "file.db3"
format = "file_format"
plot_dir = "/file/plots"
log_level = "warn"
`)

	t.Setenv(EnvFormat, "env_format")
	t.Setenv(EnvPlotDir, "/env/plots")

	cfg, err := Load(path, Overrides{PlotDir: "/flag/plots"})
	require.NoError(t, err)

	assert.Equal(t, "file.db3", cfg.Catalog, "file over default")
	assert.Equal(t, "env_format", cfg.Format, "env over file")
	assert.Equal(t, "/flag/plots", cfg.PlotDir, "flag over env")
	assert.Equal(t, "warn", cfg.LogLevel)
}

func TestLoad_DefaultLocationMayBeAbsent(t *testing.T) {
	clearEnv(t)
	t.Setenv(EnvConfig, filepath.Join(t.TempDir(), "absent.toml"))

	cfg, err := Load("", Overrides{})
	require.NoError(t, err)
	assert.Equal(t, DefaultCatalogPath, cfg.Catalog)
	assert.Equal(t, DefaultStartTimeout, cfg.StartTimeout.Duration)
}

func TestLoad_ExplicitPathMustExist(t *testing.T) {
	clearEnv(t)
	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"), Overrides{})
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	cfg := &Config{Keys: Keys{Next: "j"}}
	require.NoError(t, cfg.Validate())
	assert.Equal(t, DefaultCatalogPath, cfg.Catalog)
	assert.Equal(t, "k", cfg.Keys.Previous)

	cfg = &Config{Keys: Keys{Next: "x", Previous: "x"}}
	assert.Error(t, cfg.Validate())
}

func TestSaveRoundTrip(t *testing.T) {
	path := filepath.Join(t.TempDir(), "nested", "config.toml")
	cfg := Default()
	cfg.ViewerCommand = "xdg-open"
	cfg.StartTimeout = Duration{2 * time.Second}

	require.NoError(t, Save(cfg, path))

	loaded, err := LoadFile(path, true)
	require.NoError(t, err)
	assert.Equal(t, cfg, loaded)
}

func TestStateDir(t *testing.T) {
	t.Setenv("XDG_STATE_HOME", "/tmp/state")
	assert.Equal(t, filepath.Join("/tmp/state", "plotnav"), StateDir())
}
