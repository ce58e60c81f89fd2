package cmd

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"plotnav/internal/config"
)

func TestInitConfig(t *testing.T) {
	path := filepath.Join(t.TempDir(), "plotnav", "config.toml")

	err := initConfig(path, config.Overrides{Catalog: "/srv/run1.db3"}, false)
	require.NoError(t, err)

	cfg, err := config.LoadFile(path, true)
	require.NoError(t, err)
	assert.Equal(t, "/srv/run1.db3", cfg.Catalog)
	assert.Equal(t, config.DefaultFormat, cfg.Format)
	assert.Equal(t, config.Keys{Next: "j", Previous: "k"}, cfg.Keys)
}

func TestInitConfig_KeepsExisting(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.toml")
	require.NoError(t, os.WriteFile(path, []byte(`format = "output_print_pdf"`+"\n"), 0644))

	err := initConfig(path, config.Overrides{}, false)
	assert.ErrorContains(t, err, "already exists")

	cfg, err := config.LoadFile(path, true)
	require.NoError(t, err)
	assert.Equal(t, "output_print_pdf", cfg.Format)

	require.NoError(t, initConfig(path, config.Overrides{}, true))
	cfg, err = config.LoadFile(path, true)
	require.NoError(t, err)
	assert.Equal(t, config.DefaultFormat, cfg.Format)
}
