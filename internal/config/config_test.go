package config

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Veraticus/partflow/internal/classification"
	"github.com/Veraticus/partflow/internal/common"
)

func TestLoad_Defaults(t *testing.T) {
	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.NotEmpty(t, cfg.Database.Path)
	assert.Equal(t, 100, cfg.Ingest.BatchSize)
	assert.Positive(t, cfg.Ingest.Workers)
	assert.Equal(t, "PHP", cfg.Currency.Code)
	assert.InDelta(t, 56.0, cfg.Currency.Rate, 0.0001)
	assert.Equal(t, classification.DefaultPolicy(), cfg.Classification)
	assert.Equal(t, "info", cfg.Logging.Level)
}

func TestLoad_FromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
ingest:
  source_dir: /srv/products
  batch_size: 250
database:
  driver: postgres
  dsn: postgres://localhost/catalog
currency:
  code: USD
  rate: 1
classification:
  detect_threshold: 4
  accept_required_alone: false
  weights:
    excluded: 20
`), 0600))

	v := viper.New()
	v.SetConfigFile(path)
	require.NoError(t, v.ReadInConfig())

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "/srv/products", cfg.Ingest.SourceDir)
	assert.Equal(t, 250, cfg.Ingest.BatchSize)
	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://localhost/catalog", cfg.Database.DSN)
	assert.Equal(t, "USD", cfg.Currency.Code)
	assert.Equal(t, 4, cfg.Classification.DetectThreshold)
	assert.False(t, cfg.Classification.AcceptRequiredAlone)
	assert.True(t, cfg.Classification.AcceptRequiredWithPattern)
	assert.Equal(t, 20, cfg.Classification.Weights.Excluded)
	assert.Equal(t, 5, cfg.Classification.Weights.Pattern)
}

func TestLoad_ValidationErrors(t *testing.T) {
	tests := []struct {
		values map[string]any
		name   string
		field  string
	}{
		{name: "unknown driver", values: map[string]any{"database.driver": "mysql"}, field: "Driver"},
		{name: "postgres without dsn", values: map[string]any{"database.driver": "postgres"}, field: "DSN"},
		{name: "zero batch size", values: map[string]any{"ingest.batch_size": 0}, field: "BatchSize"},
		{name: "negative rate", values: map[string]any{"currency.rate": -1.0}, field: "Rate"},
		{name: "bad currency code", values: map[string]any{"currency.code": "pesos"}, field: "Code"},
		{name: "bad log level", values: map[string]any{"logging.level": "verbose"}, field: "Level"},
		{name: "empty source", values: map[string]any{"ingest.source_dir": ""}, field: "SourceDir"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			for k, val := range tt.values {
				v.Set(k, val)
			}
			_, err := Load(v)
			require.ErrorIs(t, err, common.ErrInvalidConfig)
			assert.Contains(t, err.Error(), tt.field)
		})
	}
}

func TestExpandPath(t *testing.T) {
	home, err := os.UserHomeDir()
	require.NoError(t, err)
	t.Setenv("PARTFLOW_TEST_DIR", "/tmp/partflow")

	assert.Equal(t, "", ExpandPath(""))
	assert.Equal(t, home, ExpandPath("~"))
	assert.Equal(t, filepath.Join(home, "data"), ExpandPath("~/data"))
	assert.Equal(t, "/tmp/partflow/x.db", ExpandPath("$PARTFLOW_TEST_DIR/x.db"))
	assert.Equal(t, "relative/path", ExpandPath("relative/path"))
}

func TestLoad_EnvironmentOverrides(t *testing.T) {
	t.Setenv("PARTFLOW_DATABASE_DRIVER", "postgres")
	t.Setenv("PARTFLOW_DATABASE_DSN", "postgres://env/catalog")
	t.Setenv("PARTFLOW_METRICS_TEXTFILE", "/var/lib/node_exporter/partflow.prom")

	v := viper.New()
	v.SetEnvPrefix("PARTFLOW")
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	cfg, err := Load(v)
	require.NoError(t, err)

	assert.Equal(t, "postgres", cfg.Database.Driver)
	assert.Equal(t, "postgres://env/catalog", cfg.Database.DSN)
	assert.Equal(t, "/var/lib/node_exporter/partflow.prom", cfg.Metrics.Textfile)
}
