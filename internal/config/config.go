package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"runtime"
	"strings"
	"sync"

	"github.com/go-playground/validator/v10"
	"github.com/spf13/viper"

	"github.com/Veraticus/partflow/internal/classification"
	"github.com/Veraticus/partflow/internal/common"
	"github.com/Veraticus/partflow/internal/normalize"
	"github.com/Veraticus/partflow/internal/storage"
)

// Config is the typed view of the viper configuration.
type Config struct {
	Database       DatabaseConfig        `mapstructure:"database"`
	Ingest         IngestConfig          `mapstructure:"ingest"`
	Currency       CurrencyConfig        `mapstructure:"currency"`
	Logging        LoggingConfig         `mapstructure:"logging"`
	Metrics        MetricsConfig         `mapstructure:"metrics"`
	Classification classification.Policy `mapstructure:"classification"`
}

// IngestConfig configures a pipeline run.
type IngestConfig struct {
	SourceDir  string `mapstructure:"source_dir" validate:"required"`
	RulesFile  string `mapstructure:"rules_file"`
	ExportPath string `mapstructure:"export_path"`
	Workers    int    `mapstructure:"workers" validate:"gte=1,lte=256"`
	BatchSize  int    `mapstructure:"batch_size" validate:"gte=1,lte=10000"`
}

// DatabaseConfig selects and configures the catalog backend.
type DatabaseConfig struct {
	Driver   string `mapstructure:"driver" validate:"oneof=sqlite postgres"`
	Path     string `mapstructure:"path" validate:"required_if=Driver sqlite"`
	DSN      string `mapstructure:"dsn" validate:"required_if=Driver postgres"`
	MaxConns int32  `mapstructure:"max_conns" validate:"gte=0"`
}

// CurrencyConfig controls price conversion.
type CurrencyConfig struct {
	Code string  `mapstructure:"code" validate:"required,len=3,uppercase"`
	Rate float64 `mapstructure:"rate" validate:"gt=0"`
}

// LoggingConfig mirrors the --log-level and --log-format flags.
type LoggingConfig struct {
	Level  string `mapstructure:"level" validate:"oneof=debug info warn error"`
	Format string `mapstructure:"format" validate:"oneof=console json text"`
}

// MetricsConfig controls the Prometheus textfile written after a run.
type MetricsConfig struct {
	Textfile string `mapstructure:"textfile"`
}

var (
	validate     *validator.Validate
	validateOnce sync.Once
)

func getValidator() *validator.Validate {
	validateOnce.Do(func() {
		validate = validator.New(validator.WithRequiredStructEnabled())
	})
	return validate
}

// SetDefaults registers the default value of every key on v.
func SetDefaults(v *viper.Viper) {
	dataDir := "~/.local/share/partflow"
	if xdg := os.Getenv("XDG_DATA_HOME"); xdg != "" {
		dataDir = filepath.Join(xdg, "partflow")
	}

	v.SetDefault("ingest.source_dir", "./data/products")
	v.SetDefault("ingest.rules_file", "")
	v.SetDefault("ingest.export_path", "")
	v.SetDefault("database.dsn", "")
	v.SetDefault("metrics.textfile", "")
	v.SetDefault("ingest.workers", runtime.NumCPU())
	v.SetDefault("ingest.batch_size", storage.DefaultBatchSize)
	v.SetDefault("database.driver", "sqlite")
	v.SetDefault("database.path", filepath.Join(dataDir, "catalog.db"))
	v.SetDefault("database.max_conns", 4)
	v.SetDefault("currency.code", storage.DefaultCurrency)
	v.SetDefault("currency.rate", normalize.DefaultRate)
	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "console")

	policy := classification.DefaultPolicy()
	v.SetDefault("classification.detect_threshold", policy.DetectThreshold)
	v.SetDefault("classification.weights.required", policy.Weights.Required)
	v.SetDefault("classification.weights.pattern", policy.Weights.Pattern)
	v.SetDefault("classification.weights.spec", policy.Weights.Spec)
	v.SetDefault("classification.weights.excluded", policy.Weights.Excluded)
	v.SetDefault("classification.weights.price_in_range", policy.Weights.PriceInRange)
	v.SetDefault("classification.accept_required_with_pattern", policy.AcceptRequiredWithPattern)
	v.SetDefault("classification.accept_pattern_with_brand", policy.AcceptPatternWithBrand)
	v.SetDefault("classification.accept_required_with_spec", policy.AcceptRequiredWithSpec)
	v.SetDefault("classification.accept_required_alone", policy.AcceptRequiredAlone)
}

// Load decodes and validates the configuration held by v. Paths are
// expanded.
func Load(v *viper.Viper) (*Config, error) {
	SetDefaults(v)

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}

	cfg.Ingest.SourceDir = ExpandPath(cfg.Ingest.SourceDir)
	cfg.Ingest.RulesFile = ExpandPath(cfg.Ingest.RulesFile)
	cfg.Ingest.ExportPath = ExpandPath(cfg.Ingest.ExportPath)
	cfg.Database.Path = ExpandPath(cfg.Database.Path)
	cfg.Metrics.Textfile = ExpandPath(cfg.Metrics.Textfile)
	cfg.Database.Driver = strings.ToLower(cfg.Database.Driver)

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// Validate checks every field constraint and reports all failures at once.
func (c *Config) Validate() error {
	err := getValidator().Struct(c)
	if err == nil {
		return nil
	}

	var fieldErrs validator.ValidationErrors
	if !errors.As(err, &fieldErrs) {
		return fmt.Errorf("%w: %v", common.ErrInvalidConfig, err)
	}

	messages := make([]string, 0, len(fieldErrs))
	for _, fe := range fieldErrs {
		msg := fmt.Sprintf("%s failed %q", fe.Namespace(), fe.Tag())
		if fe.Param() != "" {
			msg += fmt.Sprintf(" (%s)", fe.Param())
		}
		messages = append(messages, msg)
	}
	return fmt.Errorf("%w: %s", common.ErrInvalidConfig, strings.Join(messages, "; "))
}
