// Package config loads the CLI host configuration.
//
// Settings come from, in increasing priority: built-in defaults, an optional
// YAML file, a .env file in the working directory, and SHEETFORGE_* environment
// variables (e.g. SHEETFORGE_GENERATION_MAX_CHUNK_SIZE).
package config

import (
	"errors"
	"fmt"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
	"github.com/ukaji3/sheetforge/pkg/sheetforge"
	"github.com/ukaji3/sheetforge/pkg/sheetforge/models"
	"github.com/ukaji3/sheetforge/pkg/sheetforge/parser"
	"github.com/ukaji3/sheetforge/pkg/sheetforge/sanitize"
)

// EnvPrefix prefixes every environment override.
const EnvPrefix = "SHEETFORGE"

// DefaultConfigName is the file searched for in the working directory when
// no explicit path is given.
const DefaultConfigName = "sheetforge"

// Header heuristic names accepted in detection.header.
const (
	HeaderNumericFree = "numeric_free"
	HeaderMajority    = "majority"
)

// Config holds all host configuration.
type Config struct {
	Generation GenerationSettings `mapstructure:"generation" yaml:"generation"`
	Detection  DetectionSettings  `mapstructure:"detection" yaml:"detection"`
	Logging    LoggingSettings    `mapstructure:"logging" yaml:"logging"`
}

// GenerationSettings mirrors models.GenerationConfig in file form.
type GenerationSettings struct {
	MaxChunkSize        int    `mapstructure:"max_chunk_size" yaml:"max_chunk_size"`
	MaxMemoryMB         int    `mapstructure:"max_memory_mb" yaml:"max_memory_mb"`
	ErrorPolicy         string `mapstructure:"error_policy" yaml:"error_policy"`
	SanitizeFieldNames  bool   `mapstructure:"sanitize_field_names" yaml:"sanitize_field_names"`
	MaxFieldNameLength  int    `mapstructure:"max_field_name_length" yaml:"max_field_name_length"`
	ValidationEnabled   bool   `mapstructure:"validation_enabled" yaml:"validation_enabled"`
	Compression         bool   `mapstructure:"compression" yaml:"compression"`
	Title               string `mapstructure:"title" yaml:"title"`
	AlternateRowShading bool   `mapstructure:"alternate_row_shading" yaml:"alternate_row_shading"`
	FreezeHeader        bool   `mapstructure:"freeze_header" yaml:"freeze_header"`
	AutoFilter          bool   `mapstructure:"auto_filter" yaml:"auto_filter"`

	// DefaultValues overrides missing-field defaults. Keys are lower-cased
	// by the loader, so they should name lower-case fields.
	DefaultValues map[string]interface{} `mapstructure:"default_values" yaml:"default_values"`
}

// DetectionSettings configures table detection.
type DetectionSettings struct {
	MinCells      int      `mapstructure:"min_cells" yaml:"min_cells"`
	TypeThreshold float64  `mapstructure:"type_threshold" yaml:"type_threshold"`
	Header        string   `mapstructure:"header" yaml:"header"`
	Sheets        []string `mapstructure:"sheets" yaml:"sheets"`
}

// LoggingSettings configures the slog handler.
type LoggingSettings struct {
	// Level is debug, info, warn or error.
	Level string `mapstructure:"level" yaml:"level"`
	// Format is text or json.
	Format string `mapstructure:"format" yaml:"format"`
}

func setDefaults(v *viper.Viper) {
	gen := models.DefaultGenerationConfig()
	v.SetDefault("generation.max_chunk_size", gen.MaxChunkSize)
	v.SetDefault("generation.max_memory_mb", gen.MaxMemoryMB)
	v.SetDefault("generation.error_policy", gen.ErrorPolicy.String())
	v.SetDefault("generation.sanitize_field_names", gen.SanitizeFieldNames)
	v.SetDefault("generation.max_field_name_length", gen.MaxFieldNameLength)
	v.SetDefault("generation.validation_enabled", gen.ValidationEnabled)
	v.SetDefault("generation.compression", gen.Compression)
	v.SetDefault("generation.title", gen.Title)
	v.SetDefault("generation.alternate_row_shading", gen.AlternateRowShading)
	v.SetDefault("generation.freeze_header", gen.FreezeHeader)
	v.SetDefault("generation.auto_filter", gen.AutoFilter)

	det := parser.DefaultTableParams()
	v.SetDefault("detection.min_cells", det.MinCells)
	v.SetDefault("detection.type_threshold", det.TypeThreshold)
	v.SetDefault("detection.header", HeaderNumericFree)
	v.SetDefault("detection.sheets", []string{})

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "text")
}

// Default returns the configuration used when nothing overrides it.
func Default() *Config {
	v := viper.New()
	setDefaults(v)
	var cfg Config
	_ = v.Unmarshal(&cfg)
	return &cfg
}

// Load reads configuration. An explicit cfgFile must exist; otherwise
// ./sheetforge.yaml is used when present.
func Load(cfgFile string) (*Config, error) {
	// A missing .env is normal.
	_ = godotenv.Load()

	v := viper.New()
	setDefaults(v)
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if cfgFile != "" {
		v.SetConfigFile(cfgFile)
		if err := v.ReadInConfig(); err != nil {
			return nil, fmt.Errorf("failed to read config %s: %w", cfgFile, err)
		}
	} else {
		v.SetConfigName(DefaultConfigName)
		v.SetConfigType("yaml")
		v.AddConfigPath(".")
		if err := v.ReadInConfig(); err != nil {
			var notFound viper.ConfigFileNotFoundError
			if !errors.As(err, &notFound) {
				return nil, fmt.Errorf("failed to read config: %w", err)
			}
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	return &cfg, nil
}

// Validate checks every setting and reports all problems at once.
func (c *Config) Validate() error {
	var errs []string

	g := c.Generation
	if g.MaxChunkSize < models.MinChunkSize || g.MaxChunkSize > models.MaxChunkSize {
		errs = append(errs, fmt.Sprintf("generation.max_chunk_size (%d) must be %d-%d",
			g.MaxChunkSize, models.MinChunkSize, models.MaxChunkSize))
	}
	if g.MaxMemoryMB < models.MinMemoryMB || g.MaxMemoryMB > models.MaxMemoryMB {
		errs = append(errs, fmt.Sprintf("generation.max_memory_mb (%d) must be %d-%d",
			g.MaxMemoryMB, models.MinMemoryMB, models.MaxMemoryMB))
	}
	if g.MaxFieldNameLength < models.MinFieldNameLength || g.MaxFieldNameLength > models.MaxFieldNameLength {
		errs = append(errs, fmt.Sprintf("generation.max_field_name_length (%d) must be %d-%d",
			g.MaxFieldNameLength, models.MinFieldNameLength, models.MaxFieldNameLength))
	}
	if _, err := models.ParseErrorPolicy(g.ErrorPolicy); err != nil {
		errs = append(errs, "generation.error_policy: "+err.Error())
	}

	d := c.Detection
	if d.MinCells < 1 {
		errs = append(errs, fmt.Sprintf("detection.min_cells (%d) must be positive", d.MinCells))
	}
	if d.TypeThreshold <= 0 || d.TypeThreshold > 1 {
		errs = append(errs, fmt.Sprintf("detection.type_threshold (%v) must be in (0, 1]", d.TypeThreshold))
	}
	switch strings.ToLower(d.Header) {
	case HeaderNumericFree, HeaderMajority:
	default:
		errs = append(errs, fmt.Sprintf("detection.header %q must be %s or %s", d.Header, HeaderNumericFree, HeaderMajority))
	}

	switch strings.ToLower(c.Logging.Level) {
	case "debug", "info", "warn", "warning", "error":
	default:
		errs = append(errs, fmt.Sprintf("logging.level %q must be debug, info, warn or error", c.Logging.Level))
	}
	switch strings.ToLower(c.Logging.Format) {
	case "text", "json":
	default:
		errs = append(errs, fmt.Sprintf("logging.format %q must be text or json", c.Logging.Format))
	}

	if len(errs) > 0 {
		return fmt.Errorf("config validation failed:\n  - %s", strings.Join(errs, "\n  - "))
	}
	return nil
}

// GenerationConfig converts the generation settings into a normalized
// core configuration.
func (c *Config) GenerationConfig() (models.GenerationConfig, error) {
	g := c.Generation
	policy, err := models.ParseErrorPolicy(g.ErrorPolicy)
	if err != nil {
		return models.GenerationConfig{}, err
	}
	out := models.GenerationConfig{
		MaxChunkSize:        g.MaxChunkSize,
		MaxMemoryMB:         g.MaxMemoryMB,
		ErrorPolicy:         policy,
		SanitizeFieldNames:  g.SanitizeFieldNames,
		MaxFieldNameLength:  g.MaxFieldNameLength,
		ValidationEnabled:   g.ValidationEnabled,
		Compression:         g.Compression,
		Title:               g.Title,
		AlternateRowShading: g.AlternateRowShading,
		FreezeHeader:        g.FreezeHeader,
		AutoFilter:          g.AutoFilter,
	}
	if len(g.DefaultValues) > 0 {
		out.DefaultValues = make(map[string]models.Value, len(g.DefaultValues))
		for k, v := range g.DefaultValues {
			out.DefaultValues[k] = sanitize.CoerceValue(v)
		}
	}
	return out.Normalize(), nil
}

// DetectOptions converts the detection settings into library options.
func (c *Config) DetectOptions() sheetforge.DetectOptions {
	opts := sheetforge.DefaultDetectOptions()
	opts.Params = parser.TableDetectionParams{
		MinCells:      c.Detection.MinCells,
		TypeThreshold: c.Detection.TypeThreshold,
	}
	if strings.EqualFold(c.Detection.Header, HeaderMajority) {
		opts.Header = parser.MajorityTextHeader{}
	}
	opts.Sheets = c.Detection.Sheets
	return opts
}
