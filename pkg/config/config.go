package config

import (
	"fmt"
	"path/filepath"
	"strings"

	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"github.com/srodi/hotspot-nmon/pkg/types"
)

// EnvPrefix namespaces environment overrides, e.g. HOTSPOT_NMON_OUTPUT_DIR.
const EnvPrefix = "HOTSPOT_NMON"

const (
	keyOutputDir     = "output-dir"
	keyCPUChart      = "cpu-chart"
	keyMemChart      = "mem-chart"
	keyMaxTimestamps = "max-timestamps"
	keyTopK          = "top-k"
	keyLogLevel      = "log-level"
	keyExport        = "export"
	keyProgress      = "progress"
)

// Config holds the knobs that are not positional arguments.
type Config struct {
	OutputDir     string
	CPUChart      string
	MemChart      string
	MaxTimestamps int
	TopK          int
	LogLevel      string
	Export        string
	Progress      bool
}

// CPUChartPath is where the CPU chart is written.
func (c Config) CPUChartPath() string {
	return filepath.Join(c.OutputDir, c.CPUChart)
}

// MemChartPath is where the memory chart is written.
func (c Config) MemChartPath() string {
	return filepath.Join(c.OutputDir, c.MemChart)
}

// RegisterFlags defines the flags on fs and binds them to v together with
// their HOTSPOT_NMON_* environment variables.
func RegisterFlags(v *viper.Viper, fs *pflag.FlagSet) error {
	fs.String(keyOutputDir, ".", "directory the chart images are written to")
	fs.String(keyCPUChart, "cpu_graph.png", "file name of the CPU chart")
	fs.String(keyMemChart, "mem_graph.png", "file name of the memory chart")
	fs.Int(keyMaxTimestamps, types.DefaultMaxTimestamps, "skip drawing charts with more timestamps than this")
	fs.Int(keyTopK, types.DefaultTopK, "number of processes kept per timestamp")
	fs.String(keyLogLevel, "info", "log level (debug, info, warn, error)")
	fs.String(keyExport, "", "write the aggregated series as YAML to this path")
	fs.Bool(keyProgress, false, "show a progress bar while scanning the monitoring file")

	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer("-", "_"))
	v.AutomaticEnv()

	for _, key := range []string{keyOutputDir, keyCPUChart, keyMemChart, keyMaxTimestamps, keyTopK, keyLogLevel, keyExport, keyProgress} {
		if err := v.BindPFlag(key, fs.Lookup(key)); err != nil {
			return fmt.Errorf("binding %s: %w", key, err)
		}
	}
	return nil
}

// Load resolves the configuration, reading configFile first when given.
// Flags beat environment variables, which beat the file.
func Load(v *viper.Viper, configFile string) (Config, error) {
	if configFile != "" {
		v.SetConfigFile(configFile)
		if err := v.ReadInConfig(); err != nil {
			return Config{}, fmt.Errorf("reading config %s: %w", configFile, err)
		}
	}

	cfg := Config{
		OutputDir:     v.GetString(keyOutputDir),
		CPUChart:      v.GetString(keyCPUChart),
		MemChart:      v.GetString(keyMemChart),
		MaxTimestamps: v.GetInt(keyMaxTimestamps),
		TopK:          v.GetInt(keyTopK),
		LogLevel:      v.GetString(keyLogLevel),
		Export:        v.GetString(keyExport),
		Progress:      v.GetBool(keyProgress),
	}
	if cfg.OutputDir == "" {
		cfg.OutputDir = "."
	}
	if cfg.MaxTimestamps <= 0 {
		return Config{}, fmt.Errorf("%s must be positive, got %d", keyMaxTimestamps, cfg.MaxTimestamps)
	}
	if cfg.TopK <= 0 {
		return Config{}, fmt.Errorf("%s must be positive, got %d", keyTopK, cfg.TopK)
	}
	return cfg, nil
}
