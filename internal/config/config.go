package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

const (
	defaultKafkaGroupID   = "gnsslens-default-group"
	defaultExportInterval = 1 * time.Minute
	defaultMetricsAddr    = ":9090"
	defaultBatteryDrainMa = 40.0
	defaultPropertyPrefix = "GNSSLENS"
	defaultLogLevel       = "info"
	defaultLogFormat      = "console"
	defaultLogFileEnabled = false
	defaultLogDirectory   = "log"
	defaultLogFilename    = "gnsslens.log"
	defaultLogMaxSizeMB   = 100
	defaultLogMaxBackups  = 3
	defaultLogMaxAgeDays  = 7
	defaultLogCompress    = false

	// Environment variable prefix
	envPrefix = "GNSSLENS"
)

type Config struct {
	Kafka    KafkaConfig    `mapstructure:"kafka"`
	Pipeline PipelineConfig `mapstructure:"pipeline"`
	Gnss     GnssConfig     `mapstructure:"gnss"`
	Log      LogConfig      `mapstructure:"log"`
}

type KafkaConfig struct {
	Brokers []string `mapstructure:"brokers"`
	// InTopic carries measurement events; OutTopic receives encoded
	// summaries. An empty OutTopic disables publishing.
	InTopic  string `mapstructure:"inTopic"`
	OutTopic string `mapstructure:"outTopic"`
	GroupID  string `mapstructure:"groupID"`
}

type PipelineConfig struct {
	// ExportInterval is how often the aggregator is exported and reset.
	ExportInterval time.Duration `mapstructure:"exportInterval"`
	// MetricsAddr is the listen address for the Prometheus /metrics endpoint.
	MetricsAddr string `mapstructure:"metricsAddr"`
}

type GnssConfig struct {
	// BatteryDrainMa is the assumed receiver draw used by the in-process
	// battery accountant.
	BatteryDrainMa float64 `mapstructure:"batteryDrainMa"`
	// PropertyPrefix namespaces the environment-backed property store.
	PropertyPrefix string `mapstructure:"propertyPrefix"`
}

type LogConfig struct {
	Level              string `mapstructure:"level"`
	Format             string `mapstructure:"format"`
	FileLoggingEnabled bool   `mapstructure:"fileLoggingEnabled"`
	Directory          string `mapstructure:"directory"`
	Filename           string `mapstructure:"filename"`
	MaxSize            int    `mapstructure:"maxSize"`    // Max size in MB
	MaxBackups         int    `mapstructure:"maxBackups"` // Max backup files
	MaxAge             int    `mapstructure:"maxAge"`     // Max days to retain
	Compress           bool   `mapstructure:"compress"`   // Compress rotated files?
}

// Load initializes viper, reads config, applies defaults, unmarshals, and validates.
func Load(configPath string) (*Config, error) {
	v := viper.New()
	configureViper(v, configPath)
	setDefaults(v)

	if err := readConfigFile(v); err != nil {
		return nil, err
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("%w: %w", ErrUnmarshallingConfig, err)
	}

	if err := validateConfig(&cfg); err != nil {
		return nil, err
	}

	return &cfg, nil
}

// configureViper sets up viper instance for file and environment variables.
func configureViper(v *viper.Viper, configPath string) {
	if configPath != "" {
		v.SetConfigFile(configPath)
	}

	v.SetEnvPrefix(envPrefix)
	v.AutomaticEnv()
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("kafka.groupID", defaultKafkaGroupID)
	v.SetDefault("pipeline.exportInterval", defaultExportInterval)
	v.SetDefault("pipeline.metricsAddr", defaultMetricsAddr)
	v.SetDefault("gnss.batteryDrainMa", defaultBatteryDrainMa)
	v.SetDefault("gnss.propertyPrefix", defaultPropertyPrefix)
	v.SetDefault("log.level", defaultLogLevel)
	v.SetDefault("log.format", defaultLogFormat)
	v.SetDefault("log.fileLoggingEnabled", defaultLogFileEnabled)
	v.SetDefault("log.directory", defaultLogDirectory)
	v.SetDefault("log.filename", defaultLogFilename)
	v.SetDefault("log.maxSize", defaultLogMaxSizeMB)
	v.SetDefault("log.maxBackups", defaultLogMaxBackups)
	v.SetDefault("log.maxAge", defaultLogMaxAgeDays)
	v.SetDefault("log.compress", defaultLogCompress)
}

// readConfigFile attempts to read the configuration file specified in viper.
func readConfigFile(v *viper.Viper) error {
	err := v.ReadInConfig()
	if err != nil {
		var configFileNotFoundError viper.ConfigFileNotFoundError
		if errors.As(err, &configFileNotFoundError) {
			return ErrConfigFileMissing
		}
		return fmt.Errorf("%w: %w", ErrReadingConfigFile, err)
	}
	return nil
}

func validateConfig(cfg *Config) error {
	if len(cfg.Kafka.Brokers) == 0 {
		return ErrEmptyKafkaBrokers
	}
	if cfg.Kafka.InTopic == "" {
		return ErrEmptyKafkaInTopic
	}
	if cfg.Kafka.GroupID == "" {
		return ErrEmptyKafkaGroupID
	}
	if cfg.Pipeline.ExportInterval <= 0 {
		return ErrInvalidExportInterval
	}
	if cfg.Gnss.BatteryDrainMa < 0 {
		return ErrInvalidBatteryDrain
	}
	return nil
}
