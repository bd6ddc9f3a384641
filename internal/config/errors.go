package config

import "errors"

var (
	ErrReadingConfigFile     = errors.New("failed to read config file")
	ErrUnmarshallingConfig   = errors.New("failed to unmarshal config")
	ErrEmptyKafkaBrokers     = errors.New("kafka brokers list cannot be empty")
	ErrEmptyKafkaInTopic     = errors.New("kafka inTopic cannot be empty")
	ErrEmptyKafkaGroupID     = errors.New("kafka groupID cannot be empty")
	ErrInvalidExportInterval = errors.New("pipeline exportInterval must be positive")
	ErrInvalidBatteryDrain   = errors.New("gnss batteryDrainMa cannot be negative")
	ErrConfigFileMissing     = errors.New("config file not found")
)
