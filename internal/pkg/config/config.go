package config

import (
	"fmt"
	"time"

	"github.com/kelseyhightower/envconfig"
)

// -----------------------------------------------------------------------------
// Environment variable configuration guidelines:
// - required: Values that differ between environments (topic ARN, table name,
//   secret ARN), security settings
// - default: Values common across all environments (retention, cutoff mode),
//   standard settings
// -----------------------------------------------------------------------------

type Config struct {
	Adapter AdapterConfig
	AWS     AWSConfig
	Log     LogConfig
}

type AdapterConfig struct {
	TopicARN           string        `envconfig:"SNS_TOPIC_ARN" required:"true"`
	LedgerTable        string        `envconfig:"DEDUP_TABLE_NAME" required:"true"`
	WarehouseSecretARN string        `envconfig:"REDSHIFT_SECRET_ARN" required:"true"`
	LedgerRetention    time.Duration `envconfig:"LEDGER_RETENTION" default:"72h"`
	DepartureCutoff    string        `envconfig:"DEPARTURE_CUTOFF" default:"by-today"`
	FileDelimiter      string        `envconfig:"FILE_DELIMITER" default:","`
}

type AWSConfig struct {
	Region string `envconfig:"AWS_REGION" default:""`
}

type LogConfig struct {
	Level string `envconfig:"LOG_LEVEL" default:"info"`
}

const (
	// CutoffBeforeToday admits stays whose departure date key is strictly
	// before the current date key.
	CutoffBeforeToday = "before-today"
	// CutoffByToday also admits stays departing on the current date key. This
	// is the default: the warehouse query selects exactly today's departures.
	CutoffByToday = "by-today"
)

func (c *AdapterConfig) Validate() error {
	switch c.DepartureCutoff {
	case CutoffBeforeToday, CutoffByToday:
	default:
		return fmt.Errorf("unknown DEPARTURE_CUTOFF %q", c.DepartureCutoff)
	}
	if len([]rune(c.FileDelimiter)) != 1 {
		return fmt.Errorf("FILE_DELIMITER must be a single character, got %q", c.FileDelimiter)
	}
	return nil
}

func LoadConfig() (Config, error) {
	var cfg Config
	err := envconfig.Process("", &cfg)
	if err != nil {
		return Config{}, fmt.Errorf("failed to process env config: %w", err)
	}
	if err := cfg.Adapter.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func NewTestConfig() Config {
	return Config{
		Adapter: AdapterConfig{
			TopicARN:           "arn:aws:sns:us-west-2:123456789012:poc-stay-event",
			LedgerTable:        "stay-event-dedup",
			WarehouseSecretARN: "arn:aws:secretsmanager:us-west-2:123456789012:secret:redshift",
			LedgerRetention:    72 * time.Hour,
			DepartureCutoff:    CutoffByToday,
			FileDelimiter:      ",",
		},
		AWS: AWSConfig{
			Region: "us-west-2",
		},
		Log: LogConfig{
			Level: "error", // Error level only for tests
		},
	}
}
