package registry

import (
	"fmt"
	"time"

	"github.com/Aleph-Alpha/vectorshard/v1/vectordb"
)

// Config configures the registry tables.
type Config struct {
	// AutoMigrate creates missing tables when the application starts.
	AutoMigrate bool `yaml:"auto_migrate" koanf:"auto_migrate"`

	// TrendingTable is the table that receives one counter column per document.
	TrendingTable string `yaml:"trending_table" koanf:"trending_table"`

	// UsageTimezone is the IANA zone whose calendar day buckets usage counts.
	UsageTimezone string `yaml:"usage_timezone" koanf:"usage_timezone"`
}

func DefaultConfig() Config {
	return Config{
		AutoMigrate:   true,
		TrendingTable: DefaultTrendingTable,
		UsageTimezone: DefaultUsageTimezone,
	}
}

// Validate rejects a trending table name that could not be spliced into
// DDL and an unknown time zone. Empty values fall back to the defaults.
func (c Config) Validate() error {
	if c.TrendingTable != "" && !ValidIdentifier(c.TrendingTable) {
		return fmt.Errorf("%w: trending_table %q", ErrInvalidIdentifier, c.TrendingTable)
	}
	if c.UsageTimezone != "" {
		if _, err := time.LoadLocation(c.UsageTimezone); err != nil {
			return fmt.Errorf("%w: usage_timezone %q: %w", vectordb.ErrInvalidConfiguration, c.UsageTimezone, err)
		}
	}
	return nil
}
