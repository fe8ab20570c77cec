package registry

import (
	"context"
	"fmt"

	"gorm.io/gorm"
)

// Migrate creates the placement, usage and trending tables when missing.
// Existing tables are only extended, never altered destructively.
func Migrate(ctx context.Context, p ConnPool, trendingTable string) error {
	if trendingTable == "" {
		trendingTable = DefaultTrendingTable
	}
	if !ValidIdentifier(trendingTable) {
		return fmt.Errorf("%w: table %q", ErrInvalidIdentifier, trendingTable)
	}

	_, err := withConn(ctx, p, func(db *gorm.DB) (struct{}, error) {
		if err := db.AutoMigrate(&Placement{}, &DailyUsage{}); err != nil {
			return struct{}{}, err
		}
		return struct{}{}, db.Table(trendingTable).AutoMigrate(&trendingRow{})
	})
	if err != nil {
		return datastoreError("migrate registry schema", err)
	}
	return nil
}
