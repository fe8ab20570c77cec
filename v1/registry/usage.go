package registry

import (
	"context"
	"fmt"
	"time"

	"github.com/Aleph-Alpha/vectorshard/v1/logger"
	"github.com/Aleph-Alpha/vectorshard/v1/vectordb"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"
)

// DefaultUsageTimezone is the zone whose calendar day buckets usage counts.
const DefaultUsageTimezone = "Asia/Kolkata"

// UsageTracker counts daily queries per document in pdf_daily_tracker.
type UsageTracker struct {
	pool   ConnPool
	loc    *time.Location
	now    func() time.Time
	logger logger.Logger
}

// NewUsageTracker buckets counts by the calendar day in timezone (IANA name);
// an empty timezone means DefaultUsageTimezone.
func NewUsageTracker(p ConnPool, timezone string, log logger.Logger) (*UsageTracker, error) {
	if timezone == "" {
		timezone = DefaultUsageTimezone
	}
	loc, err := time.LoadLocation(timezone)
	if err != nil {
		return nil, fmt.Errorf("%w: usage timezone %q: %w", vectordb.ErrInvalidConfiguration, timezone, err)
	}
	return &UsageTracker{pool: p, loc: loc, now: time.Now, logger: log}, nil
}

// Track increments today's counter for document, creating the row at 1.
func (u *UsageTracker) Track(ctx context.Context, document string) error {
	if document == "" {
		return fmt.Errorf("%w: document name must not be empty", vectordb.ErrInvalidConfiguration)
	}

	row := DailyUsage{
		PDFName:   document,
		QueryDate: u.now().In(u.loc).Format(time.DateOnly),
		Counter:   1,
	}
	_, err := withConn(ctx, u.pool, func(db *gorm.DB) (struct{}, error) {
		return struct{}{}, db.Clauses(clause.OnConflict{
			Columns: []clause.Column{{Name: "pdf_name"}, {Name: "query_date"}},
			DoUpdates: clause.Assignments(map[string]interface{}{
				"counter": gorm.Expr(UsageTable + ".counter + 1"),
			}),
		}).Create(&row).Error
	})
	if err != nil {
		u.logger.WarnWithContext(ctx, "failed to track daily usage", err, map[string]interface{}{
			"document": document,
			"date":     row.QueryDate,
		})
		return datastoreError("track usage", err)
	}
	return nil
}
