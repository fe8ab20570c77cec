package registry

import (
	"fmt"

	"github.com/Aleph-Alpha/vectorshard/v1/vectordb"
)

const (
	PlacementTable = "volume_handling_table"
	UsageTable     = "pdf_daily_tracker"

	DefaultTrendingTable = "cat_is_trending"
)

// Placement records which index, in which project, holds a namespace.
// A placement is written once and never changes.
type Placement struct {
	Namespace string `gorm:"column:namespace;primaryKey;size:255" json:"namespace"`
	IndexName string `gorm:"column:index_name;size:255;not null;index" json:"indexName"`
	Project   string `gorm:"column:project;size:64;not null" json:"project"`
}

func (Placement) TableName() string {
	return PlacementTable
}

func (p Placement) Validate() error {
	switch {
	case p.Namespace == "":
		return fmt.Errorf("%w: namespace must not be empty", vectordb.ErrInvalidConfiguration)
	case p.IndexName == "":
		return fmt.Errorf("%w: index name must not be empty", vectordb.ErrInvalidConfiguration)
	case p.Project == "":
		return fmt.Errorf("%w: project must not be empty", vectordb.ErrInvalidConfiguration)
	}
	return nil
}

// DailyUsage counts queries against one document per calendar day.
type DailyUsage struct {
	PDFName   string `gorm:"column:pdf_name;primaryKey;size:255"`
	QueryDate string `gorm:"column:query_date;primaryKey;type:date"`
	Counter   int64  `gorm:"column:counter;not null;default:0"`
}

func (DailyUsage) TableName() string {
	return UsageTable
}

// trendingRow is the base shape of the trending table; document columns are
// added at runtime.
type trendingRow struct {
	ID uint64 `gorm:"column:id;primaryKey;autoIncrement"`
}

// InsertResult is the outcome of a successful Insert.
type InsertResult int

const (
	Inserted InsertResult = iota + 1
	AlreadyExists
)

func (r InsertResult) String() string {
	switch r {
	case Inserted:
		return "inserted"
	case AlreadyExists:
		return "already_exists"
	}
	return "unknown"
}
