package entity

import (
	"time"

	validation "github.com/go-ozzo/ozzo-validation/v4"
)

// Descriptor declares the capabilities of an entity type once, at
// registration time. The engine consults these flags instead of discovering
// capabilities at call time; an operation invoked against a type lacking a
// required flag fails fast with an unsupported-capability error.
type Descriptor struct {
	// Name identifies the entity type. It also namespaces every cache key
	// the coordinator produces for this type.
	Name string

	// Index is the backend index holding this type's documents. For
	// time-partitioned families it is the index name stem.
	Index string

	HasIdentity         bool
	HasCreatedDate      bool
	SupportsSoftDeletes bool
	HasVersion          bool
	HasParent           bool
	HasMultipleIndexes  bool

	// Partitions maps time ranges onto the candidate index subset for
	// time-partitioned families. Required when HasMultipleIndexes is set.
	Partitions Partitioner
}

// Validate checks the descriptor for structural problems.
func (d Descriptor) Validate() error {
	if err := validation.ValidateStruct(&d,
		validation.Field(&d.Name, validation.Required),
		validation.Field(&d.Index, validation.Required),
	); err != nil {
		return err
	}
	if d.HasMultipleIndexes && d.Partitions == nil {
		return validation.Errors{"Partitions": validation.NewError(
			"validation_required", "required when HasMultipleIndexes is set")}
	}
	return nil
}

// CacheScope returns the cache namespace for this type: the snake_cased
// type name, so reflected or generic type names never leak characters the
// cache backend rejects.
func (d Descriptor) CacheScope() string {
	return toSnake(d.Name)
}

// Partitioner resolves the candidate indices of a time-partitioned entity
// family. Resolving without a time hint falls back to the wildcard
// expression covering every partition, which is the documented costlier
// path of this capability.
type Partitioner interface {
	IndexesForRange(from, to time.Time) []string
	Wildcard() string
}

// MonthlyPartitioner partitions an index family by calendar month, one
// index per month named "<stem>-YYYY.MM".
type MonthlyPartitioner struct {
	Stem string
}

// IndexesForRange returns one index per month touched by [from, to].
func (p MonthlyPartitioner) IndexesForRange(from, to time.Time) []string {
	if to.Before(from) {
		from, to = to, from
	}
	var out []string
	cur := time.Date(from.Year(), from.Month(), 1, 0, 0, 0, 0, time.UTC)
	end := time.Date(to.Year(), to.Month(), 1, 0, 0, 0, 0, time.UTC)
	for !cur.After(end) {
		out = append(out, p.Stem+"-"+cur.Format("2006.01"))
		cur = cur.AddDate(0, 1, 0)
	}
	return out
}

// Wildcard returns the expression matching every partition of the family.
func (p MonthlyPartitioner) Wildcard() string {
	return p.Stem + "-*"
}

// DailyPartitioner partitions an index family by day, one index per day
// named "<stem>-YYYY.MM.DD".
type DailyPartitioner struct {
	Stem string
}

// IndexesForRange returns one index per day touched by [from, to].
func (p DailyPartitioner) IndexesForRange(from, to time.Time) []string {
	if to.Before(from) {
		from, to = to, from
	}
	var out []string
	cur := from.UTC().Truncate(24 * time.Hour)
	end := to.UTC().Truncate(24 * time.Hour)
	for !cur.After(end) {
		out = append(out, p.Stem+"-"+cur.Format("2006.01.02"))
		cur = cur.AddDate(0, 0, 1)
	}
	return out
}

// Wildcard returns the expression matching every partition of the family.
func (p DailyPartitioner) Wildcard() string {
	return p.Stem + "-*"
}
