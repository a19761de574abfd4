package entity

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestDescriptorValidate(t *testing.T) {
	valid := Descriptor{Name: "Order", Index: "orders"}
	assert.NoError(t, valid.Validate())

	assert.Error(t, Descriptor{Index: "orders"}.Validate())
	assert.Error(t, Descriptor{Name: "Order"}.Validate())

	partitioned := Descriptor{Name: "LogEntry", Index: "logs", HasMultipleIndexes: true}
	assert.Error(t, partitioned.Validate())

	partitioned.Partitions = MonthlyPartitioner{Stem: "logs"}
	assert.NoError(t, partitioned.Validate())
}

func TestCacheScope(t *testing.T) {
	tests := []struct {
		name string
		want string
	}{
		{"Order", "order"},
		{"OrderLine", "order_line"},
		{"HTTPLog", "http_log"},
		{"UserV2", "user_v2"},
		{"main.Order", "main_order"},
		{"*pkg.Order[T]", "pkg_order_t"},
	}
	for _, tt := range tests {
		assert.Equal(t, tt.want, Descriptor{Name: tt.name}.CacheScope(), "name %q", tt.name)
	}
}

func TestMonthlyPartitioner(t *testing.T) {
	p := MonthlyPartitioner{Stem: "logs"}

	from := time.Date(2026, 11, 15, 8, 0, 0, 0, time.UTC)
	to := time.Date(2027, 1, 2, 0, 0, 0, 0, time.UTC)

	assert.Equal(t, []string{"logs-2026.11", "logs-2026.12", "logs-2027.01"}, p.IndexesForRange(from, to))
	assert.Equal(t, []string{"logs-2026.11"}, p.IndexesForRange(from, from))
	// Inverted bounds are normalized.
	assert.Equal(t, []string{"logs-2026.11", "logs-2026.12", "logs-2027.01"}, p.IndexesForRange(to, from))
	assert.Equal(t, "logs-*", p.Wildcard())
}

func TestDailyPartitioner(t *testing.T) {
	p := DailyPartitioner{Stem: "events"}

	from := time.Date(2026, 2, 27, 23, 0, 0, 0, time.UTC)
	to := time.Date(2026, 3, 1, 1, 0, 0, 0, time.UTC)

	assert.Equal(t, []string{"events-2026.02.27", "events-2026.02.28", "events-2026.03.01"}, p.IndexesForRange(from, to))
	assert.Equal(t, "events-*", p.Wildcard())
}
