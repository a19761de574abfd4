package cache

import (
	"fmt"
	"strconv"
	"strings"

	"github.com/cespare/xxhash/v2"
	"github.com/goliatone/go-repository-search/query"
)

// KeySeparator delimits cache key segments.
const KeySeparator = ":"

// DeletedSetKey is the scoped key of the soft-delete tombstone set.
const DeletedSetKey = "deleted"

// Operation-family prefixes keep a count and a find that share a base cache
// key from colliding.
const (
	findPrefix    = "find"
	findOnePrefix = "one"
	countPrefix   = "count"
)

// FindPageKey derives the result-cache key for one offset page. The
// page/limit suffix guarantees two pages of the same logical query never
// collide.
func FindPageKey(base string, page, limit int) string {
	return strings.Join([]string{findPrefix, base, strconv.Itoa(page), strconv.Itoa(limit)}, KeySeparator)
}

// FindOneKey derives the result-cache key for a find-one.
func FindOneKey(base string) string {
	return findOnePrefix + KeySeparator + base
}

// CountKey derives the result-cache key for a count.
func CountKey(base string) string {
	return countPrefix + KeySeparator + base
}

// QueryKey derives a stable cache key from a query value, for callers that
// want query-shaped keys instead of hand-chosen ones. Equal queries always
// produce equal keys within and across processes; the digest keeps keys
// short and free of characters cache backends reject.
func QueryKey(q *query.Query) string {
	if q == nil {
		return "q" + KeySeparator + "empty"
	}

	var b strings.Builder
	b.WriteString(q.Filter)
	b.WriteByte('|')
	b.WriteString(q.Search)
	b.WriteByte('|')
	b.WriteString(q.Sort)
	b.WriteByte('|')
	b.WriteString(q.Aggregations)
	b.WriteByte('|')
	for _, id := range q.Ids {
		b.WriteString(id.Value)
		b.WriteByte(',')
	}
	b.WriteByte('|')
	for _, id := range q.ExcludedIds {
		b.WriteString(id.Value)
		b.WriteByte(',')
	}
	b.WriteByte('|')
	b.WriteString(strings.Join(q.Fields, ","))
	b.WriteByte('|')
	b.WriteString(strings.Join(q.ExcludeFields, ","))
	if q.Range != nil {
		b.WriteByte('|')
		b.WriteString(strconv.FormatInt(q.Range.From.UnixNano(), 10))
		b.WriteByte('-')
		b.WriteString(strconv.FormatInt(q.Range.To.UnixNano(), 10))
	}

	return fmt.Sprintf("q%s%016x", KeySeparator, xxhash.Sum64String(b.String()))
}
