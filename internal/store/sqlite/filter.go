package sqlite

import (
	"strings"

	"github.com/watchlogapp/watchlog/internal/store"
)

// titleFilterQuery composes the shared SELECT for ListTitles and RandomTitle.
// Both paths must apply the identical predicate; only the tail (ordering and
// limit) differs. Returns the query and its bound arguments, excluding any
// arguments the tail needs.
func titleFilterQuery(f store.ListFilter, tail string) (string, []any) {
	var (
		joins []string
		where []string
		args  []any
	)

	if f.UnseenOnly {
		where = append(where, "t.seen = 0")
	}

	if f.Type != "" {
		where = append(where, "t.type = ?")
		args = append(args, string(f.Type))
	}

	if f.Genre != "" {
		joins = append(joins,
			`JOIN title_genres tg ON tg.title_id = t.id
			JOIN genres g ON g.id = tg.genre_id`)
		where = append(where, "g.name = ?")
		args = append(args, strings.TrimSpace(f.Genre))
	}

	if f.Tag != "" {
		joins = append(joins,
			`JOIN title_tags tt ON tt.title_id = t.id
			JOIN tags tagt ON tagt.id = tt.tag_id`)
		where = append(where, "tagt.name = ?")
		args = append(args, strings.TrimSpace(f.Tag))
	}

	var b strings.Builder
	b.WriteString(`SELECT DISTINCT ` + titleColumns + ` FROM titles t`)
	for _, j := range joins {
		b.WriteString(" ")
		b.WriteString(j)
	}
	if len(where) > 0 {
		b.WriteString(" WHERE ")
		b.WriteString(strings.Join(where, " AND "))
	}
	b.WriteString(" ")
	b.WriteString(tail)

	return b.String(), args
}
