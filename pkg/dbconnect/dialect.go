package dbconnect

import (
	"strconv"
	"strings"
)

// Dialect прячет различия SQL между встроенным sqlite и postgres.
type Dialect interface {
	Name() string
	// Rebind переписывает плейсхолдеры "?" в синтаксис драйвера.
	Rebind(query string) string
	// Contains - выражение "haystack содержит needle" как подстроку, регистрозависимо и без wildcard'ов.
	Contains(haystack, needle string) string
}

type SqliteDialect struct{}

func (SqliteDialect) Name() string { return "sqlite" }

func (SqliteDialect) Rebind(query string) string { return query }

func (SqliteDialect) Contains(haystack, needle string) string {
	return "instr(" + haystack + ", " + needle + ") > 0"
}

type PostgresDialect struct{}

func (PostgresDialect) Name() string { return "postgres" }

func (PostgresDialect) Rebind(query string) string {
	var b strings.Builder
	b.Grow(len(query) + 8)
	n := 0
	inQuote := false
	for _, r := range query {
		switch {
		case r == '\'':
			inQuote = !inQuote
			b.WriteRune(r)
		case r == '?' && !inQuote:
			n++
			b.WriteString("$" + strconv.Itoa(n))
		default:
			b.WriteRune(r)
		}
	}
	return b.String()
}

func (PostgresDialect) Contains(haystack, needle string) string {
	return "strpos(" + haystack + ", " + needle + ") > 0"
}
