package store

import (
	"context"
	"fmt"
	"strings"
)

// NameCount is one ranked result row.
type NameCount struct {
	Name  string `json:"name"`
	Count int    `json:"count"`
}

// TopGlobal returns the top names across all years by total count, ties
// broken by name so repeated queries return the same order.
func (s *Store) TopGlobal(ctx context.Context, limit int) ([]NameCount, error) {
	return s.collect(ctx,
		`SELECT name, total FROM name_totals
		 ORDER BY total DESC, name ASC LIMIT ?`, limit)
}

// TopByYear returns the top names for a single birth year.
func (s *Store) TopByYear(ctx context.Context, year, limit int) ([]NameCount, error) {
	return s.collect(ctx,
		`SELECT name, count FROM name_year_counts
		 WHERE year = ?
		 ORDER BY count DESC, name ASC LIMIT ?`, year, limit)
}

// TopByPrefix returns the top names (all years) starting with prefix.
// Prefix is expected already normalized.
func (s *Store) TopByPrefix(ctx context.Context, prefix string, limit int) ([]NameCount, error) {
	return s.collect(ctx,
		`SELECT name, total FROM name_totals
		 WHERE name LIKE ? ESCAPE '\'
		 ORDER BY total DESC, name ASC LIMIT ?`, likePrefix(prefix), limit)
}

// TopByYearAndPrefix intersects the year and prefix filters.
func (s *Store) TopByYearAndPrefix(ctx context.Context, year int, prefix string, limit int) ([]NameCount, error) {
	return s.collect(ctx,
		`SELECT name, count FROM name_year_counts
		 WHERE year = ? AND name LIKE ? ESCAPE '\'
		 ORDER BY count DESC, name ASC LIMIT ?`, year, likePrefix(prefix), limit)
}

// YearCount is one point of a name's history.
type YearCount struct {
	Year  int `json:"year"`
	Count int `json:"count"`
}

// YearHistory returns the per-year counts for an exact name, ordered by year.
// Years with no births are simply absent.
func (s *Store) YearHistory(ctx context.Context, name string) ([]YearCount, error) {
	rows, err := s.db.QueryContext(ctx,
		`SELECT year, count FROM name_year_counts
		 WHERE name = ? ORDER BY year ASC`, name)
	if err != nil {
		return nil, fmt.Errorf("year history %s: %w", name, err)
	}
	defer rows.Close()

	var history []YearCount
	for rows.Next() {
		var yc YearCount
		if err := rows.Scan(&yc.Year, &yc.Count); err != nil {
			return nil, fmt.Errorf("scan history row: %w", err)
		}
		history = append(history, yc)
	}
	return history, rows.Err()
}

func (s *Store) collect(ctx context.Context, query string, args ...any) ([]NameCount, error) {
	rows, err := s.db.QueryContext(ctx, query, args...)
	if err != nil {
		return nil, fmt.Errorf("top query: %w", err)
	}
	defer rows.Close()

	var result []NameCount
	for rows.Next() {
		var nc NameCount
		if err := rows.Scan(&nc.Name, &nc.Count); err != nil {
			return nil, fmt.Errorf("scan result row: %w", err)
		}
		result = append(result, nc)
	}
	return result, rows.Err()
}

// likePrefix escapes LIKE metacharacters so the prefix matches literally.
func likePrefix(prefix string) string {
	r := strings.NewReplacer(`\`, `\\`, `%`, `\%`, `_`, `\_`)
	return r.Replace(prefix) + "%"
}
