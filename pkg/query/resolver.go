// CLAUDE:SUMMARY Query resolver: dispatches (prefix?, year?) to the four index paths, applies the gender split, truncates for display.
package query

import (
	"context"
	"log/slog"
	"strconv"
	"strings"

	"github.com/ralsina/nombres/pkg/gender"
	"github.com/ralsina/nombres/pkg/metrics"
	"github.com/ralsina/nombres/pkg/names"
	"github.com/ralsina/nombres/pkg/store"
)

const (
	// FetchLimit is how many rows the index stage returns, so the gender
	// split has something to discard from.
	FetchLimit = 50
	// DisplayLimit caps the final result.
	DisplayLimit = 10
)

// Request is a parsed query. Zero values mean "filter absent".
type Request struct {
	Prefix  string
	Year    int
	HasYear bool
	Gender  string // "f", "m", or "" for no split
}

// ParseParams builds a Request from the raw p/a/g parameters. A year that
// does not parse and a gender outside f/m are treated as absent, not as
// errors: the query proceeds on the remaining filters.
func ParseParams(p, a, g string) Request {
	var req Request

	req.Prefix = names.Normalize(strings.TrimSpace(p))

	if year, err := strconv.Atoi(strings.TrimSpace(a)); err == nil {
		req.Year = year
		req.HasYear = true
	}

	if g == "f" || g == "m" {
		req.Gender = g
	}
	return req
}

// Index is the subset of the store the resolver reads.
type Index interface {
	TopGlobal(ctx context.Context, limit int) ([]store.NameCount, error)
	TopByYear(ctx context.Context, year, limit int) ([]store.NameCount, error)
	TopByPrefix(ctx context.Context, prefix string, limit int) ([]store.NameCount, error)
	TopByYearAndPrefix(ctx context.Context, year int, prefix string, limit int) ([]store.NameCount, error)
}

// Splitter partitions a ranked list by gender.
type Splitter interface {
	Partition(ctx context.Context, rows []store.NameCount) gender.Split
}

// Resolver answers queries. It is a pure function of the request: all state
// lives in the index and the classification cache.
type Resolver struct {
	index    Index
	splitter Splitter
	logger   *slog.Logger
}

// NewResolver wires a resolver to its index and gender splitter.
func NewResolver(index Index, splitter Splitter, logger *slog.Logger) *Resolver {
	if logger == nil {
		logger = slog.Default()
	}
	return &Resolver{index: index, splitter: splitter, logger: logger}
}

// Resolve picks the index path for the request, optionally splits by gender,
// and truncates for display. "No matches" is a valid empty result, never an
// error.
func (r *Resolver) Resolve(ctx context.Context, req Request) ([]store.NameCount, error) {
	var (
		rows  []store.NameCount
		shape string
		err   error
	)

	switch {
	case req.Prefix == "" && !req.HasYear:
		shape = "global"
		rows, err = r.index.TopGlobal(ctx, FetchLimit)
	case req.Prefix == "" && req.HasYear:
		shape = "year"
		rows, err = r.index.TopByYear(ctx, req.Year, FetchLimit)
	case req.Prefix != "" && !req.HasYear:
		shape = "prefix"
		rows, err = r.index.TopByPrefix(ctx, req.Prefix, FetchLimit)
	default:
		shape = "year_prefix"
		rows, err = r.index.TopByYearAndPrefix(ctx, req.Year, req.Prefix, FetchLimit)
	}
	if err != nil {
		return nil, err
	}
	metrics.Queries.WithLabelValues(shape).Inc()

	if req.Gender != "" {
		split := r.splitter.Partition(ctx, rows)
		if req.Gender == "m" {
			rows = split.M
		} else {
			rows = split.F
		}
	}

	if len(rows) > DisplayLimit {
		rows = rows[:DisplayLimit]
	}
	if rows == nil {
		rows = []store.NameCount{}
	}
	return rows, nil
}
