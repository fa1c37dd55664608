// CLAUDE:SUMMARY CSV reader and in-memory aggregator: expands full names into word prefixes and sums counts per (year, name) and per name.
package names

import (
	"encoding/csv"
	"fmt"
	"io"
	"strconv"
	"strings"
)

// Aggregate holds the accumulated index built from one full pass over the
// raw dataset. It is handed to the store in one piece so the rebuild is
// all-or-nothing.
type Aggregate struct {
	// YearCounts[year][name] = total births for that (year, name) pair,
	// where name may be any word-prefix of a recorded full name.
	YearCounts map[int]map[string]int
	// Totals[name] = sum of YearCounts over all years.
	Totals map[string]int
	// Rows is the number of raw records consumed.
	Rows int
}

// NewAggregate returns an empty accumulator.
func NewAggregate() *Aggregate {
	return &Aggregate{
		YearCounts: make(map[int]map[string]int),
		Totals:     make(map[string]int),
	}
}

// Add accumulates one raw record. "Juan Carlos" contributes to both "juan"
// and "juan carlos", so a prefix query for either finds it.
func (a *Aggregate) Add(fullName string, count, year int) {
	tokens := strings.Fields(Normalize(fullName))
	for i := range tokens {
		name := strings.Join(tokens[:i+1], " ")
		yc, ok := a.YearCounts[year]
		if !ok {
			yc = make(map[string]int)
			a.YearCounts[year] = yc
		}
		yc[name] += count
		a.Totals[name] += count
	}
	a.Rows++
}

// Names returns the number of distinct expanded names accumulated.
func (a *Aggregate) Names() int {
	return len(a.Totals)
}

// ReadCSV consumes the historical dataset (full_name, count, year columns,
// header row skipped) and accumulates every row. A malformed count or year
// aborts with the offending row number: consumers read a live index, so a
// partial rebuild is worse than no rebuild.
func ReadCSV(r io.Reader) (*Aggregate, error) {
	cr := csv.NewReader(r)
	cr.LazyQuotes = true
	cr.TrimLeadingSpace = true

	// Saltear títulos.
	if _, err := cr.Read(); err != nil {
		if err == io.EOF {
			return nil, fmt.Errorf("empty dataset: no header row")
		}
		return nil, fmt.Errorf("read header: %w", err)
	}

	agg := NewAggregate()
	row := 1
	for {
		record, err := cr.Read()
		if err == io.EOF {
			break
		}
		row++
		if err != nil {
			return nil, fmt.Errorf("row %d: %w", row, err)
		}
		if len(record) < 3 {
			return nil, fmt.Errorf("row %d: expected 3 columns (name, count, year), got %d", row, len(record))
		}

		fullName := strings.TrimSpace(record[0])
		if fullName == "" {
			continue
		}
		count, err := strconv.Atoi(strings.TrimSpace(record[1]))
		if err != nil {
			return nil, fmt.Errorf("row %d: bad count %q: %w", row, record[1], err)
		}
		year, err := strconv.Atoi(strings.TrimSpace(record[2]))
		if err != nil {
			return nil, fmt.Errorf("row %d: bad year %q: %w", row, record[2], err)
		}

		agg.Add(fullName, count, year)
	}
	return agg, nil
}
