// CLAUDE:SUMMARY Cache-through gender classifier: first-token lookup, batched external fetch for misses, f/m partition with the historical 0.4/0.6 thresholds.
package gender

import (
	"context"
	"log/slog"

	"github.com/ralsina/nombres/pkg/metrics"
	"github.com/ralsina/nombres/pkg/names"
	"github.com/ralsina/nombres/pkg/store"
)

// Cache is the classification cache the classifier reads through. found with
// a nil masculinity means "service already said indeterminate, don't ask
// again"; not found means "never asked".
type Cache interface {
	GetClassification(ctx context.Context, token string) (masculinity *float64, found bool, err error)
	PutClassification(ctx context.Context, token string, masculinity *float64) error
}

// Lookuper issues one external batch lookup of up to BatchSize tokens.
type Lookuper interface {
	Lookup(ctx context.Context, tokens []string) ([]Result, error)
}

// Classifier partitions ranked name lists into female and male subsets,
// lazily classifying first tokens it has not seen before.
type Classifier struct {
	cache  Cache
	client Lookuper
	logger *slog.Logger
}

// NewClassifier wires the classifier to its cache and external client.
func NewClassifier(cache Cache, client Lookuper, logger *slog.Logger) *Classifier {
	if logger == nil {
		logger = slog.Default()
	}
	return &Classifier{cache: cache, client: client, logger: logger}
}

// Split is a ranked name list partitioned by likely gender. A name whose
// token could not be classified appears in both halves: a classifier fault
// must never silently drop a name from the results.
type Split struct {
	F []store.NameCount `json:"f"`
	M []store.NameCount `json:"m"`
}

// tokenState is the per-query view of one first token. The distinction
// between indeterminate and unavailable matters: indeterminate came from the
// service and is persisted for good, unavailable is a transient fault this
// query only and stays retryable.
type tokenState int

const (
	scored tokenState = iota
	indeterminate
	unavailable
)

type verdict struct {
	state       tokenState
	masculinity float64
}

// Partition classifies every name's first token (from cache or the external
// service) and buckets the list. The 0.4/0.6 threshold chain reproduces the
// behaviour this dataset has always had: a masculinity in (0.4, 0.6) lands
// in the male bucket because the first branch wins.
func (c *Classifier) Partition(ctx context.Context, rows []store.NameCount) Split {
	view := c.classifyTokens(ctx, rows)

	split := Split{F: []store.NameCount{}, M: []store.NameCount{}}
	for _, row := range rows {
		v, ok := view[names.FirstToken(row.Name)]
		switch {
		case !ok || v.state != scored:
			// No clasificado: en ambos.
			split.F = append(split.F, row)
			split.M = append(split.M, row)
		case 0.4 < v.masculinity:
			split.M = append(split.M, row)
		case v.masculinity < 0.6:
			split.F = append(split.F, row)
		}
	}
	return split
}

// classifyTokens resolves every unique first token to a verdict, fetching
// uncached ones from the external service in batches.
func (c *Classifier) classifyTokens(ctx context.Context, rows []store.NameCount) map[string]verdict {
	view := make(map[string]verdict)
	var missing []string

	for _, row := range rows {
		token := names.FirstToken(row.Name)
		if token == "" {
			continue
		}
		if _, seen := view[token]; seen {
			continue
		}

		masc, found, err := c.cache.GetClassification(ctx, token)
		if err != nil {
			c.logger.Warn("classification cache read failed", "token", token, "error", err)
			view[token] = verdict{state: unavailable}
			continue
		}
		switch {
		case !found:
			// First-seen order keeps batch boundaries stable.
			view[token] = verdict{state: unavailable}
			missing = append(missing, token)
			metrics.CacheMisses.Inc()
		case masc == nil:
			view[token] = verdict{state: indeterminate}
			metrics.CacheHits.Inc()
		default:
			view[token] = verdict{state: scored, masculinity: *masc}
			metrics.CacheHits.Inc()
		}
	}

	if len(missing) > 0 {
		c.logger.Info("classifying tokens", "count", len(missing))
	}
	for start := 0; start < len(missing); start += BatchSize {
		end := start + BatchSize
		if end > len(missing) {
			end = len(missing)
		}
		c.fetchBatch(ctx, missing[start:end], view)
	}
	return view
}

// fetchBatch asks the external service about one batch and records the
// outcome both in the per-query view and, for everything the service
// actually answered, in the persistent cache. A failed batch persists
// nothing: those tokens must be retried on a later query.
func (c *Classifier) fetchBatch(ctx context.Context, tokens []string, view map[string]verdict) {
	results, err := c.client.Lookup(ctx, tokens)
	if err != nil {
		c.logger.Warn("gender lookup failed, tokens stay unclassified this query", "tokens", len(tokens), "error", err)
		return
	}

	answered := make(map[string]bool, len(results))
	for _, res := range results {
		if res.Name == "" {
			continue
		}
		// Keyed by the spelling the service returned, normalized the same
		// way lookups are.
		token := names.Normalize(res.Name)

		var masc *float64
		switch res.Gender {
		case "male":
			p := res.Probability
			masc = &p
		case "female":
			p := 1 - res.Probability
			masc = &p
		default:
			// Probablemente un acento o algo así.
			c.logger.Warn("indeterminate classification", "token", token, "gender", res.Gender)
		}

		if err := c.cache.PutClassification(ctx, token, masc); err != nil {
			c.logger.Warn("classification cache write failed", "token", token, "error", err)
		}
		answered[token] = true
		if masc != nil {
			view[token] = verdict{state: scored, masculinity: *masc}
		} else {
			view[token] = verdict{state: indeterminate}
		}
	}

	// Tokens the service omitted entirely are indeterminate, not an error.
	// Persist the skip so the next query does not ask again.
	for _, token := range tokens {
		if answered[token] {
			continue
		}
		if err := c.cache.PutClassification(ctx, token, nil); err != nil {
			c.logger.Warn("classification cache write failed", "token", token, "error", err)
		}
		view[token] = verdict{state: indeterminate}
	}
}
