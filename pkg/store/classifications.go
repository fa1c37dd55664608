package store

import (
	"context"
	"database/sql"
	"fmt"
)

// GetClassification looks up the cached masculinity for a first token.
// found=false means the token was never classified; found=true with a nil
// masculinity means the external service already answered "indeterminate"
// and the token is not worth asking about again.
func (s *Store) GetClassification(ctx context.Context, token string) (masculinity *float64, found bool, err error) {
	var m sql.NullFloat64
	err = s.db.QueryRowContext(ctx,
		`SELECT masculinity FROM gender_classifications WHERE token = ?`, token,
	).Scan(&m)
	if err == sql.ErrNoRows {
		return nil, false, nil
	}
	if err != nil {
		return nil, false, fmt.Errorf("get classification %s: %w", token, err)
	}
	if !m.Valid {
		return nil, true, nil
	}
	return &m.Float64, true, nil
}

// PutClassification stores a classification. The upsert makes concurrent
// queries racing on the same unseen token harmless: the second write is a
// redundant overwrite with the same value, last write wins.
func (s *Store) PutClassification(ctx context.Context, token string, masculinity *float64) error {
	var m sql.NullFloat64
	if masculinity != nil {
		m = sql.NullFloat64{Float64: *masculinity, Valid: true}
	}
	_, err := s.db.ExecContext(ctx,
		`INSERT INTO gender_classifications (token, masculinity) VALUES (?, ?)
		 ON CONFLICT(token) DO UPDATE SET masculinity = excluded.masculinity`,
		token, m)
	if err != nil {
		return fmt.Errorf("put classification %s: %w", token, err)
	}
	return nil
}

// ClassificationCount returns the number of cached classifications.
func (s *Store) ClassificationCount(ctx context.Context) (int, error) {
	var n int
	if err := s.db.QueryRowContext(ctx, `SELECT COUNT(*) FROM gender_classifications`).Scan(&n); err != nil {
		return 0, fmt.Errorf("count classifications: %w", err)
	}
	return n, nil
}
