package store

import (
	"context"
	"fmt"
	"time"
)

// Visit is one tracked page view. The IP is hashed before it gets here.
type Visit struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

func (s *Store) RecordVisit(ctx context.Context, hashedIP, userAgent, path string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, user_agent, path, timestamp)
		VALUES (?, ?, ?, ?)
	`, hashedIP, userAgent, path, s.now().Unix())
	if err != nil {
		return fmt.Errorf("recording visit: %w", err)
	}
	return nil
}

// RecordClick counts one click on a project's outbound link.
func (s *Store) RecordClick(ctx context.Context, slug, target string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO link_clicks (slug, target, clicks, last_click)
		VALUES (?, ?, 1, ?)
		ON CONFLICT (slug, target) DO UPDATE SET
			clicks = clicks + 1,
			last_click = excluded.last_click
	`, slug, target, s.now().Unix())
	if err != nil {
		return fmt.Errorf("recording click on %s/%s: %w", slug, target, err)
	}
	return nil
}

func (s *Store) RecordDownload(ctx context.Context, name, hashedIP string) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO downloads (name, hashed_ip, timestamp) VALUES (?, ?, ?)
	`, name, hashedIP, s.now().Unix())
	if err != nil {
		return fmt.Errorf("recording download of %s: %w", name, err)
	}
	return nil
}

func (s *Store) RecordOutcome(ctx context.Context, outcome Outcome) error {
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO contact_outcomes (outcome, timestamp) VALUES (?, ?)
	`, string(outcome), s.now().Unix())
	if err != nil {
		return fmt.Errorf("recording contact outcome: %w", err)
	}
	return nil
}

// CleanupVisitors deletes visits older than maxAge and returns how many were
// removed.
func (s *Store) CleanupVisitors(ctx context.Context, maxAge time.Duration) (int64, error) {
	cutoff := s.now().Add(-maxAge).Unix()
	result, err := s.db.ExecContext(ctx, `DELETE FROM visitors WHERE timestamp < ?`, cutoff)
	if err != nil {
		return 0, fmt.Errorf("cleaning up visitors: %w", err)
	}
	return result.RowsAffected()
}
