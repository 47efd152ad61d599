package store

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"time"
)

type LinkStat struct {
	Slug      string    `json:"slug"`
	Target    string    `json:"target"`
	Clicks    int64     `json:"clicks"`
	LastClick time.Time `json:"last_click"`
}

type Stats struct {
	TotalVisitors    int64             `json:"total_visitors"`
	UniqueVisitors   int64             `json:"unique_visitors"`
	VisitorsToday    int64             `json:"visitors_today"`
	VisitorsThisWeek int64             `json:"visitors_this_week"`
	ResumeDownloads  int64             `json:"resume_downloads"`
	TotalClicks      int64             `json:"total_clicks"`
	TopLinks         []LinkStat        `json:"top_links"`
	ContactOutcomes  map[Outcome]int64 `json:"contact_outcomes"`
	RecentVisitors   []Visit           `json:"recent_visitors"`
}

// Stats gathers the dashboard numbers.
func (s *Store) Stats(ctx context.Context) (*Stats, error) {
	now := s.now().UTC()
	midnight := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC)
	weekAgo := now.Add(-7 * 24 * time.Hour)

	stats := &Stats{ContactOutcomes: make(map[Outcome]int64)}

	counters := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{midnight.Unix()}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE timestamp >= ?`, []any{weekAgo.Unix()}},
		{&stats.ResumeDownloads, `SELECT COUNT(*) FROM downloads`, nil},
		{&stats.TotalClicks, `SELECT COALESCE(SUM(clicks), 0) FROM link_clicks`, nil},
	}
	for _, c := range counters {
		if err := s.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("loading stats: %w", err)
		}
	}

	links, err := s.TopLinks(ctx, 10)
	if err != nil {
		return nil, err
	}
	stats.TopLinks = links

	rows, err := s.db.QueryContext(ctx, `SELECT outcome, COUNT(*) FROM contact_outcomes GROUP BY outcome`)
	if err != nil {
		return nil, fmt.Errorf("loading contact outcomes: %w", err)
	}
	defer rows.Close()
	for rows.Next() {
		var (
			outcome string
			count   int64
		)
		if err := rows.Scan(&outcome, &count); err != nil {
			return nil, err
		}
		stats.ContactOutcomes[Outcome(outcome)] = count
	}
	if err := rows.Err(); err != nil {
		return nil, err
	}
	rows.Close()

	recent, err := s.RecentVisitors(ctx, 50)
	if err != nil {
		return nil, err
	}
	stats.RecentVisitors = recent

	return stats, nil
}

// TopLinks returns the most clicked project links.
func (s *Store) TopLinks(ctx context.Context, limit int) ([]LinkStat, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT slug, target, clicks, COALESCE(last_click, 0)
		FROM link_clicks
		ORDER BY clicks DESC, last_click DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("loading top links: %w", err)
	}
	defer rows.Close()

	var links []LinkStat
	for rows.Next() {
		var (
			link LinkStat
			last int64
		)
		if err := rows.Scan(&link.Slug, &link.Target, &link.Clicks, &last); err != nil {
			return nil, err
		}
		link.LastClick = time.Unix(last, 0).UTC()
		links = append(links, link)
	}
	return links, rows.Err()
}

// Clicks returns the click count of one project link.
func (s *Store) Clicks(ctx context.Context, slug, target string) (int64, error) {
	var clicks int64
	err := s.db.QueryRowContext(ctx,
		`SELECT clicks FROM link_clicks WHERE slug = ? AND target = ?`, slug, target,
	).Scan(&clicks)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return 0, ErrNotFound
		}
		return 0, err
	}
	return clicks, nil
}

func (s *Store) RecentVisitors(ctx context.Context, limit int) ([]Visit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), timestamp
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("loading visitors: %w", err)
	}
	defer rows.Close()

	var visits []Visit
	for rows.Next() {
		var (
			v  Visit
			ts int64
		)
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts); err != nil {
			return nil, err
		}
		v.Timestamp = time.Unix(ts, 0).UTC()
		visits = append(visits, v)
	}
	return visits, rows.Err()
}
