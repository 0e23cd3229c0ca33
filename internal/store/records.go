package store

import (
	"context"
	"fmt"
	"time"
)

// Visit is one tracked page view. The client IP is stored only as a salted
// hash.
type Visit struct {
	ID        int64     `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// Download is one résumé download.
type Download struct {
	ID        int64     `json:"id"`
	Variant   string    `json:"variant"`
	FileName  string    `json:"file_name"`
	HashedIP  string    `json:"hashed_ip"`
	Timestamp time.Time `json:"timestamp"`
}

// VariantCount is the number of downloads of one résumé variant.
type VariantCount struct {
	Variant string `json:"variant"`
	Count   int64  `json:"count"`
}

// Stats is the admin dashboard summary.
type Stats struct {
	TotalVisitors    int64          `json:"total_visitors"`
	UniqueVisitors   int64          `json:"unique_visitors"`
	VisitorsToday    int64          `json:"visitors_today"`
	VisitorsThisWeek int64          `json:"visitors_this_week"`
	TotalDownloads   int64          `json:"total_downloads"`
	Downloads        []VariantCount `json:"downloads"`
	RecentVisitors   []Visit        `json:"recent_visitors"`
	RecentDownloads  []Download     `json:"recent_downloads"`
}

// RecordVisit inserts a visit. A zero timestamp means now.
func (s *Store) RecordVisit(ctx context.Context, v Visit) error {
	if v.Timestamp.IsZero() {
		v.Timestamp = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO visitors (hashed_ip, user_agent, path, visited_at)
		VALUES (?, ?, ?, ?)
	`, v.HashedIP, v.UserAgent, v.Path, v.Timestamp.Unix())
	if err != nil {
		return fmt.Errorf("recording visit: %w", err)
	}
	return nil
}

// RecordDownload inserts a download. A zero timestamp means now.
func (s *Store) RecordDownload(ctx context.Context, d Download) error {
	if d.Timestamp.IsZero() {
		d.Timestamp = time.Now()
	}
	_, err := s.db.ExecContext(ctx, `
		INSERT INTO downloads (variant, file_name, hashed_ip, downloaded_at)
		VALUES (?, ?, ?, ?)
	`, d.Variant, d.FileName, d.HashedIP, d.Timestamp.Unix())
	if err != nil {
		return fmt.Errorf("recording download: %w", err)
	}
	return nil
}

// Stats summarizes activity relative to now.
func (s *Store) Stats(ctx context.Context, now time.Time) (*Stats, error) {
	stats := &Stats{}

	counts := []struct {
		dst   *int64
		query string
		args  []any
	}{
		{&stats.TotalVisitors, `SELECT COUNT(*) FROM visitors`, nil},
		{&stats.UniqueVisitors, `SELECT COUNT(DISTINCT hashed_ip) FROM visitors`, nil},
		{&stats.VisitorsToday, `SELECT COUNT(*) FROM visitors WHERE visited_at >= ?`, []any{startOfDay(now).Unix()}},
		{&stats.VisitorsThisWeek, `SELECT COUNT(*) FROM visitors WHERE visited_at >= ?`, []any{now.AddDate(0, 0, -7).Unix()}},
		{&stats.TotalDownloads, `SELECT COUNT(*) FROM downloads`, nil},
	}
	for _, c := range counts {
		if err := s.db.QueryRowContext(ctx, c.query, c.args...).Scan(c.dst); err != nil {
			return nil, fmt.Errorf("counting: %w", err)
		}
	}

	var err error
	if stats.Downloads, err = s.downloadCounts(ctx); err != nil {
		return nil, err
	}
	if stats.RecentVisitors, err = s.RecentVisitors(ctx, 50); err != nil {
		return nil, err
	}
	if stats.RecentDownloads, err = s.RecentDownloads(ctx, 20); err != nil {
		return nil, err
	}
	return stats, nil
}

func (s *Store) downloadCounts(ctx context.Context) ([]VariantCount, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT variant, COUNT(*) AS n
		FROM downloads
		GROUP BY variant
		ORDER BY n DESC, variant ASC
	`)
	if err != nil {
		return nil, fmt.Errorf("counting downloads: %w", err)
	}
	defer rows.Close()

	var out []VariantCount
	for rows.Next() {
		var vc VariantCount
		if err := rows.Scan(&vc.Variant, &vc.Count); err != nil {
			return nil, fmt.Errorf("scanning download count: %w", err)
		}
		out = append(out, vc)
	}
	return out, rows.Err()
}

// RecentVisitors returns up to limit visits, newest first.
func (s *Store) RecentVisitors(ctx context.Context, limit int) ([]Visit, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, hashed_ip, user_agent, path, visited_at
		FROM visitors
		ORDER BY visited_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing visitors: %w", err)
	}
	defer rows.Close()

	var out []Visit
	for rows.Next() {
		var v Visit
		var ts int64
		if err := rows.Scan(&v.ID, &v.HashedIP, &v.UserAgent, &v.Path, &ts); err != nil {
			return nil, fmt.Errorf("scanning visitor: %w", err)
		}
		v.Timestamp = time.Unix(ts, 0)
		out = append(out, v)
	}
	return out, rows.Err()
}

// RecentDownloads returns up to limit downloads, newest first.
func (s *Store) RecentDownloads(ctx context.Context, limit int) ([]Download, error) {
	rows, err := s.db.QueryContext(ctx, `
		SELECT id, variant, file_name, hashed_ip, downloaded_at
		FROM downloads
		ORDER BY downloaded_at DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, fmt.Errorf("listing downloads: %w", err)
	}
	defer rows.Close()

	var out []Download
	for rows.Next() {
		var d Download
		var ts int64
		if err := rows.Scan(&d.ID, &d.Variant, &d.FileName, &d.HashedIP, &ts); err != nil {
			return nil, fmt.Errorf("scanning download: %w", err)
		}
		d.Timestamp = time.Unix(ts, 0)
		out = append(out, d)
	}
	return out, rows.Err()
}

// PurgeBefore deletes visits and downloads older than cutoff and returns the
// number of rows removed.
func (s *Store) PurgeBefore(ctx context.Context, cutoff time.Time) (int64, error) {
	var total int64
	for _, q := range []string{
		`DELETE FROM visitors WHERE visited_at < ?`,
		`DELETE FROM downloads WHERE downloaded_at < ?`,
	} {
		res, err := s.db.ExecContext(ctx, q, cutoff.Unix())
		if err != nil {
			return total, fmt.Errorf("purging: %w", err)
		}
		n, _ := res.RowsAffected()
		total += n
	}
	return total, nil
}

func startOfDay(t time.Time) time.Time {
	y, m, d := t.Date()
	return time.Date(y, m, d, 0, 0, 0, 0, t.Location())
}
