package main

import (
	"crypto/sha256"
	"database/sql"
	"encoding/hex"
	"fmt"
	"log/slog"
	"time"

	_ "modernc.org/sqlite"
)

const timestampLayout = "2006-01-02 15:04:05"

// VisitorMetric is one tracked page view. The IP is stored hashed.
type VisitorMetric struct {
	ID        int       `json:"id"`
	HashedIP  string    `json:"hashed_ip"`
	UserAgent string    `json:"user_agent"`
	Path      string    `json:"path"`
	Timestamp time.Time `json:"timestamp"`
}

// ArtworkStat counts how often an artwork was opened in the viewer.
type ArtworkStat struct {
	Filename string    `json:"filename"`
	Index    int       `json:"index"`
	Views    int       `json:"views"`
	LastSeen time.Time `json:"last_seen"`
}

type AdminStats struct {
	TotalVisitors     int64           `json:"total_visitors"`
	UniqueVisitors    int64           `json:"unique_visitors"`
	TotalArtworkViews int64           `json:"total_artwork_views"`
	GalleryImages     int             `json:"gallery_images"`
	TopArtworks       []ArtworkStat   `json:"top_artworks"`
	RecentVisitors    []VisitorMetric `json:"recent_visitors"`
	VisitorsToday     int64           `json:"visitors_today"`
	VisitorsThisWeek  int64           `json:"visitors_this_week"`
}

// Analytics records privacy-conscious visitor and artwork view counts in SQLite.
type Analytics struct {
	db     *sql.DB
	salt   string
	logger *slog.Logger
	now    func() time.Time
}

// OpenAnalytics opens (or creates) the database at path and migrates it.
func OpenAnalytics(path string, salt string, logger *slog.Logger) (*Analytics, error) {
	db, err := sql.Open("sqlite", path)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	// One connection keeps ":memory:" databases shared and writes serialized.
	db.SetMaxOpenConns(1)

	a := &Analytics{
		db:     db,
		salt:   salt,
		logger: logger,
		now:    func() time.Time { return time.Now().UTC() },
	}

	if err := a.migrate(); err != nil {
		db.Close()
		return nil, fmt.Errorf("failed to migrate database: %w", err)
	}

	logger.Info("privacy-conscious visitor tracking initialized", "database", path)
	return a, nil
}

func (a *Analytics) migrate() error {
	schema := `
	CREATE TABLE IF NOT EXISTS visitors (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		hashed_ip TEXT NOT NULL,
		user_agent TEXT,
		path TEXT,
		timestamp TEXT NOT NULL
	);

	CREATE TABLE IF NOT EXISTS artwork_views (
		id INTEGER PRIMARY KEY AUTOINCREMENT,
		filename TEXT NOT NULL,
		art_index INTEGER NOT NULL,
		hashed_ip TEXT NOT NULL,
		timestamp TEXT NOT NULL
	);

	CREATE INDEX IF NOT EXISTS idx_visitors_timestamp ON visitors(timestamp);
	CREATE INDEX IF NOT EXISTS idx_artwork_views_filename ON artwork_views(filename);
	`

	_, err := a.db.Exec(schema)
	return err
}

// Close closes the database.
func (a *Analytics) Close() error {
	return a.db.Close()
}

// HashIP hashes an address with the per-process salt (consistent per IP).
func (a *Analytics) HashIP(ip string) string {
	hash := sha256.New()
	hash.Write([]byte(ip + a.salt))
	return hex.EncodeToString(hash.Sum(nil))[:16]
}

// TrackVisitor records a page view.
func (a *Analytics) TrackVisitor(ip, userAgent, path string) {
	_, err := a.db.Exec(`
		INSERT INTO visitors (hashed_ip, user_agent, path, timestamp)
		VALUES (?, ?, ?, ?)
	`, a.HashIP(ip), userAgent, path, a.now().Format(timestampLayout))

	if err != nil {
		a.logger.Error("failed to record visitor", "error", err)
	}
}

// TrackArtworkView records that an artwork was opened in the viewer.
func (a *Analytics) TrackArtworkView(ip, filename string, index int) {
	_, err := a.db.Exec(`
		INSERT INTO artwork_views (filename, art_index, hashed_ip, timestamp)
		VALUES (?, ?, ?, ?)
	`, filename, index, a.HashIP(ip), a.now().Format(timestampLayout))

	if err != nil {
		a.logger.Error("failed to record artwork view", "filename", filename, "error", err)
	}
}

// CleanupOldData removes records older than 12 months.
func (a *Analytics) CleanupOldData() (int64, error) {
	cutoff := a.now().AddDate(-1, 0, 0).Format(timestampLayout)

	var removed int64
	for _, table := range []string{"visitors", "artwork_views"} {
		result, err := a.db.Exec(`DELETE FROM `+table+` WHERE timestamp < ?`, cutoff)
		if err != nil {
			return removed, fmt.Errorf("failed to clean up %s: %w", table, err)
		}
		n, _ := result.RowsAffected()
		removed += n
	}

	if removed > 0 {
		a.logger.Info("privacy cleanup removed old records", "rows", removed)
	}
	return removed, nil
}

// CleanupAndLog runs CleanupOldData and logs a failure instead of returning it.
func (a *Analytics) CleanupAndLog() {
	if _, err := a.CleanupOldData(); err != nil {
		a.logger.Error("privacy cleanup failed", "error", err)
	}
}

// Stats gathers the dashboard numbers.
func (a *Analytics) Stats() (*AdminStats, error) {
	stats := &AdminStats{}
	now := a.now()
	today := now.Format("2006-01-02")
	weekAgo := now.AddDate(0, 0, -7).Format(timestampLayout)

	counts := []struct {
		query string
		args  []any
		dest  *int64
	}{
		{"SELECT COUNT(*) FROM visitors", nil, &stats.TotalVisitors},
		{"SELECT COUNT(DISTINCT hashed_ip) FROM visitors", nil, &stats.UniqueVisitors},
		{"SELECT COUNT(*) FROM artwork_views", nil, &stats.TotalArtworkViews},
		{"SELECT COUNT(*) FROM visitors WHERE substr(timestamp, 1, 10) = ?", []any{today}, &stats.VisitorsToday},
		{"SELECT COUNT(*) FROM visitors WHERE timestamp >= ?", []any{weekAgo}, &stats.VisitorsThisWeek},
	}
	for _, c := range counts {
		if err := a.db.QueryRow(c.query, c.args...).Scan(c.dest); err != nil {
			return nil, err
		}
	}

	top, err := a.TopArtworks(10)
	if err != nil {
		return nil, err
	}
	stats.TopArtworks = top

	recent, err := a.RecentVisitors(50)
	if err != nil {
		return nil, err
	}
	stats.RecentVisitors = recent

	return stats, nil
}

// TopArtworks returns the most viewed artworks.
func (a *Analytics) TopArtworks(limit int) ([]ArtworkStat, error) {
	rows, err := a.db.Query(`
		SELECT filename, MAX(art_index), COUNT(*) AS views, MAX(timestamp)
		FROM artwork_views
		GROUP BY filename
		ORDER BY views DESC, filename ASC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var artworks []ArtworkStat
	for rows.Next() {
		var (
			art      ArtworkStat
			lastSeen string
		)
		if err := rows.Scan(&art.Filename, &art.Index, &art.Views, &lastSeen); err != nil {
			continue
		}
		art.LastSeen, _ = time.Parse(timestampLayout, lastSeen)
		artworks = append(artworks, art)
	}
	return artworks, rows.Err()
}

// RecentVisitors returns the latest page views, newest first.
func (a *Analytics) RecentVisitors(limit int) ([]VisitorMetric, error) {
	rows, err := a.db.Query(`
		SELECT id, hashed_ip, COALESCE(user_agent, ''), COALESCE(path, ''), timestamp
		FROM visitors
		ORDER BY timestamp DESC, id DESC
		LIMIT ?
	`, limit)
	if err != nil {
		return nil, err
	}
	defer rows.Close()

	var visitors []VisitorMetric
	for rows.Next() {
		var (
			visitor VisitorMetric
			ts      string
		)
		if err := rows.Scan(&visitor.ID, &visitor.HashedIP, &visitor.UserAgent, &visitor.Path, &ts); err != nil {
			continue
		}
		visitor.Timestamp, _ = time.Parse(timestampLayout, ts)
		visitors = append(visitors, visitor)
	}
	return visitors, rows.Err()
}
