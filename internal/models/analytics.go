package models

import (
	"database/sql"
	"fmt"
)

type DayCount struct {
	Day            string `json:"day"`
	Clicks         int    `json:"clicks"`
	UniqueVisitors int    `json:"unique_visitors"`
}

type CountryCount struct {
	Country string `json:"country"`
	Clicks  int    `json:"clicks"`
}

// RecentClick is a read-side view of a click row. Browser, OS and Device are
// derived from the stored user agent at query time, not persisted.
type RecentClick struct {
	At        string `json:"at"`
	IP        string `json:"ip,omitempty"`
	Country   string `json:"country,omitempty"`
	UserAgent string `json:"user_agent,omitempty"`
	Referer   string `json:"referer,omitempty"`
	Browser   string `json:"browser,omitempty"`
	OS        string `json:"os,omitempty"`
	Device    string `json:"device,omitempty"`
}

type LinkSummary struct {
	Code           string `json:"code"`
	TargetURL      string `json:"target_url"`
	CreatedAt      string `json:"created_at"`
	ExpiresAt      string `json:"expires_at,omitempty"`
	Expired        bool   `json:"expired"`
	TotalClicks    int    `json:"total_clicks"`
	UniqueVisitors int    `json:"unique_visitors"`
}

func TotalClicks(db *sql.DB, code string) (int, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(*) FROM clicks WHERE code = ?`, code).Scan(&count)
	return count, err
}

func UniqueVisitors(db *sql.DB, code string) (int, error) {
	var count int
	err := db.QueryRow(`SELECT COUNT(DISTINCT ip) FROM clicks WHERE code = ? AND ip != ''`, code).Scan(&count)
	return count, err
}

// ClicksByDay groups clicks by the date portion of their timestamp, most
// recent day first, capped at 30 days.
func ClicksByDay(db *sql.DB, code string, limit int) ([]DayCount, error) {
	rows, err := db.Query(
		`SELECT substr(at, 1, 10) AS day, COUNT(*), COUNT(DISTINCT NULLIF(ip, ''))
		FROM clicks WHERE code = ?
		GROUP BY day ORDER BY day DESC LIMIT ?`,
		code, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("clicks by day: %w", err)
	}
	defer rows.Close()

	var results []DayCount
	for rows.Next() {
		var d DayCount
		if err := rows.Scan(&d.Day, &d.Clicks, &d.UniqueVisitors); err != nil {
			return nil, fmt.Errorf("scan day count: %w", err)
		}
		results = append(results, d)
	}
	return results, rows.Err()
}

func TopCountries(db *sql.DB, code string, limit int) ([]CountryCount, error) {
	rows, err := db.Query(
		`SELECT country, COUNT(*) AS cnt FROM clicks WHERE code = ? AND country != '' GROUP BY country ORDER BY cnt DESC LIMIT ?`,
		code, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("top countries: %w", err)
	}
	defer rows.Close()

	var results []CountryCount
	for rows.Next() {
		var c CountryCount
		if err := rows.Scan(&c.Country, &c.Clicks); err != nil {
			return nil, fmt.Errorf("scan country: %w", err)
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

func RecentClicks(db *sql.DB, code string, limit int) ([]RecentClick, error) {
	rows, err := db.Query(
		`SELECT at, ip, country, user_agent, referer FROM clicks WHERE code = ? ORDER BY at DESC, id DESC LIMIT ?`,
		code, limit,
	)
	if err != nil {
		return nil, fmt.Errorf("recent clicks: %w", err)
	}
	defer rows.Close()

	var results []RecentClick
	for rows.Next() {
		var c RecentClick
		if err := rows.Scan(&c.At, &c.IP, &c.Country, &c.UserAgent, &c.Referer); err != nil {
			return nil, fmt.Errorf("scan recent click: %w", err)
		}
		results = append(results, c)
	}
	return results, rows.Err()
}

// ListLinkSummaries returns every link with its click counts, newest first.
// The LEFT JOIN keeps zero-click links in the result with zero counts.
func ListLinkSummaries(db *sql.DB) ([]LinkSummary, error) {
	rows, err := db.Query(
		`SELECT u.code, u.target_url, u.created_at, u.expires_at,
			COUNT(c.id), COUNT(DISTINCT NULLIF(c.ip, ''))
		FROM urls u
		LEFT JOIN clicks c ON c.code = u.code
		GROUP BY u.code
		ORDER BY u.created_at DESC, u.code`,
	)
	if err != nil {
		return nil, fmt.Errorf("list summaries: %w", err)
	}
	defer rows.Close()

	var results []LinkSummary
	for rows.Next() {
		var s LinkSummary
		if err := rows.Scan(&s.Code, &s.TargetURL, &s.CreatedAt, &s.ExpiresAt, &s.TotalClicks, &s.UniqueVisitors); err != nil {
			return nil, fmt.Errorf("scan summary: %w", err)
		}
		results = append(results, s)
	}
	return results, rows.Err()
}
