package models

import (
	"database/sql"
	"fmt"
	"strings"
)

// Link maps a short code to a target URL. Timestamps are UTC RFC3339 strings;
// ExpiresAt is empty for links that never expire. Links are immutable once
// created.
type Link struct {
	Code             string `json:"code"`
	TargetURL        string `json:"target_url"`
	CreatedAt        string `json:"created_at"`
	ExpiresAt        string `json:"expires_at,omitempty"`
	CreatedIP        string `json:"-"`
	CreatedUserAgent string `json:"-"`
	ShortURL         string `json:"short_url,omitempty"`
}

func (l *Link) FillShortURL(baseURL string) {
	l.ShortURL = strings.TrimRight(baseURL, "/") + "/" + l.Code
}

// InsertLink attempts exactly one insert. A duplicate code surfaces as the
// driver's constraint error, classified by db.IsUniqueViolation upstream.
func InsertLink(db *sql.DB, l *Link) error {
	_, err := db.Exec(
		`INSERT INTO urls (code, target_url, created_at, expires_at, created_ip, created_user_agent) VALUES (?, ?, ?, ?, ?, ?)`,
		l.Code, l.TargetURL, l.CreatedAt, l.ExpiresAt, l.CreatedIP, l.CreatedUserAgent,
	)
	if err != nil {
		return fmt.Errorf("insert link: %w", err)
	}
	return nil
}

// GetLinkByCode returns sql.ErrNoRows when no link has the code.
func GetLinkByCode(db *sql.DB, code string) (*Link, error) {
	l := &Link{}
	row := db.QueryRow(
		`SELECT code, target_url, created_at, expires_at, created_ip, created_user_agent FROM urls WHERE code = ?`,
		code,
	)
	if err := row.Scan(&l.Code, &l.TargetURL, &l.CreatedAt, &l.ExpiresAt, &l.CreatedIP, &l.CreatedUserAgent); err != nil {
		return nil, err
	}
	return l, nil
}
