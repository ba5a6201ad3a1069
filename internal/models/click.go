package models

import (
	"database/sql"
	"fmt"
)

// Click records one successful resolution of a link. Rows are append-only.
// Optional fields are stored as empty strings and filtered with != '' in
// aggregate queries.
type Click struct {
	ID        int64
	Code      string
	At        string
	IP        string
	UserAgent string
	Referer   string
	Country   string
	City      string
}

func InsertClick(db *sql.DB, c *Click) error {
	res, err := db.Exec(
		`INSERT INTO clicks (code, at, ip, user_agent, referer, country, city) VALUES (?, ?, ?, ?, ?, ?, ?)`,
		c.Code, c.At, c.IP, c.UserAgent, c.Referer, c.Country, c.City,
	)
	if err != nil {
		return fmt.Errorf("insert click: %w", err)
	}
	id, _ := res.LastInsertId()
	c.ID = id
	return nil
}
