package shortener

import (
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/relink-dev/relink/internal/analytics"
	"github.com/relink-dev/relink/internal/code"
	"github.com/relink-dev/relink/internal/db"
	"github.com/relink-dev/relink/internal/models"
)

const (
	generateAttempts = 8
	statsDayCap      = 30
	statsCountryCap  = 10
	statsRecentCap   = 25
)

// Service owns the link lifecycle: creation with collision handling,
// resolution with expiry checks, and read-side aggregation.
type Service struct {
	db      *sql.DB
	baseURL string
	now     func() time.Time
	gen     func() (string, error)
}

type CreateRequest struct {
	TargetURL  string
	CustomCode string
	ExpiresAt  string
	CreatorIP  string
	CreatorUA  string
}

type Stats struct {
	Code           string                `json:"code"`
	TotalClicks    int                   `json:"total_clicks"`
	UniqueVisitors int                   `json:"unique_visitors"`
	ClicksByDay    []models.DayCount     `json:"clicks_by_day"`
	TopCountries   []models.CountryCount `json:"top_countries"`
	RecentClicks   []models.RecentClick  `json:"recent_clicks"`
}

func New(database *sql.DB, baseURL string) *Service {
	return &Service{
		db:      database,
		baseURL: baseURL,
		now:     time.Now,
		gen:     code.Generate,
	}
}

// Create validates the request and persists a new link. A supplied custom
// code gets exactly one insert attempt; a generated code is retried on
// collision. Uniqueness is arbitrated by the store's primary key, never by
// pre-checking, so concurrent creators racing on the same code cannot both
// win.
func (s *Service) Create(req CreateRequest) (*models.Link, error) {
	target := strings.TrimSpace(req.TargetURL)
	if !strings.HasPrefix(target, "http://") && !strings.HasPrefix(target, "https://") {
		return nil, ErrInvalidURL
	}
	if req.ExpiresAt != "" {
		if _, err := time.Parse(time.RFC3339, req.ExpiresAt); err != nil {
			return nil, ErrInvalidExpiry
		}
	}

	link := &models.Link{
		TargetURL:        target,
		CreatedAt:        s.now().UTC().Format(time.RFC3339),
		ExpiresAt:        req.ExpiresAt,
		CreatedIP:        req.CreatorIP,
		CreatedUserAgent: req.CreatorUA,
	}

	if req.CustomCode != "" {
		if !code.ValidCustom(req.CustomCode) {
			return nil, ErrInvalidCode
		}
		link.Code = req.CustomCode
		if err := models.InsertLink(s.db, link); err != nil {
			if db.IsUniqueViolation(err) {
				return nil, ErrCodeTaken
			}
			return nil, err
		}
		link.FillShortURL(s.baseURL)
		return link, nil
	}

	for i := 0; i < generateAttempts; i++ {
		c, err := s.gen()
		if err != nil {
			return nil, fmt.Errorf("generate code: %w", err)
		}
		link.Code = c
		err = models.InsertLink(s.db, link)
		if err == nil {
			link.FillShortURL(s.baseURL)
			return link, nil
		}
		if !db.IsUniqueViolation(err) {
			return nil, err
		}
	}
	return nil, ErrGenerate
}

// Resolve returns the link for code, or ErrNotFound / ErrExpired. It does
// not record the click; that is the caller's side effect.
func (s *Service) Resolve(c string) (*models.Link, error) {
	link, err := models.GetLinkByCode(s.db, c)
	if err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get link: %w", err)
	}
	if IsExpired(link.ExpiresAt, s.now()) {
		return nil, ErrExpired
	}
	link.FillShortURL(s.baseURL)
	return link, nil
}

// Stats aggregates the click log for one code. The browser/OS/device columns
// of recent clicks are parsed from the stored user agent on the way out.
func (s *Service) Stats(c string) (*Stats, error) {
	if _, err := models.GetLinkByCode(s.db, c); err != nil {
		if errors.Is(err, sql.ErrNoRows) {
			return nil, ErrNotFound
		}
		return nil, fmt.Errorf("get link: %w", err)
	}

	total, err := models.TotalClicks(s.db, c)
	if err != nil {
		return nil, fmt.Errorf("total clicks: %w", err)
	}
	uniques, err := models.UniqueVisitors(s.db, c)
	if err != nil {
		return nil, fmt.Errorf("unique visitors: %w", err)
	}
	byDay, err := models.ClicksByDay(s.db, c, statsDayCap)
	if err != nil {
		return nil, err
	}
	countries, err := models.TopCountries(s.db, c, statsCountryCap)
	if err != nil {
		return nil, err
	}
	recent, err := models.RecentClicks(s.db, c, statsRecentCap)
	if err != nil {
		return nil, err
	}
	for i := range recent {
		recent[i].Browser, recent[i].OS, recent[i].Device = analytics.Summarize(recent[i].UserAgent)
	}

	return &Stats{
		Code:           c,
		TotalClicks:    total,
		UniqueVisitors: uniques,
		ClicksByDay:    byDay,
		TopCountries:   countries,
		RecentClicks:   recent,
	}, nil
}

// Summaries lists every link with its click counts and an expired flag.
func (s *Service) Summaries() ([]models.LinkSummary, error) {
	summaries, err := models.ListLinkSummaries(s.db)
	if err != nil {
		return nil, err
	}
	now := s.now()
	for i := range summaries {
		summaries[i].Expired = IsExpired(summaries[i].ExpiresAt, now)
	}
	return summaries, nil
}
