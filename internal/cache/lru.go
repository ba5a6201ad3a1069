package cache

import (
	lru "github.com/hashicorp/golang-lru/v2"

	"github.com/relink-dev/relink/internal/models"
)

// LinkCache keeps hot links in memory so the redirect path can skip the
// store. Links are immutable, so entries never go stale; expiry is evaluated
// against the cached record on every hit.
type LinkCache struct {
	c *lru.Cache[string, *models.Link]
}

func New(size int) (*LinkCache, error) {
	c, err := lru.New[string, *models.Link](size)
	if err != nil {
		return nil, err
	}
	return &LinkCache{c: c}, nil
}

func (lc *LinkCache) Get(code string) (*models.Link, bool) {
	return lc.c.Get(code)
}

func (lc *LinkCache) Set(code string, link *models.Link) {
	lc.c.Add(code, link)
}
